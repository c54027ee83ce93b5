package calls

// ApplyDerived recomputes every derived field on the record.
//
// It runs unconditionally before each save, not only on status changes:
// - DurationSeconds = floor(endTime - startTime) in whole seconds, whenever
//   both timestamps are present.
// - Sales.BANTScore = budget + authority + need + timeline, whenever a
//   breakdown is present.
//
// Pure derivation: it mutates the in-memory record and never fails. Saving
// twice without changing the inputs yields the same outputs.
func ApplyDerived(c *Call) {
	if c == nil {
		return
	}
	if !c.StartTime.IsZero() && c.EndTime != nil {
		d := c.EndTime.Sub(c.StartTime)
		c.DurationSeconds = int(d.Seconds())
		if c.DurationSeconds < 0 {
			c.DurationSeconds = 0
		}
	}
	if c.Sales != nil && c.Sales.BANTBreakdown != nil {
		b := c.Sales.BANTBreakdown
		c.Sales.BANTScore = b.Budget + b.Authority + b.Need + b.Timeline
	}
}
