package calls

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"
)

// PostgresRepo persists call records in a single call_records table.
//
// Schema assumptions:
// - call_records(call_id PK, type, caller, receiver, start_time, end_time,
//   duration, status, transcript, audio_file, language, interruption_count,
//   satisfaction, sales JSONB, message_ids JSONB, created_at, updated_at)
//
// The sales sub-document and the message-reference list are stored as JSONB;
// they are read and written as part of the record, which keeps the
// per-record atomicity the lifecycle rules rely on.

type PostgresRepo struct {
	db *sql.DB
}

func NewPostgresRepo(db *sql.DB) *PostgresRepo { return &PostgresRepo{db: db} }

var callSortColumns = map[string]string{
	"startTime": "start_time",
	"createdAt": "created_at",
	"duration":  "duration",
	"status":    "status",
}

const callColumns = `call_id, type, caller, receiver, start_time, end_time, duration, status,
transcript, audio_file, language, interruption_count, satisfaction, sales, message_ids,
created_at, updated_at`

func (r *PostgresRepo) Get(ctx context.Context, callID string) (Call, error) {
	q := `SELECT ` + callColumns + ` FROM call_records WHERE call_id = $1`
	return scanCall(r.db.QueryRowContext(ctx, q, callID))
}

func (r *PostgresRepo) List(ctx context.Context, f ListFilter) ([]Call, int, error) {
	f = f.Normalized()

	where := make([]string, 0, 5)
	args := make([]any, 0, 6)
	arg := func(v any) string {
		args = append(args, v)
		return fmt.Sprintf("$%d", len(args))
	}

	if f.Status != "" {
		where = append(where, "status = "+arg(string(f.Status)))
	}
	if f.Type != "" {
		where = append(where, "type = "+arg(string(f.Type)))
	}
	if f.Phone != "" {
		p := arg("%" + f.Phone + "%")
		where = append(where, "(caller LIKE "+p+" OR receiver LIKE "+p+")")
	}
	if !f.CreatedFrom.IsZero() {
		where = append(where, "created_at >= "+arg(f.CreatedFrom))
	}
	if !f.CreatedTo.IsZero() {
		where = append(where, "created_at < "+arg(f.CreatedTo))
	}

	cond := ""
	if len(where) > 0 {
		cond = " WHERE " + strings.Join(where, " AND ")
	}

	var total int
	if err := r.db.QueryRowContext(ctx, "SELECT COUNT(*) FROM call_records"+cond, args...).Scan(&total); err != nil {
		return nil, 0, err
	}

	col, ok := callSortColumns[f.SortBy]
	if !ok {
		col = "start_time"
	}
	dir := "ASC"
	if f.SortDesc {
		dir = "DESC"
	}
	q := "SELECT " + callColumns + " FROM call_records" + cond +
		fmt.Sprintf(" ORDER BY %s %s LIMIT %s OFFSET %s", col, dir, arg(f.Limit), arg((f.Page-1)*f.Limit))

	rows, err := r.db.QueryContext(ctx, q, args...)
	if err != nil {
		return nil, 0, err
	}
	defer rows.Close()

	out := make([]Call, 0, f.Limit)
	for rows.Next() {
		c, err := scanCall(rows)
		if err != nil {
			return nil, 0, err
		}
		out = append(out, c)
	}
	return out, total, rows.Err()
}

func (r *PostgresRepo) Upsert(ctx context.Context, c Call) error {
	sales, ids, err := marshalCallDocs(c)
	if err != nil {
		return err
	}
	const q = `
INSERT INTO call_records (` + callColumns + `)
VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9,$10,$11,$12,$13,$14,$15,$16,$17)
ON CONFLICT (call_id) DO UPDATE SET
  type = EXCLUDED.type,
  caller = EXCLUDED.caller,
  receiver = EXCLUDED.receiver,
  start_time = EXCLUDED.start_time,
  end_time = EXCLUDED.end_time,
  duration = EXCLUDED.duration,
  status = EXCLUDED.status,
  transcript = EXCLUDED.transcript,
  audio_file = EXCLUDED.audio_file,
  language = EXCLUDED.language,
  interruption_count = EXCLUDED.interruption_count,
  satisfaction = EXCLUDED.satisfaction,
  sales = EXCLUDED.sales,
  message_ids = EXCLUDED.message_ids,
  updated_at = EXCLUDED.updated_at
`
	_, err = r.db.ExecContext(ctx, q,
		c.CallID, string(c.Type), c.Caller, c.Receiver, c.StartTime, c.EndTime,
		c.DurationSeconds, string(c.Status), c.Transcript, c.AudioFile,
		string(c.Language), c.InterruptionCount, string(c.Satisfaction),
		sales, ids, c.CreatedAt, c.UpdatedAt,
	)
	return err
}

func (r *PostgresRepo) Delete(ctx context.Context, callID string) error {
	res, err := r.db.ExecContext(ctx, `DELETE FROM call_records WHERE call_id = $1`, callID)
	if err != nil {
		return err
	}
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return ErrNotFound
	}
	return nil
}

func (r *PostgresRepo) AttachMessage(ctx context.Context, callID, messageID string) error {
	const q = `
UPDATE call_records
SET message_ids = CASE
  WHEN message_ids @> to_jsonb($2::text) THEN message_ids
  ELSE message_ids || to_jsonb($2::text)
END,
    updated_at = NOW()
WHERE call_id = $1
`
	return r.execOnRecord(ctx, q, callID, messageID)
}

func (r *PostgresRepo) DetachMessage(ctx context.Context, callID, messageID string) error {
	const q = `
UPDATE call_records
SET message_ids = message_ids - $2,
    updated_at = NOW()
WHERE call_id = $1
`
	return r.execOnRecord(ctx, q, callID, messageID)
}

func (r *PostgresRepo) execOnRecord(ctx context.Context, q, callID, messageID string) error {
	res, err := r.db.ExecContext(ctx, q, callID, messageID)
	if err != nil {
		return err
	}
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return ErrNotFound
	}
	return nil
}

// ListInWindow returns calls whose start time falls in [from, to).
// Zero bounds are unbounded; used by the analytics rollups.
func (r *PostgresRepo) ListInWindow(ctx context.Context, from, to time.Time) ([]Call, error) {
	where := make([]string, 0, 2)
	args := make([]any, 0, 2)
	if !from.IsZero() {
		args = append(args, from)
		where = append(where, fmt.Sprintf("start_time >= $%d", len(args)))
	}
	if !to.IsZero() {
		args = append(args, to)
		where = append(where, fmt.Sprintf("start_time < $%d", len(args)))
	}
	q := "SELECT " + callColumns + " FROM call_records"
	if len(where) > 0 {
		q += " WHERE " + strings.Join(where, " AND ")
	}
	rows, err := r.db.QueryContext(ctx, q, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := make([]Call, 0)
	for rows.Next() {
		c, err := scanCall(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, c)
	}
	return out, rows.Err()
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanCall(row rowScanner) (Call, error) {
	var (
		c          Call
		typ        string
		status     string
		language   sql.NullString
		satisf     sql.NullString
		transcript sql.NullString
		audioFile  sql.NullString
		endTime    sql.NullTime
		salesRaw   []byte
		idsRaw     []byte
	)
	err := row.Scan(
		&c.CallID, &typ, &c.Caller, &c.Receiver, &c.StartTime, &endTime,
		&c.DurationSeconds, &status, &transcript, &audioFile, &language,
		&c.InterruptionCount, &satisf, &salesRaw, &idsRaw,
		&c.CreatedAt, &c.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return Call{}, ErrNotFound
		}
		return Call{}, err
	}
	c.Type = CallType(typ)
	c.Status = Status(status)
	c.Language = Language(language.String)
	c.Satisfaction = Satisfaction(satisf.String)
	c.Transcript = transcript.String
	c.AudioFile = audioFile.String
	if endTime.Valid {
		t := endTime.Time
		c.EndTime = &t
	}
	if len(salesRaw) > 0 && string(salesRaw) != "null" {
		var s SalesInsights
		if err := json.Unmarshal(salesRaw, &s); err != nil {
			return Call{}, fmt.Errorf("calls: decode sales: %w", err)
		}
		c.Sales = &s
	}
	if len(idsRaw) > 0 && string(idsRaw) != "null" {
		if err := json.Unmarshal(idsRaw, &c.MessageIDs); err != nil {
			return Call{}, fmt.Errorf("calls: decode message_ids: %w", err)
		}
	}
	return c, nil
}

func marshalCallDocs(c Call) (sales []byte, ids []byte, err error) {
	if c.Sales != nil {
		sales, err = json.Marshal(c.Sales)
		if err != nil {
			return nil, nil, fmt.Errorf("calls: encode sales: %w", err)
		}
	}
	if c.MessageIDs == nil {
		c.MessageIDs = []string{}
	}
	ids, err = json.Marshal(c.MessageIDs)
	if err != nil {
		return nil, nil, fmt.Errorf("calls: encode message_ids: %w", err)
	}
	return sales, ids, nil
}
