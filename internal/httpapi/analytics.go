package httpapi

import (
	"net/http"

	"engagement-platform/internal/analytics"

	"github.com/gin-gonic/gin"
)

func (h Handlers) MessageStats(c *gin.Context) {
	stats, err := h.Analytics.MessageStats(c.Request.Context(), queryWindow(c))
	if err != nil {
		respondErr(c, err)
		return
	}
	c.JSON(http.StatusOK, stats)
}

func (h Handlers) MessageTypeBreakdown(c *gin.Context) {
	rows, err := h.Analytics.MessageTypeBreakdown(c.Request.Context(), queryInt(c, "days"))
	if err != nil {
		respondErr(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"types": rows})
}

func (h Handlers) DailyMessageTrends(c *gin.Context) {
	rows, err := h.Analytics.DailyMessageTrends(c.Request.Context(), queryInt(c, "days"))
	if err != nil {
		respondErr(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"trends": rows})
}

func (h Handlers) CallStats(c *gin.Context) {
	stats, err := h.Analytics.CallStats(c.Request.Context(), queryWindow(c))
	if err != nil {
		respondErr(c, err)
		return
	}
	c.JSON(http.StatusOK, stats)
}

func (h Handlers) DailyCallTrends(c *gin.Context) {
	rows, err := h.Analytics.DailyCallTrends(c.Request.Context(), queryInt(c, "days"))
	if err != nil {
		respondErr(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"trends": rows})
}

func (h Handlers) SalesMetrics(c *gin.Context) {
	m, err := h.Analytics.SalesMetrics(c.Request.Context(), queryWindow(c))
	if err != nil {
		respondErr(c, err)
		return
	}
	c.JSON(http.StatusOK, m)
}

func (h Handlers) StageAnalysis(c *gin.Context) {
	rows, err := h.Analytics.StageAnalysis(c.Request.Context(), queryWindow(c))
	if err != nil {
		respondErr(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"stages": rows})
}

// Health never errors; degraded stores surface as status=critical with the
// database marked disconnected.
func (h Handlers) Health(c *gin.Context) {
	report := h.Analytics.HealthStatus(c.Request.Context())
	code := http.StatusOK
	if report.Status == analytics.HealthCritical {
		code = http.StatusServiceUnavailable
	}
	c.JSON(code, report)
}
