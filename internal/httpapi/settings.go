package httpapi

import (
	"net/http"

	"engagement-platform/internal/settings"

	"github.com/gin-gonic/gin"
)

func (h Handlers) ListSettings(c *gin.Context) {
	items, err := h.Settings.List(c.Request.Context(), c.Query("category"))
	if err != nil {
		respondErr(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"items": items})
}

func (h Handlers) GetSetting(c *gin.Context) {
	entry, err := h.Settings.Get(c.Request.Context(), c.Param("name"))
	if err != nil {
		respondErr(c, err)
		return
	}
	c.JSON(http.StatusOK, entry)
}

func (h Handlers) SetSetting(c *gin.Context) {
	var req settings.SetRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.AbortWithStatusJSON(http.StatusBadRequest, gin.H{"error": "invalid json"})
		return
	}
	userID, role := identity(c)
	entry, err := h.Settings.Set(c.Request.Context(), req, userID, role)
	if err != nil {
		respondErr(c, err)
		return
	}
	c.JSON(http.StatusOK, entry)
}

func (h Handlers) DeactivateSetting(c *gin.Context) {
	userID, role := identity(c)
	entry, err := h.Settings.Deactivate(c.Request.Context(), c.Param("name"), userID, role)
	if err != nil {
		respondErr(c, err)
		return
	}
	c.JSON(http.StatusOK, entry)
}

// VoiceSettings resolves the composed voice profile, falling back to defaults
// for missing or malformed entries.
func (h Handlers) VoiceSettings(c *gin.Context) {
	c.JSON(http.StatusOK, h.Settings.Voice(c.Request.Context()))
}
