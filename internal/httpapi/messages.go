package httpapi

import (
	"net/http"
	"time"

	"engagement-platform/internal/messages"

	"github.com/gin-gonic/gin"
)

func (h Handlers) CreateMessage(c *gin.Context) {
	var req messages.CreateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.AbortWithStatusJSON(http.StatusBadRequest, gin.H{"error": "invalid json"})
		return
	}
	rec, alreadyExists, err := h.Messages.Create(c.Request.Context(), req)
	if err != nil {
		respondErr(c, err)
		return
	}
	status := http.StatusCreated
	if alreadyExists {
		// Duplicate sends are routine; the pre-existing record is returned as-is.
		status = http.StatusOK
	}
	c.JSON(status, gin.H{"message": rec, "alreadyExists": alreadyExists})
}

func (h Handlers) GetMessage(c *gin.Context) {
	rec, err := h.Messages.Get(c.Request.Context(), c.Param("message_id"))
	if err != nil {
		respondErr(c, err)
		return
	}
	c.JSON(http.StatusOK, rec)
}

func (h Handlers) ListMessages(c *gin.Context) {
	f := messages.ListFilter{
		Status:      messages.Status(c.Query("status")),
		Type:        messages.MessageType(c.Query("type")),
		Direction:   messages.Direction(c.Query("direction")),
		Phone:       c.Query("phone"),
		CallID:      c.Query("callId"),
		CreatedFrom: queryTime(c, "from"),
		CreatedTo:   queryTime(c, "to"),
		Page:        queryInt(c, "page"),
		Limit:       queryInt(c, "limit"),
		SortBy:      c.Query("sortBy"),
		SortDesc:    c.Query("order") != "asc",
	}
	items, total, err := h.Messages.List(c.Request.Context(), f)
	if err != nil {
		respondErr(c, err)
		return
	}
	if c.Query("view") != "display" {
		c.JSON(http.StatusOK, gin.H{"items": items, "total": total})
		return
	}

	// Display view decorates each record for admin UI consumption.
	now := time.Now().UTC()
	views := make([]messageView, 0, len(items))
	for _, m := range items {
		views = append(views, messageView{
			Message:     m,
			MaskedPhone: messages.MaskPhone(m.Phone),
			Age:         messages.Age(m.CreatedAt, now),
			StatusColor: messages.StatusColor(m.Status),
		})
	}
	c.JSON(http.StatusOK, gin.H{"items": views, "total": total})
}

type messageView struct {
	messages.Message

	MaskedPhone string `json:"maskedPhone"`
	Age         string `json:"age"`
	StatusColor string `json:"statusColor"`
}

type statusUpdateRequest struct {
	Status messages.Status         `json:"status"`
	Error  *messages.DeliveryError `json:"error,omitempty"`
}

func (h Handlers) UpdateMessageStatus(c *gin.Context) {
	var req statusUpdateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.AbortWithStatusJSON(http.StatusBadRequest, gin.H{"error": "invalid json"})
		return
	}
	rec, err := h.Messages.UpdateStatus(c.Request.Context(), c.Param("message_id"), req.Status, req.Error)
	if err != nil {
		respondErr(c, err)
		return
	}
	c.JSON(http.StatusOK, rec)
}

func (h Handlers) DeleteMessage(c *gin.Context) {
	userID, role := identity(c)
	if err := h.Messages.Delete(c.Request.Context(), c.Param("message_id"), userID, role); err != nil {
		respondErr(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"deleted": true})
}

// --- delivery provider callback ---

type deliveryCallbackRequest struct {
	MessageID string                  `json:"messageId"`
	Status    messages.Status         `json:"status"`
	Error     *messages.DeliveryError `json:"error,omitempty"`
}

// DeliveryCallback ingests provider status notifications (sent, delivered,
// read, failed). Unknown message IDs return 404 so the provider can stop
// retrying for records we no longer hold.
func (h Handlers) DeliveryCallback(c *gin.Context) {
	var req deliveryCallbackRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.AbortWithStatusJSON(http.StatusBadRequest, gin.H{"error": "invalid json"})
		return
	}
	if req.MessageID == "" {
		c.AbortWithStatusJSON(http.StatusBadRequest, gin.H{"error": "messageId required"})
		return
	}
	rec, err := h.Messages.UpdateStatus(c.Request.Context(), req.MessageID, req.Status, req.Error)
	if err != nil {
		respondErr(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"messageId": rec.MessageID, "status": rec.Status})
}
