package httpapi

import (
	"net/http"

	"engagement-platform/internal/calls"

	"github.com/gin-gonic/gin"
)

func (h Handlers) StartCall(c *gin.Context) {
	var req calls.StartRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.AbortWithStatusJSON(http.StatusBadRequest, gin.H{"error": "invalid json"})
		return
	}
	rec, err := h.Calls.Start(c.Request.Context(), req)
	if err != nil {
		respondErr(c, err)
		return
	}
	c.JSON(http.StatusCreated, rec)
}

func (h Handlers) GetCall(c *gin.Context) {
	rec, err := h.Calls.Get(c.Request.Context(), c.Param("call_id"))
	if err != nil {
		respondErr(c, err)
		return
	}
	c.JSON(http.StatusOK, rec)
}

func (h Handlers) ListCalls(c *gin.Context) {
	f := calls.ListFilter{
		Status:      calls.Status(c.Query("status")),
		Type:        calls.CallType(c.Query("type")),
		Phone:       c.Query("phone"),
		CreatedFrom: queryTime(c, "from"),
		CreatedTo:   queryTime(c, "to"),
		Page:        queryInt(c, "page"),
		Limit:       queryInt(c, "limit"),
		SortBy:      c.Query("sortBy"),
		SortDesc:    c.Query("order") != "asc",
	}
	items, total, err := h.Calls.List(c.Request.Context(), f)
	if err != nil {
		respondErr(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"items": items, "total": total})
}

func (h Handlers) UpdateCall(c *gin.Context) {
	var req calls.UpdateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.AbortWithStatusJSON(http.StatusBadRequest, gin.H{"error": "invalid json"})
		return
	}
	rec, err := h.Calls.Update(c.Request.Context(), c.Param("call_id"), req)
	if err != nil {
		respondErr(c, err)
		return
	}
	c.JSON(http.StatusOK, rec)
}

func (h Handlers) EndCall(c *gin.Context) {
	var req calls.UpdateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.AbortWithStatusJSON(http.StatusBadRequest, gin.H{"error": "invalid json"})
		return
	}
	rec, err := h.Calls.End(c.Request.Context(), c.Param("call_id"), req)
	if err != nil {
		respondErr(c, err)
		return
	}
	c.JSON(http.StatusOK, rec)
}

func (h Handlers) DeleteCall(c *gin.Context) {
	userID, role := identity(c)
	if err := h.Calls.Delete(c.Request.Context(), c.Param("call_id"), userID, role); err != nil {
		respondErr(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"deleted": true})
}
