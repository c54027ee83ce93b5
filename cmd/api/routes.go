package main

import (
	"engagement-platform/internal/httpapi"
	"engagement-platform/internal/rbac"

	"github.com/gin-gonic/gin"
)

// registerRoutes wires HTTP routes to handlers.
// Keep this file free of business logic. Handlers should delegate to internal modules.
func registerRoutes(r *gin.Engine, h httpapi.Handlers, authMW gin.HandlerFunc) {
	// public
	r.GET("/healthz", func(c *gin.Context) {
		c.JSON(200, gin.H{"status": "ok"})
	})
	r.GET("/health", h.Health)

	// AUTH routes (token issuance, public).
	// NOTE: Login is a placeholder; real credential validation is not implemented.
	authGroup := r.Group("/auth")
	{
		authGroup.POST("/login", h.Login)
	}

	// protected API group
	v1 := r.Group("/v1")
	v1.Use(authMW)
	{
		// CALL RECORD routes
		callGroup := v1.Group("/calls")
		callGroup.Use(rbac.RequireAnyRole(rbac.RoleAdmin, rbac.RoleOperator, rbac.RoleIntegration))
		{
			callGroup.POST("", h.StartCall)
			callGroup.GET("", h.ListCalls)
			callGroup.GET("/:call_id", h.GetCall)
			callGroup.PATCH("/:call_id", h.UpdateCall)
			callGroup.POST("/:call_id/end", h.EndCall)
		}
		// Deletion is admin-only.
		v1.DELETE("/calls/:call_id", rbac.RequireAnyRole(rbac.RoleAdmin), h.DeleteCall)

		// MESSAGE RECORD routes
		msgGroup := v1.Group("/messages")
		msgGroup.Use(rbac.RequireAnyRole(rbac.RoleAdmin, rbac.RoleOperator, rbac.RoleIntegration))
		{
			msgGroup.POST("", h.CreateMessage)
			msgGroup.GET("", h.ListMessages)
			msgGroup.GET("/:message_id", h.GetMessage)
			msgGroup.PATCH("/:message_id/status", h.UpdateMessageStatus)
		}
		v1.DELETE("/messages/:message_id", rbac.RequireAnyRole(rbac.RoleAdmin), h.DeleteMessage)

		// Delivery provider callback; restricted to the hidden integration role.
		v1.POST("/webhooks/delivery", rbac.RequireAnyRole(rbac.RoleIntegration), h.DeliveryCallback)

		// ANALYTICS routes (read-only)
		an := v1.Group("/analytics")
		an.Use(rbac.RequireAnyRole(rbac.RoleAdmin, rbac.RoleAnalyst))
		{
			an.GET("/messages/stats", h.MessageStats)
			an.GET("/messages/types", h.MessageTypeBreakdown)
			an.GET("/messages/trends", h.DailyMessageTrends)
			an.GET("/calls/stats", h.CallStats)
			an.GET("/calls/trends", h.DailyCallTrends)
			an.GET("/sales", h.SalesMetrics)
			an.GET("/stages", h.StageAnalysis)
		}

		// SETTINGS routes
		st := v1.Group("/settings")
		st.Use(rbac.RequireAnyRole(rbac.RoleAdmin, rbac.RoleOperator))
		{
			st.GET("", h.ListSettings)
			st.GET("/voice", h.VoiceSettings)
			st.GET("/:name", h.GetSetting)
			st.PUT("", h.SetSetting)
			st.POST("/:name/deactivate", h.DeactivateSetting)
		}
	}
}
