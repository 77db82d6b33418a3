package main

import (
	"database/sql"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"receptionist-platform/internal/httpapi"
	"receptionist-platform/internal/telephony"
	"receptionist-platform/pkg/utils"
)

type routeDeps struct {
	authMW      gin.HandlerFunc
	signatureMW gin.HandlerFunc
	webhooks    *telephony.WebhookHandlers
	api         httpapi.Handlers
	db          *sql.DB
}

// registerRoutes wires HTTP routes to handlers.
// Keep this file free of business logic. Handlers should delegate to internal modules.
func registerRoutes(r *gin.Engine, deps routeDeps) {
	// public
	r.GET("/healthz", func(c *gin.Context) {
		if err := utils.HealthCheck(c.Request.Context(), deps.db, 2*time.Second); err != nil {
			c.JSON(http.StatusServiceUnavailable, gin.H{"status": "degraded"})
			return
		}
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})

	// Provider webhooks (public; signature-validated when an auth token is
	// configured). Paths must match the builder endpoints wired in main.
	webhooks := r.Group("/webhooks/twilio")
	webhooks.Use(deps.signatureMW)
	{
		webhooks.POST("/voice", deps.webhooks.HandleCallStart)
		webhooks.POST("/handle-input", deps.webhooks.HandleSpeechTurn)
		webhooks.POST("/status", deps.webhooks.HandleStatusUpdate)
	}

	// Token issuance is public; everything under /v1 requires a bearer token.
	r.POST("/auth/login", deps.api.Login)

	v1 := r.Group("/v1")
	v1.Use(deps.authMW)
	{
		businesses := v1.Group("/businesses")
		{
			businesses.POST("", deps.api.CreateBusiness)
			businesses.GET("", deps.api.ListBusinesses)
			businesses.GET("/:id", deps.api.GetBusiness)
			businesses.PUT("/:id", deps.api.UpdateBusiness)
			businesses.DELETE("/:id", deps.api.DeleteBusiness)
		}

		prompts := v1.Group("/prompts")
		{
			prompts.POST("", deps.api.CreatePrompt)
			prompts.GET("", deps.api.ListPrompts)
			prompts.GET("/categories", deps.api.ListPromptCategories)
			prompts.POST("/templates/:business_id", deps.api.SeedPromptTemplates)
			prompts.GET("/:id", deps.api.GetPrompt)
			prompts.PUT("/:id", deps.api.UpdatePrompt)
			prompts.DELETE("/:id", deps.api.DeletePrompt)
		}

		calls := v1.Group("/calls")
		{
			calls.POST("", deps.api.CreateCall)
			calls.GET("", deps.api.ListCalls)
			calls.GET("/stats/:business_id", deps.api.CallStats)
			calls.GET("/:id", deps.api.GetCall)
			calls.PUT("/:id", deps.api.UpdateCall)
			calls.POST("/:id/end", deps.api.EndCall)
		}

		integrations := v1.Group("/integrations")
		{
			integrations.POST("", deps.api.CreateIntegration)
			integrations.GET("", deps.api.ListIntegrations)
			integrations.GET("/available", deps.api.ListAvailableIntegrations)
			integrations.GET("/:id", deps.api.GetIntegration)
			integrations.PUT("/:id", deps.api.UpdateIntegration)
			integrations.DELETE("/:id", deps.api.DeleteIntegration)
			integrations.POST("/:id/test", deps.api.TestIntegration)
		}
	}
}
