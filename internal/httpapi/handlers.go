package httpapi

import (
	"errors"
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"

	"receptionist-platform/internal/auth"
	"receptionist-platform/internal/business"
	"receptionist-platform/internal/call"
	"receptionist-platform/internal/integration"
	"receptionist-platform/internal/prompt"
)

// Handlers groups HTTP handlers for dependency injection.
// Keep these thin: parse/validate input, call internal services, return JSON.

type Handlers struct {
	Auth         *auth.Manager
	Businesses   *business.Service
	Prompts      *prompt.Service
	Calls        *call.Service
	Integrations *integration.Service
}

// --- Auth ---

type loginRequest struct {
	UserID string `json:"user_id"`
}

// Login issues a JWT token pair.
//
// NOTE: This is a skeleton-only endpoint. Real systems must validate credentials.
func (h Handlers) Login(c *gin.Context) {
	if h.Auth == nil {
		c.AbortWithStatusJSON(http.StatusInternalServerError, gin.H{"error": "auth not configured"})
		return
	}
	var req loginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.AbortWithStatusJSON(http.StatusBadRequest, gin.H{"error": "invalid json"})
		return
	}
	if req.UserID == "" {
		c.AbortWithStatusJSON(http.StatusBadRequest, gin.H{"error": "user_id required"})
		return
	}
	pair, err := h.Auth.IssuePair(time.Now(), req.UserID)
	if err != nil {
		c.AbortWithStatusJSON(http.StatusInternalServerError, gin.H{"error": "token issuance failed"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"access_token": pair.AccessToken, "refresh_token": pair.RefreshToken})
}

// --- Businesses ---

func (h Handlers) CreateBusiness(c *gin.Context) {
	var b business.Business
	if err := c.ShouldBindJSON(&b); err != nil {
		c.AbortWithStatusJSON(http.StatusBadRequest, gin.H{"error": "invalid json"})
		return
	}
	out, err := h.Businesses.Create(c.Request.Context(), b)
	if err != nil {
		c.AbortWithStatusJSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusCreated, out)
}

func (h Handlers) GetBusiness(c *gin.Context) {
	out, err := h.Businesses.Get(c.Request.Context(), c.Param("id"))
	if err != nil {
		abortLookup(c, err, business.ErrNotFound, "business")
		return
	}
	c.JSON(http.StatusOK, out)
}

func (h Handlers) ListBusinesses(c *gin.Context) {
	limit, offset := pagination(c)
	out, err := h.Businesses.List(c.Request.Context(), limit, offset)
	if err != nil {
		c.AbortWithStatusJSON(http.StatusInternalServerError, gin.H{"error": "business listing failed"})
		return
	}
	c.JSON(http.StatusOK, out)
}

// UpdateBusiness applies a partial update: fields absent from the request
// body keep their stored values.
func (h Handlers) UpdateBusiness(c *gin.Context) {
	existing, err := h.Businesses.Get(c.Request.Context(), c.Param("id"))
	if err != nil {
		abortLookup(c, err, business.ErrNotFound, "business")
		return
	}
	if err := c.ShouldBindJSON(&existing); err != nil {
		c.AbortWithStatusJSON(http.StatusBadRequest, gin.H{"error": "invalid json"})
		return
	}
	existing.ID = c.Param("id")
	out, err := h.Businesses.Update(c.Request.Context(), existing)
	if err != nil {
		c.AbortWithStatusJSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, out)
}

func (h Handlers) DeleteBusiness(c *gin.Context) {
	if err := h.Businesses.Delete(c.Request.Context(), c.Param("id")); err != nil {
		abortLookup(c, err, business.ErrNotFound, "business")
		return
	}
	c.JSON(http.StatusOK, gin.H{"status": "deleted"})
}

// --- Prompts ---

func (h Handlers) CreatePrompt(c *gin.Context) {
	var p prompt.Prompt
	if err := c.ShouldBindJSON(&p); err != nil {
		c.AbortWithStatusJSON(http.StatusBadRequest, gin.H{"error": "invalid json"})
		return
	}
	out, err := h.Prompts.Create(c.Request.Context(), p)
	if err != nil {
		c.AbortWithStatusJSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusCreated, out)
}

func (h Handlers) GetPrompt(c *gin.Context) {
	out, err := h.Prompts.Get(c.Request.Context(), c.Param("id"))
	if err != nil {
		abortLookup(c, err, prompt.ErrNotFound, "prompt")
		return
	}
	c.JSON(http.StatusOK, out)
}

func (h Handlers) ListPrompts(c *gin.Context) {
	limit, offset := pagination(c)
	out, err := h.Prompts.List(c.Request.Context(), prompt.ListFilter{
		BusinessID: c.Query("business_id"),
		Category:   prompt.Category(c.Query("category")),
		Limit:      limit,
		Offset:     offset,
	})
	if err != nil {
		c.AbortWithStatusJSON(http.StatusInternalServerError, gin.H{"error": "prompt listing failed"})
		return
	}
	c.JSON(http.StatusOK, out)
}

func (h Handlers) UpdatePrompt(c *gin.Context) {
	existing, err := h.Prompts.Get(c.Request.Context(), c.Param("id"))
	if err != nil {
		abortLookup(c, err, prompt.ErrNotFound, "prompt")
		return
	}
	if err := c.ShouldBindJSON(&existing); err != nil {
		c.AbortWithStatusJSON(http.StatusBadRequest, gin.H{"error": "invalid json"})
		return
	}
	existing.ID = c.Param("id")
	out, err := h.Prompts.Update(c.Request.Context(), existing)
	if err != nil {
		c.AbortWithStatusJSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, out)
}

func (h Handlers) DeletePrompt(c *gin.Context) {
	if err := h.Prompts.Delete(c.Request.Context(), c.Param("id")); err != nil {
		abortLookup(c, err, prompt.ErrNotFound, "prompt")
		return
	}
	c.JSON(http.StatusOK, gin.H{"status": "deleted"})
}

func (h Handlers) ListPromptCategories(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"categories": prompt.Categories()})
}

// SeedPromptTemplates installs the default script set for a business.
func (h Handlers) SeedPromptTemplates(c *gin.Context) {
	n, err := h.Prompts.SeedDefaults(c.Request.Context(), c.Param("business_id"))
	if err != nil {
		c.AbortWithStatusJSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusCreated, gin.H{"created": n})
}

// --- Calls ---

// CreateCall records a call manually, e.g. one logged from the dashboard
// rather than started by a webhook.
func (h Handlers) CreateCall(c *gin.Context) {
	var in call.Call
	if err := c.ShouldBindJSON(&in); err != nil {
		c.AbortWithStatusJSON(http.StatusBadRequest, gin.H{"error": "invalid json"})
		return
	}
	out, err := h.Calls.Create(c.Request.Context(), in)
	if err != nil {
		c.AbortWithStatusJSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusCreated, out)
}

func (h Handlers) UpdateCall(c *gin.Context) {
	existing, err := h.Calls.Get(c.Request.Context(), c.Param("id"))
	if err != nil {
		abortLookup(c, err, call.ErrNotFound, "call")
		return
	}
	if err := c.ShouldBindJSON(&existing); err != nil {
		c.AbortWithStatusJSON(http.StatusBadRequest, gin.H{"error": "invalid json"})
		return
	}
	existing.ID = c.Param("id")
	out, err := h.Calls.Update(c.Request.Context(), existing)
	if err != nil {
		c.AbortWithStatusJSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, out)
}

func (h Handlers) GetCall(c *gin.Context) {
	out, err := h.Calls.Get(c.Request.Context(), c.Param("id"))
	if err != nil {
		abortLookup(c, err, call.ErrNotFound, "call")
		return
	}
	c.JSON(http.StatusOK, out)
}

func (h Handlers) ListCalls(c *gin.Context) {
	limit, offset := pagination(c)
	out, err := h.Calls.List(c.Request.Context(), call.ListFilter{
		BusinessID: c.Query("business_id"),
		Status:     call.Status(c.Query("status")),
		Limit:      limit,
		Offset:     offset,
	})
	if err != nil {
		c.AbortWithStatusJSON(http.StatusInternalServerError, gin.H{"error": "call listing failed"})
		return
	}
	c.JSON(http.StatusOK, out)
}

// EndCall completes a call from the dashboard side.
func (h Handlers) EndCall(c *gin.Context) {
	out, err := h.Calls.End(c.Request.Context(), c.Param("id"))
	if err != nil {
		abortLookup(c, err, call.ErrNotFound, "call")
		return
	}
	c.JSON(http.StatusOK, out)
}

func (h Handlers) CallStats(c *gin.Context) {
	out, err := h.Calls.Stats(c.Request.Context(), c.Param("business_id"))
	if err != nil {
		c.AbortWithStatusJSON(http.StatusInternalServerError, gin.H{"error": "stats computation failed"})
		return
	}
	c.JSON(http.StatusOK, out)
}

// --- Integrations ---

func (h Handlers) CreateIntegration(c *gin.Context) {
	var in integration.Integration
	if err := c.ShouldBindJSON(&in); err != nil {
		c.AbortWithStatusJSON(http.StatusBadRequest, gin.H{"error": "invalid json"})
		return
	}
	out, err := h.Integrations.Create(c.Request.Context(), in)
	if err != nil {
		c.AbortWithStatusJSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusCreated, out)
}

func (h Handlers) GetIntegration(c *gin.Context) {
	out, err := h.Integrations.Get(c.Request.Context(), c.Param("id"))
	if err != nil {
		abortLookup(c, err, integration.ErrNotFound, "integration")
		return
	}
	c.JSON(http.StatusOK, out)
}

func (h Handlers) ListIntegrations(c *gin.Context) {
	out, err := h.Integrations.List(c.Request.Context(), c.Query("business_id"))
	if err != nil {
		c.AbortWithStatusJSON(http.StatusInternalServerError, gin.H{"error": "integration listing failed"})
		return
	}
	c.JSON(http.StatusOK, out)
}

func (h Handlers) UpdateIntegration(c *gin.Context) {
	existing, err := h.Integrations.Get(c.Request.Context(), c.Param("id"))
	if err != nil {
		abortLookup(c, err, integration.ErrNotFound, "integration")
		return
	}
	if err := c.ShouldBindJSON(&existing); err != nil {
		c.AbortWithStatusJSON(http.StatusBadRequest, gin.H{"error": "invalid json"})
		return
	}
	existing.ID = c.Param("id")
	out, err := h.Integrations.Update(c.Request.Context(), existing)
	if err != nil {
		c.AbortWithStatusJSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, out)
}

func (h Handlers) DeleteIntegration(c *gin.Context) {
	if err := h.Integrations.Delete(c.Request.Context(), c.Param("id")); err != nil {
		abortLookup(c, err, integration.ErrNotFound, "integration")
		return
	}
	c.JSON(http.StatusOK, gin.H{"status": "deleted"})
}

func (h Handlers) ListAvailableIntegrations(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"integrations": integration.Catalog()})
}

func (h Handlers) TestIntegration(c *gin.Context) {
	out, err := h.Integrations.TestConnection(c.Request.Context(), c.Param("id"))
	if err != nil {
		abortLookup(c, err, integration.ErrNotFound, "integration")
		return
	}
	c.JSON(http.StatusOK, out)
}

// --- helpers ---

func abortLookup(c *gin.Context, err, notFound error, entity string) {
	if errors.Is(err, notFound) {
		c.AbortWithStatusJSON(http.StatusNotFound, gin.H{"error": entity + " not found"})
		return
	}
	c.AbortWithStatusJSON(http.StatusInternalServerError, gin.H{"error": entity + " lookup failed"})
}

func pagination(c *gin.Context) (limit, offset int) {
	limit = 50
	if v, err := strconv.Atoi(c.Query("limit")); err == nil && v > 0 && v <= 200 {
		limit = v
	}
	if v, err := strconv.Atoi(c.Query("offset")); err == nil && v > 0 {
		offset = v
	}
	return limit, offset
}
