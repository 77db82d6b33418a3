package httpapi

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"

	"receptionist-platform/internal/auth"
	"receptionist-platform/internal/business"
	"receptionist-platform/internal/call"
	"receptionist-platform/internal/config"
	"receptionist-platform/internal/integration"
	"receptionist-platform/internal/prompt"
)

func newTestRouter(t *testing.T) *gin.Engine {
	t.Helper()
	gin.SetMode(gin.TestMode)

	manager, err := auth.NewManager(config.AuthConfig{
		JWTSecret:       "test-secret",
		AccessTokenTTL:  time.Hour,
		RefreshTokenTTL: 24 * time.Hour,
	})
	if err != nil {
		t.Fatalf("auth manager: %v", err)
	}

	h := Handlers{
		Auth:         manager,
		Businesses:   business.NewService(business.NewMemoryRepo()),
		Prompts:      prompt.NewService(prompt.NewMemoryRepo()),
		Calls:        call.NewService(call.NewMemoryRepo()),
		Integrations: integration.NewService(integration.NewMemoryRepo()),
	}

	r := gin.New()
	r.POST("/auth/login", h.Login)
	v1 := r.Group("/v1")
	{
		v1.POST("/businesses", h.CreateBusiness)
		v1.GET("/businesses/:id", h.GetBusiness)
		v1.PUT("/businesses/:id", h.UpdateBusiness)
		v1.DELETE("/businesses/:id", h.DeleteBusiness)
		v1.GET("/prompts/categories", h.ListPromptCategories)
		v1.POST("/prompts/templates/:business_id", h.SeedPromptTemplates)
		v1.GET("/prompts", h.ListPrompts)
		v1.GET("/integrations/available", h.ListAvailableIntegrations)
		v1.POST("/calls", h.CreateCall)
		v1.GET("/calls/:id", h.GetCall)
		v1.PUT("/calls/:id", h.UpdateCall)
	}
	return r
}

func doJSON(t *testing.T, r *gin.Engine, method, path string, body any) *httptest.ResponseRecorder {
	t.Helper()
	var buf bytes.Buffer
	if body != nil {
		if err := json.NewEncoder(&buf).Encode(body); err != nil {
			t.Fatalf("encode body: %v", err)
		}
	}
	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func TestLoginIssuesTokenPair(t *testing.T) {
	r := newTestRouter(t)

	w := doJSON(t, r, "POST", "/auth/login", map[string]string{"user_id": "u-1"})
	if w.Code != http.StatusOK {
		t.Fatalf("status %d: %s", w.Code, w.Body.String())
	}
	var out map[string]string
	if err := json.Unmarshal(w.Body.Bytes(), &out); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if out["access_token"] == "" || out["refresh_token"] == "" {
		t.Fatalf("tokens = %v", out)
	}

	w = doJSON(t, r, "POST", "/auth/login", map[string]string{})
	if w.Code != http.StatusBadRequest {
		t.Fatalf("missing user_id: status %d", w.Code)
	}
}

func TestUpdateBusinessIsPartial(t *testing.T) {
	r := newTestRouter(t)

	w := doJSON(t, r, "POST", "/v1/businesses", map[string]any{
		"name":         "Bright Smile Dental",
		"phone_number": "+15550009999",
		"ai_voice":     "nova",
	})
	if w.Code != http.StatusCreated {
		t.Fatalf("create: status %d: %s", w.Code, w.Body.String())
	}
	var created business.Business
	if err := json.Unmarshal(w.Body.Bytes(), &created); err != nil {
		t.Fatalf("decode: %v", err)
	}

	// Only the name is sent; everything else must survive.
	w = doJSON(t, r, "PUT", "/v1/businesses/"+created.ID, map[string]any{"name": "Brighter Smile Dental"})
	if w.Code != http.StatusOK {
		t.Fatalf("update: status %d: %s", w.Code, w.Body.String())
	}
	var updated business.Business
	if err := json.Unmarshal(w.Body.Bytes(), &updated); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if updated.Name != "Brighter Smile Dental" {
		t.Errorf("name = %q", updated.Name)
	}
	if updated.PhoneNumber != "+15550009999" || updated.AIVoice != "nova" {
		t.Errorf("absent fields clobbered: %+v", updated)
	}
}

func TestCreateAndUpdateCall(t *testing.T) {
	r := newTestRouter(t)

	w := doJSON(t, r, "POST", "/v1/calls", map[string]any{
		"business_id":   "biz-1",
		"caller_number": "+15551230000",
		"status":        "in_progress",
	})
	if w.Code != http.StatusCreated {
		t.Fatalf("create: status %d: %s", w.Code, w.Body.String())
	}
	var created call.Call
	if err := json.Unmarshal(w.Body.Bytes(), &created); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if created.ID == "" || created.BusinessID != "biz-1" {
		t.Fatalf("unexpected record: %+v", created)
	}

	// Partial update: only the status and intent are sent.
	w = doJSON(t, r, "PUT", "/v1/calls/"+created.ID, map[string]any{
		"status":        "voicemail",
		"caller_intent": "appointment",
	})
	if w.Code != http.StatusOK {
		t.Fatalf("update: status %d: %s", w.Code, w.Body.String())
	}
	var updated call.Call
	if err := json.Unmarshal(w.Body.Bytes(), &updated); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if updated.Status != call.StatusVoicemail || updated.CallerIntent != "appointment" {
		t.Errorf("update not applied: %+v", updated)
	}
	if updated.CallerNumber != "+15551230000" {
		t.Errorf("absent fields clobbered: %+v", updated)
	}
}

func TestCreateCallRequiresBusiness(t *testing.T) {
	r := newTestRouter(t)
	w := doJSON(t, r, "POST", "/v1/calls", map[string]any{"caller_number": "+15551230000"})
	if w.Code != http.StatusBadRequest {
		t.Fatalf("status %d, want 400", w.Code)
	}
}

func TestGetBusinessNotFound(t *testing.T) {
	r := newTestRouter(t)
	w := doJSON(t, r, "GET", "/v1/businesses/nope", nil)
	if w.Code != http.StatusNotFound {
		t.Fatalf("status %d, want 404", w.Code)
	}
}

func TestSeedPromptTemplatesEndpoint(t *testing.T) {
	r := newTestRouter(t)

	w := doJSON(t, r, "POST", "/v1/prompts/templates/biz-1", nil)
	if w.Code != http.StatusCreated {
		t.Fatalf("status %d: %s", w.Code, w.Body.String())
	}
	var out map[string]int
	if err := json.Unmarshal(w.Body.Bytes(), &out); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if out["created"] != 6 {
		t.Fatalf("created = %d", out["created"])
	}

	w = doJSON(t, r, "GET", "/v1/prompts?business_id=biz-1", nil)
	if w.Code != http.StatusOK {
		t.Fatalf("list: status %d", w.Code)
	}
	var prompts []prompt.Prompt
	if err := json.Unmarshal(w.Body.Bytes(), &prompts); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if len(prompts) != 6 {
		t.Fatalf("prompts = %d", len(prompts))
	}
}

func TestCategoryAndCatalogEndpoints(t *testing.T) {
	r := newTestRouter(t)

	w := doJSON(t, r, "GET", "/v1/prompts/categories", nil)
	if w.Code != http.StatusOK {
		t.Fatalf("categories: status %d", w.Code)
	}
	var cats map[string][]string
	if err := json.Unmarshal(w.Body.Bytes(), &cats); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if len(cats["categories"]) == 0 {
		t.Fatalf("empty category list")
	}

	w = doJSON(t, r, "GET", "/v1/integrations/available", nil)
	if w.Code != http.StatusOK {
		t.Fatalf("catalog: status %d", w.Code)
	}
	var cat map[string][]integration.Supported
	if err := json.Unmarshal(w.Body.Bytes(), &cat); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if len(cat["integrations"]) != 8 {
		t.Fatalf("catalog = %d entries", len(cat["integrations"]))
	}
}
