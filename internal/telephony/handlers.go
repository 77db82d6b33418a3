package telephony

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"receptionist-platform/internal/conversation"
	"receptionist-platform/pkg/logger"
)

// WebhookHandlers owns the provider-facing voice endpoints. The voice
// endpoints always answer 200 with markup: an error status would make the
// provider play its own failure message to the caller.
type WebhookHandlers struct {
	Orchestrator *conversation.Orchestrator
}

func NewWebhookHandlers(o *conversation.Orchestrator) *WebhookHandlers {
	return &WebhookHandlers{Orchestrator: o}
}

// HandleCallStart answers the inbound call webhook with the greeting.
func (h *WebhookHandlers) HandleCallStart(c *gin.Context) {
	log := logger.FromGin(c)

	form, err := ParseCallStart(c.Request)
	if err != nil {
		log.Warn("malformed call-start webhook", "error", err)
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	markup, err := h.Orchestrator.StartCall(c.Request.Context(), conversation.StartCallInput{
		CallID: form.CallID,
		From:   form.From,
		To:     form.To,
	})
	writeVoice(c, markup, err)
}

// HandleSpeechTurn answers a gathered speech result with the next directive.
func (h *WebhookHandlers) HandleSpeechTurn(c *gin.Context) {
	log := logger.FromGin(c)

	form, err := ParseSpeechTurn(c.Request)
	if err != nil {
		log.Warn("malformed speech webhook", "error", err)
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	markup, err := h.Orchestrator.SpeechTurn(c.Request.Context(), conversation.SpeechTurnInput{
		CallID:     form.CallID,
		SpeechText: form.SpeechText,
	})
	writeVoice(c, markup, err)
}

// HandleStatusUpdate finalizes the call on its terminal status callback.
func (h *WebhookHandlers) HandleStatusUpdate(c *gin.Context) {
	log := logger.FromGin(c)

	form, err := ParseStatus(c.Request)
	if err != nil {
		log.Warn("malformed status webhook", "error", err)
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	if err := h.Orchestrator.StatusUpdate(c.Request.Context(), conversation.StatusUpdateInput{
		CallID:          form.CallID,
		ProviderStatus:  form.Status,
		DurationSeconds: form.DurationSeconds,
	}); err != nil {
		log.Error("status update failed", "call_id", form.CallID, "error", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "status update failed"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"status": "ok"})
}

func writeVoice(c *gin.Context, markup string, err error) {
	if err != nil {
		logger.FromGin(c).Error("voice markup render failed", "error", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "response render failed"})
		return
	}
	c.Data(http.StatusOK, "application/xml", []byte(markup))
}
