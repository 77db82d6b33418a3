package conversation

import (
	"context"
	"log/slog"
	"strings"
	"time"

	"receptionist-platform/internal/business"
	"receptionist-platform/internal/call"
	"receptionist-platform/internal/prompt"
)

// Spoken on degraded paths. Always speakable, never diagnostic.
const (
	notConfiguredMessage = "We're sorry, but this number is not configured. Please try again later."
	busyMessage          = "We're sorry, all of our lines are busy at the moment. Please try your call again shortly."
	repromptMessage      = "I'm sorry, I didn't catch that. Could you please repeat?"
)

// BusinessDirectory resolves businesses for the voice surface.
type BusinessDirectory interface {
	Get(ctx context.Context, id string) (business.Business, error)
	FindByVoiceNumber(ctx context.Context, number string) (business.Business, error)
}

// PromptSource lists a business's active scripts in priority order.
type PromptSource interface {
	ListActive(ctx context.Context, businessID string) ([]prompt.Prompt, error)
}

// CallLog persists call records as calls progress.
type CallLog interface {
	Create(ctx context.Context, c call.Call) (call.Call, error)
	SaveAction(ctx context.Context, id string, collected map[string]any, actionTaken string, details map[string]any) error
	Finalize(ctx context.Context, id string, in call.FinalizeInput) error
}

// VoiceRenderer produces the voice markup returned to the telephony
// provider. Voice is the business's configured assistant voice name; an
// empty string selects the default voice.
type VoiceRenderer interface {
	Gather(voice, message string) (string, error)
	End(voice, message string) (string, error)
	Transfer(voice, number, preamble string) (string, error)
}

// Orchestrator drives one phone call from the provider's webhooks: greet on
// call start, one model round per speech turn, persist and evict on the
// terminal status. All conversation state lives in the Registry until then.
type Orchestrator struct {
	Registry   *Registry
	Businesses BusinessDirectory
	Prompts    PromptSource
	Calls      CallLog
	Model      ModelClient
	Voice      VoiceRenderer

	// Gate is optional; when nil every call is admitted.
	Gate CallGate

	Logger *slog.Logger

	now func() time.Time
}

func NewOrchestrator(reg *Registry, businesses BusinessDirectory, prompts PromptSource, calls CallLog, model ModelClient, voice VoiceRenderer, gate CallGate, log *slog.Logger) *Orchestrator {
	if log == nil {
		log = slog.Default()
	}
	return &Orchestrator{
		Registry:   reg,
		Businesses: businesses,
		Prompts:    prompts,
		Calls:      calls,
		Model:      model,
		Voice:      voice,
		Gate:       gate,
		Logger:     log,
		now:        time.Now,
	}
}

type StartCallInput struct {
	CallID string
	From   string
	To     string
}

type SpeechTurnInput struct {
	CallID     string
	SpeechText string
}

type StatusUpdateInput struct {
	CallID          string
	ProviderStatus  string
	DurationSeconds int
}

// StartCall answers a new inbound call: resolve the business by the dialed
// number, admit it through the gate, open a call record, build the model
// context, register state, and greet.
//
// A repeat start for a live call (the gather-timeout redirect points back
// here) re-greets with the existing state instead of opening another record.
func (o *Orchestrator) StartCall(ctx context.Context, in StartCallInput) (string, error) {
	log := o.Logger.With("call_id", in.CallID)

	b, err := o.Businesses.FindByVoiceNumber(ctx, in.To)
	if err != nil {
		if err != business.ErrNotFound {
			log.Error("business lookup failed", "called_number", in.To, "error", err)
		}
		return o.Voice.End("", notConfiguredMessage)
	}

	if st, err := o.Registry.Get(in.CallID); err == nil {
		// Silent caller redirected back to the entry point.
		return o.Voice.Gather(st.Voice, greeting(b))
	}

	if o.Gate != nil {
		ok, err := o.Gate.Acquire(ctx, b.ID)
		if err != nil {
			// Admission control must not take the voice surface down.
			log.Error("call gate unavailable, admitting call", "error", err)
		} else if !ok {
			log.Warn("call rejected: live call limit reached", "business_id", b.ID)
			return o.Voice.End(b.AIVoice, busyMessage)
		}
	}

	recordID := ""
	rec, err := o.Calls.Create(ctx, call.Call{
		BusinessID:     b.ID,
		ProviderCallID: in.CallID,
		CallerNumber:   in.From,
		CalledNumber:   in.To,
		Status:         call.StatusInProgress,
		StartedAt:      o.now(),
	})
	if err != nil {
		// The call proceeds unrecorded rather than dropping the caller.
		log.Error("call record create failed", "business_id", b.ID, "error", err)
	} else {
		recordID = rec.ID
	}

	prompts, err := o.Prompts.ListActive(ctx, b.ID)
	if err != nil {
		log.Error("prompt listing failed", "business_id", b.ID, "error", err)
		prompts = nil
	}

	st := NewState(in.CallID, b.ID, recordID)
	st.Voice = b.AIVoice
	st.ModelContext = BuildModelContext(b, prompts)
	if err := o.Registry.Create(in.CallID, st); err != nil {
		log.Error("conversation registration failed", "error", err)
	}

	log.Info("call started", "business_id", b.ID, "caller", in.From)
	return o.Voice.Gather(b.AIVoice, greeting(b))
}

// SpeechTurn runs one conversation round: append the caller's words, ask the
// model, act on its decision, and answer with the next voice directive.
func (o *Orchestrator) SpeechTurn(ctx context.Context, in SpeechTurnInput) (string, error) {
	log := o.Logger.With("call_id", in.CallID)

	st, err := o.Registry.Get(in.CallID)
	text := strings.TrimSpace(in.SpeechText)
	if err != nil || text == "" {
		// Unknown call or empty recognition: listen again.
		voice := ""
		if st != nil {
			voice = st.Voice
		}
		return o.Voice.Gather(voice, repromptMessage)
	}

	st.AppendCallerTurn(text)
	reply := o.Model.Respond(ctx, st.ModelContext, st.History(), st.Collected())
	if reply.Err != nil {
		log.Error("model turn degraded", "error", reply.Err)
	}
	st.AppendAssistantTurn(reply.Text)

	switch a := reply.Action.(type) {
	case ActionScheduleAppointment:
		st.MergeCollected(a.Fields)
		if st.CallRecordID != "" {
			if err := o.Calls.SaveAction(ctx, st.CallRecordID, st.Collected(), call.ActionAppointmentScheduled, a.Fields); err != nil {
				log.Error("appointment action save failed", "error", err)
			}
		}
		log.Info("appointment scheduled", "business_id", st.BusinessID)
		return o.Voice.End(st.Voice, reply.Text)

	case ActionTransferCall:
		number := o.transferNumber(ctx, st.BusinessID)
		if number != "" {
			log.Info("transferring call", "business_id", st.BusinessID, "reason", a.Reason)
			return o.Voice.Transfer(st.Voice, number, reply.Text)
		}
		// No human line configured; keep the conversation going.
		log.Warn("transfer requested but no number configured", "business_id", st.BusinessID)
		return o.Voice.Gather(st.Voice, reply.Text)

	case ActionEndCall:
		return o.Voice.End(st.Voice, reply.Text)

	default:
		return o.Voice.Gather(st.Voice, reply.Text)
	}
}

// StatusUpdate handles the provider's status callback. Only a known live
// call does any work, which makes repeat deliveries of the terminal status
// harmless. The registry entry is evicted no matter what persistence does.
func (o *Orchestrator) StatusUpdate(ctx context.Context, in StatusUpdateInput) error {
	log := o.Logger.With("call_id", in.CallID)

	st, err := o.Registry.Get(in.CallID)
	if err != nil {
		return nil
	}

	defer func() {
		o.Registry.Remove(in.CallID)
		if o.Gate != nil {
			if err := o.Gate.Release(ctx, st.BusinessID); err != nil {
				log.Error("call slot release failed", "error", err)
			}
		}
	}()

	status := call.MapProviderStatus(in.ProviderStatus)
	summary := o.Model.Summarize(ctx, st.History())
	sentiment := ""
	if callerText := st.CallerText(); callerText != "" {
		sentiment = o.Model.AnalyzeSentiment(ctx, callerText)
	}

	if st.CallRecordID != "" {
		err := o.Calls.Finalize(ctx, st.CallRecordID, call.FinalizeInput{
			Status:          status,
			DurationSeconds: in.DurationSeconds,
			Transcript:      st.Transcript(),
			CallSummary:     summary,
			Sentiment:       sentiment,
			EndedAt:         o.now(),
		})
		if err != nil {
			log.Error("call finalize failed", "record_id", st.CallRecordID, "error", err)
		}
	}

	log.Info("call ended", "business_id", st.BusinessID, "status", status, "duration_s", in.DurationSeconds)
	return nil
}

func (o *Orchestrator) transferNumber(ctx context.Context, businessID string) string {
	b, err := o.Businesses.Get(ctx, businessID)
	if err != nil {
		o.Logger.Error("transfer target lookup failed", "business_id", businessID, "error", err)
		return ""
	}
	return b.PhoneNumber
}

func greeting(b business.Business) string {
	if b.GreetingMessage != "" {
		return b.GreetingMessage
	}
	return business.DefaultGreeting
}
