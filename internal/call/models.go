package call

import "time"

// Call is the durable record of one inbound phone call.
//
// The live conversation itself is held in memory (internal/conversation);
// this row is written once at call start, at most once mid-call when an
// appointment action fires, and once at the terminal status webhook.
type Call struct {
	ID         string `json:"id" db:"id"`
	BusinessID string `json:"business_id" db:"business_id"`

	// ProviderCallID is the telephony provider's unique identifier (CallSid).
	ProviderCallID string `json:"provider_call_id" db:"provider_call_id"`
	CallerNumber   string `json:"caller_number,omitempty" db:"caller_number"`
	CalledNumber   string `json:"called_number,omitempty" db:"called_number"`

	Status          Status `json:"status" db:"status"`
	DurationSeconds int    `json:"duration_seconds" db:"duration_seconds"`

	Transcript string `json:"transcript,omitempty" db:"transcript"`

	CallSummary  string `json:"call_summary,omitempty" db:"call_summary"`
	CallerIntent string `json:"caller_intent,omitempty" db:"caller_intent"`
	Sentiment    string `json:"sentiment,omitempty" db:"sentiment"`

	CollectedInfo map[string]any `json:"collected_info" db:"collected_info"`

	ActionTaken   string         `json:"action_taken,omitempty" db:"action_taken"`
	ActionDetails map[string]any `json:"action_details" db:"action_details"`

	RecordingURL string `json:"recording_url,omitempty" db:"recording_url"`

	StartedAt time.Time  `json:"started_at" db:"started_at"`
	EndedAt   *time.Time `json:"ended_at,omitempty" db:"ended_at"`
}

type Status string

const (
	StatusInProgress  Status = "in_progress"
	StatusCompleted   Status = "completed"
	StatusTransferred Status = "transferred"
	StatusVoicemail   Status = "voicemail"
	StatusMissed      Status = "missed"
	StatusFailed      Status = "failed"
)

// ActionAppointmentScheduled is written when the model commits an
// appointment mid-call.
const ActionAppointmentScheduled = "appointment_scheduled"

// MapProviderStatus converts a provider's terminal status vocabulary to the
// internal one. Unrecognized values deliberately default to completed; this
// mirrors long-standing behavior that dashboards depend on.
func MapProviderStatus(provider string) Status {
	switch provider {
	case "completed":
		return StatusCompleted
	case "busy", "no-answer", "canceled":
		return StatusMissed
	case "failed":
		return StatusFailed
	default:
		return StatusCompleted
	}
}
