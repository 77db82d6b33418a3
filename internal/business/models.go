package business

import "time"

// Business is a tenant of the receptionist: one office with its own
// provider number, prompts, and call log.
//
// NOTE: PhoneNumber is the office's human-reachable line (transfer target);
// VoiceNumber is the provider number callers dial to reach the AI.
type Business struct {
	ID string `json:"id" db:"id"`

	Name         string `json:"name" db:"name"`
	BusinessType string `json:"business_type" db:"business_type"`
	Description  string `json:"description,omitempty" db:"description"`

	PhoneNumber string `json:"phone_number,omitempty" db:"phone_number"`
	Email       string `json:"email,omitempty" db:"email"`
	Website     string `json:"website,omitempty" db:"website"`

	AddressLine1 string `json:"address_line1,omitempty" db:"address_line1"`
	AddressLine2 string `json:"address_line2,omitempty" db:"address_line2"`
	City         string `json:"city,omitempty" db:"city"`
	State        string `json:"state,omitempty" db:"state"`
	ZipCode      string `json:"zip_code,omitempty" db:"zip_code"`

	// Hours maps lowercase day name to opening times, e.g.
	// {"monday": {"open": "09:00", "close": "17:00"}}.
	Hours    map[string]DayHours `json:"business_hours" db:"business_hours"`
	Services []string            `json:"services" db:"services"`

	AIVoice         string `json:"ai_voice" db:"ai_voice"`
	AIPersonality   string `json:"ai_personality,omitempty" db:"ai_personality"`
	GreetingMessage string `json:"greeting_message" db:"greeting_message"`

	VoiceNumber string `json:"voice_number,omitempty" db:"voice_number"`

	IsActive bool `json:"is_active" db:"is_active"`

	CreatedAt time.Time `json:"created_at" db:"created_at"`
	UpdatedAt time.Time `json:"updated_at" db:"updated_at"`
}

type DayHours struct {
	Open   string `json:"open,omitempty"`
	Close  string `json:"close,omitempty"`
	Closed bool   `json:"closed,omitempty"`
}

const (
	DefaultBusinessType = "dental"
	DefaultAIVoice      = "alloy"
	DefaultGreeting     = "Thank you for calling. How may I help you today?"
)
