package prompt

import "time"

// Prompt is a configurable script the AI receptionist is instructed with.
// Prompts are not matched algorithmically: they are flattened into the model
// context in priority order and the model decides relevance.
type Prompt struct {
	ID         string `json:"id" db:"id"`
	BusinessID string `json:"business_id" db:"business_id"`

	Name     string   `json:"name" db:"name"`
	Category Category `json:"category" db:"category"`

	// TriggerPhrases are example caller utterances this script applies to.
	// Stored as a JSON text column; decoded at the repository boundary.
	TriggerPhrases []string `json:"trigger_phrases" db:"trigger_phrases"`

	Content        string `json:"content" db:"content"`
	AIInstructions string `json:"ai_instructions,omitempty" db:"ai_instructions"`

	RequiresInfoCollection bool     `json:"requires_info_collection" db:"requires_info_collection"`
	FieldsToCollect        []string `json:"fields_to_collect" db:"fields_to_collect"`

	// Higher priority prompts are presented to the model first.
	Priority int  `json:"priority" db:"priority"`
	IsActive bool `json:"is_active" db:"is_active"`

	CreatedAt time.Time `json:"created_at" db:"created_at"`
	UpdatedAt time.Time `json:"updated_at" db:"updated_at"`
}

type Category string

const (
	CategoryGreeting     Category = "greeting"
	CategoryScheduling   Category = "scheduling"
	CategoryFAQ          Category = "faq"
	CategoryServices     Category = "services"
	CategoryHours        Category = "hours"
	CategoryLocation     Category = "location"
	CategoryInsurance    Category = "insurance"
	CategoryEmergency    Category = "emergency"
	CategoryCancellation Category = "cancellation"
	CategoryCallback     Category = "callback"
	CategoryTransfer     Category = "transfer"
	CategoryClosing      Category = "closing"
	CategoryCustom       Category = "custom"
)

// Categories returns the full category vocabulary for the dashboard.
func Categories() []Category {
	return []Category{
		CategoryGreeting, CategoryScheduling, CategoryFAQ, CategoryServices,
		CategoryHours, CategoryLocation, CategoryInsurance, CategoryEmergency,
		CategoryCancellation, CategoryCallback, CategoryTransfer,
		CategoryClosing, CategoryCustom,
	}
}

func (c Category) Valid() bool {
	switch c {
	case CategoryGreeting, CategoryScheduling, CategoryFAQ, CategoryServices,
		CategoryHours, CategoryLocation, CategoryInsurance, CategoryEmergency,
		CategoryCancellation, CategoryCallback, CategoryTransfer,
		CategoryClosing, CategoryCustom:
		return true
	default:
		return false
	}
}
