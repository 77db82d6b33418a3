package integration

import "time"

// Integration is a configured connection to external scheduling/CRM software.
type Integration struct {
	ID         string `json:"id" db:"id"`
	BusinessID string `json:"business_id" db:"business_id"`

	Name            string `json:"name" db:"name"`
	IntegrationType string `json:"integration_type" db:"integration_type"`

	APIBaseURL string `json:"api_base_url,omitempty" db:"api_base_url"`
	// TODO: encrypt api_key/api_secret at rest once a KMS decision lands.
	APIKey    string `json:"api_key,omitempty" db:"api_key"`
	APISecret string `json:"api_secret,omitempty" db:"api_secret"`

	Config map[string]any `json:"config" db:"config"`

	AccessToken    string     `json:"access_token,omitempty" db:"access_token"`
	RefreshToken   string     `json:"refresh_token,omitempty" db:"refresh_token"`
	TokenExpiresAt *time.Time `json:"token_expires_at,omitempty" db:"token_expires_at"`

	IsActive    bool       `json:"is_active" db:"is_active"`
	IsConnected bool       `json:"is_connected" db:"is_connected"`
	LastSyncAt  *time.Time `json:"last_sync_at,omitempty" db:"last_sync_at"`
	LastError   string     `json:"last_error,omitempty" db:"last_error"`

	CreatedAt time.Time `json:"created_at" db:"created_at"`
	UpdatedAt time.Time `json:"updated_at" db:"updated_at"`
}

// Supported describes an integration the platform knows how to connect.
type Supported struct {
	ID            string `json:"id"`
	Name          string `json:"name"`
	Type          string `json:"type"`
	Description   string `json:"description"`
	RequiresOAuth bool   `json:"requires_oauth"`
}

// Catalog lists the integrations the platform supports out of the box.
func Catalog() []Supported {
	return []Supported{
		{ID: "dentrix", Name: "Dentrix", Type: "scheduling", Description: "Henry Schein Dentrix practice management software"},
		{ID: "open_dental", Name: "Open Dental", Type: "scheduling", Description: "Open-source dental practice management software"},
		{ID: "eaglesoft", Name: "Eaglesoft", Type: "scheduling", Description: "Patterson Dental Eaglesoft practice management"},
		{ID: "practice_web", Name: "Practice-Web", Type: "scheduling", Description: "Practice-Web dental software"},
		{ID: "google_calendar", Name: "Google Calendar", Type: "scheduling", Description: "Google Calendar for appointment scheduling", RequiresOAuth: true},
		{ID: "microsoft_bookings", Name: "Microsoft Bookings", Type: "scheduling", Description: "Microsoft 365 Bookings for scheduling", RequiresOAuth: true},
		{ID: "calendly", Name: "Calendly", Type: "scheduling", Description: "Calendly scheduling platform", RequiresOAuth: true},
		{ID: "custom_api", Name: "Custom API", Type: "scheduling", Description: "Connect to your own scheduling API"},
	}
}
