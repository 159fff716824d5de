package registry

import "time"

// Company is a client organization running simulation campaigns.
type Company struct {
	ID          string    `json:"id"`
	Name        string    `json:"name"`
	Description string    `json:"description,omitempty"`
	IsActive    bool      `json:"is_active"`
	CreatedAt   time.Time `json:"created_at"`
}

// Diagnostic is one campaign/program run for a company. The company
// reference is loose; no referential integrity is enforced.
type Diagnostic struct {
	ID          string    `json:"id"`
	CompanyID   string    `json:"company_id"`
	Name        string    `json:"name"`
	Description string    `json:"description,omitempty"`
	IsActive    bool      `json:"is_active"`
	CreatedAt   time.Time `json:"created_at"`
}

// ConversationLog is one append-only record written per generated report.
type ConversationLog struct {
	ID              string    `json:"id"`
	CompanyID       string    `json:"company_id"`
	CampaignCode    string    `json:"campaign_code,omitempty"`
	SimulationID    string    `json:"simulation_id,omitempty"`
	Persona         string    `json:"persona"`
	Topic           string    `json:"topic,omitempty"`
	Situation       string    `json:"situation,omitempty"`
	LastUserMessage string    `json:"last_user_message,omitempty"`
	LastCoachReply  string    `json:"last_coach_reply,omitempty"`
	CreatedAt       time.Time `json:"created_at"`
}

// CompanyPatch carries a partial company update. Nil fields are untouched.
type CompanyPatch struct {
	Name        *string `json:"name"`
	Description *string `json:"description"`
	IsActive    *bool   `json:"is_active"`
}

// DiagnosticPatch carries a partial diagnostic update.
type DiagnosticPatch struct {
	Name        *string `json:"name"`
	Description *string `json:"description"`
	IsActive    *bool   `json:"is_active"`
}
