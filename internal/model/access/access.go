package access

import "time"

// Code is one issued access code scoping a participant to a
// company/campaign pair. Immutable once issued except the active flag.
type Code struct {
	ID           string    `json:"id"`
	CompanyID    string    `json:"company_id"`
	CampaignCode string    `json:"campaign_code"`
	AccessCode   string    `json:"access_code"`
	IsActive     bool      `json:"is_active"`
	CreatedAt    time.Time `json:"created_at"`
}

// Session is the bearer record minted after a successful verify. A zero
// ExpiresAt means the token never expires.
type Session struct {
	Token        string    `json:"access_token"`
	CompanyID    string    `json:"company_id"`
	CampaignCode string    `json:"campaign_code"`
	CreatedAt    time.Time `json:"created_at"`
	ExpiresAt    time.Time `json:"expires_at,omitempty"`
}

// Expired reports whether the session is past its expiry at the given time.
func (s Session) Expired(now time.Time) bool {
	return !s.ExpiresAt.IsZero() && now.After(s.ExpiresAt)
}
