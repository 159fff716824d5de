package report

// TranscriptEntry is one speaker-labeled line of the simulation transcript
// as the frontend submits it.
type TranscriptEntry struct {
	Role string `json:"role"` // "leader" or "member"
	Text string `json:"text"`
	Time string `json:"time,omitempty"`
}

// Topic identifies the meeting topic the leader picked.
type Topic struct {
	ID    string `json:"id"`
	Label string `json:"label"`
}

// PersonaRef identifies the team-member persona of the simulation.
type PersonaRef struct {
	ID          string `json:"id"`
	Name        string `json:"name"`
	DisplayName string `json:"displayName,omitempty"`
}

// Situation identifies the scenario the leader picked.
type Situation struct {
	ID    string `json:"id"`
	Title string `json:"title"`
}

// Request is the report-generation payload.
type Request struct {
	CompanyID       string            `json:"company_id" validate:"required"`
	Topic           Topic             `json:"topic"`
	Persona         PersonaRef        `json:"persona"`
	Situation       Situation         `json:"situation"`
	Agenda          string            `json:"agenda,omitempty"`
	ChatHistory     []TranscriptEntry `json:"chatHistory" validate:"required,min=1"`
	LastUserMessage string            `json:"lastUserMessage,omitempty"`
	LastCoachReply  string            `json:"lastCoachReply,omitempty"`
	SimulationID    string            `json:"simulation_id,omitempty"`

	// CampaignCode is filled from the resolved access session, not the
	// request body.
	CampaignCode string `json:"-"`
}

// Report is the four-part coaching report returned to the frontend. The
// jsonschema tags drive the schema embedded in the provider prompt.
type Report struct {
	Summary      string   `json:"summary" jsonschema_description:"면담 전체에 대한 현상 진단 요약 (2~4문장)"`
	Strengths    []string `json:"strengths" jsonschema_description:"리더가 잘한 점 목록"`
	Improvements []string `json:"improvements" jsonschema_description:"리더가 개선할 점 목록"`
	CoachNote    string   `json:"coachNote" jsonschema_description:"코치의 한마디 (2~3문장)"`
}
