package simulation

import "time"

// Simulation is one multi-turn role-play conversation. The persona is
// fixed at creation; a resumed simulation keeps its original persona.
type Simulation struct {
	ID         string    `json:"simulation_id"`
	PersonaKey string    `json:"persona"`
	CreatedAt  time.Time `json:"created_at"`
}

// Turn is a single exchanged message inside a simulation.
type Turn struct {
	Role      string    `json:"role"` // "user" or "assistant"
	Content   string    `json:"content"`
	CreatedAt time.Time `json:"created_at"`
}
