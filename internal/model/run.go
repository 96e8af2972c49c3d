package model

import "time"

// CloseRun is one audit-log row: a single engine tool invocation within a
// close session, with a compact JSON summary of the result.
type CloseRun struct {
	ID           string    `json:"id"`
	SessionID    string    `json:"session_id"`
	Tool         string    `json:"tool"`
	BusinessUnit string    `json:"business_unit"`
	Summary      string    `json:"summary"`
	CreatedAt    time.Time `json:"created_at"`
}
