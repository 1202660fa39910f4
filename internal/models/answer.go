package models

import "time"

// VerifiedResult is the structured output of the verification stage. Every
// code path through verification produces a well-formed VerifiedResult; the
// stage never returns an error to its caller.
type VerifiedResult struct {
	Summary         string   `json:"summary"`
	KeyPoints       []string `json:"key_points"`
	ConfidenceScore float64  `json:"confidence_score"` // always within [0,1]
}

// ResponseEnvelope is the terminal response returned to the caller for every
// query. Exactly one envelope is produced per query, including on failure.
type ResponseEnvelope struct {
	Summary         string   `json:"summary"`
	KeyPoints       []string `json:"key_points"`
	ConfidenceScore float64  `json:"confidence_score"`
	IsSafe          bool     `json:"is_safe"`
	Trace           []string `json:"trace"`
	Error           string   `json:"error,omitempty"`
}

// RejectionRecord is an audit entry for a query blocked by the security gate.
type RejectionRecord struct {
	ID        string    `json:"id"`
	Query     string    `json:"query"`
	Reason    string    `json:"reason"` // e.g. "injection"
	CreatedAt time.Time `json:"created_at"`
}
