package domain

import "time"

// Authentication outcomes recorded in the audit trail.
const (
	AuthOutcomeAccepted    = "accepted"
	AuthOutcomeRejected    = "rejected"
	AuthOutcomeProvisioned = "provisioned"
)

// AuthEvent is one authentication decision. It carries the username and the
// outcome only; secrets and tokens are never written to the trail.
type AuthEvent struct {
	Username   string    `json:"username"`
	Scheme     string    `json:"scheme"`
	Outcome    string    `json:"outcome"`
	OccurredAt time.Time `json:"occurred_at"`
}
