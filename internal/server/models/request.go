package models

import "time"

// Parole request statuses. Accepted and rejected are terminal: once set,
// the row never transitions again.
const (
	RequestStatusPending  = "pending"
	RequestStatusAccepted = "accepted"
	RequestStatusRejected = "rejected"
)

type ParoleRequest struct {
	ID               string
	InmateID         string
	CommitteeVersion int64
	Status           string
	Reason           string
	DecisionDate     *time.Time
	CreatedAt        time.Time
}

// Terminal reports whether the request has reached a final decision.
func (r *ParoleRequest) Terminal() bool {
	return r.Status == RequestStatusAccepted || r.Status == RequestStatusRejected
}
