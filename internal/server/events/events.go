// Package events defines the domain events the adjudication core emits for
// audit logging and user-facing notices. Delivery is best effort: publishing
// never fails the operation that produced the event.
package events

import "time"

// Event kinds.
const (
	KindParoleRequested   = "parole_requested"
	KindParoleAccepted    = "parole_accepted"
	KindParoleRejected    = "parole_rejected"
	KindCommitteeReplaced = "committee_replaced"
)

type ParoleRequested struct {
	RequestID        string
	InmateID         string
	CommitteeVersion int64
}

func (ParoleRequested) Kind() string { return KindParoleRequested }

type ParoleAccepted struct {
	RequestID    string
	InmateID     string
	Reason       string
	DecisionDate time.Time
}

func (ParoleAccepted) Kind() string { return KindParoleAccepted }

type ParoleRejected struct {
	RequestID    string
	InmateID     string
	Reason       string
	DecisionDate time.Time
}

func (ParoleRejected) Kind() string { return KindParoleRejected }

type CommitteeReplaced struct {
	Version   int64
	MemberIDs []string
}

func (CommitteeReplaced) Kind() string { return KindCommitteeReplaced }

// Event is implemented by all domain events.
type Event interface {
	Kind() string
}
