package models

import "time"

// Signature is one committee member's sign-off slot on a request. Rows are
// created together with the request, one per member of the committee
// snapshot, and only the HasSigned/SignedAt pair ever changes.
type Signature struct {
	RequestID string
	MemberID  string
	HasSigned bool
	SignedAt  *time.Time
}
