// Package models defines server-side data models persisted in the database.
package models

import "time"

// SentenceRecord is the slice of an inmate's record the adjudication core
// reads. It is owned by the inmate-intake flows and never written here.
type SentenceRecord struct {
	InmateID      string
	SentenceStart time.Time
	SentenceEnd   time.Time
	ConductPoints int
}
