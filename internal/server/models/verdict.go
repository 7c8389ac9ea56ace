package models

import "time"

// YearsMonths is a whole-month span, the granularity parole policy
// documents are written in.
type YearsMonths struct {
	Years  int
	Months int
}

// EligibilityVerdict is the point-in-time result of the eligibility
// computation. It is derived on demand and never persisted.
type EligibilityVerdict struct {
	InmateID              string
	ParoleDate            time.Time
	DurationToParole      YearsMonths
	DurationParoleToEnd   YearsMonths
	ConductPoints         int
	ConductPointThreshold int
	Eligible              bool
}
