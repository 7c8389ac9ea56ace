package models

// AdjudicatorRole is the officer role required to sit on the committee.
const AdjudicatorRole = "inspector"

// Officer is the slice of the officer directory this core reads.
type Officer struct {
	ID       string
	FullName string
	Role     string
	Active   bool
}
