package models

import "time"

// CommitteeSize is the fixed number of adjudicating officers. A committee
// with fewer members is a draft and cannot be attached to requests.
const CommitteeSize = 5

// Committee statuses. A single row is active at a time; retired versions
// stay in place because requests snapshot the version they were created under.
const (
	CommitteeStatusDraft   = "draft"
	CommitteeStatusActive  = "active"
	CommitteeStatusRetired = "retired"
)

type Committee struct {
	Version   int64
	Status    string
	MemberIDs []string
	CreatedAt time.Time
}

// Complete reports whether the committee has its full member roster.
func (c *Committee) Complete() bool {
	return len(c.MemberIDs) == CommitteeSize
}

// HasMember reports whether the given officer sits on this committee.
func (c *Committee) HasMember(officerID string) bool {
	for _, id := range c.MemberIDs {
		if id == officerID {
			return true
		}
	}
	return false
}
