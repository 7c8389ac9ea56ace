// Package common defines shared constants and sentinel errors used across
// the parole adjudication core. Callers should use errors.Is to match
// these values.
package common

import "errors"

var (
	// Repository-level errors.
	ErrorNotFound      = errors.New("not found")
	ErrorAlreadyExists = errors.New("already exists")

	// Generic service-level errors.
	ErrorInternal = errors.New("internal error")

	// Validation errors.
	ErrInvalidSentence      = errors.New("invalid sentence record")
	ErrInvalidCommitteeSize = errors.New("invalid committee size")
	ErrDuplicateMember      = errors.New("duplicate committee member")
	ErrUnknownOfficer       = errors.New("unknown officer")
	ErrUnknownInmate        = errors.New("unknown inmate")

	// State-conflict errors.
	ErrDuplicateRequest    = errors.New("parole request already open for inmate")
	ErrAlreadyDecided      = errors.New("parole request already decided")
	ErrNotACommitteeMember = errors.New("not a member of the request committee")

	// Precondition errors.
	ErrNotEligible         = errors.New("inmate not eligible for parole")
	ErrNoCommittee         = errors.New("no active committee")
	ErrConsensusNotReached = errors.New("committee consensus not reached")
	ErrCommitteeIncomplete = errors.New("committee draft incomplete")
)
