// Package committees persists adjudicating committee versions and their
// member rosters.
package committees

import (
	"context"

	"github.com/corrsys/parolecore/internal/server/models"
)

type Repository interface {
	// GetByStatus returns the single committee in the given status
	// (draft or active), with its roster in position order.
	GetByStatus(ctx context.Context, status string) (*models.Committee, error)

	// GetByVersion returns the committee identified by version regardless
	// of status.
	GetByVersion(ctx context.Context, version int64) (*models.Committee, error)

	// NextVersion returns the next unused version number.
	NextVersion(ctx context.Context) (int64, error)

	// Insert stores a committee row and its members.
	Insert(ctx context.Context, c *models.Committee) error

	// AddMember appends one officer to an existing committee roster.
	AddMember(ctx context.Context, version int64, position int, officerID string) error

	// SetStatus moves a committee from one status to another, returning
	// false if the row was not in the expected status.
	SetStatus(ctx context.Context, version int64, from, to string) (bool, error)
}
