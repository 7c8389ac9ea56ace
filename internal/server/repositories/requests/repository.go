// Package requests persists parole requests and their status transitions.
// Terminal rows are never updated or deleted; the ledger is the audit trail.
package requests

import (
	"context"
	"time"

	"github.com/corrsys/parolecore/internal/server/models"
)

type Repository interface {
	// Create inserts a pending request. A second open request for the same
	// inmate fails with common.ErrorAlreadyExists via the partial unique
	// index on (inmate_id) WHERE status = 'pending'.
	Create(ctx context.Context, req *models.ParoleRequest) error

	GetByID(ctx context.Context, id string) (*models.ParoleRequest, error)

	ListByInmate(ctx context.Context, inmateID string) ([]*models.ParoleRequest, error)

	// Decide flips a pending request to a terminal status. The update is a
	// compare-and-set on status = 'pending': it returns false when the row
	// was already terminal, so concurrent deciders see exactly one success.
	Decide(ctx context.Context, id, status, reason string, decisionDate time.Time) (bool, error)
}
