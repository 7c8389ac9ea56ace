// Package officers resolves officer identities and roles for committee
// proposals. The officer directory is maintained elsewhere; reads only.
package officers

import (
	"context"

	"github.com/corrsys/parolecore/internal/server/models"
)

type Repository interface {
	GetByID(ctx context.Context, officerID string) (*models.Officer, error)
}
