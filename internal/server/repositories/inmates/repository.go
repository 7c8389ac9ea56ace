// Package inmates reads sentence records from the inmate registry. The
// registry is owned by the intake flows; this core never writes to it.
package inmates

import (
	"context"

	"github.com/corrsys/parolecore/internal/server/models"
)

type Repository interface {
	GetSentence(ctx context.Context, inmateID string) (*models.SentenceRecord, error)
}
