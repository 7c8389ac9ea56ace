// Package signatures persists per-member sign-off rows for parole requests.
// The roster is fixed at request creation: rows are only ever flipped from
// unsigned to signed, never added or removed mid-request.
package signatures

import (
	"context"
	"time"

	"github.com/corrsys/parolecore/internal/server/models"
)

type Repository interface {
	// CreateForMembers pre-populates one unsigned row per committee member.
	CreateForMembers(ctx context.Context, requestID string, memberIDs []string) error

	Get(ctx context.Context, requestID, memberID string) (*models.Signature, error)

	ListByRequest(ctx context.Context, requestID string) ([]*models.Signature, error)

	// MarkSigned sets has_signed for the member's row. Returns false when
	// the row was already signed, which callers treat as an idempotent
	// no-op; a missing row surfaces as common.ErrorNotFound from Get.
	MarkSigned(ctx context.Context, requestID, memberID string, at time.Time) (bool, error)
}
