package services

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/corrsys/parolecore/internal/common"
	"github.com/corrsys/parolecore/internal/server/config"
	"github.com/corrsys/parolecore/internal/server/models"
	"github.com/corrsys/parolecore/internal/server/repositories/repomanager"
)

// SignatureService records committee members' sign-offs against requests and
// evaluates the consensus policy. Rows exist from request creation onward;
// signing only flips a pre-created row.
type SignatureService struct {
	db          *sql.DB
	repomanager repomanager.RepositoryManager
	config      *config.Config
}

func NewSignatureService(db *sql.DB, m repomanager.RepositoryManager, cfg *config.Config) *SignatureService {
	return &SignatureService{
		db:          db,
		repomanager: m,
		config:      cfg,
	}
}

// Sign marks the member's signature on the request. Signing twice is an
// idempotent no-op: the stored SignedAt is not touched. Members outside the
// request's committee snapshot are rejected, as are terminal requests.
func (s *SignatureService) Sign(ctx context.Context, requestID, memberID string) error {
	req, err := s.repomanager.Requests(s.db).GetByID(ctx, requestID)
	if err != nil {
		if errors.Is(err, common.ErrorNotFound) {
			return common.ErrorNotFound
		}
		return fmt.Errorf("error loading request: %w", err)
	}
	if req.Terminal() {
		return common.ErrAlreadyDecided
	}

	repo := s.repomanager.Signatures(s.db)

	sig, err := repo.Get(ctx, requestID, memberID)
	if err != nil {
		if errors.Is(err, common.ErrorNotFound) {
			return fmt.Errorf("%w: %s", common.ErrNotACommitteeMember, memberID)
		}
		return fmt.Errorf("error loading signature: %w", err)
	}
	if sig.HasSigned {
		return nil
	}

	// MarkSigned only touches unsigned rows; a false result means another
	// call signed first, which is the same no-op.
	if _, err := repo.MarkSigned(ctx, requestID, memberID, time.Now()); err != nil {
		return fmt.Errorf("error recording signature: %w", err)
	}
	return nil
}

// ConsensusReached reports whether the configured policy is satisfied for
// the request.
func (s *SignatureService) ConsensusReached(ctx context.Context, requestID string) (bool, error) {
	roster, err := s.Roster(ctx, requestID)
	if err != nil {
		return false, err
	}
	return consensusReached(s.config.ConsensusPolicy, roster), nil
}

// Roster returns the per-member signature state for the request.
func (s *SignatureService) Roster(ctx context.Context, requestID string) ([]*models.Signature, error) {
	if _, err := s.repomanager.Requests(s.db).GetByID(ctx, requestID); err != nil {
		if errors.Is(err, common.ErrorNotFound) {
			return nil, common.ErrorNotFound
		}
		return nil, fmt.Errorf("error loading request: %w", err)
	}

	roster, err := s.repomanager.Signatures(s.db).ListByRequest(ctx, requestID)
	if err != nil {
		return nil, fmt.Errorf("error loading signatures: %w", err)
	}
	return roster, nil
}
