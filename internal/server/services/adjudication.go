package services

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/corrsys/parolecore/internal/common"
	"github.com/corrsys/parolecore/internal/dbx"
	"github.com/corrsys/parolecore/internal/server/config"
	"github.com/corrsys/parolecore/internal/server/eligibility"
	"github.com/corrsys/parolecore/internal/server/events"
	"github.com/corrsys/parolecore/internal/server/models"
	"github.com/corrsys/parolecore/internal/server/repositories/repomanager"
)

// AdjudicationService orchestrates the parole workflow: it computes
// eligibility, opens requests against the active committee, and is the only
// component allowed to flip a request's terminal status.
type AdjudicationService struct {
	db          *sql.DB
	repomanager repomanager.RepositoryManager
	config      *config.Config
	publisher   events.Publisher

	// now is a seam for tests; production uses time.Now.
	now func() time.Time
}

func NewAdjudicationService(db *sql.DB, m repomanager.RepositoryManager, cfg *config.Config, pub events.Publisher) *AdjudicationService {
	return &AdjudicationService{
		db:          db,
		repomanager: m,
		config:      cfg,
		publisher:   pub,
		now:         time.Now,
	}
}

func (s *AdjudicationService) policy() eligibility.Policy {
	return eligibility.Policy{
		ConductPointThreshold: s.config.EligibilityThreshold,
		FractionNumerator:     s.config.ParoleFractionNumerator,
		FractionDenominator:   s.config.ParoleFractionDenominator,
	}
}

// ComputeVerdict derives the eligibility verdict for an inmate as of the
// given date. The asOf parameter lets reporting screens replay history.
func (s *AdjudicationService) ComputeVerdict(ctx context.Context, inmateID string, asOf time.Time) (*models.EligibilityVerdict, error) {
	rec, err := s.repomanager.Inmates(s.db).GetSentence(ctx, inmateID)
	if err != nil {
		if errors.Is(err, common.ErrorNotFound) {
			return nil, fmt.Errorf("%w: %s", common.ErrUnknownInmate, inmateID)
		}
		return nil, fmt.Errorf("error loading sentence record: %w", err)
	}

	return eligibility.ComputeVerdict(rec, asOf, s.policy())
}

// RequestParole opens a pending request for the inmate. Preconditions: the
// inmate is eligible now, no open request exists, and a complete active
// committee is available. The request row and its unsigned signature roster
// are created in one transaction; the one-open-request rule is enforced by
// the database, so two concurrent submits yield exactly one pending request.
func (s *AdjudicationService) RequestParole(ctx context.Context, inmateID string) (*models.ParoleRequest, error) {
	verdict, err := s.ComputeVerdict(ctx, inmateID, s.now())
	if err != nil {
		return nil, err
	}
	if !verdict.Eligible {
		return nil, fmt.Errorf("%w: parole date %s, conduct points %d of %d",
			common.ErrNotEligible,
			verdict.ParoleDate.Format(time.DateOnly),
			verdict.ConductPoints, verdict.ConductPointThreshold)
	}

	committee, err := s.repomanager.Committees(s.db).GetByStatus(ctx, models.CommitteeStatusActive)
	if err != nil {
		if errors.Is(err, common.ErrorNotFound) {
			return nil, common.ErrNoCommittee
		}
		return nil, fmt.Errorf("error loading active committee: %w", err)
	}

	req := &models.ParoleRequest{
		ID:               uuid.New().String(),
		InmateID:         inmateID,
		CommitteeVersion: committee.Version,
		Status:           models.RequestStatusPending,
	}

	if err := dbx.WithTx(ctx, s.db, nil, func(ctx context.Context, tx dbx.DBTX) error {
		if err := s.repomanager.Requests(tx).Create(ctx, req); err != nil {
			if errors.Is(err, common.ErrorAlreadyExists) {
				return fmt.Errorf("%w: inmate %s", common.ErrDuplicateRequest, inmateID)
			}
			return fmt.Errorf("error creating request: %w", err)
		}
		if err := s.repomanager.Signatures(tx).CreateForMembers(ctx, req.ID, committee.MemberIDs); err != nil {
			return fmt.Errorf("error creating signature roster: %w", err)
		}
		return nil
	}); err != nil {
		return nil, err
	}

	s.publisher.Publish(ctx, events.ParoleRequested{
		RequestID:        req.ID,
		InmateID:         req.InmateID,
		CommitteeVersion: req.CommitteeVersion,
	})

	return req, nil
}

// AcceptRequest resolves a pending request as accepted.
func (s *AdjudicationService) AcceptRequest(ctx context.Context, requestID, reason string, decisionDate time.Time) (*models.ParoleRequest, error) {
	return s.decide(ctx, requestID, models.RequestStatusAccepted, reason, decisionDate)
}

// RejectRequest resolves a pending request as rejected.
func (s *AdjudicationService) RejectRequest(ctx context.Context, requestID, reason string, decisionDate time.Time) (*models.ParoleRequest, error) {
	return s.decide(ctx, requestID, models.RequestStatusRejected, reason, decisionDate)
}

// decide flips the request's status through a compare-and-set update:
// concurrent decisions on the same request see exactly one success, and
// every later attempt fails with ErrAlreadyDecided no matter the outcome it
// asked for.
func (s *AdjudicationService) decide(ctx context.Context, requestID, status, reason string, decisionDate time.Time) (*models.ParoleRequest, error) {
	repo := s.repomanager.Requests(s.db)

	req, err := repo.GetByID(ctx, requestID)
	if err != nil {
		if errors.Is(err, common.ErrorNotFound) {
			return nil, common.ErrorNotFound
		}
		return nil, fmt.Errorf("error loading request: %w", err)
	}
	if req.Terminal() {
		return nil, common.ErrAlreadyDecided
	}

	if s.config.ConsensusPolicy != config.ConsensusAdministrative {
		roster, err := s.repomanager.Signatures(s.db).ListByRequest(ctx, requestID)
		if err != nil {
			return nil, fmt.Errorf("error loading signatures: %w", err)
		}
		if !consensusReached(s.config.ConsensusPolicy, roster) {
			return nil, common.ErrConsensusNotReached
		}
	}

	ok, err := repo.Decide(ctx, requestID, status, reason, decisionDate)
	if err != nil {
		return nil, fmt.Errorf("error updating request: %w", err)
	}
	if !ok {
		return nil, common.ErrAlreadyDecided
	}

	req.Status = status
	req.Reason = reason
	req.DecisionDate = &decisionDate

	switch status {
	case models.RequestStatusAccepted:
		s.publisher.Publish(ctx, events.ParoleAccepted{
			RequestID:    req.ID,
			InmateID:     req.InmateID,
			Reason:       reason,
			DecisionDate: decisionDate,
		})
	case models.RequestStatusRejected:
		s.publisher.Publish(ctx, events.ParoleRejected{
			RequestID:    req.ID,
			InmateID:     req.InmateID,
			Reason:       reason,
			DecisionDate: decisionDate,
		})
	}

	return req, nil
}

// GetStatus returns the request with its current status. Reads never
// mutate and are available in any state.
func (s *AdjudicationService) GetStatus(ctx context.Context, requestID string) (*models.ParoleRequest, error) {
	req, err := s.repomanager.Requests(s.db).GetByID(ctx, requestID)
	if err != nil {
		if errors.Is(err, common.ErrorNotFound) {
			return nil, common.ErrorNotFound
		}
		return nil, fmt.Errorf("error loading request: %w", err)
	}
	return req, nil
}

// ListRequests returns the inmate's request history, newest first.
func (s *AdjudicationService) ListRequests(ctx context.Context, inmateID string) ([]*models.ParoleRequest, error) {
	list, err := s.repomanager.Requests(s.db).ListByInmate(ctx, inmateID)
	if err != nil {
		return nil, fmt.Errorf("error listing requests: %w", err)
	}
	return list, nil
}
