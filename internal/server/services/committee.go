// Package services contains the server-side business logic of the parole
// adjudication core. This file implements CommitteeService, the registry of
// the single active 5-member adjudicating committee.
package services

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/corrsys/parolecore/internal/common"
	"github.com/corrsys/parolecore/internal/dbx"
	"github.com/corrsys/parolecore/internal/server/config"
	"github.com/corrsys/parolecore/internal/server/events"
	"github.com/corrsys/parolecore/internal/server/models"
	"github.com/corrsys/parolecore/internal/server/repositories/repomanager"
)

// CommitteeService owns committee versioning: replace-all proposals,
// incremental draft build-up, and activation. Committees attached to
// already-created requests are never touched; replacement only retires the
// active row and activates a successor under a higher version.
type CommitteeService struct {
	db          *sql.DB
	repomanager repomanager.RepositoryManager
	config      *config.Config
	publisher   events.Publisher
}

func NewCommitteeService(db *sql.DB, m repomanager.RepositoryManager, cfg *config.Config, pub events.Publisher) *CommitteeService {
	return &CommitteeService{
		db:          db,
		repomanager: m,
		config:      cfg,
		publisher:   pub,
	}
}

// GetActive returns the committee new requests would snapshot.
func (s *CommitteeService) GetActive(ctx context.Context) (*models.Committee, error) {
	repo := s.repomanager.Committees(s.db)

	c, err := repo.GetByStatus(ctx, models.CommitteeStatusActive)
	if err != nil {
		if errors.Is(err, common.ErrorNotFound) {
			return nil, common.ErrNoCommittee
		}
		return nil, fmt.Errorf("error loading active committee: %w", err)
	}
	return c, nil
}

// Propose validates a full candidate roster: exactly CommitteeSize distinct
// officers, each resolvable, active, and holding the adjudicator role. The
// returned committee is not persisted; ReplaceActive does that.
func (s *CommitteeService) Propose(ctx context.Context, memberIDs []string) (*models.Committee, error) {
	if len(memberIDs) != models.CommitteeSize {
		return nil, fmt.Errorf("%w: got %d members, need %d",
			common.ErrInvalidCommitteeSize, len(memberIDs), models.CommitteeSize)
	}

	seen := make(map[string]struct{}, len(memberIDs))
	for _, id := range memberIDs {
		if _, dup := seen[id]; dup {
			return nil, fmt.Errorf("%w: %s", common.ErrDuplicateMember, id)
		}
		seen[id] = struct{}{}

		if err := s.resolveAdjudicator(ctx, id); err != nil {
			return nil, err
		}
	}

	return &models.Committee{MemberIDs: memberIDs}, nil
}

// ReplaceActive proposes the roster and atomically swaps it in: the current
// active committee (if any) is retired and the new one activated under the
// next version, all in one transaction so in-flight submits snapshot either
// the old complete committee or the new one, never a partial state.
func (s *CommitteeService) ReplaceActive(ctx context.Context, memberIDs []string) (*models.Committee, error) {
	candidate, err := s.Propose(ctx, memberIDs)
	if err != nil {
		return nil, err
	}

	if err := dbx.WithTx(ctx, s.db, nil, func(ctx context.Context, tx dbx.DBTX) error {
		repo := s.repomanager.Committees(tx)

		version, err := repo.NextVersion(ctx)
		if err != nil {
			return fmt.Errorf("error allocating committee version: %w", err)
		}

		if err := s.retireActive(ctx, tx); err != nil {
			return err
		}

		candidate.Version = version
		candidate.Status = models.CommitteeStatusActive
		if err := repo.Insert(ctx, candidate); err != nil {
			return fmt.Errorf("error storing committee: %w", err)
		}
		return nil
	}); err != nil {
		return nil, err
	}

	s.publisher.Publish(ctx, events.CommitteeReplaced{
		Version:   candidate.Version,
		MemberIDs: candidate.MemberIDs,
	})

	return candidate, nil
}

// StartDraft opens an empty draft committee for incremental build-up.
// Only one draft exists at a time.
func (s *CommitteeService) StartDraft(ctx context.Context) (*models.Committee, error) {
	repo := s.repomanager.Committees(s.db)

	if _, err := repo.GetByStatus(ctx, models.CommitteeStatusDraft); err == nil {
		return nil, common.ErrorAlreadyExists
	} else if !errors.Is(err, common.ErrorNotFound) {
		return nil, fmt.Errorf("error checking for existing draft: %w", err)
	}

	draft := &models.Committee{Status: models.CommitteeStatusDraft}

	if err := dbx.WithTx(ctx, s.db, nil, func(ctx context.Context, tx dbx.DBTX) error {
		txRepo := s.repomanager.Committees(tx)

		version, err := txRepo.NextVersion(ctx)
		if err != nil {
			return fmt.Errorf("error allocating committee version: %w", err)
		}
		draft.Version = version
		if err := txRepo.Insert(ctx, draft); err != nil {
			return fmt.Errorf("error storing draft: %w", err)
		}
		return nil
	}); err != nil {
		return nil, err
	}

	return draft, nil
}

// AddDraftMember appends one officer to the current draft. Drafts stay
// unselectable by the adjudication flow until activated.
func (s *CommitteeService) AddDraftMember(ctx context.Context, officerID string) (*models.Committee, error) {
	repo := s.repomanager.Committees(s.db)

	draft, err := repo.GetByStatus(ctx, models.CommitteeStatusDraft)
	if err != nil {
		if errors.Is(err, common.ErrorNotFound) {
			return nil, common.ErrorNotFound
		}
		return nil, fmt.Errorf("error loading draft: %w", err)
	}

	if draft.Complete() {
		return nil, fmt.Errorf("%w: draft already has %d members",
			common.ErrInvalidCommitteeSize, models.CommitteeSize)
	}
	if draft.HasMember(officerID) {
		return nil, fmt.Errorf("%w: %s", common.ErrDuplicateMember, officerID)
	}
	if err := s.resolveAdjudicator(ctx, officerID); err != nil {
		return nil, err
	}

	if err := repo.AddMember(ctx, draft.Version, len(draft.MemberIDs)+1, officerID); err != nil {
		if errors.Is(err, common.ErrorAlreadyExists) {
			return nil, fmt.Errorf("%w: %s", common.ErrDuplicateMember, officerID)
		}
		return nil, fmt.Errorf("error adding draft member: %w", err)
	}

	draft.MemberIDs = append(draft.MemberIDs, officerID)
	return draft, nil
}

// ActivateDraft promotes a complete draft to active, retiring the current
// active committee in the same transaction.
func (s *CommitteeService) ActivateDraft(ctx context.Context) (*models.Committee, error) {
	repo := s.repomanager.Committees(s.db)

	draft, err := repo.GetByStatus(ctx, models.CommitteeStatusDraft)
	if err != nil {
		if errors.Is(err, common.ErrorNotFound) {
			return nil, common.ErrorNotFound
		}
		return nil, fmt.Errorf("error loading draft: %w", err)
	}
	if !draft.Complete() {
		return nil, fmt.Errorf("%w: %d of %d members",
			common.ErrCommitteeIncomplete, len(draft.MemberIDs), models.CommitteeSize)
	}

	if err := dbx.WithTx(ctx, s.db, nil, func(ctx context.Context, tx dbx.DBTX) error {
		if err := s.retireActive(ctx, tx); err != nil {
			return err
		}

		ok, err := s.repomanager.Committees(tx).SetStatus(ctx,
			draft.Version, models.CommitteeStatusDraft, models.CommitteeStatusActive)
		if err != nil {
			return fmt.Errorf("error activating draft: %w", err)
		}
		if !ok {
			// the draft was activated or discarded concurrently
			return common.ErrorNotFound
		}
		return nil
	}); err != nil {
		return nil, err
	}

	draft.Status = models.CommitteeStatusActive
	s.publisher.Publish(ctx, events.CommitteeReplaced{
		Version:   draft.Version,
		MemberIDs: draft.MemberIDs,
	})

	return draft, nil
}

func (s *CommitteeService) retireActive(ctx context.Context, tx dbx.DBTX) error {
	repo := s.repomanager.Committees(tx)

	current, err := repo.GetByStatus(ctx, models.CommitteeStatusActive)
	if err != nil {
		if errors.Is(err, common.ErrorNotFound) {
			return nil
		}
		return fmt.Errorf("error loading active committee: %w", err)
	}

	ok, err := repo.SetStatus(ctx, current.Version, models.CommitteeStatusActive, models.CommitteeStatusRetired)
	if err != nil {
		return fmt.Errorf("error retiring committee: %w", err)
	}
	if !ok {
		return fmt.Errorf("error retiring committee: version %d changed status", current.Version)
	}
	return nil
}

func (s *CommitteeService) resolveAdjudicator(ctx context.Context, officerID string) error {
	repo := s.repomanager.Officers(s.db)

	officer, err := repo.GetByID(ctx, officerID)
	if err != nil {
		if errors.Is(err, common.ErrorNotFound) {
			return fmt.Errorf("%w: %s", common.ErrUnknownOfficer, officerID)
		}
		return fmt.Errorf("error resolving officer: %w", err)
	}
	if !officer.Active || officer.Role != models.AdjudicatorRole {
		return fmt.Errorf("%w: %s is not an active %s",
			common.ErrUnknownOfficer, officerID, models.AdjudicatorRole)
	}
	return nil
}
