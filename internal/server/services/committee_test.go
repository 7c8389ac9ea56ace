package services

import (
	"context"
	"errors"
	"testing"

	"github.com/corrsys/parolecore/internal/common"
	"github.com/corrsys/parolecore/internal/server/events"
	"github.com/corrsys/parolecore/internal/server/models"
)

func inspectors(ids ...string) map[string]*models.Officer {
	out := make(map[string]*models.Officer, len(ids))
	for _, id := range ids {
		out[id] = &models.Officer{ID: id, Role: models.AdjudicatorRole, Active: true}
	}
	return out
}

func fiveIDs() []string {
	return []string{"o1", "o2", "o3", "o4", "o5"}
}

func TestPropose_Success(t *testing.T) {
	db, _ := newSQLMockDB(t)
	defer db.Close()

	rm := &fakeRepoManager{off: &fakeOfficersRepo{officers: inspectors(fiveIDs()...)}}
	s := NewCommitteeService(db, rm, testConfig(), &capturePublisher{})

	c, err := s.Propose(context.Background(), fiveIDs())
	if err != nil {
		t.Fatalf("Propose error: %v", err)
	}
	if len(c.MemberIDs) != models.CommitteeSize {
		t.Fatalf("want %d members, got %d", models.CommitteeSize, len(c.MemberIDs))
	}
}

func TestPropose_WrongSize(t *testing.T) {
	db, _ := newSQLMockDB(t)
	defer db.Close()

	rm := &fakeRepoManager{off: &fakeOfficersRepo{officers: inspectors(fiveIDs()...)}}
	s := NewCommitteeService(db, rm, testConfig(), &capturePublisher{})

	_, err := s.Propose(context.Background(), []string{"o1", "o2", "o3", "o4"})
	if !errors.Is(err, common.ErrInvalidCommitteeSize) {
		t.Fatalf("want ErrInvalidCommitteeSize, got %v", err)
	}
}

func TestPropose_DuplicateMember(t *testing.T) {
	db, _ := newSQLMockDB(t)
	defer db.Close()

	rm := &fakeRepoManager{off: &fakeOfficersRepo{officers: inspectors(fiveIDs()...)}}
	s := NewCommitteeService(db, rm, testConfig(), &capturePublisher{})

	_, err := s.Propose(context.Background(), []string{"o1", "o2", "o3", "o4", "o1"})
	if !errors.Is(err, common.ErrDuplicateMember) {
		t.Fatalf("want ErrDuplicateMember, got %v", err)
	}
}

func TestPropose_UnknownOfficer(t *testing.T) {
	db, _ := newSQLMockDB(t)
	defer db.Close()

	rm := &fakeRepoManager{off: &fakeOfficersRepo{officers: inspectors("o1", "o2", "o3", "o4")}}
	s := NewCommitteeService(db, rm, testConfig(), &capturePublisher{})

	_, err := s.Propose(context.Background(), fiveIDs())
	if !errors.Is(err, common.ErrUnknownOfficer) {
		t.Fatalf("want ErrUnknownOfficer, got %v", err)
	}
}

func TestPropose_WrongRole(t *testing.T) {
	db, _ := newSQLMockDB(t)
	defer db.Close()

	dir := inspectors(fiveIDs()...)
	dir["o5"].Role = "warden"

	rm := &fakeRepoManager{off: &fakeOfficersRepo{officers: dir}}
	s := NewCommitteeService(db, rm, testConfig(), &capturePublisher{})

	_, err := s.Propose(context.Background(), fiveIDs())
	if !errors.Is(err, common.ErrUnknownOfficer) {
		t.Fatalf("want ErrUnknownOfficer, got %v", err)
	}
}

func TestReplaceActive_RetiresPreviousVersion(t *testing.T) {
	db, mock := newSQLMockDB(t)
	defer db.Close()
	mock.ExpectBegin()
	mock.ExpectCommit()

	rm := &fakeRepoManager{
		off: &fakeOfficersRepo{officers: inspectors(fiveIDs()...)},
		com: &fakeCommitteesRepo{
			byStatus: map[string]*models.Committee{
				models.CommitteeStatusActive: activeCommittee(),
			},
			nextVersion: 4,
			setStatusOK: true,
		},
	}
	pub := &capturePublisher{}
	s := NewCommitteeService(db, rm, testConfig(), pub)

	c, err := s.ReplaceActive(context.Background(), fiveIDs())
	if err != nil {
		t.Fatalf("ReplaceActive error: %v", err)
	}
	if c.Version != 4 {
		t.Fatalf("want version 4, got %d", c.Version)
	}
	if c.Status != models.CommitteeStatusActive {
		t.Fatalf("want active, got %s", c.Status)
	}
	if len(rm.com.statusChanges) != 1 || rm.com.statusChanges[0] != "active->retired" {
		t.Fatalf("previous committee must be retired, got %v", rm.com.statusChanges)
	}
	if len(rm.com.inserted) != 1 {
		t.Fatalf("want one insert, got %d", len(rm.com.inserted))
	}
	if len(pub.published) != 1 || pub.published[0].Kind() != events.KindCommitteeReplaced {
		t.Fatalf("want one CommitteeReplaced event, got %+v", pub.published)
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatalf("unmet expectations: %v", err)
	}
}

func TestReplaceActive_FirstCommittee(t *testing.T) {
	db, mock := newSQLMockDB(t)
	defer db.Close()
	mock.ExpectBegin()
	mock.ExpectCommit()

	rm := &fakeRepoManager{
		off: &fakeOfficersRepo{officers: inspectors(fiveIDs()...)},
		com: &fakeCommitteesRepo{
			byStatus:    map[string]*models.Committee{},
			nextVersion: 1,
		},
	}
	s := NewCommitteeService(db, rm, testConfig(), &capturePublisher{})

	c, err := s.ReplaceActive(context.Background(), fiveIDs())
	if err != nil {
		t.Fatalf("ReplaceActive error: %v", err)
	}
	if c.Version != 1 {
		t.Fatalf("want version 1, got %d", c.Version)
	}
	if len(rm.com.statusChanges) != 0 {
		t.Fatalf("nothing to retire, got %v", rm.com.statusChanges)
	}
}

func TestGetActive_NoCommittee(t *testing.T) {
	db, _ := newSQLMockDB(t)
	defer db.Close()

	rm := &fakeRepoManager{com: &fakeCommitteesRepo{byStatus: map[string]*models.Committee{}}}
	s := NewCommitteeService(db, rm, testConfig(), &capturePublisher{})

	_, err := s.GetActive(context.Background())
	if !errors.Is(err, common.ErrNoCommittee) {
		t.Fatalf("want ErrNoCommittee, got %v", err)
	}
}

func TestStartDraft_AlreadyExists(t *testing.T) {
	db, _ := newSQLMockDB(t)
	defer db.Close()

	rm := &fakeRepoManager{com: &fakeCommitteesRepo{
		byStatus: map[string]*models.Committee{
			models.CommitteeStatusDraft: {Version: 7, Status: models.CommitteeStatusDraft},
		},
	}}
	s := NewCommitteeService(db, rm, testConfig(), &capturePublisher{})

	_, err := s.StartDraft(context.Background())
	if !errors.Is(err, common.ErrorAlreadyExists) {
		t.Fatalf("want ErrorAlreadyExists, got %v", err)
	}
}

func TestAddDraftMember_Flow(t *testing.T) {
	db, _ := newSQLMockDB(t)
	defer db.Close()

	draft := &models.Committee{
		Version:   7,
		Status:    models.CommitteeStatusDraft,
		MemberIDs: []string{"o1", "o2"},
	}
	rm := &fakeRepoManager{
		off: &fakeOfficersRepo{officers: inspectors(fiveIDs()...)},
		com: &fakeCommitteesRepo{byStatus: map[string]*models.Committee{
			models.CommitteeStatusDraft: draft,
		}},
	}
	s := NewCommitteeService(db, rm, testConfig(), &capturePublisher{})

	got, err := s.AddDraftMember(context.Background(), "o3")
	if err != nil {
		t.Fatalf("AddDraftMember error: %v", err)
	}
	if len(got.MemberIDs) != 3 {
		t.Fatalf("want 3 members, got %d", len(got.MemberIDs))
	}

	if _, err := s.AddDraftMember(context.Background(), "o3"); !errors.Is(err, common.ErrDuplicateMember) {
		t.Fatalf("want ErrDuplicateMember, got %v", err)
	}
}

func TestAddDraftMember_DraftFull(t *testing.T) {
	db, _ := newSQLMockDB(t)
	defer db.Close()

	draft := &models.Committee{
		Version:   7,
		Status:    models.CommitteeStatusDraft,
		MemberIDs: fiveIDs(),
	}
	rm := &fakeRepoManager{
		off: &fakeOfficersRepo{officers: inspectors("o6")},
		com: &fakeCommitteesRepo{byStatus: map[string]*models.Committee{
			models.CommitteeStatusDraft: draft,
		}},
	}
	s := NewCommitteeService(db, rm, testConfig(), &capturePublisher{})

	_, err := s.AddDraftMember(context.Background(), "o6")
	if !errors.Is(err, common.ErrInvalidCommitteeSize) {
		t.Fatalf("want ErrInvalidCommitteeSize, got %v", err)
	}
}

func TestActivateDraft_Incomplete(t *testing.T) {
	db, _ := newSQLMockDB(t)
	defer db.Close()

	draft := &models.Committee{
		Version:   7,
		Status:    models.CommitteeStatusDraft,
		MemberIDs: []string{"o1", "o2", "o3"},
	}
	rm := &fakeRepoManager{com: &fakeCommitteesRepo{byStatus: map[string]*models.Committee{
		models.CommitteeStatusDraft: draft,
	}}}
	s := NewCommitteeService(db, rm, testConfig(), &capturePublisher{})

	_, err := s.ActivateDraft(context.Background())
	if !errors.Is(err, common.ErrCommitteeIncomplete) {
		t.Fatalf("want ErrCommitteeIncomplete, got %v", err)
	}
}

func TestActivateDraft_Success(t *testing.T) {
	db, mock := newSQLMockDB(t)
	defer db.Close()
	mock.ExpectBegin()
	mock.ExpectCommit()

	draft := &models.Committee{
		Version:   7,
		Status:    models.CommitteeStatusDraft,
		MemberIDs: fiveIDs(),
	}
	rm := &fakeRepoManager{com: &fakeCommitteesRepo{
		byStatus: map[string]*models.Committee{
			models.CommitteeStatusDraft: draft,
		},
		setStatusOK: true,
	}}
	pub := &capturePublisher{}
	s := NewCommitteeService(db, rm, testConfig(), pub)

	c, err := s.ActivateDraft(context.Background())
	if err != nil {
		t.Fatalf("ActivateDraft error: %v", err)
	}
	if c.Status != models.CommitteeStatusActive {
		t.Fatalf("want active, got %s", c.Status)
	}
	if len(pub.published) != 1 || pub.published[0].Kind() != events.KindCommitteeReplaced {
		t.Fatalf("want one CommitteeReplaced event, got %+v", pub.published)
	}
}
