package services

import (
	"context"
	"database/sql"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"

	"github.com/corrsys/parolecore/internal/common"
	"github.com/corrsys/parolecore/internal/dbx"
	"github.com/corrsys/parolecore/internal/server/events"
	"github.com/corrsys/parolecore/internal/server/models"
	"github.com/corrsys/parolecore/internal/server/repositories/committees"
	"github.com/corrsys/parolecore/internal/server/repositories/inmates"
	"github.com/corrsys/parolecore/internal/server/repositories/officers"
	"github.com/corrsys/parolecore/internal/server/repositories/requests"
	"github.com/corrsys/parolecore/internal/server/repositories/signatures"
)

// --- helpers ---

func newSQLMockDB(t *testing.T) (*sql.DB, sqlmock.Sqlmock) {
	t.Helper()
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("sqlmock.New error: %v", err)
	}
	return db, mock
}

// capturePublisher records published events in order.
type capturePublisher struct {
	published []events.Event
}

func (p *capturePublisher) Publish(ctx context.Context, e events.Event) {
	p.published = append(p.published, e)
}

// --- fake repositories ---

type fakeInmatesRepo struct {
	rec *models.SentenceRecord
	err error
}

func (f *fakeInmatesRepo) GetSentence(ctx context.Context, inmateID string) (*models.SentenceRecord, error) {
	if f.err != nil {
		return nil, f.err
	}
	return f.rec, nil
}

type fakeOfficersRepo struct {
	officers map[string]*models.Officer
}

func (f *fakeOfficersRepo) GetByID(ctx context.Context, officerID string) (*models.Officer, error) {
	o, ok := f.officers[officerID]
	if !ok {
		return nil, common.ErrorNotFound
	}
	return o, nil
}

type fakeCommitteesRepo struct {
	byStatus map[string]*models.Committee

	nextVersion int64

	inserted  []*models.Committee
	insertErr error

	added []string

	statusChanges []string
	setStatusOK   bool
}

func (f *fakeCommitteesRepo) GetByStatus(ctx context.Context, status string) (*models.Committee, error) {
	c, ok := f.byStatus[status]
	if !ok {
		return nil, common.ErrorNotFound
	}
	return c, nil
}

func (f *fakeCommitteesRepo) GetByVersion(ctx context.Context, version int64) (*models.Committee, error) {
	for _, c := range f.byStatus {
		if c.Version == version {
			return c, nil
		}
	}
	return nil, common.ErrorNotFound
}

func (f *fakeCommitteesRepo) NextVersion(ctx context.Context) (int64, error) {
	return f.nextVersion, nil
}

func (f *fakeCommitteesRepo) Insert(ctx context.Context, c *models.Committee) error {
	if f.insertErr != nil {
		return f.insertErr
	}
	f.inserted = append(f.inserted, c)
	return nil
}

func (f *fakeCommitteesRepo) AddMember(ctx context.Context, version int64, position int, officerID string) error {
	f.added = append(f.added, officerID)
	return nil
}

func (f *fakeCommitteesRepo) SetStatus(ctx context.Context, version int64, from, to string) (bool, error) {
	f.statusChanges = append(f.statusChanges, from+"->"+to)
	return f.setStatusOK, nil
}

type fakeRequestsRepo struct {
	created   *models.ParoleRequest
	createErr error

	byID   *models.ParoleRequest
	getErr error

	list    []*models.ParoleRequest
	listErr error

	decideOK  bool
	decideErr error
	decided   []string
}

func (f *fakeRequestsRepo) Create(ctx context.Context, req *models.ParoleRequest) error {
	if f.createErr != nil {
		return f.createErr
	}
	f.created = req
	return nil
}

func (f *fakeRequestsRepo) GetByID(ctx context.Context, id string) (*models.ParoleRequest, error) {
	if f.getErr != nil {
		return nil, f.getErr
	}
	return f.byID, nil
}

func (f *fakeRequestsRepo) ListByInmate(ctx context.Context, inmateID string) ([]*models.ParoleRequest, error) {
	if f.listErr != nil {
		return nil, f.listErr
	}
	return f.list, nil
}

func (f *fakeRequestsRepo) Decide(ctx context.Context, id, status, reason string, decisionDate time.Time) (bool, error) {
	if f.decideErr != nil {
		return false, f.decideErr
	}
	f.decided = append(f.decided, id+":"+status)
	return f.decideOK, nil
}

type fakeSignaturesRepo struct {
	createdFor []string
	createErr  error

	sig    *models.Signature
	getErr error

	roster  []*models.Signature
	listErr error

	markedOK bool
	markErr  error
	marked   []string
}

func (f *fakeSignaturesRepo) CreateForMembers(ctx context.Context, requestID string, memberIDs []string) error {
	if f.createErr != nil {
		return f.createErr
	}
	f.createdFor = append(f.createdFor, memberIDs...)
	return nil
}

func (f *fakeSignaturesRepo) Get(ctx context.Context, requestID, memberID string) (*models.Signature, error) {
	if f.getErr != nil {
		return nil, f.getErr
	}
	return f.sig, nil
}

func (f *fakeSignaturesRepo) ListByRequest(ctx context.Context, requestID string) ([]*models.Signature, error) {
	if f.listErr != nil {
		return nil, f.listErr
	}
	return f.roster, nil
}

func (f *fakeSignaturesRepo) MarkSigned(ctx context.Context, requestID, memberID string, at time.Time) (bool, error) {
	if f.markErr != nil {
		return false, f.markErr
	}
	f.marked = append(f.marked, memberID)
	return f.markedOK, nil
}

// --- fake repository manager ---

type fakeRepoManager struct {
	inm *fakeInmatesRepo
	off *fakeOfficersRepo
	com *fakeCommitteesRepo
	req *fakeRequestsRepo
	sig *fakeSignaturesRepo
}

func (m *fakeRepoManager) RunMigrations(context.Context, *sql.DB) error { return nil }
func (m *fakeRepoManager) Inmates(db dbx.DBTX) inmates.Repository       { return m.inm }
func (m *fakeRepoManager) Officers(db dbx.DBTX) officers.Repository     { return m.off }
func (m *fakeRepoManager) Committees(db dbx.DBTX) committees.Repository { return m.com }
func (m *fakeRepoManager) Requests(db dbx.DBTX) requests.Repository     { return m.req }
func (m *fakeRepoManager) Signatures(db dbx.DBTX) signatures.Repository { return m.sig }

// roster builds a five-member signature roster with the given number signed.
func roster(requestID string, signed int) []*models.Signature {
	ids := []string{"m1", "m2", "m3", "m4", "m5"}
	now := time.Now()
	out := make([]*models.Signature, 0, len(ids))
	for i, id := range ids {
		s := &models.Signature{RequestID: requestID, MemberID: id}
		if i < signed {
			s.HasSigned = true
			s.SignedAt = &now
		}
		out = append(out, s)
	}
	return out
}
