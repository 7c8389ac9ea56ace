// Package httpapi fronts the adjudication services with a JSON API. The
// services accept and return plain structures, so this layer only decodes
// requests, translates error kinds to status codes, and encodes responses.
package httpapi

import (
	"context"
	"net/http"
	"time"

	"github.com/corrsys/parolecore/internal/logging"
	"github.com/corrsys/parolecore/internal/server/models"
)

// AdjudicationService is the façade the request endpoints call.
type AdjudicationService interface {
	ComputeVerdict(ctx context.Context, inmateID string, asOf time.Time) (*models.EligibilityVerdict, error)
	RequestParole(ctx context.Context, inmateID string) (*models.ParoleRequest, error)
	AcceptRequest(ctx context.Context, requestID, reason string, decisionDate time.Time) (*models.ParoleRequest, error)
	RejectRequest(ctx context.Context, requestID, reason string, decisionDate time.Time) (*models.ParoleRequest, error)
	GetStatus(ctx context.Context, requestID string) (*models.ParoleRequest, error)
	ListRequests(ctx context.Context, inmateID string) ([]*models.ParoleRequest, error)
}

// CommitteeService manages the adjudicating committee.
type CommitteeService interface {
	GetActive(ctx context.Context) (*models.Committee, error)
	ReplaceActive(ctx context.Context, memberIDs []string) (*models.Committee, error)
	StartDraft(ctx context.Context) (*models.Committee, error)
	AddDraftMember(ctx context.Context, officerID string) (*models.Committee, error)
	ActivateDraft(ctx context.Context) (*models.Committee, error)
}

// SignatureService records sign-offs and evaluates consensus.
type SignatureService interface {
	Sign(ctx context.Context, requestID, memberID string) error
	ConsensusReached(ctx context.Context, requestID string) (bool, error)
	Roster(ctx context.Context, requestID string) ([]*models.Signature, error)
}

type Server struct {
	address      string
	logger       logging.Logger
	adjudication AdjudicationService
	committee    CommitteeService
	signatures   SignatureService
}

func NewServer(addr string, l logging.Logger, as AdjudicationService, cs CommitteeService, ss SignatureService) *Server {
	return &Server{
		address:      addr,
		logger:       l.With("module", "http_server"),
		adjudication: as,
		committee:    cs,
		signatures:   ss,
	}
}

// Handler builds the route table. Split from Run so tests can drive the mux
// with httptest.
func (s *Server) Handler() http.Handler {
	mux := http.NewServeMux()

	mux.HandleFunc("GET /api/v1/inmates/{id}/eligibility", s.getEligibility)

	mux.HandleFunc("GET /api/v1/committee", s.getCommittee)
	mux.HandleFunc("PUT /api/v1/committee", s.replaceCommittee)
	mux.HandleFunc("POST /api/v1/committee/draft", s.startDraft)
	mux.HandleFunc("POST /api/v1/committee/draft/members", s.addDraftMember)
	mux.HandleFunc("POST /api/v1/committee/draft/activate", s.activateDraft)

	mux.HandleFunc("POST /api/v1/parole/requests", s.submitRequest)
	mux.HandleFunc("GET /api/v1/parole/requests", s.listRequests)
	mux.HandleFunc("GET /api/v1/parole/requests/{id}", s.getRequest)
	mux.HandleFunc("POST /api/v1/parole/requests/{id}/accept", s.acceptRequest)
	mux.HandleFunc("POST /api/v1/parole/requests/{id}/reject", s.rejectRequest)
	mux.HandleFunc("POST /api/v1/parole/requests/{id}/signatures", s.sign)
	mux.HandleFunc("GET /api/v1/parole/requests/{id}/consensus", s.getConsensus)

	return mux
}

// Run serves the API until ctx is cancelled, then shuts down gracefully.
func (s *Server) Run(ctx context.Context) error {
	srv := &http.Server{
		Addr:    s.address,
		Handler: s.Handler(),
	}

	go func() {
		<-ctx.Done()
		s.logger.Info(ctx, "Stopping HTTP server...")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		_ = srv.Shutdown(shutdownCtx)
	}()

	s.logger.Info(ctx, "Starting HTTP server", "address", s.address)

	if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		return err
	}
	return nil
}
