package httpapi

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"time"

	"github.com/corrsys/parolecore/internal/common"
	"github.com/corrsys/parolecore/internal/server/models"
)

type errorResponse struct {
	Error string `json:"error"`
}

type submitRequestBody struct {
	InmateID string `json:"inmate_id"`
}

type decisionBody struct {
	Reason       string `json:"reason"`
	DecisionDate string `json:"decision_date"`
}

type signBody struct {
	MemberID string `json:"member_id"`
}

type committeeBody struct {
	MemberIDs []string `json:"member_ids"`
}

type draftMemberBody struct {
	OfficerID string `json:"officer_id"`
}

type requestResponse struct {
	ID               string `json:"id"`
	InmateID         string `json:"inmate_id"`
	CommitteeVersion int64  `json:"committee_version"`
	Status           string `json:"status"`
	Reason           string `json:"reason,omitempty"`
	DecisionDate     string `json:"decision_date,omitempty"`
	CreatedAt        string `json:"created_at"`
}

type committeeResponse struct {
	Version   int64    `json:"version"`
	Status    string   `json:"status"`
	MemberIDs []string `json:"member_ids"`
}

type verdictResponse struct {
	InmateID              string       `json:"inmate_id"`
	ParoleDate            string       `json:"parole_date"`
	DurationToParole      spanResponse `json:"duration_to_parole"`
	DurationParoleToEnd   spanResponse `json:"duration_parole_to_end"`
	ConductPoints         int          `json:"conduct_points"`
	ConductPointThreshold int          `json:"conduct_point_threshold"`
	Eligible              bool         `json:"eligible"`
}

type spanResponse struct {
	Years  int `json:"years"`
	Months int `json:"months"`
}

type signatureResponse struct {
	MemberID  string `json:"member_id"`
	HasSigned bool   `json:"has_signed"`
	SignedAt  string `json:"signed_at,omitempty"`
}

type consensusResponse struct {
	Reached bool                `json:"reached"`
	Roster  []signatureResponse `json:"roster"`
}

func (s *Server) getEligibility(w http.ResponseWriter, r *http.Request) {
	inmateID := r.PathValue("id")

	asOf := time.Now()
	if q := r.URL.Query().Get("as_of"); q != "" {
		parsed, err := time.Parse(time.DateOnly, q)
		if err != nil {
			writeJSON(w, http.StatusBadRequest, errorResponse{Error: "invalid as_of date"})
			return
		}
		asOf = parsed
	}

	verdict, err := s.adjudication.ComputeVerdict(r.Context(), inmateID, asOf)
	if err != nil {
		s.writeError(w, r, err)
		return
	}

	writeJSON(w, http.StatusOK, toVerdictResponse(verdict))
}

func (s *Server) getCommittee(w http.ResponseWriter, r *http.Request) {
	c, err := s.committee.GetActive(r.Context())
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, toCommitteeResponse(c))
}

func (s *Server) replaceCommittee(w http.ResponseWriter, r *http.Request) {
	var body committeeBody
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
		writeJSON(w, http.StatusBadRequest, errorResponse{Error: "invalid payload"})
		return
	}

	c, err := s.committee.ReplaceActive(r.Context(), body.MemberIDs)
	if err != nil {
		s.writeError(w, r, err)
		return
	}

	s.logger.Info(r.Context(), "Committee replaced", "version", c.Version)
	writeJSON(w, http.StatusOK, toCommitteeResponse(c))
}

func (s *Server) startDraft(w http.ResponseWriter, r *http.Request) {
	c, err := s.committee.StartDraft(r.Context())
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusCreated, toCommitteeResponse(c))
}

func (s *Server) addDraftMember(w http.ResponseWriter, r *http.Request) {
	var body draftMemberBody
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil || body.OfficerID == "" {
		writeJSON(w, http.StatusBadRequest, errorResponse{Error: "invalid payload"})
		return
	}

	c, err := s.committee.AddDraftMember(r.Context(), body.OfficerID)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, toCommitteeResponse(c))
}

func (s *Server) activateDraft(w http.ResponseWriter, r *http.Request) {
	c, err := s.committee.ActivateDraft(r.Context())
	if err != nil {
		s.writeError(w, r, err)
		return
	}

	s.logger.Info(r.Context(), "Committee replaced", "version", c.Version)
	writeJSON(w, http.StatusOK, toCommitteeResponse(c))
}

func (s *Server) submitRequest(w http.ResponseWriter, r *http.Request) {
	var body submitRequestBody
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil || body.InmateID == "" {
		writeJSON(w, http.StatusBadRequest, errorResponse{Error: "invalid payload"})
		return
	}

	req, err := s.adjudication.RequestParole(r.Context(), body.InmateID)
	if err != nil {
		s.writeError(w, r, err)
		return
	}

	s.logger.Info(r.Context(), "Parole requested", "request_id", req.ID, "inmate_id", req.InmateID)
	writeJSON(w, http.StatusCreated, toRequestResponse(req))
}

func (s *Server) listRequests(w http.ResponseWriter, r *http.Request) {
	inmateID := r.URL.Query().Get("inmate_id")
	if inmateID == "" {
		writeJSON(w, http.StatusBadRequest, errorResponse{Error: "inmate_id is required"})
		return
	}

	list, err := s.adjudication.ListRequests(r.Context(), inmateID)
	if err != nil {
		s.writeError(w, r, err)
		return
	}

	out := make([]requestResponse, 0, len(list))
	for _, req := range list {
		out = append(out, toRequestResponse(req))
	}
	writeJSON(w, http.StatusOK, out)
}

func (s *Server) getRequest(w http.ResponseWriter, r *http.Request) {
	req, err := s.adjudication.GetStatus(r.Context(), r.PathValue("id"))
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, toRequestResponse(req))
}

func (s *Server) acceptRequest(w http.ResponseWriter, r *http.Request) {
	s.decide(w, r, s.adjudication.AcceptRequest)
}

func (s *Server) rejectRequest(w http.ResponseWriter, r *http.Request) {
	s.decide(w, r, s.adjudication.RejectRequest)
}

func (s *Server) decide(w http.ResponseWriter, r *http.Request,
	op func(ctx context.Context, requestID, reason string, decisionDate time.Time) (*models.ParoleRequest, error)) {

	var body decisionBody
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil || body.Reason == "" {
		writeJSON(w, http.StatusBadRequest, errorResponse{Error: "invalid payload"})
		return
	}

	decisionDate := time.Now()
	if body.DecisionDate != "" {
		parsed, err := time.Parse(time.DateOnly, body.DecisionDate)
		if err != nil {
			writeJSON(w, http.StatusBadRequest, errorResponse{Error: "invalid decision_date"})
			return
		}
		decisionDate = parsed
	}

	req, err := op(r.Context(), r.PathValue("id"), body.Reason, decisionDate)
	if err != nil {
		s.writeError(w, r, err)
		return
	}

	s.logger.Info(r.Context(), "Parole request decided",
		"request_id", req.ID, "status", req.Status)
	writeJSON(w, http.StatusOK, toRequestResponse(req))
}

func (s *Server) sign(w http.ResponseWriter, r *http.Request) {
	var body signBody
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil || body.MemberID == "" {
		writeJSON(w, http.StatusBadRequest, errorResponse{Error: "invalid payload"})
		return
	}

	if err := s.signatures.Sign(r.Context(), r.PathValue("id"), body.MemberID); err != nil {
		s.writeError(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (s *Server) getConsensus(w http.ResponseWriter, r *http.Request) {
	requestID := r.PathValue("id")

	roster, err := s.signatures.Roster(r.Context(), requestID)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	reached, err := s.signatures.ConsensusReached(r.Context(), requestID)
	if err != nil {
		s.writeError(w, r, err)
		return
	}

	out := consensusResponse{Reached: reached, Roster: make([]signatureResponse, 0, len(roster))}
	for _, sig := range roster {
		item := signatureResponse{MemberID: sig.MemberID, HasSigned: sig.HasSigned}
		if sig.SignedAt != nil {
			item.SignedAt = sig.SignedAt.Format(time.RFC3339)
		}
		out.Roster = append(out.Roster, item)
	}
	writeJSON(w, http.StatusOK, out)
}

// writeError maps the error taxonomy to HTTP statuses so UI layers can
// render an exact reason, never a blanket failure.
func (s *Server) writeError(w http.ResponseWriter, r *http.Request, err error) {
	switch {
	case errors.Is(err, common.ErrInvalidSentence),
		errors.Is(err, common.ErrInvalidCommitteeSize),
		errors.Is(err, common.ErrDuplicateMember):
		writeJSON(w, http.StatusBadRequest, errorResponse{Error: err.Error()})
	case errors.Is(err, common.ErrorNotFound),
		errors.Is(err, common.ErrUnknownInmate),
		errors.Is(err, common.ErrUnknownOfficer):
		writeJSON(w, http.StatusNotFound, errorResponse{Error: err.Error()})
	case errors.Is(err, common.ErrDuplicateRequest),
		errors.Is(err, common.ErrAlreadyDecided),
		errors.Is(err, common.ErrNotACommitteeMember),
		errors.Is(err, common.ErrorAlreadyExists):
		writeJSON(w, http.StatusConflict, errorResponse{Error: err.Error()})
	case errors.Is(err, common.ErrNotEligible),
		errors.Is(err, common.ErrNoCommittee),
		errors.Is(err, common.ErrConsensusNotReached),
		errors.Is(err, common.ErrCommitteeIncomplete):
		writeJSON(w, http.StatusUnprocessableEntity, errorResponse{Error: err.Error()})
	default:
		s.logger.Error(r.Context(), err.Error())
		writeJSON(w, http.StatusInternalServerError, errorResponse{Error: "internal error"})
	}
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func toRequestResponse(req *models.ParoleRequest) requestResponse {
	out := requestResponse{
		ID:               req.ID,
		InmateID:         req.InmateID,
		CommitteeVersion: req.CommitteeVersion,
		Status:           req.Status,
		Reason:           req.Reason,
		CreatedAt:        req.CreatedAt.Format(time.RFC3339),
	}
	if req.DecisionDate != nil {
		out.DecisionDate = req.DecisionDate.Format(time.DateOnly)
	}
	return out
}

func toCommitteeResponse(c *models.Committee) committeeResponse {
	return committeeResponse{
		Version:   c.Version,
		Status:    c.Status,
		MemberIDs: c.MemberIDs,
	}
}

func toVerdictResponse(v *models.EligibilityVerdict) verdictResponse {
	return verdictResponse{
		InmateID:              v.InmateID,
		ParoleDate:            v.ParoleDate.Format(time.DateOnly),
		DurationToParole:      spanResponse{Years: v.DurationToParole.Years, Months: v.DurationToParole.Months},
		DurationParoleToEnd:   spanResponse{Years: v.DurationParoleToEnd.Years, Months: v.DurationParoleToEnd.Months},
		ConductPoints:         v.ConductPoints,
		ConductPointThreshold: v.ConductPointThreshold,
		Eligible:              v.Eligible,
	}
}
