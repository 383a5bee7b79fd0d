package main

import (
	"encoding/json"
	"errors"
	"io"
	"log/slog"
	"net/http"
	"strconv"

	"hackledger/internal/core"
	"hackledger/internal/infra/media"
	"hackledger/pkg/domain"
)

// callerHeader carries the calling identity. There is no signature check;
// authentication is expected to happen at an upstream gateway.
const callerHeader = "X-Hackledger-Caller"

type server struct {
	svc    *core.Service
	media  media.Store
	logger *slog.Logger
}

func (s *server) routes(mux *http.ServeMux) {
	mux.HandleFunc("POST /api/members", s.handleRegisterMember)
	mux.HandleFunc("POST /api/members/update", s.handleUpdateMember)
	mux.HandleFunc("GET /api/members/{id}", s.handleUserDetail)

	mux.HandleFunc("GET /api/hackathons", s.handleListHackathons)
	mux.HandleFunc("POST /api/hackathons", s.handleCreateHackathon)
	mux.HandleFunc("GET /api/hackathons/{id}", s.handleHackathonDetail)
	mux.HandleFunc("POST /api/hackathons/{id}/join", s.handleJoinHackathon)
	mux.HandleFunc("POST /api/hackathons/{id}/categories", s.handleCreateCategory)
	mux.HandleFunc("POST /api/hackathons/{id}/submissions", s.handleSubmitProject)

	mux.HandleFunc("POST /api/awards", s.handleCreateAward)
	mux.HandleFunc("POST /api/awards/judge", s.handleJudgeWinner)
	mux.HandleFunc("POST /api/awards/pay", s.handleAwardWinner)

	mux.HandleFunc("POST /api/media/{key...}", s.handleMediaUpload)
	mux.HandleFunc("GET /api/media/{key...}", s.handleMediaFetch)
}

func (s *server) withCaller(r *http.Request) *http.Request {
	if caller := r.Header.Get(callerHeader); caller != "" {
		return r.WithContext(domain.WithCaller(r.Context(), domain.AccountID(caller)))
	}
	return r
}

func decodeBody(w http.ResponseWriter, r *http.Request, dst any) bool {
	if err := json.NewDecoder(r.Body).Decode(dst); err != nil {
		http.Error(w, "invalid request body: "+err.Error(), http.StatusBadRequest)
		return false
	}
	return true
}

func pathID(w http.ResponseWriter, r *http.Request) (uint64, bool) {
	id, err := strconv.ParseUint(r.PathValue("id"), 10, 64)
	if err != nil {
		http.Error(w, "invalid id", http.StatusBadRequest)
		return 0, false
	}
	return id, true
}

func (s *server) writeJSON(w http.ResponseWriter, status int, payload any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(payload); err != nil {
		s.logger.Error("encode response", "error", err)
	}
}

func (s *server) writeError(w http.ResponseWriter, err error) {
	status := http.StatusInternalServerError
	switch {
	case domain.IsNotFound(err):
		status = http.StatusNotFound
	case domain.IsUnauthorized(err):
		status = http.StatusForbidden
	case domain.IsInvalidState(err):
		status = http.StatusConflict
	case domain.IsInvalidInput(err):
		status = http.StatusBadRequest
	case domain.IsPaymentMismatch(err):
		status = http.StatusPaymentRequired
	default:
		var rve domain.RuleViolationError
		if errors.As(err, &rve) {
			status = http.StatusConflict
		}
	}
	s.writeJSON(w, status, map[string]string{"error": err.Error()})
}

func (s *server) handleRegisterMember(w http.ResponseWriter, r *http.Request) {
	r = s.withCaller(r)
	var input core.MemberInput
	if !decodeBody(w, r, &input) {
		return
	}
	member, _, err := s.svc.RegisterMember(r.Context(), input)
	if err != nil {
		s.writeError(w, err)
		return
	}
	s.writeJSON(w, http.StatusCreated, member)
}

func (s *server) handleUpdateMember(w http.ResponseWriter, r *http.Request) {
	r = s.withCaller(r)
	var input struct {
		Name  *string `json:"name"`
		Image *string `json:"image"`
		Bio   *string `json:"bio"`
	}
	if !decodeBody(w, r, &input) {
		return
	}
	member, _, err := s.svc.UpdateMember(r.Context(), input.Name, input.Image, input.Bio)
	if err != nil {
		s.writeError(w, err)
		return
	}
	s.writeJSON(w, http.StatusOK, member)
}

func (s *server) handleUserDetail(w http.ResponseWriter, r *http.Request) {
	detail, err := s.svc.UserDetail(r.Context(), domain.AccountID(r.PathValue("id")))
	if err != nil {
		s.writeError(w, err)
		return
	}
	s.writeJSON(w, http.StatusOK, detail)
}

func (s *server) handleListHackathons(w http.ResponseWriter, r *http.Request) {
	list, err := s.svc.ListHackathonsWithPrizes(r.Context())
	if err != nil {
		s.writeError(w, err)
		return
	}
	s.writeJSON(w, http.StatusOK, list)
}

func (s *server) handleCreateHackathon(w http.ResponseWriter, r *http.Request) {
	r = s.withCaller(r)
	var payload domain.HackathonPayload
	if !decodeBody(w, r, &payload) {
		return
	}
	hackathon, _, err := s.svc.CreateHackathon(r.Context(), payload)
	if err != nil {
		s.writeError(w, err)
		return
	}
	s.writeJSON(w, http.StatusCreated, hackathon)
}

func (s *server) handleHackathonDetail(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r)
	if !ok {
		return
	}
	detail, err := s.svc.HackathonDetail(r.Context(), domain.HackathonID(id))
	if err != nil {
		s.writeError(w, err)
		return
	}
	s.writeJSON(w, http.StatusOK, detail)
}

func (s *server) handleJoinHackathon(w http.ResponseWriter, r *http.Request) {
	r = s.withCaller(r)
	id, ok := pathID(w, r)
	if !ok {
		return
	}
	hackathon, _, err := s.svc.JoinHackathon(r.Context(), domain.HackathonID(id))
	if err != nil {
		s.writeError(w, err)
		return
	}
	s.writeJSON(w, http.StatusOK, hackathon)
}

func (s *server) handleCreateCategory(w http.ResponseWriter, r *http.Request) {
	r = s.withCaller(r)
	id, ok := pathID(w, r)
	if !ok {
		return
	}
	var input struct {
		Name string `json:"name"`
	}
	if !decodeBody(w, r, &input) {
		return
	}
	category, _, err := s.svc.CreateCategory(r.Context(), domain.HackathonID(id), input.Name)
	if err != nil {
		s.writeError(w, err)
		return
	}
	s.writeJSON(w, http.StatusCreated, category)
}

func (s *server) handleSubmitProject(w http.ResponseWriter, r *http.Request) {
	r = s.withCaller(r)
	id, ok := pathID(w, r)
	if !ok {
		return
	}
	var input core.SubmissionInput
	if !decodeBody(w, r, &input) {
		return
	}
	submission, _, err := s.svc.SubmitProject(r.Context(), domain.HackathonID(id), input)
	if err != nil {
		s.writeError(w, err)
		return
	}
	s.writeJSON(w, http.StatusCreated, submission)
}

func (s *server) handleCreateAward(w http.ResponseWriter, r *http.Request) {
	r = s.withCaller(r)
	var input struct {
		HackathonID uint64  `json:"hackathon_id"`
		CategoryID  uint64  `json:"category_id"`
		Name        string  `json:"name"`
		Total       float64 `json:"total"`
	}
	if !decodeBody(w, r, &input) {
		return
	}
	award, _, err := s.svc.CreateAward(r.Context(), domain.HackathonID(input.HackathonID), domain.CategoryID(input.CategoryID), input.Name, input.Total)
	if err != nil {
		s.writeError(w, err)
		return
	}
	s.writeJSON(w, http.StatusCreated, award)
}

func (s *server) handleJudgeWinner(w http.ResponseWriter, r *http.Request) {
	r = s.withCaller(r)
	var input struct {
		HackathonID  uint64 `json:"hackathon_id"`
		CategoryID   uint64 `json:"category_id"`
		AwardID      uint64 `json:"award_id"`
		SubmissionID uint64 `json:"submission_id"`
	}
	if !decodeBody(w, r, &input) {
		return
	}
	award, _, err := s.svc.JudgeWinner(r.Context(),
		domain.HackathonID(input.HackathonID),
		domain.CategoryID(input.CategoryID),
		domain.AwardID(input.AwardID),
		domain.SubmissionID(input.SubmissionID),
	)
	if err != nil {
		s.writeError(w, err)
		return
	}
	s.writeJSON(w, http.StatusOK, award)
}

func (s *server) handleAwardWinner(w http.ResponseWriter, r *http.Request) {
	r = s.withCaller(r)
	var input struct {
		HackathonID uint64 `json:"hackathon_id"`
		CategoryID  uint64 `json:"category_id"`
		AwardID     uint64 `json:"award_id"`
		Attached    string `json:"attached"`
	}
	if !decodeBody(w, r, &input) {
		return
	}
	attached, err := domain.ParseAmount(input.Attached)
	if err != nil {
		http.Error(w, "invalid attached amount: "+err.Error(), http.StatusBadRequest)
		return
	}
	award, _, err := s.svc.AwardWinner(r.Context(),
		domain.HackathonID(input.HackathonID),
		domain.CategoryID(input.CategoryID),
		domain.AwardID(input.AwardID),
		attached,
	)
	if err != nil {
		s.writeError(w, err)
		return
	}
	s.writeJSON(w, http.StatusOK, award)
}

func (s *server) handleMediaUpload(w http.ResponseWriter, r *http.Request) {
	key := r.PathValue("key")
	info, err := s.media.Put(r.Context(), key, r.Body, r.Header.Get("Content-Type"))
	if err != nil {
		status := http.StatusInternalServerError
		switch {
		case errors.Is(err, media.ErrExists):
			status = http.StatusConflict
		case errors.Is(err, media.ErrInvalidKey):
			status = http.StatusBadRequest
		}
		http.Error(w, err.Error(), status)
		return
	}
	s.writeJSON(w, http.StatusCreated, info)
}

func (s *server) handleMediaFetch(w http.ResponseWriter, r *http.Request) {
	key := r.PathValue("key")
	info, body, err := s.media.Get(r.Context(), key)
	if err != nil {
		http.Error(w, err.Error(), http.StatusNotFound)
		return
	}
	defer func() { _ = body.Close() }()
	if info.ContentType != "" {
		w.Header().Set("Content-Type", info.ContentType)
	}
	w.WriteHeader(http.StatusOK)
	if _, err := io.Copy(w, body); err != nil {
		s.logger.Error("stream media", "key", key, "error", err)
	}
}
