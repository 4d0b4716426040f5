package handlers

import (
	"context"
	"net/http"

	"github.com/google/uuid"
	"github.com/gorilla/mux"

	"internHubAPI/internal/apperr"
	"internHubAPI/internal/types/internship"
	"internHubAPI/middleware"
)

type internshipService interface {
	Search(ctx context.Context, req internship.SearchRequest) (*internship.SearchResponse, error)
	Recommend(ctx context.Context, clerkID string, page, limit *int) (*internship.SearchResponse, error)
	GetPosting(ctx context.Context, id string) (*internship.Posting, error)
}

type InternshipHandler struct {
	matcherService internshipService
}

func NewInternshipHandler(matcherService internshipService) *InternshipHandler {
	return &InternshipHandler{
		matcherService: matcherService,
	}
}

// POST /api/v1/internships/match
func (h *InternshipHandler) Match(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), handlerTimeout)
	defer cancel()

	var req internship.SearchRequest
	if err := decodeAndValidate(w, r, &req); err != nil {
		respondWithAppError(w, err)
		return
	}

	resp, err := h.matcherService.Search(ctx, req)
	if err != nil {
		respondWithAppError(w, err)
		return
	}
	middleware.ObserveMatcherResults(resp.TotalCount)

	respondWithJSON(w, http.StatusOK, resp)
}

// GET /api/v1/internships/recommended
func (h *InternshipHandler) Recommended(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), handlerTimeout)
	defer cancel()

	clerkID, ok := middleware.GetClerkID(ctx)
	if !ok {
		respondUnauthenticated(w)
		return
	}

	page, err := queryInt(r, "page")
	if err != nil {
		respondWithAppError(w, err)
		return
	}
	limit, err := queryInt(r, "limit")
	if err != nil {
		respondWithAppError(w, err)
		return
	}

	resp, err := h.matcherService.Recommend(ctx, clerkID, page, limit)
	if err != nil {
		respondWithAppError(w, err)
		return
	}
	middleware.ObserveMatcherResults(resp.TotalCount)

	respondWithJSON(w, http.StatusOK, resp)
}

// GET /api/v1/internships/{id}
func (h *InternshipHandler) GetInternship(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), handlerTimeout)
	defer cancel()

	id := mux.Vars(r)["id"]
	if _, err := uuid.Parse(id); err != nil {
		respondWithAppError(w, apperr.Validation("Invalid internship ID"))
		return
	}

	posting, err := h.matcherService.GetPosting(ctx, id)
	if err != nil {
		respondWithAppError(w, err)
		return
	}

	respondWithJSON(w, http.StatusOK, posting)
}
