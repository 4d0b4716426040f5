package handlers

import (
	"context"
	"net/http"

	"github.com/gorilla/mux"

	"internHubAPI/internal/types/application"
	"internHubAPI/middleware"
)

type applicationService interface {
	Submit(ctx context.Context, clerkID string, req *application.SubmitRequest) (*application.Application, error)
	List(ctx context.Context, clerkID string) ([]application.Application, error)
	Withdraw(ctx context.Context, clerkID, applicationID string) (*application.Application, error)
}

type ApplicationHandler struct {
	applicationService applicationService
}

func NewApplicationHandler(applicationService applicationService) *ApplicationHandler {
	return &ApplicationHandler{
		applicationService: applicationService,
	}
}

// POST /api/v1/applications
func (h *ApplicationHandler) Submit(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), handlerTimeout)
	defer cancel()

	clerkID, ok := middleware.GetClerkID(ctx)
	if !ok {
		respondUnauthenticated(w)
		return
	}

	var req application.SubmitRequest
	if err := decodeAndValidate(w, r, &req); err != nil {
		respondWithAppError(w, err)
		return
	}

	app, err := h.applicationService.Submit(ctx, clerkID, &req)
	if err != nil {
		respondWithAppError(w, err)
		return
	}

	respondWithJSON(w, http.StatusCreated, app)
}

// GET /api/v1/applications
func (h *ApplicationHandler) List(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), handlerTimeout)
	defer cancel()

	clerkID, ok := middleware.GetClerkID(ctx)
	if !ok {
		respondUnauthenticated(w)
		return
	}

	apps, err := h.applicationService.List(ctx, clerkID)
	if err != nil {
		respondWithAppError(w, err)
		return
	}

	respondWithJSON(w, http.StatusOK, map[string]interface{}{"applications": apps})
}

// DELETE /api/v1/applications/{id}
func (h *ApplicationHandler) Withdraw(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), handlerTimeout)
	defer cancel()

	clerkID, ok := middleware.GetClerkID(ctx)
	if !ok {
		respondUnauthenticated(w)
		return
	}

	app, err := h.applicationService.Withdraw(ctx, clerkID, mux.Vars(r)["id"])
	if err != nil {
		respondWithAppError(w, err)
		return
	}

	respondWithJSON(w, http.StatusOK, app)
}
