package handlers

import (
	"context"
	"net/http"

	"internHubAPI/internal/apperr"
	"internHubAPI/internal/types/calendar"
	"internHubAPI/internal/types/premium"
	"internHubAPI/internal/types/user"
	"internHubAPI/middleware"
)

type profileService interface {
	GetProfile(ctx context.Context, clerkID string) (*user.Profile, error)
	UpdateProfile(ctx context.Context, clerkID string, req *user.UpdateProfileRequest) (*user.Profile, error)
	GetPremiumStatus(ctx context.Context, clerkID string) (*premium.StatusResponse, error)
	CreateResumeUploadURL(ctx context.Context, clerkID string) (*user.ResumeUploadResponse, error)
}

type calendarService interface {
	GetCalendar(ctx context.Context, clerkID string, year, month int) (*calendar.CalendarResponse, error)
}

type ProfileHandler struct {
	profileService  profileService
	calendarService calendarService
}

func NewProfileHandler(profileService profileService, calendarService calendarService) *ProfileHandler {
	return &ProfileHandler{
		profileService:  profileService,
		calendarService: calendarService,
	}
}

// GET /api/v1/user
func (h *ProfileHandler) GetProfile(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), handlerTimeout)
	defer cancel()

	clerkID, ok := middleware.GetClerkID(ctx)
	if !ok {
		respondUnauthenticated(w)
		return
	}

	profile, err := h.profileService.GetProfile(ctx, clerkID)
	if err != nil {
		respondWithAppError(w, err)
		return
	}

	respondWithJSON(w, http.StatusOK, profile)
}

// PUT /api/v1/user
func (h *ProfileHandler) UpdateProfile(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), handlerTimeout)
	defer cancel()

	clerkID, ok := middleware.GetClerkID(ctx)
	if !ok {
		respondUnauthenticated(w)
		return
	}

	var req user.UpdateProfileRequest
	if err := decodeAndValidate(w, r, &req); err != nil {
		respondWithAppError(w, err)
		return
	}

	profile, err := h.profileService.UpdateProfile(ctx, clerkID, &req)
	if err != nil {
		respondWithAppError(w, err)
		return
	}

	respondWithJSON(w, http.StatusOK, profile)
}

// GET /api/v1/user/premium
func (h *ProfileHandler) GetPremiumStatus(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), handlerTimeout)
	defer cancel()

	clerkID, ok := middleware.GetClerkID(ctx)
	if !ok {
		respondUnauthenticated(w)
		return
	}

	status, err := h.profileService.GetPremiumStatus(ctx, clerkID)
	if err != nil {
		respondWithAppError(w, err)
		return
	}

	respondWithJSON(w, http.StatusOK, status)
}

// POST /api/v1/user/resume/upload-url
func (h *ProfileHandler) CreateResumeUploadURL(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), handlerTimeout)
	defer cancel()

	clerkID, ok := middleware.GetClerkID(ctx)
	if !ok {
		respondUnauthenticated(w)
		return
	}

	upload, err := h.profileService.CreateResumeUploadURL(ctx, clerkID)
	if err != nil {
		respondWithAppError(w, err)
		return
	}

	respondWithJSON(w, http.StatusOK, upload)
}

// GET /api/v1/user/calendar?year=&month=
func (h *ProfileHandler) GetCalendar(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), handlerTimeout)
	defer cancel()

	clerkID, ok := middleware.GetClerkID(ctx)
	if !ok {
		respondUnauthenticated(w)
		return
	}

	year, err := queryInt(r, "year")
	if err != nil {
		respondWithAppError(w, err)
		return
	}
	month, err := queryInt(r, "month")
	if err != nil {
		respondWithAppError(w, err)
		return
	}

	// Absent selects the current year or month.
	var y, m int
	if year != nil {
		if *year == 0 {
			respondWithAppError(w, apperr.Validation("year must be between 2000 and 2100"))
			return
		}
		y = *year
	}
	if month != nil {
		if *month == 0 {
			respondWithAppError(w, apperr.Validation("month must be between 1 and 12"))
			return
		}
		m = *month
	}

	cal, err := h.calendarService.GetCalendar(ctx, clerkID, y, m)
	if err != nil {
		respondWithAppError(w, err)
		return
	}

	respondWithJSON(w, http.StatusOK, cal)
}
