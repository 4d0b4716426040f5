package handlers

import (
	"context"
	"net/http"

	"github.com/gorilla/mux"

	"internHubAPI/internal/types/notification"
	"internHubAPI/middleware"
)

type notificationService interface {
	GetNotifications(ctx context.Context, clerkID string, page, pageSize int) (*notification.NotificationListResponse, error)
	MarkAsRead(ctx context.Context, clerkID, notificationID string) error
	GetPreferences(ctx context.Context, clerkID string) (*notification.Preferences, error)
	UpdatePreferences(ctx context.Context, clerkID string, req *notification.UpdatePreferencesRequest) (*notification.Preferences, error)
	RegisterDevice(ctx context.Context, clerkID string, req *notification.RegisterDeviceRequest) error
}

type NotificationHandler struct {
	notificationService notificationService
}

func NewNotificationHandler(notificationService notificationService) *NotificationHandler {
	return &NotificationHandler{
		notificationService: notificationService,
	}
}

// GET /api/v1/notifications - Get user's notifications
func (h *NotificationHandler) GetNotifications(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), handlerTimeout)
	defer cancel()

	clerkID, ok := middleware.GetClerkID(ctx)
	if !ok {
		respondUnauthenticated(w)
		return
	}

	page, pageSize := 1, 20
	if p, err := queryInt(r, "page"); err != nil {
		respondWithAppError(w, err)
		return
	} else if p != nil {
		page = *p
	}
	if ps, err := queryInt(r, "page_size"); err != nil {
		respondWithAppError(w, err)
		return
	} else if ps != nil {
		pageSize = *ps
	}

	response, err := h.notificationService.GetNotifications(ctx, clerkID, page, pageSize)
	if err != nil {
		respondWithAppError(w, err)
		return
	}

	respondWithJSON(w, http.StatusOK, response)
}

// PUT /api/v1/notifications/{id}/read - Mark notification as read
func (h *NotificationHandler) MarkAsRead(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), handlerTimeout)
	defer cancel()

	clerkID, ok := middleware.GetClerkID(ctx)
	if !ok {
		respondUnauthenticated(w)
		return
	}

	if err := h.notificationService.MarkAsRead(ctx, clerkID, mux.Vars(r)["id"]); err != nil {
		respondWithAppError(w, err)
		return
	}

	respondWithJSON(w, http.StatusOK, map[string]string{"message": "Notification marked as read"})
}

// GET /api/v1/notifications/preferences
func (h *NotificationHandler) GetPreferences(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), handlerTimeout)
	defer cancel()

	clerkID, ok := middleware.GetClerkID(ctx)
	if !ok {
		respondUnauthenticated(w)
		return
	}

	prefs, err := h.notificationService.GetPreferences(ctx, clerkID)
	if err != nil {
		respondWithAppError(w, err)
		return
	}

	respondWithJSON(w, http.StatusOK, prefs)
}

// PUT /api/v1/notifications/preferences
func (h *NotificationHandler) UpdatePreferences(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), handlerTimeout)
	defer cancel()

	clerkID, ok := middleware.GetClerkID(ctx)
	if !ok {
		respondUnauthenticated(w)
		return
	}

	var req notification.UpdatePreferencesRequest
	if err := decodeAndValidate(w, r, &req); err != nil {
		respondWithAppError(w, err)
		return
	}

	prefs, err := h.notificationService.UpdatePreferences(ctx, clerkID, &req)
	if err != nil {
		respondWithAppError(w, err)
		return
	}

	respondWithJSON(w, http.StatusOK, prefs)
}

// POST /api/v1/notifications/register-device
func (h *NotificationHandler) RegisterDevice(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), handlerTimeout)
	defer cancel()

	clerkID, ok := middleware.GetClerkID(ctx)
	if !ok {
		respondUnauthenticated(w)
		return
	}

	var req notification.RegisterDeviceRequest
	if err := decodeAndValidate(w, r, &req); err != nil {
		respondWithAppError(w, err)
		return
	}

	if err := h.notificationService.RegisterDevice(ctx, clerkID, &req); err != nil {
		respondWithAppError(w, err)
		return
	}

	respondWithJSON(w, http.StatusOK, map[string]string{"message": "Device registered"})
}
