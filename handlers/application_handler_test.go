package handlers

import (
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"internHubAPI/internal/apperr"
	"internHubAPI/internal/types/application"
	"internHubAPI/internal/types/notification"
)

const postingID = "6f1c2a9e-4b7d-4c3e-9a8f-2d1e0b3c4a5f"

func TestApplicationHandler_Submit(t *testing.T) {
	svc := &stubApplications{app: &application.Application{ID: "a1", InternshipID: postingID, Status: application.StatusSubmitted}}
	h := NewApplicationHandler(svc)

	rec := serve(t, h.Submit, request{
		method: http.MethodPost, path: "/api/v1/applications",
		body: `{"internship_id":"` + postingID + `","cover_letter":"Hello"}`, clerkID: testClerkID,
	})
	require.Equal(t, http.StatusCreated, rec.Code)
	assert.Equal(t, "submitted", decodeBody(t, rec)["status"])
	assert.Equal(t, "Hello", svc.gotSubmit.CoverLetter)

	rec = serve(t, h.Submit, request{
		method: http.MethodPost, path: "/api/v1/applications", body: `{"internship_id":"nope"}`, clerkID: testClerkID,
	})
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	svc.err = apperr.Conflict("You already applied to this internship")
	rec = serve(t, h.Submit, request{
		method: http.MethodPost, path: "/api/v1/applications",
		body: `{"internship_id":"` + postingID + `"}`, clerkID: testClerkID,
	})
	assert.Equal(t, http.StatusConflict, rec.Code)
}

func TestApplicationHandler_ListAndWithdraw(t *testing.T) {
	svc := &stubApplications{
		apps: []application.Application{{ID: "a1"}},
		app:  &application.Application{ID: "a1", Status: application.StatusWithdrawn},
	}
	h := NewApplicationHandler(svc)

	rec := serve(t, h.List, request{method: http.MethodGet, path: "/api/v1/applications", clerkID: testClerkID})
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Len(t, decodeBody(t, rec)["applications"], 1)

	rec = serve(t, h.Withdraw, request{
		method: http.MethodDelete, path: "/api/v1/applications/a1", clerkID: testClerkID, vars: map[string]string{"id": "a1"},
	})
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "a1", svc.gotID)
	assert.Equal(t, "withdrawn", decodeBody(t, rec)["status"])

	rec = serve(t, h.Withdraw, request{method: http.MethodDelete, path: "/api/v1/applications/a1"})
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}

func TestNotificationHandler_GetNotifications(t *testing.T) {
	svc := &stubNotifications{list: &notification.NotificationListResponse{Notifications: []*notification.Notification{}}}
	h := NewNotificationHandler(svc)

	rec := serve(t, h.GetNotifications, request{method: http.MethodGet, path: "/api/v1/notifications", clerkID: testClerkID})
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, 1, svc.gotPage)
	assert.Equal(t, 20, svc.gotPageSize)

	rec = serve(t, h.GetNotifications, request{
		method: http.MethodGet, path: "/api/v1/notifications?page=3&page_size=50", clerkID: testClerkID,
	})
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, 3, svc.gotPage)
	assert.Equal(t, 50, svc.gotPageSize)

	rec = serve(t, h.GetNotifications, request{
		method: http.MethodGet, path: "/api/v1/notifications?page_size=many", clerkID: testClerkID,
	})
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestNotificationHandler_MarkReadAndDevices(t *testing.T) {
	svc := &stubNotifications{}
	h := NewNotificationHandler(svc)

	rec := serve(t, h.MarkAsRead, request{
		method: http.MethodPut, path: "/api/v1/notifications/n1/read", clerkID: testClerkID, vars: map[string]string{"id": "n1"},
	})
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "n1", svc.gotReadID)

	rec = serve(t, h.RegisterDevice, request{
		method: http.MethodPost, path: "/api/v1/notifications/register-device",
		body: `{"token":"fcm-token","platform":"blackberry"}`, clerkID: testClerkID,
	})
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Nil(t, svc.gotDevice)

	rec = serve(t, h.RegisterDevice, request{
		method: http.MethodPost, path: "/api/v1/notifications/register-device",
		body: `{"token":"fcm-token","platform":"android"}`, clerkID: testClerkID,
	})
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "android", svc.gotDevice.Platform)
}

func TestNotificationHandler_Preferences(t *testing.T) {
	svc := &stubNotifications{prefs: notification.DefaultPreferences("u1")}
	h := NewNotificationHandler(svc)

	rec := serve(t, h.GetPreferences, request{method: http.MethodGet, path: "/api/v1/notifications/preferences", clerkID: testClerkID})
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, true, decodeBody(t, rec)["push_enabled"])

	svc.err = apperr.Validation("add a phone number before enabling WhatsApp")
	rec = serve(t, h.UpdatePreferences, request{
		method: http.MethodPut, path: "/api/v1/notifications/preferences", body: `{"whatsapp_enabled":true}`, clerkID: testClerkID,
	})
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Equal(t, "add a phone number before enabling WhatsApp", decodeBody(t, rec)["error"])
}
