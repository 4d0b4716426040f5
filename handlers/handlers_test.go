package handlers

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gorilla/mux"
	"github.com/stretchr/testify/require"

	"internHubAPI/internal/types/application"
	"internHubAPI/internal/types/calendar"
	"internHubAPI/internal/types/internship"
	"internHubAPI/internal/types/notification"
	"internHubAPI/internal/types/payment"
	"internHubAPI/internal/types/premium"
	"internHubAPI/internal/types/user"
	"internHubAPI/middleware"
	"internHubAPI/services"
)

const testClerkID = "user_2abcClerk"

type request struct {
	method  string
	path    string
	body    string
	clerkID string
	vars    map[string]string
	headers map[string]string
}

func serve(t *testing.T, h http.HandlerFunc, req request) *httptest.ResponseRecorder {
	t.Helper()

	var r *http.Request
	if req.body != "" {
		r = httptest.NewRequest(req.method, req.path, strings.NewReader(req.body))
		r.Header.Set("Content-Type", "application/json")
	} else {
		r = httptest.NewRequest(req.method, req.path, nil)
	}
	for k, v := range req.headers {
		r.Header.Set(k, v)
	}
	if req.clerkID != "" {
		r = r.WithContext(middleware.WithClerkID(r.Context(), req.clerkID))
	}
	if req.vars != nil {
		r = mux.SetURLVars(r, req.vars)
	}

	rec := httptest.NewRecorder()
	h(rec, r)
	return rec
}

func decodeBody(t *testing.T, rec *httptest.ResponseRecorder) map[string]any {
	t.Helper()
	var body map[string]any
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body), rec.Body.String())
	return body
}

type stubMatcher struct {
	resp      *internship.SearchResponse
	posting   *internship.Posting
	err       error
	gotSearch internship.SearchRequest
	gotPage   *int
	gotLimit  *int
	gotID     string
}

func (s *stubMatcher) Search(ctx context.Context, req internship.SearchRequest) (*internship.SearchResponse, error) {
	s.gotSearch = req
	return s.resp, s.err
}

func (s *stubMatcher) Recommend(ctx context.Context, clerkID string, page, limit *int) (*internship.SearchResponse, error) {
	s.gotPage, s.gotLimit = page, limit
	return s.resp, s.err
}

func (s *stubMatcher) GetPosting(ctx context.Context, id string) (*internship.Posting, error) {
	s.gotID = id
	return s.posting, s.err
}

type stubPayments struct {
	order         *payment.CreateOrderResponse
	record        *payment.Record
	records       []payment.Record
	webhookResult *services.WebhookResult
	err           error

	gotVerify    *payment.VerifyRequest
	gotBody      []byte
	gotSignature string
	gotEventID   string
}

func (s *stubPayments) CreateOrder(ctx context.Context, clerkID string, req *payment.CreateOrderRequest) (*payment.CreateOrderResponse, error) {
	return s.order, s.err
}

func (s *stubPayments) VerifyPayment(ctx context.Context, clerkID string, req *payment.VerifyRequest) (*payment.Record, error) {
	s.gotVerify = req
	return s.record, s.err
}

func (s *stubPayments) ListPayments(ctx context.Context, clerkID string) ([]payment.Record, error) {
	return s.records, s.err
}

func (s *stubPayments) HandleWebhook(ctx context.Context, body []byte, signature, eventID string) (*services.WebhookResult, error) {
	s.gotBody, s.gotSignature, s.gotEventID = body, signature, eventID
	return s.webhookResult, s.err
}

type stubProfiles struct {
	profile   *user.Profile
	status    *premium.StatusResponse
	upload    *user.ResumeUploadResponse
	err       error
	gotUpdate *user.UpdateProfileRequest
}

func (s *stubProfiles) GetProfile(ctx context.Context, clerkID string) (*user.Profile, error) {
	return s.profile, s.err
}

func (s *stubProfiles) UpdateProfile(ctx context.Context, clerkID string, req *user.UpdateProfileRequest) (*user.Profile, error) {
	s.gotUpdate = req
	return s.profile, s.err
}

func (s *stubProfiles) GetPremiumStatus(ctx context.Context, clerkID string) (*premium.StatusResponse, error) {
	return s.status, s.err
}

func (s *stubProfiles) CreateResumeUploadURL(ctx context.Context, clerkID string) (*user.ResumeUploadResponse, error) {
	return s.upload, s.err
}

type stubCalendar struct {
	err              error
	called           bool
	gotYear, gotMonth int
}

func (s *stubCalendar) GetCalendar(ctx context.Context, clerkID string, year, month int) (*calendar.CalendarResponse, error) {
	s.called = true
	s.gotYear, s.gotMonth = year, month
	if s.err != nil {
		return nil, s.err
	}
	return &calendar.CalendarResponse{Year: year, Month: month, Days: []*calendar.CalendarDay{}}, nil
}

type stubApplications struct {
	app       *application.Application
	apps      []application.Application
	err       error
	gotSubmit *application.SubmitRequest
	gotID     string
}

func (s *stubApplications) Submit(ctx context.Context, clerkID string, req *application.SubmitRequest) (*application.Application, error) {
	s.gotSubmit = req
	return s.app, s.err
}

func (s *stubApplications) List(ctx context.Context, clerkID string) ([]application.Application, error) {
	return s.apps, s.err
}

func (s *stubApplications) Withdraw(ctx context.Context, clerkID, applicationID string) (*application.Application, error) {
	s.gotID = applicationID
	return s.app, s.err
}

type stubNotifications struct {
	list        *notification.NotificationListResponse
	prefs       *notification.Preferences
	err         error
	gotPage     int
	gotPageSize int
	gotReadID   string
	gotDevice   *notification.RegisterDeviceRequest
}

func (s *stubNotifications) GetNotifications(ctx context.Context, clerkID string, page, pageSize int) (*notification.NotificationListResponse, error) {
	s.gotPage, s.gotPageSize = page, pageSize
	return s.list, s.err
}

func (s *stubNotifications) MarkAsRead(ctx context.Context, clerkID, notificationID string) error {
	s.gotReadID = notificationID
	return s.err
}

func (s *stubNotifications) GetPreferences(ctx context.Context, clerkID string) (*notification.Preferences, error) {
	return s.prefs, s.err
}

func (s *stubNotifications) UpdatePreferences(ctx context.Context, clerkID string, req *notification.UpdatePreferencesRequest) (*notification.Preferences, error) {
	return s.prefs, s.err
}

func (s *stubNotifications) RegisterDevice(ctx context.Context, clerkID string, req *notification.RegisterDeviceRequest) error {
	s.gotDevice = req
	return s.err
}

type stubClerkSync struct {
	synced  []*user.UpsertProfileRequest
	deleted []string
	err     error
}

func (s *stubClerkSync) SyncFromClerk(ctx context.Context, req *user.UpsertProfileRequest) (*user.Profile, error) {
	if s.err != nil {
		return nil, s.err
	}
	s.synced = append(s.synced, req)
	return &user.Profile{ClerkID: req.ClerkID, Email: req.Email}, nil
}

func (s *stubClerkSync) DeleteProfile(ctx context.Context, clerkID string) error {
	if s.err != nil {
		return s.err
	}
	s.deleted = append(s.deleted, clerkID)
	return nil
}
