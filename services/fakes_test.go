package services

import (
	"context"
	"errors"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"

	"internHubAPI/internal/apperr"
	"internHubAPI/internal/razorpay"
	"internHubAPI/internal/types/application"
	"internHubAPI/internal/types/calendar"
	"internHubAPI/internal/types/internship"
	"internHubAPI/internal/types/notification"
	"internHubAPI/internal/types/payment"
	"internHubAPI/internal/types/user"
)

var errFake = errors.New("fake store failure")

type fakePostingStore struct {
	postings []internship.Posting
	err      error
}

func (f *fakePostingStore) ListActivePostings(ctx context.Context) ([]internship.Posting, error) {
	if f.err != nil {
		return nil, apperr.Store(f.err, "failed to list postings")
	}
	out := make([]internship.Posting, 0, len(f.postings))
	for _, p := range f.postings {
		if p.IsActive {
			out = append(out, p)
		}
	}
	return out, nil
}

func (f *fakePostingStore) GetPosting(ctx context.Context, id string) (*internship.Posting, error) {
	for i := range f.postings {
		if f.postings[i].ID == id {
			p := f.postings[i]
			return &p, nil
		}
	}
	return nil, apperr.NotFound("internship not found")
}

type fakePaymentStore struct {
	mu      sync.Mutex
	records map[string]*payment.Record
}

func newFakePaymentStore(recs ...*payment.Record) *fakePaymentStore {
	f := &fakePaymentStore{records: map[string]*payment.Record{}}
	for _, r := range recs {
		f.records[r.OrderID] = r
	}
	return f
}

func (f *fakePaymentStore) get(orderID string) payment.Record {
	f.mu.Lock()
	defer f.mu.Unlock()
	return *f.records[orderID]
}

func (f *fakePaymentStore) CreatePayment(ctx context.Context, rec *payment.Record) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	cp := *rec
	f.records[rec.OrderID] = &cp
	return nil
}

func (f *fakePaymentStore) GetPaymentByOrderID(ctx context.Context, orderID string) (*payment.Record, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	rec, ok := f.records[orderID]
	if !ok {
		return nil, apperr.NotFound("payment not found")
	}
	cp := *rec
	return &cp, nil
}

func (f *fakePaymentStore) ListPaymentsByUser(ctx context.Context, userID string) ([]payment.Record, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	var out []payment.Record
	for _, r := range f.records {
		if r.UserID == userID {
			out = append(out, *r)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].CreatedAt.After(out[j].CreatedAt) })
	return out, nil
}

func (f *fakePaymentStore) MarkPaid(ctx context.Context, orderID string, upd payment.PaidUpdate) (*payment.Record, bool, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	rec, ok := f.records[orderID]
	if !ok {
		return nil, false, apperr.NotFound("payment not found")
	}
	if rec.Status != payment.StatusCreated {
		cp := *rec
		return &cp, false, nil
	}
	rec.Status = payment.StatusPaid
	at := upd.PaidAt
	rec.PaidAt = &at
	if upd.PaymentID != "" {
		rec.PaymentID = strPtr(upd.PaymentID)
	}
	if upd.PaymentMethod != "" {
		rec.PaymentMethod = strPtr(upd.PaymentMethod)
	}
	if upd.CustomerContact != "" {
		rec.CustomerContact = strPtr(upd.CustomerContact)
	}
	cp := *rec
	return &cp, true, nil
}

func (f *fakePaymentStore) MarkFailed(ctx context.Context, orderID string, upd payment.FailedUpdate) (*payment.Record, bool, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	rec, ok := f.records[orderID]
	if !ok {
		return nil, false, apperr.NotFound("payment not found")
	}
	if rec.Status != payment.StatusCreated {
		cp := *rec
		return &cp, false, nil
	}
	rec.Status = payment.StatusFailed
	at := upd.FailedAt
	rec.FailedAt = &at
	if upd.PaymentID != "" {
		rec.PaymentID = strPtr(upd.PaymentID)
	}
	if upd.Reason != "" {
		rec.FailureReason = strPtr(upd.Reason)
	}
	if upd.ErrorCode != "" {
		rec.ErrorCode = strPtr(upd.ErrorCode)
	}
	if upd.ErrorDescription != "" {
		rec.ErrorDescription = strPtr(upd.ErrorDescription)
	}
	cp := *rec
	return &cp, true, nil
}

func (f *fakePaymentStore) ClaimEntitlement(ctx context.Context, orderID string, at time.Time) (bool, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	rec, ok := f.records[orderID]
	if !ok {
		return false, apperr.NotFound("payment not found")
	}
	if rec.Status != payment.StatusPaid || rec.PlanType != payment.PlanSubscription || rec.EntitlementGrantedAt != nil {
		return false, nil
	}
	rec.EntitlementGrantedAt = &at
	return true, nil
}

func (f *fakePaymentStore) ReleaseEntitlement(ctx context.Context, orderID string, at time.Time) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	rec, ok := f.records[orderID]
	if !ok {
		return apperr.NotFound("payment not found")
	}
	if rec.EntitlementGrantedAt != nil && rec.EntitlementGrantedAt.Equal(at) {
		rec.EntitlementGrantedAt = nil
	}
	return nil
}

type fakeProfileStore struct {
	mu          sync.Mutex
	byClerk     map[string]*user.Profile
	setPremium  []time.Time
	premiumErr  error
	resumeKeys  map[string]string
	deleted     []string
	upsertCalls int
}

func newFakeProfileStore(profiles ...*user.Profile) *fakeProfileStore {
	f := &fakeProfileStore{byClerk: map[string]*user.Profile{}, resumeKeys: map[string]string{}}
	for _, p := range profiles {
		f.byClerk[p.ClerkID] = p
	}
	return f
}

func (f *fakeProfileStore) GetProfileByClerkID(ctx context.Context, clerkID string) (*user.Profile, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	p, ok := f.byClerk[clerkID]
	if !ok {
		return nil, apperr.NotFound("user not found")
	}
	cp := *p
	return &cp, nil
}

func (f *fakeProfileStore) GetProfileByID(ctx context.Context, id string) (*user.Profile, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	for _, p := range f.byClerk {
		if p.ID == id {
			cp := *p
			return &cp, nil
		}
	}
	return nil, apperr.NotFound("user not found")
}

func (f *fakeProfileStore) UpsertProfile(ctx context.Context, req *user.UpsertProfileRequest) (*user.Profile, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.upsertCalls++
	p, ok := f.byClerk[req.ClerkID]
	if !ok {
		p = &user.Profile{ID: uuid.NewString(), ClerkID: req.ClerkID, Skills: []string{}}
		f.byClerk[req.ClerkID] = p
	}
	p.Email = req.Email
	p.FullName = req.FullName
	cp := *p
	return &cp, nil
}

func (f *fakeProfileStore) UpdateProfile(ctx context.Context, clerkID string, req *user.UpdateProfileRequest) (*user.Profile, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	p, ok := f.byClerk[clerkID]
	if !ok {
		return nil, apperr.NotFound("user not found")
	}
	if req.FullName != nil {
		p.FullName = *req.FullName
	}
	if req.Phone != nil {
		p.Phone = req.Phone
	}
	if req.Location != nil {
		p.Location = *req.Location
	}
	if req.Skills != nil {
		p.Skills = req.Skills
	}
	cp := *p
	return &cp, nil
}

func (f *fakeProfileStore) DeleteProfileByClerkID(ctx context.Context, clerkID string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if _, ok := f.byClerk[clerkID]; !ok {
		return apperr.NotFound("user not found")
	}
	delete(f.byClerk, clerkID)
	f.deleted = append(f.deleted, clerkID)
	return nil
}

func (f *fakeProfileStore) SetResumeKey(ctx context.Context, profileID, key string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.resumeKeys[profileID] = key
	return nil
}

func (f *fakeProfileStore) SetPremium(ctx context.Context, userID string, expiresAt time.Time) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.premiumErr != nil {
		return apperr.Store(f.premiumErr, "failed to update premium")
	}
	f.setPremium = append(f.setPremium, expiresAt)
	for _, p := range f.byClerk {
		if p.ID == userID {
			p.IsPremium = true
			exp := expiresAt
			p.ExpiresAt = &exp
		}
	}
	return nil
}

func (f *fakeProfileStore) ListPremiumExpiringBetween(ctx context.Context, from, to time.Time) ([]user.Profile, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	var out []user.Profile
	for _, p := range f.byClerk {
		if p.IsPremium && p.ExpiresAt != nil && !p.ExpiresAt.Before(from) && p.ExpiresAt.Before(to) {
			out = append(out, *p)
		}
	}
	return out, nil
}

type fakeOrders struct {
	created []int64
	err     error
}

func (f *fakeOrders) KeyID() string { return "rzp_test_key" }

func (f *fakeOrders) CreateOrder(ctx context.Context, amount int64, currency, receipt string, notes map[string]string) (*razorpay.Order, error) {
	if f.err != nil {
		return nil, f.err
	}
	f.created = append(f.created, amount)
	return &razorpay.Order{ID: "order_" + strings.ReplaceAll(receipt, "-", "")[:14], Amount: amount, Currency: currency, Receipt: receipt, Status: "created"}, nil
}

type fakeDeduper struct {
	mu        sync.Mutex
	processed map[string]bool
	err       error
}

func newFakeDeduper() *fakeDeduper {
	return &fakeDeduper{processed: map[string]bool{}}
}

func (f *fakeDeduper) IsProcessed(ctx context.Context, key string) (bool, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.err != nil {
		return false, f.err
	}
	return f.processed[key], nil
}

func (f *fakeDeduper) MarkProcessed(ctx context.Context, key string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.err != nil {
		return f.err
	}
	f.processed[key] = true
	return nil
}

type fakePublisher struct {
	events []payment.Event
}

func (f *fakePublisher) PublishPaymentEvent(ctx context.Context, ev payment.Event) error {
	f.events = append(f.events, ev)
	return nil
}

type fakeNotifier struct {
	mu   sync.Mutex
	reqs []*notification.CreateNotificationRequest
}

func (f *fakeNotifier) CreateNotification(ctx context.Context, req *notification.CreateNotificationRequest) (*notification.Notification, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.reqs = append(f.reqs, req)
	return &notification.Notification{ID: uuid.NewString(), UserID: req.UserID, Type: req.Type}, nil
}

func (f *fakeNotifier) types() []notification.NotificationType {
	f.mu.Lock()
	defer f.mu.Unlock()
	out := make([]notification.NotificationType, 0, len(f.reqs))
	for _, r := range f.reqs {
		out = append(out, r.Type)
	}
	return out
}

type fakeApplicationStore struct {
	mu        sync.Mutex
	apps      map[string]*application.Application
	deadlines []calendar.Deadline
}

func newFakeApplicationStore() *fakeApplicationStore {
	return &fakeApplicationStore{apps: map[string]*application.Application{}}
}

func (f *fakeApplicationStore) CreateApplication(ctx context.Context, app *application.Application) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	for _, a := range f.apps {
		if a.UserID == app.UserID && a.InternshipID == app.InternshipID {
			return apperr.Conflict("already applied to this internship")
		}
	}
	cp := *app
	f.apps[app.ID] = &cp
	return nil
}

func (f *fakeApplicationStore) GetApplication(ctx context.Context, id string) (*application.Application, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	a, ok := f.apps[id]
	if !ok {
		return nil, apperr.NotFound("application not found")
	}
	cp := *a
	return &cp, nil
}

func (f *fakeApplicationStore) ListApplicationsByUser(ctx context.Context, userID string) ([]application.Application, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	out := []application.Application{}
	for _, a := range f.apps {
		if a.UserID == userID {
			out = append(out, *a)
		}
	}
	return out, nil
}

func (f *fakeApplicationStore) UpdateApplicationStatus(ctx context.Context, id string, from, to application.Status) (*application.Application, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	a, ok := f.apps[id]
	if !ok {
		return nil, apperr.NotFound("application not found")
	}
	if a.Status != from {
		return nil, apperr.Conflict("application status changed")
	}
	a.Status = to
	cp := *a
	return &cp, nil
}

func (f *fakeApplicationStore) ListDeadlinesBetween(ctx context.Context, userID string, from, to time.Time) ([]calendar.Deadline, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	var out []calendar.Deadline
	for _, d := range f.deadlines {
		if !d.Deadline.Before(from) && d.Deadline.Before(to) {
			out = append(out, d)
		}
	}
	return out, nil
}

type fakeNotificationStore struct {
	mu     sync.Mutex
	items  []*notification.Notification
	prefs  map[string]*notification.Preferences
	tokens map[string][]notification.DeviceToken
	sent   map[string]bool
	failed map[string]string
}

func newFakeNotificationStore() *fakeNotificationStore {
	return &fakeNotificationStore{
		prefs:  map[string]*notification.Preferences{},
		tokens: map[string][]notification.DeviceToken{},
		sent:   map[string]bool{},
		failed: map[string]string{},
	}
}

func (f *fakeNotificationStore) CreateNotification(ctx context.Context, n *notification.Notification) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	cp := *n
	f.items = append(f.items, &cp)
	return nil
}

func (f *fakeNotificationStore) ListNotifications(ctx context.Context, userID string, limit, offset int) ([]*notification.Notification, int, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	var mine []*notification.Notification
	for _, n := range f.items {
		if n.UserID == userID {
			mine = append(mine, n)
		}
	}
	total := len(mine)
	if offset >= total {
		return []*notification.Notification{}, total, nil
	}
	end := offset + limit
	if end > total {
		end = total
	}
	return mine[offset:end], total, nil
}

func (f *fakeNotificationStore) CountUnread(ctx context.Context, userID string) (int, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	count := 0
	for _, n := range f.items {
		if n.UserID == userID && n.ReadAt == nil {
			count++
		}
	}
	return count, nil
}

func (f *fakeNotificationStore) MarkRead(ctx context.Context, userID, id string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	for _, n := range f.items {
		if n.ID == id && n.UserID == userID {
			now := time.Now()
			n.ReadAt = &now
			return nil
		}
	}
	return apperr.NotFound("notification not found")
}

func (f *fakeNotificationStore) MarkSent(ctx context.Context, id string, at time.Time) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.sent[id] = true
	return nil
}

func (f *fakeNotificationStore) MarkFailed(ctx context.Context, id, reason string, at time.Time) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.failed[id] = reason
	return nil
}

func (f *fakeNotificationStore) isSent(id string) bool {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.sent[id]
}

func (f *fakeNotificationStore) failure(id string) (string, bool) {
	f.mu.Lock()
	defer f.mu.Unlock()
	r, ok := f.failed[id]
	return r, ok
}

func (f *fakeNotificationStore) GetPreferences(ctx context.Context, userID string) (*notification.Preferences, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if p, ok := f.prefs[userID]; ok {
		cp := *p
		return &cp, nil
	}
	return notification.DefaultPreferences(userID), nil
}

func (f *fakeNotificationStore) SavePreferences(ctx context.Context, prefs *notification.Preferences) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	cp := *prefs
	f.prefs[prefs.UserID] = &cp
	return nil
}

func (f *fakeNotificationStore) AddDeviceToken(ctx context.Context, userID string, token notification.DeviceToken) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	for _, t := range f.tokens[userID] {
		if t.Token == token.Token {
			return nil
		}
	}
	f.tokens[userID] = append(f.tokens[userID], token)
	return nil
}

func (f *fakeNotificationStore) ListDeviceTokens(ctx context.Context, userID string) ([]notification.DeviceToken, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]notification.DeviceToken(nil), f.tokens[userID]...), nil
}

func (f *fakeNotificationStore) DeleteOlderThan(ctx context.Context, cutoff time.Time) (int64, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	kept := f.items[:0]
	var n int64
	for _, item := range f.items {
		if item.CreatedAt.Before(cutoff) {
			n++
			continue
		}
		kept = append(kept, item)
	}
	f.items = kept
	return n, nil
}

func strPtr(s string) *string { return &s }
