package services

import (
	"context"
	"time"

	"internHubAPI/internal/razorpay"
	"internHubAPI/internal/types/application"
	"internHubAPI/internal/types/calendar"
	"internHubAPI/internal/types/internship"
	"internHubAPI/internal/types/notification"
	"internHubAPI/internal/types/payment"
	"internHubAPI/internal/types/user"
)

// Stores return apperr errors: NotFound for missing rows, Store for
// query failures.

type PostingStore interface {
	// ListActivePostings returns active postings in creation order.
	ListActivePostings(ctx context.Context) ([]internship.Posting, error)
	GetPosting(ctx context.Context, id string) (*internship.Posting, error)
}

type PaymentStore interface {
	CreatePayment(ctx context.Context, rec *payment.Record) error
	GetPaymentByOrderID(ctx context.Context, orderID string) (*payment.Record, error)
	ListPaymentsByUser(ctx context.Context, userID string) ([]payment.Record, error)
	// MarkPaid and MarkFailed move a created record to a terminal status.
	// When the record is already terminal they return it unchanged with
	// transitioned=false.
	MarkPaid(ctx context.Context, orderID string, upd payment.PaidUpdate) (rec *payment.Record, transitioned bool, err error)
	MarkFailed(ctx context.Context, orderID string, upd payment.FailedUpdate) (rec *payment.Record, transitioned bool, err error)
	// ClaimEntitlement stamps entitlement_granted_at on a paid subscription
	// payment. It reports false when the grant was already claimed.
	ClaimEntitlement(ctx context.Context, orderID string, at time.Time) (bool, error)
	// ReleaseEntitlement clears a claim stamped at at, so a later
	// confirmation can grant again.
	ReleaseEntitlement(ctx context.Context, orderID string, at time.Time) error
}

type ProfileStore interface {
	GetProfileByClerkID(ctx context.Context, clerkID string) (*user.Profile, error)
	GetProfileByID(ctx context.Context, id string) (*user.Profile, error)
	UpsertProfile(ctx context.Context, req *user.UpsertProfileRequest) (*user.Profile, error)
	UpdateProfile(ctx context.Context, clerkID string, req *user.UpdateProfileRequest) (*user.Profile, error)
	DeleteProfileByClerkID(ctx context.Context, clerkID string) error
	SetResumeKey(ctx context.Context, profileID, key string) error
	EntitlementStore
	ListPremiumExpiringBetween(ctx context.Context, from, to time.Time) ([]user.Profile, error)
}

// EntitlementStore overwrites a user's premium window.
type EntitlementStore interface {
	SetPremium(ctx context.Context, userID string, expiresAt time.Time) error
}

type ProfileResolver interface {
	GetProfileByClerkID(ctx context.Context, clerkID string) (*user.Profile, error)
}

type ApplicationStore interface {
	CreateApplication(ctx context.Context, app *application.Application) error
	GetApplication(ctx context.Context, id string) (*application.Application, error)
	ListApplicationsByUser(ctx context.Context, userID string) ([]application.Application, error)
	UpdateApplicationStatus(ctx context.Context, id string, from, to application.Status) (*application.Application, error)
	ListDeadlinesBetween(ctx context.Context, userID string, from, to time.Time) ([]calendar.Deadline, error)
}

type NotificationStore interface {
	CreateNotification(ctx context.Context, n *notification.Notification) error
	ListNotifications(ctx context.Context, userID string, limit, offset int) ([]*notification.Notification, int, error)
	CountUnread(ctx context.Context, userID string) (int, error)
	MarkRead(ctx context.Context, userID, notificationID string) error
	MarkSent(ctx context.Context, notificationID string, at time.Time) error
	MarkFailed(ctx context.Context, notificationID, reason string, at time.Time) error
	GetPreferences(ctx context.Context, userID string) (*notification.Preferences, error)
	SavePreferences(ctx context.Context, prefs *notification.Preferences) error
	AddDeviceToken(ctx context.Context, userID string, token notification.DeviceToken) error
	ListDeviceTokens(ctx context.Context, userID string) ([]notification.DeviceToken, error)
	DeleteOlderThan(ctx context.Context, cutoff time.Time) (int64, error)
}

type OrderCreator interface {
	KeyID() string
	CreateOrder(ctx context.Context, amount int64, currency, receipt string, notes map[string]string) (*razorpay.Order, error)
}

// WebhookDeduper remembers webhook deliveries that were fully handled.
type WebhookDeduper interface {
	IsProcessed(ctx context.Context, key string) (bool, error)
	MarkProcessed(ctx context.Context, key string) error
}

type PaymentEventPublisher interface {
	PublishPaymentEvent(ctx context.Context, ev payment.Event) error
}

// NotificationCreator is the slice of NotificationService other services
// use to notify a user.
type NotificationCreator interface {
	CreateNotification(ctx context.Context, req *notification.CreateNotificationRequest) (*notification.Notification, error)
}
