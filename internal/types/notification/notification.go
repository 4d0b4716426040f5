package notification

import (
	"time"
)

type NotificationType string

const (
	TypePremiumActivated     NotificationType = "premium_activated"
	TypePaymentFailed        NotificationType = "payment_failed"
	TypePremiumExpiring      NotificationType = "premium_expiring"
	TypeApplicationSubmitted NotificationType = "application_submitted"
	TypeApplicationWithdrawn NotificationType = "application_withdrawn"
)

type NotificationStatus string

const (
	StatusPending NotificationStatus = "pending"
	StatusSent    NotificationStatus = "sent"
	StatusFailed  NotificationStatus = "failed"
)

type Channel string

const (
	ChannelPush     Channel = "push"
	ChannelEmail    Channel = "email"
	ChannelWhatsApp Channel = "whatsapp"
)

type Notification struct {
	ID            string             `json:"id" db:"id"`
	UserID        string             `json:"user_id" db:"user_id"`
	Type          NotificationType   `json:"type" db:"type"`
	Status        NotificationStatus `json:"status" db:"status"`
	Title         string             `json:"title" db:"title"`
	Body          string             `json:"body" db:"body"`
	Data          map[string]any     `json:"data" db:"data"`
	ReadAt        *time.Time         `json:"read_at,omitempty" db:"read_at"`
	SentAt        *time.Time         `json:"sent_at,omitempty" db:"sent_at"`
	FailedAt      *time.Time         `json:"failed_at,omitempty" db:"failed_at"`
	FailureReason *string            `json:"failure_reason,omitempty" db:"failure_reason"`
	CreatedAt     time.Time          `json:"created_at" db:"created_at"`
}

type DeviceToken struct {
	Token     string    `json:"token" db:"token"`
	Platform  string    `json:"platform" db:"platform"`
	CreatedAt time.Time `json:"created_at" db:"created_at"`
}

type Preferences struct {
	UserID          string    `json:"user_id" db:"user_id"`
	PushEnabled     bool      `json:"push_enabled" db:"push_enabled"`
	EmailEnabled    bool      `json:"email_enabled" db:"email_enabled"`
	WhatsAppEnabled bool      `json:"whatsapp_enabled" db:"whatsapp_enabled"`
	UpdatedAt       time.Time `json:"updated_at" db:"updated_at"`
}

// DefaultPreferences are used for users who never saved any.
func DefaultPreferences(userID string) *Preferences {
	return &Preferences{
		UserID:       userID,
		PushEnabled:  true,
		EmailEnabled: true,
	}
}

// Recipient is everything the dispatcher needs to reach a user.
type Recipient struct {
	UserID       string
	Email        string
	Phone        string
	DeviceTokens []DeviceToken
	Preferences  *Preferences
}
