package services

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog/log"

	"internHubAPI/internal/apperr"
	"internHubAPI/internal/types/notification"
	"internHubAPI/internal/validation"
)

type NotificationService struct {
	store      NotificationStore
	profiles   ProfileStore
	dispatcher *NotificationDispatcher
}

func NewNotificationService(store NotificationStore, profiles ProfileStore) *NotificationService {
	service := &NotificationService{
		store:    store,
		profiles: profiles,
	}

	service.dispatcher = NewNotificationDispatcher(store)

	return service
}

func (s *NotificationService) Dispatcher() *NotificationDispatcher {
	return s.dispatcher
}

// CreateNotification stores a pending notification and queues it for
// delivery on the user's enabled channels.
func (s *NotificationService) CreateNotification(ctx context.Context, req *notification.CreateNotificationRequest) (*notification.Notification, error) {
	if err := validation.Struct(req); err != nil {
		return nil, err
	}

	notif := &notification.Notification{
		ID:        uuid.NewString(),
		UserID:    req.UserID,
		Type:      req.Type,
		Status:    notification.StatusPending,
		Title:     req.Title,
		Body:      req.Body,
		Data:      req.Data,
		CreatedAt: time.Now(),
	}
	if notif.Data == nil {
		notif.Data = map[string]any{}
	}

	if err := s.store.CreateNotification(ctx, notif); err != nil {
		return nil, err
	}

	rcpt, err := s.recipient(ctx, req.UserID)
	if err != nil {
		log.Warn().Err(err).Str("notification_id", notif.ID).Msg("Could not resolve recipient, notification stays pending")
		return notif, nil
	}

	s.dispatcher.DispatchNotification(ctx, notif, rcpt)
	return notif, nil
}

func (s *NotificationService) recipient(ctx context.Context, userID string) (*notification.Recipient, error) {
	profile, err := s.profiles.GetProfileByID(ctx, userID)
	if err != nil {
		return nil, err
	}
	prefs, err := s.store.GetPreferences(ctx, userID)
	if err != nil {
		return nil, err
	}
	tokens, err := s.store.ListDeviceTokens(ctx, userID)
	if err != nil {
		return nil, err
	}

	rcpt := &notification.Recipient{
		UserID:       userID,
		Email:        profile.Email,
		DeviceTokens: tokens,
		Preferences:  prefs,
	}
	if profile.Phone != nil {
		rcpt.Phone = *profile.Phone
	}
	return rcpt, nil
}

func (s *NotificationService) GetNotifications(ctx context.Context, clerkID string, page, pageSize int) (*notification.NotificationListResponse, error) {
	if page < 1 {
		return nil, apperr.Validation("page must be at least 1")
	}
	if pageSize < 1 || pageSize > 100 {
		return nil, apperr.Validation("page_size must be between 1 and 100")
	}

	profile, err := s.profiles.GetProfileByClerkID(ctx, clerkID)
	if err != nil {
		return nil, err
	}

	items, total, err := s.store.ListNotifications(ctx, profile.ID, pageSize, (page-1)*pageSize)
	if err != nil {
		return nil, err
	}
	unread, err := s.store.CountUnread(ctx, profile.ID)
	if err != nil {
		return nil, err
	}
	if items == nil {
		items = []*notification.Notification{}
	}

	return &notification.NotificationListResponse{
		Notifications: items,
		UnreadCount:   unread,
		TotalCount:    total,
		Page:          page,
		PageSize:      pageSize,
	}, nil
}

func (s *NotificationService) MarkAsRead(ctx context.Context, clerkID, notificationID string) error {
	if _, err := uuid.Parse(notificationID); err != nil {
		return apperr.Validation("invalid notification id")
	}

	profile, err := s.profiles.GetProfileByClerkID(ctx, clerkID)
	if err != nil {
		return err
	}
	return s.store.MarkRead(ctx, profile.ID, notificationID)
}

func (s *NotificationService) GetPreferences(ctx context.Context, clerkID string) (*notification.Preferences, error) {
	profile, err := s.profiles.GetProfileByClerkID(ctx, clerkID)
	if err != nil {
		return nil, err
	}
	return s.store.GetPreferences(ctx, profile.ID)
}

func (s *NotificationService) UpdatePreferences(ctx context.Context, clerkID string, req *notification.UpdatePreferencesRequest) (*notification.Preferences, error) {
	profile, err := s.profiles.GetProfileByClerkID(ctx, clerkID)
	if err != nil {
		return nil, err
	}

	prefs, err := s.store.GetPreferences(ctx, profile.ID)
	if err != nil {
		return nil, err
	}

	if req.PushEnabled != nil {
		prefs.PushEnabled = *req.PushEnabled
	}
	if req.EmailEnabled != nil {
		prefs.EmailEnabled = *req.EmailEnabled
	}
	if req.WhatsAppEnabled != nil {
		if *req.WhatsAppEnabled && profile.Phone == nil {
			return nil, apperr.Validation("add a phone number before enabling WhatsApp")
		}
		prefs.WhatsAppEnabled = *req.WhatsAppEnabled
	}
	prefs.UpdatedAt = time.Now()

	if err := s.store.SavePreferences(ctx, prefs); err != nil {
		return nil, err
	}
	return prefs, nil
}

func (s *NotificationService) RegisterDevice(ctx context.Context, clerkID string, req *notification.RegisterDeviceRequest) error {
	if err := validation.Struct(req); err != nil {
		return err
	}

	profile, err := s.profiles.GetProfileByClerkID(ctx, clerkID)
	if err != nil {
		return err
	}

	return s.store.AddDeviceToken(ctx, profile.ID, notification.DeviceToken{
		Token:     req.Token,
		Platform:  req.Platform,
		CreatedAt: time.Now(),
	})
}

// DeleteOlderThan removes notifications created before cutoff.
func (s *NotificationService) DeleteOlderThan(ctx context.Context, cutoff time.Time) (int64, error) {
	return s.store.DeleteOlderThan(ctx, cutoff)
}

func (s *NotificationService) Stop() {
	s.dispatcher.Stop()
}
