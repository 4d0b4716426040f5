package services

import (
	"context"
	"strings"
	"sync"
	"time"

	"github.com/rs/zerolog/log"

	"internHubAPI/internal/types/notification"
)

type PushNotificationProvider interface {
	SendPush(ctx context.Context, tokens []notification.DeviceToken, title, body string, data map[string]any) error
}

type EmailProvider interface {
	SendEmail(ctx context.Context, to, subject, body string) error
}

type WhatsAppProvider interface {
	SendWhatsApp(ctx context.Context, to, body string) error
}

// NotificationDispatcher delivers stored notifications through the
// channels a user has enabled, on a fixed pool of workers.
type NotificationDispatcher struct {
	store            NotificationStore
	pushProvider     PushNotificationProvider
	emailProvider    EmailProvider
	whatsAppProvider WhatsAppProvider
	workers          int
	enqueueTimeout   time.Duration
	jobQueue         chan *DispatchJob
	stopChan         chan struct{}
	stopOnce         sync.Once
	wg               sync.WaitGroup
}

type DispatchJob struct {
	Notification *notification.Notification
	Recipient    *notification.Recipient
}

func NewNotificationDispatcher(store NotificationStore) *NotificationDispatcher {
	d := &NotificationDispatcher{
		store:          store,
		workers:        5,
		enqueueTimeout: 5 * time.Second,
		jobQueue:       make(chan *DispatchJob, 100),
		stopChan:       make(chan struct{}),
	}

	d.startWorkers()

	return d
}

// SetPushProvider, SetEmailProvider and SetWhatsAppProvider are called from
// main once the provider credentials have been loaded. A nil provider turns
// the channel off.
func (d *NotificationDispatcher) SetPushProvider(provider PushNotificationProvider) {
	d.pushProvider = provider
}

func (d *NotificationDispatcher) SetEmailProvider(provider EmailProvider) {
	d.emailProvider = provider
}

func (d *NotificationDispatcher) SetWhatsAppProvider(provider WhatsAppProvider) {
	d.whatsAppProvider = provider
}

func (d *NotificationDispatcher) startWorkers() {
	for i := 0; i < d.workers; i++ {
		d.wg.Add(1)
		go d.worker(i)
	}
}

func (d *NotificationDispatcher) worker(id int) {
	defer d.wg.Done()
	for {
		select {
		case job := <-d.jobQueue:
			d.processJob(job)
		case <-d.stopChan:
			return
		}
	}
}

func (d *NotificationDispatcher) processJob(job *DispatchJob) {
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	notif := job.Notification
	rcpt := job.Recipient
	prefs := rcpt.Preferences
	if prefs == nil {
		prefs = notification.DefaultPreferences(rcpt.UserID)
	}

	logger := log.With().Str("notification_id", notif.ID).Str("user_id", notif.UserID).Logger()

	var attempted, delivered int
	var failures []string

	attempt := func(ch notification.Channel, send func() error) {
		attempted++
		if err := send(); err != nil {
			logger.Warn().Err(err).Str("channel", string(ch)).Msg("Notification channel failed")
			failures = append(failures, string(ch)+": "+err.Error())
			return
		}
		delivered++
	}

	if prefs.PushEnabled && len(rcpt.DeviceTokens) > 0 && d.pushProvider != nil {
		attempt(notification.ChannelPush, func() error {
			return d.pushProvider.SendPush(ctx, rcpt.DeviceTokens, notif.Title, notif.Body, notif.Data)
		})
	}
	if prefs.EmailEnabled && rcpt.Email != "" && d.emailProvider != nil {
		attempt(notification.ChannelEmail, func() error {
			return d.emailProvider.SendEmail(ctx, rcpt.Email, notif.Title, notif.Body)
		})
	}
	if prefs.WhatsAppEnabled && rcpt.Phone != "" && d.whatsAppProvider != nil {
		attempt(notification.ChannelWhatsApp, func() error {
			return d.whatsAppProvider.SendWhatsApp(ctx, rcpt.Phone, notif.Title+"\n"+notif.Body)
		})
	}

	// With no external channel attempted the notification is still
	// delivered in-app.
	if attempted > 0 && delivered == 0 {
		d.markAsFailed(ctx, notif.ID, strings.Join(failures, "; "))
		return
	}

	logger.Debug().Int("attempted", attempted).Int("delivered", delivered).Msg("Notification dispatched")
	d.markAsSent(ctx, notif.ID)
}

// DispatchNotification queues a notification for delivery. It gives up
// after the enqueue timeout when the queue stays full.
func (d *NotificationDispatcher) DispatchNotification(ctx context.Context, notif *notification.Notification, rcpt *notification.Recipient) bool {
	job := &DispatchJob{
		Notification: notif,
		Recipient:    rcpt,
	}

	timer := time.NewTimer(d.enqueueTimeout)
	defer timer.Stop()

	select {
	case d.jobQueue <- job:
		log.Debug().Str("notification_id", notif.ID).Msg("Notification queued for dispatch")
		return true
	case <-timer.C:
		log.Warn().Str("notification_id", notif.ID).Msg("Failed to queue notification: queue full")
		return false
	case <-ctx.Done():
		log.Warn().Str("notification_id", notif.ID).Msg("Failed to queue notification: context done")
		return false
	case <-d.stopChan:
		return false
	}
}

func (d *NotificationDispatcher) markAsSent(ctx context.Context, notificationID string) {
	if err := d.store.MarkSent(ctx, notificationID, time.Now()); err != nil {
		log.Error().Err(err).Str("notification_id", notificationID).Msg("Failed to mark notification as sent")
	}
}

func (d *NotificationDispatcher) markAsFailed(ctx context.Context, notificationID, reason string) {
	if err := d.store.MarkFailed(ctx, notificationID, reason, time.Now()); err != nil {
		log.Error().Err(err).Str("notification_id", notificationID).Msg("Failed to mark notification as failed")
	}
}

// Stop waits for in-flight jobs to finish. Queued jobs that have not been
// picked up are dropped and stay pending.
func (d *NotificationDispatcher) Stop() {
	d.stopOnce.Do(func() {
		log.Info().Msg("Stopping notification dispatcher...")
		close(d.stopChan)
		d.wg.Wait()
		log.Info().Msg("Notification dispatcher stopped")
	})
}
