// Package workers runs the periodic maintenance jobs: closing expired
// postings, reminding users whose premium is about to lapse and pruning old
// notifications.
package workers

import (
	"context"
	"fmt"
	"time"

	"github.com/robfig/cron/v3"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	"internHubAPI/internal/types/notification"
	"internHubAPI/internal/types/user"
)

const (
	deactivateSpec = "@every 1h"
	reminderSpec   = "0 9 * * *"
	pruneSpec      = "@daily"

	jobTimeout        = 5 * time.Minute
	notificationTTL   = 90 * 24 * time.Hour
	reminderLeadStart = 48 * time.Hour
	reminderLeadEnd   = 72 * time.Hour
)

type PostingExpirer interface {
	DeactivateExpired(ctx context.Context, now time.Time) (int64, error)
}

type PremiumLister interface {
	ListPremiumExpiringBetween(ctx context.Context, from, to time.Time) ([]user.Profile, error)
}

type Notifier interface {
	CreateNotification(ctx context.Context, req *notification.CreateNotificationRequest) (*notification.Notification, error)
}

type NotificationPruner interface {
	DeleteOlderThan(ctx context.Context, cutoff time.Time) (int64, error)
}

// Scheduler wraps robfig/cron and owns the maintenance jobs.
type Scheduler struct {
	cron          *cron.Cron
	postings      PostingExpirer
	profiles      PremiumLister
	notifier      Notifier
	notifications NotificationPruner
	now           func() time.Time
}

func New(postings PostingExpirer, profiles PremiumLister, notifier Notifier, notifications NotificationPruner) *Scheduler {
	logger := cronLogger{log.With().Str("component", "scheduler").Logger()}
	return &Scheduler{
		cron: cron.New(
			cron.WithLocation(time.UTC),
			cron.WithLogger(logger),
			cron.WithChain(cron.Recover(logger), cron.SkipIfStillRunning(logger)),
		),
		postings:      postings,
		profiles:      profiles,
		notifier:      notifier,
		notifications: notifications,
		now:           time.Now,
	}
}

// Start registers the jobs and starts the scheduler. Jobs derive their
// contexts from ctx.
func (s *Scheduler) Start(ctx context.Context) error {
	jobs := []struct {
		spec string
		run  func(context.Context)
	}{
		{deactivateSpec, s.DeactivateExpiredPostings},
		{reminderSpec, s.SendPremiumExpiryReminders},
		{pruneSpec, s.PruneNotifications},
	}

	for _, job := range jobs {
		run := job.run
		if _, err := s.cron.AddFunc(job.spec, func() {
			jobCtx, cancel := context.WithTimeout(ctx, jobTimeout)
			defer cancel()
			run(jobCtx)
		}); err != nil {
			return fmt.Errorf("cron.AddFunc %q: %w", job.spec, err)
		}
	}

	s.cron.Start()
	log.Info().Int("jobs", len(jobs)).Msg("Scheduler started")
	return nil
}

// Stop halts the scheduler and waits for running jobs until ctx is done.
func (s *Scheduler) Stop(ctx context.Context) {
	select {
	case <-s.cron.Stop().Done():
		log.Info().Msg("Scheduler stopped")
	case <-ctx.Done():
		log.Warn().Msg("Scheduler stop timed out with jobs still running")
	}
}

// DeactivateExpiredPostings closes postings whose deadline has passed.
func (s *Scheduler) DeactivateExpiredPostings(ctx context.Context) {
	n, err := s.postings.DeactivateExpired(ctx, s.now().UTC())
	if err != nil {
		log.Error().Err(err).Str("job", "deactivate_postings").Msg("Job failed")
		return
	}
	if n > 0 {
		log.Info().Str("job", "deactivate_postings").Int64("count", n).Msg("Deactivated expired postings")
	}
}

// SendPremiumExpiryReminders notifies users whose premium ends between two
// and three days from now. The job runs daily, so each user falls into the
// window once per expiry. It never touches the entitlement itself.
func (s *Scheduler) SendPremiumExpiryReminders(ctx context.Context) {
	now := s.now().UTC()
	profiles, err := s.profiles.ListPremiumExpiringBetween(ctx, now.Add(reminderLeadStart), now.Add(reminderLeadEnd))
	if err != nil {
		log.Error().Err(err).Str("job", "premium_reminders").Msg("Job failed")
		return
	}

	sent := 0
	for _, p := range profiles {
		if p.ExpiresAt == nil {
			continue
		}
		_, err := s.notifier.CreateNotification(ctx, &notification.CreateNotificationRequest{
			UserID: p.ID,
			Type:   notification.TypePremiumExpiring,
			Title:  "Premium is ending soon",
			Body:   fmt.Sprintf("Your premium access ends on %s. Renew to keep your benefits.", p.ExpiresAt.Format("2 Jan 2006")),
			Data: map[string]any{
				"premium_expires_at": p.ExpiresAt.Format(time.RFC3339),
			},
		})
		if err != nil {
			log.Warn().Err(err).Str("user_id", p.ID).Msg("Failed to create premium reminder")
			continue
		}
		sent++
	}

	log.Info().Str("job", "premium_reminders").Int("candidates", len(profiles)).Int("sent", sent).Msg("Premium reminders done")
}

// PruneNotifications deletes delivered notifications older than 90 days.
func (s *Scheduler) PruneNotifications(ctx context.Context) {
	n, err := s.notifications.DeleteOlderThan(ctx, s.now().UTC().Add(-notificationTTL))
	if err != nil {
		log.Error().Err(err).Str("job", "prune_notifications").Msg("Job failed")
		return
	}
	log.Info().Str("job", "prune_notifications").Int64("deleted", n).Msg("Pruned old notifications")
}

// cronLogger routes robfig/cron's logs to zerolog.
type cronLogger struct {
	logger zerolog.Logger
}

func (l cronLogger) Info(msg string, keysAndValues ...interface{}) {
	l.logger.Debug().Fields(keysAndValues).Msg(msg)
}

func (l cronLogger) Error(err error, msg string, keysAndValues ...interface{}) {
	l.logger.Error().Err(err).Fields(keysAndValues).Msg(msg)
}
