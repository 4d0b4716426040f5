package services

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog/log"

	"internHubAPI/internal/apperr"
	"internHubAPI/internal/types/application"
	"internHubAPI/internal/types/notification"
	"internHubAPI/internal/validation"
)

type ApplicationService struct {
	applications ApplicationStore
	postings     PostingStore
	profiles     ProfileResolver
	notifier     NotificationCreator
	now          func() time.Time
}

func NewApplicationService(applications ApplicationStore, postings PostingStore, profiles ProfileResolver) *ApplicationService {
	return &ApplicationService{
		applications: applications,
		postings:     postings,
		profiles:     profiles,
		now:          time.Now,
	}
}

func (s *ApplicationService) SetNotifier(n NotificationCreator) {
	s.notifier = n
}

// Submit applies the caller to an open posting. The profile's current
// resume is attached to the application.
func (s *ApplicationService) Submit(ctx context.Context, clerkID string, req *application.SubmitRequest) (*application.Application, error) {
	if err := validation.Struct(req); err != nil {
		return nil, err
	}

	profile, err := s.profiles.GetProfileByClerkID(ctx, clerkID)
	if err != nil {
		return nil, err
	}

	posting, err := s.postings.GetPosting(ctx, req.InternshipID)
	if err != nil {
		return nil, err
	}
	now := s.now()
	if !posting.AcceptsApplications(now) {
		return nil, apperr.Validation("internship is no longer accepting applications")
	}

	app := &application.Application{
		ID:              uuid.NewString(),
		UserID:          profile.ID,
		InternshipID:    posting.ID,
		CoverLetter:     req.CoverLetter,
		ResumeKey:       profile.ResumeKey,
		Status:          application.StatusSubmitted,
		CreatedAt:       now,
		UpdatedAt:       now,
		InternshipTitle: posting.Title,
		CompanyName:     posting.CompanyName,
		Deadline:        posting.Deadline,
	}
	if err := s.applications.CreateApplication(ctx, app); err != nil {
		return nil, err
	}

	log.Info().Str("application_id", app.ID).Str("internship_id", posting.ID).Str("user_id", profile.ID).Msg("Application submitted")

	s.notify(ctx, app, notification.TypeApplicationSubmitted, "Application sent",
		"Your application for "+posting.Title+" at "+posting.CompanyName+" was submitted.")

	return app, nil
}

func (s *ApplicationService) List(ctx context.Context, clerkID string) ([]application.Application, error) {
	profile, err := s.profiles.GetProfileByClerkID(ctx, clerkID)
	if err != nil {
		return nil, err
	}

	apps, err := s.applications.ListApplicationsByUser(ctx, profile.ID)
	if err != nil {
		return nil, err
	}
	if apps == nil {
		apps = []application.Application{}
	}
	return apps, nil
}

// Withdraw moves the caller's application to withdrawn. Applications of
// other users are reported as not found.
func (s *ApplicationService) Withdraw(ctx context.Context, clerkID, applicationID string) (*application.Application, error) {
	if _, err := uuid.Parse(applicationID); err != nil {
		return nil, apperr.Validation("invalid application id")
	}

	profile, err := s.profiles.GetProfileByClerkID(ctx, clerkID)
	if err != nil {
		return nil, err
	}

	app, err := s.applications.GetApplication(ctx, applicationID)
	if err != nil {
		return nil, err
	}
	if app.UserID != profile.ID {
		return nil, apperr.NotFound("application not found")
	}
	if !application.IsTransitionAllowed(app.Status, application.StatusWithdrawn) {
		return nil, apperr.Conflict("application cannot be withdrawn from status " + string(app.Status))
	}

	updated, err := s.applications.UpdateApplicationStatus(ctx, app.ID, app.Status, application.StatusWithdrawn)
	if err != nil {
		return nil, err
	}

	s.notify(ctx, updated, notification.TypeApplicationWithdrawn, "Application withdrawn",
		"Your application was withdrawn.")

	return updated, nil
}

func (s *ApplicationService) notify(ctx context.Context, app *application.Application, typ notification.NotificationType, title, body string) {
	if s.notifier == nil {
		return
	}
	_, err := s.notifier.CreateNotification(ctx, &notification.CreateNotificationRequest{
		UserID: app.UserID,
		Type:   typ,
		Title:  title,
		Body:   body,
		Data:   map[string]any{"application_id": app.ID, "internship_id": app.InternshipID},
	})
	if err != nil {
		log.Warn().Err(err).Str("application_id", app.ID).Msg("Failed to create application notification")
	}
}
