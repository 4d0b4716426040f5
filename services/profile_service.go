package services

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog/log"

	"internHubAPI/internal/apperr"
	"internHubAPI/internal/types/premium"
	"internHubAPI/internal/types/user"
	"internHubAPI/internal/validation"
)

const resumeUploadTTL = 15 * time.Minute

// ResumeStorage hands out direct-upload URLs for resume files.
type ResumeStorage interface {
	PresignUpload(ctx context.Context, key, contentType string, ttl time.Duration) (string, error)
}

type ProfileService struct {
	profiles ProfileStore
	resumes  ResumeStorage
	now      func() time.Time
}

func NewProfileService(profiles ProfileStore) *ProfileService {
	return &ProfileService{profiles: profiles, now: time.Now}
}

// SetResumeStorage enables resume uploads. Without it the upload endpoint
// reports the feature as unavailable.
func (s *ProfileService) SetResumeStorage(r ResumeStorage) {
	s.resumes = r
}

func (s *ProfileService) GetProfile(ctx context.Context, clerkID string) (*user.Profile, error) {
	p, err := s.profiles.GetProfileByClerkID(ctx, clerkID)
	if err != nil {
		return nil, err
	}
	p.PremiumActive = p.Entitlement.IsActive(s.now())
	return p, nil
}

func (s *ProfileService) UpdateProfile(ctx context.Context, clerkID string, req *user.UpdateProfileRequest) (*user.Profile, error) {
	if err := validation.Struct(req); err != nil {
		return nil, err
	}

	p, err := s.profiles.UpdateProfile(ctx, clerkID, req)
	if err != nil {
		return nil, err
	}
	p.PremiumActive = p.Entitlement.IsActive(s.now())
	return p, nil
}

// SyncFromClerk creates or refreshes the profile behind a Clerk user.
func (s *ProfileService) SyncFromClerk(ctx context.Context, req *user.UpsertProfileRequest) (*user.Profile, error) {
	if err := validation.Struct(req); err != nil {
		return nil, err
	}

	p, err := s.profiles.UpsertProfile(ctx, req)
	if err != nil {
		return nil, err
	}

	log.Info().Str("clerk_id", req.ClerkID).Str("user_id", p.ID).Msg("Profile synced from Clerk")
	return p, nil
}

func (s *ProfileService) DeleteProfile(ctx context.Context, clerkID string) error {
	if clerkID == "" {
		return apperr.Validation("clerk id is required")
	}
	if err := s.profiles.DeleteProfileByClerkID(ctx, clerkID); err != nil {
		return err
	}

	log.Info().Str("clerk_id", clerkID).Msg("Profile deleted")
	return nil
}

// GetPremiumStatus reports the stored entitlement and whether it is active
// right now. An expired entitlement keeps is_premium set but is not active.
func (s *ProfileService) GetPremiumStatus(ctx context.Context, clerkID string) (*premium.StatusResponse, error) {
	p, err := s.profiles.GetProfileByClerkID(ctx, clerkID)
	if err != nil {
		return nil, err
	}

	return &premium.StatusResponse{
		IsPremium: p.IsPremium,
		ExpiresAt: p.ExpiresAt,
		Active:    p.Entitlement.IsActive(s.now()),
	}, nil
}

func (s *ProfileService) CreateResumeUploadURL(ctx context.Context, clerkID string) (*user.ResumeUploadResponse, error) {
	if s.resumes == nil {
		return nil, apperr.Internal(fmt.Errorf("resume storage not configured"), "resume uploads are unavailable")
	}

	p, err := s.profiles.GetProfileByClerkID(ctx, clerkID)
	if err != nil {
		return nil, err
	}

	key := fmt.Sprintf("resumes/%s/%s.pdf", p.ID, uuid.NewString())
	url, err := s.resumes.PresignUpload(ctx, key, "application/pdf", resumeUploadTTL)
	if err != nil {
		return nil, apperr.Internal(err, "failed to create upload url")
	}

	if err := s.profiles.SetResumeKey(ctx, p.ID, key); err != nil {
		return nil, err
	}

	return &user.ResumeUploadResponse{
		UploadURL: url,
		ResumeKey: key,
		ExpiresAt: s.now().Add(resumeUploadTTL),
	}, nil
}
