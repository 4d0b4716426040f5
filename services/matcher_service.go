package services

import (
	"context"
	"fmt"

	"github.com/rs/zerolog/log"

	"internHubAPI/internal/apperr"
	"internHubAPI/internal/matcher"
	"internHubAPI/internal/types/internship"
	"internHubAPI/internal/validation"
)

const (
	defaultPage  = 1
	defaultLimit = 20
	maxLimit     = 100
)

type MatcherService struct {
	postings PostingStore
	profiles ProfileResolver
}

func NewMatcherService(postings PostingStore, profiles ProfileResolver) *MatcherService {
	return &MatcherService{postings: postings, profiles: profiles}
}

// Search filters and ranks active postings, then returns one page of
// results. Absent page and limit fall back to 1 and 20.
func (s *MatcherService) Search(ctx context.Context, req internship.SearchRequest) (*internship.SearchResponse, error) {
	page, limit, err := normalizeSearch(&req)
	if err != nil {
		return nil, err
	}

	postings, err := s.postings.ListActivePostings(ctx)
	if err != nil {
		return nil, err
	}

	ranked := matcher.Match(postings, matcher.NewFilter(req))
	window := matcher.Paginate(ranked, page, limit)

	log.Debug().
		Int("candidates", len(postings)).
		Int("matched", window.Total).
		Int("page", page).
		Msg("Internship search")

	return &internship.SearchResponse{
		Internships: window.Results,
		TotalCount:  window.Total,
		Page:        page,
		Limit:       limit,
		HasMore:     window.HasMore,
	}, nil
}

// Recommend runs a search seeded from the caller's profile skills and
// location.
func (s *MatcherService) Recommend(ctx context.Context, clerkID string, page, limit *int) (*internship.SearchResponse, error) {
	profile, err := s.profiles.GetProfileByClerkID(ctx, clerkID)
	if err != nil {
		return nil, err
	}

	return s.Search(ctx, internship.SearchRequest{
		Location: profile.Location,
		Skills:   profile.Skills,
		Page:     page,
		Limit:    limit,
	})
}

func (s *MatcherService) GetPosting(ctx context.Context, id string) (*internship.Posting, error) {
	return s.postings.GetPosting(ctx, id)
}

func normalizeSearch(req *internship.SearchRequest) (page, limit int, err error) {
	if err := validation.Struct(req); err != nil {
		return 0, 0, err
	}

	page, limit = defaultPage, defaultLimit
	if req.Page != nil {
		if *req.Page < 1 {
			return 0, 0, apperr.Validation("page must be at least 1")
		}
		page = *req.Page
	}
	if req.Limit != nil {
		if *req.Limit < 1 || *req.Limit > maxLimit {
			return 0, 0, apperr.Validation(fmt.Sprintf("limit must be between 1 and %d", maxLimit))
		}
		limit = *req.Limit
	}

	if req.MinStipend != nil && *req.MinStipend < 0 {
		return 0, 0, apperr.Validation("minStipend must not be negative")
	}
	if req.MaxStipend != nil && *req.MaxStipend < 0 {
		return 0, 0, apperr.Validation("maxStipend must not be negative")
	}
	if req.MinStipend != nil && req.MaxStipend != nil && *req.MinStipend > *req.MaxStipend {
		return 0, 0, apperr.Validation("minStipend must not exceed maxStipend")
	}

	return page, limit, nil
}
