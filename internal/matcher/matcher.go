// Package matcher filters internship postings against a search filter and
// ranks the survivors with an additive relevance score.
//
// Hard constraints exclude a posting outright. Soft scoring only runs on
// postings that pass every constraint:
//
//	location match   +30
//	skills matched   +40 × (matched requested skills / requested skills)
//	role match       +20
//	stipend minimum  +10
package matcher

import (
	"fmt"
	"math"
	"sort"
	"strings"

	"internHubAPI/internal/types/internship"
)

const (
	locationWeight = 30
	skillsWeight   = 40
	roleWeight     = 20
	stipendWeight  = 10

	remoteLocation = "remote"
)

// Filter is a normalized search filter. Empty strings and nil bounds mean
// the constraint is not applied.
type Filter struct {
	Location   string
	Skills     []string
	Role       string
	MinStipend *int
	MaxStipend *int
	RemoteOnly bool
}

// NewFilter normalizes a search request: trims text, drops blank skills and
// turns remoteAllowed=true into a remote-only constraint.
func NewFilter(req internship.SearchRequest) Filter {
	f := Filter{
		Location:   strings.TrimSpace(req.Location),
		Role:       strings.TrimSpace(req.Role),
		MinStipend: req.MinStipend,
		MaxStipend: req.MaxStipend,
		RemoteOnly: req.RemoteAllowed != nil && *req.RemoteAllowed,
	}
	for _, s := range req.Skills {
		if s = strings.TrimSpace(s); s != "" {
			f.Skills = append(f.Skills, s)
		}
	}
	return f
}

// Match returns every posting that satisfies the hard constraints of f,
// scored and sorted by score descending. Equal scores keep the input order.
func Match(postings []internship.Posting, f Filter) []internship.MatchResult {
	results := make([]internship.MatchResult, 0)

	for _, p := range postings {
		if !satisfies(&p, f) {
			continue
		}
		score, reasons := scorePosting(&p, f)
		results = append(results, internship.MatchResult{
			Internship: p,
			Score:      score,
			Reasons:    reasons,
		})
	}

	sort.SliceStable(results, func(i, j int) bool {
		return results[i].Score > results[j].Score
	})

	return results
}

func satisfies(p *internship.Posting, f Filter) bool {
	if !p.IsActive {
		return false
	}
	if f.Location != "" && !locationMatches(p, f.Location) {
		return false
	}
	if f.RemoteOnly && !p.RemoteAllowed {
		return false
	}
	if f.Role != "" && !containsFold(p.Title, f.Role) {
		return false
	}
	if f.MinStipend != nil && p.StipendMin < *f.MinStipend {
		return false
	}
	if f.MaxStipend != nil && p.StipendMax > *f.MaxStipend {
		return false
	}
	if len(f.Skills) > 0 && len(matchedSkills(p.RequiredSkills, f.Skills)) == 0 {
		return false
	}
	return true
}

func locationMatches(p *internship.Posting, location string) bool {
	if strings.EqualFold(location, remoteLocation) {
		return p.RemoteAllowed
	}
	return containsFold(p.Location, location) || p.RemoteAllowed
}

func scorePosting(p *internship.Posting, f Filter) (float64, []string) {
	var score float64
	reasons := make([]string, 0, 4)

	if f.Location != "" && locationMatches(p, f.Location) {
		score += locationWeight
		if strings.EqualFold(f.Location, remoteLocation) || !containsFold(p.Location, f.Location) {
			reasons = append(reasons, "Remote work allowed")
		} else {
			reasons = append(reasons, fmt.Sprintf("Located in %s", p.Location))
		}
	}

	if len(f.Skills) > 0 {
		matched := matchedSkills(p.RequiredSkills, f.Skills)
		if len(matched) > 0 {
			score += float64(len(matched)) / float64(len(f.Skills)) * skillsWeight
			reasons = append(reasons, fmt.Sprintf("Matches %d of %d skills: %s",
				len(matched), len(f.Skills), strings.Join(matched, ", ")))
		}
	}

	if f.Role != "" && containsFold(p.Title, f.Role) {
		score += roleWeight
		reasons = append(reasons, fmt.Sprintf("Role matches %q", f.Role))
	}

	if f.MinStipend != nil && p.StipendMin >= *f.MinStipend {
		score += stipendWeight
		reasons = append(reasons, fmt.Sprintf("Stipend from %d meets minimum of %d", p.StipendMin, *f.MinStipend))
	}

	return math.Round(score*100) / 100, reasons
}

// matchedSkills returns the requested skills that match at least one
// required skill, as a case-insensitive substring in either direction.
func matchedSkills(required, requested []string) []string {
	var matched []string
	for _, want := range requested {
		for _, have := range required {
			if strings.TrimSpace(have) == "" {
				continue
			}
			if containsFold(have, want) || containsFold(want, have) {
				matched = append(matched, want)
				break
			}
		}
	}
	return matched
}

func containsFold(s, substr string) bool {
	return strings.Contains(strings.ToLower(s), strings.ToLower(substr))
}
