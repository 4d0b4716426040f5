package internship

import "time"

type Posting struct {
	ID             string     `json:"id" db:"id"`
	Title          string     `json:"title" db:"title"`
	CompanyName    string     `json:"company_name" db:"company_name"`
	Location       string     `json:"location" db:"location"`
	RemoteAllowed  bool       `json:"remote_allowed" db:"remote_allowed"`
	StipendMin     int        `json:"stipend_min" db:"stipend_min"`
	StipendMax     int        `json:"stipend_max" db:"stipend_max"`
	RequiredSkills []string   `json:"required_skills" db:"required_skills"`
	Description    string     `json:"description" db:"description"`
	IsActive       bool       `json:"is_active" db:"is_active"`
	PostedAt       time.Time  `json:"posted_at" db:"posted_at"`
	Deadline       *time.Time `json:"deadline,omitempty" db:"deadline"`
}

// AcceptsApplications reports whether the posting is open at now.
func (p *Posting) AcceptsApplications(now time.Time) bool {
	if !p.IsActive {
		return false
	}
	return p.Deadline == nil || p.Deadline.After(now)
}

// SearchRequest is the matcher filter. Nil pointers mean "not given";
// Page and Limit default to 1 and 20.
type SearchRequest struct {
	Location      string   `json:"location,omitempty" validate:"max=100"`
	Skills        []string `json:"skills,omitempty" validate:"max=50,dive,max=60"`
	Role          string   `json:"role,omitempty" validate:"max=100"`
	MinStipend    *int     `json:"minStipend,omitempty"`
	MaxStipend    *int     `json:"maxStipend,omitempty"`
	RemoteAllowed *bool    `json:"remoteAllowed,omitempty"`
	Page          *int     `json:"page,omitempty"`
	Limit         *int     `json:"limit,omitempty"`
}

type MatchResult struct {
	Internship Posting  `json:"internship"`
	Score      float64  `json:"score"`
	Reasons    []string `json:"reasons"`
}

type SearchResponse struct {
	Internships []MatchResult `json:"internships"`
	TotalCount  int           `json:"total_count"`
	Page        int           `json:"page"`
	Limit       int           `json:"limit"`
	HasMore     bool          `json:"has_more"`
}
