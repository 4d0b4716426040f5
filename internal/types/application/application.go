// Package application defines internship applications and their review
// state machine.
//
//	submitted ──► reviewing ──► accepted
//	    │             │
//	    ├─────────────┴──► rejected
//	    └─────────────┴──► withdrawn
//
// accepted, rejected and withdrawn are terminal.
package application

import (
	"fmt"
	"time"
)

type Status string

const (
	StatusSubmitted Status = "submitted"
	StatusReviewing Status = "reviewing"
	StatusAccepted  Status = "accepted"
	StatusRejected  Status = "rejected"
	StatusWithdrawn Status = "withdrawn"
)

var validTransitions = map[Status][]Status{
	StatusSubmitted: {StatusReviewing, StatusRejected, StatusWithdrawn},
	StatusReviewing: {StatusAccepted, StatusRejected, StatusWithdrawn},
}

func ParseStatus(s string) (Status, error) {
	st := Status(s)
	switch st {
	case StatusSubmitted, StatusReviewing, StatusAccepted, StatusRejected, StatusWithdrawn:
		return st, nil
	}
	return "", fmt.Errorf("unknown application status %q", s)
}

func IsTransitionAllowed(from, to Status) bool {
	for _, s := range validTransitions[from] {
		if s == to {
			return true
		}
	}
	return false
}

type Application struct {
	ID           string    `json:"id" db:"id"`
	UserID       string    `json:"user_id" db:"user_id"`
	InternshipID string    `json:"internship_id" db:"internship_id"`
	CoverLetter  string    `json:"cover_letter" db:"cover_letter"`
	ResumeKey    *string   `json:"resume_key,omitempty" db:"resume_key"`
	Status       Status    `json:"status" db:"status"`
	CreatedAt    time.Time `json:"created_at" db:"created_at"`
	UpdatedAt    time.Time `json:"updated_at" db:"updated_at"`

	// Joined from the posting for list views.
	InternshipTitle string     `json:"internship_title,omitempty" db:"title"`
	CompanyName     string     `json:"company_name,omitempty" db:"company_name"`
	Deadline        *time.Time `json:"deadline,omitempty" db:"deadline"`
}

type SubmitRequest struct {
	InternshipID string `json:"internship_id" validate:"required,uuid"`
	CoverLetter  string `json:"cover_letter" validate:"max=5000"`
}
