package premium

import (
	"time"
)

// Entitlement is the premium flag and its expiry on a profile. It is never
// swept: once ExpiresAt passes the entitlement simply stops being active.
type Entitlement struct {
	IsPremium bool       `json:"is_premium" db:"is_premium"`
	ExpiresAt *time.Time `json:"premium_expires_at,omitempty" db:"premium_expires_at"`
}

// IsActive reports whether the entitlement grants premium access at now.
func (e Entitlement) IsActive(now time.Time) bool {
	return e.IsPremium && e.ExpiresAt != nil && e.ExpiresAt.After(now)
}

// MonthlyExpiry is one calendar month after now. Go normalizes overflowing
// days, so Jan 31 becomes Mar 3 (or Mar 2 in leap years).
func MonthlyExpiry(now time.Time) time.Time {
	return now.AddDate(0, 1, 0)
}

type StatusResponse struct {
	IsPremium bool       `json:"is_premium"`
	ExpiresAt *time.Time `json:"premium_expires_at,omitempty"`
	Active    bool       `json:"active"`
}
