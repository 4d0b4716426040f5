package user

import (
	"time"

	"internHubAPI/internal/types/premium"
)

type Profile struct {
	ID        string    `json:"id" db:"id"`
	ClerkID   string    `json:"clerk_id" db:"clerk_id"`
	Email     string    `json:"email" db:"email"`
	FullName  string    `json:"full_name" db:"full_name"`
	Phone     *string   `json:"phone,omitempty" db:"phone"`
	Location  string    `json:"location" db:"location"`
	Skills    []string  `json:"skills" db:"skills"`
	ResumeKey *string   `json:"resume_key,omitempty" db:"resume_key"`
	CreatedAt time.Time `json:"created_at" db:"created_at"`
	UpdatedAt time.Time `json:"updated_at" db:"updated_at"`

	premium.Entitlement

	// PremiumActive is computed at read time; it is not stored.
	PremiumActive bool `json:"premium_active" db:"-"`
}

// UpsertProfileRequest mirrors the identity fields Clerk sends on
// user.created and user.updated.
type UpsertProfileRequest struct {
	ClerkID  string `json:"clerk_id" validate:"required"`
	Email    string `json:"email" validate:"required,email"`
	FullName string `json:"full_name" validate:"max=120"`
}

type UpdateProfileRequest struct {
	FullName *string  `json:"full_name,omitempty" validate:"omitempty,min=1,max=120"`
	Phone    *string  `json:"phone,omitempty" validate:"omitempty,e164"`
	Location *string  `json:"location,omitempty" validate:"omitempty,max=100"`
	Skills   []string `json:"skills,omitempty" validate:"omitempty,max=50,dive,min=1,max=60"`
}

type ResumeUploadResponse struct {
	UploadURL string    `json:"upload_url"`
	ResumeKey string    `json:"resume_key"`
	ExpiresAt time.Time `json:"expires_at"`
}
