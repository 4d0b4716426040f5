package store

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"internHubAPI/internal/apperr"
	"internHubAPI/internal/types/user"
)

type ProfileRepository struct {
	db *pgxpool.Pool
}

func NewProfileRepository(db *pgxpool.Pool) *ProfileRepository {
	return &ProfileRepository{db: db}
}

const profileColumns = `
	id, clerk_id, email, full_name, phone, location, skills, resume_key,
	is_premium, premium_expires_at, created_at, updated_at`

func scanProfile(row pgx.Row) (*user.Profile, error) {
	p := &user.Profile{}
	err := row.Scan(
		&p.ID,
		&p.ClerkID,
		&p.Email,
		&p.FullName,
		&p.Phone,
		&p.Location,
		&p.Skills,
		&p.ResumeKey,
		&p.IsPremium,
		&p.ExpiresAt,
		&p.CreatedAt,
		&p.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	if p.Skills == nil {
		p.Skills = []string{}
	}
	return p, nil
}

func (r *ProfileRepository) GetProfileByClerkID(ctx context.Context, clerkID string) (*user.Profile, error) {
	query := `SELECT` + profileColumns + `
	FROM users
	WHERE clerk_id = $1
	`

	p, err := scanProfile(r.db.QueryRow(ctx, query, clerkID))
	if err != nil {
		return nil, queryError(err, "user not found", "failed to get user")
	}
	return p, nil
}

func (r *ProfileRepository) GetProfileByID(ctx context.Context, id string) (*user.Profile, error) {
	query := `SELECT` + profileColumns + `
	FROM users
	WHERE id = $1
	`

	p, err := scanProfile(r.db.QueryRow(ctx, query, id))
	if err != nil {
		return nil, queryError(err, "user not found", "failed to get user")
	}
	return p, nil
}

func (r *ProfileRepository) UpsertProfile(ctx context.Context, req *user.UpsertProfileRequest) (*user.Profile, error) {
	now := time.Now()
	query := `
	INSERT INTO users (id, clerk_id, email, full_name, created_at, updated_at)
	VALUES ($1, $2, $3, $4, $5, $5)
	ON CONFLICT (clerk_id) DO UPDATE
	SET email = EXCLUDED.email,
		full_name = EXCLUDED.full_name,
		updated_at = EXCLUDED.updated_at
	RETURNING` + profileColumns

	p, err := scanProfile(r.db.QueryRow(ctx, query, uuid.NewString(), req.ClerkID, req.Email, req.FullName, now))
	if err != nil {
		if isUniqueViolation(err) {
			return nil, apperr.Conflict("email already in use")
		}
		return nil, apperr.Store(err, "failed to upsert user")
	}
	return p, nil
}

// UpdateProfile applies the non-nil fields of req.
func (r *ProfileRepository) UpdateProfile(ctx context.Context, clerkID string, req *user.UpdateProfileRequest) (*user.Profile, error) {
	query := `
	UPDATE users
	SET full_name = COALESCE($2, full_name),
		phone = COALESCE($3, phone),
		location = COALESCE($4, location),
		skills = COALESCE($5, skills),
		updated_at = NOW()
	WHERE clerk_id = $1
	RETURNING` + profileColumns

	p, err := scanProfile(r.db.QueryRow(ctx, query, clerkID, req.FullName, req.Phone, req.Location, req.Skills))
	if err != nil {
		return nil, queryError(err, "user not found", "failed to update user")
	}
	return p, nil
}

func (r *ProfileRepository) DeleteProfileByClerkID(ctx context.Context, clerkID string) error {
	tag, err := r.db.Exec(ctx, `DELETE FROM users WHERE clerk_id = $1`, clerkID)
	if err != nil {
		return apperr.Store(err, "failed to delete user")
	}
	if tag.RowsAffected() == 0 {
		return apperr.NotFound("user not found")
	}
	return nil
}

func (r *ProfileRepository) SetResumeKey(ctx context.Context, profileID, key string) error {
	tag, err := r.db.Exec(ctx, `UPDATE users SET resume_key = $2, updated_at = NOW() WHERE id = $1`, profileID, key)
	if err != nil {
		return apperr.Store(err, "failed to save resume")
	}
	if tag.RowsAffected() == 0 {
		return apperr.NotFound("user not found")
	}
	return nil
}

// SetPremium overwrites the premium window.
func (r *ProfileRepository) SetPremium(ctx context.Context, userID string, expiresAt time.Time) error {
	tag, err := r.db.Exec(ctx, `
	UPDATE users
	SET is_premium = true, premium_expires_at = $2, updated_at = NOW()
	WHERE id = $1
	`, userID, expiresAt)
	if err != nil {
		return apperr.Store(err, "failed to update premium")
	}
	if tag.RowsAffected() == 0 {
		return apperr.NotFound("user not found")
	}
	return nil
}

func (r *ProfileRepository) ListPremiumExpiringBetween(ctx context.Context, from, to time.Time) ([]user.Profile, error) {
	query := `SELECT` + profileColumns + `
	FROM users
	WHERE is_premium = true
		AND premium_expires_at >= $1
		AND premium_expires_at < $2
	ORDER BY premium_expires_at
	`

	rows, err := r.db.Query(ctx, query, from, to)
	if err != nil {
		return nil, apperr.Store(err, "failed to list expiring premium users")
	}
	defer rows.Close()

	profiles := make([]user.Profile, 0)
	for rows.Next() {
		p, err := scanProfile(rows)
		if err != nil {
			return nil, apperr.Store(err, "failed to scan user")
		}
		profiles = append(profiles, *p)
	}
	if err := rows.Err(); err != nil {
		return nil, apperr.Store(err, "failed to list expiring premium users")
	}
	return profiles, nil
}
