package store

import (
	"context"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"internHubAPI/internal/apperr"
	"internHubAPI/internal/types/internship"
)

type PostingRepository struct {
	db *pgxpool.Pool
}

func NewPostingRepository(db *pgxpool.Pool) *PostingRepository {
	return &PostingRepository{db: db}
}

const postingColumns = `
	id, title, company_name, location, remote_allowed, stipend_min, stipend_max,
	required_skills, description, is_active, posted_at, deadline`

func scanPosting(row pgx.Row) (*internship.Posting, error) {
	p := &internship.Posting{}
	err := row.Scan(
		&p.ID,
		&p.Title,
		&p.CompanyName,
		&p.Location,
		&p.RemoteAllowed,
		&p.StipendMin,
		&p.StipendMax,
		&p.RequiredSkills,
		&p.Description,
		&p.IsActive,
		&p.PostedAt,
		&p.Deadline,
	)
	if err != nil {
		return nil, err
	}
	if p.RequiredSkills == nil {
		p.RequiredSkills = []string{}
	}
	return p, nil
}

func (r *PostingRepository) ListActivePostings(ctx context.Context) ([]internship.Posting, error) {
	query := `SELECT` + postingColumns + `
	FROM internships
	WHERE is_active = true
	ORDER BY posted_at, id
	`

	rows, err := r.db.Query(ctx, query)
	if err != nil {
		return nil, apperr.Store(err, "failed to list internships")
	}
	defer rows.Close()

	postings := make([]internship.Posting, 0)
	for rows.Next() {
		p, err := scanPosting(rows)
		if err != nil {
			return nil, apperr.Store(err, "failed to scan internship")
		}
		postings = append(postings, *p)
	}
	if err := rows.Err(); err != nil {
		return nil, apperr.Store(err, "failed to list internships")
	}

	return postings, nil
}

func (r *PostingRepository) GetPosting(ctx context.Context, id string) (*internship.Posting, error) {
	query := `SELECT` + postingColumns + `
	FROM internships
	WHERE id = $1
	`

	p, err := scanPosting(r.db.QueryRow(ctx, query, id))
	if err != nil {
		return nil, queryError(err, "internship not found", "failed to get internship")
	}
	return p, nil
}

// DeactivateExpired closes every active posting whose deadline is before now.
func (r *PostingRepository) DeactivateExpired(ctx context.Context, now time.Time) (int64, error) {
	tag, err := r.db.Exec(ctx, `
	UPDATE internships
	SET is_active = false
	WHERE is_active = true AND deadline IS NOT NULL AND deadline < $1
	`, now)
	if err != nil {
		return 0, apperr.Store(err, "failed to deactivate internships")
	}
	return tag.RowsAffected(), nil
}
