package store

import (
	"context"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"internHubAPI/internal/apperr"
	"internHubAPI/internal/types/application"
	"internHubAPI/internal/types/calendar"
)

type ApplicationRepository struct {
	db *pgxpool.Pool
}

func NewApplicationRepository(db *pgxpool.Pool) *ApplicationRepository {
	return &ApplicationRepository{db: db}
}

const applicationSelect = `
	SELECT a.id, a.user_id, a.internship_id, a.cover_letter, a.resume_key, a.status,
		a.created_at, a.updated_at, i.title, i.company_name, i.deadline
	FROM applications a
	JOIN internships i ON i.id = a.internship_id`

func scanApplication(row pgx.Row) (*application.Application, error) {
	a := &application.Application{}
	err := row.Scan(
		&a.ID,
		&a.UserID,
		&a.InternshipID,
		&a.CoverLetter,
		&a.ResumeKey,
		&a.Status,
		&a.CreatedAt,
		&a.UpdatedAt,
		&a.InternshipTitle,
		&a.CompanyName,
		&a.Deadline,
	)
	if err != nil {
		return nil, err
	}
	return a, nil
}

func (r *ApplicationRepository) CreateApplication(ctx context.Context, app *application.Application) error {
	_, err := r.db.Exec(ctx, `
	INSERT INTO applications (id, user_id, internship_id, cover_letter, resume_key, status, created_at, updated_at)
	VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
	`,
		app.ID,
		app.UserID,
		app.InternshipID,
		app.CoverLetter,
		app.ResumeKey,
		app.Status,
		app.CreatedAt,
		app.UpdatedAt,
	)
	if err != nil {
		if isUniqueViolation(err) {
			return apperr.Conflict("already applied to this internship")
		}
		return apperr.Store(err, "failed to create application")
	}
	return nil
}

func (r *ApplicationRepository) GetApplication(ctx context.Context, id string) (*application.Application, error) {
	a, err := scanApplication(r.db.QueryRow(ctx, applicationSelect+` WHERE a.id = $1`, id))
	if err != nil {
		return nil, queryError(err, "application not found", "failed to get application")
	}
	return a, nil
}

func (r *ApplicationRepository) ListApplicationsByUser(ctx context.Context, userID string) ([]application.Application, error) {
	rows, err := r.db.Query(ctx, applicationSelect+` WHERE a.user_id = $1 ORDER BY a.created_at DESC`, userID)
	if err != nil {
		return nil, apperr.Store(err, "failed to list applications")
	}
	defer rows.Close()

	apps := make([]application.Application, 0)
	for rows.Next() {
		a, err := scanApplication(rows)
		if err != nil {
			return nil, apperr.Store(err, "failed to scan application")
		}
		apps = append(apps, *a)
	}
	if err := rows.Err(); err != nil {
		return nil, apperr.Store(err, "failed to list applications")
	}
	return apps, nil
}

// UpdateApplicationStatus moves an application from one status to another.
// It fails with a conflict when the stored status is no longer from.
func (r *ApplicationRepository) UpdateApplicationStatus(ctx context.Context, id string, from, to application.Status) (*application.Application, error) {
	tag, err := r.db.Exec(ctx, `
	UPDATE applications
	SET status = $3, updated_at = NOW()
	WHERE id = $1 AND status = $2
	`, id, from, to)
	if err != nil {
		return nil, apperr.Store(err, "failed to update application")
	}
	if tag.RowsAffected() == 0 {
		return nil, apperr.Conflict("application status changed")
	}
	return r.GetApplication(ctx, id)
}

func (r *ApplicationRepository) ListDeadlinesBetween(ctx context.Context, userID string, from, to time.Time) ([]calendar.Deadline, error) {
	rows, err := r.db.Query(ctx, `
	SELECT i.id, i.title, i.company_name, a.status, i.deadline
	FROM applications a
	JOIN internships i ON i.id = a.internship_id
	WHERE a.user_id = $1
		AND i.deadline >= $2
		AND i.deadline < $3
	ORDER BY i.deadline
	`, userID, from, to)
	if err != nil {
		return nil, apperr.Store(err, "failed to fetch calendar")
	}
	defer rows.Close()

	deadlines := make([]calendar.Deadline, 0)
	for rows.Next() {
		var d calendar.Deadline
		if err := rows.Scan(&d.InternshipID, &d.Title, &d.CompanyName, &d.ApplicationStatus, &d.Deadline); err != nil {
			return nil, apperr.Store(err, "failed to scan row")
		}
		deadlines = append(deadlines, d)
	}
	if err := rows.Err(); err != nil {
		return nil, apperr.Store(err, "failed to fetch calendar")
	}
	return deadlines, nil
}
