package store

import (
	"context"
	"errors"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"internHubAPI/internal/apperr"
	"internHubAPI/internal/types/payment"
)

type PaymentRepository struct {
	db *pgxpool.Pool
}

func NewPaymentRepository(db *pgxpool.Pool) *PaymentRepository {
	return &PaymentRepository{db: db}
}

const paymentColumns = `
	id, user_id, razorpay_order_id, razorpay_payment_id, amount, currency, status,
	plan_type, plan_name, payment_method, customer_contact, failure_reason,
	error_code, error_description, notes, created_at, paid_at, failed_at,
	entitlement_granted_at`

func scanPayment(row pgx.Row) (*payment.Record, error) {
	rec := &payment.Record{}
	err := row.Scan(
		&rec.ID,
		&rec.UserID,
		&rec.OrderID,
		&rec.PaymentID,
		&rec.Amount,
		&rec.Currency,
		&rec.Status,
		&rec.PlanType,
		&rec.PlanName,
		&rec.PaymentMethod,
		&rec.CustomerContact,
		&rec.FailureReason,
		&rec.ErrorCode,
		&rec.ErrorDescription,
		&rec.Notes,
		&rec.CreatedAt,
		&rec.PaidAt,
		&rec.FailedAt,
		&rec.EntitlementGrantedAt,
	)
	if err != nil {
		return nil, err
	}
	if rec.Notes == nil {
		rec.Notes = map[string]string{}
	}
	return rec, nil
}

func (r *PaymentRepository) CreatePayment(ctx context.Context, rec *payment.Record) error {
	notes := rec.Notes
	if notes == nil {
		notes = map[string]string{}
	}

	_, err := r.db.Exec(ctx, `
	INSERT INTO payments (id, user_id, razorpay_order_id, amount, currency, status, plan_type, plan_name, notes, created_at)
	VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)
	`,
		rec.ID,
		rec.UserID,
		rec.OrderID,
		rec.Amount,
		rec.Currency,
		rec.Status,
		rec.PlanType,
		rec.PlanName,
		notes,
		rec.CreatedAt,
	)
	if err != nil {
		if isUniqueViolation(err) {
			return apperr.Conflict("payment order already exists")
		}
		return apperr.Store(err, "failed to create payment")
	}
	return nil
}

func (r *PaymentRepository) GetPaymentByOrderID(ctx context.Context, orderID string) (*payment.Record, error) {
	query := `SELECT` + paymentColumns + `
	FROM payments
	WHERE razorpay_order_id = $1
	`

	rec, err := scanPayment(r.db.QueryRow(ctx, query, orderID))
	if err != nil {
		return nil, queryError(err, "payment not found", "failed to get payment")
	}
	return rec, nil
}

func (r *PaymentRepository) ListPaymentsByUser(ctx context.Context, userID string) ([]payment.Record, error) {
	query := `SELECT` + paymentColumns + `
	FROM payments
	WHERE user_id = $1
	ORDER BY created_at DESC
	`

	rows, err := r.db.Query(ctx, query, userID)
	if err != nil {
		return nil, apperr.Store(err, "failed to list payments")
	}
	defer rows.Close()

	recs := make([]payment.Record, 0)
	for rows.Next() {
		rec, err := scanPayment(rows)
		if err != nil {
			return nil, apperr.Store(err, "failed to scan payment")
		}
		recs = append(recs, *rec)
	}
	if err := rows.Err(); err != nil {
		return nil, apperr.Store(err, "failed to list payments")
	}
	return recs, nil
}

// MarkPaid only updates rows still in created, so concurrent deliveries
// settle on a single transition.
func (r *PaymentRepository) MarkPaid(ctx context.Context, orderID string, upd payment.PaidUpdate) (*payment.Record, bool, error) {
	query := `
	UPDATE payments
	SET status = 'paid',
		razorpay_payment_id = COALESCE(NULLIF($2::text, ''), razorpay_payment_id),
		payment_method = COALESCE(NULLIF($3::text, ''), payment_method),
		customer_contact = COALESCE(NULLIF($4::text, ''), customer_contact),
		paid_at = $5
	WHERE razorpay_order_id = $1 AND status = 'created'
	RETURNING` + paymentColumns

	rec, err := scanPayment(r.db.QueryRow(ctx, query, orderID, upd.PaymentID, upd.PaymentMethod, upd.CustomerContact, upd.PaidAt))
	return r.settle(ctx, orderID, rec, err)
}

func (r *PaymentRepository) MarkFailed(ctx context.Context, orderID string, upd payment.FailedUpdate) (*payment.Record, bool, error) {
	query := `
	UPDATE payments
	SET status = 'failed',
		razorpay_payment_id = COALESCE(NULLIF($2::text, ''), razorpay_payment_id),
		failure_reason = NULLIF($3::text, ''),
		error_code = NULLIF($4::text, ''),
		error_description = NULLIF($5::text, ''),
		failed_at = $6
	WHERE razorpay_order_id = $1 AND status = 'created'
	RETURNING` + paymentColumns

	rec, err := scanPayment(r.db.QueryRow(ctx, query, orderID, upd.PaymentID, upd.Reason, upd.ErrorCode, upd.ErrorDescription, upd.FailedAt))
	return r.settle(ctx, orderID, rec, err)
}

// settle resolves the result of a guarded transition: no row updated means
// the record is missing or already terminal.
func (r *PaymentRepository) settle(ctx context.Context, orderID string, rec *payment.Record, err error) (*payment.Record, bool, error) {
	if err == nil {
		return rec, true, nil
	}
	if !errors.Is(err, pgx.ErrNoRows) {
		return nil, false, apperr.Store(err, "failed to update payment")
	}

	current, err := r.GetPaymentByOrderID(ctx, orderID)
	if err != nil {
		return nil, false, err
	}
	return current, false, nil
}

func (r *PaymentRepository) ClaimEntitlement(ctx context.Context, orderID string, at time.Time) (bool, error) {
	tag, err := r.db.Exec(ctx, `
	UPDATE payments
	SET entitlement_granted_at = $2
	WHERE razorpay_order_id = $1
		AND status = 'paid'
		AND plan_type = 'subscription'
		AND entitlement_granted_at IS NULL
	`, orderID, at)
	if err != nil {
		return false, apperr.Store(err, "failed to claim entitlement")
	}
	return tag.RowsAffected() == 1, nil
}

// ReleaseEntitlement undoes a claim stamped with the given time. A claim stamped by
// another caller is left alone.
func (r *PaymentRepository) ReleaseEntitlement(ctx context.Context, orderID string, at time.Time) error {
	_, err := r.db.Exec(ctx, `
	UPDATE payments
	SET entitlement_granted_at = NULL
	WHERE razorpay_order_id = $1
		AND entitlement_granted_at = $2
	`, orderID, at)
	if err != nil {
		return apperr.Store(err, "failed to release entitlement")
	}
	return nil
}
