// Package payment holds the payment record, its status state machine and
// the request/response shapes of the payment endpoints.
//
// Status graph:
//
//	created ──► paid
//	   │
//	   └──────► failed
//
// paid and failed are terminal.
package payment

import (
	"fmt"
	"time"
)

type Status string

const (
	StatusCreated Status = "created"
	StatusPaid    Status = "paid"
	StatusFailed  Status = "failed"
)

var validTransitions = map[Status][]Status{
	StatusCreated: {StatusPaid, StatusFailed},
}

func ParseStatus(s string) (Status, error) {
	st := Status(s)
	switch st {
	case StatusCreated, StatusPaid, StatusFailed:
		return st, nil
	}
	return "", fmt.Errorf("unknown payment status %q", s)
}

// CanTransition reports whether a record in from may move to to.
func CanTransition(from, to Status) bool {
	for _, s := range validTransitions[from] {
		if s == to {
			return true
		}
	}
	return false
}

func (s Status) IsTerminal() bool {
	return s == StatusPaid || s == StatusFailed
}

type PlanType string

const (
	PlanOneTime      PlanType = "one_time"
	PlanSubscription PlanType = "subscription"
)

type Record struct {
	ID                   string            `json:"id" db:"id"`
	UserID               string            `json:"user_id" db:"user_id"`
	OrderID              string            `json:"razorpay_order_id" db:"razorpay_order_id"`
	PaymentID            *string           `json:"razorpay_payment_id" db:"razorpay_payment_id"`
	Amount               int64             `json:"amount" db:"amount"`
	Currency             string            `json:"currency" db:"currency"`
	Status               Status            `json:"status" db:"status"`
	PlanType             PlanType          `json:"plan_type" db:"plan_type"`
	PlanName             string            `json:"plan_name" db:"plan_name"`
	PaymentMethod        *string           `json:"payment_method,omitempty" db:"payment_method"`
	CustomerContact      *string           `json:"customer_contact,omitempty" db:"customer_contact"`
	FailureReason        *string           `json:"failure_reason,omitempty" db:"failure_reason"`
	ErrorCode            *string           `json:"error_code,omitempty" db:"error_code"`
	ErrorDescription     *string           `json:"error_description,omitempty" db:"error_description"`
	Notes                map[string]string `json:"notes" db:"notes"`
	CreatedAt            time.Time         `json:"created_at" db:"created_at"`
	PaidAt               *time.Time        `json:"paid_at,omitempty" db:"paid_at"`
	FailedAt             *time.Time        `json:"failed_at,omitempty" db:"failed_at"`
	EntitlementGrantedAt *time.Time        `json:"entitlement_granted_at,omitempty" db:"entitlement_granted_at"`
}

// PaidUpdate is applied on the created → paid transition. Empty optional
// fields leave the stored value untouched.
type PaidUpdate struct {
	PaymentID       string
	PaymentMethod   string
	CustomerContact string
	PaidAt          time.Time
}

// FailedUpdate is applied on the created → failed transition.
type FailedUpdate struct {
	PaymentID        string
	Reason           string
	ErrorCode        string
	ErrorDescription string
	FailedAt         time.Time
}

// VerifyRequest is the client-initiated payment confirmation.
type VerifyRequest struct {
	PaymentID       string `json:"razorpay_payment_id" validate:"required,max=64"`
	OrderID         string `json:"razorpay_order_id" validate:"required,max=64"`
	Signature       string `json:"razorpay_signature" validate:"required,max=128"`
	Amount          *int64 `json:"amount,omitempty" validate:"omitempty,gt=0"`
	PaymentMethod   string `json:"payment_method,omitempty" validate:"max=32"`
	CustomerContact string `json:"customer_contact,omitempty" validate:"max=32"`
}

type VerifyResponse struct {
	Success  bool    `json:"success"`
	Verified bool    `json:"verified"`
	Payment  *Record `json:"payment,omitempty"`
	Error    string  `json:"error,omitempty"`
	Kind     string  `json:"kind,omitempty"`
}

type CreateOrderRequest struct {
	PlanName string `json:"plan_name" validate:"required,max=64"`
}

type CreateOrderResponse struct {
	OrderID  string  `json:"order_id"`
	Amount   int64   `json:"amount"`
	Currency string  `json:"currency"`
	KeyID    string  `json:"key_id"`
	Payment  *Record `json:"payment"`
}

type WebhookResponse struct {
	Success bool   `json:"success"`
	Message string `json:"message,omitempty"`
	Error   string `json:"error,omitempty"`
	Kind    string `json:"kind,omitempty"`
}

// Event is published on the payment event channel after a transition.
type Event struct {
	OrderID string    `json:"order_id"`
	UserID  string    `json:"user_id"`
	Status  Status    `json:"status"`
	At      time.Time `json:"at"`
}
