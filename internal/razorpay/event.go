package razorpay

import (
	"encoding/json"
	"fmt"
)

// EventKind is the closed set of webhook events the service acts on.
type EventKind int

const (
	EventUnknown EventKind = iota
	EventPaymentCaptured
	EventPaymentFailed
	EventOrderPaid
)

var eventNames = map[string]EventKind{
	"payment.captured": EventPaymentCaptured,
	"payment.failed":   EventPaymentFailed,
	"order.paid":       EventOrderPaid,
}

// ParseEventKind maps a Razorpay event name to its kind. Anything else is
// EventUnknown.
func ParseEventKind(name string) EventKind {
	if k, ok := eventNames[name]; ok {
		return k
	}
	return EventUnknown
}

func (k EventKind) String() string {
	for name, kind := range eventNames {
		if kind == k {
			return name
		}
	}
	return "unknown"
}

// PaymentEntity is the payment object inside a webhook payload. Notes is
// kept raw: the gateway sends [] when empty and values of any JSON type.
type PaymentEntity struct {
	ID               string          `json:"id"`
	OrderID          string          `json:"order_id"`
	Amount           int64           `json:"amount"`
	Currency         string          `json:"currency"`
	Status           string          `json:"status"`
	Method           string          `json:"method"`
	Contact          string          `json:"contact"`
	Email            string          `json:"email"`
	ErrorCode        string          `json:"error_code"`
	ErrorDescription string          `json:"error_description"`
	ErrorReason      string          `json:"error_reason"`
	Notes            json.RawMessage `json:"notes,omitempty"`
}

type OrderEntity struct {
	ID       string `json:"id"`
	Amount   int64  `json:"amount"`
	Currency string `json:"currency"`
	Status   string `json:"status"`
	Receipt  string `json:"receipt"`
}

type WebhookEvent struct {
	Event   string `json:"event"`
	Payload struct {
		Payment *struct {
			Entity PaymentEntity `json:"entity"`
		} `json:"payment,omitempty"`
		Order *struct {
			Entity OrderEntity `json:"entity"`
		} `json:"order,omitempty"`
	} `json:"payload"`
	CreatedAt int64 `json:"created_at"`

	Kind EventKind `json:"-"`
}

// ParseWebhookEvent decodes a webhook body and checks that the entity the
// event kind needs is present.
func ParseWebhookEvent(body []byte) (*WebhookEvent, error) {
	var ev WebhookEvent
	if err := json.Unmarshal(body, &ev); err != nil {
		return nil, fmt.Errorf("invalid webhook body: %w", err)
	}
	if ev.Event == "" {
		return nil, fmt.Errorf("webhook body has no event")
	}

	ev.Kind = ParseEventKind(ev.Event)

	switch ev.Kind {
	case EventPaymentCaptured, EventPaymentFailed:
		if ev.PaymentEntity() == nil || ev.PaymentEntity().OrderID == "" {
			return nil, fmt.Errorf("%s event has no payment order id", ev.Event)
		}
	case EventOrderPaid:
		if ev.OrderID() == "" {
			return nil, fmt.Errorf("%s event has no order id", ev.Event)
		}
	}

	return &ev, nil
}

func (e *WebhookEvent) PaymentEntity() *PaymentEntity {
	if e.Payload.Payment == nil {
		return nil
	}
	return &e.Payload.Payment.Entity
}

// OrderID resolves the order the event refers to, preferring the order
// entity over the payment entity.
func (e *WebhookEvent) OrderID() string {
	if e.Payload.Order != nil && e.Payload.Order.Entity.ID != "" {
		return e.Payload.Order.Entity.ID
	}
	if p := e.PaymentEntity(); p != nil {
		return p.OrderID
	}
	return ""
}
