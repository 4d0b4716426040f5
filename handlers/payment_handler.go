package handlers

import (
	"context"
	"errors"
	"io"
	"net/http"

	"github.com/rs/zerolog/log"

	"internHubAPI/internal/apperr"
	"internHubAPI/internal/types/payment"
	"internHubAPI/middleware"
	"internHubAPI/services"
)

const maxWebhookBodyBytes = int64(65536)

type paymentService interface {
	CreateOrder(ctx context.Context, clerkID string, req *payment.CreateOrderRequest) (*payment.CreateOrderResponse, error)
	VerifyPayment(ctx context.Context, clerkID string, req *payment.VerifyRequest) (*payment.Record, error)
	ListPayments(ctx context.Context, clerkID string) ([]payment.Record, error)
	HandleWebhook(ctx context.Context, body []byte, signature, eventID string) (*services.WebhookResult, error)
}

type PaymentHandler struct {
	paymentService paymentService
}

func NewPaymentHandler(paymentService paymentService) *PaymentHandler {
	return &PaymentHandler{
		paymentService: paymentService,
	}
}

// POST /api/v1/payments/orders
func (h *PaymentHandler) CreateOrder(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), handlerTimeout)
	defer cancel()

	clerkID, ok := middleware.GetClerkID(ctx)
	if !ok {
		respondUnauthenticated(w)
		return
	}

	var req payment.CreateOrderRequest
	if err := decodeAndValidate(w, r, &req); err != nil {
		respondWithAppError(w, err)
		return
	}

	order, err := h.paymentService.CreateOrder(ctx, clerkID, &req)
	if err != nil {
		respondWithAppError(w, err)
		return
	}

	respondWithJSON(w, http.StatusCreated, order)
}

// POST /api/v1/payments/verify
func (h *PaymentHandler) VerifyPayment(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), handlerTimeout)
	defer cancel()

	clerkID, ok := middleware.GetClerkID(ctx)
	if !ok {
		respondUnauthenticated(w)
		return
	}

	var req payment.VerifyRequest
	if err := decodeAndValidate(w, r, &req); err != nil {
		respondVerifyError(w, err)
		return
	}

	rec, err := h.paymentService.VerifyPayment(ctx, clerkID, &req)
	if err != nil {
		respondVerifyError(w, err)
		return
	}

	respondWithJSON(w, http.StatusOK, payment.VerifyResponse{
		Success:  true,
		Verified: true,
		Payment:  rec,
	})
}

func respondVerifyError(w http.ResponseWriter, err error) {
	kind := apperr.KindOf(err)
	status := apperr.HTTPStatus(kind)
	if status >= http.StatusInternalServerError {
		log.Error().Err(err).Msg("Payment verification failed")
	}
	respondWithJSON(w, status, payment.VerifyResponse{
		Success:  false,
		Verified: false,
		Error:    apperr.MessageOf(err),
		Kind:     string(kind),
	})
}

// GET /api/v1/payments
func (h *PaymentHandler) ListPayments(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), handlerTimeout)
	defer cancel()

	clerkID, ok := middleware.GetClerkID(ctx)
	if !ok {
		respondUnauthenticated(w)
		return
	}

	records, err := h.paymentService.ListPayments(ctx, clerkID)
	if err != nil {
		respondWithAppError(w, err)
		return
	}
	if records == nil {
		records = []payment.Record{}
	}

	respondWithJSON(w, http.StatusOK, map[string]interface{}{"payments": records})
}

// POST /webhooks/razorpay
func (h *PaymentHandler) HandleRazorpayWebhook(w http.ResponseWriter, r *http.Request) {
	r.Body = http.MaxBytesReader(w, r.Body, maxWebhookBodyBytes)

	body, err := io.ReadAll(r.Body)
	if err != nil {
		var maxErr *http.MaxBytesError
		status := http.StatusBadRequest
		if errors.As(err, &maxErr) {
			status = http.StatusRequestEntityTooLarge
		}
		log.Warn().Err(err).Msg("Error reading Razorpay webhook body")
		middleware.ObserveWebhookEvent("unknown", "unreadable")
		respondWithJSON(w, status, payment.WebhookResponse{
			Error: "Error reading body",
			Kind:  string(apperr.KindValidation),
		})
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), handlerTimeout)
	defer cancel()

	result, err := h.paymentService.HandleWebhook(ctx, body,
		r.Header.Get("X-Razorpay-Signature"),
		r.Header.Get("X-Razorpay-Event-Id"),
	)

	event := "unknown"
	if result != nil && result.Event != "" {
		event = result.Event
	}

	if err != nil {
		kind := apperr.KindOf(err)
		middleware.ObserveWebhookEvent(event, string(kind))
		respondWithJSON(w, apperr.HTTPStatus(kind), payment.WebhookResponse{
			Success: false,
			Error:   apperr.MessageOf(err),
			Kind:    string(kind),
		})
		return
	}

	outcome := "processed"
	if result.Duplicate {
		outcome = "duplicate"
	}
	middleware.ObserveWebhookEvent(event, outcome)

	respondWithJSON(w, http.StatusOK, payment.WebhookResponse{
		Success: true,
		Message: result.Message,
	})
}
