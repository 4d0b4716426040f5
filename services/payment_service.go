package services

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	"internHubAPI/internal/apperr"
	"internHubAPI/internal/razorpay"
	"internHubAPI/internal/types/notification"
	"internHubAPI/internal/types/payment"
	"internHubAPI/internal/types/premium"
	"internHubAPI/internal/validation"
)

type PaymentService struct {
	payments      PaymentStore
	profiles      ProfileResolver
	entitlements  EntitlementStore
	orders        OrderCreator
	keySecret     string
	webhookSecret string

	deduper   WebhookDeduper
	publisher PaymentEventPublisher
	notifier  NotificationCreator

	now func() time.Time
}

func NewPaymentService(
	payments PaymentStore,
	profiles ProfileStore,
	orders OrderCreator,
	keySecret string,
	webhookSecret string,
) *PaymentService {
	return &PaymentService{
		payments:      payments,
		profiles:      profiles,
		entitlements:  profiles,
		orders:        orders,
		keySecret:     keySecret,
		webhookSecret: webhookSecret,
		now:           time.Now,
	}
}

func (s *PaymentService) SetWebhookDeduper(d WebhookDeduper) {
	s.deduper = d
}

func (s *PaymentService) SetEventPublisher(p PaymentEventPublisher) {
	s.publisher = p
}

func (s *PaymentService) SetNotifier(n NotificationCreator) {
	s.notifier = n
}

func (s *PaymentService) CreateOrder(ctx context.Context, clerkID string, req *payment.CreateOrderRequest) (*payment.CreateOrderResponse, error) {
	if err := validation.Struct(req); err != nil {
		return nil, err
	}

	plan, ok := payment.LookupPlan(req.PlanName)
	if !ok {
		return nil, apperr.Validation("unknown plan " + req.PlanName)
	}

	profile, err := s.profiles.GetProfileByClerkID(ctx, clerkID)
	if err != nil {
		return nil, err
	}

	receipt := uuid.NewString()
	order, err := s.orders.CreateOrder(ctx, plan.Amount, plan.Currency, receipt, map[string]string{
		"user_id":   profile.ID,
		"plan_name": plan.Name,
	})
	if err != nil {
		return nil, apperr.Internal(err, "failed to create payment order")
	}

	rec := &payment.Record{
		ID:        uuid.NewString(),
		UserID:    profile.ID,
		OrderID:   order.ID,
		Amount:    plan.Amount,
		Currency:  plan.Currency,
		Status:    payment.StatusCreated,
		PlanType:  plan.Type,
		PlanName:  plan.Name,
		Notes:     map[string]string{"receipt": receipt},
		CreatedAt: s.now(),
	}
	if err := s.payments.CreatePayment(ctx, rec); err != nil {
		return nil, err
	}

	log.Info().
		Str("order_id", order.ID).
		Str("user_id", profile.ID).
		Str("plan", plan.Name).
		Msg("Payment order created")

	return &payment.CreateOrderResponse{
		OrderID:  order.ID,
		Amount:   plan.Amount,
		Currency: plan.Currency,
		KeyID:    s.orders.KeyID(),
		Payment:  rec,
	}, nil
}

func (s *PaymentService) ListPayments(ctx context.Context, clerkID string) ([]payment.Record, error) {
	profile, err := s.profiles.GetProfileByClerkID(ctx, clerkID)
	if err != nil {
		return nil, err
	}
	return s.payments.ListPaymentsByUser(ctx, profile.ID)
}

// VerifyPayment handles the client-side confirmation sent after checkout.
// A bad signature fails a created record; a terminal record never changes.
func (s *PaymentService) VerifyPayment(ctx context.Context, clerkID string, req *payment.VerifyRequest) (*payment.Record, error) {
	if err := validation.Struct(req); err != nil {
		return nil, err
	}

	profile, err := s.profiles.GetProfileByClerkID(ctx, clerkID)
	if err != nil {
		return nil, err
	}

	rec, err := s.payments.GetPaymentByOrderID(ctx, req.OrderID)
	if err != nil {
		return nil, err
	}
	if rec.UserID != profile.ID {
		return nil, apperr.NotFound("payment not found")
	}

	logger := log.With().Str("order_id", req.OrderID).Str("payment_id", req.PaymentID).Logger()

	if req.Amount != nil && *req.Amount != rec.Amount {
		logger.Warn().Int64("reported", *req.Amount).Int64("stored", rec.Amount).Msg("Reported amount differs from order amount")
	}

	if !razorpay.VerifyPaymentSignature(s.keySecret, req.OrderID, req.PaymentID, req.Signature) {
		if rec.Status.IsTerminal() {
			logger.Warn().Str("status", string(rec.Status)).Msg("Signature mismatch on terminal payment, status unchanged")
			return nil, apperr.SignatureMismatch("payment signature verification failed")
		}

		failed, transitioned, err := s.payments.MarkFailed(ctx, req.OrderID, payment.FailedUpdate{
			PaymentID: req.PaymentID,
			Reason:    "signature verification failed",
			FailedAt:  s.now(),
		})
		if err != nil {
			return nil, err
		}
		if transitioned {
			logger.Warn().Msg("Signature mismatch, payment marked failed")
			s.afterTransition(ctx, failed)
		}
		return nil, apperr.SignatureMismatch("payment signature verification failed")
	}

	if rec.Status == payment.StatusFailed {
		return nil, apperr.Conflict("payment has already failed")
	}

	paid, transitioned, err := s.payments.MarkPaid(ctx, req.OrderID, payment.PaidUpdate{
		PaymentID:       req.PaymentID,
		PaymentMethod:   req.PaymentMethod,
		CustomerContact: req.CustomerContact,
		PaidAt:          s.now(),
	})
	if err != nil {
		return nil, err
	}
	if paid.Status != payment.StatusPaid {
		return nil, apperr.Conflict("payment has already failed")
	}

	if transitioned {
		logger.Info().Msg("Payment verified and marked paid")
		s.afterTransition(ctx, paid)
	}
	s.grantEntitlement(ctx, paid, logger)

	return paid, nil
}

// WebhookResult describes how a webhook delivery was handled.
type WebhookResult struct {
	Event     string
	Message   string
	Duplicate bool
}

// HandleWebhook authenticates and applies a Razorpay webhook. body must be
// the exact bytes received. eventID is the X-Razorpay-Event-Id header and
// may be empty.
func (s *PaymentService) HandleWebhook(ctx context.Context, body []byte, signature, eventID string) (*WebhookResult, error) {
	result := &WebhookResult{Event: "unknown"}

	key := eventID
	if key == "" {
		sum := sha256.Sum256(body)
		key = hex.EncodeToString(sum[:])
	}
	trace := log.With().Str("component", "razorpay_webhook").Str("delivery", key).Logger()
	trace.Info().Str("step", "received").Int("bytes", len(body)).Msg("Webhook received")

	if signature == "" {
		trace.Warn().Str("step", "authenticate").Msg("Missing webhook signature")
		return result, apperr.Authentication("missing webhook signature")
	}
	if !razorpay.VerifyWebhookSignature(s.webhookSecret, body, signature) {
		trace.Warn().Str("step", "authenticate").Msg("Invalid webhook signature")
		return result, apperr.Authentication("invalid webhook signature")
	}

	ev, err := razorpay.ParseWebhookEvent(body)
	if err != nil {
		trace.Warn().Str("step", "parse").Err(err).Msg("Malformed webhook body")
		return result, apperr.Validation(err.Error())
	}
	result.Event = ev.Event
	trace = trace.With().Str("event", ev.Event).Str("order_id", ev.OrderID()).Logger()
	trace.Info().Str("step", "parse").Msg("Webhook authenticated")

	if s.deduper != nil {
		processed, err := s.deduper.IsProcessed(ctx, key)
		if err != nil {
			trace.Warn().Str("step", "dedup").Err(err).Msg("Dedup lookup failed, continuing")
		} else if processed {
			trace.Info().Str("step", "dedup").Msg("Duplicate delivery ignored")
			result.Duplicate = true
			result.Message = "duplicate event ignored"
			return result, nil
		}
	}

	switch ev.Kind {
	case razorpay.EventPaymentCaptured:
		result.Message, err = s.applyCaptured(ctx, ev, trace)
	case razorpay.EventPaymentFailed:
		result.Message, err = s.applyFailed(ctx, ev, trace)
	case razorpay.EventOrderPaid:
		result.Message, err = s.applyOrderPaid(ctx, ev, trace)
	default:
		trace.Info().Str("step", "dispatch").Msg("Unhandled webhook event type")
		result.Message = "event ignored"
	}
	if err != nil {
		trace.Error().Str("step", "apply").Err(err).Msg("Webhook processing failed")
		return result, err
	}

	if s.deduper != nil {
		if err := s.deduper.MarkProcessed(ctx, key); err != nil {
			trace.Warn().Str("step", "dedup").Err(err).Msg("Failed to record processed delivery")
		}
	}

	trace.Info().Str("step", "done").Str("result", result.Message).Msg("Webhook processed")
	return result, nil
}

func (s *PaymentService) applyCaptured(ctx context.Context, ev *razorpay.WebhookEvent, trace zerolog.Logger) (string, error) {
	p := ev.PaymentEntity()

	rec, transitioned, err := s.payments.MarkPaid(ctx, p.OrderID, payment.PaidUpdate{
		PaymentID:       p.ID,
		PaymentMethod:   p.Method,
		CustomerContact: p.Contact,
		PaidAt:          s.now(),
	})
	if err != nil {
		return "", err
	}
	if rec.Status != payment.StatusPaid {
		trace.Warn().Str("step", "transition").Str("status", string(rec.Status)).Msg("Capture for terminal payment ignored")
		return "payment already " + string(rec.Status), nil
	}

	trace.Info().Str("step", "transition").Bool("transitioned", transitioned).Msg("Payment marked paid")
	if transitioned {
		s.afterTransition(ctx, rec)
	}
	s.grantEntitlement(ctx, rec, trace)

	if !transitioned {
		return "payment already captured", nil
	}
	return "payment captured", nil
}

func (s *PaymentService) applyFailed(ctx context.Context, ev *razorpay.WebhookEvent, trace zerolog.Logger) (string, error) {
	p := ev.PaymentEntity()

	reason := p.ErrorReason
	if reason == "" {
		reason = p.ErrorDescription
	}

	rec, transitioned, err := s.payments.MarkFailed(ctx, p.OrderID, payment.FailedUpdate{
		PaymentID:        p.ID,
		Reason:           reason,
		ErrorCode:        p.ErrorCode,
		ErrorDescription: p.ErrorDescription,
		FailedAt:         s.now(),
	})
	if err != nil {
		return "", err
	}
	if !transitioned {
		trace.Info().Str("step", "transition").Str("status", string(rec.Status)).Msg("Failure for terminal payment ignored")
		return "payment already " + string(rec.Status), nil
	}

	trace.Info().Str("step", "transition").Str("error_code", p.ErrorCode).Msg("Payment marked failed")
	s.afterTransition(ctx, rec)
	return "payment failed recorded", nil
}

func (s *PaymentService) applyOrderPaid(ctx context.Context, ev *razorpay.WebhookEvent, trace zerolog.Logger) (string, error) {
	upd := payment.PaidUpdate{PaidAt: s.now()}
	if p := ev.PaymentEntity(); p != nil {
		upd.PaymentID = p.ID
		upd.PaymentMethod = p.Method
		upd.CustomerContact = p.Contact
	}

	rec, transitioned, err := s.payments.MarkPaid(ctx, ev.OrderID(), upd)
	if err != nil {
		return "", err
	}
	if !transitioned {
		trace.Info().Str("step", "transition").Str("status", string(rec.Status)).Msg("Order already terminal")
		return "payment already " + string(rec.Status), nil
	}

	trace.Info().Str("step", "transition").Msg("Order marked paid")
	s.afterTransition(ctx, rec)
	return "order paid recorded", nil
}

// grantEntitlement sets premium to now + 1 month for a paid subscription,
// at most once per payment. The previous expiry is overwritten. A failed
// profile update leaves the payment paid, is only logged, and releases the
// claim so the next confirmation retries the grant.
func (s *PaymentService) grantEntitlement(ctx context.Context, rec *payment.Record, logger zerolog.Logger) {
	if rec.PlanType != payment.PlanSubscription || rec.Status != payment.StatusPaid {
		return
	}

	// Postgres keeps microseconds; the release matches on this exact value.
	now := s.now().Truncate(time.Microsecond)
	claimed, err := s.payments.ClaimEntitlement(ctx, rec.OrderID, now)
	if err != nil {
		logger.Error().Str("step", "entitlement").Err(err).Msg("Failed to claim entitlement grant")
		return
	}
	if !claimed {
		logger.Info().Str("step", "entitlement").Msg("Entitlement already granted for this payment")
		return
	}

	expiresAt := premium.MonthlyExpiry(now)
	if err := s.entitlements.SetPremium(ctx, rec.UserID, expiresAt); err != nil {
		logger.Error().Str("step", "entitlement").Err(err).Str("user_id", rec.UserID).Msg("Failed to update premium entitlement, payment stays paid")
		if err := s.payments.ReleaseEntitlement(ctx, rec.OrderID, now); err != nil {
			logger.Error().Str("step", "entitlement").Err(err).Msg("Failed to release entitlement claim")
		}
		return
	}

	logger.Info().Str("step", "entitlement").Str("user_id", rec.UserID).Time("expires_at", expiresAt).Msg("Premium entitlement granted")
}

func (s *PaymentService) afterTransition(ctx context.Context, rec *payment.Record) {
	if s.publisher != nil {
		ev := payment.Event{OrderID: rec.OrderID, UserID: rec.UserID, Status: rec.Status, At: s.now()}
		if err := s.publisher.PublishPaymentEvent(ctx, ev); err != nil {
			log.Warn().Err(err).Str("order_id", rec.OrderID).Msg("Failed to publish payment event")
		}
	}

	if s.notifier == nil {
		return
	}

	req := &notification.CreateNotificationRequest{
		UserID: rec.UserID,
		Data:   map[string]any{"order_id": rec.OrderID, "plan_name": rec.PlanName},
	}
	switch rec.Status {
	case payment.StatusPaid:
		req.Type = notification.TypePremiumActivated
		req.Title = "Payment successful"
		req.Body = "Your payment for " + rec.PlanName + " was received."
	case payment.StatusFailed:
		req.Type = notification.TypePaymentFailed
		req.Title = "Payment failed"
		req.Body = "Your payment for " + rec.PlanName + " could not be completed."
	default:
		return
	}

	if _, err := s.notifier.CreateNotification(ctx, req); err != nil {
		log.Warn().Err(err).Str("order_id", rec.OrderID).Msg("Failed to create payment notification")
	}
}
