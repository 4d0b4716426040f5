package main

import (
	"net/http"

	"github.com/gorilla/mux"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"internHubAPI/handlers"
	"internHubAPI/middleware"
)

type routes struct {
	internships   *handlers.InternshipHandler
	payments      *handlers.PaymentHandler
	profiles      *handlers.ProfileHandler
	applications  *handlers.ApplicationHandler
	notifications *handlers.NotificationHandler
	clerkWebhooks *handlers.WebhookHandler

	rateLimiter *middleware.RateLimiter
	metricsUser string
	metricsPass string
}

func newRouter(rt routes) *mux.Router {
	r := mux.NewRouter()

	// Webhooks authenticate by signature, not by session, and arrive from a
	// few gateway IPs, so they skip the per-client limiter.
	webhooks := r.PathPrefix("/webhooks").Subrouter()
	webhooks.Use(middleware.MonitorMiddleware)
	webhooks.HandleFunc("/clerk", rt.clerkWebhooks.HandleClerkWebhook).Methods("POST")
	webhooks.HandleFunc("/razorpay", rt.payments.HandleRazorpayWebhook).Methods("POST")

	standardRouter := r.PathPrefix("/").Subrouter()
	standardRouter.Use(rt.rateLimiter.Middleware)
	standardRouter.Use(middleware.MonitorMiddleware)

	standardRouter.Handle("/metrics", middleware.BasicAuthMiddleware(rt.metricsUser, rt.metricsPass)(promhttp.Handler()))

	standardRouter.HandleFunc("/health", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusOK)
		w.Write([]byte(`{"status":"ok"}`))
	}).Methods("GET")

	api := standardRouter.PathPrefix("/api/v1").Subrouter()

	api.HandleFunc("/internships/match", rt.internships.Match).Methods("POST")
	api.HandleFunc("/internships/{id:[0-9a-fA-F-]{36}}", rt.internships.GetInternship).Methods("GET")

	protected := api.PathPrefix("").Subrouter()
	protected.Use(middleware.ClerkAuthMiddleware)

	protected.HandleFunc("/internships/recommended", rt.internships.Recommended).Methods("GET")

	protected.HandleFunc("/user", rt.profiles.GetProfile).Methods("GET")
	protected.HandleFunc("/user", rt.profiles.UpdateProfile).Methods("PUT")
	protected.HandleFunc("/user/premium", rt.profiles.GetPremiumStatus).Methods("GET")
	protected.HandleFunc("/user/resume/upload-url", rt.profiles.CreateResumeUploadURL).Methods("POST")
	protected.HandleFunc("/user/calendar", rt.profiles.GetCalendar).Methods("GET")

	protected.HandleFunc("/payments/orders", rt.payments.CreateOrder).Methods("POST")
	protected.HandleFunc("/payments/verify", rt.payments.VerifyPayment).Methods("POST")
	protected.HandleFunc("/payments", rt.payments.ListPayments).Methods("GET")

	protected.HandleFunc("/applications", rt.applications.Submit).Methods("POST")
	protected.HandleFunc("/applications", rt.applications.List).Methods("GET")
	protected.HandleFunc("/applications/{id}", rt.applications.Withdraw).Methods("DELETE")

	protected.HandleFunc("/notifications", rt.notifications.GetNotifications).Methods("GET")
	protected.HandleFunc("/notifications/preferences", rt.notifications.GetPreferences).Methods("GET")
	protected.HandleFunc("/notifications/preferences", rt.notifications.UpdatePreferences).Methods("PUT")
	protected.HandleFunc("/notifications/register-device", rt.notifications.RegisterDevice).Methods("POST")
	protected.HandleFunc("/notifications/{id}/read", rt.notifications.MarkAsRead).Methods("PUT")

	return r
}
