package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	clerk "github.com/clerk/clerk-sdk-go/v2"
	gorillaHandlers "github.com/gorilla/handlers"
	"github.com/joho/godotenv"
	"github.com/rs/zerolog/log"

	"internHubAPI/handlers"
	"internHubAPI/internal/config"
	"internHubAPI/internal/logger"
	"internHubAPI/internal/notification"
	"internHubAPI/internal/razorpay"
	"internHubAPI/internal/storage"
	"internHubAPI/internal/store"
	"internHubAPI/internal/workers"
	"internHubAPI/middleware"
	"internHubAPI/services"
)

func main() {
	if err := godotenv.Load(); err != nil {
		log.Info().Msg("No .env file found")
	}

	cfg, err := config.Load()
	if err != nil {
		log.Fatal().Err(err).Msg("Invalid configuration")
	}
	logger.Init(cfg.LogLevel, cfg.LogPretty)

	clerk.SetKey(cfg.ClerkSecretKey)
	log.Info().Msg("Clerk initialized successfully")

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if cfg.AutoMigrate {
		if err := store.Migrate(cfg.DatabaseURL); err != nil {
			log.Fatal().Err(err).Msg("Failed to migrate database")
		}
	}

	initCtx, initCancel := context.WithTimeout(ctx, 10*time.Second)
	dbPool, err := store.NewPostgresPool(initCtx, cfg.DatabaseURL)
	initCancel()
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to connect to database")
	}
	defer func() {
		log.Info().Msg("Closing database connection pool...")
		dbPool.Close()
	}()

	postingRepo := store.NewPostingRepository(dbPool)
	paymentRepo := store.NewPaymentRepository(dbPool)
	profileRepo := store.NewProfileRepository(dbPool)
	applicationRepo := store.NewApplicationRepository(dbPool)
	notificationRepo := store.NewNotificationRepository(dbPool)

	notificationService := services.NewNotificationService(notificationRepo, profileRepo)
	initNotificationProviders(ctx, cfg, notificationService.Dispatcher())

	paymentService := services.NewPaymentService(
		paymentRepo,
		profileRepo,
		razorpay.NewClient(cfg.RazorpayKeyID, cfg.RazorpayKeySecret),
		cfg.RazorpayKeySecret,
		cfg.RazorpayWebhookSecret,
	)
	paymentService.SetNotifier(notificationService)

	if cfg.RedisURL != "" {
		redisCtx, redisCancel := context.WithTimeout(ctx, 5*time.Second)
		rdb, err := store.NewRedisClient(redisCtx, cfg.RedisURL)
		redisCancel()
		if err != nil {
			log.Warn().Err(err).Msg("Redis unavailable, webhook dedup and payment events disabled")
		} else {
			defer rdb.Close()
			paymentService.SetWebhookDeduper(store.NewWebhookDeduper(rdb))
			paymentService.SetEventPublisher(store.NewPaymentPublisher(rdb))
		}
	}

	profileService := services.NewProfileService(profileRepo)
	if cfg.S3.Enabled() {
		resumes, err := storage.NewResumeStore(ctx, cfg.S3)
		if err != nil {
			log.Warn().Err(err).Msg("Could not initialize resume storage")
		} else {
			profileService.SetResumeStorage(resumes)
		}
	}

	matcherService := services.NewMatcherService(postingRepo, profileRepo)
	applicationService := services.NewApplicationService(applicationRepo, postingRepo, profileRepo)
	applicationService.SetNotifier(notificationService)
	calendarService := services.NewCalendarService(applicationRepo, profileRepo)

	scheduler := workers.New(postingRepo, profileRepo, notificationService, notificationService)
	if err := scheduler.Start(ctx); err != nil {
		log.Fatal().Err(err).Msg("Failed to start scheduler")
	}

	rateLimiter := middleware.NewRateLimiter(cfg.RateLimitRPS, cfg.RateLimitBurst)
	go rateLimiter.CleanupVisitors(ctx.Done())

	middleware.InitPrometheus()

	r := newRouter(routes{
		internships:   handlers.NewInternshipHandler(matcherService),
		payments:      handlers.NewPaymentHandler(paymentService),
		profiles:      handlers.NewProfileHandler(profileService, calendarService),
		applications:  handlers.NewApplicationHandler(applicationService),
		notifications: handlers.NewNotificationHandler(notificationService),
		clerkWebhooks: handlers.NewWebhookHandler(profileService, cfg.ClerkWebhookSecret),
		rateLimiter:   rateLimiter,
		metricsUser:   cfg.MetricsUser,
		metricsPass:   cfg.MetricsPass,
	})

	corsHandler := gorillaHandlers.CORS(
		gorillaHandlers.AllowedOrigins([]string{"*"}),
		gorillaHandlers.AllowedMethods([]string{"GET", "POST", "PUT", "DELETE", "OPTIONS"}),
		gorillaHandlers.AllowedHeaders([]string{"Content-Type", "Authorization"}),
		gorillaHandlers.ExposedHeaders([]string{"Content-Length"}),
	)
	recovery := gorillaHandlers.RecoveryHandler(gorillaHandlers.PrintRecoveryStack(true))

	server := http.Server{
		Addr:         ":" + cfg.Port,
		Handler:      recovery(corsHandler(r)),
		ReadTimeout:  5 * time.Second,
		WriteTimeout: 10 * time.Second,
		IdleTimeout:  120 * time.Second,
	}

	go func() {
		log.Info().Str("addr", server.Addr).Msg("Starting server")
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatal().Err(err).Msg("Error starting server")
		}
	}()

	<-ctx.Done()
	log.Info().Msg("Shutdown signal received")

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer shutdownCancel()

	if err := server.Shutdown(shutdownCtx); err != nil {
		log.Error().Err(err).Msg("Server shutdown error")
	}
	scheduler.Stop(shutdownCtx)
	notificationService.Stop()

	log.Info().Msg("Server shutdown complete")
}

// initNotificationProviders attaches every delivery channel that is
// configured. A missing provider only disables its channel.
func initNotificationProviders(ctx context.Context, cfg *config.Config, dispatcher *services.NotificationDispatcher) {
	fcmService, err := notification.NewFCMService(ctx, cfg.FCMCredentialsFile)
	if err != nil {
		log.Warn().Err(err).Msg("Could not initialize FCM")
	} else {
		dispatcher.SetPushProvider(fcmService)
		log.Info().Msg("FCM push provider initialized")
	}

	if cfg.SendGridAPIKey != "" && cfg.SendGridFromEmail != "" {
		dispatcher.SetEmailProvider(notification.NewEmailService(cfg.SendGridAPIKey, cfg.SendGridFromEmail))
		log.Info().Msg("SendGrid email provider initialized")
	}

	if cfg.TwilioAccountSID != "" && cfg.TwilioAuthToken != "" && cfg.TwilioWhatsAppFrom != "" {
		dispatcher.SetWhatsAppProvider(notification.NewWhatsAppService(cfg.TwilioAccountSID, cfg.TwilioAuthToken, cfg.TwilioWhatsAppFrom))
		log.Info().Msg("Twilio WhatsApp provider initialized")
	}
}
