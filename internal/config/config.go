// Package config loads and validates environment variables at startup.
// Missing required variables fail fast.
package config

import (
	"fmt"
	"os"
	"strconv"
)

type Config struct {
	Port        string
	DatabaseURL string
	RedisURL    string
	AutoMigrate bool

	ClerkSecretKey     string
	ClerkWebhookSecret string
	// ClerkWebhookInsecure allows an empty ClerkWebhookSecret, which turns
	// off Clerk webhook signature checks. Local development only.
	ClerkWebhookInsecure bool

	RazorpayKeyID         string
	RazorpayKeySecret     string
	RazorpayWebhookSecret string

	FCMCredentialsFile string

	SendGridAPIKey    string
	SendGridFromEmail string

	TwilioAccountSID   string
	TwilioAuthToken    string
	TwilioWhatsAppFrom string

	S3 S3Config

	MetricsUser string
	MetricsPass string

	RateLimitRPS   int
	RateLimitBurst int

	LogLevel  string
	LogPretty bool
}

type S3Config struct {
	Bucket          string
	Region          string
	Endpoint        string // S3-compatible providers; empty for AWS
	AccessKeyID     string
	SecretAccessKey string
}

func (c S3Config) Enabled() bool {
	return c.Bucket != "" && c.AccessKeyID != "" && c.SecretAccessKey != ""
}

// Load reads environment variables and returns a validated Config.
func Load() (*Config, error) {
	required := map[string]string{}
	for _, key := range []string{
		"DATABASE_URL",
		"CLERK_SECRET_KEY",
		"RAZORPAY_KEY_ID",
		"RAZORPAY_KEY_SECRET",
		"RAZORPAY_WEBHOOK_SECRET",
	} {
		v := os.Getenv(key)
		if v == "" {
			return nil, fmt.Errorf("%s is required", key)
		}
		required[key] = v
	}

	clerkWebhookSecret := os.Getenv("CLERK_WEBHOOK_SECRET")
	clerkWebhookInsecure := os.Getenv("CLERK_WEBHOOK_INSECURE") == "true"
	if clerkWebhookSecret == "" && !clerkWebhookInsecure {
		return nil, fmt.Errorf("CLERK_WEBHOOK_SECRET is required (set CLERK_WEBHOOK_INSECURE=true to skip verification locally)")
	}

	rps, err := positiveInt("RATE_LIMIT_RPS", 5)
	if err != nil {
		return nil, err
	}
	burst, err := positiveInt("RATE_LIMIT_BURST", 30)
	if err != nil {
		return nil, err
	}

	region := os.Getenv("S3_REGION")
	if region == "" {
		region = "ap-south-1"
	}

	return &Config{
		Port:        getEnv("PORT", "3333"),
		DatabaseURL: required["DATABASE_URL"],
		RedisURL:    os.Getenv("REDIS_URL"),
		AutoMigrate: os.Getenv("AUTO_MIGRATE") == "true",

		ClerkSecretKey:       required["CLERK_SECRET_KEY"],
		ClerkWebhookSecret:   clerkWebhookSecret,
		ClerkWebhookInsecure: clerkWebhookInsecure,

		RazorpayKeyID:         required["RAZORPAY_KEY_ID"],
		RazorpayKeySecret:     required["RAZORPAY_KEY_SECRET"],
		RazorpayWebhookSecret: required["RAZORPAY_WEBHOOK_SECRET"],

		FCMCredentialsFile: getEnv("FCM_CREDENTIALS_FILE", "./serviceAccountKey.json"),

		SendGridAPIKey:    os.Getenv("SENDGRID_API_KEY"),
		SendGridFromEmail: getEnv("SENDGRID_FROM_EMAIL", "no-reply@internhub.app"),

		TwilioAccountSID:   os.Getenv("TWILIO_ACCOUNT_SID"),
		TwilioAuthToken:    os.Getenv("TWILIO_AUTH_TOKEN"),
		TwilioWhatsAppFrom: os.Getenv("TWILIO_WHATSAPP_FROM"),

		S3: S3Config{
			Bucket:          os.Getenv("S3_BUCKET"),
			Region:          region,
			Endpoint:        os.Getenv("S3_ENDPOINT"),
			AccessKeyID:     os.Getenv("S3_ACCESS_KEY_ID"),
			SecretAccessKey: os.Getenv("S3_SECRET_ACCESS_KEY"),
		},

		MetricsUser: os.Getenv("METRICS_USER"),
		MetricsPass: os.Getenv("METRICS_PASS"),

		RateLimitRPS:   rps,
		RateLimitBurst: burst,

		LogLevel:  getEnv("LOG_LEVEL", "info"),
		LogPretty: os.Getenv("LOG_PRETTY") == "true",
	}, nil
}

func getEnv(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func positiveInt(key string, fallback int) (int, error) {
	s := os.Getenv(key)
	if s == "" {
		return fallback, nil
	}
	v, err := strconv.Atoi(s)
	if err != nil || v < 1 {
		return 0, fmt.Errorf("%s must be a positive integer, got %q", key, s)
	}
	return v, nil
}
