package notification

import (
	"context"
	"encoding/base64"
	"fmt"
	"os"

	firebase "firebase.google.com/go/v4"
	"firebase.google.com/go/v4/messaging"
	"github.com/rs/zerolog/log"
	"google.golang.org/api/option"

	"internHubAPI/internal/types/notification"
)

// FCMService sends push notifications through Firebase Cloud Messaging.
type FCMService struct {
	client *messaging.Client
}

// NewFCMService first uses base64 credentials from FCM_SERVICE_ACCOUNT_JSON
// and falls back to the service account file at localFilePath.
func NewFCMService(ctx context.Context, localFilePath string) (*FCMService, error) {
	var opt option.ClientOption

	encodedCreds := os.Getenv("FCM_SERVICE_ACCOUNT_JSON")
	if encodedCreds != "" {
		decoded, err := base64.StdEncoding.DecodeString(encodedCreds)
		if err != nil {
			return nil, fmt.Errorf("failed to decode FCM_SERVICE_ACCOUNT_JSON: %w", err)
		}
		opt = option.WithCredentialsJSON(decoded)
		log.Info().Msg("FCM: initializing from FCM_SERVICE_ACCOUNT_JSON")
	} else {
		if _, err := os.Stat(localFilePath); os.IsNotExist(err) {
			return nil, fmt.Errorf("firebase credentials file %s not found and FCM_SERVICE_ACCOUNT_JSON is not set", localFilePath)
		}
		opt = option.WithCredentialsFile(localFilePath)
		log.Info().Str("path", localFilePath).Msg("FCM: initializing from credentials file")
	}

	app, err := firebase.NewApp(ctx, nil, opt)
	if err != nil {
		return nil, fmt.Errorf("error initializing firebase app: %w", err)
	}

	client, err := app.Messaging(ctx)
	if err != nil {
		return nil, fmt.Errorf("error getting messaging client: %w", err)
	}

	return &FCMService{client: client}, nil
}

// SendPush sends one message per device token. It fails only when every
// token failed.
func (s *FCMService) SendPush(ctx context.Context, tokens []notification.DeviceToken, title, body string, data map[string]any) error {
	if len(tokens) == 0 {
		return nil
	}

	stringData := stringifyData(data)

	successCount := 0
	failureCount := 0

	for _, token := range tokens {
		message := buildMessage(token, title, body, stringData)

		if _, err := s.client.Send(ctx, message); err != nil {
			log.Warn().Err(err).Str("platform", token.Platform).Msg("FCM: failed to send to token")
			failureCount++
		} else {
			successCount++
		}
	}

	log.Debug().Int("sent", successCount).Int("failed", failureCount).Msg("FCM: push batch finished")

	if successCount == 0 && failureCount > 0 {
		return fmt.Errorf("all %d push notifications failed", failureCount)
	}

	return nil
}

func stringifyData(data map[string]any) map[string]string {
	out := make(map[string]string, len(data))
	for k, v := range data {
		out[k] = fmt.Sprintf("%v", v)
	}
	return out
}

func buildMessage(token notification.DeviceToken, title, body string, data map[string]string) *messaging.Message {
	msg := &messaging.Message{
		Token: token.Token,
		Notification: &messaging.Notification{
			Title: title,
			Body:  body,
		},
		Data: data,
	}

	switch token.Platform {
	case "ios":
		msg.APNS = &messaging.APNSConfig{
			Payload: &messaging.APNSPayload{
				Aps: &messaging.Aps{Sound: "default"},
			},
		}
	case "web":
		msg.Webpush = &messaging.WebpushConfig{
			Notification: &messaging.WebpushNotification{Title: title, Body: body},
		}
	default:
		msg.Android = &messaging.AndroidConfig{
			Priority: "high",
			Notification: &messaging.AndroidNotification{
				Sound: "default",
			},
		}
	}

	return msg
}
