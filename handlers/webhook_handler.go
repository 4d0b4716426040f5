package handlers

import (
	"context"
	"crypto/hmac"
	"crypto/sha256"
	"encoding/base64"
	"encoding/json"
	"io"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/rs/zerolog/log"

	"internHubAPI/internal/apperr"
	"internHubAPI/internal/types/user"
)

// svixTolerance is how far a delivery timestamp may drift from now.
const svixTolerance = 5 * time.Minute

type clerkSyncService interface {
	SyncFromClerk(ctx context.Context, req *user.UpsertProfileRequest) (*user.Profile, error)
	DeleteProfile(ctx context.Context, clerkID string) error
}

type clerkWebhookEvent struct {
	Type string          `json:"type"`
	Data json.RawMessage `json:"data"`
}

type clerkEmailAddress struct {
	ID           string `json:"id"`
	EmailAddress string `json:"email_address"`
}

type clerkUserData struct {
	ID                    string              `json:"id"`
	FirstName             string              `json:"first_name"`
	LastName              string              `json:"last_name"`
	PrimaryEmailAddressID string              `json:"primary_email_address_id"`
	EmailAddresses        []clerkEmailAddress `json:"email_addresses"`
}

func (d clerkUserData) primaryEmail() string {
	for _, e := range d.EmailAddresses {
		if e.ID == d.PrimaryEmailAddressID {
			return e.EmailAddress
		}
	}
	if len(d.EmailAddresses) > 0 {
		return d.EmailAddresses[0].EmailAddress
	}
	return ""
}

// WebhookHandler keeps profiles in sync with Clerk user events.
type WebhookHandler struct {
	profileService clerkSyncService
	webhookSecret  string
	now            func() time.Time
}

func NewWebhookHandler(profileService clerkSyncService, webhookSecret string) *WebhookHandler {
	if webhookSecret == "" {
		log.Warn().Msg("CLERK_WEBHOOK_INSECURE set, Clerk webhook signatures will not be verified")
	}
	return &WebhookHandler{
		profileService: profileService,
		webhookSecret:  webhookSecret,
		now:            time.Now,
	}
}

// POST /webhooks/clerk
func (h *WebhookHandler) HandleClerkWebhook(w http.ResponseWriter, r *http.Request) {
	r.Body = http.MaxBytesReader(w, r.Body, maxWebhookBodyBytes)
	body, err := io.ReadAll(r.Body)
	if err != nil {
		log.Warn().Err(err).Msg("Error reading Clerk webhook body")
		respondWithError(w, http.StatusBadRequest, "Error reading body")
		return
	}

	if !h.verifyWebhookSignature(r.Header, body) {
		log.Warn().Msg("Invalid Clerk webhook signature")
		respondWithError(w, http.StatusUnauthorized, "Invalid signature")
		return
	}

	var event clerkWebhookEvent
	if err := json.Unmarshal(body, &event); err != nil {
		respondWithError(w, http.StatusBadRequest, "Error parsing webhook")
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), handlerTimeout)
	defer cancel()

	logger := log.With().Str("component", "clerk_webhook").Str("event", event.Type).Logger()

	switch event.Type {
	case "user.created", "user.updated":
		err = h.handleUserUpserted(ctx, event.Data)
	case "user.deleted":
		err = h.handleUserDeleted(ctx, event.Data)
	default:
		logger.Info().Msg("Unhandled webhook event type")
	}
	if err != nil {
		logger.Error().Err(err).Msg("Error processing Clerk webhook")
		respondWithAppError(w, err)
		return
	}

	respondWithJSON(w, http.StatusOK, map[string]bool{"success": true})
}

func (h *WebhookHandler) handleUserUpserted(ctx context.Context, data json.RawMessage) error {
	var userData clerkUserData
	if err := json.Unmarshal(data, &userData); err != nil {
		return apperr.Validation("invalid user payload")
	}

	profile, err := h.profileService.SyncFromClerk(ctx, &user.UpsertProfileRequest{
		ClerkID:  userData.ID,
		Email:    userData.primaryEmail(),
		FullName: strings.TrimSpace(userData.FirstName + " " + userData.LastName),
	})
	if err != nil {
		return err
	}

	log.Info().Str("clerk_id", profile.ClerkID).Msg("Synced profile from Clerk")
	return nil
}

func (h *WebhookHandler) handleUserDeleted(ctx context.Context, data json.RawMessage) error {
	var userData struct {
		ID string `json:"id"`
	}
	if err := json.Unmarshal(data, &userData); err != nil {
		return apperr.Validation("invalid user payload")
	}

	if err := h.profileService.DeleteProfile(ctx, userData.ID); err != nil {
		return err
	}

	log.Info().Str("clerk_id", userData.ID).Msg("Deleted profile")
	return nil
}

// verifyWebhookSignature checks the svix headers Clerk signs deliveries
// with: base64(HMAC-SHA256(secret, "id.timestamp.body")), possibly several
// space-separated "v1,<sig>" entries.
func (h *WebhookHandler) verifyWebhookSignature(header http.Header, body []byte) bool {
	if h.webhookSecret == "" {
		return true
	}

	svixID := header.Get("svix-id")
	svixTimestamp := header.Get("svix-timestamp")
	svixSignature := header.Get("svix-signature")

	if svixID == "" || svixTimestamp == "" || svixSignature == "" {
		log.Debug().Msg("Missing webhook signature headers")
		return false
	}

	ts, err := strconv.ParseInt(svixTimestamp, 10, 64)
	if err != nil {
		return false
	}
	drift := h.now().Sub(time.Unix(ts, 0))
	if drift > svixTolerance || drift < -svixTolerance {
		log.Debug().Dur("drift", drift).Msg("Webhook timestamp outside tolerance")
		return false
	}

	expected := svixSign(h.webhookSecret, svixID, svixTimestamp, body)

	for _, entry := range strings.Fields(svixSignature) {
		version, sig, found := strings.Cut(entry, ",")
		if !found || version != "v1" {
			continue
		}
		if hmac.Equal([]byte(expected), []byte(sig)) {
			return true
		}
	}
	return false
}

func svixSign(secret, id, timestamp string, body []byte) string {
	key := []byte(secret)
	if raw, ok := strings.CutPrefix(secret, "whsec_"); ok {
		if decoded, err := base64.StdEncoding.DecodeString(raw); err == nil {
			key = decoded
		}
	}

	mac := hmac.New(sha256.New, key)
	mac.Write([]byte(id + "." + timestamp + "."))
	mac.Write(body)
	return base64.StdEncoding.EncodeToString(mac.Sum(nil))
}
