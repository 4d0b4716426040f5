package helpers

import (
	"context"
	"fmt"
	"os"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgxpool"

	"internHubAPI/internal/store"
)

const TestCompanyName = "InternHub Test Co"

// SetupTestDB connects to TEST_DATABASE_URL and applies migrations. Tests
// are skipped when the variable is not set.
func SetupTestDB(t *testing.T) *pgxpool.Pool {
	t.Helper()

	dbURL := os.Getenv("TEST_DATABASE_URL")
	if dbURL == "" {
		t.Skip("TEST_DATABASE_URL not set, skipping database test")
	}

	if err := store.Migrate(dbURL); err != nil {
		t.Fatalf("Failed to migrate test database: %v", err)
	}

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	pool, err := store.NewPostgresPool(ctx, dbURL)
	if err != nil {
		t.Fatalf("Failed to connect to test database: %v", err)
	}
	return pool
}

// CleanupTestDB removes rows created by tests and closes the pool. Child
// rows go with their user through ON DELETE CASCADE.
func CleanupTestDB(t *testing.T, pool *pgxpool.Pool) {
	ctx := context.Background()
	if _, err := pool.Exec(ctx, "DELETE FROM users WHERE clerk_id LIKE 'user_test_%'"); err != nil {
		t.Logf("Warning: failed to cleanup users: %v", err)
	}
	if _, err := pool.Exec(ctx, "DELETE FROM internships WHERE company_name = $1", TestCompanyName); err != nil {
		t.Logf("Warning: failed to cleanup internships: %v", err)
	}
	pool.Close()
}

// NewClerkID returns a Clerk-style user ID that CleanupTestDB removes.
func NewClerkID() string {
	return "user_test_" + uuid.NewString()[:12]
}

func TestEmail(clerkID string) string {
	return fmt.Sprintf("test+%s@example.com", clerkID)
}

// SeedPosting inserts an active internship and returns its ID.
func SeedPosting(t *testing.T, pool *pgxpool.Pool, title string, skills []string, stipendMin, stipendMax int, deadline *time.Time) string {
	t.Helper()

	id := uuid.NewString()
	_, err := pool.Exec(context.Background(), `
	INSERT INTO internships (id, title, company_name, location, remote_allowed, stipend_min, stipend_max, required_skills, description, deadline)
	VALUES ($1, $2, $3, 'Bengaluru', true, $4, $5, $6, 'Seeded by tests', $7)
	`, id, title, TestCompanyName, stipendMin, stipendMax, skills, deadline)
	if err != nil {
		t.Fatalf("Failed to seed posting: %v", err)
	}
	return id
}

// MockClerkWebhookPayload creates a Clerk user event body.
func MockClerkWebhookPayload(eventType string, clerkID string) []byte {
	payload := ""

	switch eventType {
	case "user.created":
		payload = fmt.Sprintf(`{
			"data": {
				"id": "%s",
				"first_name": "Test",
				"last_name": "User",
				"email_addresses": [{
					"id": "email_123",
					"email_address": "%s",
					"verification": {"status": "verified"}
				}],
				"primary_email_address_id": "email_123"
			},
			"object": "event",
			"type": "%s"
		}`, clerkID, TestEmail(clerkID), eventType)

	case "user.updated":
		payload = fmt.Sprintf(`{
			"data": {
				"id": "%s",
				"first_name": "Updated",
				"last_name": "User",
				"email_addresses": [{
					"id": "email_123",
					"email_address": "%s"
				}],
				"primary_email_address_id": "email_123"
			},
			"object": "event",
			"type": "%s"
		}`, clerkID, TestEmail(clerkID), eventType)

	case "user.deleted":
		payload = fmt.Sprintf(`{
			"data": {
				"id": "%s",
				"deleted": true
			},
			"object": "event",
			"type": "%s"
		}`, clerkID, eventType)
	}

	return []byte(payload)
}
