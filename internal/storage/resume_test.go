package storage

import (
	"context"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	appconfig "internHubAPI/internal/config"
)

func TestNewResumeStore_RequiresConfig(t *testing.T) {
	_, err := NewResumeStore(context.Background(), appconfig.S3Config{Region: "ap-south-1"})
	assert.Error(t, err)
}

func TestPresignUpload(t *testing.T) {
	store, err := NewResumeStore(context.Background(), appconfig.S3Config{
		Bucket:          "internhub-resumes",
		Region:          "ap-south-1",
		Endpoint:        "http://localhost:9000",
		AccessKeyID:     "AKIDEXAMPLE",
		SecretAccessKey: "secret",
	})
	require.NoError(t, err)

	url, err := store.PresignUpload(context.Background(), "resumes/u1/cv.pdf", "application/pdf", 15*time.Minute)
	require.NoError(t, err)

	assert.True(t, strings.HasPrefix(url, "http://localhost:9000/internhub-resumes/resumes/u1/cv.pdf?"), url)
	assert.Contains(t, url, "X-Amz-Expires=900")
	assert.Contains(t, url, "X-Amz-Signature=")
}
