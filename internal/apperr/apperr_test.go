package apperr

import (
	"fmt"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestKindOf(t *testing.T) {
	cause := fmt.Errorf("connection refused")

	tests := []struct {
		name string
		err  error
		want Kind
	}{
		{"validation", Validation("limit must be positive"), KindValidation},
		{"wrapped not found", fmt.Errorf("load payment: %w", NotFound("payment not found")), KindNotFound},
		{"store", Store(cause, "failed to load postings"), KindStore},
		{"plain error", cause, KindInternal},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, KindOf(tt.err))
		})
	}
}

func TestStoreKeepsCause(t *testing.T) {
	cause := fmt.Errorf("connection refused")
	err := Store(cause, "failed to load postings")

	assert.ErrorIs(t, err, cause)
	assert.Equal(t, "failed to load postings", MessageOf(err))
	assert.Contains(t, err.Error(), "connection refused")
}

func TestMessageOfHidesUnknownErrors(t *testing.T) {
	assert.Equal(t, "Internal server error", MessageOf(fmt.Errorf("pq: password authentication failed")))
}

func TestHTTPStatus(t *testing.T) {
	assert.Equal(t, http.StatusBadRequest, HTTPStatus(KindValidation))
	assert.Equal(t, http.StatusBadRequest, HTTPStatus(KindSignatureMismatch))
	assert.Equal(t, http.StatusUnauthorized, HTTPStatus(KindAuthentication))
	assert.Equal(t, http.StatusNotFound, HTTPStatus(KindNotFound))
	assert.Equal(t, http.StatusConflict, HTTPStatus(KindConflict))
	assert.Equal(t, http.StatusInternalServerError, HTTPStatus(KindStore))
	assert.Equal(t, http.StatusInternalServerError, HTTPStatus(KindInternal))
}
