package handlers

import (
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"internHubAPI/internal/apperr"
	"internHubAPI/internal/types/internship"
)

func TestInternshipHandler_Match(t *testing.T) {
	svc := &stubMatcher{resp: &internship.SearchResponse{
		Internships: []internship.MatchResult{{Internship: internship.Posting{ID: "A"}, Score: 1}},
		TotalCount:  1,
		Page:        1,
		Limit:       1,
	}}
	h := NewInternshipHandler(svc)

	rec := serve(t, h.Match, request{
		method: http.MethodPost,
		path:   "/api/v1/internships/match",
		body:   `{"skills":["python"],"minStipend":5000,"page":1,"limit":1}`,
	})

	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, []string{"python"}, svc.gotSearch.Skills)
	require.NotNil(t, svc.gotSearch.MinStipend)
	assert.Equal(t, 5000, *svc.gotSearch.MinStipend)

	body := decodeBody(t, rec)
	assert.EqualValues(t, 1, body["total_count"])
	assert.Equal(t, false, body["has_more"])
}

func TestInternshipHandler_MatchErrors(t *testing.T) {
	t.Run("malformed body", func(t *testing.T) {
		svc := &stubMatcher{}
		rec := serve(t, NewInternshipHandler(svc).Match, request{
			method: http.MethodPost, path: "/api/v1/internships/match", body: `{"skills":`,
		})
		assert.Equal(t, http.StatusBadRequest, rec.Code)
		assert.Equal(t, "validation_error", decodeBody(t, rec)["kind"])
	})

	t.Run("service validation", func(t *testing.T) {
		svc := &stubMatcher{err: apperr.Validation("limit must be at most 100")}
		rec := serve(t, NewInternshipHandler(svc).Match, request{
			method: http.MethodPost, path: "/api/v1/internships/match", body: `{"limit":500}`,
		})
		assert.Equal(t, http.StatusBadRequest, rec.Code)
		body := decodeBody(t, rec)
		assert.Equal(t, "limit must be at most 100", body["error"])
		assert.Equal(t, "validation_error", body["kind"])
	})

	t.Run("store failure", func(t *testing.T) {
		svc := &stubMatcher{err: apperr.Store(assert.AnError, "failed to load postings")}
		rec := serve(t, NewInternshipHandler(svc).Match, request{
			method: http.MethodPost, path: "/api/v1/internships/match", body: `{}`,
		})
		assert.Equal(t, http.StatusInternalServerError, rec.Code)
		assert.Equal(t, "store_error", decodeBody(t, rec)["kind"])
	})
}

func TestInternshipHandler_GetInternship(t *testing.T) {
	id := "6f1c2a9e-4b7d-4c3e-9a8f-2d1e0b3c4a5f"

	svc := &stubMatcher{posting: &internship.Posting{ID: id, Title: "Backend Intern"}}
	rec := serve(t, NewInternshipHandler(svc).GetInternship, request{
		method: http.MethodGet, path: "/api/v1/internships/" + id, vars: map[string]string{"id": id},
	})
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, id, svc.gotID)
	assert.Equal(t, "Backend Intern", decodeBody(t, rec)["title"])

	rec = serve(t, NewInternshipHandler(&stubMatcher{}).GetInternship, request{
		method: http.MethodGet, path: "/api/v1/internships/nope", vars: map[string]string{"id": "nope"},
	})
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	rec = serve(t, NewInternshipHandler(&stubMatcher{err: apperr.NotFound("Internship not found")}).GetInternship, request{
		method: http.MethodGet, path: "/api/v1/internships/" + id, vars: map[string]string{"id": id},
	})
	assert.Equal(t, http.StatusNotFound, rec.Code)
	assert.Equal(t, "not_found", decodeBody(t, rec)["kind"])
}

func TestInternshipHandler_Recommended(t *testing.T) {
	svc := &stubMatcher{resp: &internship.SearchResponse{Internships: []internship.MatchResult{}}}
	h := NewInternshipHandler(svc)

	rec := serve(t, h.Recommended, request{method: http.MethodGet, path: "/api/v1/internships/recommended"})
	assert.Equal(t, http.StatusUnauthorized, rec.Code)

	rec = serve(t, h.Recommended, request{
		method: http.MethodGet, path: "/api/v1/internships/recommended?page=abc", clerkID: testClerkID,
	})
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	rec = serve(t, h.Recommended, request{
		method: http.MethodGet, path: "/api/v1/internships/recommended?page=2&limit=5", clerkID: testClerkID,
	})
	require.Equal(t, http.StatusOK, rec.Code)
	require.NotNil(t, svc.gotPage)
	require.NotNil(t, svc.gotLimit)
	assert.Equal(t, 2, *svc.gotPage)
	assert.Equal(t, 5, *svc.gotLimit)
}
