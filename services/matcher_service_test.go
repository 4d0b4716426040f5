package services

import (
	"context"
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"internHubAPI/internal/apperr"
	"internHubAPI/internal/types/internship"
	"internHubAPI/internal/types/user"
)

func intPtr(v int) *int { return &v }

func samplePostings() []internship.Posting {
	return []internship.Posting{
		{ID: "p1", Title: "Backend Intern", CompanyName: "Acme", Location: "Bengaluru", StipendMin: 15000, StipendMax: 25000, RequiredSkills: []string{"Go", "SQL"}, IsActive: true},
		{ID: "p2", Title: "Frontend Intern", CompanyName: "Globex", Location: "Pune", RemoteAllowed: true, StipendMin: 10000, StipendMax: 15000, RequiredSkills: []string{"React"}, IsActive: true},
		{ID: "p3", Title: "Data Intern", CompanyName: "Initech", Location: "Bengaluru", StipendMin: 20000, StipendMax: 30000, RequiredSkills: []string{"Python", "SQL"}, IsActive: true},
		{ID: "p4", Title: "Closed Intern", CompanyName: "Umbrella", Location: "Bengaluru", RequiredSkills: []string{"Go"}, IsActive: false},
	}
}

func TestMatcherService_SearchDefaults(t *testing.T) {
	svc := NewMatcherService(&fakePostingStore{postings: samplePostings()}, newFakeProfileStore())

	resp, err := svc.Search(context.Background(), internship.SearchRequest{})
	require.NoError(t, err)
	assert.Equal(t, 1, resp.Page)
	assert.Equal(t, 20, resp.Limit)
	assert.Equal(t, 3, resp.TotalCount)
	assert.False(t, resp.HasMore)
	assert.Len(t, resp.Internships, 3)
}

func TestMatcherService_SearchRanksAndPages(t *testing.T) {
	svc := NewMatcherService(&fakePostingStore{postings: samplePostings()}, newFakeProfileStore())

	resp, err := svc.Search(context.Background(), internship.SearchRequest{
		Location: "bengaluru",
		Skills:   []string{"go", "sql"},
		Page:     intPtr(1),
		Limit:    intPtr(1),
	})
	require.NoError(t, err)
	assert.Equal(t, 2, resp.TotalCount)
	assert.True(t, resp.HasMore)
	require.Len(t, resp.Internships, 1)
	assert.Equal(t, "p1", resp.Internships[0].Internship.ID)

	resp, err = svc.Search(context.Background(), internship.SearchRequest{
		Location: "bengaluru",
		Skills:   []string{"go", "sql"},
		Page:     intPtr(2),
		Limit:    intPtr(1),
	})
	require.NoError(t, err)
	require.Len(t, resp.Internships, 1)
	assert.Equal(t, "p3", resp.Internships[0].Internship.ID)
	assert.False(t, resp.HasMore)
}

func TestMatcherService_SearchHugePage(t *testing.T) {
	svc := NewMatcherService(&fakePostingStore{postings: samplePostings()}, newFakeProfileStore())

	var req internship.SearchRequest
	require.NoError(t, json.Unmarshal([]byte(`{"page": 4611686018427387904, "limit": 100}`), &req))

	var resp *internship.SearchResponse
	var err error
	require.NotPanics(t, func() { resp, err = svc.Search(context.Background(), req) })
	require.NoError(t, err)
	assert.Equal(t, 3, resp.TotalCount)
	assert.Empty(t, resp.Internships)
	assert.False(t, resp.HasMore)
}

func TestMatcherService_SearchRejectsBadInput(t *testing.T) {
	svc := NewMatcherService(&fakePostingStore{postings: samplePostings()}, newFakeProfileStore())

	cases := map[string]internship.SearchRequest{
		"page zero":      {Page: intPtr(0)},
		"limit zero":     {Limit: intPtr(0)},
		"limit too big":  {Limit: intPtr(101)},
		"negative min":   {MinStipend: intPtr(-1)},
		"negative max":   {MaxStipend: intPtr(-5)},
		"min above max":  {MinStipend: intPtr(20000), MaxStipend: intPtr(10000)},
		"location huge":  {Location: string(make([]byte, 101))},
	}
	for name, req := range cases {
		t.Run(name, func(t *testing.T) {
			_, err := svc.Search(context.Background(), req)
			assert.True(t, apperr.Is(err, apperr.KindValidation), "got %v", err)
		})
	}
}

func TestMatcherService_SearchStoreError(t *testing.T) {
	svc := NewMatcherService(&fakePostingStore{err: errFake}, newFakeProfileStore())

	_, err := svc.Search(context.Background(), internship.SearchRequest{})
	assert.True(t, apperr.Is(err, apperr.KindStore))
}

func TestMatcherService_Recommend(t *testing.T) {
	profiles := newFakeProfileStore(&user.Profile{
		ID:       testUserID,
		ClerkID:  testClerkID,
		Location: "Pune",
		Skills:   []string{"React"},
	})
	svc := NewMatcherService(&fakePostingStore{postings: samplePostings()}, profiles)

	resp, err := svc.Recommend(context.Background(), testClerkID, nil, nil)
	require.NoError(t, err)
	require.Len(t, resp.Internships, 1)
	assert.Equal(t, "p2", resp.Internships[0].Internship.ID)

	_, err = svc.Recommend(context.Background(), "user_unknown", nil, nil)
	assert.True(t, apperr.Is(err, apperr.KindNotFound))
}

func TestMatcherService_GetPosting(t *testing.T) {
	svc := NewMatcherService(&fakePostingStore{postings: samplePostings()}, newFakeProfileStore())

	p, err := svc.GetPosting(context.Background(), "p3")
	require.NoError(t, err)
	assert.Equal(t, "Data Intern", p.Title)

	_, err = svc.GetPosting(context.Background(), "nope")
	assert.True(t, apperr.Is(err, apperr.KindNotFound))
}
