package searxng

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/iWorld-y/industry_radar/app/industry_radar/pkg/failure"
	"github.com/iWorld-y/industry_radar/app/industry_radar/pkg/search"
)

func TestClient_Search(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/searx/search", r.URL.Path)
		assert.Equal(t, "json", r.URL.Query().Get("format"))
		assert.Equal(t, "general", r.URL.Query().Get("categories"))
		assert.Equal(t, "iiot"+search.QuerySuffix, r.URL.Query().Get("q"))
		assert.Contains(t, r.Header.Get("User-Agent"), "Mozilla/5.0")
		_ = json.NewEncoder(w).Encode(searchResponse{Results: []searchResult{
			{Title: "A", URL: "https://a.com", Content: "a"},
			{Title: "A again", URL: "https://a.com", Content: "dup"},
			{Title: "no url"},
			{Title: "B", URL: "https://b.com", Content: "b"},
			{Title: "C", URL: "https://c.com", Content: "c"},
		}})
	}))
	defer srv.Close()

	resp, err := NewClient(srv.URL+"/searx", 5).Search(context.Background(), search.NewRequest("iiot", 2))
	require.NoError(t, err)

	records := resp.Records()
	require.Len(t, records, 2)
	assert.Equal(t, "A", records[0].Title)
	assert.Equal(t, "https://b.com", records[1].URL)
}

func TestClient_SearchNewsCategory(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "news", r.URL.Query().Get("categories"))
		_, _ = w.Write([]byte(`{"results":[]}`))
	}))
	defer srv.Close()

	resp, err := NewClient(srv.URL, 0).Search(context.Background(), &search.Request{Query: "x", Topic: "news"})
	require.NoError(t, err)
	assert.Empty(t, resp.Results)
}

func TestClient_SearchStatusError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "too many requests", http.StatusTooManyRequests)
	}))
	defer srv.Close()

	_, err := NewClient(srv.URL, 1).Search(context.Background(), &search.Request{Query: "x"})
	require.Error(t, err)
	assert.True(t, failure.Is(err, failure.ReasonUpstream))
	assert.Contains(t, err.Error(), "429")
}
