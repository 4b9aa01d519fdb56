package tavily

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
	var got SearchRequest
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "Bearer key-1", r.Header.Get("Authorization"))
		require.NoError(t, json.NewDecoder(r.Body).Decode(&got))
		_ = json.NewEncoder(w).Encode(SearchResponse{Results: []SearchResult{
			{Title: "A", URL: "https://a.com", Content: "snippet a"},
			{Title: "B", URL: "https://b.com", Content: "snippet b"},
		}})
	}))
	defer srv.Close()

	c := NewClient("key-1").WithEndpoint(srv.URL)
	resp, err := c.Search(context.Background(), search.NewRequest("iiot, robotics", 7))
	require.NoError(t, err)

	assert.Equal(t, "iiot robotics"+search.QuerySuffix, got.Query)
	assert.Equal(t, "advanced", got.SearchDepth)
	assert.Equal(t, 7, got.MaxResults)
	assert.Len(t, got.IncludeDomains, 15)

	records := resp.Records()
	require.Len(t, records, 2)
	assert.Equal(t, "https://a.com", records[0].URL)
	assert.Equal(t, "snippet b", records[1].Content)
}

func TestClient_SearchStatusError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "quota exceeded", http.StatusTooManyRequests)
	}))
	defer srv.Close()

	_, err := NewClient("k").WithEndpoint(srv.URL).Search(context.Background(), &search.Request{Query: "x"})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "429")
}

func TestClient_SearchWithoutKey(t *testing.T) {
	_, err := NewClient("").Search(context.Background(), &search.Request{Query: "x"})
	assert.True(t, failure.Is(err, failure.ReasonCredentialMissing))
}
