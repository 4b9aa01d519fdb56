package serpapi

import (
	"context"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/iWorld-y/industry_radar/app/industry_radar/pkg/search"
)

func TestClient_Search(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "serp-key", r.URL.Query().Get("api_key"))
		assert.Equal(t, "2", r.URL.Query().Get("num"))
		fmt.Fprint(w, `{"organic_results":[
			{"title":"One","link":"https://one.example","snippet":"s1"},
			{"title":"Two","link":"https://two.example","snippet":"s2"},
			{"title":"Three","link":"https://three.example","snippet":"s3"}
		]}`)
	}))
	defer srv.Close()

	resp, err := NewClient("serp-key").WithEndpoint(srv.URL).Search(context.Background(), &search.Request{Query: "iiot", MaxResults: 2})
	require.NoError(t, err)
	require.Len(t, resp.Results, 2)
	assert.Equal(t, "https://one.example", resp.Results[0].URL)
	assert.Equal(t, "s2", resp.Results[1].Content)
}

func TestClient_SearchError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusUnauthorized)
	}))
	defer srv.Close()

	_, err := NewClient("bad").WithEndpoint(srv.URL).Search(context.Background(), &search.Request{Query: "iiot"})
	assert.Error(t, err)
}
