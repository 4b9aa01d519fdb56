package scrape

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/iWorld-y/industry_radar/app/industry_radar/pkg/config"
	"github.com/iWorld-y/industry_radar/app/industry_radar/pkg/failure"
	"github.com/iWorld-y/industry_radar/app/industry_radar/pkg/model"
)

const articleSentence = "Predictive maintenance programs reduced unplanned downtime across discrete manufacturing plants."

func articlePage() string {
	var sb strings.Builder
	sb.WriteString(`<html><head><title>IIoT</title><script>var x = 1;</script></head><body>`)
	sb.WriteString(`<nav><a href="/">Home</a></nav><header>Site header</header><article><h1>Smart factories</h1>`)
	for i := 0; i < 6; i++ {
		fmt.Fprintf(&sb, "<p>%s Edge analytics and digital twins keep spreading, paragraph %d.</p>", articleSentence, i)
	}
	sb.WriteString(`</article><footer>Copyright</footer></body></html>`)
	return sb.String()
}

func TestExtractTags(t *testing.T) {
	html := `<html><body><nav><li>menu</li></nav><header><h1>brand</h1></header>
<h2>Trends</h2><p> first </p><p></p><ul><li>item</li></ul><script>alert(1)</script><footer><p>legal</p></footer></body></html>`

	text, err := ExtractTags(strings.NewReader(html))
	require.NoError(t, err)
	assert.Equal(t, "Trends\n\nfirst\n\nitem", text)
}

func TestFetcher_FetchText(t *testing.T) {
	var gotUA string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotUA = r.Header.Get("User-Agent")
		w.Header().Set("Content-Type", "text/html")
		_, _ = w.Write([]byte(articlePage()))
	}))
	defer srv.Close()

	f := NewFetcher(config.ScrapeConfig{Timeout: 5})
	text, err := f.FetchText(context.Background(), srv.URL+"/article")
	require.NoError(t, err)
	assert.Contains(t, text, articleSentence)
	assert.Equal(t, DefaultUserAgent, gotUA)
}

func TestFetcher_NonOKStatus(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusForbidden)
	}))
	defer srv.Close()

	_, err := NewFetcher(config.ScrapeConfig{}).FetchText(context.Background(), srv.URL)
	require.Error(t, err)
	assert.True(t, failure.Is(err, failure.ReasonUpstream))
}

func TestFetcher_NoText(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`<html><body><script>var a = 1;</script></body></html>`))
	}))
	defer srv.Close()

	_, err := NewFetcher(config.ScrapeConfig{}).FetchText(context.Background(), srv.URL)
	assert.Error(t, err)
}

type fakeFetcher struct {
	pages map[string]string
	calls []string
}

func (f *fakeFetcher) FetchText(_ context.Context, u string) (string, error) {
	f.calls = append(f.calls, u)
	if text, ok := f.pages[u]; ok {
		return text, nil
	}
	return "", errors.New("unreachable")
}

func TestScrapeSites(t *testing.T) {
	fetcher := &fakeFetcher{pages: map[string]string{
		"https://a.com": "content of a",
		"https://c.com": "",
	}}
	var sleeps []time.Duration
	s := NewScraper(fetcher, config.ScrapeConfig{MinDelayMs: 1000, MaxDelayMs: 2000}).
		WithSleep(func(_ context.Context, d time.Duration) error {
			sleeps = append(sleeps, d)
			return nil
		})

	got := s.ScrapeSites(context.Background(), []model.SourceRecord{
		{URL: "https://a.com", Title: "A"},
		{URL: "", Title: "no url"},
		{URL: "https://b.com", Title: "B"},
		{URL: "https://c.com", Title: "C"},
	}, 10)

	assert.Equal(t, []model.SourceRecord{{Title: "A", URL: "https://a.com", Content: "content of a"}}, got)
	assert.Equal(t, []string{"https://a.com", "https://b.com", "https://c.com"}, fetcher.calls)
	assert.Len(t, sleeps, 2)
	for _, d := range sleeps {
		assert.GreaterOrEqual(t, d, time.Second)
		assert.LessOrEqual(t, d, 2*time.Second)
	}
}

func TestScrapeSites_MaxSites(t *testing.T) {
	fetcher := &fakeFetcher{pages: map[string]string{"https://a.com": "a", "https://b.com": "b"}}
	s := NewScraper(fetcher, config.ScrapeConfig{}).
		WithSleep(func(context.Context, time.Duration) error { return nil })

	got := s.ScrapeSites(context.Background(), []model.SourceRecord{
		{URL: "https://a.com", Title: "A"},
		{URL: "https://b.com", Title: "B"},
	}, 1)
	assert.Len(t, got, 1)
	assert.Equal(t, []string{"https://a.com"}, fetcher.calls)
}

func TestScrapeSites_CancelStopsLoop(t *testing.T) {
	fetcher := &fakeFetcher{pages: map[string]string{"https://a.com": "a", "https://b.com": "b"}}
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	got := NewScraper(fetcher, config.ScrapeConfig{MinDelayMs: 10, MaxDelayMs: 10}).ScrapeSites(ctx, []model.SourceRecord{
		{URL: "https://a.com", Title: "A"},
		{URL: "https://b.com", Title: "B"},
	}, 10)
	assert.Len(t, got, 1)
	assert.Equal(t, []string{"https://a.com"}, fetcher.calls)
}

func TestJitter(t *testing.T) {
	assert.Equal(t, time.Second, Jitter(time.Second, time.Second))
	for i := 0; i < 20; i++ {
		d := Jitter(2*time.Second, 3*time.Second)
		assert.GreaterOrEqual(t, d, 2*time.Second)
		assert.LessOrEqual(t, d, 3*time.Second)
	}
}
