package serpapi

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"time"

	"github.com/iWorld-y/industry_radar/app/industry_radar/pkg/failure"
	"github.com/iWorld-y/industry_radar/app/industry_radar/pkg/search"
)

const baseURL = "https://serpapi.com/search"

// Client SerpAPI 客户端，Tavily 不可用时的第二搜索源
type Client struct {
	apiKey   string
	endpoint string
	client   *http.Client
}

// NewClient 创建一个新的 SerpAPI 客户端
func NewClient(apiKey string) *Client {
	return &Client{
		apiKey:   apiKey,
		endpoint: baseURL,
		client:   &http.Client{Timeout: 30 * time.Second},
	}
}

// WithEndpoint 替换 API 地址
func (c *Client) WithEndpoint(endpoint string) *Client {
	c.endpoint = endpoint
	return c
}

var _ search.Searcher = (*Client)(nil)

type searchResponse struct {
	OrganicResults []organicResult `json:"organic_results"`
}

type organicResult struct {
	Title   string `json:"title"`
	Link    string `json:"link"`
	Snippet string `json:"snippet"`
	Date    string `json:"date"`
}

// Search 执行搜索
func (c *Client) Search(ctx context.Context, req *search.Request) (*search.Response, error) {
	if c.apiKey == "" {
		return nil, failure.CredentialMissing("serpapi")
	}
	u, err := url.Parse(c.endpoint)
	if err != nil {
		return nil, fmt.Errorf("invalid endpoint: %w", err)
	}
	q := u.Query()
	q.Set("q", req.Query)
	q.Set("api_key", c.apiKey)
	if req.MaxResults > 0 {
		q.Set("num", strconv.Itoa(req.MaxResults))
	}
	u.RawQuery = q.Encode()

	httpReq, err := http.NewRequestWithContext(ctx, http.MethodGet, u.String(), nil)
	if err != nil {
		return nil, fmt.Errorf("create request failed: %w", err)
	}

	res, err := c.client.Do(httpReq)
	if err != nil {
		return nil, failure.Upstream(err, "serpapi request failed")
	}
	defer res.Body.Close()

	if res.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(io.LimitReader(res.Body, 200))
		return nil, failure.Upstream(nil, "serpapi error (status %d): %s", res.StatusCode, string(body))
	}

	var sr searchResponse
	if err := json.NewDecoder(res.Body).Decode(&sr); err != nil {
		return nil, failure.Upstream(err, "serpapi decode response failed")
	}

	organic := sr.OrganicResults
	if req.MaxResults > 0 && len(organic) > req.MaxResults {
		organic = organic[:req.MaxResults]
	}

	results := make([]search.Result, 0, len(organic))
	for _, r := range organic {
		results = append(results, search.Result{
			Title:         r.Title,
			URL:           r.Link,
			Content:       r.Snippet,
			PublishedDate: r.Date,
		})
	}
	return &search.Response{Results: results}, nil
}
