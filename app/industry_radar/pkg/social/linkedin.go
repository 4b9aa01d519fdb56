package social

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"time"

	"github.com/iWorld-y/industry_radar/app/industry_radar/pkg/config"
	"github.com/iWorld-y/industry_radar/app/industry_radar/pkg/failure"
	"github.com/iWorld-y/industry_radar/app/industry_radar/pkg/logger"
	"github.com/iWorld-y/industry_radar/app/industry_radar/pkg/model"
	"github.com/iWorld-y/industry_radar/app/industry_radar/pkg/scrape"
	"github.com/iWorld-y/industry_radar/app/industry_radar/pkg/search"
)

const (
	postsURL        = "https://api.linkedin.com/v2/posts"
	postURLTemplate = "https://www.linkedin.com/feed/update/%s"
	maxAPIKeywords  = 3
	postsPerKeyword = 10
)

// APIClient LinkedIn 帖子搜索客户端
type APIClient struct {
	token    string
	endpoint string
	delay    time.Duration
	client   *http.Client
	sleep    func(ctx context.Context, d time.Duration) error
}

var _ Collector = (*APIClient)(nil)

// NewAPIClient 创建 LinkedIn API 客户端
func NewAPIClient(cfg config.SocialConfig) *APIClient {
	return &APIClient{
		token:    cfg.LinkedIn.AccessToken,
		endpoint: postsURL,
		delay:    time.Duration(cfg.APIDelayMs) * time.Millisecond,
		client:   &http.Client{Timeout: 30 * time.Second},
		sleep:    scrape.Sleep,
	}
}

// WithEndpoint 替换 API 地址
func (c *APIClient) WithEndpoint(endpoint string) *APIClient {
	c.endpoint = endpoint
	return c
}

// WithSleep 替换等待函数
func (c *APIClient) WithSleep(sleep func(ctx context.Context, d time.Duration) error) *APIClient {
	c.sleep = sleep
	return c
}

type postsResponse struct {
	Elements []post `json:"elements"`
}

type post struct {
	ID     string `json:"id"`
	Author string `json:"author"`
	Text   struct {
		Text string `json:"text"`
	} `json:"text"`
}

// Collect 对前 3 个关键词各查询一次。单个关键词返回非 200 时跳过，网络错误时整体失败
func (c *APIClient) Collect(ctx context.Context, keywords string) ([]model.SocialRecord, error) {
	terms := search.SplitKeywords(keywords)
	if len(terms) > maxAPIKeywords {
		terms = terms[:maxAPIKeywords]
	}

	var records []model.SocialRecord
	for i, term := range terms {
		posts, err := c.searchPosts(ctx, term)
		if err != nil {
			return nil, failure.Upstream(err, "linkedin search %q", term)
		}
		for _, p := range posts {
			records = append(records, model.SocialRecord{
				SourceLabel: "LinkedIn",
				Text:        p.Text.Text,
				URL:         fmt.Sprintf(postURLTemplate, p.ID),
			})
		}
		if i < len(terms)-1 {
			if err := c.sleep(ctx, c.delay); err != nil {
				return nil, err
			}
		}
	}
	return records, nil
}

func (c *APIClient) searchPosts(ctx context.Context, term string) ([]post, error) {
	u, err := url.Parse(c.endpoint)
	if err != nil {
		return nil, fmt.Errorf("invalid endpoint: %w", err)
	}
	q := u.Query()
	q.Set("q", "search?keywords="+term)
	q.Set("count", strconv.Itoa(postsPerKeyword))
	u.RawQuery = q.Encode()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u.String(), nil)
	if err != nil {
		return nil, fmt.Errorf("create request failed: %w", err)
	}
	req.Header.Set("Authorization", "Bearer "+c.token)
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("X-Restli-Protocol-Version", "2.0.0")

	res, err := c.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("request failed: %w", err)
	}
	defer res.Body.Close()

	if res.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(res.Body)
		logger.Log.Warnf("linkedin api 返回 %d [%s]: %s", res.StatusCode, term, string(body))
		return nil, nil
	}

	var pr postsResponse
	if err := json.NewDecoder(res.Body).Decode(&pr); err != nil {
		return nil, fmt.Errorf("decode response failed: %w", err)
	}
	return pr.Elements, nil
}
