// Package scrape 抓取网页并提取正文。
package scrape

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/PuerkitoBio/goquery"
	"github.com/go-shiori/go-readability"

	"github.com/iWorld-y/industry_radar/app/industry_radar/pkg/config"
	"github.com/iWorld-y/industry_radar/app/industry_radar/pkg/failure"
	"github.com/iWorld-y/industry_radar/app/industry_radar/pkg/fallback"
)

// DefaultUserAgent 抓取时使用的浏览器 UA
const DefaultUserAgent = "Mozilla/5.0 (Windows NT 10.0; Win64; x64) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/120.0.0.0 Safari/537.36"

// 单页最多读取 5MB
const maxBodyBytes = 5 << 20

var errEmpty = errors.New("no text extracted")

// TextFetcher 返回页面正文
type TextFetcher interface {
	FetchText(ctx context.Context, rawURL string) (string, error)
}

// Fetcher 基于 net/http 的页面抓取器
type Fetcher struct {
	client    *http.Client
	userAgent string
}

var _ TextFetcher = (*Fetcher)(nil)

// NewFetcher 创建抓取器
func NewFetcher(cfg config.ScrapeConfig) *Fetcher {
	timeout := time.Duration(cfg.Timeout) * time.Second
	if timeout <= 0 {
		timeout = 10 * time.Second
	}
	ua := cfg.UserAgent
	if ua == "" {
		ua = DefaultUserAgent
	}
	return &Fetcher{
		client:    &http.Client{Timeout: timeout},
		userAgent: ua,
	}
}

// FetchText 下载页面并提取正文：先用 readability，取不到再用 goquery 按标签提取
func (f *Fetcher) FetchText(ctx context.Context, rawURL string) (string, error) {
	u, err := url.Parse(rawURL)
	if err != nil {
		return "", failure.Upstream(err, "invalid url %q", rawURL)
	}

	body, err := f.download(ctx, u.String())
	if err != nil {
		return "", failure.Upstream(err, "fetch %s", rawURL)
	}

	text, _, err := fallback.Chain(ctx,
		fallback.Step[string]{
			Name: "readability",
			Run: func(context.Context) (string, error) {
				return nonEmpty(extractReadable(body, u))
			},
		},
		fallback.Step[string]{
			Name: "goquery",
			Run: func(context.Context) (string, error) {
				return nonEmpty(ExtractTags(bytes.NewReader(body)))
			},
		},
	)
	if err != nil {
		return "", failure.Upstream(err, "extract %s", rawURL)
	}
	return text, nil
}

func (f *Fetcher) download(ctx context.Context, target string) ([]byte, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, target, nil)
	if err != nil {
		return nil, fmt.Errorf("create request failed: %w", err)
	}
	req.Header.Set("User-Agent", f.userAgent)
	req.Header.Set("Accept", "text/html,application/xhtml+xml,application/xml;q=0.9,*/*;q=0.8")
	req.Header.Set("Accept-Language", "en-US,en;q=0.5")

	res, err := f.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("request failed: %w", err)
	}
	defer res.Body.Close()

	if res.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("unexpected status %d", res.StatusCode)
	}
	return io.ReadAll(io.LimitReader(res.Body, maxBodyBytes))
}

func extractReadable(body []byte, u *url.URL) (string, error) {
	article, err := readability.FromReader(bytes.NewReader(body), u)
	if err != nil {
		return "", err
	}
	return article.TextContent, nil
}

// ExtractTags 去掉 script/style/nav/footer/header 后，拼接段落、标题与列表项文本
func ExtractTags(r io.Reader) (string, error) {
	doc, err := goquery.NewDocumentFromReader(r)
	if err != nil {
		return "", err
	}
	doc.Find("script, style, nav, footer, header").Remove()

	var parts []string
	doc.Find("p, h1, h2, h3, h4, h5, h6, li").Each(func(_ int, s *goquery.Selection) {
		if t := strings.TrimSpace(s.Text()); t != "" {
			parts = append(parts, t)
		}
	})
	return strings.Join(parts, "\n\n"), nil
}

func nonEmpty(text string, err error) (string, error) {
	if err != nil {
		return "", err
	}
	text = strings.TrimSpace(text)
	if text == "" {
		return "", errEmpty
	}
	return text, nil
}
