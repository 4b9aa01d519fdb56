package scrape

import (
	"context"
	"math/rand/v2"
	"time"

	"github.com/iWorld-y/industry_radar/app/industry_radar/pkg/config"
	"github.com/iWorld-y/industry_radar/app/industry_radar/pkg/logger"
	"github.com/iWorld-y/industry_radar/app/industry_radar/pkg/model"
)

// Scraper 依次抓取搜索结果中的站点，请求之间随机等待
type Scraper struct {
	fetcher  TextFetcher
	minDelay time.Duration
	maxDelay time.Duration
	sleep    func(ctx context.Context, d time.Duration) error
}

// NewScraper 创建站点抓取器
func NewScraper(fetcher TextFetcher, cfg config.ScrapeConfig) *Scraper {
	return &Scraper{
		fetcher:  fetcher,
		minDelay: time.Duration(cfg.MinDelayMs) * time.Millisecond,
		maxDelay: time.Duration(cfg.MaxDelayMs) * time.Millisecond,
		sleep:    Sleep,
	}
}

// WithSleep 替换等待函数
func (s *Scraper) WithSleep(sleep func(ctx context.Context, d time.Duration) error) *Scraper {
	s.sleep = sleep
	return s
}

// ScrapeSites 抓取前 maxSites 条结果。url 为空的跳过，抓取失败或无正文的丢弃
func (s *Scraper) ScrapeSites(ctx context.Context, results []model.SourceRecord, maxSites int) []model.SourceRecord {
	if maxSites >= 0 && len(results) > maxSites {
		results = results[:maxSites]
	}

	var scraped []model.SourceRecord
	for i, r := range results {
		if r.URL == "" {
			continue
		}
		logger.Log.Infof("抓取 %d/%d: %s", i+1, len(results), truncate(r.Title, 50))

		content, err := s.fetcher.FetchText(ctx, r.URL)
		if err != nil {
			logger.Log.Warnf("抓取失败 [%s]: %v", r.URL, err)
		} else if content != "" {
			scraped = append(scraped, model.SourceRecord{
				Title:   r.Title,
				URL:     r.URL,
				Content: content,
			})
		}

		if i == len(results)-1 {
			break
		}
		if err := s.sleep(ctx, Jitter(s.minDelay, s.maxDelay)); err != nil {
			logger.Log.Warnf("抓取中断: %v", err)
			break
		}
	}

	logger.Log.Infof("完成抓取 %d 个站点", len(scraped))
	return scraped
}

// Jitter 返回 [min, max] 内的随机时长
func Jitter(lo, hi time.Duration) time.Duration {
	if hi <= lo {
		return lo
	}
	return lo + rand.N(hi-lo+1)
}

// Sleep 等待 d，ctx 取消时提前返回
func Sleep(ctx context.Context, d time.Duration) error {
	if d <= 0 {
		return ctx.Err()
	}
	t := time.NewTimer(d)
	defer t.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-t.C:
		return nil
	}
}

func truncate(s string, n int) string {
	r := []rune(s)
	if len(r) <= n {
		return s
	}
	return string(r[:n]) + "..."
}
