package social

import (
	"context"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/iWorld-y/industry_radar/app/industry_radar/pkg/config"
	"github.com/iWorld-y/industry_radar/app/industry_radar/pkg/logger"
	"github.com/iWorld-y/industry_radar/app/industry_radar/pkg/model"
	"github.com/iWorld-y/industry_radar/app/industry_radar/pkg/scrape"
)

const (
	minSnippetRunes = 50
	snippetsPerPage = 5
)

// Company 公开主页
type Company struct {
	Name string
	URL  string
}

// Companies 制造业 / IIoT 公司的 LinkedIn 公开主页
var Companies = []Company{
	{Name: "Siemens Digital Industries", URL: "https://www.linkedin.com/company/siemens-digital-industries-software/posts/"},
	{Name: "Rockwell Automation", URL: "https://www.linkedin.com/company/rockwell-automation/posts/"},
	{Name: "GE Digital", URL: "https://www.linkedin.com/company/ge-digital/posts/"},
	{Name: "ABB", URL: "https://www.linkedin.com/company/abb/posts/"},
	{Name: "Schneider Electric", URL: "https://www.linkedin.com/company/schneider-electric/posts/"},
	{Name: "Honeywell", URL: "https://www.linkedin.com/company/honeywell/posts/"},
	{Name: "Bosch", URL: "https://www.linkedin.com/company/bosch/posts/"},
	{Name: "PTC", URL: "https://www.linkedin.com/company/ptc/posts/"},
}

// PublicCollector 抓取公司公开主页，把较长的文本行当作帖子
type PublicCollector struct {
	fetcher   scrape.TextFetcher
	companies []Company
	minDelay  time.Duration
	maxDelay  time.Duration
	sleep     func(ctx context.Context, d time.Duration) error
}

var _ Collector = (*PublicCollector)(nil)

// NewPublicCollector 创建公开页面采集器
func NewPublicCollector(fetcher scrape.TextFetcher, cfg config.SocialConfig) *PublicCollector {
	return &PublicCollector{
		fetcher:   fetcher,
		companies: Companies,
		minDelay:  time.Duration(cfg.MinDelayMs) * time.Millisecond,
		maxDelay:  time.Duration(cfg.MaxDelayMs) * time.Millisecond,
		sleep:     scrape.Sleep,
	}
}

// WithCompanies 替换公司列表
func (c *PublicCollector) WithCompanies(companies []Company) *PublicCollector {
	c.companies = companies
	return c
}

// WithSleep 替换等待函数
func (c *PublicCollector) WithSleep(sleep func(ctx context.Context, d time.Duration) error) *PublicCollector {
	c.sleep = sleep
	return c
}

// Collect 关键词不参与筛选；单个页面抓取失败只记录警告
func (c *PublicCollector) Collect(ctx context.Context, _ string) ([]model.SocialRecord, error) {
	var records []model.SocialRecord
	for i, company := range c.companies {
		logger.Log.Infof("检查 LinkedIn 公开主页: %s", company.Name)

		content, err := c.fetcher.FetchText(ctx, company.URL)
		if err != nil {
			logger.Log.Warnf("抓取 LinkedIn 主页失败 [%s]: %v", company.Name, err)
		} else {
			for _, line := range Snippets(content) {
				records = append(records, model.SocialRecord{
					SourceLabel: company.Name,
					Text:        line,
					URL:         company.URL,
				})
			}
		}

		if i < len(c.companies)-1 {
			if err := c.sleep(ctx, scrape.Jitter(c.minDelay, c.maxDelay)); err != nil {
				return records, err
			}
		}
	}
	return records, nil
}

// Snippets 取长度超过 50 的前 5 行
func Snippets(content string) []string {
	var out []string
	for _, line := range strings.Split(content, "\n") {
		if utf8.RuneCountInString(line) <= minSnippetRunes {
			continue
		}
		out = append(out, line)
		if len(out) == snippetsPerPage {
			break
		}
	}
	return out
}
