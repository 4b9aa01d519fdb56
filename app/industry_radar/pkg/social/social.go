// Package social 采集制造业相关的社交媒体片段。
//
// 配置了完整的 LinkedIn API 凭证时按关键词查询帖子，否则（或 API 出错时）
// 退回到抓取若干公司公开主页。
package social

import (
	"context"

	"github.com/iWorld-y/industry_radar/app/industry_radar/pkg/config"
	"github.com/iWorld-y/industry_radar/app/industry_radar/pkg/fallback"
	"github.com/iWorld-y/industry_radar/app/industry_radar/pkg/logger"
	"github.com/iWorld-y/industry_radar/app/industry_radar/pkg/model"
	"github.com/iWorld-y/industry_radar/app/industry_radar/pkg/scrape"
)

// Collector 社交数据源
type Collector interface {
	Collect(ctx context.Context, keywords string) ([]model.SocialRecord, error)
}

// chainCollector API 路径失败时退回公开页面抓取，从不返回错误
type chainCollector struct {
	apiReady bool
	api      Collector
	public   Collector
}

// NewCollector 根据配置创建社交数据采集器
func NewCollector(cfg config.SocialConfig, fetcher scrape.TextFetcher) Collector {
	return NewChain(cfg.LinkedIn.Complete(), NewAPIClient(cfg), NewPublicCollector(fetcher, cfg))
}

// NewChain 组合 API 与公开页面两条路径
func NewChain(apiReady bool, api, public Collector) Collector {
	return &chainCollector{apiReady: apiReady, api: api, public: public}
}

// Collect implements Collector
func (c *chainCollector) Collect(ctx context.Context, keywords string) ([]model.SocialRecord, error) {
	records, name, err := fallback.Chain(ctx,
		fallback.Require(c.apiReady, "linkedin", fallback.Step[[]model.SocialRecord]{
			Name: "linkedin-api",
			Run: func(ctx context.Context) ([]model.SocialRecord, error) {
				return c.api.Collect(ctx, keywords)
			},
		}),
		fallback.Step[[]model.SocialRecord]{
			Name: "linkedin-public",
			Run: func(ctx context.Context) ([]model.SocialRecord, error) {
				return c.public.Collect(ctx, keywords)
			},
		},
	)
	if err != nil {
		logger.Log.Warnf("社交数据采集失败: %v", err)
		return nil, nil
	}
	logger.Log.Infof("社交数据采集完成 [%s]: %d 条", name, len(records))
	return records, nil
}
