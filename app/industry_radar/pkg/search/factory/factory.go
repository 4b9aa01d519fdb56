package factory

import (
	"context"

	"github.com/iWorld-y/industry_radar/app/industry_radar/pkg/config"
	"github.com/iWorld-y/industry_radar/app/industry_radar/pkg/curated"
	"github.com/iWorld-y/industry_radar/app/industry_radar/pkg/fallback"
	"github.com/iWorld-y/industry_radar/app/industry_radar/pkg/logger"
	"github.com/iWorld-y/industry_radar/app/industry_radar/pkg/search"
	"github.com/iWorld-y/industry_radar/app/industry_radar/pkg/searxng"
	"github.com/iWorld-y/industry_radar/app/industry_radar/pkg/serpapi"
	"github.com/iWorld-y/industry_radar/app/industry_radar/pkg/tavily"
)

// Provider 回退链中的一个搜索源
type Provider struct {
	Name       string
	Configured bool
	Searcher   search.Searcher
}

// chainSearcher 按顺序尝试各搜索源，最后总能退回到固定站点列表
type chainSearcher struct {
	providers []Provider
}

var _ search.Searcher = (*chainSearcher)(nil)

// NewSearcher 根据配置创建搜索实例：Tavily -> SerpAPI -> SearXNG -> 固定站点列表
func NewSearcher(cfg *config.Config) search.Searcher {
	providers := []Provider{
		{
			Name:       "tavily",
			Configured: cfg.Search.Tavily.APIKey != "",
			Searcher:   tavily.NewClient(cfg.Search.Tavily.APIKey),
		},
		{
			Name:       "serpapi",
			Configured: cfg.Search.SerpAPI.APIKey != "",
			Searcher:   serpapi.NewClient(cfg.Search.SerpAPI.APIKey),
		},
	}
	// SearXNG 为自建实例，未配置时不进入回退链
	if cfg.Search.SearXNG.BaseURL != "" {
		providers = append(providers, Provider{
			Name:       "searxng",
			Configured: true,
			Searcher:   searxng.NewClient(cfg.Search.SearXNG.BaseURL, cfg.Search.SearXNG.Timeout),
		})
	}
	return NewChain(providers...)
}

// NewChain 由任意搜索源构造回退链，固定站点列表总是追加在末尾
func NewChain(providers ...Provider) search.Searcher {
	return &chainSearcher{providers: providers}
}

// Search implements search.Searcher
func (c *chainSearcher) Search(ctx context.Context, req *search.Request) (*search.Response, error) {
	steps := make([]fallback.Step[*search.Response], 0, len(c.providers)+1)
	for _, p := range c.providers {
		p := p
		steps = append(steps, fallback.Require(p.Configured, p.Name, fallback.Step[*search.Response]{
			Name: p.Name,
			Run: func(ctx context.Context) (*search.Response, error) {
				return p.Searcher.Search(ctx, req)
			},
		}))
	}
	steps = append(steps, fallback.Step[*search.Response]{
		Name: "curated",
		Run: func(ctx context.Context) (*search.Response, error) {
			return curated.Searcher{}.Search(ctx, req)
		},
	})

	resp, name, err := fallback.Chain(ctx, steps...)
	if err != nil {
		return nil, err
	}
	logger.Log.Infof("搜索完成 [%s]: %d 条结果", name, len(resp.Results))
	return resp, nil
}
