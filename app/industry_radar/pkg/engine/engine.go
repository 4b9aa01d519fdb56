package engine

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/iWorld-y/industry_radar/app/industry_radar/pkg/config"
	"github.com/iWorld-y/industry_radar/app/industry_radar/pkg/failure"
	"github.com/iWorld-y/industry_radar/app/industry_radar/pkg/logger"
	"github.com/iWorld-y/industry_radar/app/industry_radar/pkg/model"
	"github.com/iWorld-y/industry_radar/app/industry_radar/pkg/oracle"
	"github.com/iWorld-y/industry_radar/app/industry_radar/pkg/scrape"
	"github.com/iWorld-y/industry_radar/app/industry_radar/pkg/search"
	"github.com/iWorld-y/industry_radar/app/industry_radar/pkg/search/factory"
	"github.com/iWorld-y/industry_radar/app/industry_radar/pkg/social"
	"github.com/iWorld-y/industry_radar/app/industry_radar/pkg/storage"
)

// SiteScraper 抓取搜索结果页面
type SiteScraper interface {
	ScrapeSites(ctx context.Context, results []model.SourceRecord, maxSites int) []model.SourceRecord
}

// Engine 核心处理引擎：搜索 -> 抓取 -> 社交数据 -> 分析与综合 -> 报告与存储
type Engine struct {
	cfg      *config.Config
	store    storage.Store
	searcher search.Searcher
	scraper  SiteScraper
	social   social.Collector
	oracle   oracle.Oracle
}

// Deps 引擎依赖。Oracle 为 nil 表示未配置 LLM；Store 为 nil 时不保存报告
type Deps struct {
	Searcher search.Searcher
	Scraper  SiteScraper
	Social   social.Collector
	Oracle   oracle.Oracle
	Store    storage.Store
}

// NewEngine 按配置创建引擎实例
func NewEngine(ctx context.Context, cfg *config.Config, store storage.Store) (*Engine, error) {
	fetcher := scrape.NewFetcher(cfg.Scrape)

	deps := Deps{
		Searcher: factory.NewSearcher(cfg),
		Scraper:  scrape.NewScraper(fetcher, cfg.Scrape),
		Social:   social.NewCollector(cfg.Social, fetcher),
		Store:    store,
	}

	// 初始化 LLM
	o, err := oracle.New(ctx, cfg)
	switch {
	case err == nil:
		deps.Oracle = o
	case failure.Is(err, failure.ReasonCredentialMissing):
		logger.Log.Warn("未配置 LLM API Key，将跳过分析并生成简化报告")
	default:
		return nil, err
	}

	return New(cfg, deps), nil
}

// New 使用给定依赖创建引擎
func New(cfg *config.Config, deps Deps) *Engine {
	return &Engine{
		cfg:      cfg,
		store:    deps.Store,
		searcher: deps.Searcher,
		scraper:  deps.Scraper,
		social:   deps.Social,
		oracle:   deps.Oracle,
	}
}

// RunOptions 运行选项，零值字段使用配置中的默认值
type RunOptions struct {
	Keywords         string
	MaxResults       int
	MaxSites         int
	IncludeSocial    bool
	ProgressCallback func(status string, progress int)
}

// RunResult 一次运行的结果
type RunResult struct {
	RunID     string
	Report    *model.Report
	ReportID  int64
	State     State
	Collected model.CollectedData
	Processed model.ProcessedData
}

// Run 执行一次研究任务。
//
// 各阶段的失败都在阶段内降级，Run 总会返回完整的报告；
// 只有保存失败时返回 PERSISTENCE_FAILURE 错误，此时 ReportID 为 storage.InvalidID。
func (e *Engine) Run(ctx context.Context, opts RunOptions) (*RunResult, error) {
	keywords := opts.Keywords
	if keywords == "" {
		keywords = e.cfg.Research.Keywords
	}
	maxResults := config.ClampResults(opts.MaxResults)
	if opts.MaxResults == 0 {
		maxResults = config.ClampResults(e.cfg.Search.MaxResults)
	}
	maxSites := config.ClampSites(opts.MaxSites)
	if opts.MaxSites == 0 {
		maxSites = config.ClampSites(e.cfg.Scrape.MaxSites)
	}

	res := &RunResult{RunID: uuid.NewString(), ReportID: storage.InvalidID}
	log := logger.Log.WithField("run_id", res.RunID)
	log.Infof("开始研究任务: keywords=%q results=%d sites=%d social=%v", keywords, maxResults, maxSites, opts.IncludeSocial)
	progress := func(status string, p int) {
		log.Infof("[%d%%] %s", p, status)
		if opts.ProgressCallback != nil {
			opts.ProgressCallback(status, p)
		}
	}
	start := time.Now()

	// 1. 搜索
	resp, err := e.searcher.Search(ctx, search.NewRequest(keywords, maxResults))
	if err != nil {
		log.Warnf("搜索失败: %v", err)
	}
	res.Collected.SearchResults = resp.Records()
	progress(fmt.Sprintf("found %d search results", len(res.Collected.SearchResults)), 20)

	// 2. 抓取
	res.Collected.ScrapedContent = e.scraper.ScrapeSites(ctx, res.Collected.SearchResults, maxSites)
	progress(fmt.Sprintf("scraped %d websites", len(res.Collected.ScrapedContent)), 40)

	// 3. 社交数据
	if opts.IncludeSocial && e.cfg.Social.Enabled && e.social != nil {
		records, err := e.social.Collect(ctx, keywords)
		if err != nil {
			log.Warnf("社交数据采集失败: %v", err)
		}
		res.Collected.SocialMedia = records
	}
	progress(fmt.Sprintf("collected %d social media posts", len(res.Collected.SocialMedia)), 60)

	// 4. 分析与综合
	if e.oracle != nil {
		pd := NewAnalyzer(e.oracle).Analyze(ctx, res.Collected.ScrapedContent, res.Collected.SocialMedia)
		pd.ComprehensiveInsights = model.Text(Synthesize(ctx, e.oracle, pd))
		res.Processed = pd
	} else {
		log.Warn("未配置 LLM，跳过分析")
	}
	progress("analysis complete", 80)

	// 5. 生成报告并保存
	report, state := NewAssembler(e.oracle).Assemble(ctx, res.Processed, res.Collected.ScrapedContent, keywords)
	res.Report = report
	res.State = state

	if e.store != nil {
		id, err := e.store.Save(ctx, report)
		if err != nil {
			log.Errorf("保存报告失败: %v", err)
			progress("report generated but not saved", 100)
			return res, err
		}
		res.ReportID = id
	}
	progress("completed", 100)
	log.Infof("研究任务完成 [%s]，报告 id=%d，耗时 %s", state, res.ReportID, time.Since(start).Round(time.Millisecond))
	return res, nil
}
