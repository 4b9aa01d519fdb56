package server

import (
	"context"
	"os"

	"github.com/go-kratos/kratos/v2/log"
	"github.com/joho/godotenv"

	"github.com/iWorld-y/industry_radar/app/display/internal/conf"
	"github.com/iWorld-y/industry_radar/app/industry_radar/pkg/config"
	"github.com/iWorld-y/industry_radar/app/industry_radar/pkg/engine"
	irLogger "github.com/iWorld-y/industry_radar/app/industry_radar/pkg/logger"
	"github.com/iWorld-y/industry_radar/app/industry_radar/pkg/storage"
	"github.com/iWorld-y/industry_radar/app/industry_radar/pkg/storage/factory"
)

// NewRadarEngine 初始化 industry_radar 引擎及其报告存储
func NewRadarEngine(c *conf.Radar, logger log.Logger) (*engine.Engine, storage.Store, func(), error) {
	helper := log.NewHelper(logger)

	_ = godotenv.Load()
	cfg := RadarConfig(c)
	config.ApplyEnv(cfg, os.Getenv)
	if err := cfg.Validate(); err != nil {
		return nil, nil, nil, err
	}

	// 初始化日志
	if err := irLogger.InitLogger(cfg.Log.Level, cfg.Log.File); err != nil {
		helper.Errorf("Failed to init industry_radar logger: %v", err)
		_ = irLogger.InitLogger("info", "") // 降级处理
	}

	ctx := context.Background()

	// 初始化存储层
	store, err := factory.Open(ctx, cfg.DB)
	if err != nil {
		helper.Errorf("Failed to init storage for engine: %v", err)
		return nil, nil, nil, err
	}

	// 初始化核心引擎
	eng, err := engine.NewEngine(ctx, cfg, store)
	if err != nil {
		helper.Errorf("Failed to init engine: %v", err)
		_ = store.Close()
		return nil, nil, nil, err
	}

	cleanup := func() {
		helper.Info("closing the report store")
		if err := store.Close(); err != nil {
			helper.Errorf("close report store: %v", err)
		}
	}
	return eng, store, cleanup, nil
}

// RadarConfig 将 conf.Radar 叠加到默认配置上，未填写的字段保留默认值
func RadarConfig(c *conf.Radar) *config.Config {
	cfg := config.Default()
	if c == nil {
		return cfg
	}

	if l := c.Llm; l != nil {
		setString(&cfg.LLM.BaseURL, l.BaseUrl)
		setString(&cfg.LLM.APIKey, l.ApiKey)
		setString(&cfg.LLM.Model, l.Model)
	}
	if s := c.Search; s != nil {
		setInt(&cfg.Search.MaxResults, s.MaxResults)
		if s.Tavily != nil {
			setString(&cfg.Search.Tavily.APIKey, s.Tavily.ApiKey)
		}
		if s.Serpapi != nil {
			setString(&cfg.Search.SerpAPI.APIKey, s.Serpapi.ApiKey)
		}
		if s.Searxng != nil {
			setString(&cfg.Search.SearXNG.BaseURL, s.Searxng.BaseUrl)
			setInt(&cfg.Search.SearXNG.Timeout, s.Searxng.Timeout)
		}
	}
	if s := c.Scrape; s != nil {
		setInt(&cfg.Scrape.Timeout, s.Timeout)
		setInt(&cfg.Scrape.MaxSites, s.MaxSites)
		setInt(&cfg.Scrape.MinDelayMs, s.MinDelayMs)
		setInt(&cfg.Scrape.MaxDelayMs, s.MaxDelayMs)
		setString(&cfg.Scrape.UserAgent, s.UserAgent)
	}
	if s := c.Social; s != nil {
		if s.Enabled != nil {
			cfg.Social.Enabled = *s.Enabled
		}
		if li := s.Linkedin; li != nil {
			setString(&cfg.Social.LinkedIn.ClientID, li.ClientId)
			setString(&cfg.Social.LinkedIn.ClientSecret, li.ClientSecret)
			setString(&cfg.Social.LinkedIn.AccessToken, li.AccessToken)
		}
		setInt(&cfg.Social.MinDelayMs, s.MinDelayMs)
		setInt(&cfg.Social.MaxDelayMs, s.MaxDelayMs)
		setInt(&cfg.Social.APIDelayMs, s.ApiDelayMs)
	}
	setString(&cfg.Research.Keywords, c.Keywords)
	if l := c.Log; l != nil {
		setString(&cfg.Log.Level, l.Level)
		setString(&cfg.Log.File, l.File)
	}
	if cc := c.Concurrency; cc != nil {
		setInt(&cfg.Concurrency.QPS, cc.Qps)
		setInt(&cfg.Concurrency.RPM, cc.Rpm)
	}
	if d := c.Db; d != nil {
		setString(&cfg.DB.Driver, d.Driver)
		setString(&cfg.DB.DSN, d.Dsn)
		setString(&cfg.DB.Path, d.Path)
		setString(&cfg.DB.Host, d.Host)
		setInt(&cfg.DB.Port, d.Port)
		setString(&cfg.DB.User, d.User)
		setString(&cfg.DB.Password, d.Password)
		setString(&cfg.DB.Name, d.Name)
	}
	return cfg
}

func setString(dst *string, v string) {
	if v != "" {
		*dst = v
	}
}

func setInt(dst *int, v int32) {
	if v != 0 {
		*dst = int(v)
	}
}
