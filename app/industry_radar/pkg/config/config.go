package config

import (
	"fmt"
	"os"
	"strconv"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"
)

// DefaultKeywords 研究任务的默认关键词
const DefaultKeywords = "manufacturing, IIoT, industrial automation, smart factory, industry 4.0, predictive maintenance"

// Config 项目配置结构体
type Config struct {
	LLM         LLMConfig         `yaml:"llm"`
	Search      SearchConfig      `yaml:"search"`
	Scrape      ScrapeConfig      `yaml:"scrape"`
	Social      SocialConfig      `yaml:"social"`
	Research    ResearchConfig    `yaml:"research"`
	Log         LogConfig         `yaml:"log"`
	Concurrency ConcurrencyConfig `yaml:"concurrency"`
	DB          DBConfig          `yaml:"db"`
}

// LLMConfig LLM 相关配置
type LLMConfig struct {
	BaseURL string `yaml:"base_url"`
	APIKey  string `yaml:"api_key"`
	Model   string `yaml:"model"`
}

// Enabled API Key 为空时视为未配置，流水线进入离线模式
func (c LLMConfig) Enabled() bool {
	return c.APIKey != ""
}

// SearchConfig 搜索相关配置
type SearchConfig struct {
	MaxResults int           `yaml:"max_results"`
	Tavily     TavilyConfig  `yaml:"tavily"`
	SerpAPI    SerpAPIConfig `yaml:"serpapi"`
	SearXNG    SearXNGConfig `yaml:"searxng"`
}

// TavilyConfig Tavily 配置
type TavilyConfig struct {
	APIKey string `yaml:"api_key"`
}

// SerpAPIConfig SerpAPI 配置
type SerpAPIConfig struct {
	APIKey string `yaml:"api_key"`
}

// SearXNGConfig SearXNG 配置
type SearXNGConfig struct {
	BaseURL string `yaml:"base_url"`
	Timeout int    `yaml:"timeout"`
}

// ScrapeConfig 网页抓取配置
type ScrapeConfig struct {
	Timeout    int    `yaml:"timeout"` // 秒
	MaxSites   int    `yaml:"max_sites"`
	MinDelayMs int    `yaml:"min_delay_ms"`
	MaxDelayMs int    `yaml:"max_delay_ms"`
	UserAgent  string `yaml:"user_agent"`
}

// SocialConfig 社交媒体采集配置
type SocialConfig struct {
	Enabled  bool           `yaml:"enabled"`
	LinkedIn LinkedInConfig `yaml:"linkedin"`
	// 公开页面抓取之间的等待区间
	MinDelayMs int `yaml:"min_delay_ms"`
	MaxDelayMs int `yaml:"max_delay_ms"`
	// API 调用之间的固定等待
	APIDelayMs int `yaml:"api_delay_ms"`
}

// LinkedInConfig LinkedIn API 凭证
type LinkedInConfig struct {
	ClientID     string `yaml:"client_id"`
	ClientSecret string `yaml:"client_secret"`
	AccessToken  string `yaml:"access_token"`
}

// Complete 三项凭证齐全才走 API 路径
func (c LinkedInConfig) Complete() bool {
	return c.ClientID != "" && c.ClientSecret != "" && c.AccessToken != ""
}

// ResearchConfig 研究任务默认参数
type ResearchConfig struct {
	Keywords string `yaml:"keywords"`
}

// LogConfig 日志相关配置
type LogConfig struct {
	Level string `yaml:"level"`
	File  string `yaml:"file"`
}

// ConcurrencyConfig LLM 调用限流配置
type ConcurrencyConfig struct {
	QPS int `yaml:"qps"`
	RPM int `yaml:"rpm"`
}

// DBConfig 数据库相关配置
type DBConfig struct {
	// Driver 可选 sqlite / postgres / pgx
	Driver   string `yaml:"driver"`
	DSN      string `yaml:"dsn"`
	Path     string `yaml:"path"`
	Host     string `yaml:"host"`
	Port     int    `yaml:"port"`
	User     string `yaml:"user"`
	Password string `yaml:"password"`
	Name     string `yaml:"name"`
}

// Source 返回连接串，DSN 优先
func (c DBConfig) Source() string {
	if c.DSN != "" {
		return c.DSN
	}
	switch c.Driver {
	case "postgres", "pgx":
		return fmt.Sprintf("host=%s port=%d user=%s password=%s dbname=%s sslmode=disable",
			c.Host, c.Port, c.User, c.Password, c.Name)
	default:
		return c.Path
	}
}

// Default 返回带默认值的配置
func Default() *Config {
	return &Config{
		LLM: LLMConfig{
			BaseURL: "https://generativelanguage.googleapis.com/v1beta/openai/",
			Model:   "gemini-2.0-flash",
		},
		Search: SearchConfig{
			MaxResults: 20,
			SearXNG:    SearXNGConfig{Timeout: 30},
		},
		Scrape: ScrapeConfig{
			Timeout:    10,
			MaxSites:   10,
			MinDelayMs: 1000,
			MaxDelayMs: 2000,
		},
		Social: SocialConfig{
			Enabled:    true,
			MinDelayMs: 2000,
			MaxDelayMs: 3000,
			APIDelayMs: 2000,
		},
		Research: ResearchConfig{Keywords: DefaultKeywords},
		Log:      LogConfig{Level: "info"},
		Concurrency: ConcurrencyConfig{
			QPS: 1,
			RPM: 60,
		},
		DB: DBConfig{
			Driver: "sqlite",
			Path:   "data/reports.db",
			Port:   5432,
		},
	}
}

// LoadConfig 从指定路径加载配置，文件中未出现的字段保留默认值
func LoadConfig(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}

	cfg := Default()
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, err
	}

	return cfg, nil
}

// Load 进程启动时调用一次：加载 .env、读取配置文件、叠加环境变量并校验。
// path 为空时只使用默认值与环境变量。
func Load(path string) (*Config, error) {
	// .env 不存在时忽略
	_ = godotenv.Load()

	cfg := Default()
	if path != "" {
		c, err := LoadConfig(path)
		if err != nil {
			return nil, fmt.Errorf("load config %s: %w", path, err)
		}
		cfg = c
	}

	ApplyEnv(cfg, os.Getenv)
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// ApplyEnv 用环境变量覆盖密钥类配置
func ApplyEnv(cfg *Config, getenv func(string) string) {
	set := func(dst *string, keys ...string) {
		for _, k := range keys {
			if v := getenv(k); v != "" {
				*dst = v
				return
			}
		}
	}

	set(&cfg.LLM.APIKey, "LLM_API_KEY", "GOOGLE_API_KEY")
	set(&cfg.LLM.BaseURL, "LLM_BASE_URL")
	set(&cfg.LLM.Model, "LLM_MODEL")
	set(&cfg.Search.Tavily.APIKey, "TAVILY_API_KEY")
	set(&cfg.Search.SerpAPI.APIKey, "SERPAPI_KEY")
	set(&cfg.Search.SearXNG.BaseURL, "SEARXNG_BASE_URL")
	set(&cfg.Social.LinkedIn.ClientID, "LINKEDIN_CLIENT_ID")
	set(&cfg.Social.LinkedIn.ClientSecret, "LINKEDIN_CLIENT_SECRET")
	set(&cfg.Social.LinkedIn.AccessToken, "LINKEDIN_ACCESS_TOKEN")
	set(&cfg.Log.Level, "LOG_LEVEL")

	if dsn := getenv("DATABASE_URL"); dsn != "" {
		cfg.DB.DSN = dsn
		if cfg.DB.Driver == "" || cfg.DB.Driver == "sqlite" {
			cfg.DB.Driver = "postgres"
		}
	}
	if v := getenv("DB_DRIVER"); v != "" {
		cfg.DB.Driver = v
	}
	if v := getenv("LLM_RPM"); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			cfg.Concurrency.RPM = n
		}
	}
}

// Validate 校验并修正配置
func (c *Config) Validate() error {
	c.Search.MaxResults = ClampResults(c.Search.MaxResults)
	c.Scrape.MaxSites = ClampSites(c.Scrape.MaxSites)

	if c.Scrape.Timeout <= 0 {
		c.Scrape.Timeout = 10
	}
	if c.Scrape.MaxDelayMs < c.Scrape.MinDelayMs {
		c.Scrape.MaxDelayMs = c.Scrape.MinDelayMs
	}
	if c.Social.MaxDelayMs < c.Social.MinDelayMs {
		c.Social.MaxDelayMs = c.Social.MinDelayMs
	}
	if c.Research.Keywords == "" {
		c.Research.Keywords = DefaultKeywords
	}

	switch c.DB.Driver {
	case "sqlite", "postgres", "pgx":
	case "":
		c.DB.Driver = "sqlite"
	default:
		return fmt.Errorf("unknown db driver: %s", c.DB.Driver)
	}
	return nil
}

// ClampResults 搜索结果数量限制在 5..50
func ClampResults(n int) int {
	return clamp(n, 5, 50, 20)
}

// ClampSites 抓取站点数量限制在 3..20
func ClampSites(n int) int {
	return clamp(n, 3, 20, 10)
}

func clamp(n, lo, hi, def int) int {
	if n == 0 {
		return def
	}
	if n < lo {
		return lo
	}
	if n > hi {
		return hi
	}
	return n
}
