package conf

type Bootstrap struct {
	Server *Server
	Radar  *Radar
}

type Server struct {
	Http *HTTP
}

type HTTP struct {
	Addr    string
	Timeout string
}

// Radar 行业雷达引擎配置，字段为空时使用默认值
type Radar struct {
	Llm         *LLM         `json:"llm"`
	Search      *Search      `json:"search"`
	Scrape      *Scrape      `json:"scrape"`
	Social      *Social      `json:"social"`
	Keywords    string       `json:"keywords"`
	Log         *Log         `json:"log"`
	Concurrency *Concurrency `json:"concurrency"`
	Db          *DB          `json:"db"`
}

type LLM struct {
	BaseUrl string `json:"base_url"`
	ApiKey  string `json:"api_key"`
	Model   string `json:"model"`
}

type Search struct {
	MaxResults int32    `json:"max_results"`
	Tavily     *APIKey  `json:"tavily"`
	Serpapi    *APIKey  `json:"serpapi"`
	Searxng    *SearXNG `json:"searxng"`
}

type APIKey struct {
	ApiKey string `json:"api_key"`
}

type SearXNG struct {
	BaseUrl string `json:"base_url"`
	Timeout int32  `json:"timeout"`
}

type Scrape struct {
	Timeout    int32  `json:"timeout"`
	MaxSites   int32  `json:"max_sites"`
	MinDelayMs int32  `json:"min_delay_ms"`
	MaxDelayMs int32  `json:"max_delay_ms"`
	UserAgent  string `json:"user_agent"`
}

type Social struct {
	// Enabled 为 nil 时保持默认开启
	Enabled    *bool     `json:"enabled"`
	Linkedin   *LinkedIn `json:"linkedin"`
	MinDelayMs int32     `json:"min_delay_ms"`
	MaxDelayMs int32     `json:"max_delay_ms"`
	ApiDelayMs int32     `json:"api_delay_ms"`
}

type LinkedIn struct {
	ClientId     string `json:"client_id"`
	ClientSecret string `json:"client_secret"`
	AccessToken  string `json:"access_token"`
}

type Log struct {
	Level string `json:"level"`
	File  string `json:"file"`
}

type Concurrency struct {
	Qps int32 `json:"qps"`
	Rpm int32 `json:"rpm"`
}

type DB struct {
	Driver   string `json:"driver"`
	Dsn      string `json:"dsn"`
	Path     string `json:"path"`
	Host     string `json:"host"`
	Port     int32  `json:"port"`
	User     string `json:"user"`
	Password string `json:"password"`
	Name     string `json:"name"`
}
