package search

import (
	"context"
	"strings"

	"github.com/iWorld-y/industry_radar/app/industry_radar/pkg/model"
)

// QuerySuffix 追加到每次搜索查询后的行业限定词
const QuerySuffix = " manufacturing industry IIoT trends challenges solutions"

// IndustryDomains Tavily 搜索限定的行业站点
var IndustryDomains = []string{
	"industryweek.com", "iiot-world.com", "iotworldtoday.com",
	"manufacturingtomorrow.com", "machinedesign.com", "automationworld.com",
	"manufacturing.net", "forbes.com", "mckinsey.com", "gartner.com",
	"pwc.com", "deloitte.com", "idc.com", "forrester.com", "capgemini.com",
}

// Searcher 定义通用的搜索接口
type Searcher interface {
	Search(ctx context.Context, req *Request) (*Response, error)
}

// Request 通用搜索请求
type Request struct {
	Query             string
	Topic             string // "news" or "general"
	SearchDepth       string // "basic" or "advanced"
	MaxResults        int
	IncludeRawContent bool
	IncludeDomains    []string
	StartDate         string // Format: YYYY-MM-DD
	EndDate           string // Format: YYYY-MM-DD
}

// Response 通用搜索响应
type Response struct {
	Results []Result
}

// Result 单条搜索结果
type Result struct {
	Title         string
	URL           string
	Content       string
	RawContent    string
	Score         float64
	PublishedDate string
}

// Records 转换为流水线统一的 SourceRecord
func (r *Response) Records() []model.SourceRecord {
	if r == nil {
		return nil
	}
	out := make([]model.SourceRecord, 0, len(r.Results))
	for _, res := range r.Results {
		out = append(out, model.SourceRecord{
			Title:   res.Title,
			URL:     res.URL,
			Content: res.Content,
		})
	}
	return out
}

// SplitKeywords 按逗号拆分关键词并去除空白
func SplitKeywords(keywords string) []string {
	var out []string
	for _, kw := range strings.Split(keywords, ",") {
		if kw = strings.TrimSpace(kw); kw != "" {
			out = append(out, kw)
		}
	}
	return out
}

// BuildQuery 由逗号分隔的关键词构造行业搜索查询
func BuildQuery(keywords string) string {
	return strings.Join(SplitKeywords(keywords), " ") + QuerySuffix
}

// NewRequest 构造一次行业研究搜索请求
func NewRequest(keywords string, maxResults int) *Request {
	return &Request{
		Query:          BuildQuery(keywords),
		Topic:          "general",
		SearchDepth:    "advanced",
		MaxResults:     maxResults,
		IncludeDomains: IndustryDomains,
	}
}
