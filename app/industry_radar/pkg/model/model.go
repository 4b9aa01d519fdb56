package model

import "time"

// SourceRecord 搜索结果或抓取页面的统一结构
type SourceRecord struct {
	Title   string `json:"title"`
	URL     string `json:"url"`
	Content string `json:"content"` // 搜索摘要或抓取到的正文
}

// SocialRecord 社交媒体片段，API 与公开页面抓取产出的结构相同
type SocialRecord struct {
	SourceLabel string `json:"source_label"`
	Text        string `json:"text"`
	URL         string `json:"url"`
}

// CollectedData 单次运行采集到的原始数据，报告生成后丢弃
type CollectedData struct {
	SearchResults  []SourceRecord
	ScrapedContent []SourceRecord
	SocialMedia    []SocialRecord
}

// ProcessedData 分析阶段产物。字段为 nil 表示对应数据源无数据或 LLM 调用失败
type ProcessedData struct {
	WebsiteAnalysis       *string `json:"website_analysis,omitempty"`
	SocialMediaAnalysis   *string `json:"social_media_analysis,omitempty"`
	ComprehensiveInsights *string `json:"comprehensive_insights,omitempty"`
}

// Website 返回网站分析及其是否存在
func (p ProcessedData) Website() (string, bool) { return deref(p.WebsiteAnalysis) }

// Social 返回社交媒体分析及其是否存在
func (p ProcessedData) Social() (string, bool) { return deref(p.SocialMediaAnalysis) }

// Insights 返回综合洞察及其是否存在
func (p ProcessedData) Insights() (string, bool) { return deref(p.ComprehensiveInsights) }

func deref(s *string) (string, bool) {
	if s == nil {
		return "", false
	}
	return *s, true
}

// Text 返回指向 s 的指针
func Text(s string) *string { return &s }

// Source 报告引用来源
type Source struct {
	Title string `json:"title"`
	URL   string `json:"url"`
}

// RawData 报告附带的原始数据
type RawData struct {
	Keywords              string  `json:"keywords"`
	ComprehensiveInsights *string `json:"comprehensive_insights,omitempty"`
}

// Report 研究报告。六个文本字段始终存在，可能是占位文本
type Report struct {
	ID         int64     `json:"id"`
	Date       string    `json:"date"` // YYYY-MM-DD
	Title      string    `json:"title"`
	Summary    string    `json:"summary"`
	Trends     string    `json:"trends"`
	Challenges string    `json:"challenges"`
	Solutions  string    `json:"solutions"`
	Sources    []Source  `json:"sources"`
	RawData    RawData   `json:"raw_data"`
	CreatedAt  time.Time `json:"created_at"`
}

// DateLayout 报告日期格式
const DateLayout = time.DateOnly
