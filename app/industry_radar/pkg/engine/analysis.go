package engine

import (
	"context"
	"fmt"
	"strings"

	"github.com/iWorld-y/industry_radar/app/industry_radar/pkg/fallback"
	"github.com/iWorld-y/industry_radar/app/industry_radar/pkg/logger"
	"github.com/iWorld-y/industry_radar/app/industry_radar/pkg/model"
	"github.com/iWorld-y/industry_radar/app/industry_radar/pkg/oracle"
	"github.com/iWorld-y/industry_radar/app/industry_radar/pkg/textsplit"
)

// 直接调用时网站内容的截断长度
const directAnalysisCap = 100000

// Analyzer 把抓取内容与社交内容分别交给 LLM 分析
type Analyzer struct {
	oracle   oracle.Oracle
	splitter *textsplit.Splitter
}

// NewAnalyzer 创建分析器，切分参数 10000 / 1000
func NewAnalyzer(o oracle.Oracle) *Analyzer {
	return &Analyzer{oracle: o, splitter: textsplit.Default()}
}

// Analyze 两个字段互不影响；对应输入为空或 LLM 全部失败时字段缺省
func (a *Analyzer) Analyze(ctx context.Context, scraped []model.SourceRecord, social []model.SocialRecord) model.ProcessedData {
	var pd model.ProcessedData

	if len(scraped) > 0 {
		logger.Log.Info("分析网站内容...")
		if text, ok := a.analyzeWebsites(ctx, scraped); ok {
			pd.WebsiteAnalysis = model.Text(text)
		}
	}

	if len(social) > 0 {
		logger.Log.Info("分析社交媒体内容...")
		text, err := a.oracle.Complete(ctx, socialAnalysisPrompt.Render(SocialDocument(social)))
		if err != nil {
			logger.Log.Warnf("社交媒体分析失败: %v", err)
		} else {
			pd.SocialMediaAnalysis = model.Text(text)
		}
	}

	return pd
}

// analyzeWebsites 先 map-reduce，失败后退回单次截断调用
func (a *Analyzer) analyzeWebsites(ctx context.Context, scraped []model.SourceRecord) (string, bool) {
	doc := WebsiteDocument(scraped)

	text, _, err := fallback.Chain(ctx,
		fallback.Step[string]{
			Name: "map-reduce",
			Run: func(ctx context.Context) (string, error) {
				chunks, err := a.splitter.Split(doc)
				if err != nil {
					return "", err
				}
				return a.oracle.MapReduceSummarize(ctx, chunks, websiteAnalysisPrompt, websiteAnalysisPrompt)
			},
		},
		fallback.Step[string]{
			Name: "direct",
			Run: func(ctx context.Context) (string, error) {
				return a.oracle.Complete(ctx, websiteAnalysisPrompt.Render(truncate(doc, directAnalysisCap)))
			},
		},
	)
	if err != nil {
		logger.Log.Warnf("网站内容分析失败: %v", err)
		return "", false
	}
	return text, true
}

// WebsiteDocument 拼接抓取内容
func WebsiteDocument(scraped []model.SourceRecord) string {
	var sb strings.Builder
	for _, r := range scraped {
		fmt.Fprintf(&sb, "Source: %s (%s)\n\n%s\n\n---\n\n", r.Title, r.URL, r.Content)
	}
	return sb.String()
}

// SocialDocument 拼接社交内容
func SocialDocument(social []model.SocialRecord) string {
	var sb strings.Builder
	for _, r := range social {
		label := r.SourceLabel
		if label == "" {
			label = "LinkedIn"
		}
		fmt.Fprintf(&sb, "Source: %s\n%s\n\n---\n\n", label, r.Text)
	}
	return sb.String()
}

// truncate 按 rune 截断
func truncate(s string, n int) string {
	if n <= 0 {
		return ""
	}
	i := 0
	for pos := range s {
		if i == n {
			return s[:pos]
		}
		i++
	}
	return s
}
