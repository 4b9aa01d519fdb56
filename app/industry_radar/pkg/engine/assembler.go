package engine

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/iWorld-y/industry_radar/app/industry_radar/pkg/logger"
	"github.com/iWorld-y/industry_radar/app/industry_radar/pkg/model"
	"github.com/iWorld-y/industry_radar/app/industry_radar/pkg/oracle"
)

// 各段生成时的输入截断长度
const (
	summaryInputCap    = 5000
	trendsInputCap     = 3000
	challengesInputCap = 2500
	solutionsInputCap  = 3000
	simplifiedTrendCap = 1000
)

// State 报告生成所走的路径
type State int

const (
	// StateFull 所有 LLM 调用成功
	StateFull State = iota
	// StateDegraded 配置了 LLM 但有调用失败，整份报告走简化路径
	StateDegraded
	// StateOffline 未配置 LLM
	StateOffline
)

func (s State) String() string {
	switch s {
	case StateFull:
		return "full"
	case StateDegraded:
		return "degraded"
	case StateOffline:
		return "offline"
	default:
		return fmt.Sprintf("State(%d)", int(s))
	}
}

// DefaultTitle 无法由 LLM 生成标题时使用
func DefaultTitle(date string) string {
	return "Manufacturing & IIoT Industry Research Report - " + date
}

// Assembler 生成五段式报告，总是返回完整的 Report
type Assembler struct {
	oracle oracle.Oracle
	now    func() time.Time
}

// NewAssembler o 为 nil 时只走简化路径
func NewAssembler(o oracle.Oracle) *Assembler {
	return &Assembler{oracle: o, now: time.Now}
}

// Assemble 先尝试五次 LLM 调用；任一失败则整份报告改用简化路径
func (a *Assembler) Assemble(ctx context.Context, pd model.ProcessedData, scraped []model.SourceRecord, keywords string) (*model.Report, State) {
	date := a.now().Format(model.DateLayout)

	if a.oracle == nil {
		logger.Log.Warn("未配置 LLM，使用简化报告")
		return Simplified(pd, scraped, keywords, date), StateOffline
	}

	report, err := a.full(ctx, pd, keywords, date)
	if err != nil {
		logger.Log.Warnf("报告生成失败，改用简化报告: %v", err)
		return Simplified(pd, scraped, keywords, date), StateDegraded
	}
	report.Sources = BuildSources(scraped)
	return report, StateFull
}

func (a *Assembler) full(ctx context.Context, pd model.ProcessedData, keywords, date string) (*model.Report, error) {
	insights, _ := pd.Insights()
	website, _ := pd.Website()
	social, _ := pd.Social()

	title, err := a.oracle.Complete(ctx, titlePrompt(date, keywords))
	if err != nil {
		return nil, fmt.Errorf("title: %w", err)
	}
	summary, err := a.oracle.Complete(ctx, summaryPrompt(keywords, truncate(insights, summaryInputCap)))
	if err != nil {
		return nil, fmt.Errorf("summary: %w", err)
	}
	trends, err := a.oracle.Complete(ctx, trendsPrompt(
		truncate(website, trendsInputCap),
		truncate(insights, trendsInputCap),
	))
	if err != nil {
		return nil, fmt.Errorf("trends: %w", err)
	}
	challenges, err := a.oracle.Complete(ctx, challengesPrompt(
		truncate(website, challengesInputCap),
		truncate(social, challengesInputCap),
		truncate(insights, challengesInputCap),
	))
	if err != nil {
		return nil, fmt.Errorf("challenges: %w", err)
	}
	solutions, err := a.oracle.Complete(ctx, solutionsPrompt(
		truncate(insights, solutionsInputCap),
		truncate(website, solutionsInputCap),
	))
	if err != nil {
		return nil, fmt.Errorf("solutions: %w", err)
	}

	title = firstNonEmptyLine(title)
	if title == "" {
		title = DefaultTitle(date)
	}

	return &model.Report{
		Date:       date,
		Title:      title,
		Summary:    summary,
		Trends:     trends,
		Challenges: challenges,
		Solutions:  solutions,
		RawData: model.RawData{
			Keywords:              keywords,
			ComprehensiveInsights: pd.ComprehensiveInsights,
		},
	}, nil
}

// Simplified 不调用 LLM，由已有的分析文本拼出报告
func Simplified(pd model.ProcessedData, scraped []model.SourceRecord, keywords, date string) *model.Report {
	var s Sections
	if insights, ok := pd.Insights(); ok && insights != "" {
		s = SplitSections(insights)
	} else {
		s = Sections{
			Summary:    NoSummary,
			Trends:     NoTrends,
			Challenges: NoChallenges,
			Solutions:  NoSolutions,
		}
		if website, ok := pd.Website(); ok && website != "" {
			s.Trends = truncate(website, simplifiedTrendCap)
		}
	}

	return &model.Report{
		Date:       date,
		Title:      DefaultTitle(date),
		Summary:    s.Summary,
		Trends:     s.Trends,
		Challenges: s.Challenges,
		Solutions:  s.Solutions,
		Sources:    BuildSources(scraped),
		RawData:    model.RawData{Keywords: keywords},
	}
}

// BuildSources 按原顺序投影抓取记录，不去重
func BuildSources(scraped []model.SourceRecord) []model.Source {
	sources := make([]model.Source, 0, len(scraped))
	for _, r := range scraped {
		src := model.Source{Title: r.Title, URL: r.URL}
		if src.Title == "" {
			src.Title = "Unknown Source"
		}
		if src.URL == "" {
			src.URL = "#"
		}
		sources = append(sources, src)
	}
	return sources
}

func firstNonEmptyLine(s string) string {
	for _, line := range strings.Split(s, "\n") {
		if line = strings.TrimSpace(line); line != "" {
			return line
		}
	}
	return ""
}
