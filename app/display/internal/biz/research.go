package biz

import (
	"context"
	"fmt"
	"time"

	"github.com/go-kratos/kratos/v2/errors"
	"github.com/go-kratos/kratos/v2/log"

	"github.com/iWorld-y/industry_radar/app/industry_radar/pkg/engine"
	"github.com/iWorld-y/industry_radar/app/industry_radar/pkg/failure"
	"github.com/iWorld-y/industry_radar/app/industry_radar/pkg/model"
)

// ErrEngineUnavailable 引擎未初始化
var ErrEngineUnavailable = errors.ServiceUnavailable("ENGINE_UNAVAILABLE", "research engine is not configured")

// Runner 执行一次研究流水线
type Runner interface {
	Run(ctx context.Context, opts engine.RunOptions) (*engine.RunResult, error)
}

// ResearchRequest 运行参数，零值使用引擎配置的默认值
type ResearchRequest struct {
	Keywords      string
	MaxResults    int
	MaxSites      int
	IncludeSocial bool
}

// ResearchStatus 距上次报告的天数与提示
type ResearchStatus struct {
	DaysSinceLast int
	Warning       string
}

// ResearchOutcome 一次运行的结果
type ResearchOutcome struct {
	ResearchStatus
	RunID    string
	Report   *model.Report
	ReportID int64
	State    string
	// PersistenceError 报告已生成但保存失败时的错误信息
	PersistenceError string
}

type ResearchUseCase struct {
	runner Runner
	repo   ReportRepo
	now    func() time.Time
	log    *log.Helper
}

func NewResearchUseCase(runner Runner, repo ReportRepo, logger log.Logger) *ResearchUseCase {
	return &ResearchUseCase{runner: runner, repo: repo, now: time.Now, log: log.NewHelper(logger)}
}

// Status 计算距上次报告的天数，少于 ReportInterval 天时附带提示。
// 没有报告或日期无法解析时视为已超过间隔。
func (uc *ResearchUseCase) Status(ctx context.Context) (*ResearchStatus, error) {
	reports, err := uc.repo.ListReports(ctx, 1)
	if err != nil {
		return nil, err
	}

	st := &ResearchStatus{DaysSinceLast: ReportInterval + 1}
	if len(reports) > 0 {
		now := uc.now()
		if last, err := time.ParseInLocation(model.DateLayout, reports[0].Date, now.Location()); err == nil {
			st.DaysSinceLast = int(now.Sub(last).Hours() / 24)
		}
	}
	if st.DaysSinceLast < ReportInterval {
		st.Warning = fmt.Sprintf("The last report was generated only %d days ago. It's recommended to run research monthly.", st.DaysSinceLast)
	}
	return st, nil
}

// Run 同步执行流水线。提示不阻止运行；保存失败不视为请求失败，错误信息随结果返回
func (uc *ResearchUseCase) Run(ctx context.Context, req ResearchRequest) (*ResearchOutcome, error) {
	if uc.runner == nil {
		return nil, ErrEngineUnavailable
	}

	st, err := uc.Status(ctx)
	if err != nil {
		uc.log.Warnf("read last report date: %v", err)
		st = &ResearchStatus{DaysSinceLast: ReportInterval + 1}
	}
	if st.Warning != "" {
		uc.log.Warn(st.Warning)
	}

	res, err := uc.runner.Run(ctx, engine.RunOptions{
		Keywords:      req.Keywords,
		MaxResults:    req.MaxResults,
		MaxSites:      req.MaxSites,
		IncludeSocial: req.IncludeSocial,
		ProgressCallback: func(status string, progress int) {
			uc.log.Infof("[%d%%] %s", progress, status)
		},
	})
	if res == nil {
		return nil, err
	}

	out := &ResearchOutcome{
		ResearchStatus: *st,
		RunID:          res.RunID,
		Report:         res.Report,
		ReportID:       res.ReportID,
		State:          res.State.String(),
	}
	if err != nil {
		if !failure.Is(err, failure.ReasonPersistence) {
			return nil, err
		}
		out.PersistenceError = err.Error()
	}
	return out, nil
}
