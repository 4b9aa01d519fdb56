package biz

import (
	"context"
	"time"

	"github.com/go-kratos/kratos/v2/log"

	"github.com/iWorld-y/industry_radar/app/industry_radar/pkg/model"
	"github.com/iWorld-y/industry_radar/app/industry_radar/pkg/render"
)

const (
	// ReportInterval 建议的报告间隔（天）
	ReportInterval = 30

	NoReportsYet = "No reports yet"
	NotAvailable = "N/A"
)

// ReportRepo 报告仓库
type ReportRepo interface {
	// ListReports limit <= 0 表示全部，按日期倒序
	ListReports(ctx context.Context, limit int) ([]*model.Report, error)
	GetReport(ctx context.Context, id int64) (*model.Report, error)
}

// Dashboard 首页统计
type Dashboard struct {
	TotalReports   int
	LastReportDate string
	NextReportDate string
	Latest         *model.Report
}

type ReportUseCase struct {
	repo ReportRepo
	log  *log.Helper
}

func NewReportUseCase(repo ReportRepo, logger log.Logger) *ReportUseCase {
	return &ReportUseCase{repo: repo, log: log.NewHelper(logger)}
}

func (uc *ReportUseCase) List(ctx context.Context, limit int) ([]*model.Report, error) {
	return uc.repo.ListReports(ctx, limit)
}

func (uc *ReportUseCase) Get(ctx context.Context, id int64) (*model.Report, error) {
	return uc.repo.GetReport(ctx, id)
}

// Dashboard 汇总报告总数、最近报告日期与下一次建议日期
func (uc *ReportUseCase) Dashboard(ctx context.Context) (*Dashboard, error) {
	reports, err := uc.repo.ListReports(ctx, 0)
	if err != nil {
		return nil, err
	}

	d := &Dashboard{
		TotalReports:   len(reports),
		LastReportDate: NoReportsYet,
		NextReportDate: NotAvailable,
	}
	if len(reports) > 0 {
		d.Latest = reports[0]
		d.LastReportDate = d.Latest.Date
		d.NextReportDate = NextReportDate(d.Latest.Date)
	}
	return d, nil
}

// Markdown 导出单份报告，返回内容与文件名
func (uc *ReportUseCase) Markdown(ctx context.Context, id int64) ([]byte, string, error) {
	r, err := uc.repo.GetReport(ctx, id)
	if err != nil {
		return nil, "", err
	}
	md, err := render.Markdown(r)
	if err != nil {
		return nil, "", err
	}
	return md, render.Filename(r), nil
}

// NextReportDate 上次日期加 ReportInterval 天，无法解析时返回 N/A
func NextReportDate(last string) string {
	t, err := time.Parse(model.DateLayout, last)
	if err != nil {
		return NotAvailable
	}
	return t.AddDate(0, 0, ReportInterval).Format(model.DateLayout)
}
