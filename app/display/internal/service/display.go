package service

import (
	"context"
	"strings"

	"github.com/go-kratos/kratos/v2/log"

	"github.com/iWorld-y/industry_radar/app/display/internal/biz"
	"github.com/iWorld-y/industry_radar/app/industry_radar/pkg/model"
)

// previewLength 首页摘要预览的最大字符数
const previewLength = 500

type DashboardReq struct{}

type DashboardReply struct {
	TotalReports   int    `json:"total_reports"`
	LastReportDate string `json:"last_report_date"`
	NextReportDate string `json:"next_report_date"`
	LatestID       int64  `json:"latest_id,omitempty"`
	LatestTitle    string `json:"latest_title,omitempty"`
	LatestPreview  string `json:"latest_preview,omitempty"`
}

type ListReportsReq struct {
	Limit int `json:"limit"`
}

type ReportSummary struct {
	Id    int64  `json:"id"`
	Date  string `json:"date"`
	Title string `json:"title"`
}

type ListReportsReply struct {
	Reports []*ReportSummary `json:"reports"`
	Total   int              `json:"total"`
}

type GetReportReq struct {
	Id int64 `json:"id"`
}

type GetReportReply struct {
	Report *model.Report `json:"report"`
}

type ResearchStatusReq struct{}

type ResearchStatusReply struct {
	DaysSinceLast int    `json:"days_since_last"`
	Warning       string `json:"warning,omitempty"`
}

type RunResearchReq struct {
	Keywords   string `json:"keywords"`
	MaxResults int    `json:"max_results"`
	MaxSites   int    `json:"max_sites"`
	// IncludeSocial 缺省为 true
	IncludeSocial *bool `json:"include_social"`
}

type RunResearchReply struct {
	RunId            string        `json:"run_id"`
	ReportId         int64         `json:"report_id"`
	State            string        `json:"state"`
	DaysSinceLast    int           `json:"days_since_last"`
	Warning          string        `json:"warning,omitempty"`
	PersistenceError string        `json:"persistence_error,omitempty"`
	Report           *model.Report `json:"report"`
}

type DisplayService struct {
	ucReport   *biz.ReportUseCase
	ucResearch *biz.ResearchUseCase
	log        *log.Helper
}

func NewDisplayService(ucReport *biz.ReportUseCase, ucResearch *biz.ResearchUseCase, logger log.Logger) *DisplayService {
	return &DisplayService{
		ucReport:   ucReport,
		ucResearch: ucResearch,
		log:        log.NewHelper(logger),
	}
}

func (s *DisplayService) Dashboard(ctx context.Context, _ *DashboardReq) (*DashboardReply, error) {
	d, err := s.ucReport.Dashboard(ctx)
	if err != nil {
		return nil, err
	}

	reply := &DashboardReply{
		TotalReports:   d.TotalReports,
		LastReportDate: d.LastReportDate,
		NextReportDate: d.NextReportDate,
	}
	if d.Latest != nil {
		reply.LatestID = d.Latest.ID
		reply.LatestTitle = d.Latest.Title
		reply.LatestPreview = preview(d.Latest.Summary, previewLength)
	}
	return reply, nil
}

func (s *DisplayService) ListReports(ctx context.Context, req *ListReportsReq) (*ListReportsReply, error) {
	limit := req.Limit
	if limit < 0 {
		limit = 0
	}

	reports, err := s.ucReport.List(ctx, limit)
	if err != nil {
		return nil, err
	}

	list := make([]*ReportSummary, 0, len(reports))
	for _, r := range reports {
		list = append(list, &ReportSummary{
			Id:    r.ID,
			Date:  r.Date,
			Title: r.Title,
		})
	}
	return &ListReportsReply{Reports: list, Total: len(list)}, nil
}

func (s *DisplayService) GetReport(ctx context.Context, req *GetReportReq) (*GetReportReply, error) {
	r, err := s.ucReport.Get(ctx, req.Id)
	if err != nil {
		return nil, err
	}
	return &GetReportReply{Report: r}, nil
}

// ExportMarkdown 返回 Markdown 内容与下载文件名
func (s *DisplayService) ExportMarkdown(ctx context.Context, req *GetReportReq) ([]byte, string, error) {
	return s.ucReport.Markdown(ctx, req.Id)
}

func (s *DisplayService) ResearchStatus(ctx context.Context, _ *ResearchStatusReq) (*ResearchStatusReply, error) {
	st, err := s.ucResearch.Status(ctx)
	if err != nil {
		return nil, err
	}
	return &ResearchStatusReply{DaysSinceLast: st.DaysSinceLast, Warning: st.Warning}, nil
}

func (s *DisplayService) RunResearch(ctx context.Context, req *RunResearchReq) (*RunResearchReply, error) {
	includeSocial := true
	if req.IncludeSocial != nil {
		includeSocial = *req.IncludeSocial
	}

	out, err := s.ucResearch.Run(ctx, biz.ResearchRequest{
		Keywords:      strings.TrimSpace(req.Keywords),
		MaxResults:    req.MaxResults,
		MaxSites:      req.MaxSites,
		IncludeSocial: includeSocial,
	})
	if err != nil {
		return nil, err
	}
	if out.PersistenceError != "" {
		s.log.Errorf("research %s finished but the report was not saved: %s", out.RunID, out.PersistenceError)
	}

	return &RunResearchReply{
		RunId:            out.RunID,
		ReportId:         out.ReportID,
		State:            out.State,
		DaysSinceLast:    out.DaysSinceLast,
		Warning:          out.Warning,
		PersistenceError: out.PersistenceError,
		Report:           out.Report,
	}, nil
}

func preview(s string, n int) string {
	r := []rune(s)
	if len(r) <= n {
		return s
	}
	return string(r[:n]) + "..."
}
