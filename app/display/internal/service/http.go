package service

import (
	"context"
	"fmt"
	nethttp "net/http"

	"github.com/go-kratos/kratos/v2/transport/http"
)

// 日志与中间件里看到的操作名
const (
	operationDashboard      = "Display.Dashboard"
	operationListReports    = "Display.ListReports"
	operationGetReport      = "Display.GetReport"
	operationExportMarkdown = "Display.ExportMarkdown"
	operationResearchStatus = "Display.ResearchStatus"
	operationRunResearch    = "Display.RunResearch"
)

// RegisterDisplayHTTPServer 注册 JSON 接口
func RegisterDisplayHTTPServer(s *http.Server, srv *DisplayService) {
	r := s.Route("/")
	r.GET("/api/dashboard", dashboardHandler(srv))
	r.GET("/api/reports", listReportsHandler(srv))
	r.GET("/api/reports/{id}", getReportHandler(srv))
	r.GET("/api/reports/{id}/markdown", exportMarkdownHandler(srv))
	r.GET("/api/research", researchStatusHandler(srv))
	r.POST("/api/research", runResearchHandler(srv))
}

// invoke 经过服务端中间件调用 fn
func invoke[Req, Reply any](ctx http.Context, operation string, in *Req, fn func(context.Context, *Req) (Reply, error)) (Reply, error) {
	http.SetOperation(ctx, operation)
	h := ctx.Middleware(func(ctx context.Context, req interface{}) (interface{}, error) {
		return fn(ctx, req.(*Req))
	})
	var zero Reply
	out, err := h(ctx, in)
	if err != nil {
		return zero, err
	}
	return out.(Reply), nil
}

func dashboardHandler(srv *DisplayService) http.HandlerFunc {
	return func(ctx http.Context) error {
		var in DashboardReq
		out, err := invoke(ctx, operationDashboard, &in, srv.Dashboard)
		if err != nil {
			return err
		}
		return ctx.Result(nethttp.StatusOK, out)
	}
}

func listReportsHandler(srv *DisplayService) http.HandlerFunc {
	return func(ctx http.Context) error {
		var in ListReportsReq
		if err := ctx.BindQuery(&in); err != nil {
			return err
		}
		out, err := invoke(ctx, operationListReports, &in, srv.ListReports)
		if err != nil {
			return err
		}
		return ctx.Result(nethttp.StatusOK, out)
	}
}

func getReportHandler(srv *DisplayService) http.HandlerFunc {
	return func(ctx http.Context) error {
		var in GetReportReq
		if err := ctx.BindVars(&in); err != nil {
			return err
		}
		out, err := invoke(ctx, operationGetReport, &in, srv.GetReport)
		if err != nil {
			return err
		}
		return ctx.Result(nethttp.StatusOK, out)
	}
}

type markdownFile struct {
	name    string
	content []byte
}

func exportMarkdownHandler(srv *DisplayService) http.HandlerFunc {
	return func(ctx http.Context) error {
		var in GetReportReq
		if err := ctx.BindVars(&in); err != nil {
			return err
		}
		f, err := invoke(ctx, operationExportMarkdown, &in, func(ctx context.Context, req *GetReportReq) (*markdownFile, error) {
			content, name, err := srv.ExportMarkdown(ctx, req)
			if err != nil {
				return nil, err
			}
			return &markdownFile{name: name, content: content}, nil
		})
		if err != nil {
			return err
		}
		ctx.Response().Header().Set("Content-Disposition", fmt.Sprintf("attachment; filename=%q", f.name))
		return ctx.Blob(nethttp.StatusOK, "text/markdown; charset=utf-8", f.content)
	}
}

func researchStatusHandler(srv *DisplayService) http.HandlerFunc {
	return func(ctx http.Context) error {
		var in ResearchStatusReq
		out, err := invoke(ctx, operationResearchStatus, &in, srv.ResearchStatus)
		if err != nil {
			return err
		}
		return ctx.Result(nethttp.StatusOK, out)
	}
}

func runResearchHandler(srv *DisplayService) http.HandlerFunc {
	return func(ctx http.Context) error {
		var in RunResearchReq
		if err := ctx.Bind(&in); err != nil {
			return err
		}
		out, err := invoke(ctx, operationRunResearch, &in, srv.RunResearch)
		if err != nil {
			return err
		}
		return ctx.Result(nethttp.StatusOK, out)
	}
}
