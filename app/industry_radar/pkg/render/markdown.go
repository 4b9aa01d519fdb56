// Package render 把报告导出为 Markdown。
package render

import (
	"bytes"
	"text/template"

	"github.com/iWorld-y/industry_radar/app/industry_radar/pkg/model"
)

var markdownTmpl = template.Must(template.New("report").Parse(`# {{.Title}}
Date: {{.Date}}

## Executive Summary
{{.Summary}}

## Industry Trends
{{.Trends}}

## Challenges
{{.Challenges}}

## Solutions
{{.Solutions}}

## Sources
{{range .Sources}}- [{{.Title}}]({{.URL}})
{{end}}`))

// Markdown 渲染单份报告
func Markdown(r *model.Report) ([]byte, error) {
	var buf bytes.Buffer
	if err := markdownTmpl.Execute(&buf, r); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

// Filename 导出文件名
func Filename(r *model.Report) string {
	return "research_report_" + r.Date + ".md"
}
