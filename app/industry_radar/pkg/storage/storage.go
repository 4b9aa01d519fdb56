// Package storage 定义报告的持久化接口与公用编码。
//
// 报告只会被插入和读取，不会更新或删除。sources 与 raw_data 以 JSON 文本存储，
// 读取时损坏或缺失的值退化为空集合 / 空对象。
package storage

import (
	"context"
	"encoding/json"
	"time"

	"github.com/go-kratos/kratos/v2/errors"

	"github.com/iWorld-y/industry_radar/app/industry_radar/pkg/model"
)

// ErrReportNotFound 报告不存在
var ErrReportNotFound = errors.NotFound("REPORT_NOT_FOUND", "report not found")

// InvalidID Save 失败时返回的 id
const InvalidID int64 = -1

// Store 报告存储
type Store interface {
	// Save 以当前日期作为报告日期插入，回填 ID / Date / CreatedAt 并返回新 id。
	// 失败时返回 InvalidID 与 PERSISTENCE_FAILURE 错误。
	Save(ctx context.Context, report *model.Report) (int64, error)
	// List 按日期倒序返回报告，同一日期内后插入的在前；limit <= 0 表示全部
	List(ctx context.Context, limit int) ([]*model.Report, error)
	// GetByID 不存在时返回 ErrReportNotFound
	GetByID(ctx context.Context, id int64) (*model.Report, error)
	Close() error
}

// Row 报告表的一行
type Row struct {
	ID         int64
	Date       string
	Title      string
	Summary    string
	Trends     string
	Challenges string
	Solutions  string
	Sources    string
	RawData    string
	CreatedAt  time.Time
}

// NewRow 编码待插入的报告。date 取服务器本地日期，created_at 以 UTC 存储
func NewRow(r *model.Report, now time.Time) Row {
	return Row{
		Date:       now.Format(model.DateLayout),
		Title:      r.Title,
		Summary:    r.Summary,
		Trends:     r.Trends,
		Challenges: r.Challenges,
		Solutions:  r.Solutions,
		Sources:    EncodeSources(r.Sources),
		RawData:    EncodeRawData(r.RawData),
		CreatedAt:  now.UTC(),
	}
}

// Report 解码为报告
func (row Row) Report() *model.Report {
	return &model.Report{
		ID:         row.ID,
		Date:       row.Date,
		Title:      row.Title,
		Summary:    row.Summary,
		Trends:     row.Trends,
		Challenges: row.Challenges,
		Solutions:  row.Solutions,
		Sources:    DecodeSources(row.Sources),
		RawData:    DecodeRawData(row.RawData),
		CreatedAt:  row.CreatedAt,
	}
}

// Apply 插入成功后回填报告
func (row Row) Apply(r *model.Report, id int64) {
	r.ID = id
	r.Date = row.Date
	r.CreatedAt = row.CreatedAt
}

// EncodeSources nil 编码为 []
func EncodeSources(sources []model.Source) string {
	if sources == nil {
		sources = []model.Source{}
	}
	b, err := json.Marshal(sources)
	if err != nil {
		return "[]"
	}
	return string(b)
}

// DecodeSources 解析失败返回空切片
func DecodeSources(s string) []model.Source {
	var sources []model.Source
	if err := json.Unmarshal([]byte(s), &sources); err != nil || sources == nil {
		return []model.Source{}
	}
	return sources
}

// EncodeRawData 编码 raw_data
func EncodeRawData(raw model.RawData) string {
	b, err := json.Marshal(raw)
	if err != nil {
		return "{}"
	}
	return string(b)
}

// DecodeRawData 解析失败返回零值
func DecodeRawData(s string) model.RawData {
	var raw model.RawData
	if err := json.Unmarshal([]byte(s), &raw); err != nil {
		return model.RawData{}
	}
	return raw
}
