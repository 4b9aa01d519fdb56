package data

import (
	"context"

	"github.com/go-kratos/kratos/v2/log"

	"github.com/iWorld-y/industry_radar/app/display/internal/biz"
	"github.com/iWorld-y/industry_radar/app/industry_radar/pkg/model"
)

type reportRepo struct {
	data *Data
	log  *log.Helper
}

func NewReportRepo(data *Data, logger log.Logger) biz.ReportRepo {
	return &reportRepo{
		data: data,
		log:  log.NewHelper(logger),
	}
}

func (r *reportRepo) ListReports(ctx context.Context, limit int) ([]*model.Report, error) {
	reports, err := r.data.store.List(ctx, limit)
	if err != nil {
		r.log.Errorf("list reports: %v", err)
		return nil, err
	}
	return reports, nil
}

func (r *reportRepo) GetReport(ctx context.Context, id int64) (*model.Report, error) {
	return r.data.store.GetByID(ctx, id)
}
