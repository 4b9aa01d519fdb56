package data

import (
	"github.com/go-kratos/kratos/v2/log"

	"github.com/iWorld-y/industry_radar/app/industry_radar/pkg/storage"
)

// Data 持有报告存储，存储的生命周期由引擎侧管理
type Data struct {
	store storage.Store
}

func NewData(store storage.Store, logger log.Logger) (*Data, func(), error) {
	cleanup := func() {
		log.NewHelper(logger).Info("closing the data resources")
	}
	return &Data{store: store}, cleanup, nil
}
