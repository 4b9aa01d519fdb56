package factory

import (
	"context"
	"fmt"

	"github.com/iWorld-y/industry_radar/app/industry_radar/pkg/config"
	"github.com/iWorld-y/industry_radar/app/industry_radar/pkg/logger"
	"github.com/iWorld-y/industry_radar/app/industry_radar/pkg/storage"
	"github.com/iWorld-y/industry_radar/app/industry_radar/pkg/storage/pgxstore"
	"github.com/iWorld-y/industry_radar/app/industry_radar/pkg/storage/sqlstore"
)

// Open 按 db.driver 选择存储实现：sqlite（默认）、postgres（lib/pq）、pgx（连接池）
func Open(ctx context.Context, cfg config.DBConfig) (storage.Store, error) {
	var (
		store storage.Store
		err   error
	)
	switch cfg.Driver {
	case "", "sqlite":
		logger.Log.Infof("使用 SQLite 存储: %s", cfg.Source())
		store, err = openSQLite(ctx, cfg.Source())
	case "postgres":
		logger.Log.Info("使用 PostgreSQL 存储 (lib/pq)")
		store, err = openPostgres(ctx, cfg.Source())
	case "pgx":
		logger.Log.Info("使用 PostgreSQL 存储 (pgx)")
		store, err = openPgx(ctx, cfg.Source())
	default:
		return nil, fmt.Errorf("unsupported db driver: %s", cfg.Driver)
	}
	if err != nil {
		return nil, err
	}
	return store, nil
}

func openSQLite(ctx context.Context, path string) (storage.Store, error) {
	s, err := sqlstore.OpenSQLite(ctx, path)
	if err != nil {
		return nil, err
	}
	return s, nil
}

func openPostgres(ctx context.Context, dsn string) (storage.Store, error) {
	s, err := sqlstore.OpenPostgres(ctx, dsn)
	if err != nil {
		return nil, err
	}
	return s, nil
}

func openPgx(ctx context.Context, dsn string) (storage.Store, error) {
	s, err := pgxstore.New(ctx, dsn)
	if err != nil {
		return nil, err
	}
	return s, nil
}
