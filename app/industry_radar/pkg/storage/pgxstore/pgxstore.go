// Package pgxstore 基于 pgx 连接池的 PostgreSQL 报告存储。
package pgxstore

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgtype"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/iWorld-y/industry_radar/app/industry_radar/pkg/failure"
	"github.com/iWorld-y/industry_radar/app/industry_radar/pkg/model"
	"github.com/iWorld-y/industry_radar/app/industry_radar/pkg/storage"
)

const schema = `
CREATE TABLE IF NOT EXISTS reports (
	id SERIAL PRIMARY KEY,
	date TEXT NOT NULL,
	title TEXT NOT NULL,
	summary TEXT NOT NULL,
	trends TEXT NOT NULL,
	challenges TEXT NOT NULL,
	solutions TEXT NOT NULL,
	sources TEXT,
	raw_data TEXT,
	created_at TIMESTAMPTZ DEFAULT CURRENT_TIMESTAMP
);
`

const selectSQL = `SELECT id, date, title, summary, trends, challenges, solutions, sources, raw_data, created_at FROM reports`

// Store pgx 报告存储
type Store struct {
	pool *pgxpool.Pool
	now  func() time.Time
}

var _ storage.Store = (*Store)(nil)

// New 创建连接池并建表
func New(ctx context.Context, dsn string) (*Store, error) {
	pool, err := pgxpool.New(ctx, dsn)
	if err != nil {
		return nil, fmt.Errorf("failed to create pool: %w", err)
	}

	if err := pool.Ping(ctx); err != nil {
		pool.Close()
		return nil, fmt.Errorf("failed to ping database: %w", err)
	}

	if _, err := pool.Exec(ctx, schema); err != nil {
		pool.Close()
		return nil, fmt.Errorf("failed to initialize schema: %w", err)
	}

	return &Store{pool: pool, now: time.Now}, nil
}

// Close 关闭连接池
func (s *Store) Close() error {
	s.pool.Close()
	return nil
}

// Save implements storage.Store
func (s *Store) Save(ctx context.Context, report *model.Report) (int64, error) {
	row := storage.NewRow(report, s.now())

	var id int64
	err := s.pool.QueryRow(ctx, `
		INSERT INTO reports (date, title, summary, trends, challenges, solutions, sources, raw_data, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
		RETURNING id`,
		row.Date, row.Title, row.Summary, row.Trends, row.Challenges, row.Solutions,
		row.Sources, row.RawData, row.CreatedAt,
	).Scan(&id)
	if err != nil {
		return storage.InvalidID, failure.Persistence(err, "failed to insert report")
	}

	row.Apply(report, id)
	return id, nil
}

// List implements storage.Store
func (s *Store) List(ctx context.Context, limit int) ([]*model.Report, error) {
	query := selectSQL + ` ORDER BY date DESC, id DESC`
	var args []any
	if limit > 0 {
		query += ` LIMIT $1`
		args = append(args, limit)
	}

	rows, err := s.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query reports: %w", err)
	}
	defer rows.Close()

	var reports []*model.Report
	for rows.Next() {
		row, err := scanRow(rows)
		if err != nil {
			return nil, err
		}
		reports = append(reports, row.Report())
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate reports: %w", err)
	}
	return reports, nil
}

// GetByID implements storage.Store
func (s *Store) GetByID(ctx context.Context, id int64) (*model.Report, error) {
	row, err := scanRow(s.pool.QueryRow(ctx, selectSQL+` WHERE id = $1`, id))
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, storage.ErrReportNotFound
	}
	if err != nil {
		return nil, err
	}
	return row.Report(), nil
}

func scanRow(r pgx.Row) (storage.Row, error) {
	var (
		row       storage.Row
		sources   pgtype.Text
		rawData   pgtype.Text
		createdAt pgtype.Timestamptz
	)
	if err := r.Scan(&row.ID, &row.Date, &row.Title, &row.Summary, &row.Trends,
		&row.Challenges, &row.Solutions, &sources, &rawData, &createdAt); err != nil {
		return row, fmt.Errorf("failed to scan report: %w", err)
	}
	row.Sources = sources.String
	row.RawData = rawData.String
	row.CreatedAt = createdAt.Time
	return row, nil
}
