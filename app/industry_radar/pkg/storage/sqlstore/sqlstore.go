// Package sqlstore 基于 database/sql 的报告存储，支持 SQLite 单文件库与 PostgreSQL。
package sqlstore

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	_ "github.com/lib/pq"
	_ "modernc.org/sqlite"

	"github.com/iWorld-y/industry_radar/app/industry_radar/pkg/failure"
	"github.com/iWorld-y/industry_radar/app/industry_radar/pkg/model"
	"github.com/iWorld-y/industry_radar/app/industry_radar/pkg/storage"
)

// Dialect SQL 方言
type Dialect struct {
	Driver string
	Schema string
	// Numbered 占位符写作 $1, $2 ...
	Numbered bool
}

var (
	SQLite = Dialect{
		Driver: "sqlite",
		Schema: `CREATE TABLE IF NOT EXISTS reports (
			id INTEGER PRIMARY KEY AUTOINCREMENT,
			date TEXT NOT NULL,
			title TEXT NOT NULL,
			summary TEXT NOT NULL,
			trends TEXT NOT NULL,
			challenges TEXT NOT NULL,
			solutions TEXT NOT NULL,
			sources TEXT,
			raw_data TEXT,
			created_at DATETIME DEFAULT CURRENT_TIMESTAMP
		)`,
	}
	Postgres = Dialect{
		Driver: "postgres",
		Schema: `CREATE TABLE IF NOT EXISTS reports (
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
		)`,
		Numbered: true,
	}
)

const (
	insertSQL = `INSERT INTO reports (date, title, summary, trends, challenges, solutions, sources, raw_data, created_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?) RETURNING id`
	selectSQL = `SELECT id, date, title, summary, trends, challenges, solutions, sources, raw_data, created_at FROM reports`
)

// Store database/sql 报告存储
type Store struct {
	db      *sql.DB
	dialect Dialect
	now     func() time.Time
}

var _ storage.Store = (*Store)(nil)

// OpenSQLite 打开（必要时创建）SQLite 数据库文件
func OpenSQLite(ctx context.Context, path string) (*Store, error) {
	if path != ":memory:" && !strings.HasPrefix(path, "file:") {
		if dir := filepath.Dir(path); dir != "." {
			if err := os.MkdirAll(dir, 0o755); err != nil {
				return nil, fmt.Errorf("failed to create database directory: %w", err)
			}
		}
	}
	return Open(ctx, SQLite, path)
}

// OpenPostgres 通过 lib/pq 连接 PostgreSQL
func OpenPostgres(ctx context.Context, dsn string) (*Store, error) {
	return Open(ctx, Postgres, dsn)
}

// Open 连接数据库并建表
func Open(ctx context.Context, dialect Dialect, dsn string) (*Store, error) {
	db, err := sql.Open(dialect.Driver, dsn)
	if err != nil {
		return nil, fmt.Errorf("failed to open database connection: %w", err)
	}
	if dialect.Driver == SQLite.Driver {
		// 单文件库只用一个连接，避免写锁冲突
		db.SetMaxOpenConns(1)
	}

	if err := db.PingContext(ctx); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("failed to ping database: %w", err)
	}

	if _, err := db.ExecContext(ctx, dialect.Schema); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("failed to initialize schema: %w", err)
	}

	return &Store{db: db, dialect: dialect, now: time.Now}, nil
}

// Close 关闭连接
func (s *Store) Close() error {
	return s.db.Close()
}

// Save implements storage.Store
func (s *Store) Save(ctx context.Context, report *model.Report) (int64, error) {
	row := storage.NewRow(report, s.now())

	var id int64
	err := s.db.QueryRowContext(ctx, s.rebind(insertSQL),
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
		query += ` LIMIT ?`
		args = append(args, limit)
	}

	rows, err := s.db.QueryContext(ctx, s.rebind(query), args...)
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
	r := s.db.QueryRowContext(ctx, s.rebind(selectSQL+` WHERE id = ?`), id)
	row, err := scanRow(r)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, storage.ErrReportNotFound
	}
	if err != nil {
		return nil, err
	}
	return row.Report(), nil
}

type scanner interface {
	Scan(dest ...any) error
}

func scanRow(sc scanner) (storage.Row, error) {
	var (
		row       storage.Row
		sources   sql.NullString
		rawData   sql.NullString
		createdAt sql.NullTime
	)
	err := sc.Scan(&row.ID, &row.Date, &row.Title, &row.Summary, &row.Trends,
		&row.Challenges, &row.Solutions, &sources, &rawData, &createdAt)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return row, err
		}
		return row, fmt.Errorf("failed to scan report: %w", err)
	}
	row.Sources = sources.String
	row.RawData = rawData.String
	row.CreatedAt = createdAt.Time
	return row, nil
}

// rebind 把 ? 占位符改写为 $n
func (s *Store) rebind(query string) string {
	if !s.dialect.Numbered {
		return query
	}
	var sb strings.Builder
	n := 0
	for _, r := range query {
		if r == '?' {
			n++
			sb.WriteByte('$')
			sb.WriteString(strconv.Itoa(n))
			continue
		}
		sb.WriteRune(r)
	}
	return sb.String()
}
