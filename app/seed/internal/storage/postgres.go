package storage

import (
	"context"
	"database/sql"
	"fmt"
	"strings"

	"github.com/iWorld-y/pain_radar/app/common/schema"
	"github.com/iWorld-y/pain_radar/app/seed/internal/fixture"
	"github.com/jmoiron/sqlx"
	_ "github.com/lib/pq"
)

const (
	upsertPostQuery = `INSERT INTO posts (url, title) VALUES ($1, $2)
ON CONFLICT (url) DO UPDATE SET title = EXCLUDED.title
RETURNING id`
	insertReportQuery = `INSERT INTO opportunity_reports (source_post_id, pain_point_summary, report_data, created_at)
VALUES ($1, $2, $3::jsonb, COALESCE($4, now()))`
	truncateQuery = `TRUNCATE opportunity_reports, posts RESTART IDENTITY`
)

type Storage struct {
	db *sqlx.DB
}

func NewStorage(dsn string) (*Storage, error) {
	db, err := sqlx.Connect("postgres", dsn)
	if err != nil {
		return nil, fmt.Errorf("failed to open database connection: %w", err)
	}

	if err := schema.Migrate(context.Background(), db); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to initialize schema: %w", err)
	}

	return &Storage{db: db}, nil
}

func NewStorageWithDB(db *sqlx.DB) *Storage {
	return &Storage{db: db}
}

func (s *Storage) Close() error {
	return s.db.Close()
}

// Result 一次写入的统计
type Result struct {
	Posts   int
	Reports int
}

// SaveFixture 在同一事务内写入帖子与报告，reset 为 true 时先清空两张表
func (s *Storage) SaveFixture(ctx context.Context, f *fixture.Fixture, reset bool) (*Result, error) {
	tx, err := s.db.BeginTxx(ctx, nil)
	if err != nil {
		return nil, err
	}

	if reset {
		if _, err := tx.ExecContext(ctx, truncateQuery); err != nil {
			return nil, rollback(tx, err)
		}
	}

	postIDs := make(map[string]int, len(f.Posts))
	for _, p := range f.Posts {
		var id int
		if err := tx.GetContext(ctx, &id, upsertPostQuery, p.URL, nullString(removeNullBytes(p.Title))); err != nil {
			return nil, rollback(tx, fmt.Errorf("post %q: %w", p.Key, err))
		}
		postIDs[p.Key] = id
	}

	for i := range f.Reports {
		r := &f.Reports[i]
		body, ok, err := r.ReportJSON()
		if err != nil {
			return nil, rollback(tx, fmt.Errorf("reports[%d]: %w", i, err))
		}

		var postID sql.NullInt64
		if id, found := postIDs[r.Post]; found {
			postID = sql.NullInt64{Int64: int64(id), Valid: true}
		}
		reportData := sql.NullString{String: body, Valid: ok}
		var createdAt sql.NullTime
		if r.CreatedAt != nil {
			createdAt = sql.NullTime{Time: *r.CreatedAt, Valid: true}
		}

		if _, err := tx.ExecContext(ctx, insertReportQuery,
			postID, removeNullBytes(r.PainPointSummary), reportData, createdAt); err != nil {
			return nil, rollback(tx, fmt.Errorf("reports[%d]: %w", i, err))
		}
	}

	if err := tx.Commit(); err != nil {
		return nil, err
	}
	return &Result{Posts: len(f.Posts), Reports: len(f.Reports)}, nil
}

func rollback(tx *sqlx.Tx, err error) error {
	if rerr := tx.Rollback(); rerr != nil {
		err = fmt.Errorf("%w: %v", err, rerr)
	}
	return err
}

func nullString(s string) sql.NullString {
	return sql.NullString{String: s, Valid: s != ""}
}

// PostgreSQL 文本字段不支持 NULL 字节
func removeNullBytes(s string) string {
	return strings.ReplaceAll(s, "\x00", "")
}
