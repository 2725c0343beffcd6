package schema

import (
	"context"
	"fmt"
	"strings"

	"github.com/jmoiron/sqlx"
)

// statements 按顺序执行的建表语句，均可重复执行
var statements = []string{
	`CREATE TABLE IF NOT EXISTS posts (
		id SERIAL PRIMARY KEY,
		url TEXT NOT NULL UNIQUE,
		title TEXT,
		created_at TIMESTAMPTZ NOT NULL DEFAULT now()
	)`,
	`CREATE TABLE IF NOT EXISTS opportunity_reports (
		id SERIAL PRIMARY KEY,
		source_post_id INTEGER REFERENCES posts(id),
		pain_point_summary TEXT NOT NULL DEFAULT '',
		report_data JSONB,
		created_at TIMESTAMPTZ NOT NULL DEFAULT now()
	)`,
	`CREATE INDEX IF NOT EXISTS idx_opportunity_reports_created_at
		ON opportunity_reports (created_at DESC, id DESC)`,
}

// Migrate 创建机会报告相关表结构，可重复执行
func Migrate(ctx context.Context, db sqlx.ExecerContext) error {
	for _, stmt := range statements {
		if _, err := db.ExecContext(ctx, stmt); err != nil {
			return fmt.Errorf("failed to execute query %q: %w", firstLine(stmt), err)
		}
	}
	return nil
}

func firstLine(stmt string) string {
	if i := strings.IndexByte(stmt, '\n'); i >= 0 {
		return stmt[:i]
	}
	return stmt
}
