package data

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/go-kratos/kratos/v2/log"
	"github.com/iWorld-y/pain_radar/app/api/internal/domain"
	"github.com/iWorld-y/pain_radar/app/api/internal/repo"
	"github.com/jmoiron/sqlx"
)

const (
	pingQuery = `SELECT 1`

	countOpportunitiesQuery = `SELECT COUNT(*) FROM opportunity_reports`

	// 结果按 created_at、id 倒序，保证相同数据下多次查询顺序一致
	listOpportunitiesQuery = `
		SELECT r.id, r.created_at, r.pain_point_summary, p.url AS source_url
		FROM opportunity_reports r
		LEFT JOIN posts p ON p.id = r.source_post_id
		ORDER BY r.created_at DESC, r.id DESC
		LIMIT $1 OFFSET $2`

	// id 列为 integer；参数按 bigint 绑定，超出 int4 范围的 id 查不到记录而不是报错
	getOpportunityQuery = `
		SELECT r.id, r.created_at, r.pain_point_summary, r.report_data, p.url AS source_url
		FROM opportunity_reports r
		LEFT JOIN posts p ON p.id = r.source_post_id
		WHERE r.id = $1::bigint`
)

type summaryRow struct {
	ID               int            `db:"id"`
	CreatedAt        time.Time      `db:"created_at"`
	PainPointSummary string         `db:"pain_point_summary"`
	SourceURL        sql.NullString `db:"source_url"`
}

type opportunityRow struct {
	summaryRow
	ReportData []byte `db:"report_data"`
}

type opportunityRepo struct {
	data *Data
	log  *log.Helper
}

func NewOpportunityRepo(data *Data, logger log.Logger) repo.OpportunityRepo {
	return &opportunityRepo{
		data: data,
		log:  log.NewHelper(log.With(logger, "module", "data/opportunity")),
	}
}

func (r *opportunityRepo) Ping(ctx context.Context) error {
	q, release, err := r.data.queryer(ctx)
	if err != nil {
		return err
	}
	defer release()

	var one int
	if err := q.QueryRowxContext(ctx, pingQuery).Scan(&one); err != nil {
		return fmt.Errorf("liveness query failed: %w", err)
	}
	return nil
}

func (r *opportunityRepo) ListOpportunities(ctx context.Context, page, pageSize int) ([]*domain.OpportunitySummary, int64, error) {
	q, release, err := r.data.queryer(ctx)
	if err != nil {
		return nil, 0, err
	}
	defer release()

	var total int64
	if err := sqlx.GetContext(ctx, q, &total, countOpportunitiesQuery); err != nil {
		return nil, 0, fmt.Errorf("failed to count opportunities: %w", err)
	}

	offset := (page - 1) * pageSize
	var rows []summaryRow
	if err := sqlx.SelectContext(ctx, q, &rows, listOpportunitiesQuery, pageSize, offset); err != nil {
		return nil, 0, fmt.Errorf("failed to list opportunities: %w", err)
	}

	summaries := make([]*domain.OpportunitySummary, 0, len(rows))
	for _, row := range rows {
		summaries = append(summaries, &domain.OpportunitySummary{
			ID:               row.ID,
			CreatedAt:        row.CreatedAt,
			PainPointSummary: row.PainPointSummary,
			SourceURL:        nullableString(row.SourceURL),
		})
	}
	return summaries, total, nil
}

func (r *opportunityRepo) GetOpportunityByID(ctx context.Context, id int) (*domain.Opportunity, error) {
	q, release, err := r.data.queryer(ctx)
	if err != nil {
		return nil, err
	}
	defer release()

	var row opportunityRow
	if err := sqlx.GetContext(ctx, q, &row, getOpportunityQuery, id); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			r.log.WithContext(ctx).Debugf("opportunity %d has no row", id)
			return nil, repo.ErrOpportunityNotFound
		}
		return nil, fmt.Errorf("failed to get opportunity %d: %w", id, err)
	}

	return &domain.Opportunity{
		ID:               row.ID,
		CreatedAt:        row.CreatedAt,
		PainPointSummary: row.PainPointSummary,
		ReportData:       row.ReportData,
		SourceURL:        nullableString(row.SourceURL),
	}, nil
}

func nullableString(s sql.NullString) *string {
	if !s.Valid {
		return nil
	}
	v := s.String
	return &v
}
