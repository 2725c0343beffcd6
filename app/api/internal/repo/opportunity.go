package repo

import (
	"context"
	"errors"

	"github.com/iWorld-y/pain_radar/app/api/internal/domain"
)

// ErrOpportunityNotFound 指定 ID 的机会报告不存在
var ErrOpportunityNotFound = errors.New("opportunity not found")

// OpportunityRepo 机会报告仓库接口，只读
type OpportunityRepo interface {
	// Ping 执行一次简单查询检查数据库连通性
	Ping(ctx context.Context) error
	// ListOpportunities 按 created_at、id 倒序分页获取机会摘要及总数
	ListOpportunities(ctx context.Context, page, pageSize int) ([]*domain.OpportunitySummary, int64, error)
	// GetOpportunityByID 根据ID获取机会报告（含关联帖子链接）
	GetOpportunityByID(ctx context.Context, id int) (*domain.Opportunity, error)
}
