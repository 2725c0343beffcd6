package usecase

import (
	"context"

	"github.com/go-kratos/kratos/v2/log"
	"github.com/iWorld-y/pain_radar/app/api/internal/domain"
	"github.com/iWorld-y/pain_radar/app/api/internal/repo"
)

// OpportunityUseCase 机会报告业务逻辑
type OpportunityUseCase struct {
	repo repo.OpportunityRepo
	log  *log.Helper
}

// NewOpportunityUseCase 创建机会报告业务逻辑实例
func NewOpportunityUseCase(repo repo.OpportunityRepo, logger log.Logger) *OpportunityUseCase {
	return &OpportunityUseCase{repo: repo, log: log.NewHelper(log.With(logger, "module", "usecase/opportunity"))}
}

// CheckConnectivity 检查数据库连通性，失败时记录错误并返回 false，不向上抛出
func (uc *OpportunityUseCase) CheckConnectivity(ctx context.Context) bool {
	if err := uc.repo.Ping(ctx); err != nil {
		uc.log.WithContext(ctx).Errorw(log.DefaultMessageKey, "Database health check failed", "error", err.Error())
		return false
	}
	return true
}

// List 分页列出机会摘要，page 与 pageSize 由调用方校验
func (uc *OpportunityUseCase) List(ctx context.Context, page, pageSize int) (*domain.OpportunityPage, error) {
	items, total, err := uc.repo.ListOpportunities(ctx, page, pageSize)
	if err != nil {
		return nil, err
	}
	return newPage(items, total, page, pageSize), nil
}

// GetDetail 获取机会详情，将 report_data 与数据库列合并；记录不存在时返回 repo.ErrOpportunityNotFound
func (uc *OpportunityUseCase) GetDetail(ctx context.Context, id int) (*Detail, error) {
	o, err := uc.repo.GetOpportunityByID(ctx, id)
	if err != nil {
		return nil, err
	}

	doc, actualType, ok := decodeReportData(o.ReportData)
	if !ok {
		uc.log.WithContext(ctx).Warnw(
			log.DefaultMessageKey, "report_data is not a dict; using empty dict as fallback",
			"opportunity_id", id,
			"actual_type", actualType,
		)
	}
	return overlay(doc, o), nil
}
