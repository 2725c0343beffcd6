package domain

import "time"

// Opportunity 机会报告领域对象，ReportData 为数据库中的原始 JSON 文档
type Opportunity struct {
	ID               int
	CreatedAt        time.Time
	PainPointSummary string
	ReportData       []byte
	// SourceURL 为关联帖子的链接，没有关联帖子时为 nil
	SourceURL *string
}

// OpportunitySummary 列表页使用的机会摘要
type OpportunitySummary struct {
	ID               int       `json:"id"`
	CreatedAt        time.Time `json:"created_at"`
	PainPointSummary string    `json:"pain_point_summary"`
	SourceURL        *string   `json:"source_url"`
}

// OpportunityPage 分页列表响应
type OpportunityPage struct {
	Items    []*OpportunitySummary `json:"items"`
	Total    int64                 `json:"total"`
	Page     int                   `json:"page"`
	PageSize int                   `json:"page_size"`
}
