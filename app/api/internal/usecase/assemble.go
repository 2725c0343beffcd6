package usecase

import (
	"bytes"
	"encoding/json"

	"github.com/iWorld-y/pain_radar/app/api/internal/domain"
	orderedmap "github.com/wk8/go-ordered-map/v2"
)

// Detail 机会详情响应：保留 report_data 的键顺序，并叠加数据库列字段
type Detail = orderedmap.OrderedMap[string, any]

// 数据库列字段优先于 report_data 中的同名键，按此顺序叠加
const (
	keyID               = "id"
	keySourceURL        = "source_url"
	keyCreatedAt        = "created_at"
	keyPainPointSummary = "pain_point_summary"
)

// decodeReportData 将 report_data 解析为有序映射；不是 JSON 对象时返回 ok=false 以及实际类型
func decodeReportData(raw []byte) (doc *Detail, actualType string, ok bool) {
	trimmed := bytes.TrimSpace(raw)
	if len(trimmed) == 0 {
		return orderedmap.New[string, any](), "null", false
	}

	var probe any
	if err := json.Unmarshal(trimmed, &probe); err != nil {
		return orderedmap.New[string, any](), "invalid", false
	}
	if _, isObject := probe.(map[string]any); !isObject {
		return orderedmap.New[string, any](), jsonType(probe), false
	}

	// 值保留原始 JSON 文本，大整数与嵌套对象的键序原样输出
	fields := orderedmap.New[string, json.RawMessage]()
	if err := fields.UnmarshalJSON(trimmed); err != nil {
		return orderedmap.New[string, any](), "invalid", false
	}
	doc = orderedmap.New[string, any]()
	for pair := fields.Oldest(); pair != nil; pair = pair.Next() {
		doc.Set(pair.Key, pair.Value)
	}
	return doc, "object", true
}

func jsonType(v any) string {
	switch v.(type) {
	case nil:
		return "null"
	case string:
		return "string"
	case float64:
		return "number"
	case bool:
		return "boolean"
	case []any:
		return "array"
	case map[string]any:
		return "object"
	default:
		return "unknown"
	}
}

// overlay 以数据库列覆盖文档中的同名键；已有键保持原位置，新键追加到末尾
func overlay(doc *Detail, o *domain.Opportunity) *Detail {
	var sourceURL any
	if o.SourceURL != nil {
		sourceURL = *o.SourceURL
	}
	doc.Set(keyID, o.ID)
	doc.Set(keySourceURL, sourceURL)
	doc.Set(keyCreatedAt, o.CreatedAt)
	doc.Set(keyPainPointSummary, o.PainPointSummary)
	return doc
}

func newPage(items []*domain.OpportunitySummary, total int64, page, pageSize int) *domain.OpportunityPage {
	if items == nil {
		items = []*domain.OpportunitySummary{}
	}
	return &domain.OpportunityPage{
		Items:    items,
		Total:    total,
		Page:     page,
		PageSize: pageSize,
	}
}
