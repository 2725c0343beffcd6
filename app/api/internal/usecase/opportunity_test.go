package usecase

import (
	"context"
	"encoding/json"
	"errors"
	"testing"
	"time"

	"github.com/go-kratos/kratos/v2/log"
	"github.com/iWorld-y/pain_radar/app/api/internal/domain"
	"github.com/iWorld-y/pain_radar/app/api/internal/repo"
)

// mockOpportunityRepo 模拟机会报告仓库
type mockOpportunityRepo struct {
	pingErr error
	items   []*domain.OpportunitySummary
	total   int64
	record  *domain.Opportunity
	err     error
}

func (m *mockOpportunityRepo) Ping(ctx context.Context) error {
	return m.pingErr
}

func (m *mockOpportunityRepo) ListOpportunities(ctx context.Context, page, pageSize int) ([]*domain.OpportunitySummary, int64, error) {
	return m.items, m.total, m.err
}

func (m *mockOpportunityRepo) GetOpportunityByID(ctx context.Context, id int) (*domain.Opportunity, error) {
	if m.err != nil {
		return nil, m.err
	}
	if m.record == nil || m.record.ID != id {
		return nil, repo.ErrOpportunityNotFound
	}
	return m.record, nil
}

var createdAt = time.Date(2025, 1, 2, 3, 4, 5, 0, time.UTC)

func strPtr(s string) *string { return &s }

// captureLogger 记录日志级别与键值对
type captureLogger struct {
	levels  []log.Level
	records [][]interface{}
}

func (c *captureLogger) Log(level log.Level, keyvals ...interface{}) error {
	c.levels = append(c.levels, level)
	c.records = append(c.records, keyvals)
	return nil
}

// find 返回第一条消息为 msg 的日志的级别与字段
func (c *captureLogger) find(msg string) (log.Level, map[interface{}]interface{}, bool) {
	for i, kv := range c.records {
		fields := make(map[interface{}]interface{}, len(kv)/2)
		for j := 0; j+1 < len(kv); j += 2 {
			fields[kv[j]] = kv[j+1]
		}
		if fields[log.DefaultMessageKey] == msg {
			return c.levels[i], fields, true
		}
	}
	return 0, nil, false
}

func detailJSON(t *testing.T, d *Detail) map[string]interface{} {
	t.Helper()
	b, err := json.Marshal(d)
	if err != nil {
		t.Fatalf("marshal detail: %v", err)
	}
	var out map[string]interface{}
	if err := json.Unmarshal(b, &out); err != nil {
		t.Fatalf("unmarshal detail: %v", err)
	}
	return out
}

func TestOpportunityUseCase_List(t *testing.T) {
	r := &mockOpportunityRepo{
		items: []*domain.OpportunitySummary{{ID: 1, PainPointSummary: "Test Opportunity"}},
		total: 1,
	}
	uc := NewOpportunityUseCase(r, log.DefaultLogger)

	page, err := uc.List(context.Background(), 1, 10)
	if err != nil {
		t.Errorf("List() error = %v", err)
		return
	}
	if page.Total != 1 {
		t.Errorf("List() total = %v, want 1", page.Total)
	}
	if page.Page != 1 || page.PageSize != 10 {
		t.Errorf("List() page = %d/%d, want 1/10", page.Page, page.PageSize)
	}
	if len(page.Items) != 1 || page.Items[0].PainPointSummary != "Test Opportunity" {
		t.Errorf("List() items = %v", page.Items)
	}
}

func TestOpportunityUseCase_ListEmptyItemsIsArray(t *testing.T) {
	uc := NewOpportunityUseCase(&mockOpportunityRepo{}, log.DefaultLogger)

	page, err := uc.List(context.Background(), 5, 10)
	if err != nil {
		t.Fatalf("List() error = %v", err)
	}
	b, _ := json.Marshal(page)
	want := `{"items":[],"total":0,"page":5,"page_size":10}`
	if string(b) != want {
		t.Errorf("List() json = %s, want %s", b, want)
	}
}

func TestOpportunityUseCase_ListError(t *testing.T) {
	uc := NewOpportunityUseCase(&mockOpportunityRepo{err: errors.New("db down")}, log.DefaultLogger)

	if _, err := uc.List(context.Background(), 1, 10); err == nil {
		t.Error("List() expected error")
	}
}

func TestOpportunityUseCase_CheckConnectivity(t *testing.T) {
	if !NewOpportunityUseCase(&mockOpportunityRepo{}, log.DefaultLogger).CheckConnectivity(context.Background()) {
		t.Error("CheckConnectivity() = false, want true")
	}
	down := &mockOpportunityRepo{pingErr: errors.New("connection refused")}
	if NewOpportunityUseCase(down, log.DefaultLogger).CheckConnectivity(context.Background()) {
		t.Error("CheckConnectivity() = true, want false")
	}
}

func TestOpportunityUseCase_GetDetailOverlayWins(t *testing.T) {
	r := &mockOpportunityRepo{record: &domain.Opportunity{
		ID:               42,
		CreatedAt:        createdAt,
		PainPointSummary: "scalar summary",
		ReportData:       []byte(`{"foo":"bar","id":999,"pain_point_summary":"embedded","source_url":"x"}`),
		SourceURL:        strPtr("https://example.com/post/1"),
	}}
	uc := NewOpportunityUseCase(r, log.DefaultLogger)

	d, err := uc.GetDetail(context.Background(), 42)
	if err != nil {
		t.Fatalf("GetDetail() error = %v", err)
	}
	got := detailJSON(t, d)
	if got["id"] != float64(42) {
		t.Errorf("id = %v, want 42", got["id"])
	}
	if got["foo"] != "bar" {
		t.Errorf("foo = %v, want bar", got["foo"])
	}
	if got["pain_point_summary"] != "scalar summary" {
		t.Errorf("pain_point_summary = %v", got["pain_point_summary"])
	}
	if got["source_url"] != "https://example.com/post/1" {
		t.Errorf("source_url = %v", got["source_url"])
	}
	if got["created_at"] != "2025-01-02T03:04:05Z" {
		t.Errorf("created_at = %v", got["created_at"])
	}
}

func TestOpportunityUseCase_GetDetailKeyOrder(t *testing.T) {
	r := &mockOpportunityRepo{record: &domain.Opportunity{
		ID:         7,
		CreatedAt:  createdAt,
		ReportData: []byte(`{"zeta":1,"id":3,"alpha":{"nested":true}}`),
	}}
	uc := NewOpportunityUseCase(r, log.DefaultLogger)

	d, err := uc.GetDetail(context.Background(), 7)
	if err != nil {
		t.Fatalf("GetDetail() error = %v", err)
	}
	var keys []string
	for pair := d.Oldest(); pair != nil; pair = pair.Next() {
		keys = append(keys, pair.Key)
	}
	want := []string{"zeta", "id", "alpha", "source_url", "created_at", "pain_point_summary"}
	if len(keys) != len(want) {
		t.Fatalf("keys = %v, want %v", keys, want)
	}
	for i := range want {
		if keys[i] != want[i] {
			t.Fatalf("keys = %v, want %v", keys, want)
		}
	}
}

func TestOpportunityUseCase_GetDetailMalformedReportData(t *testing.T) {
	tests := []struct {
		name       string
		raw        []byte
		actualType string
	}{
		{"sql null", nil, "null"},
		{"json null", []byte(`null`), "null"},
		{"string", []byte(`"just text"`), "string"},
		{"array", []byte(`[1,2,3]`), "array"},
		{"number", []byte(`12.5`), "number"},
		{"boolean", []byte(`false`), "boolean"},
		{"garbage", []byte(`{not json`), "invalid"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r := &mockOpportunityRepo{record: &domain.Opportunity{
				ID:               9,
				CreatedAt:        createdAt,
				PainPointSummary: "summary",
				ReportData:       tt.raw,
			}}
			logger := &captureLogger{}
			uc := NewOpportunityUseCase(r, logger)

			d, err := uc.GetDetail(context.Background(), 9)
			if err != nil {
				t.Fatalf("GetDetail() error = %v", err)
			}

			level, fields, ok := logger.find("report_data is not a dict; using empty dict as fallback")
			if !ok {
				t.Fatalf("no fallback warning logged: %v", logger.records)
			}
			if level != log.LevelWarn {
				t.Errorf("level = %v, want %v", level, log.LevelWarn)
			}
			if fields["actual_type"] != tt.actualType {
				t.Errorf("actual_type = %v, want %s", fields["actual_type"], tt.actualType)
			}
			if fields["opportunity_id"] != 9 {
				t.Errorf("opportunity_id = %v, want 9", fields["opportunity_id"])
			}

			got := detailJSON(t, d)
			if len(got) != 4 {
				t.Errorf("detail = %v, want only the four overlay keys", got)
			}
			if v, ok := got["source_url"]; !ok || v != nil {
				t.Errorf("source_url = %v (present %v), want null", v, ok)
			}
		})
	}
}

func TestOpportunityUseCase_GetDetailWellFormedLogsNothing(t *testing.T) {
	r := &mockOpportunityRepo{record: &domain.Opportunity{ID: 3, CreatedAt: createdAt, ReportData: []byte(`{"a":1}`)}}
	logger := &captureLogger{}

	if _, err := NewOpportunityUseCase(r, logger).GetDetail(context.Background(), 3); err != nil {
		t.Fatalf("GetDetail() error = %v", err)
	}
	if len(logger.records) != 0 {
		t.Errorf("unexpected logs: %v", logger.records)
	}
}

func TestOpportunityUseCase_GetDetailPreservesValues(t *testing.T) {
	r := &mockOpportunityRepo{record: &domain.Opportunity{
		ID:         11,
		CreatedAt:  createdAt,
		ReportData: []byte(`{"n": 12345678901234567890, "m": 9007199254740993, "f": 1.50, "nested": {"z": 1, "a": [2, {"y": true, "b": null}]}}`),
	}}
	uc := NewOpportunityUseCase(r, log.DefaultLogger)

	d, err := uc.GetDetail(context.Background(), 11)
	if err != nil {
		t.Fatalf("GetDetail() error = %v", err)
	}
	b, err := json.Marshal(d)
	if err != nil {
		t.Fatalf("marshal detail: %v", err)
	}
	want := `{"n":12345678901234567890,"m":9007199254740993,"f":1.50,"nested":{"z":1,"a":[2,{"y":true,"b":null}]},` +
		`"id":11,"source_url":null,"created_at":"2025-01-02T03:04:05Z","pain_point_summary":""}`
	if string(b) != want {
		t.Errorf("detail json = %s, want %s", b, want)
	}
}

func TestOpportunityUseCase_GetDetailNotFound(t *testing.T) {
	uc := NewOpportunityUseCase(&mockOpportunityRepo{}, log.DefaultLogger)

	_, err := uc.GetDetail(context.Background(), 1)
	if !errors.Is(err, repo.ErrOpportunityNotFound) {
		t.Errorf("GetDetail() error = %v, want ErrOpportunityNotFound", err)
	}
}

func TestJSONType(t *testing.T) {
	tests := map[string]string{
		`"s"`:  "string",
		`true`: "boolean",
		`[]`:   "array",
		`1`:    "number",
		`null`: "null",
		`{}`:   "object",
	}
	for raw, want := range tests {
		var v any
		if err := json.Unmarshal([]byte(raw), &v); err != nil {
			t.Fatalf("unmarshal %s: %v", raw, err)
		}
		if got := jsonType(v); got != want {
			t.Errorf("jsonType(%s) = %s, want %s", raw, got, want)
		}
	}
}
