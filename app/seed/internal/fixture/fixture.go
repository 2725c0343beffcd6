package fixture

import (
	"encoding/json"
	"fmt"
	"os"
	"time"

	orderedmap "github.com/wk8/go-ordered-map/v2"
	"gopkg.in/yaml.v3"
)

// Fixture 种子数据文件
type Fixture struct {
	Posts   []Post   `yaml:"posts"`
	Reports []Report `yaml:"reports"`
}

// Post 来源帖子，Key 仅在文件内用于关联报告
type Post struct {
	Key   string `yaml:"key"`
	URL   string `yaml:"url"`
	Title string `yaml:"title"`
}

// Report 机会报告
type Report struct {
	Post             string     `yaml:"post"`
	PainPointSummary string     `yaml:"pain_point_summary"`
	CreatedAt        *time.Time `yaml:"created_at"`
	// ReportData 任意 YAML 值，按原键序写成 JSON；缺省或 null 时写入 SQL NULL
	ReportData yaml.Node `yaml:"report_data"`
	// ReportDataRaw 原样写入的 JSON 文本，优先于 ReportData
	ReportDataRaw string `yaml:"report_data_raw"`
}

// Load 读取并校验种子文件
func Load(path string) (*Fixture, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	return Parse(data)
}

func Parse(data []byte) (*Fixture, error) {
	var f Fixture
	if err := yaml.Unmarshal(data, &f); err != nil {
		return nil, err
	}
	if err := f.Validate(); err != nil {
		return nil, err
	}
	return &f, nil
}

// Validate 检查帖子键唯一且报告引用的帖子存在
func (f *Fixture) Validate() error {
	keys := make(map[string]struct{}, len(f.Posts))
	for i, p := range f.Posts {
		if p.Key == "" || p.URL == "" {
			return fmt.Errorf("posts[%d]: key and url are required", i)
		}
		if _, ok := keys[p.Key]; ok {
			return fmt.Errorf("posts[%d]: duplicate key %q", i, p.Key)
		}
		keys[p.Key] = struct{}{}
	}
	for i, r := range f.Reports {
		if _, ok := keys[r.Post]; r.Post != "" && !ok {
			return fmt.Errorf("reports[%d]: unknown post %q", i, r.Post)
		}
		if r.ReportDataRaw != "" && !json.Valid([]byte(r.ReportDataRaw)) {
			return fmt.Errorf("reports[%d]: report_data_raw is not valid JSON", i)
		}
	}
	return nil
}

// ReportJSON 返回写入 report_data 列的 JSON 文本，ok 为 false 表示写入 NULL
func (r *Report) ReportJSON() (string, bool, error) {
	if r.ReportDataRaw != "" {
		return r.ReportDataRaw, true, nil
	}
	if r.ReportData.Kind == 0 || r.ReportData.Tag == "!!null" {
		return "", false, nil
	}
	v, err := nodeValue(&r.ReportData)
	if err != nil {
		return "", false, err
	}
	b, err := json.Marshal(v)
	if err != nil {
		return "", false, err
	}
	return string(b), true, nil
}

// nodeValue 把 YAML 节点转成可 JSON 序列化的值，映射保持文件中的键序
func nodeValue(n *yaml.Node) (any, error) {
	switch n.Kind {
	case yaml.DocumentNode:
		if len(n.Content) == 0 {
			return nil, nil
		}
		return nodeValue(n.Content[0])
	case yaml.AliasNode:
		return nodeValue(n.Alias)
	case yaml.MappingNode:
		m := orderedmap.New[string, any]()
		for i := 0; i+1 < len(n.Content); i += 2 {
			var key string
			if err := n.Content[i].Decode(&key); err != nil {
				return nil, fmt.Errorf("line %d: %w", n.Content[i].Line, err)
			}
			v, err := nodeValue(n.Content[i+1])
			if err != nil {
				return nil, err
			}
			m.Set(key, v)
		}
		return m, nil
	case yaml.SequenceNode:
		s := make([]any, 0, len(n.Content))
		for _, c := range n.Content {
			v, err := nodeValue(c)
			if err != nil {
				return nil, err
			}
			s = append(s, v)
		}
		return s, nil
	default:
		var v any
		if err := n.Decode(&v); err != nil {
			return nil, fmt.Errorf("line %d: %w", n.Line, err)
		}
		if t, ok := v.(time.Time); ok {
			return t.Format(time.RFC3339), nil
		}
		return v, nil
	}
}
