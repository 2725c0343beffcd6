package conf

import "time"

type Bootstrap struct {
	Server *Server `json:"server"`
	Data   *Data   `json:"data"`
	Log    *Log    `json:"log"`
}

type Server struct {
	Http *HTTP `json:"http"`
}

type HTTP struct {
	Addr      string     `json:"addr"`
	Timeout   string     `json:"timeout"`
	RateLimit *RateLimit `json:"rate_limit"`
}

// RateLimit 令牌桶限流配置，Qps <= 0 表示关闭
type RateLimit struct {
	Qps   float64 `json:"qps"`
	Burst int     `json:"burst"`
}

type Data struct {
	Database *Database `json:"database"`
}

type Database struct {
	Driver          string `json:"driver"`
	Source          string `json:"source"`
	MaxOpenConns    int    `json:"max_open_conns"`
	MaxIdleConns    int    `json:"max_idle_conns"`
	ConnMaxLifetime string `json:"conn_max_lifetime"`
	AutoMigrate     bool   `json:"auto_migrate"`
}

// ConnMaxLifetimeDuration 解析连接最大存活时间，未配置或非法时返回 0（不限制）
func (d *Database) ConnMaxLifetimeDuration() time.Duration {
	if d == nil || d.ConnMaxLifetime == "" {
		return 0
	}
	v, err := time.ParseDuration(d.ConnMaxLifetime)
	if err != nil {
		return 0
	}
	return v
}

type Log struct {
	Level  string `json:"level"`
	File   string `json:"file"`
	Format string `json:"format"`
}
