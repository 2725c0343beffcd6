package server

import (
	"context"
	"time"

	"github.com/go-kratos/kratos/v2/log"
	"github.com/go-kratos/kratos/v2/middleware/recovery"
	"github.com/go-kratos/kratos/v2/middleware/selector"
	"github.com/go-kratos/kratos/v2/transport/http"
	"github.com/iWorld-y/pain_radar/app/api/internal/conf"
	"github.com/iWorld-y/pain_radar/app/api/internal/data"
	"github.com/iWorld-y/pain_radar/app/api/internal/middleware"
	"github.com/iWorld-y/pain_radar/app/api/internal/service"
)

// NewHTTPServer 创建 HTTP 服务：过滤器作用于所有请求（包括错误与未匹配路由），
// 中间件作用于业务处理函数
func NewHTTPServer(c *conf.Server, d *data.Data, s *service.OpportunityService, m *middleware.Metrics, logger log.Logger) *http.Server {
	var qps float64
	var burst int
	if c.Http != nil && c.Http.RateLimit != nil {
		qps, burst = c.Http.RateLimit.Qps, c.Http.RateLimit.Burst
	}

	var opts = []http.ServerOption{
		http.Filter(
			middleware.RequestID(),
			middleware.AccessLog(logger),
			m.Filter(),
			middleware.RateLimit(qps, burst),
		),
		http.Middleware(
			recovery.Recovery(),
			selector.Server(data.ScopedSession(d)).Match(needsSession).Build(),
		),
		http.ErrorEncoder(errorEncoder),
	}
	if c.Http != nil && c.Http.Addr != "" {
		opts = append(opts, http.Address(c.Http.Addr))
	}
	if c.Http != nil && c.Http.Timeout != "" {
		if timeout, err := time.ParseDuration(c.Http.Timeout); err == nil {
			opts = append(opts, http.Timeout(timeout))
		}
	}

	srv := http.NewServer(opts...)
	service.RegisterOpportunityHTTPServer(srv, s)
	srv.Handle(middleware.MetricsPath, m.Handler())

	return srv
}

// 欢迎页不访问数据库
func needsSession(_ context.Context, operation string) bool {
	return operation != service.OperationOpportunityRoot
}
