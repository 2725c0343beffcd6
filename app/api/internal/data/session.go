package data

import (
	"context"
	"fmt"

	"github.com/go-kratos/kratos/v2/middleware"
	"github.com/jmoiron/sqlx"
)

type sessionKey struct{}

// NewSessionContext 将请求级数据库会话绑定到上下文
func NewSessionContext(ctx context.Context, conn *sqlx.Conn) context.Context {
	return context.WithValue(ctx, sessionKey{}, conn)
}

// SessionFromContext 取出请求级数据库会话
func SessionFromContext(ctx context.Context) (*sqlx.Conn, bool) {
	conn, ok := ctx.Value(sessionKey{}).(*sqlx.Conn)
	return conn, ok
}

// ScopedSession 为每个请求从连接池获取一个会话，处理结束后无论成功、失败或 panic 都会归还
func ScopedSession(d *Data) middleware.Middleware {
	return func(handler middleware.Handler) middleware.Handler {
		return func(ctx context.Context, req interface{}) (interface{}, error) {
			conn, err := d.db.Connx(ctx)
			if err != nil {
				return nil, fmt.Errorf("failed to acquire database session: %w", err)
			}
			defer func() {
				if err := conn.Close(); err != nil {
					d.log.WithContext(ctx).Warnf("failed to release database session: %v", err)
				}
			}()
			return handler(NewSessionContext(ctx, conn), req)
		}
	}
}

// queryer 优先使用上下文中的会话；没有时临时获取一个连接，调用方负责执行 release
func (d *Data) queryer(ctx context.Context) (sqlx.QueryerContext, func(), error) {
	if conn, ok := SessionFromContext(ctx); ok {
		return conn, func() {}, nil
	}
	conn, err := d.db.Connx(ctx)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to acquire database session: %w", err)
	}
	return conn, func() { conn.Close() }, nil
}
