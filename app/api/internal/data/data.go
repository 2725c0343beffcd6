package data

import (
	"context"
	"fmt"
	"time"

	"github.com/go-kratos/kratos/v2/log"
	"github.com/iWorld-y/pain_radar/app/api/internal/conf"
	"github.com/iWorld-y/pain_radar/app/common/schema"
	"github.com/jmoiron/sqlx"
	_ "github.com/lib/pq"
)

// Data 持有数据库连接池，供各仓库实现共享
type Data struct {
	db  *sqlx.DB
	log *log.Helper
}

// NewData 打开连接池并检查连通性，按配置执行建表，返回的 cleanup 关闭连接池
func NewData(c *conf.Data, logger log.Logger) (*Data, func(), error) {
	if c == nil || c.Database == nil {
		return nil, nil, fmt.Errorf("data.database is not configured")
	}
	driver := c.Database.Driver
	if driver == "" {
		driver = "postgres"
	}

	db, err := sqlx.Open(driver, c.Database.Source)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to open database connection: %w", err)
	}
	if c.Database.MaxOpenConns > 0 {
		db.SetMaxOpenConns(c.Database.MaxOpenConns)
	}
	if c.Database.MaxIdleConns > 0 {
		db.SetMaxIdleConns(c.Database.MaxIdleConns)
	}
	db.SetConnMaxLifetime(c.Database.ConnMaxLifetimeDuration())

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := db.PingContext(ctx); err != nil {
		db.Close()
		return nil, nil, fmt.Errorf("failed to ping database: %w", err)
	}

	if c.Database.AutoMigrate {
		if err := schema.Migrate(ctx, db); err != nil {
			db.Close()
			return nil, nil, fmt.Errorf("failed to initialize schema: %w", err)
		}
	}

	d := NewDataWithDB(db, logger)
	cleanup := func() {
		d.log.Info("closing the data resources")
		db.Close()
	}
	return d, cleanup, nil
}

// NewDataWithDB 使用已建立的连接池构造 Data，不做连通性检查与建表
func NewDataWithDB(db *sqlx.DB, logger log.Logger) *Data {
	return &Data{db: db, log: log.NewHelper(log.With(logger, "module", "data"))}
}
