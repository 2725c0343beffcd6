package main

import (
	"context"
	"flag"
	"os"
	"time"

	"github.com/iWorld-y/pain_radar/app/common/logger"
	"github.com/iWorld-y/pain_radar/app/seed/internal/fixture"
	"github.com/iWorld-y/pain_radar/app/seed/internal/storage"
	"github.com/sirupsen/logrus"
)

var (
	dsn      string
	file     string
	reset    bool
	logLevel string
)

func init() {
	flag.StringVar(&dsn, "dsn", os.Getenv("DATABASE_URL"), "database connection string, defaults to $DATABASE_URL")
	flag.StringVar(&file, "fixtures", "app/seed/fixtures/opportunities.yaml", "fixture file path")
	flag.BoolVar(&reset, "reset", false, "truncate posts and opportunity_reports before seeding")
	flag.StringVar(&logLevel, "log-level", "info", "log level")
}

func main() {
	flag.Parse()

	l, closeLog, err := logger.New(logger.Options{Level: logLevel, Format: "text"})
	if err != nil {
		panic(err)
	}
	defer closeLog()
	if dsn == "" {
		l.Fatal("未设置数据库连接串，请使用 -dsn 或 DATABASE_URL")
	}

	f, err := fixture.Load(file)
	if err != nil {
		l.WithError(err).WithField("file", file).Fatal("无法加载种子文件")
	}

	res, err := run(f)
	if err != nil {
		l.WithError(err).Fatal("写入种子数据失败，事务已回滚")
	}
	l.WithFields(logrus.Fields{
		"posts":   res.Posts,
		"reports": res.Reports,
		"reset":   reset,
	}).Info("种子数据写入完成")
}

func run(f *fixture.Fixture) (*storage.Result, error) {
	store, err := storage.NewStorage(dsn)
	if err != nil {
		return nil, err
	}
	defer store.Close()

	ctx, cancel := context.WithTimeout(context.Background(), time.Minute)
	defer cancel()

	return store.SaveFixture(ctx, f, reset)
}
