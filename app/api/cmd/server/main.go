package main

import (
	"flag"
	"os"

	"github.com/go-kratos/kratos/v2"
	"github.com/go-kratos/kratos/v2/config"
	"github.com/go-kratos/kratos/v2/config/env"
	"github.com/go-kratos/kratos/v2/config/file"
	"github.com/go-kratos/kratos/v2/log"
	"github.com/go-kratos/kratos/v2/transport/http"
	"github.com/iWorld-y/pain_radar/app/api/internal/conf"
	"github.com/iWorld-y/pain_radar/app/api/internal/middleware"
	applogger "github.com/iWorld-y/pain_radar/app/common/logger"
)

// go build -ldflags "-X main.Version=x.y.z"
var (
	// Name 是服务的名称
	Name string = "pain_radar.api"
	// Version 是服务的版本号
	Version string
	// flagconf 是配置文件的路径命令行参数
	flagconf string

	id, _ = os.Hostname()
)

func init() {
	flag.StringVar(&flagconf, "conf", "app/api/configs/config.yaml", "config path, eg: -conf config.yaml")
}

func newApp(logger log.Logger, hs *http.Server) *kratos.App {
	return kratos.New(
		kratos.ID(id),
		kratos.Name(Name),
		kratos.Version(Version),
		kratos.Metadata(map[string]string{}),
		kratos.Logger(logger),
		kratos.Server(hs),
	)
}

func main() {
	flag.Parse()

	// 配置加载：文件 + 环境变量（用于解析 ${DATABASE_URL:...} 之类的占位符）
	c := config.New(
		config.WithSource(
			env.NewSource(),
			file.NewSource(flagconf),
		),
	)
	defer c.Close()

	if err := c.Load(); err != nil {
		panic(err)
	}

	var bc conf.Bootstrap
	if err := c.Scan(&bc); err != nil {
		panic(err)
	}
	if bc.Server == nil {
		bc.Server = &conf.Server{}
	}
	if bc.Log == nil {
		bc.Log = &conf.Log{}
	}

	// 日志：logrus 输出，kratos 接口；请求 ID 通过 Valuer 从上下文注入
	l, closeLog, err := applogger.New(applogger.Options{Level: bc.Log.Level, File: bc.Log.File, Format: bc.Log.Format})
	if err != nil {
		panic(err)
	}
	defer closeLog()
	logger := log.With(applogger.NewKratosLogger(l),
		"caller", log.DefaultCaller,
		"service.id", id,
		"service.name", Name,
		"service.version", Version,
		"request_id", middleware.RequestIDValuer(),
	)
	log.SetLogger(logger)

	app, cleanup, err := initApp(bc.Server, bc.Data, logger)
	if err != nil {
		panic(err)
	}
	defer cleanup()

	if err := app.Run(); err != nil {
		panic(err)
	}
}
