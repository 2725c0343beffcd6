package logger

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/sirupsen/logrus"
)

// Options 日志初始化参数
type Options struct {
	Level  string
	File   string
	Format string // json | text
}

// CustomFormatter 自定义文本日志格式: [TIME] [LEVEL] [FILE:LINE] MSG key=value ...
type CustomFormatter struct{}

// Format 实现 logrus.Formatter 接口
func (f *CustomFormatter) Format(entry *logrus.Entry) ([]byte, error) {
	var fileLine string
	if entry.HasCaller() {
		fileLine = fmt.Sprintf("%s:%d", filepath.Base(entry.Caller.File), entry.Caller.Line)
	}

	// 对齐级别长度，例如 INFO, WARN, ERRO
	level := strings.ToUpper(entry.Level.String())
	if len(level) > 4 {
		level = level[:4]
	}

	var b strings.Builder
	b.WriteString(fmt.Sprintf("[%s] [%s]", entry.Time.Format("2006-01-02 15:04:05"), level))
	if fileLine != "" {
		b.WriteString(" [" + fileLine + "]")
	}
	b.WriteString(" " + entry.Message)

	keys := make([]string, 0, len(entry.Data))
	for k := range entry.Data {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	for _, k := range keys {
		b.WriteString(fmt.Sprintf(" %s=%v", k, entry.Data[k]))
	}
	b.WriteByte('\n')

	return []byte(b.String()), nil
}

// New 创建 logrus 实例，同时输出到控制台和可选的日志文件；cleanup 负责关闭日志文件
func New(opts Options) (*logrus.Logger, func(), error) {
	l := logrus.New()

	switch opts.Format {
	case "text":
		l.SetFormatter(&CustomFormatter{})
	default:
		l.SetFormatter(&logrus.JSONFormatter{TimestampFormat: "2006-01-02T15:04:05.000Z07:00"})
	}

	level, err := logrus.ParseLevel(opts.Level)
	if err != nil {
		level = logrus.InfoLevel // 默认级别
	}
	l.SetLevel(level)

	cleanup := func() {}
	writers := []io.Writer{os.Stdout}
	if opts.File != "" {
		// 确保日志目录存在
		logDir := filepath.Dir(opts.File)
		if logDir != "." {
			if err := os.MkdirAll(logDir, 0o755); err != nil {
				return nil, nil, fmt.Errorf("failed to create log directory: %w", err)
			}
		}

		file, err := os.OpenFile(opts.File, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o666)
		if err != nil {
			return nil, nil, err
		}
		writers = append(writers, file)
		cleanup = func() {
			l.SetOutput(os.Stdout)
			file.Close()
		}
	}
	l.SetOutput(io.MultiWriter(writers...))

	return l, cleanup, nil
}
