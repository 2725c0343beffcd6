package logger

import (
	"fmt"

	"github.com/go-kratos/kratos/v2/log"
	"github.com/sirupsen/logrus"
)

var _ log.Logger = (*KratosLogger)(nil)

// KratosLogger 将 kratos log.Logger 的键值对日志转发到 logrus
type KratosLogger struct {
	log *logrus.Logger
}

// NewKratosLogger 包装 logrus 实例
func NewKratosLogger(l *logrus.Logger) *KratosLogger {
	return &KratosLogger{log: l}
}

// Log 实现 log.Logger；msg 键作为 logrus 消息，其余键作为字段
func (l *KratosLogger) Log(level log.Level, keyvals ...interface{}) error {
	if len(keyvals) == 0 {
		return nil
	}
	if len(keyvals)%2 != 0 {
		keyvals = append(keyvals, "KEYVALS UNPAIRED")
	}

	var msg string
	fields := make(logrus.Fields, len(keyvals)/2)
	for i := 0; i < len(keyvals); i += 2 {
		key := fmt.Sprint(keyvals[i])
		if key == log.DefaultMessageKey {
			msg = fmt.Sprint(keyvals[i+1])
			continue
		}
		fields[key] = keyvals[i+1]
	}

	l.log.WithFields(fields).Log(toLogrusLevel(level), msg)
	return nil
}

// toLogrusLevel 映射日志级别；Fatal 只记录，退出由 kratos Helper 负责
func toLogrusLevel(level log.Level) logrus.Level {
	switch level {
	case log.LevelDebug:
		return logrus.DebugLevel
	case log.LevelWarn:
		return logrus.WarnLevel
	case log.LevelError:
		return logrus.ErrorLevel
	case log.LevelFatal:
		return logrus.FatalLevel
	default:
		return logrus.InfoLevel
	}
}
