package logger

import (
	"log"
	"strings"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

var base = zap.NewNop()
var sugar = base.Sugar()

// Init 根据日志级别初始化全局 zap logger。
// development 为 true 时使用彩色的 console 编码，方便本地调试。
func Init(level string, development bool) {
	var lvl zapcore.Level
	switch strings.ToLower(level) {
	case "debug":
		lvl = zapcore.DebugLevel
	case "warn":
		lvl = zapcore.WarnLevel
	case "error":
		lvl = zapcore.ErrorLevel
	default:
		lvl = zapcore.InfoLevel
	}

	config := zap.Config{
		Level:            zap.NewAtomicLevelAt(lvl),
		Development:      development,
		Encoding:         "json",
		EncoderConfig:    zap.NewProductionEncoderConfig(),
		OutputPaths:      []string{"stdout"},
		ErrorOutputPaths: []string{"stderr"},
	}
	if development {
		config.Encoding = "console"
		config.EncoderConfig.EncodeLevel = zapcore.CapitalColorLevelEncoder
	}
	config.EncoderConfig.TimeKey = "timestamp"
	config.EncoderConfig.EncodeTime = zapcore.ISO8601TimeEncoder

	l, err := config.Build()
	if err != nil {
		l = zap.NewExample()
		l.Warn("failed to build configured logger, using fallback", zap.Error(err))
	}
	Set(l)
}

// Set 替换全局 logger，测试中可传入 zaptest/observer 的 logger。
func Set(l *zap.Logger) {
	base = l
	sugar = l.Sugar()
}

// L 返回底层 *zap.Logger。
func L() *zap.Logger {
	return base
}

// StdLogger 返回写入 zap 的标准库 *log.Logger，供 gorm、http.Server 等使用。
func StdLogger(level zapcore.Level) *log.Logger {
	std, err := zap.NewStdLogAt(base, level)
	if err != nil {
		return zap.NewStdLog(base)
	}
	return std
}

func Debug(msg string, keysAndValues ...interface{}) {
	sugar.Debugw(msg, keysAndValues...)
}

func Info(msg string, keysAndValues ...interface{}) {
	sugar.Infow(msg, keysAndValues...)
}

func Warn(msg string, keysAndValues ...interface{}) {
	sugar.Warnw(msg, keysAndValues...)
}

func Error(msg string, keysAndValues ...interface{}) {
	sugar.Errorw(msg, keysAndValues...)
}

func Fatal(msg string, err error) {
	sugar.Fatalw(msg, "error", err)
}

func Sync() {
	_ = base.Sync()
}
