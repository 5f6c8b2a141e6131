package logger

import (
	"strings"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

var L *zap.Logger

func init() {
	var err error
	L, err = build(zapcore.InfoLevel, "json")
	if err != nil {
		panic(err)
	}
}

// Init 依設定重建全域 logger；level 無法解析時使用 info
func Init(level, format string) error {
	lvl, err := zapcore.ParseLevel(strings.ToLower(level))
	if err != nil {
		lvl = zapcore.InfoLevel
	}
	l, err := build(lvl, format)
	if err != nil {
		return err
	}
	L = l
	return nil
}

func build(level zapcore.Level, format string) (*zap.Logger, error) {
	config := zap.NewProductionConfig()
	if format == "console" {
		config = zap.NewDevelopmentConfig()
	}
	config.EncoderConfig.TimeKey = "ts"
	config.EncoderConfig.EncodeTime = zapcore.ISO8601TimeEncoder
	config.Level = zap.NewAtomicLevelAt(level)
	return config.Build()
}

// WithComponent 回傳帶有 component 欄位的 logger，供 handler、service、worker 等使用
func WithComponent(component string) *zap.Logger {
	return L.With(zap.String("component", component))
}

// Sync flushes buffered entries; call before exit.
func Sync() {
	_ = L.Sync()
}
