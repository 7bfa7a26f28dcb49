package logger

import (
	"log"
	"os"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// Logger 默认是空实现，进程入口调用 Init 后替换为真实 logger。
var Logger = zap.NewNop()

// Init initializes the global logger. Production mode is selected via ENV.
func Init() {
	env := os.Getenv("ENV")

	var (
		zl  *zap.Logger
		err error
	)
	if env == "production" {
		zl, err = zap.NewProduction()
	} else {
		zl, err = zap.NewDevelopment()
	}
	if err != nil {
		panic("failed to initialize logger: " + err.Error())
	}

	Logger = zl
}

// Close flushes buffered log entries.
func Close() {
	if Logger == nil {
		return
	}
	if err := Logger.Sync(); err != nil {
		log.Printf("failed to flush log entries: %v", err)
	}
}

func Info(msg string, fields ...zapcore.Field) {
	Logger.Info(msg, fields...)
}

func Warn(msg string, fields ...zapcore.Field) {
	Logger.Warn(msg, fields...)
}

func Error(msg string, fields ...zapcore.Field) {
	Logger.Error(msg, fields...)
}
