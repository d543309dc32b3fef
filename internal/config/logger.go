package config

import (
	"strings"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// NewLogger builds the CLI logger. Format "console" or a debug level gives
// human-readable output, anything else JSON. Output always goes to stderr so
// stdout stays free for search results.
func NewLogger(cfg LogConfig) (*zap.Logger, error) {
	level := parseLogLevel(cfg.Level)

	var zc zap.Config
	if useConsole(cfg.Format, level) {
		zc = zap.NewDevelopmentConfig()
		zc.EncoderConfig.EncodeLevel = zapcore.CapitalColorLevelEncoder
	} else {
		zc = zap.NewProductionConfig()
		zc.EncoderConfig.TimeKey = "timestamp"
		zc.EncoderConfig.EncodeTime = zapcore.ISO8601TimeEncoder
	}

	zc.Level = zap.NewAtomicLevelAt(level)
	zc.OutputPaths = []string{"stderr"}
	zc.ErrorOutputPaths = []string{"stderr"}
	zc.EncoderConfig.CallerKey = "caller"
	zc.EncoderConfig.EncodeCaller = zapcore.ShortCallerEncoder

	logger, err := zc.Build()
	if err != nil {
		return nil, err
	}
	return logger.Named("bing"), nil
}

func useConsole(format string, level zapcore.Level) bool {
	switch strings.ToLower(format) {
	case "console":
		return true
	case "json":
		return false
	}
	return level == zapcore.DebugLevel
}

func parseLogLevel(level string) zapcore.Level {
	switch strings.ToLower(level) {
	case "debug":
		return zapcore.DebugLevel
	case "info":
		return zapcore.InfoLevel
	case "warn", "warning":
		return zapcore.WarnLevel
	case "error":
		return zapcore.ErrorLevel
	default:
		return zapcore.InfoLevel
	}
}
