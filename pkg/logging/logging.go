// Package logging builds the process-wide zap logger.
package logging

import (
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// Init constructs a production logger at the given level ("debug",
// "info", "warn", "error"; empty means info), installs it as the zap
// global and returns it. Callers defer logger.Sync().
func Init(level string) (*zap.Logger, error) {
	lvl := zapcore.InfoLevel
	if level != "" {
		parsed, err := zapcore.ParseLevel(level)
		if err != nil {
			return nil, err
		}
		lvl = parsed
	}

	config := zap.NewProductionConfig()
	config.Level = zap.NewAtomicLevelAt(lvl)
	config.EncoderConfig.TimeKey = "timestamp"
	config.EncoderConfig.EncodeTime = zapcore.ISO8601TimeEncoder

	logger, err := config.Build()
	if err != nil {
		return nil, err
	}
	zap.ReplaceGlobals(logger)
	return logger, nil
}

// MustInit is Init for main functions that cannot proceed without a
// logger.
func MustInit(level string) *zap.Logger {
	logger, err := Init(level)
	if err != nil {
		panic(err)
	}
	return logger
}
