package dbg

import (
	"fmt"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

const (
	ModeDev  = "dev"
	ModeProd = "prod"
)

func NewDevLogger(level zapcore.Level) *zap.Logger {
	cfg := zap.NewDevelopmentConfig()

	cfg.Level = zap.NewAtomicLevelAt(level)
	cfg.EncoderConfig.TimeKey = "ts"
	cfg.EncoderConfig.EncodeTime = zapcore.ISO8601TimeEncoder
	cfg.DisableCaller = true

	logger, err := cfg.Build()
	if err != nil {
		panic(err)
	}
	return logger
}

func NewProdLogger(level zapcore.Level) *zap.Logger {
	cfg := zap.NewProductionConfig()

	cfg.Level = zap.NewAtomicLevelAt(level)
	cfg.EncoderConfig.TimeKey = "ts"
	cfg.EncoderConfig.EncodeTime = zapcore.ISO8601TimeEncoder
	cfg.DisableCaller = true
	cfg.Sampling = nil

	logger, err := cfg.Build()
	if err != nil {
		panic(err)
	}
	return logger
}

// NewLogger picks the encoder by mode ("dev" or "prod") and parses level names such as "debug".
func NewLogger(mode, level string) (*zap.Logger, error) {
	lvl, err := zapcore.ParseLevel(level)
	if err != nil {
		return nil, fmt.Errorf("invalid log level %q: %w", level, err)
	}

	switch mode {
	case ModeDev:
		return NewDevLogger(lvl), nil
	case ModeProd:
		return NewProdLogger(lvl), nil
	default:
		return nil, fmt.Errorf("invalid log mode %q", mode)
	}
}
