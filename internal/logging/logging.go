// Package logging provides the shared zap logger used across the service.
package logging

import (
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

var global *zap.SugaredLogger

// Init configures the global logger. env "production" selects JSON output.
func Init(level, env string) error {
	var cfg zap.Config
	if env == "production" {
		cfg = zap.NewProductionConfig()
	} else {
		cfg = zap.NewDevelopmentConfig()
		cfg.EncoderConfig.EncodeLevel = zapcore.CapitalColorLevelEncoder
	}

	var zapLevel zapcore.Level
	if err := zapLevel.UnmarshalText([]byte(level)); err != nil {
		zapLevel = zapcore.InfoLevel
	}
	cfg.Level = zap.NewAtomicLevelAt(zapLevel)

	logger, err := cfg.Build(zap.AddStacktrace(zapcore.ErrorLevel))
	if err != nil {
		return err
	}

	global = logger.Sugar()
	return nil
}

// Get returns the global logger, falling back to a development logger when
// Init has not been called (keeps tests quiet about setup order).
func Get() *zap.SugaredLogger {
	if global == nil {
		logger, _ := zap.NewDevelopment()
		global = logger.Sugar()
	}
	return global
}

// Named returns a child logger with the given name.
func Named(name string) *zap.SugaredLogger {
	return Get().Named(name)
}
