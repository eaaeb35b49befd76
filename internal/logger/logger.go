// Package logger provides structured logging with zap.
package logger

import "go.uber.org/zap"

// New creates a new zap.Logger depending on the environment. "production"
// logs JSON at info level, "quiet" discards everything, and any other value
// gets the development console logger.
func New(env string) *zap.Logger {
	switch env {
	case "production":
		logger, err := zap.NewProduction()
		if err != nil {
			return zap.NewNop()
		}
		return logger
	case "quiet":
		return zap.NewNop()
	}
	logger, err := zap.NewDevelopment()
	if err != nil {
		return zap.NewNop()
	}
	return logger
}
