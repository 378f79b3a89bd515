package document

import (
	"sync"

	"go.uber.org/zap"
)

var (
	logger     *zap.Logger
	loggerOnce sync.Once
)

// Logger returns the package logger used when no logger option is given.
// It is a no-op logger unless replaced with SetLogger.
func Logger() *zap.Logger {
	loggerOnce.Do(func() {
		if logger == nil {
			logger = zap.NewNop()
		}
	})

	return logger
}

// SetLogger replaces the package logger. It must be called before the first
// decoder or encoder is created.
func SetLogger(l *zap.Logger) {
	if l != nil {
		loggerOnce.Do(func() {})
		logger = l
	}
}
