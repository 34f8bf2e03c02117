package badger

import (
	"strings"

	badgerdb "github.com/dgraph-io/badger/v3"
	"go.uber.org/zap"
)

// badgerLoggerAdapter adapts zap.Logger to the badger.Logger interface
type badgerLoggerAdapter struct {
	logger *zap.SugaredLogger
}

// Ensure badgerLoggerAdapter implements badger.Logger
var _ badgerdb.Logger = (*badgerLoggerAdapter)(nil)

// newBadgerLoggerAdapter tags every badger line with component=badger
func newBadgerLoggerAdapter(logger *zap.Logger) *badgerLoggerAdapter {
	return &badgerLoggerAdapter{
		logger: logger.With(zap.String("component", "badger")).Sugar(),
	}
}

// Errorf logs an error message
func (b *badgerLoggerAdapter) Errorf(format string, args ...interface{}) {
	b.logger.Errorf(trimFormat(format), args...)
}

// Warningf logs a warning message
func (b *badgerLoggerAdapter) Warningf(format string, args ...interface{}) {
	b.logger.Warnf(trimFormat(format), args...)
}

// Infof logs at debug level; badger reports every open, flush and compaction
func (b *badgerLoggerAdapter) Infof(format string, args ...interface{}) {
	b.logger.Debugf(trimFormat(format), args...)
}

// Debugf logs a debug message
func (b *badgerLoggerAdapter) Debugf(format string, args ...interface{}) {
	b.logger.Debugf(trimFormat(format), args...)
}

// badger formats end in a newline, zap adds its own
func trimFormat(format string) string {
	return strings.TrimRight(format, "\n")
}
