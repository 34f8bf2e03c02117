package badger

import (
	"testing"

	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"
)

func TestBadgerLoggerAdapter_Levels(t *testing.T) {
	tests := []struct {
		name     string
		log      func(b *badgerLoggerAdapter)
		level    zapcore.Level
		expected string
	}{
		{
			name:     "error",
			log:      func(b *badgerLoggerAdapter) { b.Errorf("failed to sync %s\n", "vlog") },
			level:    zapcore.ErrorLevel,
			expected: "failed to sync vlog",
		},
		{
			name:     "warning",
			log:      func(b *badgerLoggerAdapter) { b.Warningf("slow write: %d ms\n", 12) },
			level:    zapcore.WarnLevel,
			expected: "slow write: 12 ms",
		},
		{
			name:     "info is demoted",
			log:      func(b *badgerLoggerAdapter) { b.Infof("All %d tables opened\n", 3) },
			level:    zapcore.DebugLevel,
			expected: "All 3 tables opened",
		},
		{
			name:     "debug",
			log:      func(b *badgerLoggerAdapter) { b.Debugf("no newline") },
			level:    zapcore.DebugLevel,
			expected: "no newline",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			core, observed := observer.New(zap.DebugLevel)
			tt.log(newBadgerLoggerAdapter(zap.New(core)))

			entries := observed.All()
			require.Len(t, entries, 1)
			require.Equal(t, tt.level, entries[0].Level)
			require.Equal(t, tt.expected, entries[0].Message)
			require.Equal(t, "badger", entries[0].ContextMap()["component"])
		})
	}
}

func TestBadgerLoggerAdapter_InfoHiddenAtInfoLevel(t *testing.T) {
	core, observed := observer.New(zap.InfoLevel)
	b := newBadgerLoggerAdapter(zap.New(core))

	b.Infof("Replaying file id: %d\n", 1)
	b.Warningf("disk nearly full\n")

	entries := observed.All()
	require.Len(t, entries, 1)
	require.Equal(t, "disk nearly full", entries[0].Message)
}
