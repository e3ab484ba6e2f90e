package log

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zapcore"
)

func TestLevel(t *testing.T) {
	tests := []struct {
		name string
		opts Options
		want zapcore.Level
	}{
		{"default", Options{}, zapcore.InfoLevel},
		{"configured", Options{Level: "WARN"}, zapcore.WarnLevel},
		{"debug flag wins", Options{Level: "error", Debug: true}, zapcore.DebugLevel},
		{"verbose", Options{Verbose: true}, zapcore.DebugLevel},
		{"quiet", Options{Level: "debug", Quiet: true}, zapcore.ErrorLevel},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			lvl, err := tt.opts.level()
			require.NoError(t, err)
			assert.Equal(t, tt.want, lvl)
		})
	}

	_, err := Options{Level: "chatty"}.level()
	assert.Error(t, err)
}

func TestNew(t *testing.T) {
	for _, format := range []string{"console", "json"} {
		logger, err := New(Options{Format: format})
		require.NoError(t, err)
		assert.True(t, logger.Core().Enabled(zapcore.InfoLevel))
		assert.False(t, logger.Core().Enabled(zapcore.DebugLevel))
	}
}
