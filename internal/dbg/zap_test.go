package dbg

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zapcore"
)

func TestNewLogger(t *testing.T) {
	tests := []struct {
		name    string
		mode    string
		level   string
		enabled zapcore.Level
		wantErr bool
	}{
		{name: "dev debug", mode: ModeDev, level: "debug", enabled: zapcore.DebugLevel},
		{name: "prod info", mode: ModeProd, level: "info", enabled: zapcore.InfoLevel},
		{name: "prod warn", mode: ModeProd, level: "warn", enabled: zapcore.WarnLevel},
		{name: "bad level", mode: ModeDev, level: "loud", wantErr: true},
		{name: "bad mode", mode: "pretty", level: "info", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			logger, err := NewLogger(tt.mode, tt.level)
			if tt.wantErr {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.True(t, logger.Core().Enabled(tt.enabled))
			if tt.enabled > zapcore.DebugLevel {
				assert.False(t, logger.Core().Enabled(tt.enabled-1))
			}
		})
	}
}
