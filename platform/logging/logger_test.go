package logging

import (
	"testing"

	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zapcore"
)

func TestNew(t *testing.T) {
	tests := []struct {
		name    string
		cfg     Config
		wantErr bool
		level   zapcore.Level
	}{
		{name: "local defaults", cfg: Config{ServiceName: "syndicate", Env: "local"}, level: zapcore.InfoLevel},
		{name: "docker json debug", cfg: Config{ServiceName: "syndicate", Env: "docker", Level: "DEBUG"}, level: zapcore.DebugLevel},
		{name: "explicit console", cfg: Config{Env: "docker", Format: "console", Level: "warn"}, level: zapcore.WarnLevel},
		{name: "bad level", cfg: Config{Level: "verbose"}, wantErr: true},
		{name: "bad format", cfg: Config{Format: "xml"}, wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			logger, err := New(tt.cfg)
			if tt.wantErr {
				require.Error(t, err)
				return
			}
			require.NoError(t, err)
			require.True(t, logger.Core().Enabled(tt.level))
			if tt.level > zapcore.DebugLevel {
				require.False(t, logger.Core().Enabled(tt.level-1))
			}
			Sync(logger)
		})
	}
}
