package logging_test

import (
	"encoding/json"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"

	"github.com/jmgilman/go/shell/errors"
	"github.com/jmgilman/go/shell/logging"
)

func TestParseLevel(t *testing.T) {
	tests := []struct {
		in      string
		want    zapcore.Level
		wantErr bool
	}{
		{in: "", want: zapcore.InfoLevel},
		{in: "debug", want: zapcore.DebugLevel},
		{in: "WARN", want: zapcore.WarnLevel},
		{in: "error", want: zapcore.ErrorLevel},
		{in: "loud", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			got, err := logging.ParseLevel(tt.in)
			if tt.wantErr {
				require.Error(t, err)
				assert.Equal(t, errors.CodeInvalidConfig, errors.GetCode(err))
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestNew_WritesJSON(t *testing.T) {
	path := filepath.Join(t.TempDir(), "log.json")
	logger, err := logging.New(logging.Config{Level: "info", OutputPaths: []string{path}})
	require.NoError(t, err)

	logger.Debug("hidden")
	logger.Info("shown", zap.String("pipeline", "fields"))
	require.NoError(t, logger.Sync())

	data, err := os.ReadFile(path)
	require.NoError(t, err)

	var entry map[string]any
	require.NoError(t, json.Unmarshal(data, &entry), "exactly one JSON line expected: %s", data)
	assert.Equal(t, "shown", entry["message"])
	assert.Equal(t, "fields", entry["pipeline"])
	assert.Equal(t, "info", entry["level"])
}

func TestNew_InvalidLevel(t *testing.T) {
	_, err := logging.New(logging.Config{Level: "nope"})
	require.Error(t, err)
	assert.NotNil(t, logging.NewOrNop(logging.Config{Level: "nope"}))
}

func TestConfigs(t *testing.T) {
	assert.Equal(t, []string{"stderr"}, logging.DefaultConfig().OutputPaths)
	assert.True(t, logging.DevelopmentConfig().Development)

	logger, err := logging.New(logging.DevelopmentConfig())
	require.NoError(t, err)
	assert.True(t, logger.Core().Enabled(zapcore.DebugLevel))
}
