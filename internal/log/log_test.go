package log

import (
	"bytes"
	"context"
	"log/slog"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestSetup_Levels(t *testing.T) {
	ctx := context.Background()
	tests := []struct {
		name           string
		verbose, quiet bool
		debug, info    bool
	}{
		{"default", false, false, false, true},
		{"verbose", true, false, true, true},
		{"quiet", false, true, false, false},
		{"quiet takes precedence", true, true, false, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			logger := Setup(tt.verbose, tt.quiet)
			assert.Same(t, logger, slog.Default())
			handler := logger.Handler()
			assert.Equal(t, tt.debug, handler.Enabled(ctx, slog.LevelDebug))
			assert.Equal(t, tt.info, handler.Enabled(ctx, slog.LevelInfo))
			assert.True(t, handler.Enabled(ctx, slog.LevelWarn))
		})
	}
}

func TestSetupWriter(t *testing.T) {
	var buf bytes.Buffer
	logger := SetupWriter(&buf, true, false)
	logger.Debug("view recomputed", "dataset", "screening")
	assert.Contains(t, buf.String(), "level=DEBUG")
	assert.Contains(t, buf.String(), "dataset=screening")
}
