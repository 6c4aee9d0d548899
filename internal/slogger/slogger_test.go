package slogger

import (
	"bytes"
	"context"
	"log/slog"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNew_VerbosityLevels(t *testing.T) {
	ctx := context.Background()

	t.Run("default verbosity logs errors only", func(t *testing.T) {
		logger := New(Config{Verbosity: 0, Output: &bytes.Buffer{}})
		assert.True(t, logger.Enabled(ctx, slog.LevelError))
		assert.False(t, logger.Enabled(ctx, slog.LevelInfo))
	})

	t.Run("verbosity 1 logs info", func(t *testing.T) {
		logger := New(Config{Verbosity: 1, Output: &bytes.Buffer{}})
		assert.True(t, logger.Enabled(ctx, slog.LevelInfo))
		assert.False(t, logger.Enabled(ctx, slog.LevelDebug))
	})

	t.Run("verbosity 2 logs debug", func(t *testing.T) {
		logger := New(Config{Verbosity: 2, Output: &bytes.Buffer{}})
		assert.True(t, logger.Enabled(ctx, slog.LevelDebug))
	})
}

func TestNew_WritesToOutput(t *testing.T) {
	var buf bytes.Buffer
	logger := New(Config{Verbosity: 1, Output: &buf})

	logger.Info("fetched catalog", "repositories", 3)

	assert.Contains(t, buf.String(), "fetched catalog")
	assert.Contains(t, buf.String(), "repositories")
}

func TestContext(t *testing.T) {
	t.Run("round-trips through context", func(t *testing.T) {
		var buf bytes.Buffer
		logger := New(Config{Verbosity: 2, Output: &buf})

		ctx := WithLogger(context.Background(), logger)
		FromContext(ctx).Debug("hello")

		assert.Contains(t, buf.String(), "hello")
	})

	t.Run("missing logger falls back to discard", func(t *testing.T) {
		logger := FromContext(context.Background())
		require.NotNil(t, logger)
		assert.False(t, logger.Enabled(context.Background(), slog.LevelError))

		// Must not panic.
		logger.Error("dropped")
	})

	t.Run("L is FromContext", func(t *testing.T) {
		require.NotNil(t, L(context.Background()))
	})
}
