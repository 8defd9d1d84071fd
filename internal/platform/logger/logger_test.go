package logger

import (
	"context"
	"log/slog"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestSetupLevels(t *testing.T) {
	for _, level := range []string{"debug", "info", "warn", "error", "WARN", ""} {
		l := Setup(Config{Level: level})
		assert.NotNil(t, l, "level %q", level)
	}

	// Unknown levels fall back instead of failing.
	assert.NotNil(t, Setup(Config{Level: "verbose"}))
}

func TestContextLogger(t *testing.T) {
	base := slog.Default()

	t.Run("round trip", func(t *testing.T) {
		attached := base.With("trace_id", "abc")
		ctx := WithLogger(context.Background(), attached)
		assert.Same(t, attached, FromContext(ctx))
		assert.Same(t, attached, FromContextOrDefault(ctx, base))
	})

	t.Run("empty context falls back", func(t *testing.T) {
		ctx := context.Background()
		assert.Same(t, slog.Default(), FromContext(ctx))
		assert.Same(t, base, FromContextOrDefault(ctx, base))
		assert.Same(t, slog.Default(), FromContextOrDefault(ctx, nil))
	})
}
