package logging_test

import (
	"bytes"
	"context"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"

	"github.com/specmap/specmap/pkg/logging"
)

func TestWithLoggerRoundTrip(t *testing.T) {
	var buf bytes.Buffer
	logger := zerolog.New(&buf)

	ctx := logging.WithLogger(context.Background(), &logger)

	got := logging.FromContext(ctx)
	assert.Same(t, &logger, got)
	assert.Same(t, got, logging.Ctx(ctx))

	got.Info().Str("source", "https://example.com/spec.json").Msg("fetching")
	assert.Contains(t, buf.String(), "example.com/spec.json")
}

func TestFromContextFallsBackToDefault(t *testing.T) {
	assert.Same(t, logging.Default(), logging.FromContext(context.Background()))
}

func TestWithLoggerNilUsesDefault(t *testing.T) {
	ctx := logging.WithLogger(context.Background(), nil)
	assert.Same(t, logging.Default(), logging.FromContext(ctx))
}
