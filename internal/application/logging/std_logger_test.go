package logging_test

import (
	"bytes"
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/andrescamacho/slotworks-go/internal/application/logging"
	"github.com/andrescamacho/slotworks-go/internal/application/mediator"
)

func TestStdLogger_FiltersBelowLevel(t *testing.T) {
	var buf bytes.Buffer
	logger := logging.NewStdLogger(&buf, "warn", "text")

	logger.Log("INFO", "hidden", nil)
	logger.Log("ERROR", "shown", map[string]interface{}{"b": 2, "a": 1})

	out := buf.String()
	assert.NotContains(t, out, "hidden")
	assert.Contains(t, out, "[ERROR] shown a=1 b=2")
}

func TestStdLogger_JSONFormat(t *testing.T) {
	var buf bytes.Buffer
	logger := logging.NewStdLogger(&buf, "debug", "json")

	logger.Log("debug", "tick", map[string]interface{}{"unit_id": "u1"})

	assert.Contains(t, buf.String(), `"level":"DEBUG"`)
	assert.Contains(t, buf.String(), `"unit_id":"u1"`)
}

func TestLoggerFromContext_FallsBackToNoOp(t *testing.T) {
	logger := logging.LoggerFromContext(context.Background())
	require.NotNil(t, logger)
	logger.Log("INFO", "ignored", nil)
}

type failingCommand struct{}

func TestLoggingMiddleware_LogsFailures(t *testing.T) {
	// Arrange
	var buf bytes.Buffer
	logger := logging.NewStdLogger(&buf, "info", "text")
	m := mediator.NewMediator()
	m.Use(logging.LoggingMiddleware(logger))
	handler := mediator.HandlerFunc(func(ctx context.Context, request mediator.Request) (mediator.Response, error) {
		assert.Same(t, logger, logging.LoggerFromContext(ctx))
		return nil, errors.New("boom")
	})
	require.NoError(t, mediator.RegisterHandler[*failingCommand](m, handler))

	// Act
	_, err := m.Send(context.Background(), &failingCommand{})

	// Assert
	assert.Error(t, err)
	assert.Contains(t, buf.String(), "request=failingCommand")
	assert.Contains(t, buf.String(), "error=boom")
}
