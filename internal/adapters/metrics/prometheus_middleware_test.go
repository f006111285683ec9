package metrics

import (
	"context"
	"errors"
	"fmt"
	"testing"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/andrescamacho/slotworks-go/internal/application/mediator"
	"github.com/andrescamacho/slotworks-go/internal/application/processing/commands"
	"github.com/andrescamacho/slotworks-go/internal/application/processing/queries"
	"github.com/andrescamacho/slotworks-go/internal/domain/shared"
)

func TestExtractCommandName(t *testing.T) {
	assert.Equal(t, "InsertInputCommand", extractCommandName(&commands.InsertInputCommand{}))
	assert.Equal(t, "TickWorldCommand", extractCommandName(commands.TickWorldCommand{}))
	assert.Equal(t, "UnknownCommand", extractCommandName(nil))
}

func TestPrometheusMiddleware_RecordsOutcome(t *testing.T) {
	collector := NewCommandMetricsCollector()
	mw := PrometheusMiddleware(collector)
	ok := func(ctx context.Context, request mediator.Request) (mediator.Response, error) { return "done", nil }
	fail := func(ctx context.Context, request mediator.Request) (mediator.Response, error) {
		return nil, errors.New("boom")
	}

	resp, err := mw(context.Background(), &commands.TickWorldCommand{Ticks: 1}, ok)
	require.NoError(t, err)
	assert.Equal(t, "done", resp)
	_, err = mw(context.Background(), &commands.TickWorldCommand{Ticks: 1}, fail)
	assert.Error(t, err)

	assert.Equal(t, 1.0, testutil.ToFloat64(collector.requestsTotal.WithLabelValues("TickWorldCommand", "command", "success")))
	assert.Equal(t, 1.0, testutil.ToFloat64(collector.requestsTotal.WithLabelValues("TickWorldCommand", "command", "error")))
}

func TestPrometheusMiddleware_ValidationFailuresAreRejected(t *testing.T) {
	collector := NewCommandMetricsCollector()
	mw := PrometheusMiddleware(collector)
	invalid := func(ctx context.Context, request mediator.Request) (mediator.Response, error) {
		return nil, fmt.Errorf("handler: %w", shared.NewValidationError("ticks", "must be positive"))
	}
	found := func(ctx context.Context, request mediator.Request) (mediator.Response, error) { return nil, nil }

	_, err := mw(context.Background(), &commands.TickWorldCommand{}, invalid)
	assert.Error(t, err)
	_, err = mw(context.Background(), &queries.GetUnitStatusQuery{}, found)
	require.NoError(t, err)

	assert.Equal(t, 1.0, testutil.ToFloat64(collector.requestsTotal.WithLabelValues("TickWorldCommand", "command", "rejected")))
	assert.Equal(t, 1.0, testutil.ToFloat64(collector.requestsTotal.WithLabelValues("GetUnitStatusQuery", "query", "success")))
}

func TestPrometheusMiddleware_NilCollectorPassesThrough(t *testing.T) {
	mw := PrometheusMiddleware(nil)
	resp, err := mw(context.Background(), &commands.TickWorldCommand{}, func(ctx context.Context, request mediator.Request) (mediator.Response, error) {
		return 42, nil
	})
	require.NoError(t, err)
	assert.Equal(t, 42, resp)
}
