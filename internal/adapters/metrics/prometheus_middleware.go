package metrics

import (
	"context"
	"reflect"
	"strings"
	"time"

	"github.com/andrescamacho/slotworks-go/internal/application/mediator"
)

// PrometheusMiddleware times every mediator request and counts its outcome.
// A nil collector passes requests straight through.
func PrometheusMiddleware(collector *CommandMetricsCollector) mediator.Middleware {
	return func(ctx context.Context, request mediator.Request, next mediator.HandlerFunc) (mediator.Response, error) {
		if collector == nil {
			return next(ctx, request)
		}

		name := extractCommandName(request)
		start := time.Now()
		response, err := next(ctx, request)
		collector.RecordCommandExecution(name, time.Since(start), err)

		return response, err
	}
}

// extractCommandName strips pointer and package prefixes:
// "*commands.InsertInputCommand" becomes "InsertInputCommand"
func extractCommandName(request mediator.Request) string {
	if request == nil {
		return "UnknownCommand"
	}
	fullName := strings.TrimPrefix(reflect.TypeOf(request).String(), "*")
	if i := strings.LastIndex(fullName, "."); i >= 0 {
		return fullName[i+1:]
	}
	return fullName
}
