package logging

import (
	"context"
	"reflect"
	"time"

	"github.com/andrescamacho/slotworks-go/internal/application/mediator"
)

// LoggingMiddleware injects logger into the context and logs every failed
// request. Successful requests are logged at debug level.
func LoggingMiddleware(logger ContainerLogger) mediator.Middleware {
	return func(ctx context.Context, request mediator.Request, next mediator.HandlerFunc) (mediator.Response, error) {
		ctx = WithLogger(ctx, logger)
		start := time.Now()

		resp, err := next(ctx, request)

		meta := map[string]interface{}{
			"request":     requestName(request),
			"duration_ms": time.Since(start).Milliseconds(),
		}
		if err != nil {
			meta["error"] = err.Error()
			logger.Log("WARN", "request failed", meta)
			return resp, err
		}
		logger.Log("DEBUG", "request handled", meta)
		return resp, nil
	}
}

func requestName(request mediator.Request) string {
	t := reflect.TypeOf(request)
	if t.Kind() == reflect.Ptr {
		t = t.Elem()
	}
	return t.Name()
}
