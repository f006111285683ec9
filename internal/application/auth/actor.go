package auth

import (
	"context"
	"fmt"
	"reflect"

	"github.com/google/uuid"

	"github.com/andrescamacho/slotworks-go/internal/application/mediator"
)

// Context keys for passing the acting party through context
type authContextKey int

const (
	actorKey authContextKey = iota + 1000 // Offset from logger keys
)

// WithActor injects the acting party into the context
func WithActor(ctx context.Context, actor uuid.UUID) context.Context {
	return context.WithValue(ctx, actorKey, actor)
}

// ActorFromContext extracts the acting party from context
// Returns an error if no actor is present
func ActorFromContext(ctx context.Context) (uuid.UUID, error) {
	actor, ok := ctx.Value(actorKey).(uuid.UUID)
	if !ok || actor == uuid.Nil {
		return uuid.Nil, fmt.Errorf("actor not found in context")
	}
	return actor, nil
}

// ActorMiddleware fills a request's empty ActorID field from the context.
// Requests without such a field pass through untouched.
func ActorMiddleware() mediator.Middleware {
	return func(ctx context.Context, request mediator.Request, next mediator.HandlerFunc) (mediator.Response, error) {
		if actor, err := ActorFromContext(ctx); err == nil {
			fillActor(request, actor)
		}
		return next(ctx, request)
	}
}

// fillActor sets ActorID through reflection when the request is a pointer
// to a struct carrying an unset uuid.UUID field of that name
func fillActor(request mediator.Request, actor uuid.UUID) {
	requestValue := reflect.ValueOf(request)
	if requestValue.Kind() != reflect.Ptr || requestValue.IsNil() {
		return
	}
	requestValue = requestValue.Elem()
	if requestValue.Kind() != reflect.Struct {
		return
	}

	field := requestValue.FieldByName("ActorID")
	if !field.IsValid() || !field.CanSet() || field.Type() != reflect.TypeOf(uuid.UUID{}) {
		return
	}
	if field.Interface().(uuid.UUID) == uuid.Nil {
		field.Set(reflect.ValueOf(actor))
	}
}
