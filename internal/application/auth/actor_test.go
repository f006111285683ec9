package auth_test

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/andrescamacho/slotworks-go/internal/application/auth"
	"github.com/andrescamacho/slotworks-go/internal/application/mediator"
)

type startCommand struct {
	ActorID uuid.UUID
}

type otherCommand struct {
	Name string
}

func echo(_ context.Context, request mediator.Request) (mediator.Response, error) {
	return request, nil
}

func TestActorMiddleware_FillsEmptyActor(t *testing.T) {
	actor := uuid.New()
	ctx := auth.WithActor(context.Background(), actor)
	mw := auth.ActorMiddleware()

	resp, err := mw(ctx, &startCommand{}, echo)

	require.NoError(t, err)
	assert.Equal(t, actor, resp.(*startCommand).ActorID)
}

func TestActorMiddleware_KeepsExplicitActor(t *testing.T) {
	explicit := uuid.New()
	ctx := auth.WithActor(context.Background(), uuid.New())

	resp, err := auth.ActorMiddleware()(ctx, &startCommand{ActorID: explicit}, echo)

	require.NoError(t, err)
	assert.Equal(t, explicit, resp.(*startCommand).ActorID)
}

func TestActorMiddleware_IgnoresRequestsWithoutActor(t *testing.T) {
	ctx := auth.WithActor(context.Background(), uuid.New())

	resp, err := auth.ActorMiddleware()(ctx, &otherCommand{Name: "x"}, echo)

	require.NoError(t, err)
	assert.Equal(t, "x", resp.(*otherCommand).Name)
}

func TestActorFromContext_Missing(t *testing.T) {
	_, err := auth.ActorFromContext(context.Background())
	assert.Error(t, err)
}
