package mediator_test

import (
	"context"
	"reflect"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/andrescamacho/slotworks-go/internal/application/mediator"
)

type pingCommand struct {
	Value int
}

type pingHandler struct{}

func (pingHandler) Handle(_ context.Context, request mediator.Request) (mediator.Response, error) {
	cmd := request.(*pingCommand)
	return cmd.Value * 2, nil
}

func TestMediator_SendDispatchesByType(t *testing.T) {
	m := mediator.NewMediator()
	require.NoError(t, mediator.RegisterHandler[*pingCommand](m, pingHandler{}))

	resp, err := m.Send(context.Background(), &pingCommand{Value: 21})

	require.NoError(t, err)
	assert.Equal(t, 42, resp)
}

func TestMediator_RegisterRejectsDuplicates(t *testing.T) {
	m := mediator.NewMediator()
	require.NoError(t, m.Register(reflect.TypeOf(&pingCommand{}), pingHandler{}))

	err := m.Register(reflect.TypeOf(&pingCommand{}), pingHandler{})

	assert.Error(t, err)
}

func TestMediator_SendUnknownRequest(t *testing.T) {
	m := mediator.NewMediator()

	_, err := m.Send(context.Background(), &pingCommand{})
	assert.Error(t, err)

	_, err = m.Send(context.Background(), nil)
	assert.Error(t, err)
}

func TestMediator_MiddlewareOrder(t *testing.T) {
	// Arrange
	m := mediator.NewMediator()
	require.NoError(t, mediator.RegisterHandler[*pingCommand](m, pingHandler{}))

	var order []string
	trace := func(name string) mediator.Middleware {
		return func(ctx context.Context, request mediator.Request, next mediator.HandlerFunc) (mediator.Response, error) {
			order = append(order, name+":before")
			resp, err := next(ctx, request)
			order = append(order, name+":after")
			return resp, err
		}
	}
	m.Use(trace("outer"))
	m.Use(trace("inner"))

	// Act
	_, err := m.Send(context.Background(), &pingCommand{Value: 1})

	// Assert
	require.NoError(t, err)
	assert.Equal(t, []string{"outer:before", "inner:before", "inner:after", "outer:after"}, order)
}
