package processing_test

import (
	"math/rand"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/andrescamacho/slotworks-go/internal/domain/processing"
)

func TestNewResourceGate_Validation(t *testing.T) {
	_, err := processing.NewResourceGate("", 10)
	assert.Error(t, err)

	_, err = processing.NewResourceGate("water", 0)
	assert.Error(t, err)

	g, err := processing.NewResourceGate("water", 10)
	require.NoError(t, err)
	assert.True(t, g.IsEmpty())
}

func TestResourceGate_DepositClamps(t *testing.T) {
	g, err := processing.NewResourceGate("fuel", 50)
	require.NoError(t, err)

	assert.Equal(t, 30, g.Deposit(30))
	assert.Equal(t, 20, g.Deposit(30))
	assert.Equal(t, 0, g.Deposit(30))
	assert.Equal(t, 0, g.Deposit(-5))
	assert.Equal(t, 50, g.Level())
	assert.True(t, g.IsFull())
	assert.Equal(t, 100.0, g.Percentage())
}

func TestResourceGate_TryConsume(t *testing.T) {
	g, err := processing.NewResourceGate("diesel", 100)
	require.NoError(t, err)
	g.Deposit(7)

	assert.False(t, g.TryConsume(8))
	assert.Equal(t, 7, g.Level())

	assert.True(t, g.TryConsume(7))
	assert.Equal(t, 0, g.Level())

	assert.False(t, g.TryConsume(-1))
}

func TestResourceGate_ClampProperty(t *testing.T) {
	rng := rand.New(rand.NewSource(1))
	g, err := processing.NewResourceGate("water", 200)
	require.NoError(t, err)

	for i := 0; i < 5000; i++ {
		before := g.Level()
		n := rng.Intn(120)
		if rng.Intn(2) == 0 {
			g.Deposit(n)
			assert.LessOrEqual(t, g.Level(), g.Capacity())
			assert.GreaterOrEqual(t, g.Level(), before)
			continue
		}
		if g.TryConsume(n) {
			assert.Equal(t, before-n, g.Level())
		} else {
			assert.Equal(t, before, g.Level())
			assert.Less(t, before, n)
		}
	}
}
