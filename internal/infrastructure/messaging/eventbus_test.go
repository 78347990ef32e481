package messaging

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestInMemoryEventBus_DeliversInSubscriptionOrder(t *testing.T) {
	bus := NewInMemoryEventBus[int](InMemoryEventBusConfig{})

	var got []string
	_, err := bus.Subscribe(func(e int) error { got = append(got, "a"); return nil })
	require.NoError(t, err)
	_, err = bus.Subscribe(func(e int) error { got = append(got, "b"); return errors.New("boom") })
	require.NoError(t, err)
	_, err = bus.Subscribe(func(e int) error { got = append(got, "c"); return nil })
	require.NoError(t, err)

	require.NoError(t, bus.Publish(1))
	assert.Equal(t, []string{"a", "b", "c"}, got)
}

func TestInMemoryEventBus_Unsubscribe(t *testing.T) {
	bus := NewInMemoryEventBus[string](InMemoryEventBusConfig{})

	var count int
	unsubscribe, err := bus.Subscribe(func(string) error { count++; return nil })
	require.NoError(t, err)
	assert.Equal(t, 1, bus.Len())

	require.NoError(t, bus.Publish("x"))
	unsubscribe()
	unsubscribe()
	require.NoError(t, bus.Publish("y"))

	assert.Equal(t, 1, count)
	assert.Equal(t, 0, bus.Len())
}

func TestInMemoryEventBus_Closed(t *testing.T) {
	bus := NewInMemoryEventBus[int](InMemoryEventBusConfig{})
	require.NoError(t, bus.Close())
	require.NoError(t, bus.Close())

	assert.ErrorIs(t, bus.Publish(1), ErrEventBusClosed)
	_, err := bus.Subscribe(func(int) error { return nil })
	assert.ErrorIs(t, err, ErrEventBusClosed)
}

func TestInMemoryEventBus_NilHandler(t *testing.T) {
	bus := NewInMemoryEventBus[int](InMemoryEventBusConfig{})
	_, err := bus.Subscribe(nil)
	assert.Error(t, err)
}
