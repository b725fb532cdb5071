package cooperative

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestDispatchSuccess(t *testing.T) {
	b := New[int, int]()
	require := assert.New(t)
	require.NoError(b.Start())
	defer b.Stop(0)

	h := b.Dispatch(context.Background(), func(_ context.Context, p int) (int, error) {
		return p * 2, nil
	}, 21)

	val, err := h.Wait(context.Background())
	require.NoError(err)
	require.Equal(42, val)
}

func TestDispatchError(t *testing.T) {
	boom := errors.New("boom")
	b := New[int, int]()
	h := b.Dispatch(context.Background(), func(context.Context, int) (int, error) {
		return 0, boom
	}, 1)
	_, err := h.Wait(context.Background())
	assert.ErrorIs(t, err, boom)
}

func TestDispatchPanicIsRecovered(t *testing.T) {
	b := New[int, int]()
	h := b.Dispatch(context.Background(), func(context.Context, int) (int, error) {
		panic("kaboom")
	}, 1)
	_, err := h.Wait(context.Background())
	assert.Error(t, err)
}
