package mocks_test

import (
	"context"
	"testing"
	"time"

	"github.com/golang/mock/gomock"
	"github.com/stretchr/testify/require"

	"github.com/orsinium-labs/jockey"
	"github.com/orsinium-labs/jockey/mocks"
)

func TestExecuteWithMockAdapter(t *testing.T) {
	ctrl := gomock.NewController(t)

	registry := jockey.NewRegistry[string, int, int]()
	_, err := registry.Add("double", func(ctx context.Context, n int) (int, error) { return n * 2, nil })
	require.NoError(t, err)

	executor := jockey.NewExecutor[string, int, int](registry, jockey.Config{})
	require.NoError(t, executor.Start())
	defer executor.Stop()

	adapter := mocks.NewMockAdapter(ctrl)
	adapter.EXPECT().Keys(gomock.Any()).Return([]string{"double"}, nil)
	adapter.EXPECT().Payload(gomock.Any()).Return(21, nil)
	adapter.EXPECT().OnSuccess(gomock.Any(), 42)

	require.NoError(t, executor.Execute(context.Background(), adapter, time.Second))
}
