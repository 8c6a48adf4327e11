package registry_test

import (
	"context"
	"sync"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/davidbz/faqvoice/internal/mocks"
	"github.com/davidbz/faqvoice/internal/provider/registry"
)

func namedProvider(t *testing.T, name string) *mocks.MockProvider {
	t.Helper()

	provider := mocks.NewMockProvider(t)
	provider.EXPECT().Name().Return(name).Maybe()

	return provider
}

func TestRegistry_Register(t *testing.T) {
	t.Run("should register provider successfully", func(t *testing.T) {
		reg := registry.NewRegistry()

		err := reg.Register(context.Background(), namedProvider(t, "openai"))
		require.NoError(t, err)
	})

	t.Run("should reject nil provider", func(t *testing.T) {
		reg := registry.NewRegistry()

		err := reg.Register(context.Background(), nil)
		require.ErrorContains(t, err, "provider cannot be nil")
	})

	t.Run("should reject empty name", func(t *testing.T) {
		reg := registry.NewRegistry()

		err := reg.Register(context.Background(), namedProvider(t, ""))
		require.ErrorContains(t, err, "provider name cannot be empty")
	})

	t.Run("should reject duplicates", func(t *testing.T) {
		reg := registry.NewRegistry()
		ctx := context.Background()

		require.NoError(t, reg.Register(ctx, namedProvider(t, "openai")))
		err := reg.Register(ctx, namedProvider(t, "openai"))
		require.ErrorContains(t, err, "already registered")
	})
}

func TestRegistry_Get(t *testing.T) {
	reg := registry.NewRegistry()
	ctx := context.Background()
	require.NoError(t, reg.Register(ctx, namedProvider(t, "anthropic")))

	provider, err := reg.Get(ctx, "anthropic")
	require.NoError(t, err)
	require.Equal(t, "anthropic", provider.Name())

	_, err = reg.Get(ctx, "")
	require.ErrorContains(t, err, "provider name cannot be empty")

	_, err = reg.Get(ctx, "nonexistent")
	require.ErrorContains(t, err, "not found")
}

func TestRegistry_List(t *testing.T) {
	reg := registry.NewRegistry()
	ctx := context.Background()

	names, err := reg.List(ctx)
	require.NoError(t, err)
	require.NotNil(t, names)
	require.Empty(t, names)

	require.NoError(t, reg.Register(ctx, namedProvider(t, "openai")))
	require.NoError(t, reg.Register(ctx, namedProvider(t, "anthropic")))

	names, err = reg.List(ctx)
	require.NoError(t, err)
	require.Equal(t, []string{"anthropic", "openai"}, names)
}

func TestRegistry_Select(t *testing.T) {
	ctx := context.Background()

	t.Run("should fail when empty", func(t *testing.T) {
		_, err := registry.NewRegistry().Select(ctx, "")
		require.ErrorIs(t, err, registry.ErrNoProviders)
	})

	t.Run("should default to first registered", func(t *testing.T) {
		reg := registry.NewRegistry()
		require.NoError(t, reg.Register(ctx, namedProvider(t, "openai")))
		require.NoError(t, reg.Register(ctx, namedProvider(t, "anthropic")))

		provider, err := reg.Select(ctx, "")
		require.NoError(t, err)
		require.Equal(t, "openai", provider.Name())
	})

	t.Run("should honor preference", func(t *testing.T) {
		reg := registry.NewRegistry()
		require.NoError(t, reg.Register(ctx, namedProvider(t, "openai")))
		require.NoError(t, reg.Register(ctx, namedProvider(t, "anthropic")))

		provider, err := reg.Select(ctx, "anthropic")
		require.NoError(t, err)
		require.Equal(t, "anthropic", provider.Name())

		_, err = reg.Select(ctx, "echo")
		require.ErrorContains(t, err, "not found")
	})
}

func TestRegistry_Concurrent(t *testing.T) {
	reg := registry.NewRegistry()
	ctx := context.Background()

	providers := make([]*mocks.MockProvider, 10)
	for i := range providers {
		providers[i] = namedProvider(t, string(rune('a'+i)))
	}

	var wg sync.WaitGroup
	for _, p := range providers {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_ = reg.Register(ctx, p)
		}()
	}
	wg.Wait()

	names, err := reg.List(ctx)
	require.NoError(t, err)
	require.Len(t, names, 10)
}
