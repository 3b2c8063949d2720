package provider_test

import (
	"context"
	"errors"
	"testing"

	"github.com/sanix-darker/grok-search/internal/config"
	"github.com/sanix-darker/grok-search/internal/provider"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// mockProvider is a test double that satisfies SearchProvider.
type mockProvider struct {
	name string
	err  error
}

func (m *mockProvider) Info() provider.ProviderInfo {
	return provider.ProviderInfo{
		Name:        m.name,
		DisplayName: "Mock " + m.name,
	}
}

func (m *mockProvider) Search(ctx context.Context, query string) (string, error) {
	if m.err != nil {
		return "", m.err
	}
	return "search:" + query, nil
}

func (m *mockProvider) Fetch(ctx context.Context, url string) (string, error) {
	if m.err != nil {
		return "", m.err
	}
	return "fetch:" + url, nil
}

func (m *mockProvider) Validate(ctx context.Context) error {
	return nil
}

func mockFactory(name string) provider.Factory {
	return func(s *config.Store, deps provider.Deps) (provider.SearchProvider, error) {
		return &mockProvider{name: name}, nil
	}
}

func TestRegistryRegisterAndGet(t *testing.T) {
	reg := provider.NewRegistry()
	reg.Register("test-provider", mockFactory("test-provider"))

	p, err := reg.Get("test-provider", config.NewStore(), provider.Deps{})
	require.NoError(t, err)
	assert.Equal(t, "test-provider", p.Info().Name)
}

func TestRegistryGetUnknownProvider(t *testing.T) {
	reg := provider.NewRegistry()
	_, err := reg.Get("nonexistent", config.NewStore(), provider.Deps{})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "unknown provider")
}

func TestRegistryDuplicateRegistrationPanics(t *testing.T) {
	reg := provider.NewRegistry()
	reg.Register("dup", mockFactory("dup"))
	assert.Panics(t, func() {
		reg.Register("dup", mockFactory("dup"))
	})
}

func TestRegistryNamesSorted(t *testing.T) {
	reg := provider.NewRegistry()
	reg.Register("zeta", mockFactory("zeta"))
	reg.Register("alpha", mockFactory("alpha"))

	assert.Equal(t, []string{"alpha", "zeta"}, reg.Names())
}

func TestDispatch(t *testing.T) {
	p := &mockProvider{name: "mock"}
	ctx := context.Background()

	out, err := provider.Dispatch(ctx, p, provider.OpSearch, "golang")
	require.NoError(t, err)
	assert.Equal(t, "search:golang", out)

	out, err = provider.Dispatch(ctx, p, provider.OpFetch, "http://example.com")
	require.NoError(t, err)
	assert.Equal(t, "fetch:http://example.com", out)

	_, err = provider.Dispatch(ctx, p, provider.Operation("translate"), "x")
	assert.ErrorIs(t, err, provider.ErrInvalidRequest)
}

func TestDispatch_ReturnsProviderErrorUnchanged(t *testing.T) {
	want := &provider.StatusError{Provider: "mock", StatusCode: 403}
	p := &mockProvider{name: "mock", err: want}

	_, err := provider.Dispatch(context.Background(), p, provider.OpSearch, "q")

	var got *provider.StatusError
	require.True(t, errors.As(err, &got))
	assert.Same(t, want, got)
}

func TestParseOperation(t *testing.T) {
	op, err := provider.ParseOperation(" Fetch ")
	require.NoError(t, err)
	assert.Equal(t, provider.OpFetch, op)

	_, err = provider.ParseOperation("summarize")
	assert.ErrorIs(t, err, provider.ErrInvalidRequest)
}
