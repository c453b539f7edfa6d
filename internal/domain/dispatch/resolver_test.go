package dispatch

import (
	"context"
	"errors"
	"strings"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// fakeProvider records every call it receives.
type fakeProvider struct {
	id      string
	match   func(string) bool
	value   string
	found   bool
	err     error
	mu      sync.Mutex
	checked int
	called  int
}

func (f *fakeProvider) ID() string          { return f.id }
func (f *fakeProvider) Description() string { return "fake " + f.id }

func (f *fakeProvider) CanProcess(in string) bool {
	f.mu.Lock()
	f.checked++
	f.mu.Unlock()
	return f.match(in)
}

func (f *fakeProvider) Resolve(_ context.Context, _ string) (string, bool, error) {
	f.mu.Lock()
	f.called++
	f.mu.Unlock()
	if f.err != nil {
		return "", false, f.err
	}
	return f.value, f.found, nil
}

func contains(s string) func(string) bool {
	return func(in string) bool { return strings.Contains(in, s) }
}

func hasSuffixHost(suffix string) func(string) bool {
	return func(in string) bool {
		host := strings.TrimPrefix(strings.TrimPrefix(in, "https://"), "http://")
		if i := strings.IndexByte(host, '/'); i >= 0 {
			host = host[:i]
		}
		return strings.HasSuffix(host, suffix)
	}
}

func newResolver(t *testing.T, providers ...Provider[string, string]) *Resolver[string, string] {
	t.Helper()
	registry, err := NewRegistry(providers...)
	require.NoError(t, err)
	return NewResolver(registry)
}

func TestResolve_MatchingProviderReturnsTaggedResult(t *testing.T) {
	a := &fakeProvider{id: "A", match: contains("github.com"), value: "MIT", found: true}
	r := newResolver(t, a)

	result, err := r.Resolve(context.Background(), "https://github.com/x")
	require.NoError(t, err)
	assert.Equal(t, Result[string]{ProviderID: "A", Value: "MIT"}, result)
	assert.Equal(t, 1, a.called)
}

func TestResolve_NoCapableProvider(t *testing.T) {
	a := &fakeProvider{id: "A", match: contains("github.com"), value: "MIT", found: true}
	r := newResolver(t, a)

	_, err := r.Resolve(context.Background(), "https://example.org")
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrNoCapableProvider)
	assert.NotErrorIs(t, err, ErrNotFound)

	var target *NoCapableProviderError
	require.ErrorAs(t, err, &target)
	assert.Equal(t, "https://example.org", target.Input)
	assert.Equal(t, 0, a.called)
}

func TestResolve_CapableProviderWithoutValue(t *testing.T) {
	a := &fakeProvider{id: "A", match: hasSuffixHost(".org"), found: false}
	r := newResolver(t, a)

	_, err := r.Resolve(context.Background(), "https://example.org")
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrNotFound)
	assert.NotErrorIs(t, err, ErrNoCapableProvider)

	var target *NotFoundError
	require.ErrorAs(t, err, &target)
	assert.Equal(t, "A", target.ProviderID)
	assert.Equal(t, "https://example.org", target.Input)
}

func TestResolve_NoFallbackPastFirstCapable(t *testing.T) {
	a := &fakeProvider{id: "A", match: hasSuffixHost(".org"), found: false}
	b := &fakeProvider{id: "B", match: hasSuffixHost(".org"), value: "CC-BY", found: true}
	r := newResolver(t, a, b)

	_, err := r.Resolve(context.Background(), "https://example.org")
	assert.ErrorIs(t, err, ErrNotFound)
	assert.Equal(t, 1, a.called)
	assert.Equal(t, 0, b.checked, "later providers must not be asked")
	assert.Equal(t, 0, b.called)
}

func TestResolve_EmptyRegistry(t *testing.T) {
	for _, r := range []*Resolver[string, string]{
		newResolver(t),
		NewResolver[string, string](nil),
	} {
		_, err := r.Resolve(context.Background(), "anything")
		assert.ErrorIs(t, err, ErrNoCapableProvider)
	}
}

func TestResolve_RegistrationOrderWins(t *testing.T) {
	first := &fakeProvider{id: "first", match: contains("x"), value: "one", found: true}
	second := &fakeProvider{id: "second", match: contains("x"), value: "two", found: true}

	result, err := newResolver(t, first, second).Resolve(context.Background(), "x")
	require.NoError(t, err)
	assert.Equal(t, "first", result.ProviderID)
	assert.Equal(t, 0, second.checked)

	first.called, second.called = 0, 0
	result, err = newResolver(t, second, first).Resolve(context.Background(), "x")
	require.NoError(t, err)
	assert.Equal(t, "second", result.ProviderID)
	assert.Equal(t, 0, first.called)
}

func TestResolve_SkipsIncapableProviders(t *testing.T) {
	a := &fakeProvider{id: "A", match: contains("gitlab"), value: "GPL-3.0", found: true}
	b := &fakeProvider{id: "B", match: contains("github"), value: "MIT", found: true}

	result, err := newResolver(t, a, b).Resolve(context.Background(), "https://github.com/x/y")
	require.NoError(t, err)
	assert.Equal(t, "B", result.ProviderID)
	assert.Equal(t, 1, a.checked)
	assert.Equal(t, 0, a.called)
}

func TestResolve_ProviderErrorPropagatesUnchanged(t *testing.T) {
	boom := errors.New("upstream unavailable")
	a := &fakeProvider{id: "A", match: contains("x"), err: boom}
	b := &fakeProvider{id: "B", match: contains("x"), value: "MIT", found: true}

	result, err := newResolver(t, a, b).Resolve(context.Background(), "x")
	assert.Same(t, boom, err)
	assert.Equal(t, "A", result.ProviderID)
	assert.Empty(t, result.Value)
	assert.Equal(t, 0, b.called)
}

func TestResolve_FailureNamesProviderWithoutRecheck(t *testing.T) {
	boom := errors.New("boom")
	first := true
	a := &fakeProvider{id: "A", err: boom, match: func(string) bool {
		claimed := first
		first = false
		return claimed
	}}

	result, err := newResolver(t, a).Resolve(context.Background(), "x")
	assert.Same(t, boom, err)
	assert.Equal(t, "A", result.ProviderID)
	assert.Equal(t, 1, a.checked)
	assert.Equal(t, 1, a.called)
}

func TestResolve_Idempotent(t *testing.T) {
	a := &fakeProvider{id: "A", match: contains("x"), value: "MIT", found: true}
	r := newResolver(t, a)

	first, err1 := r.Resolve(context.Background(), "x")
	second, err2 := r.Resolve(context.Background(), "x")
	require.NoError(t, err1)
	require.NoError(t, err2)
	assert.Equal(t, first, second)
}

func TestMatch(t *testing.T) {
	a := &fakeProvider{id: "A", match: contains("a")}
	b := &fakeProvider{id: "B", match: contains("b")}
	r := newResolver(t, a, b)

	p, ok := r.match("b")
	require.True(t, ok)
	assert.Equal(t, "B", p.ID())

	_, ok = r.match("c")
	assert.False(t, ok)
	assert.Equal(t, 0, a.called+b.called)
}

func TestResolve_ConcurrentCallers(t *testing.T) {
	a := &fakeProvider{id: "A", match: contains("x"), value: "MIT", found: true}
	r := newResolver(t, a)

	var wg sync.WaitGroup
	for i := 0; i < 32; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			result, err := r.Resolve(context.Background(), "x")
			assert.NoError(t, err)
			assert.Equal(t, "MIT", result.Value)
		}()
	}
	wg.Wait()
	assert.Equal(t, 32, a.called)
}

func TestFuncProvider(t *testing.T) {
	p := Func[string, string]{
		Name:    "func",
		Summary: "function backed",
		Match:   contains("x"),
		Lookup: func(_ context.Context, in string) (string, bool, error) {
			return strings.ToUpper(in), true, nil
		},
	}
	result, err := newResolver(t, p).Resolve(context.Background(), "x")
	require.NoError(t, err)
	assert.Equal(t, "X", result.Value)

	empty := Func[string, string]{Name: "empty"}
	assert.False(t, empty.CanProcess("x"))
	_, found, err := empty.Resolve(context.Background(), "x")
	assert.NoError(t, err)
	assert.False(t, found)
}
