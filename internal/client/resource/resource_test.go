package resource

import (
	"context"
	"errors"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// fakeReporter captures reported errors.
type fakeReporter struct {
	mu   sync.Mutex
	errs []error
}

func (f *fakeReporter) report(_ context.Context, err error) {
	f.mu.Lock()
	f.errs = append(f.errs, err)
	f.mu.Unlock()
}

func (f *fakeReporter) count() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return len(f.errs)
}

func counting(values ...[]string) (Producer[[]string], *atomic.Int32) {
	var calls atomic.Int32
	return func(context.Context) ([]string, error) {
		n := int(calls.Add(1)) - 1
		if n >= len(values) {
			n = len(values) - 1
		}
		return values[n], nil
	}, &calls
}

func TestNew_InitialState(t *testing.T) {
	r := New(func(context.Context) (int, error) { return 1, nil }, WithDefault(42))
	s := r.State()
	assert.True(t, s.IsLoading)
	assert.Equal(t, 42, s.Data)
	assert.NoError(t, s.Err)
}

func TestActivate_RunsOnce(t *testing.T) {
	p, calls := counting([]string{"a"}, []string{"b"})
	r := New(p)
	ctx := context.Background()

	res := r.Activate(ctx)
	require.NoError(t, res.Err)
	require.Equal(t, []string{"a"}, res.Data)

	res = r.Activate(ctx)
	require.Equal(t, []string{"a"}, res.Data)
	require.EqualValues(t, 1, calls.Load())
	require.False(t, r.State().IsLoading)
}

func TestActivate_ConcurrentCallersSeeFirstResult(t *testing.T) {
	var calls atomic.Int32
	r := New(func(context.Context) (string, error) {
		calls.Add(1)
		time.Sleep(5 * time.Millisecond)
		return "loaded", nil
	}, WithDefault("default"))

	results := make([]Result[string], 8)
	var wg sync.WaitGroup
	for i := range results {
		wg.Add(1)
		go func() {
			defer wg.Done()
			results[i] = r.Activate(context.Background())
		}()
	}
	wg.Wait()

	require.EqualValues(t, 1, calls.Load())
	for _, res := range results {
		require.Equal(t, "loaded", res.Data)
	}
	require.False(t, r.State().IsLoading)
}

func TestRefetch_Idempotent(t *testing.T) {
	p, calls := counting([]string{"x", "y"})
	r := New(p)
	ctx := context.Background()

	first := r.Refetch(ctx)
	require.False(t, r.State().IsLoading)
	second := r.Refetch(ctx)
	require.False(t, r.State().IsLoading)

	require.Equal(t, first.Data, second.Data)
	require.EqualValues(t, 2, calls.Load())

	r.Activate(ctx)
	require.EqualValues(t, 2, calls.Load(), "activate after refetch is a no-op")
}

func TestFailure_KeepsDataAndReports(t *testing.T) {
	rep := &fakeReporter{}
	boom := errors.New("boom")
	fail := false
	r := New(func(context.Context) (string, error) {
		if fail {
			return "", boom
		}
		return "ok", nil
	}, WithDefault("default"), WithReporter[string](rep.report))
	ctx := context.Background()

	require.Equal(t, "ok", r.Activate(ctx).Data)

	fail = true
	res := r.Refetch(ctx)
	require.ErrorIs(t, res.Err, boom)
	require.Equal(t, "ok", res.Data)
	require.False(t, res.Empty)

	s := r.State()
	require.ErrorIs(t, s.Err, boom)
	require.Equal(t, "ok", s.Data)
	require.False(t, s.IsLoading)
	require.Equal(t, 1, rep.count())

	fail = false
	require.NoError(t, r.Refetch(ctx).Err)
	require.NoError(t, r.State().Err, "success clears the error")
}

func TestFailure_FirstRunKeepsDefault(t *testing.T) {
	rep := &fakeReporter{}
	r := New(func(context.Context) ([]string, error) { return nil, errors.New("down") },
		WithDefault([]string{}), WithReporter[[]string](rep.report))

	res := r.Activate(context.Background())
	require.Error(t, res.Err)
	require.Equal(t, []string{}, r.State().Data)
}

func TestResult_Empty(t *testing.T) {
	r := New(func(context.Context) ([]string, error) { return []string{}, nil })
	require.True(t, r.Activate(context.Background()).Empty)

	r2 := New(func(context.Context) (*int, error) { return nil, nil })
	require.True(t, r2.Activate(context.Background()).Empty)

	r3 := New(func(context.Context) ([]string, error) { return []string{"a"}, nil })
	require.False(t, r3.Activate(context.Background()).Empty)
}

func TestSetProducer_RerunsOnKeyChangeOnly(t *testing.T) {
	ctx := context.Background()
	r := New(func(context.Context) (string, error) { return "user-1", nil }, WithKey[string]("u1"))
	require.Equal(t, "user-1", r.Activate(ctx).Data)

	var calls atomic.Int32
	same := func(context.Context) (string, error) { calls.Add(1); return "other", nil }
	res := r.SetProducer(ctx, "u1", same)
	require.Equal(t, "user-1", res.Data)
	require.Zero(t, calls.Load())

	res = r.SetProducer(ctx, "u2", func(context.Context) (string, error) { return "user-2", nil })
	require.Equal(t, "user-2", res.Data)

	require.Equal(t, "user-2", r.Refetch(ctx).Data, "refetch uses the latest producer")
}

func TestSubscribe_SeesTransitions(t *testing.T) {
	r := New(func(context.Context) (int, error) { return 7, nil })

	var mu sync.Mutex
	var seen []State[int]
	cancel := r.Subscribe(func(s State[int]) {
		mu.Lock()
		seen = append(seen, s)
		mu.Unlock()
	})

	r.Activate(context.Background())
	mu.Lock()
	require.Len(t, seen, 2)
	require.True(t, seen[0].IsLoading)
	require.False(t, seen[1].IsLoading)
	require.Equal(t, 7, seen[1].Data)
	mu.Unlock()

	cancel()
	r.Refetch(context.Background())
	mu.Lock()
	require.Len(t, seen, 2)
	mu.Unlock()
}

func TestOverlappingRunsAreSequenced(t *testing.T) {
	var active, maxActive atomic.Int32
	r := New(func(context.Context) (int, error) {
		n := active.Add(1)
		for {
			m := maxActive.Load()
			if n <= m || maxActive.CompareAndSwap(m, n) {
				break
			}
		}
		time.Sleep(5 * time.Millisecond)
		active.Add(-1)
		return int(n), nil
	})

	var wg sync.WaitGroup
	for i := 0; i < 8; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			r.Refetch(context.Background())
		}()
	}
	wg.Wait()

	require.EqualValues(t, 1, maxActive.Load())
	require.False(t, r.State().IsLoading)
}

func TestClose_DropsLateResult(t *testing.T) {
	release := make(chan struct{})
	started := make(chan struct{})
	r := New(func(context.Context) (string, error) {
		close(started)
		<-release
		return "late", nil
	}, WithDefault("initial"))

	var notified atomic.Int32
	r.Subscribe(func(State[string]) { notified.Add(1) })

	done := make(chan Result[string])
	go func() { done <- r.Activate(context.Background()) }()

	<-started
	before := notified.Load()
	r.Close()
	close(release)

	res := <-done
	require.Equal(t, "late", res.Data)
	require.Equal(t, "initial", r.State().Data)
	require.Equal(t, before, notified.Load())

	require.Equal(t, "initial", r.Refetch(context.Background()).Data)
}
