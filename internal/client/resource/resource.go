// Package resource tracks the loading, error and data state of an
// asynchronous read and lets observers follow it.
//
// A Resource runs its producer on Activate, again on Refetch, and again
// when SetProducer is given a new dependency key. Runs of one Resource are
// sequenced: a second run starts only after the first has published its
// outcome, so producers never execute concurrently.
package resource

import (
	"context"
	"log/slog"
	"reflect"
	"sync"

	"github.com/dmitrijs2005/aora/internal/logging"
)

// Producer fetches the data of a Resource.
type Producer[T any] func(ctx context.Context) (T, error)

// Reporter receives producer failures.
type Reporter func(ctx context.Context, err error)

// State is what observers see.
type State[T any] struct {
	Data      T
	IsLoading bool
	Err       error
}

// Result is the outcome of one run. Empty is set on success when Data is
// the zero value or an empty collection.
type Result[T any] struct {
	Data  T
	Err   error
	Empty bool
}

type Option[T any] func(*Resource[T])

// WithDefault sets the data shown before the first successful run.
func WithDefault[T any](v T) Option[T] {
	return func(r *Resource[T]) { r.state.Data = v }
}

// WithReporter replaces the default log-based failure reporter.
func WithReporter[T any](rep Reporter) Option[T] {
	return func(r *Resource[T]) { r.report = rep }
}

// WithKey sets the dependency key of the initial producer.
func WithKey[T any](key string) Option[T] {
	return func(r *Resource[T]) { r.key = key }
}

// LogReporter reports failures as error log lines.
func LogReporter(log logging.Logger) Reporter {
	return func(ctx context.Context, err error) {
		log.Error(ctx, "resource fetch failed", "error", err)
	}
}

type Resource[T any] struct {
	run sync.Mutex

	mu        sync.Mutex
	producer  Producer[T]
	key       string
	state     State[T]
	report    Reporter
	activated bool
	closed    bool
	subs      map[int]func(State[T])
	nextSub   int
}

// New returns a Resource in the loading state. Nothing runs until Activate.
func New[T any](producer Producer[T], opts ...Option[T]) *Resource[T] {
	r := &Resource[T]{
		producer: producer,
		state:    State[T]{IsLoading: true},
		subs:     map[int]func(State[T]){},
	}
	for _, opt := range opts {
		opt(r)
	}
	if r.report == nil {
		r.report = LogReporter(logging.NewSlogLogger(slog.Default()))
	}
	return r
}

// State returns a snapshot.
func (r *Resource[T]) State() State[T] {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.state
}

// Activate runs the producer the first time it is called. Later calls wait
// for any in-flight run and return the current outcome.
func (r *Resource[T]) Activate(ctx context.Context) Result[T] {
	r.run.Lock()
	defer r.run.Unlock()

	r.mu.Lock()
	if r.activated {
		r.mu.Unlock()
		return r.current()
	}
	r.activated = true
	r.mu.Unlock()
	return r.executeLocked(ctx)
}

// Refetch runs the current producer again.
func (r *Resource[T]) Refetch(ctx context.Context) Result[T] {
	r.mu.Lock()
	r.activated = true
	r.mu.Unlock()
	return r.execute(ctx)
}

// SetProducer installs producer and runs it when key differs from the key
// of the previous producer. An unchanged key only swaps the function.
func (r *Resource[T]) SetProducer(ctx context.Context, key string, producer Producer[T]) Result[T] {
	r.mu.Lock()
	changed := key != r.key
	r.key = key
	r.producer = producer
	if changed {
		r.activated = true
	}
	r.mu.Unlock()

	if !changed {
		return r.current()
	}
	return r.execute(ctx)
}

// Subscribe registers fn for every state transition and returns a func
// that unregisters it.
func (r *Resource[T]) Subscribe(fn func(State[T])) (cancel func()) {
	r.mu.Lock()
	defer r.mu.Unlock()
	id := r.nextSub
	r.nextSub++
	r.subs[id] = fn
	return func() {
		r.mu.Lock()
		delete(r.subs, id)
		r.mu.Unlock()
	}
}

// Close detaches the Resource. Results of runs still in flight are returned
// to their caller but no longer published.
func (r *Resource[T]) Close() {
	r.mu.Lock()
	r.closed = true
	r.subs = map[int]func(State[T]){}
	r.mu.Unlock()
}

func (r *Resource[T]) current() Result[T] {
	s := r.State()
	return Result[T]{Data: s.Data, Err: s.Err, Empty: s.Err == nil && isEmpty(s.Data)}
}

func (r *Resource[T]) execute(ctx context.Context) Result[T] {
	r.run.Lock()
	defer r.run.Unlock()
	return r.executeLocked(ctx)
}

// executeLocked runs the producer. The caller holds r.run.
func (r *Resource[T]) executeLocked(ctx context.Context) Result[T] {
	r.mu.Lock()
	if r.closed {
		r.mu.Unlock()
		return r.current()
	}
	producer := r.producer
	r.state.IsLoading = true
	r.publishLocked()

	data, err := producer(ctx)

	r.mu.Lock()
	if r.closed {
		r.mu.Unlock()
		return Result[T]{Data: data, Err: err, Empty: err == nil && isEmpty(data)}
	}
	r.state.IsLoading = false
	r.state.Err = err
	if err == nil {
		r.state.Data = data
	}
	res := Result[T]{Data: r.state.Data, Err: err, Empty: err == nil && isEmpty(data)}
	report := r.report
	r.publishLocked()

	if err != nil {
		report(ctx, err)
	}
	return res
}

// publishLocked snapshots state and subscribers, releases r.mu and
// notifies outside the lock.
func (r *Resource[T]) publishLocked() {
	s := r.state
	fns := make([]func(State[T]), 0, len(r.subs))
	for _, fn := range r.subs {
		fns = append(fns, fn)
	}
	r.mu.Unlock()
	for _, fn := range fns {
		fn(s)
	}
}

func isEmpty(v any) bool {
	rv := reflect.ValueOf(v)
	if !rv.IsValid() {
		return true
	}
	switch rv.Kind() {
	case reflect.Slice, reflect.Map, reflect.Array, reflect.String, reflect.Chan:
		return rv.Len() == 0
	case reflect.Pointer, reflect.Interface, reflect.Func:
		return rv.IsNil()
	default:
		return rv.IsZero()
	}
}
