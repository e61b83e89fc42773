// internal/lifecycle/operation.go
package lifecycle

import (
	"context"
	"sync"

	"go.uber.org/zap"
)

// Option configures a controller
type Option func(*settings)

type settings struct {
	logger *zap.Logger
	ctx    context.Context
}

// WithLogger sets the controller logger
func WithLogger(l *zap.Logger) Option {
	return func(s *settings) {
		if l != nil {
			s.logger = l
		}
	}
}

// WithContext sets the context every request runs under. Canceling it
// aborts outstanding requests; Close alone does not.
func WithContext(ctx context.Context) Option {
	return func(s *settings) {
		if ctx != nil {
			s.ctx = ctx
		}
	}
}

func buildSettings(opts []Option) settings {
	s := settings{logger: zap.NewNop(), ctx: context.Background()}
	for _, opt := range opts {
		opt(&s)
	}
	return s
}

// operation is the single-in-flight engine behind both controllers
type operation[T any] struct {
	name     string
	logger   *zap.Logger
	ctx      context.Context
	onChange func(OperationState[T])

	mu      sync.Mutex
	state   OperationState[T]
	version uint64
	closed  bool
	wg      sync.WaitGroup

	notifyMu     sync.Mutex
	lastNotified uint64
}

func newOperation[T any](name string, s settings, onChange func(OperationState[T])) *operation[T] {
	return &operation[T]{
		name:     name,
		logger:   s.logger.Named("lifecycle").Named(name),
		ctx:      s.ctx,
		onChange: onChange,
	}
}

// begin moves to InFlight and runs call in the background. settle maps
// the call outcome to the next state; after runs once the new state is
// applied, unless the operation was closed in the meantime.
func (o *operation[T]) begin(
	call func(ctx context.Context) (T, error),
	settle func(T, error) OperationState[T],
	after func(OperationState[T]),
) error {
	o.mu.Lock()
	if o.closed {
		o.mu.Unlock()
		return ErrClosed
	}
	if o.state.Phase == InFlight {
		o.mu.Unlock()
		o.logger.Debug("submit ignored while in flight")
		return ErrInFlight
	}
	o.state = OperationState[T]{Phase: InFlight}
	o.version++
	started, startedVersion := o.state, o.version
	o.wg.Add(1)
	o.mu.Unlock()

	o.notify(started, startedVersion)

	go func() {
		defer o.wg.Done()

		payload, err := call(o.ctx)
		next := settle(payload, err)

		o.mu.Lock()
		if o.closed {
			o.mu.Unlock()
			o.logger.Debug("discarding result after close", zap.Stringer("phase", next.Phase))
			return
		}
		o.state = next
		o.version++
		v := o.version
		o.mu.Unlock()

		o.notify(next, v)
		if after != nil {
			after(next)
		}
	}()
	return nil
}

func (o *operation[T]) current() OperationState[T] {
	o.mu.Lock()
	defer o.mu.Unlock()
	return o.state
}

// notify delivers states in version order; a late delivery of an older
// state is dropped.
func (o *operation[T]) notify(s OperationState[T], version uint64) {
	if o.onChange == nil {
		return
	}
	o.notifyMu.Lock()
	defer o.notifyMu.Unlock()
	if version <= o.lastNotified {
		return
	}
	o.lastNotified = version
	o.onChange(s)
}

func (o *operation[T]) close() {
	o.mu.Lock()
	o.closed = true
	o.mu.Unlock()
}

func (o *operation[T]) wait() {
	o.wg.Wait()
}
