// internal/poller/poller.go
// Periodic backend status refresh with an out-of-band one-shot path.
package poller

import (
	"context"
	"errors"
	"sync"
	"time"

	"go.uber.org/zap"

	"debatecore/internal/models"
)

// DefaultInterval between scheduled fetches
const DefaultInterval = 5 * time.Second

var ErrAlreadyRunning = errors.New("poller already running")

// StatusFetcher is the subset of the gateway the poller needs
type StatusFetcher interface {
	FetchStatus(ctx context.Context) (models.BackendStatus, error)
}

// Snapshot is one applied status. Seq is issued when the fetch starts,
// so a higher Seq always means a fresher request.
type Snapshot struct {
	Status    models.BackendStatus
	Seq       uint64
	FetchedAt time.Time
}

// Poller owns the repeating status timer.
// Stopped -> Running -> Stopped; it may be started again after Stop.
type Poller struct {
	fetcher  StatusFetcher
	interval time.Duration
	logger   *zap.Logger
	onUpdate func(Snapshot)
	now      func() time.Time

	mu       sync.Mutex
	running  bool
	ctx      context.Context
	cancel   context.CancelFunc
	wg       sync.WaitGroup // loop and refresh goroutines
	nextSeq  uint64
	latest   Snapshot
	have     bool
	failures int

	notifyMu     sync.Mutex
	lastNotified uint64
}

type Option func(*Poller)

func WithInterval(d time.Duration) Option {
	return func(p *Poller) {
		if d > 0 {
			p.interval = d
		}
	}
}

func WithLogger(l *zap.Logger) Option {
	return func(p *Poller) {
		if l != nil {
			p.logger = l.Named("poller")
		}
	}
}

// WithOnUpdate registers a callback for every applied snapshot.
// It runs on a poller goroutine and must not call Stop.
func WithOnUpdate(fn func(Snapshot)) Option {
	return func(p *Poller) {
		p.onUpdate = fn
	}
}

// WithClock overrides the clock used to stamp snapshots
func WithClock(now func() time.Time) Option {
	return func(p *Poller) {
		if now != nil {
			p.now = now
		}
	}
}

func New(fetcher StatusFetcher, opts ...Option) *Poller {
	p := &Poller{
		fetcher:  fetcher,
		interval: DefaultInterval,
		logger:   zap.NewNop(),
		now:      time.Now,
	}
	for _, opt := range opts {
		opt(p)
	}
	return p
}

// Start fetches immediately and then every interval until Stop is
// called or ctx is canceled.
func (p *Poller) Start(ctx context.Context) error {
	p.mu.Lock()
	defer p.mu.Unlock()

	if p.running {
		return ErrAlreadyRunning
	}

	runCtx, cancel := context.WithCancel(ctx)
	p.ctx = runCtx
	p.cancel = cancel
	p.running = true

	p.wg.Add(1)
	go p.loop(runCtx)

	p.logger.Debug("started", zap.Duration("interval", p.interval))
	return nil
}

// Stop cancels the timer and waits for every poller goroutine to exit.
// No fetch starts after Stop returns.
func (p *Poller) Stop() {
	p.mu.Lock()
	if !p.running {
		p.mu.Unlock()
		return
	}
	p.running = false
	p.cancel()
	p.mu.Unlock()

	p.wg.Wait()
	p.logger.Debug("stopped")
}

// Refresh performs one fetch outside the schedule. It reports false
// and does nothing when the poller is not running.
func (p *Poller) Refresh() bool {
	p.mu.Lock()
	defer p.mu.Unlock()

	if !p.running || p.ctx.Err() != nil {
		return false
	}

	ctx := p.ctx
	p.wg.Add(1)
	go func() {
		defer p.wg.Done()
		p.fetch(ctx)
	}()
	return true
}

// Latest returns the most recent applied snapshot
func (p *Poller) Latest() (Snapshot, bool) {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.latest, p.have
}

// Running reports whether the poller is between Start and Stop
func (p *Poller) Running() bool {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.running && p.ctx.Err() == nil
}

// Failures returns how many fetches failed since construction
func (p *Poller) Failures() int {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.failures
}

func (p *Poller) loop(ctx context.Context) {
	defer p.wg.Done()

	p.fetch(ctx)

	ticker := time.NewTicker(p.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			p.fetch(ctx)
		}
	}
}

func (p *Poller) fetch(ctx context.Context) {
	p.mu.Lock()
	if ctx.Err() != nil {
		p.mu.Unlock()
		return
	}
	p.nextSeq++
	seq := p.nextSeq
	p.mu.Unlock()

	status, err := p.fetcher.FetchStatus(ctx)

	p.mu.Lock()
	if ctx.Err() != nil {
		// torn down while in flight: discard silently
		p.mu.Unlock()
		return
	}
	if err != nil {
		p.failures++
		p.mu.Unlock()
		p.logger.Warn("status fetch failed", zap.Uint64("seq", seq), zap.Error(err))
		return
	}
	if p.have && seq <= p.latest.Seq {
		applied := p.latest.Seq
		p.mu.Unlock()
		p.logger.Debug("discarding stale status",
			zap.Uint64("seq", seq),
			zap.Uint64("applied", applied))
		return
	}
	snap := Snapshot{Status: status, Seq: seq, FetchedAt: p.now()}
	p.latest = snap
	p.have = true
	p.mu.Unlock()

	p.notify(snap)
}

func (p *Poller) notify(snap Snapshot) {
	if p.onUpdate == nil {
		return
	}
	p.notifyMu.Lock()
	defer p.notifyMu.Unlock()
	if snap.Seq <= p.lastNotified {
		return
	}
	p.lastNotified = snap.Seq
	p.onUpdate(snap)
}
