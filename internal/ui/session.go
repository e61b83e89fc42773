// internal/ui/session.go
package ui

import (
	"context"
	"sync"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"go.uber.org/zap"

	"debatecore/internal/lifecycle"
	"debatecore/internal/poller"
)

// Gateway is everything the TUI needs from the backend client
type Gateway interface {
	poller.StatusFetcher
	lifecycle.QuerySubmitter
	lifecycle.FileUploader
}

// StatusMsg carries a fresh status snapshot
type StatusMsg poller.Snapshot

// QueryStateMsg carries a query lifecycle transition
type QueryStateMsg lifecycle.QueryState

// UploadStateMsg carries an upload lifecycle transition
type UploadStateMsg lifecycle.UploadState

// bridge moves callbacks from worker goroutines into the Bubble Tea loop
type bridge struct {
	ch   chan tea.Msg
	done chan struct{}
	once sync.Once
}

func newBridge() *bridge {
	return &bridge{
		ch:   make(chan tea.Msg, 64),
		done: make(chan struct{}),
	}
}

// send blocks until the UI takes msg or the bridge is closed
func (b *bridge) send(msg tea.Msg) {
	select {
	case b.ch <- msg:
	case <-b.done:
	}
}

func (b *bridge) close() {
	b.once.Do(func() { close(b.done) })
}

// wait returns a command that delivers the next bridged message
func (b *bridge) wait() tea.Cmd {
	return func() tea.Msg {
		select {
		case msg := <-b.ch:
			return msg
		case <-b.done:
			return nil
		}
	}
}

// SessionConfig holds the timings a session runs with
type SessionConfig struct {
	PollInterval time.Duration
}

// Session owns the poller and both controllers for one TUI run
type Session struct {
	Poller *poller.Poller
	Query  *lifecycle.QueryController
	Upload *lifecycle.UploadController

	bridge *bridge
	logger *zap.Logger
	ctx    context.Context
	cancel context.CancelFunc
	once   sync.Once
}

// NewSession wires gw into a poller and the two lifecycle controllers.
// Every state change is forwarded to the UI.
func NewSession(gw Gateway, cfg SessionConfig, logger *zap.Logger) *Session {
	if logger == nil {
		logger = zap.NewNop()
	}
	b := newBridge()
	ctx, cancel := context.WithCancel(context.Background())

	p := poller.New(gw,
		poller.WithInterval(cfg.PollInterval),
		poller.WithLogger(logger),
		poller.WithOnUpdate(func(s poller.Snapshot) { b.send(StatusMsg(s)) }))

	opts := []lifecycle.Option{lifecycle.WithLogger(logger), lifecycle.WithContext(ctx)}
	qc := lifecycle.NewQueryController(gw, func(s lifecycle.QueryState) {
		b.send(QueryStateMsg(s))
	}, opts...)
	uc := lifecycle.NewUploadController(gw, p, func(s lifecycle.UploadState) {
		b.send(UploadStateMsg(s))
	}, opts...)

	return &Session{
		Poller: p,
		Query:  qc,
		Upload: uc,
		bridge: b,
		logger: logger.Named("ui"),
		ctx:    ctx,
		cancel: cancel,
	}
}

// Start begins status polling
func (s *Session) Start() error {
	return s.Poller.Start(s.ctx)
}

// Close tears the session down. Polling stops and late results from
// outstanding requests are discarded. Close is idempotent.
func (s *Session) Close() {
	s.once.Do(func() {
		s.bridge.close()
		s.Query.Close()
		s.Upload.Close()
		s.Poller.Stop()
		s.logger.Debug("session closed")
	})
}

// Abort cancels outstanding requests, then closes the session
func (s *Session) Abort() {
	s.cancel()
	s.Close()
}
