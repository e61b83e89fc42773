// internal/watch/watch.go
// Directory watcher that feeds new documents to the upload controller.
package watch

import (
	"context"
	"errors"
	"fmt"
	"os"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"
	"go.uber.org/zap"

	"debatecore/internal/lifecycle"
	"debatecore/internal/source"
)

// DefaultDebounce is how long a path must stay quiet before it is sent
const DefaultDebounce = 500 * time.Millisecond

// Uploader is the part of the upload controller the watcher drives
type Uploader interface {
	Submit(f lifecycle.Upload) error
	State() lifecycle.UploadState
	Wait()
}

// Result reports the outcome for one watched file
type Result struct {
	Path  string
	State lifecycle.UploadState
	Err   error // set when the file never reached the backend
}

// Watcher queues matching files from one directory and uploads them
// one at a time.
type Watcher struct {
	dir      string
	loader   source.Loader
	up       Uploader
	logger   *zap.Logger
	debounce time.Duration
	existing bool
	onResult func(Result)

	mu      sync.Mutex
	pending []string
	queued  map[string]bool
	sent    map[string]time.Time // path -> mod time at upload
	wake    chan struct{}
}

type Option func(*Watcher)

func WithLogger(l *zap.Logger) Option {
	return func(w *Watcher) {
		if l != nil {
			w.logger = l.Named("watch")
		}
	}
}

func WithDebounce(d time.Duration) Option {
	return func(w *Watcher) {
		if d > 0 {
			w.debounce = d
		}
	}
}

// WithExisting also uploads files already present when Run starts
func WithExisting(existing bool) Option {
	return func(w *Watcher) {
		w.existing = existing
	}
}

// WithOnResult registers a callback for every processed file.
// It runs on the upload worker goroutine.
func WithOnResult(fn func(Result)) Option {
	return func(w *Watcher) {
		w.onResult = fn
	}
}

func New(dir string, loader source.Loader, up Uploader, opts ...Option) *Watcher {
	w := &Watcher{
		dir:      dir,
		loader:   loader,
		up:       up,
		logger:   zap.NewNop(),
		debounce: DefaultDebounce,
		queued:   make(map[string]bool),
		sent:     make(map[string]time.Time),
		wake:     make(chan struct{}, 1),
	}
	for _, opt := range opts {
		opt(w)
	}
	return w
}

// Run watches until ctx is canceled. The file currently uploading is
// allowed to finish before Run returns.
func (w *Watcher) Run(ctx context.Context) error {
	dir, err := source.Resolve(w.dir)
	if err != nil {
		return err
	}
	info, err := os.Stat(dir)
	if err != nil {
		return fmt.Errorf("watch %s: %w", dir, err)
	}
	if !info.IsDir() {
		return fmt.Errorf("watch %s: not a directory", dir)
	}

	fw, err := fsnotify.NewWatcher()
	if err != nil {
		return fmt.Errorf("create watcher: %w", err)
	}
	defer func() { _ = fw.Close() }()

	if err := fw.Add(dir); err != nil {
		return fmt.Errorf("watch %s: %w", dir, err)
	}
	w.logger.Info("watching", zap.String("dir", dir), zap.Strings("extensions", w.loader.Extensions))

	if w.existing {
		files, err := w.loader.List(dir)
		if err != nil {
			return err
		}
		w.enqueue(files...)
	}

	var wg sync.WaitGroup
	wg.Add(1)
	go func() {
		defer wg.Done()
		w.worker(ctx)
	}()
	defer wg.Wait()

	debounceTimer := newDebounceTimer()
	defer debounceTimer.Stop()
	var quiet []string

	for {
		select {
		case <-ctx.Done():
			return nil

		case event, ok := <-fw.Events:
			if !ok {
				return nil
			}
			if !event.Has(fsnotify.Create) && !event.Has(fsnotify.Write) {
				continue
			}
			if !w.loader.Allowed(event.Name) {
				continue
			}
			quiet = appendUnique(quiet, event.Name)
			resetDebounceTimer(debounceTimer, w.debounce)

		case <-debounceTimer.C:
			w.enqueue(quiet...)
			quiet = nil

		case err, ok := <-fw.Errors:
			if !ok {
				return nil
			}
			w.logger.Warn("watcher error", zap.Error(err))
		}
	}
}

func (w *Watcher) enqueue(paths ...string) {
	if len(paths) == 0 {
		return
	}
	w.mu.Lock()
	for _, p := range paths {
		if w.queued[p] {
			continue
		}
		w.queued[p] = true
		w.pending = append(w.pending, p)
	}
	w.mu.Unlock()

	select {
	case w.wake <- struct{}{}:
	default:
	}
}

func (w *Watcher) next() (string, bool) {
	w.mu.Lock()
	defer w.mu.Unlock()
	if len(w.pending) == 0 {
		return "", false
	}
	p := w.pending[0]
	w.pending = w.pending[1:]
	delete(w.queued, p)
	return p, true
}

func (w *Watcher) worker(ctx context.Context) {
	for {
		select {
		case <-ctx.Done():
			return
		case <-w.wake:
		}
		for {
			if ctx.Err() != nil {
				return
			}
			path, ok := w.next()
			if !ok {
				break
			}
			w.process(ctx, path)
		}
	}
}

func (w *Watcher) process(ctx context.Context, path string) {
	info, err := os.Stat(path)
	if err != nil {
		// removed before it settled
		w.logger.Debug("skipping vanished file", zap.String("file", path))
		return
	}
	if last, ok := w.sent[path]; ok && last.Equal(info.ModTime()) {
		return
	}

	f, err := w.loader.Load(path)
	if err != nil {
		w.logger.Warn("cannot load file", zap.String("file", path), zap.Error(err))
		w.report(Result{Path: path, Err: err})
		return
	}

	for {
		err = w.up.Submit(f)
		if !errors.Is(err, lifecycle.ErrInFlight) {
			break
		}
		// another upload is outstanding; wait our turn
		w.up.Wait()
		if ctx.Err() != nil {
			return
		}
	}
	if err != nil {
		w.logger.Warn("upload not started", zap.String("file", path), zap.Error(err))
		w.report(Result{Path: path, Err: err})
		return
	}

	w.up.Wait()
	state := w.up.State()
	if state.Phase == lifecycle.Succeeded {
		w.sent[path] = info.ModTime()
	}
	w.report(Result{Path: path, State: state})
}

func (w *Watcher) report(r Result) {
	if w.onResult != nil {
		w.onResult(r)
	}
}

func appendUnique(list []string, s string) []string {
	for _, v := range list {
		if v == s {
			return list
		}
	}
	return append(list, s)
}

// newDebounceTimer creates a stopped timer
func newDebounceTimer() *time.Timer {
	timer := time.NewTimer(0)
	if !timer.Stop() {
		<-timer.C
	}
	return timer
}

func resetDebounceTimer(timer *time.Timer, d time.Duration) {
	if !timer.Stop() {
		select {
		case <-timer.C:
		default:
		}
	}
	timer.Reset(d)
}
