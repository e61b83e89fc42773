package watch

import (
	"context"
	"os"
	"path/filepath"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"debatecore/internal/lifecycle"
	"debatecore/internal/models"
	"debatecore/internal/source"
)

// fakeUploader completes every submit synchronously
type fakeUploader struct {
	mu        sync.Mutex
	names     []string
	busyFirst int // number of submits to reject with ErrInFlight
	waits     int
	state     lifecycle.UploadState
}

func (f *fakeUploader) Submit(u lifecycle.Upload) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.busyFirst > 0 {
		f.busyFirst--
		return lifecycle.ErrInFlight
	}
	f.names = append(f.names, filepath.Base(u.Name))
	f.state = lifecycle.UploadState{
		Phase:   lifecycle.Succeeded,
		Payload: models.UploadReceipt{Filename: filepath.Base(u.Name)},
	}
	return nil
}

func (f *fakeUploader) State() lifecycle.UploadState {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.state
}

func (f *fakeUploader) Wait() {
	f.mu.Lock()
	f.waits++
	f.mu.Unlock()
}

func (f *fakeUploader) uploaded() []string {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]string(nil), f.names...)
}

func runWatcher(t *testing.T, w *Watcher) (cancel func()) {
	t.Helper()
	ctx, cancelCtx := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- w.Run(ctx) }()

	// Give watcher time to initialize
	time.Sleep(100 * time.Millisecond)

	return func() {
		cancelCtx()
		select {
		case err := <-done:
			assert.NoError(t, err)
		case <-time.After(2 * time.Second):
			t.Fatal("Run did not return after cancel")
		}
	}
}

func TestWatcher_UploadsMatchingFiles(t *testing.T) {
	dir := t.TempDir()
	up := &fakeUploader{}

	var mu sync.Mutex
	var results []Result
	w := New(dir, source.Loader{Extensions: []string{".pdf"}}, up,
		WithDebounce(20*time.Millisecond),
		WithOnResult(func(r Result) {
			mu.Lock()
			results = append(results, r)
			mu.Unlock()
		}))
	stop := runWatcher(t, w)
	defer stop()

	require.NoError(t, os.WriteFile(filepath.Join(dir, "paper.pdf"), []byte("%PDF"), 0o600))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "notes.txt"), []byte("x"), 0o600))

	require.Eventually(t, func() bool { return len(up.uploaded()) == 1 }, 2*time.Second, 10*time.Millisecond)
	time.Sleep(100 * time.Millisecond)
	assert.Equal(t, []string{"paper.pdf"}, up.uploaded())

	mu.Lock()
	defer mu.Unlock()
	require.Len(t, results, 1)
	assert.Equal(t, lifecycle.Succeeded, results[0].State.Phase)
	assert.NoError(t, results[0].Err)
}

func TestWatcher_DebouncesRepeatedWrites(t *testing.T) {
	dir := t.TempDir()
	up := &fakeUploader{}
	w := New(dir, source.Loader{Extensions: []string{".pdf"}}, up, WithDebounce(50*time.Millisecond))
	stop := runWatcher(t, w)
	defer stop()

	path := filepath.Join(dir, "growing.pdf")
	f, err := os.Create(path)
	require.NoError(t, err)
	for i := 0; i < 5; i++ {
		_, err := f.WriteString("chunk ")
		require.NoError(t, err)
		time.Sleep(5 * time.Millisecond)
	}
	require.NoError(t, f.Close())

	require.Eventually(t, func() bool { return len(up.uploaded()) >= 1 }, 2*time.Second, 10*time.Millisecond)
	time.Sleep(150 * time.Millisecond)
	assert.Equal(t, []string{"growing.pdf"}, up.uploaded())
}

func TestWatcher_WaitsForOutstandingUpload(t *testing.T) {
	dir := t.TempDir()
	up := &fakeUploader{busyFirst: 2}
	w := New(dir, source.Loader{Extensions: []string{".pdf"}}, up, WithDebounce(10*time.Millisecond))
	stop := runWatcher(t, w)
	defer stop()

	require.NoError(t, os.WriteFile(filepath.Join(dir, "queued.pdf"), []byte("x"), 0o600))

	require.Eventually(t, func() bool { return len(up.uploaded()) == 1 }, 2*time.Second, 10*time.Millisecond)
	up.mu.Lock()
	defer up.mu.Unlock()
	assert.GreaterOrEqual(t, up.waits, 3, "two busy retries plus the completion wait")
}

func TestWatcher_ExistingFiles(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "b.pdf"), []byte("b"), 0o600))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "a.pdf"), []byte("a"), 0o600))

	up := &fakeUploader{}
	w := New(dir, source.Loader{Extensions: []string{".pdf"}}, up, WithExisting(true))
	stop := runWatcher(t, w)
	defer stop()

	require.Eventually(t, func() bool { return len(up.uploaded()) == 2 }, 2*time.Second, 10*time.Millisecond)
	assert.Equal(t, []string{"a.pdf", "b.pdf"}, up.uploaded())
}

func TestWatcher_LoadErrorIsReported(t *testing.T) {
	dir := t.TempDir()
	up := &fakeUploader{}
	errs := make(chan error, 1)
	w := New(dir, source.Loader{MaxSize: 4, Extensions: []string{".pdf"}}, up,
		WithDebounce(10*time.Millisecond),
		WithOnResult(func(r Result) {
			if r.Err != nil {
				select {
				case errs <- r.Err:
				default:
				}
			}
		}))
	stop := runWatcher(t, w)
	defer stop()

	require.NoError(t, os.WriteFile(filepath.Join(dir, "big.pdf"), []byte("too large"), 0o600))

	select {
	case err := <-errs:
		assert.ErrorIs(t, err, source.ErrTooLarge)
	case <-time.After(2 * time.Second):
		t.Fatal("timeout waiting for load error")
	}
	assert.Empty(t, up.uploaded())
}

func TestWatcher_MissingDir(t *testing.T) {
	w := New(filepath.Join(t.TempDir(), "nope"), source.Loader{}, &fakeUploader{})
	err := w.Run(context.Background())
	assert.ErrorIs(t, err, os.ErrNotExist)
}

func TestWatcher_NotADirectory(t *testing.T) {
	file := filepath.Join(t.TempDir(), "file.pdf")
	require.NoError(t, os.WriteFile(file, []byte("x"), 0o600))

	err := New(file, source.Loader{}, &fakeUploader{}).Run(context.Background())
	assert.ErrorContains(t, err, "not a directory")
}

func TestAppendUnique(t *testing.T) {
	got := appendUnique(appendUnique(appendUnique(nil, "a"), "b"), "a")
	assert.Equal(t, []string{"a", "b"}, got)
}
