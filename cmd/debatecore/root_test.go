package main

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"debatecore/internal/config"
	"debatecore/internal/lifecycle"
	"debatecore/internal/models"
)

// fakeBackend is an in-memory debate backend
type fakeBackend struct {
	mu       sync.Mutex
	status   models.StatusResponse
	query    models.QueryResponse
	queryErr int
	uploaded []string
	queries  []string
}

func (b *fakeBackend) handler() http.Handler {
	mux := http.NewServeMux()
	mux.HandleFunc("GET /status", func(w http.ResponseWriter, r *http.Request) {
		b.mu.Lock()
		defer b.mu.Unlock()
		_ = json.NewEncoder(w).Encode(b.status)
	})
	mux.HandleFunc("POST /query", func(w http.ResponseWriter, r *http.Request) {
		var req models.QueryRequest
		_ = json.NewDecoder(r.Body).Decode(&req)
		b.mu.Lock()
		defer b.mu.Unlock()
		b.queries = append(b.queries, req.Query)
		if b.queryErr != 0 {
			w.WriteHeader(b.queryErr)
			return
		}
		resp := b.query
		resp.Query = req.Query
		_ = json.NewEncoder(w).Encode(resp)
	})
	mux.HandleFunc("POST /upload", func(w http.ResponseWriter, r *http.Request) {
		_, hdr, err := r.FormFile("file")
		if err != nil {
			w.WriteHeader(http.StatusBadRequest)
			return
		}
		b.mu.Lock()
		b.uploaded = append(b.uploaded, hdr.Filename)
		b.mu.Unlock()
		_ = json.NewEncoder(w).Encode(models.UploadResponse{Message: "Indexed " + hdr.Filename})
	})
	return mux
}

func (b *fakeBackend) uploads() []string {
	b.mu.Lock()
	defer b.mu.Unlock()
	return append([]string(nil), b.uploaded...)
}

// setupEnv points the CLI at srv with an isolated config and log file
func setupEnv(t *testing.T, srvURL string) {
	t.Helper()
	dir := t.TempDir()
	t.Setenv(config.EnvConfigPath, filepath.Join(dir, "missing.yaml"))
	t.Setenv(config.EnvLogFile, filepath.Join(dir, "debatecore.log"))
	t.Setenv(config.EnvBaseURL, srvURL)
	t.Setenv(config.EnvPollInterval, "")
	t.Setenv(config.EnvDebug, "")
}

func runCmd(t *testing.T, args ...string) (string, error) {
	t.Helper()
	root := newRootCmd()
	var out bytes.Buffer
	root.SetOut(&out)
	root.SetErr(&out)
	root.SetArgs(args)
	err := root.Execute()
	return out.String(), err
}

func debateBackend() *fakeBackend {
	return &fakeBackend{
		status: models.StatusResponse{IndexReady: true, ChunkCount: 42, FilesIndexed: []string{"a.pdf", "b.pdf"}},
		query: models.QueryResponse{
			DebateRounds: []models.WireRound{
				{Agent: "Agent_Pro", Content: "Remote work raises output."},
				{Agent: "Agent_Contra", Content: "Collaboration suffers."},
				{Agent: "Agent_Judge", Content: "Score: 8/10. Well supported."},
				{Agent: "Agent_Synthesizer", Content: "STEP 1 — DIRECT ANSWER: Mostly yes.\nSTEP 2 — BREAKDOWN: Depends on role.\nSTEP 3 — CONTEXT: Two studies."},
			},
			Sources: []string{"a.pdf", "b.pdf", "a.pdf"},
		},
	}
}

func TestStatusCommand(t *testing.T) {
	b := debateBackend()
	srv := httptest.NewServer(b.handler())
	defer srv.Close()
	setupEnv(t, srv.URL)

	out, err := runCmd(t, "status")
	require.NoError(t, err)
	assert.Contains(t, out, "index ready: yes")
	assert.Contains(t, out, "chunks:      42")
	assert.Contains(t, out, "files:       2")
	assert.Contains(t, out, "  - b.pdf")
}

func TestStatusCommandJSON(t *testing.T) {
	b := &fakeBackend{}
	srv := httptest.NewServer(b.handler())
	defer srv.Close()
	setupEnv(t, srv.URL)

	out, err := runCmd(t, "status", "--json")
	require.NoError(t, err)

	var got struct {
		IndexReady   bool     `json:"index_ready"`
		ChunkCount   int      `json:"chunk_count"`
		FilesIndexed []string `json:"files_indexed"`
	}
	require.NoError(t, json.Unmarshal([]byte(out), &got))
	assert.False(t, got.IndexReady)
	assert.Equal(t, 0, got.ChunkCount)
	assert.NotNil(t, got.FilesIndexed)
}

func TestStatusCommandUnreachable(t *testing.T) {
	srv := httptest.NewServer(http.NotFoundHandler())
	url := srv.URL
	srv.Close()
	setupEnv(t, url)

	_, err := runCmd(t, "status")
	require.Error(t, err)
	assert.True(t, strings.HasPrefix(err.Error(), "status: "))
}

func TestAPIBaseFlagOverridesEnv(t *testing.T) {
	b := debateBackend()
	srv := httptest.NewServer(b.handler())
	defer srv.Close()
	setupEnv(t, "http://127.0.0.1:1")

	out, err := runCmd(t, "--api-base", srv.URL, "status")
	require.NoError(t, err)
	assert.Contains(t, out, "backend:     "+srv.URL)
}

func TestInvalidAPIBaseFlag(t *testing.T) {
	setupEnv(t, "http://localhost:8000")

	_, err := runCmd(t, "--api-base", "not a url", "status")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "invalid config")
}

func TestAskMarkdown(t *testing.T) {
	b := debateBackend()
	srv := httptest.NewServer(b.handler())
	defer srv.Close()
	setupEnv(t, srv.URL)

	out, err := runCmd(t, "ask", "Is", "remote", "work", "productive?")
	require.NoError(t, err)

	// not a terminal, so auto prints raw markdown
	assert.Contains(t, out, "# Is remote work productive?")
	assert.Contains(t, out, "**Judge score:** 8/10")

	pro := strings.Index(out, "### Agent Pro")
	contra := strings.Index(out, "### Agent Contra")
	judge := strings.Index(out, "### Agent Judge")
	synth := strings.Index(out, "### Agent Synthesizer (verdict)")
	require.True(t, pro >= 0 && contra > pro && judge > contra && synth > judge, out)

	assert.Equal(t, 2, strings.Count(out, "- `a.pdf`"))
	assert.Equal(t, []string{"Is remote work productive?"}, b.queries)
}

func TestAskText(t *testing.T) {
	b := debateBackend()
	srv := httptest.NewServer(b.handler())
	defer srv.Close()
	setupEnv(t, srv.URL)

	out, err := runCmd(t, "ask", "--format", "text", "why?")
	require.NoError(t, err)
	assert.Contains(t, out, "Q: why?")
	assert.Contains(t, out, "[Agent Pro]")
	assert.Contains(t, out, "Evidence: a.pdf, b.pdf, a.pdf")
}

func TestAskJSON(t *testing.T) {
	b := debateBackend()
	srv := httptest.NewServer(b.handler())
	defer srv.Close()
	setupEnv(t, srv.URL)

	out, err := runCmd(t, "ask", "-f", "json", "why?")
	require.NoError(t, err)

	var got jsonTranscript
	require.NoError(t, json.Unmarshal([]byte(out), &got))
	assert.Equal(t, "why?", got.Query)
	require.Len(t, got.Rounds, 4)
	assert.Equal(t, "Agent Pro", got.Rounds[0].Label)
	assert.True(t, got.Rounds[3].IsVerdict)
	assert.Equal(t, []string{"a.pdf", "b.pdf", "a.pdf"}, got.Sources)
	require.NotNil(t, got.JudgeScore)
	assert.Equal(t, 8.0, *got.JudgeScore)
	require.NotNil(t, got.Verdict)
	assert.Equal(t, "Mostly yes.", got.Verdict.DirectAnswer)
	assert.True(t, got.Verdict.Structured)
}

func TestAskUnknownFormat(t *testing.T) {
	b := debateBackend()
	srv := httptest.NewServer(b.handler())
	defer srv.Close()
	setupEnv(t, srv.URL)

	_, err := runCmd(t, "ask", "--format", "yaml", "why?")
	require.Error(t, err)
	assert.Contains(t, err.Error(), `unknown format "yaml"`)
	assert.Empty(t, b.queries)
}

func TestAskBlankQuestion(t *testing.T) {
	b := debateBackend()
	srv := httptest.NewServer(b.handler())
	defer srv.Close()
	setupEnv(t, srv.URL)

	_, err := runCmd(t, "ask", "   ")
	require.EqualError(t, err, "question is empty")
	assert.Empty(t, b.queries)
}

func TestAskBackendDown(t *testing.T) {
	srv := httptest.NewServer(http.NotFoundHandler())
	url := srv.URL
	srv.Close()
	setupEnv(t, url)

	_, err := runCmd(t, "ask", "why?")
	require.EqualError(t, err, lifecycle.UnreachableMessage)
}

func TestAskBackendLogicalError(t *testing.T) {
	b := debateBackend()
	b.query = models.QueryResponse{Error: "Index not built yet"}
	srv := httptest.NewServer(b.handler())
	defer srv.Close()
	setupEnv(t, srv.URL)

	_, err := runCmd(t, "ask", "why?")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "Index not built yet")
	assert.NotEqual(t, lifecycle.UnreachableMessage, err.Error())
}

func TestUploadFiles(t *testing.T) {
	b := debateBackend()
	srv := httptest.NewServer(b.handler())
	defer srv.Close()
	setupEnv(t, srv.URL)

	dir := t.TempDir()
	one := filepath.Join(dir, "one.pdf")
	two := filepath.Join(dir, "two.pdf")
	require.NoError(t, os.WriteFile(one, []byte("%PDF-1.4 one"), 0o644))
	require.NoError(t, os.WriteFile(two, []byte("%PDF-1.4 two"), 0o644))

	out, err := runCmd(t, "upload", one, two)
	require.NoError(t, err)
	assert.Contains(t, out, "✓ one.pdf: Indexed one.pdf")
	assert.Contains(t, out, "✓ two.pdf: Indexed two.pdf")
	assert.Equal(t, []string{"one.pdf", "two.pdf"}, b.uploads())
}

func TestUploadRejectsLocally(t *testing.T) {
	b := debateBackend()
	srv := httptest.NewServer(b.handler())
	defer srv.Close()
	setupEnv(t, srv.URL)

	dir := t.TempDir()
	good := filepath.Join(dir, "good.pdf")
	bad := filepath.Join(dir, "notes.txt")
	require.NoError(t, os.WriteFile(good, []byte("%PDF"), 0o644))
	require.NoError(t, os.WriteFile(bad, []byte("text"), 0o644))

	out, err := runCmd(t, "upload", bad, good)
	require.EqualError(t, err, "1 of 2 uploads failed")
	assert.Contains(t, out, "✗ notes.txt:")
	assert.Contains(t, out, "✓ good.pdf")
	assert.Equal(t, []string{"good.pdf"}, b.uploads())
}

func TestUploadNothing(t *testing.T) {
	setupEnv(t, "http://localhost:8000")

	_, err := runCmd(t, "upload")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "nothing to upload")
}

func TestRootRefusesWithoutTerminal(t *testing.T) {
	setupEnv(t, "http://localhost:8000")

	_, err := runCmd(t)
	require.ErrorIs(t, err, errNotTerminal)
}
