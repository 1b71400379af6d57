package api

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"

	"newsdigest/orchestrator"
	"newsdigest/types"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func init() {
	gin.SetMode(gin.TestMode)
}

type stubStore struct {
	archive types.Archive
	err     error
}

func (s *stubStore) Load(context.Context) (types.Archive, error) { return s.archive, s.err }
func (s *stubStore) Save(context.Context, types.Archive) error   { return nil }

type stubRunner struct {
	report  orchestrator.Report
	err     error
	started chan struct{}
	release chan struct{}
	calls   int
	mu      sync.Mutex
}

func (r *stubRunner) Run(context.Context) (orchestrator.Report, error) {
	r.mu.Lock()
	r.calls++
	r.mu.Unlock()
	if r.started != nil {
		close(r.started)
		<-r.release
	}
	return r.report, r.err
}

func archiveOf(n int) types.Archive {
	archive := make(types.Archive, n)
	for i := range archive {
		archive[i] = types.NewsItem{Title: "t", Link: "https://e.example/" + string(rune('a'+i))}
	}
	return archive
}

func do(t *testing.T, r http.Handler, method, path string) (*httptest.ResponseRecorder, map[string]any) {
	t.Helper()
	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(method, path, nil))
	var body map[string]any
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body), w.Body.String())
	return w, body
}

func TestHealth(t *testing.T) {
	router := NewServer(&stubStore{}, &stubRunner{}, nil).NewRouter()

	w, body := do(t, router, http.MethodGet, "/api/health")
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "healthy", body["status"])
}

func TestListNews(t *testing.T) {
	router := NewServer(&stubStore{archive: archiveOf(5)}, &stubRunner{}, nil).NewRouter()

	cases := []struct {
		query string
		code  int
		count float64
	}{
		{"", http.StatusOK, 5},
		{"?limit=2", http.StatusOK, 2},
		{"?limit=50", http.StatusOK, 5},
		{"?limit=0", http.StatusOK, 5},
		{"?limit=-1", http.StatusBadRequest, 0},
		{"?limit=abc", http.StatusBadRequest, 0},
	}
	for _, tc := range cases {
		t.Run(tc.query, func(t *testing.T) {
			w, body := do(t, router, http.MethodGet, "/api/news"+tc.query)
			require.Equal(t, tc.code, w.Code)
			if tc.code == http.StatusOK {
				assert.Equal(t, tc.count, body["count"])
				assert.Len(t, body["items"], int(tc.count))
			}
		})
	}
}

func TestListNewsEmptyArchive(t *testing.T) {
	router := NewServer(&stubStore{archive: types.Archive{}}, &stubRunner{}, nil).NewRouter()

	w, body := do(t, router, http.MethodGet, "/api/news")
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, []any{}, body["items"])
}

func TestListNewsStoreError(t *testing.T) {
	router := NewServer(&stubStore{err: errors.New("bucket gone")}, &stubRunner{}, nil).NewRouter()

	w, _ := do(t, router, http.MethodGet, "/api/news")
	assert.Equal(t, http.StatusInternalServerError, w.Code)
}

func TestRefresh(t *testing.T) {
	runner := &stubRunner{report: orchestrator.Report{RunID: "run-1", NewItems: 2, Saved: true}}
	router := NewServer(&stubStore{}, runner, nil).NewRouter()

	w, body := do(t, router, http.MethodPost, "/api/rss/refresh")
	require.Equal(t, http.StatusOK, w.Code)
	report := body["report"].(map[string]any)
	assert.Equal(t, "run-1", report["run_id"])
	assert.Equal(t, float64(2), report["new_items"])
	assert.Equal(t, 1, runner.calls)
}

func TestRefreshFailure(t *testing.T) {
	runner := &stubRunner{err: errors.New("failed to save archive: read-only")}
	router := NewServer(&stubStore{}, runner, nil).NewRouter()

	w, body := do(t, router, http.MethodPost, "/api/rss/refresh")
	assert.Equal(t, http.StatusInternalServerError, w.Code)
	assert.Contains(t, body["error"], "read-only")
}

func TestRefreshConflict(t *testing.T) {
	runner := &stubRunner{started: make(chan struct{}), release: make(chan struct{})}
	router := NewServer(&stubStore{}, runner, nil).NewRouter()

	done := make(chan int)
	go func() {
		w := httptest.NewRecorder()
		router.ServeHTTP(w, httptest.NewRequest(http.MethodPost, "/api/rss/refresh", nil))
		done <- w.Code
	}()
	<-runner.started

	w, _ := do(t, router, http.MethodPost, "/api/rss/refresh")
	assert.Equal(t, http.StatusConflict, w.Code)

	close(runner.release)
	assert.Equal(t, http.StatusOK, <-done)
	assert.Equal(t, 1, runner.calls)
}
