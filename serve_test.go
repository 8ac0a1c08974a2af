package main

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/fsnotify/fsnotify"
	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Zachkp/folio/internal/config"
)

func init() {
	gin.SetMode(gin.TestMode)
}

func get(t *testing.T, h http.Handler, path string) *httptest.ResponseRecorder {
	t.Helper()
	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, path, nil)
	h.ServeHTTP(w, req)
	return w
}

func TestRouter(t *testing.T) {
	cfg := testConfig(t)
	st := testStore(t)
	_, err := runBuild(context.Background(), cfg, testLogger(), st)
	require.NoError(t, err)

	r := newRouter(cfg, st)

	w := get(t, r, "/")
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), `id="who-am-i"`)
	assert.Equal(t, "no-cache, no-store, must-revalidate", w.Header().Get("Cache-Control"))

	w = get(t, r, "/static/style.css")
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "body{}", w.Body.String())

	w = get(t, r, "/content.json")
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), `"sections"`)

	w = get(t, r, "/_diagnostics")
	require.Equal(t, http.StatusOK, w.Code)
	var stats struct {
		TotalRuns  int64 `json:"total_runs"`
		FailedRuns int64 `json:"failed_runs"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &stats))
	assert.EqualValues(t, 1, stats.TotalRuns)
	assert.EqualValues(t, 0, stats.FailedRuns)

	w = get(t, r, "/_diagnostics/runs?limit=5")
	require.Equal(t, http.StatusOK, w.Code)
	var body struct {
		Runs []struct {
			State string `json:"state"`
		} `json:"runs"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
	require.Len(t, body.Runs, 1)
	assert.Equal(t, "ready", body.Runs[0].State)

	w = get(t, r, "/_diagnostics/runs?limit=zero")
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestRouterWithoutStore(t *testing.T) {
	cfg := testConfig(t)
	cfg.Content = "https://example.org/content.json"

	r := newRouter(cfg, nil)

	assert.Equal(t, http.StatusNotFound, get(t, r, "/_diagnostics").Code)
	assert.Equal(t, http.StatusNotFound, get(t, r, "/content.json").Code)
}

func TestIsRemote(t *testing.T) {
	assert.True(t, isRemote("https://example.org/c.json"))
	assert.True(t, isRemote("http://localhost/c.json"))
	assert.False(t, isRemote("content.json"))
	assert.False(t, isRemote("file:///tmp/content.json"))
}

func pageWritten(cfg config.Config) func() bool {
	return func() bool {
		_, err := os.Stat(filepath.Join(cfg.OutputDir, "index.html"))
		return err == nil
	}
}

func TestBuilderClosed(t *testing.T) {
	cfg := testConfig(t)
	st := testStore(t)
	b := &builder{cfg: cfg, logger: testLogger(), store: st}

	b.close()
	require.NoError(t, b.build(context.Background()))
	assert.False(t, pageWritten(cfg)())

	runs, err := st.RecentRuns(context.Background(), 10)
	require.NoError(t, err)
	assert.Empty(t, runs)
}

func TestBuilderRebuildAfterShutdown(t *testing.T) {
	cfg := testConfig(t)
	b := &builder{cfg: cfg, logger: testLogger()}

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	b.rebuild(ctx)
	assert.False(t, pageWritten(cfg)())
}

func watchContentDir(ctx context.Context, t *testing.T, b *builder) chan struct{} {
	t.Helper()
	watcher, err := fsnotify.NewWatcher()
	require.NoError(t, err)
	t.Cleanup(func() { watcher.Close() })
	require.NoError(t, watcher.Add(filepath.Dir(b.cfg.Content)))

	done := make(chan struct{})
	go func() {
		defer close(done)
		b.watch(ctx, watcher)
	}()
	return done
}

func touch(t *testing.T, path string) {
	t.Helper()
	data, err := os.ReadFile(path)
	require.NoError(t, err)
	require.NoError(t, os.WriteFile(path, data, 0o644))
}

func TestBuilderWatchRebuilds(t *testing.T) {
	cfg := testConfig(t)
	b := &builder{cfg: cfg, logger: testLogger()}

	ctx, cancel := context.WithCancel(context.Background())
	done := watchContentDir(ctx, t, b)

	touch(t, cfg.Content)
	assert.Eventually(t, pageWritten(cfg), 5*time.Second, 50*time.Millisecond)

	cancel()
	<-done
	b.close()
}

func TestBuilderWatchDropsPendingRebuildOnShutdown(t *testing.T) {
	cfg := testConfig(t)
	st := testStore(t)
	b := &builder{cfg: cfg, logger: testLogger(), store: st}

	ctx, cancel := context.WithCancel(context.Background())
	done := watchContentDir(ctx, t, b)

	touch(t, cfg.Content)
	time.Sleep(rebuildDebounce / 5)
	cancel()
	<-done

	assert.Never(t, pageWritten(cfg), 2*rebuildDebounce, 50*time.Millisecond)
	runs, err := st.RecentRuns(context.Background(), 10)
	require.NoError(t, err)
	assert.Empty(t, runs)
}
