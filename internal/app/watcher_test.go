package app

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"sync/atomic"
	"testing"
	"time"

	"github.com/samvad-hq/folio-content/internal/config"
	"github.com/samvad-hq/folio-content/internal/logger"
	"github.com/samvad-hq/folio-content/internal/watcher"
	"github.com/samvad-hq/folio-content/pkg/publishers"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type countingRunner struct {
	calls atomic.Int32
	err   error
}

func (c *countingRunner) Run(context.Context) (watcher.Result, error) {
	c.calls.Add(1)
	return watcher.Result{}, c.err
}

func TestRunLoopsUntilCancelled(t *testing.T) {
	runner := &countingRunner{err: errors.New("backend down")}
	w := &Watcher{
		cfg:          &config.Config{},
		fanout:       publishers.NewFanout(nil),
		sync:         runner,
		syncInterval: 10 * time.Millisecond,
		log:          logger.NopLogger{},
	}

	ctx, cancel := context.WithTimeout(context.Background(), 55*time.Millisecond)
	defer cancel()

	require.NoError(t, w.Run(ctx))
	assert.GreaterOrEqual(t, runner.calls.Load(), int32(2))
}

func TestNewWatcherEndToEnd(t *testing.T) {
	backend := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Path {
		case "/api/projects":
			_, _ = w.Write([]byte(`{"data": [{"title": "Alpha", "slug": "alpha"}], "meta": {"pagination": {"page": 1, "pageSize": 25, "pageCount": 1, "total": 1}}}`))
		case "/api/homepage":
			_, _ = w.Write([]byte(`{"data": {"heading": "Hi", "intro": "Welcome"}, "meta": {}}`))
		default:
			http.NotFound(w, r)
		}
	}))
	defer backend.Close()

	var hooks atomic.Int32
	hook := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		hooks.Add(1)
		w.WriteHeader(http.StatusNoContent)
	}))
	defer hook.Close()

	dir := t.TempDir()
	pubFile := filepath.Join(dir, "publishers.yaml")
	require.NoError(t, os.WriteFile(pubFile, []byte("publishers:\n  - id: hook\n    type: http\n    http:\n      url: "+hook.URL+"\n"), 0o644))

	cfg := &config.Config{
		StrapiURL:              backend.URL,
		StrapiTimeout:          2 * time.Second,
		PublishersFile:         pubFile,
		SyncInterval:           time.Hour,
		SyncPageSize:           25,
		StorageType:            "bbolt",
		BBoltPath:              filepath.Join(dir, "content.db"),
		StorageTTL:             time.Hour,
		StorageCleanupInterval: time.Hour,
	}

	w, err := NewWatcher(context.Background(), cfg, nil)
	require.NoError(t, err)
	defer w.close()

	require.NoError(t, w.runOnce(context.Background()))
	assert.Equal(t, int32(2), hooks.Load())

	require.NoError(t, w.runOnce(context.Background()))
	assert.Equal(t, int32(2), hooks.Load(), "unchanged content must not be republished")
}

func TestNewWatcherRequiresPublishers(t *testing.T) {
	dir := t.TempDir()
	pubFile := filepath.Join(dir, "publishers.yaml")
	require.NoError(t, os.WriteFile(pubFile, []byte("publishers:\n  - id: hook\n    type: http\n    enabled: false\n    http:\n      url: https://example.com\n"), 0o644))

	_, err := NewWatcher(context.Background(), &config.Config{
		StrapiURL:      "http://localhost:1337",
		StrapiTimeout:  time.Second,
		PublishersFile: pubFile,
	}, nil)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "no publishers configured")
}
