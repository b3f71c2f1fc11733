package gateway

import (
	"context"
	"io"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"strings"
	"sync/atomic"
	"testing"

	"StorySync/internal/config"
	"StorySync/internal/gateway/cache"
	"StorySync/internal/gateway/push"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

type upstream struct {
	*httptest.Server
	hits atomic.Int64
}

func newUpstream(t *testing.T, handler http.HandlerFunc) *upstream {
	t.Helper()
	u := &upstream{}
	u.Server = httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		u.hits.Add(1)
		handler(w, r)
	}))
	t.Cleanup(u.Close)
	return u
}

func newTestRouter(t *testing.T, apiOrigin, shellOrigin string) (*Router, *cache.Store) {
	t.Helper()
	store, err := cache.Open(filepath.Join(t.TempDir(), "cache.sqlite"))
	require.NoError(t, err)
	t.Cleanup(func() { _ = store.Close() })

	cfg := &config.Config{
		APIBaseURL:    apiOrigin + "/v1",
		ShellUpstream: shellOrigin,
	}
	logger := zap.NewNop().Sugar()
	rt, err := New(cfg, store, push.NewHub(logger), logger)
	require.NoError(t, err)
	return rt, store
}

func get(t *testing.T, h http.Handler, path string) *httptest.ResponseRecorder {
	t.Helper()
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, path, nil))
	return rec
}

func TestAPI_NetworkFirstCachesSuccessfulGET(t *testing.T) {
	api := newUpstream(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/v1/stories", r.URL.Path)
		w.Header().Set("Content-Type", "application/json")
		w.Header().Set("X-Upstream", "yes")
		_, _ = w.Write([]byte(`{"listStory":[{"id":"s1"}]}`))
	})
	shell := newUpstream(t, func(w http.ResponseWriter, r *http.Request) {})
	rt, store := newTestRouter(t, api.URL, shell.URL)
	h := rt.Handler()

	rec := get(t, h, "/v1/stories")
	assert.Equal(t, http.StatusOK, rec.Code)
	live := rec.Body.Bytes()

	entry, err := store.Get(context.Background(), cache.APIPartition, "/v1/stories")
	require.NoError(t, err)
	// the cached copy is byte-identical to what was served
	assert.Equal(t, live, entry.Body)
	assert.Equal(t, "application/json", entry.ContentType)
}

func TestAPI_FailureFallsBackToCachedCopy(t *testing.T) {
	api := newUpstream(t, func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"listStory":[]}`))
	})
	shell := newUpstream(t, func(w http.ResponseWriter, r *http.Request) {})
	rt, _ := newTestRouter(t, api.URL, shell.URL)
	h := rt.Handler()

	// warm the cache, then take the origin down
	first := get(t, h, "/v1/stories")
	require.Equal(t, http.StatusOK, first.Code)
	api.Close()

	rec := get(t, h, "/v1/stories")
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, first.Body.String(), rec.Body.String())
	assert.Equal(t, "application/json", rec.Header().Get("Content-Type"))
}

func TestAPI_FailureWithoutCacheIs502(t *testing.T) {
	api := newUpstream(t, func(w http.ResponseWriter, r *http.Request) {})
	shell := newUpstream(t, func(w http.ResponseWriter, r *http.Request) {})
	rt, _ := newTestRouter(t, api.URL, shell.URL)
	api.Close()

	rec := get(t, rt.Handler(), "/v1/stories")
	assert.Equal(t, http.StatusBadGateway, rec.Code)
}

func TestAPI_WritesAreNeverCached(t *testing.T) {
	api := newUpstream(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusCreated)
		_, _ = w.Write([]byte(`{"data":{"id":"s1"}}`))
	})
	shell := newUpstream(t, func(w http.ResponseWriter, r *http.Request) {})
	rt, store := newTestRouter(t, api.URL, shell.URL)
	h := rt.Handler()

	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(http.MethodPost, "/v1/stories", strings.NewReader("payload")))
	assert.Equal(t, http.StatusCreated, rec.Code)

	_, err := store.Get(context.Background(), cache.APIPartition, "/v1/stories")
	assert.ErrorIs(t, err, cache.ErrMiss)
}

func TestAPI_ErrorResponsesAreNotCached(t *testing.T) {
	api := newUpstream(t, func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "nope", http.StatusUnauthorized)
	})
	shell := newUpstream(t, func(w http.ResponseWriter, r *http.Request) {})
	rt, store := newTestRouter(t, api.URL, shell.URL)

	rec := get(t, rt.Handler(), "/v1/stories")
	assert.Equal(t, http.StatusUnauthorized, rec.Code)

	_, err := store.Get(context.Background(), cache.APIPartition, "/v1/stories")
	assert.ErrorIs(t, err, cache.ErrMiss)
}

func TestShell_CacheFirstServesWithoutUpstreamHit(t *testing.T) {
	api := newUpstream(t, func(w http.ResponseWriter, r *http.Request) {})
	shell := newUpstream(t, func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "text/html")
		_, _ = w.Write([]byte("<html>shell</html>"))
	})
	rt, _ := newTestRouter(t, api.URL, shell.URL)
	h := rt.Handler()

	// miss populates the cache from the upstream
	rec := get(t, h, "/index.html")
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, int64(1), shell.hits.Load())

	// hit is served from the cache, upstream untouched
	rec = get(t, h, "/index.html")
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "<html>shell</html>", rec.Body.String())
	assert.Equal(t, int64(1), shell.hits.Load())
}

func TestShell_OfflineFallsBackToIndex(t *testing.T) {
	api := newUpstream(t, func(w http.ResponseWriter, r *http.Request) {})
	shell := newUpstream(t, func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte("<html>offline shell</html>"))
	})
	rt, _ := newTestRouter(t, api.URL, shell.URL)
	h := rt.Handler()

	// cache the shell document, then go offline
	require.Equal(t, http.StatusOK, get(t, h, "/index.html").Code)
	shell.Close()

	rec := get(t, h, "/some/uncached/route")
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "<html>offline shell</html>", rec.Body.String())
}

func TestShell_OfflineWithNoCacheIs503(t *testing.T) {
	api := newUpstream(t, func(w http.ResponseWriter, r *http.Request) {})
	shell := newUpstream(t, func(w http.ResponseWriter, r *http.Request) {})
	rt, _ := newTestRouter(t, api.URL, shell.URL)
	shell.Close()

	rec := get(t, rt.Handler(), "/anything")
	assert.Equal(t, http.StatusServiceUnavailable, rec.Code)
}

func TestSeed_PopulatesShellPartition(t *testing.T) {
	api := newUpstream(t, func(w http.ResponseWriter, r *http.Request) {})
	shell := newUpstream(t, func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte("seeded"))
	})
	rt, store := newTestRouter(t, api.URL, shell.URL)

	rt.Seed(context.Background())

	for _, key := range []string{"/", "/index.html"} {
		entry, err := store.Get(context.Background(), cache.ShellPartition, key)
		require.NoError(t, err)
		assert.Equal(t, []byte("seeded"), entry.Body)
	}
}

func TestSeed_UpstreamDownIsIgnored(t *testing.T) {
	api := newUpstream(t, func(w http.ResponseWriter, r *http.Request) {})
	shell := newUpstream(t, func(w http.ResponseWriter, r *http.Request) {})
	rt, store := newTestRouter(t, api.URL, shell.URL)
	shell.Close()

	rt.Seed(context.Background())
	_, err := store.Get(context.Background(), cache.ShellPartition, "/index.html")
	assert.ErrorIs(t, err, cache.ErrMiss)
}

func TestActivate_PrunesRetiredPartitions(t *testing.T) {
	api := newUpstream(t, func(w http.ResponseWriter, r *http.Request) {})
	shell := newUpstream(t, func(w http.ResponseWriter, r *http.Request) {})
	rt, store := newTestRouter(t, api.URL, shell.URL)

	ctx := context.Background()
	require.NoError(t, store.Put(ctx, cache.Entry{Partition: "story-shell-v0", Key: "/", Body: []byte("stale")}))
	require.NoError(t, store.Put(ctx, cache.Entry{Partition: cache.ShellPartition, Key: "/", Body: []byte("current")}))

	require.NoError(t, rt.Activate(ctx))

	names, err := store.Partitions(ctx)
	require.NoError(t, err)
	assert.Equal(t, []string{cache.ShellPartition}, names)
}

func TestPush_EndpointValidatesPayload(t *testing.T) {
	api := newUpstream(t, func(w http.ResponseWriter, r *http.Request) {})
	shell := newUpstream(t, func(w http.ResponseWriter, r *http.Request) {})
	rt, _ := newTestRouter(t, api.URL, shell.URL)
	h := rt.Handler()

	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(http.MethodPost, "/internal/push", strings.NewReader(`{"body":"no title"}`)))
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	rec = httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(http.MethodPost, "/internal/push", strings.NewReader(`{"title":"hi"}`)))
	assert.Equal(t, http.StatusAccepted, rec.Code)
	body, _ := io.ReadAll(rec.Body)
	assert.JSONEq(t, `{"delivered":0}`, string(body))
}
