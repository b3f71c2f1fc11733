package gateway

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"StorySync/internal/config"
	"StorySync/internal/gateway/cache"
	"StorySync/internal/gateway/push"
	"StorySync/internal/middleware"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"
)

// Router is the two-policy caching proxy in front of the story API and the
// static app-shell upstream. Requests under the API prefix are served
// network-first; everything else cache-first with the shell document as
// the final offline fallback.
type Router struct {
	apiOrigin     string // scheme://host of the story API
	apiPrefix     string // path prefix that selects the network-first policy
	shellUpstream string
	store         *cache.Store
	hub           *push.Hub
	httpc         *http.Client
	logger        *zap.SugaredLogger
}

func New(cfg *config.Config, store *cache.Store, hub *push.Hub, logger *zap.SugaredLogger) (*Router, error) {
	u, err := url.Parse(cfg.APIBaseURL)
	if err != nil {
		return nil, fmt.Errorf("parse api base url: %w", err)
	}
	prefix := strings.TrimRight(u.Path, "/")
	if prefix == "" {
		prefix = "/v1"
	}
	return &Router{
		apiOrigin:     u.Scheme + "://" + u.Host,
		apiPrefix:     prefix,
		shellUpstream: cfg.ShellUpstream,
		store:         store,
		hub:           hub,
		httpc:         &http.Client{Timeout: 30 * time.Second},
		logger:        logger,
	}, nil
}

// Handler builds the gateway's route table.
func (rt *Router) Handler() http.Handler {
	r := chi.NewRouter()
	r.Use(middleware.WithLogging)

	r.HandleFunc(rt.apiPrefix+"/*", rt.handleAPI)
	r.Post("/internal/push", rt.handlePush)
	r.Get("/notifications/ws", rt.hub.ServeWS)
	r.NotFound(rt.handleShell)

	return r
}

// Activate prunes cache partitions that are no longer in the allow-list.
// Run once on startup, like a service worker's activation step.
func (rt *Router) Activate(ctx context.Context) error {
	n, err := rt.store.Prune(ctx, cache.AllowedPartitions)
	if err != nil {
		return err
	}
	if n > 0 {
		rt.logger.Infow("pruned stale cache entries", "count", n)
	}
	return nil
}

// Seed pre-populates the shell partition with the offline fallback
// document. Failures are ignored; the shell may simply be down.
func (rt *Router) Seed(ctx context.Context) {
	for _, path := range []string{"/", "/index.html"} {
		req, err := http.NewRequestWithContext(ctx, http.MethodGet, rt.shellUpstream+path, nil)
		if err != nil {
			continue
		}
		resp, err := rt.httpc.Do(req)
		if err != nil {
			rt.logger.Warnw("seed: shell upstream unreachable", "path", path, "error", err)
			continue
		}
		body, err := io.ReadAll(resp.Body)
		_ = resp.Body.Close()
		if err != nil || resp.StatusCode < 200 || resp.StatusCode > 299 {
			continue
		}
		_ = rt.cachePut(ctx, cache.ShellPartition, path, resp, body)
	}
}

// handleAPI is the network-first policy: live response when the origin is
// reachable (caching successful GETs), cached response for the exact
// request identity when it is not, 502 otherwise.
func (rt *Router) handleAPI(w http.ResponseWriter, r *http.Request) {
	key := r.URL.RequestURI()
	resp, body, err := rt.forward(r, rt.apiOrigin+r.URL.RequestURI())
	if err != nil {
		if r.Method == http.MethodGet {
			if entry, cerr := rt.store.Get(r.Context(), cache.APIPartition, key); cerr == nil {
				rt.logger.Infow("api: network failed, served from cache", "key", key)
				writeEntry(w, entry)
				return
			}
		}
		http.Error(w, "story API unreachable", http.StatusBadGateway)
		return
	}

	// Only successful idempotent reads are ever written to the cache.
	if r.Method == http.MethodGet && resp.StatusCode >= 200 && resp.StatusCode <= 299 {
		if err := rt.cachePut(r.Context(), cache.APIPartition, key, resp, body); err != nil {
			rt.logger.Warnw("api: cache write failed", "key", key, "error", err)
		}
	}
	writeResponse(w, resp, body)
}

// handleShell is the cache-first policy for the app shell and static
// assets.
func (rt *Router) handleShell(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		resp, body, err := rt.forward(r, rt.shellUpstream+r.URL.RequestURI())
		if err != nil {
			http.Error(w, "shell upstream unreachable", http.StatusBadGateway)
			return
		}
		writeResponse(w, resp, body)
		return
	}

	key := r.URL.RequestURI()
	if entry, err := rt.store.Get(r.Context(), cache.ShellPartition, key); err == nil {
		writeEntry(w, entry)
		return
	}

	resp, body, err := rt.forward(r, rt.shellUpstream+r.URL.RequestURI())
	if err != nil {
		// Offline with no cached copy: fall back to the shell document.
		for _, fallback := range []string{"/index.html", "/"} {
			if entry, cerr := rt.store.Get(r.Context(), cache.ShellPartition, fallback); cerr == nil {
				writeEntry(w, entry)
				return
			}
		}
		http.Error(w, "offline and no cached shell", http.StatusServiceUnavailable)
		return
	}
	if resp.StatusCode >= 200 && resp.StatusCode <= 299 {
		if err := rt.cachePut(r.Context(), cache.ShellPartition, key, resp, body); err != nil {
			rt.logger.Warnw("shell: cache write failed", "key", key, "error", err)
		}
	}
	writeResponse(w, resp, body)
}

// handlePush accepts an inbound push delivery and fans it out to the
// subscribed shells.
func (rt *Router) handlePush(w http.ResponseWriter, r *http.Request) {
	var p push.Payload
	if err := json.NewDecoder(r.Body).Decode(&p); err != nil {
		http.Error(w, "invalid push payload", http.StatusBadRequest)
		return
	}
	if p.Title == "" {
		http.Error(w, "title is required", http.StatusBadRequest)
		return
	}
	delivered := rt.hub.Broadcast(p)
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusAccepted)
	_ = json.NewEncoder(w).Encode(map[string]int{"delivered": delivered})
}

// forward replays the incoming request against target and reads the full
// response body.
func (rt *Router) forward(r *http.Request, target string) (*http.Response, []byte, error) {
	req, err := http.NewRequestWithContext(r.Context(), r.Method, target, r.Body)
	if err != nil {
		return nil, nil, err
	}
	req.Header = r.Header.Clone()
	resp, err := rt.httpc.Do(req)
	if err != nil {
		return nil, nil, err
	}
	defer resp.Body.Close()
	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, nil, err
	}
	return resp, body, nil
}

func (rt *Router) cachePut(ctx context.Context, partition, key string, resp *http.Response, body []byte) error {
	header, err := json.Marshal(resp.Header)
	if err != nil {
		return err
	}
	return rt.store.Put(ctx, cache.Entry{
		Partition:   partition,
		Key:         key,
		Status:      resp.StatusCode,
		ContentType: resp.Header.Get("Content-Type"),
		Header:      header,
		Body:        bytes.Clone(body),
	})
}

func writeResponse(w http.ResponseWriter, resp *http.Response, body []byte) {
	for k, vv := range resp.Header {
		for _, v := range vv {
			w.Header().Add(k, v)
		}
	}
	w.WriteHeader(resp.StatusCode)
	_, _ = w.Write(body)
}

func writeEntry(w http.ResponseWriter, e *cache.Entry) {
	var header http.Header
	if err := json.Unmarshal(e.Header, &header); err == nil {
		for k, vv := range header {
			for _, v := range vv {
				w.Header().Add(k, v)
			}
		}
	} else if e.ContentType != "" {
		w.Header().Set("Content-Type", e.ContentType)
	}
	w.WriteHeader(e.Status)
	_, _ = w.Write(e.Body)
}
