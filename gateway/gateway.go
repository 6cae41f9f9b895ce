// Package gateway intermediates FocusHub's HTTP traffic. It applies per-route
// cache strategies backed by the local datastore, serves an offline fallback
// when the network is gone, and drains the queued offline timer writes to the
// backend. It runs in its own goroutine and is controlled solely through a
// typed message protocol.
package gateway

import (
	"log/slog"
	"net/http"
	"path"
	"strings"
	"time"

	"github.com/focushub/focushub/store"
)

var staticExtensions = map[string]bool{
	".js":    true,
	".css":   true,
	".png":   true,
	".jpg":   true,
	".jpeg":  true,
	".gif":   true,
	".svg":   true,
	".webp":  true,
	".ico":   true,
	".woff":  true,
	".woff2": true,
	".ttf":   true,
}

// Worker is the caching intermediary. Construct it with NewWorker, then
// Install and Activate before serving fetches.
type Worker struct {
	db        store.DB
	transport http.RoundTripper
	version   string

	messages chan message
	stopCh   chan struct{}
}

// NewWorker returns a worker using the given transport for live requests.
// A nil transport falls back to http.DefaultTransport.
func NewWorker(db store.DB, transport http.RoundTripper, version string) *Worker {
	if transport == nil {
		transport = http.DefaultTransport
	}

	return &Worker{
		db:        db,
		transport: transport,
		version:   version,
		messages:  make(chan message),
		stopCh:    make(chan struct{}),
	}
}

// Install precaches the shell routes and the offline fallback page. Routes
// that cannot be fetched are skipped; installation proceeds regardless.
func (w *Worker) Install(baseURL string) error {
	for _, route := range shellRoutes {
		req, err := http.NewRequest(http.MethodGet, baseURL+route, nil)
		if err != nil {
			return err
		}

		resp, err := w.transport.RoundTrip(req)
		if err != nil {
			slog.Warn(
				"precache skipped",
				slog.String("route", route),
				slog.Any("error", err),
			)

			continue
		}

		if resp.StatusCode == http.StatusOK {
			err = w.cachePut(ShellCache, route, resp)
			if err != nil {
				return err
			}
		}

		resp.Body.Close()
	}

	return nil
}

// Activate deletes every cache whose name is not one of the current
// versioned names.
func (w *Worker) Activate() error {
	names, err := w.db.CacheNames()
	if err != nil {
		return err
	}

	current := currentCaches()

	for _, name := range names {
		stale := true

		for _, keep := range current {
			if name == keep {
				stale = false
				break
			}
		}

		if stale {
			err = w.db.DeleteCache(name)
			if err != nil {
				return err
			}

			slog.Info("deleted stale cache", slog.String("cache", name))
		}
	}

	return nil
}

// Fetch serves a request through the route's cache strategy. Non-GET and
// non-http(s) requests bypass caching entirely.
func (w *Worker) Fetch(req *http.Request) (*http.Response, error) {
	if req.Method != http.MethodGet ||
		(req.URL.Scheme != "http" && req.URL.Scheme != "https") {
		return w.transport.RoundTrip(req)
	}

	p := req.URL.Path

	switch {
	case staticExtensions[path.Ext(p)]:
		return w.cacheFirst(ShellCache, req)
	case strings.HasPrefix(p, "/api/"):
		return w.networkFirst(APICache, req, false)
	default:
		return w.networkFirst(PagesCache, req, isNavigation(req))
	}
}

// RoundTrip lets the worker serve as an http.Client transport.
func (w *Worker) RoundTrip(req *http.Request) (*http.Response, error) {
	return w.Fetch(req)
}

// cacheFirst serves from cache when possible and only then goes to the
// network, caching a successful result.
func (w *Worker) cacheFirst(cache string, req *http.Request) (*http.Response, error) {
	if resp := w.cacheGet(cache, req); resp != nil {
		return resp, nil
	}

	resp, err := w.transport.RoundTrip(req)
	if err != nil {
		return nil, err
	}

	if resp.StatusCode == http.StatusOK {
		cacheErr := w.cachePut(cache, req.URL.Path, resp)
		if cacheErr != nil {
			slog.Warn("cache write failed", slog.Any("error", cacheErr))
		}
	}

	return resp, nil
}

// networkFirst tries the network, caching a successful response. On failure
// it serves the cached copy, then the offline page for navigations, then
// gives up.
func (w *Worker) networkFirst(
	cache string,
	req *http.Request,
	navigation bool,
) (*http.Response, error) {
	resp, err := w.transport.RoundTrip(req)
	if err == nil {
		if resp.StatusCode == http.StatusOK {
			cacheErr := w.cachePut(cache, req.URL.Path, resp)
			if cacheErr != nil {
				slog.Warn("cache write failed", slog.Any("error", cacheErr))
			}
		}

		return resp, nil
	}

	if cached := w.cacheGet(cache, req); cached != nil {
		return cached, nil
	}

	if navigation {
		if offline := w.cacheGet(ShellCache, offlineRequest(req)); offline != nil {
			return offline, nil
		}
	}

	return nil, err
}

func (w *Worker) cachePut(cache, key string, resp *http.Response) error {
	data, err := encodeResponse(resp)
	if err != nil {
		return err
	}

	return w.db.PutCache(cache, key, data)
}

func (w *Worker) cacheGet(cache string, req *http.Request) *http.Response {
	data, err := w.db.GetCache(cache, req.URL.Path)
	if err != nil || data == nil {
		return nil
	}

	resp, err := decodeResponse(data, req)
	if err != nil {
		slog.Warn("corrupt cache entry", slog.Any("error", err))
		return nil
	}

	return resp
}

// isNavigation reports whether a request is a top-level page load rather
// than a subresource or API fetch.
func isNavigation(req *http.Request) bool {
	if req.Header.Get("Sec-Fetch-Mode") == "navigate" {
		return true
	}

	return strings.Contains(req.Header.Get("Accept"), "text/html")
}

func offlineRequest(req *http.Request) *http.Request {
	clone := req.Clone(req.Context())
	clone.URL.Path = offlineRoute

	return clone
}

// timeout for the worker's own backend calls during sync.
const syncTimeout = 30 * time.Second
