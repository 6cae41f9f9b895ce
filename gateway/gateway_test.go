package gateway

import (
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/focushub/focushub/internal/models"
	"github.com/focushub/focushub/store"
)

func newTestDB(t *testing.T) store.DB {
	t.Helper()

	db, err := store.NewClient(filepath.Join(t.TempDir(), "focushub.db"))
	if err != nil {
		t.Fatalf("new client: %v", err)
	}

	t.Cleanup(func() { db.Close() })

	return db
}

// countingTransport counts live requests and can be switched offline.
type countingTransport struct {
	inner   http.RoundTripper
	calls   int
	offline bool
}

func (c *countingTransport) RoundTrip(req *http.Request) (*http.Response, error) {
	c.calls++

	if c.offline {
		return nil, errors.New("dial tcp: network is unreachable")
	}

	return c.inner.RoundTrip(req)
}

func newTestWorker(
	t *testing.T,
	handler http.Handler,
) (*Worker, *countingTransport, *httptest.Server) {
	t.Helper()

	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)

	transport := &countingTransport{inner: http.DefaultTransport}
	w := NewWorker(newTestDB(t), transport, "1.0.0")

	return w, transport, srv
}

func get(t *testing.T, w *Worker, rawURL string, header http.Header) *http.Response {
	t.Helper()

	req, err := http.NewRequest(http.MethodGet, rawURL, nil)
	if err != nil {
		t.Fatal(err)
	}

	for k, v := range header {
		req.Header[k] = v
	}

	resp, err := w.Fetch(req)
	if err != nil {
		t.Fatal(err)
	}

	return resp
}

func readBody(t *testing.T, resp *http.Response) string {
	t.Helper()

	b, err := io.ReadAll(resp.Body)
	if err != nil {
		t.Fatal(err)
	}

	resp.Body.Close()

	return string(b)
}

func TestCacheFirstSkipsNetworkOnHit(t *testing.T) {
	w, transport, srv := newTestWorker(
		t,
		http.HandlerFunc(func(rw http.ResponseWriter, _ *http.Request) {
			rw.Write([]byte("body{}"))
		}),
	)

	resp := get(t, w, srv.URL+"/app.css", nil)
	if readBody(t, resp) != "body{}" {
		t.Fatal("first fetch should come from the network")
	}

	if transport.calls != 1 {
		t.Fatalf("network calls = %d, want 1", transport.calls)
	}

	resp = get(t, w, srv.URL+"/app.css", nil)
	if readBody(t, resp) != "body{}" {
		t.Fatal("second fetch should come from cache")
	}

	if transport.calls != 1 {
		t.Fatalf("cache hit still reached the network: %d calls", transport.calls)
	}
}

func TestNetworkFirstFallsBackToCache(t *testing.T) {
	w, transport, srv := newTestWorker(
		t,
		http.HandlerFunc(func(rw http.ResponseWriter, _ *http.Request) {
			rw.Write([]byte(`{"xp":100}`))
		}),
	)

	resp := get(t, w, srv.URL+"/api/user", nil)
	if readBody(t, resp) != `{"xp":100}` {
		t.Fatal("live response expected")
	}

	transport.offline = true

	resp = get(t, w, srv.URL+"/api/user", nil)
	if readBody(t, resp) != `{"xp":100}` {
		t.Fatal("cached response expected while offline")
	}
}

func TestNavigationServesOfflinePage(t *testing.T) {
	w, transport, srv := newTestWorker(
		t,
		http.HandlerFunc(func(rw http.ResponseWriter, r *http.Request) {
			if r.URL.Path == "/offline" {
				rw.Write([]byte("you are offline"))
				return
			}

			rw.Write([]byte("page"))
		}),
	)

	if err := w.Install(srv.URL); err != nil {
		t.Fatal(err)
	}

	transport.offline = true

	header := http.Header{"Sec-Fetch-Mode": []string{"navigate"}}

	resp := get(t, w, srv.URL+"/never-visited", header)
	if got := readBody(t, resp); got != "you are offline" {
		t.Fatalf("got %q, want the offline page", got)
	}
}

func TestOfflineWithNoCacheFails(t *testing.T) {
	w, transport, srv := newTestWorker(t, http.NewServeMux())

	transport.offline = true

	req, err := http.NewRequest(http.MethodGet, srv.URL+"/api/user", nil)
	if err != nil {
		t.Fatal(err)
	}

	if _, err := w.Fetch(req); err == nil {
		t.Fatal("expected an error with no network and no cache")
	}
}

func TestNonGetBypassesCaching(t *testing.T) {
	calls := 0

	w, _, srv := newTestWorker(
		t,
		http.HandlerFunc(func(rw http.ResponseWriter, _ *http.Request) {
			calls++
			rw.WriteHeader(http.StatusCreated)
		}),
	)

	for i := 0; i < 2; i++ {
		req, err := http.NewRequest(http.MethodPost, srv.URL+"/api/projects", nil)
		if err != nil {
			t.Fatal(err)
		}

		resp, err := w.Fetch(req)
		if err != nil {
			t.Fatal(err)
		}

		resp.Body.Close()
	}

	if calls != 2 {
		t.Fatalf("POST requests must always hit the network, got %d calls", calls)
	}
}

func TestActivateDeletesStaleCaches(t *testing.T) {
	db := newTestDB(t)

	if err := db.PutCache("focushub-shell-v0", "/", []byte("old")); err != nil {
		t.Fatal(err)
	}

	if err := db.PutCache(APICache, "/api/user", []byte("current")); err != nil {
		t.Fatal(err)
	}

	w := NewWorker(db, nil, "1.0.0")

	if err := w.Activate(); err != nil {
		t.Fatal(err)
	}

	names, err := db.CacheNames()
	if err != nil {
		t.Fatal(err)
	}

	if len(names) != 1 || names[0] != APICache {
		t.Fatalf("stale caches not removed: %v", names)
	}
}

func TestStartupInstallsActivatesAndServesControlMessages(t *testing.T) {
	db := newTestDB(t)

	// cache left behind by a previous release
	if err := db.PutCache("focushub-shell-v0", "/", []byte("old")); err != nil {
		t.Fatal(err)
	}

	srv := httptest.NewServer(
		http.HandlerFunc(func(rw http.ResponseWriter, r *http.Request) {
			rw.Write([]byte("shell:" + r.URL.Path))
		}),
	)
	defer srv.Close()

	transport := &countingTransport{inner: http.DefaultTransport}
	w := NewWorker(db, transport, "1.0.0")

	go w.Run()
	defer w.Stop()

	if err := w.Install(srv.URL); err != nil {
		t.Fatal(err)
	}

	if err := w.Activate(); err != nil {
		t.Fatal(err)
	}

	names, err := db.CacheNames()
	if err != nil {
		t.Fatal(err)
	}

	for _, name := range names {
		if name == "focushub-shell-v0" {
			t.Fatal("previous release's cache survived activation")
		}
	}

	transport.offline = true

	header := http.Header{"Sec-Fetch-Mode": []string{"navigate"}}

	resp := get(t, w, srv.URL+"/", header)
	if got := readBody(t, resp); got != "shell:/offline" {
		t.Fatalf("precached offline page not served, got %q", got)
	}

	if reply := w.Send(GetVersion); !reply.Success || reply.Version != "1.0.0" {
		t.Fatalf("control loop not serving after startup: %+v", reply)
	}
}

func TestMessageProtocol(t *testing.T) {
	db := newTestDB(t)

	if err := db.PutCache(ShellCache, "/", []byte("x")); err != nil {
		t.Fatal(err)
	}

	w := NewWorker(db, nil, "2.3.1")

	go w.Run()
	defer w.Stop()

	reply := w.Send(GetVersion)
	if !reply.Success || reply.Version != "2.3.1" {
		t.Fatalf("GET_VERSION reply = %+v", reply)
	}

	if reply.ID == "" {
		t.Fatal("replies must carry a correlation id")
	}

	reply = w.Send(ClearCache)
	if !reply.Success {
		t.Fatalf("CLEAR_CACHE reply = %+v", reply)
	}

	names, err := db.CacheNames()
	if err != nil {
		t.Fatal(err)
	}

	if len(names) != 0 {
		t.Fatalf("caches remain after CLEAR_CACHE: %v", names)
	}

	reply = w.Send(SkipWaiting)
	if !reply.Success {
		t.Fatalf("SKIP_WAITING reply = %+v", reply)
	}
}

func TestHandleSyncDrainsQueueOnlyOnSuccess(t *testing.T) {
	db := newTestDB(t)

	err := db.Enqueue(&models.PendingSync{
		ID:         "s1",
		RecordedAt: time.Now(),
		Session: models.SessionRecord{
			SessionType: models.Work,
			Duration:    1500,
			Completed:   true,
		},
	})
	if err != nil {
		t.Fatal(err)
	}

	var gotBody string

	fail := true

	srv := httptest.NewServer(
		http.HandlerFunc(func(rw http.ResponseWriter, r *http.Request) {
			if r.URL.Path != "/api/timer/sync" {
				t.Errorf("unexpected path %q", r.URL.Path)
			}

			b, _ := io.ReadAll(r.Body)
			gotBody = string(b)

			if fail {
				rw.WriteHeader(http.StatusInternalServerError)
				return
			}

			rw.WriteHeader(http.StatusOK)
		}),
	)
	defer srv.Close()

	w := NewWorker(db, nil, "1.0.0")

	if err := w.HandleSync(SyncTimerData, srv.URL); err == nil {
		t.Fatal("expected an error when the backend rejects the upload")
	}

	items, err := db.Pending()
	if err != nil {
		t.Fatal(err)
	}

	if len(items) != 1 {
		t.Fatal("queue must survive a failed upload")
	}

	fail = false

	if err := w.HandleSync(SyncTimerData, srv.URL); err != nil {
		t.Fatal(err)
	}

	if !strings.Contains(gotBody, `"data"`) {
		t.Fatalf("payload missing data envelope: %s", gotBody)
	}

	items, err = db.Pending()
	if err != nil {
		t.Fatal(err)
	}

	if len(items) != 0 {
		t.Fatal("queue should be empty after a successful upload")
	}
}

func TestHandleSyncRejectsUnknownTag(t *testing.T) {
	w := NewWorker(newTestDB(t), nil, "1.0.0")

	if err := w.HandleSync("sync-something-else", "http://localhost"); err == nil {
		t.Fatal("unknown tags must be rejected")
	}
}
