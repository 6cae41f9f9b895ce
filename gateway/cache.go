package gateway

import (
	"bytes"
	"encoding/json"
	"io"
	"net/http"
)

// Versioned cache names. The version suffix is the sole invalidation
// mechanism: bumping it orphans all prior caches, which Activate then
// deletes.
const (
	ShellCache = "focushub-shell-v1"
	PagesCache = "focushub-pages-v1"
	APICache   = "focushub-api-v1"
)

func currentCaches() []string {
	return []string{ShellCache, PagesCache, APICache}
}

// shellRoutes are precached at install time along with the offline
// fallback page.
var shellRoutes = []string{
	"/",
	"/offline",
	"/manifest.json",
}

const offlineRoute = "/offline"

// cachedResponse is the serialized form of an HTTP response held in a named
// cache.
type cachedResponse struct {
	StatusCode int         `json:"status_code"`
	Status     string      `json:"status"`
	Header     http.Header `json:"header"`
	Body       []byte      `json:"body"`
}

func encodeResponse(resp *http.Response) ([]byte, error) {
	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, err
	}

	resp.Body.Close()

	// the caller still owns the response, so restore a readable body
	resp.Body = io.NopCloser(bytes.NewReader(body))

	return json.Marshal(cachedResponse{
		StatusCode: resp.StatusCode,
		Status:     resp.Status,
		Header:     resp.Header,
		Body:       body,
	})
}

func decodeResponse(data []byte, req *http.Request) (*http.Response, error) {
	var cached cachedResponse

	err := json.Unmarshal(data, &cached)
	if err != nil {
		return nil, err
	}

	return &http.Response{
		StatusCode:    cached.StatusCode,
		Status:        cached.Status,
		Proto:         "HTTP/1.1",
		ProtoMajor:    1,
		ProtoMinor:    1,
		Header:        cached.Header,
		Body:          io.NopCloser(bytes.NewReader(cached.Body)),
		ContentLength: int64(len(cached.Body)),
		Request:       req,
	}, nil
}
