package comicvine

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"
)

const testKey = "test-key"

// fakeAPI serves canned JSON bodies keyed by request path. Bodies may use
// {{base}} to refer to the server's API root, so detail URLs resolve back
// to the fake.
type fakeAPI struct {
	srv *httptest.Server

	mu       sync.Mutex
	routes   map[string]string
	status   map[string]int
	requests []*http.Request
}

func newFakeAPI(t *testing.T) *fakeAPI {
	t.Helper()
	f := &fakeAPI{routes: map[string]string{}, status: map[string]int{}}
	f.srv = httptest.NewServer(http.HandlerFunc(f.serve))
	t.Cleanup(f.srv.Close)
	return f
}

func (f *fakeAPI) serve(w http.ResponseWriter, r *http.Request) {
	f.mu.Lock()
	f.requests = append(f.requests, r.Clone(r.Context()))
	body, ok := f.routes[r.URL.Path]
	status := f.status[r.URL.Path]
	f.mu.Unlock()
	if !ok {
		http.NotFound(w, r)
		return
	}
	if status != 0 {
		w.WriteHeader(status)
	}
	_, _ = w.Write([]byte(body))
}

func (f *fakeAPI) base() string { return f.srv.URL + "/api" }

// handle registers body for the API-relative path.
func (f *fakeAPI) handle(path, body string) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.routes["/api/"+strings.TrimLeft(path, "/")] = strings.ReplaceAll(body, "{{base}}", f.base())
}

func (f *fakeAPI) fail(path string, status int, body string) {
	f.handle(path, body)
	f.mu.Lock()
	defer f.mu.Unlock()
	f.status["/api/"+strings.TrimLeft(path, "/")] = status
}

func (f *fakeAPI) requestCount() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return len(f.requests)
}

func (f *fakeAPI) lastRequest() *http.Request {
	f.mu.Lock()
	defer f.mu.Unlock()
	if len(f.requests) == 0 {
		return nil
	}
	return f.requests[len(f.requests)-1]
}

func (f *fakeAPI) client(opts ...Option) *Client {
	all := append([]Option{WithBaseURL(f.base()), WithHTTPClient(f.srv.Client())}, opts...)
	return New(StaticKey(testKey), all...)
}

// results wraps records in the service's response envelope.
func results(v any) string {
	b, _ := json.Marshal(map[string]any{"error": "OK", "status_code": 1, "results": v})
	return string(b)
}

// mustRecord decodes a JSON object the way Query does.
func mustRecord(t *testing.T, js string) Record {
	t.Helper()
	v, err := decodeBody(bytes.NewReader([]byte(js)))
	if err != nil {
		t.Fatalf("decode %s: %v", js, err)
	}
	m, ok := v.(map[string]any)
	if !ok {
		t.Fatalf("not an object: %s", js)
	}
	return Record(m)
}

// recorder collects observer events.
type recorder struct {
	mu     sync.Mutex
	events []Event
}

func (r *recorder) Observe(_ context.Context, ev Event) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.events = append(r.events, ev)
}

func (r *recorder) kinds(k EventKind) []Event {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []Event
	for _, ev := range r.events {
		if ev.Kind == k {
			out = append(out, ev)
		}
	}
	return out
}
