package comicvine

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"net/url"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"comicmeta/src/internal/httpx"
)

func TestQuery_ResultsShapes(t *testing.T) {
	tests := []struct {
		name    string
		body    string
		wantLen int
	}{
		{name: "object results wrapped", body: `{"results": {"id": 1}}`, wantLen: 1},
		{name: "list results returned", body: `{"results": [{"id": 1}, {"id": 2}]}`, wantLen: 2},
		{name: "empty list", body: `{"results": []}`, wantLen: 0},
		{name: "non-object list items dropped", body: `{"results": [{"id": 1}, 7, "x", null]}`, wantLen: 1},
		{name: "results missing", body: `{"error": "OK"}`, wantLen: 0},
		{name: "results null", body: `{"results": null}`, wantLen: 0},
		{name: "results scalar", body: `{"results": "nope"}`, wantLen: 0},
		{name: "body is array", body: `[{"results": []}]`, wantLen: 0},
		{name: "body is scalar", body: `42`, wantLen: 0},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			api := newFakeAPI(t)
			api.handle("thing/", tt.body)
			got, err := api.client().Query(context.Background(), "thing/", nil)
			require.NoError(t, err)
			assert.Len(t, got, tt.wantLen)
		})
	}
}

func TestQuery_ObjectResultIsSameRecord(t *testing.T) {
	api := newFakeAPI(t)
	api.handle("issue/4000-1/", `{"results": {"id": 1, "name": "Pilot"}}`)
	got, err := api.client().Query(context.Background(), "issue/4000-1/", nil)
	require.NoError(t, err)
	require.Len(t, got, 1)
	assert.Equal(t, "1", got[0].String("id"))
	assert.Equal(t, "Pilot", got[0].String("name"))
}

func TestQuery_InjectsKeyFormatAndUserAgent(t *testing.T) {
	api := newFakeAPI(t)
	api.handle("search/", `{"results": []}`)
	params := url.Values{"query": {"Saga"}, "api_key": {"caller"}, "format": {"xml"}}
	_, err := api.client().Query(context.Background(), "search/", params)
	require.NoError(t, err)

	req := api.lastRequest()
	require.NotNil(t, req)
	q := req.URL.Query()
	assert.Equal(t, testKey, q.Get("api_key"))
	assert.Equal(t, "json", q.Get("format"))
	assert.Equal(t, "Saga", q.Get("query"))
	assert.Equal(t, httpx.BrowserUA, req.Header.Get("User-Agent"))
	assert.Equal(t, "/api/search/", req.URL.Path)
	// caller params are not mutated
	assert.Equal(t, "caller", params.Get("api_key"))
}

func TestQuery_AbsoluteDetailURLUsedVerbatim(t *testing.T) {
	api := newFakeAPI(t)
	api.handle("volume/4050-50/", `{"results": {"id": 50}}`)
	c := New(StaticKey(testKey), WithBaseURL("http://unused.invalid/api"), WithHTTPClient(api.srv.Client()))
	got, err := c.Query(context.Background(), api.base()+"/volume/4050-50/?field_list=id", nil)
	require.NoError(t, err)
	require.Len(t, got, 1)
	q := api.lastRequest().URL.Query()
	assert.Equal(t, "id", q.Get("field_list"))
	assert.Equal(t, testKey, q.Get("api_key"))
}

func TestQuery_NotConfigured(t *testing.T) {
	api := newFakeAPI(t)
	api.handle("search/", `{"results": []}`)
	c := New(StaticKey("  "), WithBaseURL(api.base()), WithHTTPClient(api.srv.Client()))
	assert.False(t, c.Configured())
	_, err := c.Query(context.Background(), "search/", nil)
	require.ErrorIs(t, err, ErrNotConfigured)
	assert.Zero(t, api.requestCount())
}

func TestQuery_KeyReadOnEveryCall(t *testing.T) {
	api := newFakeAPI(t)
	api.handle("search/", `{"results": []}`)
	key := "first"
	c := New(func() string { return key }, WithBaseURL(api.base()), WithHTTPClient(api.srv.Client()))

	_, err := c.Query(context.Background(), "search/", nil)
	require.NoError(t, err)
	assert.Equal(t, "first", api.lastRequest().URL.Query().Get("api_key"))

	key = "second"
	_, err = c.Query(context.Background(), "search/", nil)
	require.NoError(t, err)
	assert.Equal(t, "second", api.lastRequest().URL.Query().Get("api_key"))
}

func TestQuery_Errors(t *testing.T) {
	t.Run("http status", func(t *testing.T) {
		api := newFakeAPI(t)
		api.fail("issue/4000-1/", http.StatusInternalServerError, "boom")
		_, err := api.client().Query(context.Background(), "issue/4000-1/", nil)
		require.ErrorIs(t, err, ErrTransport)
		var cvErr *Error
		require.True(t, errors.As(err, &cvErr))
		assert.Equal(t, http.StatusInternalServerError, cvErr.Status)
		assert.Equal(t, "query", cvErr.Op)
	})
	t.Run("not found status", func(t *testing.T) {
		api := newFakeAPI(t)
		_, err := api.client().Query(context.Background(), "missing/", nil)
		require.ErrorIs(t, err, ErrTransport)
	})
	t.Run("invalid json", func(t *testing.T) {
		api := newFakeAPI(t)
		api.handle("issue/4000-1/", `{"results": [`)
		_, err := api.client().Query(context.Background(), "issue/4000-1/", nil)
		require.ErrorIs(t, err, ErrDecode)
	})
	t.Run("network", func(t *testing.T) {
		api := newFakeAPI(t)
		c := api.client()
		api.srv.Close()
		_, err := c.Query(context.Background(), "search/", nil)
		require.ErrorIs(t, err, ErrTransport)
		assert.NotContains(t, err.Error(), testKey)
	})
	t.Run("dial failure hides api key", func(t *testing.T) {
		dial := errors.New("dial tcp 127.0.0.1:1: connect: connection refused")
		c := New(StaticKey(testKey), WithBaseURL("http://127.0.0.1:1/api"), WithHTTPClient(doerFunc(func(req *http.Request) (*http.Response, error) {
			return nil, &url.Error{Op: "Get", URL: req.URL.String(), Err: dial}
		})))
		_, err := c.Query(context.Background(), "search/", url.Values{"query": {"Saga"}})
		require.ErrorIs(t, err, ErrTransport)
		require.ErrorIs(t, err, dial)
		assert.NotContains(t, err.Error(), testKey)
		assert.Contains(t, err.Error(), "api_key=REDACTED")
	})
}

type doerFunc func(*http.Request) (*http.Response, error)

func (f doerFunc) Do(req *http.Request) (*http.Response, error) { return f(req) }

func TestQuery_RequestTimeout(t *testing.T) {
	slow := make(chan struct{})
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		select {
		case <-slow:
		case <-r.Context().Done():
		}
	}))
	defer srv.Close()
	defer close(slow)

	c := New(StaticKey(testKey), WithBaseURL(srv.URL), WithHTTPClient(srv.Client())).
		WithRequestTimeout(50 * time.Millisecond)
	start := time.Now()
	_, err := c.Query(context.Background(), "search/", nil)
	require.ErrorIs(t, err, ErrTransport)
	assert.Less(t, time.Since(start), 5*time.Second)
}

func TestQuery_EmitsRequestEvent(t *testing.T) {
	api := newFakeAPI(t)
	api.handle("search/", `{"results": []}`)
	rec := &recorder{}
	_, err := api.client(WithObserver(rec)).Query(context.Background(), "search/", nil)
	require.NoError(t, err)
	evs := rec.kinds(EventRequest)
	require.Len(t, evs, 1)
	assert.Equal(t, "search/", evs[0].Target)
}

func TestWithRequestTimeout_Copies(t *testing.T) {
	c := New(StaticKey(testKey))
	assert.Same(t, c, c.WithRequestTimeout(0))
	cp := c.WithRequestTimeout(time.Second)
	assert.NotSame(t, c, cp)
	assert.Equal(t, DefaultTimeout, c.timeout)
	assert.Equal(t, time.Second, cp.timeout)
}
