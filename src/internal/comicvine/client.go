package comicvine

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"comicmeta/src/internal/httpx"
)

const (
	// DefaultBaseURL is the Comic Vine API root.
	DefaultBaseURL = "https://comicvine.gamespot.com/api"

	// DefaultTimeout bounds each request.
	DefaultTimeout = 30 * time.Second

	// issueTypePrefix is Comic Vine's object-type id for issues.
	issueTypePrefix = "4000"
)

// KeyFunc returns the current API key. It is called on every request so a
// reloaded key takes effect immediately.
type KeyFunc func() string

// StaticKey returns a KeyFunc that always yields key.
func StaticKey(key string) KeyFunc {
	return func() string { return key }
}

// Client issues requests against the Comic Vine API.
type Client struct {
	baseURL  string
	key      KeyFunc
	http     httpx.Doer
	timeout  time.Duration
	observer Observer
}

// Option configures a Client.
type Option func(*Client)

// WithBaseURL overrides the API root.
func WithBaseURL(baseURL string) Option {
	return func(c *Client) {
		if s := strings.TrimSpace(baseURL); s != "" {
			c.baseURL = strings.TrimRight(s, "/")
		}
	}
}

// WithHTTPClient overrides the default HTTP client.
func WithHTTPClient(d httpx.Doer) Option {
	return func(c *Client) {
		if d != nil {
			c.http = d
		}
	}
}

// WithTimeout sets the per-request timeout.
func WithTimeout(d time.Duration) Option {
	return func(c *Client) {
		if d > 0 {
			c.timeout = d
		}
	}
}

// WithObserver installs a diagnostic event hook.
func WithObserver(o Observer) Option {
	return func(c *Client) {
		if o != nil {
			c.observer = o
		}
	}
}

// New creates a Comic Vine client reading its API key from key.
func New(key KeyFunc, opts ...Option) *Client {
	if key == nil {
		key = StaticKey("")
	}
	c := &Client{
		baseURL:  DefaultBaseURL,
		key:      key,
		http:     &http.Client{Timeout: DefaultTimeout},
		timeout:  DefaultTimeout,
		observer: NopObserver{},
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// WithRequestTimeout returns a copy of c whose requests use timeout d.
// Non-positive durations return c unchanged.
func (c *Client) WithRequestTimeout(d time.Duration) *Client {
	if d <= 0 {
		return c
	}
	cp := *c
	cp.timeout = d
	return &cp
}

// Observer returns the client's event hook.
func (c *Client) Observer() Observer { return c.observer }

// Configured reports whether an API key is available.
func (c *Client) Configured() bool { return strings.TrimSpace(c.key()) != "" }

// Query performs one GET against target, which is either a path relative to
// the API root or an absolute detail URL from a previous response. The API
// key and format=json are always added and win over params of the same name.
//
// The response's results member is flattened into a list: an array is
// returned as-is, an object becomes a one-element list, and anything else
// yields an empty list. Transport, status and decode failures are returned
// unrecovered.
func (c *Client) Query(ctx context.Context, target string, params url.Values) ([]Record, error) {
	key := strings.TrimSpace(c.key())
	if key == "" {
		return nil, wrapError("query", target, ErrNotConfigured)
	}
	u, err := c.endpoint(target)
	if err != nil {
		return nil, wrapError("query", target, fmt.Errorf("%w: %w", ErrTransport, err))
	}
	q := u.Query()
	for k, v := range params {
		q[k] = v
	}
	q.Set("api_key", key)
	q.Set("format", "json")
	u.RawQuery = q.Encode()

	if c.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, c.timeout)
		defer cancel()
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u.String(), nil)
	if err != nil {
		return nil, wrapError("query", target, fmt.Errorf("%w: %w", ErrTransport, err))
	}
	req.Header.Set("Accept", "application/json")
	httpx.SetUA(req)

	c.observer.Observe(ctx, Event{Kind: EventRequest, Target: target})
	resp, err := c.http.Do(req)
	if err != nil {
		// the request URL carries the API key
		var ue *url.Error
		if errors.As(err, &ue) {
			ue.URL = httpx.Redact(req.URL)
		}
		return nil, wrapError("query", target, fmt.Errorf("%w: %w", ErrTransport, err))
	}
	defer resp.Body.Close()
	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		b, _ := io.ReadAll(io.LimitReader(resp.Body, 4096))
		return nil, &Error{Op: "query", Target: target, Status: resp.StatusCode,
			Err: fmt.Errorf("%w: %s", ErrTransport, strings.TrimSpace(string(b)))}
	}
	body, err := decodeBody(resp.Body)
	if err != nil {
		return nil, wrapError("query", target, fmt.Errorf("%w: %w", ErrDecode, err))
	}
	return flattenResults(body), nil
}

func (c *Client) endpoint(target string) (*url.URL, error) {
	u, err := url.Parse(strings.TrimSpace(target))
	if err != nil {
		return nil, err
	}
	if u.IsAbs() {
		return u, nil
	}
	return url.Parse(c.baseURL + "/" + strings.TrimLeft(u.String(), "/"))
}

func decodeBody(r io.Reader) (any, error) {
	dec := json.NewDecoder(r)
	dec.UseNumber()
	var v any
	if err := dec.Decode(&v); err != nil {
		return nil, err
	}
	return v, nil
}

func flattenResults(body any) []Record {
	obj, ok := body.(map[string]any)
	if !ok {
		return nil
	}
	switch results := obj["results"].(type) {
	case []any:
		out := make([]Record, 0, len(results))
		for _, item := range results {
			if r, ok := asRecord(item); ok {
				out = append(out, r)
			}
		}
		return out
	case map[string]any:
		return []Record{Record(results)}
	}
	return nil
}
