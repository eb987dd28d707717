package httpx

import (
    "log/slog"
    "net/http"
    "net/url"
    "time"
)

// Doer is the minimal HTTP client interface used across packages.
type Doer interface {
    Do(req *http.Request) (*http.Response, error)
}

// BrowserUA identifies outbound requests as a desktop browser. Comic Vine
// rejects requests without a recognizable client signature.
const BrowserUA = "Mozilla/5.0 (Macintosh; Intel Mac OS X 10_10_1) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/39.0.2171.95 Safari/537.36"

// SetUA sets the BrowserUA header on the request.
func SetUA(req *http.Request) {
    if req != nil {
        req.Header.Set("User-Agent", BrowserUA)
    }
}

// secretParams are query keys masked by Redact.
var secretParams = []string{"api_key"}

// Redact returns u with secret query values replaced by "REDACTED".
func Redact(u *url.URL) string {
    if u == nil { return "" }
    c := *u
    q := c.Query()
    changed := false
    for _, k := range secretParams {
        if q.Has(k) {
            q.Set(k, "REDACTED")
            changed = true
        }
    }
    if changed { c.RawQuery = q.Encode() }
    return c.String()
}

// LoggingTransport logs every round trip at debug level. Used for --debug-api.
type LoggingTransport struct {
    Base   http.RoundTripper
    Logger *slog.Logger
}

func (t *LoggingTransport) RoundTrip(req *http.Request) (*http.Response, error) {
    base := t.Base
    if base == nil { base = http.DefaultTransport }
    start := time.Now()
    resp, err := base.RoundTrip(req)
    attrs := []any{"method", req.Method, "url", Redact(req.URL), "duration", time.Since(start)}
    if err != nil {
        t.Logger.Debug("http request failed", append(attrs, "error", err)...)
        return nil, err
    }
    t.Logger.Debug("http request", append(attrs, "status", resp.StatusCode)...)
    return resp, nil
}

// NewClient returns an *http.Client with the given timeout. When logger is
// non-nil every request is traced through LoggingTransport.
func NewClient(timeout time.Duration, logger *slog.Logger) *http.Client {
    c := &http.Client{Timeout: timeout}
    if logger != nil {
        c.Transport = &LoggingTransport{Base: http.DefaultTransport, Logger: logger}
    }
    return c
}
