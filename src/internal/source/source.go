// Package source exposes Comic Vine lookups as a metadata source for a host
// application: identify issues into metadata records and download covers,
// delivering results into caller-owned sinks.
package source

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"comicmeta/src/internal/comicvine"
	"comicmeta/src/internal/httpx"
	"comicmeta/src/internal/logging"
	"comicmeta/src/internal/sanitize"
	"comicmeta/src/internal/schema"
)

const (
	// Name identifies this source to the host.
	Name = "Comicvine"

	// DefaultTimeout applies when a Request carries no timeout.
	DefaultTimeout = 30 * time.Second

	// maxCoverSize caps a single cover download.
	maxCoverSize = 20 * 1024 * 1024
)

// Capability is an operation the source supports.
type Capability string

const (
	CapIdentify Capability = "identify"
	CapCover    Capability = "cover"
)

// touchedFields lists the metadata fields a lookup may set.
var touchedFields = []string{
	"title", "authors", "comments", "publisher", "pubdate", "series",
	"identifiers:" + schema.IDComicvine, "identifiers:" + schema.IDComicvineVolume,
}

// Request describes what the host knows about the book being looked up.
type Request struct {
	Title       string
	Authors     []string
	Identifiers map[string]string
	Timeout     time.Duration
}

func (r Request) timeout() time.Duration {
	if r.Timeout > 0 {
		return r.Timeout
	}
	return DefaultTimeout
}

// CoverResult is a downloaded cover image paired with its producer.
type CoverResult struct {
	Source *Source
	URL    string
	Data   []byte
}

// Source adapts a comicvine.Client to the host's metadata source contract.
type Source struct {
	client *comicvine.Client
	http   httpx.Doer
	logger *slog.Logger
}

// Option configures a Source.
type Option func(*Source)

// WithLogger sets the logger for entry-point diagnostics.
func WithLogger(l *slog.Logger) Option {
	return func(s *Source) {
		if l != nil {
			s.logger = l
		}
	}
}

// WithHTTPClient overrides the client used for cover downloads.
func WithHTTPClient(d httpx.Doer) Option {
	return func(s *Source) {
		if d != nil {
			s.http = d
		}
	}
}

// New creates a Source backed by client.
func New(client *comicvine.Client, opts ...Option) *Source {
	s := &Source{
		client: client,
		http:   &http.Client{},
		logger: logging.Discard(),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Name returns the source's display name.
func (s *Source) Name() string { return Name }

// Capabilities returns the operations this source supports.
func (s *Source) Capabilities() []Capability { return []Capability{CapIdentify, CapCover} }

// TouchedFields returns the metadata fields a lookup may set.
func (s *Source) TouchedFields() []string {
	out := make([]string, len(touchedFields))
	copy(out, touchedFields)
	return out
}

// HasHTMLComments reports that comments may contain HTML.
func (s *Source) HasHTMLComments() bool { return true }

// CanGetMultipleCovers reports that DownloadCover may yield several images.
func (s *Source) CanGetMultipleCovers() bool { return true }

// IsConfigured reports whether an API key is available. Lookups must not
// be attempted otherwise.
func (s *Source) IsConfigured() bool { return s.client.Configured() }

// Identify looks up issues matching req and puts a metadata record for each
// into sink. A known comicvine identifier takes precedence over the title.
//
// Resolution failures are logged and returned; nothing is put in that case.
// A single issue that cannot be normalized is logged and skipped.
func (s *Source) Identify(ctx context.Context, sink Sink[schema.Metadata], req Request) error {
	if !s.IsConfigured() {
		return comicvine.ErrNotConfigured
	}
	c := s.client.WithRequestTimeout(req.timeout())

	var issues []comicvine.Record
	switch id, title := strings.TrimSpace(req.Identifiers[schema.IDComicvine]), strings.TrimSpace(req.Title); {
	case id != "":
		issue, err := c.ResolveIssue(ctx, id)
		if err != nil {
			s.logger.Error("comicvine lookup by id failed", "id", id, "error", err)
			return err
		}
		issues = []comicvine.Record{issue}
	case title != "":
		found, err := c.FindByTitle(ctx, title)
		if err != nil {
			s.logger.Error("comicvine title search failed", "title", title, "error", err)
			return err
		}
		issues = found
	default:
		return nil
	}

	for _, issue := range issues {
		m, err := comicvine.BuildMeta(ctx, issue, c.Observer())
		if err != nil {
			s.logger.Warn("skipping issue", "id", issue.String("id"), "error", err)
			continue
		}
		sink.Put(m)
	}
	s.logger.Debug("identify finished", "candidates", len(issues))
	return nil
}

// DownloadCover fetches cover images for the comicvine identifier in req,
// best quality first, putting each downloaded image into sink. With best
// set only the top available tier is tried. A failed download is logged and
// the next URL tried; failing to resolve the issue ends the attempt.
func (s *Source) DownloadCover(ctx context.Context, sink Sink[CoverResult], req Request, best bool) error {
	id := strings.TrimSpace(req.Identifiers[schema.IDComicvine])
	if id == "" {
		return nil
	}
	if !s.IsConfigured() {
		return comicvine.ErrNotConfigured
	}
	c := s.client.WithRequestTimeout(req.timeout())
	for u, err := range c.CoverURLs(ctx, id, best) {
		if err != nil {
			s.logger.Error("cover lookup failed", "id", id, "error", err)
			return err
		}
		clean := sanitize.CleanURL(u)
		if clean == "" {
			s.logger.Warn("skipping invalid cover url", "url", u)
			continue
		}
		s.logger.Info("downloading cover", "url", clean)
		data, err := s.fetch(ctx, clean, req.timeout())
		if err != nil {
			s.logger.Warn("failed to download cover", "url", clean, "error", err)
			continue
		}
		sink.Put(CoverResult{Source: s, URL: clean, Data: data})
	}
	return nil
}

func (s *Source) fetch(ctx context.Context, u string, timeout time.Duration) ([]byte, error) {
	ctx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u, nil)
	if err != nil {
		return nil, fmt.Errorf("create request: %w", err)
	}
	httpx.SetUA(req)
	resp, err := s.http.Do(req)
	if err != nil {
		return nil, fmt.Errorf("download: %w", err)
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("unexpected status %d", resp.StatusCode)
	}
	data, err := io.ReadAll(io.LimitReader(resp.Body, maxCoverSize+1))
	if err != nil {
		return nil, fmt.Errorf("read body: %w", err)
	}
	if len(data) > maxCoverSize {
		return nil, fmt.Errorf("cover exceeds %d bytes", maxCoverSize)
	}
	if len(data) == 0 {
		return nil, errors.New("empty cover body")
	}
	return data, nil
}
