package comicvine

import (
	"context"
	"log/slog"
)

// EventKind names a diagnostic event emitted by the lookup pipeline.
type EventKind string

const (
	// EventRequest is emitted before every outbound request.
	EventRequest EventKind = "request"
	// EventSkipHit is emitted when a search hit does not resolve to exactly
	// one issue and is dropped from the results.
	EventSkipHit EventKind = "skip_hit"
	// EventPubdate carries the raw publication date string before parsing.
	EventPubdate EventKind = "pubdate"
)

// Event is a structured diagnostic emitted through an Observer.
type Event struct {
	Kind    EventKind
	Target  string // request target or detail URL
	IssueID string
	Value   string // raw value for EventPubdate
	Count   int    // record count for EventSkipHit
}

// Observer receives diagnostic events. Implementations must not block.
type Observer interface {
	Observe(ctx context.Context, ev Event)
}

// ObserverFunc adapts a function to the Observer interface.
type ObserverFunc func(ctx context.Context, ev Event)

func (f ObserverFunc) Observe(ctx context.Context, ev Event) { f(ctx, ev) }

// NopObserver discards every event.
type NopObserver struct{}

func (NopObserver) Observe(context.Context, Event) {}

// SlogObserver writes events to logger at debug level.
type SlogObserver struct {
	Logger *slog.Logger
}

func (o SlogObserver) Observe(ctx context.Context, ev Event) {
	if o.Logger == nil {
		return
	}
	attrs := []slog.Attr{slog.String("event", string(ev.Kind))}
	if ev.Target != "" {
		attrs = append(attrs, slog.String("target", ev.Target))
	}
	if ev.IssueID != "" {
		attrs = append(attrs, slog.String("issue_id", ev.IssueID))
	}
	switch ev.Kind {
	case EventPubdate:
		attrs = append(attrs, slog.String("raw", ev.Value))
	case EventSkipHit:
		attrs = append(attrs, slog.Int("records", ev.Count))
	}
	o.Logger.LogAttrs(ctx, slog.LevelDebug, "comicvine "+string(ev.Kind), attrs...)
}
