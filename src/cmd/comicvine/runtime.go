package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/spf13/cobra"

	"comicmeta/src/internal/comicvine"
	"comicmeta/src/internal/config"
	"comicmeta/src/internal/dates"
	"comicmeta/src/internal/gitutil"
	"comicmeta/src/internal/httpx"
	"comicmeta/src/internal/logging"
	"comicmeta/src/internal/schema"
	"comicmeta/src/internal/source"
)

// lookupEnv is everything a lookup command needs, built once per invocation.
type lookupEnv struct {
	prefs  *config.Store
	logger *slog.Logger
	client *comicvine.Client
	source *source.Source
}

// newLookupEnv opens the preferences and wires the client. Diagnostics go to
// the command's stderr; --debug-api additionally traces every HTTP request.
func newLookupEnv(cmd *cobra.Command, verbose, debugAPI bool) (*lookupEnv, error) {
	st, err := config.Open(configPath)
	if err != nil {
		return nil, err
	}
	prefs := st.Prefs()
	logger := logging.New(logging.Config{Writer: cmd.ErrOrStderr(), Verbose: verbose || debugAPI})

	var traceLogger *slog.Logger
	if debugAPI {
		traceLogger = logger
	}
	hc := httpx.NewClient(prefs.Timeout(), traceLogger)
	client := comicvine.New(st.APIKey,
		comicvine.WithBaseURL(prefs.BaseURL),
		comicvine.WithHTTPClient(hc),
		comicvine.WithTimeout(prefs.Timeout()),
		comicvine.WithObserver(comicvine.SlogObserver{Logger: logger}),
	)
	return &lookupEnv{
		prefs:  st,
		logger: logger,
		client: client,
		source: source.New(client, source.WithLogger(logger), source.WithHTTPClient(hc)),
	}, nil
}

// requireKey fails early with a hint when no API key is available.
func (e *lookupEnv) requireKey() error {
	if e.source.IsConfigured() {
		return nil
	}
	return fmt.Errorf("%w: run `comicvine config set-key <key>` or set %s", comicvine.ErrNotConfigured, config.EnvAPIKey)
}

// summaryLine renders "<id>: <title> [<pubdate>]".
func summaryLine(m schema.Metadata) string {
	return fmt.Sprintf("%s: %s [%s]", m.ID(), m.Title, dates.FormatISO(m.Pubdate, "Unknown"))
}

type committer interface {
	Commit(ctx context.Context, paths []string, message string) (bool, error)
}

// indirection for testability
var newCommitter = func(push bool) committer { return gitutil.New(push) }

// commitPaths records paths in git. Outside a repository it only warns.
func commitPaths(cmd *cobra.Command, push bool, paths []string, message string) error {
	ok, err := newCommitter(push).Commit(cmd.Context(), paths, message)
	if errors.Is(err, gitutil.ErrNotRepository) {
		fmt.Fprintln(cmd.ErrOrStderr(), "warning: skipping git commit (not a git repository)")
		return nil
	}
	if err != nil {
		return err
	}
	if ok {
		fmt.Fprintf(cmd.ErrOrStderr(), "committed %d file(s)\n", len(paths))
	}
	return nil
}
