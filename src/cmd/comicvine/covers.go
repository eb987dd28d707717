package main

import (
	"fmt"
	"net/url"
	"os"
	"path"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"

	"comicmeta/src/internal/schema"
	"comicmeta/src/internal/source"
)

func newCoversCmd() *cobra.Command {
	var (
		id                string
		best, urlsOnly    bool
		outDir            string
		verbose, debugAPI bool
	)
	cmd := &cobra.Command{
		Use:          "covers --id <id>",
		Short:        "List or download cover images for an issue, best quality first",
		SilenceUsage: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			id = strings.TrimSpace(id)
			env, err := newLookupEnv(cmd, verbose, debugAPI)
			if err != nil {
				return err
			}
			if err := env.requireKey(); err != nil {
				return err
			}
			timeout := env.prefs.Prefs().Timeout()

			if urlsOnly {
				for u, err := range env.client.WithRequestTimeout(timeout).CoverURLs(cmd.Context(), id, best) {
					if err != nil {
						return err
					}
					fmt.Fprintln(cmd.OutOrStdout(), u)
				}
				return nil
			}

			var q source.Queue[source.CoverResult]
			req := source.Request{Identifiers: map[string]string{schema.IDComicvine: id}, Timeout: timeout}
			if err := env.source.DownloadCover(cmd.Context(), &q, req, best); err != nil {
				return err
			}
			covers := q.Items()
			if len(covers) == 0 {
				return fmt.Errorf("no covers downloaded for issue %s", id)
			}
			if err := os.MkdirAll(outDir, 0o755); err != nil {
				return err
			}
			for i, c := range covers {
				name := filepath.Join(outDir, fmt.Sprintf("%s-%d%s", id, i+1, imageExt(c.URL)))
				if err := os.WriteFile(name, c.Data, 0o644); err != nil {
					return err
				}
				fmt.Fprintf(cmd.OutOrStdout(), "wrote %s\n", name)
			}
			return nil
		},
	}
	cmd.Flags().StringVar(&id, "id", "", "Comic Vine issue id")
	cmd.Flags().BoolVar(&best, "best", false, "only the highest quality cover")
	cmd.Flags().BoolVar(&urlsOnly, "urls", false, "print cover URLs instead of downloading")
	cmd.Flags().StringVar(&outDir, "out", ".", "directory to write covers to")
	cmd.Flags().BoolVarP(&verbose, "verbose", "v", false, "debug logging")
	cmd.Flags().BoolVar(&debugAPI, "debug-api", false, "trace every API request")
	_ = cmd.MarkFlagRequired("id")
	return cmd
}

// imageExt returns the file extension of a cover URL's path, ".jpg" when it
// has none.
func imageExt(raw string) string {
	u, err := url.Parse(raw)
	if err != nil {
		return ".jpg"
	}
	if ext := path.Ext(u.Path); ext != "" {
		return ext
	}
	return ".jpg"
}
