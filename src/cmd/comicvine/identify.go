package main

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"

	"comicmeta/src/internal/opf"
	"comicmeta/src/internal/sanitize"
	"comicmeta/src/internal/schema"
	"comicmeta/src/internal/source"
	"comicmeta/src/internal/store"
)

func newIdentifyCmd() *cobra.Command {
	var (
		id                string
		asOPF, asYAML     bool
		verbose, debugAPI bool
		save, commit      bool
		push              bool
		comments          string
	)
	cmd := &cobra.Command{
		Use:   "identify [t:<title>] [a:<author>] [i:<id>]",
		Short: "Identify comic issues by title or Comic Vine id",
		Long: "Identify looks up issues on Comic Vine. A known id (i:<id> or --id) is\n" +
			"resolved directly; otherwise the title (t:<title>) is searched.",
		SilenceUsage: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			req, err := parseLookupArgs(args)
			if err != nil {
				return err
			}
			if id != "" {
				req.Identifiers[schema.IDComicvine] = id
			}
			if commit && !save {
				return fmt.Errorf("--commit requires --save")
			}
			if _, err := sanitize.Comments(comments, ""); err != nil {
				return err
			}
			env, err := newLookupEnv(cmd, verbose, debugAPI)
			if err != nil {
				return err
			}
			if err := env.requireKey(); err != nil {
				return err
			}
			req.Timeout = env.prefs.Prefs().Timeout()

			var q source.Queue[schema.Metadata]
			if err := env.source.Identify(cmd.Context(), &q, req); err != nil {
				return err
			}
			results := q.Items()
			for i := range results {
				if results[i], err = renderComments(results[i], comments); err != nil {
					return err
				}
			}
			if save {
				var paths []string
				for _, m := range results {
					path, err := store.WriteMetadata(m)
					if err != nil {
						return err
					}
					fmt.Fprintf(cmd.ErrOrStderr(), "wrote %s\n", path)
					paths = append(paths, path)
				}
				if commit {
					if err := commitPaths(cmd, push, paths, commitMessage(results)); err != nil {
						return err
					}
				}
			}
			return printResults(cmd, results, asOPF, asYAML)
		},
	}
	cmd.Flags().StringVar(&id, "id", "", "Comic Vine issue id")
	cmd.Flags().BoolVarP(&asOPF, "opf", "o", false, "print the first result as an OPF document")
	cmd.Flags().BoolVar(&asYAML, "yaml", false, "print results as a YAML stream")
	cmd.Flags().BoolVarP(&verbose, "verbose", "v", false, "debug logging")
	cmd.Flags().BoolVar(&debugAPI, "debug-api", false, "trace every API request")
	cmd.Flags().BoolVar(&save, "save", false, "write each result under data/comics")
	cmd.Flags().BoolVar(&commit, "commit", false, "commit saved records to git")
	cmd.Flags().BoolVar(&push, "push", false, "push after committing")
	cmd.Flags().StringVar(&comments, "comments", sanitize.CommentsHTML, "comments format: html, text or markdown")
	cmd.MarkFlagsMutuallyExclusive("opf", "yaml")
	return cmd
}

// parseLookupArgs reads t:<title>, a:<author> and i:<id> arguments. A later
// title or id replaces an earlier one; authors accumulate.
func parseLookupArgs(args []string) (source.Request, error) {
	req := source.Request{Identifiers: map[string]string{}}
	for _, arg := range args {
		key, val, ok := strings.Cut(arg, ":")
		if !ok {
			return req, fmt.Errorf("unrecognized argument %q (want t:<title>, a:<author> or i:<id>)", arg)
		}
		switch key {
		case "t":
			req.Title = val
		case "a":
			req.Authors = append(req.Authors, val)
		case "i":
			req.Identifiers[schema.IDComicvine] = val
		default:
			return req, fmt.Errorf("unrecognized argument %q (want t:<title>, a:<author> or i:<id>)", arg)
		}
	}
	return req, nil
}

func renderComments(m schema.Metadata, format string) (schema.Metadata, error) {
	if m.Comments == nil {
		return m, nil
	}
	s, err := sanitize.Comments(format, *m.Comments)
	if err != nil {
		return m, err
	}
	m.Comments = &s
	return m, nil
}

func printResults(cmd *cobra.Command, results []schema.Metadata, asOPF, asYAML bool) error {
	out := cmd.OutOrStdout()
	switch {
	case asOPF:
		if len(results) == 0 {
			return nil
		}
		return opf.Write(out, results[0])
	case asYAML:
		enc := yaml.NewEncoder(out)
		for _, m := range results {
			if err := enc.Encode(m); err != nil {
				return err
			}
		}
		return enc.Close()
	}
	for _, m := range results {
		if _, err := fmt.Fprintln(out, summaryLine(m)); err != nil {
			return err
		}
	}
	return nil
}

func commitMessage(results []schema.Metadata) string {
	if len(results) == 1 {
		return "identify: " + results[0].Title
	}
	return fmt.Sprintf("identify: %d issues", len(results))
}
