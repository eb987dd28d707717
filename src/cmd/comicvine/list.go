package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"comicmeta/src/internal/store"
)

func newListCmd() *cobra.Command {
	var (
		series  string
		asTable bool
	)
	cmd := &cobra.Command{
		Use:          "list",
		Short:        "List saved issues",
		SilenceUsage: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			all, err := store.ReadAll()
			if err != nil {
				return err
			}
			list := store.FilterBySeries(all, series)
			if asTable {
				if len(list) == 0 {
					return nil
				}
				_, err := fmt.Fprintln(cmd.OutOrStdout(), issueTable(list))
				return err
			}
			for _, m := range list {
				if _, err := fmt.Fprintln(cmd.OutOrStdout(), summaryLine(m)); err != nil {
					return err
				}
			}
			return nil
		},
	}
	cmd.Flags().StringVar(&series, "series", "", "only issues of this series (case-insensitive)")
	cmd.Flags().BoolVar(&asTable, "table", false, "render as a table")
	return cmd
}

func newIndexCmd() *cobra.Command {
	var commit, push bool
	cmd := &cobra.Command{
		Use:          "index",
		Short:        "Rebuild metadata indexes (series, authors)",
		SilenceUsage: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			all, err := store.ReadAll()
			if err != nil {
				return err
			}
			for _, build := range []func() (string, error){
				func() (string, error) { return store.BuildSeriesIndex(all) },
				func() (string, error) { return store.BuildAuthorIndex(all) },
			} {
				path, err := build()
				if err != nil {
					return err
				}
				if _, err := fmt.Fprintf(cmd.OutOrStdout(), "wrote %s\n", path); err != nil {
					return err
				}
			}
			if !commit {
				return nil
			}
			// stage the whole directory so removed indexes are included
			return commitPaths(cmd, push, []string{store.MetadataDir}, "index: rebuild metadata")
		},
	}
	cmd.Flags().BoolVar(&commit, "commit", false, "commit rebuilt indexes to git")
	cmd.Flags().BoolVar(&push, "push", false, "push after committing")
	return cmd
}
