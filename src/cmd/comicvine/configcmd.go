package main

import (
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"comicmeta/src/internal/config"
)

func newConfigCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "config",
		Short: "Manage preferences",
	}

	setKey := &cobra.Command{
		Use:          "set-key <key>",
		Short:        "Store the Comic Vine API key",
		Args:         cobra.ExactArgs(1),
		SilenceUsage: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			key := strings.TrimSpace(args[0])
			if key == "" {
				return fmt.Errorf("api key must not be empty")
			}
			st, err := config.Open(configPath)
			if err != nil {
				return err
			}
			if err := st.SetAPIKey(key); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "saved api key to %s\n", st.Path())
			return nil
		},
	}

	show := &cobra.Command{
		Use:          "show",
		Short:        "Print the effective preferences",
		SilenceUsage: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			st, err := config.Open(configPath)
			if err != nil {
				return err
			}
			p := st.Prefs()
			from := "file"
			if strings.TrimSpace(os.Getenv(config.EnvAPIKey)) != "" {
				from = config.EnvAPIKey
			}
			out := cmd.OutOrStdout()
			fmt.Fprintf(out, "path: %s\n", st.Path())
			fmt.Fprintf(out, "base_url: %s\n", p.BaseURL)
			fmt.Fprintf(out, "timeout_seconds: %d\n", p.TimeoutSeconds)
			if st.Configured() {
				fmt.Fprintf(out, "api_key: %s (%s)\n", maskKey(st.APIKey()), from)
			} else {
				fmt.Fprintln(out, "api_key: not configured")
			}
			return nil
		},
	}

	cmd.AddCommand(setKey, show)
	return cmd
}

// maskKey keeps the first four characters of key.
func maskKey(key string) string {
	if len(key) <= 4 {
		return "****"
	}
	return key[:4] + strings.Repeat("*", len(key)-4)
}
