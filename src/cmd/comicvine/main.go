package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

// configPath is the --config flag shared by every subcommand.
var configPath string

var rootCmd = newRootCmd()

func newRootCmd() *cobra.Command {
	root := &cobra.Command{
		Use:   "comicvine",
		Short: "Comic Vine metadata lookups (identify issues, fetch covers)",
	}
	root.PersistentFlags().StringVar(&configPath, "config", "", "preferences file (default $XDG_CONFIG_HOME/comicmeta/config.toml)")
	return root
}

func execute() error {
	// Attach subcommands
	rootCmd.AddCommand(newIdentifyCmd())
	rootCmd.AddCommand(newCoversCmd())
	rootCmd.AddCommand(newListCmd())
	rootCmd.AddCommand(newIndexCmd())
	rootCmd.AddCommand(newConfigCmd())
	return rootCmd.Execute()
}

func main() {
	if err := execute(); err != nil {
		_, _ = fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
