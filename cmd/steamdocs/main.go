package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

var (
	version = "dev"
	commit  = "unknown"
	date    = "unknown"
)

type rootFlags struct {
	configFile string
	catalog    string
	state      string
	logLevel   string
}

func newRootCmd() *cobra.Command {
	flags := &rootFlags{}
	browse := &browseFlags{}

	rootCmd := &cobra.Command{
		Use:   "steamdocs",
		Short: "Browse and try the Steam Web API from the terminal",
		Long: `steamdocs loads a catalog of Steam Web API interfaces and lets you
search it, fill in parameters, build request URLs and send requests.

Without a subcommand it starts the interactive browser.`,
		Args:          cobra.NoArgs,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runBrowse(cmd, flags, browse)
		},
	}

	pf := rootCmd.PersistentFlags()
	pf.StringVar(&flags.configFile, "config", "", "Config file (default: ./steamdocs.yaml or the user config dir)")
	pf.StringVar(&flags.catalog, "catalog", "", "Catalog file or http(s) URL (api.json, YAML or OpenAPI 3)")
	pf.StringVar(&flags.state, "state", "", "Path of the SQLite state database")
	pf.StringVar(&flags.logLevel, "log-level", "", "Log level: debug, info, warn, error")
	rootCmd.Flags().StringVar(&browse.gotoToken, "goto", "", "Open at #Interface/Method")

	rootCmd.AddCommand(newVersionCmd())
	rootCmd.AddCommand(newBrowseCmd(flags))
	rootCmd.AddCommand(newSearchCmd(flags))
	rootCmd.AddCommand(newURLCmd(flags))
	rootCmd.AddCommand(newFavoritesCmd(flags))
	rootCmd.AddCommand(newCredentialsCmd(flags))
	rootCmd.AddCommand(newExportCmd(flags))
	return rootCmd
}

func main() {
	if err := newRootCmd().Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		os.Exit(1)
	}
}

func newVersionCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Print version information",
		Run: func(cmd *cobra.Command, args []string) {
			out := cmd.OutOrStdout()
			fmt.Fprintf(out, "steamdocs version %s\n", version)
			fmt.Fprintf(out, "commit: %s\n", commit)
			fmt.Fprintf(out, "date: %s\n", date)
		},
	}
}
