package main

import (
	"github.com/spf13/cobra"

	"steamdocs/internal/ui"
)

type browseFlags struct {
	gotoToken string
}

func newBrowseCmd(root *rootFlags) *cobra.Command {
	flags := &browseFlags{}

	cmd := &cobra.Command{
		Use:   "browse",
		Short: "Start the interactive browser",
		Long: `Open the terminal browser. The left pane lists interfaces grouped as
Steam, CSGO, Dota and Other Games; type to filter, enter to open.`,
		Example: `  # Browse a local api.json
  steamdocs browse --catalog ./api.json

  # Jump straight to a method
  steamdocs browse --catalog ./api.json --goto '#ISteamUser/GetPlayerSummaries'`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runBrowse(cmd, root, flags)
		},
	}

	cmd.Flags().StringVar(&flags.gotoToken, "goto", "", "Open at #Interface/Method")
	return cmd
}

func runBrowse(cmd *cobra.Command, root *rootFlags, flags *browseFlags) error {
	e, err := openEnv(cmd, root, envOptions{tui: true, token: flags.gotoToken})
	if err != nil {
		return err
	}
	defer e.Close()

	app := ui.NewApp(e.sess, ui.Options{
		Timeout: e.cfg.Timeout,
		Logger:  e.logger,
	})
	return app.Run()
}
