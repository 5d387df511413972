package main

import (
	"fmt"
	"io"
	"strings"

	"github.com/spf13/cobra"

	"steamdocs/internal/sidebar"
)

type searchFlags struct {
	scores bool
}

func newSearchCmd(root *rootFlags) *cobra.Command {
	flags := &searchFlags{}

	cmd := &cobra.Command{
		Use:   "search [query]",
		Short: "List interfaces matching a query",
		Long: `Print the sidebar for a query: matching interfaces in rank order with
their matching methods. "/" separates alternatives. Without a query every
interface is listed in its group.`,
		Example: `  steamdocs search ownedgames
  steamdocs search 'ISteamUser/GetFriendList'
  steamdocs search --scores playersummaries`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			query := ""
			if len(args) == 1 {
				query = args[0]
			}
			return runSearch(cmd, root, flags, query)
		},
	}

	cmd.Flags().BoolVar(&flags.scores, "scores", false, "Print raw ranked matches with their scores")
	return cmd
}

func runSearch(cmd *cobra.Command, root *rootFlags, flags *searchFlags, query string) error {
	e, err := openEnv(cmd, root, envOptions{})
	if err != nil {
		return err
	}
	defer e.Close()

	out := cmd.OutOrStdout()
	if flags.scores {
		for _, r := range e.sess.Search(query) {
			fmt.Fprintf(out, "%.4f  %s\n", r.Score, r.Entry)
		}
		return nil
	}

	e.sess.SetFilter(query)
	printGroups(out, e.sess.Sidebar(), sidebar.Active(query))
	return nil
}

func printGroups(out io.Writer, groups []sidebar.Group, filtering bool) {
	printed := 0
	for _, g := range groups {
		if g.Catalog.Len() == 0 {
			continue
		}
		if g.Label != "" {
			fmt.Fprintln(out, g.Label)
		}
		for _, iface := range g.Catalog.Interfaces() {
			printed++
			if !filtering {
				fmt.Fprintf(out, "  %s (%d)\n", iface.Name, iface.Len())
				continue
			}
			fmt.Fprintf(out, "  %s\n", iface.Name)
			fmt.Fprintf(out, "    %s\n", strings.Join(iface.MethodNames(), "\n    "))
		}
	}
	if printed == 0 {
		fmt.Fprintln(out, "no matches")
	}
}
