package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"steamdocs/internal/model"
)

func newFavoritesCmd(root *rootFlags) *cobra.Command {
	cmd := &cobra.Command{
		Use:     "favorites",
		Aliases: []string{"fav"},
		Short:   "List or toggle favorite methods",
		Long: `Favorites are kept in the state database and shown at the top of the
browser sidebar. Favorites whose method is gone from the catalog are
skipped.`,
	}

	cmd.AddCommand(&cobra.Command{
		Use:   "list",
		Short: "List favorite methods in catalog order",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runFavoritesList(cmd, root)
		},
	})
	cmd.AddCommand(&cobra.Command{
		Use:     "toggle <Interface/Method>",
		Short:   "Add a method to favorites, or remove it",
		Example: `  steamdocs favorites toggle IPlayerService/GetOwnedGames`,
		Args:    cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runFavoritesToggle(cmd, root, args[0])
		},
	})
	return cmd
}

func runFavoritesList(cmd *cobra.Command, root *rootFlags) error {
	e, err := openEnv(cmd, root, envOptions{})
	if err != nil {
		return err
	}
	defer e.Close()

	out := cmd.OutOrStdout()
	favorites := e.sess.Favorites()
	if len(favorites) == 0 {
		fmt.Fprintln(out, "no favorites")
		return nil
	}
	for _, f := range favorites {
		fmt.Fprintln(out, f)
	}
	return nil
}

func runFavoritesToggle(cmd *cobra.Command, root *rootFlags, name string) error {
	e, err := openEnv(cmd, root, envOptions{})
	if err != nil {
		return err
	}
	defer e.Close()

	iface, method, err := lookup(e.sess, name)
	if err != nil {
		return err
	}
	on, err := e.sess.ToggleFavorite(iface, method)
	if err != nil {
		return err
	}

	qualified := model.QualifiedName(iface, method)
	if on {
		fmt.Fprintf(cmd.OutOrStdout(), "added %s (%d favorites)\n", qualified, e.sess.FavoriteCount())
	} else {
		fmt.Fprintf(cmd.OutOrStdout(), "removed %s (%d favorites)\n", qualified, e.sess.FavoriteCount())
	}
	return nil
}
