package main

import (
	"fmt"
	"io"
	"strings"

	"github.com/spf13/cobra"

	"steamdocs/internal/request"
	"steamdocs/internal/session"
)

type credentialsSetFlags struct {
	key     string
	token   string
	steamID string
	format  string
}

func newCredentialsCmd(root *rootFlags) *cobra.Command {
	cmd := &cobra.Command{
		Use:     "credentials",
		Aliases: []string{"creds"},
		Short:   "Show or change the stored web API key, access token and SteamID",
	}
	cmd.AddCommand(newCredentialsSetCmd(root))
	cmd.AddCommand(&cobra.Command{
		Use:   "show",
		Short: "Show stored credentials, masked",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			e, err := openEnv(cmd, root, envOptions{noCatalog: true})
			if err != nil {
				return err
			}
			defer e.Close()
			printCredentials(cmd.OutOrStdout(), e.sess.User())
			return nil
		},
	})
	return cmd
}

func newCredentialsSetCmd(root *rootFlags) *cobra.Command {
	flags := &credentialsSetFlags{}

	cmd := &cobra.Command{
		Use:   "set",
		Short: "Store credentials",
		Long: `Store any of the web API key, access token, SteamID and response format.
Keys and tokens must be 32 hex characters and a SteamID 17 digits; an
invalid value removes the stored one. Pass an empty value to clear a field.`,
		Example: `  steamdocs credentials set --key 0123456789ABCDEF0123456789ABCDEF
  steamdocs credentials set --steamid 76561197960287930 --format xml
  steamdocs credentials set --token ''`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runCredentialsSet(cmd, root, flags)
		},
	}

	cmd.Flags().StringVar(&flags.key, "key", "", "Web API key")
	cmd.Flags().StringVar(&flags.token, "token", "", "Access token")
	cmd.Flags().StringVar(&flags.steamID, "steamid", "", "SteamID used to fill steamid parameters")
	cmd.Flags().StringVar(&flags.format, "format", "", "Response format (json, xml, vdf)")
	return cmd
}

func runCredentialsSet(cmd *cobra.Command, root *rootFlags, flags *credentialsSetFlags) error {
	updates := []struct {
		flag  string
		field session.Field
		value string
	}{
		{"key", session.FieldAPIKey, flags.key},
		{"token", session.FieldAccessToken, flags.token},
		{"steamid", session.FieldSteamID, flags.steamID},
		{"format", session.FieldFormat, flags.format},
	}

	changed := 0
	for _, u := range updates {
		if cmd.Flags().Changed(u.flag) {
			changed++
		}
	}
	if changed == 0 {
		return fmt.Errorf("nothing to set: pass at least one of --key, --token, --steamid, --format")
	}

	e, err := openEnv(cmd, root, envOptions{noCatalog: true})
	if err != nil {
		return err
	}
	defer e.Close()

	for _, u := range updates {
		if !cmd.Flags().Changed(u.flag) {
			continue
		}
		if err := e.sess.SetField(u.field, strings.TrimSpace(u.value)); err != nil {
			return fmt.Errorf("set %s: %w", u.flag, err)
		}
	}
	printCredentials(cmd.OutOrStdout(), e.sess.User())
	return nil
}

func printCredentials(out io.Writer, u session.UserData) {
	rows := []struct {
		label  string
		value  string
		valid  bool
		secret bool
	}{
		{"web api key", u.APIKey, request.ValidAPIKey(u.APIKey), true},
		{"access token", u.AccessToken, request.ValidAccessToken(u.AccessToken), true},
		{"steamid", u.SteamID, request.ValidSteamID(u.SteamID), false},
		{"format", u.Format, u.Format != "", false},
	}
	for _, r := range rows {
		value := r.value
		if r.secret {
			value = maskSecret(value)
		}
		switch {
		case r.value == "":
			fmt.Fprintf(out, "%-13s (not set)\n", r.label+":")
		case r.valid:
			fmt.Fprintf(out, "%-13s %s\n", r.label+":", value)
		default:
			fmt.Fprintf(out, "%-13s %s (invalid, not saved)\n", r.label+":", value)
		}
	}
}

// maskSecret keeps the last four characters.
func maskSecret(s string) string {
	if len(s) <= 4 {
		return strings.Repeat("*", len(s))
	}
	return strings.Repeat("*", len(s)-4) + s[len(s)-4:]
}
