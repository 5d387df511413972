package main

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"

	"github.com/spf13/cobra"

	"steamdocs/internal/errors"
	"steamdocs/internal/model"
	"steamdocs/internal/session"
)

// maxArrayIndex bounds how far -p may reach into an array parameter.
const maxArrayIndex = 100

var arrayParam = regexp.MustCompile(`^(.*)\[(\d+)\]$`)

type urlFlags struct {
	params []string
	format string
	method bool
}

func newURLCmd(root *rootFlags) *cobra.Command {
	flags := &urlFlags{}

	cmd := &cobra.Command{
		Use:   "url <Interface/Method>",
		Short: "Print the request URL for a method",
		Long: `Print the URL a request to the method would use. Stored credentials
are applied the same way the browser applies them: a valid access token
first, then a valid web API key. A stored SteamID fills empty steamid
parameters.`,
		Example: `  steamdocs url ISteamUser/GetPlayerSummaries -p steamids=76561197960287930
  steamdocs url IPlayerService/GetOwnedGames -p steamid=76561197960287930 -p appids_filter[1]=570
  steamdocs url ISteamNews/GetNewsForApp -p appid=440 --format xml`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runURL(cmd, root, flags, args[0])
		},
	}

	cmd.Flags().StringArrayVarP(&flags.params, "param", "p", nil, "Parameter as name=value (repeatable)")
	cmd.Flags().StringVar(&flags.format, "format", "", "Response format for this URL only (json, xml, vdf)")
	cmd.Flags().BoolVar(&flags.method, "method", false, "Prefix the URL with its HTTP method")
	return cmd
}

func runURL(cmd *cobra.Command, root *rootFlags, flags *urlFlags, name string) error {
	e, err := openEnv(cmd, root, envOptions{})
	if err != nil {
		return err
	}
	defer e.Close()

	iface, method, err := lookup(e.sess, name)
	if err != nil {
		return err
	}

	for _, kv := range flags.params {
		if err := applyParam(e.sess, iface, method, kv); err != nil {
			return err
		}
	}

	format := e.sess.User().Format
	if cmd.Flags().Changed("format") {
		format = flags.format
	}
	call, err := e.sess.CallFormat(iface, method, format)
	if err != nil {
		return err
	}

	out := cmd.OutOrStdout()
	if flags.method {
		fmt.Fprintf(out, "%s %s\n", call.Method, call.URL)
		return nil
	}
	fmt.Fprintln(out, call.URL)
	return nil
}

// applyParam sets one name=value pair. Array elements beyond those the
// catalog declares are added first; booleans accept strconv.ParseBool forms.
func applyParam(sess *session.Session, iface, method, kv string) error {
	name, value, ok := strings.Cut(kv, "=")
	name = strings.TrimSpace(name)
	if !ok || name == "" {
		return fmt.Errorf("parameter %q: want name=value: %w", kv, errors.ErrInvalidInput)
	}

	p, err := ensureParam(sess, iface, method, name)
	if err != nil {
		return err
	}
	if p.IsBool() {
		on, err := strconv.ParseBool(value)
		if err != nil {
			return fmt.Errorf("parameter %s: %q is not a boolean: %w", name, value, errors.ErrInvalidInput)
		}
		sess.SetBool(iface, method, name, on)
		return nil
	}
	sess.SetParam(iface, method, name, value)
	return nil
}

func ensureParam(sess *session.Session, iface, method, name string) (model.Parameter, error) {
	if p, ok := findParam(sess.Parameters(iface, method), name); ok {
		return p, nil
	}

	sm := arrayParam.FindStringSubmatch(name)
	if sm == nil {
		return model.Parameter{}, errors.NewNotFoundError("parameter", name)
	}
	want, _ := strconv.Atoi(sm[2])
	first := sm[1] + "[0]"
	if _, ok := findParam(sess.Parameters(iface, method), first); !ok || want > maxArrayIndex {
		return model.Parameter{}, errors.NewNotFoundError("parameter", name)
	}
	for i := 0; i < want; i++ {
		added, err := sess.ExpandArray(iface, method, first)
		if err != nil {
			return model.Parameter{}, err
		}
		if added.Name == name {
			return added, nil
		}
	}
	return model.Parameter{}, errors.NewNotFoundError("parameter", name)
}

func findParam(params []model.Parameter, name string) (model.Parameter, bool) {
	for _, p := range params {
		if p.Name == name {
			return p, true
		}
	}
	return model.Parameter{}, false
}
