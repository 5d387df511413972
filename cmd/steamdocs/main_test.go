package main

import (
	"bytes"
	"io"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"steamdocs/internal/request"
)

const testCatalogJSON = `{
  "ISteamUser": {
    "GetPlayerSummaries": {
      "version": 2,
      "parameters": [{"name": "steamids", "type": "string", "optional": false}]
    },
    "GetFriendList": {
      "version": 1,
      "parameters": [
        {"name": "steamid", "type": "uint64", "optional": false},
        {"name": "include_relationship", "type": "bool", "optional": true}
      ]
    }
  },
  "IPlayerService": {
    "GetOwnedGames": {
      "version": 1,
      "parameters": [{"name": "appids_filter[0]", "type": "uint32", "optional": true}]
    }
  },
  "IEconService": {
    "FlushInventoryCache": {"version": 1, "httpmethod": "POST", "_type": "publisher_only"}
  },
  "IEconItems_730": {
    "GetPlayerItems": {"version": 1}
  }
}`

const (
	testToken   = "0123456789abcdef0123456789abcdef"
	testSteamID = "76561197960287930"
)

type cli struct {
	t       *testing.T
	catalog string
	config  string
	state   string
}

func newCLI(t *testing.T) *cli {
	t.Helper()
	dir := t.TempDir()
	t.Setenv("XDG_CONFIG_HOME", dir)

	c := &cli{
		t:       t,
		catalog: filepath.Join(dir, "api.json"),
		config:  filepath.Join(dir, "steamdocs.yaml"),
		state:   filepath.Join(dir, "state", "state.db"),
	}
	require.NoError(t, os.WriteFile(c.catalog, []byte(testCatalogJSON), 0o644))
	require.NoError(t, os.WriteFile(c.config, []byte("log_level: error\n"), 0o644))
	return c
}

// run executes the root command with the fixture's global flags appended.
func (c *cli) run(args ...string) (string, error) {
	c.t.Helper()
	var out bytes.Buffer
	cmd := newRootCmd()
	cmd.SetOut(&out)
	cmd.SetErr(io.Discard)
	cmd.SetArgs(append(args, "--config", c.config, "--catalog", c.catalog, "--state", c.state))
	err := cmd.Execute()
	return out.String(), err
}

func (c *cli) mustRun(args ...string) string {
	c.t.Helper()
	out, err := c.run(args...)
	require.NoError(c.t, err)
	return out
}

func TestURLCommand(t *testing.T) {
	c := newCLI(t)

	out := c.mustRun("url", "ISteamUser/GetPlayerSummaries", "-p", "steamids=1,2")
	assert.Equal(t, request.DefaultPublicHost+"ISteamUser/GetPlayerSummaries/v2/?steamids=1%2C2\n", out)

	out = c.mustRun("url", "#IEconService/FlushInventoryCache", "--method")
	assert.Equal(t, "POST "+request.DefaultPartnerHost+"IEconService/FlushInventoryCache/v1/\n", out)
}

func TestURLUsesStoredCredentials(t *testing.T) {
	c := newCLI(t)
	c.mustRun("credentials", "set", "--token", testToken, "--steamid", testSteamID)

	out := c.mustRun("url", "ISteamUser/GetFriendList", "-p", "include_relationship=true")
	assert.Equal(t,
		request.DefaultPublicHost+"ISteamUser/GetFriendList/v1/?access_token="+testToken+
			"&steamid="+testSteamID+"&include_relationship=true\n",
		out)
}

func TestURLFormatAndArrays(t *testing.T) {
	c := newCLI(t)

	out := c.mustRun("url", "IPlayerService/GetOwnedGames", "-p", "appids_filter[2]=570", "--format", "xml")
	assert.Equal(t,
		request.DefaultPublicHost+"IPlayerService/GetOwnedGames/v1/?format=xml&appids_filter%5B2%5D=570\n",
		out)

	// the one-off format is not stored
	out = c.mustRun("credentials", "show")
	assert.Contains(t, out, "format:       json")
}

func TestCommandErrors(t *testing.T) {
	tests := []struct {
		name    string
		args    []string
		wantErr string
	}{
		{"unknown method", []string{"url", "ISteamUser/Nope"}, "No method named ISteamUser/Nope"},
		{"unknown parameter", []string{"url", "ISteamUser/GetFriendList", "-p", "nope=1"}, "parameter nope not found"},
		{"malformed parameter", []string{"url", "ISteamUser/GetFriendList", "-p", "steamid"}, "want name=value"},
		{"bad boolean", []string{"url", "ISteamUser/GetFriendList", "-p", "include_relationship=maybe"}, "not a boolean"},
		{"array index too far", []string{"url", "IPlayerService/GetOwnedGames", "-p", "appids_filter[500]=1"}, "not found"},
		{"nothing to set", []string{"credentials", "set"}, "nothing to set"},
		{"toggle unknown", []string{"favorites", "toggle", "IFoo/Bar"}, "No method named IFoo/Bar"},
		{"bad export format", []string{"export", "openapi", "--format", "xml"}, "unknown export format"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := newCLI(t).run(tt.args...)
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.wantErr)
		})
	}
}

func TestMissingCatalog(t *testing.T) {
	c := newCLI(t)
	cmd := newRootCmd()
	cmd.SetOut(io.Discard)
	cmd.SetErr(io.Discard)
	cmd.SetArgs([]string{"search", "--config", c.config, "--state", c.state})

	err := cmd.Execute()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "No catalog configured")
}

func TestCatalogLoadFailure(t *testing.T) {
	c := newCLI(t)
	c.catalog = filepath.Join(t.TempDir(), "missing.json")

	_, err := c.run("search")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "Failed to load catalog")
}

func TestSearchCommand(t *testing.T) {
	c := newCLI(t)

	out := c.mustRun("search")
	assert.Equal(t, strings.Join([]string{
		"  ISteamUser (2)",
		"  IPlayerService (1)",
		"  IEconService (1)",
		"CSGO",
		"  IEconItems_730 (1)",
		"",
	}, "\n"), out)

	out = c.mustRun("search", "getownedgames")
	assert.True(t, strings.HasPrefix(out, "  IPlayerService\n    GetOwnedGames\n"), out)

	out = c.mustRun("search", "zzzzzzzzzzzz")
	assert.Equal(t, "no matches\n", out)

	out = c.mustRun("search", "--scores", "getownedgames")
	assert.Contains(t, out, "IPlayerService/GetOwnedGames")
}

func TestFavoritesCommands(t *testing.T) {
	c := newCLI(t)

	assert.Equal(t, "no favorites\n", c.mustRun("favorites", "list"))
	assert.Equal(t, "added IPlayerService/GetOwnedGames (1 favorites)\n", c.mustRun("favorites", "toggle", "IPlayerService/GetOwnedGames"))
	c.mustRun("fav", "toggle", "ISteamUser/GetFriendList")

	// catalog order, not insertion order
	assert.Equal(t, "ISteamUser/GetFriendList\nIPlayerService/GetOwnedGames\n", c.mustRun("favorites", "list"))

	out := c.mustRun("search")
	assert.True(t, strings.HasPrefix(out, "All interfaces\n"), out)

	assert.Equal(t, "removed ISteamUser/GetFriendList (1 favorites)\n", c.mustRun("favorites", "toggle", "ISteamUser/GetFriendList"))
}

func TestCredentialsCommands(t *testing.T) {
	c := newCLI(t)

	out := c.mustRun("credentials", "show")
	assert.Contains(t, out, "web api key:  (not set)")

	out = c.mustRun("credentials", "set", "--key", "nothex", "--steamid", testSteamID)
	assert.Contains(t, out, "web api key:  **thex (invalid, not saved)")
	assert.Contains(t, out, "steamid:      "+testSteamID)

	out = c.mustRun("creds", "show")
	assert.Contains(t, out, "web api key:  (not set)")
	assert.Contains(t, out, "steamid:      "+testSteamID)

	c.mustRun("credentials", "set", "--token", testToken)
	out = c.mustRun("credentials", "show")
	assert.Contains(t, out, "access token: "+strings.Repeat("*", 28)+"cdef")

	c.mustRun("credentials", "set", "--token", "")
	out = c.mustRun("credentials", "show")
	assert.Contains(t, out, "access token: (not set)")
}

func TestExportOpenAPI(t *testing.T) {
	c := newCLI(t)

	out := c.mustRun("export", "openapi", "--title", "Steam")
	assert.Contains(t, out, "openapi: 3.0.3")
	assert.Contains(t, out, "/ISteamUser/GetPlayerSummaries/v2/:")
	assert.NotContains(t, out, `"openapi"`)

	file := filepath.Join(t.TempDir(), "steam.json")
	c.mustRun("export", "openapi", "-o", file)
	data, err := os.ReadFile(file)
	require.NoError(t, err)
	assert.Contains(t, string(data), `"/IEconService/FlushInventoryCache/v1/"`)
	assert.Contains(t, string(data), `"title": "Steam Web API Documentation"`)
}

func TestExportFormat(t *testing.T) {
	tests := []struct {
		explicit, output, want string
	}{
		{"", "", "yaml"},
		{"", "doc.JSON", "json"},
		{"", "doc.yml", "yaml"},
		{"json", "doc.yaml", "json"},
		{"YML", "", "yaml"},
	}
	for _, tt := range tests {
		got, err := exportFormat(tt.explicit, tt.output)
		require.NoError(t, err)
		assert.Equal(t, tt.want, got, "%q %q", tt.explicit, tt.output)
	}
}

func TestMaskSecret(t *testing.T) {
	assert.Equal(t, "", maskSecret(""))
	assert.Equal(t, "***", maskSecret("abc"))
	assert.Equal(t, "****cdef", maskSecret("0123cdef"))
}

func TestVersionCommand(t *testing.T) {
	var out bytes.Buffer
	cmd := newRootCmd()
	cmd.SetOut(&out)
	cmd.SetArgs([]string{"version"})
	require.NoError(t, cmd.Execute())
	assert.Contains(t, out.String(), "steamdocs version dev")
}
