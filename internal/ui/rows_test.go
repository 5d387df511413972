package ui

import (
	"regexp"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"steamdocs/internal/model"
	"steamdocs/internal/request"
	"steamdocs/internal/selection"
	"steamdocs/internal/session"
	"steamdocs/internal/store"
)

var ansi = regexp.MustCompile(`\x1b\[[0-9;]*m`)

func plain(s string) string {
	return ansi.ReplaceAllString(s, "")
}

func plainRows(rows []row) []string {
	out := make([]string, len(rows))
	for i, r := range rows {
		out[i] = plain(r.text)
	}
	return out
}

func testCatalog() *model.Catalog {
	cat := model.NewCatalog()
	cat.AddMethod("ISteamUser", &model.Method{
		Name: "GetPlayerSummaries", HTTPMethod: "GET", Version: 2, Visibility: model.VisibilityPublic,
		Description: "Player profile data",
		Parameters:  []model.Parameter{{Name: "steamids", Type: model.TypeString}},
	})
	cat.AddMethod("ISteamUser", &model.Method{
		Name: "GetFriendList", HTTPMethod: "GET", Version: 1, Visibility: model.VisibilityPublic,
		Parameters: []model.Parameter{
			{Name: "steamid", Type: model.TypeUint64},
			{Name: "include_relationship", Type: model.TypeBool, Optional: true},
		},
	})
	cat.AddMethod("IPlayerService", &model.Method{
		Name: "GetOwnedGames", HTTPMethod: "GET", Version: 1, Visibility: model.VisibilityPublic,
		Parameters: []model.Parameter{{Name: "appids_filter[0]", Type: model.TypeUint32, Optional: true}},
	})
	cat.AddMethod("IEconItems_730", &model.Method{
		Name: "GetPlayerItems", HTTPMethod: "GET", Version: 1, Visibility: model.VisibilityPublic,
	})
	cat.AddMethod("IEconService", &model.Method{
		Name: "FlushInventoryCache", HTTPMethod: "POST", Version: 1, Visibility: model.VisibilityPublisherOnly,
	})
	return cat
}

type fakeClipboard struct {
	copied []string
}

func (c *fakeClipboard) write(s string) error {
	c.copied = append(c.copied, s)
	return nil
}

func newTestApp(t *testing.T, token string) (*App, *fakeClipboard) {
	t.Helper()
	sess := session.New(testCatalog(), store.NewMemoryStore(), session.Options{ProductTitle: "Docs"})
	clip := &fakeClipboard{}
	a := NewApp(sess, Options{Clipboard: clip.write})
	sess.Start(token)
	refresh(a)
	return a, clip
}

// refresh rebuilds rows and applies queued effects the way a layout pass does.
func refresh(a *App) {
	a.sideRows = sidebarRows(a.sess.Sidebar(), a.sess.Favorites(), a.sess.State())
	a.sideSel = clampSelectable(a.sideRows, a.sideSel)
	a.methRows = methodRows(a.sess)
	a.methSel = clampSelectable(a.methRows, a.methSel)
	for _, e := range a.sess.DrainEffects() {
		a.applyEffect(e)
	}
}

func TestSidebarRowsGrouped(t *testing.T) {
	a, _ := newTestApp(t, "#ISteamUser")

	assert.Equal(t, []string{
		"▸ ISteamUser",
		"  IPlayerService",
		"  IEconService",
		"CSGO",
		"  IEconItems_730",
		"Dota",
		"Other Games",
	}, plainRows(a.sideRows))
}

func TestSidebarRowsWithFavorites(t *testing.T) {
	a, _ := newTestApp(t, "")
	_, err := a.sess.ToggleFavorite("IPlayerService", "GetOwnedGames")
	require.NoError(t, err)
	refresh(a)

	got := plainRows(a.sideRows)
	require.GreaterOrEqual(t, len(got), 4)
	assert.Equal(t, []string{"Favorites", "  ★ IPlayerService/GetOwnedGames", "All interfaces"}, got[:3])
	assert.Equal(t, rowFavorite, a.sideRows[1].kind)
	assert.Equal(t, "#IPlayerService/GetOwnedGames", a.sideRows[1].token())
}

func TestSidebarRowsFiltering(t *testing.T) {
	rows := sidebarRows(nil, nil, selection.State{Filter: "zzz"})
	assert.Equal(t, []string{"no matches"}, plainRows(rows))

	a, _ := newTestApp(t, "")
	a.sess.SetFilter("getownedgames")
	refresh(a)

	got := plainRows(a.sideRows)
	require.NotEmpty(t, got)
	assert.Equal(t, "  IPlayerService", got[0])
	assert.Equal(t, "    GetOwnedGames", got[1])
	assert.NotContains(t, got, "Favorites")
	assert.Equal(t, "#IPlayerService/GetOwnedGames", a.sideRows[1].token())
}

func TestMethodRows(t *testing.T) {
	a, _ := newTestApp(t, "#ISteamUser")

	got := plainRows(a.methRows)
	assert.Equal(t, "  GET  GetPlayerSummaries v2", got[0])
	assert.Equal(t, "    Player profile data", got[1])
	assert.Equal(t, "    steamids* (string) = ", got[2])
	assert.Equal(t, "    "+request.DefaultPublicHost+"ISteamUser/GetPlayerSummaries/v2/", got[3])
	assert.Contains(t, got, "    include_relationship (bool) = unset")

	assert.Equal(t, rowMethod, a.methRows[0].kind)
	assert.Equal(t, rowParam, a.methRows[2].kind)
	assert.Equal(t, "steamids", a.methRows[2].param)
	assert.Equal(t, rowURL, a.methRows[3].kind)
}

func TestMethodRowsIntro(t *testing.T) {
	a, _ := newTestApp(t, "")
	for _, r := range a.methRows {
		assert.False(t, r.selectable())
	}
	assert.Contains(t, plain(a.methRows[len(a.methRows)-1].text), "no credentials")

	require.NoError(t, a.sess.SetField(session.FieldAPIKey, strings.Repeat("b", 32)))
	refresh(a)
	assert.Contains(t, plain(a.methRows[len(a.methRows)-1].text), "web api key set")
}

func TestMethodHeaderMarks(t *testing.T) {
	m := &model.Method{Name: "FlushInventoryCache", HTTPMethod: "POST", Version: 1, Visibility: model.VisibilityPublisherOnly, IsFavorite: true}
	assert.Equal(t, "★ POST FlushInventoryCache v1  publisher only", plain(methodHeader(m)))
}

func TestSelectableNavigation(t *testing.T) {
	rows := []row{
		{kind: rowLabel},
		{kind: rowInterface, iface: "A"},
		{kind: rowText},
		{kind: rowInterface, iface: "B"},
		{kind: rowLabel},
	}

	assert.Equal(t, 1, firstSelectable(rows))
	assert.Equal(t, 3, nextSelectable(rows, 1, 1))
	assert.Equal(t, 3, nextSelectable(rows, 3, 1), "stays at the last selectable row")
	assert.Equal(t, 1, nextSelectable(rows, 3, -1))
	assert.Equal(t, 1, clampSelectable(rows, 0))
	assert.Equal(t, 3, clampSelectable(rows, 2))
	assert.Equal(t, 3, clampSelectable(rows, 99))
	assert.Equal(t, 0, clampSelectable(nil, 5))
	assert.Equal(t, 3, findRow(rows, rowInterface, "B", ""))
	assert.Equal(t, -1, findRow(rows, rowInterface, "C", ""))
}

func TestScrollOrigin(t *testing.T) {
	tests := []struct {
		name            string
		sel, top, oy, h int
		want            int
	}{
		{"visible", 3, -1, 0, 10, 0},
		{"above", 2, -1, 5, 10, 2},
		{"below", 15, -1, 0, 10, 6},
		{"pinned", 12, 12, 0, 10, 12},
		{"pinned above selection", 3, 8, 0, 10, 3},
		{"unknown height", 40, -1, 0, 0, 0},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, scrollOrigin(tt.sel, tt.top, tt.oy, tt.h))
		})
	}
}

func TestHighlight(t *testing.T) {
	assert.Equal(t, "abc", highlight("abc", nil))
	assert.Equal(t, "a"+colorYellow+"b"+colorReset+"c", highlight("abc", []int{1}))
}

func TestCredLine(t *testing.T) {
	fields := credFields(session.UserData{APIKey: "short", SteamID: "76561197960287930", Format: "json"})
	require.Len(t, fields, 4)

	assert.Equal(t, "> Web API key   ***** invalid, not saved", plain(credLine(fields[0], true, false)))
	assert.Equal(t, "> Web API key   short invalid, not saved", plain(credLine(fields[0], true, true)))
	assert.Equal(t, "  Access token   (empty)", plain(credLine(fields[1], false, false)))
	assert.Equal(t, "  SteamID       76561197960287930 ok", plain(credLine(fields[2], false, true)))
	assert.Equal(t, 1, credIndex(selection.FieldAccessToken))
	assert.Equal(t, 0, credIndex(selection.FieldAPIKey))
}
