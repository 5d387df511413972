package session

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"steamdocs/internal/errors"
	"steamdocs/internal/logging"
	"steamdocs/internal/model"
	"steamdocs/internal/request"
	"steamdocs/internal/selection"
	"steamdocs/internal/store"
)

const (
	product = "Steam Web API Documentation"
	steamID = "76561197960287930"
)

var hex = strings.Repeat("a", 32)

func testCatalog() *model.Catalog {
	cat := model.NewCatalog()
	cat.AddMethod("ISteamUser", &model.Method{
		Name: "GetPlayerSummaries", HTTPMethod: "GET", Version: 2, Visibility: model.VisibilityPublic,
		Parameters: []model.Parameter{{Name: "steamids", Type: model.TypeString}},
	})
	cat.AddMethod("ISteamUser", &model.Method{
		Name: "GetFriendList", HTTPMethod: "GET", Version: 1, Visibility: model.VisibilityPublic,
		Parameters: []model.Parameter{{Name: "steamid", Type: model.TypeUint64}},
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

type harness struct {
	*Session
	store  *store.MemoryStore
	titles []string
}

func newHarness(t *testing.T, seed map[string]string) *harness {
	t.Helper()
	st := store.NewMemoryStore()
	for k, v := range seed {
		require.NoError(t, st.Set(k, v))
	}
	h := &harness{store: st}
	h.Session = New(testCatalog(), st, Options{
		ProductTitle: product,
		TitleFunc:    func(title string) { h.titles = append(h.titles, title) },
		Logger:       logging.NewTestLogger(t).Logger,
	})
	return h
}

func TestStartRestoresUserData(t *testing.T) {
	h := newHarness(t, map[string]string{
		store.KeyWebAPIKey: hex,
		store.KeySteamID:   steamID,
		store.KeyFavorites: `["ISteamUser/GetPlayerSummaries","IGone/Nope"]`,
	})
	h.Start("#ISteamUser/GetPlayerSummaries")

	assert.Equal(t, selection.State{Interface: "ISteamUser", Method: "GetPlayerSummaries"}, h.State())
	assert.Equal(t, UserData{APIKey: hex, SteamID: steamID, Format: "json"}, h.User())
	assert.Equal(t, []string{"ISteamUser – " + product}, h.titles)
	assert.Equal(t, 1, h.FavoriteCount())
	assert.Equal(t, []model.SearchEntry{{Interface: "ISteamUser", Method: "GetPlayerSummaries"}}, h.Favorites())
	assert.Equal(t, steamID, h.ParamValue("ISteamUser", "GetFriendList", "steamid"), "stored steamid fills parameters")

	assert.Equal(t, []selection.Effect{
		{Kind: selection.EffectScrollPageTop},
		{Kind: selection.EffectScrollTo, Target: "ISteamUser/GetPlayerSummaries", Deferred: true},
	}, h.DrainEffects())
	assert.Empty(t, h.DrainEffects())
}

func TestStartSurvivesMalformedFavorites(t *testing.T) {
	h := newHarness(t, map[string]string{store.KeyFavorites: "[not json", store.KeyFormat: "xml"})
	h.Start("#Unknown")

	assert.Equal(t, selection.State{}, h.State())
	assert.Equal(t, 0, h.FavoriteCount())
	assert.Equal(t, "xml", h.User().Format)
	assert.Empty(t, h.titles)
}

func TestSetFieldWatchers(t *testing.T) {
	h := newHarness(t, nil)
	h.Start("")

	require.NoError(t, h.SetField(FieldAPIKey, hex))
	v, ok, _ := h.store.Get(store.KeyWebAPIKey)
	assert.True(t, ok)
	assert.Equal(t, hex, v)

	require.NoError(t, h.SetField(FieldAPIKey, "short"))
	_, ok, _ = h.store.Get(store.KeyWebAPIKey)
	assert.False(t, ok, "invalid key removes stored copy")
	assert.Equal(t, "short", h.User().APIKey, "invalid input is kept")

	require.NoError(t, h.SetField(FieldFormat, "vdf"))
	v, _, _ = h.store.Get(store.KeyFormat)
	assert.Equal(t, "vdf", v)

	require.NoError(t, h.SetField(FieldSteamID, "123"))
	assert.Equal(t, "", h.ParamValue("ISteamUser", "GetFriendList", "steamid"))
	_, ok, _ = h.store.Get(store.KeySteamID)
	assert.False(t, ok)

	require.NoError(t, h.SetField(FieldSteamID, steamID))
	assert.Equal(t, steamID, h.ParamValue("ISteamUser", "GetFriendList", "steamid"))
	assert.Equal(t, steamID, h.ParamValue("ISteamUser", "GetPlayerSummaries", "steamids"))

	assert.Error(t, h.SetField(Field("nope"), "x"))
}

func TestWatchAppendsHook(t *testing.T) {
	h := newHarness(t, nil)
	var seen []string
	h.Watch(FieldAccessToken, func(_ *Session, value string) error {
		seen = append(seen, value)
		return nil
	})

	require.NoError(t, h.SetField(FieldAccessToken, hex))
	assert.Equal(t, []string{hex}, seen)
	v, _, _ := h.store.Get(store.KeyAccessToken)
	assert.Equal(t, hex, v, "built-in watcher still runs")
}

func TestFilterAndNavigate(t *testing.T) {
	h := newHarness(t, nil)
	h.Start("#ISteamUser")
	h.DrainEffects()

	h.SetFilter("getownedgames")
	assert.Equal(t, "", h.State().Interface)
	assert.Equal(t, "IPlayerService", h.Filtered().Names()[0])
	require.Len(t, h.Sidebar(), 1)

	h.Navigate(1)
	assert.Equal(t, h.Filtered().Names()[0], h.State().Interface)

	h.SetFilter("")
	assert.Same(t, h.Catalog(), h.Filtered())
	assert.Len(t, h.Sidebar(), 4)
	effects := h.DrainEffects()
	assert.Equal(t, selection.Effect{Kind: selection.EffectScrollSidebarTo, Target: h.State().Interface, Deferred: true}, effects[len(effects)-1])

	start := h.State().Interface
	h.Navigate(1)
	h.Navigate(-1)
	assert.Equal(t, start, h.State().Interface)
}

func TestImmediateEffects(t *testing.T) {
	h := newHarness(t, nil)
	var immediate []selection.Effect
	h.opts.Immediate = func(e selection.Effect) { immediate = append(immediate, e) }

	h.SetToken("#ISteamUser")
	assert.Equal(t, []selection.Effect{{Kind: selection.EffectScrollPageTop}}, immediate)
	assert.Equal(t, []selection.Effect{{Kind: selection.EffectScrollTo, Target: "ISteamUser/", Deferred: true}}, h.DrainEffects())
}

func TestFocusCredentials(t *testing.T) {
	h := newHarness(t, nil)
	h.Start("#ISteamUser")
	require.NoError(t, h.SetField(FieldAccessToken, hex))
	h.DrainEffects()

	h.FocusCredentials()
	assert.Equal(t, selection.State{}, h.State())
	assert.Equal(t, product, h.Title())
	effects := h.DrainEffects()
	assert.Equal(t, selection.Effect{Kind: selection.EffectFocus, Target: selection.FieldAccessToken, Deferred: true}, effects[len(effects)-1])
}

func TestToggleFavoriteUpdatesGroups(t *testing.T) {
	h := newHarness(t, nil)
	h.Start("")
	assert.Equal(t, "", h.Sidebar()[0].Label)

	on, err := h.ToggleFavorite("IPlayerService", "GetOwnedGames")
	require.NoError(t, err)
	assert.True(t, on)
	assert.Equal(t, "All interfaces", h.Sidebar()[0].Label)

	_, err = h.ToggleFavorite("IPlayerService", "Nope")
	assert.ErrorIs(t, err, errors.ErrNotFound)
}

func TestURL(t *testing.T) {
	h := newHarness(t, nil)
	h.Start("")
	require.NoError(t, h.SetField(FieldAccessToken, hex))
	h.SetParam("ISteamUser", "GetPlayerSummaries", "steamids", steamID)

	url, err := h.URL("ISteamUser", "GetPlayerSummaries")
	require.NoError(t, err)
	assert.Equal(t, "https://api.steampowered.com/ISteamUser/GetPlayerSummaries/v2/?access_token="+hex+"&steamids="+steamID, url)

	call, err := h.Call("IEconService", "FlushInventoryCache")
	require.NoError(t, err)
	assert.Equal(t, "POST", call.Method)
	assert.True(t, strings.HasPrefix(call.URL, request.DefaultPartnerHost))

	_, err = h.URL("ISteamUser", "Nope")
	assert.ErrorIs(t, err, errors.ErrNotFound)
}

func TestCallFormatLeavesStoredFormat(t *testing.T) {
	h := newHarness(t, nil)
	h.Start("")

	call, err := h.CallFormat("IEconItems_730", "GetPlayerItems", "xml")
	require.NoError(t, err)
	assert.Equal(t, request.DefaultPublicHost+"IEconItems_730/GetPlayerItems/v1/?format=xml", call.URL)
	assert.Equal(t, request.DefaultFormat, h.User().Format)
	assert.Zero(t, h.store.Writes())
}

func TestExpandArrayAndReset(t *testing.T) {
	h := newHarness(t, nil)
	h.Start("")

	p, err := h.ExpandArray("IPlayerService", "GetOwnedGames", "appids_filter[0]")
	require.NoError(t, err)
	assert.Equal(t, "appids_filter[1]", p.Name)
	assert.Len(t, h.Parameters("IPlayerService", "GetOwnedGames"), 2)

	h.SetBool("IPlayerService", "GetOwnedGames", "appids_filter[1]", true)
	assert.True(t, h.ParamToggled("IPlayerService", "GetOwnedGames", "appids_filter[1]"))

	h.ResetParams("IPlayerService", "GetOwnedGames")
	assert.Len(t, h.Parameters("IPlayerService", "GetOwnedGames"), 1)

	_, err = h.ExpandArray("IGone", "X", "a[0]")
	assert.ErrorIs(t, err, errors.ErrNotFound)
}
