// Package session owns the browsing state for one user: catalog, search
// index, selection, favorites, parameter input and stored credentials.
//
// All methods must be called from a single goroutine.
package session

import (
	"fmt"

	"github.com/rs/zerolog"

	"steamdocs/internal/errors"
	"steamdocs/internal/favorites"
	"steamdocs/internal/model"
	"steamdocs/internal/request"
	"steamdocs/internal/search"
	"steamdocs/internal/selection"
	"steamdocs/internal/sidebar"
	"steamdocs/internal/store"
)

type Options struct {
	Hosts        request.Hosts
	ProductTitle string
	// TitleFunc receives the page title whenever the interface changes.
	TitleFunc func(title string)
	// Immediate receives non-title effects that must apply right away.
	// Without it they are queued with the deferred ones.
	Immediate func(selection.Effect)
	Logger    *zerolog.Logger
}

// UserData is what the user typed into the credentials form.
type UserData struct {
	APIKey      string
	AccessToken string
	SteamID     string
	Format      string
}

type Session struct {
	cat       *model.Catalog
	index     *search.Index
	store     store.Store
	favorites *favorites.Tracker
	overlay   *request.Overlay
	opts      Options
	logger    zerolog.Logger

	state    selection.State
	user     UserData
	watchers map[Field][]Watcher
	pending  []selection.Effect

	filteredFor string
	filtered    *model.Catalog
}

func New(cat *model.Catalog, st store.Store, opts Options) *Session {
	if opts.Hosts == (request.Hosts{}) {
		opts.Hosts = request.DefaultHosts()
	}
	logger := zerolog.Nop()
	if opts.Logger != nil {
		logger = opts.Logger.With().Str("component", "session").Logger()
	}

	s := &Session{
		cat:       cat,
		index:     search.Build(cat.Entries()),
		store:     st,
		favorites: favorites.New(cat, st, opts.Logger),
		overlay:   request.NewOverlay(),
		opts:      opts,
		logger:    logger,
		user:      UserData{Format: request.DefaultFormat},
		filtered:  cat,
	}
	s.watchers = defaultWatchers()
	return s
}

// Start restores stored user data and favorites, then selects the method
// named by token. Bad stored data is logged and skipped.
func (s *Session) Start(token string) {
	s.user = UserData{
		APIKey:      s.stored(store.KeyWebAPIKey),
		AccessToken: s.stored(store.KeyAccessToken),
		SteamID:     s.stored(store.KeySteamID),
		Format:      s.stored(store.KeyFormat),
	}
	if s.user.Format == "" {
		s.user.Format = request.DefaultFormat
	}
	if request.ValidSteamID(s.user.SteamID) {
		s.overlay.FillSteamID(s.cat, s.user.SteamID)
	}
	s.favorites.Load()

	s.logger.Debug().
		Int("interfaces", s.cat.Len()).
		Int("favorites", s.favorites.Count()).
		Str("token", token).
		Msg("session started")
	s.SetToken(token)
}

func (s *Session) stored(key string) string {
	v, _, err := s.store.Get(key)
	if err != nil {
		s.logger.Warn().Err(err).Str("key", key).Msg("read stored value")
		return ""
	}
	return v
}

// OnTitle replaces the title callback.
func (s *Session) OnTitle(f func(title string)) {
	s.opts.TitleFunc = f
}

// OnEffect replaces the handler for immediate non-title effects.
func (s *Session) OnEffect(f func(selection.Effect)) {
	s.opts.Immediate = f
}

func (s *Session) SetToken(token string) {
	next, effects := selection.SetFromToken(s.cat, s.state, token)
	s.apply(next, effects)
}

func (s *Session) SetFilter(text string) {
	next, effects := selection.SetFilter(s.state, text)
	s.apply(next, effects)
}

// Navigate moves to the next (+1) or previous (-1) interface of the
// filtered view.
func (s *Session) Navigate(direction int) {
	next, effects := selection.Navigate(s.state, s.Filtered().Names(), direction)
	s.apply(next, effects)
}

func (s *Session) FocusCredentials() {
	next, effects := selection.FocusCredentials(s.state, request.ValidAccessToken(s.user.AccessToken))
	s.apply(next, effects)
}

func (s *Session) ToggleFavorite(iface, method string) (bool, error) {
	return s.favorites.Toggle(iface, method)
}

func (s *Session) apply(next selection.State, effects []selection.Effect) {
	s.state = next
	for _, e := range effects {
		switch {
		case e.Deferred:
			s.pending = append(s.pending, e)
		case e.Kind == selection.EffectTitle:
			if s.opts.TitleFunc != nil {
				s.opts.TitleFunc(selection.Title(e.Target, s.opts.ProductTitle))
			}
		case s.opts.Immediate != nil:
			s.opts.Immediate(e)
		default:
			s.pending = append(s.pending, e)
		}
	}
}

// DrainEffects returns queued effects in the order they were raised and
// empties the queue. Call it after each render.
func (s *Session) DrainEffects() []selection.Effect {
	out := s.pending
	s.pending = nil
	return out
}

func (s *Session) State() selection.State {
	return s.state
}

func (s *Session) Catalog() *model.Catalog {
	return s.cat
}

func (s *Session) Title() string {
	return selection.Title(s.state.Interface, s.opts.ProductTitle)
}

// Filtered is the catalog narrowed by the current filter. The result is
// cached until the filter changes.
func (s *Session) Filtered() *model.Catalog {
	if s.filteredFor != s.state.Filter {
		s.filtered = sidebar.FilteredView(s.cat, s.index, s.state.Filter)
		s.filteredFor = s.state.Filter
	}
	return s.filtered
}

func (s *Session) Sidebar() []sidebar.Group {
	return sidebar.Groups(s.Filtered(), s.favorites.Count(), s.state.Filter)
}

func (s *Session) Favorites() []model.SearchEntry {
	return sidebar.Favorites(s.cat)
}

func (s *Session) FavoriteCount() int {
	return s.favorites.Count()
}

// Search exposes ranked results for the CLI.
func (s *Session) Search(query string) []search.Result {
	return s.index.Search(query)
}

func (s *Session) CurrentInterface() (*model.Interface, bool) {
	return s.cat.Interface(s.state.Interface)
}

func (s *Session) method(iface, method string) (*model.Method, error) {
	m, ok := s.cat.Method(iface, method)
	if !ok {
		return nil, errors.NewNotFoundError("method", model.QualifiedName(iface, method))
	}
	return m, nil
}

func (s *Session) Parameters(iface, method string) []model.Parameter {
	m, _ := s.cat.Method(iface, method)
	return s.overlay.Parameters(iface, method, m)
}

func (s *Session) ParamValue(iface, method, param string) string {
	return s.overlay.Value(iface, method, param)
}

func (s *Session) ParamToggled(iface, method, param string) bool {
	return s.overlay.Toggled(iface, method, param)
}

func (s *Session) SetParam(iface, method, param, value string) {
	s.overlay.SetValue(iface, method, param, value)
}

func (s *Session) SetBool(iface, method, param string, on bool) {
	s.overlay.SetBool(iface, method, param, on)
}

func (s *Session) ResetParams(iface, method string) {
	s.overlay.Reset(iface, method)
}

func (s *Session) ExpandArray(iface, method, param string) (model.Parameter, error) {
	m, err := s.method(iface, method)
	if err != nil {
		return model.Parameter{}, err
	}
	return s.overlay.ExpandArray(iface, method, m, param)
}

func (s *Session) User() UserData {
	return s.user
}

func (s *Session) Credentials() request.Credentials {
	return request.Credentials{APIKey: s.user.APIKey, AccessToken: s.user.AccessToken}
}

// Call renders the request for iface/method with everything entered so far.
func (s *Session) Call(iface, method string) (request.Call, error) {
	return s.CallFormat(iface, method, s.user.Format)
}

// CallFormat is Call with a one-off response format; the stored format is
// left alone.
func (s *Session) CallFormat(iface, method, format string) (request.Call, error) {
	m, err := s.method(iface, method)
	if err != nil {
		return request.Call{}, err
	}
	return request.Build(s.opts.Hosts, s.Credentials(), format, s.overlay, iface, method, m), nil
}

func (s *Session) URL(iface, method string) (string, error) {
	call, err := s.Call(iface, method)
	if err != nil {
		return "", fmt.Errorf("render url: %w", err)
	}
	return call.URL, nil
}
