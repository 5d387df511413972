// Package favorites keeps the set of favorite methods in step with the
// IsFavorite flag on the catalog and persists it after every change.
package favorites

import (
	"encoding/json"
	"fmt"
	"strings"

	"github.com/rs/zerolog"

	"steamdocs/internal/errors"
	"steamdocs/internal/model"
	"steamdocs/internal/store"
)

type Tracker struct {
	cat    *model.Catalog
	store  store.Store
	logger zerolog.Logger

	names []string
	index map[string]int
}

func New(cat *model.Catalog, st store.Store, logger *zerolog.Logger) *Tracker {
	t := &Tracker{
		cat:    cat,
		store:  st,
		logger: zerolog.Nop(),
		index:  map[string]int{},
	}
	if logger != nil {
		t.logger = logger.With().Str("component", "favorites").Logger()
	}
	return t
}

// Load hydrates from the store. Unreadable or malformed data is logged
// and treated as an empty list.
func (t *Tracker) Load() {
	raw, ok, err := t.store.Get(store.KeyFavorites)
	if err != nil {
		t.logger.Warn().Err(err).Msg("read favorites")
		return
	}
	if !ok || strings.TrimSpace(raw) == "" {
		return
	}

	var names []string
	if err := json.Unmarshal([]byte(raw), &names); err != nil {
		t.logger.Warn().Err(err).Msg("malformed favorites ignored")
		return
	}
	t.Hydrate(names)
}

// Hydrate marks every persisted name that still exists in the catalog.
// Stale names are dropped.
func (t *Tracker) Hydrate(persisted []string) {
	for _, name := range persisted {
		iface, method := split(name)
		m, ok := t.cat.Method(iface, method)
		if !ok {
			t.logger.Debug().Str("favorite", name).Msg("dropping stale favorite")
			continue
		}
		m.IsFavorite = true
		t.add(model.QualifiedName(iface, method))
	}
}

// Toggle flips the favorite state of iface/method, persists the full set
// and returns the new state.
func (t *Tracker) Toggle(iface, method string) (bool, error) {
	m, ok := t.cat.Method(iface, method)
	if !ok {
		return false, errors.NewNotFoundError("method", model.QualifiedName(iface, method))
	}

	name := model.QualifiedName(iface, method)
	m.IsFavorite = !m.IsFavorite
	if m.IsFavorite {
		t.add(name)
	} else {
		t.remove(name)
	}

	if err := t.persist(); err != nil {
		return m.IsFavorite, fmt.Errorf("persist favorites: %w", err)
	}
	return m.IsFavorite, nil
}

func (t *Tracker) Count() int {
	return len(t.names)
}

func (t *Tracker) Contains(iface, method string) bool {
	_, ok := t.index[model.QualifiedName(iface, method)]
	return ok
}

// List returns qualified names in the order they were added.
func (t *Tracker) List() []string {
	return append([]string(nil), t.names...)
}

func (t *Tracker) persist() error {
	names := t.names
	if names == nil {
		names = []string{}
	}
	data, err := json.Marshal(names)
	if err != nil {
		return err
	}
	return t.store.Set(store.KeyFavorites, string(data))
}

func (t *Tracker) add(name string) {
	if _, ok := t.index[name]; ok {
		return
	}
	t.index[name] = len(t.names)
	t.names = append(t.names, name)
}

func (t *Tracker) remove(name string) {
	i, ok := t.index[name]
	if !ok {
		return
	}
	t.names = append(t.names[:i], t.names[i+1:]...)
	delete(t.index, name)
	for j := i; j < len(t.names); j++ {
		t.index[t.names[j]] = j
	}
}

// split mirrors location tokens: anything after a second "/" is ignored.
func split(name string) (iface, method string) {
	parts := strings.SplitN(name, "/", 3)
	if len(parts) < 2 {
		return parts[0], ""
	}
	return parts[0], parts[1]
}
