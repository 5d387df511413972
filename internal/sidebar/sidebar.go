// Package sidebar derives the filtered and grouped interface listings shown
// next to the method pane.
package sidebar

import (
	"regexp"
	"strings"

	"steamdocs/internal/model"
	"steamdocs/internal/search"
)

const (
	LabelAll   = "All interfaces"
	LabelCSGO  = "CSGO"
	LabelDota  = "Dota"
	LabelGames = "Other Games"
)

var gameSuffix = regexp.MustCompile(`_[0-9]+$`)

type Group struct {
	Label   string
	Catalog *model.Catalog
}

// Active reports whether filter narrows the catalog.
func Active(filter string) bool {
	return strings.TrimSpace(filter) != ""
}

// FilteredView returns cat itself when filter is blank. Otherwise it runs
// the filter through idx, with "/" acting as OR, and builds a new catalog
// in rank order. Methods are shared with cat.
func FilteredView(cat *model.Catalog, idx *search.Index, filter string) *model.Catalog {
	if !Active(filter) {
		return cat
	}

	out := model.NewCatalog()
	for _, r := range idx.Search(strings.ReplaceAll(filter, "/", "|")) {
		m, ok := cat.Method(r.Entry.Interface, r.Entry.Method)
		if !ok {
			continue
		}
		out.AddMethod(r.Entry.Interface, m)
	}
	return out
}

// Classify names the group an interface belongs to when no filter is
// active. The first matching rule wins; "" is the default group.
func Classify(name string) string {
	switch {
	case strings.HasSuffix(name, "_730"):
		return LabelCSGO
	case strings.HasSuffix(name, "_570"):
		return LabelDota
	case gameSuffix.MatchString(name):
		return LabelGames
	}
	return ""
}

// Groups partitions filtered for display. With an active filter there is a
// single unlabelled group; otherwise the four fixed groups are always
// returned, empty or not.
func Groups(filtered *model.Catalog, favoritesCount int, filter string) []Group {
	if Active(filter) {
		return []Group{{Label: "", Catalog: filtered}}
	}

	defaultLabel := ""
	if favoritesCount > 0 {
		defaultLabel = LabelAll
	}
	groups := []Group{
		{Label: defaultLabel, Catalog: model.NewCatalog()},
		{Label: LabelCSGO, Catalog: model.NewCatalog()},
		{Label: LabelDota, Catalog: model.NewCatalog()},
		{Label: LabelGames, Catalog: model.NewCatalog()},
	}
	for _, iface := range filtered.Interfaces() {
		var target int
		switch Classify(iface.Name) {
		case LabelCSGO:
			target = 1
		case LabelDota:
			target = 2
		case LabelGames:
			target = 3
		}
		groups[target].Catalog.Add(iface)
	}
	return groups
}

// Favorites lists favorite methods in catalog order.
func Favorites(cat *model.Catalog) []model.SearchEntry {
	var out []model.SearchEntry
	for _, iface := range cat.Interfaces() {
		for _, m := range iface.Methods() {
			if m.IsFavorite {
				out = append(out, model.SearchEntry{Interface: iface.Name, Method: m.Name})
			}
		}
	}
	return out
}
