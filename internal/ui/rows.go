package ui

import (
	"fmt"
	"strings"

	"steamdocs/internal/model"
	"steamdocs/internal/request"
	"steamdocs/internal/search"
	"steamdocs/internal/selection"
	"steamdocs/internal/session"
	"steamdocs/internal/sidebar"
)

type rowKind int

const (
	rowText rowKind = iota
	rowLabel
	rowFavorite
	rowInterface
	rowMethod
	rowParam
	rowURL
)

// row is one rendered line of the sidebar or method pane, with enough
// identity to act on it.
type row struct {
	kind   rowKind
	iface  string
	method string
	param  string
	text   string
}

func (r row) selectable() bool {
	return r.kind != rowText && r.kind != rowLabel
}

func (r row) token() string {
	if r.method == "" {
		return "#" + r.iface
	}
	return "#" + model.QualifiedName(r.iface, r.method)
}

// sidebarRows lists favorites (only while not filtering), then every group
// with its interfaces. While filtering, matched methods are listed under
// their interface.
func sidebarRows(groups []sidebar.Group, favorites []model.SearchEntry, st selection.State) []row {
	var rows []row
	filtering := st.Filtering()
	query := strings.ReplaceAll(st.Filter, "/", "|")

	if !filtering && len(favorites) > 0 {
		rows = append(rows, row{kind: rowLabel, text: colorYellow + "Favorites" + colorReset})
		for _, f := range favorites {
			rows = append(rows, row{
				kind:   rowFavorite,
				iface:  f.Interface,
				method: f.Method,
				text:   "  " + colorYellow + "★" + colorReset + " " + f.String(),
			})
		}
	}

	for _, g := range groups {
		if g.Label != "" {
			rows = append(rows, row{kind: rowLabel, text: colorDim + g.Label + colorReset})
		}
		for _, iface := range g.Catalog.Interfaces() {
			marker := "  "
			if iface.Name == st.Interface {
				marker = colorGreen + "▸ " + colorReset
			}
			name := iface.Name
			if filtering {
				name = highlight(name, search.Highlight(query, name))
			}
			rows = append(rows, row{kind: rowInterface, iface: iface.Name, text: marker + name})
			if !filtering {
				continue
			}
			for _, m := range iface.Methods() {
				rows = append(rows, row{
					kind:   rowMethod,
					iface:  iface.Name,
					method: m.Name,
					text:   "    " + highlight(m.Name, search.Highlight(query, m.Name)),
				})
			}
		}
	}

	if filtering && len(rows) == 0 {
		rows = append(rows, row{kind: rowText, text: colorDim + "no matches" + colorReset})
	}
	return rows
}

// methodRows renders the current interface: per method a header, its
// parameters and the request URL. Without an interface it shows a short
// introduction instead.
func methodRows(s *session.Session) []row {
	iface, ok := s.CurrentInterface()
	if !ok {
		return introRows(s.User())
	}

	var rows []row
	for _, m := range iface.Methods() {
		rows = append(rows, row{kind: rowMethod, iface: iface.Name, method: m.Name, text: methodHeader(m)})
		if m.Description != "" {
			rows = append(rows, row{kind: rowText, iface: iface.Name, method: m.Name, text: "    " + colorDim + m.Description + colorReset})
		}

		params := s.Parameters(iface.Name, m.Name)
		if len(params) == 0 {
			rows = append(rows, row{kind: rowText, iface: iface.Name, method: m.Name, text: "    " + colorDim + "(no parameters)" + colorReset})
		}
		for _, p := range params {
			rows = append(rows, row{
				kind:   rowParam,
				iface:  iface.Name,
				method: m.Name,
				param:  p.Name,
				text:   paramText(p, s.ParamValue(iface.Name, m.Name, p.Name), s.ParamToggled(iface.Name, m.Name, p.Name)),
			})
		}

		if u, err := s.URL(iface.Name, m.Name); err == nil {
			rows = append(rows, row{kind: rowURL, iface: iface.Name, method: m.Name, text: "    " + colorCyan + u + colorReset})
		}
		rows = append(rows, row{kind: rowText, iface: iface.Name, method: m.Name})
	}
	return rows
}

func methodHeader(m *model.Method) string {
	star := " "
	if m.IsFavorite {
		star = colorYellow + "★" + colorReset
	}
	vis := ""
	if m.Visibility == model.VisibilityPublisherOnly {
		vis = "  " + colorRed + "publisher only" + colorReset
	}
	return fmt.Sprintf("%s %s %s%s%s v%d%s", star, colorizeMethod(m.HTTPMethod), colorBold, m.Name, colorReset, m.Version, vis)
}

func paramText(p model.Parameter, value string, toggled bool) string {
	name := p.Name
	if !p.Optional {
		name += colorRed + "*" + colorReset
	}

	var val string
	switch {
	case p.IsBool() && !toggled:
		val = colorDim + "unset" + colorReset
	case value == "":
		val = ""
	default:
		val = colorGreen + value + colorReset
	}

	desc := ""
	if p.Description != "" {
		desc = "  " + colorDim + p.Description + colorReset
	}
	return fmt.Sprintf("    %s %s(%s)%s = %s%s", name, colorDim, p.Type, colorReset, val, desc)
}

func introRows(u session.UserData) []row {
	auth := colorYellow + "no credentials" + colorReset + " (ctrl+k to add a Web API key or access token)"
	switch {
	case request.ValidAccessToken(u.AccessToken):
		auth = colorGreen + "access token set" + colorReset
	case request.ValidAPIKey(u.APIKey):
		auth = colorGreen + "web api key set" + colorReset
	}
	lines := []string{
		"Select an interface on the left or start typing to filter.",
		"",
		"  ctrl+n / ctrl+p   next / previous interface",
		"  enter             select, edit a parameter",
		"  f  y  +  d        favorite, copy url, add array item, reset",
		"  ctrl+r            send the request",
		"",
		"credentials: " + auth,
	}
	rows := make([]row, len(lines))
	for i, l := range lines {
		rows[i] = row{kind: rowText, text: l}
	}
	return rows
}

// findRow returns the index of the first row of kind naming iface and
// method, or -1.
func findRow(rows []row, kind rowKind, iface, method string) int {
	for i, r := range rows {
		if r.kind == kind && r.iface == iface && r.method == method {
			return i
		}
	}
	return -1
}

func firstSelectable(rows []row) int {
	for i, r := range rows {
		if r.selectable() {
			return i
		}
	}
	return 0
}

// nextSelectable moves from cur by delta, skipping rows that cannot be
// selected. It stays put at either end.
func nextSelectable(rows []row, cur, delta int) int {
	for i := cur + delta; i >= 0 && i < len(rows); i += delta {
		if rows[i].selectable() {
			return i
		}
	}
	return cur
}

// clampSelectable keeps cur when it is still a selectable row, else picks
// the nearest selectable row after it, then before it.
func clampSelectable(rows []row, cur int) int {
	if len(rows) == 0 {
		return 0
	}
	if cur >= len(rows) {
		cur = len(rows) - 1
	}
	if cur < 0 {
		cur = 0
	}
	if rows[cur].selectable() {
		return cur
	}
	if n := nextSelectable(rows, cur, 1); n != cur {
		return n
	}
	return nextSelectable(rows, cur, -1)
}

func rowAt(rows []row, i int) (row, bool) {
	if i < 0 || i >= len(rows) {
		return row{}, false
	}
	return rows[i], true
}
