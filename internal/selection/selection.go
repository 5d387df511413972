// Package selection tracks which interface and method are in view.
//
// State is a value: every transition takes the previous State and returns
// the next one together with the side effects the caller has to perform
// (retitling the page, scrolling). Effects marked Deferred must run after
// the next render, once their targets exist.
package selection

import (
	"strings"

	"steamdocs/internal/model"
)

type State struct {
	Interface string
	Method    string
	Filter    string
}

type EffectKind int

const (
	// EffectTitle asks for the page title of Target's interface.
	EffectTitle EffectKind = iota
	// EffectScrollTo scrolls the method pane to the "<iface>/<method>" anchor.
	EffectScrollTo
	EffectScrollPageTop
	EffectScrollSidebarTop
	// EffectScrollSidebarTo brings the Target interface into view in the sidebar.
	EffectScrollSidebarTo
	// EffectFocus moves input focus to the Target form field.
	EffectFocus
)

func (k EffectKind) String() string {
	switch k {
	case EffectTitle:
		return "title"
	case EffectScrollTo:
		return "scroll-to"
	case EffectScrollPageTop:
		return "scroll-page-top"
	case EffectScrollSidebarTop:
		return "scroll-sidebar-top"
	case EffectScrollSidebarTo:
		return "scroll-sidebar-to"
	case EffectFocus:
		return "focus"
	}
	return "unknown"
}

type Effect struct {
	Kind     EffectKind
	Target   string
	Deferred bool
}

const (
	FieldAccessToken = "form-access-token"
	FieldAPIKey      = "form-api-key"
)

// Filtering reports whether the state has a non-blank filter.
func (s State) Filtering() bool {
	return strings.TrimSpace(s.Filter) != ""
}

// ParseToken splits "#iface/method" into its parts. The leading "#" is
// optional and anything after a second "/" is ignored.
func ParseToken(token string) (iface, method string) {
	token = strings.TrimPrefix(strings.TrimSpace(token), "#")
	parts := strings.SplitN(token, "/", 3)
	iface = parts[0]
	if len(parts) > 1 {
		method = parts[1]
	}
	return iface, method
}

// Token renders the location token for s.
func Token(s State) string {
	switch {
	case s.Interface == "":
		return ""
	case s.Method == "":
		return "#" + s.Interface
	}
	return "#" + s.Interface + "/" + s.Method
}

// Resolve maps a token onto cat. Unknown interfaces resolve to the empty
// selection and unknown methods to the bare interface.
func Resolve(cat *model.Catalog, token string) (iface, method string) {
	iface, method = ParseToken(token)
	i, ok := cat.Interface(iface)
	if !ok {
		return "", ""
	}
	if _, ok := i.Method(method); !ok {
		method = ""
	}
	return iface, method
}

// SetFromToken moves the selection to the method named by token.
func SetFromToken(cat *model.Catalog, prev State, token string) (State, []Effect) {
	next := prev
	next.Interface, next.Method = Resolve(cat, token)

	if next.Interface == prev.Interface {
		return next, nil
	}
	effects := interfaceChanged(next.Interface)
	effects = append(effects, Effect{
		Kind:     EffectScrollTo,
		Target:   model.QualifiedName(next.Interface, next.Method),
		Deferred: true,
	})
	return next, effects
}

// SetFilter stores text as the filter. Entering a filter clears the
// selection, since filtered results and the method pane are exclusive.
func SetFilter(prev State, text string) (State, []Effect) {
	if text == prev.Filter {
		return prev, nil
	}

	next := prev
	next.Filter = text

	if !next.Filtering() {
		if !prev.Filtering() {
			return next, nil
		}
		return next, []Effect{{Kind: EffectScrollSidebarTo, Target: next.Interface, Deferred: true}}
	}

	next.Interface, next.Method = "", ""
	var effects []Effect
	if prev.Interface != "" {
		effects = append(effects, interfaceChanged("")...)
	}
	if !prev.Filtering() {
		effects = append(effects, Effect{Kind: EffectScrollSidebarTop})
	}
	return next, effects
}

// Navigate steps through keys, the visible interface names, wrapping at
// both ends. An interface not in keys counts as position -1.
func Navigate(prev State, keys []string, direction int) (State, []Effect) {
	n := len(keys)
	if n == 0 || (direction != 1 && direction != -1) {
		return prev, nil
	}

	current := -1
	for i, k := range keys {
		if k == prev.Interface {
			current = i
			break
		}
	}
	index := current + direction

	next := prev
	next.Interface = keys[((index%n)+n)%n]
	next.Method = ""

	var effects []Effect
	if next.Interface != prev.Interface {
		effects = interfaceChanged(next.Interface)
	}
	effects = append(effects, Effect{Kind: EffectScrollSidebarTo, Target: next.Interface, Deferred: true})
	return next, effects
}

// FocusCredentials clears the selection and filter and focuses the access
// token field when one is set, the API key field otherwise.
func FocusCredentials(prev State, hasAccessToken bool) (State, []Effect) {
	next := State{}

	var effects []Effect
	if prev.Interface != "" {
		effects = interfaceChanged("")
	}
	target := FieldAPIKey
	if hasAccessToken {
		target = FieldAccessToken
	}
	effects = append(effects, Effect{Kind: EffectFocus, Target: target, Deferred: true})
	return next, effects
}

// Title renders the page title for iface.
func Title(iface, product string) string {
	if iface == "" {
		return product
	}
	return iface + " – " + product
}

func interfaceChanged(iface string) []Effect {
	return []Effect{
		{Kind: EffectTitle, Target: iface},
		{Kind: EffectScrollPageTop},
	}
}
