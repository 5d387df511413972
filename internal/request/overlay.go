// Package request holds per-session parameter input and renders the
// request URL for a method.
package request

import (
	"regexp"
	"strconv"
	"strings"

	"steamdocs/internal/errors"
	"steamdocs/internal/model"
)

var arraySuffix = regexp.MustCompile(`^(.*)\[\d+\]$`)

type methodKey struct {
	iface, method string
}

type paramKey struct {
	methodKey
	param string
}

// Overlay is the scratch state users enter against catalog parameters:
// typed values, boolean toggles and array expansions. The catalog itself
// is never written.
type Overlay struct {
	values   map[paramKey]string
	toggled  map[paramKey]bool
	counters map[paramKey]int
	expanded map[methodKey][]model.Parameter
}

func NewOverlay() *Overlay {
	o := &Overlay{}
	o.ResetAll()
	return o
}

func key(iface, method, param string) paramKey {
	return paramKey{methodKey: methodKey{iface, method}, param: param}
}

func (o *Overlay) Value(iface, method, param string) string {
	return o.values[key(iface, method, param)]
}

func (o *Overlay) SetValue(iface, method, param, value string) {
	k := key(iface, method, param)
	if value == "" {
		delete(o.values, k)
		return
	}
	o.values[k] = value
}

// Toggled reports whether a boolean parameter was set by hand, in which
// case it is sent even when false.
func (o *Overlay) Toggled(iface, method, param string) bool {
	return o.toggled[key(iface, method, param)]
}

func (o *Overlay) SetBool(iface, method, param string, on bool) {
	k := key(iface, method, param)
	o.toggled[k] = true
	o.values[k] = strconv.FormatBool(on)
}

// Reset clears everything entered for one method.
func (o *Overlay) Reset(iface, method string) {
	mk := methodKey{iface, method}
	for k := range o.values {
		if k.methodKey == mk {
			delete(o.values, k)
		}
	}
	for k := range o.toggled {
		if k.methodKey == mk {
			delete(o.toggled, k)
		}
	}
	for k := range o.counters {
		if k.methodKey == mk {
			delete(o.counters, k)
		}
	}
	delete(o.expanded, mk)
}

func (o *Overlay) ResetAll() {
	o.values = map[paramKey]string{}
	o.toggled = map[paramKey]bool{}
	o.counters = map[paramKey]int{}
	o.expanded = map[methodKey][]model.Parameter{}
}

// Parameters returns m's parameters with any array expansions spliced in.
func (o *Overlay) Parameters(iface, method string, m *model.Method) []model.Parameter {
	if params, ok := o.expanded[methodKey{iface, method}]; ok {
		return params
	}
	if m == nil {
		return nil
	}
	return m.Parameters
}

// ExpandArray adds one more element to an array parameter such as
// "itemids[0]". The n-th expansion is named "itemids[n]" and sits n places
// after the declared one, so repeated expansions stay contiguous and ordered.
// Only declared parameters expand; rows added by an earlier expansion do not.
func (o *Overlay) ExpandArray(iface, method string, m *model.Method, param string) (model.Parameter, error) {
	sm := arraySuffix.FindStringSubmatch(param)
	if sm == nil {
		return model.Parameter{}, errors.ErrNotArrayParameter
	}

	params := o.Parameters(iface, method, m)
	index := -1
	for i, p := range params {
		if p.Name == param {
			index = i
			break
		}
	}
	if index < 0 {
		return model.Parameter{}, errors.NewNotFoundError("parameter", param)
	}
	if !declared(m, param) {
		return model.Parameter{}, errors.ErrNotArrayParameter
	}

	k := key(iface, method, param)
	o.counters[k]++
	counter := o.counters[k]

	added := model.Parameter{
		Name:     sm[1] + "[" + strconv.Itoa(counter) + "]",
		Type:     params[index].Type,
		Optional: true,
	}

	at := index + counter
	if at > len(params) {
		at = len(params)
	}
	next := make([]model.Parameter, 0, len(params)+1)
	next = append(next, params[:at]...)
	next = append(next, added)
	next = append(next, params[at:]...)
	o.expanded[methodKey{iface, method}] = next
	return added, nil
}

func declared(m *model.Method, param string) bool {
	if m == nil {
		return false
	}
	for _, p := range m.Parameters {
		if p.Name == param {
			return true
		}
	}
	return false
}

// Field is one name=value pair bound for the query string.
type Field struct {
	Name  string
	Value string
}

// Fields lists, in parameter order, the parameters that carry a value or
// were toggled by hand.
func (o *Overlay) Fields(iface, method string, m *model.Method) []Field {
	var out []Field
	for _, p := range o.Parameters(iface, method, m) {
		k := key(iface, method, p.Name)
		v := o.values[k]
		if v == "" && !o.toggled[k] {
			continue
		}
		out = append(out, Field{Name: p.Name, Value: v})
	}
	return out
}

// FillSteamID writes steamid into every empty parameter whose name
// mentions steamid, across the whole catalog.
func (o *Overlay) FillSteamID(cat *model.Catalog, steamid string) int {
	if steamid == "" {
		return 0
	}
	filled := 0
	for _, iface := range cat.Interfaces() {
		for _, m := range iface.Methods() {
			for _, p := range o.Parameters(iface.Name, m.Name, m) {
				if !strings.Contains(p.Name, "steamid") {
					continue
				}
				k := key(iface.Name, m.Name, p.Name)
				if o.values[k] != "" {
					continue
				}
				o.values[k] = steamid
				filled++
			}
		}
	}
	return filled
}
