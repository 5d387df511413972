package ui

import (
	"net/http"
	"unicode/utf8"

	"github.com/jroimartin/gocui"

	"steamdocs/internal/model"
	"steamdocs/internal/request"
)

type binding struct {
	view    string
	key     interface{}
	handler func(*gocui.Gui, *gocui.View) error
}

// bindKeys registers every binding. gocui runs all bindings matching a
// key, global and view-local alike, and skips rune bindings on editable
// views, so global actions use ctrl chords and per-view keys stay local.
func (a *App) bindKeys() error {
	bindings := []binding{
		{"", gocui.KeyCtrlC, a.quit},
		{"", gocui.KeyEsc, a.back},
		{"", gocui.KeyTab, a.tabPane},
		{"", gocui.KeyCtrlN, a.navigate(1)},
		{"", gocui.KeyCtrlP, a.navigate(-1)},
		{"", gocui.KeyCtrlK, a.credentials},
		{"", gocui.KeyCtrlR, a.execute},

		{viewSidebar, gocui.KeyArrowDown, a.moveSide(1)},
		{viewSidebar, gocui.KeyArrowUp, a.moveSide(-1)},
		{viewSidebar, gocui.KeyEnter, a.selectSide},
		{viewSidebar, gocui.KeyBackspace, a.filterBackspace},
		{viewSidebar, gocui.KeyBackspace2, a.filterBackspace},
		{viewSidebar, gocui.KeySpace, a.appendFilterRune(' ')},

		{viewMethods, gocui.KeyArrowDown, a.moveMeth(1)},
		{viewMethods, gocui.KeyArrowUp, a.moveMeth(-1)},
		{viewMethods, gocui.KeyPgdn, a.moveMeth(10)},
		{viewMethods, gocui.KeyPgup, a.moveMeth(-10)},
		{viewMethods, gocui.KeyEnter, a.enterMethodRow},
		{viewMethods, gocui.KeySpace, a.toggleBool},
		{viewMethods, '+', a.expandArray},
		{viewMethods, 'f', a.toggleFavorite},
		{viewMethods, 'y', a.copyURL},
		{viewMethods, 'd', a.resetParams},

		{viewEdit, gocui.KeyEnter, a.confirmEdit},

		{viewCredentials, gocui.KeyArrowDown, a.moveCred(1)},
		{viewCredentials, gocui.KeyArrowUp, a.moveCred(-1)},
		{viewCredentials, gocui.KeyEnter, a.editCred},
		{viewCredentials, gocui.KeyCtrlD, a.clearCred},
		{viewCredentials, 'v', a.toggleReveal},

		{viewConfirm, 'y', a.confirmPost},
		{viewConfirm, 'n', a.cancelPost},

		{viewResponse, gocui.KeyArrowDown, a.scrollResponse(1)},
		{viewResponse, gocui.KeyArrowUp, a.scrollResponse(-1)},
		{viewResponse, 'r', a.rerun},
	}

	// printable input goes to the filter while the sidebar has focus
	for r := rune(33); r <= rune(126); r++ {
		bindings = append(bindings, binding{viewSidebar, r, a.appendFilterRune(r)})
	}

	for _, b := range bindings {
		if err := a.g.SetKeybinding(b.view, b.key, gocui.ModNone, b.handler); err != nil {
			return err
		}
	}
	return nil
}

func (a *App) quit(*gocui.Gui, *gocui.View) error { return gocui.ErrQuit }

// modal reports whether an overlay owns the keyboard.
func (a *App) modal() bool {
	return a.editing || a.confirmOpen || a.credsOpen || a.scr != screenBrowse
}

func (a *App) back(*gocui.Gui, *gocui.View) error {
	a.errorMsg, a.status = "", ""
	switch {
	case a.editing:
		a.closeEdit()
	case a.confirmOpen:
		a.confirmOpen = false
	case a.credsOpen:
		a.closeCredentials()
	case a.scr == screenResponse:
		a.scr = screenBrowse
	case a.pane == paneMethods:
		a.pane = paneSidebar
	case a.sess.State().Filter != "":
		a.sess.SetFilter("")
	}
	return nil
}

func (a *App) tabPane(*gocui.Gui, *gocui.View) error {
	if a.modal() {
		return nil
	}
	if a.pane == paneSidebar {
		a.pane = paneMethods
	} else {
		a.pane = paneSidebar
	}
	return nil
}

func (a *App) navigate(direction int) func(*gocui.Gui, *gocui.View) error {
	return func(*gocui.Gui, *gocui.View) error {
		if a.modal() {
			return nil
		}
		a.status = ""
		a.sess.Navigate(direction)
		return nil
	}
}

func (a *App) credentials(*gocui.Gui, *gocui.View) error {
	if a.editing || a.confirmOpen || a.scr != screenBrowse {
		return nil
	}
	if a.credsOpen {
		a.closeCredentials()
		return nil
	}
	a.sess.FocusCredentials()
	return nil
}

func (a *App) appendFilterRune(r rune) func(*gocui.Gui, *gocui.View) error {
	return func(*gocui.Gui, *gocui.View) error {
		if a.modal() {
			return nil
		}
		a.sess.SetFilter(a.sess.State().Filter + string(r))
		return nil
	}
}

func (a *App) filterBackspace(*gocui.Gui, *gocui.View) error {
	filter := a.sess.State().Filter
	if a.modal() || filter == "" {
		return nil
	}
	_, size := utf8.DecodeLastRuneInString(filter)
	a.sess.SetFilter(filter[:len(filter)-size])
	return nil
}

func (a *App) moveSide(delta int) func(*gocui.Gui, *gocui.View) error {
	return func(*gocui.Gui, *gocui.View) error {
		if a.modal() {
			return nil
		}
		a.sideSel = nextSelectable(a.sideRows, a.sideSel, delta)
		return nil
	}
}

func (a *App) moveMeth(delta int) func(*gocui.Gui, *gocui.View) error {
	return func(*gocui.Gui, *gocui.View) error {
		if a.modal() {
			return nil
		}
		step := 1
		if delta < 0 {
			step = -1
		}
		for i := 0; i != delta; i += step {
			a.methSel = nextSelectable(a.methRows, a.methSel, step)
		}
		return nil
	}
}

func (a *App) selectSide(*gocui.Gui, *gocui.View) error {
	if a.modal() {
		return nil
	}
	r, ok := rowAt(a.sideRows, a.sideSel)
	if !ok || !r.selectable() {
		return nil
	}
	a.status = ""
	a.goTo(r)
	if r.method == "" {
		a.pane = paneMethods
	}
	return nil
}

// goTo selects r's interface and method. Within the current interface no
// scroll effect is raised, so the method row is brought up here.
func (a *App) goTo(r row) {
	same := a.sess.State().Interface == r.iface
	a.sess.SetToken(r.token())
	if !same || r.method == "" {
		return
	}
	if i := findRow(a.methRows, rowMethod, r.iface, r.method); i >= 0 {
		a.methSel, a.methTop = i, i
		a.pane = paneMethods
	}
}

func (a *App) enterMethodRow(g *gocui.Gui, v *gocui.View) error {
	if a.modal() {
		return nil
	}
	r, ok := a.selectedMethod()
	if !ok {
		return nil
	}
	switch r.kind {
	case rowMethod:
		a.goTo(r)
	case rowURL:
		return a.copyURL(g, v)
	case rowParam:
		p, ok := a.parameter(r.iface, r.method, r.param)
		if !ok {
			return nil
		}
		if p.IsBool() {
			return a.toggleBool(g, v)
		}
		return a.beginEdit(g, editTarget{iface: r.iface, method: r.method, param: r.param}, a.sess.ParamValue(r.iface, r.method, r.param))
	}
	return nil
}

// toggleBool flips a boolean parameter; an untouched one becomes true.
func (a *App) toggleBool(*gocui.Gui, *gocui.View) error {
	if a.modal() {
		return nil
	}
	r, ok := a.selectedMethod()
	if !ok || r.kind != rowParam {
		return nil
	}
	p, ok := a.parameter(r.iface, r.method, r.param)
	if !ok || !p.IsBool() {
		return nil
	}
	on := !(a.sess.ParamToggled(r.iface, r.method, r.param) && a.sess.ParamValue(r.iface, r.method, r.param) == "true")
	a.sess.SetBool(r.iface, r.method, r.param, on)
	return nil
}

func (a *App) expandArray(*gocui.Gui, *gocui.View) error {
	if a.modal() {
		return nil
	}
	r, ok := a.selectedMethod()
	if !ok || r.kind != rowParam {
		return nil
	}
	p, err := a.sess.ExpandArray(r.iface, r.method, r.param)
	if err != nil {
		a.errorMsg = err.Error()
		return nil
	}
	a.errorMsg = ""
	a.status = "added " + p.Name
	return nil
}

func (a *App) toggleFavorite(*gocui.Gui, *gocui.View) error {
	if a.modal() {
		return nil
	}
	r, ok := a.selectedMethod()
	if !ok {
		return nil
	}
	on, err := a.sess.ToggleFavorite(r.iface, r.method)
	if err != nil {
		a.errorMsg = err.Error()
		return nil
	}
	a.errorMsg = ""
	name := model.QualifiedName(r.iface, r.method)
	if on {
		a.status = name + " added to favorites"
	} else {
		a.status = name + " removed from favorites"
	}
	return nil
}

func (a *App) copyURL(*gocui.Gui, *gocui.View) error {
	if a.modal() {
		return nil
	}
	r, ok := a.selectedMethod()
	if !ok {
		return nil
	}
	u, err := a.sess.URL(r.iface, r.method)
	if err == nil {
		err = a.opts.Clipboard(u)
	}
	if err != nil {
		a.errorMsg = "copy: " + err.Error()
		return nil
	}
	a.errorMsg = ""
	a.status = "copied " + u
	return nil
}

func (a *App) resetParams(*gocui.Gui, *gocui.View) error {
	if a.modal() {
		return nil
	}
	r, ok := a.selectedMethod()
	if !ok {
		return nil
	}
	a.sess.ResetParams(r.iface, r.method)
	a.status = "parameters reset"
	return nil
}

// execute sends the selected method's request. POST asks first.
func (a *App) execute(*gocui.Gui, *gocui.View) error {
	if a.modal() {
		return nil
	}
	r, ok := a.selectedMethod()
	if !ok {
		return nil
	}
	call, err := a.sess.Call(r.iface, r.method)
	if err != nil {
		a.errorMsg = err.Error()
		return nil
	}
	if call.Method == http.MethodPost {
		a.pendingCall = call
		a.confirmOpen = true
		return nil
	}
	a.run(call)
	return nil
}

func (a *App) confirmPost(*gocui.Gui, *gocui.View) error {
	if !a.confirmOpen {
		return nil
	}
	a.confirmOpen = false
	call := a.pendingCall
	a.pendingCall = request.Call{}
	a.run(call)
	return nil
}

func (a *App) cancelPost(*gocui.Gui, *gocui.View) error {
	a.confirmOpen = false
	a.status = "request cancelled"
	return nil
}

func (a *App) rerun(*gocui.Gui, *gocui.View) error {
	if a.scr != screenResponse || a.lastCall.URL == "" {
		return nil
	}
	if a.lastCall.Method == http.MethodPost {
		a.scr = screenBrowse
		a.pendingCall = a.lastCall
		a.confirmOpen = true
		return nil
	}
	a.run(a.lastCall)
	return nil
}

func (a *App) scrollResponse(delta int) func(*gocui.Gui, *gocui.View) error {
	return func(g *gocui.Gui, v *gocui.View) error {
		if a.scr != screenResponse || v == nil {
			return nil
		}
		ox, oy := v.Origin()
		if delta > 0 {
			return v.SetOrigin(ox, oy+1)
		}
		if oy > 0 {
			return v.SetOrigin(ox, oy-1)
		}
		return nil
	}
}
