// Package ui is the terminal browser: a sidebar of interfaces, the method
// pane for the selected interface, and modals for parameter input,
// credentials and POST confirmation.
package ui

import (
	"context"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/atotto/clipboard"
	"github.com/jroimartin/gocui"
	"github.com/rs/zerolog"

	"steamdocs/internal/httpclient"
	"steamdocs/internal/model"
	"steamdocs/internal/request"
	"steamdocs/internal/selection"
	"steamdocs/internal/session"
)

const (
	viewHeader   = "header"
	viewFooter   = "footer"
	viewFilter   = "filter"
	viewSidebar  = "sidebar"
	viewMethods  = "methods"
	viewEdit     = "edit"
	viewConfirm  = "confirm"
	viewResponse = "response"
)

const postWarning = "Executing POST requests could be potentially disastrous.\n\n" +
	"Author is not responsible for any damage done.\n\n" +
	"Are you sure you want to continue?"

type screen int

const (
	screenBrowse screen = iota
	screenResponse
)

type focusPane int

const (
	paneSidebar focusPane = iota
	paneMethods
)

type Options struct {
	// Timeout bounds each executed request.
	Timeout    time.Duration
	HTTPClient *http.Client
	// Clipboard receives copied URLs. Defaults to the system clipboard.
	Clipboard func(string) error
	Logger    *zerolog.Logger
}

// editTarget is what the edit modal writes to: a parameter when param is
// set, else a credentials field.
type editTarget struct {
	iface  string
	method string
	param  string
	field  session.Field
	label  string
}

type App struct {
	g      *gocui.Gui
	sess   *session.Session
	opts   Options
	logger zerolog.Logger

	scr   screen
	pane  focusPane
	title string

	sideRows []row
	sideSel  int
	sideTop  int
	methRows []row
	methSel  int
	methTop  int

	editing bool
	edit    editTarget

	credsOpen   bool
	credsReveal bool
	credSel     int

	confirmOpen bool
	pendingCall request.Call

	lastCall request.Call
	lastRes  httpclient.Result
	status   string
	errorMsg string
}

func NewApp(sess *session.Session, opts Options) *App {
	if opts.Clipboard == nil {
		opts.Clipboard = clipboard.WriteAll
	}
	if opts.Timeout <= 0 {
		opts.Timeout = 20 * time.Second
	}
	logger := zerolog.Nop()
	if opts.Logger != nil {
		logger = opts.Logger.With().Str("component", "ui").Logger()
	}

	a := &App{
		sess:    sess,
		opts:    opts,
		logger:  logger,
		title:   sess.Title(),
		sideTop: -1,
		methTop: -1,
	}
	sess.OnTitle(a.setTitle)
	return a
}

func (a *App) setTitle(title string) {
	a.title = title
}

func (a *App) Run() error {
	g, err := gocui.NewGui(gocui.OutputNormal)
	if err != nil {
		return err
	}
	defer g.Close()
	a.g = g

	g.BgColor = gocui.ColorBlack
	g.FgColor = gocui.ColorWhite
	g.Cursor = true
	g.InputEsc = true
	g.SetManagerFunc(a.layout)

	if err := a.bindKeys(); err != nil {
		return err
	}

	a.logger.Debug().Str("title", a.title).Msg("ui started")
	if err := g.MainLoop(); err != nil && err != gocui.ErrQuit {
		return err
	}
	return nil
}

func (a *App) layout(g *gocui.Gui) error {
	maxX, maxY := g.Size()

	if v, err := g.SetView(viewHeader, 0, 0, maxX-1, 2); err != nil {
		if err != gocui.ErrUnknownView {
			return err
		}
		v.Frame = false
	}
	a.renderHeader()

	if v, err := g.SetView(viewFooter, 0, maxY-2, maxX-1, maxY); err != nil {
		if err != gocui.ErrUnknownView {
			return err
		}
		v.Frame = false
	}
	a.renderFooter()

	if a.scr == screenResponse {
		return a.layoutResponse(maxX, maxY)
	}
	if err := a.layoutBrowse(maxX, maxY); err != nil {
		return err
	}

	if a.credsOpen {
		if err := a.layoutCredentials(maxX, maxY); err != nil {
			return err
		}
	}
	if a.confirmOpen {
		if err := a.layoutConfirm(maxX, maxY); err != nil {
			return err
		}
	}
	if a.editing {
		_, _ = g.SetViewOnTop(viewEdit)
	}
	return a.focus()
}

func (a *App) layoutBrowse(maxX, maxY int) error {
	a.clearMainViews(viewFilter, viewSidebar, viewMethods)

	sideW := maxX / 3
	if sideW > 48 {
		sideW = 48
	}
	if sideW < 20 {
		sideW = 20
	}

	if v, err := a.g.SetView(viewFilter, 0, 2, sideW, 4); err != nil {
		if err != gocui.ErrUnknownView {
			return err
		}
		v.Title = "Filter"
	}
	if v, err := a.g.SetView(viewSidebar, 0, 4, sideW, maxY-3); err != nil {
		if err != gocui.ErrUnknownView {
			return err
		}
		v.Title = "Interfaces"
		v.Highlight = true
		v.SelFgColor = gocui.ColorBlack
		v.SelBgColor = gocui.ColorGreen
	}
	if v, err := a.g.SetView(viewMethods, sideW+1, 2, maxX-1, maxY-3); err != nil {
		if err != gocui.ErrUnknownView {
			return err
		}
		v.Highlight = true
		v.SelFgColor = gocui.ColorBlack
		v.SelBgColor = gocui.ColorGreen
	}

	a.renderFilter()
	a.renderSidebar()
	a.renderMethods()

	// scroll requests may name rows that only exist after this render
	for _, e := range a.sess.DrainEffects() {
		a.applyEffect(e)
	}

	if v, err := a.g.View(viewSidebar); err == nil {
		placeCursor(v, a.sideSel, a.sideTop)
	}
	if v, err := a.g.View(viewMethods); err == nil {
		placeCursor(v, a.methSel, a.methTop)
	}
	a.sideTop, a.methTop = -1, -1
	return nil
}

func (a *App) applyEffect(e selection.Effect) {
	a.logger.Debug().Stringer("effect", e.Kind).Str("target", e.Target).Msg("apply effect")
	switch e.Kind {
	case selection.EffectScrollTo:
		iface, method, _ := model.SplitQualified(e.Target)
		if i := findRow(a.methRows, rowMethod, iface, method); i >= 0 {
			a.methSel, a.methTop = i, i
			a.pane = paneMethods
		}
	case selection.EffectScrollPageTop:
		a.methSel, a.methTop = firstSelectable(a.methRows), 0
	case selection.EffectScrollSidebarTop:
		a.sideSel, a.sideTop = firstSelectable(a.sideRows), 0
	case selection.EffectScrollSidebarTo:
		if i := findRow(a.sideRows, rowInterface, e.Target, ""); i >= 0 {
			a.sideSel = i
		}
	case selection.EffectFocus:
		a.openCredentials(credIndex(e.Target))
	case selection.EffectTitle:
		a.setTitle(a.sess.Title())
	}
}

// focus picks the current view from the innermost open modal outwards.
func (a *App) focus() error {
	name := viewSidebar
	switch {
	case a.editing:
		name = viewEdit
	case a.confirmOpen:
		name = viewConfirm
	case a.credsOpen:
		name = viewCredentials
	case a.pane == paneMethods:
		name = viewMethods
	}
	_, err := a.g.SetCurrentView(name)
	return err
}

func (a *App) layoutConfirm(maxX, maxY int) error {
	width := 64
	if width > maxX-4 {
		width = maxX - 4
	}
	height := 9
	x0 := (maxX - width) / 2
	y0 := (maxY - height) / 2

	if v, err := a.g.SetView(viewConfirm, x0, y0, x0+width, y0+height); err != nil {
		if err != gocui.ErrUnknownView {
			return err
		}
		v.Title = " POST (y=continue, n=cancel) "
		v.Wrap = true
	}
	if v, err := a.g.View(viewConfirm); err == nil {
		v.Clear()
		fmt.Fprintln(v, postWarning)
	}
	_, _ = a.g.SetViewOnTop(viewConfirm)
	return nil
}

func (a *App) layoutResponse(maxX, maxY int) error {
	a.clearMainViews(viewResponse)

	if v, err := a.g.SetView(viewResponse, 0, 2, maxX-1, maxY-3); err != nil {
		if err != gocui.ErrUnknownView {
			return err
		}
		v.Title = "Response"
	}
	a.renderResponse()
	_, err := a.g.SetCurrentView(viewResponse)
	return err
}

func (a *App) clearMainViews(keep ...string) {
	keepSet := map[string]bool{viewHeader: true, viewFooter: true}
	for _, k := range keep {
		keepSet[k] = true
	}
	if a.editing {
		keepSet[viewEdit] = true
	}
	if a.credsOpen {
		keepSet[viewCredentials] = true
	}
	if a.confirmOpen {
		keepSet[viewConfirm] = true
	}

	for _, n := range []string{viewFilter, viewSidebar, viewMethods, viewEdit, viewConfirm, viewCredentials, viewResponse} {
		if keepSet[n] {
			continue
		}
		if v, err := a.g.View(n); err == nil {
			v.Clear()
			_ = a.g.DeleteView(n)
		}
	}
}

func (a *App) renderHeader() {
	v, err := a.g.View(viewHeader)
	if err != nil {
		return
	}
	v.Clear()
	fmt.Fprint(v, colorGreen+"steamdocs"+colorReset+"  "+a.title)
	if n := a.sess.FavoriteCount(); n > 0 {
		fmt.Fprintf(v, "  %s★ %d%s", colorYellow, n, colorReset)
	}
}

func (a *App) renderFooter() {
	v, err := a.g.View(viewFooter)
	if err != nil {
		return
	}
	v.Clear()

	if a.errorMsg != "" {
		fmt.Fprint(v, colorRed+a.errorMsg+colorReset)
		return
	}
	if a.status != "" {
		fmt.Fprint(v, a.status)
		return
	}

	var msg string
	switch {
	case a.editing:
		msg = "enter: ok   esc: cancel   ctrl+u: clear"
	case a.confirmOpen:
		msg = "y: send the POST request   n/esc: cancel"
	case a.credsOpen:
		msg = "up/down: field   enter: edit   ctrl+d: clear   v: show/hide secrets   esc: close"
	case a.scr == screenResponse:
		msg = "up/down: scroll   r: rerun   esc: back"
	case a.pane == paneMethods:
		msg = "enter: edit   space: toggle   +: add item   f: favorite   y: copy url   d: reset   ctrl+r: run   tab: sidebar"
	default:
		msg = "type: filter   enter: select   ctrl+n/ctrl+p: next/prev   ctrl+k: credentials   tab: methods   ctrl+c: quit"
	}
	fmt.Fprint(v, msg)
}

func (a *App) renderFilter() {
	v, err := a.g.View(viewFilter)
	if err != nil {
		return
	}
	v.Clear()
	fmt.Fprint(v, a.sess.State().Filter)
}

func (a *App) renderSidebar() {
	v, err := a.g.View(viewSidebar)
	if err != nil {
		return
	}
	v.Clear()
	a.sideRows = sidebarRows(a.sess.Sidebar(), a.sess.Favorites(), a.sess.State())
	a.sideSel = clampSelectable(a.sideRows, a.sideSel)
	for _, r := range a.sideRows {
		fmt.Fprintln(v, r.text)
	}
}

func (a *App) renderMethods() {
	v, err := a.g.View(viewMethods)
	if err != nil {
		return
	}
	v.Clear()
	v.Title = "Methods"
	if iface, ok := a.sess.CurrentInterface(); ok {
		v.Title = iface.Name
	}
	a.methRows = methodRows(a.sess)
	a.methSel = clampSelectable(a.methRows, a.methSel)
	for _, r := range a.methRows {
		fmt.Fprintln(v, r.text)
	}
}

func (a *App) renderResponse() {
	v, err := a.g.View(viewResponse)
	if err != nil {
		return
	}
	v.Clear()

	r := a.lastRes
	fmt.Fprintf(v, "%s %s\n", colorizeMethod(a.lastCall.Method), a.lastCall.URL)
	fmt.Fprintf(v, "%s\n", colorizeStatus(r.Status))
	fmt.Fprintf(v, "elapsed: %s\n", r.Elapsed)
	if ct, ok := r.Headers["content-type"]; ok {
		fmt.Fprintf(v, "content-type: %s\n", ct)
	}
	fmt.Fprintln(v)
	fmt.Fprintln(v, r.Body)
}

// run sends call and switches to the response screen.
func (a *App) run(call request.Call) {
	spec, err := httpclient.BuildRequest(call)
	if err != nil {
		a.errorMsg = err.Error()
		return
	}

	ctx, cancel := context.WithTimeout(context.Background(), a.opts.Timeout)
	defer cancel()
	res, err := httpclient.Execute(ctx, spec, httpclient.Options{
		Timeout: a.opts.Timeout,
		Client:  a.opts.HTTPClient,
		Color:   true,
	})
	if err != nil {
		a.logger.Warn().Err(err).Str("method", call.Method).Msg("request failed")
		a.errorMsg = err.Error()
		return
	}

	a.logger.Debug().
		Str("method", call.Method).
		Int("status", res.StatusCode).
		Dur("elapsed", res.Elapsed).
		Msg("request done")
	a.lastCall = call
	a.lastRes = res
	a.scr = screenResponse
	a.errorMsg = ""
	a.status = ""
}

// selectedMethod is the method under the method-pane cursor.
func (a *App) selectedMethod() (row, bool) {
	r, ok := rowAt(a.methRows, a.methSel)
	if !ok || r.method == "" {
		return row{}, false
	}
	return r, true
}

func (a *App) parameter(iface, method, name string) (model.Parameter, bool) {
	for _, p := range a.sess.Parameters(iface, method) {
		if p.Name == name {
			return p, true
		}
	}
	return model.Parameter{}, false
}

func (a *App) beginEdit(g *gocui.Gui, target editTarget, current string) error {
	maxX, maxY := g.Size()
	width := 60
	if width > maxX-4 {
		width = maxX - 4
	}
	x0 := (maxX - width) / 2
	y0 := (maxY - 3) / 2

	a.editing = true
	a.edit = target

	v, err := g.SetView(viewEdit, x0, y0, x0+width, y0+2)
	if err != nil && err != gocui.ErrUnknownView {
		return err
	}
	label := target.label
	if label == "" {
		label = target.param
	}
	v.Title = fmt.Sprintf(" %s (enter=ok, esc=cancel) ", label)
	v.Editable = true
	v.Editor = singleLineEditor{}
	v.Clear()
	fmt.Fprint(v, current)
	_ = v.SetCursor(len(current), 0)
	_, err = g.SetCurrentView(viewEdit)
	return err
}

func (a *App) closeEdit() {
	if v, err := a.g.View(viewEdit); err == nil {
		v.Clear()
		_ = a.g.DeleteView(viewEdit)
	}
	a.editing = false
	a.edit = editTarget{}
}

func (a *App) confirmEdit(_ *gocui.Gui, v *gocui.View) error {
	if !a.editing {
		return nil
	}
	val := strings.TrimSpace(viewText(v))
	t := a.edit
	a.closeEdit()

	if t.param != "" {
		a.sess.SetParam(t.iface, t.method, t.param, val)
		return nil
	}
	if err := a.sess.SetField(t.field, val); err != nil {
		a.errorMsg = err.Error()
	}
	return nil
}
