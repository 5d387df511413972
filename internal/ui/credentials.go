package ui

import (
	"fmt"

	"github.com/jroimartin/gocui"

	"steamdocs/internal/request"
	"steamdocs/internal/selection"
	"steamdocs/internal/session"
)

const viewCredentials = "credentials"

type credField struct {
	field  session.Field
	label  string
	value  string
	valid  bool
	secret bool
}

func credFields(u session.UserData) []credField {
	return []credField{
		{field: session.FieldAPIKey, label: "Web API key", value: u.APIKey, valid: request.ValidAPIKey(u.APIKey), secret: true},
		{field: session.FieldAccessToken, label: "Access token", value: u.AccessToken, valid: request.ValidAccessToken(u.AccessToken), secret: true},
		{field: session.FieldSteamID, label: "SteamID", value: u.SteamID, valid: request.ValidSteamID(u.SteamID)},
		{field: session.FieldFormat, label: "Format", value: u.Format, valid: u.Format != ""},
	}
}

// credIndex maps a focus target to its row in the credentials form.
func credIndex(target string) int {
	if target == selection.FieldAccessToken {
		return 1
	}
	return 0
}

// credLine renders one form row. Secrets are masked unless reveal is set.
func credLine(f credField, selected, reveal bool) string {
	marker := "  "
	if selected {
		marker = "> "
	}
	value := f.value
	if f.secret && !reveal {
		value = mask(value)
	}
	mark := ""
	switch {
	case f.value == "":
		mark = colorDim + "(empty)" + colorReset
	case f.valid:
		mark = colorGreen + "ok" + colorReset
	default:
		mark = colorRed + "invalid, not saved" + colorReset
	}
	return fmt.Sprintf("%s%s %s %s", marker, padRight(f.label, 13), value, mark)
}

func (a *App) openCredentials(sel int) {
	a.credsOpen = true
	a.credSel = sel
	a.credsReveal = false
	a.errorMsg = ""
}

func (a *App) closeCredentials() {
	a.credsOpen = false
	a.credsReveal = false
	if v, err := a.g.View(viewCredentials); err == nil {
		v.Clear()
		_ = a.g.DeleteView(viewCredentials)
	}
}

func (a *App) layoutCredentials(maxX, maxY int) error {
	width := maxX - 10
	if width > 90 {
		width = 90
	}
	if width < 40 {
		width = 40
	}
	height := 10
	x0 := (maxX - width) / 2
	y0 := (maxY - height) / 2

	if v, err := a.g.SetView(viewCredentials, x0, y0, x0+width, y0+height); err != nil {
		if err != gocui.ErrUnknownView {
			return err
		}
		v.Title = "Credentials"
	}
	a.renderCredentials()
	_, _ = a.g.SetViewOnTop(viewCredentials)
	return nil
}

func (a *App) renderCredentials() {
	v, err := a.g.View(viewCredentials)
	if err != nil {
		return
	}
	v.Clear()
	for i, f := range credFields(a.sess.User()) {
		fmt.Fprintln(v, credLine(f, i == a.credSel, a.credsReveal))
	}
	fmt.Fprintln(v)
	fmt.Fprintln(v, colorDim+"Keys and tokens are 32 hex characters; a valid token is used before the key."+colorReset)
	fmt.Fprintln(v, colorDim+"Setting a SteamID fills every empty steamid parameter."+colorReset)
}

func (a *App) moveCred(delta int) func(*gocui.Gui, *gocui.View) error {
	return func(*gocui.Gui, *gocui.View) error {
		if !a.credsOpen || a.editing {
			return nil
		}
		n := a.credSel + delta
		if n >= 0 && n < len(credFields(a.sess.User())) {
			a.credSel = n
		}
		return nil
	}
}

func (a *App) toggleReveal(*gocui.Gui, *gocui.View) error {
	if !a.credsOpen || a.editing {
		return nil
	}
	a.credsReveal = !a.credsReveal
	return nil
}

func (a *App) editCred(g *gocui.Gui, _ *gocui.View) error {
	if !a.credsOpen || a.editing {
		return nil
	}
	f := credFields(a.sess.User())[a.credSel]
	return a.beginEdit(g, editTarget{field: f.field, label: f.label}, f.value)
}

func (a *App) clearCred(*gocui.Gui, *gocui.View) error {
	if !a.credsOpen || a.editing {
		return nil
	}
	f := credFields(a.sess.User())[a.credSel]
	if err := a.sess.SetField(f.field, ""); err != nil {
		a.errorMsg = err.Error()
	}
	return nil
}
