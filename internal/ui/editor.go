package ui

import (
	"strconv"
	"strings"

	"github.com/jroimartin/gocui"
)

// ansi colors
const (
	colorDim    = "\033[90m"
	colorReset  = "\033[0m"
	colorBold   = "\033[1m"
	colorRed    = "\033[31m"
	colorGreen  = "\033[32m"
	colorYellow = "\033[33m"
	colorBlue   = "\033[34m"
	colorCyan   = "\033[36m"
)

// singleLineEditor is an editor that doesn't consume Enter (lets keybinding handle it)
type singleLineEditor struct{}

func (e singleLineEditor) Edit(v *gocui.View, key gocui.Key, ch rune, mod gocui.Modifier) {
	switch {
	case key == gocui.KeyBackspace || key == gocui.KeyBackspace2:
		v.EditDelete(true)
	case key == gocui.KeyDelete:
		v.EditDelete(false)
	case key == gocui.KeyArrowLeft:
		v.MoveCursor(-1, 0, false)
	case key == gocui.KeyArrowRight:
		v.MoveCursor(1, 0, false)
	case key == gocui.KeyHome || key == gocui.KeyCtrlA:
		v.SetCursor(0, 0)
	case key == gocui.KeyEnd || key == gocui.KeyCtrlE:
		v.SetCursor(len(viewText(v)), 0)
	case key == gocui.KeyCtrlU:
		v.Clear()
		v.SetCursor(0, 0)
	case key == gocui.KeyEnter:
	case key == gocui.KeySpace:
		v.EditWrite(' ')
	case ch != 0 && mod == 0:
		v.EditWrite(ch)
	}
}

func viewText(v *gocui.View) string {
	// gocui includes a trailing newline
	return strings.TrimSuffix(v.Buffer(), "\n")
}

// placeCursor scrolls v so that line sel is visible and puts the cursor on
// it. top >= 0 pins that line to the top of the view instead.
func placeCursor(v *gocui.View, sel, top int) {
	_, h := v.Size()
	_, oy := v.Origin()
	oy = scrollOrigin(sel, top, oy, h)
	_ = v.SetOrigin(0, oy)
	_ = v.SetCursor(0, sel-oy)
}

func scrollOrigin(sel, top, oy, height int) int {
	switch {
	case top >= 0:
		oy = top
	case sel < oy:
		oy = sel
	case height > 0 && sel >= oy+height:
		oy = sel - height + 1
	}
	if oy > sel {
		oy = sel
	}
	if oy < 0 {
		oy = 0
	}
	return oy
}

func padRight(s string, n int) string {
	if len(s) >= n {
		return s
	}
	return s + strings.Repeat(" ", n-len(s))
}

func mask(s string) string {
	if s == "" {
		return ""
	}
	return strings.Repeat("*", len(s))
}

func colorizeMethod(method string) string {
	color := colorReset
	switch strings.ToUpper(method) {
	case "GET":
		color = colorBlue
	case "POST":
		color = colorGreen
	}
	return color + padRight(method, 4) + colorReset
}

func colorizeStatus(status string) string {
	parts := strings.Fields(status)
	if len(parts) == 0 {
		return status
	}
	code, err := strconv.Atoi(parts[0])
	if err != nil {
		return status
	}
	color := colorReset
	switch {
	case code >= 200 && code < 300:
		color = colorGreen
	case code >= 400 && code < 500:
		color = colorYellow
	case code >= 500:
		color = colorRed
	}
	return color + status + colorReset
}

// highlight paints the bytes of text at the given offsets.
func highlight(text string, offsets []int) string {
	if len(offsets) == 0 {
		return text
	}
	var b strings.Builder
	next := 0
	for i := 0; i < len(text); i++ {
		if next < len(offsets) && offsets[next] == i {
			b.WriteString(colorYellow)
			b.WriteByte(text[i])
			b.WriteString(colorReset)
			next++
			continue
		}
		b.WriteByte(text[i])
	}
	return b.String()
}
