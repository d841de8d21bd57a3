package app

import (
	"fmt"

	"github.com/gdamore/tcell/v2"
)

// draw renders the prompt line, the filtered list, and a status line.
func (a *App) draw(screen tcell.Screen, p *Picker) {
	screen.Clear()
	w, h := screen.Size()
	if h < 2 || w == 0 {
		screen.Show()
		return
	}

	putLine(screen, 0, 0, w, "> "+p.Prompt(), tcell.StyleDefault.Bold(true))

	rows := h - 2
	view := p.View()
	for i := 0; i < rows && i < len(view); i++ {
		style := tcell.StyleDefault
		if i == p.Cursor() {
			style = style.Reverse(true)
		}
		marker := "  "
		if p.IsSelected(i) {
			marker = "* "
		}
		putLine(screen, 0, i+1, w, marker+view[i].Text, style)
	}

	status := fmt.Sprintf("-- %s -- %d/%d", modeName(p.Mode()), len(view), len(a.items))
	if a.lastNote != "" {
		status += "  " + a.lastNote
	}
	putLine(screen, 0, h-1, w, status, tcell.StyleDefault.Dim(true))

	screen.Show()
}

func modeName(mode string) string {
	if mode == ModeInsert {
		return "INSERT"
	}
	return "NORMAL"
}

// putLine writes one row of text clipped to the screen width.
func putLine(screen tcell.Screen, x, y, width int, text string, style tcell.Style) {
	col := x
	for _, r := range text {
		if col >= width {
			return
		}
		screen.SetContent(col, y, r, nil, style)
		col++
	}
}
