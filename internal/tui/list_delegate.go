package tui

import (
	"fmt"
	"io"
	"strings"

	"appsbar/internal/nav"

	"github.com/charmbracelet/bubbles/list"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	xansi "github.com/charmbracelet/x/ansi"
)

// barDelegate renders one line per row. drag reports the gesture in progress so the carried
// entry and the drop target can be marked.
type barDelegate struct {
	drag func() nav.Drag
}

func (d barDelegate) Height() int                             { return 1 }
func (d barDelegate) Spacing() int                            { return 0 }
func (d barDelegate) Update(_ tea.Msg, _ *list.Model) tea.Cmd { return nil }

func (d barDelegate) Render(w io.Writer, m list.Model, index int, item list.Item) {
	contentW := m.Width()
	if contentW < 4 {
		fmt.Fprint(w, "")
		return
	}

	var drag nav.Drag
	if d.drag != nil {
		drag = d.drag()
	}

	style := lipgloss.NewStyle()
	var line string
	switch it := item.(type) {
	case appItem:
		line = "  " + it.entry.Label
		if it.entry.IsPlaceholder {
			style = styleMuted()
		}
	case menuItem:
		indent := strings.Repeat("  ", max(it.row.DisplayDepth-1, 0))
		switch {
		case it.row.IsGroupHeader:
			line = indent + it.row.Name
			style = styleHeader()
		case drag.Phase == nav.DragDragging && it.row.SourceID == drag.DraggedID:
			line = indent + "≡ " + it.row.Name
			style = styleDragged()
		default:
			line = indent + "  " + it.row.Name
		}
		if drag.Phase == nav.DragDragging && it.row.SourceID == drag.OverID && it.row.SourceID != drag.DraggedID {
			style = styleDropTarget()
		}
	default:
		line = fmt.Sprint(item)
	}

	if index == m.Index() && !(drag.Phase == nav.DragDragging) {
		style = styleSelected()
	}

	lineW := xansi.StringWidth(line)
	if lineW < contentW {
		line += strings.Repeat(" ", contentW-lineW)
	} else if lineW > contentW {
		line = xansi.Cut(line, 0, contentW)
	}
	fmt.Fprint(w, style.Render(line))
}
