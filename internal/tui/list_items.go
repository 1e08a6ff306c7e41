package tui

import (
	"appsbar/internal/model"

	"github.com/charmbracelet/bubbles/list"
)

// appItem is a row in the apps view.
type appItem struct {
	entry model.AppEntry
}

func (i appItem) FilterValue() string { return i.entry.Label }
func (i appItem) Title() string       { return i.entry.Label }

// menuItem is a row in the children view: an entry or a group header.
type menuItem struct {
	row model.FlatEntry
}

func (i menuItem) FilterValue() string { return i.row.Name }
func (i menuItem) Title() string       { return i.row.Name }

func newList(title string, d list.ItemDelegate) list.Model {
	l := list.New([]list.Item{}, d, 0, 0)
	l.Title = title
	// The model renders its own header, footer and minibuffer.
	l.SetShowTitle(false)
	l.SetShowHelp(false)
	l.SetShowStatusBar(false)
	l.SetShowPagination(false)
	l.SetFilteringEnabled(false)
	// Bubble list quits on ESC by default; here ESC is back/cancel.
	l.KeyMap.Quit.SetKeys("q")
	l.KeyMap.CursorUp.SetKeys(append(l.KeyMap.CursorUp.Keys(), "ctrl+p")...)
	l.KeyMap.CursorDown.SetKeys(append(l.KeyMap.CursorDown.Keys(), "ctrl+n")...)
	return l
}

func appItems(apps []model.AppEntry) []list.Item {
	out := make([]list.Item, 0, len(apps))
	for _, a := range apps {
		out = append(out, appItem{entry: a})
	}
	return out
}

func menuItems(rows []model.FlatEntry) []list.Item {
	out := make([]list.Item, 0, len(rows))
	for _, r := range rows {
		out = append(out, menuItem{row: r})
	}
	return out
}

// selectListItemByID moves the cursor to the item with the given id, if present.
func selectListItemByID(l *list.Model, id string) bool {
	for i, it := range l.Items() {
		switch it := it.(type) {
		case appItem:
			if it.entry.ID == id {
				l.Select(i)
				return true
			}
		case menuItem:
			if it.row.SourceID == id {
				l.Select(i)
				return true
			}
		}
	}
	return false
}
