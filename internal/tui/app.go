package tui

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"appsbar/internal/docs"
	"appsbar/internal/menu"
	"appsbar/internal/model"
	"appsbar/internal/nav"
	"appsbar/internal/store"

	"github.com/charmbracelet/bubbles/list"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
)

const minibufferAutoClearAfter = 4 * time.Second

type treeReloadedMsg struct {
	tree *menu.FileTree
}

type minibufferTickMsg struct{}

type appModel struct {
	ctx    context.Context
	opts   Options
	bar    *nav.Bar
	logger *slog.Logger

	width  int
	height int

	appsList list.Model
	rowsList list.Model

	showHelp bool

	minibufferText  string
	minibufferSetAt time.Time
}

func newAppModel(ctx context.Context, opts Options) appModel {
	if ctx == nil {
		ctx = context.Background()
	}
	logger := opts.Logger
	if logger == nil {
		logger = slog.Default()
	}
	m := appModel{ctx: ctx, opts: opts, logger: logger}
	m.bar = nav.NewBar(ctx, opts.Session, opts.Orders, opts.Persister, logger)
	m.appsList = newList("Apps", barDelegate{})
	m.rowsList = newList("Menus", barDelegate{drag: func() nav.Drag { return m.bar.State().Board.Drag }})
	m.refreshApps()
	m.refreshRows()
	return m
}

func (m appModel) close() { m.bar.Close() }

func (m appModel) Init() tea.Cmd { return tickMinibuffer() }

func tickMinibuffer() tea.Cmd {
	return tea.Tick(time.Second, func(time.Time) tea.Msg { return minibufferTickMsg{} })
}

func (m *appModel) showMinibuffer(text string) {
	m.minibufferText = text
	m.minibufferSetAt = time.Now()
}

func (m appModel) dragging() bool {
	return m.bar.State().Board.Drag.Phase == nav.DragDragging
}

func (m appModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.resizeLists()
		return m, nil

	case minibufferTickMsg:
		if m.minibufferText != "" && time.Since(m.minibufferSetAt) > minibufferAutoClearAfter {
			m.minibufferText = ""
		}
		return m, tickMinibuffer()

	case treeReloadedMsg:
		m.applyTree(msg.tree)
		m.showMinibuffer("menus reloaded")
		return m, nil

	case tea.KeyMsg:
		if m.showHelp {
			switch msg.String() {
			case "ctrl+c":
				return m, tea.Quit
			case "?", "esc", "q":
				m.showHelp = false
			}
			return m, nil
		}
		if m.dragging() {
			return m.updateDragging(msg)
		}
		switch msg.String() {
		case "ctrl+c", "q":
			return m, tea.Quit
		case "?":
			m.showHelp = true
			return m, nil
		case "r":
			m.reloadFromDisk()
			return m, nil
		case "esc", "backspace":
			if m.bar.State().View == nav.ViewChildren {
				appID := ""
				if a := m.bar.State().SelectedApp; a != nil {
					appID = a.ID
				}
				m.bar.Back()
				m.refreshRows()
				selectListItemByID(&m.appsList, appID)
			}
			return m, nil
		case "enter":
			if m.bar.State().View == nav.ViewChildren {
				m.openSelectedRow()
			} else {
				m.openSelectedApp()
			}
			return m, nil
		case " ":
			if m.bar.State().View == nav.ViewChildren {
				if it, ok := m.rowsList.SelectedItem().(menuItem); ok && !it.row.IsGroupHeader {
					m.bar.StartDrag(it.row)
					m.bar.DragOver(it.row)
					m.showMinibuffer(fmt.Sprintf("moving %s: up/down to choose, enter to drop, esc to cancel", it.row.Name))
				}
			}
			return m, nil
		}
	}

	var cmd tea.Cmd
	if m.bar.State().View == nav.ViewChildren {
		m.rowsList, cmd = m.rowsList.Update(msg)
	} else {
		m.appsList, cmd = m.appsList.Update(msg)
	}
	return m, cmd
}

func (m appModel) updateDragging(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "ctrl+c":
		m.bar.EndDrag()
		return m, tea.Quit
	case "esc", "backspace":
		m.bar.EndDrag()
		m.showMinibuffer("move cancelled")
		return m, nil
	case "up", "k", "ctrl+p":
		m.moveCursor(-1)
		return m, nil
	case "down", "j", "ctrl+n":
		m.moveCursor(1)
		return m, nil
	case "enter", " ":
		it, ok := m.rowsList.SelectedItem().(menuItem)
		dragged := m.bar.State().Board.Drag.DraggedID
		changed := ok && m.bar.Drop(it.row)
		m.bar.EndDrag()
		m.refreshRows()
		if changed {
			selectListItemByID(&m.rowsList, dragged)
			m.showMinibuffer("order saved")
		} else {
			m.showMinibuffer("order unchanged")
		}
		return m, nil
	}
	return m, nil
}

func (m *appModel) moveCursor(delta int) {
	n := len(m.rowsList.Items())
	if n == 0 {
		return
	}
	i := m.rowsList.Index() + delta
	if i < 0 || i >= n {
		return
	}
	m.rowsList.Select(i)
	if it, ok := m.rowsList.SelectedItem().(menuItem); ok {
		m.bar.DragOver(it.row)
	}
}

func (m *appModel) openSelectedApp() {
	it, ok := m.appsList.SelectedItem().(appItem)
	if !ok {
		return
	}
	if it.entry.IsPlaceholder {
		m.showMinibuffer(fmt.Sprintf("%s is not available", it.entry.Label))
		return
	}
	m.bar.ClickApp(it.entry)
	m.refreshRows()
	if m.bar.State().View != nav.ViewChildren {
		m.showMinibuffer(fmt.Sprintf("%s has no menus", it.entry.Label))
	}
}

func (m *appModel) openSelectedRow() {
	it, ok := m.rowsList.SelectedItem().(menuItem)
	if !ok || it.row.IsGroupHeader {
		return
	}
	m.bar.ClickEntry(it.row)
	m.refreshRows()
	selectListItemByID(&m.rowsList, it.row.SourceID)
	m.showMinibuffer("opened " + it.row.Name)
}

func (m *appModel) reloadFromDisk() {
	if m.opts.MenusPath == "" {
		m.refreshApps()
		m.bar.Reload()
		m.refreshRows()
		return
	}
	t, err := menu.Load(m.opts.MenusPath)
	if err != nil {
		m.logger.Warn("menus reload failed", "path", m.opts.MenusPath, "err", err)
		m.showMinibuffer("reload failed: " + err.Error())
		return
	}
	m.applyTree(t)
	m.showMinibuffer("menus reloaded")
}

func (m *appModel) applyTree(t *menu.FileTree) {
	if t == nil {
		return
	}
	// A reload cancels any gesture; the entries it referred to may be gone.
	m.bar.EndDrag()
	m.opts.Session.SetTree(t)
	m.bar.Reload()
	m.refreshApps()
	m.refreshRows()
}

func (m *appModel) refreshApps() {
	curID := ""
	if it, ok := m.appsList.SelectedItem().(appItem); ok {
		curID = it.entry.ID
	}
	var apps []model.AppEntry
	if m.opts.Apps != nil {
		apps = m.opts.Apps.OrderedApps(m.ctx)
	}
	m.appsList.SetItems(appItems(apps))
	if curID != "" {
		selectListItemByID(&m.appsList, curID)
	}
}

func (m *appModel) refreshRows() {
	curID := ""
	if it, ok := m.rowsList.SelectedItem().(menuItem); ok {
		curID = it.row.SourceID
	}
	m.rowsList.SetItems(menuItems(m.bar.Rows()))
	if curID == "" || !selectListItemByID(&m.rowsList, curID) {
		m.rowsList.Select(0)
	}
}

func (m *appModel) resizeLists() {
	// Leave room for header, footer and minibuffer.
	h := m.height - 5
	if h < 3 {
		h = 3
	}
	w := m.width
	if w < 20 {
		w = 20
	}
	m.appsList.SetSize(w, h)
	m.rowsList.SetSize(w, h)
}

// restoreState reopens the app selected in the previous session. Missing or stale state is
// ignored.
func (m *appModel) restoreState() {
	st, err := m.opts.Store.LoadTUIState()
	if err != nil || st.AppID == "" {
		return
	}
	if st.View != nav.ViewChildren.String() {
		selectListItemByID(&m.appsList, st.AppID)
		return
	}
	if _, ok := menu.FindApp(m.opts.Session.Tree(), st.AppID); !ok {
		return
	}
	for _, it := range m.appsList.Items() {
		if ai, ok := it.(appItem); ok && ai.entry.ID == st.AppID {
			selectListItemByID(&m.appsList, ai.entry.ID)
			m.bar.ClickApp(ai.entry)
			m.refreshRows()
			if st.MenuID != "" {
				selectListItemByID(&m.rowsList, st.MenuID)
			}
			return
		}
	}
}

func (m appModel) saveState() {
	bs := m.bar.State()
	st := store.TUIState{View: bs.View.String(), MenuID: bs.CurrentMenuID}
	if bs.SelectedApp != nil {
		st.AppID = bs.SelectedApp.ID
	} else if it, ok := m.appsList.SelectedItem().(appItem); ok {
		st.AppID = it.entry.ID
	}
	if err := m.opts.Store.SaveTUIState(st); err != nil {
		m.logger.Warn("tui state: save failed", "err", err)
	}
}

func (m appModel) View() string {
	bs := m.bar.State()
	title := "Apps"
	if bs.View == nav.ViewChildren && bs.SelectedApp != nil {
		title = "Apps › " + bs.SelectedApp.Name
	}
	header := styleTitle().Render(title)

	var body string
	switch {
	case m.showHelp:
		body = renderHelp(m.width)
	case bs.View == nav.ViewChildren:
		body = m.rowsList.View()
	default:
		body = m.appsList.View()
	}

	keys := "enter: open  esc: back  space: move  r: reload  ?: help  q: quit"
	if bs.Board.Drag.Phase == nav.DragDragging {
		keys = "up/down: choose target  enter/space: drop  esc: cancel"
	}
	footer := styleMuted().Render(keys)

	parts := []string{header, body, footer}
	if m.minibufferText != "" {
		parts = append(parts, lipgloss.NewStyle().Foreground(colorChromeFg).Render(m.minibufferText))
	}
	return strings.Join(parts, "\n")
}

func renderHelp(width int) string {
	body, ok := docs.Get("keys")
	if !ok {
		return ""
	}
	if width <= 0 {
		width = 80
	}
	return docs.Render(body, width, "")
}
