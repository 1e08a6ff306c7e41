package nav

import (
	"context"
	"log/slog"

	"appsbar/internal/menu"
	"appsbar/internal/model"
)

// Host is the navigation side the bar talks to. *menu.Session implements it.
type Host interface {
	TreeSource
	Navigator
	CurrentApp() *model.MenuNode
	Subscribe(fn func()) (unsubscribe func())
	SelectMenu(*model.MenuNode)
}

// View is which list the bar shows.
type View int

const (
	ViewApps View = iota
	ViewChildren
)

func (v View) String() string {
	if v == ViewChildren {
		return "children"
	}
	return "apps"
}

// BarState is a snapshot of the bar.
type BarState struct {
	View          View
	SelectedApp   *model.MenuNode
	Board         Board
	CurrentMenuID string
}

// Bar keeps the apps/children views in step with the host's current app. It is not safe for
// concurrent use; drive it from one goroutine.
type Bar struct {
	ctx    context.Context
	host   Host
	recon  Reconciler
	ctrl   *Controller
	logger *slog.Logger

	view          View
	selected      *model.MenuNode
	currentMenuID string

	unsubscribe func()
}

// NewBar subscribes to host app changes. Call Close to unsubscribe.
func NewBar(ctx context.Context, host Host, orders OrderSource, p Persister, logger *slog.Logger) *Bar {
	if ctx == nil {
		ctx = context.Background()
	}
	if logger == nil {
		logger = slog.Default()
	}
	b := &Bar{
		ctx:    ctx,
		host:   host,
		recon:  Reconciler{Orders: orders},
		ctrl:   NewController(Board{}, p, logger),
		logger: logger,
	}
	b.unsubscribe = host.Subscribe(func() { b.OnAppChanged(false) })
	return b
}

func (b *Bar) Close() {
	if b.unsubscribe != nil {
		b.unsubscribe()
	}
}

func (b *Bar) State() BarState {
	return BarState{
		View:          b.view,
		SelectedApp:   b.selected,
		Board:         b.ctrl.Board(),
		CurrentMenuID: b.currentMenuID,
	}
}

// Rows returns the children-view rows (with group headers).
func (b *Bar) Rows() []model.FlatEntry {
	return b.ctrl.Board().Rows()
}

// Entries flattens and reconciles app's menus.
func (b *Bar) Entries(app *model.MenuNode) []model.FlatEntry {
	if app == nil {
		return nil
	}
	return b.recon.Reconcile(b.ctx, app.ID, Flatten(b.host.Tree(), app))
}

// OnAppChanged reacts to the host's current app. With force the entries are rebuilt even
// when the app did not change.
func (b *Bar) OnAppChanged(force bool) {
	app := b.host.CurrentApp()
	if app == nil {
		return
	}
	if force || b.selected == nil || b.selected.ID != app.ID {
		b.open(app)
	}
	b.currentMenuID = app.ID
}

// ClickApp opens entry's menus and selects it. Placeholders do nothing.
func (b *Bar) ClickApp(entry model.AppEntry) {
	if entry.IsPlaceholder {
		return
	}
	app, ok := menu.FindApp(b.host.Tree(), entry.ID)
	if !ok {
		b.logger.Warn("apps bar: unknown app", "app", entry.ID)
		return
	}
	b.open(app)
	b.currentMenuID = app.ID
	b.host.SelectApp(entry)
}

// ClickEntry navigates to row's menu. Header rows do nothing.
func (b *Bar) ClickEntry(row model.FlatEntry) {
	if row.IsGroupHeader {
		return
	}
	n, ok := b.host.Tree().Node(row.SourceID)
	if !ok {
		b.logger.Warn("apps bar: unknown menu", "menu", row.SourceID)
		return
	}
	b.currentMenuID = row.SourceID
	b.host.SelectMenu(n)
}

// Back returns to the apps view.
func (b *Bar) Back() {
	b.view = ViewApps
	b.selected = nil
	b.ctrl.Reset(Board{})
}

// Reload rebuilds the selected app's entries from the current tree.
func (b *Bar) Reload() {
	if b.selected == nil {
		return
	}
	app, ok := menu.FindApp(b.host.Tree(), b.selected.ID)
	if !ok {
		b.Back()
		return
	}
	b.open(app)
}

func (b *Bar) StartDrag(row model.FlatEntry) { b.ctrl.StartDrag(row) }
func (b *Bar) DragOver(row model.FlatEntry)  { b.ctrl.DragOver(row) }
func (b *Bar) Drop(row model.FlatEntry) bool { return b.ctrl.Drop(row) }
func (b *Bar) EndDrag()                      { b.ctrl.EndDrag() }

func (b *Bar) open(app *model.MenuNode) {
	entries := b.Entries(app)
	if len(entries) == 0 {
		b.view = ViewApps
		b.selected = nil
		b.ctrl.Reset(Board{})
		return
	}
	b.view = ViewChildren
	b.selected = app
	b.ctrl.Reset(Board{AppID: app.ID, Entries: entries})
}
