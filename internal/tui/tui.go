package tui

import (
	"context"
	"log/slog"

	"appsbar/internal/menu"
	"appsbar/internal/nav"
	"appsbar/internal/store"

	tea "github.com/charmbracelet/bubbletea"
)

// Options wires the TUI to the menu session, the order store and the state dir.
type Options struct {
	Store     store.Store
	Session   *menu.Session
	Apps      *nav.AppService
	Orders    nav.OrderSource
	Persister nav.Persister
	// MenusPath is watched and reloaded on change; empty disables watching.
	MenusPath string
	Logger    *slog.Logger
}

func Run(ctx context.Context, opts Options) error {
	applyThemePreference()
	applyColorProfilePreference()

	m := newAppModel(ctx, opts)
	defer m.close()
	m.restoreState()

	p := tea.NewProgram(m, tea.WithAltScreen(), tea.WithContext(ctx))

	var w *menu.Watcher
	if opts.MenusPath != "" {
		w = menu.NewWatcher(opts.MenusPath, func(t *menu.FileTree) {
			p.Send(treeReloadedMsg{tree: t})
		}, menu.WithWatchLogger(m.logger))
		if err := w.Start(); err != nil {
			m.logger.Warn("menus watcher disabled", "path", opts.MenusPath, "err", err)
			w = nil
		}
	}

	final, err := p.Run()
	if w != nil {
		_ = w.Stop()
	}
	if fm, ok := final.(appModel); ok {
		fm.saveState()
	}
	return err
}
