package cli

import (
	"context"
	"strings"

	"appsbar/internal/menu"
	"appsbar/internal/model"
	"appsbar/internal/nav"
	"appsbar/internal/store"

	"github.com/spf13/cobra"
)

func newAppsCmd(app *App) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "apps",
		Short: "List apps in bar order (placeholders included)",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return withRuntime(cmd, app, func(ctx context.Context, rt *runtime) error {
				tree, err := rt.loadTree()
				if err != nil {
					return writeErr(cmd, err)
				}
				svc := rt.appService(menu.NewSession(tree))
				return writeOut(cmd, app, map[string]any{"data": svc.OrderedApps(ctx)})
			})
		},
	}
	cmd.AddCommand(newAppsSelectCmd(app))
	return cmd
}

func newAppsSelectCmd(app *App) *cobra.Command {
	return &cobra.Command{
		Use:   "select <app>",
		Short: "Select an app (placeholders are not selectable)",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return withRuntime(cmd, app, func(ctx context.Context, rt *runtime) error {
				tree, err := rt.loadTree()
				if err != nil {
					return writeErr(cmd, err)
				}
				session := menu.NewSession(tree)
				svc := rt.appService(session)
				entry, ok := findAppEntry(svc.OrderedApps(ctx), args[0])
				if !ok {
					return writeErr(cmd, errNotFound("app", args[0]))
				}
				if !svc.SelectApp(entry) {
					return writeOut(cmd, app, map[string]any{"data": map[string]any{"selected": false, "app": entry}})
				}

				cur := session.CurrentApp()
				bar := nav.NewBar(ctx, session, rt.orders, nil, rt.logger)
				defer bar.Close()
				bar.OnAppChanged(true)
				state := bar.State()

				// Remember the selection so the TUI reopens it.
				ts := store.TUIState{View: state.View.String(), AppID: cur.ID, MenuID: state.CurrentMenuID}
				if err := rt.st.SaveTUIState(ts); err != nil {
					rt.logger.Warn("tui state: save failed", "err", err)
				}

				return writeOut(cmd, app, map[string]any{"data": map[string]any{
					"selected": true,
					"app":      entry,
					"view":     state.View.String(),
					"rows":     state.Board.Rows(),
				}})
			})
		},
	}
}

// findAppEntry matches ref against id, xmlid, then label (case-insensitive).
func findAppEntry(apps []model.AppEntry, ref string) (model.AppEntry, bool) {
	ref = strings.TrimSpace(ref)
	for _, a := range apps {
		if a.ID == ref {
			return a, true
		}
	}
	for _, a := range apps {
		if a.XMLID != "" && a.XMLID == ref {
			return a, true
		}
	}
	for _, a := range apps {
		if strings.EqualFold(strings.TrimSpace(a.Label), ref) {
			return a, true
		}
	}
	return model.AppEntry{}, false
}
