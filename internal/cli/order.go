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

func newOrderCmd(app *App) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "order",
		Short: "Inspect and change persisted menu orders",
	}
	cmd.AddCommand(newOrderShowCmd(app))
	cmd.AddCommand(newOrderListCmd(app))
	cmd.AddCommand(newOrderMoveCmd(app))
	cmd.AddCommand(newOrderResetCmd(app))
	return cmd
}

// orderAppID resolves ref through the menu tree when one is configured. Orders of apps that
// no longer exist stay addressable by raw id.
func orderAppID(rt *runtime, ref string) string {
	ref = strings.TrimSpace(ref)
	if tree, err := rt.loadTree(); err == nil {
		if a, ok := menu.FindApp(tree, ref); ok {
			return a.ID
		}
	}
	return ref
}

func newOrderShowCmd(app *App) *cobra.Command {
	return &cobra.Command{
		Use:   "show <app>",
		Short: "Show the persisted order (null when none)",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return withRuntime(cmd, app, func(ctx context.Context, rt *runtime) error {
				id := orderAppID(rt, args[0])
				ids, ok := rt.orders.Load(ctx, id)
				var order any
				if ok {
					order = ids
				}
				return writeOut(cmd, app, map[string]any{"data": map[string]any{
					"app":   id,
					"key":   rt.orders.Key(id),
					"order": order,
				}})
			})
		},
	}
}

func newOrderListCmd(app *App) *cobra.Command {
	return &cobra.Command{
		Use:   "list",
		Short: "List apps that have a persisted order",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return withRuntime(cmd, app, func(ctx context.Context, rt *runtime) error {
				ids, err := rt.orders.AppIDs(ctx)
				if err != nil {
					return writeErr(cmd, err)
				}
				return writeOut(cmd, app, map[string]any{"data": ids})
			})
		},
	}
}

func newOrderMoveCmd(app *App) *cobra.Command {
	return &cobra.Command{
		Use:   "move <app> <dragged-id> <target-id>",
		Short: "Drop one menu onto another and persist the new order",
		Args:  cobra.ExactArgs(3),
		RunE: func(cmd *cobra.Command, args []string) error {
			return withRuntime(cmd, app, func(ctx context.Context, rt *runtime) error {
				a, err := resolveApp(rt, args[0])
				if err != nil {
					return writeErr(cmd, err)
				}
				entries := nav.Reconciler{Orders: rt.orders}.Reconcile(ctx, a.ID, nav.Flatten(rt.tree, a))
				ctrl := nav.NewController(nav.Board{AppID: a.ID, Entries: entries}, store.NewOrderPersister(rt.orders, rt.writer), rt.logger)

				// Ids not on the board make the gesture a no-op, as in the TUI.
				dragged, ok := ctrl.Find(args[1])
				if !ok {
					dragged = model.FlatEntry{SourceID: args[1]}
				}
				target, ok := ctrl.Find(args[2])
				if !ok {
					target = model.FlatEntry{SourceID: args[2]}
				}
				ctrl.StartDrag(dragged)
				ctrl.DragOver(target)
				changed := ctrl.Drop(target)
				ctrl.EndDrag()

				return writeOut(cmd, app, map[string]any{"data": map[string]any{
					"app":     a.ID,
					"changed": changed,
					"order":   ctrl.Board().Order(),
				}})
			})
		},
	}
}

func newOrderResetCmd(app *App) *cobra.Command {
	return &cobra.Command{
		Use:   "reset <app>",
		Short: "Forget the persisted order (back to the natural order)",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return withRuntime(cmd, app, func(ctx context.Context, rt *runtime) error {
				id := orderAppID(rt, args[0])
				if err := rt.orders.Clear(ctx, id); err != nil {
					return writeErr(cmd, err)
				}
				return writeOut(cmd, app, map[string]any{"data": map[string]any{"app": id, "reset": true}})
			})
		},
	}
}
