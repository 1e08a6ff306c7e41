package cli

import (
	"context"

	"appsbar/internal/nav"

	"github.com/spf13/cobra"
)

func newMenusCmd(app *App) *cobra.Command {
	var natural bool
	var noHeaders bool

	cmd := &cobra.Command{
		Use:   "menus <app>",
		Short: "Show an app's flattened menus in display order",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return withRuntime(cmd, app, func(ctx context.Context, rt *runtime) error {
				a, err := resolveApp(rt, args[0])
				if err != nil {
					return writeErr(cmd, err)
				}
				entries := nav.Flatten(rt.tree, a)
				if !natural {
					entries = nav.Reconciler{Orders: rt.orders}.Reconcile(ctx, a.ID, entries)
				}
				rows := entries
				if !noHeaders {
					rows = nav.WithGroupHeaders(entries)
				}
				return writeOut(cmd, app, map[string]any{"data": map[string]any{
					"app":  map[string]any{"id": a.ID, "name": a.Name, "xmlid": a.XMLID},
					"rows": rows,
				}})
			})
		},
	}

	cmd.Flags().BoolVar(&natural, "natural", false, "Ignore the persisted order")
	cmd.Flags().BoolVar(&noHeaders, "no-headers", false, "Omit group header rows")
	return cmd
}
