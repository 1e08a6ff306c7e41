package cli

import (
	"context"

	"github.com/spf13/cobra"
)

func newSettingsCmd(app *App) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "settings",
		Short: "User settings",
	}

	appOrder := &cobra.Command{
		Use:   "app-order",
		Short: "Show the user-level app order (xmlids)",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return showAppOrder(cmd, app)
		},
	}
	appOrder.AddCommand(&cobra.Command{
		Use:   "show",
		Short: "Show the user-level app order (xmlids)",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return showAppOrder(cmd, app)
		},
	})
	appOrder.AddCommand(&cobra.Command{
		Use:   "set <xmlid>...",
		Short: "Set the user-level app order",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return withRuntime(cmd, app, func(ctx context.Context, rt *runtime) error {
				if err := rt.settings.SetAppOrder(ctx, args); err != nil {
					return writeErr(cmd, err)
				}
				return writeOut(cmd, app, map[string]any{"data": map[string]any{"appOrder": rt.settings.AppOrder(ctx)}})
			})
		},
	})
	appOrder.AddCommand(&cobra.Command{
		Use:   "clear",
		Short: "Clear the user-level app order",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return withRuntime(cmd, app, func(ctx context.Context, rt *runtime) error {
				if err := rt.settings.ClearAppOrder(ctx); err != nil {
					return writeErr(cmd, err)
				}
				return writeOut(cmd, app, map[string]any{"data": map[string]any{"appOrder": nil}})
			})
		},
	})

	cmd.AddCommand(appOrder)
	return cmd
}

func showAppOrder(cmd *cobra.Command, app *App) error {
	return withRuntime(cmd, app, func(ctx context.Context, rt *runtime) error {
		var out any
		if xs := rt.settings.AppOrder(ctx); xs != nil {
			out = xs
		}
		return writeOut(cmd, app, map[string]any{"data": map[string]any{"appOrder": out}})
	})
}
