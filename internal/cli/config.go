package cli

import (
	"fmt"

	"appsbar/internal/store"

	"github.com/spf13/cobra"
)

func newConfigCmd(app *App) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "config",
		Short: "Show the global config",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return showConfig(cmd, app)
		},
	}
	cmd.AddCommand(&cobra.Command{
		Use:   "show",
		Short: "Show the global config",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return showConfig(cmd, app)
		},
	})
	cmd.AddCommand(&cobra.Command{
		Use:   "path",
		Short: "Print the config file path",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			path, err := store.ConfigPath()
			if err != nil {
				return writeErr(cmd, err)
			}
			return writeOut(cmd, app, map[string]any{"data": map[string]any{"path": path}})
		},
	})
	return cmd
}

func showConfig(cmd *cobra.Command, app *App) error {
	cfg, err := store.LoadConfig()
	if err != nil {
		return writeErr(cmd, fmt.Errorf("load config: %w", err))
	}
	path, _ := store.ConfigPath()
	return writeOut(cmd, app, map[string]any{"data": cfg, "meta": map[string]any{"path": path}})
}
