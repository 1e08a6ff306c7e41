package cli

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"strings"

	"appsbar/internal/format"
	"appsbar/internal/logging"
	"appsbar/internal/menu"
	"appsbar/internal/model"
	"appsbar/internal/nav"
	"appsbar/internal/store"
	"appsbar/internal/tui"

	"github.com/spf13/cobra"
)

type App struct {
	MenusPath  string
	Dir        string
	Backend    string
	RedisAddr  string
	Format     string
	PrettyJSON bool
	LogLevel   string
}

func NewRootCmd() *cobra.Command {
	app := &App{}

	cmd := &cobra.Command{
		Use:          "appsbar",
		Short:        "Apps bar (local-first) CLI + TUI",
		SilenceUsage: true,
		Example: strings.TrimSpace(`
  # Start the interactive TUI
  appsbar --menus ./menus.yaml

  # Ranked apps
  appsbar apps

  # Flattened menus of an app (shortcut for: appsbar menus crm)
  appsbar @crm

  # Move a menu and persist the new order
  appsbar order move crm 12 14
`),
		RunE: func(cmd *cobra.Command, args []string) error {
			// No subcommand => interactive TUI.
			if cmd.HasSubCommands() && len(args) == 0 {
				return runTUI(cmd, app)
			}
			return cmd.Help()
		},
	}

	cmd.PersistentFlags().StringVar(&app.MenusPath, "menus", envOr("APPSBAR_MENUS", ""), "Menu tree file (YAML, JSON or JSONC)")
	cmd.PersistentFlags().StringVar(&app.Dir, "dir", envOr("APPSBAR_DIR", ""), "State dir (default: ~/.appsbar)")
	cmd.PersistentFlags().StringVar(&app.Backend, "backend", envOr("APPSBAR_BACKEND", ""), "Order store backend (sqlite|redis|memory)")
	cmd.PersistentFlags().StringVar(&app.RedisAddr, "redis-addr", envOr("APPSBAR_REDIS_ADDR", ""), "Redis address for --backend redis")
	cmd.PersistentFlags().StringVar(&app.Format, "format", envOr("APPSBAR_FORMAT", "json"), "Output format (json|yaml|edn)")
	cmd.PersistentFlags().BoolVar(&app.PrettyJSON, "pretty", false, "Pretty-print JSON/EDN output")
	cmd.PersistentFlags().StringVar(&app.LogLevel, "log-level", envOr("APPSBAR_LOG_LEVEL", ""), "Log level (debug|info|warn|error)")

	cmd.AddCommand(newAppsCmd(app))
	cmd.AddCommand(newMenusCmd(app))
	cmd.AddCommand(newOrderCmd(app))
	cmd.AddCommand(newSettingsCmd(app))
	cmd.AddCommand(newConfigCmd(app))
	cmd.AddCommand(newDocsCmd(app))

	return cmd
}

// runtime is everything a command needs, resolved from flags, env and the config file.
type runtime struct {
	cfg      *store.GlobalConfig
	st       store.Store
	kv       store.KV
	orders   *store.OrderStore
	settings store.Settings
	writer   *store.AsyncWriter
	logger   *slog.Logger

	menusPath string
	tree      *menu.FileTree

	closeLog func() error
}

// open resolves the runtime. Logs go to the configured log file, else to logTo; a nil logTo
// means the state directory's log file (the TUI owns the terminal).
func (app *App) open(ctx context.Context, logTo io.Writer) (*runtime, error) {
	cfg, err := store.LoadConfig()
	if err != nil {
		return nil, fmt.Errorf("load config: %w", err)
	}
	sc := cfg.StoreOrEmpty()
	lc := cfg.LogOrEmpty()

	rt := &runtime{cfg: cfg}

	dir := firstNonEmpty(app.Dir, sc.Dir)
	if dir == "" {
		d, err := store.DefaultDir()
		if err != nil {
			return nil, err
		}
		dir = d
	}
	rt.st = store.Store{Dir: dir}

	level := firstNonEmpty(app.LogLevel, lc.Level)
	switch path := strings.TrimSpace(lc.File); {
	case path != "":
		l, closeFn, err := logging.OpenFile(level, path)
		if err != nil {
			return nil, err
		}
		rt.logger, rt.closeLog = l, closeFn
	case logTo == nil:
		l, closeFn, err := logging.OpenFile(firstNonEmpty(level, "info"), rt.st.LogPath())
		if err != nil {
			return nil, err
		}
		rt.logger, rt.closeLog = l, closeFn
	default:
		l, err := logging.New(level, logTo)
		if err != nil {
			return nil, err
		}
		rt.logger = l
	}

	kv, err := rt.st.Open(ctx, store.Options{
		Backend:     firstNonEmpty(app.Backend, sc.Backend),
		RedisAddr:   firstNonEmpty(app.RedisAddr, sc.RedisAddr),
		RedisPrefix: sc.RedisPrefix,
	})
	if err != nil {
		rt.close()
		return nil, err
	}
	rt.kv = kv
	rt.writer = store.NewAsyncWriter(kv, rt.logger)
	rt.orders = store.NewOrderStore(kv, sc.Namespace, rt.logger).WithWriter(rt.writer)
	rt.settings = store.NewSettings(kv, rt.logger)
	rt.menusPath = firstNonEmpty(app.MenusPath, cfg.Menus)
	return rt, nil
}

// close flushes pending writes before closing the backend so CLI mutations are durable.
func (rt *runtime) close() error {
	var errs []error
	if rt.writer != nil {
		errs = append(errs, rt.writer.Close())
	}
	if rt.kv != nil {
		errs = append(errs, rt.kv.Close())
	}
	if rt.closeLog != nil {
		errs = append(errs, rt.closeLog())
	}
	return errors.Join(errs...)
}

func (rt *runtime) loadTree() (*menu.FileTree, error) {
	if rt.tree != nil {
		return rt.tree, nil
	}
	if strings.TrimSpace(rt.menusPath) == "" {
		return nil, errors.New("no menu tree configured (pass --menus, set APPSBAR_MENUS, or set \"menus\" in the config file)")
	}
	t, err := menu.Load(rt.menusPath)
	if err != nil {
		return nil, err
	}
	rt.tree = t
	return t, nil
}

func (rt *runtime) appService(session *menu.Session) *nav.AppService {
	svc := nav.NewAppService(session, rt.settings, session)
	if ac := rt.cfg.Apps; ac != nil {
		svc.Ranks = nav.MergeRanks(nav.DefaultRanks(), ac.Ranks)
		if ac.Placeholders != nil {
			svc.Placeholders = placeholdersFromConfig(ac.Placeholders)
		}
	}
	return svc
}

func placeholdersFromConfig(in []store.PlaceholderConfig) []model.AppEntry {
	out := make([]model.AppEntry, 0, len(in))
	for _, p := range in {
		if strings.TrimSpace(p.ID) == "" {
			continue
		}
		out = append(out, model.AppEntry{ID: p.ID, Label: p.Label, XMLID: p.XMLID, Order: p.Order, IsPlaceholder: true})
	}
	return out
}

// withRuntime opens the runtime, runs fn, then closes it.
func withRuntime(cmd *cobra.Command, app *App, fn func(ctx context.Context, rt *runtime) error) error {
	ctx := cmd.Context()
	if ctx == nil {
		ctx = context.Background()
	}
	rt, err := app.open(ctx, cmd.ErrOrStderr())
	if err != nil {
		return writeErr(cmd, err)
	}
	runErr := fn(ctx, rt)
	if err := rt.close(); err != nil && runErr == nil {
		return writeErr(cmd, err)
	}
	return runErr
}

func runTUI(cmd *cobra.Command, app *App) error {
	ctx := cmd.Context()
	if ctx == nil {
		ctx = context.Background()
	}
	rt, err := app.open(ctx, nil)
	if err != nil {
		return writeErr(cmd, err)
	}
	defer rt.close()

	tree, err := rt.loadTree()
	if err != nil {
		return writeErr(cmd, err)
	}
	session := menu.NewSession(tree)
	return tui.Run(ctx, tui.Options{
		Store:     rt.st,
		Session:   session,
		Apps:      rt.appService(session),
		Orders:    rt.orders,
		Persister: store.NewOrderPersister(rt.orders, rt.writer),
		MenusPath: rt.menusPath,
		Logger:    rt.logger,
	})
}

func resolveApp(rt *runtime, ref string) (*model.MenuNode, error) {
	tree, err := rt.loadTree()
	if err != nil {
		return nil, err
	}
	a, ok := menu.FindApp(tree, ref)
	if !ok {
		return nil, errNotFound("app", ref)
	}
	return a, nil
}

func firstNonEmpty(vs ...string) string {
	for _, v := range vs {
		if v = strings.TrimSpace(v); v != "" {
			return v
		}
	}
	return ""
}

func envOr(k, d string) string {
	if v := os.Getenv(k); v != "" {
		return v
	}
	return d
}

func writeOut(cmd *cobra.Command, app *App, v any) error {
	return format.Write(cmd.OutOrStdout(), v, app.Format, app.PrettyJSON)
}

func writeErr(cmd *cobra.Command, err error) error {
	fmt.Fprintln(cmd.ErrOrStderr(), err.Error())
	return err
}
