package cli

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"appsbar/internal/store"
)

const testMenus = `
id: root
children:
  - id: 10
    name: CRM
    xmlid: crm.crm_menu_root
    children:
      - id: 11
        name: Sales
        children:
          - {id: 12, name: Orders, actionID: 112}
          - {id: 13, name: Quotations, actionID: 113}
      - {id: 14, name: Customers, actionID: 114}
  - id: 20
    name: Sales
    xmlid: sale.sale_menu_root
    children:
      - {id: 21, name: Orders, actionID: 121}
  - id: 30
    name: Unknown
    xmlid: foo.bar_menu
    children:
      - {id: 31, name: Thing, actionID: 131}
`

func runCLI(t *testing.T, args []string) (stdout []byte, stderr []byte, err error) {
	t.Helper()

	cmd := NewRootCmd()

	var outBuf bytes.Buffer
	var errBuf bytes.Buffer
	cmd.SetOut(&outBuf)
	cmd.SetErr(&errBuf)
	cmd.SetArgs(args)

	e := cmd.Execute()
	return outBuf.Bytes(), errBuf.Bytes(), e
}

// setupCLI isolates config and state in temp dirs and returns the global flags to pass.
func setupCLI(t *testing.T) []string {
	t.Helper()
	t.Setenv("APPSBAR_CONFIG_DIR", t.TempDir())
	for _, k := range []string{"APPSBAR_MENUS", "APPSBAR_DIR", "APPSBAR_BACKEND", "APPSBAR_REDIS_ADDR", "APPSBAR_FORMAT", "APPSBAR_LOG_LEVEL"} {
		t.Setenv(k, "")
	}
	dir := t.TempDir()
	menus := filepath.Join(dir, "menus.yaml")
	if err := os.WriteFile(menus, []byte(testMenus), 0o644); err != nil {
		t.Fatalf("write menus: %v", err)
	}
	return []string{"--dir", dir, "--menus", menus}
}

func mustRunData(t *testing.T, global []string, args ...string) any {
	t.Helper()
	all := append(append([]string{}, global...), args...)
	stdout, stderr, err := runCLI(t, all)
	if err != nil {
		t.Fatalf("appsbar %v: %v\nstderr:\n%s", args, err, stderr)
	}
	var env map[string]any
	if err := json.Unmarshal(stdout, &env); err != nil {
		t.Fatalf("unmarshal: %v\nstdout:\n%s", err, stdout)
	}
	data, ok := env["data"]
	if !ok {
		t.Fatalf("expected data envelope, got %s", stdout)
	}
	return data
}

func rowIDs(t *testing.T, data any) []string {
	t.Helper()
	rows, _ := data.(map[string]any)["rows"].([]any)
	var out []string
	for _, r := range rows {
		out = append(out, r.(map[string]any)["id"].(string))
	}
	return out
}

func TestApps_RankedWithPlaceholders(t *testing.T) {
	global := setupCLI(t)

	data := mustRunData(t, global, "apps")
	var labels []string
	for _, a := range data.([]any) {
		labels = append(labels, a.(map[string]any)["label"].(string))
	}
	if got := strings.Join(labels, ","); got != "Dashboard,CRM,Sales,Documents,Training,Unknown" {
		t.Fatalf("apps = %s", got)
	}
}

func TestApps_SelectPlaceholderAndApp(t *testing.T) {
	global := setupCLI(t)

	data := mustRunData(t, global, "apps", "select", "Dashboard").(map[string]any)
	if data["selected"] != false {
		t.Fatalf("placeholder must not be selectable: %#v", data)
	}

	data = mustRunData(t, global, "apps", "select", "crm").(map[string]any)
	if data["selected"] != true || data["view"] != "children" {
		t.Fatalf("unexpected select result: %#v", data)
	}
	st, err := store.Store{Dir: global[1]}.LoadTUIState()
	if err != nil || st.AppID != "10" || st.View != "children" {
		t.Fatalf("expected TUI state to remember app 10, got %#v (%v)", st, err)
	}
}

func TestMenusAndOrderRoundTrip(t *testing.T) {
	global := setupCLI(t)

	if got := strings.Join(rowIDs(t, mustRunData(t, global, "menus", "crm")), ","); got != "__group_1,12,13,14" {
		t.Fatalf("menus = %s", got)
	}

	moved := mustRunData(t, global, "order", "move", "crm", "12", "14").(map[string]any)
	if moved["changed"] != true {
		t.Fatalf("expected change: %#v", moved)
	}

	if got := strings.Join(rowIDs(t, mustRunData(t, global, "menus", "10")), ","); got != "__group_1,13,14,__group_2,12" {
		t.Fatalf("menus after move = %s", got)
	}
	if got := strings.Join(rowIDs(t, mustRunData(t, global, "menus", "crm.crm_menu_root", "--natural", "--no-headers")), ","); got != "12,13,14" {
		t.Fatalf("natural menus = %s", got)
	}

	show := mustRunData(t, global, "order", "show", "crm").(map[string]any)
	if show["key"] != "appsbar_menu_order_10" {
		t.Fatalf("unexpected key: %#v", show)
	}
	if order, _ := show["order"].([]any); len(order) != 3 || order[2] != "12" {
		t.Fatalf("unexpected order: %#v", show)
	}
	if ids, _ := mustRunData(t, global, "order", "list").([]any); len(ids) != 1 || ids[0] != "10" {
		t.Fatalf("order list = %#v", ids)
	}

	// Dropping on a header is a no-op.
	noop := mustRunData(t, global, "order", "move", "crm", "13", "__group_1").(map[string]any)
	if noop["changed"] != false {
		t.Fatalf("expected no change: %#v", noop)
	}

	// Unknown ids are a no-op too, and the stored order survives.
	for _, pair := range [][2]string{{"99", "13"}, {"13", "99"}} {
		unknown := mustRunData(t, global, "order", "move", "crm", pair[0], pair[1]).(map[string]any)
		if unknown["changed"] != false {
			t.Fatalf("move %v: expected no change: %#v", pair, unknown)
		}
	}
	if got := strings.Join(rowIDs(t, mustRunData(t, global, "menus", "crm")), ","); got != "__group_1,13,14,__group_2,12" {
		t.Fatalf("menus after no-op moves = %s", got)
	}

	mustRunData(t, global, "order", "reset", "crm")
	if show := mustRunData(t, global, "order", "show", "crm").(map[string]any); show["order"] != nil {
		t.Fatalf("expected null order after reset: %#v", show)
	}
}

func TestSettingsAppOrder(t *testing.T) {
	global := setupCLI(t)

	mustRunData(t, global, "settings", "app-order", "set", "foo.bar_menu")
	got := mustRunData(t, global, "settings", "app-order").(map[string]any)
	if xs, _ := got["appOrder"].([]any); len(xs) != 1 || xs[0] != "foo.bar_menu" {
		t.Fatalf("appOrder = %#v", got)
	}
	mustRunData(t, global, "settings", "app-order", "clear")
	if got := mustRunData(t, global, "settings", "app-order", "show").(map[string]any); got["appOrder"] != nil {
		t.Fatalf("expected cleared app order, got %#v", got)
	}
}

func TestUnknownAppIsNotFound(t *testing.T) {
	global := setupCLI(t)

	_, stderr, err := runCLI(t, append(global, "menus", "nope"))
	var nf notFoundError
	if !errors.As(err, &nf) || nf.kind != "app" {
		t.Fatalf("expected notFoundError, got %v", err)
	}
	if !strings.Contains(string(stderr), "app not found: nope") {
		t.Fatalf("unexpected stderr: %s", stderr)
	}
}

func TestMissingMenusIsAnError(t *testing.T) {
	global := setupCLI(t)

	_, _, err := runCLI(t, []string{"--dir", global[1], "apps"})
	if err == nil || !strings.Contains(err.Error(), "no menu tree configured") {
		t.Fatalf("expected missing menus error, got %v", err)
	}
}

func TestConfigFileSuppliesDefaults(t *testing.T) {
	global := setupCLI(t)

	cfg := &store.GlobalConfig{
		Menus: global[3],
		Store: &store.StoreConfig{Dir: global[1], Namespace: "custom"},
		Apps:  &store.AppsConfig{Ranks: map[string]int{"unknown": 1}},
	}
	if err := store.SaveConfig(cfg); err != nil {
		t.Fatalf("SaveConfig: %v", err)
	}

	data := mustRunData(t, nil, "apps")
	var labels []string
	for _, a := range data.([]any) {
		labels = append(labels, a.(map[string]any)["label"].(string))
	}
	if got := strings.Join(labels, ","); got != "Dashboard,Unknown,CRM,Sales,Documents,Training" {
		t.Fatalf("apps = %s", got)
	}
	if show := mustRunData(t, nil, "order", "show", "crm").(map[string]any); show["key"] != "custom_10" {
		t.Fatalf("expected configured namespace, got %#v", show)
	}

	path := mustRunData(t, nil, "config", "path").(map[string]any)["path"].(string)
	if filepath.Base(path) != "config.json" {
		t.Fatalf("unexpected config path %q", path)
	}
}

func TestYAMLOutput(t *testing.T) {
	global := setupCLI(t)

	stdout, _, err := runCLI(t, append(global, "--format", "yaml", "order", "show", "crm"))
	if err != nil {
		t.Fatalf("run: %v", err)
	}
	if !strings.Contains(string(stdout), "key: appsbar_menu_order_10") || !strings.Contains(string(stdout), "order: null") {
		t.Fatalf("unexpected yaml:\n%s", stdout)
	}
}

func TestDocs(t *testing.T) {
	global := setupCLI(t)

	topics := mustRunData(t, global, "docs").(map[string]any)["topics"].([]any)
	if len(topics) == 0 {
		t.Fatalf("expected topics")
	}
	stdout, _, err := runCLI(t, []string{"docs", "ordering", "--raw"})
	if err != nil || !strings.HasPrefix(string(stdout), "# Menu ordering") {
		t.Fatalf("raw docs: %v\n%s", err, stdout)
	}
	if _, _, err := runCLI(t, []string{"docs", "nope"}); err == nil {
		t.Fatalf("expected unknown topic error")
	}
}

func TestTUIRuntimeLogsStoreFailuresToFile(t *testing.T) {
	global := setupCLI(t)
	ctx := context.Background()

	app := &App{Dir: global[1], MenusPath: global[3]}
	rt, err := app.open(ctx, nil)
	if err != nil {
		t.Fatalf("open: %v", err)
	}
	if err := rt.kv.Set(ctx, rt.orders.Key("7"), "{not json"); err != nil {
		t.Fatalf("Set: %v", err)
	}
	if err := rt.kv.Set(ctx, "user_settings_homemenu_config", "{nope"); err != nil {
		t.Fatalf("Set: %v", err)
	}
	if _, ok := rt.orders.Load(ctx, "7"); ok {
		t.Fatalf("expected corrupt order to be absent")
	}
	if got := rt.settings.AppOrder(ctx); got != nil {
		t.Fatalf("expected malformed app order ignored, got %v", got)
	}
	if err := rt.close(); err != nil {
		t.Fatalf("close: %v", err)
	}

	b, err := os.ReadFile(rt.st.LogPath())
	if err != nil {
		t.Fatalf("read log: %v", err)
	}
	log := string(b)
	for _, want := range []string{"ignoring corrupt value", "malformed homemenu_config"} {
		if !strings.Contains(log, want) {
			t.Fatalf("log file missing %q:\n%s", want, log)
		}
	}
}
