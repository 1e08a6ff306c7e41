package main

import (
	"os"
	"strings"

	"appsbar/internal/cli"
)

func isAppShortcut(s string) bool {
	s = strings.TrimSpace(s)
	return strings.HasPrefix(s, "@") && len(s) > 1
}

func rewriteAppShortcutArgs(argv []string) []string {
	// Convenience: `appsbar @crm` works like `appsbar menus crm`.
	//
	// Cobra treats the first non-flag token as a subcommand, so we rewrite argv before parsing.
	// Persistent flags may come first (e.g. `appsbar --menus m.yaml @crm`), so we look for the
	// first positional token, not just argv[1].
	if len(argv) < 2 {
		return argv
	}

	valueFlags := map[string]bool{
		"--menus":      true,
		"--dir":        true,
		"--backend":    true,
		"--redis-addr": true,
		"--format":     true,
		"--log-level":  true,
	}
	boolFlags := map[string]bool{
		"--pretty": true,
	}

	rewrite := func(i int) []string {
		out := make([]string, 0, len(argv)+1)
		out = append(out, argv[:i]...)
		out = append(out, "menus", strings.TrimPrefix(strings.TrimSpace(argv[i]), "@"))
		out = append(out, argv[i+1:]...)
		return out
	}

	for i := 1; i < len(argv); i++ {
		a := strings.TrimSpace(argv[i])
		if a == "" {
			continue
		}
		if a == "--" {
			if i+1 < len(argv) && isAppShortcut(argv[i+1]) {
				return rewrite(i + 1)
			}
			return argv
		}
		if strings.HasPrefix(a, "-") {
			if strings.Contains(a, "=") || boolFlags[a] {
				continue
			}
			if valueFlags[a] {
				i++
			}
			continue
		}
		if isAppShortcut(a) {
			return rewrite(i)
		}
		return argv
	}
	return argv
}

func main() {
	os.Args = rewriteAppShortcutArgs(os.Args)

	cmd := cli.NewRootCmd()
	if err := cmd.Execute(); err != nil {
		os.Exit(1)
	}
}
