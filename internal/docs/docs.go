package docs

import (
	"embed"
	"io/fs"
	"os"
	"path/filepath"
	"sort"
	"strconv"
	"strings"
	"sync"

	"github.com/charmbracelet/glamour"
	"github.com/charmbracelet/lipgloss"
)

//go:embed content/*.md
var contentFS embed.FS

func Topics() []string {
	entries, err := fs.Glob(contentFS, "content/*.md")
	if err != nil {
		return []string{}
	}
	var topics []string
	for _, path := range entries {
		base := filepath.Base(path)
		topic := strings.TrimSuffix(base, filepath.Ext(base))
		if topic != "" {
			topics = append(topics, topic)
		}
	}
	sort.Strings(topics)
	return topics
}

func Get(topic string) (string, bool) {
	topic = strings.ToLower(strings.TrimSpace(topic))
	if topic == "" || strings.ContainsAny(topic, `/\`) {
		return "", false
	}
	b, err := contentFS.ReadFile("content/" + topic + ".md")
	if err != nil {
		return "", false
	}
	return string(b), true
}

var (
	rendererMu sync.Mutex
	// Keyed by style + wrap width. WithAutoStyle can block on terminal queries, so styles are
	// resolved up front.
	renderers = map[string]*glamour.TermRenderer{}
)

// Render renders markdown for a terminal of the given width. style is "dark", "light" or
// "notty"; empty picks dark or light from the environment. Rendering errors fall back to the
// raw markdown.
func Render(md string, width int, style string) string {
	md = strings.TrimSpace(md)
	if md == "" {
		return ""
	}
	if width < 20 {
		width = 20
	}
	if style == "" {
		style = Style()
	}
	key := style + ":" + strconv.Itoa(width)

	rendererMu.Lock()
	defer rendererMu.Unlock()
	r := renderers[key]
	if r == nil {
		rr, err := glamour.NewTermRenderer(
			glamour.WithStandardStyle(style),
			glamour.WithWordWrap(width),
		)
		if err != nil {
			return md
		}
		renderers[key] = rr
		r = rr
	}
	out, err := r.Render(md)
	if err != nil {
		return md
	}
	return strings.TrimRight(out, "\n")
}

// Style picks the markdown palette: APPSBAR_THEME (dark|light) wins, then COLORFGBG, then
// Lip Gloss background detection.
func Style() string {
	switch strings.ToLower(strings.TrimSpace(os.Getenv("APPSBAR_THEME"))) {
	case "light":
		return "light"
	case "dark":
		return "dark"
	}
	// COLORFGBG is "fg;bg"; xterm palette 7-15 are light backgrounds.
	if v := strings.TrimSpace(os.Getenv("COLORFGBG")); v != "" {
		parts := strings.Split(v, ";")
		if bg, err := strconv.Atoi(strings.TrimSpace(parts[len(parts)-1])); err == nil {
			if bg >= 7 {
				return "light"
			}
			return "dark"
		}
	}
	if lipgloss.HasDarkBackground() {
		return "dark"
	}
	return "light"
}
