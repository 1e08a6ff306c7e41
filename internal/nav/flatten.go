package nav

import (
	"strings"

	"appsbar/internal/menu"
	"appsbar/internal/model"
)

// GroupSeparator joins a group path into a display name.
const GroupSeparator = " / "

// Flatten converts the app's menu subtree into an ordered list of actionable entries.
//
// Traversal is depth-first in source order. Groups (nodes with children) contribute no entry
// of their own; their non-blank names extend the group path of everything below them. Leaves
// without an action are dropped. A menu id reachable more than once is only emitted at its first
// position.
func Flatten(acc menu.Accessor, app *model.MenuNode) []model.FlatEntry {
	if app == nil {
		return nil
	}
	out := []model.FlatEntry{}
	seen := map[string]bool{}
	onPath := map[string]bool{app.ID: true}

	var walk func(n *model.MenuNode, path []string, depth int)
	walk = func(n *model.MenuNode, path []string, depth int) {
		if n == nil || strings.TrimSpace(n.ID) == "" || onPath[n.ID] {
			return
		}
		kids := menu.Children(acc, n)
		if len(kids) > 0 {
			groupPath := path
			if name := strings.TrimSpace(n.Name); name != "" {
				groupPath = make([]string, len(path), len(path)+1)
				copy(groupPath, path)
				groupPath = append(groupPath, name)
			}
			onPath[n.ID] = true
			for _, c := range kids {
				walk(c, groupPath, depth+1)
			}
			delete(onPath, n.ID)
			return
		}
		if !n.HasAction() || seen[n.ID] {
			return
		}
		seen[n.ID] = true
		out = append(out, model.FlatEntry{
			SourceID:     n.ID,
			Name:         n.Name,
			DisplayDepth: depth,
			GroupPath:    path,
			GroupName:    strings.Join(path, GroupSeparator),
		})
	}
	for _, c := range menu.Children(acc, app) {
		walk(c, nil, 1)
	}
	return out
}
