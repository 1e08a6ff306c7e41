package menu

import (
	"strings"

	"appsbar/internal/model"
)

// Children returns n's children, re-querying the accessor by id when the node was handed
// over without them.
func Children(acc Accessor, n *model.MenuNode) []*model.MenuNode {
	if n == nil {
		return nil
	}
	if len(n.Children) > 0 {
		return n.Children
	}
	if acc == nil || strings.TrimSpace(n.ID) == "" {
		return nil
	}
	if t, ok := acc.Tree(n.ID); ok && t != nil {
		return t.Children
	}
	return nil
}

// Apps returns the top-level app nodes in source order.
func Apps(acc Accessor) []*model.MenuNode {
	if acc == nil {
		return nil
	}
	root, ok := acc.Tree(RootID)
	if !ok {
		return nil
	}
	var out []*model.MenuNode
	for _, a := range Children(acc, root) {
		if a != nil && strings.TrimSpace(a.ID) != "" {
			out = append(out, a)
		}
	}
	return out
}

// FindApp resolves a top-level app by id, xmlid or case-insensitive name.
func FindApp(acc Accessor, ref string) (*model.MenuNode, bool) {
	ref = strings.TrimSpace(ref)
	if ref == "" {
		return nil, false
	}
	apps := Apps(acc)
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
		if strings.EqualFold(strings.TrimSpace(a.Name), ref) {
			return a, true
		}
	}
	return nil, false
}

// AppOf returns the top-level app whose subtree contains the menu with the given id.
func AppOf(acc Accessor, menuID string) (*model.MenuNode, bool) {
	menuID = strings.TrimSpace(menuID)
	if menuID == "" {
		return nil, false
	}
	for _, a := range Apps(acc) {
		if a.ID == menuID || contains(acc, a, menuID, map[string]bool{}) {
			return a, true
		}
	}
	return nil, false
}

func contains(acc Accessor, n *model.MenuNode, id string, seen map[string]bool) bool {
	if n == nil || seen[n.ID] {
		return false
	}
	seen[n.ID] = true
	for _, c := range Children(acc, n) {
		if c == nil {
			continue
		}
		if c.ID == id || contains(acc, c, id, seen) {
			return true
		}
	}
	return false
}
