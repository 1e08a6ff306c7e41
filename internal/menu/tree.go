package menu

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"appsbar/internal/model"

	"github.com/tidwall/jsonc"
	"gopkg.in/yaml.v3"
)

// RootID is the id of the synthetic node whose children are the top-level apps.
const RootID = "root"

// Accessor is a read-only view of the host's menu hierarchy.
//
// Lookups of unknown ids return (nil, false); they are not errors.
type Accessor interface {
	Tree(rootID string) (*model.MenuNode, bool)
	Node(id string) (*model.MenuNode, bool)
}

// Field names probed on raw nodes, in priority order.
var (
	childFields  = []string{"childrenTree", "children", "childMenu", "subMenus"}
	nameFields   = []string{"name", "label"}
	actionFields = []string{"actionID", "actionId", "action_id", "action"}
	hrefFields   = []string{"href", "url"}
)

type rawNode map[string]any

// FileTree is an Accessor backed by a YAML, JSON or JSONC document.
//
// Two document shapes are accepted:
//   - a nested tree whose top-level object is the root node (id defaults to "root")
//   - a flat index keyed by menu id, as produced by the host's menu loader, where
//     children may be listed by id
type FileTree struct {
	path  string
	root  string
	index map[string]rawNode
}

// Load reads and parses the menu document at path.
func Load(path string) (*FileTree, error) {
	path = strings.TrimSpace(path)
	if path == "" {
		return nil, errors.New("missing menus path")
	}
	b, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	t, err := Parse(b, formatForPath(path))
	if err != nil {
		return nil, fmt.Errorf("parse %s: %w", path, err)
	}
	t.path = path
	return t, nil
}

func formatForPath(path string) string {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".yaml", ".yml":
		return "yaml"
	default:
		return "json"
	}
}

// Parse decodes a menu document. format is "yaml" or "json" (JSONC accepted).
func Parse(data []byte, format string) (*FileTree, error) {
	var doc any
	switch format {
	case "yaml", "yml":
		if err := yaml.Unmarshal(data, &doc); err != nil {
			return nil, err
		}
	case "", "json", "jsonc":
		dec := json.NewDecoder(bytes.NewReader(jsonc.ToJSON(data)))
		dec.UseNumber()
		if err := dec.Decode(&doc); err != nil {
			return nil, err
		}
	default:
		return nil, fmt.Errorf("unknown menu format: %s", format)
	}

	top, ok := normalize(doc).(map[string]any)
	if !ok {
		return nil, errors.New("menu document must be an object")
	}

	t := &FileTree{root: RootID, index: map[string]rawNode{}}
	if _, nested := top["id"]; nested || hasChildField(top) {
		id := idOf(top["id"])
		if id == "" {
			id = RootID
			top["id"] = id
		}
		t.root = id
		t.register(rawNode(top))
		return t, nil
	}

	// Flat index: keys are ids unless the entry carries its own.
	for k, v := range top {
		m, ok := v.(map[string]any)
		if !ok {
			continue
		}
		if idOf(m["id"]) == "" {
			m["id"] = k
		}
	}
	rootEntry, ok := top[RootID].(map[string]any)
	if !ok {
		return nil, errors.New("flat menu index has no root entry")
	}
	t.root = idOf(rootEntry["id"])
	t.register(rawNode(rootEntry))
	for _, v := range top {
		if m, ok := v.(map[string]any); ok {
			t.register(rawNode(m))
		}
	}
	return t, nil
}

// register indexes n and every nested node object below it. The first node seen for an id wins.
func (t *FileTree) register(n rawNode) {
	id := idOf(n["id"])
	if id == "" {
		return
	}
	if _, seen := t.index[id]; seen {
		return
	}
	t.index[id] = n
	for _, c := range rawChildren(n) {
		if m, ok := c.(map[string]any); ok {
			t.register(rawNode(m))
		}
	}
}

// Path returns the file the tree was loaded from (empty for parsed documents).
func (t *FileTree) Path() string { return t.path }

// Len returns the number of indexed menu nodes (root included).
func (t *FileTree) Len() int { return len(t.index) }

// Tree returns the materialized subtree rooted at rootID. An empty rootID means the root.
func (t *FileTree) Tree(rootID string) (*model.MenuNode, bool) {
	rootID = strings.TrimSpace(rootID)
	if rootID == "" {
		rootID = t.root
	}
	return t.Node(rootID)
}

// Node returns the materialized node with the given id.
func (t *FileTree) Node(id string) (*model.MenuNode, bool) {
	if t == nil {
		return nil, false
	}
	id = strings.TrimSpace(id)
	if id == RootID {
		id = t.root
	}
	if _, ok := t.index[id]; !ok {
		return nil, false
	}
	return t.materialize(id, map[string]bool{}), true
}

func (t *FileTree) materialize(id string, onPath map[string]bool) *model.MenuNode {
	raw := t.index[id]
	n := &model.MenuNode{
		ID:       id,
		Name:     stringField(raw, nameFields...),
		XMLID:    stringField(raw, "xmlid", "xmlId"),
		ActionID: stringField(raw, actionFields...),
		Href:     stringField(raw, hrefFields...),
	}
	if id == t.root {
		n.ID = RootID
	}
	onPath[id] = true
	defer delete(onPath, id)

	for _, c := range rawChildren(raw) {
		cid := ""
		switch v := c.(type) {
		case map[string]any:
			cid = idOf(v["id"])
		default:
			cid = idOf(v)
		}
		if cid == "" || onPath[cid] {
			continue
		}
		if _, ok := t.index[cid]; !ok {
			continue
		}
		n.Children = append(n.Children, t.materialize(cid, onPath))
	}
	return n
}

func hasChildField(m map[string]any) bool {
	for _, f := range childFields {
		if _, ok := m[f]; ok {
			return true
		}
	}
	return false
}

// rawChildren returns the first populated child list.
func rawChildren(n rawNode) []any {
	for _, f := range childFields {
		if xs, ok := n[f].([]any); ok && len(xs) > 0 {
			return xs
		}
	}
	return nil
}

func stringField(n rawNode, names ...string) string {
	for _, name := range names {
		v, ok := n[name]
		if !ok {
			continue
		}
		// Many2one-style values arrive as [id, "display name"].
		if xs, ok := v.([]any); ok {
			if len(xs) == 0 {
				continue
			}
			v = xs[0]
		}
		if s := idOf(v); s != "" {
			return s
		}
	}
	return ""
}

// idOf renders a scalar as an opaque id string. Non-scalars and false/null yield "".
func idOf(v any) string {
	switch x := v.(type) {
	case nil:
		return ""
	case string:
		return strings.TrimSpace(x)
	case json.Number:
		return x.String()
	case int:
		return strconv.Itoa(x)
	case int64:
		return strconv.FormatInt(x, 10)
	case uint64:
		return strconv.FormatUint(x, 10)
	case float64:
		return strconv.FormatFloat(x, 'f', -1, 64)
	case bool:
		if x {
			return "true"
		}
		return ""
	default:
		return ""
	}
}

// normalize converts YAML's map[any]any into map[string]any, recursively.
func normalize(v any) any {
	switch x := v.(type) {
	case map[any]any:
		out := make(map[string]any, len(x))
		for k, vv := range x {
			out[fmt.Sprint(k)] = normalize(vv)
		}
		return out
	case map[string]any:
		for k, vv := range x {
			x[k] = normalize(vv)
		}
		return x
	case []any:
		for i := range x {
			x[i] = normalize(x[i])
		}
		return x
	default:
		return v
	}
}
