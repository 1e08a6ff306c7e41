package model

import "testing"

func TestMenuNode_HasAction(t *testing.T) {
	t.Parallel()

	cases := []struct {
		name string
		node *MenuNode
		want bool
	}{
		{"nil", nil, false},
		{"action id", &MenuNode{ID: "1", ActionID: "42"}, true},
		{"zero action id", &MenuNode{ID: "1", ActionID: "0"}, false},
		{"false action", &MenuNode{ID: "1", ActionID: "false"}, false},
		{"real href", &MenuNode{ID: "1", Href: "/odoo/action-12"}, true},
		{"hash href", &MenuNode{ID: "1", Href: "#"}, false},
		{"void href", &MenuNode{ID: "1", Href: "javascript:void(0)"}, false},
		{"nothing", &MenuNode{ID: "1"}, false},
	}
	for _, tc := range cases {
		if got := tc.node.HasAction(); got != tc.want {
			t.Fatalf("%s: HasAction()=%v, want %v", tc.name, got, tc.want)
		}
	}
}
