package model

import "strings"

// MenuNode is one node of the host's menu hierarchy.
//
// A node with children is a group; a node without children is a leaf candidate and is
// only shown when HasAction reports true.
type MenuNode struct {
	ID       string      `json:"id" yaml:"id"`
	Name     string      `json:"name" yaml:"name"`
	XMLID    string      `json:"xmlid,omitempty" yaml:"xmlid,omitempty"`
	ActionID string      `json:"actionId,omitempty" yaml:"actionId,omitempty"`
	Href     string      `json:"href,omitempty" yaml:"href,omitempty"`
	Children []*MenuNode `json:"children,omitempty" yaml:"children,omitempty"`
}

// HasAction reports whether the node can be navigated to.
func (n *MenuNode) HasAction() bool {
	if n == nil {
		return false
	}
	switch strings.ToLower(strings.TrimSpace(n.ActionID)) {
	case "", "0", "false", "null":
	default:
		return true
	}
	return !IsPlaceholderHref(n.Href)
}

// IsGroup reports whether the node carries materialized children.
func (n *MenuNode) IsGroup() bool {
	return n != nil && len(n.Children) > 0
}

// IsPlaceholderHref reports whether href is empty or a link that goes nowhere.
func IsPlaceholderHref(href string) bool {
	switch strings.ToLower(strings.TrimSpace(href)) {
	case "", "#", "#/", "javascript:void(0)", "javascript:void(0);", "javascript:;":
		return true
	}
	return false
}

// FlatEntry is an actionable menu node projected into the flattened navigation list.
//
// Synthetic group header rows reuse this type with IsGroupHeader set; their SourceID is
// minted per render and never persisted.
type FlatEntry struct {
	SourceID      string   `json:"id" yaml:"id"`
	Name          string   `json:"name" yaml:"name"`
	DisplayDepth  int      `json:"depth" yaml:"depth"`
	GroupPath     []string `json:"groupPath,omitempty" yaml:"groupPath,omitempty"`
	GroupName     string   `json:"groupName,omitempty" yaml:"groupName,omitempty"`
	IsGroupHeader bool     `json:"isGroupHeader,omitempty" yaml:"isGroupHeader,omitempty"`
}

// AppEntry is one top-level app in the ranked apps list.
type AppEntry struct {
	ID            string `json:"id" yaml:"id"`
	Label         string `json:"label" yaml:"label"`
	XMLID         string `json:"xmlid,omitempty" yaml:"xmlid,omitempty"`
	ActionID      string `json:"actionId,omitempty" yaml:"actionId,omitempty"`
	Order         int    `json:"order" yaml:"order"`
	IsPlaceholder bool   `json:"isPlaceholder,omitempty" yaml:"isPlaceholder,omitempty"`
}

// DefaultAppOrder is the rank given to apps that match no entry of the rank table.
const DefaultAppOrder = 999
