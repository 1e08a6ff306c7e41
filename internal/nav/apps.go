package nav

import (
	"context"
	"sort"
	"strings"

	"appsbar/internal/menu"
	"appsbar/internal/model"
)

// TreeSource yields the menu tree currently in effect. *menu.Session implements it.
type TreeSource interface {
	Tree() menu.Accessor
}

// SettingsSource yields the user-level app order as a list of xmlids (nil when unset).
type SettingsSource interface {
	AppOrder(ctx context.Context) []string
}

// Navigator receives app selections. Placeholders never reach it.
type Navigator interface {
	SelectApp(model.AppEntry)
}

// DefaultRanks is the built-in app priority table, keyed by lower-cased label or xmlid suffix.
func DefaultRanks() map[string]int {
	return map[string]int{
		"contacts":     1,
		"crm":          2,
		"sales":        3,
		"accounting":   4,
		"invoicing":    4,
		"ai assistant": 7,
		"ai_assistant": 7,
		"website":      8,
		"settings":     9,
		"apps":         10,
	}
}

// DefaultPlaceholders are the synthetic, non-selectable apps shown in the bar.
func DefaultPlaceholders() []model.AppEntry {
	return []model.AppEntry{
		{ID: "placeholder_dashboard", Label: "Dashboard", XMLID: "placeholder.dashboard", Order: 0, IsPlaceholder: true},
		{ID: "placeholder_documents", Label: "Documents", XMLID: "placeholder.documents", Order: 5, IsPlaceholder: true},
		{ID: "placeholder_training", Label: "Training", XMLID: "placeholder.training", Order: 6, IsPlaceholder: true},
	}
}

// MergeRanks returns base overlaid with overrides. Keys are lower-cased.
func MergeRanks(base, overrides map[string]int) map[string]int {
	out := make(map[string]int, len(base)+len(overrides))
	for k, v := range base {
		out[strings.ToLower(strings.TrimSpace(k))] = v
	}
	for k, v := range overrides {
		k = strings.ToLower(strings.TrimSpace(k))
		if k != "" {
			out[k] = v
		}
	}
	return out
}

// AppService computes the top-level app list.
type AppService struct {
	Menus    TreeSource
	Settings SettingsSource
	Nav      Navigator

	// Ranks and Placeholders default to DefaultRanks and DefaultPlaceholders when nil.
	Ranks        map[string]int
	Placeholders []model.AppEntry
}

func NewAppService(menus TreeSource, settings SettingsSource, nav Navigator) *AppService {
	return &AppService{
		Menus:        menus,
		Settings:     settings,
		Nav:          nav,
		Ranks:        DefaultRanks(),
		Placeholders: DefaultPlaceholders(),
	}
}

// OrderedApps returns placeholders and apps, stable-sorted by rank. The user's homemenu order
// decides the relative order of apps that share a rank.
func (s *AppService) OrderedApps(ctx context.Context) []model.AppEntry {
	var acc menu.Accessor
	if s.Menus != nil {
		acc = s.Menus.Tree()
	}
	apps := make([]model.AppEntry, 0)
	for _, n := range menu.Apps(acc) {
		apps = append(apps, model.AppEntry{
			ID:       n.ID,
			Label:    n.Name,
			XMLID:    n.XMLID,
			ActionID: n.ActionID,
		})
	}
	if s.Settings != nil {
		apps = applyUserOrder(s.Settings.AppOrder(ctx), apps)
	}

	ranks := s.Ranks
	if ranks == nil {
		ranks = DefaultRanks()
	}
	placeholders := s.Placeholders
	if placeholders == nil {
		placeholders = DefaultPlaceholders()
	}

	out := make([]model.AppEntry, 0, len(placeholders)+len(apps))
	for _, p := range placeholders {
		p.IsPlaceholder = true
		out = append(out, p)
	}
	for _, a := range apps {
		a.Order = Rank(ranks, a.Label, a.XMLID)
		out = append(out, a)
	}
	sort.SliceStable(out, func(i, j int) bool { return out[i].Order < out[j].Order })
	return out
}

// SelectApp forwards entry to the navigator. Placeholders are ignored.
func (s *AppService) SelectApp(entry model.AppEntry) bool {
	if entry.IsPlaceholder || strings.TrimSpace(entry.ID) == "" || s.Nav == nil {
		return false
	}
	s.Nav.SelectApp(entry)
	return true
}

// Rank looks up label first, then the last dot-separated segment of xmlid. Unmatched apps
// get model.DefaultAppOrder.
func Rank(ranks map[string]int, label, xmlid string) int {
	if r, ok := ranks[strings.ToLower(strings.TrimSpace(label))]; ok {
		return r
	}
	if xmlid = strings.TrimSpace(xmlid); xmlid != "" {
		suffix := xmlid
		if i := strings.LastIndex(xmlid, "."); i >= 0 {
			suffix = xmlid[i+1:]
		}
		if r, ok := ranks[strings.ToLower(suffix)]; ok {
			return r
		}
	}
	return model.DefaultAppOrder
}

// applyUserOrder moves apps listed in xmlids to the front, in that order.
func applyUserOrder(xmlids []string, apps []model.AppEntry) []model.AppEntry {
	if len(xmlids) == 0 {
		return apps
	}
	pos := make(map[string]int, len(xmlids))
	for i, x := range xmlids {
		if _, dup := pos[x]; !dup {
			pos[x] = i
		}
	}
	out := make([]model.AppEntry, len(apps))
	copy(out, apps)
	sort.SliceStable(out, func(i, j int) bool {
		pi, iok := pos[out[i].XMLID]
		pj, jok := pos[out[j].XMLID]
		switch {
		case iok && jok:
			return pi < pj
		case iok:
			return true
		default:
			return false
		}
	})
	return out
}
