package nav

import (
	"strconv"

	"appsbar/internal/model"
)

const headerIDPrefix = "__group_"

// WithGroupHeaders inserts a synthetic header row before every run of entries that share a
// non-empty group name. Run it on the final (reconciled) order so group boundaries follow the
// user's order rather than the tree's.
//
// Header ids come from a counter local to this call; they are never persisted.
func WithGroupHeaders(entries []model.FlatEntry) []model.FlatEntry {
	out := make([]model.FlatEntry, 0, len(entries))
	next := 0
	prev := ""
	for _, e := range entries {
		if e.IsGroupHeader {
			continue
		}
		if e.GroupName != "" && e.GroupName != prev {
			next++
			out = append(out, model.FlatEntry{
				SourceID:      headerIDPrefix + strconv.Itoa(next),
				Name:          e.GroupName,
				DisplayDepth:  e.DisplayDepth,
				GroupPath:     e.GroupPath,
				GroupName:     e.GroupName,
				IsGroupHeader: true,
			})
		}
		prev = e.GroupName
		out = append(out, e)
	}
	return out
}

// StripHeaders drops synthetic header rows.
func StripHeaders(rows []model.FlatEntry) []model.FlatEntry {
	out := make([]model.FlatEntry, 0, len(rows))
	for _, r := range rows {
		if !r.IsGroupHeader {
			out = append(out, r)
		}
	}
	return out
}

// SourceIDs returns the ids of the non-header rows, in order.
func SourceIDs(rows []model.FlatEntry) []string {
	out := make([]string, 0, len(rows))
	for _, r := range rows {
		if !r.IsGroupHeader {
			out = append(out, r.SourceID)
		}
	}
	return out
}
