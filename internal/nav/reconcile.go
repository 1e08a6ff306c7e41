package nav

import (
	"context"

	"appsbar/internal/model"
)

// OrderSource reads the persisted manual order for an app. ok=false means there is none (or it
// could not be read).
type OrderSource interface {
	Load(ctx context.Context, appID string) (ids []string, ok bool)
}

// Reconciler merges the persisted order with a freshly flattened list.
type Reconciler struct {
	Orders OrderSource
}

// Reconcile returns current reordered by the persisted order for appID, or current unchanged
// when no order is stored.
func (r Reconciler) Reconcile(ctx context.Context, appID string, current []model.FlatEntry) []model.FlatEntry {
	if r.Orders == nil {
		return current
	}
	order, ok := r.Orders.Load(ctx, appID)
	if !ok {
		return current
	}
	return ApplyOrder(order, current)
}

// ApplyOrder places entries named in order first (in that order), then every remaining entry
// in its original relative order. Ids in order that are not in current are ignored. The result
// is always a permutation of current.
func ApplyOrder(order []string, current []model.FlatEntry) []model.FlatEntry {
	out := make([]model.FlatEntry, 0, len(current))
	byID := make(map[string][]int, len(current))
	for i, e := range current {
		byID[e.SourceID] = append(byID[e.SourceID], i)
	}
	consumed := make([]bool, len(current))
	for _, id := range order {
		idxs := byID[id]
		if len(idxs) == 0 {
			continue
		}
		i := idxs[0]
		byID[id] = idxs[1:]
		consumed[i] = true
		out = append(out, current[i])
	}
	for i, e := range current {
		if !consumed[i] {
			out = append(out, e)
		}
	}
	return out
}
