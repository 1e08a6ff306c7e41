package nav

import (
	"reflect"
	"sync"
	"testing"

	"appsbar/internal/model"
)

type recordingPersister struct {
	mu    sync.Mutex
	calls []string
	last  map[string][]string
}

func (p *recordingPersister) Persist(appID string, ids []string) {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.last == nil {
		p.last = map[string][]string{}
	}
	p.calls = append(p.calls, appID)
	p.last[appID] = append([]string(nil), ids...)
}

func row(id string) model.FlatEntry { return model.FlatEntry{SourceID: id, Name: id} }

func TestDrop_SplicesDraggedToTargetIndex(t *testing.T) {
	t.Parallel()

	cases := []struct {
		dragged, target string
		want            []string
	}{
		{"A", "C", []string{"B", "C", "A"}},
		{"C", "A", []string{"C", "A", "B"}},
		{"A", "B", []string{"B", "A", "C"}},
		{"B", "A", []string{"B", "A", "C"}},
	}
	for _, tc := range cases {
		b := Board{AppID: "1", Entries: entries("A", "B", "C")}
		b = StartDrag(b, row(tc.dragged))
		b = DragOver(b, row(tc.target))
		if b.Drag.OverID != tc.target {
			t.Fatalf("DragOver did not record target: %#v", b.Drag)
		}
		next, changed := Drop(b, row(tc.target))
		if !changed {
			t.Fatalf("drop %s on %s: expected change", tc.dragged, tc.target)
		}
		if got := next.Order(); !reflect.DeepEqual(got, tc.want) {
			t.Fatalf("drop %s on %s = %v, want %v", tc.dragged, tc.target, got, tc.want)
		}
		if next.Drag.Phase != DragDropped {
			t.Fatalf("expected dropped phase, got %s", next.Drag.Phase)
		}
		if EndDrag(next).Drag.Phase != DragIdle {
			t.Fatalf("EndDrag must return to idle")
		}
		// The source board is untouched.
		if got := b.Order(); !reflect.DeepEqual(got, []string{"A", "B", "C"}) {
			t.Fatalf("input board mutated: %v", got)
		}
	}
}

func TestDrop_InvalidGesturesAreNoOps(t *testing.T) {
	t.Parallel()

	base := Board{AppID: "1", Entries: entries("A", "B", "C")}
	header := model.FlatEntry{SourceID: "__group_1", Name: "G", IsGroupHeader: true}

	// Dropping without a drag.
	if _, changed := Drop(base, row("B")); changed {
		t.Fatalf("drop without drag must not change order")
	}
	// Headers cannot be picked up.
	if b := StartDrag(base, header); b.Drag.Phase != DragIdle {
		t.Fatalf("header drag must be ignored")
	}
	// Unknown ids cannot be picked up.
	if b := StartDrag(base, row("Z")); b.Drag.Phase != DragIdle {
		t.Fatalf("unknown drag must be ignored")
	}
	dragging := StartDrag(base, row("A"))
	for _, target := range []model.FlatEntry{row("A"), header, row("Z")} {
		next, changed := Drop(dragging, target)
		if changed || !reflect.DeepEqual(next.Order(), []string{"A", "B", "C"}) {
			t.Fatalf("drop on %q must be a no-op, got %v", target.SourceID, next.Order())
		}
	}
	// DragOver outside a drag is ignored.
	if b := DragOver(base, row("B")); b.Drag.OverID != "" {
		t.Fatalf("DragOver while idle must be ignored")
	}
}

func TestDrop_PreservesMultisetAndRegeneratesHeaders(t *testing.T) {
	t.Parallel()

	b := Board{AppID: "1", Entries: []model.FlatEntry{
		{SourceID: "a", GroupName: "G"},
		{SourceID: "b", GroupName: "G"},
		{SourceID: "c"},
	}}
	b = StartDrag(b, b.Entries[0])
	b, _ = Drop(b, b.Entries[2])

	if got := b.Order(); !reflect.DeepEqual(got, []string{"b", "c", "a"}) {
		t.Fatalf("order = %v", got)
	}
	if got := ids(b.Rows()); !reflect.DeepEqual(got, []string{"__group_1", "b", "c", "__group_2", "a"}) {
		t.Fatalf("rows = %v", got)
	}
}

func TestMove_OutOfRangeReturnsCopy(t *testing.T) {
	t.Parallel()

	in := entries("A", "B")
	out := Move(in, 0, 5)
	if !reflect.DeepEqual(ids(out), []string{"A", "B"}) {
		t.Fatalf("got %v", ids(out))
	}
	out[0].SourceID = "X"
	if in[0].SourceID != "A" {
		t.Fatalf("Move must not alias its input")
	}
}

func TestController_PersistsOnlyChangedDrops(t *testing.T) {
	t.Parallel()

	p := &recordingPersister{}
	c := NewController(Board{AppID: "10", Entries: entries("A", "B", "C")}, p, nil)

	c.StartDrag(row("A"))
	c.DragOver(row("B"))
	c.DragOver(row("C"))
	if !c.Drop(row("C")) {
		t.Fatalf("expected drop to change order")
	}
	c.EndDrag()

	c.StartDrag(row("B"))
	if c.Drop(row("B")) {
		t.Fatalf("drop on self must not change order")
	}
	c.EndDrag()

	if len(p.calls) != 1 || !reflect.DeepEqual(p.last["10"], []string{"B", "C", "A"}) {
		t.Fatalf("persist calls=%v last=%v", p.calls, p.last)
	}
	if c.Board().Drag.Phase != DragIdle {
		t.Fatalf("expected idle after EndDrag")
	}
	if r, ok := c.Find("A"); !ok || r.SourceID != "A" {
		t.Fatalf("Find(A) = %#v %v", r, ok)
	}
}

func TestController_NoAppMeansNoPersist(t *testing.T) {
	t.Parallel()

	p := &recordingPersister{}
	c := NewController(Board{Entries: entries("A", "B")}, p, nil)
	c.StartDrag(row("A"))
	if !c.Drop(row("B")) {
		t.Fatalf("expected local reorder")
	}
	if len(p.calls) != 0 {
		t.Fatalf("expected no persist without an app, got %v", p.calls)
	}
}
