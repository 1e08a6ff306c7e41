package nav

import (
	"log/slog"
	"strings"

	"appsbar/internal/model"
)

// DragPhase is the gesture state of a Board.
type DragPhase int

const (
	DragIdle DragPhase = iota
	DragDragging
	DragDropped
)

func (p DragPhase) String() string {
	switch p {
	case DragDragging:
		return "dragging"
	case DragDropped:
		return "dropped"
	default:
		return "idle"
	}
}

// Drag is the in-flight gesture.
type Drag struct {
	Phase     DragPhase
	DraggedID string
	OverID    string
}

// Board is the ordered entry list shown for one app plus the drag gesture over it.
// Transitions are pure: each takes a Board and returns the next one.
type Board struct {
	AppID   string
	Entries []model.FlatEntry
	Drag    Drag
}

// Rows returns the entries with group headers inserted, ready for display.
func (b Board) Rows() []model.FlatEntry {
	return WithGroupHeaders(b.Entries)
}

// Order returns the entry ids in display order (headers excluded).
func (b Board) Order() []string {
	return SourceIDs(b.Entries)
}

func (b Board) indexOf(id string) int {
	for i, e := range b.Entries {
		if e.SourceID == id {
			return i
		}
	}
	return -1
}

// StartDrag picks up row. Header rows cannot be dragged.
func StartDrag(b Board, row model.FlatEntry) Board {
	if row.IsGroupHeader || b.indexOf(row.SourceID) < 0 {
		return b
	}
	b.Drag = Drag{Phase: DragDragging, DraggedID: row.SourceID}
	return b
}

// DragOver records row as the current drop target. It may fire many times per drag.
func DragOver(b Board, row model.FlatEntry) Board {
	if b.Drag.Phase != DragDragging {
		return b
	}
	b.Drag.OverID = row.SourceID
	return b
}

// Drop moves the dragged entry to target's position (splice: the entries in between shift).
// It reports whether the order changed. Dropping on itself, on a header, or with an unknown
// id leaves the board's entries untouched.
func Drop(b Board, target model.FlatEntry) (Board, bool) {
	if b.Drag.Phase != DragDragging {
		return b, false
	}
	dragged := b.Drag.DraggedID
	b.Drag.Phase = DragDropped
	b.Drag.OverID = ""
	if target.IsGroupHeader || dragged == target.SourceID {
		return b, false
	}
	from := b.indexOf(dragged)
	to := b.indexOf(target.SourceID)
	if from < 0 || to < 0 {
		return b, false
	}
	b.Entries = Move(b.Entries, from, to)
	return b, true
}

// EndDrag clears the gesture whether or not a drop happened.
func EndDrag(b Board) Board {
	b.Drag = Drag{}
	return b
}

// Move removes the entry at from and reinserts it at to, returning a new slice.
func Move(entries []model.FlatEntry, from, to int) []model.FlatEntry {
	out := make([]model.FlatEntry, 0, len(entries))
	out = append(out, entries...)
	if from < 0 || from >= len(out) || to < 0 || to >= len(out) || from == to {
		return out
	}
	moved := out[from]
	out = append(out[:from], out[from+1:]...)
	out = append(out[:to], append([]model.FlatEntry{moved}, out[to:]...)...)
	return out
}

// Persister stores a new manual order for an app. Implementations must not block the caller.
type Persister interface {
	Persist(appID string, ids []string)
}

// Controller owns a Board and persists the order after every successful drop.
type Controller struct {
	board     Board
	persister Persister
	logger    *slog.Logger
}

func NewController(b Board, p Persister, logger *slog.Logger) *Controller {
	if logger == nil {
		logger = slog.Default()
	}
	return &Controller{board: b, persister: p, logger: logger}
}

func (c *Controller) Board() Board { return c.board }

func (c *Controller) Reset(b Board) { c.board = b }

func (c *Controller) StartDrag(row model.FlatEntry) {
	c.board = StartDrag(c.board, row)
}

func (c *Controller) DragOver(row model.FlatEntry) {
	c.board = DragOver(c.board, row)
}

// Drop applies the drop and persists the resulting order when it changed.
func (c *Controller) Drop(target model.FlatEntry) bool {
	next, changed := Drop(c.board, target)
	c.board = next
	if !changed {
		return false
	}
	if strings.TrimSpace(c.board.AppID) == "" {
		c.logger.Warn("reorder: no app selected; order not persisted")
		return true
	}
	if c.persister != nil {
		c.persister.Persist(c.board.AppID, c.board.Order())
	}
	return true
}

func (c *Controller) EndDrag() {
	c.board = EndDrag(c.board)
}

// Find returns the row (header or entry) with the given id from the displayed rows.
func (c *Controller) Find(id string) (model.FlatEntry, bool) {
	for _, r := range c.board.Rows() {
		if r.SourceID == id {
			return r, true
		}
	}
	return model.FlatEntry{}, false
}
