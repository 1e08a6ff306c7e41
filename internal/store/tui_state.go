package store

import (
	"encoding/json"
	"errors"
	"io/fs"
	"os"
	"path/filepath"
)

const tuiStateFileName = "tui_state.json"

// TUIState is where the TUI was when it last exited.
type TUIState struct {
	View   string `json:"view,omitempty"` // apps|children
	AppID  string `json:"app,omitempty"`
	MenuID string `json:"menu,omitempty"`
}

func (s Store) tuiStatePath() string {
	return filepath.Join(s.Dir, tuiStateFileName)
}

// LoadTUIState reads the saved state. A missing or unreadable-as-JSON file yields the zero
// state; only I/O failures are errors.
func (s Store) LoadTUIState() (TUIState, error) {
	var st TUIState
	if s.Dir == "" {
		return st, nil
	}
	b, err := os.ReadFile(s.tuiStatePath())
	if errors.Is(err, fs.ErrNotExist) {
		return st, nil
	}
	if err != nil {
		return st, err
	}
	if json.Unmarshal(b, &st) != nil {
		return TUIState{}, nil
	}
	return st, nil
}

func (s Store) SaveTUIState(st TUIState) error {
	if s.Dir == "" {
		return nil
	}
	if err := s.Ensure(); err != nil {
		return err
	}
	b, err := json.Marshal(st)
	if err != nil {
		return err
	}
	return atomicWriteFile(s.Dir, tuiStateFileName+".*.tmp", s.tuiStatePath(), b, 0o644)
}
