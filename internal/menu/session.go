package menu

import (
	"strings"
	"sync"

	"appsbar/internal/model"
)

// Session tracks the current app and menu and notifies subscribers when the current app
// changes. It is the navigation side of the host: selectApp / selectMenu land here.
type Session struct {
	mu            sync.Mutex
	tree          Accessor
	currentAppID  string
	currentMenuID string
	listeners     map[int]func()
	nextListener  int
}

func NewSession(tree Accessor) *Session {
	return &Session{tree: tree, listeners: map[int]func(){}}
}

// Tree returns the accessor currently backing the session.
func (s *Session) Tree() Accessor {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.tree
}

// SetTree swaps the menu tree (e.g. after the menus file changed) and notifies subscribers.
// If the current app disappeared from the new tree it is cleared.
func (s *Session) SetTree(t Accessor) {
	s.mu.Lock()
	s.tree = t
	if s.currentAppID != "" {
		if _, ok := FindApp(t, s.currentAppID); !ok {
			s.currentAppID = ""
			s.currentMenuID = ""
		}
	}
	s.mu.Unlock()
	s.notify()
}

// CurrentApp returns the current top-level app, or nil when none is selected.
func (s *Session) CurrentApp() *model.MenuNode {
	s.mu.Lock()
	tree, id := s.tree, s.currentAppID
	s.mu.Unlock()
	if id == "" {
		return nil
	}
	for _, a := range Apps(tree) {
		if a.ID == id {
			return a
		}
	}
	return nil
}

func (s *Session) CurrentMenuID() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.currentMenuID
}

// Subscribe registers fn to run after every app change. The returned func unsubscribes.
func (s *Session) Subscribe(fn func()) (unsubscribe func()) {
	if fn == nil {
		return func() {}
	}
	s.mu.Lock()
	id := s.nextListener
	s.nextListener++
	s.listeners[id] = fn
	s.mu.Unlock()

	var once sync.Once
	return func() {
		once.Do(func() {
			s.mu.Lock()
			delete(s.listeners, id)
			s.mu.Unlock()
		})
	}
}

// SelectApp makes app current. Placeholder entries are ignored.
func (s *Session) SelectApp(app model.AppEntry) {
	if app.IsPlaceholder || strings.TrimSpace(app.ID) == "" {
		return
	}
	s.setCurrent(app.ID, app.ID)
}

// SelectMenu navigates to n; the current app follows the app that owns n.
func (s *Session) SelectMenu(n *model.MenuNode) {
	if n == nil || strings.TrimSpace(n.ID) == "" {
		return
	}
	appID := ""
	if a, ok := AppOf(s.Tree(), n.ID); ok {
		appID = a.ID
	}
	s.setCurrent(appID, n.ID)
}

func (s *Session) setCurrent(appID, menuID string) {
	s.mu.Lock()
	changed := appID != "" && appID != s.currentAppID
	if appID != "" {
		s.currentAppID = appID
	}
	s.currentMenuID = menuID
	s.mu.Unlock()
	if changed {
		s.notify()
	}
}

func (s *Session) notify() {
	s.mu.Lock()
	fns := make([]func(), 0, len(s.listeners))
	for i := 0; i < s.nextListener; i++ {
		if fn, ok := s.listeners[i]; ok {
			fns = append(fns, fn)
		}
	}
	s.mu.Unlock()
	for _, fn := range fns {
		fn()
	}
}
