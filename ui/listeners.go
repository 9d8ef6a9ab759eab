package ui

import (
	"sync"

	tea "github.com/charmbracelet/bubbletea"
)

// KeyHandler runs when a registered key is pressed anywhere in the app.
type KeyHandler func() tea.Cmd

type keyListener struct {
	id      int
	key     string
	handler KeyHandler
}

// KeyListeners is the app-wide key listener registry. The app offers every
// key press to it before routing the press to the active screen. Screens
// register on open and call the returned func on every way out.
type KeyListeners struct {
	mu        sync.Mutex
	nextID    int
	listeners []keyListener
}

func NewKeyListeners() *KeyListeners {
	return &KeyListeners{}
}

// Register adds handler for key (a tea.KeyMsg.String() value). The returned
// func removes it and is safe to call more than once.
func (l *KeyListeners) Register(key string, handler KeyHandler) func() {
	l.mu.Lock()
	l.nextID++
	id := l.nextID
	l.listeners = append(l.listeners, keyListener{id: id, key: key, handler: handler})
	l.mu.Unlock()

	var once sync.Once
	return func() {
		once.Do(func() { l.remove(id) })
	}
}

func (l *KeyListeners) remove(id int) {
	l.mu.Lock()
	defer l.mu.Unlock()
	for i, listener := range l.listeners {
		if listener.id == id {
			l.listeners = append(l.listeners[:i], l.listeners[i+1:]...)
			return
		}
	}
}

// Dispatch runs the most recently registered handler for msg. It reports
// whether a handler consumed the key.
func (l *KeyListeners) Dispatch(msg tea.KeyMsg) (tea.Cmd, bool) {
	pressed := msg.String()

	l.mu.Lock()
	var handler KeyHandler
	for i := len(l.listeners) - 1; i >= 0; i-- {
		if l.listeners[i].key == pressed {
			handler = l.listeners[i].handler
			break
		}
	}
	l.mu.Unlock()

	if handler == nil {
		return nil, false
	}
	return handler(), true
}

// Len returns how many listeners are registered.
func (l *KeyListeners) Len() int {
	l.mu.Lock()
	defer l.mu.Unlock()
	return len(l.listeners)
}
