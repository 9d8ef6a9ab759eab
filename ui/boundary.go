package ui

import (
	"fmt"
	"runtime/debug"

	tea "github.com/charmbracelet/bubbletea"

	"docchat/config"
)

// Closer is implemented by models that hold resources (open sessions, key
// listeners) which must be released when the boundary discards them.
type Closer interface {
	Close()
}

// Boundary supervises a child model. A panic in the child's Update or View
// replaces the screen with a static error view; `r` rebuilds the child from
// the factory and enter/q quits.
type Boundary struct {
	factory func() tea.Model
	child   tea.Model
	failure string
	width   int
	height  int
}

func NewBoundary(factory func() tea.Model) *Boundary {
	return &Boundary{factory: factory, child: factory()}
}

// Failed reports whether the boundary is showing its fallback view.
func (b *Boundary) Failed() bool {
	return b.failure != ""
}

func (b *Boundary) Init() (cmd tea.Cmd) {
	defer b.recoverInto(&cmd, "Init")
	return b.child.Init()
}

func (b *Boundary) Update(msg tea.Msg) (model tea.Model, cmd tea.Cmd) {
	model = b
	if size, ok := msg.(tea.WindowSizeMsg); ok {
		b.width = size.Width
		b.height = size.Height
	}

	if b.Failed() {
		return b.updateFallback(msg)
	}

	defer b.recoverInto(&cmd, "Update")
	var next tea.Model
	next, cmd = b.child.Update(msg)
	if next != nil {
		b.child = next
	}
	return b, cmd
}

func (b *Boundary) View() (view string) {
	if b.Failed() {
		return b.fallbackView()
	}

	defer func() {
		if r := recover(); r != nil {
			b.fail("View", r)
			view = b.fallbackView()
		}
	}()
	return b.child.View()
}

// Close releases the child's resources.
func (b *Boundary) Close() {
	b.closeChild()
}

func (b *Boundary) updateFallback(msg tea.Msg) (tea.Model, tea.Cmd) {
	key, ok := msg.(tea.KeyMsg)
	if !ok {
		return b, nil
	}

	switch key.String() {
	case "r":
		return b, b.reset()
	case "enter", "q", "ctrl+c":
		return b, tea.Quit
	}
	return b, nil
}

func (b *Boundary) reset() (cmd tea.Cmd) {
	defer b.recoverInto(&cmd, "reset")

	if config.DebugLog != nil {
		config.DebugLog.Printf("[Boundary] resetting after failure: %s", b.failure)
	}

	b.closeChild()
	b.failure = ""
	b.child = b.factory()

	width, height := b.width, b.height
	return tea.Batch(
		b.child.Init(),
		func() tea.Msg { return tea.WindowSizeMsg{Width: width, Height: height} },
	)
}

func (b *Boundary) closeChild() {
	closer, ok := b.child.(Closer)
	if !ok {
		return
	}
	defer func() {
		if r := recover(); r != nil && config.DebugLog != nil {
			config.DebugLog.Printf("[Boundary] close panicked: %v", r)
		}
	}()
	closer.Close()
}

func (b *Boundary) recoverInto(cmd *tea.Cmd, phase string) {
	if r := recover(); r != nil {
		b.fail(phase, r)
		*cmd = nil
	}
}

func (b *Boundary) fail(phase string, r any) {
	b.failure = fmt.Sprintf("%v", r)
	if config.DebugLog != nil {
		config.DebugLog.Printf("[Boundary] panic in %s: %v\n%s", phase, r, debug.Stack())
	}
}

func (b *Boundary) fallbackView() string {
	return NewErrorModal("Something went wrong", b.failure).
		WithFooter(FormatFooter("r", "Reset", "Enter", "Quit")).
		WithSize(b.width, b.height).
		View()
}
