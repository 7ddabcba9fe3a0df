// Package router keeps the stack of open screens and the route each was opened for.
package router

import (
	tea "github.com/charmbracelet/bubbletea"

	"github.com/rovshanmuradov/dlmm-lp/internal/ui"
)

// Screen represents a screen that can be navigated to
type Screen interface {
	Init() tea.Cmd
	Update(msg tea.Msg) (Screen, tea.Cmd)
	View() string
	SetSize(width, height int)
}

// InputCapturer is implemented by screens that consume printable keys,
// such as forms and search boxes, while they are focused.
type InputCapturer interface {
	CapturesInput() bool
}

type entry struct {
	route  ui.Route
	screen Screen
}

// Router is a stack of screens. A route appears on the stack at most once.
type Router struct {
	stack  []entry
	width  int
	height int
}

// New creates a router whose bottom screen is root.
func New(route ui.Route, root Screen) *Router {
	return &Router{stack: []entry{{route: route, screen: root}}}
}

func (r *Router) Init() tea.Cmd {
	return r.Current().Init()
}

// Update pops on esc unless the top screen is capturing input, and passes
// everything else to the top screen.
func (r *Router) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		r.SetSize(msg.Width, msg.Height)
		return r, nil
	case tea.KeyMsg:
		if msg.Type == tea.KeyEsc && len(r.stack) > 1 && !r.Capturing() {
			return r, r.Pop()
		}
	}

	top := &r.stack[len(r.stack)-1]
	next, cmd := top.screen.Update(msg)
	top.screen = next
	return r, cmd
}

func (r *Router) View() string {
	return r.Current().View()
}

// SetSize records the terminal size and passes it to the top screen.
// Screens further down get it when they are revealed.
func (r *Router) SetSize(width, height int) {
	r.width = width
	r.height = height
	r.Current().SetSize(width, height)
}

// Show brings route to the top. When route is already on the stack the
// screens above it are dropped and it is initialized again; otherwise build
// is called and its screen is pushed.
func (r *Router) Show(route ui.Route, build func() Screen) tea.Cmd {
	if i := r.indexOf(route); i >= 0 {
		return r.unwindTo(i)
	}
	s := build()
	s.SetSize(r.width, r.height)
	r.stack = append(r.stack, entry{route: route, screen: s})
	return s.Init()
}

// Pop removes the top screen and initializes the one revealed. The root
// screen is never removed.
func (r *Router) Pop() tea.Cmd {
	if len(r.stack) <= 1 {
		return nil
	}
	return r.unwindTo(len(r.stack) - 2)
}

func (r *Router) unwindTo(i int) tea.Cmd {
	r.stack = r.stack[:i+1]
	top := r.Current()
	top.SetSize(r.width, r.height)
	return top.Init()
}

func (r *Router) indexOf(route ui.Route) int {
	for i, e := range r.stack {
		if e.route == route {
			return i
		}
	}
	return -1
}

// Capturing reports whether the top screen is consuming text input.
func (r *Router) Capturing() bool {
	c, ok := r.Current().(InputCapturer)
	return ok && c.CapturesInput()
}

func (r *Router) Current() Screen {
	return r.stack[len(r.stack)-1].screen
}

// Route returns the route of the top screen.
func (r *Router) Route() ui.Route {
	return r.stack[len(r.stack)-1].route
}

// Depth returns the current navigation depth
func (r *Router) Depth() int {
	return len(r.stack)
}
