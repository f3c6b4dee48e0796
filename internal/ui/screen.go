package ui

import (
	"context"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/sirupsen/logrus"

	"postgrip/internal/domain"
	"postgrip/internal/eventbus"
	"postgrip/internal/logic"
	"postgrip/internal/query"
	"postgrip/internal/ui/views"
)

// screen is one routed page. All methods run on the Update goroutine.
type screen interface {
	id() int
	route() Route
	init() tea.Cmd
	update(msg tea.Msg) tea.Cmd
	view(width, height int, spin string) string
	help() bindings
	// fetching reports whether any of the screen's queries is in flight
	fetching() bool
	// capturing is true while a text input owns the keyboard
	capturing() bool
}

// env is what every screen shares
type env struct {
	ctx         context.Context
	resources   *query.Resources
	posts       logic.Store[domain.Post]
	authors     logic.Store[domain.Author]
	bus         eventbus.EventBus
	renderer    *views.Renderer
	keys        keyMap
	log         *logrus.Entry
	searchDelay time.Duration
	showBodies  bool
	pager       *PagerOps
}

func (e *env) publish(event eventbus.DomainEvent) {
	if e.bus != nil {
		e.bus.Publish(event)
	}
}

// fetch turns an observer request into a command that reports back to the screen
func fetch[T any](ctx context.Context, screenID int, slot string, obs *query.Observer[T], req query.Request, ok bool) tea.Cmd {
	if !ok {
		return nil
	}
	return func() tea.Msg {
		return resultMsg[T]{screen: screenID, slot: slot, res: obs.Run(ctx, req)}
	}
}

func navigate(route Route) tea.Cmd {
	return func() tea.Msg { return navigateMsg{route: route} }
}

// clampCursor keeps a list cursor inside [0, n)
func clampCursor(cursor, n int) int {
	if cursor >= n {
		cursor = n - 1
	}
	if cursor < 0 {
		cursor = 0
	}
	return cursor
}
