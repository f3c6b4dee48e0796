package ui

import (
	"postgrip/internal/debounce"
	"postgrip/internal/eventbus"
	"postgrip/internal/query"
)

// EventMsg wraps a domain event for the UI
type EventMsg struct {
	Event eventbus.DomainEvent
}

// screenMsg is delivered only to the screen instance that asked for it.
// Messages for a screen that has since been closed are dropped.
type screenMsg interface {
	screenID() int
}

// settleMsg fires after the search delay for one debounce ticket
type settleMsg struct {
	screen int
	ticket debounce.Ticket
}

func (m settleMsg) screenID() int { return m.screen }

// resultMsg carries a finished fetch back to the screen's observer.
// slot tells apart several observers of one screen.
type resultMsg[T any] struct {
	screen int
	slot   string
	res    query.Result[T]
}

func (m resultMsg[T]) screenID() int { return m.screen }

// navigateMsg pushes a route
type navigateMsg struct {
	route Route
}

// pagerMsg reports the pager closing
type pagerMsg struct {
	screen int
	err    error
}

func (m pagerMsg) screenID() int { return m.screen }

// pauseRenderingMsg signals to pause Bubble Tea rendering
type pauseRenderingMsg struct{}

// resumeRenderingMsg signals to resume Bubble Tea rendering
type resumeRenderingMsg struct{}

// clearStatusMsg clears the status line
type clearStatusMsg struct{}
