package ui

import "fmt"

// RouteKind names a screen
type RouteKind int

const (
	RoutePosts RouteKind = iota
	RoutePost
	RouteAuthors
	RouteAuthor
)

// Route addresses one screen; ID is the post or author id for detail screens
type Route struct {
	Kind RouteKind
	ID   int
}

func (r Route) String() string {
	switch r.Kind {
	case RoutePost:
		return fmt.Sprintf("/posts/%d", r.ID)
	case RouteAuthors:
		return "/authors"
	case RouteAuthor:
		return fmt.Sprintf("/authors/%d", r.ID)
	default:
		return "/"
	}
}

// tab returns the header tab the route belongs to
func (r Route) tab() int {
	switch r.Kind {
	case RouteAuthors, RouteAuthor:
		return 1
	default:
		return 0
	}
}

// router is the navigation stack; the bottom entry is a tab root
type router struct {
	stack []Route
}

func newRouter(root Route) *router {
	return &router{stack: []Route{root}}
}

func (r *router) current() Route {
	return r.stack[len(r.stack)-1]
}

func (r *router) depth() int {
	return len(r.stack)
}

func (r *router) push(route Route) {
	r.stack = append(r.stack, route)
}

// pop removes the top route; the root is never popped
func (r *router) pop() bool {
	if len(r.stack) <= 1 {
		return false
	}
	r.stack = r.stack[:len(r.stack)-1]
	return true
}

// reset replaces the whole stack with a new root
func (r *router) reset(root Route) {
	r.stack = []Route{root}
}
