package ui

import (
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"

	"postgrip/internal/debounce"
	"postgrip/internal/domain"
	"postgrip/internal/eventbus"
	"postgrip/internal/logic"
	"postgrip/internal/query"
	"postgrip/internal/ui/views"
)

const slotPosts = "posts"

// postsScreen lists posts with a debounced title search
type postsScreen struct {
	env      *env
	screenID int

	input    textinput.Model
	search   *debounce.Debouncer[string]
	observer *query.Observer[[]domain.Post]

	cursor int
	offset int
	sort   logic.SortMode
}

func newPostsScreen(e *env, id int) *postsScreen {
	ti := textinput.New()
	ti.Placeholder = "Search by Title"
	ti.Prompt = "/ "
	ti.CharLimit = 120

	return &postsScreen{
		env:      e,
		screenID: id,
		input:    ti,
		search:   debounce.New("", e.searchDelay),
		observer: query.NewObserver(e.resources.Posts),
	}
}

func (s *postsScreen) id() int      { return s.screenID }
func (s *postsScreen) route() Route { return Route{Kind: RoutePosts} }

func (s *postsScreen) init() tea.Cmd {
	req, ok := s.observer.SetKey(query.PostsKey(s.search.Value()))
	return fetch(s.env.ctx, s.screenID, slotPosts, s.observer, req, ok)
}

func (s *postsScreen) capturing() bool { return s.input.Focused() }

func (s *postsScreen) fetching() bool { return s.observer.State().IsFetching() }

func (s *postsScreen) update(msg tea.Msg) tea.Cmd {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		if s.input.Focused() {
			return s.updateInput(msg)
		}
		return s.updateList(msg)

	case settleMsg:
		term, ok := s.search.Settle(msg.ticket)
		if !ok {
			return nil
		}
		s.env.publish(eventbus.SearchSettledEvent{Term: term})
		s.env.log.WithField("term", term).Debug("search settled")
		req, ok := s.observer.SetKey(query.PostsKey(term))
		return fetch(s.env.ctx, s.screenID, slotPosts, s.observer, req, ok)

	case resultMsg[[]domain.Post]:
		if s.observer.Commit(msg.res) && msg.res.Err == nil {
			s.env.posts.Put(msg.res.Data...)
		}
		if data, ok := query.DataOf(s.observer.State()); ok {
			s.cursor = clampCursor(s.cursor, len(data))
		}
	}
	return nil
}

func (s *postsScreen) updateInput(msg tea.KeyMsg) tea.Cmd {
	if key.Matches(msg, s.env.keys.Blur) {
		s.input.Blur()
		return nil
	}

	before := s.input.Value()
	var cmd tea.Cmd
	s.input, cmd = s.input.Update(msg)
	if s.input.Value() == before {
		return cmd
	}

	ticket := s.search.Push(s.input.Value())
	// A zero delay still goes through tea.Tick so the settle is never synchronous
	settle := tea.Tick(s.search.Delay(), func(time.Time) tea.Msg {
		return settleMsg{screen: s.screenID, ticket: ticket}
	})
	return tea.Batch(cmd, settle)
}

func (s *postsScreen) updateList(msg tea.KeyMsg) tea.Cmd {
	keys := s.env.keys
	items := s.visibleItems()

	switch {
	case key.Matches(msg, keys.Search):
		return s.input.Focus()
	case key.Matches(msg, keys.Up):
		s.cursor = clampCursor(s.cursor-1, len(items))
	case key.Matches(msg, keys.Down):
		s.cursor = clampCursor(s.cursor+1, len(items))
	case key.Matches(msg, keys.Sort):
		s.sort = s.sort.Next()
		s.cursor = 0
	case key.Matches(msg, keys.Refetch):
		req, ok := s.observer.Refetch()
		return fetch(s.env.ctx, s.screenID, slotPosts, s.observer, req, ok)
	case key.Matches(msg, keys.Open):
		if len(items) > 0 {
			return navigate(Route{Kind: RoutePost, ID: items[clampCursor(s.cursor, len(items))].ID})
		}
	}
	return nil
}

// visibleItems are the posts currently on screen, in display order
func (s *postsScreen) visibleItems() []domain.Post {
	data, ok := query.DataOf(s.observer.State())
	if !ok {
		return nil
	}
	return logic.SortEntities(data, s.sort)
}

func (s *postsScreen) view(width, height int, spin string) string {
	r := s.env.renderer
	var b strings.Builder

	b.WriteString(r.Heading("List of Posts"))
	b.WriteString("\n")
	b.WriteString(r.Styles().Search.Render(s.input.View()))
	b.WriteString("\n")

	switch st := s.observer.State().(type) {
	case query.Idle[[]domain.Post]:
	case query.Loading[[]domain.Post]:
		b.WriteString(r.Loading(spin))
	case query.Failure[[]domain.Post]:
		b.WriteString(r.ErrorLine(st.Message))
	case query.Success[[]domain.Post]:
		b.WriteString(s.renderList(width, height))
	}

	if s.fetching() {
		b.WriteString("\n")
		b.WriteString(r.Updating())
	}
	return b.String()
}

func (s *postsScreen) renderList(width, height int) string {
	r := s.env.renderer
	items := s.visibleItems()
	if len(items) == 0 {
		if term := s.search.Value(); strings.TrimSpace(term) != "" {
			return r.Styles().Dim.Render(fmt.Sprintf("No posts match %q", term))
		}
		return r.Styles().Dim.Render("No posts")
	}

	itemLines := 2
	if s.env.showBodies {
		itemLines = 3
	}
	// header, heading, search box, counts line, footer
	visible := (height - 14) / itemLines
	start, end := views.Window(len(items), s.cursor, s.offset, visible)
	s.offset = start

	lines := make([]string, 0, end-start+3)
	lines = append(lines, r.Styles().Label.Render(fmt.Sprintf("%d posts · sorted by %s", len(items), s.sort)))
	above, below := r.ScrollHint(start > 0, end < len(items))
	if above != "" {
		lines = append(lines, above)
	}
	for i := start; i < end; i++ {
		lines = append(lines, r.PostCard(items[i], i == s.cursor, s.search.Value(), s.env.showBodies, width))
	}
	if below != "" {
		lines = append(lines, below)
	}
	return strings.Join(lines, "\n")
}

func (s *postsScreen) help() bindings {
	k := s.env.keys
	if s.input.Focused() {
		return bindings{short: []key.Binding{k.Blur}}
	}
	short := []key.Binding{k.Up, k.Down, k.Open, k.Search, k.Sort, k.Refetch, k.Authors, k.Quit, k.Help}
	return bindings{short: short, full: [][]key.Binding{
		{k.Up, k.Down, k.Open},
		{k.Search, k.Sort, k.Refetch},
		{k.Posts, k.Authors, k.Quit},
	}}
}
