package ui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"

	"postgrip/internal/domain"
	"postgrip/internal/logic"
	"postgrip/internal/query"
	"postgrip/internal/ui/views"
)

const (
	slotAuthors    = "authors"
	skeletonCount  = 6
	authorCardRows = 5
)

// authorsScreen lists every author
type authorsScreen struct {
	env      *env
	screenID int
	observer *query.Observer[[]domain.Author]

	cursor int
	offset int
	sort   logic.SortMode
}

func newAuthorsScreen(e *env, id int) *authorsScreen {
	return &authorsScreen{
		env:      e,
		screenID: id,
		observer: query.NewObserver(e.resources.Authors),
	}
}

func (s *authorsScreen) id() int         { return s.screenID }
func (s *authorsScreen) route() Route    { return Route{Kind: RouteAuthors} }
func (s *authorsScreen) capturing() bool { return false }
func (s *authorsScreen) fetching() bool  { return s.observer.State().IsFetching() }

func (s *authorsScreen) init() tea.Cmd {
	req, ok := s.observer.SetKey(query.AuthorsKey())
	return fetch(s.env.ctx, s.screenID, slotAuthors, s.observer, req, ok)
}

func (s *authorsScreen) items() []domain.Author {
	data, ok := query.DataOf(s.observer.State())
	if !ok {
		return nil
	}
	return logic.SortEntities(data, s.sort)
}

func (s *authorsScreen) update(msg tea.Msg) tea.Cmd {
	switch msg := msg.(type) {
	case resultMsg[[]domain.Author]:
		if s.observer.Commit(msg.res) && msg.res.Err == nil {
			s.env.authors.Put(msg.res.Data...)
		}

	case tea.KeyMsg:
		keys := s.env.keys
		items := s.items()
		switch {
		case key.Matches(msg, keys.Up):
			s.cursor = clampCursor(s.cursor-1, len(items))
		case key.Matches(msg, keys.Down):
			s.cursor = clampCursor(s.cursor+1, len(items))
		case key.Matches(msg, keys.Sort):
			s.sort = s.sort.Next()
			s.cursor = 0
		case key.Matches(msg, keys.Refetch):
			req, ok := s.observer.Refetch()
			return fetch(s.env.ctx, s.screenID, slotAuthors, s.observer, req, ok)
		case key.Matches(msg, keys.Open):
			if len(items) > 0 {
				return navigate(Route{Kind: RouteAuthor, ID: items[clampCursor(s.cursor, len(items))].ID})
			}
		}
	}
	return nil
}

func (s *authorsScreen) view(width, height int, spin string) string {
	r := s.env.renderer
	lines := []string{r.Heading("Authors")}

	switch st := s.observer.State().(type) {
	case query.Loading[[]domain.Author]:
		for i := 0; i < skeletonCount; i++ {
			lines = append(lines, r.AuthorSkeleton(width))
		}
	case query.Failure[[]domain.Author]:
		lines = append(lines, r.ErrorLine(st.Message))
	case query.Success[[]domain.Author]:
		lines = append(lines, s.renderList(width, height))
	}

	if s.fetching() {
		lines = append(lines, r.Updating())
	}
	return strings.Join(lines, "\n")
}

func (s *authorsScreen) renderList(width, height int) string {
	r := s.env.renderer
	items := s.items()
	if len(items) == 0 {
		return r.Styles().Dim.Render("No authors")
	}

	visible := (height - 10) / authorCardRows
	start, end := views.Window(len(items), s.cursor, s.offset, visible)
	s.offset = start

	lines := []string{r.Styles().Label.Render(fmt.Sprintf("%d authors · sorted by %s", len(items), s.sort))}
	above, below := r.ScrollHint(start > 0, end < len(items))
	if above != "" {
		lines = append(lines, above)
	}
	for i := start; i < end; i++ {
		lines = append(lines, r.AuthorCard(items[i], i == s.cursor, width))
	}
	if below != "" {
		lines = append(lines, below)
	}
	return strings.Join(lines, "\n")
}

func (s *authorsScreen) help() bindings {
	k := s.env.keys
	short := []key.Binding{k.Up, k.Down, k.Open, k.Sort, k.Refetch, k.Posts, k.Quit, k.Help}
	return bindings{short: short, full: [][]key.Binding{
		{k.Up, k.Down, k.Open},
		{k.Sort, k.Refetch},
		{k.Posts, k.Authors, k.Quit},
	}}
}
