package ui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"

	"postgrip/internal/domain"
	"postgrip/internal/query"
	"postgrip/internal/ui/views"
)

const slotAuthorPosts = "author-posts"

// authorScreen shows an author and the posts they wrote
type authorScreen struct {
	env      *env
	screenID int
	authorID int

	author *query.Observer[domain.Author]
	posts  *query.Observer[[]domain.Post]

	cursor int
	offset int
}

func newAuthorScreen(e *env, id, authorID int) *authorScreen {
	return &authorScreen{
		env:      e,
		screenID: id,
		authorID: authorID,
		author:   query.NewObserver(e.resources.Author),
		posts:    query.NewObserver(e.resources.AuthorPosts),
	}
}

func (s *authorScreen) id() int         { return s.screenID }
func (s *authorScreen) route() Route    { return Route{Kind: RouteAuthor, ID: s.authorID} }
func (s *authorScreen) capturing() bool { return false }

func (s *authorScreen) fetching() bool {
	return s.author.State().IsFetching() || s.posts.State().IsFetching()
}

func (s *authorScreen) init() tea.Cmd {
	ctx := s.env.ctx
	req, ok := s.author.SetKey(query.AuthorKey(s.authorID))
	authorCmd := fetch(ctx, s.screenID, slotAuthor, s.author, req, ok)
	req, ok = s.posts.SetKey(query.AuthorPostsKey(s.authorID))
	postsCmd := fetch(ctx, s.screenID, slotAuthorPosts, s.posts, req, ok)
	return tea.Batch(authorCmd, postsCmd)
}

func (s *authorScreen) update(msg tea.Msg) tea.Cmd {
	switch msg := msg.(type) {
	case resultMsg[domain.Author]:
		if s.author.Commit(msg.res) && msg.res.Err == nil {
			s.env.authors.Put(msg.res.Data)
		}

	case resultMsg[[]domain.Post]:
		if s.posts.Commit(msg.res) && msg.res.Err == nil {
			s.env.posts.Put(msg.res.Data...)
		}

	case tea.KeyMsg:
		keys := s.env.keys
		posts, _ := query.DataOf(s.posts.State())
		switch {
		case key.Matches(msg, keys.Up):
			s.cursor = clampCursor(s.cursor-1, len(posts))
		case key.Matches(msg, keys.Down):
			s.cursor = clampCursor(s.cursor+1, len(posts))
		case key.Matches(msg, keys.Open):
			if len(posts) > 0 {
				return navigate(Route{Kind: RoutePost, ID: posts[clampCursor(s.cursor, len(posts))].ID})
			}
		case key.Matches(msg, keys.Refetch):
			req, ok := s.author.Refetch()
			authorCmd := fetch(s.env.ctx, s.screenID, slotAuthor, s.author, req, ok)
			req, ok = s.posts.Refetch()
			postsCmd := fetch(s.env.ctx, s.screenID, slotAuthorPosts, s.posts, req, ok)
			return tea.Batch(authorCmd, postsCmd)
		}
	}
	return nil
}

// currentAuthor falls back to the copy seen on the authors list
func (s *authorScreen) currentAuthor() (domain.Author, bool) {
	if a, ok := query.DataOf(s.author.State()); ok {
		return a, true
	}
	if _, failed := s.author.State().(query.Failure[domain.Author]); failed {
		return domain.Author{}, false
	}
	return s.env.authors.Get(s.authorID)
}

func (s *authorScreen) view(width, height int, spin string) string {
	r := s.env.renderer
	st := r.Styles()
	lines := []string{r.Heading("Author details")}

	if failure, failed := s.author.State().(query.Failure[domain.Author]); failed {
		lines = append(lines, r.ErrorLine(failure.Message))
		return strings.Join(lines, "\n")
	}

	a, ok := s.currentAuthor()
	if !ok {
		lines = append(lines, r.Loading(spin))
		return strings.Join(lines, "\n")
	}

	field := func(label, value string) string {
		return st.Label.Render(fmt.Sprintf("%-9s", label)) + " " + value
	}
	lines = append(lines,
		st.Avatar.Render(a.Initials())+" "+st.Strong.Render(a.Name)+" "+st.Dim.Render("@"+a.Username),
		"",
		field("Email", a.Email),
		field("Phone", a.Phone),
		field("Website", a.Website),
		field("Company", a.Company.Name+" · "+st.Dim.Render(a.Company.CatchPhrase)),
		field("Address", fmt.Sprintf("%s, %s, %s %s", a.Address.Street, a.Address.Suite, a.Address.City, a.Address.Zipcode)),
		"",
		r.Heading("List of author's posts"),
	)

	switch p := s.posts.State().(type) {
	case query.Loading[[]domain.Post]:
		lines = append(lines, r.Loading(spin))
	case query.Failure[[]domain.Post]:
		lines = append(lines, r.ErrorLine(p.Message))
	case query.Success[[]domain.Post]:
		if len(p.Data) == 0 {
			lines = append(lines, st.Dim.Render("No posts yet"))
			break
		}
		visible := height - len(lines) - 8
		start, end := views.Window(len(p.Data), s.cursor, s.offset, visible)
		s.offset = start
		above, below := r.ScrollHint(start > 0, end < len(p.Data))
		if above != "" {
			lines = append(lines, above)
		}
		for i := start; i < end; i++ {
			title := fmt.Sprintf("#%-4d %s", p.Data[i].ID, p.Data[i].Title)
			if i == s.cursor {
				lines = append(lines, st.Selected.Render("> "+title))
			} else {
				lines = append(lines, "  "+title)
			}
		}
		if below != "" {
			lines = append(lines, below)
		}
	}

	if s.fetching() {
		lines = append(lines, r.Updating())
	}
	return strings.Join(lines, "\n")
}

func (s *authorScreen) help() bindings {
	k := s.env.keys
	short := []key.Binding{k.Up, k.Down, k.Open, k.Refetch, k.Back, k.Quit, k.Help}
	return bindings{short: short, full: [][]key.Binding{
		{k.Up, k.Down, k.Open},
		{k.Refetch, k.Back},
		{k.Posts, k.Authors, k.Quit},
	}}
}
