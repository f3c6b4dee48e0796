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

const (
	slotPost     = "post"
	slotComments = "comments"
	slotAuthor   = "author"
)

// postScreen shows one post, its author and its comments
type postScreen struct {
	env      *env
	screenID int
	postID   int

	post     *query.Observer[domain.Post]
	comments *query.Observer[[]domain.Comment]
	author   *query.Observer[domain.Author]

	offset int
	status string
}

func newPostScreen(e *env, id, postID int) *postScreen {
	return &postScreen{
		env:      e,
		screenID: id,
		postID:   postID,
		post:     query.NewObserver(e.resources.Post),
		comments: query.NewObserver(e.resources.Comments),
		author:   query.NewObserver(e.resources.Author),
	}
}

func (s *postScreen) id() int         { return s.screenID }
func (s *postScreen) route() Route    { return Route{Kind: RoutePost, ID: s.postID} }
func (s *postScreen) capturing() bool { return false }

func (s *postScreen) fetching() bool {
	return s.post.State().IsFetching() || s.comments.State().IsFetching() || s.author.State().IsFetching()
}

func (s *postScreen) init() tea.Cmd {
	ctx := s.env.ctx
	cmds := []tea.Cmd{}

	req, ok := s.post.SetKey(query.PostKey(s.postID))
	cmds = append(cmds, fetch(ctx, s.screenID, slotPost, s.post, req, ok))

	req, ok = s.comments.SetKey(query.CommentsKey(s.postID))
	cmds = append(cmds, fetch(ctx, s.screenID, slotComments, s.comments, req, ok))

	// A post seen in a list already names its author
	if preview, found := s.env.posts.Get(s.postID); found {
		cmds = append(cmds, s.loadAuthor(preview.UserID))
	}
	if post, ok := query.DataOf(s.post.State()); ok {
		cmds = append(cmds, s.loadAuthor(post.UserID))
	}
	return tea.Batch(cmds...)
}

func (s *postScreen) loadAuthor(authorID int) tea.Cmd {
	if authorID == 0 {
		return nil
	}
	req, ok := s.author.SetKey(query.AuthorKey(authorID))
	return fetch(s.env.ctx, s.screenID, slotAuthor, s.author, req, ok)
}

// currentPost is the fetched post or, while it loads, the list preview
func (s *postScreen) currentPost() (domain.Post, bool) {
	if post, ok := query.DataOf(s.post.State()); ok {
		return post, true
	}
	if _, failed := s.post.State().(query.Failure[domain.Post]); failed {
		return domain.Post{}, false
	}
	return s.env.posts.Get(s.postID)
}

func (s *postScreen) update(msg tea.Msg) tea.Cmd {
	switch msg := msg.(type) {
	case resultMsg[domain.Post]:
		if s.post.Commit(msg.res) && msg.res.Err == nil {
			s.env.posts.Put(msg.res.Data)
			return s.loadAuthor(msg.res.Data.UserID)
		}

	case resultMsg[[]domain.Comment]:
		s.comments.Commit(msg.res)

	case resultMsg[domain.Author]:
		if s.author.Commit(msg.res) && msg.res.Err == nil {
			s.env.authors.Put(msg.res.Data)
		}

	case pagerMsg:
		if msg.err != nil {
			s.status = fmt.Sprintf("Pager failed: %v", msg.err)
		}

	case tea.KeyMsg:
		keys := s.env.keys
		switch {
		case key.Matches(msg, keys.Down):
			s.offset++
		case key.Matches(msg, keys.Up):
			if s.offset > 0 {
				s.offset--
			}
		case key.Matches(msg, keys.Refetch):
			return s.refetch()
		case key.Matches(msg, keys.Author):
			if post, ok := s.currentPost(); ok && post.UserID != 0 {
				return navigate(Route{Kind: RouteAuthor, ID: post.UserID})
			}
		case key.Matches(msg, keys.Pager):
			post, ok := s.currentPost()
			if !ok {
				return nil
			}
			comments, _ := query.DataOf(s.comments.State())
			author, _ := query.DataOf(s.author.State())
			return s.env.pager.Show(s.screenID, views.PostDocument(post, author, comments))
		}
	}
	return nil
}

func (s *postScreen) refetch() tea.Cmd {
	ctx := s.env.ctx
	cmds := []tea.Cmd{}
	req, ok := s.post.Refetch()
	cmds = append(cmds, fetch(ctx, s.screenID, slotPost, s.post, req, ok))
	req, ok = s.comments.Refetch()
	cmds = append(cmds, fetch(ctx, s.screenID, slotComments, s.comments, req, ok))
	req, ok = s.author.Refetch()
	cmds = append(cmds, fetch(ctx, s.screenID, slotAuthor, s.author, req, ok))
	return tea.Batch(cmds...)
}

func (s *postScreen) view(width, height int, spin string) string {
	r := s.env.renderer
	st := r.Styles()
	var lines []string

	lines = append(lines, r.Heading("Post details"))

	if failure, failed := s.post.State().(query.Failure[domain.Post]); failed {
		lines = append(lines, r.ErrorLine(failure.Message))
		return strings.Join(lines, "\n")
	}

	post, ok := s.currentPost()
	if !ok {
		lines = append(lines, r.Loading(spin))
		return strings.Join(lines, "\n")
	}

	authorLine := st.Dim.Render(fmt.Sprintf("author %d", post.UserID))
	switch a := s.author.State().(type) {
	case query.Success[domain.Author]:
		authorLine = fmt.Sprintf("%s %s", a.Data.Name, st.Dim.Render("(press a)"))
	case query.Failure[domain.Author]:
		authorLine = st.StatusError.Render("unknown author: " + a.Message)
	}

	lines = append(lines,
		st.Label.Render("id: ")+fmt.Sprint(post.ID),
		st.Label.Render("Author: ")+authorLine,
		"",
		st.Strong.Render(post.Title),
		post.Body,
		"",
		r.Heading("List of comments"),
	)
	header := strings.Split(strings.Join(lines, "\n"), "\n")

	// Only the comment section scrolls
	body := strings.Split(strings.Join(s.commentLines(spin), "\n"), "\n")
	visible := height - len(header) - 8
	if visible < 3 {
		visible = 3
	}
	if maxOffset := len(body) - visible; s.offset > maxOffset {
		s.offset = max(maxOffset, 0)
	}
	end := min(s.offset+visible, len(body))

	out := append(header, body[s.offset:end]...)
	if s.fetching() {
		out = append(out, r.Updating())
	}
	if s.status != "" {
		out = append(out, st.StatusError.Render(s.status))
	}
	return strings.Join(out, "\n")
}

func (s *postScreen) commentLines(spin string) []string {
	r := s.env.renderer
	st := r.Styles()

	switch c := s.comments.State().(type) {
	case query.Loading[[]domain.Comment]:
		return []string{r.Loading(spin)}
	case query.Failure[[]domain.Comment]:
		return []string{st.StatusError.Render("could not load comments: " + c.Message)}
	case query.Success[[]domain.Comment]:
		if len(c.Data) == 0 {
			return []string{st.Dim.Render("No comments yet")}
		}
		var out []string
		for _, comment := range c.Data {
			out = append(out,
				st.Strong.Render(comment.Name)+" "+st.Dim.Render("<"+comment.Email+">"),
				"  "+strings.ReplaceAll(comment.Body, "\n", "\n  "),
				"",
			)
		}
		return out
	}
	return nil
}

func (s *postScreen) help() bindings {
	k := s.env.keys
	short := []key.Binding{k.Up, k.Down, k.Author, k.Pager, k.Refetch, k.Back, k.Quit, k.Help}
	return bindings{short: short, full: [][]key.Binding{
		{k.Up, k.Down},
		{k.Author, k.Pager, k.Refetch},
		{k.Back, k.Posts, k.Authors, k.Quit},
	}}
}
