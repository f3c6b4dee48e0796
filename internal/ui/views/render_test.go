package views

import (
	"regexp"
	"strings"
	"testing"

	"github.com/charmbracelet/lipgloss"
	"github.com/stretchr/testify/assert"

	"postgrip/internal/domain"
)

var ansiRE = regexp.MustCompile(`\x1b\[[0-9;]*m`)

func plain(s string) string {
	return ansiRE.ReplaceAllString(s, "")
}

func TestWindow(t *testing.T) {
	tests := []struct {
		name                           string
		total, cursor, offset, visible int
		wantStart, wantEnd             int
	}{
		{"fits", 3, 0, 0, 10, 0, 3},
		{"cursor below window", 20, 12, 0, 5, 8, 13},
		{"cursor above window", 20, 2, 10, 5, 2, 7},
		{"clamped at end", 20, 19, 0, 5, 15, 20},
		{"empty", 0, 0, 0, 5, 0, 0},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			start, end := Window(tt.total, tt.cursor, tt.offset, tt.visible)
			assert.Equal(t, tt.wantStart, start)
			assert.Equal(t, tt.wantEnd, end)
		})
	}
}

func TestHighlightTitleKeepsText(t *testing.T) {
	r := NewRenderer()
	out := r.HighlightTitle("The FIRST rule", "first", lipgloss.NewStyle())
	assert.Equal(t, "The FIRST rule", plain(out))
}

func TestPostCard(t *testing.T) {
	r := NewRenderer()
	post := domain.Post{ID: 4, UserID: 2, Title: "hello", Body: "line one\nline two"}

	out := plain(r.PostCard(post, false, "", true, 80))
	assert.Contains(t, out, "hello")
	assert.Contains(t, out, "line one line two")
	assert.Contains(t, out, "#4")

	out = plain(r.PostCard(post, false, "", false, 80))
	assert.NotContains(t, out, "line one")
}

func TestAuthorCardShowsInitials(t *testing.T) {
	r := NewRenderer()
	author := domain.Author{ID: 1, Name: "Leanne Graham", Username: "Bret", Email: "Sincere@april.biz"}
	out := plain(r.AuthorCard(author, true, 100))
	assert.Contains(t, out, "SI")
	assert.Contains(t, out, "Leanne Graham")
	assert.Contains(t, out, "@Bret")
}

func TestErrorPanel(t *testing.T) {
	out := plain(NewRenderer().ErrorPanel("boom"))
	assert.Contains(t, out, "Something went wrong")
	assert.Contains(t, out, "boom")
	assert.Contains(t, out, "press r to try again")
}

func TestHeaderShowsTabsAndIndicators(t *testing.T) {
	out := plain(NewRenderer().Header(100, []string{"Posts", "Authors"}, 1, []string{"Updating..."}))
	assert.True(t, strings.HasPrefix(out, AppTitle))
	assert.Contains(t, out, "1 Posts")
	assert.Contains(t, out, "2 Authors")
	assert.Contains(t, out, "Updating...")
}

func TestPostDocument(t *testing.T) {
	doc := PostDocument(
		domain.Post{ID: 1, UserID: 2, Title: "Title", Body: "Body"},
		domain.Author{ID: 2, Name: "Ervin", Email: "e@x.io"},
		[]domain.Comment{{Name: "nice", Email: "c@x.io", Body: "agreed"}},
	)
	assert.Contains(t, doc, "by Ervin <e@x.io>")
	assert.Contains(t, doc, "Comments (1)")
	assert.Contains(t, doc, "nice <c@x.io>\nagreed")

	doc = PostDocument(domain.Post{ID: 1, UserID: 2, Title: "T"}, domain.Author{}, nil)
	assert.Contains(t, doc, "by author 2")
}
