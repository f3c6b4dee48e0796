package views

import (
	"fmt"
	"strings"

	"postgrip/internal/domain"
)

// PostDocument renders a post with its comments as plain text for the pager
func PostDocument(post domain.Post, author domain.Author, comments []domain.Comment) string {
	var b strings.Builder

	fmt.Fprintf(&b, "%s\n", post.Title)
	b.WriteString(strings.Repeat("=", min(len(post.Title), 80)))
	b.WriteString("\n\n")

	if author.ID != 0 {
		fmt.Fprintf(&b, "by %s <%s>\n\n", author.Name, author.Email)
	} else {
		fmt.Fprintf(&b, "by author %d\n\n", post.UserID)
	}
	b.WriteString(post.Body)
	b.WriteString("\n\n")

	fmt.Fprintf(&b, "Comments (%d)\n", len(comments))
	b.WriteString("------------\n")
	for _, c := range comments {
		fmt.Fprintf(&b, "\n%s <%s>\n%s\n", c.Name, c.Email, c.Body)
	}
	return b.String()
}
