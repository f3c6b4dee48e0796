package views

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/x/ansi"

	"postgrip/internal/domain"
	"postgrip/internal/logic"
)

// AppTitle is shown at the left of the header
const AppTitle = "Healthy Posts"

// Renderer handles shared view fragments
type Renderer struct {
	styles *Styles
}

// NewRenderer creates a new renderer
func NewRenderer() *Renderer {
	return &Renderer{styles: NewStyles()}
}

// Styles exposes the styles so screens can render their own fragments
func (r *Renderer) Styles() *Styles {
	return r.styles
}

// Header renders the title, the tabs and right-aligned indicators
func (r *Renderer) Header(width int, tabs []string, active int, indicators []string) string {
	logo := r.styles.Title.Render(AppTitle)

	renderedTabs := make([]string, len(tabs))
	for i, tab := range tabs {
		label := fmt.Sprintf("%d %s", i+1, tab)
		if i == active {
			renderedTabs[i] = r.styles.ActiveTab.Render(label)
		} else {
			renderedTabs[i] = r.styles.Tab.Render(label)
		}
	}
	left := logo + "  " + strings.Join(renderedTabs, " ")

	if len(indicators) == 0 {
		return left
	}

	rightContent := r.styles.StatusFetching.Render(strings.Join(indicators, " | "))

	// Use a default width if the window size is not known yet
	termWidth := width
	if termWidth <= 0 {
		termWidth = 80
	}
	availableWidth := termWidth - 4 // Account for main container padding
	paddingWidth := availableWidth - lipgloss.Width(left) - lipgloss.Width(rightContent)
	if paddingWidth > 0 {
		return left + strings.Repeat(" ", paddingWidth) + rightContent
	}
	return left + "  " + rightContent
}

// Frame stacks header, body and footer, pushing the footer to the bottom
func (r *Renderer) Frame(header, body, footer string, height int) string {
	content := &strings.Builder{}
	content.WriteString(header)
	content.WriteString("\n\n")
	content.WriteString(body)

	if footer != "" {
		currentLines := strings.Count(content.String(), "\n") + 1

		// Account for container padding (1 top, 1 bottom from Padding(1, 2))
		availableLines := height - 2
		if availableLines <= 0 {
			availableLines = 22
		}
		footerLines := strings.Count(footer, "\n") + 1
		if paddingNeeded := availableLines - currentLines - footerLines; paddingNeeded > 0 {
			content.WriteString(strings.Repeat("\n", paddingNeeded))
		}
		content.WriteString("\n")
		content.WriteString(footer)
	}

	mainStyle := r.styles.Main
	if height > 0 {
		mainStyle = mainStyle.MaxHeight(height)
	}
	return mainStyle.Render(content.String())
}

// Heading renders a screen heading
func (r *Renderer) Heading(text string) string {
	return r.styles.Heading.Render(text)
}

// HighlightTitle marks the part of title that matches term
func (r *Renderer) HighlightTitle(title, term string, base lipgloss.Style) string {
	start, end, ok := logic.MatchSpan(title, term)
	if !ok {
		return base.Render(title)
	}
	return base.Render(title[:start]) + r.styles.Highlight.Render(title[start:end]) + base.Render(title[end:])
}

// PostCard renders a post as a two or three line card
func (r *Renderer) PostCard(post domain.Post, selected bool, term string, showBody bool, width int) string {
	inner := cardWidth(width)

	title := r.HighlightTitle(ansi.Truncate(post.Title, inner, "…"), term, lipgloss.NewStyle().Bold(true))
	lines := []string{title}
	if showBody {
		lines = append(lines, r.styles.Dim.Render(ansi.Truncate(flatten(post.Body), inner, "…")))
	}
	lines = append(lines, r.styles.Label.Render(fmt.Sprintf("#%d · author %d", post.ID, post.UserID)))

	return r.card(selected).Render(strings.Join(lines, "\n"))
}

// AuthorCard renders an author with an initials avatar
func (r *Renderer) AuthorCard(author domain.Author, selected bool, width int) string {
	inner := cardWidth(width)

	top := fmt.Sprintf("%s %s %s %s",
		r.styles.Avatar.Render(author.Initials()),
		lipgloss.NewStyle().Bold(true).Render(author.Name),
		r.styles.Badge.Render(fmt.Sprintf("#%d", author.ID)),
		r.styles.Label.Render("@"+author.Username),
	)
	details := fmt.Sprintf("%s · %s, %s", author.Company.Name, author.Address.City, author.Address.Zipcode)
	contact := fmt.Sprintf("%s · %s", author.Email, author.Website)

	lines := []string{
		ansi.Truncate(top, inner, "…"),
		ansi.Truncate(details, inner, "…"),
		r.styles.Dim.Render(ansi.Truncate(contact, inner, "…")),
	}
	return r.card(selected).Render(strings.Join(lines, "\n"))
}

// AuthorSkeleton is the placeholder shown while authors load
func (r *Renderer) AuthorSkeleton(width int) string {
	inner := cardWidth(width)
	bar := func(n int) string {
		if n > inner {
			n = inner
		}
		return r.styles.Skeleton.Render(strings.Repeat("░", n))
	}
	lines := []string{
		bar(4) + " " + bar(20) + " " + bar(4),
		bar(inner * 3 / 4),
		bar(inner / 3),
	}
	return r.card(false).Render(strings.Join(lines, "\n"))
}

// ErrorLine renders an inline query failure
func (r *Renderer) ErrorLine(message string) string {
	return r.styles.StatusError.Render("An error has occurred: " + message)
}

// ErrorPanel renders the recovery panel shown after a screen crashed
func (r *Renderer) ErrorPanel(message string) string {
	body := strings.Join([]string{
		r.styles.ErrorTitle.Render("Something went wrong"),
		"",
		r.styles.StatusError.Render(message),
		"",
		r.styles.Help.Render("press r to try again · esc to go back · q to quit"),
	}, "\n")
	return r.styles.ErrorPanel.Render(body)
}

// Loading renders a spinner frame with a label
func (r *Renderer) Loading(spinnerFrame string) string {
	return r.styles.StatusLoading.Render(spinnerFrame + " Loading...")
}

// Updating is shown while data on screen is being revalidated
func (r *Renderer) Updating() string {
	return r.styles.StatusFetching.Render("Updating...")
}

// ScrollHint renders the "more above/below" markers
func (r *Renderer) ScrollHint(above, below bool) (string, string) {
	var top, bottom string
	if above {
		top = r.styles.Scroll.Render("↑ (more above)")
	}
	if below {
		bottom = r.styles.Scroll.Render("↓ (more below)")
	}
	return top, bottom
}

func (r *Renderer) card(selected bool) lipgloss.Style {
	if selected {
		return r.styles.SelectedCard
	}
	return r.styles.Card
}

func cardWidth(width int) int {
	if width <= 0 {
		width = 80
	}
	// Main padding plus card border and padding
	inner := width - 8
	if inner < 20 {
		inner = 20
	}
	return inner
}

// flatten joins multi-line bodies into one line
func flatten(s string) string {
	return strings.Join(strings.Fields(s), " ")
}

// Window returns the slice bounds of visible items so that cursor stays
// inside a window of size visible
func Window(total, cursor, offset, visible int) (start, end int) {
	if visible <= 0 {
		visible = 1
	}
	if cursor < offset {
		offset = cursor
	}
	if cursor >= offset+visible {
		offset = cursor - visible + 1
	}
	if offset > total-visible {
		offset = total - visible
	}
	if offset < 0 {
		offset = 0
	}
	end = offset + visible
	if end > total {
		end = total
	}
	return offset, end
}
