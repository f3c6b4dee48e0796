package views

import (
	"github.com/charmbracelet/lipgloss"
)

// Styles contains all the style definitions for the UI
type Styles struct {
	Title          lipgloss.Style
	Heading        lipgloss.Style
	Strong         lipgloss.Style
	Tab            lipgloss.Style
	ActiveTab      lipgloss.Style
	Dim            lipgloss.Style
	Label          lipgloss.Style
	Search         lipgloss.Style
	Help           lipgloss.Style
	Main           lipgloss.Style
	Scroll         lipgloss.Style
	Highlight      lipgloss.Style
	Selected       lipgloss.Style
	Card           lipgloss.Style
	SelectedCard   lipgloss.Style
	Avatar         lipgloss.Style
	Badge          lipgloss.Style
	Skeleton       lipgloss.Style
	StatusError    lipgloss.Style
	StatusLoading  lipgloss.Style
	StatusFetching lipgloss.Style
	ErrorPanel     lipgloss.Style
	ErrorTitle     lipgloss.Style
}

// NewStyles creates a new Styles instance with default values
func NewStyles() *Styles {
	return &Styles{
		Title: lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("99")),
		Heading: lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("39")).
			MarginBottom(1),
		Strong:    lipgloss.NewStyle().Bold(true),
		Tab:       lipgloss.NewStyle().Foreground(lipgloss.Color("241")).Padding(0, 1),
		ActiveTab: lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("220")).Underline(true).Padding(0, 1),
		Dim:       lipgloss.NewStyle().Faint(true),
		Label:     lipgloss.NewStyle().Foreground(lipgloss.Color("245")),
		Search: lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(lipgloss.Color("241")).
			Padding(0, 1),
		Help: lipgloss.NewStyle().Faint(true),
		Main: lipgloss.NewStyle().
			Padding(1, 2),
		Scroll:    lipgloss.NewStyle().Foreground(lipgloss.Color("241")).Italic(true),
		Highlight: lipgloss.NewStyle().Foreground(lipgloss.Color("226")).Bold(true),
		Selected:  lipgloss.NewStyle().Background(lipgloss.Color("238")),
		Card: lipgloss.NewStyle().
			Border(lipgloss.NormalBorder(), false, false, false, true).
			BorderForeground(lipgloss.Color("238")).
			PaddingLeft(1),
		SelectedCard: lipgloss.NewStyle().
			Border(lipgloss.ThickBorder(), false, false, false, true).
			BorderForeground(lipgloss.Color("33")).
			PaddingLeft(1),
		Avatar: lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("231")).
			Background(lipgloss.Color("61")).
			Padding(0, 1),
		Badge:          lipgloss.NewStyle().Foreground(lipgloss.Color("33")),
		Skeleton:       lipgloss.NewStyle().Foreground(lipgloss.Color("237")),
		StatusError:    lipgloss.NewStyle().Foreground(lipgloss.Color("203")), // red
		StatusLoading:  lipgloss.NewStyle().Foreground(lipgloss.Color("241")), // gray
		StatusFetching: lipgloss.NewStyle().Foreground(lipgloss.Color("214")), // yellow
		ErrorPanel: lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(lipgloss.Color("203")).
			Padding(1, 2).
			Width(60),
		ErrorTitle: lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("203")),
	}
}
