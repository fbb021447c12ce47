package ui

import "github.com/charmbracelet/lipgloss"

// Theme holds the color palette for one named theme
type Theme struct {
	Primary    string
	Secondary  string
	Subtle     string
	Background string
	Text       string
	Error      string
	Success    string
	Warning    string
}

var Themes = map[string]Theme{
	"default": {
		Primary:    "#7D56F4",
		Secondary:  "#04B575",
		Subtle:     "#737373",
		Background: "#1A1A1A",
		Text:       "#FAFAFA",
		Error:      "#FF5555",
		Success:    "#04B575",
		Warning:    "#F1FA8C",
	},
	"catppuccin": {
		Primary:    "#CBA6F7",
		Secondary:  "#94E2D5",
		Subtle:     "#6C7086",
		Background: "#1E1E2E",
		Text:       "#CDD6F4",
		Error:      "#F38BA8",
		Success:    "#A6E3A1",
		Warning:    "#F9E2AF",
	},
	"dracula": {
		Primary:    "#BD93F9",
		Secondary:  "#8BE9FD",
		Subtle:     "#6272A4",
		Background: "#282A36",
		Text:       "#F8F8F2",
		Error:      "#FF5555",
		Success:    "#50FA7B",
		Warning:    "#F1FA8C",
	},
	"nord": {
		Primary:    "#88C0D0",
		Secondary:  "#81A1C1",
		Subtle:     "#4C566A",
		Background: "#2E3440",
		Text:       "#ECEFF4",
		Error:      "#BF616A",
		Success:    "#A3BE8C",
		Warning:    "#EBCB8B",
	},
	"gruvbox": {
		Primary:    "#FABD2F",
		Secondary:  "#83A598",
		Subtle:     "#928374",
		Background: "#282828",
		Text:       "#EBDBB2",
		Error:      "#FB4934",
		Success:    "#B8BB26",
		Warning:    "#FE8019",
	},
}

// GetThemeNames returns theme names in a stable cycle order
func GetThemeNames() []string {
	return []string{"default", "catppuccin", "dracula", "nord", "gruvbox"}
}

// Styles holds all the UI styles
type Styles struct {
	theme Theme

	Title     lipgloss.Style
	Normal    lipgloss.Style
	Help      lipgloss.Style
	Highlight lipgloss.Style
	Selected  lipgloss.Style
	Error     lipgloss.Style
	Success   lipgloss.Style

	HelpKey  lipgloss.Style
	HelpDesc lipgloss.Style
	HelpSep  lipgloss.Style

	HeaderBar lipgloss.Style
	FooterBar lipgloss.Style
	Card      lipgloss.Style
	Border    lipgloss.Style

	// Review pane styles
	PageHeader lipgloss.Style
	Cited      lipgloss.Style
	Emphasis   lipgloss.Style
	Link       lipgloss.Style
	PaneTitle  lipgloss.Style
	PaneFocus  lipgloss.Style
	PaneBlur   lipgloss.Style
	Answered   lipgloss.Style
	Unanswered lipgloss.Style
}

// NewStyles builds the style set for a theme
func NewStyles(theme Theme) Styles {
	return Styles{
		theme: theme,

		Title: lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color(theme.Primary)),

		Normal: lipgloss.NewStyle().
			Foreground(lipgloss.Color(theme.Text)),

		Help: lipgloss.NewStyle().
			Foreground(lipgloss.Color(theme.Subtle)).
			Italic(true),

		Highlight: lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color(theme.Secondary)),

		Selected: lipgloss.NewStyle().
			Background(lipgloss.Color(theme.Primary)).
			Foreground(lipgloss.Color(theme.Background)),

		Error: lipgloss.NewStyle().
			Foreground(lipgloss.Color(theme.Error)),

		Success: lipgloss.NewStyle().
			Foreground(lipgloss.Color(theme.Success)),

		HelpKey: lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color(theme.Primary)),

		HelpDesc: lipgloss.NewStyle().
			Foreground(lipgloss.Color(theme.Subtle)),

		HelpSep: lipgloss.NewStyle().
			Foreground(lipgloss.Color(theme.Subtle)),

		HeaderBar: lipgloss.NewStyle().
			Padding(0, 1),

		FooterBar: lipgloss.NewStyle().
			Padding(0, 1),

		Card: lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(lipgloss.Color(theme.Primary)).
			Padding(1, 3),

		Border: lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(lipgloss.Color(theme.Subtle)).
			Padding(1, 2),

		PageHeader: lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color(theme.Secondary)),

		Cited: lipgloss.NewStyle().
			Foreground(lipgloss.Color(theme.Warning)),

		Emphasis: lipgloss.NewStyle().
			Bold(true).
			Background(lipgloss.Color(theme.Warning)).
			Foreground(lipgloss.Color(theme.Background)),

		Link: lipgloss.NewStyle().
			Underline(true).
			Foreground(lipgloss.Color(theme.Secondary)),

		PaneTitle: lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color(theme.Primary)).
			Padding(0, 1),

		PaneFocus: lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(lipgloss.Color(theme.Primary)),

		PaneBlur: lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(lipgloss.Color(theme.Subtle)),

		Answered: lipgloss.NewStyle().
			Foreground(lipgloss.Color(theme.Success)),

		Unanswered: lipgloss.NewStyle().
			Foreground(lipgloss.Color(theme.Subtle)),
	}
}
