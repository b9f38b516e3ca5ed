package tui

import "github.com/charmbracelet/lipgloss"

// Styles holds the lipgloss styles used by the view.
type Styles struct {
	Title       lipgloss.Style
	FormTitle   lipgloss.Style
	Label       lipgloss.Style
	FocusedForm lipgloss.Style
	BlurredForm lipgloss.Style
	Help        lipgloss.Style
	TableHeader lipgloss.Style
	TableCell   lipgloss.Style
	Selected    lipgloss.Style
}

// DefaultStyles returns the coloured styles. With color false every style is
// plain.
func DefaultStyles(color bool) Styles {
	if !color {
		plain := lipgloss.NewStyle()
		return Styles{
			Title:       plain.Bold(true),
			FormTitle:   plain.Bold(true),
			Label:       plain,
			FocusedForm: plain.Border(lipgloss.NormalBorder()).Padding(0, 1),
			BlurredForm: plain.Border(lipgloss.HiddenBorder()).Padding(0, 1),
			Help:        plain,
			TableHeader: plain.Bold(true),
			TableCell:   plain,
			Selected:    plain.Reverse(true),
		}
	}

	return Styles{
		Title: lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("#FAFAFA")).
			Background(lipgloss.Color("#3C3C3C")).
			Padding(0, 1),
		FormTitle: lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("#7D56F4")),
		Label: lipgloss.NewStyle().
			Foreground(lipgloss.Color("#A0A0A0")).
			Width(10),
		FocusedForm: lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(lipgloss.Color("#7D56F4")).
			Padding(0, 1),
		BlurredForm: lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(lipgloss.Color("#444444")).
			Padding(0, 1),
		Help: lipgloss.NewStyle().
			Foreground(lipgloss.Color("#626262")),
		TableHeader: lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("#FFFFFF")).
			Background(lipgloss.Color("#000000")).
			Padding(0, 1),
		TableCell: lipgloss.NewStyle().
			Padding(0, 1),
		Selected: lipgloss.NewStyle().
			Foreground(lipgloss.Color("#FFFFFF")).
			Background(lipgloss.Color("#7D56F4")),
	}
}
