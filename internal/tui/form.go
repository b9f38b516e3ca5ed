package tui

import (
	"strings"

	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/dbsmedya/recordsdesk/internal/record"
)

// form is a five-field record editor.
type form struct {
	title  string
	inputs []textinput.Model
	focus  int
}

func newForm(title string) form {
	inputs := make([]textinput.Model, len(record.Fields))
	for i, field := range record.Fields {
		ti := textinput.New()
		ti.Placeholder = field
		ti.Prompt = ""
		ti.CharLimit = 255
		ti.Width = 32
		inputs[i] = ti
	}
	return form{title: title, inputs: inputs}
}

// load replaces the field values with the draft's.
func (f *form) load(d record.Draft) {
	for i, field := range record.Fields {
		f.inputs[i].SetValue(d.FieldValue(field))
	}
}

// apply writes the field values onto base as typed. Only revenue is
// coerced. The base id is kept.
func (f form) apply(base record.Draft) record.Draft {
	for i, field := range record.Fields {
		base = base.SetField(field, f.inputs[i].Value())
	}
	return base
}

func (f *form) focusFirst() tea.Cmd {
	f.focus = 0
	return f.focusCurrent()
}

func (f *form) blur() {
	for i := range f.inputs {
		f.inputs[i].Blur()
	}
}

func (f *form) move(delta int) tea.Cmd {
	n := len(f.inputs)
	f.focus = ((f.focus+delta)%n + n) % n
	return f.focusCurrent()
}

func (f *form) focusCurrent() tea.Cmd {
	f.blur()
	return f.inputs[f.focus].Focus()
}

func (f *form) update(msg tea.Msg) tea.Cmd {
	var cmd tea.Cmd
	f.inputs[f.focus], cmd = f.inputs[f.focus].Update(msg)
	return cmd
}

func (f form) view(styles Styles, focused bool) string {
	var b strings.Builder
	b.WriteString(styles.FormTitle.Render(f.title))
	b.WriteString("\n")
	for i, field := range record.Fields {
		b.WriteString(styles.Label.Render(field + ":"))
		b.WriteString(" ")
		b.WriteString(f.inputs[i].View())
		if i < len(record.Fields)-1 {
			b.WriteString("\n")
		}
	}

	box := styles.BlurredForm
	if focused {
		box = styles.FocusedForm
	}
	return box.Render(b.String())
}

// joinForms places the forms side by side.
func joinForms(parts ...string) string {
	return lipgloss.JoinHorizontal(lipgloss.Top, parts...)
}
