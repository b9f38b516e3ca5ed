// Package tui is the interactive records view: a table of records with an add
// form and an edit form, driven by a Syncer.
package tui

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"strings"

	"github.com/charmbracelet/bubbles/table"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/dbsmedya/recordsdesk/internal/record"
	"github.com/dbsmedya/recordsdesk/internal/store"
	"github.com/dbsmedya/recordsdesk/internal/syncer"
	"github.com/dbsmedya/recordsdesk/internal/view"
)

type focusArea int

const (
	focusTable focusArea = iota
	focusAdd
	focusEdit
)

// Sync operation names carried by syncedMsg.
const (
	opList   = "list"
	opCreate = "create"
	opUpdate = "update"
	opDelete = "delete"
)

// syncedMsg reports a finished Syncer call. err is already logged.
type syncedMsg struct {
	op  string
	err error
}

const minTableHeight = 5

// Model is the bubbletea model for the records view.
type Model struct {
	ctx    context.Context
	syncer *syncer.Syncer
	store  *store.Store

	table    table.Model
	records  []record.Record
	addForm  form
	editForm form
	focus    focusArea

	width  int
	height int
	styles Styles
}

// New creates the model. ctx bounds every request issued from the view.
func New(ctx context.Context, s *syncer.Syncer, color bool) Model {
	styles := DefaultStyles(color)

	t := table.New(
		table.WithColumns(columns(nil)),
		table.WithFocused(true),
		table.WithHeight(10),
	)
	ts := table.DefaultStyles()
	ts.Header = styles.TableHeader
	ts.Cell = styles.TableCell
	ts.Selected = styles.Selected
	t.SetStyles(ts)

	m := Model{
		ctx:      ctx,
		syncer:   s,
		store:    s.Store(),
		table:    t,
		addForm:  newForm("Add New Record"),
		editForm: newForm("Edit Record"),
		styles:   styles,
	}
	m.addForm.load(m.store.NewDraft())
	m.refresh()
	return m
}

// Init fetches the initial list.
func (m Model) Init() tea.Cmd {
	return m.run(opList, m.syncer.List)
}

func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width, m.height = msg.Width, msg.Height
		// title, forms (7 lines with borders), help
		h := msg.Height - 12
		if h < minTableHeight {
			h = minTableHeight
		}
		m.table.SetHeight(h)
		return m, nil

	case syncedMsg:
		return m.synced(msg)

	case tea.KeyMsg:
		if msg.String() == "ctrl+c" {
			return m, tea.Quit
		}
		switch m.focus {
		case focusAdd:
			return m.updateForm(msg, &m.addForm)
		case focusEdit:
			return m.updateForm(msg, &m.editForm)
		default:
			return m.updateTable(msg)
		}
	}
	return m, nil
}

// synced rebuilds the view from the store after a Syncer call.
func (m Model) synced(msg syncedMsg) (tea.Model, tea.Cmd) {
	m.refresh()
	if msg.err != nil {
		return m, nil
	}
	switch msg.op {
	case opCreate:
		m.addForm.load(m.store.NewDraft())
	case opUpdate:
		m.editForm.blur()
		if m.focus == focusEdit {
			m.focusTable()
		}
	}
	return m, nil
}

func (m Model) updateTable(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "q":
		return m, tea.Quit
	case "a":
		m.focus = focusAdd
		m.table.Blur()
		return m, m.addForm.focusFirst()
	case "e":
		r, ok := m.selected()
		if !ok {
			return m, nil
		}
		m.store.LoadEdit(r)
		m.editForm.load(m.store.EditDraft())
		m.editForm.title = fmt.Sprintf("Edit Record #%d", r.ID)
		m.focus = focusEdit
		m.table.Blur()
		return m, m.editForm.focusFirst()
	case "d":
		r, ok := m.selected()
		if !ok {
			return m, nil
		}
		id := r.ID
		return m, m.run(opDelete, func(ctx context.Context) error {
			return m.syncer.Delete(ctx, id)
		})
	case "r":
		return m, m.run(opList, m.syncer.List)
	}

	var cmd tea.Cmd
	m.table, cmd = m.table.Update(msg)
	return m, cmd
}

func (m Model) updateForm(msg tea.KeyMsg, f *form) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "tab", "down":
		return m, f.move(1)
	case "shift+tab", "up":
		return m, f.move(-1)
	case "esc":
		f.blur()
		if m.focus == focusEdit {
			m.store.ClearEditDraft()
		}
		m.focusTable()
		return m, nil
	case "enter":
		if m.focus == focusEdit {
			m.store.SetEditDraft(f.apply(m.store.EditDraft()))
			return m, m.run(opUpdate, m.syncer.Update)
		}
		m.store.SetNewDraft(f.apply(m.store.NewDraft()))
		return m, m.run(opCreate, m.syncer.Create)
	}

	cmd := f.update(msg)
	// keep the store draft in step with what is typed
	if m.focus == focusEdit {
		m.store.SetEditDraft(f.apply(m.store.EditDraft()))
	} else {
		m.store.SetNewDraft(f.apply(m.store.NewDraft()))
	}
	return m, cmd
}

func (m *Model) focusTable() {
	m.focus = focusTable
	m.table.Focus()
}

// refresh copies the store's records into the table.
func (m *Model) refresh() {
	snap := m.store.Snapshot()
	m.records = snap.Records

	rows := make([]table.Row, len(snap.Records))
	for i, r := range snap.Records {
		rows[i] = append(table.Row{strconv.FormatInt(r.ID, 10)}, record.Row(r)...)
	}
	// columns first: SetRows renders with the current widths
	m.table.SetColumns(columns(rows))
	m.table.SetRows(rows)
	if c := m.table.Cursor(); c >= len(rows) && len(rows) > 0 {
		m.table.SetCursor(len(rows) - 1)
	}
}

func (m Model) selected() (record.Record, bool) {
	c := m.table.Cursor()
	if c < 0 || c >= len(m.records) {
		return record.Record{}, false
	}
	return m.records[c], true
}

// run wraps a Syncer call as a command. Errors are logged by the Syncer and
// only carried so the model knows not to reset the forms.
func (m Model) run(op string, fn func(context.Context) error) tea.Cmd {
	ctx := m.ctx
	return func() tea.Msg {
		return syncedMsg{op: op, err: fn(ctx)}
	}
}

func (m Model) View() string {
	var b strings.Builder

	b.WriteString(m.styles.Title.Render("Records"))
	b.WriteString("\n\n")

	forms := []string{m.addForm.view(m.styles, m.focus == focusAdd)}
	if m.store.Snapshot().Editing() {
		forms = append(forms, m.editForm.view(m.styles, m.focus == focusEdit))
	}
	b.WriteString(joinForms(forms...))
	b.WriteString("\n")

	b.WriteString(m.table.View())
	b.WriteString("\n")
	b.WriteString(m.styles.Help.Render(m.help()))
	return b.String()
}

func (m Model) help() string {
	if m.focus == focusTable {
		return "a add • e edit • d delete • r refresh • q quit"
	}
	return "tab/shift+tab move • enter save • esc back"
}

// columns sizes the table columns to fit the header and every cell.
func columns(rows []table.Row) []table.Column {
	headers := append([]string{"ID"}, record.Headers()...)
	cells := make([][]string, len(rows))
	for i, r := range rows {
		cells[i] = r
	}
	widths := view.ColumnWidths(headers, cells)

	cols := make([]table.Column, len(headers))
	for i, h := range headers {
		cols[i] = table.Column{Title: h, Width: widths[i]}
	}
	return cols
}

// Run starts the interactive view and blocks until the user quits or ctx is
// cancelled.
func Run(ctx context.Context, s *syncer.Syncer, color bool) error {
	p := tea.NewProgram(New(ctx, s, color), tea.WithAltScreen(), tea.WithContext(ctx))
	if _, err := p.Run(); err != nil {
		if errors.Is(err, tea.ErrProgramKilled) && ctx.Err() != nil {
			return nil
		}
		return fmt.Errorf("interactive view failed: %w", err)
	}
	return nil
}
