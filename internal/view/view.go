// Package view renders the record forms and table. Everything here is a pure
// function of a store.Snapshot.
package view

import (
	"encoding/json"
	"fmt"
	"io"
	"strings"

	"github.com/gookit/color"
	"github.com/mattn/go-runewidth"
	"gopkg.in/yaml.v3"

	"github.com/dbsmedya/recordsdesk/internal/record"
	"github.com/dbsmedya/recordsdesk/internal/store"
)

// Output formats accepted by Render.
const (
	FormatTable = "table"
	FormatJSON  = "json"
	FormatYAML  = "yaml"
)

// Formats lists the supported output formats.
var Formats = []string{FormatTable, FormatJSON, FormatYAML}

// Options controls text rendering.
type Options struct {
	Color bool
	// Forms includes the add/edit forms above the table.
	Forms bool
}

var headerStyle = color.New(color.BgBlack, color.FgWhite, color.OpBold)

// Render writes snap to w in the given format.
func Render(w io.Writer, snap store.Snapshot, format string, opts Options) error {
	switch format {
	case FormatTable, "":
		if opts.Forms {
			RenderForms(w, snap)
		}
		RenderTable(w, snap.Records, opts)
		return nil
	case FormatJSON:
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		return enc.Encode(nonNil(snap.Records))
	case FormatYAML:
		enc := yaml.NewEncoder(w)
		enc.SetIndent(2)
		if err := enc.Encode(nonNil(snap.Records)); err != nil {
			return err
		}
		return enc.Close()
	default:
		return fmt.Errorf("unknown output format %q (expected one of %s)", format, strings.Join(Formats, ", "))
	}
}

// RenderForms writes the add form and, while a record is being edited, the
// edit form.
func RenderForms(w io.Writer, snap store.Snapshot) {
	renderForm(w, "Add New Record", snap.NewDraft)
	if snap.Editing() {
		renderForm(w, fmt.Sprintf("Edit Record #%d", snap.EditDraft.TargetID()), snap.EditDraft)
	}
}

func renderForm(w io.Writer, title string, d record.Draft) {
	fmt.Fprintf(w, "== %s ==\n", title)
	labelWidth := 0
	for _, f := range record.Fields {
		if n := runewidth.StringWidth(f); n > labelWidth {
			labelWidth = n
		}
	}
	for _, f := range record.Fields {
		fmt.Fprintf(w, "  %s: %s\n", runewidth.FillRight(f, labelWidth), d.FieldValue(f))
	}
	fmt.Fprintln(w)
}

// RenderTable writes the record table. Column widths follow the widest cell,
// measured in terminal columns.
func RenderTable(w io.Writer, records []record.Record, opts Options) {
	headers := append([]string{"ID"}, record.Headers()...)
	rows := make([][]string, 0, len(records))
	for _, r := range records {
		rows = append(rows, append([]string{fmt.Sprint(r.ID)}, record.Row(r)...))
	}

	widths := ColumnWidths(headers, rows)

	header := formatRow(headers, widths)
	if opts.Color {
		header = headerStyle.Sprint(header)
	}
	fmt.Fprintln(w, header)
	fmt.Fprintln(w, strings.Repeat("-", runewidth.StringWidth(formatRow(headers, widths))))

	if len(rows) == 0 {
		fmt.Fprintln(w, "(no records)")
		return
	}
	for _, row := range rows {
		fmt.Fprintln(w, formatRow(row, widths))
	}
}

// ColumnWidths returns the display width of each column.
func ColumnWidths(headers []string, rows [][]string) []int {
	widths := make([]int, len(headers))
	for i, h := range headers {
		widths[i] = runewidth.StringWidth(h)
	}
	for _, row := range rows {
		for i, cell := range row {
			if i < len(widths) {
				if n := runewidth.StringWidth(cell); n > widths[i] {
					widths[i] = n
				}
			}
		}
	}
	return widths
}

// formatRow pads each cell. ID and Name are left-aligned, the rest
// right-aligned.
func formatRow(cells []string, widths []int) string {
	parts := make([]string, len(cells))
	for i, cell := range cells {
		if i <= 1 {
			parts[i] = runewidth.FillRight(cell, widths[i])
		} else {
			parts[i] = runewidth.FillLeft(cell, widths[i])
		}
	}
	return strings.Join(parts, " | ")
}

func nonNil(records []record.Record) []record.Record {
	if records == nil {
		return []record.Record{}
	}
	return records
}
