package view

import (
	"bytes"
	"encoding/json"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gopkg.in/yaml.v3"

	"github.com/dbsmedya/recordsdesk/internal/record"
	"github.com/dbsmedya/recordsdesk/internal/store"
)

func sampleSnapshot() store.Snapshot {
	return store.Snapshot{
		Records: []record.Record{
			{ID: 1, Name: "John Doe", Phone: "+1 555 1234", Email: "john.doe@example.com", Security: "Low", Revenue: 10000},
			{ID: 2, Name: "Jane", Phone: "555", Email: "j@x.com", Security: "Low", Revenue: 500},
		},
	}
}

func TestRenderTable(t *testing.T) {
	var buf bytes.Buffer
	RenderTable(&buf, sampleSnapshot().Records, Options{})

	lines := strings.Split(strings.TrimRight(buf.String(), "\n"), "\n")
	require.Len(t, lines, 4)

	assert.True(t, strings.HasPrefix(lines[0], "ID | Name     | "))
	assert.Contains(t, lines[0], "Revenue")
	assert.Equal(t, strings.Repeat("-", len(lines[0])), lines[1])
	assert.Contains(t, lines[2], "John Doe")
	assert.True(t, strings.HasSuffix(lines[2], "  10000"))
	assert.True(t, strings.HasSuffix(lines[3], "    500"))

	// every row has the same display width
	for _, l := range lines {
		assert.Equal(t, len(lines[0]), len(l), "line %q", l)
	}
}

func TestRenderTableEmpty(t *testing.T) {
	var buf bytes.Buffer
	RenderTable(&buf, nil, Options{})
	assert.Contains(t, buf.String(), "(no records)")
}

func TestColumnWidthsWideRunes(t *testing.T) {
	widths := ColumnWidths([]string{"Name"}, [][]string{{"日本語"}})
	assert.Equal(t, []int{6}, widths)
}

func TestRenderFormsHidesEditWithoutID(t *testing.T) {
	snap := sampleSnapshot()
	snap.NewDraft = record.Draft{Name: "Draft Name", Revenue: 12.5}

	var buf bytes.Buffer
	RenderForms(&buf, snap)
	out := buf.String()

	assert.Contains(t, out, "Add New Record")
	assert.Contains(t, out, "Draft Name")
	assert.Contains(t, out, "12.5")
	assert.NotContains(t, out, "Edit Record")
}

func TestRenderFormsShowsEditWithID(t *testing.T) {
	snap := sampleSnapshot()
	snap.EditDraft = record.DraftFrom(snap.Records[1])

	var buf bytes.Buffer
	RenderForms(&buf, snap)
	assert.Contains(t, buf.String(), "Edit Record #2")
}

func TestRenderWithForms(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, Render(&buf, sampleSnapshot(), FormatTable, Options{Forms: true}))
	out := buf.String()
	assert.Less(t, strings.Index(out, "Add New Record"), strings.Index(out, "John Doe"))
}

func TestRenderJSON(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, Render(&buf, sampleSnapshot(), FormatJSON, Options{}))

	var got []record.Record
	require.NoError(t, json.Unmarshal(buf.Bytes(), &got))
	assert.Equal(t, sampleSnapshot().Records, got)

	buf.Reset()
	require.NoError(t, Render(&buf, store.Snapshot{}, FormatJSON, Options{}))
	assert.Equal(t, "[]\n", buf.String())
}

func TestRenderYAML(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, Render(&buf, sampleSnapshot(), FormatYAML, Options{}))
	assert.Contains(t, buf.String(), "name: Jane")

	var got []record.Record
	require.NoError(t, yaml.Unmarshal(buf.Bytes(), &got))
	assert.Equal(t, sampleSnapshot().Records, got)
}

func TestRenderUnknownFormat(t *testing.T) {
	err := Render(&bytes.Buffer{}, sampleSnapshot(), "xml", Options{})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "xml")
}
