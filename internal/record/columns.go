package record

import "github.com/elliotchance/orderedmap/v2"

// Cell extracts one display value from a record.
type Cell func(Record) string

// Columns returns the table columns in display order, keyed by header.
func Columns() *orderedmap.OrderedMap[string, Cell] {
	cols := orderedmap.NewOrderedMap[string, Cell]()
	cols.Set("Name", func(r Record) string { return r.Name })
	cols.Set("Phone", func(r Record) string { return r.Phone })
	cols.Set("Email", func(r Record) string { return r.Email })
	cols.Set("Security", func(r Record) string { return r.Security })
	cols.Set("Revenue", func(r Record) string { return FormatNumber(r.Revenue) })
	return cols
}

// Headers returns the column headers in display order.
func Headers() []string {
	return Columns().Keys()
}

// Row returns the display cells for r in column order.
func Row(r Record) []string {
	cols := Columns()
	row := make([]string, 0, cols.Len())
	for el := cols.Front(); el != nil; el = el.Next() {
		row = append(row, el.Value(r))
	}
	return row
}

// Fields lists the editable draft fields in form order.
var Fields = []string{"Name", "Phone", "Email", "Security", "Revenue"}

// FieldValue returns the form text for the named draft field.
func (d Draft) FieldValue(field string) string {
	switch field {
	case "Name":
		return d.Name
	case "Phone":
		return d.Phone
	case "Email":
		return d.Email
	case "Security":
		return d.Security
	case "Revenue":
		return FormatNumber(d.Revenue)
	default:
		return ""
	}
}

// SetField returns a copy of the draft with the named field set from form text.
// Revenue goes through CoerceNumber; unknown fields are ignored.
func (d Draft) SetField(field, value string) Draft {
	switch field {
	case "Name":
		d.Name = value
	case "Phone":
		d.Phone = value
	case "Email":
		d.Email = value
	case "Security":
		d.Security = value
	case "Revenue":
		d.Revenue = CoerceNumber(value)
	}
	return d
}
