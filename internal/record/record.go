// Package record defines the contact record handled by recordsdesk and the
// partial drafts used to create and edit it.
package record

import (
	"math"
	"strconv"
	"strings"
)

// Record is a contact row as stored by the backend.
type Record struct {
	ID       int64   `json:"id" yaml:"id"`
	Name     string  `json:"name" yaml:"name"`
	Phone    string  `json:"phone" yaml:"phone"`
	Email    string  `json:"email" yaml:"email"`
	Security string  `json:"security" yaml:"security"` // free-form label
	Revenue  float64 `json:"revenue" yaml:"revenue"`
}

// Draft is the editable projection of a Record. ID is only set when the draft
// targets an existing row.
type Draft struct {
	ID       *int64  `json:"id,omitempty" yaml:"id,omitempty"`
	Name     string  `json:"name" yaml:"name"`
	Phone    string  `json:"phone" yaml:"phone"`
	Email    string  `json:"email" yaml:"email"`
	Security string  `json:"security" yaml:"security"`
	Revenue  float64 `json:"revenue" yaml:"revenue"`
}

// EmptyDraft returns a draft with no id and zero-valued fields.
func EmptyDraft() Draft {
	return Draft{}
}

// DraftFrom copies a full row into a draft that targets it.
func DraftFrom(r Record) Draft {
	id := r.ID
	return Draft{
		ID:       &id,
		Name:     r.Name,
		Phone:    r.Phone,
		Email:    r.Email,
		Security: r.Security,
		Revenue:  r.Revenue,
	}
}

// HasID reports whether the draft targets a row. A zero id counts as unset.
func (d Draft) HasID() bool {
	return d.ID != nil && *d.ID != 0
}

// TargetID returns the targeted row id, or 0 when none is set.
func (d Draft) TargetID() int64 {
	if d.ID == nil {
		return 0
	}
	return *d.ID
}

// WithID returns a copy of the draft targeting id.
func (d Draft) WithID(id int64) Draft {
	d.ID = &id
	return d
}

// Apply overwrites r's fields with the draft values. The id is left untouched.
func (d Draft) Apply(r Record) Record {
	r.Name = d.Name
	r.Phone = d.Phone
	r.Email = d.Email
	r.Security = d.Security
	r.Revenue = d.Revenue
	return r
}

// ToRecord builds a record with the given id from the draft fields.
func (d Draft) ToRecord(id int64) Record {
	return d.Apply(Record{ID: id})
}

// CoerceNumber converts form input into a revenue value. Blank input is 0 and
// anything that does not parse as a finite number is also 0.
func CoerceNumber(s string) float64 {
	s = strings.TrimSpace(s)
	if s == "" {
		return 0
	}
	v, err := strconv.ParseFloat(s, 64)
	if err != nil || math.IsNaN(v) || math.IsInf(v, 0) {
		return 0
	}
	return v
}

// FormatNumber renders a revenue value in its shortest form (10000, 12.5).
func FormatNumber(v float64) string {
	return strconv.FormatFloat(v, 'f', -1, 64)
}
