// Package sqlutil provides SQL identifier helpers for the MySQL and SQLite
// record stores.
package sqlutil

import (
	"regexp"
	"strings"
)

// QuoteIdentifier quotes a table or column name for dialect. MySQL uses
// backticks, SQLite (and anything else) standard double quotes; embedded
// quote characters are doubled.
// Example: QuoteIdentifier("mysql", "my`table") -> "`my``table`"
func QuoteIdentifier(dialect, name string) string {
	if dialect == "mysql" {
		return "`" + strings.ReplaceAll(name, "`", "``") + "`"
	}
	return `"` + strings.ReplaceAll(name, `"`, `""`) + `"`
}

// validIdentifierRegex restricts identifiers to alphanumerics and underscore.
var validIdentifierRegex = regexp.MustCompile("^[a-zA-Z0-9_]+$")

// IsValidIdentifier checks if a name only contains alphanumeric characters
// and underscores.
func IsValidIdentifier(name string) bool {
	return validIdentifierRegex.MatchString(name)
}

// QuoteIdentifierSafe validates name and then quotes it.
func QuoteIdentifierSafe(dialect, name string) (string, error) {
	if !IsValidIdentifier(name) {
		return "", &InvalidIdentifierError{Name: name}
	}
	return QuoteIdentifier(dialect, name), nil
}

// InvalidIdentifierError is returned when an identifier contains invalid characters.
type InvalidIdentifierError struct {
	Name string
}

func (e *InvalidIdentifierError) Error() string {
	return "invalid identifier: " + e.Name + " (must contain only alphanumeric characters and underscores)"
}
