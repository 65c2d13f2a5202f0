package entities

import (
	"errors"
	"fmt"
	"unicode/utf8"
)

// FieldSelector picks one field of a source row. Column selects by header name,
// otherwise Index selects by position. As is the name the field gets in the table.
type FieldSelector struct {
	Index  int    `toml:"index"`
	Column string `toml:"column"`
	As     string `toml:"as"`
}

// Positional reports whether the selector uses the field index
func (f FieldSelector) Positional() bool {
	return f.Column == ""
}

func (f FieldSelector) String() string {
	if f.Positional() {
		return fmt.Sprintf("field %d", f.Index)
	}
	return fmt.Sprintf("column %q", f.Column)
}

// SourceSpec describes how one input file is read
type SourceSpec struct {
	Name      string          `toml:"name"`
	File      string          `toml:"file"`
	Delimiter string          `toml:"delimiter"`
	HasHeader bool            `toml:"header"`
	Encoding  string          `toml:"encoding"` // fallback for input that is not UTF-8
	Fields    []FieldSelector `toml:"field"`
}

// Comma returns the delimiter as a rune
func (s SourceSpec) Comma() (rune, error) {
	if utf8.RuneCountInString(s.Delimiter) != 1 {
		return 0, fmt.Errorf("delimiter must be a single character, got %q", s.Delimiter)
	}
	r, _ := utf8.DecodeRuneInString(s.Delimiter)
	if r == '"' || r == '\r' || r == '\n' || r == utf8.RuneError {
		return 0, fmt.Errorf("invalid delimiter %q", s.Delimiter)
	}
	return r, nil
}

// Columns returns the names of the table columns this source produces
func (s SourceSpec) Columns() []string {
	cols := make([]string, len(s.Fields))
	for i, f := range s.Fields {
		cols[i] = f.As
	}
	return cols
}

// Validate checks the structure of the source layout
func (s SourceSpec) Validate() error {
	if s.Name == "" {
		return errors.New("source name cannot be empty")
	}
	if s.File == "" {
		return fmt.Errorf("source %s: file cannot be empty", s.Name)
	}
	if _, err := s.Comma(); err != nil {
		return fmt.Errorf("source %s: %w", s.Name, err)
	}
	if len(s.Fields) == 0 {
		return fmt.Errorf("source %s: no fields selected", s.Name)
	}

	seen := make(map[string]bool, len(s.Fields))
	for _, f := range s.Fields {
		if f.As == "" {
			return fmt.Errorf("source %s: %s has no target name", s.Name, f)
		}
		if seen[f.As] {
			return fmt.Errorf("source %s: target %q selected twice", s.Name, f.As)
		}
		seen[f.As] = true

		if f.Positional() && f.Index < 0 {
			return fmt.Errorf("source %s: negative field index %d", s.Name, f.Index)
		}
		if !f.Positional() && !s.HasHeader {
			return fmt.Errorf("source %s: %s needs a header row", s.Name, f)
		}
	}
	if !seen[ColumnCode] {
		return fmt.Errorf("source %s: no field mapped to %q", s.Name, ColumnCode)
	}

	return nil
}
