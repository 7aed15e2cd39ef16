package parser

import (
	"errors"
	"fmt"
	"strings"
)

// Sentinel errors for errors.Is checks on load failures.
var (
	// ErrSchema indicates the header row lacks a required column.
	ErrSchema = errors.New("schema error")

	// ErrParse indicates a required cell could not be converted to its numeric type.
	ErrParse = errors.New("parse error")
)

// SchemaError reports the required columns missing from a header row.
type SchemaError struct {
	Missing []string
	Header  []string // trimmed header names as read
}

func (e *SchemaError) Error() string {
	return fmt.Sprintf("missing required column(s) %s; available columns: [%s]",
		strings.Join(quoteAll(e.Missing), ", "), strings.Join(e.Header, ", "))
}

// Is reports whether target is ErrSchema.
func (e *SchemaError) Is(target error) bool { return target == ErrSchema }

// ParseError reports a cell that could not be parsed, or a row the CSV reader
// rejected (Column empty).
// Row is the 1-based data row index (the header is not counted); Line is the
// 1-based line in the file.
type ParseError struct {
	Row    int
	Line   int
	Column string
	Value  string
	Err    error
}

func (e *ParseError) Error() string {
	if e.Column == "" {
		return fmt.Sprintf("row %d (line %d): malformed row: %v", e.Row, e.Line, e.Err)
	}
	return fmt.Sprintf("row %d (line %d), column %q: cannot parse %q: %v", e.Row, e.Line, e.Column, e.Value, e.Err)
}

// Is reports whether target is ErrParse.
func (e *ParseError) Is(target error) bool { return target == ErrParse }

func (e *ParseError) Unwrap() error { return e.Err }

// errMissingCell is the cause recorded when a row is shorter than the header.
var errMissingCell = errors.New("missing value")

func quoteAll(in []string) []string {
	out := make([]string, len(in))
	for i, s := range in {
		out[i] = fmt.Sprintf("%q", s)
	}
	return out
}
