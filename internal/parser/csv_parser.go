package parser

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"
)

const utf8BOM = "\ufeff"

// Logger receives diagnostics while a table is loaded.
type Logger interface {
	Verbose(format string, args ...interface{})
}

type loadOptions struct {
	log Logger
}

// Option configures a load.
type Option func(*loadOptions)

// WithLogger reports the header and dropped rows to l.
func WithLogger(l Logger) Option {
	return func(o *loadOptions) { o.log = l }
}

// columnIndex maps the required columns to their position in a row.
type columnIndex struct {
	percentage int
	method     int
	metrics    []int
}

// Load reads the results table at path and groups its rows by method.
// Errors from opening the file are returned unchanged.
func Load(path string, metrics []string, opts ...Option) (*GroupedSeries, error) {
	file, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer file.Close()

	return LoadReader(file, metrics, opts...)
}

// LoadReader reads a results table from r. The first row is the header; every
// following row becomes a Record of one method group. Rows whose method tag is
// not one of --avg, --idw or --msh are skipped. The first error aborts the load.
func LoadReader(r io.Reader, metrics []string, opts ...Option) (*GroupedSeries, error) {
	o := loadOptions{}
	for _, opt := range opts {
		opt(&o)
	}

	reader := csv.NewReader(r)
	reader.TrimLeadingSpace = true
	reader.LazyQuotes = true    // a stray quote stays part of the cell
	reader.FieldsPerRecord = -1 // short rows are reported per cell below

	header, err := reader.Read()
	if err == io.EOF {
		return nil, &SchemaError{Missing: requiredColumns(metrics), Header: []string{}}
	}
	if err != nil {
		return nil, fmt.Errorf("failed to read header: %w", err)
	}

	names, cols, err := resolveHeader(header, metrics)
	if err != nil {
		return nil, err
	}
	o.verbose("available columns: %v", names)

	grouped := NewGroupedSeries(metrics)
	for rowIdx := 1; ; rowIdx++ {
		fields, err := reader.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, rowReadError(rowIdx, err)
		}
		line, _ := reader.FieldPos(0)

		rec, known, err := parseRecord(fields, cols, metrics, rowIdx, line)
		if err != nil {
			return nil, err
		}
		if !known {
			o.verbose("row %d (line %d): skipping unknown method %q", rowIdx, line, cellAt(fields, cols.method))
			continue
		}
		grouped.Add(rec)
	}
	return grouped, nil
}

// rowReadError reports a malformed CSV row as a ParseError; other read
// failures are wrapped.
func rowReadError(rowIdx int, err error) error {
	var csvErr *csv.ParseError
	if errors.As(err, &csvErr) {
		return &ParseError{Row: rowIdx, Line: csvErr.Line, Err: csvErr.Err}
	}
	return fmt.Errorf("failed to read data row %d: %w", rowIdx, err)
}

func (o loadOptions) verbose(format string, args ...interface{}) {
	if o.log != nil {
		o.log.Verbose(format, args...)
	}
}

// resolveHeader trims the header names and locates every required column.
func resolveHeader(header []string, metrics []string) ([]string, columnIndex, error) {
	names := make([]string, len(header))
	pos := make(map[string]int, len(header))
	for i, h := range header {
		if i == 0 {
			h = strings.TrimPrefix(h, utf8BOM)
		}
		names[i] = strings.TrimSpace(h)
		pos[names[i]] = i // later duplicates win
	}

	var missing []string
	for _, col := range requiredColumns(metrics) {
		if _, ok := pos[col]; !ok {
			missing = append(missing, col)
		}
	}
	if len(missing) > 0 {
		return nil, columnIndex{}, &SchemaError{Missing: missing, Header: names}
	}

	cols := columnIndex{
		percentage: pos[ColPercentage],
		method:     pos[ColMethod],
		metrics:    make([]int, len(metrics)),
	}
	for i, m := range metrics {
		cols.metrics[i] = pos[m]
	}
	return names, cols, nil
}

func requiredColumns(metrics []string) []string {
	return append([]string{ColPercentage, ColMethod}, metrics...)
}

// parseRecord converts one data row. known is false when the method tag is not
// recognised; numeric cells are still validated for such rows.
func parseRecord(fields []string, cols columnIndex, metrics []string, rowIdx, line int) (Record, bool, error) {
	cell := func(col int, name string) (string, error) {
		if col >= len(fields) {
			return "", &ParseError{Row: rowIdx, Line: line, Column: name, Err: errMissingCell}
		}
		return strings.TrimSpace(fields[col]), nil
	}

	pctStr, err := cell(cols.percentage, ColPercentage)
	if err != nil {
		return Record{}, false, err
	}
	methodStr, err := cell(cols.method, ColMethod)
	if err != nil {
		return Record{}, false, err
	}
	pct, err := strconv.Atoi(pctStr)
	if err != nil {
		return Record{}, false, &ParseError{Row: rowIdx, Line: line, Column: ColPercentage, Value: pctStr, Err: err}
	}

	values := make(map[string]float64, len(metrics))
	for i, metric := range metrics {
		s, err := cell(cols.metrics[i], metric)
		if err != nil {
			return Record{}, false, err
		}
		v, err := strconv.ParseFloat(s, 64)
		if err != nil {
			return Record{}, false, &ParseError{Row: rowIdx, Line: line, Column: metric, Value: s, Err: err}
		}
		values[metric] = v
	}

	method, known := ParseMethod(methodStr)
	return Record{Percentage: pct, Method: method, Values: values}, known, nil
}

func cellAt(fields []string, col int) string {
	if col < len(fields) {
		return strings.TrimSpace(fields[col])
	}
	return ""
}
