package parser

import (
	"encoding/csv"
	"fmt"
	"io"
	"os"
	"strconv"
)

// Write emits g as a results table that Load reads back into an equal
// GroupedSeries. Rows are interleaved by index (--avg, --idw, --msh); --idw and
// --msh rows carry the --avg percentage at the same index, or 0 past its end.
func Write(w io.Writer, g *GroupedSeries) error {
	cw := csv.NewWriter(w)
	if err := cw.Write(requiredColumns(g.Metrics)); err != nil {
		return fmt.Errorf("failed to write header: %w", err)
	}

	maxRows := 0
	for _, grp := range g.Groups {
		if grp.Rows > maxRows {
			maxRows = grp.Rows
		}
	}
	for i := 0; i < maxRows; i++ {
		for _, m := range Methods {
			if i >= g.Groups[m].Rows {
				continue
			}
			rec := Record{Method: m, Values: make(map[string]float64, len(g.Metrics))}
			if i < len(g.Percentages) {
				rec.Percentage = g.Percentages[i]
			}
			for _, metric := range g.Metrics {
				rec.Values[metric] = g.Groups[m].Values[metric][i]
			}
			if err := cw.Write(formatRecord(rec, g.Metrics)); err != nil {
				return fmt.Errorf("failed to write row: %w", err)
			}
		}
	}
	cw.Flush()
	return cw.Error()
}

// AppendRecord appends rec to the results table at path. A new or empty file
// gets a header of the required columns in metrics order; an existing header is
// followed column by column, and columns it does not require are left empty.
func AppendRecord(path string, metrics []string, rec Record) (err error) {
	file, err := os.OpenFile(path, os.O_CREATE|os.O_APPEND|os.O_RDWR, 0o644)
	if err != nil {
		return err
	}
	defer func() {
		if cerr := file.Close(); cerr != nil && err == nil {
			err = cerr
		}
	}()

	info, err := file.Stat()
	if err != nil {
		return err
	}

	cw := csv.NewWriter(file)
	row := formatRecord(rec, metrics)
	if info.Size() == 0 {
		if err := cw.Write(requiredColumns(metrics)); err != nil {
			return fmt.Errorf("failed to write header: %w", err)
		}
	} else {
		header, err := csv.NewReader(file).Read()
		if err != nil {
			return fmt.Errorf("failed to read header of %s: %w", path, err)
		}
		names, cols, err := resolveHeader(header, metrics)
		if err != nil {
			return err
		}
		row = make([]string, len(names))
		ordered := formatRecord(rec, metrics)
		row[cols.percentage] = ordered[0]
		row[cols.method] = ordered[1]
		for i, col := range cols.metrics {
			row[col] = ordered[i+2]
		}

		last := make([]byte, 1)
		if _, err := file.ReadAt(last, info.Size()-1); err == nil && last[0] != '\n' {
			if _, err := file.Write([]byte("\n")); err != nil {
				return err
			}
		}
	}
	if err := cw.Write(row); err != nil {
		return fmt.Errorf("failed to write row: %w", err)
	}
	cw.Flush()
	return cw.Error()
}

func formatRecord(rec Record, metrics []string) []string {
	row := make([]string, 0, len(metrics)+2)
	row = append(row, strconv.Itoa(rec.Percentage), rec.Method.String())
	for _, metric := range metrics {
		row = append(row, strconv.FormatFloat(rec.Values[metric], 'g', -1, 64))
	}
	return row
}
