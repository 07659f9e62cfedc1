// Package dataset loads the historical registration counts the forecaster
// works on: a CSV file with one row per (year, category) pair.
package dataset

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"strconv"
	"strings"
)

// Record is one row of the dataset.
type Record struct {
	Year     int
	Category string
	Count    int64
}

// Columns names the CSV header fields holding each value.
type Columns struct {
	Year     string
	Category string
	Count    string
}

// ParseError reports a row that could not be decoded.
type ParseError struct {
	Line   int
	Column string
	Value  string
	Err    error
}

func (e *ParseError) Error() string {
	return fmt.Sprintf("line %d: column %s: invalid value %q: %v", e.Line, e.Column, e.Value, e.Err)
}

func (e *ParseError) Unwrap() error { return e.Err }

// ErrMissingColumn is returned when the header lacks a configured column.
var ErrMissingColumn = errors.New("missing column")

// Parse decodes CSV rows. The first row is the header.
func Parse(r io.Reader, cols Columns) ([]Record, error) {
	cr := csv.NewReader(r)
	cr.FieldsPerRecord = -1
	cr.TrimLeadingSpace = true

	header, err := cr.Read()
	if err == io.EOF {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("read header: %w", err)
	}
	idx := make(map[string]int, len(header))
	for i, h := range header {
		h = strings.TrimSpace(strings.TrimPrefix(h, "\ufeff"))
		idx[h] = i
	}
	yi, ok := idx[cols.Year]
	if !ok {
		return nil, fmt.Errorf("%w %s", ErrMissingColumn, cols.Year)
	}
	ci, ok := idx[cols.Category]
	if !ok {
		return nil, fmt.Errorf("%w %s", ErrMissingColumn, cols.Category)
	}
	ni, ok := idx[cols.Count]
	if !ok {
		return nil, fmt.Errorf("%w %s", ErrMissingColumn, cols.Count)
	}
	need := max(yi, ci, ni)

	var out []Record
	for {
		row, err := cr.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("read row: %w", err)
		}
		line, _ := cr.FieldPos(0)
		if len(row) <= need {
			return nil, &ParseError{Line: line, Column: "*", Value: strings.Join(row, ","), Err: errors.New("too few fields")}
		}
		year, err := strconv.Atoi(strings.TrimSpace(row[yi]))
		if err != nil {
			return nil, &ParseError{Line: line, Column: cols.Year, Value: row[yi], Err: err}
		}
		count, err := strconv.ParseInt(strings.TrimSpace(row[ni]), 10, 64)
		if err != nil {
			return nil, &ParseError{Line: line, Column: cols.Count, Value: row[ni], Err: err}
		}
		out = append(out, Record{Year: year, Category: strings.TrimSpace(row[ci]), Count: count})
	}
	return out, nil
}
