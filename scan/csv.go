package scan

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"strconv"

	"github.com/hupe1980/colmeta/value"
)

// ReadCSV reads a CSV document with a header row into a MemTable.
//
// Column types are inferred from the non-empty cells: Boolean if all are
// "true" or "false", Integer if all parse as integers, Number (double) if
// all parse as floats, String otherwise. Empty cells are missing.
func ReadCSV(r io.Reader) (*MemTable, error) {
	cr := csv.NewReader(r)

	header, err := cr.Read()
	if errors.Is(err, io.EOF) {
		return nil, errors.New("scan: csv has no header row")
	}
	if err != nil {
		return nil, fmt.Errorf("scan: read csv header: %w", err)
	}
	records, err := cr.ReadAll()
	if err != nil {
		return nil, fmt.Errorf("scan: read csv: %w", err)
	}

	cols := make([]Column, len(header))
	for i, name := range header {
		cols[i] = Column{Name: name, Type: inferType(records, i)}
	}

	t := NewMemTable(cols...)
	cells := make([]value.Value, len(cols))
	for _, rec := range records {
		for i, col := range cols {
			cells[i] = parseCell(rec[i], col.Type)
		}
		if err := t.Append(cells...); err != nil {
			return nil, err
		}
	}
	return t, nil
}

func inferType(records [][]string, col int) value.Type {
	isBool, isInt, isFloat := true, true, true
	seen := false
	for _, rec := range records {
		s := rec[col]
		if s == "" {
			continue
		}
		seen = true
		if s != "true" && s != "false" {
			isBool = false
		}
		if _, err := strconv.ParseInt(s, 10, 64); err != nil {
			isInt = false
		}
		if _, err := strconv.ParseFloat(s, 64); err != nil {
			isFloat = false
		}
	}
	switch {
	case !seen:
		return value.StringType
	case isBool:
		return value.BoolType
	case isInt:
		return value.IntType
	case isFloat:
		return value.DoubleType
	}
	return value.StringType
}

func parseCell(s string, t value.Type) value.Value {
	if s == "" {
		return value.Missing()
	}
	switch t.Name() {
	case value.BoolType.Name():
		return value.Bool(s == "true")
	case value.IntType.Name():
		v, _ := strconv.ParseInt(s, 10, 64)
		return value.Int(v)
	case value.DoubleType.Name():
		v, _ := strconv.ParseFloat(s, 64)
		return value.Float(v)
	}
	return value.String(s)
}
