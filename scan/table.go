package scan

import (
	"fmt"
	"slices"

	"github.com/hupe1980/colmeta/value"
)

// Column describes one table column.
type Column struct {
	Name string
	Type value.Type
}

// Table is a read-only row-addressable table.
//
// Cell must be safe for concurrent use by multiple goroutines.
type Table interface {
	Columns() []Column
	NumRows() int
	Cell(row, col int) value.Value
}

// MemTable is an in-memory Table.
type MemTable struct {
	cols []Column
	rows [][]value.Value
}

var _ Table = (*MemTable)(nil)

// NewMemTable creates an empty table with the given columns.
func NewMemTable(cols ...Column) *MemTable {
	return &MemTable{cols: slices.Clone(cols)}
}

// Append adds a row. It fails if the number of cells does not match the
// number of columns.
func (t *MemTable) Append(cells ...value.Value) error {
	if len(cells) != len(t.cols) {
		return fmt.Errorf("scan: row has %d cells, table has %d columns", len(cells), len(t.cols))
	}
	t.rows = append(t.rows, slices.Clone(cells))
	return nil
}

// Columns implements Table.
func (t *MemTable) Columns() []Column { return slices.Clone(t.cols) }

// NumRows implements Table.
func (t *MemTable) NumRows() int { return len(t.rows) }

// Cell implements Table. Out-of-range coordinates yield a missing value.
func (t *MemTable) Cell(row, col int) value.Value {
	if row < 0 || row >= len(t.rows) || col < 0 || col >= len(t.cols) {
		return value.Missing()
	}
	return t.rows[row][col]
}
