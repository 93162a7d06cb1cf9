package colmeta

import (
	"errors"
	"fmt"
	"slices"

	"github.com/hupe1980/colmeta/metadata"
	"github.com/hupe1980/colmeta/scan"
	"github.com/hupe1980/colmeta/settings"
)

const (
	keyName    = "name"
	keyRows    = "rows"
	keyColumns = "columns"
)

// TableMeta is the column metadata of one table: an ordered list of columns,
// each with its metadata manager.
//
// A TableMeta is not safe for concurrent mutation. Managers stored in it are
// immutable and may be shared freely.
type TableMeta struct {
	name    string
	rows    int64
	order   []string
	columns map[string]*metadata.Manager
}

// NewTableMeta returns an empty TableMeta for the table called name.
func NewTableMeta(name string) *TableMeta {
	return &TableMeta{name: name, columns: make(map[string]*metadata.Manager)}
}

// FromScan builds the TableMeta of a scanned table.
func FromScan(name string, res *scan.Result) *TableMeta {
	t := NewTableMeta(name)
	t.rows = int64(res.Rows)
	for _, c := range res.Columns {
		t.Set(c.Column.Name, c.Meta)
	}
	return t
}

// Name returns the table name.
func (t *TableMeta) Name() string { return t.name }

// Rows returns the number of rows the metadata was collected from.
func (t *TableMeta) Rows() int64 { return t.rows }

// SetRows records the number of rows the metadata describes.
func (t *TableMeta) SetRows(n int64) { t.rows = n }

// Len returns the number of columns.
func (t *TableMeta) Len() int { return len(t.order) }

// Columns returns the column names in order.
func (t *TableMeta) Columns() []string { return slices.Clone(t.order) }

// Column returns the metadata of the named column.
func (t *TableMeta) Column(name string) (*metadata.Manager, bool) {
	m, ok := t.columns[name]
	return m, ok
}

// Set stores m as the metadata of column name. New columns are appended;
// existing columns keep their position. A nil manager is stored as
// metadata.Empty().
func (t *TableMeta) Set(name string, m *metadata.Manager) {
	if m == nil {
		m = metadata.Empty()
	}
	if _, ok := t.columns[name]; !ok {
		t.order = append(t.order, name)
	}
	t.columns[name] = m
}

// Remove drops column name.
func (t *TableMeta) Remove(name string) {
	if _, ok := t.columns[name]; !ok {
		return
	}
	delete(t.columns, name)
	t.order = slices.DeleteFunc(t.order, func(s string) bool { return s == name })
}

// Equal reports whether t and o describe the same columns in the same order
// with equal metadata. Table names are not compared.
func (t *TableMeta) Equal(o *TableMeta) bool {
	if t.rows != o.rows || !slices.Equal(t.order, o.order) {
		return false
	}
	for _, name := range t.order {
		if !t.columns[name].Equal(o.columns[name]) {
			return false
		}
	}
	return true
}

// Merge returns the metadata of the concatenation of t and o.
//
// Columns present in both are merged kind by kind; the others are copied.
// Column order is that of t followed by the columns only o has. Row counts
// add up. Neither operand is modified.
func (t *TableMeta) Merge(o *TableMeta) (*TableMeta, error) {
	out := NewTableMeta(t.name)
	out.rows = t.rows + o.rows
	for _, name := range t.order {
		out.Set(name, t.columns[name])
	}
	var errs []error
	for _, name := range o.order {
		cur, ok := out.columns[name]
		if !ok {
			out.Set(name, o.columns[name])
			continue
		}
		merged, err := cur.Merge(o.columns[name])
		if err != nil {
			errs = append(errs, fmt.Errorf("column %q: %w", name, err))
			continue
		}
		out.columns[name] = merged
	}
	if err := errors.Join(errs...); err != nil {
		return nil, err
	}
	return out, nil
}

// Save writes t into w.
func (t *TableMeta) Save(w settings.Writer, reg *metadata.Registry) error {
	w.SetString(keyName, t.name)
	w.SetInt(keyRows, t.rows)
	cols := w.AddTree(keyColumns)
	for _, name := range t.order {
		if err := t.columns[name].Save(cols.AddTree(name), reg); err != nil {
			return fmt.Errorf("column %q: %w", name, err)
		}
	}
	return nil
}

// SkippedEntry is a metadata entry of a column that could not be restored.
type SkippedEntry struct {
	Column string
	metadata.SkippedEntry
}

// LoadTableMeta reads a TableMeta written by Save. Entries of unknown or
// malformed kinds are skipped and returned.
func LoadTableMeta(r settings.Reader, reg *metadata.Registry) (*TableMeta, []SkippedEntry, error) {
	name, err := r.String(keyName)
	if err != nil {
		return nil, nil, err
	}
	t := NewTableMeta(name)
	if r.Has(keyRows) {
		if t.rows, err = r.Int(keyRows); err != nil {
			return nil, nil, err
		}
	}
	cols, err := r.Tree(keyColumns)
	if err != nil {
		return nil, nil, err
	}

	var skipped []SkippedEntry
	for _, col := range cols.Keys() {
		scope, err := cols.Tree(col)
		if err != nil {
			return nil, nil, fmt.Errorf("column %q: %w", col, err)
		}
		m, report, err := metadata.Load(scope, reg)
		if err != nil {
			return nil, nil, fmt.Errorf("column %q: %w", col, err)
		}
		for _, s := range report.Skipped {
			skipped = append(skipped, SkippedEntry{Column: col, SkippedEntry: s})
		}
		t.Set(col, m)
	}
	return t, skipped, nil
}
