/*
Package sparse implements a simple type for sparse integer matrices.
It is used for parser tables, where rows are parser states and columns are
grammar symbols.

Every row holds its entries sorted by column, so lookup is a binary search
within a row and iterating a row is in column order. Parser tables are
typically very sparse, with a handful of entries per state.

License

Governed by a 3-Clause BSD license. License file may be found in the root
folder of this module.

Copyright © 2017–2021 Norbert Pillmayer <norbert@pillmayer.com>

*/
package sparse

import (
	"fmt"
	"sort"
)

// IntMatrix is a type for a sparse matrix of integer values. Construct with
//
//     M := NewIntMatrix(10, 10, 0)   // last parameter is M's null-value
//
// Now
//
//     M.Set(2, 3, 4711)              // set a value
//     v := M.Value(2, 3)             // returns 4711
//     cnt := M.ValueCount()          // returns 1 (one position set)
//     v = M.Value(9, 9)              // returns 0, i.e. the null-value
//
// Setting the null-value removes an entry. Rows may be added after creation
// with AddRow.
type IntMatrix struct {
	rows    [][]entry
	colcnt  int
	nullval int32
	count   int
}

type entry struct {
	col   int
	value int32
}

// NewIntMatrix creates a new matrix for int, size m x n. The 3rd argument is a null-value,
// indicating empty entries (use DefaultNullValue if you haven't any specific
// requirements).
func NewIntMatrix(m, n int, nullValue int32) *IntMatrix {
	return &IntMatrix{
		rows:    make([][]entry, m),
		colcnt:  n,
		nullval: nullValue,
	}
}

// DefaultNullValue is the default empty-value for matrices (min int32).
const DefaultNullValue = -2147483648

// M returns the row count.
func (m *IntMatrix) M() int {
	return len(m.rows)
}

// N returns the column count.
func (m *IntMatrix) N() int {
	return m.colcnt
}

// NullValue returns this matrix' null value
func (m *IntMatrix) NullValue() int32 {
	return m.nullval
}

// ValueCount returns the number of values in the matrix.
func (m *IntMatrix) ValueCount() int {
	return m.count
}

// AddRow appends an empty row and returns its index.
func (m *IntMatrix) AddRow() int {
	m.rows = append(m.rows, nil)
	return len(m.rows) - 1
}

// Value returns the value at position (i,j), or NullValue.
func (m *IntMatrix) Value(i, j int) int32 {
	if i < 0 || i >= len(m.rows) {
		return m.nullval
	}
	row := m.rows[i]
	k := find(row, j)
	if k < len(row) && row[k].col == j {
		return row[k].value
	}
	return m.nullval
}

// Set a value in the matrix at position (i,j). Out of range indices
// result in an error.
func (m *IntMatrix) Set(i, j int, value int32) error {
	if i < 0 || i >= len(m.rows) || j < 0 || j >= m.colcnt {
		return fmt.Errorf("index (%d,%d) out of range for %d x %d matrix", i, j, len(m.rows), m.colcnt)
	}
	row := m.rows[i]
	k := find(row, j)
	present := k < len(row) && row[k].col == j
	switch {
	case present && value == m.nullval:
		m.rows[i] = append(row[:k], row[k+1:]...)
		m.count--
	case present:
		row[k].value = value
	case value != m.nullval:
		row = append(row, entry{})
		copy(row[k+1:], row[k:])
		row[k] = entry{col: j, value: value}
		m.rows[i] = row
		m.count++
	}
	return nil
}

// EachInRow calls f for every non-null entry of row i, in column order.
func (m *IntMatrix) EachInRow(i int, f func(j int, value int32)) {
	if i < 0 || i >= len(m.rows) {
		return
	}
	for _, e := range m.rows[i] {
		f(e.col, e.value)
	}
}

// RowCount returns the number of non-null entries in row i.
func (m *IntMatrix) RowCount(i int) int {
	if i < 0 || i >= len(m.rows) {
		return 0
	}
	return len(m.rows[i])
}

// ColumnUsed returns true if any row has an entry in column j.
func (m *IntMatrix) ColumnUsed(j int) bool {
	for _, row := range m.rows {
		k := find(row, j)
		if k < len(row) && row[k].col == j {
			return true
		}
	}
	return false
}

func find(row []entry, j int) int {
	return sort.Search(len(row), func(k int) bool { return row[k].col >= j })
}
