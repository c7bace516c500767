// Copyright 2025 The go-parmat Authors. SPDX-License-Identifier: Apache-2.0

package parmat

import (
	"fmt"
	"slices"
	"strings"
)

// Matrix is a dense row-major matrix: cell (i, j) is stored at
// data[i*cols+j].
//
// A Matrix is immutable once constructed. Accessors hand out copies, and
// multiplication always produces a new Matrix.
type Matrix[T Numeric] struct {
	data []T
	rows int
	cols int
}

// New creates a rows x cols matrix backed by data. The matrix takes
// ownership of data; the caller must not modify it afterwards.
//
// Returns ErrInvalidShape if a dimension is negative or
// len(data) != rows*cols.
func New[T Numeric](data []T, rows, cols int) (*Matrix[T], error) {
	if rows < 0 || cols < 0 {
		return nil, fmt.Errorf("%w: negative dimensions %dx%d", ErrInvalidShape, rows, cols)
	}
	if len(data) != rows*cols {
		return nil, fmt.Errorf("%w: %d elements for a %dx%d matrix", ErrInvalidShape, len(data), rows, cols)
	}
	return &Matrix[T]{data: data, rows: rows, cols: cols}, nil
}

// MustNew is like New but panics if the shape is invalid.
func MustNew[T Numeric](data []T, rows, cols int) *Matrix[T] {
	m, err := New(data, rows, cols)
	if err != nil {
		panic(err)
	}
	return m
}

// Zeros returns a rows x cols matrix filled with the zero value of T.
// It panics if a dimension is negative.
func Zeros[T Numeric](rows, cols int) *Matrix[T] {
	if rows < 0 || cols < 0 {
		panic(fmt.Errorf("%w: negative dimensions %dx%d", ErrInvalidShape, rows, cols))
	}
	return &Matrix[T]{data: make([]T, rows*cols), rows: rows, cols: cols}
}

// FromRows builds a matrix from a slice of equally long rows.
// The rows are copied. An empty input yields a 0x0 matrix.
func FromRows[T Numeric](rows [][]T) (*Matrix[T], error) {
	if len(rows) == 0 {
		return &Matrix[T]{}, nil
	}
	cols := len(rows[0])
	data := make([]T, 0, len(rows)*cols)
	for i, r := range rows {
		if len(r) != cols {
			return nil, fmt.Errorf("%w: row %d has %d elements, want %d", ErrInvalidShape, i, len(r), cols)
		}
		data = append(data, r...)
	}
	return &Matrix[T]{data: data, rows: len(rows), cols: cols}, nil
}

// Rows returns the number of rows.
func (m *Matrix[T]) Rows() int { return m.rows }

// Cols returns the number of columns.
func (m *Matrix[T]) Cols() int { return m.cols }

// Len returns the total number of cells, Rows()*Cols().
func (m *Matrix[T]) Len() int { return len(m.data) }

// At returns cell (i, j). It panics if the index is out of range.
func (m *Matrix[T]) At(i, j int) T {
	if i < 0 || i >= m.rows || j < 0 || j >= m.cols {
		panic(fmt.Sprintf("parmat: index (%d, %d) out of range for %dx%d matrix", i, j, m.rows, m.cols))
	}
	return m.data[i*m.cols+j]
}

// Row returns a copy of row i.
func (m *Matrix[T]) Row(i int) []T {
	if i < 0 || i >= m.rows {
		panic(fmt.Sprintf("parmat: row %d out of range for %dx%d matrix", i, m.rows, m.cols))
	}
	return slices.Clone(m.data[i*m.cols : (i+1)*m.cols])
}

// Col returns a copy of column j, read with a stride of Cols().
func (m *Matrix[T]) Col(j int) []T {
	if j < 0 || j >= m.cols {
		panic(fmt.Sprintf("parmat: column %d out of range for %dx%d matrix", j, m.rows, m.cols))
	}
	col := make([]T, m.rows)
	for i := range m.rows {
		col[i] = m.data[i*m.cols+j]
	}
	return col
}

// Data returns a copy of the row-major backing buffer.
func (m *Matrix[T]) Data() []T {
	return slices.Clone(m.data)
}

// ToRows returns the matrix as a slice of row copies.
func (m *Matrix[T]) ToRows() [][]T {
	out := make([][]T, m.rows)
	for i := range m.rows {
		out[i] = m.Row(i)
	}
	return out
}

// Equal reports whether m and o have the same shape and elements.
func (m *Matrix[T]) Equal(o *Matrix[T]) bool {
	if m == nil || o == nil {
		return m == o
	}
	return m.rows == o.rows && m.cols == o.cols && slices.Equal(m.data, o.data)
}

// String formats the matrix row by row, e.g. "[[22 28] [49 64]]".
func (m *Matrix[T]) String() string {
	var sb strings.Builder
	sb.WriteByte('[')
	for i := range m.rows {
		if i > 0 {
			sb.WriteByte(' ')
		}
		fmt.Fprint(&sb, m.data[i*m.cols:(i+1)*m.cols])
	}
	sb.WriteByte(']')
	return sb.String()
}
