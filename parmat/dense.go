// Copyright 2025 The go-parmat Authors. SPDX-License-Identifier: Apache-2.0

package parmat

import (
	"fmt"

	"gonum.org/v1/gonum/mat"
)

// ToDense converts m to a gonum dense matrix, widening elements to float64.
// gonum cannot represent matrices with a zero dimension, so those return
// ErrInvalidShape.
func ToDense[T Numeric](m *Matrix[T]) (*mat.Dense, error) {
	if m.rows == 0 || m.cols == 0 {
		return nil, fmt.Errorf("%w: gonum cannot hold a %dx%d matrix", ErrInvalidShape, m.rows, m.cols)
	}
	data := make([]float64, len(m.data))
	for i, v := range m.data {
		data[i] = float64(v)
	}
	return mat.NewDense(m.rows, m.cols, data), nil
}

// FromDense copies any gonum matrix into a float64 Matrix.
func FromDense(d mat.Matrix) *Matrix[float64] {
	r, c := d.Dims()
	data := make([]float64, r*c)
	for i := range r {
		for j := range c {
			data[i*c+j] = d.At(i, j)
		}
	}
	return &Matrix[float64]{data: data, rows: r, cols: c}
}
