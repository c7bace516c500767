// Copyright 2025 The go-parmat Authors. SPDX-License-Identifier: Apache-2.0

package matmul

import "github.com/ajroetker/go-parmat/parmat"

// Naive computes a * b with a sequential triple loop and no workers.
// It accumulates in the same order as the dot product of each cell, which
// makes it an exact reference for Multiply.
func Naive[T parmat.Numeric](a, b *parmat.Matrix[T]) (*parmat.Matrix[T], error) {
	if err := checkShapes(a, b); err != nil {
		return nil, err
	}
	m, n, k := a.Rows(), b.Cols(), a.Cols()
	ad, bd := a.Data(), b.Data()
	c := make([]T, m*n)
	for i := range m {
		for j := range n {
			var sum T
			for p := range k {
				sum += ad[i*k+p] * bd[p*n+j]
			}
			c[i*n+j] = sum
		}
	}
	return parmat.New(c, m, n)
}
