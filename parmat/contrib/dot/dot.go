// Copyright 2025 The go-parmat Authors. SPDX-License-Identifier: Apache-2.0

// Package dot computes dot products of numeric vectors.
//
// The reduction is sequential: the accumulator starts at the zero value of
// the element type and adds a[i]*b[i] in index order. No rounding or
// overflow policy is applied beyond Go's own arithmetic for the type.
package dot

import (
	"fmt"

	"github.com/ajroetker/go-parmat/parmat"
)

// Vector is an ordered, fixed-length sequence of elements. In the multiply
// engine a Vector is a private copy of one matrix row or column, owned by a
// single work item.
type Vector[T parmat.Numeric] struct {
	data []T
}

// NewVector wraps data without copying. The vector takes ownership of data.
func NewVector[T parmat.Numeric](data []T) Vector[T] {
	return Vector[T]{data: data}
}

// Len returns the number of elements.
func (v Vector[T]) Len() int {
	return len(v.data)
}

// At returns element i.
func (v Vector[T]) At(i int) T {
	return v.data[i]
}

// Data returns the underlying slice.
// This is primarily for testing and should not be modified.
func (v Vector[T]) Data() []T {
	return v.data
}

// Dot returns sum(a[i] * b[i]).
// Returns parmat.ErrLengthMismatch if the vectors differ in length.
func Dot[T parmat.Numeric](a, b Vector[T]) (T, error) {
	return Slices(a.data, b.data)
}

// Slices is Dot over plain slices.
func Slices[T parmat.Numeric](a, b []T) (T, error) {
	var sum T
	if len(a) != len(b) {
		return sum, fmt.Errorf("%w: %d != %d", parmat.ErrLengthMismatch, len(a), len(b))
	}
	for i := range a {
		sum += a[i] * b[i]
	}
	return sum, nil
}

// Batch computes Slices(as[i], bs[i]) for every i.
// It fails on the first pair whose lengths differ, and if as and bs do not
// hold the same number of vectors.
func Batch[T parmat.Numeric](as, bs [][]T) ([]T, error) {
	if len(as) != len(bs) {
		return nil, fmt.Errorf("%w: %d left vectors, %d right vectors", parmat.ErrLengthMismatch, len(as), len(bs))
	}
	results := make([]T, len(as))
	for i := range as {
		v, err := Slices(as[i], bs[i])
		if err != nil {
			return nil, fmt.Errorf("dot: pair %d: %w", i, err)
		}
		results[i] = v
	}
	return results, nil
}
