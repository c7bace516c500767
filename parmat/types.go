// Copyright 2025 The go-parmat Authors. SPDX-License-Identifier: Apache-2.0

// Package parmat provides dense row-major matrices and the pieces shared by
// the parallel multiply engine: element constraints, errors and runtime
// configuration.
//
// Basic usage:
//
//	import (
//	    "github.com/ajroetker/go-parmat/parmat"
//	    "github.com/ajroetker/go-parmat/parmat/contrib/matmul"
//	)
//
//	a := parmat.MustNew([]int{1, 2, 3, 4, 5, 6}, 2, 3)
//	b := parmat.MustNew([]int{1, 2, 3, 4, 5, 6}, 3, 2)
//	c, err := matmul.Multiply(a, b) // [[22 28] [49 64]]
//
// The engine itself lives in the contrib packages: dot computes one cell,
// workerpool runs the workers, and matmul partitions a product into one work
// item per output cell and assembles the replies.
package parmat

// Floats is a constraint for floating-point types.
type Floats interface {
	~float32 | ~float64
}

// SignedInts is a constraint for signed integer types.
type SignedInts interface {
	~int | ~int8 | ~int16 | ~int32 | ~int64
}

// UnsignedInts is a constraint for unsigned integer types.
type UnsignedInts interface {
	~uint | ~uint8 | ~uint16 | ~uint32 | ~uint64
}

// Integers is a constraint for all integer types.
type Integers interface {
	SignedInts | UnsignedInts
}

// Numeric is a constraint for every element type a Matrix can hold.
// Arithmetic follows Go's rules for the type: integers wrap, floats round.
type Numeric interface {
	Floats | Integers
}
