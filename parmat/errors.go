// Copyright 2025 The go-parmat Authors. SPDX-License-Identifier: Apache-2.0

package parmat

import "errors"

// Sentinel errors shared by all parmat packages. Callers match them with
// errors.Is; the returned errors wrap them with context.
var (
	// ErrDimensionMismatch is returned when the left operand's column count
	// differs from the right operand's row count. No work is started.
	ErrDimensionMismatch = errors.New("parmat: dimension mismatch")

	// ErrLengthMismatch is returned by a dot product whose operands differ
	// in length.
	ErrLengthMismatch = errors.New("parmat: vector length mismatch")

	// ErrChannelClosed is returned when a reply channel is closed before
	// any result was delivered on it.
	ErrChannelClosed = errors.New("parmat: reply channel closed without a result")

	// ErrPoolClosed is returned when work is submitted to a closed pool.
	ErrPoolClosed = errors.New("parmat: worker pool closed")

	// ErrReplyTimeout is returned when a reply does not arrive within the
	// configured per-reply timeout.
	ErrReplyTimeout = errors.New("parmat: timed out waiting for reply")

	// ErrInvalidShape is returned when a matrix buffer does not match its
	// declared dimensions.
	ErrInvalidShape = errors.New("parmat: invalid matrix shape")

	// ErrResultIndex is returned when a reply carries an output index that
	// is out of range or was already filled.
	ErrResultIndex = errors.New("parmat: result index out of range or duplicated")
)
