// Copyright 2025 The go-parmat Authors. SPDX-License-Identifier: Apache-2.0

package main

import (
	"fmt"
	"io"
	"strconv"
	"strings"
	"text/tabwriter"

	"github.com/samber/lo"

	"github.com/ajroetker/go-parmat/parmat"
)

// parseMatrix parses a matrix literal: rows separated by ';', elements by
// ','. "1,2,3;4,5,6" is a 2x3 matrix. Whitespace around elements and a
// trailing ';' are ignored; an empty literal is a 0x0 matrix.
func parseMatrix[T parmat.Numeric](literal string, parse func(string) (T, error)) (*parmat.Matrix[T], error) {
	rowTexts := lo.Compact(lo.Map(strings.Split(literal, ";"), func(r string, _ int) string {
		return strings.TrimSpace(r)
	}))

	rows := make([][]T, 0, len(rowTexts))
	for i, text := range rowTexts {
		fields := lo.Map(strings.Split(text, ","), func(f string, _ int) string {
			return strings.TrimSpace(f)
		})
		row := make([]T, len(fields))
		for j, field := range fields {
			v, err := parse(field)
			if err != nil {
				return nil, fmt.Errorf("row %d, column %d: %w", i, j, err)
			}
			row[j] = v
		}
		rows = append(rows, row)
	}
	return parmat.FromRows(rows)
}

func parseInt(s string) (int64, error) {
	return strconv.ParseInt(s, 10, 64)
}

func parseFloat(s string) (float64, error) {
	return strconv.ParseFloat(s, 64)
}

// writeMatrix prints one row per line with aligned columns.
func writeMatrix[T parmat.Numeric](w io.Writer, m *parmat.Matrix[T]) error {
	tw := tabwriter.NewWriter(w, 0, 0, 1, ' ', tabwriter.AlignRight)
	for _, row := range m.ToRows() {
		cells := lo.Map(row, func(v T, _ int) string {
			return fmt.Sprint(v)
		})
		if _, err := fmt.Fprintln(tw, strings.Join(cells, "\t")+"\t"); err != nil {
			return err
		}
	}
	return tw.Flush()
}
