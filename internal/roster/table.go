// Package roster implements the employee roster cleaning pipeline.
//
// A raw spreadsheet arrives as positional rows with no trusted header:
// exports from the scheduling system carry three banner rows before the
// real column names. The pipeline promotes the header, detects the key
// columns, and applies a fixed sequence of row filters. Every step is a
// pure function over the in-memory table; nothing is persisted.
package roster

import (
	"fmt"
	"regexp"
	"strings"
)

// bannerRows is the number of junk rows preceding the header row in
// exports from the scheduling system.
const bannerRows = 3

var headerSpace = regexp.MustCompile(`\s+`)

// Table holds one upload's worth of rows under a shared header.
// Rows are rectangular: every row has exactly len(Header) cells.
type Table struct {
	Header []string
	Rows   [][]string
}

// PromoteHeader drops the leading banner rows from a raw record set and
// promotes the next row to the header. Header names are trimmed and have
// internal whitespace collapsed. Rows shorter than the header are padded
// with empty cells; longer rows are truncated.
func PromoteHeader(raw [][]string) (*Table, error) {
	if len(raw) == 0 {
		return nil, fmt.Errorf("empty file")
	}

	if len(raw) <= bannerRows {
		return nil, fmt.Errorf("no data remains after removing the first %d rows", bannerRows)
	}
	trimmed := raw[bannerRows:]

	header := make([]string, len(trimmed[0]))
	for i, name := range trimmed[0] {
		header[i] = CleanHeader(name)
	}

	rows := make([][]string, 0, len(trimmed)-1)
	for _, src := range trimmed[1:] {
		row := make([]string, len(header))
		copy(row, src)
		rows = append(rows, row)
	}

	return &Table{Header: header, Rows: rows}, nil
}

// CleanHeader normalizes a header cell: leading/trailing whitespace is
// trimmed and internal runs of whitespace collapse to a single space.
func CleanHeader(name string) string {
	return strings.TrimSpace(headerSpace.ReplaceAllString(name, " "))
}

// ColumnIndex returns the position of the named column, or -1.
// Matching is exact; header names are already normalized.
func (t *Table) ColumnIndex(name string) int {
	for i, h := range t.Header {
		if h == name {
			return i
		}
	}
	return -1
}
