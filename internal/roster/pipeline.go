package roster

import (
	"strconv"
	"strings"
)

// Column names added by the pipeline when splitting Employee Name.
const (
	FirstNameColumn = "First Name"
	LastNameColumn  = "Last Name"
)

// Options are the caller-supplied filter parameters for one cleaning run.
type Options struct {
	// MaxMiles drops rows whose Miles From Location exceeds this value.
	MaxMiles float64

	// Statuses, when non-empty, is a case-insensitive whitelist of
	// employee statuses to keep. When empty every status passes.
	Statuses []string

	// IncludeResigned admits rows with status "Resigned" in addition
	// to the whitelist.
	IncludeResigned bool
}

// Report counts what happened to the input rows, by drop reason.
// The counts are disjoint: each dropped row is attributed to the first
// filter that rejected it.
type Report struct {
	InputRows        int `json:"inputRows"`
	OutputRows       int `json:"outputRows"`
	DroppedPhone     int `json:"droppedPhone"`
	DroppedDuplicate int `json:"droppedDuplicate"`
	DroppedMiles     int `json:"droppedMiles"`
	DroppedStatus    int `json:"droppedStatus"`
}

// Result is the output of one cleaning run.
type Result struct {
	Table   *Table
	Columns Columns
	Report  Report
}

// Clean runs the full pipeline over a raw record set:
//
//  1. Drop the banner rows and promote the header.
//  2. Detect the name/phone/miles/status columns.
//  3. Normalize phones to digits; drop empty, all-zero, and
//     leading-"1" numbers.
//  4. Deduplicate by Employee Name, first occurrence wins.
//  5. Drop rows farther than MaxMiles (non-numeric miles count as
//     farther; skipped when no miles column exists).
//  6. Apply the status whitelist and the resigned toggle (skipped
//     when no status column exists).
//  7. Split Employee Name into First/Last and move the key columns
//     to the front.
//
// The input is never mutated after step 1's copy; each step sees the
// survivors of the previous one.
func Clean(raw [][]string, opts Options) (*Result, error) {
	table, err := PromoteHeader(raw)
	if err != nil {
		return nil, err
	}

	cols, err := DetectColumns(table.Header)
	if err != nil {
		return nil, err
	}

	rep := Report{InputRows: len(table.Rows)}

	whitelist := make(map[string]bool, len(opts.Statuses))
	for _, s := range opts.Statuses {
		if s = strings.TrimSpace(s); s != "" {
			whitelist[strings.ToLower(s)] = true
		}
	}

	seen := make(map[string]bool, len(table.Rows))
	kept := make([][]string, 0, len(table.Rows))

	for _, row := range table.Rows {
		digits := NormalizePhone(row[cols.Phone])
		if !ValidPhone(digits) {
			rep.DroppedPhone++
			continue
		}
		row[cols.Phone] = digits

		name := row[cols.Name]
		if seen[name] {
			rep.DroppedDuplicate++
			continue
		}
		seen[name] = true

		if cols.Miles >= 0 {
			miles, err := strconv.ParseFloat(strings.TrimSpace(row[cols.Miles]), 64)
			if err != nil || miles > opts.MaxMiles {
				rep.DroppedMiles++
				continue
			}
		}

		if cols.Status >= 0 && !statusAllowed(row[cols.Status], whitelist, opts.IncludeResigned) {
			rep.DroppedStatus++
			continue
		}

		kept = append(kept, row)
	}

	rep.OutputRows = len(kept)

	return &Result{
		Table:   splitNameColumns(table.Header, kept, cols),
		Columns: cols,
		Report:  rep,
	}, nil
}

// statusAllowed applies the whitelist and the resigned toggle to one
// status cell. An empty whitelist passes everything.
func statusAllowed(status string, whitelist map[string]bool, includeResigned bool) bool {
	status = strings.TrimSpace(status)
	if len(whitelist) == 0 || whitelist[strings.ToLower(status)] {
		return true
	}
	return includeResigned && strings.EqualFold(status, "Resigned")
}

// splitNameColumns produces the output table: Employee Name first,
// the derived First Name / Last Name columns directly after it, then
// phone, miles, and status, then every remaining column in its
// original order.
func splitNameColumns(header []string, rows [][]string, cols Columns) *Table {
	// Source column order, name first, key columns pulled forward.
	// Roles may resolve to the same column (a header like "Status Name"
	// matches both the name and status patterns); each source column
	// appears once.
	order := []int{cols.Name}
	front := map[int]bool{cols.Name: true}
	for _, idx := range []int{cols.Phone, cols.Miles, cols.Status} {
		if idx >= 0 && !front[idx] {
			order = append(order, idx)
			front[idx] = true
		}
	}
	for i := range header {
		if !front[i] {
			order = append(order, i)
		}
	}

	newHeader := make([]string, 0, len(header)+2)
	newHeader = append(newHeader, header[cols.Name], FirstNameColumn, LastNameColumn)
	for _, idx := range order[1:] {
		newHeader = append(newHeader, header[idx])
	}

	newRows := make([][]string, 0, len(rows))
	for _, row := range rows {
		first, last := SplitName(row[cols.Name])
		newRow := make([]string, 0, len(newHeader))
		newRow = append(newRow, row[cols.Name], first, last)
		for _, idx := range order[1:] {
			newRow = append(newRow, row[idx])
		}
		newRows = append(newRows, newRow)
	}

	return &Table{Header: newHeader, Rows: newRows}
}
