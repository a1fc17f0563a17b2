package roster

import (
	"fmt"
	"regexp"
)

// Column detection patterns. The roster exports are not consistent about
// header names ("Employee Phone", "Cell", "Mobile #", ...), so key columns
// are located by pattern rather than exact match. A column wins if it
// matches any pattern in its group; the leftmost matching column is used.
var (
	namePatterns   = compilePatterns(`\bemployee\s*name\b`, `\bname\b`)
	phonePatterns  = compilePatterns(`\bphone\b`, `\bmobile\b`, `\bcell\b`)
	milesPatterns  = compilePatterns(`miles\s*from\s*location`, `\bdistance\b`, `\bmiles\b`, `\bmi\b`)
	statusPatterns = compilePatterns(`\bemployee\s*status\b`, `\bstatus\b`)
)

func compilePatterns(patterns ...string) []*regexp.Regexp {
	out := make([]*regexp.Regexp, len(patterns))
	for i, p := range patterns {
		out[i] = regexp.MustCompile(`(?i)` + p)
	}
	return out
}

// Columns holds the detected positions of the key roster columns.
// A value of -1 means the column is absent; Miles and Status are
// optional, Name and Phone are required.
type Columns struct {
	Name   int
	Phone  int
	Miles  int
	Status int
}

// DetectColumns locates the key columns in a promoted header.
// It returns an error when the employee name or phone column cannot
// be found; the miles and status filters are skipped when their
// columns are absent.
func DetectColumns(header []string) (Columns, error) {
	cols := Columns{
		Name:   findColumn(header, namePatterns),
		Phone:  findColumn(header, phonePatterns),
		Miles:  findColumn(header, milesPatterns),
		Status: findColumn(header, statusPatterns),
	}

	if cols.Name < 0 {
		return cols, fmt.Errorf("employee name column not found")
	}
	if cols.Phone < 0 {
		return cols, fmt.Errorf("phone column not found")
	}

	return cols, nil
}

// findColumn returns the index of the leftmost column matching any of
// the patterns, or -1.
func findColumn(header []string, patterns []*regexp.Regexp) int {
	for i, name := range header {
		for _, pat := range patterns {
			if pat.MatchString(name) {
				return i
			}
		}
	}
	return -1
}
