package roster

import "strings"

// SplitName derives first and last name components from a full name cell.
//
// Two layouts appear in the exports:
//   - "Last, First Middle": last name is everything before the comma;
//     first name is the first token after it.
//   - "First Last": first token is the first name and the remainder is
//     the last name. A single token is treated as a first name with no
//     last name.
func SplitName(full string) (first, last string) {
	s := strings.TrimSpace(full)
	if s == "" {
		return "", ""
	}

	if before, after, ok := strings.Cut(s, ","); ok {
		last = strings.TrimSpace(before)
		rest := strings.Fields(after)
		if len(rest) > 0 {
			first = rest[0]
		}
		return first, last
	}

	parts := strings.Fields(s)
	if len(parts) == 1 {
		return parts[0], ""
	}
	return parts[0], strings.Join(parts[1:], " ")
}
