package sheet

import (
	"encoding/csv"
	"fmt"
	"io"

	"rosterclean/internal/roster"
)

// WriteCSV serializes a cleaned table as UTF-8 CSV with a leading BOM.
// The BOM makes Excel open the download with the right encoding, which
// is how the download was always delivered to the scheduling team.
func WriteCSV(w io.Writer, table *roster.Table) error {
	if _, err := w.Write(utf8BOM); err != nil {
		return fmt.Errorf("write BOM: %w", err)
	}

	cw := csv.NewWriter(w)
	if err := cw.Write(table.Header); err != nil {
		return fmt.Errorf("write header: %w", err)
	}
	for _, row := range table.Rows {
		if err := cw.Write(row); err != nil {
			return fmt.Errorf("write row: %w", err)
		}
	}

	cw.Flush()
	return cw.Error()
}
