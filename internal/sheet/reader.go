// Package sheet decodes uploaded spreadsheets into raw records and
// encodes cleaned tables back to CSV. No header interpretation happens
// here; rows come out exactly as they appear in the file.
package sheet

import (
	"bufio"
	"encoding/csv"
	"fmt"
	"io"
	"path/filepath"
	"strings"

	"github.com/xuri/excelize/v2"
)

// utf8BOM is the byte order mark Excel prepends to CSV exports.
var utf8BOM = []byte{0xEF, 0xBB, 0xBF}

// Read decodes the uploaded file into raw records. The format is chosen
// by file extension: .csv is parsed with encoding/csv, everything
// Excel-shaped (.xlsx, .xlsm, .xls) goes through excelize. Rows may be
// ragged; callers normalize them against the promoted header.
func Read(r io.Reader, filename string) ([][]string, error) {
	switch strings.ToLower(filepath.Ext(filename)) {
	case ".csv":
		return readCSV(r)
	case ".xlsx", ".xlsm", ".xls":
		return readExcel(r)
	default:
		return nil, fmt.Errorf("unsupported file type %q", filepath.Ext(filename))
	}
}

// readCSV parses CSV records leniently: per-row field counts may vary
// (roster exports pad banner rows inconsistently) and a UTF-8 BOM is
// stripped when present.
func readCSV(r io.Reader) ([][]string, error) {
	br := bufio.NewReader(r)
	if head, err := br.Peek(len(utf8BOM)); err == nil && string(head) == string(utf8BOM) {
		br.Discard(len(utf8BOM))
	}

	cr := csv.NewReader(br)
	cr.FieldsPerRecord = -1
	cr.LazyQuotes = true

	records, err := cr.ReadAll()
	if err != nil {
		return nil, fmt.Errorf("invalid csv: %w", err)
	}
	return records, nil
}

// readExcel reads the first sheet of a workbook. GetRows already returns
// string values with trailing empty cells trimmed, which matches the
// lenient CSV behavior above.
func readExcel(r io.Reader) ([][]string, error) {
	f, err := excelize.OpenReader(r)
	if err != nil {
		return nil, fmt.Errorf("invalid spreadsheet: %w", err)
	}
	defer f.Close()

	sheets := f.GetSheetList()
	if len(sheets) == 0 {
		return nil, fmt.Errorf("empty file: workbook has no sheets")
	}

	rows, err := f.GetRows(sheets[0])
	if err != nil {
		return nil, fmt.Errorf("invalid spreadsheet: reading sheet %q: %w", sheets[0], err)
	}
	return rows, nil
}
