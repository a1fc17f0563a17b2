package sheet

import (
	"bytes"
	"reflect"
	"strings"
	"testing"

	"github.com/xuri/excelize/v2"
)

func TestRead_CSV(t *testing.T) {
	input := "a,b,c\nd,e\nf,g,h,i\n"

	records, err := Read(strings.NewReader(input), "roster.csv")
	if err != nil {
		t.Fatalf("Read() error = %v", err)
	}

	want := [][]string{{"a", "b", "c"}, {"d", "e"}, {"f", "g", "h", "i"}}
	if !reflect.DeepEqual(records, want) {
		t.Errorf("records = %v, want %v", records, want)
	}
}

func TestRead_CSVStripsBOM(t *testing.T) {
	input := append([]byte{0xEF, 0xBB, 0xBF}, []byte("Employee Name,Phone\n")...)

	records, err := Read(bytes.NewReader(input), "roster.csv")
	if err != nil {
		t.Fatalf("Read() error = %v", err)
	}

	if records[0][0] != "Employee Name" {
		t.Errorf("records[0][0] = %q, want %q (BOM must be stripped)", records[0][0], "Employee Name")
	}
}

func TestRead_XLSX(t *testing.T) {
	f := excelize.NewFile()
	rows := [][]interface{}{
		{"Weekly Roster Export"},
		{"Generated 2024-01-15"},
		{},
		{"Employee Name", "Employee Phone"},
		{"Smith, John", "(555) 234-9999"},
	}
	for i, row := range rows {
		cell, err := excelize.CoordinatesToCellName(1, i+1)
		if err != nil {
			t.Fatalf("CoordinatesToCellName: %v", err)
		}
		if err := f.SetSheetRow("Sheet1", cell, &row); err != nil {
			t.Fatalf("SetSheetRow: %v", err)
		}
	}

	buf, err := f.WriteToBuffer()
	if err != nil {
		t.Fatalf("WriteToBuffer: %v", err)
	}

	records, err := Read(bytes.NewReader(buf.Bytes()), "roster.xlsx")
	if err != nil {
		t.Fatalf("Read() error = %v", err)
	}

	if len(records) != 5 {
		t.Fatalf("len(records) = %d, want 5", len(records))
	}
	if records[3][0] != "Employee Name" || records[4][1] != "(555) 234-9999" {
		t.Errorf("unexpected records: %v", records)
	}
}

func TestRead_UnsupportedExtension(t *testing.T) {
	if _, err := Read(strings.NewReader("x"), "roster.pdf"); err == nil {
		t.Error("Read() expected error for unsupported extension")
	}
}

func TestRead_InvalidWorkbook(t *testing.T) {
	if _, err := Read(strings.NewReader("not a zip archive"), "roster.xlsx"); err == nil {
		t.Error("Read() expected error for invalid workbook bytes")
	}
}
