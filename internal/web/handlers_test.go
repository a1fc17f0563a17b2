package web

import (
	"bytes"
	"encoding/json"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/xuri/excelize/v2"

	"rosterclean/internal/config"
	"rosterclean/internal/core"
	"rosterclean/internal/history"
)

const sampleRoster = `Weekly Roster Export
Generated 2024-01-15
Location: Springfield,,,
Employee Name,Employee Phone,Miles From Location,Employee Status
"Smith, John",(555) 234-9999,12,Active
"Doe, Jane",000-000-0000,8,Active
"Roe, Rick",555-111-2222,80,Active
`

func testConfig() *config.Config {
	return &config.Config{
		Server: config.ServerConfig{
			Host:           "localhost",
			Port:           8080,
			RequestTimeout: 30 * time.Second,
		},
		Upload: config.UploadConfig{
			MaxFileSize:     1 << 20,
			DefaultMaxMiles: 50,
		},
		History: config.HistoryConfig{
			MemoryEntries: 10,
			RecentLimit:   5,
		},
	}
}

func testServer(t *testing.T, cfg *config.Config) *Server {
	t.Helper()
	svc := core.NewService(cfg, history.NewMemoryStore(cfg.History.MemoryEntries))
	return NewServer(svc, cfg)
}

// rosterForm builds a multipart body carrying the given file plus any
// extra form fields.
func rosterForm(t *testing.T, filename string, content []byte, fields map[string]string) (*bytes.Buffer, string) {
	t.Helper()

	var buf bytes.Buffer
	mw := multipart.NewWriter(&buf)
	if filename != "" {
		fw, err := mw.CreateFormFile("file", filename)
		if err != nil {
			t.Fatalf("CreateFormFile: %v", err)
		}
		if _, err := fw.Write(content); err != nil {
			t.Fatalf("write form file: %v", err)
		}
	}
	for k, v := range fields {
		if err := mw.WriteField(k, v); err != nil {
			t.Fatalf("WriteField(%s): %v", k, err)
		}
	}
	if err := mw.Close(); err != nil {
		t.Fatalf("close multipart writer: %v", err)
	}
	return &buf, mw.FormDataContentType()
}

func TestHandleIndex(t *testing.T) {
	srv := testServer(t, testConfig())

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	rec := httptest.NewRecorder()
	srv.Router().ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200", rec.Code)
	}
	body := rec.Body.String()
	if !strings.Contains(body, `action="/process"`) {
		t.Error("index page missing upload form")
	}
	if !strings.Contains(body, `value="50"`) {
		t.Error("index page missing default max miles")
	}
}

func TestHandleProcess(t *testing.T) {
	srv := testServer(t, testConfig())

	body, ctype := rosterForm(t, "roster.csv", []byte(sampleRoster), nil)
	req := httptest.NewRequest(http.MethodPost, "/process", body)
	req.Header.Set("Content-Type", ctype)
	rec := httptest.NewRecorder()
	srv.Router().ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200: %s", rec.Code, rec.Body.String())
	}
	if got := rec.Header().Get("Content-Disposition"); !strings.Contains(got, "employees-cleaned.csv") {
		t.Errorf("Content-Disposition = %q", got)
	}
	if got := rec.Header().Get("Content-Type"); !strings.HasPrefix(got, "text/csv") {
		t.Errorf("Content-Type = %q", got)
	}
	if rec.Header().Get("X-Run-ID") == "" {
		t.Error("missing X-Run-ID header")
	}

	out := rec.Body.Bytes()
	if !bytes.HasPrefix(out, []byte{0xEF, 0xBB, 0xBF}) {
		t.Error("download missing UTF-8 BOM")
	}
	if !strings.Contains(string(out), "John,Smith,5552349999") {
		t.Errorf("download missing cleaned row: %q", out)
	}
	// Jane (zero phone) and Rick (80 miles) are dropped.
	if strings.Contains(string(out), "Jane") || strings.Contains(string(out), "Rick") {
		t.Errorf("download kept rows that should be dropped: %q", out)
	}
}

func TestHandleProcess_Xlsx(t *testing.T) {
	srv := testServer(t, testConfig())

	f := excelize.NewFile()
	sheetName := f.GetSheetList()[0]
	rows := [][]any{
		{"Weekly Roster Export"},
		{"Generated 2024-01-15"},
		{},
		{"Employee Name", "Employee Phone", "Miles From Location", "Employee Status"},
		{"Smith, John", "(555) 234-9999", 12, "Active"},
	}
	for i, row := range rows {
		cell, err := excelize.CoordinatesToCellName(1, i+1)
		if err != nil {
			t.Fatalf("CoordinatesToCellName: %v", err)
		}
		if err := f.SetSheetRow(sheetName, cell, &row); err != nil {
			t.Fatalf("SetSheetRow: %v", err)
		}
	}
	wb, err := f.WriteToBuffer()
	if err != nil {
		t.Fatalf("WriteToBuffer: %v", err)
	}

	body, ctype := rosterForm(t, "roster.xlsx", wb.Bytes(), nil)
	req := httptest.NewRequest(http.MethodPost, "/process", body)
	req.Header.Set("Content-Type", ctype)
	rec := httptest.NewRecorder()
	srv.Router().ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200: %s", rec.Code, rec.Body.String())
	}
	if !strings.Contains(rec.Body.String(), "John,Smith,5552349999") {
		t.Errorf("download missing cleaned row: %q", rec.Body.String())
	}
}

func TestHandleProcess_Errors(t *testing.T) {
	srv := testServer(t, testConfig())

	tests := []struct {
		name     string
		filename string
		content  []byte
		fields   map[string]string
		wantCode string
	}{
		{
			name:     "missing file",
			wantCode: "FILE004",
		},
		{
			name:     "bad max miles",
			filename: "roster.csv",
			content:  []byte(sampleRoster),
			fields:   map[string]string{"max_miles": "fifty"},
			wantCode: "PARAM001",
		},
		{
			name:     "unsupported extension",
			filename: "roster.pdf",
			content:  []byte("%PDF-1.4"),
			wantCode: "FILE006",
		},
		{
			name:     "no phone column",
			filename: "roster.csv",
			content:  []byte("a\nb\nc,,\nEmployee Name,Miles\nSmith,10\n"),
			wantCode: "COL002",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			body, ctype := rosterForm(t, tt.filename, tt.content, tt.fields)
			req := httptest.NewRequest(http.MethodPost, "/process", body)
			req.Header.Set("Content-Type", ctype)
			rec := httptest.NewRecorder()
			srv.Router().ServeHTTP(rec, req)

			if rec.Code != http.StatusBadRequest {
				t.Fatalf("status = %d, want 400: %s", rec.Code, rec.Body.String())
			}
			if !strings.Contains(rec.Body.String(), tt.wantCode) {
				t.Errorf("body = %q, want code %s", rec.Body.String(), tt.wantCode)
			}
		})
	}
}

func TestHandlePreview(t *testing.T) {
	srv := testServer(t, testConfig())

	body, ctype := rosterForm(t, "roster.csv", []byte(sampleRoster), map[string]string{
		"statuses": "Active",
	})
	req := httptest.NewRequest(http.MethodPost, "/api/preview", body)
	req.Header.Set("Content-Type", ctype)
	rec := httptest.NewRecorder()
	srv.Router().ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200: %s", rec.Code, rec.Body.String())
	}
	if got := rec.Header().Get("Content-Type"); !strings.HasPrefix(got, "application/json") {
		t.Errorf("Content-Type = %q", got)
	}

	var resp core.PreviewResponse
	if err := json.NewDecoder(rec.Body).Decode(&resp); err != nil {
		t.Fatalf("decode preview: %v", err)
	}
	if resp.Report.InputRows != 3 || resp.Report.OutputRows != 1 {
		t.Errorf("report rows = %d/%d, want 3/1", resp.Report.InputRows, resp.Report.OutputRows)
	}
	if got := resp.Columns["phone"]; got != "Employee Phone" {
		t.Errorf("Columns[phone] = %q", got)
	}
	if len(resp.SampleRows) != 1 {
		t.Fatalf("len(SampleRows) = %d, want 1", len(resp.SampleRows))
	}
}

func TestHandlePreview_ErrorIsJSON(t *testing.T) {
	srv := testServer(t, testConfig())

	body, ctype := rosterForm(t, "", nil, nil)
	req := httptest.NewRequest(http.MethodPost, "/api/preview", body)
	req.Header.Set("Content-Type", ctype)
	rec := httptest.NewRecorder()
	srv.Router().ServeHTTP(rec, req)

	if rec.Code != http.StatusBadRequest {
		t.Fatalf("status = %d, want 400", rec.Code)
	}
	var er errorResponse
	if err := json.NewDecoder(rec.Body).Decode(&er); err != nil {
		t.Fatalf("API error is not JSON: %v", err)
	}
	if er.Code != "FILE004" {
		t.Errorf("error code = %q, want FILE004", er.Code)
	}
}

func TestHandleHistory(t *testing.T) {
	srv := testServer(t, testConfig())

	// Seed one run through the real endpoint.
	body, ctype := rosterForm(t, "roster.csv", []byte(sampleRoster), nil)
	req := httptest.NewRequest(http.MethodPost, "/process", body)
	req.Header.Set("Content-Type", ctype)
	rec := httptest.NewRecorder()
	srv.Router().ServeHTTP(rec, req)
	if rec.Code != http.StatusOK {
		t.Fatalf("seeding run failed: %d", rec.Code)
	}

	req = httptest.NewRequest(http.MethodGet, "/api/history", nil)
	rec = httptest.NewRecorder()
	srv.Router().ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200", rec.Code)
	}
	var resp struct {
		Runs []history.Entry `json:"runs"`
	}
	if err := json.NewDecoder(rec.Body).Decode(&resp); err != nil {
		t.Fatalf("decode history: %v", err)
	}
	if len(resp.Runs) != 1 {
		t.Fatalf("len(runs) = %d, want 1", len(resp.Runs))
	}
	if resp.Runs[0].Filename != "roster.csv" {
		t.Errorf("run filename = %q", resp.Runs[0].Filename)
	}
}

func TestHandleHealthz(t *testing.T) {
	srv := testServer(t, testConfig())

	req := httptest.NewRequest(http.MethodGet, "/healthz", nil)
	rec := httptest.NewRecorder()
	srv.Router().ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200", rec.Code)
	}
	var resp map[string]string
	if err := json.NewDecoder(rec.Body).Decode(&resp); err != nil {
		t.Fatalf("decode healthz: %v", err)
	}
	if resp["status"] != "ok" {
		t.Errorf("status = %q, want ok", resp["status"])
	}
}

func TestHandleProcess_TooLarge(t *testing.T) {
	cfg := testConfig()
	cfg.Upload.MaxFileSize = 512
	srv := testServer(t, cfg)

	big := bytes.Repeat([]byte("x"), 4096)
	body, ctype := rosterForm(t, "roster.csv", big, nil)
	req := httptest.NewRequest(http.MethodPost, "/process", body)
	req.Header.Set("Content-Type", ctype)
	rec := httptest.NewRecorder()
	srv.Router().ServeHTTP(rec, req)

	if rec.Code != http.StatusBadRequest {
		t.Fatalf("status = %d, want 400: %s", rec.Code, rec.Body.String())
	}
	if !strings.Contains(rec.Body.String(), "FILE001") {
		t.Errorf("body = %q, want code FILE001", rec.Body.String())
	}
}
