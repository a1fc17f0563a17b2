package core

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"time"

	"github.com/google/uuid"

	"rosterclean/internal/config"
	"rosterclean/internal/history"
	"rosterclean/internal/logging"
	"rosterclean/internal/roster"
	"rosterclean/internal/sheet"
)

// DownloadName is the filename offered for the cleaned CSV.
const DownloadName = "employees-cleaned.csv"

// Upload is one submitted roster file.
type Upload struct {
	Filename string
	File     io.Reader
}

// CleanOutput is the result of a completed cleaning run: the serialized
// CSV plus the run report.
type CleanOutput struct {
	RunID    string
	Filename string
	Data     []byte
	Report   roster.Report
}

// Service runs the cleaning pipeline and records run history.
type Service struct {
	cfg     *config.Config
	history history.Store
}

// NewService creates the service. The history store may be the memory
// ring or the Postgres store; the pipeline does not care.
func NewService(cfg *config.Config, store history.Store) *Service {
	return &Service{cfg: cfg, history: store}
}

// DefaultMaxMiles exposes the configured fallback miles cutoff for
// handlers parsing the upload form.
func (s *Service) DefaultMaxMiles() float64 {
	return s.cfg.Upload.DefaultMaxMiles
}

// Clean decodes the upload, runs the pipeline, and serializes the
// cleaned table to CSV. A history entry is recorded for the run;
// history failures are logged but never fail the request.
func (s *Service) Clean(ctx context.Context, up Upload, opts roster.Options) (*CleanOutput, error) {
	logger := logging.FromContext(ctx)
	started := time.Now()

	res, err := s.run(up, opts)
	if err != nil {
		return nil, err
	}

	var buf bytes.Buffer
	if err := sheet.WriteCSV(&buf, res.Table); err != nil {
		return nil, fmt.Errorf("serialize cleaned table: %w", err)
	}

	out := &CleanOutput{
		RunID:    uuid.NewString(),
		Filename: DownloadName,
		Data:     buf.Bytes(),
		Report:   res.Report,
	}

	took := time.Since(started)
	entry := history.Entry{
		ID:        out.RunID,
		Filename:  up.Filename,
		StartedAt: started,
		Duration:  took,
		TookMs:    took.Milliseconds(),
		Report:    res.Report,
	}
	if err := s.history.Record(ctx, entry); err != nil {
		logger.Warn("failed to record run history", "run_id", out.RunID, "error", err)
	}

	logger.Info("cleaning run completed",
		"run_id", out.RunID,
		"file", up.Filename,
		"rows_in", res.Report.InputRows,
		"rows_out", res.Report.OutputRows,
		"took_ms", took.Milliseconds(),
	)

	return out, nil
}

// PreviewResponse summarizes what a cleaning run would produce, without
// handing back the CSV.
type PreviewResponse struct {
	Report           roster.Report       `json:"report"`
	Columns          map[string]string   `json:"columns"`
	Header           []string            `json:"header"`
	SampleRows       []map[string]string `json:"sampleRows"`
	ProcessingTimeMs int64               `json:"processingTimeMs"`
}

// maxSampleRows caps the preview payload.
const maxSampleRows = 10

// Preview runs the pipeline read-only and returns a summary: the drop
// counts, the detected column names, and a handful of cleaned rows.
// Nothing is recorded in history.
func (s *Service) Preview(_ context.Context, up Upload, opts roster.Options) (*PreviewResponse, error) {
	started := time.Now()

	res, err := s.run(up, opts)
	if err != nil {
		return nil, err
	}

	resp := &PreviewResponse{
		Report:           res.Report,
		Header:           res.Table.Header,
		Columns:          detectedColumnNames(res),
		ProcessingTimeMs: time.Since(started).Milliseconds(),
	}

	for i, row := range res.Table.Rows {
		if i == maxSampleRows {
			break
		}
		sample := make(map[string]string, len(res.Table.Header))
		for j, name := range res.Table.Header {
			sample[name] = row[j]
		}
		resp.SampleRows = append(resp.SampleRows, sample)
	}

	return resp, nil
}

// History returns the most recent cleaning runs.
func (s *Service) History(ctx context.Context) ([]history.Entry, error) {
	return s.history.Recent(ctx, s.cfg.History.RecentLimit)
}

// run is the shared decode-then-clean step behind Clean and Preview.
func (s *Service) run(up Upload, opts roster.Options) (*roster.Result, error) {
	if up.File == nil {
		return nil, fmt.Errorf("no file provided")
	}

	records, err := sheet.Read(up.File, up.Filename)
	if err != nil {
		return nil, err
	}

	return roster.Clean(records, opts)
}

// detectedColumnNames maps the logical column roles to the header names
// they resolved to in the upload, using the positions the pipeline's
// reordering gives them: name first, its derived columns in slots 1-2,
// then each distinct key column in phone, miles, status order. A role
// sharing another role's column (a header like "Status Name" matches
// both the name and status patterns) has no slot of its own and reports
// the shared column's name.
func detectedColumnNames(res *roster.Result) map[string]string {
	cols := res.Columns

	pos := map[int]int{cols.Name: 0}
	next := 3
	for _, c := range []int{cols.Phone, cols.Miles, cols.Status} {
		if c < 0 {
			continue
		}
		if _, ok := pos[c]; !ok {
			pos[c] = next
			next++
		}
	}

	out := map[string]string{
		"name":  res.Table.Header[0],
		"phone": res.Table.Header[pos[cols.Phone]],
	}
	if cols.Miles >= 0 {
		out["miles"] = res.Table.Header[pos[cols.Miles]]
	}
	if cols.Status >= 0 {
		out["status"] = res.Table.Header[pos[cols.Status]]
	}
	return out
}
