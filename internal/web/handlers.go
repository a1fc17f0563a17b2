package web

import (
	"embed"
	"fmt"
	"html/template"
	"net/http"
	"strconv"
	"strings"

	"rosterclean/internal/core"
	"rosterclean/internal/roster"
)

//go:embed static
var staticFS embed.FS

var indexTmpl = template.Must(template.ParseFS(staticFS, "static/index.html"))

// handleIndex serves the upload form.
func (s *Server) handleIndex(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	data := struct {
		DefaultMaxMiles float64
		MaxFileSizeMB   int64
	}{
		DefaultMaxMiles: s.service.DefaultMaxMiles(),
		MaxFileSizeMB:   s.cfg.Upload.MaxFileSize / (1 << 20),
	}
	if err := indexTmpl.Execute(w, data); err != nil {
		respondError(w, r, err)
	}
}

// handleProcess accepts a roster upload, cleans it, and returns the
// result as a CSV attachment.
func (s *Server) handleProcess(w http.ResponseWriter, r *http.Request) {
	up, opts, err := s.parseUpload(w, r)
	if err != nil {
		respondError(w, r, err)
		return
	}
	defer up.close()

	out, err := s.service.Clean(r.Context(), up.Upload, opts)
	if err != nil {
		respondError(w, r, err)
		return
	}

	w.Header().Set("Content-Type", "text/csv; charset=utf-8")
	w.Header().Set("Content-Disposition", fmt.Sprintf("attachment; filename=%q", out.Filename))
	w.Header().Set("Content-Length", strconv.Itoa(len(out.Data)))
	w.Header().Set("X-Run-ID", out.RunID)
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write(out.Data)
}

// handlePreview runs the pipeline without producing a download and
// returns the run summary as JSON.
func (s *Server) handlePreview(w http.ResponseWriter, r *http.Request) {
	up, opts, err := s.parseUpload(w, r)
	if err != nil {
		respondError(w, r, err)
		return
	}
	defer up.close()

	resp, err := s.service.Preview(r.Context(), up.Upload, opts)
	if err != nil {
		respondError(w, r, err)
		return
	}

	writeJSON(w, http.StatusOK, resp)
}

// handleHistory returns the most recent cleaning runs.
func (s *Server) handleHistory(w http.ResponseWriter, r *http.Request) {
	entries, err := s.service.History(r.Context())
	if err != nil {
		respondError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"runs": entries})
}

// handleHealthz reports service liveness.
func (s *Server) handleHealthz(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

// upload pairs the form file with its closer so handlers can defer
// cleanup in one place.
type upload struct {
	core.Upload
	closer interface{ Close() error }
}

func (u upload) close() {
	if u.closer != nil {
		_ = u.closer.Close()
	}
}

// parseUpload reads the multipart form shared by /process and
// /api/preview: the file plus the max_miles, statuses, and
// include_resigned fields.
func (s *Server) parseUpload(w http.ResponseWriter, r *http.Request) (upload, roster.Options, error) {
	maxSize := s.cfg.Upload.MaxFileSize
	r.Body = http.MaxBytesReader(w, r.Body, maxSize)

	if err := r.ParseMultipartForm(maxSize); err != nil {
		return upload{}, roster.Options{}, fmt.Errorf("file too large or invalid form: %w", err)
	}

	file, _, err := r.FormFile("file")
	if err != nil {
		return upload{}, roster.Options{}, fmt.Errorf("no file provided")
	}

	filename := ""
	if r.MultipartForm != nil && len(r.MultipartForm.File["file"]) > 0 {
		filename = r.MultipartForm.File["file"][0].Filename
	}

	opts, err := s.parseOptions(r)
	if err != nil {
		file.Close()
		return upload{}, roster.Options{}, err
	}

	return upload{
		Upload: core.Upload{Filename: filename, File: file},
		closer: file,
	}, opts, nil
}

// parseOptions extracts the cleaning options from the submitted form.
// An absent max_miles falls back to the configured default; an absent
// statuses list means every status passes.
func (s *Server) parseOptions(r *http.Request) (roster.Options, error) {
	opts := roster.Options{MaxMiles: s.service.DefaultMaxMiles()}

	if raw := strings.TrimSpace(r.FormValue("max_miles")); raw != "" {
		miles, err := strconv.ParseFloat(raw, 64)
		if err != nil {
			return roster.Options{}, fmt.Errorf("max miles must be a number: %q", raw)
		}
		opts.MaxMiles = miles
	}

	if raw := strings.TrimSpace(r.FormValue("statuses")); raw != "" {
		for _, st := range strings.Split(raw, ",") {
			if st = strings.TrimSpace(st); st != "" {
				opts.Statuses = append(opts.Statuses, st)
			}
		}
	}

	switch strings.ToLower(r.FormValue("include_resigned")) {
	case "on", "true", "1", "yes":
		opts.IncludeResigned = true
	}

	return opts, nil
}
