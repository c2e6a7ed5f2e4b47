package web

import (
	"errors"
	"fmt"
	"io"
	"mime"
	"mime/multipart"
	"net/http"
	"strconv"
	"strings"

	"github.com/JonMunkholm/tidysheet/internal/cell"
	"github.com/JonMunkholm/tidysheet/internal/core"
	"github.com/JonMunkholm/tidysheet/internal/logging"
	"github.com/JonMunkholm/tidysheet/internal/web/templates"
)

// multipartOverhead is the allowance on top of the file size for form
// fields and part headers.
const multipartOverhead = 1 << 20

// multipartMemory is how much of a form is held in memory before spilling
// parts to temporary files.
const multipartMemory = 32 << 20

// handleIndex serves the upload page.
func (s *Server) handleIndex(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	page := templates.Page(templates.PageParams{
		Title:       "Tidysheet",
		MaxFileSize: s.cfg.Upload.MaxFileSize,
		PreviewRows: s.cfg.Clean.PreviewRows,
	})
	if err := page.Render(r.Context(), w); err != nil {
		logging.FromContext(r.Context()).Error("render page", "error", err)
	}
}

// handleHealth reports liveness and conversion slot usage.
func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, map[string]any{
		"status":      "ok",
		"conversions": s.service.LimiterStatus(),
	})
}

// handleClean cleans an uploaded file and returns it as a download.
func (s *Server) handleClean(w http.ResponseWriter, r *http.Request) {
	file, opts, err := s.parseUpload(w, r)
	if err != nil {
		s.respondError(w, r, err, 0)
		return
	}
	defer file.Close()

	res, err := s.service.Clean(WithRequestMetadata(r.Context(), r), file, opts)
	if err != nil {
		s.respondError(w, r, err, 0)
		return
	}

	w.Header().Set("Content-Type", res.ContentType)
	w.Header().Set("Content-Disposition", mime.FormatMediaType("attachment", map[string]string{"filename": res.Filename}))
	w.Header().Set("Content-Length", strconv.Itoa(len(res.Output)))
	w.Header().Set("ETag", `"`+res.ETag+`"`)
	w.Header().Set("X-Conversion-ID", res.ID)
	w.Header().Set("X-Total-Rows", strconv.Itoa(res.TotalRows))
	if res.Delimiter != "" {
		w.Header().Set("X-Detected-Delimiter", res.DelimiterName())
	}

	if _, err := w.Write(res.Output); err != nil {
		logging.FromContext(r.Context()).Warn("write cleaned file", "error", err, "conversion_id", res.ID)
	}
}

// handlePreview cleans an uploaded file and returns the first rows, as an
// htmx table partial or JSON.
func (s *Server) handlePreview(w http.ResponseWriter, r *http.Request) {
	file, opts, err := s.parseUpload(w, r)
	if err != nil {
		s.respondError(w, r, err, 0)
		return
	}
	defer file.Close()

	res, err := s.service.Preview(WithRequestMetadata(r.Context(), r), file, opts)
	if err != nil {
		s.respondError(w, r, err, 0)
		return
	}

	if !isHTMX(r) {
		writeJSON(w, res)
		return
	}

	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	table := templates.PreviewTable(templates.PreviewParams{
		Filename:  opts.Filename,
		Format:    string(res.Format),
		Sheet:     res.Sheet,
		Delimiter: res.DelimiterName(),
		TotalRows: res.TotalRows,
		Rows:      res.Rows,
	})
	if err := table.Render(r.Context(), w); err != nil {
		logging.FromContext(r.Context()).Error("render preview", "error", err)
	}
}

// detectResponse is the body of /api/detect-delimiter.
type detectResponse struct {
	Delimiter string `json:"delimiter"`
	Name      string `json:"name"`
}

// handleDetectDelimiter reads a text sample from the request body and
// reports its delimiter. Only the first SampleBytes are read.
func (s *Server) handleDetectDelimiter(w http.ResponseWriter, r *http.Request) {
	sample, err := io.ReadAll(io.LimitReader(r.Body, int64(s.cfg.Clean.SampleBytes)))
	if err != nil {
		s.respondError(w, r, fmt.Errorf("read sample: %w", err), http.StatusBadRequest)
		return
	}

	d := s.service.DetectDelimiter(string(sample))
	writeJSON(w, detectResponse{Delimiter: d, Name: cell.DelimiterName(d)})
}

// parseUpload reads the multipart "file" part and the conversion options
// from the form. The caller closes the returned file.
func (s *Server) parseUpload(w http.ResponseWriter, r *http.Request) (multipart.File, core.Options, error) {
	var opts core.Options

	if limit := s.cfg.Upload.MaxFileSize; limit > 0 {
		r.Body = http.MaxBytesReader(w, r.Body, limit+multipartOverhead)
	}

	if err := r.ParseMultipartForm(multipartMemory); err != nil {
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			return nil, opts, fmt.Errorf("%w: limit is %d bytes", core.ErrFileTooLarge, s.cfg.Upload.MaxFileSize)
		}
		if errors.Is(err, http.ErrNotMultipart) {
			return nil, opts, core.ErrNoFile
		}
		return nil, opts, fmt.Errorf("parse form: %w", err)
	}

	file, header, err := r.FormFile("file")
	if err != nil {
		if errors.Is(err, http.ErrMissingFile) {
			return nil, opts, core.ErrNoFile
		}
		return nil, opts, fmt.Errorf("read form file: %w", err)
	}

	opts, err = optionsFromForm(r, header.Filename)
	if err != nil {
		file.Close()
		return nil, opts, err
	}
	return file, opts, nil
}

// optionsFromForm builds Options from form values. Validation of the
// values themselves happens in the service.
func optionsFromForm(r *http.Request, filename string) (core.Options, error) {
	opts := core.Options{
		Filename:  filename,
		Format:    core.Format(strings.ToLower(r.FormValue("format"))),
		Sheet:     strings.TrimSpace(r.FormValue("sheet")),
		Delimiter: r.FormValue("delimiter"),
		Encoding:  strings.ToLower(strings.TrimSpace(r.FormValue("encoding"))),
	}

	if rows := strings.TrimSpace(r.FormValue("rows")); rows != "" {
		n, err := strconv.Atoi(rows)
		if err != nil {
			return opts, core.ValidationErrors{{Field: "rows", Value: rows, Message: "must be a number"}}
		}
		opts.PreviewRows = n
	}
	return opts, nil
}
