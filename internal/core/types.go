package core

import (
	"errors"
	"path/filepath"
	"strings"
	"time"

	"github.com/JonMunkholm/tidysheet/internal/cell"
)

// Sentinel errors returned by the service. Wrap them with fmt.Errorf and
// %w so MapError can find them.
var (
	ErrNoFile              = errors.New("no file provided")
	ErrEmptyFile           = errors.New("empty file")
	ErrFileTooLarge        = errors.New("file too large")
	ErrInvalidCSV          = errors.New("invalid csv")
	ErrUnsupportedEncoding = errors.New("encoding error: unsupported encoding")
	ErrInvalidWorkbook     = errors.New("invalid workbook")
	ErrSheetNotFound       = errors.New("sheet not found")
	ErrInvalidOptions      = errors.New("invalid options")
)

// Format identifies the container format of an uploaded file.
type Format string

const (
	FormatCSV  Format = "csv"
	FormatXLSX Format = "xlsx"
)

// Extension returns the file extension for f, including the dot.
func (f Format) Extension() string {
	return "." + string(f)
}

// ContentType returns the MIME type used when serving f.
func (f Format) ContentType() string {
	if f == FormatXLSX {
		return "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"
	}
	return "text/csv; charset=utf-8"
}

// DetectFormat picks the format from a filename. Only .xlsx is treated as
// a workbook; every other name is read as delimited text.
func DetectFormat(filename string) Format {
	if strings.EqualFold(filepath.Ext(filename), ".xlsx") {
		return FormatXLSX
	}
	return FormatCSV
}

// CleanedFilename returns "<base>_cleaned<ext>" for the output of f.
func CleanedFilename(filename string, f Format) string {
	base := filepath.Base(filename)
	base = strings.TrimSuffix(base, filepath.Ext(base))
	if base == "" || base == "." || base == string(filepath.Separator) {
		base = "data"
	}
	return base + "_cleaned" + f.Extension()
}

// Options controls a single conversion. Zero values fall back to the
// service configuration.
type Options struct {
	// Filename is the original upload name; it selects the format when
	// Format is empty and names the output file.
	Filename string `validate:"max=255"`

	// Format overrides detection from Filename.
	Format Format `validate:"omitempty,oneof=csv xlsx"`

	// Sheet selects a worksheet by name (XLSX only). Empty means the first sheet.
	Sheet string `validate:"max=31"`

	// Delimiter forces a CSV delimiter instead of detecting one.
	// Accepts the character itself or "tab".
	Delimiter string `validate:"omitempty,delimiter"`

	// Encoding of CSV input: utf-8, windows-1252 or iso-8859-1.
	Encoding string `validate:"omitempty,oneof=utf-8 windows-1252 iso-8859-1"`

	// PreviewRows caps the preview, header row included. Zero uses the
	// configured default.
	PreviewRows int `validate:"gte=0,lte=1000"`
}

// Result is the outcome of one conversion.
type Result struct {
	ID          string        `json:"id"`
	Filename    string        `json:"filename"`
	Format      Format        `json:"format"`
	Sheet       string        `json:"sheet,omitempty"`
	Delimiter   string        `json:"delimiter,omitempty"`
	TotalRows   int           `json:"totalRows"`
	Rows        [][]string    `json:"rows"`
	Markdown    string        `json:"markdown"`
	ContentType string        `json:"-"`
	Output      []byte        `json:"-"`
	ETag        string        `json:"etag"`
	Duration    time.Duration `json:"-"`
}

// DelimiterName returns the delimiter in printable form ("tab" for \t).
func (r *Result) DelimiterName() string {
	return cell.DelimiterName(r.Delimiter)
}
