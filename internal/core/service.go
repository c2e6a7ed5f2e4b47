package core

import (
	"bufio"
	"bytes"
	"context"
	"fmt"
	"io"
	"time"

	"github.com/google/uuid"
	"github.com/zeebo/xxh3"

	"github.com/JonMunkholm/tidysheet/internal/cell"
	"github.com/JonMunkholm/tidysheet/internal/config"
	"github.com/JonMunkholm/tidysheet/internal/logging"
)

// Service cleans uploaded CSV and XLSX files. It is safe for concurrent
// use; the limiter bounds how many conversions run at once.
type Service struct {
	cfg       *config.Config
	limiter   *Limiter
	validator *OptionsValidator
}

// NewService creates a Service from cfg.
func NewService(cfg *config.Config) *Service {
	return &Service{
		cfg:       cfg,
		limiter:   NewLimiter(cfg.Upload.MaxConcurrent, cfg.Upload.MaxWaitTime),
		validator: NewOptionsValidator(),
	}
}

// Clean reads a file from r, cleans every cell and returns the cleaned
// file in Result.Output together with a preview.
//
// Delimited text is cleaned for display and written back as comma
// separated UTF-8. Workbooks keep their cell types: date-like serials are
// promoted to dates (when Clean.DateAware is set) and written back with a
// date format.
func (s *Service) Clean(ctx context.Context, r io.Reader, opts Options) (*Result, error) {
	return s.run(ctx, r, opts, true)
}

// Preview runs the same conversion as Clean but does not render the
// output file. Only the preview fields of the Result are set.
func (s *Service) Preview(ctx context.Context, r io.Reader, opts Options) (*Result, error) {
	return s.run(ctx, r, opts, false)
}

// DetectDelimiter returns the field separator of a text sample.
func (s *Service) DetectDelimiter(sample string) string {
	return cell.DetectDelimiter(sample)
}

// LimiterStatus reports conversion slot usage.
func (s *Service) LimiterStatus() LimiterStatus {
	return s.limiter.Status()
}

// WaitForDrain blocks until no conversion is running or ctx is done.
func (s *Service) WaitForDrain(ctx context.Context) error {
	return s.limiter.WaitForDrain(ctx)
}

// conversion carries the state of one run through its stages.
type conversion struct {
	opts   Options
	format Format
	input  *CountingReader
	result *Result
}

func (s *Service) run(ctx context.Context, r io.Reader, opts Options, render bool) (*Result, error) {
	start := time.Now()

	if r == nil {
		return nil, ErrNoFile
	}

	opts = s.withDefaults(opts)
	if err := s.validator.Validate(opts); err != nil {
		return nil, err
	}

	if err := s.limiter.Acquire(ctx); err != nil {
		return nil, err
	}
	defer s.limiter.Release()

	if s.cfg.Upload.Timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, s.cfg.Upload.Timeout)
		defer cancel()
	}

	if limit := s.cfg.Upload.MaxFileSize; limit > 0 {
		r = io.LimitReader(r, limit+1)
	}

	conv := &conversion{
		opts:   opts,
		format: opts.Format,
		input:  NewCountingReader(r),
		result: &Result{
			ID:          uuid.NewString(),
			Filename:    CleanedFilename(opts.Filename, opts.Format),
			Format:      opts.Format,
			ContentType: opts.Format.ContentType(),
		},
	}

	fields := append([]any{
		"conversion_id", conv.result.ID,
		"filename", opts.Filename,
		"format", string(opts.Format),
		"preview_only", !render,
	}, clientFields(ctx)...)
	logger := logging.WithFields(ctx, fields...)
	logger.Debug("conversion started")

	var err error
	switch conv.format {
	case FormatXLSX:
		err = s.runXLSX(ctx, conv, render)
	default:
		err = s.runCSV(ctx, conv, render)
	}
	if err != nil {
		logger.Warn("conversion failed", "error", err, "bytes_in", conv.input.BytesRead)
		return nil, err
	}

	res := conv.result
	if render {
		res.ETag = fmt.Sprintf("%016x", xxh3.Hash(res.Output))
	}
	res.Duration = time.Since(start)

	logger.Info("conversion complete",
		"rows", res.TotalRows,
		"bytes_in", conv.input.BytesRead,
		"bytes_out", len(res.Output),
		"duration_ms", res.Duration.Milliseconds(),
	)
	return res, nil
}

func (s *Service) withDefaults(opts Options) Options {
	if opts.Format == "" {
		opts.Format = DetectFormat(opts.Filename)
	}
	if opts.Encoding == "" {
		opts.Encoding = s.cfg.Clean.Encoding
	}
	if opts.PreviewRows == 0 {
		opts.PreviewRows = s.cfg.Clean.PreviewRows
	}
	return opts
}

// tooLarge reports whether more than the configured maximum was read.
func (s *Service) tooLarge(conv *conversion) bool {
	limit := s.cfg.Upload.MaxFileSize
	return limit > 0 && conv.input.BytesRead > limit
}

func (s *Service) runCSV(ctx context.Context, conv *conversion, render bool) error {
	decoded, err := DecodeReader(conv.input, conv.opts.Encoding)
	if err != nil {
		return err
	}

	br := bufio.NewReaderSize(decoded, s.cfg.Clean.SampleBytes)

	delimiter, ok := cell.ParseDelimiter(conv.opts.Delimiter)
	if !ok {
		if delimiter, err = SniffDelimiter(br, s.cfg.Clean.SampleBytes); err != nil {
			return err
		}
	}
	conv.result.Delimiter = delimiter

	rows, err := ReadCSV(br, delimiter)
	if s.tooLarge(conv) {
		return fmt.Errorf("%w: limit is %d bytes", ErrFileTooLarge, s.cfg.Upload.MaxFileSize)
	}
	if err != nil {
		return err
	}

	cleaned, err := TransformRows(ctx, rows, cell.NewNormalizer(cell.DisplayPolicy), s.cfg.Clean.Workers)
	if err != nil {
		return err
	}
	cleaned = trimTrailingBlankRows(cleaned)
	if len(cleaned) == 0 {
		return ErrEmptyFile
	}

	display := DisplayRows(cleaned)
	fillPreview(conv.result, display[:min(len(display), conv.opts.PreviewRows)], len(cleaned))

	if render {
		var buf bytes.Buffer
		if err := WriteCSV(&buf, display); err != nil {
			return err
		}
		conv.result.Output = buf.Bytes()
	}
	return nil
}

func (s *Service) runXLSX(ctx context.Context, conv *conversion, render bool) error {
	sheet, err := ReadXLSX(conv.input, conv.opts.Sheet)
	if s.tooLarge(conv) {
		return fmt.Errorf("%w: limit is %d bytes", ErrFileTooLarge, s.cfg.Upload.MaxFileSize)
	}
	if err != nil {
		return err
	}
	conv.result.Sheet = sheet.Name

	policy := cell.LegacyPolicy
	if s.cfg.Clean.DateAware {
		policy = cell.PreservingPolicy
	}

	cleaned, err := TransformRows(ctx, sheet.Rows, cell.NewNormalizer(policy), s.cfg.Clean.Workers)
	if err != nil {
		return err
	}
	cleaned = trimTrailingBlankRows(cleaned)
	if len(cleaned) == 0 {
		return ErrEmptyFile
	}

	preview := DisplaySheetRows(cleaned[:min(len(cleaned), conv.opts.PreviewRows)], sheet.Rows, sheet.Text)
	fillPreview(conv.result, preview, len(cleaned))

	if render {
		var buf bytes.Buffer
		out := &Sheet{Name: OutputSheetName, Rows: cleaned, Formats: sheet.Formats}
		if err := WriteXLSX(&buf, out); err != nil {
			return err
		}
		conv.result.Output = buf.Bytes()
	}
	return nil
}

func fillPreview(res *Result, preview [][]string, total int) {
	res.TotalRows = total
	res.Rows = preview
	res.Markdown = MarkdownTable(preview, 0)
}
