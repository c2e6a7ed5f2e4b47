package core

import (
	"context"
	"errors"
	"fmt"
	"testing"
)

func TestMapError(t *testing.T) {
	tests := []struct {
		name     string
		err      error
		wantCode string
	}{
		{name: "nil error returns empty", err: nil, wantCode: ""},
		{name: "file too large sentinel", err: ErrFileTooLarge, wantCode: "FILE001"},
		{name: "body too large text", err: errors.New("http: request body too large"), wantCode: "FILE001"},
		{name: "wrapped invalid csv", err: fmt.Errorf("%w: line 3: bare quote", ErrInvalidCSV), wantCode: "FILE002"},
		{name: "unsupported encoding", err: fmt.Errorf("decode: %w", ErrUnsupportedEncoding), wantCode: "FILE003"},
		{name: "no file", err: ErrNoFile, wantCode: "FILE004"},
		{name: "empty file", err: fmt.Errorf("read csv: %w", ErrEmptyFile), wantCode: "FILE005"},
		{name: "invalid workbook", err: fmt.Errorf("%w: zip: not a valid zip file", ErrInvalidWorkbook), wantCode: "FILE006"},
		{name: "sheet not found", err: fmt.Errorf("%w: %q", ErrSheetNotFound, "Totals"), wantCode: "FILE007"},
		{name: "busy", err: ErrTooManyConversions, wantCode: "UPL002"},
		{name: "cancelled", err: fmt.Errorf("transform rows: %w", context.Canceled), wantCode: "UPL004"},
		{name: "deadline", err: context.DeadlineExceeded, wantCode: "UPL005"},
		{name: "deadline as text", err: errors.New("upstream: context deadline exceeded"), wantCode: "UPL005"},
		{name: "invalid options", err: fmt.Errorf("%w: preview_rows", ErrInvalidOptions), wantCode: "REQ001"},
		{name: "rate limit", err: errors.New("Rate Limit exceeded"), wantCode: "RATE001"},
		{name: "unknown error returns default", err: errors.New("some random internal error"), wantCode: "ERR000"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := MapError(tt.err)
			if got.Code != tt.wantCode {
				t.Errorf("MapError(%v).Code = %q, want %q", tt.err, got.Code, tt.wantCode)
			}
			if tt.err != nil && got.Message == "" {
				t.Error("MapError returned empty message")
			}
		})
	}
}

func TestFormatUserError(t *testing.T) {
	got := FormatUserError(ErrEmptyFile)
	want := "The uploaded file is empty (Code: FILE005). Please upload a file with data rows"
	if got != want {
		t.Errorf("FormatUserError = %q, want %q", got, want)
	}
	if FormatUserError(nil) != "" {
		t.Error("FormatUserError(nil) should be empty")
	}
}

func TestIsUserFacing(t *testing.T) {
	if IsUserFacing(nil) {
		t.Error("nil should not be user facing")
	}
	if !IsUserFacing(ErrSheetNotFound) {
		t.Error("ErrSheetNotFound should be user facing")
	}
	if IsUserFacing(errors.New("boom")) {
		t.Error("unknown error should not be user facing")
	}
}
