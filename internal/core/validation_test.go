package core

import (
	"errors"
	"strings"
	"testing"
)

func TestOptionsValidator(t *testing.T) {
	v := NewOptionsValidator()

	tests := []struct {
		name      string
		opts      Options
		wantField string
	}{
		{name: "zero options", opts: Options{}},
		{name: "full csv options", opts: Options{Filename: "a.csv", Format: FormatCSV, Delimiter: ";", Encoding: "windows-1252", PreviewRows: 20}},
		{name: "tab by name", opts: Options{Delimiter: "tab"}},
		{name: "broken bar", opts: Options{Delimiter: "¦"}},
		{name: "unknown format", opts: Options{Format: "ods"}, wantField: "format"},
		{name: "unknown delimiter", opts: Options{Delimiter: "|"}, wantField: "delimiter"},
		{name: "unknown encoding", opts: Options{Encoding: "utf-16"}, wantField: "encoding"},
		{name: "negative preview", opts: Options{PreviewRows: -1}, wantField: "previewrows"},
		{name: "huge preview", opts: Options{PreviewRows: 5000}, wantField: "previewrows"},
		{name: "long sheet name", opts: Options{Sheet: strings.Repeat("s", 32)}, wantField: "sheet"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := v.Validate(tt.opts)
			if tt.wantField == "" {
				if err != nil {
					t.Fatalf("unexpected error: %v", err)
				}
				return
			}

			if !errors.Is(err, ErrInvalidOptions) {
				t.Fatalf("expected ErrInvalidOptions, got %v", err)
			}
			var verrs ValidationErrors
			if !errors.As(err, &verrs) || len(verrs) == 0 {
				t.Fatalf("expected ValidationErrors, got %T", err)
			}
			if verrs[0].Field != tt.wantField {
				t.Errorf("field = %q, want %q", verrs[0].Field, tt.wantField)
			}
		})
	}
}

func TestValidationErrors_Message(t *testing.T) {
	err := ValidationErrors{
		{Field: "delimiter", Message: "bad"},
		{Field: "encoding", Message: "worse"},
	}
	want := "invalid options: delimiter: bad; encoding: worse"
	if err.Error() != want {
		t.Errorf("Error() = %q, want %q", err.Error(), want)
	}
}
