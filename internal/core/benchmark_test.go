package core

import (
	"bytes"
	"context"
	"encoding/csv"
	"io"
	"strings"
	"testing"
	"time"

	"github.com/JonMunkholm/tidysheet/internal/cell"
)

// ============================================================================
// Decoding Benchmarks
// ============================================================================

// BenchmarkDecodeReader_UTF8 measures the BOM and sanitizer stack on clean input.
func BenchmarkDecodeReader_UTF8(b *testing.B) {
	data := bytes.Repeat([]byte("Valid UTF-8 line with numbers 12345\n"), 300)

	b.ResetTimer()
	b.ReportAllocs()
	for i := 0; i < b.N; i++ {
		r, _ := DecodeReader(bytes.NewReader(data), "utf-8")
		io.Copy(io.Discard, r)
	}
}

// BenchmarkDecodeReader_Windows1252 measures single-byte decoding.
func BenchmarkDecodeReader_Windows1252(b *testing.B) {
	data := bytes.Repeat([]byte("caf\xe9 cr\xe8me br\xfbl\xe9e;12,50\n"), 300)

	b.ResetTimer()
	b.ReportAllocs()
	for i := 0; i < b.N; i++ {
		r, _ := DecodeReader(bytes.NewReader(data), "windows-1252")
		io.Copy(io.Discard, r)
	}
}

// ============================================================================
// CSV Benchmarks
// ============================================================================

// BenchmarkReadCSV benchmarks parsing into text cells.
func BenchmarkReadCSV(b *testing.B) {
	data := generateTestCSV(1000)

	b.ResetTimer()
	b.ReportAllocs()
	for i := 0; i < b.N; i++ {
		ReadCSV(bytes.NewReader(data), ",")
	}
}

// BenchmarkSniffDelimiter benchmarks delimiter detection on a long first line.
func BenchmarkSniffDelimiter(b *testing.B) {
	line := strings.Repeat("field;", 2000) + "\n"

	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		cell.DetectDelimiter(line)
	}
}

// ============================================================================
// Row Transform Benchmarks
// ============================================================================

// BenchmarkTransformRows compares the inline path with the errgroup fan-out.
func BenchmarkTransformRows(b *testing.B) {
	rows, err := ReadCSV(bytes.NewReader(generateTestCSV(5000)), ",")
	if err != nil {
		b.Fatal(err)
	}
	n := cell.NewNormalizer(cell.DisplayPolicy)
	ctx := context.Background()

	for _, workers := range []int{1, 4} {
		name := "inline"
		if workers > 1 {
			name = "errgroup"
		}
		b.Run(name, func(b *testing.B) {
			b.ReportAllocs()
			for i := 0; i < b.N; i++ {
				TransformRows(ctx, rows, n, workers)
			}
		})
	}
}

// BenchmarkNormalizePreserving benchmarks the spreadsheet path per cell.
func BenchmarkNormalizePreserving(b *testing.B) {
	values := []cell.Value{
		cell.Text("  padded   text  "),
		cell.Number(45366),
		cell.Number(1234.5),
		cell.Date(time.Date(2024, 1, 15, 0, 0, 0, 0, time.UTC)),
		cell.Bool(true),
	}

	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		for _, v := range values {
			cell.NormalizePreserving(v)
		}
	}
}

// ============================================================================
// Output Benchmarks
// ============================================================================

// BenchmarkMarkdownTable benchmarks rendering a full preview.
func BenchmarkMarkdownTable(b *testing.B) {
	rows, _ := csv.NewReader(bytes.NewReader(generateTestCSV(100))).ReadAll()

	b.ResetTimer()
	b.ReportAllocs()
	for i := 0; i < b.N; i++ {
		MarkdownTable(rows, 0)
	}
}

// BenchmarkWriteXLSX benchmarks writing a typed sheet.
func BenchmarkWriteXLSX(b *testing.B) {
	rows, _ := ReadCSV(bytes.NewReader(generateTestCSV(500)), ",")
	cleaned, _ := TransformRows(context.Background(), rows, cell.NewNormalizer(cell.PreservingPolicy), 1)
	sheet := &Sheet{Name: OutputSheetName, Rows: cleaned}

	b.ResetTimer()
	b.ReportAllocs()
	for i := 0; i < b.N; i++ {
		WriteXLSX(io.Discard, sheet)
	}
}

// ============================================================================
// Helper Functions
// ============================================================================

// generateTestCSV generates CSV data with the specified number of rows.
func generateTestCSV(rows int) []byte {
	var buf bytes.Buffer
	w := csv.NewWriter(&buf)

	// Header
	w.Write([]string{"ID", "Name", "Email", "Date", "Amount", "Status"})

	// Data rows
	for i := 0; i < rows; i++ {
		w.Write([]string{
			"1001",
			"  John   Doe ",
			"john@example.com",
			"\" 2024-01-15\"",
			"1234.56",
			"active",
		})
	}
	w.Flush()

	return buf.Bytes()
}
