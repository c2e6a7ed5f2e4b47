// Package core cleans uploaded CSV and XLSX files.
//
// It holds everything between the raw upload bytes and the cleaned output,
// independent of any transport. The web handlers and the CLI both drive
// the same [Service].
//
// # Pipeline
//
// Delimited text:
//
//  1. [DecodeReader] strips byte order marks, decodes legacy charsets and
//     sanitizes invalid UTF-8
//  2. [SniffDelimiter] peeks at the first line unless a delimiter is given
//  3. [ReadCSV] parses every field as a text cell
//  4. [TransformRows] applies the display normalizer to every cell
//  5. [WriteCSV] writes comma separated UTF-8
//
// Workbooks:
//
//  1. [ReadXLSX] reads typed cells, turning date-formatted numbers into dates
//  2. [TransformRows] applies the preserving normalizer, which also promotes
//     serial-date numbers
//  3. [WriteXLSX] writes one sheet, dates formatted dd-mm-yyyy
//
// Both paths render a preview with [DisplayRows] and [MarkdownTable].
//
// # Concurrency
//
// At most Upload.MaxConcurrent conversions run at once (see [Limiter]).
// Within a conversion, rows are spread over Clean.Workers goroutines.
//
// # Errors
//
// Failures wrap the sentinel errors in types.go. [MapError] turns any of
// them into a coded [UserMessage] for display.
package core
