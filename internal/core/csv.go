package core

// csv.go reads and writes delimited text. Every field read is a text cell;
// typing only happens in spreadsheets, where the container records it.

import (
	"bufio"
	"encoding/csv"
	"errors"
	"fmt"
	"io"

	"github.com/JonMunkholm/tidysheet/internal/cell"
)

// SniffDelimiter peeks at up to sampleSize bytes of br without consuming
// them and returns the detected delimiter.
func SniffDelimiter(br *bufio.Reader, sampleSize int) (string, error) {
	sample, err := br.Peek(sampleSize)
	if err != nil && !errors.Is(err, io.EOF) && !errors.Is(err, bufio.ErrBufferFull) {
		return "", fmt.Errorf("sniff delimiter: %w", err)
	}
	return cell.DetectDelimiter(string(sample)), nil
}

// ReadCSV parses delimited text into rows of text cells. Quotes may appear
// inside unquoted fields and rows may differ in width. Blank lines are
// skipped.
func ReadCSV(r io.Reader, delimiter string) ([][]cell.Value, error) {
	cr := csv.NewReader(r)
	cr.Comma = cell.DelimiterRune(delimiter)
	cr.LazyQuotes = true
	cr.FieldsPerRecord = -1
	cr.ReuseRecord = true

	var rows [][]cell.Value
	for {
		record, err := cr.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("%w: %v", ErrInvalidCSV, err)
		}

		row := make([]cell.Value, len(record))
		for i, field := range record {
			row[i] = cell.Text(field)
		}
		rows = append(rows, row)
	}

	return rows, nil
}

// WriteCSV writes rows as comma-separated text with standard quoting.
func WriteCSV(w io.Writer, rows [][]string) error {
	cw := csv.NewWriter(w)
	if err := cw.WriteAll(rows); err != nil {
		return fmt.Errorf("write csv: %w", err)
	}
	return nil
}
