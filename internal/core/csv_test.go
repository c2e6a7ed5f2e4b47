package core

import (
	"bufio"
	"bytes"
	"errors"
	"io"
	"strings"
	"testing"

	"github.com/JonMunkholm/tidysheet/internal/cell"
)

func TestSniffDelimiter(t *testing.T) {
	tests := []struct {
		name  string
		input string
		size  int
		want  string
	}{
		{name: "comma", input: "a,b,c\n1,2,3\n", size: 64, want: ","},
		{name: "semicolon", input: "a;b;c\n1;2;3\n", size: 64, want: ";"},
		{name: "tab", input: "a\tb\tc\n", size: 64, want: "\t"},
		{name: "broken bar", input: "a¦b¦c\n", size: 64, want: "¦"},
		{name: "empty input", input: "", size: 64, want: ","},
		{name: "sample shorter than line", input: "a;b;c;d;e;f,g,h", size: 8, want: ";"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			br := bufio.NewReaderSize(strings.NewReader(tt.input), tt.size)
			got, err := SniffDelimiter(br, tt.size)
			if err != nil {
				t.Fatalf("SniffDelimiter error: %v", err)
			}
			if got != tt.want {
				t.Errorf("SniffDelimiter = %q, want %q", got, tt.want)
			}

			// Sniffing must not consume input.
			rest, _ := io.ReadAll(br)
			if string(rest) != tt.input {
				t.Errorf("reader lost input: got %q", rest)
			}
		})
	}
}

func TestReadCSV(t *testing.T) {
	input := "name;amount\n  Alice  ;\" 10\"\n\nBob;20;extra\n"

	rows, err := ReadCSV(strings.NewReader(input), ";")
	if err != nil {
		t.Fatalf("ReadCSV error: %v", err)
	}

	want := [][]string{
		{"name", "amount"},
		{"  Alice  ", " 10"},
		{"Bob", "20", "extra"},
	}
	if len(rows) != len(want) {
		t.Fatalf("got %d rows, want %d", len(rows), len(want))
	}
	for i, row := range rows {
		if len(row) != len(want[i]) {
			t.Fatalf("row %d: got %d fields, want %d", i, len(row), len(want[i]))
		}
		for j, v := range row {
			if v.Kind() != cell.KindText {
				t.Errorf("row %d col %d: kind = %v, want text", i, j, v.Kind())
			}
			if v.Str() != want[i][j] {
				t.Errorf("row %d col %d: got %q, want %q", i, j, v.Str(), want[i][j])
			}
		}
	}
}

func TestReadCSV_LazyQuotes(t *testing.T) {
	rows, err := ReadCSV(strings.NewReader("a \"quoted\" word,b\n"), ",")
	if err != nil {
		t.Fatalf("ReadCSV error: %v", err)
	}
	if got := rows[0][0].Str(); got != `a "quoted" word` {
		t.Errorf("field = %q", got)
	}
}

func TestReadCSV_Empty(t *testing.T) {
	rows, err := ReadCSV(strings.NewReader(""), ",")
	if err != nil {
		t.Fatalf("ReadCSV error: %v", err)
	}
	if len(rows) != 0 {
		t.Errorf("got %d rows, want 0", len(rows))
	}
}

type failingReader struct{}

func (failingReader) Read([]byte) (int, error) { return 0, errors.New("disk on fire") }

func TestReadCSV_ReaderError(t *testing.T) {
	_, err := ReadCSV(failingReader{}, ",")
	if !errors.Is(err, ErrInvalidCSV) {
		t.Errorf("expected ErrInvalidCSV, got %v", err)
	}
}

func TestWriteCSV(t *testing.T) {
	var buf bytes.Buffer
	rows := [][]string{
		{"name", "note"},
		{"Alice", "says \"hi\""},
		{"Bob", "a,b"},
	}
	if err := WriteCSV(&buf, rows); err != nil {
		t.Fatalf("WriteCSV error: %v", err)
	}

	want := "name,note\nAlice,\"says \"\"hi\"\"\"\nBob,\"a,b\"\n"
	if buf.String() != want {
		t.Errorf("WriteCSV output:\n%q\nwant:\n%q", buf.String(), want)
	}
}
