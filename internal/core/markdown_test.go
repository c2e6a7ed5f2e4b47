package core

import "testing"

func TestMarkdownTable(t *testing.T) {
	tests := []struct {
		name    string
		rows    [][]string
		maxRows int
		want    string
	}{
		{name: "empty", rows: nil, want: ""},
		{name: "header only", rows: [][]string{{"a", "b"}}, want: "| a | b |\n| --- | --- |\n"},
		{
			name: "data rows",
			rows: [][]string{{"name", "date"}, {"Alice", "15-03-2024"}},
			want: "| name | date |\n| --- | --- |\n| Alice | 15-03-2024 |\n",
		},
		{
			name: "ragged rows padded",
			rows: [][]string{{"a"}, {"1", "2"}},
			want: "| a |  |\n| --- | --- |\n| 1 | 2 |\n",
		},
		{
			name: "pipes and newlines escaped",
			rows: [][]string{{"x"}, {"a|b\nc"}},
			want: "| x |\n| --- |\n| a\\|b c |\n",
		},
		{
			name:    "max rows",
			rows:    [][]string{{"h"}, {"1"}, {"2"}, {"3"}},
			maxRows: 2,
			want:    "| h |\n| --- |\n| 1 |\n| 2 |\n",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := MarkdownTable(tt.rows, tt.maxRows); got != tt.want {
				t.Errorf("MarkdownTable() =\n%q\nwant\n%q", got, tt.want)
			}
		})
	}
}
