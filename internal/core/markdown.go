package core

import "strings"

// MarkdownTable renders rows as a GitHub-flavored Markdown table. The first
// row is the header. Short rows are padded to the widest row, pipes are
// escaped and line breaks become spaces. maxRows limits the data rows
// rendered; zero or less renders all of them.
func MarkdownTable(rows [][]string, maxRows int) string {
	if len(rows) == 0 {
		return ""
	}

	width := 0
	for _, row := range rows {
		width = max(width, len(row))
	}
	if width == 0 {
		return ""
	}

	body := rows[1:]
	if maxRows > 0 && len(body) > maxRows {
		body = body[:maxRows]
	}

	var b strings.Builder
	writeMarkdownRow(&b, rows[0], width)

	b.WriteByte('|')
	for range width {
		b.WriteString(" --- |")
	}
	b.WriteByte('\n')

	for _, row := range body {
		writeMarkdownRow(&b, row, width)
	}
	return b.String()
}

var markdownEscaper = strings.NewReplacer("|", `\|`, "\r\n", " ", "\n", " ", "\r", " ")

func writeMarkdownRow(b *strings.Builder, row []string, width int) {
	b.WriteByte('|')
	for i := range width {
		b.WriteByte(' ')
		if i < len(row) {
			b.WriteString(markdownEscaper.Replace(row[i]))
		}
		b.WriteString(" |")
	}
	b.WriteByte('\n')
}
