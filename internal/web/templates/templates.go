// Package templates renders the HTML page and htmx partials.
//
// Components are written in .templ files; run `templ generate` after
// editing them to refresh the *_templ.go files.
package templates

import (
	"strconv"
)

// PageParams configures the upload page.
type PageParams struct {
	Title       string
	MaxFileSize int64
	PreviewRows int
}

// PreviewParams is the data behind a preview table.
type PreviewParams struct {
	Filename  string
	Format    string
	Sheet     string
	Delimiter string
	TotalRows int
	Rows      [][]string
}

// summary is the line above a preview table: "a.csv: 12 rows, delimiter ;".
func summary(p PreviewParams) string {
	s := p.Filename + ": " + strconv.Itoa(p.TotalRows) + " rows"
	switch {
	case p.Sheet != "":
		s += ", sheet " + p.Sheet
	case p.Delimiter != "":
		s += ", delimiter " + p.Delimiter
	}
	return s
}

func formatBytes(n int64) string {
	const mb = 1 << 20
	if n >= mb {
		return strconv.FormatInt(n/mb, 10) + " MB"
	}
	return strconv.FormatInt(n, 10) + " bytes"
}
