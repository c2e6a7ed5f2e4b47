package cell

import "strings"

// Delimiters lists the candidate field separators in priority order.
// Ties in DetectDelimiter go to the earlier entry.
var Delimiters = []string{",", ";", "\t", "¦"}

// DefaultDelimiter is returned when no candidate occurs in the sample.
const DefaultDelimiter = ","

// DetectDelimiter guesses the field separator of a delimited text file by
// counting each candidate on the first line of sample. The most frequent
// candidate wins; a tie keeps the candidate listed first, so a line with
// no candidates at all yields DefaultDelimiter.
func DetectDelimiter(sample string) string {
	line := sample
	if i := strings.IndexByte(sample, '\n'); i >= 0 {
		line = sample[:i]
	}

	best, bestCount := Delimiters[0], strings.Count(line, Delimiters[0])
	for _, d := range Delimiters[1:] {
		if c := strings.Count(line, d); c > bestCount {
			best, bestCount = d, c
		}
	}
	return best
}

// DelimiterRune returns the rune form of a single-character delimiter, or
// ',' when d is empty. Only the first rune of d is used.
func DelimiterRune(d string) rune {
	for _, r := range d {
		return r
	}
	return ','
}

// DelimiterName returns a printable name for d, spelling out tab.
func DelimiterName(d string) string {
	if d == "\t" {
		return "tab"
	}
	return d
}

// ParseDelimiter accepts a delimiter as typed by a user ("tab", `\t`, or
// the character itself) and returns it in canonical form. The second
// result is false for anything outside Delimiters.
func ParseDelimiter(s string) (string, bool) {
	switch strings.ToLower(s) {
	case "tab", `\t`:
		s = "\t"
	}
	for _, d := range Delimiters {
		if s == d {
			return d, true
		}
	}
	return "", false
}
