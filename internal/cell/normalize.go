package cell

import (
	"strings"
	"time"
)

// Policy selects how a Normalizer treats dates and date-like numbers.
// Text cleanup is the same under every policy.
type Policy struct {
	// DateAware promotes numbers that look like serial dates to Date values.
	DateAware bool

	// DisplayDates renders Date values as DD-MM-YYYY text.
	DisplayDates bool
}

var (
	// DisplayPolicy is used for previews and CSV output.
	DisplayPolicy = Policy{DisplayDates: true}

	// PreservingPolicy keeps dates typed so a spreadsheet writer can apply
	// a date format on write-back.
	PreservingPolicy = Policy{DateAware: true}

	// LegacyPolicy only cleans text; every other value passes through.
	LegacyPolicy = Policy{}
)

// Normalizer cleans single cell values according to its Policy.
// The zero Normalizer uses LegacyPolicy.
type Normalizer struct {
	Policy Policy
}

// NewNormalizer returns a Normalizer for p.
func NewNormalizer(p Policy) Normalizer {
	return Normalizer{Policy: p}
}

// Normalize returns the cleaned form of v. The kind only changes from
// Number to Date (DateAware) or from Date to Text (DisplayDates).
func (n Normalizer) Normalize(v Value) Value {
	switch v.Kind() {
	case KindText:
		return Text(CleanText(v.Str()))
	case KindNumber:
		if n.Policy.DateAware && IsPlausibleDateSerial(v.Num()) {
			return n.date(SerialToDate(v.Num()))
		}
		return v
	case KindDate:
		return n.date(v.Time())
	case KindEmpty, KindBool:
		return v
	default:
		return v
	}
}

func (n Normalizer) date(t time.Time) Value {
	if n.Policy.DisplayDates {
		return Text(FormatDate(t))
	}
	return Date(t)
}

// NormalizeDisplay cleans v for display: dates become DD-MM-YYYY text.
func NormalizeDisplay(v Value) Value {
	return Normalizer{Policy: DisplayPolicy}.Normalize(v)
}

// NormalizePreserving cleans v for spreadsheet write-back: dates stay
// dates and plausible serial numbers are promoted to dates.
func NormalizePreserving(v Value) Value {
	return Normalizer{Policy: PreservingPolicy}.Normalize(v)
}

// CleanText trims s, strips one pair of surrounding double quotes and
// collapses every whitespace run to a single space.
func CleanText(s string) string {
	s = strings.TrimSpace(s)
	if len(s) >= 2 && s[0] == '"' && s[len(s)-1] == '"' {
		s = s[1 : len(s)-1]
	}
	return strings.Join(strings.Fields(s), " ")
}
