// Package cell holds the pure cell-level transforms used when cleaning
// tabular files: the typed cell value, the spreadsheet date codec, the
// value normalizer and the delimiter detector.
//
// Nothing in this package performs I/O or keeps state between calls. Every
// function is safe for concurrent use, so callers may fan rows out across
// goroutines freely.
package cell

import (
	"fmt"
	"strconv"
	"time"
)

// Kind identifies which payload a Value carries.
type Kind uint8

const (
	KindEmpty Kind = iota
	KindText
	KindNumber
	KindBool
	KindDate
)

// String returns the lowercase kind name.
func (k Kind) String() string {
	switch k {
	case KindEmpty:
		return "empty"
	case KindText:
		return "text"
	case KindNumber:
		return "number"
	case KindBool:
		return "bool"
	case KindDate:
		return "date"
	default:
		return fmt.Sprintf("kind(%d)", uint8(k))
	}
}

// Value is one typed entry in a tabular row. The zero Value is Empty.
//
// Values are immutable: construct them with Empty, Text, Number, Bool or
// Date and read them back with the matching accessor.
type Value struct {
	kind Kind
	text string
	num  float64
	b    bool
	date time.Time
}

// Empty returns the empty (null) cell value.
func Empty() Value { return Value{} }

// Text returns a text cell value.
func Text(s string) Value { return Value{kind: KindText, text: s} }

// Number returns a numeric cell value.
func Number(f float64) Value { return Value{kind: KindNumber, num: f} }

// Bool returns a boolean cell value.
func Bool(b bool) Value { return Value{kind: KindBool, b: b} }

// Date returns a date cell value. The time is stored in UTC.
func Date(t time.Time) Value { return Value{kind: KindDate, date: t.UTC()} }

// Kind reports the value's tag.
func (v Value) Kind() Kind { return v.kind }

// IsEmpty reports whether v is the empty value.
func (v Value) IsEmpty() bool { return v.kind == KindEmpty }

// Str returns the text payload, or "" for non-text values.
func (v Value) Str() string { return v.text }

// Num returns the numeric payload, or 0 for non-number values.
func (v Value) Num() float64 { return v.num }

// Boolean returns the boolean payload, or false for non-bool values.
func (v Value) Boolean() bool { return v.b }

// Time returns the date payload, or the zero time for non-date values.
func (v Value) Time() time.Time { return v.date }

// Equal reports whether two values have the same kind and payload.
// Dates compare by instant.
func (v Value) Equal(o Value) bool {
	if v.kind != o.kind {
		return false
	}
	switch v.kind {
	case KindEmpty:
		return true
	case KindText:
		return v.text == o.text
	case KindNumber:
		return v.num == o.num
	case KindBool:
		return v.b == o.b
	case KindDate:
		return v.date.Equal(o.date)
	}
	return false
}

// Display renders the value the way a preview table shows it: dates as
// DD-MM-YYYY, numbers in their shortest decimal form, booleans as
// true/false and empty cells as "".
func (v Value) Display() string {
	switch v.kind {
	case KindText:
		return v.text
	case KindNumber:
		return strconv.FormatFloat(v.num, 'f', -1, 64)
	case KindBool:
		return strconv.FormatBool(v.b)
	case KindDate:
		return FormatDate(v.date)
	default:
		return ""
	}
}

// String implements fmt.Stringer for debugging output.
func (v Value) String() string {
	if v.kind == KindEmpty {
		return "<empty>"
	}
	return v.kind.String() + "(" + v.Display() + ")"
}
