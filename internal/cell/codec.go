package cell

// codec.go converts between calendar dates and spreadsheet serial days.
//
// A serial date is a day count where the integer part is the day and the
// fraction is the time of day. All conversions run in UTC; only the calendar
// day is guaranteed to survive a round trip.

import (
	"fmt"
	"math"
	"time"
)

const (
	// ExcelDateOffset is the serial number of 1970-01-01. It already absorbs
	// the phantom 1900-02-29 that spreadsheet applications count.
	ExcelDateOffset = 25569

	// MillisecondsInDay is the length of one serial day.
	MillisecondsInDay = 86_400_000

	// MaxDateSerial is the exclusive upper bound for serials treated as
	// dates, roughly the start of the year 2100.
	MaxDateSerial = 73050

	// serialPrecision rounds DateToSerial to six decimal places.
	serialPrecision = 1_000_000
)

// SerialToDate converts a serial day number to a UTC time. Fractional days
// become a time of day, truncated to the millisecond. Non-finite input
// yields the zero time.
func SerialToDate(serial float64) time.Time {
	if math.IsNaN(serial) || math.IsInf(serial, 0) {
		return time.Time{}
	}
	ms := (serial - ExcelDateOffset) * MillisecondsInDay
	return time.UnixMilli(int64(ms)).UTC()
}

// DateToSerial converts t to a serial day number rounded to six decimals.
func DateToSerial(t time.Time) float64 {
	days := float64(t.UnixMilli()) / MillisecondsInDay
	return math.Round((days+ExcelDateOffset)*serialPrecision) / serialPrecision
}

// IsPlausibleDateSerial reports whether n looks like a serial date rather
// than an ordinary number: finite and strictly between ExcelDateOffset and
// MaxDateSerial.
//
// This is a heuristic. Counts and amounts in that range are classified as
// dates too, and dates outside 1970..2099 are left as numbers.
func IsPlausibleDateSerial(n float64) bool {
	if math.IsNaN(n) || math.IsInf(n, 0) {
		return false
	}
	return n > ExcelDateOffset && n < MaxDateSerial
}

// FormatDate renders t as DD-MM-YYYY in UTC.
func FormatDate(t time.Time) string {
	t = t.UTC()
	return fmt.Sprintf("%02d-%02d-%04d", t.Day(), int(t.Month()), t.Year())
}
