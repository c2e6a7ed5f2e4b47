package core

// xlsx.go reads and writes spreadsheet workbooks with excelize.
//
// Reading keeps the types the workbook records: booleans, numbers and
// date-formatted numbers come back as Bool, Number and Date cells. The
// number format of every numeric cell is remembered so the writer can put
// it back on the cleaned workbook.

import (
	"fmt"
	"io"
	"strconv"
	"strings"
	"time"
	"unicode"

	"github.com/xuri/excelize/v2"

	"github.com/JonMunkholm/tidysheet/internal/cell"
)

const (
	// OutputSheetName is the name of the only sheet in a cleaned workbook.
	OutputSheetName = "Sheet1"

	// OutputDateFormat is applied to every date cell on write.
	OutputDateFormat = "dd-mm-yyyy"

	// date1904Offset is the serial distance between the 1900 and 1904 date systems.
	date1904Offset = 1462
)

// NumberFormat is the number format of one cell: a built-in format ID or
// a custom format code.
type NumberFormat struct {
	ID     int
	Custom string
}

// IsZero reports whether nf is the General format.
func (nf NumberFormat) IsZero() bool {
	return nf.ID == 0 && nf.Custom == ""
}

// IsDate reports whether nf renders numbers as dates.
func (nf NumberFormat) IsDate() bool {
	return IsDateFormat(nf.ID, nf.Custom)
}

// Sheet is one worksheet's cells plus the number formats of its numeric
// cells, keyed by cell reference ("B7"). Text holds the formatted text of
// numeric cells whose format changes how they read ("1,234.50", "25%").
type Sheet struct {
	Name    string
	Rows    [][]cell.Value
	Formats map[string]NumberFormat
	Text    map[string]string
}

// ReadXLSX opens the workbook in r and reads the named sheet, or the first
// sheet when name is empty.
func ReadXLSX(r io.Reader, name string) (*Sheet, error) {
	f, err := excelize.OpenReader(r)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidWorkbook, err)
	}
	defer func() { _ = f.Close() }()

	sheets := f.GetSheetList()
	if len(sheets) == 0 {
		return nil, fmt.Errorf("%w: workbook has no sheets", ErrEmptyFile)
	}
	if name == "" {
		name = sheets[0]
	} else if !containsSheet(sheets, name) {
		return nil, fmt.Errorf("%w: %q", ErrSheetNotFound, name)
	}

	raw, err := f.GetRows(name, excelize.Options{RawCellValue: true})
	if err != nil {
		return nil, fmt.Errorf("%w: read sheet %q: %v", ErrInvalidWorkbook, name, err)
	}

	rd := &sheetReader{
		file:    f,
		sheet:   name,
		styles:  make(map[int]NumberFormat),
		formats: make(map[string]NumberFormat),
		text:    make(map[string]string),
	}
	if props, err := f.GetWorkbookProps(); err == nil && props.Date1904 != nil {
		rd.date1904 = *props.Date1904
	}

	rows := make([][]cell.Value, len(raw))
	for i, rawRow := range raw {
		row := make([]cell.Value, len(rawRow))
		for j, val := range rawRow {
			ref, err := excelize.CoordinatesToCellName(j+1, i+1)
			if err != nil {
				return nil, fmt.Errorf("%w: %v", ErrInvalidWorkbook, err)
			}
			row[j] = rd.value(ref, val)
		}
		rows[i] = row
	}

	return &Sheet{Name: name, Rows: rows, Formats: rd.formats, Text: rd.text}, nil
}

func containsSheet(sheets []string, name string) bool {
	for _, s := range sheets {
		if s == name {
			return true
		}
	}
	return false
}

// sheetReader types raw cell strings using the workbook's cell types and styles.
type sheetReader struct {
	file     *excelize.File
	sheet    string
	date1904 bool
	styles   map[int]NumberFormat
	formats  map[string]NumberFormat
	text     map[string]string
}

func (rd *sheetReader) value(ref, raw string) cell.Value {
	if raw == "" {
		return cell.Empty()
	}

	typ, err := rd.file.GetCellType(rd.sheet, ref)
	if err != nil {
		return cell.Text(raw)
	}

	switch typ {
	case excelize.CellTypeBool:
		return cell.Bool(raw == "1" || strings.EqualFold(raw, "true"))
	case excelize.CellTypeDate:
		if t, ok := parseISODate(raw); ok {
			return cell.Date(t)
		}
		return cell.Text(raw)
	case excelize.CellTypeSharedString, excelize.CellTypeInlineString,
		excelize.CellTypeFormula, excelize.CellTypeError:
		return cell.Text(raw)
	}

	n, err := strconv.ParseFloat(raw, 64)
	if err != nil {
		return cell.Text(raw)
	}

	nf := rd.numberFormat(ref)
	if !nf.IsZero() {
		rd.formats[ref] = nf
	}
	if nf.IsDate() {
		if rd.date1904 {
			n += date1904Offset
		}
		return cell.Date(cell.SerialToDate(n))
	}
	if !nf.IsZero() {
		if text, err := rd.file.GetCellValue(rd.sheet, ref); err == nil && text != "" && text != raw {
			rd.text[ref] = text
		}
	}
	return cell.Number(n)
}

func (rd *sheetReader) numberFormat(ref string) NumberFormat {
	idx, err := rd.file.GetCellStyle(rd.sheet, ref)
	if err != nil || idx == 0 {
		return NumberFormat{}
	}
	if nf, ok := rd.styles[idx]; ok {
		return nf
	}

	var nf NumberFormat
	if style, err := rd.file.GetStyle(idx); err == nil && style != nil {
		nf.ID = style.NumFmt
		if style.CustomNumFmt != nil {
			nf.Custom = *style.CustomNumFmt
		}
	}
	rd.styles[idx] = nf
	return nf
}

// parseISODate parses the ISO 8601 text stored in t="d" cells.
func parseISODate(s string) (time.Time, bool) {
	layouts := []string{time.RFC3339Nano, "2006-01-02T15:04:05", "2006-01-02T15:04", "2006-01-02"}
	for _, layout := range layouts {
		if t, err := time.Parse(layout, s); err == nil {
			return t.UTC(), true
		}
	}
	return time.Time{}, false
}

// IsDateFormat reports whether a number format renders dates. Built-in IDs
// are matched against the date and date-time formats; a custom code is a
// date when it has a day or year token, or a month token, outside quoted
// literals, [bracketed] sections and escapes. An "m" that follows an hour
// or precedes a seconds token is minutes, so time-only and elapsed-time
// formats are not dates.
func IsDateFormat(id int, custom string) bool {
	switch {
	case id >= 14 && id <= 17:
		return true
	case id == 22:
		return true
	case id >= 27 && id <= 36:
		return true
	case id >= 50 && id <= 58:
		return true
	}
	if custom == "" {
		return false
	}

	tokens := formatTokens(custom)
	for i, ch := range tokens {
		switch ch {
		case 'd', 'y':
			return true
		case 'm':
			if i > 0 && tokens[i-1] == 'm' {
				continue
			}
			j := i
			for j < len(tokens) && tokens[j] == 'm' {
				j++
			}
			afterHour := i > 0 && tokens[i-1] == 'h'
			beforeSecond := j < len(tokens) && tokens[j] == 's'
			if !afterHour && !beforeSecond {
				return true
			}
		}
	}
	return false
}

// formatTokens returns the lower-cased date and time letters of a custom
// format code, skipping literals, brackets, escapes, padding and AM/PM
// markers.
func formatTokens(code string) []rune {
	runes := []rune(code)
	var tokens []rune

	for i := 0; i < len(runes); i++ {
		ch := runes[i]
		switch ch {
		case '"':
			for i++; i < len(runes) && runes[i] != '"'; i++ {
			}
			continue
		case '[':
			for i++; i < len(runes) && runes[i] != ']'; i++ {
			}
			continue
		case '\\', '_', '*':
			i++
			continue
		}

		rest := strings.ToUpper(string(runes[i:min(i+5, len(runes))]))
		switch {
		case strings.HasPrefix(rest, "AM/PM"):
			i += 4
			continue
		case strings.HasPrefix(rest, "A/P"):
			i += 2
			continue
		}

		switch lower := unicode.ToLower(ch); lower {
		case 'd', 'm', 'y', 'h', 's':
			tokens = append(tokens, lower)
		}
	}
	return tokens
}

// WriteXLSX writes s as a new workbook with a single sheet named
// OutputSheetName. Date cells are stored as serial numbers formatted
// OutputDateFormat; numbers keep the format recorded in s.Formats.
func WriteXLSX(w io.Writer, s *Sheet) error {
	f := excelize.NewFile()
	defer func() { _ = f.Close() }()

	wr := &sheetWriter{file: f, styles: make(map[NumberFormat]int)}

	dateFmt := OutputDateFormat
	dateStyle, err := f.NewStyle(&excelize.Style{CustomNumFmt: &dateFmt})
	if err != nil {
		return fmt.Errorf("create date style: %w", err)
	}

	for i, row := range s.Rows {
		for j, v := range row {
			if v.IsEmpty() {
				continue
			}
			ref, err := excelize.CoordinatesToCellName(j+1, i+1)
			if err != nil {
				return fmt.Errorf("cell name: %w", err)
			}
			if err := wr.set(ref, v, s.Formats[ref], dateStyle); err != nil {
				return fmt.Errorf("write %s: %w", ref, err)
			}
		}
	}

	if err := f.Write(w); err != nil {
		return fmt.Errorf("write workbook: %w", err)
	}
	return nil
}

type sheetWriter struct {
	file   *excelize.File
	styles map[NumberFormat]int
}

func (wr *sheetWriter) set(ref string, v cell.Value, nf NumberFormat, dateStyle int) error {
	f := wr.file

	switch v.Kind() {
	case cell.KindText:
		return f.SetCellStr(OutputSheetName, ref, v.Str())
	case cell.KindBool:
		return f.SetCellBool(OutputSheetName, ref, v.Boolean())
	case cell.KindDate:
		if err := f.SetCellFloat(OutputSheetName, ref, cell.DateToSerial(v.Time()), -1, 64); err != nil {
			return err
		}
		return f.SetCellStyle(OutputSheetName, ref, ref, dateStyle)
	case cell.KindNumber:
		if err := f.SetCellFloat(OutputSheetName, ref, v.Num(), -1, 64); err != nil {
			return err
		}
		if nf.IsZero() || nf.IsDate() {
			return nil
		}
		style, err := wr.style(nf)
		if err != nil {
			return err
		}
		return f.SetCellStyle(OutputSheetName, ref, ref, style)
	}
	return nil
}

// style returns a style ID carrying nf, creating it on first use.
func (wr *sheetWriter) style(nf NumberFormat) (int, error) {
	if id, ok := wr.styles[nf]; ok {
		return id, nil
	}

	st := &excelize.Style{NumFmt: nf.ID}
	if nf.Custom != "" {
		custom := nf.Custom
		st = &excelize.Style{CustomNumFmt: &custom}
	}
	id, err := wr.file.NewStyle(st)
	if err != nil {
		return 0, err
	}
	wr.styles[nf] = id
	return id, nil
}
