package core

import (
	"context"

	"github.com/xuri/excelize/v2"
	"golang.org/x/sync/errgroup"

	"github.com/JonMunkholm/tidysheet/internal/cell"
)

// TransformRows applies n to every cell and returns a new grid in the same
// row order. rows is not modified.
//
// Rows are independent, so with workers > 1 they are spread over an
// errgroup. Cancellation is checked between rows only; a single row is
// never interrupted.
func TransformRows(ctx context.Context, rows [][]cell.Value, n cell.Normalizer, workers int) ([][]cell.Value, error) {
	out := make([][]cell.Value, len(rows))

	if workers <= 1 {
		for i, row := range rows {
			if err := ctx.Err(); err != nil {
				return nil, err
			}
			out[i] = transformRow(row, n)
		}
		return out, nil
	}

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(workers)

	for i, row := range rows {
		if gctx.Err() != nil {
			break
		}
		g.Go(func() error {
			if err := gctx.Err(); err != nil {
				return err
			}
			out[i] = transformRow(row, n)
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		return nil, err
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	return out, nil
}

func transformRow(row []cell.Value, n cell.Normalizer) []cell.Value {
	cleaned := make([]cell.Value, len(row))
	for j, v := range row {
		cleaned[j] = n.Normalize(v)
	}
	return cleaned
}

// DisplayRows renders a grid to the strings a preview shows.
func DisplayRows(rows [][]cell.Value) [][]string {
	out := make([][]string, len(rows))
	for i, row := range rows {
		line := make([]string, len(row))
		for j, v := range row {
			line[j] = v.Display()
		}
		out[i] = line
	}
	return out
}

// DisplaySheetRows is DisplayRows for workbook cells: numbers that keep
// their value show the formatted text recorded in text.
func DisplaySheetRows(rows, original [][]cell.Value, text map[string]string) [][]string {
	out := DisplayRows(rows)
	if len(text) == 0 {
		return out
	}
	for i, row := range rows {
		for j, v := range row {
			if v.Kind() != cell.KindNumber || i >= len(original) || j >= len(original[i]) {
				continue
			}
			if orig := original[i][j]; orig.Kind() != cell.KindNumber || orig.Num() != v.Num() {
				continue
			}
			ref, err := excelize.CoordinatesToCellName(j+1, i+1)
			if err != nil {
				continue
			}
			if formatted, ok := text[ref]; ok {
				out[i][j] = formatted
			}
		}
	}
	return out
}

// isBlankRow reports whether every cell in row is empty or blank text.
func isBlankRow(row []cell.Value) bool {
	for _, v := range row {
		switch v.Kind() {
		case cell.KindEmpty:
		case cell.KindText:
			if v.Str() != "" {
				return false
			}
		default:
			return false
		}
	}
	return true
}

// trimTrailingBlankRows drops blank rows at the end of a sheet. Spreadsheet
// readers often report formatted but empty rows past the data.
func trimTrailingBlankRows(rows [][]cell.Value) [][]cell.Value {
	end := len(rows)
	for end > 0 && isBlankRow(rows[end-1]) {
		end--
	}
	return rows[:end]
}
