package mkbparser

import (
	"errors"
	"fmt"

	"github.com/giygas/mkb-merge/mkbparser/entities"
)

// ErrColumnConflict is returned when both sides of a join carry the same non-key column
var ErrColumnConflict = errors.New("column present on both sides of join")

// OuterJoin performs a full outer join of left and right on the key column.
//
// Rows sharing a key produce every left/right pairing, left order first. Rows
// without a partner are kept with the other side's columns empty. Left rows come
// first in their order, followed by unmatched right rows in theirs. Empty keys
// match each other like any other value.
func OuterJoin(left, right *entities.Table, key string) (*entities.Table, error) {
	lk := left.ColumnIndex(key)
	if lk < 0 {
		return nil, fmt.Errorf("left table has no %q column", key)
	}
	rk := right.ColumnIndex(key)
	if rk < 0 {
		return nil, fmt.Errorf("right table has no %q column", key)
	}

	columns := append([]string{}, left.Columns...)
	rightCols := make([]int, 0, len(right.Columns)-1)
	for i, c := range right.Columns {
		if i == rk {
			continue
		}
		if left.ColumnIndex(c) >= 0 {
			return nil, fmt.Errorf("%w: %q", ErrColumnConflict, c)
		}
		columns = append(columns, c)
		rightCols = append(rightCols, i)
	}

	// Make lookup map (O(n) once, then O(1) per left row)
	rightByKey := make(map[string][]int, len(right.Rows))
	for i, row := range right.Rows {
		rightByKey[row[rk]] = append(rightByKey[row[rk]], i)
	}

	out := entities.NewTable(columns...)
	matched := make([]bool, len(right.Rows))
	width := len(left.Columns)

	for _, lrow := range left.Rows {
		matches := rightByKey[lrow[lk]]
		if len(matches) == 0 {
			out.AppendRow(lrow...)
			continue
		}
		for _, ri := range matches {
			matched[ri] = true
			row := make([]string, len(columns))
			copy(row, lrow)
			for j, c := range rightCols {
				row[width+j] = right.Rows[ri][c]
			}
			out.Rows = append(out.Rows, row)
		}
	}

	for ri, rrow := range right.Rows {
		if matched[ri] {
			continue
		}
		row := make([]string, len(columns))
		row[lk] = rrow[rk]
		for j, c := range rightCols {
			row[width+j] = rrow[c]
		}
		out.Rows = append(out.Rows, row)
	}

	return out, nil
}

// Merge folds OuterJoin over tables from left to right
func Merge(key string, tables ...*entities.Table) (*entities.Table, error) {
	if len(tables) == 0 {
		return nil, errors.New("nothing to merge")
	}

	merged := tables[0]
	for i, t := range tables[1:] {
		next, err := OuterJoin(merged, t, key)
		if err != nil {
			return nil, fmt.Errorf("failed to join table %d: %w", i+1, err)
		}
		merged = next
	}
	return merged, nil
}
