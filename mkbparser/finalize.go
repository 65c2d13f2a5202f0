package mkbparser

import (
	"fmt"
	"slices"
	"strings"

	"github.com/giygas/mkb-merge/mkbparser/entities"
	"github.com/giygas/mkb-merge/validation"
)

// DedupePolicy decides what happens to rows sharing a code after sorting
type DedupePolicy string

const (
	// DedupeFirst keeps the first row and drops the others with their data
	DedupeFirst DedupePolicy = "first"
	// DedupeMerge keeps the first row and fills its empty fields from the others
	DedupeMerge DedupePolicy = "merge"
)

// ParseDedupePolicy parses a policy name
func ParseDedupePolicy(s string) (DedupePolicy, error) {
	switch p := DedupePolicy(strings.ToLower(s)); p {
	case DedupeFirst, DedupeMerge:
		return p, nil
	}
	return "", fmt.Errorf("unknown dedupe policy %q", s)
}

// FinalizeStats counts what the finalizer removed
type FinalizeStats struct {
	InputRows   int
	EmptyCode   int
	InvalidCode int
	Duplicates  int
	OutputRows  int
}

// Finalize turns the merged table into the output records: rows without a code or
// with a non-canonical code are dropped, columns are projected to OutputColumns with
// missing ones empty, records are stably sorted by code and deduplicated by policy.
func Finalize(table *entities.Table, policy DedupePolicy) ([]entities.Record, FinalizeStats) {
	stats := FinalizeStats{InputRows: table.Len()}

	codeIdx := table.ColumnIndex(entities.ColumnCode)
	projection := make([]int, len(entities.OutputColumns))
	for i, col := range entities.OutputColumns {
		projection[i] = table.ColumnIndex(col)
	}

	records := make([]entities.Record, 0, table.Len())
	for _, row := range table.Rows {
		code := ""
		if codeIdx >= 0 {
			code = row[codeIdx]
		}
		if code == "" {
			stats.EmptyCode++
			continue
		}
		if !validation.IsCanonicalCode(code) {
			stats.InvalidCode++
			continue
		}

		var rec entities.Record
		for i, idx := range projection {
			if idx >= 0 {
				rec.Set(entities.OutputColumns[i], row[idx])
			}
		}
		records = append(records, rec)
	}

	slices.SortStableFunc(records, func(a, b entities.Record) int {
		return strings.Compare(a.Code, b.Code)
	})

	deduped := make([]entities.Record, 0, len(records))
	for _, rec := range records {
		if n := len(deduped); n > 0 && deduped[n-1].Code == rec.Code {
			stats.Duplicates++
			if policy == DedupeMerge {
				deduped[n-1].FillFrom(rec)
			}
			continue
		}
		deduped = append(deduped, rec)
	}

	stats.OutputRows = len(deduped)
	return deduped, stats
}
