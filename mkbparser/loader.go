package mkbparser

import (
	"bytes"
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/giygas/mkb-merge/interfaces"
	"github.com/giygas/mkb-merge/logging"
	"github.com/giygas/mkb-merge/metrics"
	"github.com/giygas/mkb-merge/mkbparser/entities"
)

// ErrEmptySource is returned when a source holds no header and no rows
var ErrEmptySource = errors.New("no data in source")

// Compile-time check to ensure FileLoader implements SourceLoader interface
var _ interfaces.SourceLoader = (*FileLoader)(nil)

// FileLoader reads sources from files in one directory
type FileLoader struct {
	Dir string
}

// NewFileLoader creates a loader for sources stored in dir
func NewFileLoader(dir string) *FileLoader {
	return &FileLoader{Dir: dir}
}

// Load implements the SourceLoader interface
func (l *FileLoader) Load(spec entities.SourceSpec) (*entities.Table, error) {
	path := filepath.Join(l.Dir, spec.File)
	file, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open %s: %w", path, err)
	}
	defer func() {
		if err := file.Close(); err != nil {
			logging.Warn("Failed to close source file", "file", path, "error", err)
		}
	}()

	table, err := LoadSource(spec, file)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return table, nil
}

// LoadSource reads one delimited source into a table holding exactly the selected
// fields, under their target names. Values stay text; the code column is normalized.
func LoadSource(spec entities.SourceSpec, r io.Reader) (*entities.Table, error) {
	comma, err := spec.Comma()
	if err != nil {
		return nil, err
	}

	raw, err := io.ReadAll(r)
	if err != nil {
		return nil, fmt.Errorf("failed to read source: %w", err)
	}

	data, err := decodeSource(raw, spec.Encoding)
	if err != nil {
		return nil, err
	}

	reader := csv.NewReader(bytes.NewReader(data))
	reader.Comma = comma
	reader.LazyQuotes = true
	reader.FieldsPerRecord = -1

	var header []string
	if spec.HasHeader {
		header, err = reader.Read()
		if errors.Is(err, io.EOF) {
			return nil, ErrEmptySource
		}
		if err != nil {
			return nil, fmt.Errorf("failed to read header: %w", err)
		}
	}

	positions, err := fieldPositions(spec.Fields, header)
	if err != nil {
		return nil, err
	}
	// Positional fields must be present; header columns missing from a short row read as empty
	minFields := 0
	for i, f := range spec.Fields {
		if f.Positional() {
			minFields = max(minFields, positions[i]+1)
		}
	}

	table := entities.NewTable(spec.Columns()...)
	codeIdx := table.ColumnIndex(entities.ColumnCode)

	for {
		record, err := reader.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("failed to parse: %w", err)
		}

		if len(record) < minFields {
			line, _ := reader.FieldPos(0)
			return nil, fmt.Errorf("line %d: expected at least %d fields, got %d", line, minFields, len(record))
		}

		row := make([]string, len(positions))
		for i, p := range positions {
			if p < len(record) {
				row[i] = record[p]
			}
		}
		if codeIdx >= 0 {
			row[codeIdx] = normalizeCell(row[codeIdx])
		}
		table.Rows = append(table.Rows, row)
	}

	if !spec.HasHeader && table.Len() == 0 {
		return nil, ErrEmptySource
	}

	logging.Debug("Source parsed",
		"source", spec.Name,
		"columns", table.Columns,
		"records_parsed", table.Len())

	return table, nil
}

// fieldPositions resolves every selector to a record position
func fieldPositions(fields []entities.FieldSelector, header []string) ([]int, error) {
	positions := make([]int, len(fields))
	var missing []string

	for i, f := range fields {
		if f.Positional() {
			positions[i] = f.Index
			continue
		}

		positions[i] = -1
		for j, name := range header {
			if name == f.Column {
				positions[i] = j
				break
			}
		}
		if positions[i] < 0 {
			missing = append(missing, f.Column)
		}
	}

	if len(missing) > 0 {
		return nil, fmt.Errorf("columns not found in header: %s", strings.Join(missing, ", "))
	}
	return positions, nil
}

// LoadAll loads every source independently. A failed source is reported and
// recorded in its result; it never stops the other loads.
func LoadAll(loader interfaces.SourceLoader, specs []entities.SourceSpec, reporter *Reporter) []entities.LoadResult {
	results := make([]entities.LoadResult, 0, len(specs))

	for _, spec := range specs {
		table, err := loader.Load(spec)
		if err != nil {
			reporter.Failure("Could not process %s file: %v", spec.Name, err)
			logging.Error("Source load failed", "source", spec.Name, "error", err)
			metrics.SourceLoadFailures.WithLabelValues(spec.Name).Inc()
			results = append(results, entities.LoadResult{Source: spec.Name, Err: err})
			continue
		}

		reporter.Success("Processed %s file. Found %d records.", spec.Name, table.Len())
		metrics.SourceRows.WithLabelValues(spec.Name).Set(float64(table.Len()))
		results = append(results, entities.LoadResult{Source: spec.Name, Table: table})
	}

	return results
}
