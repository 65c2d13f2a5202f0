// Package mkbparser loads, normalizes and merges the MKB-10 source files into one table.
package mkbparser

import (
	"errors"
	"fmt"
	"strings"

	"github.com/BurntSushi/toml"
	"github.com/giygas/mkb-merge/mkbparser/entities"
)

// DefaultSources returns the layouts of english.txt, serbian.csv and russian.csv, in merge order
func DefaultSources() []entities.SourceSpec {
	return []entities.SourceSpec{
		{
			Name:      "English",
			File:      "english.txt",
			Delimiter: ";",
			Fields: []entities.FieldSelector{
				{Index: 6, As: entities.ColumnCode},
				{Index: 8, As: entities.ColumnDiagnosisEN},
			},
		},
		{
			Name:      "Serbian",
			File:      "serbian.csv",
			Delimiter: ",",
			HasHeader: true,
			Fields: []entities.FieldSelector{
				{Column: "code", As: entities.ColumnCode},
				{Column: "diagnosis_sr", As: entities.ColumnDiagnosisSRLatn},
				{Column: "diagnosis_lat", As: entities.ColumnDiagnosisLat},
			},
		},
		{
			Name:      "Russian",
			File:      "russian.csv",
			Delimiter: ",",
			Fields: []entities.FieldSelector{
				{Index: 2, As: entities.ColumnCode},
				{Index: 3, As: entities.ColumnDiagnosisRU},
			},
		},
	}
}

type sourceManifest struct {
	Sources []entities.SourceSpec `toml:"source"`
}

// LoadSourceManifest reads source layouts from a TOML file of [[source]] tables.
// The manifest replaces the default layouts entirely.
func LoadSourceManifest(path string) ([]entities.SourceSpec, error) {
	var m sourceManifest
	meta, err := toml.DecodeFile(path, &m)
	if err != nil {
		return nil, fmt.Errorf("failed to read sources manifest %s: %w", path, err)
	}

	if undecoded := meta.Undecoded(); len(undecoded) > 0 {
		keys := make([]string, len(undecoded))
		for i, k := range undecoded {
			keys[i] = k.String()
		}
		return nil, fmt.Errorf("unknown keys in sources manifest %s: %s", path, strings.Join(keys, ", "))
	}

	if err := ValidateSources(m.Sources); err != nil {
		return nil, fmt.Errorf("invalid sources manifest %s: %w", path, err)
	}

	return m.Sources, nil
}

// ValidateSources checks every spec and that names and non-key columns do not collide
func ValidateSources(specs []entities.SourceSpec) error {
	if len(specs) == 0 {
		return errors.New("no sources defined")
	}

	names := make(map[string]bool, len(specs))
	columns := make(map[string]string)
	for _, spec := range specs {
		if err := spec.Validate(); err != nil {
			return err
		}
		if names[spec.Name] {
			return fmt.Errorf("source %s defined twice", spec.Name)
		}
		names[spec.Name] = true

		if spec.Encoding != "" {
			if _, err := lookupEncoding(spec.Encoding); err != nil {
				return fmt.Errorf("source %s: %w", spec.Name, err)
			}
		}

		for _, col := range spec.Columns() {
			if col == entities.ColumnCode {
				continue
			}
			if other, ok := columns[col]; ok {
				return fmt.Errorf("column %q produced by both %s and %s", col, other, spec.Name)
			}
			columns[col] = spec.Name
		}
	}

	return nil
}
