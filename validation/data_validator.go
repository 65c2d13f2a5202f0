// Package validation provides data validation functionality for the merged MKB-10 table.
package validation

import (
	"fmt"
	"regexp"
	"strings"
	"unicode/utf8"

	"github.com/giygas/mkb-merge/interfaces"
	"github.com/giygas/mkb-merge/logging"
	"github.com/giygas/mkb-merge/mkbparser/entities"
)

// Pre-compiled once at package initialization and reused for all validations
var codeRegex = regexp.MustCompile(`^[A-Z]\d{2}(\.\d{1,2})?$`)

// longDescriptionLength is the size, in characters, above which a description is reported as long
const longDescriptionLength = 1000

// reportSampleSize caps the codes listed in a quality report
const reportSampleSize = 10

// IsCanonicalCode reports whether code is a canonical MKB-10 code (A00, A00.0, A00.00)
func IsCanonicalCode(code string) bool {
	return codeRegex.MatchString(code)
}

// DataValidatorImpl implements the interfaces.DataValidator interface
type DataValidatorImpl struct{}

// NewDataValidator creates a new data validator
func NewDataValidator() interfaces.DataValidator {
	return &DataValidatorImpl{}
}

// ValidateCode checks that a code is in canonical MKB-10 form
func (v *DataValidatorImpl) ValidateCode(code string) error {
	if code == "" {
		return fmt.Errorf("code cannot be empty")
	}
	if !IsCanonicalCode(code) {
		return fmt.Errorf("invalid MKB-10 code: %q", code)
	}
	return nil
}

// ValidateRecord checks if a merged record is valid
func (v *DataValidatorImpl) ValidateRecord(r *entities.Record) error {
	if r == nil {
		return fmt.Errorf("record is nil")
	}

	if err := v.ValidateCode(r.Code); err != nil {
		return err
	}

	for i, field := range r.Fields()[1:] {
		column := entities.OutputColumns[i+1]
		if !utf8.ValidString(field) {
			return fmt.Errorf("%s of %s is not valid UTF-8", column, r.Code)
		}
	}

	return nil
}

func (v *DataValidatorImpl) CheckDuplicateCodes(records []entities.Record) error {
	codeCount := make(map[string]int, len(records))
	for _, rec := range records {
		codeCount[rec.Code]++
	}

	var duplicates []string
	for code, count := range codeCount {
		if count > 1 {
			duplicates = append(duplicates, code)
		}
	}

	if len(duplicates) > 0 {
		logging.Error("Duplicate codes detected",
			"count", len(duplicates),
			"duplicates", duplicates,
		)
		return fmt.Errorf("found %d duplicate codes", len(duplicates))
	}

	return nil
}

// ValidateDataIntegrity checks the invariants of the final table: it is not empty,
// codes are unique, every record is valid, and codes are ascending.
func (v *DataValidatorImpl) ValidateDataIntegrity(records []entities.Record) error {
	if len(records) == 0 {
		return fmt.Errorf("no records found")
	}

	if err := v.CheckDuplicateCodes(records); err != nil {
		return fmt.Errorf("duplicate code check failed: %w", err)
	}

	for i := range records {
		if err := v.ValidateRecord(&records[i]); err != nil {
			return fmt.Errorf("invalid record at row %d: %w", i, err)
		}

		if i == 0 {
			continue
		}
		prev, cur := records[i-1].Code, records[i].Code
		if prev > cur {
			return fmt.Errorf("records not sorted: %s before %s", prev, cur)
		}
	}

	return nil
}

func (v *DataValidatorImpl) ReportDataQuality(records []entities.Record) *interfaces.DataQualityReport {
	report := &interfaces.DataQualityReport{
		TotalRecords:   len(records),
		DuplicateCodes: []string{},
		InvalidCodes:   []string{},
	}

	seen := make(map[string]bool, len(records))
	for _, rec := range records {
		if seen[rec.Code] && len(report.DuplicateCodes) < reportSampleSize {
			report.DuplicateCodes = append(report.DuplicateCodes, rec.Code)
		}
		seen[rec.Code] = true

		if !IsCanonicalCode(rec.Code) && len(report.InvalidCodes) < reportSampleSize {
			report.InvalidCodes = append(report.InvalidCodes, rec.Code)
		}

		missing := 0
		if strings.TrimSpace(rec.DiagnosisEN) == "" {
			report.MissingEnglish++
			missing++
		}
		if strings.TrimSpace(rec.DiagnosisSRLatn) == "" {
			report.MissingSerbianLatin++
			missing++
		}
		if strings.TrimSpace(rec.DiagnosisRU) == "" {
			report.MissingRussian++
			missing++
		}
		if strings.TrimSpace(rec.DiagnosisLat) == "" {
			report.MissingLatin++
			missing++
		}

		for _, field := range rec.Fields()[1:] {
			if utf8.RuneCountInString(field) > longDescriptionLength {
				report.LongDescriptions++
				break
			}
		}

		switch missing {
		case 0:
			report.CompleteRecords++
		case 4:
			report.WithoutAnyDescription++
		}
	}

	return report
}
