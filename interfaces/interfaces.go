// Package interfaces defines core abstractions for the MKB-10 merge pipeline
// to improve testability and separation of concerns.
package interfaces

import (
	"github.com/giygas/mkb-merge/mkbparser/entities"
)

// DataQualityReport provides a summary of data quality issues in a merged table
type DataQualityReport struct {
	TotalRecords          int
	CompleteRecords       int // Records with a description in every language
	MissingEnglish        int
	MissingSerbianLatin   int
	MissingRussian        int
	MissingLatin          int
	WithoutAnyDescription int
	LongDescriptions      int // Records with a description over 1000 characters
	DuplicateCodes        []string
	InvalidCodes          []string
}

// SourceLoader defines the contract for reading one source into a table.
// Implementations normalize the code column before returning.
type SourceLoader interface {
	Load(spec entities.SourceSpec) (*entities.Table, error)
}

// DataValidator defines the contract for data validation operations.
// It ensures the merged table is safe to publish.
type DataValidator interface {
	// ValidateCode checks that a code is in canonical MKB-10 form
	ValidateCode(code string) error

	// ValidateRecord checks a single merged record
	ValidateRecord(r *entities.Record) error

	// CheckDuplicateCodes validates that codes are unique
	CheckDuplicateCodes(records []entities.Record) error

	// ValidateDataIntegrity performs comprehensive validation of the final table
	ValidateDataIntegrity(records []entities.Record) error

	// ReportDataQuality generates a data quality report with all issues found
	ReportDataQuality(records []entities.Record) *DataQualityReport
}
