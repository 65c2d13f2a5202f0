package mkbparser

import (
	"context"
	"errors"
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/giygas/mkb-merge/interfaces"
	"github.com/giygas/mkb-merge/logging"
	"github.com/giygas/mkb-merge/metrics"
	"github.com/giygas/mkb-merge/mkbparser/entities"
	"github.com/giygas/mkb-merge/validation"
)

// ErrIncompleteSources is returned when not every source loaded, so nothing is merged
var ErrIncompleteSources = errors.New("not all data files were loaded successfully")

// DefaultSampleRows is the number of rows printed after a successful write
const DefaultSampleRows = 5

// Result is the finalized table and what it took to build it
type Result struct {
	Records    []entities.Record
	MergedRows int
	Stats      FinalizeStats
}

// Transform merges loaded sources and finalizes the result. It touches no files.
// Every result must be loaded, otherwise ErrIncompleteSources is returned.
func Transform(results []entities.LoadResult, policy DedupePolicy) (*Result, error) {
	tables, err := loadedTables(results)
	if err != nil {
		return nil, err
	}
	return mergeAndFinalize(tables, policy)
}

// loadedTables returns the tables of results in order, or ErrIncompleteSources
// naming every source that failed
func loadedTables(results []entities.LoadResult) ([]*entities.Table, error) {
	if len(results) == 0 {
		return nil, fmt.Errorf("%w: no sources", ErrIncompleteSources)
	}

	tables := make([]*entities.Table, 0, len(results))
	var failed []string
	for _, r := range results {
		if !r.Loaded() {
			failed = append(failed, r.Source)
			continue
		}
		tables = append(tables, r.Table)
	}
	if len(failed) > 0 {
		return nil, fmt.Errorf("%w: failed sources: %s", ErrIncompleteSources, strings.Join(failed, ", "))
	}
	return tables, nil
}

func mergeAndFinalize(tables []*entities.Table, policy DedupePolicy) (*Result, error) {
	merged, err := Merge(entities.ColumnCode, tables...)
	if err != nil {
		return nil, fmt.Errorf("failed to merge sources: %w", err)
	}

	records, stats := Finalize(merged, policy)
	return &Result{
		Records:    records,
		MergedRows: merged.Len(),
		Stats:      stats,
	}, nil
}

// Options configure Run
type Options struct {
	Sources    []entities.SourceSpec
	Loader     interfaces.SourceLoader
	OutputFile string
	Policy     DedupePolicy
	Validator  interfaces.DataValidator
	Reporter   *Reporter
	SampleRows int
}

func (o *Options) setDefaults() {
	if o.Sources == nil {
		o.Sources = DefaultSources()
	}
	if o.Policy == "" {
		o.Policy = DedupeFirst
	}
	if o.Validator == nil {
		o.Validator = validation.NewDataValidator()
	}
	if o.Reporter == nil {
		o.Reporter = NewReporter(io.Discard, "off")
	}
	if o.SampleRows == 0 {
		o.SampleRows = DefaultSampleRows
	}
}

// Run loads every source, merges them when all loaded, validates the table and
// writes it to OutputFile. Status lines go to the reporter. Nothing is written
// when a source failed, validation failed, or ctx is cancelled before the write.
func Run(ctx context.Context, opts Options) (*Result, error) {
	if opts.Loader == nil {
		return nil, errors.New("no source loader configured")
	}
	if opts.OutputFile == "" {
		return nil, errors.New("no output file configured")
	}
	opts.setDefaults()
	rep := opts.Reporter
	start := time.Now()

	rep.Section("Starting Data Processing")
	results := LoadAll(opts.Loader, opts.Sources, rep)

	if err := ctx.Err(); err != nil {
		return nil, fmt.Errorf("run cancelled: %w", err)
	}

	tables, err := loadedTables(results)
	if err != nil {
		rep.Section("Merge Aborted: Not all data files were loaded successfully.")
		logging.Error("Merge aborted", "error", err)
		return nil, err
	}

	rep.Section("Merging Tables")
	result, err := mergeAndFinalize(tables, opts.Policy)
	if err != nil {
		rep.Failure("Could not merge data files: %v", err)
		logging.Error("Merge failed", "error", err)
		return nil, err
	}
	recordStats(result.Stats)
	logging.Info("Merge completed",
		"merged_rows", result.MergedRows,
		"empty_codes", result.Stats.EmptyCode,
		"invalid_codes", result.Stats.InvalidCode,
		"duplicates", result.Stats.Duplicates,
		"policy", string(opts.Policy),
		"output_rows", result.Stats.OutputRows)

	if len(result.Records) == 0 {
		logging.Warn("No valid codes left after finalizing, writing header only")
	} else if err := opts.Validator.ValidateDataIntegrity(result.Records); err != nil {
		rep.Failure("Merged table failed validation: %v", err)
		logging.Error("Data integrity validation failed", "error", err)
		return result, fmt.Errorf("merged table failed validation: %w", err)
	}
	report := opts.Validator.ReportDataQuality(result.Records)
	logging.Info("Data quality report",
		"total", report.TotalRecords,
		"complete", report.CompleteRecords,
		"missing_en", report.MissingEnglish,
		"missing_sr_latn", report.MissingSerbianLatin,
		"missing_ru", report.MissingRussian,
		"missing_lat", report.MissingLatin,
		"without_description", report.WithoutAnyDescription,
		"long_descriptions", report.LongDescriptions)

	if err := ctx.Err(); err != nil {
		return result, fmt.Errorf("run cancelled: %w", err)
	}

	if err := WriteFile(opts.OutputFile, result.Records); err != nil {
		rep.Failure("Could not write to output file: %v", err)
		logging.Error("Output write failed", "file", opts.OutputFile, "error", err)
		return result, err
	}

	metrics.OutputRows.Set(float64(len(result.Records)))
	metrics.LastSuccess.SetToCurrentTime()

	rep.Printf("\n")
	rep.Success("Created merged file at: %s", opts.OutputFile)
	rep.Printf("Total unique codes processed: %d\n", len(result.Records))
	rep.Section(fmt.Sprintf("Final Sample (first %d rows)", opts.SampleRows))
	rep.Printf("%s", FormatSample(result.Records, opts.SampleRows))

	logging.Info("Output written",
		"file", opts.OutputFile,
		"records", len(result.Records),
		"duration", time.Since(start).String())

	return result, nil
}

func recordStats(stats FinalizeStats) {
	metrics.RowsDropped.WithLabelValues(metrics.ReasonEmptyCode).Add(float64(stats.EmptyCode))
	metrics.RowsDropped.WithLabelValues(metrics.ReasonInvalidCode).Add(float64(stats.InvalidCode))
	metrics.RowsDropped.WithLabelValues(metrics.ReasonDuplicate).Add(float64(stats.Duplicates))
}
