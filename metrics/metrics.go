// Package metrics provides Prometheus metrics for a merge run.
// It exports:
//   - mkb_source_rows: Gauge of rows loaded per source
//   - mkb_source_load_failures_total: Counter of failed loads per source
//   - mkb_rows_dropped_total: Counter of rows removed by the finalizer, by reason
//   - mkb_output_rows: Gauge of rows written to the output table
//   - mkb_run_duration_seconds: Gauge of the last run duration
//   - mkb_last_success_timestamp_seconds: Gauge set when an output file is written
//
// The tool exits after one run, so metrics are not served; they are written to a
// node_exporter textfile with WriteTextfile.
package metrics

import "github.com/prometheus/client_golang/prometheus"

// Reasons used with RowsDropped
const (
	ReasonEmptyCode   = "empty_code"
	ReasonInvalidCode = "invalid_code"
	ReasonDuplicate   = "duplicate"
)

var Registry = prometheus.NewRegistry()

var (
	SourceRows = prometheus.NewGaugeVec(
		prometheus.GaugeOpts{
			Name: "mkb_source_rows",
			Help: "Rows loaded from each source file",
		},
		[]string{"source"},
	)

	SourceLoadFailures = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "mkb_source_load_failures_total",
			Help: "Source files that could not be loaded",
		},
		[]string{"source"},
	)

	RowsDropped = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "mkb_rows_dropped_total",
			Help: "Merged rows removed before writing the output",
		},
		[]string{"reason"},
	)

	OutputRows = prometheus.NewGauge(
		prometheus.GaugeOpts{
			Name: "mkb_output_rows",
			Help: "Unique codes written to the output table",
		},
	)

	RunDuration = prometheus.NewGauge(
		prometheus.GaugeOpts{
			Name: "mkb_run_duration_seconds",
			Help: "Duration of the last merge run",
		},
	)

	LastSuccess = prometheus.NewGauge(
		prometheus.GaugeOpts{
			Name: "mkb_last_success_timestamp_seconds",
			Help: "Unix time of the last successful output write",
		},
	)
)

func init() {
	Registry.MustRegister(SourceRows)
	Registry.MustRegister(SourceLoadFailures)
	Registry.MustRegister(RowsDropped)
	Registry.MustRegister(OutputRows)
	Registry.MustRegister(RunDuration)
	Registry.MustRegister(LastSuccess)
}

// WriteTextfile writes all collectors in the Prometheus text format
func WriteTextfile(path string) error {
	return prometheus.WriteToTextfile(path, Registry)
}
