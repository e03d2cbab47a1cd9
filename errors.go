package vepbench

import "fmt"

// Error taxonomy for the evaluation pipeline. Load-time problems
// (MalformedVariantError, SchemaError, EmptyDatasetError) abort the load of
// the file that produced them: a partially-parsed truth set or submission is
// worse than none. Per-tool problems (NoOverlapError, UndefinedMetricError,
// CalibrationDomainError) are recorded against the offending tool and never
// abort evaluation of the remaining tools.

// MalformedVariantError reports a variant key field that could not be
// normalized into a VariantKey.
type MalformedVariantError struct {
	Field string
	Value string
}

func (e MalformedVariantError) Error() string {
	return fmt.Sprintf("malformed variant: bad %s %q", e.Field, e.Value)
}

// SchemaError reports a structural problem in an input table: a missing
// required column, a non-numeric score, a bad label, or a malformed variant
// identifier. Row is the 1-based data row (0 means the header itself).
type SchemaError struct {
	File   string
	Row    int
	Reason string
	Err    error
}

func (e SchemaError) Error() string {
	if e.Row > 0 {
		return fmt.Sprintf("%s: row %d: %s", e.File, e.Row, e.Reason)
	}
	return fmt.Sprintf("%s: %s", e.File, e.Reason)
}

func (e SchemaError) Unwrap() error { return e.Err }

// EmptyDatasetError reports a table with zero usable data rows.
type EmptyDatasetError struct {
	File string
}

func (e EmptyDatasetError) Error() string {
	return fmt.Sprintf("%s: no data rows", e.File)
}

// NoOverlapError reports a tool whose scored variants share no keys with the
// truth set. The tool is skipped; the run continues.
type NoOverlapError struct {
	Tool string
}

func (e NoOverlapError) Error() string {
	return fmt.Sprintf("tool %q: no scored variants overlap the truth set", e.Tool)
}

// UndefinedMetricError reports a metric that cannot be computed for a tool,
// typically because the matched labels contain a single class.
type UndefinedMetricError struct {
	Tool   string
	Metric string
	Reason string
}

func (e UndefinedMetricError) Error() string {
	return fmt.Sprintf("tool %q: %s undefined: %s", e.Tool, e.Metric, e.Reason)
}

// CalibrationDomainError reports a score outside [0,1] for a tool that did
// not declare an unbounded score domain. Calibration metrics are skipped for
// that tool; rank metrics are unaffected.
type CalibrationDomainError struct {
	Tool  string
	Score float64
}

func (e CalibrationDomainError) Error() string {
	return fmt.Sprintf("tool %q: score %v outside [0,1]; calibration metrics skipped", e.Tool, e.Score)
}
