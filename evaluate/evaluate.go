// Package evaluate ties the pipeline together: load submissions and truth
// labels, align them, and compute per-tool metrics. The whole run is a pure
// function of the input files and the config, so two runs with the same
// inputs and seed produce identical results.
package evaluate

import (
	"errors"
	"math"
	"sort"

	vepbench "github.com/vepbench/vepbench"
	"github.com/vepbench/vepbench/align"
	"github.com/vepbench/vepbench/metrics"
	"github.com/vepbench/vepbench/predparser"
	"github.com/vepbench/vepbench/truth"
)

// Config carries the run-wide evaluation settings. UnboundedTools names
// tools whose scores are declared not to be probabilities; calibration
// metrics are skipped for them without raising a domain error.
type Config struct {
	Threshold       float64 `json:"threshold"`
	ThresholdSet    bool    `json:"threshold_supplied"`
	BootstrapDraws  int     `json:"bootstrap_draws"`
	MinimumNForCI   int     `json:"minimum_n_for_ci"`
	ReliabilityBins int     `json:"reliability_bins"`
	RandomSeed      int64   `json:"random_seed"`

	UnboundedTools map[string]bool `json:"unbounded_tools,omitempty"`
}

// DefaultConfig returns the stock run settings. The fixed seed keeps
// benchmark runs reproducible by default.
func DefaultConfig() Config {
	return Config{
		Threshold:       0.5,
		BootstrapDraws:  1000,
		MinimumNForCI:   50,
		ReliabilityBins: 10,
		RandomSeed:      42,
	}
}

// ToolError is one recorded per-tool problem. Kind is the error type name
// from the taxonomy (NoOverlapError, UndefinedMetricError,
// CalibrationDomainError).
type ToolError struct {
	Tool    string `json:"tool"`
	Kind    string `json:"kind"`
	Message string `json:"message"`
}

// Result is the engine's full output: best-effort metrics for every
// evaluable tool, coverage for every tool seen, and the explicit error list.
// Degraded tools never silently leak numbers into Metrics.
type Result struct {
	Metrics  []metrics.Record
	Coverage map[string]align.Coverage
	Errors   []ToolError
}

// Run evaluates every tool found in predictionPaths against the labels at
// labelPath. Load failures abort the run; per-tool failures are recorded in
// the result and do not disturb the other tools.
func Run(predictionPaths []string, labelPath string, cfg Config) (*Result, error) {
	labels, err := truth.Load(labelPath)
	if err != nil {
		return nil, err
	}

	preds, err := predparser.Load(predictionPaths)
	if err != nil {
		return nil, err
	}

	return run(preds, labels, cfg), nil
}

func run(preds *predparser.Store, labels *truth.Set, cfg Config) *Result {
	aligned := align.Align(preds, labels)

	res := &Result{Coverage: aligned.Coverage}
	for _, err := range aligned.Errors {
		res.record(err)
	}

	source := "default"
	if cfg.ThresholdSet {
		source = "supplied"
	}

	for _, tool := range preds.Tools() {
		d := aligned.Datasets[tool]
		if d.Len() == 0 {
			// Already recorded as NoOverlapError; nothing to compute.
			continue
		}

		opt := metrics.Options{
			Threshold:       cfg.Threshold,
			ThresholdSource: source,
			ReliabilityBins: cfg.ReliabilityBins,
			BootstrapDraws:  cfg.BootstrapDraws,
			MinimumNForCI:   cfg.MinimumNForCI,
			Seed:            metrics.SeedForTool(cfg.RandomSeed, tool),
			Unbounded:       cfg.UnboundedTools[tool],
		}

		rec, issues := metrics.Compute(d, opt)
		res.Metrics = append(res.Metrics, rec)
		for _, err := range issues {
			res.record(err)
		}
	}

	sortRecords(res.Metrics)

	return res
}

func (r *Result) record(err error) {
	te := ToolError{Message: err.Error()}

	var noOverlap vepbench.NoOverlapError
	var undefined vepbench.UndefinedMetricError
	var domain vepbench.CalibrationDomainError

	switch {
	case errors.As(err, &noOverlap):
		te.Tool = noOverlap.Tool
		te.Kind = "NoOverlapError"
	case errors.As(err, &undefined):
		te.Tool = undefined.Tool
		te.Kind = "UndefinedMetricError"
	case errors.As(err, &domain):
		te.Tool = domain.Tool
		te.Kind = "CalibrationDomainError"
	default:
		te.Kind = "Error"
	}

	r.Errors = append(r.Errors, te)
}

// sortRecords orders tools best-first by AUROC, then AUPRC, with undefined
// values after any defined value and ties broken by tool name for a stable
// table.
func sortRecords(recs []metrics.Record) {
	sort.SliceStable(recs, func(i, j int) bool {
		if c := compareDesc(recs[i].AUROC, recs[j].AUROC); c != 0 {
			return c < 0
		}
		if c := compareDesc(recs[i].AUPRC, recs[j].AUPRC); c != 0 {
			return c < 0
		}
		return recs[i].Tool < recs[j].Tool
	})
}

// compareDesc orders descending with NaN after every number; two NaNs
// compare equal.
func compareDesc(a, b float64) int {
	switch {
	case math.IsNaN(a) && math.IsNaN(b):
		return 0
	case math.IsNaN(a):
		return 1
	case math.IsNaN(b):
		return -1
	case a > b:
		return -1
	case a < b:
		return 1
	}
	return 0
}
