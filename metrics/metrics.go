// Package metrics computes discrimination, calibration, and thresholded
// performance statistics for one tool's matched (score, label) dataset,
// with bootstrap confidence intervals when the sample is large enough.
package metrics

import (
	"math"

	vepbench "github.com/vepbench/vepbench"
	"github.com/vepbench/vepbench/align"
)

// Options controls a single tool's evaluation. Seed is the per-tool stream
// seed, already derived from the run seed (see SeedForTool).
type Options struct {
	Threshold       float64
	ThresholdSource string // "default" or "supplied"
	ReliabilityBins int
	BootstrapDraws  int
	MinimumNForCI   int
	Seed            int64
	Unbounded       bool // tool declared an unbounded score domain
}

// DefaultOptions returns the stock evaluation settings.
func DefaultOptions() Options {
	return Options{
		Threshold:       0.5,
		ThresholdSource: "default",
		ReliabilityBins: 10,
		BootstrapDraws:  1000,
		MinimumNForCI:   50,
		Seed:            42,
	}
}

// Record is the full metric set for one tool. Undefined values are NaN,
// never a silently fabricated 0 or 1. CI is nil when the sample was below
// MinimumNForCI: "not computed" is distinct from "computed and wide".
// Reliability is nil when calibration metrics were skipped.
type Record struct {
	Tool string
	N    int

	AUROC float64
	AUPRC float64
	Brier float64

	Sensitivity float64
	Specificity float64
	PPV         float64
	NPV         float64
	F1          float64
	FisherP     float64

	Threshold       float64
	ThresholdSource string

	Reliability []Bin
	CI          map[string]Interval
}

// Compute evaluates one aligned dataset. Per-tool problems (single-class
// labels, out-of-domain scores) are returned alongside the record rather
// than aborting it: the remaining metrics are still filled in.
func Compute(d *align.Dataset, opt Options) (Record, []error) {
	rec := Record{
		Tool:            d.Tool,
		N:               d.Len(),
		AUROC:           math.NaN(),
		AUPRC:           math.NaN(),
		Brier:           math.NaN(),
		Threshold:       opt.Threshold,
		ThresholdSource: opt.ThresholdSource,
	}

	var issues []error

	auroc, err := AUROC(d.Scores, d.Labels)
	rec.AUROC = auroc
	if err != nil {
		issues = append(issues, withTool(err, d.Tool))
	}

	auprc, err := AUPRC(d.Scores, d.Labels)
	rec.AUPRC = auprc
	if err != nil {
		issues = append(issues, withTool(err, d.Tool))
	}

	// Calibration metrics treat scores as probabilities. A tool that
	// declared an unbounded domain skips them by contract; a tool that did
	// not, but strays outside [0,1], skips them with a recorded error.
	calibrated := !opt.Unbounded
	if calibrated {
		if bad, outside := scoreDomainViolation(d.Scores); outside {
			calibrated = false
			issues = append(issues, vepbench.CalibrationDomainError{Tool: d.Tool, Score: bad})
		}
	}
	if calibrated && d.Len() > 0 {
		rec.Brier = Brier(d.Scores, d.Labels)
		rec.Reliability = Reliability(d.Scores, d.Labels, opt.ReliabilityBins)
	}

	c := Threshold(d.Scores, d.Labels, opt.Threshold)
	rec.Sensitivity = c.Sensitivity()
	rec.Specificity = c.Specificity()
	rec.PPV = c.PPV()
	rec.NPV = c.NPV()
	rec.F1 = c.F1()
	rec.FisherP = c.FisherP()

	if d.Len() >= opt.MinimumNForCI && opt.BootstrapDraws > 0 {
		rec.CI = bootstrapCIs(d.Scores, d.Labels, rec, opt, calibrated)
	}

	return rec, issues
}

func withTool(err error, tool string) error {
	if u, ok := err.(vepbench.UndefinedMetricError); ok {
		u.Tool = tool
		return u
	}
	return err
}

func scoreDomainViolation(scores []float64) (float64, bool) {
	for _, s := range scores {
		if s < 0 || s > 1 || math.IsNaN(s) {
			return s, true
		}
	}
	return 0, false
}

func classCounts(labels []int) (nPos, nNeg int) {
	for _, l := range labels {
		if l == 1 {
			nPos++
		} else {
			nNeg++
		}
	}
	return nPos, nNeg
}
