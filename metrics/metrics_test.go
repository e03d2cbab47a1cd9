package metrics

import (
	"errors"
	"math"
	"testing"

	vepbench "github.com/vepbench/vepbench"
	"github.com/vepbench/vepbench/align"
)

func TestComputeOutOfDomainScores(t *testing.T) {
	d := &align.Dataset{
		Tool:   "cadd_raw",
		Scores: []float64{3.4, -1.2, 7.8, 0.5},
		Labels: []int{1, 0, 1, 0},
	}

	rec, issues := Compute(d, DefaultOptions())

	var domain vepbench.CalibrationDomainError
	found := false
	for _, err := range issues {
		if errors.As(err, &domain) {
			found = true
		}
	}
	if !found {
		t.Error("expected a recorded CalibrationDomainError")
	}
	if domain.Tool != "cadd_raw" {
		t.Errorf("expected the error to carry the tool name, got %q", domain.Tool)
	}

	if !math.IsNaN(rec.Brier) {
		t.Errorf("Brier must be NaN when scores leave [0,1], got %v", rec.Brier)
	}
	if rec.Reliability != nil {
		t.Error("reliability bins must be skipped when scores leave [0,1]")
	}

	// Rank metrics do not care about the score domain.
	if math.IsNaN(rec.AUROC) {
		t.Error("AUROC should still be computed for out-of-domain scores")
	}
}

func TestComputeDeclaredUnboundedTool(t *testing.T) {
	opt := DefaultOptions()
	opt.Unbounded = true

	d := &align.Dataset{
		Tool:   "cadd_raw",
		Scores: []float64{3.4, -1.2, 7.8, 0.5},
		Labels: []int{1, 0, 1, 0},
	}

	rec, issues := Compute(d, opt)

	for _, err := range issues {
		var domain vepbench.CalibrationDomainError
		if errors.As(err, &domain) {
			t.Error("a declared unbounded tool must not raise a domain error")
		}
	}
	if !math.IsNaN(rec.Brier) {
		t.Error("calibration metrics are skipped by contract for unbounded tools")
	}
}

func TestComputeRecordsThresholdProvenance(t *testing.T) {
	d := &align.Dataset{
		Tool:   "T",
		Scores: []float64{0.9, 0.1},
		Labels: []int{1, 0},
	}

	rec, _ := Compute(d, DefaultOptions())
	if rec.Threshold != 0.5 || rec.ThresholdSource != "default" {
		t.Errorf("expected default threshold provenance, got %v (%s)", rec.Threshold, rec.ThresholdSource)
	}

	opt := DefaultOptions()
	opt.Threshold = 0.8
	opt.ThresholdSource = "supplied"

	rec, _ = Compute(d, opt)
	if rec.Threshold != 0.8 || rec.ThresholdSource != "supplied" {
		t.Errorf("expected supplied threshold provenance, got %v (%s)", rec.Threshold, rec.ThresholdSource)
	}
}

func TestComputeSingleClassStillCalibrates(t *testing.T) {
	d := &align.Dataset{
		Tool:   "T",
		Scores: []float64{0.9, 0.8, 0.7},
		Labels: []int{1, 1, 1},
	}

	rec, issues := Compute(d, DefaultOptions())

	undefinedMetrics := 0
	for _, err := range issues {
		var undefined vepbench.UndefinedMetricError
		if errors.As(err, &undefined) {
			undefinedMetrics++
			if undefined.Tool != "T" {
				t.Errorf("expected the tool name on the error, got %q", undefined.Tool)
			}
		}
	}
	if undefinedMetrics != 2 {
		t.Errorf("expected undefined AUROC and AUPRC recorded, got %d errors", undefinedMetrics)
	}

	if !math.IsNaN(rec.AUROC) || !math.IsNaN(rec.AUPRC) {
		t.Error("single-class rank metrics must be NaN, not numbers")
	}

	// Brier is still well defined for in-domain scores.
	want := (0.01 + 0.04 + 0.09) / 3
	if math.Abs(rec.Brier-want) > 1e-9 {
		t.Errorf("expected Brier %v, got %v", want, rec.Brier)
	}
}
