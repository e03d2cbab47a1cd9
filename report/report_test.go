package report

import (
	"encoding/json"
	"math"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/vepbench/vepbench/align"
	"github.com/vepbench/vepbench/evaluate"
	"github.com/vepbench/vepbench/metrics"
)

func sampleResult() *evaluate.Result {
	return &evaluate.Result{
		Metrics: []metrics.Record{
			{
				Tool:            "revel",
				N:               100,
				AUROC:           0.91,
				AUPRC:           0.88,
				Brier:           0.12,
				Sensitivity:     0.8,
				Specificity:     0.85,
				PPV:             0.84,
				NPV:             0.81,
				F1:              0.82,
				FisherP:         0.001,
				Threshold:       0.5,
				ThresholdSource: "default",
				Reliability: []metrics.Bin{
					{Low: 0, High: 0.5, MeanScore: 0.2, EmpiricalPos: 0.1, N: 40},
					{Low: 0.5, High: 1, MeanScore: 0.8, EmpiricalPos: 0.9, N: 60},
				},
				CI: map[string]metrics.Interval{
					"auroc": {Low: 0.85, High: 0.95},
				},
			},
			{
				Tool:            "degenerate",
				N:               10,
				AUROC:           math.NaN(),
				AUPRC:           math.NaN(),
				Brier:           math.NaN(),
				Sensitivity:     math.NaN(),
				Specificity:     math.NaN(),
				PPV:             math.NaN(),
				NPV:             math.NaN(),
				F1:              math.NaN(),
				FisherP:         math.NaN(),
				Threshold:       0.5,
				ThresholdSource: "default",
			},
		},
		Coverage: map[string]align.Coverage{
			"revel":      {NScored: 110, NLabeled: 100, NMatched: 100},
			"degenerate": {NScored: 10, NLabeled: 100, NMatched: 10},
		},
		Errors: []evaluate.ToolError{
			{Tool: "degenerate", Kind: "UndefinedMetricError", Message: "labels contain a single class"},
		},
	}
}

func TestWriteMetricsTable(t *testing.T) {
	path := filepath.Join(t.TempDir(), "metrics.tsv")

	if err := WriteMetricsTable(path, sampleResult().Metrics); err != nil {
		t.Fatal(err)
	}

	raw, err := os.ReadFile(path)
	if err != nil {
		t.Fatal(err)
	}
	lines := strings.Split(strings.TrimSpace(string(raw)), "\n")
	if len(lines) != 3 {
		t.Fatalf("expected header + 2 rows, got %d lines", len(lines))
	}

	if !strings.HasPrefix(lines[0], "tool\tn\tauroc") {
		t.Errorf("unexpected header %q", lines[0])
	}
	if !strings.Contains(lines[1], "0.910000") || !strings.Contains(lines[1], "0.850000") {
		t.Errorf("expected formatted metrics and CI bounds in %q", lines[1])
	}

	// Undefined metrics must be empty cells, not NaN text or zeros.
	if strings.Contains(lines[2], "NaN") {
		t.Errorf("NaN leaked into the table: %q", lines[2])
	}
}

func TestWriteMarkdown(t *testing.T) {
	path := filepath.Join(t.TempDir(), "report.md")

	if err := WriteMarkdown(path, sampleResult(), 100); err != nil {
		t.Fatal(err)
	}

	raw, err := os.ReadFile(path)
	if err != nil {
		t.Fatal(err)
	}
	doc := string(raw)

	for _, want := range []string{
		"## Research setting: discrimination",
		"## Clinical setting: operating threshold and calibration",
		"## Issues",
		"UndefinedMetricError",
		"0.910 (0.850, 0.950)",
		"Top-ranked tool:** revel",
		"undefined",
	} {
		if !strings.Contains(doc, want) {
			t.Errorf("report missing %q", want)
		}
	}
}

func TestManifest(t *testing.T) {
	dir := t.TempDir()
	labelPath := filepath.Join(dir, "labels.tsv")
	predPath := filepath.Join(dir, "preds.tsv")
	if err := os.WriteFile(labelPath, []byte("variant_id\tlabel\n1:100:A:T\t1\n"), 0o644); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(predPath, []byte("variant_id\tscore\ttool\n1:100:A:T\t0.9\tT\n"), 0o644); err != nil {
		t.Fatal(err)
	}

	m, err := BuildManifest(sampleResult(), evaluate.DefaultConfig(), labelPath, []string{predPath})
	if err != nil {
		t.Fatal(err)
	}

	if len(m.Labels.SHA256) != 64 {
		t.Errorf("expected a sha256 hex digest, got %q", m.Labels.SHA256)
	}
	if m.Labels.DataRows != 1 {
		t.Errorf("expected 1 label data row, got %d", m.Labels.DataRows)
	}
	if len(m.Predictions) != 1 || m.Predictions[0].DataRows != 1 {
		t.Errorf("unexpected prediction provenance %+v", m.Predictions)
	}
	if m.NTools != 2 {
		t.Errorf("expected 2 tools recorded, got %d", m.NTools)
	}

	outPath := filepath.Join(dir, "manifest.json")
	if err := WriteManifest(outPath, m); err != nil {
		t.Fatal(err)
	}

	raw, err := os.ReadFile(outPath)
	if err != nil {
		t.Fatal(err)
	}
	var parsed map[string]interface{}
	if err := json.Unmarshal(raw, &parsed); err != nil {
		t.Fatalf("manifest is not valid JSON: %v", err)
	}
	if _, ok := parsed["config"]; !ok {
		t.Error("manifest must snapshot the config")
	}
}
