package evaluate

import (
	"fmt"
	"math"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"testing"
)

func writeTemp(t *testing.T, name, contents string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	if err := os.WriteFile(path, []byte(contents), 0o644); err != nil {
		t.Fatal(err)
	}
	return path
}

// bigFixture builds a label table and one well-separated submission large
// enough to clear the CI gate.
func bigFixture(t *testing.T, n int) (string, string) {
	t.Helper()

	labels := &strings.Builder{}
	preds := &strings.Builder{}
	labels.WriteString("variant_id\tlabel\n")
	preds.WriteString("variant_id\tscore\ttool\n")

	for i := 0; i < n; i++ {
		id := "1:" + strconv.Itoa(100+i) + ":A:T"
		label := i % 2
		score := 0.1 + 0.05*float64(i%5)
		if label == 1 {
			score += 0.5
		}
		labels.WriteString(id + "\t" + strconv.Itoa(label) + "\n")
		preds.WriteString(id + "\t" + strconv.FormatFloat(score, 'g', -1, 64) + "\tsepTool\n")
	}

	return writeTemp(t, "preds.tsv", preds.String()), writeTemp(t, "labels.tsv", labels.String())
}

func TestRunScenarioPerfectTool(t *testing.T) {
	preds := writeTemp(t, "preds.tsv", "variant_id\tscore\ttool\n1:100:A:T\t0.9\tT\n2:200:C:G\t0.1\tT\n")
	labels := writeTemp(t, "labels.tsv", "variant_id\tlabel\n1:100:A:T\t1\n2:200:C:G\t0\n")

	res, err := Run([]string{preds}, labels, DefaultConfig())
	if err != nil {
		t.Fatal(err)
	}

	if len(res.Metrics) != 1 {
		t.Fatalf("expected 1 evaluated tool, got %d", len(res.Metrics))
	}
	rec := res.Metrics[0]
	if rec.Tool != "T" || rec.AUROC != 1.0 {
		t.Errorf("expected AUROC 1.0 for tool T, got %v for %q", rec.AUROC, rec.Tool)
	}
	if rec.CI != nil {
		t.Error("n=2 must not produce confidence intervals")
	}
}

func TestRunAllPositiveLabels(t *testing.T) {
	preds := writeTemp(t, "preds.tsv", "variant_id\tscore\ttool\n1:100:A:T\t0.9\tT\n2:200:C:G\t0.8\tT\n")
	labels := writeTemp(t, "labels.tsv", "variant_id\tlabel\n1:100:A:T\t1\n2:200:C:G\t1\n")

	res, err := Run([]string{preds}, labels, DefaultConfig())
	if err != nil {
		t.Fatal(err)
	}

	undefined := 0
	for _, te := range res.Errors {
		if te.Kind == "UndefinedMetricError" && te.Tool == "T" {
			undefined++
		}
	}
	if undefined != 2 {
		t.Errorf("expected undefined AUROC and AUPRC recorded, got %d", undefined)
	}

	rec := res.Metrics[0]
	if !math.IsNaN(rec.AUROC) {
		t.Errorf("expected NaN AUROC, got %v", rec.AUROC)
	}
	if math.IsNaN(rec.Brier) {
		t.Error("Brier should still be computed for in-domain scores")
	}
}

func TestRunNoOverlapTool(t *testing.T) {
	preds := writeTemp(t, "preds.tsv",
		"variant_id\tscore\ttool\n9:900:G:A\t0.9\tOrphan\n1:100:A:T\t0.9\tGood\n2:200:C:G\t0.1\tGood\n")
	labels := writeTemp(t, "labels.tsv", "variant_id\tlabel\n1:100:A:T\t1\n2:200:C:G\t0\n")

	res, err := Run([]string{preds}, labels, DefaultConfig())
	if err != nil {
		t.Fatal(err)
	}

	if cov := res.Coverage["Orphan"]; cov.NMatched != 0 {
		t.Errorf("expected Orphan in coverage with 0 matches, got %+v", cov)
	}

	for _, rec := range res.Metrics {
		if rec.Tool == "Orphan" {
			t.Error("a no-overlap tool must not appear in the metrics table")
		}
	}

	found := false
	for _, te := range res.Errors {
		if te.Tool == "Orphan" && te.Kind == "NoOverlapError" {
			found = true
		}
	}
	if !found {
		t.Errorf("expected a NoOverlapError for Orphan, got %v", res.Errors)
	}
}

func TestRunDeterminism(t *testing.T) {
	preds, labels := bigFixture(t, 120)

	cfg := DefaultConfig()
	cfg.BootstrapDraws = 300

	first, err := Run([]string{preds}, labels, cfg)
	if err != nil {
		t.Fatal(err)
	}
	second, err := Run([]string{preds}, labels, cfg)
	if err != nil {
		t.Fatal(err)
	}

	// Formatted comparison: NaN fields in empty reliability bins would
	// defeat reflect.DeepEqual even for identical runs.
	if fmt.Sprintf("%+v", first.Metrics) != fmt.Sprintf("%+v", second.Metrics) {
		t.Error("two runs with the same inputs and seed must produce identical metrics")
	}
	if first.Metrics[0].CI == nil {
		t.Error("expected confidence intervals at n=120")
	}
}

func TestRunSuppliedThreshold(t *testing.T) {
	preds := writeTemp(t, "preds.tsv", "variant_id\tscore\ttool\n1:100:A:T\t0.9\tT\n2:200:C:G\t0.1\tT\n")
	labels := writeTemp(t, "labels.tsv", "variant_id\tlabel\n1:100:A:T\t1\n2:200:C:G\t0\n")

	cfg := DefaultConfig()
	cfg.Threshold = 0.95
	cfg.ThresholdSet = true

	res, err := Run([]string{preds}, labels, cfg)
	if err != nil {
		t.Fatal(err)
	}

	rec := res.Metrics[0]
	if rec.Threshold != 0.95 || rec.ThresholdSource != "supplied" {
		t.Errorf("expected supplied threshold recorded, got %v (%s)", rec.Threshold, rec.ThresholdSource)
	}
	// At 0.95 nothing is called positive.
	if rec.Sensitivity != 0 {
		t.Errorf("expected sensitivity 0 at threshold 0.95, got %v", rec.Sensitivity)
	}
	if !math.IsNaN(rec.PPV) {
		t.Errorf("expected NaN PPV with zero predicted positives, got %v", rec.PPV)
	}
}

func TestRunSortsBestFirst(t *testing.T) {
	preds := writeTemp(t, "preds.tsv", strings.Join([]string{
		"variant_id\tscore\ttool",
		"1:100:A:T\t0.1\tinverted", // scores anti-correlated with labels
		"2:200:C:G\t0.9\tinverted",
		"1:100:A:T\t0.9\tperfect",
		"2:200:C:G\t0.1\tperfect",
		"",
	}, "\n"))
	labels := writeTemp(t, "labels.tsv", "variant_id\tlabel\n1:100:A:T\t1\n2:200:C:G\t0\n")

	res, err := Run([]string{preds}, labels, DefaultConfig())
	if err != nil {
		t.Fatal(err)
	}

	if len(res.Metrics) != 2 || res.Metrics[0].Tool != "perfect" || res.Metrics[1].Tool != "inverted" {
		t.Errorf("expected [perfect inverted] ordering, got %v", res.Metrics)
	}
}

func TestRunUnboundedToolConfig(t *testing.T) {
	preds := writeTemp(t, "preds.tsv", "variant_id\tscore\ttool\n1:100:A:T\t12.5\traw\n2:200:C:G\t-3.1\traw\n")
	labels := writeTemp(t, "labels.tsv", "variant_id\tlabel\n1:100:A:T\t1\n2:200:C:G\t0\n")

	cfg := DefaultConfig()
	cfg.UnboundedTools = map[string]bool{"raw": true}

	res, err := Run([]string{preds}, labels, cfg)
	if err != nil {
		t.Fatal(err)
	}

	for _, te := range res.Errors {
		if te.Kind == "CalibrationDomainError" {
			t.Errorf("declared unbounded tool should not raise a domain error: %v", te)
		}
	}
	if res.Metrics[0].AUROC != 1.0 {
		t.Errorf("rank metrics should be unaffected, got AUROC %v", res.Metrics[0].AUROC)
	}
}
