package report

import (
	"fmt"
	"math"
	"os"
	"sort"
	"strings"

	"github.com/carbocation/pfx"
	"github.com/vepbench/vepbench/evaluate"
	"github.com/vepbench/vepbench/metrics"
)

// WriteMarkdown renders the narrative document. Metrics are grouped into a
// research lens (discrimination with confidence intervals) and a clinical
// lens (operating-threshold and calibration metrics). Recorded per-tool
// problems get their own prominent section rather than being folded into
// missing table cells.
func WriteMarkdown(path string, res *evaluate.Result, nVariants int) error {
	b := &strings.Builder{}

	fmt.Fprintf(b, "# Variant-effect prediction benchmark\n\n")
	fmt.Fprintf(b, "- Labeled variants: **%d**\n", nVariants)
	fmt.Fprintf(b, "- Tools evaluated: **%d**\n\n", len(res.Metrics))

	writeResearchSection(b, res.Metrics)
	writeClinicalSection(b, res.Metrics)
	writeCoverageSection(b, res)
	writeIssuesSection(b, res.Errors)
	writeSummary(b, res.Metrics)

	return pfx.Err(os.WriteFile(path, []byte(b.String()), 0o644))
}

func writeResearchSection(b *strings.Builder, recs []metrics.Record) {
	fmt.Fprintf(b, "## Research setting: discrimination\n\n")
	fmt.Fprintf(b, "| tool | n | AUROC (95%% CI) | AUPRC (95%% CI) |\n")
	fmt.Fprintf(b, "|---|---|---|---|\n")
	for _, rec := range recs {
		fmt.Fprintf(b, "| %s | %d | %s | %s |\n",
			rec.Tool, rec.N,
			metricWithCI(rec.AUROC, rec.CI, "auroc"),
			metricWithCI(rec.AUPRC, rec.CI, "auprc"))
	}
	fmt.Fprintf(b, "\n")
}

func writeClinicalSection(b *strings.Builder, recs []metrics.Record) {
	fmt.Fprintf(b, "## Clinical setting: operating threshold and calibration\n\n")
	fmt.Fprintf(b, "| tool | threshold | sensitivity | specificity | PPV | NPV | F1 | Fisher p | Brier (95%% CI) |\n")
	fmt.Fprintf(b, "|---|---|---|---|---|---|---|---|---|\n")
	for _, rec := range recs {
		fmt.Fprintf(b, "| %s | %.3g (%s) | %s | %s | %s | %s | %s | %s | %s |\n",
			rec.Tool, rec.Threshold, rec.ThresholdSource,
			cell(rec.Sensitivity), cell(rec.Specificity),
			cell(rec.PPV), cell(rec.NPV), cell(rec.F1),
			cell(rec.FisherP),
			metricWithCI(rec.Brier, rec.CI, "brier"))
	}
	fmt.Fprintf(b, "\n")

	for _, rec := range recs {
		if rec.Reliability == nil {
			continue
		}
		fmt.Fprintf(b, "### Reliability: %s\n\n", rec.Tool)
		fmt.Fprintf(b, "| bin | mean score | observed positive rate | n |\n")
		fmt.Fprintf(b, "|---|---|---|---|\n")
		for _, bin := range rec.Reliability {
			fmt.Fprintf(b, "| [%.2f, %.2f) | %s | %s | %d |\n",
				bin.Low, bin.High, cell(bin.MeanScore), cell(bin.EmpiricalPos), bin.N)
		}
		fmt.Fprintf(b, "\n")
	}
}

func writeCoverageSection(b *strings.Builder, res *evaluate.Result) {
	if len(res.Coverage) == 0 {
		return
	}

	fmt.Fprintf(b, "## Coverage\n\n")
	fmt.Fprintf(b, "| tool | scored | labeled | matched |\n")
	fmt.Fprintf(b, "|---|---|---|---|\n")
	for _, tool := range sortedTools(res) {
		cov := res.Coverage[tool]
		fmt.Fprintf(b, "| %s | %d | %d | %d |\n", tool, cov.NScored, cov.NLabeled, cov.NMatched)
	}
	fmt.Fprintf(b, "\n")
}

func writeIssuesSection(b *strings.Builder, errs []evaluate.ToolError) {
	if len(errs) == 0 {
		return
	}

	fmt.Fprintf(b, "## Issues\n\n")
	for _, te := range errs {
		fmt.Fprintf(b, "- **%s** (%s): %s\n", te.Tool, te.Kind, te.Message)
	}
	fmt.Fprintf(b, "\n")
}

func writeSummary(b *strings.Builder, recs []metrics.Record) {
	if len(recs) == 0 {
		return
	}

	best := recs[0]
	fmt.Fprintf(b, "## Summary\n\n")
	fmt.Fprintf(b, "**Top-ranked tool:** %s (n=%d)", best.Tool, best.N)
	if !math.IsNaN(best.AUROC) {
		fmt.Fprintf(b, ". AUROC=%s", metricWithCI(best.AUROC, best.CI, "auroc"))
	}
	if !math.IsNaN(best.AUPRC) {
		fmt.Fprintf(b, "; AUPRC=%s", metricWithCI(best.AUPRC, best.CI, "auprc"))
	}
	if !math.IsNaN(best.Brier) {
		fmt.Fprintf(b, "; Brier=%.3f", best.Brier)
	}
	fmt.Fprintf(b, ".\n")
}

func metricWithCI(x float64, ci map[string]metrics.Interval, metric string) string {
	if math.IsNaN(x) {
		return "undefined"
	}
	if iv, ok := ci[metric]; ok {
		return fmt.Sprintf("%.3f (%.3f, %.3f)", x, iv.Low, iv.High)
	}
	return fmt.Sprintf("%.3f", x)
}

func cell(x float64) string {
	if math.IsNaN(x) {
		return "undefined"
	}
	return fmt.Sprintf("%.3f", x)
}

func sortedTools(res *evaluate.Result) []string {
	tools := make([]string, 0, len(res.Coverage))
	for tool := range res.Coverage {
		tools = append(tools, tool)
	}
	sort.Strings(tools)
	return tools
}
