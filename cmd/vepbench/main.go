// vepbench benchmarks variant-effect prediction submissions against a
// truth label table, writing a metrics table, a markdown report, and a
// provenance manifest. Submissions are any *.tsv / *.csv files in the
// predictions directory; when none are present, two built-in baselines are
// generated and evaluated instead.
package main

import (
	"flag"
	"fmt"
	"log"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/vepbench/vepbench/baseline"
	"github.com/vepbench/vepbench/evaluate"
	"github.com/vepbench/vepbench/predparser"
	"github.com/vepbench/vepbench/report"
	"github.com/vepbench/vepbench/truth"
)

func main() {
	var predDir, labelPath, outDir, unbounded string
	var threshold float64
	var draws, minN, bins int
	var seed int64

	flag.StringVar(&predDir, "predictions", "results/predictions", "Directory holding prediction submissions (*.tsv, *.csv).")
	flag.StringVar(&labelPath, "labels", "", "Path to the truth label table.")
	flag.StringVar(&outDir, "out", "results", "Directory for output artifacts.")
	flag.Float64Var(&threshold, "threshold", -1, "Operating threshold for clinical metrics. Defaults to 0.5 when unset.")
	flag.IntVar(&draws, "draws", 1000, "Bootstrap draws per confidence interval.")
	flag.IntVar(&minN, "min-n", 50, "Minimum matched variants before confidence intervals are computed.")
	flag.IntVar(&bins, "bins", 10, "Number of equal-width reliability bins.")
	flag.Int64Var(&seed, "seed", 42, "Base random seed for bootstrap resampling.")
	flag.StringVar(&unbounded, "unbounded", "", "Comma-separated tool names whose scores are not probabilities.")
	flag.Parse()

	if labelPath == "" {
		flag.PrintDefaults()
		os.Exit(1)
	}

	cfg := evaluate.DefaultConfig()
	cfg.BootstrapDraws = draws
	cfg.MinimumNForCI = minN
	cfg.ReliabilityBins = bins
	cfg.RandomSeed = seed
	if threshold >= 0 {
		cfg.Threshold = threshold
		cfg.ThresholdSet = true
	}
	if unbounded != "" {
		cfg.UnboundedTools = make(map[string]bool)
		for _, tool := range strings.Split(unbounded, ",") {
			cfg.UnboundedTools[strings.TrimSpace(tool)] = true
		}
	}

	if err := os.MkdirAll(outDir, 0o755); err != nil {
		log.Fatalln(err)
	}

	predPaths, err := findSubmissions(predDir)
	if err != nil {
		log.Fatalln(err)
	}

	if len(predPaths) == 0 {
		log.Println("No submissions found in", predDir, "- generating baseline predictors")
		predPaths, err = writeBaselines(outDir, labelPath, seed)
		if err != nil {
			log.Fatalln(err)
		}
	}

	log.Println("Evaluating", len(predPaths), "submission file(s) against", labelPath)

	res, err := evaluate.Run(predPaths, labelPath, cfg)
	if err != nil {
		log.Fatalln(err)
	}

	labels, err := truth.Load(labelPath)
	if err != nil {
		log.Fatalln(err)
	}

	metricsPath := filepath.Join(outDir, "metrics.tsv")
	if err := report.WriteMetricsTable(metricsPath, res.Metrics); err != nil {
		log.Fatalln(err)
	}

	reportPath := filepath.Join(outDir, "report.md")
	if err := report.WriteMarkdown(reportPath, res, labels.Len()); err != nil {
		log.Fatalln(err)
	}

	manifest, err := report.BuildManifest(res, cfg, labelPath, predPaths)
	if err != nil {
		log.Fatalln(err)
	}
	manifestPath := filepath.Join(outDir, "manifest.json")
	if err := report.WriteManifest(manifestPath, manifest); err != nil {
		log.Fatalln(err)
	}

	for _, te := range res.Errors {
		log.Printf("issue: tool %q: %s: %s\n", te.Tool, te.Kind, te.Message)
	}

	log.Println("Evaluated", len(res.Metrics), "tool(s); wrote", metricsPath+",", reportPath+",", manifestPath)
	if len(res.Metrics) > 0 {
		best := res.Metrics[0]
		fmt.Printf("Top-ranked tool: %s (n=%d, AUROC=%.3f, AUPRC=%.3f)\n", best.Tool, best.N, best.AUROC, best.AUPRC)
	}
}

// findSubmissions lists the *.tsv and *.csv files in dir, sorted by name so
// the load order (and therefore the run) is deterministic. A missing
// directory is treated as empty.
func findSubmissions(dir string) ([]string, error) {
	if _, err := os.Stat(dir); os.IsNotExist(err) {
		return nil, nil
	}

	var paths []string
	for _, pattern := range []string{"*.tsv", "*.csv"} {
		matches, err := filepath.Glob(filepath.Join(dir, pattern))
		if err != nil {
			return nil, err
		}
		paths = append(paths, matches...)
	}
	sort.Strings(paths)

	return paths, nil
}

// writeBaselines generates the two baseline submissions over the labeled
// variants and writes them under outDir/predictions, returning their paths.
func writeBaselines(outDir, labelPath string, seed int64) ([]string, error) {
	labels, err := truth.Load(labelPath)
	if err != nil {
		return nil, err
	}

	dir := filepath.Join(outDir, "predictions")
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, err
	}

	keys := labels.Keys()
	submissions := map[string][]predparser.Record{
		filepath.Join(dir, baseline.RandomTool+".tsv"):         baseline.Random(keys, seed),
		filepath.Join(dir, baseline.PositionalSineTool+".tsv"): baseline.PositionalSine(keys),
	}

	paths := make([]string, 0, len(submissions))
	for path, recs := range submissions {
		if err := predparser.WriteFile(path, recs); err != nil {
			return nil, err
		}
		paths = append(paths, path)
	}
	sort.Strings(paths)

	return paths, nil
}
