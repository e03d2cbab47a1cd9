// Package report renders an evaluation result into the run artifacts: a
// per-tool metrics table, a narrative markdown document, and a provenance
// manifest. It is a consumer of the engine's output, not part of the engine.
package report

import (
	"encoding/csv"
	"fmt"
	"io"
	"math"
	"os"

	"github.com/carbocation/pfx"
	"github.com/gocarina/gocsv"
	"github.com/vepbench/vepbench/metrics"
)

// tableRow flattens a metrics.Record for the tabular artifact. Undefined
// metrics and absent confidence intervals render as empty cells, never as a
// numeric stand-in.
type tableRow struct {
	Tool            string `csv:"tool"`
	N               int    `csv:"n"`
	AUROC           string `csv:"auroc"`
	AUROCCILow      string `csv:"auroc_ci_low"`
	AUROCCIHigh     string `csv:"auroc_ci_high"`
	AUPRC           string `csv:"auprc"`
	AUPRCCILow      string `csv:"auprc_ci_low"`
	AUPRCCIHigh     string `csv:"auprc_ci_high"`
	Brier           string `csv:"brier"`
	BrierCILow      string `csv:"brier_ci_low"`
	BrierCIHigh     string `csv:"brier_ci_high"`
	Sensitivity     string `csv:"sensitivity"`
	Specificity     string `csv:"specificity"`
	PPV             string `csv:"ppv"`
	NPV             string `csv:"npv"`
	F1              string `csv:"f1"`
	FisherP         string `csv:"fisher_p"`
	Threshold       string `csv:"threshold"`
	ThresholdSource string `csv:"threshold_source"`
}

// WriteMetricsTable writes one row per evaluated tool as a TSV.
func WriteMetricsTable(path string, recs []metrics.Record) error {
	rows := make([]*tableRow, 0, len(recs))
	for _, rec := range recs {
		rows = append(rows, newTableRow(rec))
	}

	f, err := os.Create(path)
	if err != nil {
		return pfx.Err(err)
	}
	defer f.Close()

	gocsv.SetCSVWriter(func(out io.Writer) *gocsv.SafeCSVWriter {
		w := csv.NewWriter(out)
		w.Comma = '\t'
		return gocsv.NewSafeCSVWriter(w)
	})

	if err := gocsv.MarshalFile(&rows, f); err != nil {
		return pfx.Err(err)
	}

	return nil
}

func newTableRow(rec metrics.Record) *tableRow {
	row := &tableRow{
		Tool:            rec.Tool,
		N:               rec.N,
		AUROC:           fmtMetric(rec.AUROC),
		AUPRC:           fmtMetric(rec.AUPRC),
		Brier:           fmtMetric(rec.Brier),
		Sensitivity:     fmtMetric(rec.Sensitivity),
		Specificity:     fmtMetric(rec.Specificity),
		PPV:             fmtMetric(rec.PPV),
		NPV:             fmtMetric(rec.NPV),
		F1:              fmtMetric(rec.F1),
		FisherP:         fmtMetric(rec.FisherP),
		Threshold:       fmtMetric(rec.Threshold),
		ThresholdSource: rec.ThresholdSource,
	}

	row.AUROCCILow, row.AUROCCIHigh = fmtInterval(rec.CI, "auroc")
	row.AUPRCCILow, row.AUPRCCIHigh = fmtInterval(rec.CI, "auprc")
	row.BrierCILow, row.BrierCIHigh = fmtInterval(rec.CI, "brier")

	return row
}

func fmtMetric(x float64) string {
	if math.IsNaN(x) {
		return ""
	}
	return fmt.Sprintf("%.6f", x)
}

func fmtInterval(ci map[string]metrics.Interval, metric string) (string, string) {
	iv, ok := ci[metric]
	if !ok {
		return "", ""
	}
	return fmtMetric(iv.Low), fmtMetric(iv.High)
}
