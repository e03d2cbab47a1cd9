package metrics

import (
	"hash/fnv"
	"math"
	"math/rand"

	"github.com/montanaflynn/stats"
)

// Interval is a (2.5, 97.5) percentile bootstrap confidence interval.
type Interval struct {
	Low  float64
	High float64
}

// SeedForTool derives the per-tool bootstrap seed from the run seed. The
// derivation depends only on the tool name, so per-tool streams come out
// identical whether tools are evaluated sequentially or in parallel.
func SeedForTool(base int64, tool string) int64 {
	h := fnv.New64a()
	h.Write([]byte(tool))
	return base ^ int64(h.Sum64())
}

// bootstrapCIs resamples the dataset with replacement at the variant level.
// Each draw builds one index set that is shared by every metric, keeping the
// metrics of a draw internally consistent. Draws whose resample collapses to
// a single class are skipped for the rank metrics. Percentile bounds are
// widened, when needed, to contain the point estimate.
func bootstrapCIs(scores []float64, labels []int, point Record, opt Options, calibrated bool) map[string]Interval {
	n := len(scores)
	if n == 0 {
		return nil
	}

	rng := rand.New(rand.NewSource(opt.Seed))

	resampledScores := make([]float64, n)
	resampledLabels := make([]int, n)

	aurocs := make([]float64, 0, opt.BootstrapDraws)
	auprcs := make([]float64, 0, opt.BootstrapDraws)
	briers := make([]float64, 0, opt.BootstrapDraws)

	for draw := 0; draw < opt.BootstrapDraws; draw++ {
		for i := 0; i < n; i++ {
			j := rng.Intn(n)
			resampledScores[i] = scores[j]
			resampledLabels[i] = labels[j]
		}

		if a, err := AUROC(resampledScores, resampledLabels); err == nil {
			aurocs = append(aurocs, a)
		}
		if a, err := AUPRC(resampledScores, resampledLabels); err == nil {
			auprcs = append(auprcs, a)
		}
		if calibrated {
			briers = append(briers, Brier(resampledScores, resampledLabels))
		}
	}

	ci := make(map[string]Interval)
	addInterval(ci, "auroc", aurocs, point.AUROC)
	addInterval(ci, "auprc", auprcs, point.AUPRC)
	addInterval(ci, "brier", briers, point.Brier)

	if len(ci) == 0 {
		return nil
	}
	return ci
}

func addInterval(ci map[string]Interval, metric string, draws []float64, point float64) {
	if math.IsNaN(point) || len(draws) == 0 {
		return
	}

	low, err := stats.Percentile(draws, 2.5)
	if err != nil {
		return
	}
	high, err := stats.Percentile(draws, 97.5)
	if err != nil {
		return
	}

	if low > point {
		low = point
	}
	if high < point {
		high = point
	}

	ci[metric] = Interval{Low: low, High: high}
}
