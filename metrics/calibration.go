package metrics

import (
	"math"

	"github.com/gonum/stat"
	"github.com/montanaflynn/stats"
)

// Brier computes the mean squared error between scores (taken as
// probabilities of the positive class) and the binary labels. Callers are
// responsible for the [0,1] domain check.
func Brier(scores []float64, labels []int) float64 {
	sq := make([]float64, len(scores))
	for i, s := range scores {
		diff := s - float64(labels[i])
		sq[i] = diff * diff
	}

	m, err := stats.Mean(sq)
	if err != nil {
		return math.NaN()
	}
	return m
}

// Bin is one equal-width reliability bin over [0,1]. Empty bins are
// reported with N=0 and NaN means rather than dropped, so a calibration
// plot shows the gaps.
type Bin struct {
	Low          float64
	High         float64
	MeanScore    float64
	EmpiricalPos float64
	N            int
}

// Reliability partitions [0,1] into nBins equal-width bins and reports, per
// bin, the mean predicted score against the observed positive rate. A score
// of exactly 1.0 lands in the last bin.
func Reliability(scores []float64, labels []int, nBins int) []Bin {
	if nBins < 1 {
		nBins = 1
	}

	binScores := make([][]float64, nBins)
	binLabels := make([][]float64, nBins)

	for i, s := range scores {
		b := int(s * float64(nBins))
		if b >= nBins {
			b = nBins - 1
		}
		binScores[b] = append(binScores[b], s)
		binLabels[b] = append(binLabels[b], float64(labels[i]))
	}

	width := 1.0 / float64(nBins)
	out := make([]Bin, nBins)
	for b := range out {
		out[b] = Bin{
			Low:          float64(b) * width,
			High:         float64(b+1) * width,
			MeanScore:    math.NaN(),
			EmpiricalPos: math.NaN(),
			N:            len(binScores[b]),
		}
		if len(binScores[b]) > 0 {
			out[b].MeanScore = stat.Mean(binScores[b], nil)
			out[b].EmpiricalPos = stat.Mean(binLabels[b], nil)
		}
	}

	return out
}
