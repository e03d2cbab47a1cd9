package metrics

import (
	"math"

	fet "github.com/glycerine/golang-fisher-exact"
)

// Confusion is the 2x2 table at a fixed operating threshold. A variant is
// called pathogenic when its score is at or above the threshold.
type Confusion struct {
	TP, FP, TN, FN int
}

// Threshold tabulates the confusion counts for scores against labels at the
// given operating threshold.
func Threshold(scores []float64, labels []int, threshold float64) Confusion {
	c := Confusion{}
	for i, s := range scores {
		predicted := s >= threshold
		switch {
		case predicted && labels[i] == 1:
			c.TP++
		case predicted && labels[i] == 0:
			c.FP++
		case !predicted && labels[i] == 1:
			c.FN++
		default:
			c.TN++
		}
	}
	return c
}

// Sensitivity is the true positive rate. NaN when there are no positives.
func (c Confusion) Sensitivity() float64 {
	return ratio(c.TP, c.TP+c.FN)
}

// Specificity is the true negative rate. NaN when there are no negatives.
func (c Confusion) Specificity() float64 {
	return ratio(c.TN, c.TN+c.FP)
}

// PPV is the positive predictive value. NaN with zero predicted positives.
func (c Confusion) PPV() float64 {
	return ratio(c.TP, c.TP+c.FP)
}

// NPV is the negative predictive value. NaN with zero predicted negatives.
func (c Confusion) NPV() float64 {
	return ratio(c.TN, c.TN+c.FN)
}

// F1 is the harmonic mean of PPV and sensitivity. NaN when the table has no
// true positives and no false calls to balance.
func (c Confusion) F1() float64 {
	return ratio(2*c.TP, 2*c.TP+c.FP+c.FN)
}

// FisherP is the two-tailed Fisher exact test p-value for association
// between the thresholded call and the truth label. NaN on an empty table.
func (c Confusion) FisherP() float64 {
	if c.TP+c.FP+c.TN+c.FN == 0 {
		return math.NaN()
	}
	_, _, _, twop := fet.FisherExactTest(c.TP, c.FP, c.FN, c.TN)
	return twop
}

func ratio(num, den int) float64 {
	if den == 0 {
		return math.NaN()
	}
	return float64(num) / float64(den)
}
