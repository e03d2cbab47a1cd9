package metrics

import (
	"math"
	"sort"

	vepbench "github.com/vepbench/vepbench"
)

// AUROC computes the area under the ROC curve by the mid-rank (average rank
// for ties) Mann-Whitney formulation. Ties in score contribute half a
// concordant pair each, so the result does not depend on how a sort happens
// to order tied scores. Undefined (NaN plus UndefinedMetricError) when the
// labels are single-class.
func AUROC(scores []float64, labels []int) (float64, error) {
	nPos, nNeg := classCounts(labels)
	if nPos == 0 || nNeg == 0 {
		return math.NaN(), vepbench.UndefinedMetricError{Metric: "auroc", Reason: "labels contain a single class"}
	}

	ranks := midRanks(scores)

	var rankSumPos float64
	for i, label := range labels {
		if label == 1 {
			rankSumPos += ranks[i]
		}
	}

	// U statistic for the positive class, normalized by the pair count.
	u := rankSumPos - float64(nPos)*float64(nPos+1)/2

	return u / (float64(nPos) * float64(nNeg)), nil
}

// AUPRC computes average precision: the area under the precision-recall
// curve as the sum of precision at each distinct score threshold weighted by
// the recall gained there. Tied scores enter as a single threshold.
// Undefined when the labels are single-class.
func AUPRC(scores []float64, labels []int) (float64, error) {
	nPos, nNeg := classCounts(labels)
	if nPos == 0 || nNeg == 0 {
		return math.NaN(), vepbench.UndefinedMetricError{Metric: "auprc", Reason: "labels contain a single class"}
	}

	n := len(scores)
	idx := make([]int, n)
	for i := range idx {
		idx[i] = i
	}
	sort.SliceStable(idx, func(a, b int) bool { return scores[idx[a]] > scores[idx[b]] })

	var ap, prevRecall float64
	tp, fp := 0, 0

	for i := 0; i < n; {
		// Consume the whole tie group before the threshold moves.
		j := i
		for j < n && scores[idx[j]] == scores[idx[i]] {
			if labels[idx[j]] == 1 {
				tp++
			} else {
				fp++
			}
			j++
		}

		precision := float64(tp) / float64(tp+fp)
		recall := float64(tp) / float64(nPos)
		ap += (recall - prevRecall) * precision
		prevRecall = recall

		i = j
	}

	return ap, nil
}

// midRanks assigns 1-based ranks by ascending score, giving every member of
// a tie group the group's average rank.
func midRanks(scores []float64) []float64 {
	n := len(scores)

	idx := make([]int, n)
	for i := range idx {
		idx[i] = i
	}
	sort.SliceStable(idx, func(a, b int) bool { return scores[idx[a]] < scores[idx[b]] })

	ranks := make([]float64, n)
	for i := 0; i < n; {
		j := i
		for j < n && scores[idx[j]] == scores[idx[i]] {
			j++
		}
		// Average of the 1-based ranks i+1 .. j.
		avg := float64(i+j+1) / 2
		for k := i; k < j; k++ {
			ranks[idx[k]] = avg
		}
		i = j
	}

	return ranks
}
