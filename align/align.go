// Package align inner-joins per-tool prediction scores against the truth
// set, producing the (score, label) datasets the metric engine consumes.
package align

import (
	vepbench "github.com/vepbench/vepbench"
	"github.com/vepbench/vepbench/predparser"
	"github.com/vepbench/vepbench/truth"
)

// Dataset is one tool's matched (score, label) pairs. Scores and Labels are
// parallel slices in truth-set load order, so the dataset is deterministic
// given deterministic inputs.
type Dataset struct {
	Tool     string
	Variants []vepbench.VariantKey
	Scores   []float64
	Labels   []int
}

// Len returns the number of matched pairs.
func (d *Dataset) Len() int { return len(d.Scores) }

// Coverage counts how much of the truth set a tool reached.
type Coverage struct {
	NScored  int // distinct variants the tool scored
	NLabeled int // variants in the truth set
	NMatched int // intersection
}

// Result holds the join output for every tool, including tools that matched
// nothing: those carry an empty Dataset and a recorded NoOverlapError so the
// caller can keep evaluating the rest.
type Result struct {
	Datasets map[string]*Dataset
	Coverage map[string]Coverage
	Errors   []error
}

// Align joins every tool in preds against labels. The join walks the truth
// set in load order and emits matched pairs in that order.
func Align(preds *predparser.Store, labels *truth.Set) *Result {
	res := &Result{
		Datasets: make(map[string]*Dataset),
		Coverage: make(map[string]Coverage),
	}

	keys := labels.Keys()

	for _, tool := range preds.Tools() {
		d := &Dataset{Tool: tool}

		for _, v := range keys {
			score, scored := preds.Score(tool, v)
			if !scored {
				continue
			}
			label, _ := labels.Label(v)
			d.Variants = append(d.Variants, v)
			d.Scores = append(d.Scores, score)
			d.Labels = append(d.Labels, label)
		}

		res.Datasets[tool] = d
		res.Coverage[tool] = Coverage{
			NScored:  preds.NScored(tool),
			NLabeled: labels.Len(),
			NMatched: d.Len(),
		}

		if d.Len() == 0 {
			res.Errors = append(res.Errors, vepbench.NoOverlapError{Tool: tool})
		}
	}

	return res
}
