// Package baseline provides reference predictors for benchmark runs without
// any real submissions: a seeded uniform-random scorer and a deterministic
// positional scorer. Both are intentionally weak; they anchor the bottom of
// the leaderboard.
package baseline

import (
	"math"
	"math/rand"

	vepbench "github.com/vepbench/vepbench"
	"github.com/vepbench/vepbench/predparser"
)

// RandomTool and PositionalSineTool are the tool names the baselines submit
// under.
const (
	RandomTool         = "random_baseline"
	PositionalSineTool = "pos_sine_baseline"
)

// Random scores every variant uniformly in [0,1), deterministically for a
// given seed and input order.
func Random(keys []vepbench.VariantKey, seed int64) []predparser.Record {
	rng := rand.New(rand.NewSource(seed))

	out := make([]predparser.Record, 0, len(keys))
	for _, v := range keys {
		out = append(out, predparser.Record{
			Variant: v,
			Score:   rng.Float64(),
			Tool:    RandomTool,
		})
	}

	return out
}

// PositionalSine scores variant i as (sin(i/17)+1)/2, a weak positional
// prior that depends only on input order.
func PositionalSine(keys []vepbench.VariantKey) []predparser.Record {
	out := make([]predparser.Record, 0, len(keys))
	for i, v := range keys {
		out = append(out, predparser.Record{
			Variant: v,
			Score:   (math.Sin(float64(i)/17.0) + 1.0) / 2.0,
			Tool:    PositionalSineTool,
		})
	}

	return out
}
