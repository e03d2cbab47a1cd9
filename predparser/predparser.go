// Package predparser ingests variant-effect prediction submissions. Each
// submission is a delimited table with either a joined variant_id column
// ("chrom:pos:ref:alt") or split chrom/pos/ref/alt columns, plus a numeric
// score and a tool name. Repeated (variant, tool) observations are averaged.
package predparser

import (
	"fmt"
	"strconv"
	"strings"

	vepbench "github.com/vepbench/vepbench"
)

// Record is one parsed prediction row.
type Record struct {
	Variant vepbench.VariantKey
	Score   float64
	Tool    string
}

// Store accumulates submissions keyed by (tool, variant). The effective
// score for a pair observed k times is the exact arithmetic mean of the k
// observations; sums and counts are kept separately so the mean is never
// approximated incrementally.
type Store struct {
	tools  []string
	byTool map[string]*submission
}

type submission struct {
	order []vepbench.VariantKey
	sum   map[vepbench.VariantKey]float64
	count map[vepbench.VariantKey]int
}

// Load parses every path into a single Store. Any structural problem in any
// file aborts the whole load: silently dropping rows from a benchmark input
// is worse than failing.
func Load(paths []string) (*Store, error) {
	s := &Store{byTool: make(map[string]*submission)}

	for _, path := range paths {
		if err := s.loadFile(path); err != nil {
			return nil, err
		}
	}

	return s, nil
}

func (s *Store) loadFile(path string) error {
	t, err := vepbench.ReadTable(path)
	if err != nil {
		return err
	}

	layout, err := detectLayout(t)
	if err != nil {
		return err
	}

	for i, row := range t.Rows {
		rec, err := layout.parseRow(row)
		if err != nil {
			return vepbench.SchemaError{File: path, Row: i + 1, Reason: err.Error(), Err: err}
		}
		s.add(rec)
	}

	return nil
}

// Add records a single prediction, averaging with any prior observation of
// the same (variant, tool) pair.
func (s *Store) Add(rec Record) { s.add(rec) }

func (s *Store) add(rec Record) {
	sub, exists := s.byTool[rec.Tool]
	if !exists {
		sub = &submission{
			sum:   make(map[vepbench.VariantKey]float64),
			count: make(map[vepbench.VariantKey]int),
		}
		s.byTool[rec.Tool] = sub
		s.tools = append(s.tools, rec.Tool)
	}

	if _, seen := sub.count[rec.Variant]; !seen {
		sub.order = append(sub.order, rec.Variant)
	}
	sub.sum[rec.Variant] += rec.Score
	sub.count[rec.Variant]++
}

// Tools returns the tool names in first-seen order.
func (s *Store) Tools() []string {
	out := make([]string, len(s.tools))
	copy(out, s.tools)
	return out
}

// Score returns the effective (deduplicated) score for a (tool, variant)
// pair.
func (s *Store) Score(tool string, v vepbench.VariantKey) (float64, bool) {
	sub, exists := s.byTool[tool]
	if !exists {
		return 0, false
	}
	n, seen := sub.count[v]
	if !seen {
		return 0, false
	}
	return sub.sum[v] / float64(n), true
}

// Variants returns the distinct variants scored by tool, in first-seen
// order.
func (s *Store) Variants(tool string) []vepbench.VariantKey {
	sub, exists := s.byTool[tool]
	if !exists {
		return nil
	}
	out := make([]vepbench.VariantKey, len(sub.order))
	copy(out, sub.order)
	return out
}

// NScored returns the number of distinct variants scored by tool.
func (s *Store) NScored(tool string) int {
	sub, exists := s.byTool[tool]
	if !exists {
		return 0
	}
	return len(sub.order)
}

// layout maps submission columns to record fields, in the spirit of a
// fixed-layout scoring-file parser: the two accepted shapes differ only in
// how the variant key is spelled.
type layout struct {
	joined                           bool
	colID                            int
	colChrom, colPos, colRef, colAlt int
	colScore, colTool                int
}

func detectLayout(t *vepbench.Table) (layout, error) {
	l := layout{}

	var ok bool
	if l.colScore, ok = t.Column("score"); !ok {
		return l, vepbench.SchemaError{File: t.Path, Reason: "missing required column: score"}
	}
	if l.colTool, ok = t.Column("tool"); !ok {
		return l, vepbench.SchemaError{File: t.Path, Reason: "missing required column: tool"}
	}

	if l.colID, ok = t.Column("variant_id"); ok {
		l.joined = true
		return l, nil
	}

	if !t.HasColumns("chrom", "pos", "ref", "alt") {
		return l, vepbench.SchemaError{
			File:   t.Path,
			Reason: "missing variant columns: need variant_id or chrom,pos,ref,alt",
		}
	}
	l.colChrom, _ = t.Column("chrom")
	l.colPos, _ = t.Column("pos")
	l.colRef, _ = t.Column("ref")
	l.colAlt, _ = t.Column("alt")

	return l, nil
}

func (l layout) parseRow(row []string) (Record, error) {
	rec := Record{}

	maxCol := l.colScore
	for _, c := range []int{l.colTool, l.colID, l.colChrom, l.colPos, l.colRef, l.colAlt} {
		if c > maxCol {
			maxCol = c
		}
	}
	if len(row) <= maxCol {
		return rec, fmt.Errorf("expected at least %d fields, found %d", maxCol+1, len(row))
	}

	var err error
	if l.joined {
		rec.Variant, err = vepbench.ParseVariantID(row[l.colID])
	} else {
		rec.Variant, err = vepbench.ParseVariant(row[l.colChrom], row[l.colPos], row[l.colRef], row[l.colAlt])
	}
	if err != nil {
		return rec, err
	}

	rec.Score, err = strconv.ParseFloat(strings.TrimSpace(row[l.colScore]), 64)
	if err != nil {
		return rec, fmt.Errorf("non-numeric score %q", row[l.colScore])
	}

	rec.Tool = strings.TrimSpace(row[l.colTool])
	if rec.Tool == "" {
		return rec, fmt.Errorf("empty tool name")
	}

	return rec, nil
}
