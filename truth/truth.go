// Package truth ingests the ground-truth pathogenic/benign label table.
// Labels are strictly binary: 1 for pathogenic, 0 for benign. Anything else
// is a schema problem, not a value to coerce.
package truth

import (
	"fmt"
	"strconv"
	"strings"

	vepbench "github.com/vepbench/vepbench"
)

// Set holds one label per variant, preserving file load order. The load
// order matters downstream: the aligner iterates labels in this order so
// that bootstrap resampling sees a deterministic dataset.
type Set struct {
	order  []vepbench.VariantKey
	labels map[vepbench.VariantKey]int
}

// Load parses the label table at path. Accepted shapes are
// variant_id,label and chrom,pos,ref,alt,label. A label outside {0,1} or a
// variant relabeled with a conflicting value fails the whole load; a
// duplicate row restating the same label is tolerated.
func Load(path string) (*Set, error) {
	t, err := vepbench.ReadTable(path)
	if err != nil {
		return nil, err
	}

	colLabel, ok := t.Column("label")
	if !ok {
		return nil, vepbench.SchemaError{File: path, Reason: "missing required column: label"}
	}

	colID, joined := t.Column("variant_id")
	if !joined && !t.HasColumns("chrom", "pos", "ref", "alt") {
		return nil, vepbench.SchemaError{
			File:   path,
			Reason: "missing variant columns: need variant_id or chrom,pos,ref,alt",
		}
	}

	s := &Set{labels: make(map[vepbench.VariantKey]int)}

	for i, row := range t.Rows {
		rowNum := i + 1

		var v vepbench.VariantKey
		if joined {
			if len(row) <= colID || len(row) <= colLabel {
				return nil, vepbench.SchemaError{File: path, Row: rowNum, Reason: "short row"}
			}
			v, err = vepbench.ParseVariantID(row[colID])
		} else {
			colChrom, _ := t.Column("chrom")
			colPos, _ := t.Column("pos")
			colRef, _ := t.Column("ref")
			colAlt, _ := t.Column("alt")
			if len(row) <= colAlt || len(row) <= colLabel {
				return nil, vepbench.SchemaError{File: path, Row: rowNum, Reason: "short row"}
			}
			v, err = vepbench.ParseVariant(row[colChrom], row[colPos], row[colRef], row[colAlt])
		}
		if err != nil {
			return nil, vepbench.SchemaError{File: path, Row: rowNum, Reason: err.Error(), Err: err}
		}

		label, err := parseLabel(row[colLabel])
		if err != nil {
			return nil, vepbench.SchemaError{File: path, Row: rowNum, Reason: err.Error(), Err: err}
		}

		if prior, seen := s.labels[v]; seen {
			if prior != label {
				return nil, vepbench.SchemaError{
					File:   path,
					Row:    rowNum,
					Reason: fmt.Sprintf("variant %s relabeled %d -> %d", v.ID(), prior, label),
				}
			}
			continue
		}

		s.order = append(s.order, v)
		s.labels[v] = label
	}

	if len(s.order) == 0 {
		return nil, vepbench.EmptyDatasetError{File: path}
	}

	return s, nil
}

func parseLabel(field string) (int, error) {
	label, err := strconv.Atoi(strings.TrimSpace(field))
	if err != nil || (label != 0 && label != 1) {
		return 0, fmt.Errorf("label %q outside {0,1}", field)
	}
	return label, nil
}

// Keys returns the labeled variants in load order.
func (s *Set) Keys() []vepbench.VariantKey {
	out := make([]vepbench.VariantKey, len(s.order))
	copy(out, s.order)
	return out
}

// Label returns the label for v.
func (s *Set) Label(v vepbench.VariantKey) (int, bool) {
	label, ok := s.labels[v]
	return label, ok
}

// Len returns the number of labeled variants.
func (s *Set) Len() int { return len(s.order) }

// NPositive returns the number of pathogenic (label 1) variants.
func (s *Set) NPositive() int {
	n := 0
	for _, label := range s.labels {
		n += label
	}
	return n
}
