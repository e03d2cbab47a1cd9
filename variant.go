package vepbench

import (
	"strconv"
	"strings"
)

// VariantKey identifies a single genomic variant. It is the join key between
// prediction submissions and the truth set, so construction normalizes the
// fields: a leading "chr" prefix is stripped from the chromosome and the
// ref/alt base sequences are uppercased. Two keys are equal iff all four
// normalized fields match.
type VariantKey struct {
	Chrom string
	Pos   int
	Ref   string
	Alt   string
}

// ParseVariant constructs a normalized VariantKey from its string fields.
func ParseVariant(chrom, pos, ref, alt string) (VariantKey, error) {
	v := VariantKey{}

	chrom = strings.TrimSpace(chrom)
	if chrom == "" {
		return v, MalformedVariantError{Field: "chrom", Value: chrom}
	}
	if len(chrom) > 3 && strings.EqualFold(chrom[:3], "chr") {
		chrom = chrom[3:]
	}

	position, err := strconv.Atoi(strings.TrimSpace(pos))
	if err != nil || position < 1 {
		return v, MalformedVariantError{Field: "pos", Value: pos}
	}

	ref = strings.ToUpper(strings.TrimSpace(ref))
	if ref == "" {
		return v, MalformedVariantError{Field: "ref", Value: ref}
	}

	alt = strings.ToUpper(strings.TrimSpace(alt))
	if alt == "" {
		return v, MalformedVariantError{Field: "alt", Value: alt}
	}

	v.Chrom = chrom
	v.Pos = position
	v.Ref = ref
	v.Alt = alt

	return v, nil
}

// ParseVariantID parses the joined "chrom:pos:ref:alt" form.
func ParseVariantID(id string) (VariantKey, error) {
	parts := strings.Split(id, ":")
	if len(parts) != 4 {
		return VariantKey{}, MalformedVariantError{Field: "variant_id", Value: id}
	}

	return ParseVariant(parts[0], parts[1], parts[2], parts[3])
}

// ID returns the canonical "chrom:pos:ref:alt" form. It is stable across
// runs and platforms (integer formatting only, no locale, no floats).
func (v VariantKey) ID() string {
	return v.Chrom + ":" + strconv.Itoa(v.Pos) + ":" + v.Ref + ":" + v.Alt
}

func (v VariantKey) String() string {
	return v.ID()
}
