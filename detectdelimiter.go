package vepbench

import (
	"io"
	"path/filepath"
	"strings"

	"github.com/csimplestring/go-csv/detector"
)

// DelimiterForPath returns the field delimiter implied by the file
// extension: tab for .tsv, comma for .csv. Any other extension falls back to
// sniffing the contents with DetermineDelimiter.
func DelimiterForPath(path string, contents io.Reader) rune {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".tsv":
		return '\t'
	case ".csv":
		return ','
	}

	return DetermineDelimiter(contents)
}

// DetermineDelimiter returns the single most likely rune that would delimit
// the values in the reader, assuming a CSV-like file.
func DetermineDelimiter(r io.Reader) rune {
	d := detector.New()
	delimiters := d.DetectDelimiter(r, '"')

	if len(delimiters) > 0 {
		return rune(delimiters[0][0])
	}

	return '\t'
}
