package report

import (
	"crypto/sha256"
	"encoding/json"
	"fmt"
	"os"
	"time"

	"github.com/carbocation/pfx"
	vepbench "github.com/vepbench/vepbench"
	"github.com/vepbench/vepbench/evaluate"
)

// FileRecord is the provenance of one input file.
type FileRecord struct {
	Path     string `json:"path"`
	SHA256   string `json:"sha256"`
	DataRows int    `json:"data_rows"`
}

// Manifest is the run provenance record: when the run happened, exactly
// which inputs it consumed, and the configuration that shaped the numbers.
type Manifest struct {
	GeneratedAt string          `json:"generated_at"`
	Config      evaluate.Config `json:"config"`
	Labels      FileRecord      `json:"labels"`
	Predictions []FileRecord    `json:"predictions"`
	NTools      int             `json:"n_tools"`
	NIssues     int             `json:"n_issues"`
}

// BuildManifest hashes and counts every input file and snapshots the config.
func BuildManifest(res *evaluate.Result, cfg evaluate.Config, labelPath string, predictionPaths []string) (Manifest, error) {
	m := Manifest{
		GeneratedAt: time.Now().UTC().Format(time.RFC3339),
		Config:      cfg,
		NTools:      len(res.Metrics),
		NIssues:     len(res.Errors),
		Predictions: make([]FileRecord, 0, len(predictionPaths)),
	}

	var err error
	if m.Labels, err = fileRecord(labelPath); err != nil {
		return m, err
	}

	for _, path := range predictionPaths {
		fr, err := fileRecord(path)
		if err != nil {
			return m, err
		}
		m.Predictions = append(m.Predictions, fr)
	}

	return m, nil
}

// WriteManifest writes the manifest as indented JSON.
func WriteManifest(path string, m Manifest) error {
	out, err := json.MarshalIndent(m, "", "  ")
	if err != nil {
		return pfx.Err(err)
	}

	return pfx.Err(os.WriteFile(path, out, 0o644))
}

func fileRecord(path string) (FileRecord, error) {
	fr := FileRecord{Path: path}

	fileBytes, err := os.ReadFile(path)
	if err != nil {
		return fr, pfx.Err(err)
	}
	fr.SHA256 = fmt.Sprintf("%x", sha256.Sum256(fileBytes))

	t, err := vepbench.ReadTable(path)
	if err != nil {
		return fr, err
	}
	fr.DataRows = len(t.Rows)

	return fr, nil
}
