package batch

import (
	"encoding/json"
	"os"
	"path/filepath"
	"time"

	"github.com/pkg/errors"
)

// Manifest summarizes a batch run.
type Manifest struct {
	RunID     string    `json:"run_id"`
	Created   time.Time `json:"created"`
	Format    string    `json:"format"`
	Succeeded int       `json:"succeeded"`
	Failed    int       `json:"failed"`
	Models    []Result  `json:"models"`
}

// NewManifest collects the results of run runID.
func NewManifest(runID, format string, results []Result) *Manifest {
	m := &Manifest{
		RunID:   runID,
		Created: time.Now().UTC(),
		Format:  format,
		Models:  results,
	}
	for _, r := range results {
		if r.Success {
			m.Succeeded++
		} else {
			m.Failed++
		}
	}
	return m
}

// WriteManifest writes the manifest as indented JSON.
func WriteManifest(path string, m *Manifest) error {
	data, err := json.MarshalIndent(m, "", "  ")
	if err != nil {
		return errors.Wrap(err, "manifest")
	}
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return errors.Wrap(err, "manifest")
	}
	return errors.Wrap(os.WriteFile(path, data, 0644), "manifest")
}
