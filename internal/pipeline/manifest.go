package pipeline

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"time"
)

// Manifest lists the files one run produced.
type Manifest struct {
	RunID      string     `json:"run_id"`
	StartedAt  time.Time  `json:"started_at"`
	FinishedAt time.Time  `json:"finished_at"`
	Files      []Artifact `json:"files"`
}

// Artifact is one generated file, with Path relative to the output directory.
type Artifact struct {
	Kind  string `json:"kind"`
	Path  string `json:"path"`
	Bytes int    `json:"bytes"`
}

// Manifest returns a copy of the files recorded so far.
func (r *Runner) Manifest() Manifest {
	r.mu.Lock()
	defer r.mu.Unlock()
	m := r.manifest
	m.Files = append([]Artifact(nil), r.manifest.Files...)
	return m
}

// WriteManifest stores manifest.json in the output directory.
func (r *Runner) WriteManifest() error {
	m := r.Manifest()
	m.FinishedAt = time.Now().UTC()
	data, err := json.MarshalIndent(m, "", "  ")
	if err != nil {
		return fmt.Errorf("encode manifest: %w", err)
	}
	_, err = r.write("manifest", ManifestFile, data)
	return err
}

// ReadManifest loads a manifest written by an earlier run.
func ReadManifest(outputDir string) (Manifest, error) {
	var m Manifest
	data, err := os.ReadFile(filepath.Join(outputDir, ManifestFile))
	if err != nil {
		return m, err
	}
	if err := json.Unmarshal(data, &m); err != nil {
		return m, fmt.Errorf("parse manifest: %w", err)
	}
	return m, nil
}
