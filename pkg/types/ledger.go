// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package types

import "time"

// RunRecord describes one import run stored in the ledger.
type RunRecord struct {
	ID         string    `json:"id" yaml:"id"`
	Source     string    `json:"source" yaml:"source"`
	OutputDir  string    `json:"output_dir" yaml:"output_dir"`
	StartedAt  time.Time `json:"started_at" yaml:"started_at"`
	FinishedAt time.Time `json:"finished_at,omitempty" yaml:"finished_at,omitempty"`
	Created    int       `json:"created" yaml:"created"`
	Failed     int       `json:"failed" yaml:"failed"`
}

// PostEntry is a single written post recorded against a run.
type PostEntry struct {
	RunID       string    `json:"run_id" yaml:"run_id"`
	Line        int       `json:"line" yaml:"line"`
	Filename    string    `json:"filename" yaml:"filename"`
	Permalink   string    `json:"permalink" yaml:"permalink"`
	Title       string    `json:"title" yaml:"title"`
	PublishedAt time.Time `json:"published_at" yaml:"published_at"`
}
