// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package types holds the configuration and record types shared between the
// csv2posts command and its internal packages.
package types

// DefaultSourceFile is the CSV read when no --file is given.
const DefaultSourceFile = "posts.csv"

// DefaultOutputDir is the Jekyll posts directory the importer writes into.
const DefaultOutputDir = "_posts"

// NoColumn marks an optional attribute that is not read from the row.
const NoColumn = -1

// ColumnLayout maps post attributes to zero-based CSV column indexes.
// Required attributes must point at a column; optional ones may be NoColumn.
type ColumnLayout struct {
	ID          int `json:"id" yaml:"id" mapstructure:"id" validate:"gte=-1"`
	Title       int `json:"title" yaml:"title" mapstructure:"title" validate:"gte=0"`
	Image       int `json:"image" yaml:"image" mapstructure:"image" validate:"gte=-1"`
	Permalink   int `json:"permalink" yaml:"permalink" mapstructure:"permalink" validate:"gte=0"`
	Published   int `json:"published" yaml:"published" mapstructure:"published" validate:"gte=0"`
	UserID      int `json:"user_id" yaml:"user_id" mapstructure:"user_id" validate:"gte=-1"`
	CreatedAt   int `json:"created_at" yaml:"created_at" mapstructure:"created_at" validate:"gte=-1"`
	PublishedAt int `json:"published_at" yaml:"published_at" mapstructure:"published_at" validate:"gte=0"`
	UpdatedAt   int `json:"updated_at" yaml:"updated_at" mapstructure:"updated_at" validate:"gte=-1"`

	// Body is disabled by default; posts are written with an empty body.
	Body int `json:"body" yaml:"body" mapstructure:"body" validate:"gte=-1"`
}

// DefaultColumnLayout returns the layout of a posts export:
// id, title, image, permalink, published, user_id, created_at, updated_at.
// created_at and published_at both read column 6.
func DefaultColumnLayout() ColumnLayout {
	return ColumnLayout{
		ID:          0,
		Title:       1,
		Image:       2,
		Permalink:   3,
		Published:   4,
		UserID:      5,
		CreatedAt:   6,
		PublishedAt: 6,
		UpdatedAt:   7,
		Body:        NoColumn,
	}
}

// ImportConfig holds settings for an import run.
type ImportConfig struct {
	// File is the CSV source (default "posts.csv").
	File string `json:"file" yaml:"file" mapstructure:"file" validate:"required"`

	// OutputDir is where post files are written (default "_posts").
	OutputDir string `json:"output_dir" yaml:"output_dir" mapstructure:"output_dir" validate:"required"`

	// NoFrontMatter writes only the body when true.
	NoFrontMatter bool `json:"no_front_matter" yaml:"no_front_matter" mapstructure:"no_front_matter"`

	// ContinueOnError keeps importing after a bad row and reports all
	// failures at the end instead of stopping at the first one.
	ContinueOnError bool `json:"continue_on_error" yaml:"continue_on_error" mapstructure:"continue_on_error"`

	// LedgerPath is an optional SQLite database that records each run.
	LedgerPath string `json:"ledger,omitempty" yaml:"ledger,omitempty" mapstructure:"ledger"`

	Columns ColumnLayout `json:"columns" yaml:"columns" mapstructure:"columns"`
}

// DefaultImportConfig returns the configuration used when no flags or
// config file override anything.
func DefaultImportConfig() ImportConfig {
	return ImportConfig{
		File:      DefaultSourceFile,
		OutputDir: DefaultOutputDir,
		Columns:   DefaultColumnLayout(),
	}
}
