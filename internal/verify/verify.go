// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package verify checks a posts directory produced by the importer: every
// post must carry front matter whose publish date and permalink reproduce
// the file's name.
package verify

import (
	"bytes"
	"fmt"
	"path/filepath"
	"time"

	"github.com/adrg/frontmatter"
	"github.com/spf13/afero"

	"github.com/pdiddy/csv2posts/internal/post"
)

// postExt is the extension of files the importer writes.
const postExt = "." + post.Markup

// Problem describes one post file that failed verification.
type Problem struct {
	File   string `json:"file"`
	Reason string `json:"reason"`
}

func (p Problem) String() string {
	return fmt.Sprintf("%s: %s", p.File, p.Reason)
}

// Report holds the outcome of a directory check.
type Report struct {
	Checked  int
	Problems []Problem
}

// OK reports whether every checked file passed.
func (r Report) OK() bool {
	return len(r.Problems) == 0
}

type postMeta struct {
	Layout      string    `yaml:"layout"`
	Title       string    `yaml:"title"`
	Permalink   string    `yaml:"permalink"`
	PublishedAt time.Time `yaml:"published_at"`
}

// Dir checks every *.markdown file directly inside dir, in name order.
func Dir(fs afero.Fs, dir string) (Report, error) {
	entries, err := afero.ReadDir(fs, dir)
	if err != nil {
		return Report{}, fmt.Errorf("reading posts directory %s: %w", dir, err)
	}

	var report Report
	for _, e := range entries {
		if e.IsDir() || filepath.Ext(e.Name()) != postExt {
			continue
		}
		report.Checked++

		data, err := afero.ReadFile(fs, filepath.Join(dir, e.Name()))
		if err != nil {
			return report, fmt.Errorf("reading %s: %w", e.Name(), err)
		}
		for _, reason := range checkPost(e.Name(), data) {
			report.Problems = append(report.Problems, Problem{File: e.Name(), Reason: reason})
		}
	}
	return report, nil
}

// checkPost returns the reasons name/data is not a well-formed post.
func checkPost(name string, data []byte) []string {
	if !bytes.HasPrefix(data, []byte("---")) {
		return []string{"no front matter"}
	}

	var meta postMeta
	if _, err := frontmatter.Parse(bytes.NewReader(data), &meta); err != nil {
		return []string{fmt.Sprintf("invalid front matter: %v", err)}
	}

	var reasons []string
	if meta.Layout != "post" {
		reasons = append(reasons, fmt.Sprintf("layout is %q, want \"post\"", meta.Layout))
	}
	if meta.Title == "" {
		reasons = append(reasons, "title is empty")
	}
	if meta.Permalink == "" {
		reasons = append(reasons, "permalink is empty")
	}
	if meta.PublishedAt.IsZero() {
		reasons = append(reasons, "published_at is missing")
	}
	if len(reasons) > 0 {
		return reasons
	}

	if want := post.Filename(meta.PublishedAt, meta.Permalink); want != name {
		reasons = append(reasons, fmt.Sprintf("file name does not match front matter, want %s", want))
	}
	return reasons
}
