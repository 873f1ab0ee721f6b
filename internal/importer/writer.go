// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package importer

import (
	"bytes"
	"fmt"
	"path/filepath"
	"time"

	"github.com/spf13/afero"
	"go.yaml.in/yaml/v3"

	"github.com/pdiddy/csv2posts/internal/post"
)

const (
	// frontMatterDelim opens and closes the YAML block.
	frontMatterDelim = "---\n"
	// layoutPost is the Jekyll layout assigned to every imported post.
	layoutPost = "post"
	// dateFmt renders the date key with an explicit numeric offset.
	dateFmt = "2006-01-02T15:04:05-07:00"
)

// frontMatter is the YAML block written ahead of a post body. Field order is
// the key order in the output.
type frontMatter struct {
	Layout      string    `yaml:"layout"`
	Title       string    `yaml:"title"`
	Date        string    `yaml:"date"`
	Permalink   string    `yaml:"permalink"`
	Image       *string   `yaml:"image"`
	Published   string    `yaml:"published"`
	ID          *string   `yaml:"id"`
	UserID      *string   `yaml:"user_id"`
	CreatedAt   rawStamp  `yaml:"created_at"`
	PublishedAt time.Time `yaml:"published_at"`
	UpdatedAt   rawStamp  `yaml:"updated_at"`
}

// rawStamp is a timestamp copied verbatim from the source row. It is always
// double-quoted so YAML readers that resolve more timestamp forms than
// yaml.v3 does (Ruby's Psych among them) still load it as a string. Empty
// values marshal as null.
type rawStamp string

func (s rawStamp) MarshalYAML() (interface{}, error) {
	if s == "" {
		return nil, nil
	}
	return &yaml.Node{
		Kind:  yaml.ScalarNode,
		Style: yaml.DoubleQuotedStyle,
		Tag:   "!!str",
		Value: string(s),
	}, nil
}

// Writer renders posts and writes them into an output directory.
type Writer struct {
	fs            afero.Fs
	outputDir     string
	noFrontMatter bool
}

// NewWriter returns a Writer that writes into outputDir on fs. When
// noFrontMatter is true only the post body is written.
func NewWriter(fs afero.Fs, outputDir string, noFrontMatter bool) *Writer {
	return &Writer{fs: fs, outputDir: outputDir, noFrontMatter: noFrontMatter}
}

// Write renders p and writes it to outputDir/p.Filename(), replacing any
// existing file of that name. It returns the path written.
func (w *Writer) Write(p *post.Post) (string, error) {
	content, err := Render(p, w.noFrontMatter)
	if err != nil {
		return "", err
	}
	path := filepath.Join(w.outputDir, p.Filename())
	if err := afero.WriteFile(w.fs, path, content, 0o644); err != nil {
		return "", fmt.Errorf("writing %s: %w", path, err)
	}
	return path, nil
}

// Render returns the file content for p: a YAML front matter block followed
// by the body and a trailing newline, or just the body and newline when
// noFrontMatter is set.
func Render(p *post.Post, noFrontMatter bool) ([]byte, error) {
	var b bytes.Buffer
	if !noFrontMatter {
		fm := frontMatter{
			Layout:      layoutPost,
			Title:       p.Title,
			Date:        p.PublishedAt.Format(dateFmt),
			Permalink:   p.Permalink,
			Image:       optional(p.Image),
			Published:   p.Published,
			ID:          optional(p.ID),
			UserID:      optional(p.UserID),
			CreatedAt:   rawStamp(p.CreatedAt),
			PublishedAt: p.PublishedAt,
			UpdatedAt:   rawStamp(p.UpdatedAt),
		}
		data, err := yaml.Marshal(&fm)
		if err != nil {
			return nil, fmt.Errorf("marshaling front matter: %w", err)
		}
		b.WriteString(frontMatterDelim)
		b.Write(data)
		b.WriteString(frontMatterDelim)
	}
	b.WriteString(p.Body)
	b.WriteString("\n")
	return b.Bytes(), nil
}

// optional maps an empty attribute to nil so it marshals as null.
func optional(s string) *string {
	if s == "" {
		return nil
	}
	return &s
}
