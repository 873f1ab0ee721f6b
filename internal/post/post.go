// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package post builds Jekyll post records from CSV rows and derives their
// output filenames.
package post

import (
	"fmt"
	"path"
	"strings"
	"time"

	validation "github.com/go-ozzo/ozzo-validation/v4"

	"github.com/pdiddy/csv2posts/pkg/types"
)

// Markup is the body format recorded in every post filename.
const Markup = "markdown"

// filenameDateFmt is the date prefix of a Jekyll post filename.
const filenameDateFmt = "2006-01-02"

// Post is one CSV row mapped onto post attributes. Optional attributes are
// empty strings when their column is missing or blank.
type Post struct {
	ID        string
	Title     string
	Image     string
	Body      string
	Permalink string
	Published string
	UserID    string
	CreatedAt string
	UpdatedAt string

	// PublishedAt is parsed from PublishedAtRaw when the post is built.
	PublishedAt    time.Time
	PublishedAtRaw string
}

// Markup returns the body format of the post.
func (p *Post) Markup() string {
	return Markup
}

// Filename returns the post's output file name.
func (p *Post) Filename() string {
	return Filename(p.PublishedAt, p.Permalink)
}

// MissingDataError reports a required attribute absent from a row.
type MissingDataError struct {
	Attribute string
	Column    int // 1-based
	Message   string
}

func (e *MissingDataError) Error() string {
	return e.Message
}

// FromRow builds a Post from row using layout. Required attributes are
// checked in the order title, permalink, published, published_at; the first
// one that is empty fails the build.
func FromRow(row []string, layout types.ColumnLayout) (*Post, error) {
	p := &Post{
		ID:        column(row, layout.ID),
		Title:     column(row, layout.Title),
		Image:     column(row, layout.Image),
		Body:      column(row, layout.Body),
		Permalink: column(row, layout.Permalink),
		Published: column(row, layout.Published),
		UserID:    column(row, layout.UserID),
		CreatedAt: column(row, layout.CreatedAt),
		UpdatedAt: column(row, layout.UpdatedAt),

		PublishedAtRaw: column(row, layout.PublishedAt),
	}

	required := []struct {
		attr  string
		label string
		value string
		index int
	}{
		{"title", "title", p.Title, layout.Title},
		{"permalink", "permalink", p.Permalink, layout.Permalink},
		{"published", "published flag", p.Published, layout.Published},
		{"published_at", "publish date", p.PublishedAtRaw, layout.PublishedAt},
	}
	for _, r := range required {
		if err := requirePresent(r.attr, r.label, r.value, r.index); err != nil {
			return nil, err
		}
	}

	t, err := ParseDate(p.PublishedAtRaw)
	if err != nil {
		return nil, err
	}
	p.PublishedAt = t

	return p, nil
}

func requirePresent(attr, label, value string, index int) error {
	msg := fmt.Sprintf("Post %s not present in column %d.", label, index+1)
	if err := validation.Validate(value, validation.Required.Error(msg)); err != nil {
		return &MissingDataError{Attribute: attr, Column: index + 1, Message: err.Error()}
	}
	return nil
}

// column returns row[i], or "" when i is NoColumn or past the end of row.
func column(row []string, i int) string {
	if i < 0 || i >= len(row) {
		return ""
	}
	return row[i]
}

// Filename derives "YYYY-MM-DD-<stem>.markdown" where stem is the
// permalink's base name without its extension.
func Filename(publishedAt time.Time, permalink string) string {
	return fmt.Sprintf("%s-%s.%s", publishedAt.Format(filenameDateFmt), Stem(permalink), Markup)
}

// Stem returns the base name of permalink with the text after its last dot
// removed. A permalink without an extension is returned as its base name.
func Stem(permalink string) string {
	base := path.Base(permalink)
	stem := strings.TrimSuffix(base, path.Ext(base))
	if stem == "" {
		return base
	}
	return stem
}
