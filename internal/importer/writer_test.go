// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package importer

import (
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/spf13/afero"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pdiddy/csv2posts/internal/post"
)

func samplePost() *post.Post {
	return &post.Post{
		ID:             "42",
		Title:          "Hello World",
		Permalink:      "hello-world.html",
		Published:      "true",
		CreatedAt:      "2020-01-02",
		PublishedAt:    time.Date(2020, 1, 2, 0, 0, 0, 0, time.UTC),
		PublishedAtRaw: "2020-01-02",
	}
}

func TestRenderKeyOrder(t *testing.T) {
	data, err := Render(samplePost(), false)
	require.NoError(t, err)
	content := string(data)

	keys := []string{
		"layout:", "title:", "date:", "permalink:", "image:", "published:",
		"id:", "user_id:", "created_at:", "published_at:", "updated_at:",
	}
	last := -1
	for _, k := range keys {
		idx := strings.Index(content, "\n"+k)
		require.NotEqual(t, -1, idx, "missing key %s in %q", k, content)
		assert.Greater(t, idx, last, "key %s out of order", k)
		last = idx
	}
}

func TestRenderNullOptionals(t *testing.T) {
	data, err := Render(samplePost(), false)
	require.NoError(t, err)
	content := string(data)

	assert.Contains(t, content, "\nimage: null\n")
	assert.Contains(t, content, "\nuser_id: null\n")
	assert.Contains(t, content, "\nupdated_at: null\n")
	assert.Contains(t, content, "\npublished_at: 2020-01-02T00:00:00Z\n")
	assert.Contains(t, content, "\ntitle: Hello World\n")
}

func TestRenderQuotesRawTimestamps(t *testing.T) {
	p := samplePost()
	p.CreatedAt = "2020-01-02 23:30:00 -0500"
	p.UpdatedAt = "2020-01-03"

	data, err := Render(p, false)
	require.NoError(t, err)
	content := string(data)

	assert.Contains(t, content, "\ncreated_at: \"2020-01-02 23:30:00 -0500\"\n")
	assert.Contains(t, content, "\nupdated_at: \"2020-01-03\"\n")
	assert.Contains(t, content, "\nid: \"42\"\n")
}

func TestRenderBody(t *testing.T) {
	p := samplePost()
	p.Body = "# Heading"

	with, err := Render(p, false)
	require.NoError(t, err)
	assert.True(t, strings.HasSuffix(string(with), "\n---\n# Heading\n"))

	without, err := Render(p, true)
	require.NoError(t, err)
	assert.Equal(t, "# Heading\n", string(without))
}

func TestWriterWrite(t *testing.T) {
	fs := afero.NewMemMapFs()
	require.NoError(t, fs.MkdirAll("out", 0o755))
	w := NewWriter(fs, "out", false)

	path, err := w.Write(samplePost())
	require.NoError(t, err)
	assert.Equal(t, filepath.Join("out", "2020-01-02-hello-world.markdown"), path)

	data, err := afero.ReadFile(fs, path)
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(string(data), "---\nlayout: post\n"))
}

func TestWriterWriteFailure(t *testing.T) {
	fs := afero.NewReadOnlyFs(afero.NewMemMapFs())
	w := NewWriter(fs, "out", false)

	_, err := w.Write(samplePost())
	assert.Error(t, err)
}
