// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package importer

import (
	"bytes"
	"context"
	"errors"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/adrg/frontmatter"
	"github.com/spf13/afero"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/multierr"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"

	"github.com/pdiddy/csv2posts/internal/post"
	"github.com/pdiddy/csv2posts/pkg/types"
)

const (
	headerRow = "title,title,image,permalink,published,user_id,created_at,updated_at"
	helloRow  = `1,Hello World,hero.png,hello-world.html,true,7,2020-01-02 10:30:00,2020-01-03 09:00:00`
	secondRow = `2,"Second: Post",,second.html,false,7,2020-02-03,`
	thirdRow  = `3,Third,,/blog/third/,true,,2021-03-04T05:06:07Z,`
)

// setupImport writes a CSV file into a memory filesystem and returns an
// Importer configured to read it.
func setupImport(t *testing.T, rows ...string) (afero.Fs, types.ImportConfig) {
	t.Helper()
	fs := afero.NewMemMapFs()
	cfg := types.DefaultImportConfig()
	cfg.File = "posts.csv"
	require.NoError(t, afero.WriteFile(fs, cfg.File, []byte(strings.Join(rows, "\n")+"\n"), 0o644))
	return fs, cfg
}

func readPost(t *testing.T, fs afero.Fs, name string) string {
	t.Helper()
	data, err := afero.ReadFile(fs, filepath.Join(types.DefaultOutputDir, name))
	require.NoError(t, err)
	return string(data)
}

func TestRun(t *testing.T) {
	fs, cfg := setupImport(t, headerRow, helloRow, secondRow, thirdRow)

	var out bytes.Buffer
	result, err := New(cfg, fs, &out, nil).Run(context.Background())
	require.NoError(t, err)

	assert.Equal(t, 3, result.Created)
	assert.Equal(t, 1, result.Skipped)
	assert.Equal(t, 0, result.Failed())
	assert.Contains(t, out.String(), "Created 3 posts!")

	for _, name := range []string{
		"2020-01-02-hello-world.markdown",
		"2020-02-03-second.markdown",
		"2021-03-04-third.markdown",
	} {
		ok, err := afero.Exists(fs, filepath.Join(types.DefaultOutputDir, name))
		require.NoError(t, err)
		assert.True(t, ok, "expected %s", name)
		assert.Contains(t, out.String(), "created: "+name)
	}

	entries, err := afero.ReadDir(fs, types.DefaultOutputDir)
	require.NoError(t, err)
	assert.Len(t, entries, 3)
}

func TestRunSkipsHeaderAnywhere(t *testing.T) {
	fs, cfg := setupImport(t, helloRow, headerRow, secondRow, headerRow)

	var out bytes.Buffer
	result, err := New(cfg, fs, &out, nil).Run(context.Background())
	require.NoError(t, err)

	assert.Equal(t, 2, result.Created)
	assert.Equal(t, 2, result.Skipped)
	assert.Contains(t, out.String(), "Created 2 posts!")

	entries, err := afero.ReadDir(fs, types.DefaultOutputDir)
	require.NoError(t, err)
	assert.Len(t, entries, 2)
}

func TestRunWithoutHeader(t *testing.T) {
	fs, cfg := setupImport(t, helloRow)

	result, err := New(cfg, fs, &bytes.Buffer{}, nil).Run(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 1, result.Created)
	assert.Equal(t, 0, result.Skipped)
}

func TestRunFrontMatter(t *testing.T) {
	fs, cfg := setupImport(t, headerRow, helloRow)

	_, err := New(cfg, fs, &bytes.Buffer{}, nil).Run(context.Background())
	require.NoError(t, err)

	content := readPost(t, fs, "2020-01-02-hello-world.markdown")
	assert.True(t, strings.HasPrefix(content, "---\nlayout: post\n"), "content: %q", content)
	assert.True(t, strings.HasSuffix(content, "\n---\n\n"), "separator must precede the empty body: %q", content)

	var meta struct {
		Layout      string    `yaml:"layout"`
		Title       string    `yaml:"title"`
		Date        string    `yaml:"date"`
		Permalink   string    `yaml:"permalink"`
		Image       string    `yaml:"image"`
		Published   string    `yaml:"published"`
		ID          string    `yaml:"id"`
		UserID      string    `yaml:"user_id"`
		CreatedAt   string    `yaml:"created_at"`
		PublishedAt time.Time `yaml:"published_at"`
		UpdatedAt   string    `yaml:"updated_at"`
	}
	body, err := frontmatter.Parse(strings.NewReader(content), &meta)
	require.NoError(t, err)

	assert.Equal(t, "post", meta.Layout)
	assert.Equal(t, "Hello World", meta.Title)
	assert.Equal(t, "2020-01-02T10:30:00+00:00", meta.Date)
	assert.Equal(t, "hello-world.html", meta.Permalink)
	assert.Equal(t, "hero.png", meta.Image)
	assert.Equal(t, "true", meta.Published)
	assert.Equal(t, "1", meta.ID)
	assert.Equal(t, "7", meta.UserID)
	assert.Equal(t, "2020-01-02 10:30:00", meta.CreatedAt)
	assert.True(t, time.Date(2020, 1, 2, 10, 30, 0, 0, time.UTC).Equal(meta.PublishedAt))
	assert.Equal(t, "2020-01-03 09:00:00", meta.UpdatedAt)
	assert.Empty(t, strings.TrimSpace(string(body)))
}

func TestRunNoFrontMatter(t *testing.T) {
	fs, cfg := setupImport(t, headerRow, helloRow)
	cfg.NoFrontMatter = true

	_, err := New(cfg, fs, &bytes.Buffer{}, nil).Run(context.Background())
	require.NoError(t, err)

	assert.Equal(t, "\n", readPost(t, fs, "2020-01-02-hello-world.markdown"))
}

func TestRunBodyColumn(t *testing.T) {
	fs, cfg := setupImport(t, `1,Body,,body.html,true,,2020-05-06,,Some text`)
	cfg.NoFrontMatter = true
	cfg.Columns.Body = 8

	_, err := New(cfg, fs, &bytes.Buffer{}, nil).Run(context.Background())
	require.NoError(t, err)

	assert.Equal(t, "Some text\n", readPost(t, fs, "2020-05-06-body.markdown"))
}

func TestRunOverwritesCollidingFilename(t *testing.T) {
	first := `1,First,,same.html,true,,2020-01-02,`
	second := `2,Second,,same.htm,true,,2020-01-02,`
	fs, cfg := setupImport(t, first, second)

	result, err := New(cfg, fs, &bytes.Buffer{}, nil).Run(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 2, result.Created)

	content := readPost(t, fs, "2020-01-02-same.markdown")
	assert.Contains(t, content, "title: Second")
}

func TestRunMissingTitle(t *testing.T) {
	missingTitle := `9,,,missing.html,true,,2020-04-05,`
	fs, cfg := setupImport(t, headerRow, helloRow, missingTitle, secondRow)

	var out bytes.Buffer
	result, err := New(cfg, fs, &out, nil).Run(context.Background())
	require.Error(t, err)

	var rowErr *RowError
	require.True(t, errors.As(err, &rowErr))
	assert.Equal(t, 3, rowErr.Line)

	var mde *post.MissingDataError
	require.True(t, errors.As(err, &mde))
	assert.Equal(t, "title", mde.Attribute)
	assert.Contains(t, err.Error(), "title")

	assert.Equal(t, 1, result.Created)
	require.Equal(t, 1, result.Failed())
	assert.Same(t, rowErr, result.Failures[0])
	assert.NotContains(t, out.String(), "Created")

	for name, want := range map[string]bool{
		"2020-01-02-hello-world.markdown": true,
		"2020-04-05-missing.markdown":     false,
		"2020-02-03-second.markdown":      false,
	} {
		ok, err := afero.Exists(fs, filepath.Join(types.DefaultOutputDir, name))
		require.NoError(t, err)
		assert.Equal(t, want, ok, name)
	}
}

func TestRunBadDate(t *testing.T) {
	fs, cfg := setupImport(t, `1,Bad,,bad.html,true,,someday,`)

	_, err := New(cfg, fs, &bytes.Buffer{}, nil).Run(context.Background())
	require.Error(t, err)

	var de *post.DateError
	assert.True(t, errors.As(err, &de))
}

func TestRunMissingSource(t *testing.T) {
	fs := afero.NewMemMapFs()
	cfg := types.DefaultImportConfig()
	cfg.File = "nope.csv"

	result, err := New(cfg, fs, &bytes.Buffer{}, nil).Run(context.Background())
	require.Error(t, err)

	var mse *MissingSourceError
	require.True(t, errors.As(err, &mse))
	assert.Equal(t, "Cannot find the file 'nope.csv'. Aborting.", err.Error())
	assert.Equal(t, 0, result.Created)

	ok, err := afero.DirExists(fs, types.DefaultOutputDir)
	require.NoError(t, err)
	assert.False(t, ok, "output directory should not be created")
}

func TestRunSourceIsDirectory(t *testing.T) {
	fs := afero.NewMemMapFs()
	require.NoError(t, fs.MkdirAll("posts.csv", 0o755))
	cfg := types.DefaultImportConfig()

	_, err := New(cfg, fs, &bytes.Buffer{}, nil).Run(context.Background())
	var mse *MissingSourceError
	assert.True(t, errors.As(err, &mse))
}

func TestRunContinueOnError(t *testing.T) {
	missingTitle := `9,,,missing.html,true,,2020-04-05,`
	badDate := `10,Bad,,bad.html,true,,someday,`
	fs, cfg := setupImport(t, headerRow, helloRow, missingTitle, secondRow, badDate)
	cfg.ContinueOnError = true

	core, logs := observer.New(zapcore.WarnLevel)
	var out bytes.Buffer
	result, err := New(cfg, fs, &out, zap.New(core)).Run(context.Background())
	require.Error(t, err)

	assert.Equal(t, 2, result.Created)
	require.Equal(t, 2, result.Failed())
	assert.Equal(t, 3, result.Failures[0].Line)
	assert.Equal(t, 5, result.Failures[1].Line)
	assert.Len(t, multierr.Errors(err), 2)

	assert.Contains(t, out.String(), "Created 2 posts!")
	assert.Contains(t, out.String(), "2 row(s) failed:")
	assert.Contains(t, out.String(), "line 3: Post title not present in column 2.")
	assert.Equal(t, 2, logs.FilterMessage("row failed").Len())
}

func TestRunCancelled(t *testing.T) {
	fs, cfg := setupImport(t, helloRow, secondRow)
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	result, err := New(cfg, fs, &bytes.Buffer{}, nil).Run(ctx)
	assert.ErrorIs(t, err, context.Canceled)
	assert.Equal(t, 0, result.Created)
}

type fakeRecorder struct {
	entries []types.PostEntry
	err     error
}

func (f *fakeRecorder) Record(ctx context.Context, entry types.PostEntry) error {
	if f.err != nil {
		return f.err
	}
	f.entries = append(f.entries, entry)
	return nil
}

func TestRunRecorder(t *testing.T) {
	fs, cfg := setupImport(t, headerRow, helloRow, secondRow)
	rec := &fakeRecorder{}

	im := New(cfg, fs, &bytes.Buffer{}, nil)
	im.SetRecorder(rec)
	_, err := im.Run(context.Background())
	require.NoError(t, err)

	require.Len(t, rec.entries, 2)
	assert.Equal(t, 2, rec.entries[0].Line)
	assert.Equal(t, "2020-01-02-hello-world.markdown", rec.entries[0].Filename)
	assert.Equal(t, "Second: Post", rec.entries[1].Title)
}

func TestRunRecorderFailure(t *testing.T) {
	fs, cfg := setupImport(t, helloRow, secondRow)
	core, logs := observer.New(zapcore.WarnLevel)
	im := New(cfg, fs, &bytes.Buffer{}, zap.New(core))
	im.SetRecorder(&fakeRecorder{err: errors.New("disk full")})

	result, err := im.Run(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 2, result.Created)
	assert.Equal(t, 0, result.Failed())

	ok, err := afero.Exists(fs, filepath.Join(cfg.OutputDir, "2020-01-02-hello-world.markdown"))
	require.NoError(t, err)
	assert.True(t, ok)

	entries := logs.FilterMessage("ledger record failed").All()
	require.Len(t, entries, 2)
	assert.Equal(t, "disk full", entries[0].ContextMap()["error"])
}

func TestRunOnDisk(t *testing.T) {
	dir := t.TempDir()
	fs := afero.NewOsFs()
	cfg := types.DefaultImportConfig()
	cfg.File = filepath.Join(dir, "posts.csv")
	cfg.OutputDir = filepath.Join(dir, "site", "_posts")
	require.NoError(t, afero.WriteFile(fs, cfg.File, []byte(headerRow+"\n"+helloRow+"\n"), 0o644))

	result, err := New(cfg, fs, &bytes.Buffer{}, nil).Run(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 1, result.Created)

	ok, err := afero.Exists(fs, filepath.Join(cfg.OutputDir, "2020-01-02-hello-world.markdown"))
	require.NoError(t, err)
	assert.True(t, ok)
}
