// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package importer turns the rows of a CSV file into Jekyll post files.
// Rows are processed one at a time in file order; by default the first bad
// row stops the run, and files already written stay on disk.
package importer

import (
	"context"
	"encoding/csv"
	"errors"
	"fmt"
	"io"

	"github.com/spf13/afero"
	"go.uber.org/multierr"
	"go.uber.org/zap"

	"github.com/pdiddy/csv2posts/internal/post"
	"github.com/pdiddy/csv2posts/pkg/types"
)

// headerSentinel is the first field of a header row.
const headerSentinel = "title"

// Recorder receives every post written during a run.
type Recorder interface {
	Record(ctx context.Context, entry types.PostEntry) error
}

// Result holds the outcome of an import run.
type Result struct {
	Created  int
	Skipped  int
	Failures []*RowError
}

// Failed returns the number of rows that could not be imported.
func (r Result) Failed() int {
	return len(r.Failures)
}

// Importer reads a CSV source and writes one post file per data row.
type Importer struct {
	cfg      types.ImportConfig
	fs       afero.Fs
	out      io.Writer
	log      *zap.Logger
	writer   *Writer
	recorder Recorder
}

// New returns an Importer for cfg. Per-post status and the summary line are
// printed to out. A nil logger disables logging.
func New(cfg types.ImportConfig, fs afero.Fs, out io.Writer, log *zap.Logger) *Importer {
	if log == nil {
		log = zap.NewNop()
	}
	return &Importer{
		cfg:    cfg,
		fs:     fs,
		out:    out,
		log:    log,
		writer: NewWriter(fs, cfg.OutputDir, cfg.NoFrontMatter),
	}
}

// SetRecorder registers r to receive each written post.
func (im *Importer) SetRecorder(r Recorder) {
	im.recorder = r
}

// Run imports every data row of the configured CSV file.
//
// A missing source returns *MissingSourceError before the output directory
// is touched. Rows whose first field is "title" are skipped as headers. In
// the default mode the first row that fails is added to Result.Failures and
// returned as a *RowError; the summary is not printed. With ContinueOnError
// the failing rows are collected in Result.Failures and returned together as
// one error after the summary.
//
// A recorder error does not fail the row: the post is already on disk, so it
// is logged and counted as created.
func (im *Importer) Run(ctx context.Context) (Result, error) {
	var result Result

	info, err := im.fs.Stat(im.cfg.File)
	if err != nil || !info.Mode().IsRegular() {
		return result, &MissingSourceError{Path: im.cfg.File}
	}

	if err := im.fs.MkdirAll(im.cfg.OutputDir, 0o755); err != nil {
		return result, fmt.Errorf("creating output directory %s: %w", im.cfg.OutputDir, err)
	}

	f, err := im.fs.Open(im.cfg.File)
	if err != nil {
		return result, fmt.Errorf("opening %s: %w", im.cfg.File, err)
	}
	defer f.Close()

	r := csv.NewReader(f)
	r.FieldsPerRecord = -1

	im.log.Debug("import started",
		zap.String("source", im.cfg.File),
		zap.String("output_dir", im.cfg.OutputDir),
		zap.Bool("front_matter", !im.cfg.NoFrontMatter))

	for {
		row, err := r.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return result, fmt.Errorf("reading %s: %w", im.cfg.File, err)
		}

		select {
		case <-ctx.Done():
			return result, ctx.Err()
		default:
		}

		line, _ := r.FieldPos(0)

		if len(row) > 0 && row[0] == headerSentinel {
			im.log.Debug("skipping header row", zap.Int("line", line))
			result.Skipped++
			continue
		}

		if err := im.importRow(ctx, line, row); err != nil {
			rowErr := &RowError{Line: line, Err: err}
			result.Failures = append(result.Failures, rowErr)
			if !im.cfg.ContinueOnError {
				return result, rowErr
			}
			im.log.Warn("row failed", zap.Int("line", line), zap.Error(err))
			continue
		}
		result.Created++
	}

	fmt.Fprintf(im.out, "Created %d posts!\n", result.Created)

	if len(result.Failures) == 0 {
		return result, nil
	}

	fmt.Fprintf(im.out, "%d row(s) failed:\n", len(result.Failures))
	var errs error
	for _, fe := range result.Failures {
		fmt.Fprintf(im.out, "  %v\n", fe)
		errs = multierr.Append(errs, fe)
	}
	return result, errs
}

func (im *Importer) importRow(ctx context.Context, line int, row []string) error {
	p, err := post.FromRow(row, im.cfg.Columns)
	if err != nil {
		return err
	}

	path, err := im.writer.Write(p)
	if err != nil {
		return err
	}
	fmt.Fprintf(im.out, "created: %s\n", p.Filename())
	im.log.Debug("post written", zap.Int("line", line), zap.String("path", path))

	if im.recorder == nil {
		return nil
	}
	err = im.recorder.Record(ctx, types.PostEntry{
		Line:        line,
		Filename:    p.Filename(),
		Permalink:   p.Permalink,
		Title:       p.Title,
		PublishedAt: p.PublishedAt,
	})
	if err != nil {
		im.log.Warn("ledger record failed", zap.Int("line", line), zap.String("path", path), zap.Error(err))
	}
	return nil
}
