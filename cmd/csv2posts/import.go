// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package main

import (
	"errors"
	"fmt"
	"os"

	"github.com/go-playground/validator/v10"
	goerrors "github.com/goliatone/go-errors"
	"github.com/spf13/afero"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"go.uber.org/zap"

	"github.com/pdiddy/csv2posts/internal/importer"
	"github.com/pdiddy/csv2posts/internal/ledger"
	"github.com/pdiddy/csv2posts/internal/post"
	"github.com/pdiddy/csv2posts/pkg/types"
)

const (
	codeSourceNotFound = "SOURCE_NOT_FOUND"
	codeMissingData    = "POST_MISSING_DATA"
	codeInvalidDate    = "POST_INVALID_DATE"
	codeImportFailed   = "IMPORT_FAILED"
	codeConfigInvalid  = "CONFIG_INVALID"
)

var importCmd = &cobra.Command{
	Use:   "import",
	Short: "Write one Jekyll post per CSV row",
	Long: `Import reads a CSV file (default posts.csv) and writes one post per data
row into _posts/. Rows whose first field is "title" are treated as headers
and skipped.

Columns are read by position: id, title, image, permalink, published,
user_id, created_at/published_at, updated_at. Override positions with the
columns section of csv2posts.yaml.

The first row missing a title, permalink, published flag or publish date
stops the import. Use --continue-on-error to import the remaining rows and
report every failure at the end.`,
	RunE: runImport,
}

func runImport(cmd *cobra.Command, args []string) error {
	cfg, err := importConfig()
	if err != nil {
		return err
	}
	cmd.SilenceUsage = true

	ctx := cmd.Context()
	im := importer.New(cfg, afero.NewOsFs(), os.Stdout, logger)

	var run *ledger.Run
	if cfg.LedgerPath != "" {
		store, err := ledger.Open(cfg.LedgerPath)
		if err != nil {
			return err
		}
		defer store.Close()

		run, err = store.BeginRun(ctx, cfg.File, cfg.OutputDir)
		if err != nil {
			return err
		}
		im.SetRecorder(run)
		logger.Debug("recording run", zap.String("run_id", run.ID), zap.String("ledger", cfg.LedgerPath))
	}

	result, err := im.Run(ctx)
	if run != nil {
		if ferr := run.Finish(ctx, result.Created, result.Failed()); ferr != nil {
			logger.Warn("ledger update failed", zap.Error(ferr))
		}
	}
	return wrapImportError(err)
}

// importConfig assembles the import configuration from flags, environment
// and config file, then validates it.
func importConfig() (types.ImportConfig, error) {
	cfg := types.DefaultImportConfig()
	if err := viper.Unmarshal(&cfg); err != nil {
		return cfg, fmt.Errorf("reading configuration: %w", err)
	}
	if err := validateConfig(cfg); err != nil {
		return cfg, err
	}
	return cfg, nil
}

func validateConfig(cfg types.ImportConfig) error {
	if err := validator.New().Struct(cfg); err != nil {
		return goerrors.Wrap(err, goerrors.CategoryValidation, "invalid configuration").
			WithTextCode(codeConfigInvalid)
	}
	return nil
}

// wrapImportError categorises an import failure for the command boundary.
func wrapImportError(err error) error {
	if err == nil {
		return nil
	}
	if goerrors.IsWrapped(err) {
		return err
	}

	var (
		mse *importer.MissingSourceError
		mde *post.MissingDataError
		de  *post.DateError
	)
	switch {
	case errors.As(err, &mse):
		return goerrors.Wrap(err, goerrors.CategoryCommand, "source file not found").WithTextCode(codeSourceNotFound)
	case errors.As(err, &mde):
		return goerrors.Wrap(err, goerrors.CategoryValidation, "row is missing required data").WithTextCode(codeMissingData)
	case errors.As(err, &de):
		return goerrors.Wrap(err, goerrors.CategoryValidation, "row has an invalid publish date").WithTextCode(codeInvalidDate)
	default:
		return goerrors.Wrap(err, goerrors.CategoryCommand, "import failed").WithTextCode(codeImportFailed)
	}
}

func init() {
	importCmd.Flags().String("file", types.DefaultSourceFile, "the CSV file to import")
	importCmd.Flags().Bool("no-front-matter", false, "do not add the default front matter to the post body")
	importCmd.Flags().String("output-dir", types.DefaultOutputDir, "directory the posts are written into")
	importCmd.Flags().Bool("continue-on-error", false, "import the remaining rows after a bad row and report all failures")
	importCmd.Flags().String("ledger", "", "SQLite database recording this run (disabled when empty)")

	for key, flag := range map[string]string{
		"file":              "file",
		"no_front_matter":   "no-front-matter",
		"output_dir":        "output-dir",
		"continue_on_error": "continue-on-error",
		"ledger":            "ledger",
	} {
		if err := viper.BindPFlag(key, importCmd.Flags().Lookup(flag)); err != nil {
			panic(err)
		}
	}

	layout := types.DefaultColumnLayout()
	viper.SetDefault("columns.id", layout.ID)
	viper.SetDefault("columns.title", layout.Title)
	viper.SetDefault("columns.image", layout.Image)
	viper.SetDefault("columns.permalink", layout.Permalink)
	viper.SetDefault("columns.published", layout.Published)
	viper.SetDefault("columns.user_id", layout.UserID)
	viper.SetDefault("columns.created_at", layout.CreatedAt)
	viper.SetDefault("columns.published_at", layout.PublishedAt)
	viper.SetDefault("columns.updated_at", layout.UpdatedAt)
	viper.SetDefault("columns.body", layout.Body)

	rootCmd.AddCommand(importCmd)
}
