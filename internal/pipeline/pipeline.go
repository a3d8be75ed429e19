// Package pipeline runs one conversion: fetch, normalize, write, then the
// optional SQLite export and skip report.
package pipeline

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"

	"schaledb/internal/config"
	"schaledb/internal/fetcher"
	"schaledb/internal/logger"
	"schaledb/internal/models"
	"schaledb/internal/normalizer"
	"schaledb/internal/report"
	"schaledb/internal/storage"
	"schaledb/internal/writer"
	"schaledb/pkg/metadata"
)

// ErrMissingArgument is returned when a required option is empty.
var ErrMissingArgument = errors.New("missing required argument")

// Options selects what one run converts.
type Options struct {
	// Kind is the record kind selector: item, student or equipment.
	Kind   string
	Source string
	Output string

	// DBPath overrides config.Storage.DBPath when set.
	DBPath string

	// Report prints the skip table to ReportWriter (stdout when nil).
	Report       bool
	ReportWriter io.Writer
}

// Summary describes a finished run.
type Summary struct {
	Meta    *metadata.Metadata
	Kind    models.Kind
	Total   int
	Count   int
	Skipped []normalizer.Skip
	Output  string
}

// Runner executes conversions with a fixed configuration.
type Runner struct {
	cfg *config.Config
	log *logger.Logger
}

// NewRunner creates a runner. log may be nil.
func NewRunner(cfg *config.Config, log *logger.Logger) *Runner {
	if cfg == nil {
		cfg = config.Default()
	}

	return &Runner{cfg: cfg, log: log}
}

// Run performs one conversion. Nothing is written unless fetching and
// normalization both succeed. A storage failure is returned after the output
// file has been written.
func (r *Runner) Run(ctx context.Context, opts Options) (*Summary, error) {
	kind, err := models.ParseKind(opts.Kind)
	if err != nil {
		return nil, err
	}

	if opts.Source == "" {
		return nil, fmt.Errorf("%w: source URL", ErrMissingArgument)
	}

	output := r.cfg.GetOutputPath(opts.Output)
	if output == "" {
		return nil, fmt.Errorf("%w: output path", ErrMissingArgument)
	}

	meta := metadata.New(kind.String(), opts.Source, output)
	log := r.log.With("run_id", meta.ShortID())

	obj, err := fetcher.NewFetcherWithConfig(r.cfg, log).Fetch(ctx, opts.Source)
	if err != nil {
		return nil, err
	}

	batch, err := normalizer.NewProcessor(log).NormalizeKind(obj, kind)
	if err != nil {
		return nil, err
	}

	data, err := writer.WriteJSON(output, batch.Payload())
	if err != nil {
		return nil, fmt.Errorf("failed to save output: %w", err)
	}

	meta.Finish(data, batch.Len(), len(batch.Skips()))
	log.Info("saved output", "path", output, "records", batch.Len(), "sha256", meta.Hash)

	summary := &Summary{
		Meta:    meta,
		Kind:    kind,
		Total:   obj.Len(),
		Count:   batch.Len(),
		Skipped: batch.Skips(),
		Output:  output,
	}

	if dbPath := r.dbPath(opts); dbPath != "" {
		if err := export(ctx, dbPath, meta, batch); err != nil {
			return summary, fmt.Errorf("failed to export to %s: %w", dbPath, err)
		}

		log.Info("exported records", "db", dbPath, "records", batch.Len())
	}

	if opts.Report || r.cfg.Report.Enabled {
		w := opts.ReportWriter
		if w == nil {
			w = os.Stdout
		}

		if err := report.Write(w, kind, obj.Len(), batch.Skips(), r.cfg.Report.MaxReasonWidth); err != nil {
			log.Warn("failed to write report", "error", err)
		}
	}

	return summary, nil
}

func (r *Runner) dbPath(opts Options) string {
	if opts.DBPath != "" {
		return opts.DBPath
	}

	return r.cfg.Storage.DBPath
}

func export(ctx context.Context, dbPath string, meta *metadata.Metadata, batch normalizer.Batch) error {
	store, err := storage.Open(ctx, dbPath)
	if err != nil {
		return err
	}
	defer store.Close()

	return store.SaveRun(ctx, meta, batch.Values())
}
