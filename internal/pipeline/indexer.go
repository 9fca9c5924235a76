package pipeline

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"time"

	"vsmsearch/internal/artifact"
	"vsmsearch/internal/model"
	"vsmsearch/internal/postings"
	"vsmsearch/pkg/config"
	"vsmsearch/pkg/logger"
	"vsmsearch/pkg/metrics"
)

// Indexer turns the persisted inverted list into the TF-IDF term-document
// matrix.
type Indexer struct {
	cfg   config.IndexConfig
	met   *metrics.Metrics
	log   *slog.Logger
	guard runGuard
}

func NewIndexer(cfg config.IndexConfig, met *metrics.Metrics) *Indexer {
	return &Indexer{
		cfg: cfg,
		met: ensureMetrics(met),
		log: logger.WithStage("index"),
	}
}

func (ix *Indexer) Name() string { return "index" }

func (ix *Indexer) Run(ctx context.Context) error {
	if err := ix.guard.begin(ix.Name()); err != nil {
		return err
	}
	err := ix.guard.finish(ix.run(ctx))
	ix.met.StageRunsTotal.WithLabelValues(ix.Name(), statusLabel(err)).Inc()
	return err
}

func (ix *Indexer) run(ctx context.Context) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	in, err := os.Open(ix.cfg.Input)
	if err != nil {
		return fmt.Errorf("opening postings file: %w", err)
	}
	defer in.Close()
	entries, err := artifact.ReadPostings(in)
	if err != nil {
		return err
	}

	start := time.Now()
	m, err := model.BuildMatrix(entries)
	if err != nil {
		return err
	}
	ix.met.MatrixBuildSeconds.Observe(time.Since(start).Seconds())
	ix.log.Info("term-document matrix built",
		"terms", len(m.Terms()),
		"documents", m.DocCount(),
		"took", time.Since(start),
	)

	out, err := createOutput(ix.cfg.Output)
	if err != nil {
		return fmt.Errorf("creating matrix file: %w", err)
	}
	defer out.Close()
	if err := artifact.WriteMatrix(out, m); err != nil {
		return fmt.Errorf("writing matrix: %w", err)
	}

	if ix.cfg.Store.Driver == "sqlite" {
		if err := ix.saveStore(entries, m); err != nil {
			return fmt.Errorf("saving sqlite store: %w", err)
		}
		ix.log.Info("index persisted to sqlite", "path", ix.cfg.Store.Path)
	}
	return nil
}

func (ix *Indexer) saveStore(entries []postings.TermPostings, m *model.Matrix) error {
	store, err := artifact.OpenSQLite(ix.cfg.Store.Path)
	if err != nil {
		return err
	}
	defer store.Close()
	if err := store.SavePostings(entries); err != nil {
		return err
	}
	return store.SaveMatrix(m)
}
