package pipeline

import (
	"context"
	"fmt"
	"log/slog"
	"os"

	"vsmsearch/internal/artifact"
	"vsmsearch/internal/queries"
	"vsmsearch/pkg/config"
	"vsmsearch/pkg/logger"
	"vsmsearch/pkg/metrics"
)

// QueryProcessor extracts the query collection from its XML source and
// writes the processed-queries and expected-results tables.
type QueryProcessor struct {
	cfg   config.QueriesConfig
	met   *metrics.Metrics
	log   *slog.Logger
	guard runGuard
}

func NewQueryProcessor(cfg config.QueriesConfig, met *metrics.Metrics) *QueryProcessor {
	return &QueryProcessor{
		cfg: cfg,
		met: ensureMetrics(met),
		log: logger.WithStage("queries"),
	}
}

func (p *QueryProcessor) Name() string { return "queries" }

func (p *QueryProcessor) Run(ctx context.Context) error {
	if err := p.guard.begin(p.Name()); err != nil {
		return err
	}
	err := p.guard.finish(p.run(ctx))
	p.met.StageRunsTotal.WithLabelValues(p.Name(), statusLabel(err)).Inc()
	return err
}

func (p *QueryProcessor) run(ctx context.Context) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	in, err := os.Open(p.cfg.Input)
	if err != nil {
		return fmt.Errorf("opening query set: %w", err)
	}
	defer in.Close()

	qs, err := queries.Parse(in)
	if err != nil {
		return err
	}
	p.log.Info("query set extracted", "queries", len(qs))

	processed, err := createOutput(p.cfg.Processed)
	if err != nil {
		return fmt.Errorf("creating processed queries file: %w", err)
	}
	defer processed.Close()
	if err := artifact.WriteProcessedQueries(processed, qs); err != nil {
		return fmt.Errorf("writing processed queries: %w", err)
	}

	expected, err := createOutput(p.cfg.Expected)
	if err != nil {
		return fmt.Errorf("creating expected results file: %w", err)
	}
	defer expected.Close()
	if err := artifact.WriteExpected(expected, qs); err != nil {
		return fmt.Errorf("writing expected results: %w", err)
	}
	return nil
}

func statusLabel(err error) string {
	if err != nil {
		return "error"
	}
	return "ok"
}
