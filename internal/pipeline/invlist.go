package pipeline

import (
	"context"
	"fmt"
	"log/slog"
	"os"

	"vsmsearch/internal/artifact"
	"vsmsearch/internal/corpus"
	"vsmsearch/internal/normalize"
	"vsmsearch/internal/postings"
	"vsmsearch/pkg/config"
	"vsmsearch/pkg/logger"
	"vsmsearch/pkg/metrics"
)

// PostingsGenerator reads the corpus record files and writes the
// frequency-sorted inverted list.
type PostingsGenerator struct {
	cfg   config.PostingsConfig
	met   *metrics.Metrics
	log   *slog.Logger
	guard runGuard
}

func NewPostingsGenerator(cfg config.PostingsConfig, met *metrics.Metrics) *PostingsGenerator {
	return &PostingsGenerator{
		cfg: cfg,
		met: ensureMetrics(met),
		log: logger.WithStage("postings"),
	}
}

func (g *PostingsGenerator) Name() string { return "postings" }

func (g *PostingsGenerator) Run(ctx context.Context) error {
	if err := g.guard.begin(g.Name()); err != nil {
		return err
	}
	err := g.guard.finish(g.run(ctx))
	g.met.StageRunsTotal.WithLabelValues(g.Name(), statusLabel(err)).Inc()
	return err
}

func (g *PostingsGenerator) run(ctx context.Context) error {
	stopwords, err := loadStopwords(g.cfg.Stopwords)
	if err != nil {
		return fmt.Errorf("loading stopwords: %w", err)
	}
	norm := normalize.New(stopwords, g.cfg.UseStemmer)

	merged := make(map[string][]int)
	for _, path := range g.cfg.Inputs {
		if err := ctx.Err(); err != nil {
			return err
		}
		res, err := g.parseFile(path)
		if err != nil {
			return err
		}
		g.met.RecordsExtracted.Add(float64(len(res.Records)))
		g.met.RecordsSkipped.Add(float64(res.Skipped))
		if res.Skipped > 0 {
			g.log.Warn("records without abstract skipped", "file", path, "skipped", res.Skipped)
		}
		postings.Merge(merged, postings.Build(res.Records, norm))
	}

	entries := postings.SortByFrequency(merged)
	g.met.TermsIndexed.Set(float64(len(entries)))
	g.log.Info("inverted list built",
		"terms", len(entries),
		"documents", len(postings.Universe(entries)),
		"stemmer", g.cfg.UseStemmer,
	)

	out, err := createOutput(g.cfg.Output)
	if err != nil {
		return fmt.Errorf("creating postings file: %w", err)
	}
	defer out.Close()
	if err := artifact.WritePostings(out, entries); err != nil {
		return fmt.Errorf("writing postings: %w", err)
	}
	return nil
}

func (g *PostingsGenerator) parseFile(path string) (corpus.Result, error) {
	f, err := os.Open(path)
	if err != nil {
		return corpus.Result{}, fmt.Errorf("opening record file: %w", err)
	}
	defer f.Close()
	res, err := corpus.Parse(f)
	if err != nil {
		return corpus.Result{}, fmt.Errorf("parsing %s: %w", path, err)
	}
	return res, nil
}
