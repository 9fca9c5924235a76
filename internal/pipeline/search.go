package pipeline

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"time"

	"golang.org/x/sync/errgroup"

	"vsmsearch/internal/artifact"
	"vsmsearch/internal/model"
	"vsmsearch/internal/normalize"
	"vsmsearch/internal/searcher/ranker"
	"vsmsearch/pkg/config"
	"vsmsearch/pkg/logger"
	"vsmsearch/pkg/metrics"
)

// SearchEngine ranks every processed query against the persisted model and
// writes the results table.
type SearchEngine struct {
	cfg   config.SearchConfig
	met   *metrics.Metrics
	log   *slog.Logger
	guard runGuard
}

func NewSearchEngine(cfg config.SearchConfig, met *metrics.Metrics) *SearchEngine {
	return &SearchEngine{
		cfg: cfg,
		met: ensureMetrics(met),
		log: logger.WithStage("search"),
	}
}

func (s *SearchEngine) Name() string { return "search" }

func (s *SearchEngine) Run(ctx context.Context) error {
	if err := s.guard.begin(s.Name()); err != nil {
		return err
	}
	err := s.guard.finish(s.run(ctx))
	s.met.StageRunsTotal.WithLabelValues(s.Name(), statusLabel(err)).Inc()
	return err
}

func (s *SearchEngine) run(ctx context.Context) error {
	m, err := s.loadModel()
	if err != nil {
		return err
	}
	processed, err := s.loadQueries()
	if err != nil {
		return err
	}
	stopwords, err := loadStopwords(s.cfg.Stopwords)
	if err != nil {
		return fmt.Errorf("loading stopwords: %w", err)
	}
	norm := normalize.New(stopwords, s.cfg.UseStemmer)

	queryTexts := make(map[int]string, len(processed))
	for _, q := range processed {
		queryTexts[q.Number] = q.Text
	}
	queryVectors, err := model.VectorizeQueries(queryTexts, norm)
	if err != nil {
		return err
	}
	s.log.Info("query vectors built", "queries", len(processed), "stemmer", s.cfg.UseStemmer)

	// The model is read-only from here on; queries rank independently.
	results := make([]artifact.SearchResult, len(processed))
	g, ctx := errgroup.WithContext(ctx)
	if s.cfg.Parallelism > 0 {
		g.SetLimit(s.cfg.Parallelism)
	}
	for i, q := range processed {
		i, q := i, q
		g.Go(func() error {
			if err := ctx.Err(); err != nil {
				return err
			}
			start := time.Now()
			terms := norm.Normalize(q.Text, true)
			weight := func(term string) (float64, bool) {
				return queryVectors.Weight(term, q.Number)
			}
			ranked := ranker.Rank(m, terms, weight, s.cfg.TopK)
			s.met.SearchLatency.Observe(time.Since(start).Seconds())
			s.met.ResultsPerQuery.Observe(float64(len(ranked)))
			if len(ranked) == 0 {
				s.met.SearchesTotal.WithLabelValues("zero_result").Inc()
			} else {
				s.met.SearchesTotal.WithLabelValues("hit").Inc()
			}
			results[i] = artifact.SearchResult{Number: q.Number, Ranked: ranked}
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return err
	}

	out, err := createOutput(s.cfg.Results)
	if err != nil {
		return fmt.Errorf("creating results file: %w", err)
	}
	defer out.Close()
	if err := artifact.WriteResults(out, results); err != nil {
		return fmt.Errorf("writing results: %w", err)
	}
	s.log.Info("searches finished", "queries", len(processed))
	return nil
}

func (s *SearchEngine) loadModel() (*model.Matrix, error) {
	f, err := os.Open(s.cfg.Model)
	if err != nil {
		return nil, fmt.Errorf("opening model: %w", err)
	}
	defer f.Close()
	return artifact.ReadMatrix(f)
}

func (s *SearchEngine) loadQueries() ([]artifact.ProcessedQuery, error) {
	f, err := os.Open(s.cfg.Queries)
	if err != nil {
		return nil, fmt.Errorf("opening processed queries: %w", err)
	}
	defer f.Close()
	return artifact.ReadProcessedQueries(f)
}
