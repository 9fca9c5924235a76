// Package pipeline wires the extraction, indexing, and search stages into
// runnable units. Each stage reads its declared inputs, writes its declared
// artifacts, and runs at most once per instance.
package pipeline

import (
	"context"
	"os"
	"path/filepath"
	"strings"

	"github.com/prometheus/client_golang/prometheus"

	"vsmsearch/internal/normalize"
	"vsmsearch/pkg/config"
	"vsmsearch/pkg/metrics"
)

// Stage is a runnable pipeline step.
type Stage interface {
	Name() string
	Run(ctx context.Context) error
}

// RunAll executes the full pipeline in dependency order: query processing,
// posting-list generation, matrix construction, search.
func RunAll(ctx context.Context, cfg *config.Config, met *metrics.Metrics) error {
	stages := []Stage{
		NewQueryProcessor(cfg.Queries, met),
		NewPostingsGenerator(cfg.Postings, met),
		NewIndexer(cfg.Index, met),
		NewSearchEngine(cfg.Search, met),
	}
	for _, stage := range stages {
		if err := stage.Run(ctx); err != nil {
			return err
		}
	}
	return nil
}

func ensureMetrics(met *metrics.Metrics) *metrics.Metrics {
	if met == nil {
		return metrics.New(prometheus.NewRegistry())
	}
	return met
}

// loadStopwords reads the host's stopword list, falling back to the
// built-in set when no path is configured.
func loadStopwords(path string) (normalize.Stopwords, error) {
	if path == "" {
		return normalize.DefaultStopwords(), nil
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	return normalize.StopwordsFromLines(strings.Split(string(data), "\n")), nil
}

// createOutput opens an artifact file for writing, creating parent
// directories as needed.
func createOutput(path string) (*os.File, error) {
	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0755); err != nil {
			return nil, err
		}
	}
	return os.Create(path)
}
