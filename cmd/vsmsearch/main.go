package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/urfave/cli/v2"

	"vsmsearch/internal/pipeline"
	"vsmsearch/pkg/config"
	"vsmsearch/pkg/logger"
	"vsmsearch/pkg/metrics"

	apperrors "vsmsearch/pkg/errors"
)

func main() {
	app := &cli.App{
		Name:  "vsmsearch",
		Usage: "Vector-space retrieval pipeline: extract, index, and search a document collection",
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:    "config",
				Aliases: []string{"c"},
				Usage:   "Path to the YAML configuration file",
			},
		},
		Commands: []*cli.Command{
			{
				Name:  "queries",
				Usage: "Extract the query collection into the processed and expected-results tables",
				Action: stageAction(func(cfg *config.Config, met *metrics.Metrics) pipeline.Stage {
					return pipeline.NewQueryProcessor(cfg.Queries, met)
				}),
			},
			{
				Name:  "postings",
				Usage: "Build the frequency-sorted inverted list from the corpus record files",
				Action: stageAction(func(cfg *config.Config, met *metrics.Metrics) pipeline.Stage {
					return pipeline.NewPostingsGenerator(cfg.Postings, met)
				}),
			},
			{
				Name:  "index",
				Usage: "Build the TF-IDF term-document matrix from the inverted list",
				Action: stageAction(func(cfg *config.Config, met *metrics.Metrics) pipeline.Stage {
					return pipeline.NewIndexer(cfg.Index, met)
				}),
			},
			{
				Name:  "search",
				Usage: "Rank every processed query against the model and write the results table",
				Action: stageAction(func(cfg *config.Config, met *metrics.Metrics) pipeline.Stage {
					return pipeline.NewSearchEngine(cfg.Search, met)
				}),
			},
			{
				Name:  "run",
				Usage: "Run the full pipeline in order",
				Action: func(c *cli.Context) error {
					return withSetup(c, func(ctx context.Context, cfg *config.Config, met *metrics.Metrics) error {
						return pipeline.RunAll(ctx, cfg, met)
					})
				},
			},
		},
	}

	if err := app.Run(os.Args); err != nil {
		fmt.Fprintf(os.Stderr, "vsmsearch: %v\n", err)
		os.Exit(apperrors.ExitCode(err))
	}
}

func stageAction(build func(*config.Config, *metrics.Metrics) pipeline.Stage) cli.ActionFunc {
	return func(c *cli.Context) error {
		return withSetup(c, func(ctx context.Context, cfg *config.Config, met *metrics.Metrics) error {
			return build(cfg, met).Run(ctx)
		})
	}
}

func withSetup(c *cli.Context, run func(context.Context, *config.Config, *metrics.Metrics) error) error {
	cfg, err := config.Load(c.String("config"))
	if err != nil {
		return err
	}
	if err := cfg.Validate(); err != nil {
		return apperrors.Newf(apperrors.ErrInvalidConfig, 2, "%v", err)
	}
	logger.Setup(cfg.Logging.Level, cfg.Logging.Format)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	var met *metrics.Metrics
	if cfg.Metrics.Enabled {
		met = metrics.New(nil)
		shutdown := metrics.StartServer(cfg.Metrics.Port)
		defer func() {
			shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
			defer cancel()
			shutdown(shutdownCtx)
		}()
	}
	return run(ctx, cfg, met)
}
