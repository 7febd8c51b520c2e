package main

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/schollz/progressbar/v3"

	"github.com/VigneshAMPT001/kind-ui/config"
	"github.com/VigneshAMPT001/kind-ui/metrics"
	"github.com/VigneshAMPT001/kind-ui/models"
	"github.com/VigneshAMPT001/kind-ui/services"
	"github.com/VigneshAMPT001/kind-ui/storage"
)

func normalizerOptions(cfg *config.Config) services.NormalizerOptions {
	a := cfg.Analysis
	return services.NormalizerOptions{
		OperatorName: a.OperatorName,
		Currency:     a.Currency,
		Classifier: services.NewClassifier(
			services.PriceThresholds{FairMax: a.PriceFairMax, SlightlyHighMax: a.PriceSlightlyHighMax, HighMax: a.PriceHighMax},
			services.RatingThresholds{ExcellentMin: a.RatingExcellentMin, GoodMin: a.RatingGoodMin, MixedMin: a.RatingMixedMin},
		),
	}
}

func insightOptions(cfg *config.Config) services.InsightOptions {
	return services.InsightOptions{
		ExcludedSellers: cfg.Analysis.ExcludedSellers,
		TopN:            cfg.Analysis.TopN,
	}
}

func (a *app) newPipeline(rec *metrics.Recorder) *services.Pipeline {
	return services.NewPipeline(a.logger, rec, normalizerOptions(a.cfg), insightOptions(a.cfg))
}

// loadCategoryBatches discovers the category directories under dir and
// loads them in merge order, catch-all last.
func (a *app) loadCategoryBatches(dir string) ([]models.CategoryBatch, error) {
	found, err := storage.DiscoverCategories(dir)
	if err != nil {
		return nil, err
	}
	if len(found) == 0 {
		return nil, fmt.Errorf("no %s files found under %s", storage.ResultsFile, dir)
	}
	categories := services.OrderCategories(found, a.cfg.CatchAllCategory)
	a.logger.Info("[loader] Loading %d categories from %s", len(categories), dir)

	bar := progressbar.NewOptions(len(categories),
		progressbar.OptionSetWriter(a.progress),
		progressbar.OptionSetDescription("Loading categories"),
		progressbar.OptionShowCount(),
		progressbar.OptionSetWidth(30),
		progressbar.OptionClearOnFinish(),
	)
	loader := storage.NewLoader(a.logger, a.cfg.MaxConcurrency)
	batches, err := loader.LoadCategories(dir, categories, func(string, int) { _ = bar.Add(1) })
	_ = bar.Finish()
	return batches, err
}

// stamp gives a snapshot its identity. Everything else in it is a pure
// function of the input.
func stamp(snap *models.Snapshot) {
	snap.RunID = uuid.NewString()
	snap.GeneratedAt = time.Now().UTC()
}

func (a *app) writeMetrics(rec *metrics.Recorder) {
	if a.cfg.MetricsFile == "" {
		return
	}
	if err := rec.WriteTextfile(a.cfg.MetricsFile); err != nil {
		a.logger.Error("Metrics export failed: %v", err)
		return
	}
	a.logger.Info("Pipeline metrics written to %s", a.cfg.MetricsFile)
}

type namedSink struct {
	name string
	storage.SnapshotWriter
}

// openSinks connects every enabled snapshot sink. A sink that cannot be
// opened is logged and skipped; its error is still returned so the run
// exits non-zero.
func (a *app) openSinks(ctx context.Context) ([]namedSink, error) {
	var (
		sinks []namedSink
		errs  []error
	)
	fail := func(name string, err error) {
		a.logger.Error("%s sink unavailable: %v", name, err)
		errs = append(errs, fmt.Errorf("%s: %w", name, err))
	}

	sinks = append(sinks, namedSink{"json", storage.NewJSONWriter(a.cfg.OutputDir)})

	if a.cfg.CSVOutputPath != "" {
		if w, err := storage.NewCSVWriter(a.cfg.CSVOutputPath); err != nil {
			fail("csv", err)
		} else {
			sinks = append(sinks, namedSink{"csv", w})
		}
	}
	if a.cfg.Postgres.Enabled {
		if w, err := storage.NewPostgresWriter(ctx, a.cfg.DSN(), a.cfg.MaxRetries, a.logger); err != nil {
			a.logger.Error("Make sure PostgreSQL is running: docker compose up -d")
			fail("postgres", err)
		} else {
			sinks = append(sinks, namedSink{"postgres", w})
		}
	}
	if a.cfg.SQLite.Path != "" {
		if w, err := storage.NewSQLiteWriter(ctx, a.cfg.SQLite.Path); err != nil {
			fail("sqlite", err)
		} else {
			sinks = append(sinks, namedSink{"sqlite", w})
		}
	}
	if a.cfg.MinIO.Enabled {
		if w, err := storage.NewObjectWriter(a.cfg.MinIO, a.logger); err != nil {
			fail("minio", err)
		} else {
			sinks = append(sinks, namedSink{"minio", w})
		}
	}
	if a.cfg.Kafka.Enabled {
		sinks = append(sinks, namedSink{"kafka", storage.NewAlertPublisher(a.cfg.Kafka.Brokers, a.cfg.Kafka.Topic, a.logger)})
	}
	return sinks, errors.Join(errs...)
}

// openFamilyReader returns the database configured for read-back: SQLite
// when a path is set, PostgreSQL otherwise.
func (a *app) openFamilyReader(ctx context.Context) (storage.FamilyReader, func() error, error) {
	if a.cfg.SQLite.Path != "" {
		w, err := storage.NewSQLiteWriter(ctx, a.cfg.SQLite.Path)
		if err != nil {
			return nil, nil, err
		}
		return w, w.Close, nil
	}
	w, err := storage.NewPostgresWriter(ctx, a.cfg.DSN(), a.cfg.MaxRetries, a.logger)
	if err != nil {
		return nil, nil, err
	}
	return w, w.Close, nil
}
