package main

import (
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/VigneshAMPT001/kind-ui/metrics"
)

func (a *app) runCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "run",
		Short: "Run the full pipeline: merge, normalize, summarize and store",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			ctx := cmd.Context()
			a.logger.Info("=== Marketplace listing pipeline starting ===")
			a.logger.Info("Config: input %s | catch-all %s | concurrency %d | top-n %d",
				a.cfg.InputDir, a.cfg.CatchAllCategory, a.cfg.MaxConcurrency, a.cfg.Analysis.TopN)

			batches, err := a.loadCategoryBatches(a.cfg.InputDir)
			if err != nil {
				return err
			}

			rec := metrics.NewRecorder()
			pipeline := a.newPipeline(rec)
			snap, err := pipeline.Run(batches)
			if err != nil {
				return err
			}
			stamp(snap)

			d := snap.Diagnostics
			a.logger.Info("Run %s: %d records -> %d items -> %d families",
				snap.RunID, d.RecordsLoaded, d.CanonicalItems, len(snap.Families))
			if len(snap.Families) == 0 {
				a.logger.Warn("No product families were built; check the input directory")
			}

			sinks, openErr := a.openSinks(ctx)
			var writeErrs []error
			for _, s := range sinks {
				if err := s.Write(ctx, snap); err != nil {
					a.logger.Error("%s write failed: %v", s.name, err)
					writeErrs = append(writeErrs, fmt.Errorf("%s: %w", s.name, err))
				} else {
					a.logger.Info("Snapshot stored (%s)", s.name)
				}
				if err := s.Close(); err != nil {
					a.logger.Warn("%s close: %v", s.name, err)
				}
			}

			pipeline.Insights.Print(cmd.OutOrStdout(), snap.Summary)
			a.writeMetrics(rec)

			if err := errors.Join(openErr, errors.Join(writeErrs...)); err != nil {
				return fmt.Errorf("some sinks failed: %w", err)
			}
			a.logger.Info("=== Done ===")
			return nil
		},
	}

	f := cmd.Flags()
	f.String("input", "", "directory of <category>/results.json files")
	f.String("catch-all", "", "catch-all category merged last")
	f.String("out-dir", "", "directory for JSON outputs")
	f.String("csv", "", "flattened offers CSV path")
	f.Int("workers", 0, "concurrent category loads")
	f.Int("top-n", 0, "size of the gouged offers ranking")
	f.Bool("postgres", false, "store the snapshot in PostgreSQL")
	f.String("sqlite", "", "store the snapshot in a SQLite database at this path")
	f.Bool("minio", false, "upload the snapshot to MinIO")
	f.Bool("kafka", false, "publish gouging alerts to Kafka")
	f.String("metrics-file", "", "write Prometheus metrics in textfile format")

	for flag, key := range map[string]string{
		"input":        "input_dir",
		"catch-all":    "catch_all_category",
		"out-dir":      "output_dir",
		"csv":          "csv_output_path",
		"workers":      "max_concurrency",
		"top-n":        "analysis.top_n",
		"postgres":     "postgres.enabled",
		"sqlite":       "sqlite.path",
		"minio":        "minio.enabled",
		"kafka":        "kafka.enabled",
		"metrics-file": "metrics_file",
	} {
		a.bind(cmd, flag, key)
	}
	return cmd
}
