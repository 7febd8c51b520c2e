package main

import (
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/VigneshAMPT001/kind-ui/metrics"
	"github.com/VigneshAMPT001/kind-ui/models"
	"github.com/VigneshAMPT001/kind-ui/storage"
)

// MergedFile is the default name of the deduplicated raw listing file.
const MergedFile = "all_products_merged.json"

func (a *app) mergeCmd() *cobra.Command {
	var out string

	cmd := &cobra.Command{
		Use:   "merge",
		Short: "Merge per-category scrape results into one deduplicated file",
		Long: `Reads <input>/<category>/results.json for every category, keeps the first
record seen for each ASIN (the catch-all category is merged last) and writes
the surviving records, each labelled with its category.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			batches, err := a.loadCategoryBatches(a.cfg.InputDir)
			if err != nil {
				return err
			}

			rec := metrics.NewRecorder()
			items, _, err := a.newPipeline(rec).Merger.Merge(batches)
			if err != nil {
				return err
			}

			merged := make([]*models.RawListing, 0, len(items))
			for _, item := range items {
				r := *item.Record
				r.ASIN = item.ASIN
				r.Category = item.Category
				merged = append(merged, &r)
			}

			if out == "" {
				out = filepath.Join(a.cfg.OutputDir, MergedFile)
			}
			if err := storage.WriteJSON(out, merged); err != nil {
				return err
			}
			a.logger.Info("Merged %d unique items into %s", len(merged), out)
			a.writeMetrics(rec)
			return nil
		},
	}

	cmd.Flags().String("input", "", "directory of <category>/results.json files")
	cmd.Flags().String("catch-all", "", "catch-all category merged last")
	cmd.Flags().StringVar(&out, "out", "", "merged output file (default <output_dir>/"+MergedFile+")")
	a.bind(cmd, "input", "input_dir")
	a.bind(cmd, "catch-all", "catch_all_category")
	return cmd
}
