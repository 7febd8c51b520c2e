package main

import (
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/VigneshAMPT001/kind-ui/metrics"
	"github.com/VigneshAMPT001/kind-ui/storage"
)

func (a *app) normalizeCmd() *cobra.Command {
	var input, out string

	cmd := &cobra.Command{
		Use:   "normalize",
		Short: "Group merged listings into product families with classified offers",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			if input == "" {
				input = filepath.Join(a.cfg.OutputDir, MergedFile)
			}
			if out == "" {
				out = filepath.Join(a.cfg.OutputDir, storage.FamiliesFile)
			}

			batches, err := storage.NewLoader(a.logger, 1).LoadMerged(input)
			if err != nil {
				return err
			}

			rec := metrics.NewRecorder()
			p := a.newPipeline(rec)
			items, _, err := p.Merger.Merge(batches)
			if err != nil {
				return err
			}
			families, stats := p.Normalizer.Build(items)

			if err := storage.WriteJSON(out, families); err != nil {
				return err
			}
			a.logger.Info("Wrote %d product families to %s (missing source %d, unnamed sellers %d)",
				len(families), out, stats.MissingSource, stats.OffersMissingSeller)
			a.writeMetrics(rec)
			return nil
		},
	}

	cmd.Flags().StringVar(&input, "input", "", "merged listing file (default <output_dir>/"+MergedFile+")")
	cmd.Flags().StringVar(&out, "out", "", "families output file (default <output_dir>/"+storage.FamiliesFile+")")
	return cmd
}
