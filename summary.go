package main

import (
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/VigneshAMPT001/kind-ui/models"
	"github.com/VigneshAMPT001/kind-ui/services"
	"github.com/VigneshAMPT001/kind-ui/storage"
)

func (a *app) summaryCmd() *cobra.Command {
	var (
		input, out string
		fromDB     bool
	)

	cmd := &cobra.Command{
		Use:   "summary",
		Short: "Compute and print the seller insight report for normalized families",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			var (
				families []*models.ProductFamily
				err      error
			)
			if fromDB {
				var (
					reader  storage.FamilyReader
					closeFn func() error
				)
				reader, closeFn, err = a.openFamilyReader(cmd.Context())
				if err != nil {
					return err
				}
				defer func() {
					if cerr := closeFn(); cerr != nil {
						a.logger.Warn("database close: %v", cerr)
					}
				}()
				families, err = reader.FetchFamilies(cmd.Context())
				if err != nil {
					return err
				}
			} else {
				if input == "" {
					input = filepath.Join(a.cfg.OutputDir, storage.FamiliesFile)
				}
				families, err = storage.ReadFamilies(input)
				if err != nil {
					return err
				}
			}

			insights := services.NewInsightService(a.logger, insightOptions(a.cfg))
			report := insights.Generate(families)

			if out == "" {
				out = filepath.Join(a.cfg.OutputDir, storage.SummaryFile)
			}
			if err := storage.WriteJSON(out, report); err != nil {
				return err
			}
			a.logger.Info("Summary written to %s", out)

			insights.Print(cmd.OutOrStdout(), report)
			return nil
		},
	}

	cmd.Flags().StringVar(&input, "input", "", "families file (default <output_dir>/"+storage.FamiliesFile+")")
	cmd.Flags().StringVar(&out, "out", "", "summary output file (default <output_dir>/"+storage.SummaryFile+")")
	cmd.Flags().BoolVar(&fromDB, "from-db", false, "read families from the configured database instead of a file")
	return cmd
}
