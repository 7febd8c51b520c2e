package services

import (
	"github.com/VigneshAMPT001/kind-ui/metrics"
	"github.com/VigneshAMPT001/kind-ui/models"
	"github.com/VigneshAMPT001/kind-ui/utils"
)

// Pipeline runs merge, normalization and aggregation over one snapshot.
type Pipeline struct {
	Merger     *Merger
	Normalizer *Normalizer
	Insights   *InsightService
}

// NewPipeline wires the three stages with shared logging and metrics.
func NewPipeline(logger *utils.Logger, rec *metrics.Recorder, norm NormalizerOptions, insights InsightOptions) *Pipeline {
	return &Pipeline{
		Merger:     NewMerger(logger, rec),
		Normalizer: NewNormalizer(logger, rec, norm),
		Insights:   NewInsightService(logger, insights),
	}
}

// Run processes batches in the order given. Only a structurally invalid
// batch produces an error; bad fields and incomplete records are absorbed
// and reported in the snapshot diagnostics. RunID and GeneratedAt are left
// for the caller to stamp.
func (p *Pipeline) Run(batches []models.CategoryBatch) (*models.Snapshot, error) {
	items, mergeStats, err := p.Merger.Merge(batches)
	if err != nil {
		return nil, err
	}

	families, buildStats := p.Normalizer.Build(items)
	summary := p.Insights.Generate(families)

	return &models.Snapshot{
		Families: families,
		Summary:  summary,
		Diagnostics: models.Diagnostics{
			RecordsLoaded:       mergeStats.Loaded,
			MissingIdentity:     mergeStats.MissingIdentity + buildStats.MissingIdentity,
			MissingSource:       buildStats.MissingSource,
			DuplicatesDiscarded: mergeStats.Duplicates + buildStats.DuplicateVariants,
			OffersMissingSeller: buildStats.OffersMissingSeller,
			CanonicalItems:      len(items),
		},
	}, nil
}
