package services

import (
	"fmt"
	"strings"

	"github.com/VigneshAMPT001/kind-ui/metrics"
	"github.com/VigneshAMPT001/kind-ui/models"
	"github.com/VigneshAMPT001/kind-ui/utils"
)

// MergeStats counts what the merger absorbed.
type MergeStats struct {
	Loaded          int
	MissingIdentity int
	Duplicates      int
}

// Merger collapses category batches into one canonical item per ASIN.
type Merger struct {
	logger  *utils.Logger
	metrics *metrics.Recorder
}

// NewMerger creates a Merger. rec may be nil.
func NewMerger(logger *utils.Logger, rec *metrics.Recorder) *Merger {
	return &Merger{logger: logger, metrics: rec}
}

// Merge folds the batches in the order given. The first record seen for an
// ASIN wins outright; later records for it are discarded together with
// their category, so a specific category processed first keeps the item
// even when a catch-all category lists it again.
//
// Records without an ASIN are dropped and counted. A nil record means the
// batch is not a list of listing objects and fails the whole merge.
func (m *Merger) Merge(batches []models.CategoryBatch) ([]*models.CanonicalItem, MergeStats, error) {
	var stats MergeStats
	seen := make(map[string]struct{})
	result := make([]*models.CanonicalItem, 0)

	for _, batch := range batches {
		m.metrics.Loaded(batch.Category, len(batch.Records))

		for i, r := range batch.Records {
			if r == nil {
				return nil, stats, fmt.Errorf("merge: category %q record %d: not a listing object", batch.Category, i)
			}
			stats.Loaded++

			asin := strings.TrimSpace(r.ASIN)
			if asin == "" {
				stats.MissingIdentity++
				m.metrics.Dropped(metrics.ReasonMissingIdentity)
				m.logger.Debug("[merger] Dropping record without ASIN in %s: %s", batch.Category, r.Title)
				continue
			}

			if _, dup := seen[asin]; dup {
				stats.Duplicates++
				m.metrics.Dropped(metrics.ReasonDuplicate)
				m.logger.Debug("[merger] Duplicate ASIN %s in %s skipped", asin, batch.Category)
				continue
			}
			seen[asin] = struct{}{}

			category := batch.Category
			if category == "" {
				category = r.Category
			}

			result = append(result, &models.CanonicalItem{
				ASIN:      asin,
				SourceURL: strings.TrimSpace(r.SourceProductURL),
				Category:  category,
				Record:    r,
			})
		}
	}

	m.logger.Info("[merger] Merged %d records -> %d unique ASINs (duplicates %d, missing ASIN %d)",
		stats.Loaded, len(result), stats.Duplicates, stats.MissingIdentity)
	return result, stats, nil
}

// OrderCategories returns categories in their given order with every
// occurrence of catchAll moved to the end, so more specific categories
// claim shared ASINs first.
func OrderCategories(categories []string, catchAll string) []string {
	ordered := make([]string, 0, len(categories))
	pinned := false
	for _, c := range categories {
		if catchAll != "" && c == catchAll {
			pinned = true
			continue
		}
		ordered = append(ordered, c)
	}
	if pinned {
		ordered = append(ordered, catchAll)
	}
	return ordered
}
