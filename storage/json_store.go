package storage

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"time"

	"github.com/kaptinlin/jsonrepair"
	"github.com/rotisserie/eris"

	"github.com/VigneshAMPT001/kind-ui/models"
	"github.com/VigneshAMPT001/kind-ui/utils"
)

// ResultsFile is the per-category raw batch file name.
const ResultsFile = "results.json"

// ErrMalformedInput marks input that is not a list of record objects.
// Field-level problems inside records never produce it.
var ErrMalformedInput = eris.New("malformed input")

// Loader reads raw category batches from disk.
type Loader struct {
	logger  *utils.Logger
	workers int
}

// NewLoader returns a Loader that reads up to workers files concurrently.
func NewLoader(logger *utils.Logger, workers int) *Loader {
	if workers < 1 {
		workers = 1
	}
	return &Loader{logger: logger, workers: workers}
}

// DiscoverCategories lists the sub-directories of dir that hold a results
// file, sorted by name. Ordering the catch-all category is left to the caller.
func DiscoverCategories(dir string) ([]string, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, fmt.Errorf("storage: read input dir %q: %w", dir, err)
	}

	var categories []string
	for _, e := range entries {
		if !e.IsDir() {
			continue
		}
		if _, err := os.Stat(filepath.Join(dir, e.Name(), ResultsFile)); err != nil {
			continue
		}
		categories = append(categories, e.Name())
	}
	sort.Strings(categories)
	return categories, nil
}

// LoadCategories reads <dir>/<category>/results.json for every category and
// returns the batches in the order given. onLoaded, when non-nil, is called
// once per finished file and must be safe for concurrent use.
func (l *Loader) LoadCategories(dir string, categories []string, onLoaded func(category string, n int)) ([]models.CategoryBatch, error) {
	return utils.MapOrdered(l.workers, categories, func(category string) (models.CategoryBatch, error) {
		path := filepath.Join(dir, category, ResultsFile)
		records, err := l.LoadFile(path)
		if err != nil {
			return models.CategoryBatch{}, err
		}
		l.logger.Debug("[loader] %s: %d records", category, len(records))
		if onLoaded != nil {
			onLoaded(category, len(records))
		}
		return models.CategoryBatch{Category: category, Records: records}, nil
	})
}

// LoadMerged reads a single merged file whose records carry their own
// category label. It is returned as one batch with an empty category.
func (l *Loader) LoadMerged(path string) ([]models.CategoryBatch, error) {
	records, err := l.LoadFile(path)
	if err != nil {
		return nil, err
	}
	return []models.CategoryBatch{{Records: records}}, nil
}

// LoadFile reads and decodes one raw batch file.
func (l *Loader) LoadFile(path string) ([]*models.RawListing, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("storage: read %q: %w", path, err)
	}
	records, repaired, err := DecodeRawListings(data)
	if err != nil {
		return nil, eris.Wrapf(err, "storage: decode %q", path)
	}
	if repaired {
		l.logger.Warn("[loader] %s was not valid JSON and has been repaired", path)
	}
	return records, nil
}

// DecodeRawListings decodes a JSON array of raw records. Syntactically
// broken input (e.g. a truncated scrape) is passed through jsonrepair once;
// repaired reports whether that happened. The result must be an array of
// objects, anything else wraps ErrMalformedInput.
func DecodeRawListings(data []byte) (records []*models.RawListing, repaired bool, err error) {
	var elems []json.RawMessage
	if err := json.Unmarshal(data, &elems); err != nil {
		var syntaxErr *json.SyntaxError
		if !errors.As(err, &syntaxErr) {
			return nil, false, eris.Wrap(ErrMalformedInput, "top level is not a JSON array")
		}
		fixed, rerr := jsonrepair.JSONRepair(string(data))
		if rerr != nil {
			return nil, false, eris.Wrapf(ErrMalformedInput, "unrepairable JSON: %v", rerr)
		}
		if err := json.Unmarshal([]byte(fixed), &elems); err != nil {
			return nil, true, eris.Wrap(ErrMalformedInput, "top level is not a JSON array")
		}
		repaired = true
	}
	if elems == nil {
		// a bare null decodes without error but is not a batch
		return nil, repaired, eris.Wrap(ErrMalformedInput, "top level is not a JSON array")
	}

	records = make([]*models.RawListing, 0, len(elems))
	for i, raw := range elems {
		raw = bytes.TrimSpace(raw)
		if len(raw) == 0 || raw[0] != '{' {
			return nil, repaired, eris.Wrapf(ErrMalformedInput, "record %d is not a JSON object", i)
		}
		rec := &models.RawListing{}
		if err := json.Unmarshal(raw, rec); err != nil {
			return nil, repaired, eris.Wrapf(ErrMalformedInput, "record %d: %v", i, err)
		}
		records = append(records, rec)
	}
	return records, repaired, nil
}

// ReadFamilies loads a previously written families file.
func ReadFamilies(path string) ([]*models.ProductFamily, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("storage: read %q: %w", path, err)
	}
	var families []*models.ProductFamily
	if err := json.Unmarshal(data, &families); err != nil {
		return nil, eris.Wrapf(ErrMalformedInput, "families %q: %v", path, err)
	}
	return families, nil
}

// WriteJSON writes v as indented JSON, creating parent directories.
func WriteJSON(path string, v any) error {
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return fmt.Errorf("storage: create output dir: %w", err)
	}
	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return fmt.Errorf("storage: marshal %q: %w", path, err)
	}
	if err := os.WriteFile(path, append(data, '\n'), 0644); err != nil {
		return fmt.Errorf("storage: write %q: %w", path, err)
	}
	return nil
}

const timeLayout = time.RFC3339

// Output file names written by JSONWriter.
const (
	FamiliesFile = "normalized_all_products.json"
	SummaryFile  = "normalized_metadata_summary.json"
	RunFile      = "run.json"
)

// runInfo is the snapshot metadata persisted next to the families.
type runInfo struct {
	RunID       string             `json:"run_id"`
	GeneratedAt string             `json:"generated_at"`
	Diagnostics models.Diagnostics `json:"diagnostics"`
}

// JSONWriter writes a snapshot as three JSON documents in one directory.
type JSONWriter struct {
	dir string
}

// NewJSONWriter returns a writer rooted at dir.
func NewJSONWriter(dir string) *JSONWriter {
	return &JSONWriter{dir: dir}
}

// Write stores families, summary and run metadata.
func (w *JSONWriter) Write(_ context.Context, snap *models.Snapshot) error {
	if err := WriteJSON(filepath.Join(w.dir, FamiliesFile), nonNilFamilies(snap.Families)); err != nil {
		return err
	}
	if err := WriteJSON(filepath.Join(w.dir, SummaryFile), snap.Summary); err != nil {
		return err
	}
	return WriteJSON(filepath.Join(w.dir, RunFile), runInfo{
		RunID:       snap.RunID,
		GeneratedAt: snap.GeneratedAt.UTC().Format(timeLayout),
		Diagnostics: snap.Diagnostics,
	})
}

// Close is a no-op; every Write is self-contained.
func (w *JSONWriter) Close() error { return nil }

func nonNilFamilies(f []*models.ProductFamily) []*models.ProductFamily {
	if f == nil {
		return []*models.ProductFamily{}
	}
	return f
}
