package storage

import (
	"context"
	"encoding/csv"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"sync"

	"github.com/VigneshAMPT001/kind-ui/models"
)

// offerHeader is the column layout of the flattened offers CSV.
var offerHeader = []string{
	"category", "product_name", "source_product_url", "asin", "variant_name",
	"role", "seller_name", "ships_from", "is_authorized",
	"price", "unit_price", "currency", "reference_price",
	"price_delta_abs", "price_delta_percent", "price_flag",
	"rating_stars", "rating_count", "positive_rating_percent", "rating_flag",
}

// CSVWriter writes one row per seller offer to a CSV file.
// It is safe for concurrent use.
type CSVWriter struct {
	mu     sync.Mutex
	file   *os.File
	writer *csv.Writer
}

// NewCSVWriter creates (or truncates) the CSV file at the given path and
// writes the header row. Intermediate directories are created automatically.
func NewCSVWriter(path string) (*CSVWriter, error) {
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return nil, fmt.Errorf("csv: create output dir: %w", err)
	}

	f, err := os.Create(path)
	if err != nil {
		return nil, fmt.Errorf("csv: create file %q: %w", path, err)
	}

	w := csv.NewWriter(f)
	if err := w.Write(offerHeader); err != nil {
		_ = f.Close()
		return nil, fmt.Errorf("csv: write header: %w", err)
	}
	w.Flush()

	return &CSVWriter{file: f, writer: w}, nil
}

// Write appends a row for every offer in the snapshot.
func (c *CSVWriter) Write(_ context.Context, snap *models.Snapshot) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	for _, row := range OfferRows(snap.Families) {
		if err := c.writer.Write(row); err != nil {
			return fmt.Errorf("csv: write row: %w", err)
		}
	}

	c.writer.Flush()
	return c.writer.Error()
}

// Close flushes and closes the underlying file.
func (c *CSVWriter) Close() error {
	c.writer.Flush()
	return c.file.Close()
}

// OfferRows flattens families into CSV rows, reference offer first within
// each variant. Absent values are written as empty cells.
func OfferRows(families []*models.ProductFamily) [][]string {
	var rows [][]string
	for _, fam := range families {
		for _, v := range fam.Variants {
			if v.MainSeller != nil {
				rows = append(rows, offerRow(fam, v, v.MainSeller, "main"))
			}
			for _, o := range v.SellerMarket {
				rows = append(rows, offerRow(fam, v, o, "market"))
			}
		}
	}
	return rows
}

func offerRow(fam *models.ProductFamily, v *models.Variant, o *models.SellerOffer, role string) []string {
	var priceFlag, ratingFlag string
	if o.PriceFlag != nil {
		priceFlag = string(*o.PriceFlag)
	}
	if o.RatingFlag != nil {
		ratingFlag = string(*o.RatingFlag)
	}
	var ratingCount string
	if o.RatingCount != nil {
		ratingCount = strconv.Itoa(*o.RatingCount)
	}
	return []string{
		fam.Category, fam.ProductName, string(fam.Key), v.ASIN, v.VariantName,
		role, o.SellerName, o.ShipsFrom, strconv.FormatBool(o.IsAuthorized),
		formatFloat(o.Price), formatFloat(o.UnitPrice), o.PriceCurrency, formatFloat(v.Price),
		formatFloat(o.PriceDeltaAbs), formatFloat(o.PriceDeltaPercent), priceFlag,
		formatFloat(o.RatingStars), ratingCount, formatFloat(o.PositiveRatingPercent), ratingFlag,
	}
}

func formatFloat(f *float64) string {
	if f == nil {
		return ""
	}
	return strconv.FormatFloat(*f, 'f', -1, 64)
}
