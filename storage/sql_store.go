package storage

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/VigneshAMPT001/kind-ui/models"
)

// dialect captures the differences between the SQL backends.
type dialect struct {
	name        string
	placeholder func(n int) string
	realType    string
	boolType    string
}

var (
	postgresDialect = dialect{
		name:        "postgres",
		placeholder: func(n int) string { return fmt.Sprintf("$%d", n) },
		realType:    "DOUBLE PRECISION",
		boolType:    "BOOLEAN",
	}
	sqliteDialect = dialect{
		name:        "sqlite",
		placeholder: func(int) string { return "?" },
		realType:    "REAL",
		boolType:    "INTEGER",
	}
)

const insertBatchSize = 50

var (
	familyColumns  = []string{"source_product_url", "position", "category", "category_display", "product_name"}
	variantColumns = []string{
		"source_product_url", "asin", "position", "variant_name", "title", "flavor", "size",
		"variant_dimensions", "price", "unit_price", "prime", "final_url", "original_amazon_link",
	}
	offerColumns = []string{
		"source_product_url", "asin", "position", "role", "seller_name", "ships_from", "is_authorized",
		"price", "unit_price", "currency", "prime", "price_delta_abs", "price_delta_percent", "price_flag",
		"rating_stars", "rating_count", "positive_rating_percent", "rating_flag",
	}
)

// sqlStore persists snapshots into three tables: families, variants and
// seller_offers. Each Write replaces the previous contents.
type sqlStore struct {
	db      *sql.DB
	dialect dialect
}

func (s *sqlStore) migrate(ctx context.Context) error {
	r, b := s.dialect.realType, s.dialect.boolType
	stmts := []string{
		`CREATE TABLE IF NOT EXISTS families (
			source_product_url TEXT PRIMARY KEY,
			position           INTEGER NOT NULL,
			category           TEXT NOT NULL DEFAULT '',
			category_display   TEXT NOT NULL DEFAULT '',
			product_name       TEXT NOT NULL DEFAULT ''
		)`,
		`CREATE TABLE IF NOT EXISTS variants (
			source_product_url   TEXT NOT NULL,
			asin                 TEXT NOT NULL,
			position             INTEGER NOT NULL,
			variant_name         TEXT NOT NULL DEFAULT '',
			title                TEXT NOT NULL DEFAULT '',
			flavor               TEXT NOT NULL DEFAULT '',
			size                 TEXT NOT NULL DEFAULT '',
			variant_dimensions   TEXT,
			price                ` + r + `,
			unit_price           ` + r + `,
			prime                ` + b + `,
			final_url            TEXT NOT NULL DEFAULT '',
			original_amazon_link TEXT NOT NULL DEFAULT '',
			PRIMARY KEY (source_product_url, asin)
		)`,
		`CREATE TABLE IF NOT EXISTS seller_offers (
			source_product_url      TEXT NOT NULL,
			asin                    TEXT NOT NULL,
			position                INTEGER NOT NULL,
			role                    TEXT NOT NULL,
			seller_name             TEXT NOT NULL,
			ships_from              TEXT NOT NULL DEFAULT '',
			is_authorized           ` + b + ` NOT NULL,
			price                   ` + r + `,
			unit_price              ` + r + `,
			currency                TEXT NOT NULL DEFAULT '',
			prime                   ` + b + `,
			price_delta_abs         ` + r + `,
			price_delta_percent     ` + r + `,
			price_flag              TEXT,
			rating_stars            ` + r + `,
			rating_count            INTEGER,
			positive_rating_percent ` + r + `,
			rating_flag             TEXT
		)`,
		`CREATE INDEX IF NOT EXISTS idx_offers_seller     ON seller_offers(seller_name)`,
		`CREATE INDEX IF NOT EXISTS idx_offers_price_flag ON seller_offers(price_flag)`,
		`CREATE INDEX IF NOT EXISTS idx_variants_family   ON variants(source_product_url)`,
	}
	for _, stmt := range stmts {
		if _, err := s.db.ExecContext(ctx, stmt); err != nil {
			return fmt.Errorf("%s: migrate: %w", s.dialect.name, err)
		}
	}
	return nil
}

// clear deletes all existing rows.
func (s *sqlStore) clear(ctx context.Context, tx *sql.Tx) error {
	for _, table := range []string{"seller_offers", "variants", "families"} {
		if _, err := tx.ExecContext(ctx, "DELETE FROM "+table); err != nil {
			return fmt.Errorf("%s: clear %s: %w", s.dialect.name, table, err)
		}
	}
	return nil
}

// Write replaces the stored snapshot in a single transaction.
func (s *sqlStore) Write(ctx context.Context, snap *models.Snapshot) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("%s: begin: %w", s.dialect.name, err)
	}
	defer func() { _ = tx.Rollback() }()

	if err := s.clear(ctx, tx); err != nil {
		return err
	}

	familyRows, variantRows, offerRows := snapshotRows(snap.Families)
	for _, t := range []struct {
		table string
		cols  []string
		rows  [][]any
	}{
		{"families", familyColumns, familyRows},
		{"variants", variantColumns, variantRows},
		{"seller_offers", offerColumns, offerRows},
	} {
		for i := 0; i < len(t.rows); i += insertBatchSize {
			end := min(i+insertBatchSize, len(t.rows))
			if err := s.insertBatch(ctx, tx, t.table, t.cols, t.rows[i:end]); err != nil {
				return err
			}
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("%s: commit: %w", s.dialect.name, err)
	}
	return nil
}

func (s *sqlStore) insertBatch(ctx context.Context, tx *sql.Tx, table string, cols []string, batch [][]any) error {
	query := buildInsert(s.dialect, table, cols, len(batch))
	args := make([]any, 0, len(batch)*len(cols))
	for _, row := range batch {
		args = append(args, row...)
	}
	if _, err := tx.ExecContext(ctx, query, args...); err != nil {
		return fmt.Errorf("%s: insert %s: %w", s.dialect.name, table, err)
	}
	return nil
}

// buildInsert renders a multi-row INSERT with the dialect's placeholders.
func buildInsert(d dialect, table string, cols []string, rows int) string {
	valueStrings := make([]string, 0, rows)
	n := 1
	for r := 0; r < rows; r++ {
		ph := make([]string, len(cols))
		for c := range cols {
			ph[c] = d.placeholder(n)
			n++
		}
		valueStrings = append(valueStrings, "("+strings.Join(ph, ",")+")")
	}
	return fmt.Sprintf("INSERT INTO %s (%s) VALUES %s",
		table, strings.Join(cols, ", "), strings.Join(valueStrings, ","))
}

// snapshotRows flattens families into insert arguments. Positions record
// the snapshot order so FetchFamilies can rebuild it exactly.
func snapshotRows(families []*models.ProductFamily) (fams, variants, offers [][]any) {
	offerPos := 0
	for fi, fam := range families {
		key := string(fam.Key)
		fams = append(fams, []any{key, fi, fam.Category, fam.CategoryDisplay, fam.ProductName})

		for vi, v := range fam.Variants {
			dims := "{}"
			if len(v.VariantDimensions) > 0 {
				b, _ := json.Marshal(v.VariantDimensions)
				dims = string(b)
			}
			variants = append(variants, []any{
				key, v.ASIN, vi, v.VariantName, v.Title, v.Flavor, v.Size,
				dims, nullFloat(v.Price), nullFloat(v.UnitPrice), nullBool(v.Prime), v.FinalURL, v.OriginalAmazonLink,
			})

			add := func(o *models.SellerOffer, role string) {
				offers = append(offers, []any{
					key, v.ASIN, offerPos, role, o.SellerName, o.ShipsFrom, o.IsAuthorized,
					nullFloat(o.Price), nullFloat(o.UnitPrice), o.PriceCurrency, nullBool(o.Prime),
					nullFloat(o.PriceDeltaAbs), nullFloat(o.PriceDeltaPercent), nullPriceFlag(o.PriceFlag),
					nullFloat(o.RatingStars), nullInt(o.RatingCount), nullFloat(o.PositiveRatingPercent), nullRatingFlag(o.RatingFlag),
				})
				offerPos++
			}
			if v.MainSeller != nil {
				add(v.MainSeller, "main")
			}
			for _, o := range v.SellerMarket {
				add(o, "market")
			}
		}
	}
	return fams, variants, offers
}

// FetchFamilies reads the stored snapshot back into its model form.
func (s *sqlStore) FetchFamilies(ctx context.Context) ([]*models.ProductFamily, error) {
	var families []*models.ProductFamily
	byKey := make(map[string]*models.ProductFamily)
	variantsByKey := make(map[string]*models.Variant)

	rows, err := s.db.QueryContext(ctx, `
		SELECT source_product_url, category, category_display, product_name
		FROM families
		ORDER BY position`)
	if err != nil {
		return nil, fmt.Errorf("%s: fetch families: %w", s.dialect.name, err)
	}
	for rows.Next() {
		f := &models.ProductFamily{Variants: []*models.Variant{}}
		var key string
		if err := rows.Scan(&key, &f.Category, &f.CategoryDisplay, &f.ProductName); err != nil {
			rows.Close()
			return nil, fmt.Errorf("%s: scan family: %w", s.dialect.name, err)
		}
		f.Key = models.FamilyKey(key)
		families = append(families, f)
		byKey[key] = f
	}
	rows.Close()
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("%s: fetch families: %w", s.dialect.name, err)
	}

	rows, err = s.db.QueryContext(ctx, `
		SELECT source_product_url, asin, variant_name, title, flavor, size, variant_dimensions,
		       price, unit_price, prime, final_url, original_amazon_link
		FROM variants
		ORDER BY source_product_url, position`)
	if err != nil {
		return nil, fmt.Errorf("%s: fetch variants: %w", s.dialect.name, err)
	}
	for rows.Next() {
		v := &models.Variant{SellerMarket: []*models.SellerOffer{}}
		var (
			key              string
			dims             sql.NullString
			price, unitPrice sql.NullFloat64
			prime            sql.NullBool
		)
		if err := rows.Scan(&key, &v.ASIN, &v.VariantName, &v.Title, &v.Flavor, &v.Size, &dims,
			&price, &unitPrice, &prime, &v.FinalURL, &v.OriginalAmazonLink); err != nil {
			rows.Close()
			return nil, fmt.Errorf("%s: scan variant: %w", s.dialect.name, err)
		}
		if dims.Valid {
			if err := json.Unmarshal([]byte(dims.String), &v.VariantDimensions); err != nil {
				rows.Close()
				return nil, fmt.Errorf("%s: variant %s dimensions: %w", s.dialect.name, v.ASIN, err)
			}
		}
		if v.VariantDimensions == nil {
			// rows written before dimensions were always stored hold NULL
			v.VariantDimensions = map[string]string{}
		}
		v.Price, v.UnitPrice, v.Prime = floatPtr(price), floatPtr(unitPrice), boolPtr(prime)
		fam, ok := byKey[key]
		if !ok {
			continue
		}
		fam.Variants = append(fam.Variants, v)
		variantsByKey[key+"\x00"+v.ASIN] = v
	}
	rows.Close()
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("%s: fetch variants: %w", s.dialect.name, err)
	}

	rows, err = s.db.QueryContext(ctx, `
		SELECT source_product_url, asin, role, seller_name, ships_from, is_authorized,
		       price, unit_price, currency, prime, price_delta_abs, price_delta_percent, price_flag,
		       rating_stars, rating_count, positive_rating_percent, rating_flag
		FROM seller_offers
		ORDER BY position`)
	if err != nil {
		return nil, fmt.Errorf("%s: fetch offers: %w", s.dialect.name, err)
	}
	defer rows.Close()
	for rows.Next() {
		o := &models.SellerOffer{}
		var (
			key, role                            string
			price, unitPrice, deltaAbs, deltaPct sql.NullFloat64
			stars, positive                      sql.NullFloat64
			prime                                sql.NullBool
			priceFlag, ratingFlag                sql.NullString
			ratingCount                          sql.NullInt64
		)
		if err := rows.Scan(&key, &o.ASIN, &role, &o.SellerName, &o.ShipsFrom, &o.IsAuthorized,
			&price, &unitPrice, &o.PriceCurrency, &prime, &deltaAbs, &deltaPct, &priceFlag,
			&stars, &ratingCount, &positive, &ratingFlag); err != nil {
			return nil, fmt.Errorf("%s: scan offer: %w", s.dialect.name, err)
		}
		o.Price, o.UnitPrice, o.Prime = floatPtr(price), floatPtr(unitPrice), boolPtr(prime)
		o.PriceDeltaAbs, o.PriceDeltaPercent = floatPtr(deltaAbs), floatPtr(deltaPct)
		o.RatingStars, o.PositiveRatingPercent = floatPtr(stars), floatPtr(positive)
		if ratingCount.Valid {
			n := int(ratingCount.Int64)
			o.RatingCount = &n
		}
		if priceFlag.Valid {
			f := models.PriceFlag(priceFlag.String)
			o.PriceFlag = &f
		}
		if ratingFlag.Valid {
			f := models.RatingFlag(ratingFlag.String)
			o.RatingFlag = &f
		}

		v, ok := variantsByKey[key+"\x00"+o.ASIN]
		if !ok {
			continue
		}
		if role == "main" {
			v.MainSeller = o
		} else {
			v.SellerMarket = append(v.SellerMarket, o)
		}
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("%s: fetch offers: %w", s.dialect.name, err)
	}
	return families, nil
}

// Close closes the database handle.
func (s *sqlStore) Close() error {
	return s.db.Close()
}

func nullFloat(f *float64) any {
	if f == nil {
		return nil
	}
	return *f
}

func nullBool(b *bool) any {
	if b == nil {
		return nil
	}
	return *b
}

func nullInt(n *int) any {
	if n == nil {
		return nil
	}
	return int64(*n)
}

func nullPriceFlag(f *models.PriceFlag) any {
	if f == nil {
		return nil
	}
	return string(*f)
}

func nullRatingFlag(f *models.RatingFlag) any {
	if f == nil {
		return nil
	}
	return string(*f)
}

func floatPtr(n sql.NullFloat64) *float64 {
	if !n.Valid {
		return nil
	}
	v := n.Float64
	return &v
}

func boolPtr(n sql.NullBool) *bool {
	if !n.Valid {
		return nil
	}
	v := n.Bool
	return &v
}
