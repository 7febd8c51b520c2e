package models

import "time"

// InsightReport holds the computed analytics over the normalized families.
// Every collection is an ordered slice so the serialized form is stable.
type InsightReport struct {
	TotalProducts   int `json:"total_products"`
	TotalCategories int `json:"total_categories"`
	TotalSKUs       int `json:"total_skus"`

	ProductsPerCategory []CategoryCount `json:"products_per_category"`
	SKUsPerCategory     []CategoryCount `json:"skus_per_category"`

	UniqueSellers           []string          `json:"unique_sellers"`
	ThirdPartySellers       []string          `json:"unique_sellers_excluding_operator"`
	SellersPerCategory      []CategorySellers `json:"sellers_per_category"`
	SellerImpact            []SellerImpact    `json:"seller_sku_impact"`
	PriceFlagCounts         []TierCount       `json:"price_flag_counts"`
	RatingFlagCounts        []TierCount       `json:"rating_flag_counts"`
	TopGouged               []GougedOffer     `json:"top_gouged"`
	ProductVariantSummaries []ProductSummary  `json:"product_variant_summary"`
}

// CategoryCount is a count attributed to a category.
type CategoryCount struct {
	Category string `json:"category"`
	Count    int    `json:"count"`
}

// CategorySellers is the distinct seller set observed within one category.
type CategorySellers struct {
	Category          string   `json:"category"`
	Sellers           []string `json:"sellers"`
	ThirdPartySellers []string `json:"sellers_excluding_operator"`
}

// SellerImpact is the number of distinct SKUs a seller appears on.
type SellerImpact struct {
	Seller   string `json:"seller"`
	SKUCount int    `json:"sku_count"`
}

// TierCount is one histogram bucket.
type TierCount struct {
	Tier  string `json:"tier"`
	Count int    `json:"count"`
}

// GougedOffer is a marketplace offer ranked by its deviation from the reference price.
type GougedOffer struct {
	ASIN              string    `json:"asin"`
	ProductName       string    `json:"product_name"`
	VariantName       string    `json:"variant_name"`
	Category          string    `json:"category"`
	Seller            string    `json:"seller"`
	Price             *float64  `json:"price"`
	ReferencePrice    *float64  `json:"reference_price"`
	PriceDeltaPercent float64   `json:"price_delta_percent"`
	PriceFlag         PriceFlag `json:"price_flag"`
}

// ProductSummary is a per-family digest.
type ProductSummary struct {
	ProductName            string   `json:"product_name"`
	Category               string   `json:"category"`
	VariantCount           int      `json:"variant_count"`
	UniqueSellersInProduct []string `json:"unique_sellers_in_product"`
}

// Diagnostics counts records and offers the pipeline absorbed instead of failing on.
type Diagnostics struct {
	RecordsLoaded       int `json:"records_loaded"`
	MissingIdentity     int `json:"dropped_missing_identity"`
	MissingSource       int `json:"dropped_missing_source"`
	DuplicatesDiscarded int `json:"duplicates_discarded"`
	OffersMissingSeller int `json:"offers_missing_seller"`
	CanonicalItems      int `json:"canonical_items"`
}

// Snapshot is one complete run of the pipeline: the canonical families plus
// the report derived from them.
type Snapshot struct {
	RunID       string           `json:"run_id"`
	GeneratedAt time.Time        `json:"generated_at"`
	Families    []*ProductFamily `json:"families"`
	Summary     *InsightReport   `json:"summary"`
	Diagnostics Diagnostics      `json:"diagnostics"`
}
