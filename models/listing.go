package models

// RawListing holds one scraped seller offer for one item exactly as the
// acquisition step delivered it. Free-text fields are kept verbatim; typed
// values are only derived later by the normalizer.
type RawListing struct {
	ASIN               string            `json:"asin"`
	SourceProductURL   string            `json:"source_product_url"`
	Category           string            `json:"category,omitempty"`
	CategoryDisplay    string            `json:"category_display,omitempty"`
	Title              string            `json:"title,omitempty"`
	Flavor             string            `json:"flavor,omitempty"`
	Size               string            `json:"size,omitempty"`
	VariantDimensions  map[string]string `json:"variant_dimensions,omitempty"`
	Price              string            `json:"price,omitempty"`
	PricePerUnit       string            `json:"price_per_unit,omitempty"`
	SoldBy             string            `json:"sold_by,omitempty"`
	ShipsFrom          string            `json:"ships_from,omitempty"`
	Prime              *bool             `json:"prime,omitempty"`
	FinalURL           string            `json:"final_url,omitempty"`
	OriginalAmazonLink string            `json:"original_amazon_link,omitempty"`
	OtherSellers       []RawSellerOffer  `json:"other_sellers,omitempty"`
}

// RawSellerOffer is a competing marketplace seller listed on the same page.
type RawSellerOffer struct {
	SoldBy            string `json:"sold_by,omitempty"`
	ShipsFrom         string `json:"ships_from,omitempty"`
	Price             string `json:"price,omitempty"`
	PricePerUnit      string `json:"price_per_unit,omitempty"`
	SellerRating      string `json:"seller_rating,omitempty"`
	SellerRatingCount string `json:"seller_rating_count,omitempty"`
}

// FlavorDimension returns the structured flavor_name dimension, if any.
func (r *RawListing) FlavorDimension() string {
	if r.VariantDimensions == nil {
		return ""
	}
	return r.VariantDimensions["flavor_name"]
}

// CategoryBatch is one category's worth of raw listings, in scrape order.
type CategoryBatch struct {
	Category string
	Records  []*RawListing
}

// CanonicalItem is the single surviving record for an identity token after
// deduplication. Record is shared with the input and must not be modified.
type CanonicalItem struct {
	ASIN      string
	SourceURL string
	Category  string
	Record    *RawListing
}
