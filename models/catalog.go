package models

// FamilyKey groups variants onto one product page.
type FamilyKey string

// ProductFamily is every variant that shares a source product page.
type ProductFamily struct {
	Key             FamilyKey  `json:"source_product_url"`
	Category        string     `json:"category"`
	CategoryDisplay string     `json:"category_display"`
	ProductName     string     `json:"product_name"`
	Variants        []*Variant `json:"variants"`
}

// SKUCount is the number of variants in the family.
func (f *ProductFamily) SKUCount() int { return len(f.Variants) }

// Variant is one size/flavor SKU within a family, together with its seller roster.
type Variant struct {
	ASIN               string            `json:"asin"`
	VariantName        string            `json:"variant_name"`
	Title              string            `json:"title"`
	Flavor             string            `json:"flavor"`
	Size               string            `json:"size"`
	VariantDimensions  map[string]string `json:"variant_dimensions"`
	Price              *float64          `json:"price"`
	UnitPrice          *float64          `json:"unit_price"`
	Prime              *bool             `json:"prime"`
	FinalURL           string            `json:"final_url"`
	OriginalAmazonLink string            `json:"original_amazon_link"`

	// MainSeller is nil when the listing carried no resolvable seller name.
	MainSeller   *SellerOffer   `json:"main_seller"`
	SellerMarket []*SellerOffer `json:"seller_market"`
}

// Offers returns the reference offer (when present) followed by the
// marketplace offers, in roster order.
func (v *Variant) Offers() []*SellerOffer {
	out := make([]*SellerOffer, 0, len(v.SellerMarket)+1)
	if v.MainSeller != nil {
		out = append(out, v.MainSeller)
	}
	return append(out, v.SellerMarket...)
}

// SellerOffer is one seller's terms for one variant. Deviation and rating
// fields are only populated for marketplace (non-reference) sellers.
type SellerOffer struct {
	ASIN          string   `json:"asin"`
	SellerName    string   `json:"seller_name"`
	ShipsFrom     string   `json:"ships_from"`
	IsAuthorized  bool     `json:"is_authorized"`
	Price         *float64 `json:"price"`
	UnitPrice     *float64 `json:"unit_price"`
	PriceCurrency string   `json:"price_currency"`
	Prime         *bool    `json:"prime,omitempty"`

	PriceDeltaAbs         *float64    `json:"price_delta_abs,omitempty"`
	PriceDeltaPercent     *float64    `json:"price_delta_percent,omitempty"`
	PriceFlag             *PriceFlag  `json:"price_flag,omitempty"`
	RatingStars           *float64    `json:"rating_stars,omitempty"`
	RatingCount           *int        `json:"rating_count,omitempty"`
	PositiveRatingPercent *float64    `json:"positive_rating_percent,omitempty"`
	RatingFlag            *RatingFlag `json:"rating_flag,omitempty"`
}
