package models

// PriceFlag is the severity tier of a marketplace price against the reference price.
type PriceFlag string

const (
	PriceFair         PriceFlag = "fair"
	PriceSlightlyHigh PriceFlag = "slightly_high"
	PriceHigh         PriceFlag = "high"
	PriceGouging      PriceFlag = "gouging"
)

// PriceFlags lists the tiers from least to most severe.
var PriceFlags = []PriceFlag{PriceFair, PriceSlightlyHigh, PriceHigh, PriceGouging}

// Label is the business-facing name of the tier.
func (f PriceFlag) Label() string {
	switch f {
	case PriceFair:
		return "Fair Price"
	case PriceSlightlyHigh:
		return "Slightly High"
	case PriceHigh:
		return "High Price"
	case PriceGouging:
		return "Price Gouging"
	}
	return string(f)
}

// RatingFlag is the quality tier of a seller's positive-rating percentage.
type RatingFlag string

const (
	RatingExcellent RatingFlag = "excellent"
	RatingGood      RatingFlag = "good"
	RatingMixed     RatingFlag = "mixed"
	RatingPoor      RatingFlag = "poor"
)

// RatingFlags lists the tiers from best to worst.
var RatingFlags = []RatingFlag{RatingExcellent, RatingGood, RatingMixed, RatingPoor}
