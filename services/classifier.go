package services

import "github.com/VigneshAMPT001/kind-ui/models"

// PriceThresholds are the inclusive upper bounds, in percent above the
// reference price, of the three lower severity tiers. Anything above
// HighMax is gouging.
type PriceThresholds struct {
	FairMax         float64
	SlightlyHighMax float64
	HighMax         float64
}

// DefaultPriceThresholds: <=0% fair, <=20% slightly high, <=50% high.
func DefaultPriceThresholds() PriceThresholds {
	return PriceThresholds{FairMax: 0, SlightlyHighMax: 20, HighMax: 50}
}

// RatingThresholds are the inclusive lower bounds, in positive-rating
// percent, of the three upper quality tiers. Anything below MixedMin is poor.
type RatingThresholds struct {
	ExcellentMin float64
	GoodMin      float64
	MixedMin     float64
}

// DefaultRatingThresholds: >=90 excellent, >=75 good, >=50 mixed.
func DefaultRatingThresholds() RatingThresholds {
	return RatingThresholds{ExcellentMin: 90, GoodMin: 75, MixedMin: 50}
}

// Classifier maps price deviations and positive-rating percentages to tiers.
type Classifier struct {
	price  PriceThresholds
	rating RatingThresholds
}

// NewClassifier creates a Classifier with the given tier boundaries.
func NewClassifier(price PriceThresholds, rating RatingThresholds) *Classifier {
	return &Classifier{price: price, rating: rating}
}

// PriceFlag classifies a deviation percentage. Nil in, nil out.
func (c *Classifier) PriceFlag(pct *float64) *models.PriceFlag {
	if pct == nil {
		return nil
	}

	var flag models.PriceFlag
	switch p := *pct; {
	case p <= c.price.FairMax:
		flag = models.PriceFair
	case p <= c.price.SlightlyHighMax:
		flag = models.PriceSlightlyHigh
	case p <= c.price.HighMax:
		flag = models.PriceHigh
	default:
		flag = models.PriceGouging
	}
	return &flag
}

// RatingFlag classifies a positive-rating percentage. Nil in, nil out.
func (c *Classifier) RatingFlag(positive *float64) *models.RatingFlag {
	if positive == nil {
		return nil
	}

	var flag models.RatingFlag
	switch p := *positive; {
	case p >= c.rating.ExcellentMin:
		flag = models.RatingExcellent
	case p >= c.rating.GoodMin:
		flag = models.RatingGood
	case p >= c.rating.MixedMin:
		flag = models.RatingMixed
	default:
		flag = models.RatingPoor
	}
	return &flag
}

// PriceDeviation returns the absolute and percent difference of price over
// reference. Both are nil unless both prices are known and reference is non-zero.
func PriceDeviation(price, reference *float64) (abs, pct *float64) {
	if price == nil || reference == nil || *reference == 0 {
		return nil, nil
	}
	delta := *price - *reference
	// multiply first so whole-percent boundaries land exactly
	percent := delta * 100 / *reference
	return &delta, &percent
}
