package services

import (
	"strings"

	"github.com/VigneshAMPT001/kind-ui/metrics"
	"github.com/VigneshAMPT001/kind-ui/models"
	"github.com/VigneshAMPT001/kind-ui/utils"
)

// NormalizerOptions configures how seller rosters are built.
type NormalizerOptions struct {
	// OperatorName is the exact sold-by value of the platform operator.
	// Only a main seller with this name is marked authorized.
	OperatorName string
	Currency     string
	Classifier   *Classifier
}

// DefaultNormalizerOptions returns the Amazon/USD defaults.
func DefaultNormalizerOptions() NormalizerOptions {
	return NormalizerOptions{
		OperatorName: "Amazon.com",
		Currency:     "USD",
		Classifier:   NewClassifier(DefaultPriceThresholds(), DefaultRatingThresholds()),
	}
}

// BuildStats counts what the normalizer absorbed.
type BuildStats struct {
	MissingIdentity     int
	MissingSource       int
	DuplicateVariants   int
	OffersMissingSeller int
}

// Normalizer groups canonical items into product families.
type Normalizer struct {
	logger  *utils.Logger
	metrics *metrics.Recorder
	opts    NormalizerOptions
}

// NewNormalizer creates a Normalizer. rec may be nil.
func NewNormalizer(logger *utils.Logger, rec *metrics.Recorder, opts NormalizerOptions) *Normalizer {
	if opts.Classifier == nil {
		opts.Classifier = NewClassifier(DefaultPriceThresholds(), DefaultRatingThresholds())
	}
	return &Normalizer{logger: logger, metrics: rec, opts: opts}
}

// Build groups items by source product URL. Families and variants appear in
// the order their first item was seen, so the same input always produces
// the same output. Family-level fields come from the first item of each page.
func (n *Normalizer) Build(items []*models.CanonicalItem) ([]*models.ProductFamily, BuildStats) {
	var stats BuildStats
	families := make([]*models.ProductFamily, 0)
	byKey := make(map[models.FamilyKey]*models.ProductFamily)
	asinsByKey := make(map[models.FamilyKey]map[string]struct{})
	variants := 0

	for _, item := range items {
		if item == nil || item.Record == nil || strings.TrimSpace(item.ASIN) == "" {
			stats.MissingIdentity++
			n.metrics.Dropped(metrics.ReasonMissingIdentity)
			continue
		}
		if item.SourceURL == "" {
			stats.MissingSource++
			n.metrics.Dropped(metrics.ReasonMissingSource)
			n.logger.Debug("[normalizer] Dropping %s: no source product URL", item.ASIN)
			continue
		}

		key := models.FamilyKey(item.SourceURL)
		family, ok := byKey[key]
		if !ok {
			family = newFamily(key, item)
			byKey[key] = family
			asinsByKey[key] = make(map[string]struct{})
			families = append(families, family)
		}

		if _, dup := asinsByKey[key][item.ASIN]; dup {
			stats.DuplicateVariants++
			n.metrics.Dropped(metrics.ReasonDuplicate)
			continue
		}
		asinsByKey[key][item.ASIN] = struct{}{}

		family.Variants = append(family.Variants, n.buildVariant(item, &stats))
		variants++
	}

	n.metrics.Snapshot(len(families), variants)
	n.logger.Info("[normalizer] Built %d product families with %d variants (dropped: %d no ASIN, %d no source, %d sellers unnamed)",
		len(families), variants, stats.MissingIdentity, stats.MissingSource, stats.OffersMissingSeller)
	return families, stats
}

func newFamily(key models.FamilyKey, item *models.CanonicalItem) *models.ProductFamily {
	display := strings.TrimSpace(item.Record.CategoryDisplay)
	if display == "" {
		display = CategoryDisplay(item.Category)
	}
	name := FamilyName(string(key))
	if name == "" {
		name = string(key)
	}
	return &models.ProductFamily{
		Key:             key,
		Category:        item.Category,
		CategoryDisplay: display,
		ProductName:     name,
		Variants:        make([]*models.Variant, 0, 1),
	}
}

func (n *Normalizer) buildVariant(item *models.CanonicalItem, stats *BuildStats) *models.Variant {
	r := item.Record
	price := ParseMoney(r.Price)
	unitPrice := ParseUnitPrice(r.PricePerUnit)
	name := variantName(item)

	v := &models.Variant{
		ASIN:               item.ASIN,
		VariantName:        name,
		Title:              strings.TrimSpace(r.Title),
		Flavor:             name,
		Size:               strings.TrimSpace(r.Size),
		VariantDimensions:  copyDimensions(r.VariantDimensions),
		Price:              price,
		UnitPrice:          unitPrice,
		Prime:              copyBool(r.Prime),
		FinalURL:           r.FinalURL,
		OriginalAmazonLink: r.OriginalAmazonLink,
		SellerMarket:       make([]*models.SellerOffer, 0, len(r.OtherSellers)),
	}

	if seller := strings.TrimSpace(r.SoldBy); seller != "" {
		v.MainSeller = &models.SellerOffer{
			ASIN:          item.ASIN,
			SellerName:    seller,
			ShipsFrom:     strings.TrimSpace(r.ShipsFrom),
			IsAuthorized:  seller == n.opts.OperatorName,
			Price:         price,
			UnitPrice:     unitPrice,
			PriceCurrency: n.opts.Currency,
			Prime:         copyBool(r.Prime),
		}
	} else {
		stats.OffersMissingSeller++
		n.metrics.Dropped(metrics.ReasonMissingSeller)
	}

	for _, other := range r.OtherSellers {
		offer := n.buildMarketOffer(item.ASIN, other, price)
		if offer == nil {
			stats.OffersMissingSeller++
			n.metrics.Dropped(metrics.ReasonMissingSeller)
			continue
		}
		v.SellerMarket = append(v.SellerMarket, offer)
	}
	return v
}

// buildMarketOffer returns nil when the seller has no usable name.
func (n *Normalizer) buildMarketOffer(asin string, raw models.RawSellerOffer, reference *float64) *models.SellerOffer {
	seller := strings.TrimSpace(raw.SoldBy)
	if seller == "" {
		return nil
	}

	price := ParseMoney(raw.Price)
	abs, pct := PriceDeviation(price, reference)
	count, positive := ParseRatingMeta(raw.SellerRatingCount)
	flag := n.opts.Classifier.PriceFlag(pct)

	if flag != nil {
		n.metrics.Offer(string(*flag))
	} else {
		n.metrics.Offer("")
	}

	return &models.SellerOffer{
		ASIN:                  asin,
		SellerName:            seller,
		ShipsFrom:             strings.TrimSpace(raw.ShipsFrom),
		IsAuthorized:          false,
		Price:                 price,
		UnitPrice:             ParseUnitPrice(raw.PricePerUnit),
		PriceCurrency:         n.opts.Currency,
		PriceDeltaAbs:         abs,
		PriceDeltaPercent:     pct,
		PriceFlag:             flag,
		RatingStars:           ParseRatingStars(raw.SellerRating),
		RatingCount:           count,
		PositiveRatingPercent: positive,
		RatingFlag:            n.opts.Classifier.RatingFlag(positive),
	}
}

// variantName resolves flavor, then the flavor_name dimension, then the
// slug of the product page.
func variantName(item *models.CanonicalItem) string {
	if f := strings.TrimSpace(item.Record.Flavor); f != "" {
		return f
	}
	if f := strings.TrimSpace(item.Record.FlavorDimension()); f != "" {
		return f
	}
	slug, _ := ExtractSlug(item.SourceURL)
	return slug
}

func copyDimensions(in map[string]string) map[string]string {
	out := make(map[string]string, len(in))
	for k, v := range in {
		out[k] = v
	}
	return out
}

func copyBool(b *bool) *bool {
	if b == nil {
		return nil
	}
	v := *b
	return &v
}
