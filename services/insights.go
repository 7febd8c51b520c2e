package services

import (
	"sort"
	"strings"

	"github.com/VigneshAMPT001/kind-ui/models"
	"github.com/VigneshAMPT001/kind-ui/utils"
)

// DefaultTopN is the default length of the gouging ranking.
const DefaultTopN = 10

// InsightOptions configures the report.
type InsightOptions struct {
	// ExcludedSellers are operator and brand names left out of the
	// third-party seller sets. Compared case-insensitively after trimming.
	ExcludedSellers []string
	TopN            int
}

// DefaultInsightOptions excludes Amazon and the brand itself.
func DefaultInsightOptions() InsightOptions {
	return InsightOptions{
		ExcludedSellers: []string{"Amazon.com", "Kind", "Kind Snacks"},
		TopN:            DefaultTopN,
	}
}

type InsightService struct {
	logger   *utils.Logger
	excluded map[string]struct{}
	topN     int
}

func NewInsightService(logger *utils.Logger, opts InsightOptions) *InsightService {
	excluded := make(map[string]struct{}, len(opts.ExcludedSellers))
	for _, name := range opts.ExcludedSellers {
		excluded[normaliseSeller(name)] = struct{}{}
	}
	topN := opts.TopN
	if topN < 1 {
		topN = DefaultTopN
	}
	return &InsightService{logger: logger, excluded: excluded, topN: topN}
}

// IsExcluded reports whether name is one of the configured operator names.
func (s *InsightService) IsExcluded(name string) bool {
	_, ok := s.excluded[normaliseSeller(name)]
	return ok
}

// categoryTally accumulates per-category figures in first-seen order.
type categoryTally struct {
	name       string
	families   int
	skus       int
	sellers    *utils.OrderedSet
	thirdParty *utils.OrderedSet
}

// Generate computes the report. It reads families without modifying them.
func (s *InsightService) Generate(families []*models.ProductFamily) *models.InsightReport {
	report := &models.InsightReport{
		ProductsPerCategory:     []models.CategoryCount{},
		SKUsPerCategory:         []models.CategoryCount{},
		UniqueSellers:           []string{},
		ThirdPartySellers:       []string{},
		SellersPerCategory:      []models.CategorySellers{},
		SellerImpact:            []models.SellerImpact{},
		TopGouged:               []models.GougedOffer{},
		ProductVariantSummaries: []models.ProductSummary{},
	}

	var categories []*categoryTally
	byCategory := make(map[string]*categoryTally)

	sellers := utils.NewOrderedSet()
	thirdParty := utils.NewOrderedSet()

	// seller -> distinct ASINs, sellers kept in first-seen order
	impactOrder := utils.NewOrderedSet()
	impact := make(map[string]*utils.OrderedSet)

	priceFlags := make(map[models.PriceFlag]int)
	ratingFlags := make(map[models.RatingFlag]int)
	var gouged []models.GougedOffer

	for _, f := range families {
		tally, ok := byCategory[f.Category]
		if !ok {
			tally = &categoryTally{
				name:       f.Category,
				sellers:    utils.NewOrderedSet(),
				thirdParty: utils.NewOrderedSet(),
			}
			byCategory[f.Category] = tally
			categories = append(categories, tally)
		}
		tally.families++
		tally.skus += f.SKUCount()
		report.TotalSKUs += f.SKUCount()

		marketSellers := utils.NewOrderedSet()

		for _, v := range f.Variants {
			for _, offer := range v.Offers() {
				name := strings.TrimSpace(offer.SellerName)
				if name == "" {
					continue
				}
				sellers.Add(name)
				tally.sellers.Add(name)
				if !s.IsExcluded(name) {
					thirdParty.Add(name)
					tally.thirdParty.Add(name)
				}

				if impactOrder.Add(name) {
					impact[name] = utils.NewOrderedSet()
				}
				impact[name].Add(v.ASIN)
			}

			for _, offer := range v.SellerMarket {
				if name := strings.TrimSpace(offer.SellerName); name != "" {
					marketSellers.Add(name)
				}
				if offer.PriceFlag != nil {
					priceFlags[*offer.PriceFlag]++
				}
				if offer.RatingFlag != nil {
					ratingFlags[*offer.RatingFlag]++
				}
				if offer.PriceDeltaPercent != nil {
					gouged = append(gouged, gougedOffer(f, v, offer))
				}
			}
		}

		report.ProductVariantSummaries = append(report.ProductVariantSummaries, models.ProductSummary{
			ProductName:            f.ProductName,
			Category:               f.Category,
			VariantCount:           f.SKUCount(),
			UniqueSellersInProduct: marketSellers.Values(),
		})
	}

	report.TotalProducts = len(families)
	report.TotalCategories = len(categories)
	for _, c := range categories {
		report.ProductsPerCategory = append(report.ProductsPerCategory, models.CategoryCount{Category: c.name, Count: c.families})
		report.SKUsPerCategory = append(report.SKUsPerCategory, models.CategoryCount{Category: c.name, Count: c.skus})
		report.SellersPerCategory = append(report.SellersPerCategory, models.CategorySellers{
			Category:          c.name,
			Sellers:           sortedValues(c.sellers),
			ThirdPartySellers: sortedValues(c.thirdParty),
		})
	}
	report.UniqueSellers = sortedValues(sellers)
	report.ThirdPartySellers = sortedValues(thirdParty)

	for _, name := range impactOrder.Values() {
		report.SellerImpact = append(report.SellerImpact, models.SellerImpact{Seller: name, SKUCount: impact[name].Size()})
	}
	sort.SliceStable(report.SellerImpact, func(i, j int) bool {
		return report.SellerImpact[i].SKUCount > report.SellerImpact[j].SKUCount
	})

	report.PriceFlagCounts = make([]models.TierCount, 0, len(models.PriceFlags))
	for _, flag := range models.PriceFlags {
		report.PriceFlagCounts = append(report.PriceFlagCounts, models.TierCount{Tier: string(flag), Count: priceFlags[flag]})
	}
	report.RatingFlagCounts = make([]models.TierCount, 0, len(models.RatingFlags))
	for _, flag := range models.RatingFlags {
		report.RatingFlagCounts = append(report.RatingFlagCounts, models.TierCount{Tier: string(flag), Count: ratingFlags[flag]})
	}

	sort.SliceStable(gouged, func(i, j int) bool {
		return gouged[i].PriceDeltaPercent > gouged[j].PriceDeltaPercent
	})
	if len(gouged) > s.topN {
		gouged = gouged[:s.topN]
	}
	report.TopGouged = append(report.TopGouged, gouged...)

	s.logger.Info("[insights] %d families, %d SKUs, %d sellers (%d third-party), %d ranked deviations",
		report.TotalProducts, report.TotalSKUs, len(report.UniqueSellers), len(report.ThirdPartySellers), len(report.TopGouged))
	return report
}

func gougedOffer(f *models.ProductFamily, v *models.Variant, offer *models.SellerOffer) models.GougedOffer {
	g := models.GougedOffer{
		ASIN:              v.ASIN,
		ProductName:       f.ProductName,
		VariantName:       v.VariantName,
		Category:          f.Category,
		Seller:            offer.SellerName,
		Price:             offer.Price,
		ReferencePrice:    v.Price,
		PriceDeltaPercent: *offer.PriceDeltaPercent,
	}
	if offer.PriceFlag != nil {
		g.PriceFlag = *offer.PriceFlag
	}
	return g
}

func sortedValues(s *utils.OrderedSet) []string {
	out := s.Values()
	sort.Strings(out)
	return out
}

func normaliseSeller(name string) string {
	return strings.ToLower(strings.TrimSpace(name))
}
