package storage

import (
	"time"

	"github.com/VigneshAMPT001/kind-ui/models"
	"github.com/VigneshAMPT001/kind-ui/utils"
)

func f64(v float64) *float64 { return &v }

func newTestLogger() *utils.Logger { return utils.NewNopLogger() }

func testSnapshot() *models.Snapshot {
	gouging := models.PriceGouging
	fair := models.PriceFair
	good := models.RatingGood
	prime := true
	count := 1200

	return &models.Snapshot{
		RunID:       "run-1",
		GeneratedAt: time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC),
		Families: []*models.ProductFamily{
			{
				Key:             "https://www.kindsnacks.com/products/kind-bars/dark-chocolate-nuts",
				Category:        "Bars",
				CategoryDisplay: "Bars",
				ProductName:     "Kind Bars",
				Variants: []*models.Variant{
					{
						ASIN:              "B100",
						VariantName:       "Dark Chocolate",
						Title:             "KIND Bars, Dark Chocolate Nuts",
						Flavor:            "Dark Chocolate",
						Size:              "12 Count",
						VariantDimensions: map[string]string{"flavor_name": "Dark Chocolate"},
						Price:             f64(10),
						UnitPrice:         f64(0.83),
						Prime:             &prime,
						FinalURL:          "https://www.amazon.com/dp/B100",
						MainSeller: &models.SellerOffer{
							ASIN: "B100", SellerName: "Amazon.com", ShipsFrom: "Amazon.com", IsAuthorized: true,
							Price: f64(10), UnitPrice: f64(0.83), PriceCurrency: "USD", Prime: &prime,
						},
						SellerMarket: []*models.SellerOffer{
							{
								ASIN: "B100", SellerName: "Resell Co", Price: f64(16), PriceCurrency: "USD",
								PriceDeltaAbs: f64(6), PriceDeltaPercent: f64(60), PriceFlag: &gouging,
								RatingStars: f64(4.5), RatingCount: &count, PositiveRatingPercent: f64(80), RatingFlag: &good,
							},
							{
								ASIN: "B100", SellerName: "Snack Hub", Price: f64(10), PriceCurrency: "USD",
								PriceDeltaAbs: f64(0), PriceDeltaPercent: f64(0), PriceFlag: &fair,
							},
						},
					},
					{
						ASIN:              "B200",
						VariantName:       "Almond",
						VariantDimensions: map[string]string{"size_name": "6 Count"},
						SellerMarket:      []*models.SellerOffer{{ASIN: "B200", SellerName: "Deal Barn", PriceCurrency: "USD"}},
					},
				},
			},
		},
		Summary:     &models.InsightReport{TotalProducts: 1, TotalCategories: 1, TotalSKUs: 2},
		Diagnostics: models.Diagnostics{RecordsLoaded: 3, CanonicalItems: 2},
	}
}
