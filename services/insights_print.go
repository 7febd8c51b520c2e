package services

import (
	"fmt"
	"io"
	"sort"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/VigneshAMPT001/kind-ui/models"
)

var (
	bannerStyle  = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("135"))
	sectionStyle = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("220"))
	valueStyle   = lipgloss.NewStyle().Bold(true)
	goodStyle    = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("42"))
	badStyle     = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("196"))
	mutedStyle   = lipgloss.NewStyle().Faint(true)
)

// Print renders the report for a terminal.
func (s *InsightService) Print(w io.Writer, r *models.InsightReport) {
	sep := strings.Repeat("═", 60)
	thin := strings.Repeat("─", 60)

	section := func(title string) {
		fmt.Fprintf(w, "%s\n  %s\n", sectionStyle.Render("  "+title), thin)
	}

	fmt.Fprintf(w, "\n%s\n%s\n%s\n\n",
		bannerStyle.Render(sep), bannerStyle.Render("  MARKETPLACE SELLER INSIGHTS"), bannerStyle.Render(sep))

	section("Overview")
	fmt.Fprintf(w, "  Product families       : %s\n", valueStyle.Render(fmt.Sprint(r.TotalProducts)))
	fmt.Fprintf(w, "  Categories             : %s\n", valueStyle.Render(fmt.Sprint(r.TotalCategories)))
	fmt.Fprintf(w, "  Total SKUs             : %s\n", valueStyle.Render(fmt.Sprint(r.TotalSKUs)))
	fmt.Fprintf(w, "  Third-party sellers    : %s\n\n", valueStyle.Render(fmt.Sprint(len(r.ThirdPartySellers))))

	section("SKUs per Category (ascending)")
	if len(r.SKUsPerCategory) == 0 {
		fmt.Fprintf(w, "  %s\n", mutedStyle.Render("No category data"))
	}
	skus := append([]models.CategoryCount(nil), r.SKUsPerCategory...)
	sort.SliceStable(skus, func(i, j int) bool {
		if skus[i].Count != skus[j].Count {
			return skus[i].Count < skus[j].Count
		}
		return skus[i].Category < skus[j].Category
	})
	for _, c := range skus {
		fmt.Fprintf(w, "  %-30s %s (%d)\n", truncate(c.Category, 28), strings.Repeat("█", min(c.Count, 25)), c.Count)
	}
	fmt.Fprintln(w)

	section(fmt.Sprintf("Top %d Most Gouged Offers", len(r.TopGouged)))
	if len(r.TopGouged) == 0 {
		fmt.Fprintf(w, "  %s\n", mutedStyle.Render("No price deviations found"))
	}
	for i, g := range r.TopGouged {
		style := goodStyle
		if g.PriceFlag == models.PriceHigh || g.PriceFlag == models.PriceGouging {
			style = badStyle
		}
		fmt.Fprintf(w, "  %s %-34s %-22s %s\n",
			valueStyle.Render(fmt.Sprintf("%2d.", i+1)),
			truncate(g.ProductName+" / "+g.VariantName, 34),
			truncate(g.Seller, 22),
			style.Render(fmt.Sprintf("%+.1f%%", g.PriceDeltaPercent)))
	}
	fmt.Fprintln(w)

	section("Seller SKU Impact")
	if len(r.SellerImpact) == 0 {
		fmt.Fprintf(w, "  %s\n", mutedStyle.Render("No seller data"))
	}
	for _, si := range r.SellerImpact {
		fmt.Fprintf(w, "  %-30s %d\n", truncate(si.Seller, 28), si.SKUCount)
	}
	fmt.Fprintln(w)

	section("Price Flags")
	for _, tc := range r.PriceFlagCounts {
		fmt.Fprintf(w, "  %-20s %d\n", models.PriceFlag(tc.Tier).Label(), tc.Count)
	}
	fmt.Fprintln(w)

	section("Seller Rating Tiers")
	for _, tc := range r.RatingFlagCounts {
		fmt.Fprintf(w, "  %-20s %d\n", tc.Tier, tc.Count)
	}

	fmt.Fprintf(w, "\n%s\n\n", bannerStyle.Render(sep))
}

func truncate(s string, max int) string {
	r := []rune(s)
	if len(r) <= max {
		return s
	}
	return string(r[:max-3]) + "..."
}
