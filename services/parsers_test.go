package services

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseMoney(t *testing.T) {
	tests := []struct {
		raw  string
		want *float64
	}{
		{"$12,345.67 (List)", f64(12345.67)},
		{"$9.99", f64(9.99)},
		{"Price: $25", f64(25)},
		{"$0.00", f64(0)},
		{"", nil},
		{"Free", nil},
		{"USD 99", nil},
	}

	for _, tt := range tests {
		got := ParseMoney(tt.raw)
		assert.Equal(t, tt.want, got, "ParseMoney(%q)", tt.raw)
	}
}

func TestParseUnitPrice(t *testing.T) {
	tests := []struct {
		raw  string
		want *float64
	}{
		{"($0.42/Ounce)", f64(0.42)},
		{"$1,234.50 / count", f64(1234.50)},
		{"$3.99", f64(3.99)},
		{"per bar", nil},
		{"", nil},
	}

	for _, tt := range tests {
		got := ParseUnitPrice(tt.raw)
		assert.Equal(t, tt.want, got, "ParseUnitPrice(%q)", tt.raw)
	}
}

func TestParseRatingStars(t *testing.T) {
	assert.Equal(t, f64(4.5), ParseRatingStars("4.5 out of 5 stars"))
	assert.Equal(t, f64(3), ParseRatingStars("3 out of  5"))
	assert.Nil(t, ParseRatingStars("Just launched"))
	assert.Nil(t, ParseRatingStars(""))
}

func TestParseRatingMeta(t *testing.T) {
	count, pos := ParseRatingMeta("(1,024 ratings) 92% positive lifetime")
	require.NotNil(t, count)
	require.NotNil(t, pos)
	assert.Equal(t, 1024, *count)
	assert.Equal(t, 92.0, *pos)

	count, pos = ParseRatingMeta("(1 rating)")
	require.NotNil(t, count)
	assert.Equal(t, 1, *count)
	assert.Nil(t, pos)

	count, pos = ParseRatingMeta("87% positive over the past 12 months")
	assert.Nil(t, count)
	require.NotNil(t, pos)
	assert.Equal(t, 87.0, *pos)

	count, pos = ParseRatingMeta("")
	assert.Nil(t, count)
	assert.Nil(t, pos)
}

func TestExtractSlug(t *testing.T) {
	name, ok := ExtractSlug("https://www.kindsnacks.com/products/thins/caramel-almond-sea-salt/")
	assert.True(t, ok)
	assert.Equal(t, "Caramel Almond Sea Salt", name)

	name, ok = ExtractSlug("https://example.com/bars/DARK-chocolate-nuts?x=1")
	assert.True(t, ok)
	assert.Equal(t, "Dark Chocolate Nuts", name)

	_, ok = ExtractSlug("https://example.com/")
	assert.False(t, ok)

	_, ok = ExtractSlug("")
	assert.False(t, ok)

	_, ok = ExtractSlug("://bad url")
	assert.False(t, ok)
}

func TestExtractProductFamily(t *testing.T) {
	name, ok := ExtractProductFamily("https://www.kindsnacks.com/products/kind-thins/caramel-almond")
	assert.True(t, ok)
	assert.Equal(t, "Kind Thins", name)

	_, ok = ExtractProductFamily("https://www.kindsnacks.com/collections/bars")
	assert.False(t, ok)

	_, ok = ExtractProductFamily("https://www.kindsnacks.com/products")
	assert.False(t, ok)
}

func TestFamilyNameFallsBackToSlug(t *testing.T) {
	assert.Equal(t, "Kind Thins", FamilyName("https://kindsnacks.com/products/kind-thins/x"))
	assert.Equal(t, "Protein Bars", FamilyName("https://kindsnacks.com/collections/protein-bars"))
	assert.Equal(t, "", FamilyName(""))
}

func TestCategoryDisplay(t *testing.T) {
	assert.Equal(t, "Protein Bars", CategoryDisplay("protein_bars"))
	assert.Equal(t, "All Snacks", CategoryDisplay("All_Snacks"))
}

func f64(v float64) *float64 { return &v }
