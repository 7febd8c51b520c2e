package services

import (
	"net/url"
	"regexp"
	"strconv"
	"strings"
	"unicode"
)

var (
	// moneyRegexp captures the first dollar amount, e.g. "$12.99"
	moneyRegexp = regexp.MustCompile(`\$([0-9]+(?:\.[0-9]+)?)`)
	// unitPriceRegexp captures per-unit notation, e.g. "$0.42/Ounce"
	unitPriceRegexp = regexp.MustCompile(`\$([0-9]+(?:\.[0-9]+)?)\s*/`)
	// starsRegexp captures "4.5 out of 5"
	starsRegexp = regexp.MustCompile(`(\d+(?:\.\d+)?)\s+out of\s+5`)
	// ratingCountRegexp captures "(1,234 ratings)"
	ratingCountRegexp = regexp.MustCompile(`\(([\d,]+)\s+ratings?\)`)
	// positiveRegexp captures "93% positive"
	positiveRegexp = regexp.MustCompile(`(\d+)%\s+positive`)
)

// ParseMoney extracts the first "$<number>" amount from free text, ignoring
// thousands separators. It returns nil when there is no amount.
func ParseMoney(raw string) *float64 {
	if raw == "" {
		return nil
	}
	return firstFloat(moneyRegexp, strings.ReplaceAll(raw, ",", ""))
}

// ParseUnitPrice prefers a "$<number>/" per-unit amount and falls back to
// ParseMoney when the text has no unit notation.
func ParseUnitPrice(raw string) *float64 {
	if raw == "" {
		return nil
	}
	if v := firstFloat(unitPriceRegexp, strings.ReplaceAll(raw, ",", "")); v != nil {
		return v
	}
	return ParseMoney(raw)
}

// ParseRatingStars extracts the star value from "<number> out of 5".
func ParseRatingStars(raw string) *float64 {
	if raw == "" {
		return nil
	}
	return firstFloat(starsRegexp, raw)
}

// ParseRatingMeta extracts the rating count and positive percentage from
// text like "(1,024 ratings) 92% positive". Each value is found independently.
func ParseRatingMeta(raw string) (count *int, positive *float64) {
	if raw == "" {
		return nil, nil
	}

	if m := ratingCountRegexp.FindStringSubmatch(raw); len(m) == 2 {
		if n, err := strconv.Atoi(strings.ReplaceAll(m[1], ",", "")); err == nil {
			count = &n
		}
	}
	positive = firstFloat(positiveRegexp, raw)
	return count, positive
}

// ExtractSlug turns the last path segment of a URL into a title-cased label:
// ".../caramel-almond-sea-salt/" becomes "Caramel Almond Sea Salt".
func ExtractSlug(rawURL string) (string, bool) {
	if rawURL == "" {
		return "", false
	}
	u, err := url.Parse(rawURL)
	if err != nil {
		return "", false
	}
	segments := strings.Split(strings.TrimRight(u.Path, "/"), "/")
	last := segments[len(segments)-1]
	if last == "" {
		return "", false
	}
	return titleCase(strings.ReplaceAll(last, "-", " ")), true
}

// ExtractProductFamily returns the title-cased segment that follows a
// "products" path segment, e.g. "/products/thins/..." gives "Thins".
func ExtractProductFamily(rawURL string) (string, bool) {
	if rawURL == "" {
		return "", false
	}
	u, err := url.Parse(rawURL)
	if err != nil {
		return "", false
	}
	parts := strings.Split(u.Path, "/")
	for i, p := range parts {
		if p != "products" {
			continue
		}
		if i+1 >= len(parts) {
			return "", false
		}
		return titleCase(strings.ReplaceAll(parts[i+1], "-", " ")), true
	}
	return "", false
}

// FamilyName is the display name for a product page: the products segment
// when the URL has one, otherwise the slug. Empty when neither resolves.
func FamilyName(rawURL string) string {
	if name, ok := ExtractProductFamily(rawURL); ok {
		return name
	}
	name, _ := ExtractSlug(rawURL)
	return name
}

// CategoryDisplay turns a directory-style category label into a heading:
// "protein_bars" becomes "Protein Bars".
func CategoryDisplay(category string) string {
	return titleCase(strings.ReplaceAll(category, "_", " "))
}

func firstFloat(re *regexp.Regexp, s string) *float64 {
	m := re.FindStringSubmatch(s)
	if len(m) < 2 {
		return nil
	}
	v, err := strconv.ParseFloat(m[1], 64)
	if err != nil {
		return nil
	}
	return &v
}

// titleCase upper-cases the first letter of every letter run and lower-cases
// the rest, so "SEA-salt" style input normalises consistently.
func titleCase(s string) string {
	var b strings.Builder
	b.Grow(len(s))
	prevLetter := false
	for _, r := range s {
		if unicode.IsLetter(r) {
			if prevLetter {
				b.WriteRune(unicode.ToLower(r))
			} else {
				b.WriteRune(unicode.ToUpper(r))
			}
			prevLetter = true
			continue
		}
		b.WriteRune(r)
		prevLetter = false
	}
	return b.String()
}
