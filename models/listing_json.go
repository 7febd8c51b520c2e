package models

import (
	"bytes"
	"encoding/json"
	"fmt"
	"strconv"
)

// UnmarshalJSON decodes a scraped listing leniently. Scrapers emit numbers,
// nulls and strings interchangeably for the same field, so every text field
// accepts any scalar and anything unusable decodes as empty. The only error
// is a record that is not a JSON object.
func (r *RawListing) UnmarshalJSON(data []byte) error {
	var fields map[string]json.RawMessage
	if err := decodeObject(data, &fields); err != nil {
		return err
	}

	*r = RawListing{
		ASIN:               scalarString(fields["asin"]),
		SourceProductURL:   scalarString(fields["source_product_url"]),
		Category:           scalarString(fields["category"]),
		CategoryDisplay:    scalarString(fields["category_display"]),
		Title:              scalarString(fields["title"]),
		Flavor:             scalarString(fields["flavor"]),
		Size:               scalarString(fields["size"]),
		VariantDimensions:  stringMap(fields["variant_dimensions"]),
		Price:              scalarString(fields["price"]),
		PricePerUnit:       scalarString(fields["price_per_unit"]),
		SoldBy:             scalarString(fields["sold_by"]),
		ShipsFrom:          scalarString(fields["ships_from"]),
		Prime:              looseBool(fields["prime"]),
		FinalURL:           scalarString(fields["final_url"]),
		OriginalAmazonLink: scalarString(fields["original_amazon_link"]),
	}

	var others []json.RawMessage
	if raw, ok := fields["other_sellers"]; ok && json.Unmarshal(raw, &others) == nil {
		for _, o := range others {
			var sub map[string]json.RawMessage
			if decodeObject(o, &sub) != nil {
				continue
			}
			r.OtherSellers = append(r.OtherSellers, RawSellerOffer{
				SoldBy:            scalarString(sub["sold_by"]),
				ShipsFrom:         scalarString(sub["ships_from"]),
				Price:             scalarString(sub["price"]),
				PricePerUnit:      scalarString(sub["price_per_unit"]),
				SellerRating:      scalarString(sub["seller_rating"]),
				SellerRatingCount: scalarString(sub["seller_rating_count"]),
			})
		}
	}
	return nil
}

func decodeObject(data []byte, dst *map[string]json.RawMessage) error {
	trimmed := bytes.TrimSpace(data)
	if len(trimmed) == 0 || trimmed[0] != '{' {
		return fmt.Errorf("listing is not a JSON object")
	}
	return json.Unmarshal(trimmed, dst)
}

// scalarString renders a JSON string, number or bool as text. Null, objects
// and arrays yield "".
func scalarString(raw json.RawMessage) string {
	if len(raw) == 0 {
		return ""
	}
	var v any
	if err := json.Unmarshal(raw, &v); err != nil {
		return ""
	}
	switch t := v.(type) {
	case string:
		return t
	case float64:
		return strconv.FormatFloat(t, 'f', -1, 64)
	case bool:
		return strconv.FormatBool(t)
	}
	return ""
}

func looseBool(raw json.RawMessage) *bool {
	if len(raw) == 0 {
		return nil
	}
	var v any
	if err := json.Unmarshal(raw, &v); err != nil {
		return nil
	}
	switch t := v.(type) {
	case bool:
		return &t
	case string:
		if b, err := strconv.ParseBool(t); err == nil {
			return &b
		}
	}
	return nil
}

func stringMap(raw json.RawMessage) map[string]string {
	var m map[string]json.RawMessage
	if len(raw) == 0 || json.Unmarshal(raw, &m) != nil || len(m) == 0 {
		return nil
	}
	out := make(map[string]string, len(m))
	for k, v := range m {
		if s := scalarString(v); s != "" {
			out[k] = s
		}
	}
	return out
}
