package mapper

import (
	"shopsearch/internal/apis/shopping"
)

type Row = shopping.SpreadsheetRow

// DeriveRows flattens a product detail into one row per online seller. A
// detail without sellers yields a single placeholder row. Missing values
// become "N/A"; the deriver never fails.
func DeriveRows(d shopping.ProductDetail, geo shopping.Geolocation, queryText string) []Row {
	info := d.Info()
	sellers := d.Sellers()
	count := len(sellers)

	base := Row{
		Geolocation:     orDefault(geo.Name, na),
		TranslatedQuery: queryText,
		Title:           firstNonEmpty(info.Title.String(), d.Title.String(), na),
		ProductID:       orDefault(d.ProductID.String(), na),
		PriceRange:      orDefault(info.Price.String(), na),
		SellerCount:     intPtr(count),
		ProductLink:     orDefault(d.Link.String(), na),
	}

	if count == 0 {
		r := base
		r.SellerName = na
		r.SellerLink = na
		r.BasePrice = na
		r.Shipping = na
		r.TotalPrice = na
		r.SellerIndex = 1
		return []Row{r}
	}

	rows := make([]Row, 0, count)
	for i, s := range sellers {
		r := base
		r.SellerCount = intPtr(count)
		r.SellerName = orDefault(s.Name.String(), na)
		r.SellerLink = orDefault(s.Link.String(), na)
		r.BasePrice = orDefault(s.BasePrice.String(), na)
		r.Shipping = orDefault(s.Shipping.String(), na)
		r.TotalPrice = firstNonEmpty(s.TotalPrice.String(), s.Price.String(), na)
		r.SellerIndex = i + 1
		rows = append(rows, r)
	}
	return rows
}

// DeriveSingleRow is the row for a search card save. No seller list exists
// at that point, so SellerCount stays nil.
func DeriveSingleRow(p shopping.ProductSummary, geo shopping.Geolocation, queryText string) Row {
	price := orDefault(p.Price.String(), na)
	return Row{
		Geolocation:     orDefault(geo.Name, na),
		TranslatedQuery: queryText,
		Title:           orDefault(p.Title.String(), na),
		ProductID:       orDefault(p.ProductID.String(), na),
		PriceRange:      price,
		ProductLink:     firstNonEmpty(p.ProductLink.String(), p.Link.String(), na),
		SellerName:      orDefault(p.Source.String(), na),
		SellerLink:      orDefault(p.Link.String(), na),
		BasePrice:       price,
		Shipping:        na,
		TotalPrice:      price,
		SellerIndex:     1,
	}
}

// SavePayload is the body of a search card save: every field of the hit as
// received plus the geolocation object.
func SavePayload(p shopping.ProductSummary, geo shopping.Geolocation) map[string]any {
	out := make(map[string]any, len(p.Raw)+1)
	for k, v := range p.Raw {
		out[k] = v
	}
	if p.Raw == nil {
		out["title"] = p.Title.String()
		out["price"] = p.Price.String()
		out["product_id"] = p.ProductID.String()
		out["source"] = p.Source.String()
		out["link"] = p.Link.String()
		out["thumbnail"] = p.Thumbnail.String()
	}
	out["geolocation"] = geo
	return out
}

func intPtr(v int) *int { return &v }
