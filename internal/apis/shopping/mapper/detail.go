package mapper

import (
	"fmt"
	"html"
	"strings"

	"github.com/microcosm-cc/bluemonday"

	"shopsearch/internal/apis/shopping"
)

var descriptionPolicy = bluemonday.StrictPolicy()

// SellerView is one seller tile in the detail panel.
type SellerView struct {
	Rank       string
	Name       string
	PriceText  string
	BasePrice  string
	Shipping   string
	TotalPrice string
	Link       string
}

// Detail is what the product detail panel renders.
type Detail struct {
	Header      string
	Title       string
	PriceText   string
	RatingText  string
	Country     string
	Description string
	Images      []string
	Sellers     []shopping.Seller
	SellerViews []SellerView
	NoSellers   bool
}

// ToDetail merges product_results with the top level detail fields;
// product_results wins for title, price and rating.
func ToDetail(d shopping.ProductDetail, geo shopping.Geolocation) Detail {
	info := d.Info()
	sellers := d.Sellers()

	out := Detail{
		Header:      orDefault(d.Title.String(), "Product Details"),
		Title:       firstNonEmpty(info.Title.String(), d.Title.String(), na),
		PriceText:   priceText(info.Price),
		RatingText:  ratingText(info.Rating),
		Country:     geo.Label(),
		Description: plainText(info.Description.String()),
		Images:      DetailImages(d),
		Sellers:     sellers,
		SellerViews: make([]SellerView, 0, len(sellers)),
		NoSellers:   len(sellers) == 0,
	}

	for i, s := range sellers {
		out.SellerViews = append(out.SellerViews, SellerView{
			Rank:       fmt.Sprintf("#%d", i+1),
			Name:       orDefault(s.Name.String(), "Unknown Seller"),
			PriceText:  priceText(s.Price),
			BasePrice:  s.BasePrice.String(),
			Shipping:   s.Shipping.String(),
			TotalPrice: s.TotalPrice.String(),
			Link:       s.Link.String(),
		})
	}

	return out
}

// DetailImages lists product_results.images, then detail images not seen
// yet, with product_results.thumbnail moved to the front when missing.
func DetailImages(d shopping.ProductDetail) []string {
	info := d.Info()
	all := []string{}
	seen := map[string]struct{}{}

	for _, f := range info.Images {
		if u, ok := f.Resolve(); ok {
			all = append(all, u)
			seen[u] = struct{}{}
		}
	}
	for _, f := range d.Images {
		u, ok := f.Resolve()
		if !ok {
			continue
		}
		if _, dup := seen[u]; dup {
			continue
		}
		seen[u] = struct{}{}
		all = append(all, u)
	}
	if t := info.Thumbnail.String(); t != "" {
		if _, dup := seen[t]; !dup {
			all = append([]string{t}, all...)
		}
	}
	return all
}

func plainText(s string) string {
	if s == "" {
		return ""
	}
	return strings.TrimSpace(html.UnescapeString(descriptionPolicy.Sanitize(s)))
}

func firstNonEmpty(vs ...string) string {
	for _, v := range vs {
		if v != "" {
			return v
		}
	}
	return ""
}
