package mapper

import (
	"fmt"

	"shopsearch/internal/apis/shopping"
	"shopsearch/internal/apis/shopping/responses"
)

type SourceKind string

const (
	SourceMultiple SourceKind = "multiple"
	SourceSingle   SourceKind = "single"
)

const (
	noPrice  = "Price not available"
	noRating = "No rating"
	na       = "N/A"
)

// Card is what a search result tile renders.
type Card struct {
	Kind        SourceKind
	ProductID   string
	Title       string
	PriceText   string
	RatingText  string
	SellerText  string
	SourceLabel string
	Flag        string
	Images      []string
	MainImage   string
	HasGallery  bool
}

func ToCard(p shopping.ProductSummary, geo shopping.Geolocation, kind SourceKind) Card {
	images := ResolveImages(p)

	c := Card{
		Kind:       kind,
		ProductID:  p.ProductID.String(),
		Title:      p.Title.String(),
		PriceText:  priceText(p.Price),
		RatingText: ratingText(p.Rating),
		Flag:       geo.Flag,
		Images:     images,
		MainImage:  MainImage(images),
		HasGallery: len(images) > 1,
	}

	switch kind {
	case SourceSingle:
		c.SellerText = orDefault(p.Source.String(), "Single seller")
		c.SourceLabel = "Single source"
	default:
		c.Kind = SourceMultiple
		if p.HasSellers() {
			c.SellerText = fmt.Sprintf("%d sellers", len(p.Sellers))
		} else {
			c.SellerText = "Multiple sellers"
		}
		c.SourceLabel = "Multiple sources"
	}

	return c
}

// ToCards maps a result list, keeping order.
func ToCards(ps []shopping.ProductSummary, geo shopping.Geolocation, kind SourceKind) []Card {
	out := make([]Card, 0, len(ps))
	for _, p := range ps {
		out = append(out, ToCard(p, geo, kind))
	}
	return out
}

func priceText(p responses.Text) string {
	return orDefault(p.String(), noPrice)
}

// ratingText treats 0 like a missing rating.
func ratingText(r *responses.Number) string {
	if r == nil || *r == 0 {
		return noRating
	}
	return r.String() + " ⭐"
}

func orDefault(v, def string) string {
	if v == "" {
		return def
	}
	return v
}
