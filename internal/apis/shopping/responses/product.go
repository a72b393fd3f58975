package responses

import (
	"bytes"
	"encoding/json"
)

type RichSnippet struct {
	Top struct {
		Images URLFields `json:"images"`
	} `json:"top"`
}

// UnmarshalJSON ignores shapes it does not understand.
func (r *RichSnippet) UnmarshalJSON(b []byte) error {
	type alias RichSnippet
	var a alias
	if err := json.Unmarshal(b, &a); err != nil {
		*r = RichSnippet{}
		return nil
	}
	*r = RichSnippet(a)
	return nil
}

// ProductSummary is one search hit. Multi-source hits carry sellers, single
// source hits carry source.
type ProductSummary struct {
	Title             Text              `json:"title"`
	Price             Text              `json:"price"`
	Rating            *Number           `json:"rating"`
	Sellers           SellerRefs        `json:"sellers"`
	Source            Text              `json:"source"`
	ProductID         Text              `json:"product_id"`
	Link              Text              `json:"link"`
	ProductLink       Text              `json:"product_link"`
	Thumbnail         Text              `json:"thumbnail"`
	Thumbnails        URLList           `json:"thumbnails"`
	SerpapiThumbnails URLList           `json:"serpapi_thumbnails"`
	Images            URLFields         `json:"images"`
	RichSnippet       *RichSnippet      `json:"rich_snippet"`
	InlineImages      URLFields         `json:"inline_images"`

	// Raw is the complete object as received.
	Raw map[string]any `json:"-"`
}

func (p *ProductSummary) UnmarshalJSON(b []byte) error {
	type alias ProductSummary
	var a alias
	if err := json.Unmarshal(b, &a); err != nil {
		return err
	}

	dec := json.NewDecoder(bytes.NewReader(b))
	dec.UseNumber()
	var raw map[string]any
	if err := dec.Decode(&raw); err != nil {
		return err
	}

	*p = ProductSummary(a)
	p.Raw = raw
	return nil
}

// MarshalJSON writes Raw when present so round trips keep unknown fields.
func (p ProductSummary) MarshalJSON() ([]byte, error) {
	if p.Raw != nil {
		return json.Marshal(p.Raw)
	}
	type alias ProductSummary
	return json.Marshal(alias(p))
}

// HasSellers distinguishes an absent sellers field from an empty one.
func (p ProductSummary) HasSellers() bool {
	return p.Sellers != nil
}

// SellerRefs is the sellers array of a search hit. Only presence and length
// are read; anything that is not an array is treated as absent.
type SellerRefs []json.RawMessage

func (s *SellerRefs) UnmarshalJSON(b []byte) error {
	*s = nil
	var raw []json.RawMessage
	if err := json.Unmarshal(b, &raw); err != nil || raw == nil {
		return nil
	}
	*s = raw
	return nil
}

type Seller struct {
	Name       Text `json:"name"`
	Price      Text `json:"price"`
	BasePrice  Text `json:"base_price"`
	Shipping   Text `json:"shipping"`
	TotalPrice Text `json:"total_price"`
	Link       Text `json:"link"`
}

type ProductResults struct {
	Title       Text      `json:"title"`
	Price       Text      `json:"price"`
	Rating      *Number   `json:"rating"`
	Description Text      `json:"description"`
	Thumbnail   Text      `json:"thumbnail"`
	Images      URLFields `json:"images"`
}

// SellerList keeps the object entries of online_sellers and drops the rest.
type SellerList []Seller

func (l *SellerList) UnmarshalJSON(b []byte) error {
	*l = nil
	var raw []json.RawMessage
	if err := json.Unmarshal(b, &raw); err != nil || raw == nil {
		return nil
	}
	out := make(SellerList, 0, len(raw))
	for _, r := range raw {
		r = bytes.TrimSpace(r)
		if len(r) == 0 || r[0] != '{' {
			continue
		}
		var sl Seller
		if json.Unmarshal(r, &sl) == nil {
			out = append(out, sl)
		}
	}
	*l = out
	return nil
}

type SellersResults struct {
	OnlineSellers SellerList `json:"online_sellers"`
}

// ProductDetail is the lazily fetched detail for one product.
type ProductDetail struct {
	ProductID      Text            `json:"product_id"`
	Title          Text            `json:"title"`
	Link           Text            `json:"link"`
	Images         URLFields       `json:"images"`
	ProductResults *ProductResults `json:"product_results"`
	SellersResults *SellersResults `json:"sellers_results"`
}

// Info returns product_results or an empty value.
func (d ProductDetail) Info() ProductResults {
	if d.ProductResults == nil {
		return ProductResults{}
	}
	return *d.ProductResults
}

// Sellers returns sellers_results.online_sellers, never nil.
func (d ProductDetail) Sellers() []Seller {
	if d.SellersResults == nil || d.SellersResults.OnlineSellers == nil {
		return []Seller{}
	}
	return d.SellersResults.OnlineSellers
}

type Translation struct {
	OriginalQuery   string      `json:"originalQuery"`
	TranslatedQuery string      `json:"translatedQuery"`
	Geolocation     Geolocation `json:"geolocation"`
	TargetLanguage  string      `json:"targetLanguage"`
}
