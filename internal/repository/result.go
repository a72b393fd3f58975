package repository

import (
	"shopsearch/internal/apis/shopping"
)

type GeoMeta struct {
	Code string `json:"code"`
	Name string `json:"name,omitempty"`
	Flag string `json:"flag,omitempty"`
}

func NewGeoMeta(g shopping.Geolocation) *GeoMeta {
	if g.Code == "" && g.Name == "" {
		return nil
	}
	return &GeoMeta{Code: g.Code, Name: g.Name, Flag: g.Flag}
}

// SearchSnapshot is one dual search written to disk by the CLI.
type SearchSnapshot struct {
	FetchedAt     string                    `json:"fetched_at"`
	Query         string                    `json:"query"`
	OriginalQuery string                    `json:"original_query,omitempty"`
	Geolocation   *GeoMeta                  `json:"geolocation,omitempty"`
	Multiple      []shopping.ProductSummary `json:"multiple_source"`
	Single        []shopping.ProductSummary `json:"single_source"`
	Count         int                       `json:"count"`
}

// RowsSnapshot is a local copy of the rows sent for one product detail.
type RowsSnapshot struct {
	FetchedAt string                    `json:"fetched_at"`
	ProductID string                    `json:"product_id"`
	Rows      []shopping.SpreadsheetRow `json:"rows"`
	Count     int                       `json:"count"`
}
