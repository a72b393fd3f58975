package responses

// SearchPage is the payload of both search endpoints.
type SearchPage struct {
	Results       []ProductSummary `json:"results"`
	OriginalQuery string           `json:"originalQuery"`
	GeoInfo       Geolocation      `json:"geoInfo"`
}

type DetailPage struct {
	ProductDetails ProductDetail `json:"productDetails"`
	GeoInfo        Geolocation   `json:"geoInfo"`
}

// SpreadsheetRow is one flat product+seller record persisted by the backend.
// SellerCount is nil for rows saved from a single search card.
type SpreadsheetRow struct {
	Geolocation     string `json:"geolocation"`
	TranslatedQuery string `json:"translatedQuery"`
	Title           string `json:"title"`
	ProductID       string `json:"productId"`
	PriceRange      string `json:"priceRange"`
	SellerCount     *int   `json:"sellerCount,omitempty"`
	ProductLink     string `json:"productLink"`
	SellerName      string `json:"sellerName"`
	SellerLink      string `json:"sellerLink"`
	BasePrice       string `json:"basePrice"`
	Shipping        string `json:"shipping"`
	TotalPrice      string `json:"totalPrice"`
	SellerIndex     int    `json:"sellerIndex"`
}
