package domain

// Admin-side entities provisioned by the seed command.

type Region struct {
	ID           string   `json:"id"`
	Name         string   `json:"name"`
	CurrencyCode string   `json:"currency_code"`
	Countries    []string `json:"countries,omitempty"`
}

type SalesChannel struct {
	ID   string `json:"id"`
	Name string `json:"name"`
}

type StockLocation struct {
	ID      string        `json:"id"`
	Name    string        `json:"name"`
	Address *StockAddress `json:"address,omitempty"`
}

type StockAddress struct {
	CountryCode string `json:"country_code"`
	Address1    string `json:"address_1"`
}

type APIKey struct {
	ID    string `json:"id"`
	Title string `json:"title"`
	Type  string `json:"type"`
	Token string `json:"token"`
}

type ProductCategory struct {
	ID       string `json:"id"`
	Name     string `json:"name"`
	Handle   string `json:"handle,omitempty"`
	IsActive bool   `json:"is_active"`
}

type Store struct {
	ID   string `json:"id"`
	Name string `json:"name"`
}

type InventoryItem struct {
	ID  string `json:"id"`
	SKU string `json:"sku"`
}
