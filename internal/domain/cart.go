package domain

// Cart mirrors the backend store cart. Amounts are in the region currency's main unit.
type Cart struct {
	ID           string         `json:"id"`
	RegionID     string         `json:"region_id,omitempty"`
	CurrencyCode string         `json:"currency_code"`
	CustomerID   string         `json:"customer_id,omitempty"`
	Email        string         `json:"email,omitempty"`
	Items        []LineItem     `json:"items"`
	Subtotal     float64        `json:"subtotal"`
	Total        float64        `json:"total"`
	Region       *Region        `json:"region,omitempty"`
	Metadata     map[string]any `json:"metadata,omitempty"`
}

type LineItem struct {
	ID           string         `json:"id"`
	Title        string         `json:"title"`
	ProductID    string         `json:"product_id,omitempty"`
	ProductTitle string         `json:"product_title,omitempty"`
	VariantID    string         `json:"variant_id,omitempty"`
	VariantTitle string         `json:"variant_title,omitempty"`
	Thumbnail    string         `json:"thumbnail,omitempty"`
	Quantity     int            `json:"quantity"`
	UnitPrice    float64        `json:"unit_price"`
	Total        float64        `json:"total"`
	Metadata     map[string]any `json:"metadata,omitempty"`
}

// LineItemInput is one entry sent when creating a cart or appending to it.
type LineItemInput struct {
	VariantID string         `json:"variant_id"`
	Quantity  int            `json:"quantity"`
	Metadata  map[string]any `json:"metadata,omitempty"`
}

// HasProduct reports whether any line item belongs to productID.
func (c *Cart) HasProduct(productID string) bool {
	if c == nil || productID == "" {
		return false
	}
	for _, item := range c.Items {
		if item.ProductID == productID {
			return true
		}
	}
	return false
}

// ItemCount sums quantities across line items.
func (c *Cart) ItemCount() int {
	if c == nil {
		return 0
	}
	total := 0
	for _, item := range c.Items {
		total += item.Quantity
	}
	return total
}
