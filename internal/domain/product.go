package domain

type Product struct {
	ID          string          `json:"id"`
	Title       string          `json:"title"`
	Subtitle    string          `json:"subtitle,omitempty"`
	Description string          `json:"description,omitempty"`
	Handle      string          `json:"handle,omitempty"`
	Thumbnail   string          `json:"thumbnail,omitempty"`
	Images      []Image         `json:"images,omitempty"`
	Options     []ProductOption `json:"options,omitempty"`
	Variants    []Variant       `json:"variants,omitempty"`
}

type Image struct {
	ID  string `json:"id,omitempty"`
	URL string `json:"url"`
}

type ProductOption struct {
	ID     string        `json:"id"`
	Title  string        `json:"title"`
	Values []OptionValue `json:"values,omitempty"`
}

type OptionValue struct {
	ID    string `json:"id"`
	Value string `json:"value"`
}

type Variant struct {
	ID                string           `json:"id"`
	Title             string           `json:"title"`
	SKU               string           `json:"sku,omitempty"`
	Options           []VariantOption  `json:"options,omitempty"`
	CalculatedPrice   *CalculatedPrice `json:"calculated_price,omitempty"`
	InventoryQuantity *int             `json:"inventory_quantity,omitempty"`
}

// VariantOption is one option selection of a variant, e.g. Year=2025.
type VariantOption struct {
	ID       string         `json:"id"`
	Value    string         `json:"value"`
	OptionID string         `json:"option_id,omitempty"`
	Option   *ProductOption `json:"option,omitempty"`
}

type CalculatedPrice struct {
	CalculatedAmount float64 `json:"calculated_amount"`
	CurrencyCode     string  `json:"currency_code"`
}

// Option returns the product option with the given title.
func (p *Product) Option(title string) (ProductOption, bool) {
	if p == nil {
		return ProductOption{}, false
	}
	for _, o := range p.Options {
		if o.Title == title {
			return o, true
		}
	}
	return ProductOption{}, false
}

// OptionValue returns the value the variant selects for the option titled title.
func (v Variant) OptionValue(title string) (string, bool) {
	for _, o := range v.Options {
		if o.Option != nil && o.Option.Title == title {
			return o.Value, true
		}
	}
	return "", false
}

// ImageURL returns the i-th image url, falling back to the first image and then the thumbnail.
func (p *Product) ImageURL(i int) string {
	if p == nil {
		return ""
	}
	if i >= 0 && i < len(p.Images) {
		return p.Images[i].URL
	}
	if len(p.Images) > 0 {
		return p.Images[0].URL
	}
	return p.Thumbnail
}
