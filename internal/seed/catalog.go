package seed

import (
	_ "embed"
	"fmt"

	"gopkg.in/yaml.v3"
)

//go:embed catalog.yaml
var defaultCatalog []byte

// Catalog describes everything the seed provisions.
type Catalog struct {
	SalesChannel   string         `yaml:"sales_channel"`
	PublishableKey string         `yaml:"publishable_key"`
	TaxProvider    string         `yaml:"tax_provider"`
	Region         RegionSpec     `yaml:"region"`
	StockLocations []LocationSpec `yaml:"stock_locations"`
	Categories     []string       `yaml:"categories"`
	Products       []ProductSpec  `yaml:"products"`
}

type RegionSpec struct {
	Name             string   `yaml:"name"`
	CurrencyCode     string   `yaml:"currency_code"`
	Countries        []string `yaml:"countries"`
	PaymentProviders []string `yaml:"payment_providers"`
}

type LocationSpec struct {
	Name        string `yaml:"name"`
	CountryCode string `yaml:"country_code"`
	Address1    string `yaml:"address_1"`
}

type ProductSpec struct {
	Title           string        `yaml:"title"`
	Subtitle        string        `yaml:"subtitle"`
	Handle          string        `yaml:"handle"`
	Description     string        `yaml:"description"`
	Category        string        `yaml:"category"`
	Warehouse       string        `yaml:"warehouse"`
	StockedQuantity int           `yaml:"stocked_quantity"`
	Images          []string      `yaml:"images"`
	Options         []OptionSpec  `yaml:"options"`
	Variants        []VariantSpec `yaml:"variants"`
}

type OptionSpec struct {
	Title  string   `yaml:"title"`
	Values []string `yaml:"values"`
}

type VariantSpec struct {
	Title   string            `yaml:"title"`
	SKU     string            `yaml:"sku"`
	Options map[string]string `yaml:"options"`
	Prices  []PriceSpec       `yaml:"prices"`
}

type PriceSpec struct {
	Amount       float64 `yaml:"amount"`
	CurrencyCode string  `yaml:"currency_code"`
}

// DefaultCatalog returns the embedded demo store catalog.
func DefaultCatalog() (Catalog, error) {
	return ParseCatalog(defaultCatalog)
}

func ParseCatalog(data []byte) (Catalog, error) {
	var c Catalog
	if err := yaml.Unmarshal(data, &c); err != nil {
		return Catalog{}, fmt.Errorf("parse catalog: %w", err)
	}
	if err := c.validate(); err != nil {
		return Catalog{}, err
	}
	return c, nil
}

func (c Catalog) validate() error {
	if c.SalesChannel == "" {
		return fmt.Errorf("catalog: sales_channel required")
	}
	if c.Region.CurrencyCode == "" || len(c.Region.Countries) == 0 {
		return fmt.Errorf("catalog: region needs currency_code and countries")
	}
	locations := make(map[string]bool, len(c.StockLocations))
	for _, l := range c.StockLocations {
		locations[l.Name] = true
	}
	categories := make(map[string]bool, len(c.Categories))
	for _, name := range c.Categories {
		categories[name] = true
	}
	for _, p := range c.Products {
		if p.Title == "" {
			return fmt.Errorf("catalog: product without title")
		}
		if p.Category != "" && !categories[p.Category] {
			return fmt.Errorf("catalog: product %q references unknown category %q", p.Title, p.Category)
		}
		if p.Warehouse != "" && !locations[p.Warehouse] {
			return fmt.Errorf("catalog: product %q references unknown warehouse %q", p.Title, p.Warehouse)
		}
		declared := make(map[string]map[string]bool, len(p.Options))
		for _, o := range p.Options {
			values := make(map[string]bool, len(o.Values))
			for _, v := range o.Values {
				values[v] = true
			}
			declared[o.Title] = values
		}
		for _, v := range p.Variants {
			if v.SKU == "" {
				return fmt.Errorf("catalog: variant %q of %q has no sku", v.Title, p.Title)
			}
			for option, value := range v.Options {
				values, ok := declared[option]
				if !ok || !values[value] {
					return fmt.Errorf("catalog: variant %q uses %s=%s not declared on %q", v.Title, option, value, p.Title)
				}
			}
		}
	}
	return nil
}
