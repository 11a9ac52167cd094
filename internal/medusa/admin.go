package medusa

import (
	"context"
	"errors"
	"net/http"
	"net/url"

	"trek-storefront/internal/domain"
)

// AdminClient calls the admin API with a user bearer token.
type AdminClient struct {
	c     *Client
	token string
}

// Admin authenticates an admin user and returns a client bound to its token.
func (c *Client) Admin(ctx context.Context, email, password string) (*AdminClient, error) {
	var tok tokenResponse
	if err := c.do(ctx, request{
		method: http.MethodPost,
		path:   "/auth/user/emailpass",
		body:   credentials{Email: email, Password: password},
	}, &tok); err != nil {
		return nil, err
	}
	if tok.Token == "" {
		return nil, errors.New("medusa: admin login returned no token")
	}
	return &AdminClient{c: c, token: tok.Token}, nil
}

func (a *AdminClient) do(ctx context.Context, method, path string, query url.Values, body, out any) error {
	return a.c.do(ctx, request{method: method, path: path, query: query, body: body, bearer: a.token}, out)
}

type linkBody struct {
	Add []string `json:"add"`
}

func (a *AdminClient) ListSalesChannels(ctx context.Context, name string) ([]domain.SalesChannel, error) {
	var out struct {
		SalesChannels []domain.SalesChannel `json:"sales_channels"`
	}
	q := url.Values{}
	if name != "" {
		q.Set("name", name)
	}
	if err := a.do(ctx, http.MethodGet, "/admin/sales-channels", q, nil, &out); err != nil {
		return nil, err
	}
	return out.SalesChannels, nil
}

func (a *AdminClient) CreateSalesChannel(ctx context.Context, name string) (*domain.SalesChannel, error) {
	var out struct {
		SalesChannel *domain.SalesChannel `json:"sales_channel"`
	}
	body := map[string]string{"name": name}
	if err := a.do(ctx, http.MethodPost, "/admin/sales-channels", nil, body, &out); err != nil {
		return nil, err
	}
	return out.SalesChannel, nil
}

type RegionInput struct {
	Name             string   `json:"name"`
	CurrencyCode     string   `json:"currency_code"`
	Countries        []string `json:"countries"`
	PaymentProviders []string `json:"payment_providers,omitempty"`
}

func (a *AdminClient) CreateRegion(ctx context.Context, in RegionInput) (*domain.Region, error) {
	var out struct {
		Region *domain.Region `json:"region"`
	}
	if err := a.do(ctx, http.MethodPost, "/admin/regions", nil, in, &out); err != nil {
		return nil, err
	}
	return out.Region, nil
}

func (a *AdminClient) ListStores(ctx context.Context) ([]domain.Store, error) {
	var out struct {
		Stores []domain.Store `json:"stores"`
	}
	if err := a.do(ctx, http.MethodGet, "/admin/stores", nil, nil, &out); err != nil {
		return nil, err
	}
	return out.Stores, nil
}

type StoreCurrency struct {
	CurrencyCode string `json:"currency_code"`
	IsDefault    bool   `json:"is_default"`
}

type StoreUpdate struct {
	SupportedCurrencies   []StoreCurrency `json:"supported_currencies,omitempty"`
	DefaultRegionID       string          `json:"default_region_id,omitempty"`
	DefaultSalesChannelID string          `json:"default_sales_channel_id,omitempty"`
}

func (a *AdminClient) UpdateStore(ctx context.Context, id string, in StoreUpdate) error {
	return a.do(ctx, http.MethodPost, "/admin/stores/"+url.PathEscape(id), nil, in, nil)
}

func (a *AdminClient) CreateTaxRegion(ctx context.Context, countryCode, providerID string) error {
	body := map[string]string{"country_code": countryCode, "provider_id": providerID}
	return a.do(ctx, http.MethodPost, "/admin/tax-regions", nil, body, nil)
}

type StockLocationInput struct {
	Name    string               `json:"name"`
	Address *domain.StockAddress `json:"address,omitempty"`
}

func (a *AdminClient) CreateStockLocation(ctx context.Context, in StockLocationInput) (*domain.StockLocation, error) {
	var out struct {
		StockLocation *domain.StockLocation `json:"stock_location"`
	}
	if err := a.do(ctx, http.MethodPost, "/admin/stock-locations", nil, in, &out); err != nil {
		return nil, err
	}
	return out.StockLocation, nil
}

func (a *AdminClient) LinkStockLocationSalesChannels(ctx context.Context, locationID string, salesChannelIDs []string) error {
	path := "/admin/stock-locations/" + url.PathEscape(locationID) + "/sales-channels"
	return a.do(ctx, http.MethodPost, path, nil, linkBody{Add: salesChannelIDs}, nil)
}

func (a *AdminClient) CreatePublishableKey(ctx context.Context, title string) (*domain.APIKey, error) {
	var out struct {
		APIKey *domain.APIKey `json:"api_key"`
	}
	body := map[string]string{"title": title, "type": "publishable"}
	if err := a.do(ctx, http.MethodPost, "/admin/api-keys", nil, body, &out); err != nil {
		return nil, err
	}
	return out.APIKey, nil
}

func (a *AdminClient) LinkAPIKeySalesChannels(ctx context.Context, keyID string, salesChannelIDs []string) error {
	path := "/admin/api-keys/" + url.PathEscape(keyID) + "/sales-channels"
	return a.do(ctx, http.MethodPost, path, nil, linkBody{Add: salesChannelIDs}, nil)
}

type CategoryInput struct {
	Name     string `json:"name"`
	Handle   string `json:"handle,omitempty"`
	IsActive bool   `json:"is_active"`
}

func (a *AdminClient) CreateProductCategory(ctx context.Context, in CategoryInput) (*domain.ProductCategory, error) {
	var out struct {
		ProductCategory *domain.ProductCategory `json:"product_category"`
	}
	if err := a.do(ctx, http.MethodPost, "/admin/product-categories", nil, in, &out); err != nil {
		return nil, err
	}
	return out.ProductCategory, nil
}

type IDRef struct {
	ID string `json:"id"`
}

type ImageInput struct {
	URL string `json:"url"`
}

type OptionInput struct {
	Title  string   `json:"title"`
	Values []string `json:"values"`
}

type PriceInput struct {
	Amount       float64 `json:"amount"`
	CurrencyCode string  `json:"currency_code"`
}

type VariantInput struct {
	Title           string            `json:"title"`
	SKU             string            `json:"sku"`
	Options         map[string]string `json:"options"`
	Prices          []PriceInput      `json:"prices"`
	ManageInventory bool              `json:"manage_inventory"`
}

type ProductInput struct {
	Title         string         `json:"title"`
	Subtitle      string         `json:"subtitle,omitempty"`
	Description   string         `json:"description,omitempty"`
	Handle        string         `json:"handle"`
	Status        string         `json:"status"`
	Categories    []IDRef        `json:"categories,omitempty"`
	Images        []ImageInput   `json:"images,omitempty"`
	Options       []OptionInput  `json:"options"`
	Variants      []VariantInput `json:"variants"`
	SalesChannels []IDRef        `json:"sales_channels,omitempty"`
}

func (a *AdminClient) CreateProduct(ctx context.Context, in ProductInput) (*domain.Product, error) {
	var out struct {
		Product *domain.Product `json:"product"`
	}
	if err := a.do(ctx, http.MethodPost, "/admin/products", nil, in, &out); err != nil {
		return nil, err
	}
	return out.Product, nil
}

// ListInventoryItems returns the inventory items for the given SKUs.
func (a *AdminClient) ListInventoryItems(ctx context.Context, skus []string) ([]domain.InventoryItem, error) {
	var out struct {
		InventoryItems []domain.InventoryItem `json:"inventory_items"`
	}
	q := url.Values{}
	for _, sku := range skus {
		q.Add("sku", sku)
	}
	if err := a.do(ctx, http.MethodGet, "/admin/inventory-items", q, nil, &out); err != nil {
		return nil, err
	}
	return out.InventoryItems, nil
}

type inventoryLevelBody struct {
	LocationID      string `json:"location_id"`
	StockedQuantity int    `json:"stocked_quantity"`
}

func (a *AdminClient) CreateInventoryLevel(ctx context.Context, itemID, locationID string, stocked int) error {
	path := "/admin/inventory-items/" + url.PathEscape(itemID) + "/location-levels"
	return a.do(ctx, http.MethodPost, path, nil, inventoryLevelBody{LocationID: locationID, StockedQuantity: stocked}, nil)
}
