package medusa

import (
	"context"
	"net/http"
	"net/url"
	"strconv"

	"trek-storefront/internal/domain"
)

const customerFields = "+metadata"

type customerEnvelope struct {
	Customer *domain.Customer `json:"customer"`
}

type cartEnvelope struct {
	Cart *domain.Cart `json:"cart"`
}

type productEnvelope struct {
	Product *domain.Product `json:"product"`
}

type productListEnvelope struct {
	Products []domain.Product `json:"products"`
	Count    int              `json:"count"`
	Offset   int              `json:"offset"`
	Limit    int              `json:"limit"`
}

// RetrieveCustomer returns the customer bound to the context session, metadata included.
func (c *Client) RetrieveCustomer(ctx context.Context) (*domain.Customer, error) {
	var out customerEnvelope
	err := c.do(ctx, request{
		method: http.MethodGet,
		path:   "/store/customers/me",
		query:  url.Values{"fields": {customerFields}},
	}, &out)
	if err != nil {
		return nil, err
	}
	if out.Customer == nil {
		return nil, domain.ErrNotFound
	}
	return out.Customer, nil
}

// UpdateCustomer patches the customer bound to the context session.
func (c *Client) UpdateCustomer(ctx context.Context, in domain.CustomerUpdate) (*domain.Customer, error) {
	var out customerEnvelope
	err := c.do(ctx, request{
		method: http.MethodPost,
		path:   "/store/customers/me",
		query:  url.Values{"fields": {customerFields}},
		body:   in,
	}, &out)
	if err != nil {
		return nil, err
	}
	if out.Customer == nil {
		return nil, domain.ErrNotFound
	}
	return out.Customer, nil
}

// CreateCustomer creates the customer record for a freshly registered identity.
func (c *Client) CreateCustomer(ctx context.Context, registrationToken string, in domain.CustomerInput) (*domain.Customer, error) {
	var out customerEnvelope
	err := c.do(ctx, request{
		method: http.MethodPost,
		path:   "/store/customers",
		body:   in,
		bearer: registrationToken,
	}, &out)
	if err != nil {
		return nil, err
	}
	return out.Customer, nil
}

type createCartBody struct {
	Items []domain.LineItemInput `json:"items"`
}

// CreateCart creates a cart seeded with items. An empty slice creates an empty cart.
func (c *Client) CreateCart(ctx context.Context, items []domain.LineItemInput) (*domain.Cart, error) {
	if items == nil {
		items = []domain.LineItemInput{}
	}
	var out cartEnvelope
	if err := c.do(ctx, request{
		method: http.MethodPost,
		path:   "/store/carts",
		body:   createCartBody{Items: items},
	}, &out); err != nil {
		return nil, err
	}
	return cartOrNotFound(out.Cart)
}

// RetrieveCart fetches a cart by id.
func (c *Client) RetrieveCart(ctx context.Context, id string) (*domain.Cart, error) {
	var out cartEnvelope
	if err := c.do(ctx, request{
		method: http.MethodGet,
		path:   "/store/carts/" + url.PathEscape(id),
	}, &out); err != nil {
		return nil, err
	}
	return cartOrNotFound(out.Cart)
}

// TransferCart assigns the cart to the customer of the context session.
func (c *Client) TransferCart(ctx context.Context, id string) (*domain.Cart, error) {
	var out cartEnvelope
	if err := c.do(ctx, request{
		method: http.MethodPost,
		path:   "/store/carts/" + url.PathEscape(id) + "/customer",
	}, &out); err != nil {
		return nil, err
	}
	return cartOrNotFound(out.Cart)
}

// AddLineItem appends one line item and returns the updated cart.
func (c *Client) AddLineItem(ctx context.Context, cartID string, item domain.LineItemInput) (*domain.Cart, error) {
	var out cartEnvelope
	if err := c.do(ctx, request{
		method: http.MethodPost,
		path:   "/store/carts/" + url.PathEscape(cartID) + "/line-items",
		body:   item,
	}, &out); err != nil {
		return nil, err
	}
	return cartOrNotFound(out.Cart)
}

// ProductQuery narrows product listing.
type ProductQuery struct {
	Limit    int
	Offset   int
	RegionID string
}

// ListProducts lists published products visible to the publishable key's sales channel.
func (c *Client) ListProducts(ctx context.Context, q ProductQuery) ([]domain.Product, error) {
	query := url.Values{}
	if q.Limit > 0 {
		query.Set("limit", strconv.Itoa(q.Limit))
	}
	if q.Offset > 0 {
		query.Set("offset", strconv.Itoa(q.Offset))
	}
	if q.RegionID != "" {
		query.Set("region_id", q.RegionID)
	}
	var out productListEnvelope
	if err := c.do(ctx, request{method: http.MethodGet, path: "/store/products", query: query}, &out); err != nil {
		return nil, err
	}
	return out.Products, nil
}

// RetrieveProduct fetches one product with calculated variant prices.
func (c *Client) RetrieveProduct(ctx context.Context, id, regionID string) (*domain.Product, error) {
	query := url.Values{"fields": {"+variants.calculated_price,+variants.inventory_quantity"}}
	if regionID != "" {
		query.Set("region_id", regionID)
	}
	var out productEnvelope
	if err := c.do(ctx, request{
		method: http.MethodGet,
		path:   "/store/products/" + url.PathEscape(id),
		query:  query,
	}, &out); err != nil {
		return nil, err
	}
	if out.Product == nil {
		return nil, domain.ErrNotFound
	}
	return out.Product, nil
}

func cartOrNotFound(c *domain.Cart) (*domain.Cart, error) {
	if c == nil {
		return nil, domain.ErrNotFound
	}
	return c, nil
}
