package domain

// CustomerCartIDKey is the metadata key under which the customer's last known cart id is kept.
// The backend schema is not ours, so the cart id lives in the metadata bag rather than a column.
const CustomerCartIDKey = "cart_id"

// Customer represents a registered storefront customer.
type Customer struct {
	ID        string         `json:"id"`
	Email     string         `json:"email"`
	FirstName string         `json:"first_name,omitempty"`
	LastName  string         `json:"last_name,omitempty"`
	Phone     string         `json:"phone,omitempty"`
	Metadata  map[string]any `json:"metadata,omitempty"`
}

// CartID returns the stored cart id, or "" when none is recorded.
func (c *Customer) CartID() string {
	if c == nil || c.Metadata == nil {
		return ""
	}
	id, _ := c.Metadata[CustomerCartIDKey].(string)
	return id
}

// DisplayName prefers the first name and falls back to the email.
func (c *Customer) DisplayName() string {
	if c == nil {
		return ""
	}
	if c.FirstName != "" {
		return c.FirstName
	}
	return c.Email
}

// CartIDMetadata builds the metadata patch that records cartID on a customer.
func CartIDMetadata(cartID string) map[string]any {
	return map[string]any{CustomerCartIDKey: cartID}
}

// CustomerInput is sent when creating a customer after identity registration.
type CustomerInput struct {
	Email     string `json:"email"`
	FirstName string `json:"first_name,omitempty"`
	LastName  string `json:"last_name,omitempty"`
}

// CustomerUpdate patches the authenticated customer.
type CustomerUpdate struct {
	FirstName string         `json:"first_name,omitempty"`
	LastName  string         `json:"last_name,omitempty"`
	Metadata  map[string]any `json:"metadata,omitempty"`
}
