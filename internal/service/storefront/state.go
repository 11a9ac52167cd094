package storefront

import "trek-storefront/internal/domain"

// State holds the active cart and customer for one request.
// Each slice has a single setter; a nil value means "none".
type State struct {
	cart     *domain.Cart
	customer *domain.Customer
}

func NewState(cart *domain.Cart, customer *domain.Customer) *State {
	return &State{cart: cart, customer: customer}
}

func (s *State) Cart() *domain.Cart {
	if s == nil {
		return nil
	}
	return s.cart
}

func (s *State) Customer() *domain.Customer {
	if s == nil {
		return nil
	}
	return s.customer
}

func (s *State) SetCart(c *domain.Cart) {
	s.cart = c
}

func (s *State) SetCustomer(c *domain.Customer) {
	s.customer = c
}

// LoggedIn reports whether a customer is active.
func (s *State) LoggedIn() bool {
	return s.Customer() != nil
}
