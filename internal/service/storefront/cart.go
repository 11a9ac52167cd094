package storefront

import (
	"context"
	"fmt"
	"strings"

	"trek-storefront/internal/domain"
)

// AddToCart appends items to the active cart, creating the cart on first use.
// Items are sent one at a time, so the same variant added twice produces two
// line items.
func (s *Service) AddToCart(ctx context.Context, st *State, carts CartStore, items []domain.LineItemInput) (*domain.Cart, error) {
	for i, item := range items {
		if strings.TrimSpace(item.VariantID) == "" {
			return nil, domain.Invalid(fmt.Sprintf("items[%d].variant_id", i), "variant required")
		}
		if item.Quantity <= 0 {
			return nil, domain.Invalid(fmt.Sprintf("items[%d].quantity", i), "quantity must be positive")
		}
	}

	cart := st.Cart()
	if cart == nil {
		created, err := s.backend.CreateCart(ctx, items)
		if err != nil {
			return nil, fmt.Errorf("create cart: %w", err)
		}
		carts.SetCartID(created.ID)
		st.SetCart(created)
		return created, nil
	}

	for _, item := range items {
		updated, err := s.backend.AddLineItem(ctx, cart.ID, item)
		if err != nil {
			// Items already appended stay in the backend cart; keep state in step with it.
			st.SetCart(cart)
			return nil, fmt.Errorf("add line item to cart %s: %w", cart.ID, err)
		}
		cart = updated
	}
	st.SetCart(cart)
	return cart, nil
}
