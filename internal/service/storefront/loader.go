package storefront

import (
	"context"
	"fmt"

	"go.uber.org/zap"

	"trek-storefront/internal/domain"
	"trek-storefront/internal/medusa"
)

const productPageSize = 20

// LoadCommon builds the per-request state every page needs. Lookup failures
// are logged and degrade to "no customer" or "no cart".
func (s *Service) LoadCommon(ctx context.Context, carts CartStore) *State {
	st := NewState(nil, nil)
	cartID := carts.CartID()

	if !medusa.SessionFrom(ctx).Empty() {
		customer, err := s.backend.RetrieveCustomer(ctx)
		if err != nil {
			s.logger.Warn("retrieve customer", zap.Error(err))
		} else {
			st.SetCustomer(customer)
			if id := customer.CartID(); id != "" {
				cartID = id
			}
		}
	}

	if cartID != "" {
		cart, err := s.backend.RetrieveCart(ctx, cartID)
		if err != nil {
			s.logger.Warn("retrieve cart", zap.String("cart_id", cartID), zap.Error(err))
		} else {
			st.SetCart(cart)
		}
	}
	return st
}

func (s *Service) Products(ctx context.Context, st *State) ([]domain.Product, error) {
	products, err := s.backend.ListProducts(ctx, medusa.ProductQuery{
		Limit:    productPageSize,
		RegionID: regionOf(st),
	})
	if err != nil {
		return nil, fmt.Errorf("list products: %w", err)
	}
	return products, nil
}

func (s *Service) Product(ctx context.Context, st *State, id string) (*domain.Product, error) {
	if id == "" {
		return nil, domain.ErrNotFound
	}
	product, err := s.backend.RetrieveProduct(ctx, id, regionOf(st))
	if err != nil {
		return nil, fmt.Errorf("retrieve product %s: %w", id, err)
	}
	return product, nil
}

func regionOf(st *State) string {
	if c := st.Cart(); c != nil {
		return c.RegionID
	}
	return ""
}
