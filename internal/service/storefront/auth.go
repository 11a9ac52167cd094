package storefront

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"go.uber.org/zap"

	"trek-storefront/internal/domain"
	"trek-storefront/internal/medusa"
)

type LoginInput struct {
	Email    string `json:"email" form:"email"`
	Password string `json:"password" form:"password"`
}

func (in LoginInput) validate() error {
	if strings.TrimSpace(in.Email) == "" {
		return domain.Invalid("email", "Email is required")
	}
	if in.Password == "" {
		return domain.Invalid("password", "Password is required")
	}
	return nil
}

type SignupInput struct {
	FirstName       string `json:"first_name" form:"first_name"`
	LastName        string `json:"last_name" form:"last_name"`
	Email           string `json:"email" form:"email"`
	Password        string `json:"password" form:"password"`
	ConfirmPassword string `json:"confirm_password" form:"confirm_password"`
}

func (in SignupInput) validate() error {
	switch {
	case strings.TrimSpace(in.FirstName) == "":
		return domain.Invalid("first_name", "First Name is required")
	case strings.TrimSpace(in.LastName) == "":
		return domain.Invalid("last_name", "Last Name is required")
	case strings.TrimSpace(in.Email) == "":
		return domain.Invalid("email", "Email is required")
	case in.Password == "":
		return domain.Invalid("password", "Password is required")
	case in.ConfirmPassword == "":
		return domain.Invalid("confirm_password", "Confirm Password is required")
	case in.Password != in.ConfirmPassword:
		return domain.Invalid("confirm_password", "Passwords do not match")
	}
	return nil
}

// Login authenticates the customer and reconciles the session's cart.
// On error the state and the cart cookie are left as they were.
func (s *Service) Login(ctx context.Context, st *State, carts CartStore, in LoginInput) error {
	if err := in.validate(); err != nil {
		return err
	}
	email := strings.TrimSpace(in.Email)
	if err := s.backend.Login(ctx, email, in.Password); err != nil {
		if errors.Is(err, domain.ErrUnauthorized) {
			return ErrInvalidCredentials
		}
		return fmt.Errorf("login: %w", err)
	}

	cart, customer, err := s.reconcile(ctx, st.Cart())
	if err != nil {
		s.dropBackendSession(ctx)
		return err
	}

	st.SetCart(cart)
	st.SetCustomer(customer)
	carts.SetCartID(cart.ID)
	s.logger.Info("customer logged in",
		zap.String("customer_id", customer.ID),
		zap.String("cart_id", cart.ID),
	)
	return nil
}

// dropBackendSession ends the session a login established when the cart could
// not be reconciled, so the visitor stays anonymous.
func (s *Service) dropBackendSession(ctx context.Context) {
	if err := s.backend.Logout(ctx); err != nil {
		s.logger.Warn("end backend session after failed login", zap.Error(err))
	}
	if sess := medusa.SessionFrom(ctx); sess != nil {
		sess.Clear()
	}
}

// reconcile picks the one cart the customer continues with: the anonymous
// cart (transferred), the customer's stored cart, or a fresh empty cart.
func (s *Service) reconcile(ctx context.Context, anonymous *domain.Cart) (*domain.Cart, *domain.Customer, error) {
	if anonymous != nil {
		cart, err := s.backend.TransferCart(ctx, anonymous.ID)
		if err != nil {
			return nil, nil, fmt.Errorf("transfer cart %s: %w", anonymous.ID, err)
		}
		customer, err := s.backend.UpdateCustomer(ctx, domain.CustomerUpdate{
			Metadata: domain.CartIDMetadata(cart.ID),
		})
		if err != nil {
			return nil, nil, fmt.Errorf("store cart on customer: %w", err)
		}
		return cart, customer, nil
	}

	customer, err := s.backend.RetrieveCustomer(ctx)
	if err != nil {
		return nil, nil, fmt.Errorf("retrieve customer: %w", err)
	}
	if id := customer.CartID(); id != "" {
		cart, err := s.backend.RetrieveCart(ctx, id)
		if err != nil {
			return nil, nil, fmt.Errorf("retrieve stored cart %s: %w", id, err)
		}
		return cart, customer, nil
	}
	cart, err := s.backend.CreateCart(ctx, nil)
	if err != nil {
		return nil, nil, fmt.Errorf("create cart: %w", err)
	}
	return cart, customer, nil
}

// Signup registers an identity, creates the customer and logs in. An identity
// left without a customer by an earlier attempt is completed instead of rejected.
func (s *Service) Signup(ctx context.Context, st *State, carts CartStore, in SignupInput) error {
	if err := in.validate(); err != nil {
		return err
	}
	email := strings.TrimSpace(in.Email)
	token, err := s.backend.Register(ctx, email, in.Password)
	if err != nil {
		if !errors.Is(err, domain.ErrAlreadyExists) && !errors.Is(err, domain.ErrUnauthorized) {
			return fmt.Errorf("register: %w", err)
		}
		// The identity exists. It can still be completed when no customer was
		// ever created for it and the password matches.
		token, err = s.backend.Authenticate(ctx, email, in.Password)
		if err != nil {
			if errors.Is(err, domain.ErrUnauthorized) {
				return ErrAccountExists
			}
			return fmt.Errorf("authenticate existing identity: %w", err)
		}
	}
	if medusa.TokenActorID(token) != "" {
		return ErrAccountExists
	}
	if _, err := s.backend.CreateCustomer(ctx, token, domain.CustomerInput{
		Email:     email,
		FirstName: strings.TrimSpace(in.FirstName),
		LastName:  strings.TrimSpace(in.LastName),
	}); err != nil {
		if errors.Is(err, domain.ErrAlreadyExists) {
			return ErrAccountExists
		}
		return fmt.Errorf("create customer: %w", err)
	}
	return s.Login(ctx, st, carts, LoginInput{Email: email, Password: in.Password})
}

// Logout ends the backend session and always clears local state and the
// cart cookie. A backend failure is returned after the local cleanup.
func (s *Service) Logout(ctx context.Context, st *State, carts CartStore) error {
	err := s.backend.Logout(ctx)
	st.SetCustomer(nil)
	carts.Clear()
	st.SetCart(nil)
	if err != nil {
		s.logger.Warn("backend logout failed", zap.Error(err))
		return fmt.Errorf("logout: %w", err)
	}
	return nil
}
