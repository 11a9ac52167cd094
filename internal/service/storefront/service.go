package storefront

import (
	"context"
	"errors"

	"go.uber.org/zap"

	"trek-storefront/internal/domain"
	"trek-storefront/internal/medusa"
)

var (
	// ErrInvalidCredentials is returned when the backend rejects an email/password pair.
	ErrInvalidCredentials = errors.New("invalid email or password")
	// ErrAccountExists is returned by Signup when the email is already registered.
	ErrAccountExists = errors.New("an account with this email already exists")
)

// Backend is the subset of the commerce store API the storefront drives.
type Backend interface {
	Login(ctx context.Context, email, password string) error
	Authenticate(ctx context.Context, email, password string) (string, error)
	Logout(ctx context.Context) error
	Register(ctx context.Context, email, password string) (string, error)
	CreateCustomer(ctx context.Context, registrationToken string, in domain.CustomerInput) (*domain.Customer, error)
	RetrieveCustomer(ctx context.Context) (*domain.Customer, error)
	UpdateCustomer(ctx context.Context, in domain.CustomerUpdate) (*domain.Customer, error)
	CreateCart(ctx context.Context, items []domain.LineItemInput) (*domain.Cart, error)
	RetrieveCart(ctx context.Context, id string) (*domain.Cart, error)
	TransferCart(ctx context.Context, id string) (*domain.Cart, error)
	AddLineItem(ctx context.Context, cartID string, item domain.LineItemInput) (*domain.Cart, error)
	ListProducts(ctx context.Context, q medusa.ProductQuery) ([]domain.Product, error)
	RetrieveProduct(ctx context.Context, id, regionID string) (*domain.Product, error)
}

// CartStore persists the anonymous cart id on the client, normally as the cart-id cookie.
type CartStore interface {
	CartID() string
	SetCartID(id string)
	Clear()
}

type Service struct {
	backend Backend
	logger  *zap.Logger
}

func New(backend Backend, logger *zap.Logger) *Service {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Service{backend: backend, logger: logger}
}
