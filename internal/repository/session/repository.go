package session

import (
	"context"
	"time"
)

// Session links a storefront session token to the backend session cookie it fronts.
type Session struct {
	Token         string
	BackendCookie string
	CustomerID    *string
	ExpiresAt     time.Time
	CreatedAt     time.Time
	UpdatedAt     time.Time
}

type Repository interface {
	Create(ctx context.Context, s Session) error
	Get(ctx context.Context, token string) (*Session, error)
	Update(ctx context.Context, token, backendCookie string, customerID *string) error
	Delete(ctx context.Context, token string) error
	Ping(ctx context.Context) error
}
