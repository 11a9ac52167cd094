package session

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.uber.org/zap"

	"trek-storefront/internal/domain"
	sessionrepo "trek-storefront/internal/repository/session"
)

// DefaultTTL matches the lifetime of the storefront login cookie.
const DefaultTTL = 30 * 24 * time.Hour

var ErrInvalidToken = errors.New("invalid session token")

// Record is the validated view of a stored session.
type Record struct {
	Token         string
	BackendCookie string
	CustomerID    string
	ExpiresAt     time.Time
}

type Service struct {
	tokens *tokenManager
	repo   sessionrepo.Repository
	ttl    time.Duration
	logger *zap.Logger
}

func NewService(repo sessionrepo.Repository, ttl time.Duration, logger *zap.Logger) *Service {
	if ttl <= 0 {
		ttl = DefaultTTL
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Service{
		tokens: newTokenManager(repo),
		repo:   repo,
		ttl:    ttl,
		logger: logger,
	}
}

func (s *Service) TTL() time.Duration {
	return s.ttl
}

// Issue starts a new storefront session holding backendCookie.
func (s *Service) Issue(ctx context.Context, backendCookie, customerID string) (Record, error) {
	token, expiresAt, err := s.tokens.Issue(ctx, backendCookie, customerID, s.ttl)
	if err != nil {
		return Record{}, fmt.Errorf("issue session: %w", err)
	}
	return Record{
		Token:         token,
		BackendCookie: backendCookie,
		CustomerID:    customerID,
		ExpiresAt:     expiresAt,
	}, nil
}

func (s *Service) Lookup(ctx context.Context, token string) (Record, error) {
	if token == "" {
		return Record{}, ErrInvalidToken
	}
	rec, ok := s.tokens.Validate(ctx, token)
	if !ok {
		return Record{}, ErrInvalidToken
	}
	return rec, nil
}

// Save stores the latest backend cookie and customer for token.
func (s *Service) Save(ctx context.Context, token, backendCookie, customerID string) error {
	var customer *string
	if customerID != "" {
		customer = &customerID
	}
	if err := s.repo.Update(ctx, token, backendCookie, customer); err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return ErrInvalidToken
		}
		return fmt.Errorf("save session: %w", err)
	}
	return nil
}

// Revoke deletes the session. Unknown tokens are ignored.
func (s *Service) Revoke(ctx context.Context, token string) error {
	if token == "" {
		return nil
	}
	if err := s.repo.Delete(ctx, token); err != nil && !errors.Is(err, domain.ErrNotFound) {
		return fmt.Errorf("revoke session: %w", err)
	}
	s.logger.Debug("session revoked")
	return nil
}

func (s *Service) Ping(ctx context.Context) error {
	return s.repo.Ping(ctx)
}
