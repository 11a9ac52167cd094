package session

import (
	"context"
	"crypto/rand"
	"encoding/base64"
	"errors"
	"time"

	"trek-storefront/internal/domain"
	sessionrepo "trek-storefront/internal/repository/session"
)

const issueAttempts = 5

type tokenManager struct {
	repo sessionrepo.Repository
	now  func() time.Time
}

func newTokenManager(repo sessionrepo.Repository) *tokenManager {
	return &tokenManager{
		repo: repo,
		now:  time.Now,
	}
}

func (m *tokenManager) Issue(ctx context.Context, backendCookie, customerID string, ttl time.Duration) (string, time.Time, error) {
	expiresAt := m.now().Add(ttl)
	var customer *string
	if customerID != "" {
		customer = &customerID
	}
	for i := 0; i < issueAttempts; i++ {
		token, err := randomToken()
		if err != nil {
			return "", time.Time{}, err
		}
		err = m.repo.Create(ctx, sessionrepo.Session{
			Token:         token,
			BackendCookie: backendCookie,
			CustomerID:    customer,
			ExpiresAt:     expiresAt,
		})
		if err == nil {
			return token, expiresAt, nil
		}
		if errors.Is(err, domain.ErrAlreadyExists) {
			continue
		}
		return "", time.Time{}, err
	}
	return "", time.Time{}, errors.New("token collision")
}

func (m *tokenManager) Validate(ctx context.Context, token string) (Record, bool) {
	meta, err := m.repo.Get(ctx, token)
	if err != nil {
		return Record{}, false
	}
	if m.now().After(meta.ExpiresAt) {
		_ = m.repo.Delete(ctx, token)
		return Record{}, false
	}
	rec := Record{
		Token:         meta.Token,
		BackendCookie: meta.BackendCookie,
		ExpiresAt:     meta.ExpiresAt,
	}
	if meta.CustomerID != nil {
		rec.CustomerID = *meta.CustomerID
	}
	return rec, true
}

func randomToken() (string, error) {
	b := make([]byte, 32)
	if _, err := rand.Read(b); err != nil {
		return "", err
	}
	return base64.RawURLEncoding.EncodeToString(b), nil
}
