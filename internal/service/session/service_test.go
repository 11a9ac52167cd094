package session

import (
	"context"
	"errors"
	"testing"
	"time"

	"trek-storefront/internal/domain"
	sessionrepo "trek-storefront/internal/repository/session"
)

type collidingRepo struct {
	sessionrepo.Repository
	collisions int
	creates    int
}

func (r *collidingRepo) Create(ctx context.Context, s sessionrepo.Session) error {
	r.creates++
	if r.creates <= r.collisions {
		return domain.ErrAlreadyExists
	}
	return r.Repository.Create(ctx, s)
}

func TestService_IssueLookupSaveRevoke(t *testing.T) {
	ctx := context.Background()
	svc := NewService(sessionrepo.NewMemory(), 0, nil)
	if svc.TTL() != DefaultTTL {
		t.Fatalf("expected default ttl %s, got %s", DefaultTTL, svc.TTL())
	}

	rec, err := svc.Issue(ctx, "", "")
	if err != nil {
		t.Fatalf("Issue: %v", err)
	}
	if rec.Token == "" {
		t.Fatal("expected a token")
	}

	got, err := svc.Lookup(ctx, rec.Token)
	if err != nil {
		t.Fatalf("Lookup: %v", err)
	}
	if got.BackendCookie != "" || got.CustomerID != "" {
		t.Fatalf("expected empty record, got %+v", got)
	}

	if err := svc.Save(ctx, rec.Token, "connect.sid=abc", "cus_1"); err != nil {
		t.Fatalf("Save: %v", err)
	}
	got, err = svc.Lookup(ctx, rec.Token)
	if err != nil {
		t.Fatalf("Lookup after save: %v", err)
	}
	if got.BackendCookie != "connect.sid=abc" || got.CustomerID != "cus_1" {
		t.Fatalf("expected saved cookie and customer, got %+v", got)
	}

	if err := svc.Revoke(ctx, rec.Token); err != nil {
		t.Fatalf("Revoke: %v", err)
	}
	if _, err := svc.Lookup(ctx, rec.Token); !errors.Is(err, ErrInvalidToken) {
		t.Fatalf("expected invalid token after revoke, got %v", err)
	}
	if err := svc.Revoke(ctx, rec.Token); err != nil {
		t.Fatalf("expected second revoke to be a no-op, got %v", err)
	}
	if err := svc.Save(ctx, rec.Token, "x", ""); !errors.Is(err, ErrInvalidToken) {
		t.Fatalf("expected invalid token on save, got %v", err)
	}
}

func TestService_LookupEmptyToken(t *testing.T) {
	svc := NewService(sessionrepo.NewMemory(), time.Hour, nil)
	if _, err := svc.Lookup(context.Background(), ""); !errors.Is(err, ErrInvalidToken) {
		t.Fatalf("expected invalid token, got %v", err)
	}
}

func TestService_ExpiredSessionIsDeleted(t *testing.T) {
	ctx := context.Background()
	repo := sessionrepo.NewMemory()
	svc := NewService(repo, time.Minute, nil)

	rec, err := svc.Issue(ctx, "connect.sid=abc", "")
	if err != nil {
		t.Fatalf("Issue: %v", err)
	}

	svc.tokens.now = func() time.Time { return time.Now().Add(2 * time.Minute) }
	if _, err := svc.Lookup(ctx, rec.Token); !errors.Is(err, ErrInvalidToken) {
		t.Fatalf("expected expired token rejected, got %v", err)
	}
	if _, err := repo.Get(ctx, rec.Token); !errors.Is(err, domain.ErrNotFound) {
		t.Fatalf("expected expired session to be deleted, got %v", err)
	}
}

func TestService_IssueRetriesOnCollision(t *testing.T) {
	ctx := context.Background()
	repo := &collidingRepo{Repository: sessionrepo.NewMemory(), collisions: 2}
	svc := NewService(repo, time.Hour, nil)

	rec, err := svc.Issue(ctx, "", "")
	if err != nil {
		t.Fatalf("Issue: %v", err)
	}
	if repo.creates != 3 {
		t.Fatalf("expected 3 create attempts, got %d", repo.creates)
	}
	if _, err := svc.Lookup(ctx, rec.Token); err != nil {
		t.Fatalf("Lookup: %v", err)
	}
}

func TestService_IssueGivesUpAfterRepeatedCollisions(t *testing.T) {
	repo := &collidingRepo{Repository: sessionrepo.NewMemory(), collisions: issueAttempts}
	svc := NewService(repo, time.Hour, nil)

	if _, err := svc.Issue(context.Background(), "", ""); err == nil {
		t.Fatal("expected error after exhausting attempts")
	}
	if repo.creates != issueAttempts {
		t.Fatalf("expected %d attempts, got %d", issueAttempts, repo.creates)
	}
}
