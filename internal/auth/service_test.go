package auth

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"golang.org/x/crypto/bcrypt"
)

func newTestAuthService(clock *time.Time) (*Service, *MemoryUserStore) {
	store := NewMemoryUserStore()
	service := NewService(store, NewTokenIssuer("secret", time.Hour), Lockout{MaxFailures: 3, Duration: 2 * time.Minute}, nil,
		WithBcryptCost(bcrypt.MinCost),
		WithClock(func() time.Time { return *clock }),
	)
	return service, store
}

func TestRegisterNormalizesEmailAndHashesPassword(t *testing.T) {
	clock := time.Unix(1700000000, 0).UTC()
	service, store := newTestAuthService(&clock)

	user, err := service.Register(context.Background(), "  Ada@Example.COM ", "correct horse")
	if err != nil {
		t.Fatalf("Register returned error: %v", err)
	}
	if user.Email != "ada@example.com" {
		t.Fatalf("expected normalized email, got %q", user.Email)
	}
	if user.ID == "" {
		t.Fatalf("expected generated user id")
	}

	stored, err := store.GetUserByEmail(context.Background(), "ada@example.com")
	if err != nil {
		t.Fatalf("GetUserByEmail returned error: %v", err)
	}
	if stored.PasswordHash == "correct horse" {
		t.Fatalf("expected password to be hashed")
	}
	if err := bcrypt.CompareHashAndPassword([]byte(stored.PasswordHash), []byte("correct horse")); err != nil {
		t.Fatalf("stored hash does not match password: %v", err)
	}
}

func TestRegisterValidation(t *testing.T) {
	clock := time.Unix(1700000000, 0).UTC()
	service, _ := newTestAuthService(&clock)
	ctx := context.Background()

	if _, err := service.Register(ctx, "not-an-email", "long enough"); !errors.Is(err, ErrInvalidEmail) {
		t.Fatalf("expected ErrInvalidEmail, got %v", err)
	}
	if _, err := service.Register(ctx, "a@b.io", "short"); !errors.Is(err, ErrWeakPassword) {
		t.Fatalf("expected ErrWeakPassword, got %v", err)
	}
	if _, err := service.Register(ctx, "a@b.io", "long enough"); err != nil {
		t.Fatalf("Register returned error: %v", err)
	}
	if _, err := service.Register(ctx, "A@B.io", "long enough"); !errors.Is(err, ErrEmailTaken) {
		t.Fatalf("expected ErrEmailTaken, got %v", err)
	}
}

func TestLoginIssuesToken(t *testing.T) {
	clock := time.Unix(1700000000, 0).UTC()
	service, _ := newTestAuthService(&clock)
	ctx := context.Background()

	user, err := service.Register(ctx, "ada@example.com", "correct horse")
	if err != nil {
		t.Fatalf("Register returned error: %v", err)
	}

	session, err := service.Login(ctx, "ADA@example.com", "correct horse")
	if err != nil {
		t.Fatalf("Login returned error: %v", err)
	}
	if session.UserID != user.ID || session.AccessToken == "" {
		t.Fatalf("unexpected session: %+v", session)
	}

	subject, err := service.tokens.Parse(session.AccessToken)
	if err != nil {
		t.Fatalf("Parse returned error: %v", err)
	}
	if subject != user.ID {
		t.Fatalf("expected token subject %q, got %q", user.ID, subject)
	}
}

func TestLoginUnknownUser(t *testing.T) {
	clock := time.Unix(1700000000, 0).UTC()
	service, _ := newTestAuthService(&clock)

	if _, err := service.Login(context.Background(), "ghost@example.com", "whatever1"); !errors.Is(err, ErrInvalidCredentials) {
		t.Fatalf("expected ErrInvalidCredentials, got %v", err)
	}
}

func TestLoginLocksOutAfterRepeatedFailures(t *testing.T) {
	clock := time.Unix(1700000000, 0).UTC()
	service, _ := newTestAuthService(&clock)
	ctx := context.Background()

	if _, err := service.Register(ctx, "ada@example.com", "correct horse"); err != nil {
		t.Fatalf("Register returned error: %v", err)
	}

	for i := 0; i < 2; i++ {
		if _, err := service.Login(ctx, "ada@example.com", "wrong password"); !errors.Is(err, ErrInvalidCredentials) {
			t.Fatalf("attempt %d: expected ErrInvalidCredentials, got %v", i+1, err)
		}
	}
	if _, err := service.Login(ctx, "ada@example.com", "wrong password"); !errors.Is(err, ErrAccountLocked) {
		t.Fatalf("third failure: expected ErrAccountLocked, got %v", err)
	}
	if _, err := service.Login(ctx, "ada@example.com", "correct horse"); !errors.Is(err, ErrAccountLocked) {
		t.Fatalf("expected lock to hold for correct password, got %v", err)
	}

	clock = clock.Add(2*time.Minute + time.Second)
	if _, err := service.Login(ctx, "ada@example.com", "correct horse"); err != nil {
		t.Fatalf("expected login after lockout expiry, got %v", err)
	}
}

func TestLoginSuccessResetsFailureCount(t *testing.T) {
	clock := time.Unix(1700000000, 0).UTC()
	service, store := newTestAuthService(&clock)
	ctx := context.Background()

	if _, err := service.Register(ctx, "ada@example.com", "correct horse"); err != nil {
		t.Fatalf("Register returned error: %v", err)
	}
	if _, err := service.Login(ctx, "ada@example.com", "wrong password"); !errors.Is(err, ErrInvalidCredentials) {
		t.Fatalf("expected ErrInvalidCredentials, got %v", err)
	}
	if _, err := service.Login(ctx, "ada@example.com", "correct horse"); err != nil {
		t.Fatalf("Login returned error: %v", err)
	}

	user, err := store.GetUserByEmail(ctx, "ada@example.com")
	if err != nil {
		t.Fatalf("GetUserByEmail returned error: %v", err)
	}
	if user.FailedLogins != 0 || !user.LockedUntil.IsZero() {
		t.Fatalf("expected login state reset, got failed=%d locked=%v", user.FailedLogins, user.LockedUntil)
	}
}

func TestLoginLocksOutUnderConcurrentFailures(t *testing.T) {
	clock := time.Unix(1700000000, 0).UTC()
	service, store := newTestAuthService(&clock)
	ctx := context.Background()

	if _, err := service.Register(ctx, "ada@example.com", "correct horse"); err != nil {
		t.Fatalf("Register returned error: %v", err)
	}

	const attempts = 6
	var wg sync.WaitGroup
	results := make(chan error, attempts)
	for i := 0; i < attempts; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, err := service.Login(ctx, "ada@example.com", "wrong password")
			results <- err
		}()
	}
	wg.Wait()
	close(results)

	lockouts := 0
	for err := range results {
		switch {
		case errors.Is(err, ErrAccountLocked):
			lockouts++
		case errors.Is(err, ErrInvalidCredentials):
		default:
			t.Fatalf("unexpected login error: %v", err)
		}
	}
	if lockouts == 0 {
		t.Fatalf("expected at least one lockout from %d concurrent failures", attempts)
	}

	user, err := store.GetUserByEmail(ctx, "ada@example.com")
	if err != nil {
		t.Fatalf("GetUserByEmail returned error: %v", err)
	}
	if !user.LockedUntil.After(clock) {
		t.Fatalf("expected account to be locked, got %+v", user)
	}
	if _, err := service.Login(ctx, "ada@example.com", "correct horse"); !errors.Is(err, ErrAccountLocked) {
		t.Fatalf("expected lock to hold, got %v", err)
	}
}

func TestMemoryUserStoreRecordFailedLogin(t *testing.T) {
	store := NewMemoryUserStore()
	ctx := context.Background()
	if err := store.CreateUser(ctx, User{ID: "user-1", Email: "ada@example.com"}); err != nil {
		t.Fatalf("CreateUser returned error: %v", err)
	}

	lockUntil := time.Unix(1700000120, 0)
	for attempt := 1; attempt <= 3; attempt++ {
		locked, err := store.RecordFailedLogin(ctx, "user-1", 3, lockUntil)
		if err != nil {
			t.Fatalf("RecordFailedLogin returned error: %v", err)
		}
		if locked != (attempt == 3) {
			t.Fatalf("attempt %d: locked = %t", attempt, locked)
		}
	}

	user, _ := store.GetUserByEmail(ctx, "ada@example.com")
	if user.FailedLogins != 0 || !user.LockedUntil.Equal(lockUntil) {
		t.Fatalf("unexpected state after lockout: %+v", user)
	}
	if _, err := store.RecordFailedLogin(ctx, "ghost", 3, lockUntil); !errors.Is(err, ErrUserNotFound) {
		t.Fatalf("expected ErrUserNotFound, got %v", err)
	}
}
