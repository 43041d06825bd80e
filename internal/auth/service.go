package auth

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"
)

const minPasswordLength = 8

var (
	ErrUserNotFound       = errors.New("user not found")
	ErrEmailTaken         = errors.New("email is already registered")
	ErrInvalidEmail       = errors.New("email address is invalid")
	ErrWeakPassword       = fmt.Errorf("password must be at least %d characters", minPasswordLength)
	ErrInvalidCredentials = errors.New("invalid email or password")
	ErrAccountLocked      = errors.New("account is temporarily locked")
)

type User struct {
	ID           string
	Email        string
	PasswordHash string
	FailedLogins int
	LockedUntil  time.Time
	CreatedAt    time.Time
}

// UserRepository stores accounts. CreateUser returns ErrEmailTaken for a
// duplicate email; GetUserByEmail returns ErrUserNotFound.
//
// RecordFailedLogin increments the failure counter in one atomic step. When
// the new count reaches maxFailures the counter restarts at zero, the account
// is locked until lockUntil and locked is true.
type UserRepository interface {
	CreateUser(ctx context.Context, user User) error
	GetUserByEmail(ctx context.Context, email string) (User, error)
	RecordFailedLogin(ctx context.Context, userID string, maxFailures int, lockUntil time.Time) (locked bool, err error)
	ResetLoginState(ctx context.Context, userID string) error
}

type Lockout struct {
	MaxFailures int
	Duration    time.Duration
}

type Session struct {
	UserID      string
	AccessToken string
	ExpiresAt   time.Time
}

type Service struct {
	users      UserRepository
	tokens     *TokenIssuer
	lockout    Lockout
	bcryptCost int
	logger     *log.Logger
	now        func() time.Time
}

type Option func(*Service)

// WithBcryptCost overrides the hashing cost. Values outside bcrypt's range
// fall back to bcrypt.DefaultCost.
func WithBcryptCost(cost int) Option {
	return func(s *Service) {
		if cost >= bcrypt.MinCost && cost <= bcrypt.MaxCost {
			s.bcryptCost = cost
		}
	}
}

func WithClock(now func() time.Time) Option {
	return func(s *Service) {
		if now != nil {
			s.now = now
		}
	}
}

func NewService(users UserRepository, tokens *TokenIssuer, lockout Lockout, logger *log.Logger, opts ...Option) *Service {
	if lockout.MaxFailures <= 0 {
		lockout.MaxFailures = 3
	}
	if lockout.Duration <= 0 {
		lockout.Duration = 2 * time.Minute
	}
	if logger == nil {
		logger = log.New(io.Discard, "", 0)
	}
	s := &Service{
		users:      users,
		tokens:     tokens,
		lockout:    lockout,
		bcryptCost: bcrypt.DefaultCost,
		logger:     logger,
		now: func() time.Time {
			return time.Now().UTC()
		},
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

type registration struct {
	Email    string `validate:"required,email"`
	Password string `validate:"min=8"`
}

func (s *Service) Register(ctx context.Context, email, password string) (User, error) {
	normalized := normalizeEmail(email)
	if err := validateRegistration(registration{Email: normalized, Password: password}); err != nil {
		return User{}, err
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(password), s.bcryptCost)
	if err != nil {
		return User{}, fmt.Errorf("hash password: %w", err)
	}

	user := User{
		ID:           uuid.NewString(),
		Email:        normalized,
		PasswordHash: string(hash),
		CreatedAt:    s.now(),
	}
	if err := s.users.CreateUser(ctx, user); err != nil {
		if errors.Is(err, ErrEmailTaken) {
			return User{}, err
		}
		return User{}, fmt.Errorf("create user: %w", err)
	}

	s.logger.Printf("registered user %s", user.ID)
	return user, nil
}

// Login checks credentials and issues an access token. After
// Lockout.MaxFailures consecutive failures the account is locked for
// Lockout.Duration.
func (s *Service) Login(ctx context.Context, email, password string) (Session, error) {
	normalized := normalizeEmail(email)
	if validate.Var(normalized, "required,email") != nil {
		return Session{}, ErrInvalidCredentials
	}

	user, err := s.users.GetUserByEmail(ctx, normalized)
	if err != nil {
		if errors.Is(err, ErrUserNotFound) {
			return Session{}, ErrInvalidCredentials
		}
		return Session{}, fmt.Errorf("load user: %w", err)
	}

	now := s.now()
	if now.Before(user.LockedUntil) {
		s.logger.Printf("login refused for locked user %s", user.ID)
		return Session{}, ErrAccountLocked
	}

	if bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(password)) != nil {
		lockUntil := now.Add(s.lockout.Duration)
		locked, err := s.users.RecordFailedLogin(ctx, user.ID, s.lockout.MaxFailures, lockUntil)
		if err != nil {
			return Session{}, fmt.Errorf("record failed login: %w", err)
		}
		if locked {
			s.logger.Printf("user %s locked out until %s", user.ID, lockUntil.Format(time.RFC3339))
			return Session{}, ErrAccountLocked
		}
		return Session{}, ErrInvalidCredentials
	}

	if user.FailedLogins != 0 || !user.LockedUntil.IsZero() {
		if err := s.users.ResetLoginState(ctx, user.ID); err != nil {
			return Session{}, fmt.Errorf("reset login state: %w", err)
		}
	}

	token, expiresAt, err := s.tokens.Issue(user.ID)
	if err != nil {
		return Session{}, err
	}
	return Session{UserID: user.ID, AccessToken: token, ExpiresAt: expiresAt}, nil
}

var validate = validator.New()

func normalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}

// validateRegistration maps the first failing field to its sentinel error.
func validateRegistration(r registration) error {
	err := validate.Struct(r)
	if err == nil {
		return nil
	}
	var fieldErrs validator.ValidationErrors
	if !errors.As(err, &fieldErrs) {
		return err
	}
	switch fieldErrs[0].Field() {
	case "Email":
		return ErrInvalidEmail
	default:
		return ErrWeakPassword
	}
}
