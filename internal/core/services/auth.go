package services

import (
	"context"
	"crypto/rand"
	"errors"
	"fmt"
	"math/big"
	"strings"
	"sync"
	"time"

	"github.com/corvid-labs/askdoc/internal/core/domain"
	"github.com/corvid-labs/askdoc/internal/core/ports/driven"
	"github.com/corvid-labs/askdoc/internal/core/ports/driving"
	"github.com/corvid-labs/askdoc/internal/logger"
)

// Ensure AuthService implements the interface.
var _ driving.AuthService = (*AuthService)(nil)

// DefaultOTPTTL is how long a one-time code stays valid.
const DefaultOTPTTL = 10 * time.Minute

// pendingOTP is an issued, not yet verified one-time code.
type pendingOTP struct {
	code    string
	expires time.Time
}

// AuthService handles registration and two-factor login. Issued codes
// live in memory only; a restart invalidates them, which is acceptable
// for a single-process CLI.
type AuthService struct {
	users  driven.UserStore
	mailer driven.Mailer
	ttl    time.Duration

	mu      sync.Mutex
	pending map[string]pendingOTP
	now     func() time.Time
}

// NewAuthService creates an auth service. The mailer is optional (can
// be nil); without one, codes are printed to the log instead of mailed.
// A zero ttl means DefaultOTPTTL.
func NewAuthService(users driven.UserStore, mailer driven.Mailer, ttl time.Duration) *AuthService {
	if ttl <= 0 {
		ttl = DefaultOTPTTL
	}
	return &AuthService{
		users:   users,
		mailer:  mailer,
		ttl:     ttl,
		pending: make(map[string]pendingOTP),
		now:     time.Now,
	}
}

// Register creates an account after validating password strength.
func (s *AuthService) Register(ctx context.Context, email, password string) error {
	email = normaliseEmail(email)
	if email == "" || !strings.Contains(email, "@") {
		return fmt.Errorf("%w: invalid email address", domain.ErrInvalidInput)
	}

	if rules := domain.ValidatePassword(password); !rules.AllMet() {
		return fmt.Errorf("%w: need 8+ characters with upper, lower, digit and special", domain.ErrWeakPassword)
	}

	user := &domain.User{
		Email:        email,
		PasswordHash: domain.HashPassword(password),
		CreatedAt:    s.now().UTC(),
	}
	if err := s.users.SaveUser(ctx, user); err != nil {
		return fmt.Errorf("register %s: %w", email, err)
	}

	logger.Info("Registered account %s", email)
	return nil
}

// Login verifies credentials and issues a one-time code.
func (s *AuthService) Login(ctx context.Context, email, password string) error {
	email = normaliseEmail(email)

	user, err := s.users.GetUser(ctx, email)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return domain.ErrInvalidCredentials
		}
		return fmt.Errorf("lookup %s: %w", email, err)
	}
	if !user.CheckPassword(password) {
		return domain.ErrInvalidCredentials
	}

	code, err := generateOTP()
	if err != nil {
		return fmt.Errorf("generate code: %w", err)
	}

	s.mu.Lock()
	s.pending[email] = pendingOTP{code: code, expires: s.now().Add(s.ttl)}
	s.mu.Unlock()

	if s.mailer == nil {
		logger.Info("One-time code for %s: %s", email, code)
		return nil
	}
	if err := s.mailer.SendOTP(ctx, email, code); err != nil {
		return fmt.Errorf("send code to %s: %w", email, err)
	}

	logger.Info("One-time code sent to %s", email)
	return nil
}

// VerifyOTP checks the one-time code and completes the login. Codes
// are single-use: success and expiry both consume them.
func (s *AuthService) VerifyOTP(ctx context.Context, email, code string) error {
	email = normaliseEmail(email)

	s.mu.Lock()
	defer s.mu.Unlock()

	pending, ok := s.pending[email]
	if !ok {
		return domain.ErrInvalidOTP
	}
	if s.now().After(pending.expires) {
		delete(s.pending, email)
		return domain.ErrInvalidOTP
	}
	if pending.code != strings.TrimSpace(code) {
		return domain.ErrInvalidOTP
	}

	delete(s.pending, email)
	logger.Info("Login completed for %s", email)
	return nil
}

// generateOTP returns a random 6-digit code.
func generateOTP() (string, error) {
	n, err := rand.Int(rand.Reader, big.NewInt(1_000_000))
	if err != nil {
		return "", err
	}
	return fmt.Sprintf("%06d", n.Int64()), nil
}

func normaliseEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}
