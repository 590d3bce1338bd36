package service

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"sync"
	"unicode/utf8"

	"github.com/msomdec/campus-market/internal/domain"
)

const (
	// DefaultEmailSuffix is the institutional address every account must use.
	DefaultEmailSuffix = "@student.csulb.edu"
	// MinCredentialLength is counted in characters, not bytes.
	MinCredentialLength = 6
)

// AccountService handles registration, login and the per-profile session.
// There is no credential recovery.
type AccountService struct {
	mu          sync.Mutex
	accounts    domain.AccountRepository
	sessions    domain.SessionRepository
	hasher      domain.CredentialHasher
	emailSuffix string
}

// NewAccountService creates a new AccountService. An empty suffix selects
// DefaultEmailSuffix.
func NewAccountService(accounts domain.AccountRepository, sessions domain.SessionRepository, hasher domain.CredentialHasher, emailSuffix string) *AccountService {
	emailSuffix = strings.ToLower(strings.TrimSpace(emailSuffix))
	if emailSuffix == "" {
		emailSuffix = DefaultEmailSuffix
	}
	if !strings.HasPrefix(emailSuffix, "@") {
		emailSuffix = "@" + emailSuffix
	}
	return &AccountService{
		accounts:    accounts,
		sessions:    sessions,
		hasher:      hasher,
		emailSuffix: emailSuffix,
	}
}

// EmailSuffix returns the required address suffix.
func (s *AccountService) EmailSuffix() string {
	return s.emailSuffix
}

// Register creates an account and signs the profile in as that account.
// A failed registration leaves the account table untouched.
func (s *AccountService) Register(ctx context.Context, profile domain.ProfileID, email, credential string) (*domain.Session, error) {
	key, err := s.accountKey(email)
	if err != nil {
		return nil, err
	}
	if utf8.RuneCountInString(credential) < MinCredentialLength {
		return nil, fmt.Errorf("%w: password must be at least %d characters", domain.ErrWeakCredential, MinCredentialLength)
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	accounts, err := s.accounts.Load(ctx)
	if err != nil {
		return nil, fmt.Errorf("load accounts: %w", err)
	}
	if _, exists := accounts[key]; exists {
		return nil, domain.ErrDuplicateAccount
	}

	hash, err := s.hasher.Hash(credential)
	if err != nil {
		return nil, err
	}
	accounts[key] = hash
	if err := s.accounts.Save(ctx, accounts); err != nil {
		return nil, fmt.Errorf("save accounts: %w", err)
	}

	session := &domain.Session{Email: key}
	if err := s.sessions.Save(ctx, profile, session); err != nil {
		return nil, fmt.Errorf("save session: %w", err)
	}

	slog.Info("account registered", "email", key, "profile", profile)
	return session, nil
}

// Login verifies the credential and signs the profile in. A failed login
// leaves the profile's current session as it was.
func (s *AccountService) Login(ctx context.Context, profile domain.ProfileID, email, credential string) (*domain.Session, error) {
	key, err := s.accountKey(email)
	if err != nil {
		return nil, err
	}

	accounts, err := s.accounts.Load(ctx)
	if err != nil {
		return nil, fmt.Errorf("load accounts: %w", err)
	}
	hash, ok := accounts[key]
	if !ok {
		return nil, domain.ErrUnknownAccount
	}
	if !s.hasher.Verify(hash, credential) {
		return nil, domain.ErrBadCredential
	}

	session := &domain.Session{Email: key}
	if err := s.sessions.Save(ctx, profile, session); err != nil {
		return nil, fmt.Errorf("save session: %w", err)
	}
	return session, nil
}

// Logout clears the profile's session. Signing out twice is not an error.
func (s *AccountService) Logout(ctx context.Context, profile domain.ProfileID) error {
	return s.sessions.Clear(ctx, profile)
}

// CurrentUser returns the profile's session, or nil when signed out.
func (s *AccountService) CurrentUser(ctx context.Context, profile domain.ProfileID) (*domain.Session, error) {
	return s.sessions.Load(ctx, profile)
}

func (s *AccountService) accountKey(email string) (string, error) {
	key := domain.NormalizeEmail(email)
	local, ok := strings.CutSuffix(key, s.emailSuffix)
	if !ok || local == "" || strings.ContainsAny(local, "@ \t") {
		return "", fmt.Errorf("%w: use your %s email", domain.ErrDomainMismatch, s.emailSuffix)
	}
	return key, nil
}
