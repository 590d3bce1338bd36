package domain

import (
	"context"
	"strings"
)

// Accounts maps a lowercased email to its credential hash.
type Accounts map[string]string

// AccountRepository loads and saves the whole account table at once.
type AccountRepository interface {
	Load(ctx context.Context) (Accounts, error)
	Save(ctx context.Context, accounts Accounts) error
}

// CredentialHasher turns plaintext credentials into stored hashes and checks
// them again on login.
type CredentialHasher interface {
	Hash(credential string) (string, error)
	Verify(hash, credential string) bool
}

// NormalizeEmail returns the account key for an email address.
func NormalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}
