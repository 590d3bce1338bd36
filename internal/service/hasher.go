package service

import (
	"fmt"

	"github.com/msomdec/campus-market/internal/domain"
	"golang.org/x/crypto/bcrypt"
)

// maxCredentialBytes is bcrypt's input limit.
const maxCredentialBytes = 72

// BcryptHasher implements domain.CredentialHasher with bcrypt.
type BcryptHasher struct {
	Cost int
}

var _ domain.CredentialHasher = BcryptHasher{}

func (h BcryptHasher) Hash(credential string) (string, error) {
	if len(credential) > maxCredentialBytes {
		return "", fmt.Errorf("%w: password must be at most %d bytes", domain.ErrInvalidInput, maxCredentialBytes)
	}
	hash, err := bcrypt.GenerateFromPassword([]byte(credential), h.Cost)
	if err != nil {
		return "", fmt.Errorf("hash password: %w", err)
	}
	return string(hash), nil
}

func (h BcryptHasher) Verify(hash, credential string) bool {
	return bcrypt.CompareHashAndPassword([]byte(hash), []byte(credential)) == nil
}
