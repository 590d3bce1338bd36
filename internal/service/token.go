package service

import (
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"github.com/msomdec/campus-market/internal/domain"
)

// ProfileTokenTTL is how long a browser keeps its profile.
const ProfileTokenTTL = 365 * 24 * time.Hour

// ProfileTokens issues and verifies the signed cookie value naming a
// browser's profile. The profile, not the token, holds the session, so
// logging out leaves the token valid.
type ProfileTokens struct {
	secret []byte
	now    func() time.Time
}

// NewProfileTokens creates a new ProfileTokens signer.
func NewProfileTokens(secret string) *ProfileTokens {
	return &ProfileTokens{secret: []byte(secret), now: time.Now}
}

// NewProfile returns a fresh random profile id.
func (p *ProfileTokens) NewProfile() domain.ProfileID {
	return domain.ProfileID(uuid.NewString())
}

// Issue signs a token for profile.
func (p *ProfileTokens) Issue(profile domain.ProfileID) (string, error) {
	now := p.now()
	claims := jwt.RegisteredClaims{
		Subject:   string(profile),
		IssuedAt:  jwt.NewNumericDate(now),
		ExpiresAt: jwt.NewNumericDate(now.Add(ProfileTokenTTL)),
	}
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, err := token.SignedString(p.secret)
	if err != nil {
		return "", fmt.Errorf("sign profile token: %w", err)
	}
	return signed, nil
}

// Parse validates a token and returns its profile. Any failure is
// ErrUnauthorized.
func (p *ProfileTokens) Parse(tokenString string) (domain.ProfileID, error) {
	var claims jwt.RegisteredClaims
	token, err := jwt.ParseWithClaims(tokenString, &claims, func(token *jwt.Token) (any, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", token.Header["alg"])
		}
		return p.secret, nil
	}, jwt.WithTimeFunc(p.now))
	if err != nil || !token.Valid {
		return "", domain.ErrUnauthorized
	}
	if claims.Subject == "" {
		return "", domain.ErrUnauthorized
	}
	return domain.ProfileID(claims.Subject), nil
}
