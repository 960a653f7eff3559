package application

import (
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

const tokenIssuer = "storefront-console"

// MinSigningKeyBytes is the shortest accepted HS256 key.
const MinSigningKeyBytes = 32

// TokenSigner issues and verifies HS256 session tokens. Subject is the customer ID, ID is the session ID.
type TokenSigner struct {
	key []byte
	now func() time.Time
}

func NewTokenSigner(key []byte) (*TokenSigner, error) {
	if len(key) < MinSigningKeyBytes {
		return nil, fmt.Errorf("session signing key must be at least %d bytes", MinSigningKeyBytes)
	}
	return &TokenSigner{key: append([]byte(nil), key...), now: time.Now}, nil
}

func (t *TokenSigner) Sign(customerID, sessionID string, issuedAt, expiresAt time.Time) (string, error) {
	claims := jwt.RegisteredClaims{
		Issuer:    tokenIssuer,
		Subject:   customerID,
		ID:        sessionID,
		IssuedAt:  jwt.NewNumericDate(issuedAt),
		ExpiresAt: jwt.NewNumericDate(expiresAt),
	}
	return jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(t.key)
}

// Verify checks signature, issuer and expiry and returns the customer and session IDs.
func (t *TokenSigner) Verify(token string) (customerID, sessionID string, err error) {
	claims, err := t.parse(token, jwt.WithExpirationRequired())
	if err != nil {
		return "", "", err
	}
	return claims.Subject, claims.ID, nil
}

// SessionID extracts the session of a correctly signed token even when it has expired.
func (t *TokenSigner) SessionID(token string) (string, error) {
	claims, err := t.parse(token, jwt.WithoutClaimsValidation())
	if err != nil {
		return "", err
	}
	return claims.ID, nil
}

func (t *TokenSigner) parse(token string, opts ...jwt.ParserOption) (*jwt.RegisteredClaims, error) {
	opts = append(opts,
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithIssuer(tokenIssuer),
		jwt.WithTimeFunc(t.now),
	)
	claims := &jwt.RegisteredClaims{}
	parsed, err := jwt.ParseWithClaims(token, claims, func(*jwt.Token) (any, error) {
		return t.key, nil
	}, opts...)
	if err != nil {
		return nil, fmt.Errorf("parse session token: %w", err)
	}
	if !parsed.Valid || claims.Subject == "" || claims.ID == "" {
		return nil, errors.New("session token is missing subject or id")
	}
	return claims, nil
}
