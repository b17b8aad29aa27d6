package token

import (
	"errors"

	"github.com/golang-jwt/jwt/v5"

	apperrors "phonebook-api/pkg/errors"
)

// Claims is the identity claim carried by a bearer token. Tokens are
// stateless and carry no expiry; a login simply mints a fresh one.
type Claims struct {
	jwt.RegisteredClaims
	Username  string `json:"username"`
	AccountID string `json:"account_id"`
}

// Service signs and verifies bearer tokens with a process-wide secret
type Service struct {
	secret []byte
}

// NewService creates a token service signing with the given secret
func NewService(secret string) *Service {
	return &Service{secret: []byte(secret)}
}

// Issue signs a token for the given account identity
func (s *Service) Issue(username, accountID string) (string, error) {
	claims := Claims{
		Username:  username,
		AccountID: accountID,
	}
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, err := token.SignedString(s.secret)
	if err != nil {
		return "", apperrors.NewInvalidTokenError("failed to sign token", err)
	}
	return signed, nil
}

// Verify parses the token string and validates its signature, returning
// the identity claim it carries
func (s *Service) Verify(tokenString string) (*Claims, error) {
	var claims Claims
	_, err := jwt.ParseWithClaims(tokenString, &claims, func(token *jwt.Token) (any, error) {
		return s.secret, nil
	},
		jwt.WithValidMethods([]string{"HS256"}),
	)
	if err != nil {
		return nil, mapJWTError(err)
	}

	if claims.Username == "" || claims.AccountID == "" {
		return nil, apperrors.NewInvalidTokenError("token is missing identity claims", nil)
	}

	return &claims, nil
}

// mapJWTError translates jwt library errors to application errors
func mapJWTError(err error) error {
	if errors.Is(err, jwt.ErrTokenSignatureInvalid) {
		return apperrors.NewInvalidTokenError("token signature is invalid", err)
	}
	if errors.Is(err, jwt.ErrTokenUnverifiable) {
		return apperrors.NewInvalidTokenError("token alg is invalid", err)
	}
	if errors.Is(err, jwt.ErrTokenMalformed) {
		return apperrors.NewInvalidTokenError("token is malformed", err)
	}
	return apperrors.NewInvalidTokenError("token is invalid", err)
}
