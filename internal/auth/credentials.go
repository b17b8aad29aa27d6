package auth

import (
	"context"
	"crypto/subtle"

	"phonebook-api/internal/store"
	apperrors "phonebook-api/pkg/errors"
)

// StaticSecretVerifier accepts one process-wide login secret for every
// account. This mirrors the deployed behavior but is a known correctness
// gap; it exists behind the CredentialVerifier seam so a per-account
// password hash can replace it without touching the resolvers.
type StaticSecretVerifier struct {
	secret string
}

// NewStaticSecretVerifier creates a verifier for the given shared secret
func NewStaticSecretVerifier(secret string) *StaticSecretVerifier {
	return &StaticSecretVerifier{secret: secret}
}

// VerifyCredentials checks the supplied password against the shared secret
func (v *StaticSecretVerifier) VerifyCredentials(_ context.Context, _ *store.Account, password string) error {
	if subtle.ConstantTimeCompare([]byte(password), []byte(v.secret)) != 1 {
		return apperrors.NewInvalidCredentialsError()
	}
	return nil
}
