package token

import (
	"testing"

	apperrors "phonebook-api/pkg/errors"
)

func TestService_IssueAndVerify(t *testing.T) {
	svc := NewService("test-secret")

	signed, err := svc.Issue("mluukkai", "account-1")
	if err != nil {
		t.Fatalf("Issue failed: %v", err)
	}
	if signed == "" {
		t.Fatal("Issue returned an empty token")
	}

	claims, err := svc.Verify(signed)
	if err != nil {
		t.Fatalf("Verify failed: %v", err)
	}
	if claims.Username != "mluukkai" {
		t.Errorf("Expected username 'mluukkai', got '%s'", claims.Username)
	}
	if claims.AccountID != "account-1" {
		t.Errorf("Expected account id 'account-1', got '%s'", claims.AccountID)
	}
}

func TestService_Verify_WrongSecret(t *testing.T) {
	signed, err := NewService("secret-a").Issue("mluukkai", "account-1")
	if err != nil {
		t.Fatalf("Issue failed: %v", err)
	}

	_, err = NewService("secret-b").Verify(signed)
	if err == nil {
		t.Fatal("Expected verification to fail with a different secret")
	}
	if !apperrors.IsInvalidToken(err) {
		t.Errorf("Expected InvalidTokenError, got %T", err)
	}
}

func TestService_Verify_Malformed(t *testing.T) {
	svc := NewService("test-secret")

	for _, tokenString := range []string{"", "garbage", "a.b.c"} {
		_, err := svc.Verify(tokenString)
		if err == nil {
			t.Errorf("Expected error for token %q", tokenString)
			continue
		}
		if !apperrors.IsInvalidToken(err) {
			t.Errorf("Expected InvalidTokenError for token %q, got %T", tokenString, err)
		}
	}
}

func TestService_Verify_MissingClaims(t *testing.T) {
	svc := NewService("test-secret")

	signed, err := svc.Issue("", "")
	if err != nil {
		t.Fatalf("Issue failed: %v", err)
	}

	_, err = svc.Verify(signed)
	if err == nil {
		t.Fatal("Expected error for token with empty identity claims")
	}
	if !apperrors.IsInvalidToken(err) {
		t.Errorf("Expected InvalidTokenError, got %T", err)
	}
}
