package jwt

import (
	"testing"
	"time"
)

func TestExchangeAPIKeyAndValidate(t *testing.T) {
	m := NewManager("test-secret", "test-api-key", time.Hour)

	token, err := m.ExchangeAPIKey("test-api-key", "studio-app")
	if err != nil {
		t.Fatalf("exchange failed: %v", err)
	}

	claims, err := m.ValidateToken(token)
	if err != nil {
		t.Fatalf("validate failed: %v", err)
	}
	if claims.Client != "studio-app" {
		t.Errorf("expected client studio-app, got %q", claims.Client)
	}
}

func TestExchangeAPIKeyRejectsWrongKey(t *testing.T) {
	m := NewManager("test-secret", "test-api-key", time.Hour)

	if _, err := m.ExchangeAPIKey("wrong-key", "studio-app"); err == nil {
		t.Fatal("expected error for wrong api key")
	}
}

func TestValidateTokenRejectsForeignSecret(t *testing.T) {
	issuer := NewManager("secret-a", "key", time.Hour)
	verifier := NewManager("secret-b", "key", time.Hour)

	token, err := issuer.GenerateToken("client")
	if err != nil {
		t.Fatalf("generate failed: %v", err)
	}
	if _, err := verifier.ValidateToken(token); err == nil {
		t.Fatal("expected validation failure across secrets")
	}
}

func TestValidateTokenRejectsExpired(t *testing.T) {
	m := NewManager("test-secret", "key", -time.Minute)

	token, err := m.GenerateToken("client")
	if err != nil {
		t.Fatalf("generate failed: %v", err)
	}
	if _, err := m.ValidateToken(token); err == nil {
		t.Fatal("expected expired token to fail validation")
	}
}
