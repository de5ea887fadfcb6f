package session

import (
	"testing"
	"time"
)

func TestSignParseRoundtrip(t *testing.T) {
	signed, err := Sign(42, true, "secret", time.Hour)
	if err != nil {
		t.Fatalf("sign: %v", err)
	}
	claims, err := Parse(signed, "secret")
	if err != nil {
		t.Fatalf("parse: %v", err)
	}
	if claims.AccountID != 42 {
		t.Errorf("account id = %d, want 42", claims.AccountID)
	}
	if !claims.IsSuperuser {
		t.Errorf("superuser flag lost in roundtrip")
	}
	if claims.Issuer != "accountd" {
		t.Errorf("issuer = %q", claims.Issuer)
	}
}

func TestParseRejectsWrongSecret(t *testing.T) {
	signed, err := Sign(7, false, "secret", time.Hour)
	if err != nil {
		t.Fatalf("sign: %v", err)
	}
	if _, err := Parse(signed, "other-secret"); err == nil {
		t.Fatal("expected verification failure with wrong secret")
	}
}

func TestParseRejectsExpiredToken(t *testing.T) {
	signed, err := Sign(7, false, "secret", -time.Minute)
	if err != nil {
		t.Fatalf("sign: %v", err)
	}
	if _, err := Parse(signed, "secret"); err == nil {
		t.Fatal("expected expired token to be rejected")
	}
}

func TestParseRejectsGarbage(t *testing.T) {
	if _, err := Parse("not-a-token", "secret"); err == nil {
		t.Fatal("expected parse failure")
	}
}
