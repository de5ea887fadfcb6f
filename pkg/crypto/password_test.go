package crypto

import "testing"

func TestHashAndComparePassword(t *testing.T) {
	hash, err := HashPassword("testpass123")
	if err != nil {
		t.Fatalf("hash: %v", err)
	}
	if string(hash) == "testpass123" {
		t.Fatal("hash must not equal plaintext")
	}
	if err := ComparePassword(hash, "testpass123"); err != nil {
		t.Errorf("expected match, got %v", err)
	}
	if err := ComparePassword(hash, "wrongpass"); err == nil {
		t.Error("expected mismatch for wrong password")
	}
}

func TestNewTokenKey(t *testing.T) {
	first, err := NewTokenKey()
	if err != nil {
		t.Fatalf("generate: %v", err)
	}
	if len(first) != 40 {
		t.Fatalf("key length = %d, want 40", len(first))
	}
	second, err := NewTokenKey()
	if err != nil {
		t.Fatalf("generate: %v", err)
	}
	if first == second {
		t.Fatal("keys must not repeat")
	}
}
