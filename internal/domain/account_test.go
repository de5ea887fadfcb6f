package domain

import "testing"

func TestNormalizeEmail(t *testing.T) {
	cases := []struct {
		in   string
		want string
	}{
		{"alice@EXAMPLE.COM", "alice@example.com"},
		{"Alice@Example.Com", "Alice@example.com"},
		{"  bob@EXAMPLE.org  ", "bob@example.org"},
		{"already@example.com", "already@example.com"},
		{"no-at-sign", "no-at-sign"},
		{"", ""},
	}
	for _, tc := range cases {
		if got := NormalizeEmail(tc.in); got != tc.want {
			t.Errorf("NormalizeEmail(%q) = %q, want %q", tc.in, got, tc.want)
		}
	}
}

func TestNormalizeEmailIdempotent(t *testing.T) {
	once := NormalizeEmail("Carol@MIXED.Example.COM")
	twice := NormalizeEmail(once)
	if once != twice {
		t.Fatalf("normalization not idempotent: %q vs %q", once, twice)
	}
}

func TestNormalizeEmailPreservesLocalPart(t *testing.T) {
	if got := NormalizeEmail("MixedCase@EXAMPLE.COM"); got != "MixedCase@example.com" {
		t.Fatalf("local portion must be preserved, got %q", got)
	}
}
