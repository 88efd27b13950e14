package services

import (
	"strings"
	"testing"
)

func TestHashPasswordRoundTrip(t *testing.T) {
	passwords := []string{
		"correct horse battery staple",
		"hunter2!",
		"páscoa2024#",
		"",
	}

	for _, password := range passwords {
		hash, err := HashPassword(password)
		if err != nil {
			t.Fatalf("HashPassword(%q) failed: %v", password, err)
		}

		if !VerifyPassword(hash, password) {
			t.Errorf("VerifyPassword rejected the password it was hashed from (%q)", password)
		}

		if VerifyPassword(hash, password+"x") {
			t.Errorf("VerifyPassword accepted a different password for %q", password)
		}
	}
}

func TestHashPasswordSaltsAreRandom(t *testing.T) {
	first, err := HashPassword("same password")
	if err != nil {
		t.Fatal(err)
	}
	second, err := HashPassword("same password")
	if err != nil {
		t.Fatal(err)
	}

	if first == second {
		t.Error("two hashes of the same password should differ (random salt)")
	}
}

func TestHashPasswordFormat(t *testing.T) {
	hash, err := HashPassword("anything9!")
	if err != nil {
		t.Fatal(err)
	}
	if parts := strings.Split(hash, "$"); len(parts) != 2 {
		t.Errorf("expected salt$hash format, got %q", hash)
	}
}

func TestVerifyPasswordMalformedHash(t *testing.T) {
	tests := []struct {
		name   string
		stored string
	}{
		{"empty", ""},
		{"no separator", "justonechunk"},
		{"too many parts", "a$b$c"},
		{"bad base64 salt", "***$aGVsbG8"},
		{"bad base64 hash", "aGVsbG8$***"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if VerifyPassword(tt.stored, "whatever") {
				t.Errorf("malformed hash %q verified", tt.stored)
			}
		})
	}
}
