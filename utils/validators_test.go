package utils

import "testing"

func TestValidatePassword(t *testing.T) {
	tests := []struct {
		password string
		want     bool
	}{
		{"bacalhau99!", true},
		{"páscoa#2024", true},
		{"short1!", false},     // under 8 characters
		{"nonumbers!!", false}, // missing a digit
		{"12345678", false},    // missing a special character
		{"", false},
	}

	for _, tt := range tests {
		if got := ValidatePassword(tt.password); got != tt.want {
			t.Errorf("ValidatePassword(%q) = %v, want %v", tt.password, got, tt.want)
		}
	}
}
