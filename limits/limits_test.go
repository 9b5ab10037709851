package limits

import (
	"errors"
	"strings"
	"testing"
)

func TestValidateIdentity(t *testing.T) {
	testCases := []struct {
		name    string
		id      string
		wantErr error
	}{
		{"Empty", "", ErrEmpty},
		{"Normal", "alice", nil},
		{"Unicode", "ありす", nil},
		{"At limit", strings.Repeat("a", MaxIdentity), nil},
		{"Over limit", strings.Repeat("a", MaxIdentity+1), ErrTooLarge},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			err := ValidateIdentity(tc.id)
			if tc.wantErr == nil {
				if err != nil {
					t.Errorf("Unexpected error: %v", err)
				}
				return
			}
			if !errors.Is(err, tc.wantErr) {
				t.Errorf("ValidateIdentity() = %v, want %v", err, tc.wantErr)
			}
		})
	}
}

func TestValidateToken(t *testing.T) {
	if err := ValidateToken(""); !errors.Is(err, ErrEmpty) {
		t.Errorf("Expected ErrEmpty for empty token, got %v", err)
	}
	if err := ValidateToken(strings.Repeat("t", MaxToken)); err != nil {
		t.Errorf("Unexpected error at limit: %v", err)
	}
	if err := ValidateToken(strings.Repeat("t", MaxToken+1)); !errors.Is(err, ErrTooLarge) {
		t.Errorf("Expected ErrTooLarge over limit, got %v", err)
	}
}

func TestValidateCiphertext(t *testing.T) {
	if err := ValidateCiphertext(""); !errors.Is(err, ErrEmpty) {
		t.Errorf("Expected ErrEmpty for empty body, got %v", err)
	}
	if err := ValidateCiphertext(strings.Repeat("c", MaxCiphertext)); err != nil {
		t.Errorf("Unexpected error at limit: %v", err)
	}
	if err := ValidateCiphertext(strings.Repeat("c", MaxCiphertext+1)); !errors.Is(err, ErrTooLarge) {
		t.Errorf("Expected ErrTooLarge over limit, got %v", err)
	}
}

func TestValidateKeyMaterial(t *testing.T) {
	// Keys are optional; empty must pass.
	if err := ValidateKeyMaterial(""); err != nil {
		t.Errorf("Empty key material should validate, got %v", err)
	}
	if err := ValidateKeyMaterial(strings.Repeat("k", MaxKeyMaterial+1)); !errors.Is(err, ErrTooLarge) {
		t.Errorf("Expected ErrTooLarge over limit, got %v", err)
	}
}
