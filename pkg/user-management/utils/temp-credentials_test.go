package utils

import (
	"strings"
	"testing"
)

func TestGenerateTemporaryCredential(t *testing.T) {
	t.Run("enforces minimum length", func(t *testing.T) {
		secret, err := GenerateTemporaryCredential(4)
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if len(secret) != TEMP_CREDENTIAL_MIN_LEN {
			t.Errorf("unexpected length: %d", len(secret))
		}
	})

	t.Run("always contains every character class", func(t *testing.T) {
		for i := 0; i < 200; i++ {
			secret, err := GenerateTemporaryCredential(12)
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if !strings.ContainsAny(secret, uppercaseCharSet) ||
				!strings.ContainsAny(secret, lowercaseCharSet) ||
				!strings.ContainsAny(secret, digitCharSet) ||
				!strings.ContainsAny(secret, specialCharSet) {
				t.Fatalf("missing character class in %s", secret)
			}
			if err := ValidatePasswordStrength(secret); err != nil {
				t.Fatalf("generated secret %s is too weak: %v", secret, err)
			}
		}
	})

	t.Run("longer secrets", func(t *testing.T) {
		secret, _ := GenerateTemporaryCredential(20)
		if len(secret) != 20 {
			t.Errorf("unexpected length: %d", len(secret))
		}
	})
}
