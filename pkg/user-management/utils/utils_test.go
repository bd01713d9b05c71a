package utils

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func TestSanitizeEmail(t *testing.T) {
	t.Run("with different formats", func(t *testing.T) {
		email := SanitizeEmail("\n23234@test.DE")
		if email != "23234@test.de" {
			t.Errorf("unexpected email: %s", email)
		}

		email = SanitizeEmail("  \n 23234@test.DE \n\r")
		if email != "23234@test.de" {
			t.Errorf("unexpected email: %s", email)
		}

		email = SanitizeEmail("23234@test.de")
		if email != "23234@test.de" {
			t.Errorf("unexpected email: %s", email)
		}
	})
}

func TestBlurEmailAddress(t *testing.T) {
	t.Run("with different formats", func(t *testing.T) {
		email := BlurEmailAddress("a@test.de")
		if email != "a****@test.de" {
			t.Errorf("unexpected email: %s", email)
		}

		email = BlurEmailAddress("a1234@test.de")
		if email != "a****@test.de" {
			t.Errorf("unexpected email: %s", email)
		}

		email = BlurEmailAddress("a123sdfsdfsdfa34@test.de")
		if email != "a****@test.de" {
			t.Errorf("unexpected email: %s", email)
		}
	})
}

func TestCheckPasswordFormat(t *testing.T) {
	t.Run("with a too short password", func(t *testing.T) {
		if CheckPasswordFormat("1n3T6@") {
			t.Error("should be false")
		}
	})
	t.Run("with a too weak password", func(t *testing.T) {
		if CheckPasswordFormat("13342678") {
			t.Error("should be false")
		}
		if CheckPasswordFormat("11111aaaa") {
			t.Error("should be false")
		}
		if CheckPasswordFormat("abcdefg1!") {
			t.Error("should be false")
		}
		if CheckPasswordFormat("ABCDEFG1!") {
			t.Error("should be false")
		}
		if CheckPasswordFormat("Abcdefgh!") {
			t.Error("should be false")
		}
		if CheckPasswordFormat("Abcdefg12") {
			t.Error("should be false")
		}
	})
	t.Run("with a special character outside the allowed set", func(t *testing.T) {
		if CheckPasswordFormat("Abcdef12_") {
			t.Error("should be false")
		}
	})
	t.Run("with good passwords", func(t *testing.T) {
		if !CheckPasswordFormat("Abc123!@") {
			t.Error("should be true")
		}
		if !CheckPasswordFormat("nnnnnnT@@1") {
			t.Error("should be true")
		}
		if !CheckPasswordFormat("TTTTTTTt77.") {
			t.Error("should be true")
		}
		if !CheckPasswordFormat("Tt1,.Lo%4") {
			t.Error("should be true")
		}
	})
}

func TestValidatePasswordStrengthMessage(t *testing.T) {
	err := ValidatePasswordStrength("abc123!@")
	if err == nil || err.Error() != "password must contain at least one uppercase letter" {
		t.Errorf("unexpected error: %v", err)
	}
}

func TestValidatePasswordStrengthCountsCharacters(t *testing.T) {
	t.Run("six characters in eight bytes", func(t *testing.T) {
		err := ValidatePasswordStrength("Ab1!éé")
		if err == nil || err.Error() != "password must be at least 8 characters long" {
			t.Errorf("unexpected error: %v", err)
		}
	})
	t.Run("eight characters with multi-byte letters", func(t *testing.T) {
		if err := ValidatePasswordStrength("Ab1!ééüü"); err != nil {
			t.Errorf("unexpected error: %v", err)
		}
	})
	t.Run("max length counts characters", func(t *testing.T) {
		password := "Ab1!" + strings.Repeat("é", PASSWORD_MAX_LEN-4)
		if err := ValidatePasswordStrength(password); err != nil {
			t.Errorf("unexpected error: %v", err)
		}
		if err := ValidatePasswordStrength(password + "é"); err == nil {
			t.Error("should reject passwords above the max length")
		}
	})
}

func TestCheckUsernameFormat(t *testing.T) {
	t.Run("with too short username", func(t *testing.T) {
		if CheckUsernameFormat("ab") {
			t.Error("should be false")
		}
	})
	t.Run("with too long username", func(t *testing.T) {
		if CheckUsernameFormat(strings.Repeat("a", 51)) {
			t.Error("should be false")
		}
	})
	t.Run("with whitespace", func(t *testing.T) {
		if CheckUsernameFormat("al ice") {
			t.Error("should be false")
		}
	})
	t.Run("with correct username", func(t *testing.T) {
		if !CheckUsernameFormat("alice") {
			t.Error("should be true")
		}
	})
}

func TestPasswordBlocklist(t *testing.T) {
	fname := filepath.Join(t.TempDir(), "blocked.txt")
	if err := os.WriteFile(fname, []byte("Password1!\n  Welcome1!  \nweak\n"), 0o600); err != nil {
		t.Fatal(err)
	}

	bl, err := LoadBlockedPasswords(fname)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(bl) != 2 {
		t.Errorf("unexpected number of entries: %d", len(bl))
	}
	if !bl.Contains("Welcome1!") {
		t.Error("should be true")
	}
	if bl.Contains("weak") {
		t.Error("should be false")
	}
}

func TestCheckEmailFormat(t *testing.T) {
	t.Run("with missing @", func(t *testing.T) {
		if CheckEmailFormat("t.t.com") {
			t.Error("should be false")
		}
	})

	t.Run("with wrong domain format", func(t *testing.T) {
		if CheckEmailFormat("t@t.") {
			t.Error("should be false")
		}
	})

	t.Run("with missing top level domain", func(t *testing.T) {
		if CheckEmailFormat("t@com") {
			t.Error("should be false")
		}
	})

	t.Run("with wrong local format", func(t *testing.T) {
		if CheckEmailFormat("@t.com") {
			t.Error("should be false")
		}
	})

	t.Run("with too many @", func(t *testing.T) {
		if CheckEmailFormat("t@@t.com") {
			t.Error("should be false")
		}
	})

	t.Run("with ..", func(t *testing.T) {
		if CheckEmailFormat("t..t@t.com") {
			t.Error("should be false")
		}
	})

	t.Run("with correct format", func(t *testing.T) {
		if !CheckEmailFormat("t@t.com") {
			t.Error("should be true")
		}
	})

	t.Run("with correct format", func(t *testing.T) {
		if !CheckEmailFormat("t+1@t.com") {
			t.Error("should be true")
		}
	})
}
