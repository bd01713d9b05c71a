package utils

import (
	"bufio"
	"errors"
	"fmt"
	"log/slog"
	"net/mail"
	"os"
	"regexp"
	"strings"
	"unicode/utf8"

	"github.com/legal-quotation/quotation-backend/pkg/user-management/types"
)

const (
	PASSWORD_MIN_LEN = 8
	PASSWORD_MAX_LEN = 512

	// PASSWORD_SPECIAL_CHARS is the set a password must draw at least one character from.
	PASSWORD_SPECIAL_CHARS = `!@#$%^&*(),.?":{}|<>`
)

var (
	lowercaseRule = regexp.MustCompile("[a-z]")
	uppercaseRule = regexp.MustCompile("[A-Z]")
	numberRule    = regexp.MustCompile(`\d`)
	emailRule     = regexp.MustCompile(`^[a-zA-Z0-9._%+'-]+@[a-zA-Z0-9.-]+\.[a-zA-Z]{2,}$`)
)

// PasswordBlocklist holds passwords that are rejected even if they pass the format rules.
type PasswordBlocklist map[string]struct{}

func LoadBlockedPasswords(filename string) (PasswordBlocklist, error) {
	file, err := os.Open(filename)
	if err != nil {
		return nil, err
	}
	defer file.Close()

	blockedPasswords := make(PasswordBlocklist)
	scanner := bufio.NewScanner(file)
	lines := 0
	usedEntries := 0
	for scanner.Scan() {
		lines += 1
		passwordEntry := strings.TrimSpace(scanner.Text())
		if CheckPasswordFormat(passwordEntry) {
			usedEntries += 1
			blockedPasswords[passwordEntry] = struct{}{}
		}
	}

	if err := scanner.Err(); err != nil {
		return nil, err
	}
	slog.Info("loaded blocked password list", slog.Int("lines", lines), slog.Int("used", usedEntries))
	return blockedPasswords, nil
}

func (bl PasswordBlocklist) Contains(password string) bool {
	_, exists := bl[password]
	return exists
}

func SanitizeEmail(email string) string {
	email = strings.ToLower(email)
	email = strings.Trim(email, " \n\r")
	return email
}

func SanitizeUsername(username string) string {
	return strings.Trim(username, " \n\r\t")
}

// CheckEmailFormat to check if input string is a correct email address
func CheckEmailFormat(email string) bool {
	if len(email) > 254 {
		return false
	}
	_, err := mail.ParseAddress(email)
	if err != nil {
		return false
	}
	// additional regex check for correct email format
	return emailRule.MatchString(email)
}

func CheckUsernameFormat(username string) bool {
	l := utf8.RuneCountInString(username)
	if l < types.USERNAME_MIN_LEN || l > types.USERNAME_MAX_LEN {
		return false
	}
	return !strings.ContainsAny(username, " \t\n\r")
}

// BlurEmailAddress transforms an email address to reduce exposed personal info
func BlurEmailAddress(email string) string {
	items := strings.Split(email, "@")
	if len(items) < 1 || len(items[0]) < 1 {
		return "****@**"
	}

	blurredEmail := string([]rune(items[0])[0]) + "****@" + strings.Join(items[1:], "")
	return blurredEmail
}

// ValidatePasswordStrength returns an error naming the first rule the password breaks.
func ValidatePasswordStrength(password string) error {
	pl := utf8.RuneCountInString(password)
	if pl < PASSWORD_MIN_LEN {
		return fmt.Errorf("password must be at least %d characters long", PASSWORD_MIN_LEN)
	}
	if pl > PASSWORD_MAX_LEN {
		return fmt.Errorf("password must be at most %d characters long", PASSWORD_MAX_LEN)
	}
	if !uppercaseRule.MatchString(password) {
		return errors.New("password must contain at least one uppercase letter")
	}
	if !lowercaseRule.MatchString(password) {
		return errors.New("password must contain at least one lowercase letter")
	}
	if !numberRule.MatchString(password) {
		return errors.New("password must contain at least one digit")
	}
	if !strings.ContainsAny(password, PASSWORD_SPECIAL_CHARS) {
		return fmt.Errorf("password must contain at least one of %s", PASSWORD_SPECIAL_CHARS)
	}
	return nil
}

// CheckPasswordFormat to check if password fulfills password rules
func CheckPasswordFormat(password string) bool {
	return ValidatePasswordStrength(password) == nil
}
