package utils

import (
	"crypto/rand"
	"math/big"
)

const (
	TEMP_CREDENTIAL_MIN_LEN = 12

	uppercaseCharSet = "ABCDEFGHIJKLMNOPQRSTUVWXYZ"
	lowercaseCharSet = "abcdefghijklmnopqrstuvwxyz"
	digitCharSet     = "0123456789"
	specialCharSet   = "!@#$%&*"
)

// GenerateTemporaryCredential returns a random secret of at least
// TEMP_CREDENTIAL_MIN_LEN characters. One character of every class is placed
// before the rest is filled up and the result is shuffled, so the secret always
// passes ValidatePasswordStrength.
func GenerateTemporaryCredential(length int) (string, error) {
	if length < TEMP_CREDENTIAL_MIN_LEN {
		length = TEMP_CREDENTIAL_MIN_LEN
	}

	classes := []string{uppercaseCharSet, lowercaseCharSet, digitCharSet, specialCharSet}
	allChars := uppercaseCharSet + lowercaseCharSet + digitCharSet + specialCharSet

	buffer := make([]byte, 0, length)
	for _, charSet := range classes {
		c, err := randomChar(charSet)
		if err != nil {
			return "", err
		}
		buffer = append(buffer, c)
	}
	for len(buffer) < length {
		c, err := randomChar(allChars)
		if err != nil {
			return "", err
		}
		buffer = append(buffer, c)
	}

	for i := len(buffer) - 1; i > 0; i-- {
		j, err := randomInt(i + 1)
		if err != nil {
			return "", err
		}
		buffer[i], buffer[j] = buffer[j], buffer[i]
	}
	return string(buffer), nil
}

func randomChar(charSet string) (byte, error) {
	i, err := randomInt(len(charSet))
	if err != nil {
		return 0, err
	}
	return charSet[i], nil
}

func randomInt(max int) (int, error) {
	n, err := rand.Int(rand.Reader, big.NewInt(int64(max)))
	if err != nil {
		return 0, err
	}
	return int(n.Int64()), nil
}
