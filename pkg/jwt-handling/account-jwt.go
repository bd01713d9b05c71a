package jwthandling

import (
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
)

const (
	TOKEN_PURPOSE_ACCESS         = "access"
	TOKEN_PURPOSE_PASSWORD_RESET = "password-reset"
)

var ErrWrongTokenPurpose = errors.New("wrong token purpose")

// Information a token enocodes
type AccountClaims struct {
	Purpose string `json:"purpose"`
	// CredentialVersion binds reset tokens to the credential they were issued for
	CredentialVersion int64 `json:"cv,omitempty"`
	jwt.RegisteredClaims
}

func GenerateNewAccountToken(accountID string, issuedAt time.Time, expiresIn time.Duration, secretKey string) (tokenString string, err error) {
	return signToken(AccountClaims{
		Purpose:          TOKEN_PURPOSE_ACCESS,
		RegisteredClaims: registeredClaims(accountID, issuedAt, expiresIn),
	}, secretKey)
}

func GenerateNewPasswordResetToken(accountID string, credentialVersion int64, issuedAt time.Time, expiresIn time.Duration, secretKey string) (tokenString string, err error) {
	return signToken(AccountClaims{
		Purpose:           TOKEN_PURPOSE_PASSWORD_RESET,
		CredentialVersion: credentialVersion,
		RegisteredClaims:  registeredClaims(accountID, issuedAt, expiresIn),
	}, secretKey)
}

// ValidateAccountToken checks signature, expiry (against now) and purpose.
func ValidateAccountToken(tokenString string, purpose string, secretKey string, now time.Time) (claims *AccountClaims, valid bool, err error) {
	parser := jwt.NewParser(
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithExpirationRequired(),
		jwt.WithTimeFunc(func() time.Time { return now }),
	)

	token, err := parser.ParseWithClaims(tokenString, &AccountClaims{}, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", token.Header["alg"])
		}
		return []byte(secretKey), nil
	})
	if err != nil || token == nil {
		return nil, false, err
	}
	claims, valid = token.Claims.(*AccountClaims)
	if !valid || !token.Valid {
		return nil, false, errors.New("invalid token")
	}
	if claims.Purpose != purpose {
		return nil, false, ErrWrongTokenPurpose
	}
	if claims.Subject == "" {
		return nil, false, errors.New("token has no subject")
	}
	return claims, true, nil
}

func registeredClaims(subject string, issuedAt time.Time, expiresIn time.Duration) jwt.RegisteredClaims {
	return jwt.RegisteredClaims{
		ID:        uuid.NewString(),
		Subject:   subject,
		ExpiresAt: jwt.NewNumericDate(issuedAt.Add(expiresIn)),
		IssuedAt:  jwt.NewNumericDate(issuedAt),
	}
}

func signToken(claims AccountClaims, secretKey string) (string, error) {
	if secretKey == "" {
		return "", errors.New("missing token sign key")
	}
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString([]byte(secretKey))
}
