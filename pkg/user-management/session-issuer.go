package usermanagement

import (
	"context"
	"errors"
	"log/slog"
	"time"

	jwthandling "github.com/legal-quotation/quotation-backend/pkg/jwt-handling"
	"github.com/legal-quotation/quotation-backend/pkg/user-management/types"
)

// SessionIssuer mints and checks stateless bearer tokens.
type SessionIssuer struct {
	store   AccountStore
	signKey string
	ttl     time.Duration
}

func NewSessionIssuer(store AccountStore, signKey string, ttl time.Duration) *SessionIssuer {
	if ttl <= 0 {
		ttl = DEFAULT_ACCESS_TOKEN_TTL
	}
	return &SessionIssuer{
		store:   store,
		signKey: signKey,
		ttl:     ttl,
	}
}

func (s *SessionIssuer) TTL() time.Duration {
	return s.ttl
}

func (s *SessionIssuer) Issue(accountID string, now time.Time) (token string, expiresAt time.Time, err error) {
	token, err = jwthandling.GenerateNewAccountToken(accountID, now, s.ttl, s.signKey)
	if err != nil {
		return "", time.Time{}, asServiceError(err)
	}
	return token, now.Add(s.ttl), nil
}

// Verify returns the account id of a valid access token.
func (s *SessionIssuer) Verify(token string, now time.Time) (string, error) {
	claims, ok, err := jwthandling.ValidateAccountToken(token, jwthandling.TOKEN_PURPOSE_ACCESS, s.signKey, now)
	if err != nil || !ok {
		if err != nil {
			slog.Debug("token validation failed", slog.String("error", err.Error()))
		}
		return "", types.ErrUnauthorized
	}
	return claims.Subject, nil
}

// ResolveAccount verifies the token and loads the current state of its account.
// Deleted or deactivated accounts are rejected even if the token is still valid.
func (s *SessionIssuer) ResolveAccount(ctx context.Context, token string, now time.Time) (*types.Account, error) {
	accountID, err := s.Verify(token, now)
	if err != nil {
		return nil, err
	}

	account, err := s.store.FindByID(ctx, accountID)
	if err != nil {
		if errors.Is(err, types.ErrNotFound) {
			return nil, types.ErrUnauthorized
		}
		return nil, asServiceError(err)
	}
	if !account.IsActive {
		return nil, types.ErrUnauthorized
	}
	return account, nil
}
