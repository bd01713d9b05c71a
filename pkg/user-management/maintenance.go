package usermanagement

import (
	"context"
	"errors"
	"time"

	"github.com/legal-quotation/quotation-backend/pkg/user-management/types"
	umUtils "github.com/legal-quotation/quotation-backend/pkg/user-management/utils"
)

// EnsureAdmin creates an admin account from req unless an account with the same
// username exists already. The returned flag reports whether an account was created.
func (s *AccountService) EnsureAdmin(ctx context.Context, req RegisterRequest, now time.Time) (*types.Account, bool, error) {
	existing, err := s.store.FindByUsername(ctx, umUtils.SanitizeUsername(req.Username))
	if err == nil {
		return existing, false, nil
	}
	if !errors.Is(err, types.ErrNotFound) {
		return nil, false, asServiceError(err)
	}

	req.IsAdmin = true
	account, err := s.Register(ctx, req, now)
	if err != nil {
		return nil, false, err
	}
	return account, true, nil
}

// SetCredentialByUsername replaces the credential of an account as an operator
// action. Lockout state and any pending temporary credential are cleared.
func (s *AccountService) SetCredentialByUsername(ctx context.Context, username string, secret string, now time.Time) error {
	if err := validateNewCredential(secret, s.blockedPasswords); err != nil {
		return err
	}
	account, err := s.store.FindByUsername(ctx, umUtils.SanitizeUsername(username))
	if err != nil {
		return asServiceError(err)
	}

	hash, err := s.hasher.Hash(secret)
	if err != nil {
		return asServiceError(err)
	}
	if err := s.store.SetCredential(ctx, account.ID.Hex(), hash, true, now); err != nil {
		return asServiceError(err)
	}
	return nil
}
