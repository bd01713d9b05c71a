package usermanagement

import (
	"context"
	"errors"
	"log/slog"
	"time"

	"github.com/legal-quotation/quotation-backend/pkg/user-management/policies"
	"github.com/legal-quotation/quotation-backend/pkg/user-management/types"
)

// Authenticator checks username/secret pairs and keeps the lockout state.
type Authenticator struct {
	store   AccountStore
	hasher  CredentialHasher
	lockout policies.LockoutPolicy

	// dummyHash is verified when there is no usable account, so every rejected
	// login costs one hash verification.
	dummyHash string
}

func NewAuthenticator(store AccountStore, hasher CredentialHasher, lockout policies.LockoutPolicy) *Authenticator {
	dummyHash, err := hasher.Hash("dummy-credential-for-unknown-accounts")
	if err != nil {
		slog.Error("could not create dummy credential hash", slog.String("error", err.Error()))
	}
	return &Authenticator{
		store:     store,
		hasher:    hasher,
		lockout:   lockout.WithDefaults(),
		dummyHash: dummyHash,
	}
}

// Authenticate returns the updated account on success. Unknown users, inactive
// users and wrong secrets all result in types.ErrInvalidCredentials. Attempts on
// a locked account fail with types.ErrAccountLocked and are not counted.
func (a *Authenticator) Authenticate(ctx context.Context, username string, secret string, now time.Time) (*types.Account, error) {
	account, err := a.store.FindByUsername(ctx, username)
	if err != nil {
		if errors.Is(err, types.ErrNotFound) {
			a.verifyDummy(secret)
			return nil, types.ErrInvalidCredentials
		}
		return nil, asServiceError(err)
	}

	if a.lockout.IsLocked(account.LockedUntil, now) {
		slog.Warn("login attempt on locked account", slog.String("accountID", account.ID.Hex()))
		a.verifyDummy(secret)
		return nil, types.ErrAccountLocked
	}

	if !account.IsActive {
		slog.Warn("login attempt on inactive account", slog.String("accountID", account.ID.Hex()))
		a.verifyDummy(secret)
		return nil, types.ErrInvalidCredentials
	}

	if !a.verify(account, secret) {
		updated, err := a.store.RecordFailedAttempt(ctx, account.ID.Hex(), a.lockout, now)
		if err != nil {
			if errors.Is(err, types.ErrAccountLocked) || errors.Is(err, types.ErrNotFound) {
				return nil, types.ErrInvalidCredentials
			}
			return nil, asServiceError(err)
		}
		if a.lockout.IsLocked(updated.LockedUntil, now) {
			slog.Warn("account locked after failed login attempts", slog.String("accountID", account.ID.Hex()), slog.Int("failedAttempts", updated.FailedAttempts))
		}
		return nil, types.ErrInvalidCredentials
	}

	updated, err := a.store.RecordSuccess(ctx, account.ID.Hex(), now)
	if err != nil {
		return nil, asServiceError(err)
	}
	return updated, nil
}

// VerifyCredential checks the current secret of an account without touching the
// lockout state.
func (a *Authenticator) VerifyCredential(ctx context.Context, accountID string, secret string) (*types.Account, error) {
	account, err := a.store.FindByID(ctx, accountID)
	if err != nil {
		return nil, asServiceError(err)
	}
	if !a.verify(account, secret) {
		return nil, types.NewError(types.KindInvalidCredentials, "current password is wrong", nil)
	}
	return account, nil
}

func (a *Authenticator) verify(account *types.Account, secret string) bool {
	ok, err := a.hasher.Verify(secret, account.CredentialHash)
	if err != nil {
		slog.Error("stored credential hash could not be checked", slog.String("accountID", account.ID.Hex()), slog.String("error", err.Error()))
		return false
	}
	return ok
}

func (a *Authenticator) verifyDummy(secret string) {
	if a.dummyHash == "" {
		return
	}
	_, _ = a.hasher.Verify(secret, a.dummyHash)
}
