package usermanagement

import (
	"context"
	"time"

	"github.com/legal-quotation/quotation-backend/pkg/user-management/types"
	umUtils "github.com/legal-quotation/quotation-backend/pkg/user-management/utils"
)

const (
	DEFAULT_PAGE_SIZE = 10
	MAX_PAGE_SIZE     = 100
)

type RegisterRequest struct {
	Username string
	Email    string
	Secret   string
	IsAdmin  bool
}

// AccountService implements the administrative account operations.
type AccountService struct {
	store            AccountStore
	hasher           CredentialHasher
	blockedPasswords umUtils.PasswordBlocklist
}

func NewAccountService(store AccountStore, hasher CredentialHasher, blockedPasswords umUtils.PasswordBlocklist) *AccountService {
	return &AccountService{
		store:            store,
		hasher:           hasher,
		blockedPasswords: blockedPasswords,
	}
}

func (s *AccountService) Register(ctx context.Context, req RegisterRequest, now time.Time) (*types.Account, error) {
	username := umUtils.SanitizeUsername(req.Username)
	if !umUtils.CheckUsernameFormat(username) {
		return nil, types.NewError(types.KindValidation, "username must have 3 to 50 characters and no whitespace", nil)
	}
	email := umUtils.SanitizeEmail(req.Email)
	if !umUtils.CheckEmailFormat(email) {
		return nil, types.NewError(types.KindValidation, "invalid email format", nil)
	}
	if err := validateNewCredential(req.Secret, s.blockedPasswords); err != nil {
		return nil, err
	}

	hash, err := s.hasher.Hash(req.Secret)
	if err != nil {
		return nil, asServiceError(err)
	}

	account, err := s.store.Create(ctx, types.NewAccount{
		Username:       username,
		Email:          email,
		CredentialHash: hash,
		IsAdmin:        req.IsAdmin,
	}, now)
	if err != nil {
		return nil, asServiceError(err)
	}
	return account, nil
}

// List returns one page of accounts and the total number of accounts.
func (s *AccountService) List(ctx context.Context, page int64, limit int64) ([]types.Account, int64, error) {
	if page < 1 {
		page = 1
	}
	if limit < 1 {
		limit = DEFAULT_PAGE_SIZE
	}
	if limit > MAX_PAGE_SIZE {
		limit = MAX_PAGE_SIZE
	}

	total, err := s.store.Count(ctx)
	if err != nil {
		return nil, 0, asServiceError(err)
	}
	accounts, err := s.store.List(ctx, page, limit)
	if err != nil {
		return nil, 0, asServiceError(err)
	}
	return accounts, total, nil
}

func (s *AccountService) Get(ctx context.Context, id string) (*types.Account, error) {
	account, err := s.store.FindByID(ctx, id)
	if err != nil {
		return nil, asServiceError(err)
	}
	return account, nil
}

func (s *AccountService) UpdateProfile(ctx context.Context, id string, update types.ProfileUpdate) (*types.Account, error) {
	if update.IsEmpty() {
		return nil, types.NewError(types.KindValidation, "no fields to update", nil)
	}
	if update.Email != nil {
		email := umUtils.SanitizeEmail(*update.Email)
		if !umUtils.CheckEmailFormat(email) {
			return nil, types.NewError(types.KindValidation, "invalid email format", nil)
		}
		update.Email = &email
	}

	account, err := s.store.UpdateProfile(ctx, id, update)
	if err != nil {
		return nil, asServiceError(err)
	}
	return account, nil
}

// Delete removes an account. Callers cannot delete their own account.
func (s *AccountService) Delete(ctx context.Context, callerID string, id string) error {
	if callerID == id {
		return types.NewError(types.KindForbidden, "cannot delete own account", nil)
	}
	if err := s.store.Delete(ctx, id); err != nil {
		return asServiceError(err)
	}
	return nil
}
