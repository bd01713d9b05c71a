// Package umtest provides in-memory doubles for the user management services.
package umtest

import (
	"context"
	"sort"
	"sync"
	"time"

	messagingTypes "github.com/legal-quotation/quotation-backend/pkg/messaging/types"
	"github.com/legal-quotation/quotation-backend/pkg/user-management/policies"
	"github.com/legal-quotation/quotation-backend/pkg/user-management/types"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

// MemoryAccountStore keeps accounts in a map. A single mutex makes every
// operation atomic, like single document updates in the database.
type MemoryAccountStore struct {
	mu       sync.Mutex
	accounts map[primitive.ObjectID]*types.Account
}

func NewMemoryAccountStore() *MemoryAccountStore {
	return &MemoryAccountStore{
		accounts: map[primitive.ObjectID]*types.Account{},
	}
}

func copyAccount(a *types.Account) *types.Account {
	c := *a
	if a.LastLoginAt != nil {
		t := *a.LastLoginAt
		c.LastLoginAt = &t
	}
	if a.LockedUntil != nil {
		t := *a.LockedUntil
		c.LockedUntil = &t
	}
	if a.TempCredentialIssuedAt != nil {
		t := *a.TempCredentialIssuedAt
		c.TempCredentialIssuedAt = &t
	}
	return &c
}

func (s *MemoryAccountStore) byID(id string) (*types.Account, error) {
	oid, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return nil, types.NewError(types.KindNotFound, "account not found", err)
	}
	account, ok := s.accounts[oid]
	if !ok {
		return nil, types.NewError(types.KindNotFound, "account not found", nil)
	}
	return account, nil
}

func (s *MemoryAccountStore) FindByUsername(ctx context.Context, username string) (*types.Account, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, a := range s.accounts {
		if a.Username == username {
			return copyAccount(a), nil
		}
	}
	return nil, types.NewError(types.KindNotFound, "account not found", nil)
}

func (s *MemoryAccountStore) FindByEmail(ctx context.Context, email string) (*types.Account, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, a := range s.accounts {
		if a.Email == email {
			return copyAccount(a), nil
		}
	}
	return nil, types.NewError(types.KindNotFound, "account not found", nil)
}

func (s *MemoryAccountStore) FindByID(ctx context.Context, id string) (*types.Account, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	a, err := s.byID(id)
	if err != nil {
		return nil, err
	}
	return copyAccount(a), nil
}

func (s *MemoryAccountStore) Create(ctx context.Context, account types.NewAccount, now time.Time) (*types.Account, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, a := range s.accounts {
		if a.Username == account.Username || a.Email == account.Email {
			return nil, types.NewError(types.KindConflict, "username or email already in use", nil)
		}
	}

	a := &types.Account{
		ID:                  primitive.NewObjectID(),
		Username:            account.Username,
		Email:               account.Email,
		CredentialHash:      account.CredentialHash,
		IsActive:            true,
		IsAdmin:             account.IsAdmin,
		CreatedAt:           now,
		CredentialCreatedAt: now,
	}
	s.accounts[a.ID] = a
	return copyAccount(a), nil
}

func (s *MemoryAccountStore) RecordFailedAttempt(ctx context.Context, id string, lockout policies.LockoutPolicy, now time.Time) (*types.Account, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	a, err := s.byID(id)
	if err != nil {
		return nil, err
	}
	if lockout.IsLocked(a.LockedUntil, now) {
		return nil, types.ErrAccountLocked
	}
	a.FailedAttempts, a.LockedUntil = lockout.OnFailure(a.FailedAttempts, a.LockedUntil, now)
	return copyAccount(a), nil
}

func (s *MemoryAccountStore) RecordSuccess(ctx context.Context, id string, now time.Time) (*types.Account, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	a, err := s.byID(id)
	if err != nil {
		return nil, err
	}
	a.FailedAttempts = 0
	a.LockedUntil = nil
	t := now
	a.LastLoginAt = &t
	return copyAccount(a), nil
}

func (s *MemoryAccountStore) SetCredential(ctx context.Context, id string, credentialHash string, clearPendingReset bool, now time.Time) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	a, err := s.byID(id)
	if err != nil {
		return err
	}
	setCredential(a, credentialHash, clearPendingReset, now)
	return nil
}

func setCredential(a *types.Account, credentialHash string, clearPendingReset bool, now time.Time) {
	a.CredentialHash = credentialHash
	a.CredentialCreatedAt = now
	a.CredentialVersion++
	a.FailedAttempts = 0
	a.LockedUntil = nil
	if clearPendingReset {
		a.PendingCredentialReset = false
		a.TempCredentialIssuedAt = nil
	}
}

func (s *MemoryAccountStore) SetCredentialIfVersion(ctx context.Context, id string, expectedVersion int64, credentialHash string, now time.Time) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	a, err := s.byID(id)
	if err != nil {
		return err
	}
	if a.CredentialVersion != expectedVersion {
		return types.NewError(types.KindConflict, "credential changed", nil)
	}
	setCredential(a, credentialHash, true, now)
	return nil
}

func (s *MemoryAccountStore) SetTemporaryCredential(ctx context.Context, id string, credentialHash string, now time.Time) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	a, err := s.byID(id)
	if err != nil {
		return err
	}
	a.CredentialHash = credentialHash
	a.CredentialCreatedAt = now
	a.CredentialVersion++
	a.FailedAttempts = 0
	a.LockedUntil = nil
	a.PendingCredentialReset = true
	t := now
	a.TempCredentialIssuedAt = &t
	return nil
}

func (s *MemoryAccountStore) UpdateProfile(ctx context.Context, id string, update types.ProfileUpdate) (*types.Account, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	a, err := s.byID(id)
	if err != nil {
		return nil, err
	}
	if update.Email != nil {
		for _, other := range s.accounts {
			if other.ID != a.ID && other.Email == *update.Email {
				return nil, types.NewError(types.KindConflict, "email already in use", nil)
			}
		}
		a.Email = *update.Email
	}
	if update.IsActive != nil {
		a.IsActive = *update.IsActive
	}
	if update.IsAdmin != nil {
		a.IsAdmin = *update.IsAdmin
	}
	return copyAccount(a), nil
}

func (s *MemoryAccountStore) Delete(ctx context.Context, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	a, err := s.byID(id)
	if err != nil {
		return err
	}
	delete(s.accounts, a.ID)
	return nil
}

// List orders by creation time, then id.
func (s *MemoryAccountStore) List(ctx context.Context, page int64, limit int64) ([]types.Account, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	all := make([]types.Account, 0, len(s.accounts))
	for _, a := range s.accounts {
		all = append(all, *copyAccount(a))
	}
	sort.Slice(all, func(i, j int) bool {
		if all[i].CreatedAt.Equal(all[j].CreatedAt) {
			return all[i].ID.Hex() < all[j].ID.Hex()
		}
		return all[i].CreatedAt.Before(all[j].CreatedAt)
	})

	start := (page - 1) * limit
	if start >= int64(len(all)) {
		return []types.Account{}, nil
	}
	end := start + limit
	if end > int64(len(all)) {
		end = int64(len(all))
	}
	return all[start:end], nil
}

func (s *MemoryAccountStore) Count(ctx context.Context) (int64, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return int64(len(s.accounts)), nil
}

// RecordingGateway stores delivered notifications. If Err is set, Deliver fails
// with it and nothing is recorded.
type RecordingGateway struct {
	mu   sync.Mutex
	Err  error
	Sent []messagingTypes.Notification
}

func (g *RecordingGateway) Deliver(ctx context.Context, notification messagingTypes.Notification) error {
	g.mu.Lock()
	defer g.mu.Unlock()
	if g.Err != nil {
		return g.Err
	}
	g.Sent = append(g.Sent, notification)
	return nil
}

func (g *RecordingGateway) Last() (messagingTypes.Notification, bool) {
	g.mu.Lock()
	defer g.mu.Unlock()
	if len(g.Sent) == 0 {
		return messagingTypes.Notification{}, false
	}
	return g.Sent[len(g.Sent)-1], true
}
