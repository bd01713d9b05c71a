package useraccounts

import (
	"context"
	"os"
	"sync"
	"testing"
	"time"

	"github.com/legal-quotation/quotation-backend/pkg/db"
	"github.com/legal-quotation/quotation-backend/pkg/user-management/policies"
	"github.com/legal-quotation/quotation-backend/pkg/user-management/types"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Runs against a real MongoDB, e.g. MONGO_URI=mongodb://localhost:27017
const ENV_TEST_MONGO_URI = "MONGO_URI"

func newIntegrationDBService(t *testing.T) *UserAccountsDBService {
	t.Helper()
	uri := os.Getenv(ENV_TEST_MONGO_URI)
	if uri == "" {
		t.Skip(ENV_TEST_MONGO_URI + " not set")
	}

	dbService, err := NewUserAccountsDBService(db.DBConfig{
		URI:              uri,
		DBName:           "legal_quotation_test_" + primitive.NewObjectID().Hex(),
		Timeout:          10,
		MaxPoolSize:      32,
		IdleConnTimeout:  10,
		RunIndexCreation: true,
	})
	require.NoError(t, err)

	t.Cleanup(func() {
		ctx := context.Background()
		assert.NoError(t, dbService.DBClient.Database(dbService.DBName).Drop(ctx))
		assert.NoError(t, dbService.Close(ctx))
	})
	return dbService
}

func createTestAccount(t *testing.T, dbService *UserAccountsDBService, username string, now time.Time) *types.Account {
	t.Helper()
	account, err := dbService.Create(context.Background(), types.NewAccount{
		Username:       username,
		Email:          username + "@x.com",
		CredentialHash: "hash",
	}, now)
	require.NoError(t, err)
	return account
}

func TestIntegrationConcurrentFailedAttempts(t *testing.T) {
	dbService := newIntegrationDBService(t)
	now := time.Date(2024, 3, 1, 12, 0, 0, 0, time.UTC)
	account := createTestAccount(t, dbService, "alice", now)
	lockout := policies.DefaultLockoutPolicy()

	const n = 20
	results := make([]error, n)
	var wg sync.WaitGroup
	for i := 0; i < n; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			_, results[i] = dbService.RecordFailedAttempt(context.Background(), account.ID.Hex(), lockout, now)
		}(i)
	}
	wg.Wait()

	counted := 0
	for _, err := range results {
		if err == nil {
			counted++
			continue
		}
		assert.ErrorIs(t, err, types.ErrAccountLocked)
	}
	assert.Equal(t, lockout.Threshold, counted)

	stored, err := dbService.FindByID(context.Background(), account.ID.Hex())
	require.NoError(t, err)
	assert.Equal(t, lockout.Threshold, stored.FailedAttempts)
	require.NotNil(t, stored.LockedUntil)
	assert.True(t, stored.LockedUntil.Equal(now.Add(lockout.Duration)))

	t.Run("expired lock is cleared", func(t *testing.T) {
		count, err := dbService.ClearExpiredLocks(context.Background(), now.Add(lockout.Duration))
		require.NoError(t, err)
		assert.Equal(t, int64(1), count)

		stored, err := dbService.FindByID(context.Background(), account.ID.Hex())
		require.NoError(t, err)
		assert.Equal(t, 0, stored.FailedAttempts)
		assert.Nil(t, stored.LockedUntil)
	})
}

func TestIntegrationCreateConflict(t *testing.T) {
	dbService := newIntegrationDBService(t)
	now := time.Date(2024, 3, 1, 12, 0, 0, 0, time.UTC)
	createTestAccount(t, dbService, "alice", now)

	_, err := dbService.Create(context.Background(), types.NewAccount{
		Username:       "alice",
		Email:          "other@x.com",
		CredentialHash: "hash",
	}, now)
	assert.ErrorIs(t, err, types.ErrConflict)
}

func TestIntegrationSetCredentialIfVersion(t *testing.T) {
	dbService := newIntegrationDBService(t)
	now := time.Date(2024, 3, 1, 12, 0, 0, 0, time.UTC)
	account := createTestAccount(t, dbService, "alice", now)
	ctx := context.Background()

	const n = 8
	results := make([]error, n)
	var wg sync.WaitGroup
	for i := 0; i < n; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			results[i] = dbService.SetCredentialIfVersion(ctx, account.ID.Hex(), 0, "new-hash", now)
		}(i)
	}
	wg.Wait()

	succeeded := 0
	for _, err := range results {
		if err == nil {
			succeeded++
			continue
		}
		assert.ErrorIs(t, err, types.ErrConflict)
	}
	assert.Equal(t, 1, succeeded)

	stored, err := dbService.FindByID(ctx, account.ID.Hex())
	require.NoError(t, err)
	assert.Equal(t, int64(1), stored.CredentialVersion)
	assert.Equal(t, "new-hash", stored.CredentialHash)

	require.NoError(t, dbService.SetTemporaryCredential(ctx, account.ID.Hex(), "temp-hash", now))
	err = dbService.SetCredentialIfVersion(ctx, account.ID.Hex(), 1, "late-hash", now)
	assert.ErrorIs(t, err, types.ErrConflict)
}
