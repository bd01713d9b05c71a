package useraccounts

import (
	"errors"
	"testing"
	"time"

	usermanagement "github.com/legal-quotation/quotation-backend/pkg/user-management"
	"github.com/legal-quotation/quotation-backend/pkg/user-management/policies"
	"github.com/legal-quotation/quotation-backend/pkg/user-management/types"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
)

var _ usermanagement.AccountStore = (*UserAccountsDBService)(nil)

func TestMapError(t *testing.T) {
	assert.NoError(t, mapError(nil))
	assert.ErrorIs(t, mapError(mongo.ErrNoDocuments), types.ErrNotFound)

	dup := mongo.WriteException{WriteErrors: mongo.WriteErrors{{Code: 11000, Message: "E11000 duplicate key error"}}}
	assert.ErrorIs(t, mapError(dup), types.ErrConflict)

	err := mapError(errors.New("connection reset"))
	assert.ErrorIs(t, err, types.ErrInternal)
	assert.Equal(t, "database error", types.MessageOf(err))
}

func TestParseID(t *testing.T) {
	_, err := parseID("not-an-id")
	assert.ErrorIs(t, err, types.ErrNotFound)

	id, err := parseID("65f1a2b3c4d5e6f708192a3b")
	require.NoError(t, err)
	assert.Equal(t, "65f1a2b3c4d5e6f708192a3b", id.Hex())
}

func TestFailedAttemptPipeline(t *testing.T) {
	now := time.Date(2024, 3, 1, 12, 0, 0, 0, time.UTC)
	pipeline := failedAttemptPipeline(policies.LockoutPolicy{}, now)
	require.Len(t, pipeline, 2)

	first := pipeline[0][0]
	assert.Equal(t, "$set", first.Key)
	firstSet, ok := first.Value.(bson.M)
	require.True(t, ok)
	assert.Contains(t, firstSet, "failedAttempts")
	assert.Contains(t, firstSet, "lockedUntil")

	second := pipeline[1][0]
	secondSet, ok := second.Value.(bson.M)
	require.True(t, ok)
	cond := secondSet["lockedUntil"].(bson.M)["$cond"].(bson.A)
	require.Len(t, cond, 3)
	assert.Equal(t, bson.M{"$gte": bson.A{"$failedAttempts", policies.DEFAULT_LOCKOUT_THRESHOLD}}, cond[0])
	assert.Equal(t, now.Add(policies.DEFAULT_LOCKOUT_DURATION), cond[1])
	assert.Equal(t, "$lockedUntil", cond[2])

	_, err := bson.Marshal(bson.M{"pipeline": pipeline})
	assert.NoError(t, err)
}

func TestProfileUpdateSet(t *testing.T) {
	email := "new@x.com"
	active := false
	assert.Empty(t, profileUpdateSet(types.ProfileUpdate{}))
	assert.Equal(t,
		bson.M{"email": "new@x.com", "isActive": false},
		profileUpdateSet(types.ProfileUpdate{Email: &email, IsActive: &active}),
	)
}

func TestIndexesAreNamed(t *testing.T) {
	for _, index := range indexesForUsersCollection {
		require.NotNil(t, index.Options)
		assert.NotNil(t, index.Options.Name)
	}
}

func TestCredentialUpdate(t *testing.T) {
	now := time.Date(2024, 3, 1, 12, 0, 0, 0, time.UTC)

	update := credentialUpdate("hash", false, now)
	assert.Equal(t, bson.M{"credentialVersion": 1}, update["$inc"])
	assert.NotContains(t, update, "$unset")
	assert.NotContains(t, update["$set"], "pendingCredentialReset")

	update = credentialUpdate("hash", true, now)
	assert.Equal(t, false, update["$set"].(bson.M)["pendingCredentialReset"])
	assert.Equal(t, bson.M{"tempCredentialIssuedAt": ""}, update["$unset"])
}

func TestCredentialVersionFilter(t *testing.T) {
	assert.Equal(t, int64(3), credentialVersionFilter(3))
	assert.Equal(t, bson.M{"$in": bson.A{0, nil}}, credentialVersionFilter(0))
}
