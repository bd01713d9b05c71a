package useraccounts

import (
	"context"
	"errors"
	"log/slog"
	"time"

	"github.com/legal-quotation/quotation-backend/pkg/user-management/policies"
	"github.com/legal-quotation/quotation-backend/pkg/user-management/types"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

var errAccountNotFound = types.NewError(types.KindNotFound, "account not found", nil)

// mapError translates driver errors into the service error kinds.
func mapError(err error) error {
	if err == nil {
		return nil
	}
	if errors.Is(err, mongo.ErrNoDocuments) {
		return errAccountNotFound
	}
	if mongo.IsDuplicateKeyError(err) {
		return types.NewError(types.KindConflict, "username or email already in use", err)
	}
	return types.NewError(types.KindInternal, "database error", err)
}

func parseID(id string) (primitive.ObjectID, error) {
	objID, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return primitive.NilObjectID, types.NewError(types.KindNotFound, "account not found", err)
	}
	return objID, nil
}

// notLockedAt matches accounts without a lock or with a lock that ran out.
func notLockedAt(now time.Time) bson.M {
	return bson.M{"$or": bson.A{
		bson.M{"lockedUntil": nil},
		bson.M{"lockedUntil": bson.M{"$lte": now}},
	}}
}

// failedAttemptPipeline increments the counter in one update. An expired lock is
// cleared first so counting starts over, then the lock is set once the threshold
// is reached.
func failedAttemptPipeline(lockout policies.LockoutPolicy, now time.Time) mongo.Pipeline {
	lockout = lockout.WithDefaults()
	lockExpired := bson.M{"$and": bson.A{
		bson.M{"$ne": bson.A{bson.M{"$ifNull": bson.A{"$lockedUntil", nil}}, nil}},
		bson.M{"$lte": bson.A{"$lockedUntil", now}},
	}}

	return mongo.Pipeline{
		{{Key: "$set", Value: bson.M{
			"failedAttempts": bson.M{"$cond": bson.A{
				lockExpired,
				1,
				bson.M{"$add": bson.A{bson.M{"$ifNull": bson.A{"$failedAttempts", 0}}, 1}},
			}},
			"lockedUntil": bson.M{"$cond": bson.A{
				lockExpired,
				nil,
				"$lockedUntil",
			}},
		}}},
		{{Key: "$set", Value: bson.M{
			"lockedUntil": bson.M{"$cond": bson.A{
				bson.M{"$gte": bson.A{"$failedAttempts", lockout.Threshold}},
				now.Add(lockout.Duration),
				"$lockedUntil",
			}},
		}}},
	}
}

func (dbService *UserAccountsDBService) findOne(ctx context.Context, filter bson.M) (*types.Account, error) {
	ctx, cancel := dbService.getContext(ctx)
	defer cancel()

	var account types.Account
	err := dbService.collectionUsers().FindOne(ctx, filter).Decode(&account)
	if err != nil {
		return nil, mapError(err)
	}
	return &account, nil
}

func (dbService *UserAccountsDBService) FindByUsername(ctx context.Context, username string) (*types.Account, error) {
	return dbService.findOne(ctx, bson.M{"username": username})
}

func (dbService *UserAccountsDBService) FindByEmail(ctx context.Context, email string) (*types.Account, error) {
	return dbService.findOne(ctx, bson.M{"email": email})
}

func (dbService *UserAccountsDBService) FindByID(ctx context.Context, id string) (*types.Account, error) {
	objID, err := parseID(id)
	if err != nil {
		return nil, err
	}
	return dbService.findOne(ctx, bson.M{"_id": objID})
}

func (dbService *UserAccountsDBService) Create(ctx context.Context, account types.NewAccount, now time.Time) (*types.Account, error) {
	ctx, cancel := dbService.getContext(ctx)
	defer cancel()

	count, err := dbService.collectionUsers().CountDocuments(ctx, bson.M{"$or": bson.A{
		bson.M{"username": account.Username},
		bson.M{"email": account.Email},
	}})
	if err != nil {
		return nil, mapError(err)
	}
	if count > 0 {
		return nil, types.NewError(types.KindConflict, "username or email already in use", nil)
	}

	newAccount := &types.Account{
		Username:            account.Username,
		Email:               account.Email,
		CredentialHash:      account.CredentialHash,
		IsActive:            true,
		IsAdmin:             account.IsAdmin,
		CreatedAt:           now,
		CredentialCreatedAt: now,
	}
	res, err := dbService.collectionUsers().InsertOne(ctx, newAccount)
	if err != nil {
		// the unique indexes catch concurrent inserts that passed the check above
		return nil, mapError(err)
	}
	newAccount.ID = res.InsertedID.(primitive.ObjectID)
	return newAccount, nil
}

func (dbService *UserAccountsDBService) RecordFailedAttempt(ctx context.Context, id string, lockout policies.LockoutPolicy, now time.Time) (*types.Account, error) {
	objID, err := parseID(id)
	if err != nil {
		return nil, err
	}

	ctx, cancel := dbService.getContext(ctx)
	defer cancel()

	filter := bson.M{"$and": bson.A{
		bson.M{"_id": objID},
		notLockedAt(now),
	}}
	opts := options.FindOneAndUpdate().SetReturnDocument(options.After)

	var account types.Account
	err = dbService.collectionUsers().FindOneAndUpdate(ctx, filter, failedAttemptPipeline(lockout, now), opts).Decode(&account)
	if err == nil {
		return &account, nil
	}
	if !errors.Is(err, mongo.ErrNoDocuments) {
		return nil, mapError(err)
	}

	// nothing matched: either the account is gone or it is locked right now
	count, cErr := dbService.collectionUsers().CountDocuments(ctx, bson.M{"_id": objID})
	if cErr != nil {
		return nil, mapError(cErr)
	}
	if count == 0 {
		return nil, errAccountNotFound
	}
	return nil, types.ErrAccountLocked
}

func (dbService *UserAccountsDBService) RecordSuccess(ctx context.Context, id string, now time.Time) (*types.Account, error) {
	objID, err := parseID(id)
	if err != nil {
		return nil, err
	}

	ctx, cancel := dbService.getContext(ctx)
	defer cancel()

	update := bson.M{"$set": bson.M{
		"failedAttempts": 0,
		"lockedUntil":    nil,
		"lastLoginAt":    now,
	}}
	opts := options.FindOneAndUpdate().SetReturnDocument(options.After)

	var account types.Account
	err = dbService.collectionUsers().FindOneAndUpdate(ctx, bson.M{"_id": objID}, update, opts).Decode(&account)
	if err != nil {
		return nil, mapError(err)
	}
	return &account, nil
}

func (dbService *UserAccountsDBService) updateByID(ctx context.Context, id string, update bson.M) error {
	objID, err := parseID(id)
	if err != nil {
		return err
	}

	ctx, cancel := dbService.getContext(ctx)
	defer cancel()

	res, err := dbService.collectionUsers().UpdateOne(ctx, bson.M{"_id": objID}, update)
	if err != nil {
		return mapError(err)
	}
	if res.MatchedCount == 0 {
		return errAccountNotFound
	}
	return nil
}

func credentialUpdate(credentialHash string, clearPendingReset bool, now time.Time) bson.M {
	set := bson.M{
		"credentialHash":      credentialHash,
		"credentialCreatedAt": now,
		"failedAttempts":      0,
		"lockedUntil":         nil,
	}
	update := bson.M{
		"$set": set,
		"$inc": bson.M{"credentialVersion": 1},
	}
	if clearPendingReset {
		set["pendingCredentialReset"] = false
		update["$unset"] = bson.M{"tempCredentialIssuedAt": ""}
	}
	return update
}

// credentialVersionFilter also matches accounts stored before the version field existed.
func credentialVersionFilter(expectedVersion int64) interface{} {
	if expectedVersion == 0 {
		return bson.M{"$in": bson.A{0, nil}}
	}
	return expectedVersion
}

func (dbService *UserAccountsDBService) SetCredential(ctx context.Context, id string, credentialHash string, clearPendingReset bool, now time.Time) error {
	return dbService.updateByID(ctx, id, credentialUpdate(credentialHash, clearPendingReset, now))
}

func (dbService *UserAccountsDBService) SetCredentialIfVersion(ctx context.Context, id string, expectedVersion int64, credentialHash string, now time.Time) error {
	objID, err := parseID(id)
	if err != nil {
		return err
	}

	ctx, cancel := dbService.getContext(ctx)
	defer cancel()

	res, err := dbService.collectionUsers().UpdateOne(ctx,
		bson.M{
			"_id":               objID,
			"credentialVersion": credentialVersionFilter(expectedVersion),
		},
		credentialUpdate(credentialHash, true, now),
	)
	if err != nil {
		return mapError(err)
	}
	if res.MatchedCount == 0 {
		return types.NewError(types.KindConflict, "credential changed", nil)
	}
	return nil
}

func (dbService *UserAccountsDBService) SetTemporaryCredential(ctx context.Context, id string, credentialHash string, now time.Time) error {
	return dbService.updateByID(ctx, id, bson.M{
		"$set": bson.M{
			"credentialHash":         credentialHash,
			"credentialCreatedAt":    now,
			"failedAttempts":         0,
			"lockedUntil":            nil,
			"pendingCredentialReset": true,
			"tempCredentialIssuedAt": now,
		},
		"$inc": bson.M{"credentialVersion": 1},
	})
}

func profileUpdateSet(update types.ProfileUpdate) bson.M {
	set := bson.M{}
	if update.Email != nil {
		set["email"] = *update.Email
	}
	if update.IsActive != nil {
		set["isActive"] = *update.IsActive
	}
	if update.IsAdmin != nil {
		set["isAdmin"] = *update.IsAdmin
	}
	return set
}

func (dbService *UserAccountsDBService) UpdateProfile(ctx context.Context, id string, update types.ProfileUpdate) (*types.Account, error) {
	objID, err := parseID(id)
	if err != nil {
		return nil, err
	}
	set := profileUpdateSet(update)
	if len(set) == 0 {
		return dbService.FindByID(ctx, id)
	}

	ctx, cancel := dbService.getContext(ctx)
	defer cancel()

	opts := options.FindOneAndUpdate().SetReturnDocument(options.After)
	var account types.Account
	err = dbService.collectionUsers().FindOneAndUpdate(ctx, bson.M{"_id": objID}, bson.M{"$set": set}, opts).Decode(&account)
	if err != nil {
		if mongo.IsDuplicateKeyError(err) {
			return nil, types.NewError(types.KindConflict, "email already in use", err)
		}
		return nil, mapError(err)
	}
	return &account, nil
}

func (dbService *UserAccountsDBService) Delete(ctx context.Context, id string) error {
	objID, err := parseID(id)
	if err != nil {
		return err
	}

	ctx, cancel := dbService.getContext(ctx)
	defer cancel()

	res, err := dbService.collectionUsers().DeleteOne(ctx, bson.M{"_id": objID})
	if err != nil {
		return mapError(err)
	}
	if res.DeletedCount == 0 {
		return errAccountNotFound
	}
	return nil
}

// List returns one page of accounts ordered by creation time.
func (dbService *UserAccountsDBService) List(ctx context.Context, page int64, limit int64) ([]types.Account, error) {
	if page < 1 {
		page = 1
	}

	ctx, cancel := dbService.getContext(ctx)
	defer cancel()

	opts := options.Find().
		SetSort(bson.D{{Key: "createdAt", Value: 1}, {Key: "_id", Value: 1}}).
		SetSkip((page - 1) * limit).
		SetLimit(limit)

	cursor, err := dbService.collectionUsers().Find(ctx, bson.M{}, opts)
	if err != nil {
		return nil, mapError(err)
	}
	defer cursor.Close(ctx)

	accounts := []types.Account{}
	if err = cursor.All(ctx, &accounts); err != nil {
		return nil, mapError(err)
	}
	return accounts, nil
}

func (dbService *UserAccountsDBService) Count(ctx context.Context) (int64, error) {
	ctx, cancel := dbService.getContext(ctx)
	defer cancel()

	count, err := dbService.collectionUsers().CountDocuments(ctx, bson.M{})
	if err != nil {
		return 0, mapError(err)
	}
	return count, nil
}

// ClearExpiredLocks removes locks that ran out before now and returns how many
// accounts were touched.
func (dbService *UserAccountsDBService) ClearExpiredLocks(ctx context.Context, now time.Time) (int64, error) {
	ctx, cancel := dbService.getContext(ctx)
	defer cancel()

	res, err := dbService.collectionUsers().UpdateMany(ctx,
		bson.M{"lockedUntil": bson.M{"$lte": now}},
		bson.M{"$set": bson.M{
			"failedAttempts": 0,
			"lockedUntil":    nil,
		}},
	)
	if err != nil {
		return 0, mapError(err)
	}
	return res.ModifiedCount, nil
}

// FindAndExecuteOnAccounts runs fn for every account matching filter.
func (dbService *UserAccountsDBService) FindAndExecuteOnAccounts(
	ctx context.Context,
	filter bson.M,
	sort bson.D,
	returnOnErr bool,
	fn func(dbService *UserAccountsDBService, account types.Account, args ...interface{}) error,
	args ...interface{},
) error {
	opts := options.Find()
	if sort != nil {
		opts.SetSort(sort)
	}
	if dbService.noCursorTimeout {
		opts.SetNoCursorTimeout(true)
	}

	cursor, err := dbService.collectionUsers().Find(ctx, filter, opts)
	if err != nil {
		return mapError(err)
	}
	defer cursor.Close(ctx)

	for cursor.Next(ctx) {
		var account types.Account
		if err = cursor.Decode(&account); err != nil {
			return mapError(err)
		}
		if err = fn(dbService, account, args...); err != nil {
			slog.Error("Error executing function on account", slog.String("accountID", account.ID.Hex()), slog.String("error", err.Error()))
			if returnOnErr {
				return err
			}
			continue
		}
	}
	return cursor.Err()
}

// CredentialsOlderThanFilter matches active accounts whose credential was set
// before cutoff.
func CredentialsOlderThanFilter(cutoff time.Time) bson.M {
	return bson.M{
		"isActive": true,
		"$or": bson.A{
			bson.M{"credentialCreatedAt": bson.M{"$lt": cutoff}},
			bson.M{"credentialCreatedAt": bson.M{"$exists": false}},
		},
	}
}

// BackfillCredentialCreatedAt sets credentialCreatedAt to createdAt where the field
// is missing, so imported accounts get a defined credential age.
func (dbService *UserAccountsDBService) BackfillCredentialCreatedAt(ctx context.Context) (int64, error) {
	ctx, cancel := dbService.getContext(ctx)
	defer cancel()

	res, err := dbService.collectionUsers().UpdateMany(ctx,
		bson.M{"credentialCreatedAt": bson.M{"$exists": false}},
		mongo.Pipeline{
			{{Key: "$set", Value: bson.M{"credentialCreatedAt": "$createdAt"}}},
		},
	)
	if err != nil {
		return 0, mapError(err)
	}
	return res.ModifiedCount, nil
}
