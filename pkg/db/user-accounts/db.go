package useraccounts

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/legal-quotation/quotation-backend/pkg/db"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// collection names
const (
	COLLECTION_NAME_USERS = "users"
)

var indexesForUsersCollection = []mongo.IndexModel{
	{
		Keys:    bson.D{{Key: "username", Value: 1}},
		Options: options.Index().SetName("uniq_users_username").SetUnique(true),
	},
	{
		Keys:    bson.D{{Key: "email", Value: 1}},
		Options: options.Index().SetName("uniq_users_email").SetUnique(true),
	},
	{
		Keys:    bson.D{{Key: "lockedUntil", Value: 1}},
		Options: options.Index().SetName("idx_users_lockedUntil").SetSparse(true),
	},
	{
		Keys: bson.D{
			{Key: "createdAt", Value: 1},
			{Key: "_id", Value: 1},
		},
		Options: options.Index().SetName("idx_users_createdAt"),
	},
}

type UserAccountsDBService struct {
	DBClient        *mongo.Client
	timeout         int
	noCursorTimeout bool
	DBName          string
}

func NewUserAccountsDBService(configs db.DBConfig) (*UserAccountsDBService, error) {
	ctx, cancel := context.WithTimeout(context.Background(), time.Duration(configs.Timeout)*time.Second)
	defer cancel()

	dbClient, err := mongo.Connect(ctx,
		options.Client().ApplyURI(configs.URI),
		options.Client().SetMaxConnIdleTime(time.Duration(configs.IdleConnTimeout)*time.Second),
		options.Client().SetMaxPoolSize(configs.MaxPoolSize),
	)

	if err != nil {
		return nil, err
	}

	ctx, conCancel := context.WithTimeout(context.Background(), time.Duration(configs.Timeout)*time.Second)
	err = dbClient.Ping(ctx, nil)
	defer conCancel()

	if err != nil {
		return nil, err
	}

	uaDBSc := &UserAccountsDBService{
		DBClient:        dbClient,
		timeout:         configs.Timeout,
		noCursorTimeout: configs.NoCursorTimeout,
		DBName:          configs.DBName,
	}

	if configs.RunIndexCreation {
		uaDBSc.CreateDefaultIndexes()
	}

	return uaDBSc, nil
}

func (dbService *UserAccountsDBService) Close(ctx context.Context) error {
	return dbService.DBClient.Disconnect(ctx)
}

func (dbService *UserAccountsDBService) collectionUsers() *mongo.Collection {
	return dbService.DBClient.Database(dbService.DBName).Collection(COLLECTION_NAME_USERS)
}

// getContext limits a call to the configured timeout. The request context still
// cancels it earlier.
func (dbService *UserAccountsDBService) getContext(parent context.Context) (ctx context.Context, cancel context.CancelFunc) {
	if parent == nil {
		parent = context.Background()
	}
	return context.WithTimeout(parent, time.Duration(dbService.timeout)*time.Second)
}

func (dbService *UserAccountsDBService) CreateDefaultIndexes() {
	ctx, cancel := dbService.getContext(context.Background())
	defer cancel()

	_, err := dbService.collectionUsers().Indexes().CreateMany(ctx, indexesForUsersCollection)
	if err != nil {
		slog.Error("Error creating indexes for users", slog.String("error", err.Error()))
	}
}

func (dbService *UserAccountsDBService) DropIndexes(dropAll bool) {
	ctx, cancel := dbService.getContext(context.Background())
	defer cancel()

	if dropAll {
		_, err := dbService.collectionUsers().Indexes().DropAll(ctx)
		if err != nil {
			slog.Error("Error dropping all indexes for users", slog.String("error", err.Error()))
		}
		return
	}

	for _, index := range indexesForUsersCollection {
		if index.Options.Name == nil {
			slog.Error("Index name is nil for users collection", slog.String("index", fmt.Sprintf("%+v", index)))
			continue
		}
		indexName := *index.Options.Name
		_, err := dbService.collectionUsers().Indexes().DropOne(ctx, indexName)
		if err != nil {
			slog.Error("Error dropping index for users", slog.String("error", err.Error()), slog.String("indexName", indexName))
		}
	}
}

func (dbService *UserAccountsDBService) ListIndexes(ctx context.Context) ([]bson.M, error) {
	ctx, cancel := dbService.getContext(ctx)
	defer cancel()
	return db.ListCollectionIndexes(ctx, dbService.collectionUsers())
}
