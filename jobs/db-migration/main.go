package main

import (
	"context"
	"encoding/json"
	"log/slog"
	"time"
)

func main() {
	if userAccountsDBService == nil {
		return
	}
	defer func() {
		if err := userAccountsDBService.Close(context.Background()); err != nil {
			slog.Error("Error closing User Accounts DB connection", slog.String("error", err.Error()))
		}
	}()

	dropIndexes()

	createIndexes()

	getIndexes()

	migrationTasks()
}

func dropIndexes() {
	switch conf.TaskConfigs.DropIndexes {
	case DropIndexesModeAll:
		userAccountsDBService.DropIndexes(true)
	case DropIndexesModeDefaults:
		userAccountsDBService.DropIndexes(false)
	}
}

func createIndexes() {
	if conf.TaskConfigs.CreateIndexes {
		userAccountsDBService.CreateDefaultIndexes()
	}
}

func getIndexes() {
	if !conf.TaskConfigs.GetIndexes {
		return
	}

	indexes, err := userAccountsDBService.ListIndexes(context.Background())
	if err != nil {
		slog.Error("Error listing indexes", slog.String("error", err.Error()))
		return
	}
	out, err := json.MarshalIndent(indexes, "", "  ")
	if err != nil {
		slog.Error("Error encoding indexes", slog.String("error", err.Error()))
		return
	}
	slog.Info("Indexes of users collection", slog.Int("count", len(indexes)), slog.String("indexes", string(out)))
}

func migrationTasks() {
	if conf.TaskConfigs.MigrationTasks.BackfillCredentialCreatedAt {
		start := time.Now()
		slog.Info("Backfilling credential creation times")
		count, err := userAccountsDBService.BackfillCredentialCreatedAt(context.Background())
		if err != nil {
			slog.Error("Error backfilling credential creation times", slog.String("error", err.Error()))
			return
		}
		slog.Info("Credential creation times backfilled", slog.Int("count", int(count)), slog.String("duration", time.Since(start).String()))
	}
}
