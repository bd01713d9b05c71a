package main

import (
	"fmt"
	"log/slog"
	"os"

	"github.com/legal-quotation/quotation-backend/pkg/db"
	"github.com/legal-quotation/quotation-backend/pkg/utils"
	"gopkg.in/yaml.v2"

	userAccountsDB "github.com/legal-quotation/quotation-backend/pkg/db/user-accounts"
)

// Environment variables
const (
	ENV_CONFIG_FILE_PATH = "CONFIG_FILE_PATH"

	// Variables to override "secrets" in the config file
	ENV_USER_ACCOUNTS_DB_USERNAME = "USER_ACCOUNTS_DB_USERNAME"
	ENV_USER_ACCOUNTS_DB_PASSWORD = "USER_ACCOUNTS_DB_PASSWORD"
)

type config struct {
	// Logging configs
	Logging utils.LoggerConfig `json:"logging" yaml:"logging"`

	// DB configs
	DBConfigs struct {
		UserAccountsDB db.DBConfigYaml `json:"user_accounts_db" yaml:"user_accounts_db"`
	} `json:"db_configs" yaml:"db_configs"`

	// Task configurations
	TaskConfigs TaskConfigs `json:"task_configs" yaml:"task_configs"`
}

type TaskConfigs struct {
	DropIndexes    DropIndexesMode      `json:"drop_indexes" yaml:"drop_indexes"`
	CreateIndexes  bool                 `json:"create_indexes" yaml:"create_indexes"`
	GetIndexes     bool                 `json:"get_indexes" yaml:"get_indexes"`
	MigrationTasks MigrationTasksConfig `json:"migration_tasks" yaml:"migration_tasks"`
}

type MigrationTasksConfig struct {
	BackfillCredentialCreatedAt bool `json:"backfill_credential_created_at" yaml:"backfill_credential_created_at"`
}

type DropIndexesMode string

const (
	DropIndexesModeAll      DropIndexesMode = "all"
	DropIndexesModeDefaults DropIndexesMode = "defaults"
	DropIndexesModeNone     DropIndexesMode = "none"
)

func (mode DropIndexesMode) IsValid() bool {
	switch mode {
	case DropIndexesModeAll, DropIndexesModeDefaults, DropIndexesModeNone:
		return true
	default:
		return false
	}
}

func validateConfig() {
	// not set means nothing is dropped
	if conf.TaskConfigs.DropIndexes == "" {
		conf.TaskConfigs.DropIndexes = DropIndexesModeNone
	}
	if !conf.TaskConfigs.DropIndexes.IsValid() {
		panic(fmt.Sprintf("invalid drop indexes mode for task_configs.drop_indexes: %q. Use one of: %v", conf.TaskConfigs.DropIndexes, []DropIndexesMode{DropIndexesModeAll, DropIndexesModeDefaults, DropIndexesModeNone}))
	}
}

func hasTasks() bool {
	tasks := conf.TaskConfigs
	return tasks.DropIndexes != DropIndexesModeNone ||
		tasks.CreateIndexes ||
		tasks.GetIndexes ||
		tasks.MigrationTasks.BackfillCredentialCreatedAt
}

var conf config

var userAccountsDBService *userAccountsDB.UserAccountsDBService

func init() {
	// Read config from file
	yamlFile, err := os.ReadFile(os.Getenv(ENV_CONFIG_FILE_PATH))
	if err != nil {
		panic(err)
	}

	err = yaml.UnmarshalStrict(yamlFile, &conf)
	if err != nil {
		panic(err)
	}

	validateConfig()

	// Init logger:
	utils.InitLogger(conf.Logging)

	// Override secrets from environment variables
	secretsOverride()

	if !hasTasks() {
		slog.Warn("no task enabled, nothing to do")
		return
	}

	// init db
	initDBs()
}

func secretsOverride() {
	if dbUsername := os.Getenv(ENV_USER_ACCOUNTS_DB_USERNAME); dbUsername != "" {
		conf.DBConfigs.UserAccountsDB.Username = dbUsername
	}

	if dbPassword := os.Getenv(ENV_USER_ACCOUNTS_DB_PASSWORD); dbPassword != "" {
		conf.DBConfigs.UserAccountsDB.Password = dbPassword
	}
}

func initDBs() {
	dbConfig, err := db.DBConfigFromYamlObj(conf.DBConfigs.UserAccountsDB)
	if err != nil {
		slog.Error("Invalid User Accounts DB config", slog.String("error", err.Error()))
		panic(err)
	}
	// index handling is controlled by the task config
	dbConfig.RunIndexCreation = false

	userAccountsDBService, err = userAccountsDB.NewUserAccountsDBService(dbConfig)
	if err != nil {
		slog.Error("Error connecting to User Accounts DB", slog.String("error", err.Error()))
		panic(err)
	}
	slog.Info("Database connection established", slog.String("db", dbConfig.DBName))
}
