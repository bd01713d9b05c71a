package main

import (
	"log/slog"
	"os"

	"github.com/legal-quotation/quotation-backend/pkg/db"
	usermanagement "github.com/legal-quotation/quotation-backend/pkg/user-management"
	"github.com/legal-quotation/quotation-backend/pkg/user-management/policies"
	"github.com/legal-quotation/quotation-backend/pkg/user-management/pwhash"
	"github.com/legal-quotation/quotation-backend/pkg/utils"
	"gopkg.in/yaml.v2"

	userAccountsDB "github.com/legal-quotation/quotation-backend/pkg/db/user-accounts"
	umUtils "github.com/legal-quotation/quotation-backend/pkg/user-management/utils"
)

// Environment variables
const (
	ENV_CONFIG_FILE_PATH = "CONFIG_FILE_PATH"

	// Variables to override "secrets" in the config file
	ENV_USER_ACCOUNTS_DB_USERNAME = "USER_ACCOUNTS_DB_USERNAME"
	ENV_USER_ACCOUNTS_DB_PASSWORD = "USER_ACCOUNTS_DB_PASSWORD"
	ENV_ADMIN_PASSWORD            = "ADMIN_PASSWORD"
)

type config struct {
	// Logging configs
	Logging utils.LoggerConfig `json:"logging" yaml:"logging"`

	// DB configs
	DBConfigs struct {
		UserAccountsDB db.DBConfigYaml `json:"user_accounts_db" yaml:"user_accounts_db"`
	} `json:"db_configs" yaml:"db_configs"`

	// user management configs
	UserManagementConfig struct {
		PWHashing struct {
			Argon2Memory      uint32 `json:"argon2_memory" yaml:"argon2_memory"`
			Argon2Iterations  uint32 `json:"argon2_iterations" yaml:"argon2_iterations"`
			Argon2Parallelism uint8  `json:"argon2_parallelism" yaml:"argon2_parallelism"`
		} `json:"pw_hashing" yaml:"pw_hashing"`
		// e.g. "60d"
		PasswordMaxAge           string `json:"password_max_age" yaml:"password_max_age"`
		BlockedPasswordsFilePath string `json:"blocked_passwords_file_path" yaml:"blocked_passwords_file_path"`
	} `json:"user_management_config" yaml:"user_management_config"`

	// Admin account used by ensure_admin_account and reset_admin_password
	AdminAccount struct {
		Username string `json:"username" yaml:"username"`
		Email    string `json:"email" yaml:"email"`
		Password string `json:"password" yaml:"password"`
	} `json:"admin_account" yaml:"admin_account"`

	RunTasks struct {
		EnsureAdminAccount       bool `json:"ensure_admin_account" yaml:"ensure_admin_account"`
		ResetAdminPassword       bool `json:"reset_admin_password" yaml:"reset_admin_password"`
		ClearExpiredLocks        bool `json:"clear_expired_locks" yaml:"clear_expired_locks"`
		ReportExpiredCredentials bool `json:"report_expired_credentials" yaml:"report_expired_credentials"`
	} `json:"run_tasks" yaml:"run_tasks"`
}

var conf config

var (
	userAccountsDBService *userAccountsDB.UserAccountsDBService
	accountService        *usermanagement.AccountService
	passwordLifecycle     policies.PasswordLifecyclePolicy
)

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

	// Init logger:
	utils.InitLogger(conf.Logging)

	// Override secrets from environment variables
	secretsOverride()

	// check config values:
	if (conf.RunTasks.EnsureAdminAccount || conf.RunTasks.ResetAdminPassword) && conf.AdminAccount.Username == "" {
		slog.Error("admin account username is not set")
		panic("admin account username is not set")
	}

	if (conf.RunTasks.EnsureAdminAccount || conf.RunTasks.ResetAdminPassword) && conf.AdminAccount.Password == "" {
		slog.Error("admin account password is not set, use the config file or the env variable " + ENV_ADMIN_PASSWORD)
		panic("admin account password is not set")
	}

	// init db
	initDBs()

	// init user management
	initUserManagement()
}

func secretsOverride() {
	if dbUsername := os.Getenv(ENV_USER_ACCOUNTS_DB_USERNAME); dbUsername != "" {
		conf.DBConfigs.UserAccountsDB.Username = dbUsername
	}

	if dbPassword := os.Getenv(ENV_USER_ACCOUNTS_DB_PASSWORD); dbPassword != "" {
		conf.DBConfigs.UserAccountsDB.Password = dbPassword
	}

	if adminPassword := os.Getenv(ENV_ADMIN_PASSWORD); adminPassword != "" {
		conf.AdminAccount.Password = adminPassword
	}
}

func initDBs() {
	dbConfig, err := db.DBConfigFromYamlObj(conf.DBConfigs.UserAccountsDB)
	if err != nil {
		slog.Error("Invalid User Accounts DB config", slog.String("error", err.Error()))
		panic(err)
	}

	userAccountsDBService, err = userAccountsDB.NewUserAccountsDBService(dbConfig)
	if err != nil {
		slog.Error("Error connecting to User Accounts DB", slog.String("error", err.Error()))
		panic(err)
	}
}

func initUserManagement() {
	umConf := conf.UserManagementConfig

	hasher, err := pwhash.NewArgon2Hasher(pwhash.Argon2Params{
		Memory:      umConf.PWHashing.Argon2Memory,
		Iterations:  umConf.PWHashing.Argon2Iterations,
		Parallelism: umConf.PWHashing.Argon2Parallelism,
	})
	if err != nil {
		slog.Error("Error setting up password hashing", slog.String("error", err.Error()))
		panic(err)
	}

	passwordLifecycle = policies.DefaultPasswordLifecyclePolicy()
	if umConf.PasswordMaxAge != "" {
		maxAge, err := utils.ParseDurationString(umConf.PasswordMaxAge)
		if err != nil {
			slog.Error("invalid password max age", slog.String("error", err.Error()))
			panic(err)
		}
		passwordLifecycle.MaxAge = maxAge
	}

	blocklist := umUtils.PasswordBlocklist{}
	if umConf.BlockedPasswordsFilePath != "" {
		blocklist, err = umUtils.LoadBlockedPasswords(umConf.BlockedPasswordsFilePath)
		if err != nil {
			slog.Error("Error loading blocked passwords", slog.String("error", err.Error()))
			panic(err)
		}
	}

	accountService = usermanagement.NewAccountService(userAccountsDBService, hasher, blocklist)
}
