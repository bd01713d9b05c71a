package main

import (
	"log/slog"
	"os"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/legal-quotation/quotation-backend/pkg/apihelpers"
	"github.com/legal-quotation/quotation-backend/pkg/db"
	"github.com/legal-quotation/quotation-backend/pkg/messaging"
	emailsending "github.com/legal-quotation/quotation-backend/pkg/messaging/email-sending"
	"github.com/legal-quotation/quotation-backend/pkg/messaging/telegram"
	"github.com/legal-quotation/quotation-backend/pkg/messaging/templates"
	messagingTypes "github.com/legal-quotation/quotation-backend/pkg/messaging/types"
	"github.com/legal-quotation/quotation-backend/pkg/metrics"
	smtp_client "github.com/legal-quotation/quotation-backend/pkg/smtp-client"
	usermanagement "github.com/legal-quotation/quotation-backend/pkg/user-management"
	"github.com/legal-quotation/quotation-backend/pkg/user-management/policies"
	"github.com/legal-quotation/quotation-backend/pkg/user-management/pwhash"
	"github.com/legal-quotation/quotation-backend/pkg/utils"
	"github.com/legal-quotation/quotation-backend/services/auth-api/apihandlers"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
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
	ENV_TOKEN_SIGN_KEY            = "TOKEN_SIGN_KEY"
	ENV_SMTP_USERNAME             = "SMTP_USERNAME"
	ENV_SMTP_PASSWORD             = "SMTP_PASSWORD"
	ENV_TELEGRAM_BOT_TOKEN        = "TELEGRAM_BOT_TOKEN"
	ENV_ACCESS_TOKEN_TTL          = "ACCESS_TOKEN_TTL"
)

type AuthApiConfig struct {
	// Logging configs
	Logging utils.LoggerConfig `json:"logging" yaml:"logging"`

	// Gin configs
	GinConfig struct {
		DebugMode    bool     `json:"debug_mode" yaml:"debug_mode"`
		AllowOrigins []string `json:"allow_origins" yaml:"allow_origins"`
		Port         string   `json:"port" yaml:"port"`

		// Mutual TLS configs
		MTLS struct {
			Use              bool                        `json:"use" yaml:"use"`
			CertificatePaths apihelpers.CertificatePaths `json:"certificate_paths" yaml:"certificate_paths"`
		} `json:"mtls" yaml:"mtls"`

		ExposeMetrics bool                     `json:"expose_metrics" yaml:"expose_metrics"`
		FailureDelay  apihandlers.FailureDelay `json:"failure_delay" yaml:"failure_delay"`
	} `json:"gin_config" yaml:"gin_config"`

	// user management configs
	UserManagementConfig struct {
		PWHashing struct {
			Argon2Memory      uint32 `json:"argon2_memory" yaml:"argon2_memory"`
			Argon2Iterations  uint32 `json:"argon2_iterations" yaml:"argon2_iterations"`
			Argon2Parallelism uint8  `json:"argon2_parallelism" yaml:"argon2_parallelism"`
		} `json:"pw_hashing" yaml:"pw_hashing"`
		TokenConfig struct {
			SignKey               string        `json:"sign_key" yaml:"sign_key"`
			AccessTokenTTL        time.Duration `json:"access_token_ttl" yaml:"access_token_ttl"`
			PasswordResetTokenTTL time.Duration `json:"password_reset_token_ttl" yaml:"password_reset_token_ttl"`
		} `json:"token_config" yaml:"token_config"`
		Lockout struct {
			Threshold int           `json:"threshold" yaml:"threshold"`
			Duration  time.Duration `json:"duration" yaml:"duration"`
		} `json:"lockout" yaml:"lockout"`
		// e.g. "60d"
		PasswordMaxAge           string `json:"password_max_age" yaml:"password_max_age"`
		TempCredentialLength     int    `json:"temp_credential_length" yaml:"temp_credential_length"`
		PasswordResetLinkBase    string `json:"password_reset_link_base" yaml:"password_reset_link_base"`
		BlockedPasswordsFilePath string `json:"blocked_passwords_file_path" yaml:"blocked_passwords_file_path"`
	} `json:"user_management_config" yaml:"user_management_config"`

	// DB configs
	DBConfigs struct {
		UserAccountsDB db.DBConfigYaml `json:"user_accounts_db" yaml:"user_accounts_db"`
	} `json:"db_configs" yaml:"db_configs"`

	MessagingConfigs messagingTypes.MessagingConfigs `json:"messaging_configs" yaml:"messaging_configs"`
}

var (
	userAccountsDBService *userAccountsDB.UserAccountsDBService
	metricsRegistry       *prometheus.Registry
	authMetrics           *metrics.Metrics
	userManagement        *usermanagement.UserManagement
	smtpClients           *smtp_client.SmtpClients
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

	if !conf.GinConfig.DebugMode {
		gin.SetMode(gin.ReleaseMode)
	}

	initMetrics()

	// Init DBs
	initDBs()

	initUserManagement(initNotificationGateway())
}

func secretsOverride() {
	if dbUsername := os.Getenv(ENV_USER_ACCOUNTS_DB_USERNAME); dbUsername != "" {
		conf.DBConfigs.UserAccountsDB.Username = dbUsername
	}

	if dbPassword := os.Getenv(ENV_USER_ACCOUNTS_DB_PASSWORD); dbPassword != "" {
		conf.DBConfigs.UserAccountsDB.Password = dbPassword
	}

	if signKey := os.Getenv(ENV_TOKEN_SIGN_KEY); signKey != "" {
		conf.UserManagementConfig.TokenConfig.SignKey = signKey
	}

	if botToken := os.Getenv(ENV_TELEGRAM_BOT_TOKEN); botToken != "" {
		conf.MessagingConfigs.TelegramConfig.BotToken = botToken
	}

	if ttl := os.Getenv(ENV_ACCESS_TOKEN_TTL); ttl != "" {
		d, err := utils.ParseDurationString(ttl)
		if err != nil {
			slog.Error("invalid access token ttl", slog.String("error", err.Error()))
			panic(err)
		}
		conf.UserManagementConfig.TokenConfig.AccessTokenTTL = d
	}
}

func initMetrics() {
	metricsRegistry = prometheus.NewRegistry()
	metricsRegistry.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)
	authMetrics = metrics.NewMetrics(metricsRegistry)
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

func initNotificationGateway() *messaging.Dispatcher {
	msgConf := conf.MessagingConfigs

	var overrides []messagingTypes.MessageTemplate
	if msgConf.TemplatesFilePath != "" {
		var err error
		overrides, err = templates.LoadTemplatesFromFile(msgConf.TemplatesFilePath)
		if err != nil {
			slog.Error("Error loading message templates", slog.String("error", err.Error()))
			panic(err)
		}
	}
	registry, err := templates.NewRegistry(overrides, msgConf.GlobalEmailTemplateConstants)
	if err != nil {
		slog.Error("Error parsing message templates", slog.String("error", err.Error()))
		panic(err)
	}

	channels := []messaging.Channel{}
	for _, channel := range msgConf.Channels {
		switch channel {
		case messagingTypes.CHANNEL_EMAIL:
			channels = append(channels, emailsending.NewEmailChannel(
				initSmtpClients(msgConf.SmtpServerConfigFilePath),
				registry,
				msgConf.DefaultLanguage,
				msgConf.HeaderOverrides,
			))
		case messagingTypes.CHANNEL_TELEGRAM:
			tc, err := telegram.NewTelegramChannel(
				msgConf.TelegramConfig.APIURL,
				msgConf.TelegramConfig.BotToken,
				msgConf.TelegramConfig.ChatID,
				msgConf.TelegramConfig.RequestTimeout,
				registry,
				msgConf.DefaultLanguage,
			)
			if err != nil {
				slog.Error("Error setting up telegram channel", slog.String("error", err.Error()))
				panic(err)
			}
			channels = append(channels, tc)
		default:
			slog.Error("unknown notification channel", slog.String("channel", channel))
			panic("unknown notification channel: " + channel)
		}
	}
	if len(channels) == 0 {
		slog.Warn("no notification channel configured, password reset messages cannot be delivered")
	}

	dispatcher := messaging.NewDispatcher(authMetrics, channels...)
	slog.Info("notification channels ready", slog.Any("channels", dispatcher.ChannelNames()))
	return dispatcher
}

func initSmtpClients(configFilePath string) *smtp_client.SmtpClients {
	servers := smtp_client.SmtpServerList{}
	if err := servers.ReadFromFile(configFilePath); err != nil {
		panic(err)
	}
	servers.OverrideAuth(os.Getenv(ENV_SMTP_USERNAME), os.Getenv(ENV_SMTP_PASSWORD))
	for i := range servers.Servers {
		if password := os.Getenv(utils.GenerateSMTPPasswordEnvVarName(servers.Servers[i].Host)); password != "" {
			servers.Servers[i].AuthData.Password = password
		}
	}

	var err error
	smtpClients, err = smtp_client.NewSmtpClients(servers)
	if err != nil {
		slog.Error("Error connecting to SMTP servers", slog.String("error", err.Error()))
		panic(err)
	}
	return smtpClients
}

func initUserManagement(gateway usermanagement.NotificationGateway) {
	umConf := conf.UserManagementConfig

	hasher, err := pwhash.NewArgon2Hasher(pwhash.Argon2Params{
		Memory:      umConf.PWHashing.Argon2Memory,
		Iterations:  umConf.PWHashing.Argon2Iterations,
		Parallelism: umConf.PWHashing.Argon2Parallelism,
	})
	if err != nil {
		panic(err)
	}

	var maxAge time.Duration
	if umConf.PasswordMaxAge != "" {
		maxAge, err = utils.ParseDurationString(umConf.PasswordMaxAge)
		if err != nil {
			panic(err)
		}
	}

	var blockedPasswords umUtils.PasswordBlocklist
	if umConf.BlockedPasswordsFilePath != "" {
		blockedPasswords, err = umUtils.LoadBlockedPasswords(umConf.BlockedPasswordsFilePath)
		if err != nil {
			panic(err)
		}
	}

	userManagement, err = usermanagement.New(
		userAccountsDBService,
		hasher,
		gateway,
		usermanagement.Config{
			TokenSignKey:          umConf.TokenConfig.SignKey,
			AccessTokenTTL:        umConf.TokenConfig.AccessTokenTTL,
			PasswordResetTokenTTL: umConf.TokenConfig.PasswordResetTokenTTL,
			PasswordResetLinkBase: umConf.PasswordResetLinkBase,
			TempCredentialLength:  umConf.TempCredentialLength,
			Lockout: policies.LockoutPolicy{
				Threshold: umConf.Lockout.Threshold,
				Duration:  umConf.Lockout.Duration,
			},
			PasswordLifecycle: policies.PasswordLifecyclePolicy{MaxAge: maxAge},
			BlockedPasswords:  blockedPasswords,
		},
	)
	if err != nil {
		slog.Error("Error setting up user management", slog.String("error", err.Error()))
		panic(err)
	}
}
