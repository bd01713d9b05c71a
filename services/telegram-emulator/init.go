package main

import (
	"os"

	"github.com/gin-gonic/gin"
	"github.com/legal-quotation/quotation-backend/pkg/utils"
	"gopkg.in/yaml.v2"
)

// Environment variables
const (
	ENV_CONFIG_FILE_PATH   = "CONFIG_FILE_PATH"
	ENV_TELEGRAM_BOT_TOKEN = "TELEGRAM_BOT_TOKEN"
)

type config struct {
	Logging utils.LoggerConfig `json:"logging" yaml:"logging"`

	// Gin configs
	GinConfig struct {
		DebugMode bool   `json:"debug_mode" yaml:"debug_mode"`
		Port      string `json:"port" yaml:"port"`
	} `json:"gin_config" yaml:"gin_config"`

	BotTokens   []string `json:"bot_tokens" yaml:"bot_tokens"`
	MessagesDir string   `json:"messages_dir" yaml:"messages_dir"`
}

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

	utils.InitLogger(conf.Logging)

	if botToken := os.Getenv(ENV_TELEGRAM_BOT_TOKEN); botToken != "" {
		conf.BotTokens = append(conf.BotTokens, botToken)
	}

	if len(conf.BotTokens) == 0 {
		panic("No bot tokens provided for Telegram emulator.")
	}

	if !conf.GinConfig.DebugMode {
		gin.SetMode(gin.ReleaseMode)
	}
}
