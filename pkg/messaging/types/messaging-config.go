package types

import "time"

const (
	CHANNEL_EMAIL    = "email"
	CHANNEL_TELEGRAM = "telegram"
)

type MessagingConfigs struct {
	// Channels lists the active notification channels. Every listed channel
	// must accept a message for the delivery to count as successful.
	Channels        []string `json:"channels" yaml:"channels"`
	DefaultLanguage string   `json:"default_language" yaml:"default_language"`

	GlobalEmailTemplateConstants map[string]string `json:"global_email_template_constants" yaml:"global_email_template_constants"`
	// Optional file with templates replacing the built-in ones
	TemplatesFilePath string `json:"templates_file_path" yaml:"templates_file_path"`

	SmtpServerConfigFilePath string           `json:"smtp_server_config_file_path" yaml:"smtp_server_config_file_path"`
	HeaderOverrides          *HeaderOverrides `json:"header_overrides" yaml:"header_overrides"`

	TelegramConfig struct {
		APIURL         string        `json:"api_url" yaml:"api_url"`
		BotToken       string        `json:"bot_token" yaml:"bot_token"`
		ChatID         string        `json:"chat_id" yaml:"chat_id"`
		RequestTimeout time.Duration `json:"request_timeout" yaml:"request_timeout"`
	} `json:"telegram_config" yaml:"telegram_config"`
}
