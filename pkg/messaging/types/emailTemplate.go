package types

const (
	MESSAGE_TYPE_TEMPORARY_PASSWORD  = "temporary-password"
	MESSAGE_TYPE_PASSWORD_RESET_LINK = "password-reset-link"
)

// MessageTemplate holds the translations of one message type for one channel.
type MessageTemplate struct {
	MessageType     string              `json:"messageType" yaml:"message_type"`
	Channel         string              `json:"channel" yaml:"channel"`
	DefaultLanguage string              `json:"defaultLanguage" yaml:"default_language"`
	Translations    []LocalizedTemplate `json:"translations" yaml:"translations"`
}

type HeaderOverrides struct {
	From      string   `json:"from" yaml:"from"`
	Sender    string   `json:"sender" yaml:"sender"`
	ReplyTo   []string `json:"replyTo" yaml:"reply_to"`
	NoReplyTo bool     `json:"noReplyTo" yaml:"no_reply_to"`
}

type LocalizedTemplate struct {
	Lang        string `json:"lang" yaml:"lang"`
	Subject     string `json:"subject" yaml:"subject"`
	TemplateDef string `json:"templateDef" yaml:"template_def"`
}
