package telegram

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	httpclient "github.com/legal-quotation/quotation-backend/pkg/http-client"
	"github.com/legal-quotation/quotation-backend/pkg/messaging/templates"
	messagingTypes "github.com/legal-quotation/quotation-backend/pkg/messaging/types"
)

const (
	DEFAULT_API_URL         = "https://api.telegram.org"
	DEFAULT_REQUEST_TIMEOUT = 10 * time.Second
)

// TelegramChannel posts notifications to a fixed operator chat through the Bot API.
type TelegramChannel struct {
	client    httpclient.ClientConfig
	botToken  string
	chatID    string
	templates *templates.Registry
	lang      string
}

func NewTelegramChannel(
	apiURL string,
	botToken string,
	chatID string,
	requestTimeout time.Duration,
	templateRegistry *templates.Registry,
	lang string,
) (*TelegramChannel, error) {
	if botToken == "" || chatID == "" {
		return nil, errors.New("telegram bot token and chat id are required")
	}
	if apiURL == "" {
		apiURL = DEFAULT_API_URL
	}
	if requestTimeout <= 0 {
		requestTimeout = DEFAULT_REQUEST_TIMEOUT
	}
	return &TelegramChannel{
		client: httpclient.ClientConfig{
			RootURL: apiURL,
			Timeout: requestTimeout,
		},
		botToken:  botToken,
		chatID:    chatID,
		templates: templateRegistry,
		lang:      lang,
	}, nil
}

func (tc *TelegramChannel) Name() string {
	return messagingTypes.CHANNEL_TELEGRAM
}

type sendMessageReq struct {
	ChatID    string `json:"chat_id"`
	Text      string `json:"text"`
	ParseMode string `json:"parse_mode"`
}

func (tc *TelegramChannel) Send(ctx context.Context, notification messagingTypes.Notification) error {
	payload := make(map[string]string, len(notification.Payload)+2)
	payload["username"] = notification.Recipient.Username
	payload["email"] = notification.Recipient.Email
	for k, v := range notification.Payload {
		payload[k] = v
	}

	_, text, err := tc.templates.Render(messagingTypes.CHANNEL_TELEGRAM, notification.MessageType, tc.lang, payload)
	if err != nil {
		slog.Error("failed to render telegram template", slog.String("messageType", notification.MessageType), slog.String("error", err.Error()))
		return err
	}

	resp, err := tc.client.RunHTTPcall(ctx, "/bot"+tc.botToken+"/sendMessage", sendMessageReq{
		ChatID:    tc.chatID,
		Text:      text,
		ParseMode: "HTML",
	})
	if ok, _ := resp["ok"].(bool); err != nil || !ok {
		description, _ := resp["description"].(string)
		if err == nil {
			err = errors.New("telegram api rejected message")
		}
		if description != "" {
			err = fmt.Errorf("%w: %s", err, description)
		}
		return err
	}
	slog.Debug("telegram message sent", slog.String("messageType", notification.MessageType))
	return nil
}
