package emailsending

import (
	"context"
	"errors"
	"log/slog"

	"github.com/legal-quotation/quotation-backend/pkg/messaging/templates"
	messagingTypes "github.com/legal-quotation/quotation-backend/pkg/messaging/types"
	umUtils "github.com/legal-quotation/quotation-backend/pkg/user-management/utils"
)

// MailSender is implemented by smtp_client.SmtpClients.
type MailSender interface {
	SendMail(to []string, subject string, htmlContent string, overrides *messagingTypes.HeaderOverrides) error
}

// EmailChannel sends notifications to the email address of the recipient.
type EmailChannel struct {
	sender          MailSender
	templates       *templates.Registry
	lang            string
	headerOverrides *messagingTypes.HeaderOverrides
}

func NewEmailChannel(
	sender MailSender,
	templateRegistry *templates.Registry,
	lang string,
	headerOverrides *messagingTypes.HeaderOverrides,
) *EmailChannel {
	return &EmailChannel{
		sender:          sender,
		templates:       templateRegistry,
		lang:            lang,
		headerOverrides: headerOverrides,
	}
}

func (ec *EmailChannel) Name() string {
	return messagingTypes.CHANNEL_EMAIL
}

func (ec *EmailChannel) Send(ctx context.Context, notification messagingTypes.Notification) error {
	if notification.Recipient.Email == "" {
		return errors.New("recipient has no email address")
	}
	if err := ctx.Err(); err != nil {
		return err
	}

	payload := withRecipient(notification)
	subject, content, err := ec.templates.Render(messagingTypes.CHANNEL_EMAIL, notification.MessageType, ec.lang, payload)
	if err != nil {
		slog.Error("failed to render email template", slog.String("messageType", notification.MessageType), slog.String("error", err.Error()))
		return err
	}
	if subject == "" {
		subject = notification.Subject
	}

	err = ec.sender.SendMail(
		[]string{notification.Recipient.Email},
		subject,
		content,
		ec.headerOverrides,
	)
	if err != nil {
		return err
	}
	slog.Debug("email sent", slog.String("email", umUtils.BlurEmailAddress(notification.Recipient.Email)), slog.String("messageType", notification.MessageType))
	return nil
}

func withRecipient(notification messagingTypes.Notification) map[string]string {
	payload := make(map[string]string, len(notification.Payload)+2)
	payload["username"] = notification.Recipient.Username
	payload["email"] = notification.Recipient.Email
	for k, v := range notification.Payload {
		payload[k] = v
	}
	return payload
}
