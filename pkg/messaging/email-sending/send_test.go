package emailsending

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/legal-quotation/quotation-backend/pkg/messaging/templates"
	messagingTypes "github.com/legal-quotation/quotation-backend/pkg/messaging/types"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type sentMail struct {
	to      []string
	subject string
	content string
}

type fakeSender struct {
	sent []sentMail
	err  error
}

func (f *fakeSender) SendMail(to []string, subject string, htmlContent string, overrides *messagingTypes.HeaderOverrides) error {
	if f.err != nil {
		return f.err
	}
	f.sent = append(f.sent, sentMail{to: to, subject: subject, content: htmlContent})
	return nil
}

func newTestChannel(t *testing.T, sender MailSender) *EmailChannel {
	registry, err := templates.NewRegistry(nil, map[string]string{"appName": "Quotations"})
	require.NoError(t, err)
	return NewEmailChannel(sender, registry, "en", nil)
}

func TestEmailChannelSend(t *testing.T) {
	sender := &fakeSender{}
	ch := newTestChannel(t, sender)

	err := ch.Send(context.Background(), messagingTypes.Notification{
		Recipient:   messagingTypes.Recipient{Username: "alice", Email: "alice@x.com"},
		MessageType: messagingTypes.MESSAGE_TYPE_TEMPORARY_PASSWORD,
		Subject:     "fallback",
		Payload:     map[string]string{"temporaryPassword": "Tmp1!tmp2@TMP"},
	})
	require.NoError(t, err)
	require.Len(t, sender.sent, 1)
	assert.Equal(t, []string{"alice@x.com"}, sender.sent[0].to)
	assert.Equal(t, "Password recovery", sender.sent[0].subject)
	assert.True(t, strings.Contains(sender.sent[0].content, "Tmp1!tmp2@TMP"))
	assert.True(t, strings.Contains(sender.sent[0].content, "alice"))
}

func TestEmailChannelErrors(t *testing.T) {
	t.Run("missing email", func(t *testing.T) {
		ch := newTestChannel(t, &fakeSender{})
		err := ch.Send(context.Background(), messagingTypes.Notification{MessageType: messagingTypes.MESSAGE_TYPE_TEMPORARY_PASSWORD})
		assert.Error(t, err)
	})

	t.Run("sender failure", func(t *testing.T) {
		ch := newTestChannel(t, &fakeSender{err: errors.New("smtp down")})
		err := ch.Send(context.Background(), messagingTypes.Notification{
			Recipient:   messagingTypes.Recipient{Username: "alice", Email: "alice@x.com"},
			MessageType: messagingTypes.MESSAGE_TYPE_TEMPORARY_PASSWORD,
		})
		assert.EqualError(t, err, "smtp down")
	})

	t.Run("cancelled context", func(t *testing.T) {
		sender := &fakeSender{}
		ch := newTestChannel(t, sender)
		ctx, cancel := context.WithCancel(context.Background())
		cancel()
		err := ch.Send(ctx, messagingTypes.Notification{
			Recipient:   messagingTypes.Recipient{Username: "alice", Email: "alice@x.com"},
			MessageType: messagingTypes.MESSAGE_TYPE_TEMPORARY_PASSWORD,
		})
		assert.ErrorIs(t, err, context.Canceled)
		assert.Empty(t, sender.sent)
	})
}
