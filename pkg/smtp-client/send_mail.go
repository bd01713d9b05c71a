package smtp_client

import (
	"errors"
	"log/slog"
	"net/textproto"
	"sync/atomic"

	messagingTypes "github.com/legal-quotation/quotation-backend/pkg/messaging/types"
	"github.com/knadh/smtppool"
)

func (sc *SmtpClients) SendMail(
	to []string,
	subject string,
	htmlContent string,
	overrides *messagingTypes.HeaderOverrides,
) error {
	sc.mu.RLock()
	poolCount := len(sc.connectionPool)
	sc.mu.RUnlock()
	if poolCount < 1 {
		return errors.New("no servers defined")
	}

	index := int(atomic.AddUint64(&sc.counter, 1) % uint64(poolCount))
	sc.mu.RLock()
	selectedServer := sc.connectionPool[index]
	sc.mu.RUnlock()

	From := sc.servers.From
	Sender := sc.servers.Sender
	ReplyTo := sc.servers.ReplyTo

	if overrides != nil {
		if overrides.From != "" {
			From = overrides.From
		}
		if overrides.Sender != "" {
			Sender = overrides.Sender
		}

		if overrides.NoReplyTo {
			ReplyTo = []string{}
		} else if len(overrides.ReplyTo) > 0 {
			ReplyTo = overrides.ReplyTo
		}
	}

	e := smtppool.Email{
		To:      to,
		From:    From,
		Sender:  Sender,
		ReplyTo: ReplyTo,
		Subject: subject,
		HTML:    []byte(htmlContent),
		Headers: textproto.MIMEHeader{},
	}
	err := selectedServer.Send(e)

	if err != nil {
		// close and try to reconnect
		slog.Error("error when trying to send email", slog.String("error", err.Error()))

		server := sc.servers.Servers[sc.serverIndex[index]]
		pool, errReconnect := connectToPool(server)
		if errReconnect != nil {
			slog.Error("cannot reconnect pool", slog.String("error", errReconnect.Error()), slog.String("server", server.Host))
		} else {
			slog.Info("reconnected to pool", slog.String("server", server.Host))
			sc.mu.Lock()
			sc.connectionPool[index] = pool
			sc.mu.Unlock()
			selectedServer.Close()
		}
	}
	return err
}

func (sc *SmtpClients) Close() {
	sc.mu.Lock()
	defer sc.mu.Unlock()
	for _, pool := range sc.connectionPool {
		pool.Close()
	}
	sc.connectionPool = nil
}
