package messaging

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/legal-quotation/quotation-backend/pkg/metrics"
	messagingTypes "github.com/legal-quotation/quotation-backend/pkg/messaging/types"
)

// Channel delivers a notification over one medium (email, telegram, ...).
type Channel interface {
	Name() string
	Send(ctx context.Context, notification messagingTypes.Notification) error
}

// Dispatcher sends each notification over all configured channels. Delivery
// only counts as successful if every channel accepted the message; the
// remaining channels are still tried after a failure.
type Dispatcher struct {
	channels []Channel
	metrics  *metrics.Metrics
}

func NewDispatcher(m *metrics.Metrics, channels ...Channel) *Dispatcher {
	return &Dispatcher{
		channels: channels,
		metrics:  m,
	}
}

func (d *Dispatcher) Deliver(ctx context.Context, notification messagingTypes.Notification) error {
	if len(d.channels) == 0 {
		return errors.New("no notification channel configured")
	}

	var errs []error
	for _, ch := range d.channels {
		err := ch.Send(ctx, notification)
		d.metrics.ObserveNotification(ch.Name(), err)
		if err != nil {
			slog.Error("notification delivery failed", slog.String("channel", ch.Name()), slog.String("messageType", notification.MessageType), slog.String("error", err.Error()))
			errs = append(errs, fmt.Errorf("%s: %w", ch.Name(), err))
		}
	}
	return errors.Join(errs...)
}

func (d *Dispatcher) ChannelNames() []string {
	names := make([]string, len(d.channels))
	for i, ch := range d.channels {
		names[i] = ch.Name()
	}
	return names
}
