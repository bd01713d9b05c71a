package messaging

import (
	"context"
	"errors"
	"testing"

	"github.com/legal-quotation/quotation-backend/pkg/metrics"
	messagingTypes "github.com/legal-quotation/quotation-backend/pkg/messaging/types"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
)

type mockChannel struct {
	mock.Mock
	name string
}

func (m *mockChannel) Name() string {
	return m.name
}

func (m *mockChannel) Send(ctx context.Context, notification messagingTypes.Notification) error {
	args := m.Called(ctx, notification)
	return args.Error(0)
}

func TestDispatcherDeliver(t *testing.T) {
	notification := messagingTypes.Notification{
		Recipient:   messagingTypes.Recipient{Username: "alice", Email: "alice@x.com"},
		MessageType: messagingTypes.MESSAGE_TYPE_TEMPORARY_PASSWORD,
	}

	t.Run("all channels succeed", func(t *testing.T) {
		email := &mockChannel{name: "email"}
		telegram := &mockChannel{name: "telegram"}
		email.On("Send", mock.Anything, notification).Return(nil).Once()
		telegram.On("Send", mock.Anything, notification).Return(nil).Once()

		d := NewDispatcher(nil, email, telegram)
		assert.NoError(t, d.Deliver(context.Background(), notification))
		assert.Equal(t, []string{"email", "telegram"}, d.ChannelNames())
		email.AssertExpectations(t)
		telegram.AssertExpectations(t)
	})

	t.Run("one channel fails", func(t *testing.T) {
		m := metrics.NewMetrics(prometheus.NewRegistry())
		email := &mockChannel{name: "email"}
		telegram := &mockChannel{name: "telegram"}
		email.On("Send", mock.Anything, notification).Return(errors.New("smtp down")).Once()
		telegram.On("Send", mock.Anything, notification).Return(nil).Once()

		d := NewDispatcher(m, email, telegram)
		err := d.Deliver(context.Background(), notification)
		assert.ErrorContains(t, err, "email: smtp down")
		telegram.AssertExpectations(t)

		assert.Equal(t, float64(1), testutil.ToFloat64(m.NotificationsTotal.WithLabelValues("email", "failed")))
		assert.Equal(t, float64(1), testutil.ToFloat64(m.NotificationsTotal.WithLabelValues("telegram", "sent")))
	})

	t.Run("no channels", func(t *testing.T) {
		assert.Error(t, NewDispatcher(nil).Deliver(context.Background(), notification))
	})
}
