package consumer

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"testing"

	"github.com/segmentio/kafka-go"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/nobaplatform/notification-dispatcher/internal/dispatcher/application"
)

type fakeDispatchService struct {
	commands []application.DispatchCommand
	err      error
}

func (s *fakeDispatchService) Dispatch(_ context.Context, cmd application.DispatchCommand) error {
	s.commands = append(s.commands, cmd)
	return s.err
}

func testLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func TestDomainEventHandler(t *testing.T) {
	ctx := context.Background()

	t.Run("valid message is dispatched", func(t *testing.T) {
		service := &fakeDispatchService{}
		h := NewDomainEventHandler(service, testLogger())

		msg := kafka.Message{Value: []byte(`{
			"kind": "otp.requested",
			"locale": "es_co",
			"first_name": "Ada",
			"recipient": {"consumer_id": "consumer-1", "email": "ada@example.com"},
			"params": {"otp": "123456"}
		}`)}
		require.NoError(t, h.Handle(ctx, msg))

		require.Len(t, service.commands, 1)
		cmd := service.commands[0]
		assert.Equal(t, "otp.requested", cmd.Kind)
		assert.Equal(t, "es_co", cmd.Locale)
		assert.Equal(t, "consumer-1", cmd.Recipient.ConsumerID)
		assert.Equal(t, "123456", cmd.Params.OTP)
	})

	t.Run("poison message is dropped without error", func(t *testing.T) {
		service := &fakeDispatchService{}
		h := NewDomainEventHandler(service, testLogger())

		msg := kafka.Message{Topic: "noba.events", Offset: 42, Value: []byte(`{not json`)}
		require.NoError(t, h.Handle(ctx, msg))
		assert.Empty(t, service.commands)
	})

	t.Run("dispatch failure does not block the consumer offset", func(t *testing.T) {
		service := &fakeDispatchService{err: errors.New("invalid kind")}
		h := NewDomainEventHandler(service, testLogger())

		msg := kafka.Message{Value: []byte(`{"kind": "bogus"}`)}
		require.NoError(t, h.Handle(ctx, msg))
		assert.Len(t, service.commands, 1)
	})
}
