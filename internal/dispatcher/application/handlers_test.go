package application

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/nobaplatform/notification-dispatcher/internal/dispatcher/domain"
)

var testSenderConfig = SenderConfig{
	FromEmail:       "no-reply@noba.com",
	ComplianceEmail: "compliance@noba.com",
	SupportURL:      "https://help.noba.com",
}

func emailEntry(kind domain.EventKind, locale domain.Locale, templateID string) *domain.TemplateEntry {
	return &domain.TemplateEntry{
		EventKind: kind,
		Channel:   domain.ChannelEmail,
		Locale:    locale,
		Content:   domain.ExternalTemplate{TemplateID: templateID},
	}
}

func TestEmailHandler(t *testing.T) {
	ctx := context.Background()

	t.Run("otp email resolves locale and sends exact template data", func(t *testing.T) {
		repo := &fakeTemplateRepo{entries: []*domain.TemplateEntry{
			emailEntry(domain.EventKindOTPRequested, "en", "sg-otp-en"),
			emailEntry(domain.EventKindOTPRequested, "es", "sg-otp-es"),
		}}
		transport := &fakeEmailTransport{}
		h := NewEmailHandler(NewTemplateCatalog(repo), transport, testSenderConfig)

		event := otpEvent("")
		event.Locale = "es_co"
		require.NoError(t, h.Handle(ctx, event))

		require.Len(t, transport.calls, 1)
		call := transport.calls[0]
		assert.Equal(t, "ada@example.com", call.to)
		assert.Equal(t, "no-reply@noba.com", call.from)
		assert.Equal(t, "sg-otp-es", call.templateID)
		assert.Equal(t, map[string]string{
			"firstName":         "Ada",
			"one_time_password": "123456",
		}, call.data)
	})

	t.Run("hard decline goes to the compliance inbox", func(t *testing.T) {
		repo := &fakeTemplateRepo{entries: []*domain.TemplateEntry{
			emailEntry(domain.EventKindHardDecline, "en", "sg-hard-decline"),
		}}
		transport := &fakeEmailTransport{}
		h := NewEmailHandler(NewTemplateCatalog(repo), transport, testSenderConfig)

		event := &domain.NotificationEvent{
			Kind:      domain.EventKindHardDecline,
			Locale:    "en",
			FirstName: "Ada",
			LastName:  "Lovelace",
			Recipient: domain.Recipient{ConsumerID: "consumer-1", Email: "ada@example.com"},
			Params:    domain.EventParams{SessionID: "sess-9", DeclineReason: "sanctions hit"},
		}
		require.NoError(t, h.Handle(ctx, event))

		require.Len(t, transport.calls, 1)
		call := transport.calls[0]
		assert.Equal(t, "compliance@noba.com", call.to)
		assert.Equal(t, "Lovelace", call.data["lastName"])
		assert.Equal(t, "ada@example.com", call.data["email"])
		assert.Equal(t, "sess-9", call.data["sessionId"])
		assert.Equal(t, "sanctions hit", call.data["reasonDeclined"])
	})

	t.Run("failure kinds carry the support url", func(t *testing.T) {
		repo := &fakeTemplateRepo{entries: []*domain.TemplateEntry{
			emailEntry(domain.EventKindDepositFailed, "en", "sg-deposit-failed"),
		}}
		transport := &fakeEmailTransport{}
		h := NewEmailHandler(NewTemplateCatalog(repo), transport, testSenderConfig)

		event := validDepositEvent(domain.EventKindDepositFailed)
		event.Params.Transaction.FailureReason = "insufficient funds"
		require.NoError(t, h.Handle(ctx, event))

		require.Len(t, transport.calls, 1)
		data := transport.calls[0].data
		assert.Equal(t, "https://help.noba.com", data["supportUrl"])
		assert.Equal(t, "insufficient funds", data["reasonDeclined"])
	})

	t.Run("deposit amounts are formatted with display currency and subtotal", func(t *testing.T) {
		repo := &fakeTemplateRepo{entries: []*domain.TemplateEntry{
			emailEntry(domain.EventKindDepositCompleted, "en", "sg-deposit-ok"),
		}}
		transport := &fakeEmailTransport{}
		h := NewEmailHandler(NewTemplateCatalog(repo), transport, testSenderConfig)

		require.NoError(t, h.Handle(ctx, validDepositEvent(domain.EventKindDepositCompleted)))

		require.Len(t, transport.calls, 1)
		data := transport.calls[0].data
		assert.Equal(t, "1.00", data["amount"])
		assert.Equal(t, "USDC", data["currency"])
		assert.Equal(t, "1.57", data["subtotal"])
		assert.Equal(t, "0.23", data["processingFees"])
		assert.Equal(t, "0.34", data["nobaFees"])
		assert.Equal(t, "tx-001", data["transactionRef"])
		assert.NotContains(t, data, "supportUrl")
	})

	t.Run("inline entry on the email channel is rejected", func(t *testing.T) {
		repo := &fakeTemplateRepo{entries: []*domain.TemplateEntry{{
			EventKind: domain.EventKindOTPRequested,
			Channel:   domain.ChannelEmail,
			Locale:    "en",
			Content:   domain.InlineTemplate{Body: "{{otp}}"},
		}}}
		transport := &fakeEmailTransport{}
		h := NewEmailHandler(NewTemplateCatalog(repo), transport, testSenderConfig)

		assert.Error(t, h.Handle(ctx, otpEvent("")))
		assert.Empty(t, transport.calls)
	})

	t.Run("missing recipient email fails before any send", func(t *testing.T) {
		transport := &fakeEmailTransport{}
		h := NewEmailHandler(NewTemplateCatalog(&fakeTemplateRepo{}), transport, testSenderConfig)

		event := otpEvent("")
		event.Recipient.Email = ""
		var validationErr *domain.ValidationError
		require.ErrorAs(t, h.Handle(ctx, event), &validationErr)
		assert.Equal(t, "recipient.email", validationErr.Field)
		assert.Empty(t, transport.calls)
	})

	t.Run("transport failure is wrapped as a transport error", func(t *testing.T) {
		repo := &fakeTemplateRepo{entries: []*domain.TemplateEntry{
			emailEntry(domain.EventKindOTPRequested, "en", "sg-otp-en"),
		}}
		transport := &fakeEmailTransport{err: errors.New("502 from provider")}
		h := NewEmailHandler(NewTemplateCatalog(repo), transport, testSenderConfig)

		var transportErr *domain.TransportError
		require.ErrorAs(t, h.Handle(ctx, otpEvent("")), &transportErr)
		assert.Equal(t, domain.ChannelEmail, transportErr.Channel)
	})
}

func validDepositEvent(kind domain.EventKind) *domain.NotificationEvent {
	return &domain.NotificationEvent{
		Kind:      kind,
		Locale:    "en",
		FirstName: "Ada",
		Handle:    "$ada",
		Recipient: domain.Recipient{ConsumerID: "consumer-1", Email: "ada@example.com"},
		Params: domain.EventParams{
			Transaction: &domain.TransactionParams{
				TransactionRef: "tx-001",
				Direction:      domain.DirectionCredit,
				CreditAmount:   1,
				CreditCurrency: "USD",
				ProcessingFees: 0.23,
				NobaFees:       0.34,
				CreatedAt:      time.Date(2023, time.March, 5, 14, 30, 0, 0, time.UTC),
			},
		},
	}
}

func TestSMSHandler(t *testing.T) {
	ctx := context.Background()

	t.Run("renders inline body and sends to phone number", func(t *testing.T) {
		repo := &fakeTemplateRepo{entries: []*domain.TemplateEntry{
			smsEntry("en", "{{otp}} is your one-time password for Noba login."),
		}}
		transport := &fakeSMSTransport{}
		h := NewSMSHandler(NewTemplateCatalog(repo), transport)

		require.NoError(t, h.Handle(ctx, otpEvent("")))

		require.Len(t, transport.calls, 1)
		assert.Equal(t, "+573001112233", transport.calls[0].phoneNumber)
		assert.Equal(t, "123456 is your one-time password for Noba login.", transport.calls[0].body)
	})

	t.Run("missing phone number fails before template lookup", func(t *testing.T) {
		repo := &fakeTemplateRepo{err: errors.New("must not be queried")}
		transport := &fakeSMSTransport{}
		h := NewSMSHandler(NewTemplateCatalog(repo), transport)

		event := otpEvent("")
		event.Recipient.PhoneNumber = ""
		var validationErr *domain.ValidationError
		require.ErrorAs(t, h.Handle(ctx, event), &validationErr)
		assert.Equal(t, "recipient.phone_number", validationErr.Field)
		assert.Empty(t, transport.calls)
	})

	t.Run("external entry on the sms channel is rejected", func(t *testing.T) {
		repo := &fakeTemplateRepo{entries: []*domain.TemplateEntry{{
			EventKind: domain.EventKindOTPRequested,
			Channel:   domain.ChannelSMS,
			Locale:    "en",
			Content:   domain.ExternalTemplate{TemplateID: "sg-otp"},
		}}}
		transport := &fakeSMSTransport{}
		h := NewSMSHandler(NewTemplateCatalog(repo), transport)

		assert.Error(t, h.Handle(ctx, otpEvent("")))
		assert.Empty(t, transport.calls)
	})
}

func TestPushHandler(t *testing.T) {
	ctx := context.Background()

	pushEntry := &domain.TemplateEntry{
		EventKind: domain.EventKindTransferCompleted,
		Channel:   domain.ChannelPush,
		Locale:    "en",
		Content:   domain.InlineTemplate{Title: "Transfer complete", Body: "{{handle}} received {{amount}} {{currency}}"},
	}

	pushEvent := func() *domain.NotificationEvent {
		e := validDepositEvent(domain.EventKindTransferCompleted)
		e.Recipient.PushTokens = []string{"token-a", "token-b"}
		return e
	}

	t.Run("every device token gets a rendered notification", func(t *testing.T) {
		repo := &fakeTemplateRepo{entries: []*domain.TemplateEntry{pushEntry}}
		transport := &fakePushTransport{}
		h := NewPushHandler(NewTemplateCatalog(repo), transport)

		require.NoError(t, h.Handle(ctx, pushEvent()))

		require.Len(t, transport.calls, 2)
		assert.Equal(t, "token-a", transport.calls[0].token)
		assert.Equal(t, "token-b", transport.calls[1].token)
		assert.Equal(t, "Transfer complete", transport.calls[0].title)
		assert.Equal(t, "$ada received 1.00 USDC", transport.calls[0].body)
		assert.Equal(t, "tx-001", transport.calls[0].metadata["transactionRef"])
	})

	t.Run("no push tokens fails validation", func(t *testing.T) {
		transport := &fakePushTransport{}
		h := NewPushHandler(NewTemplateCatalog(&fakeTemplateRepo{}), transport)

		event := pushEvent()
		event.Recipient.PushTokens = nil
		var validationErr *domain.ValidationError
		require.ErrorAs(t, h.Handle(ctx, event), &validationErr)
		assert.Equal(t, "recipient.push_tokens", validationErr.Field)
		assert.Empty(t, transport.calls)
	})

	t.Run("send failure surfaces as a transport error", func(t *testing.T) {
		repo := &fakeTemplateRepo{entries: []*domain.TemplateEntry{pushEntry}}
		transport := &fakePushTransport{err: errors.New("expo unreachable")}
		h := NewPushHandler(NewTemplateCatalog(repo), transport)

		var transportErr *domain.TransportError
		require.ErrorAs(t, h.Handle(ctx, pushEvent()), &transportErr)
		assert.Equal(t, domain.ChannelPush, transportErr.Channel)
		// 每个令牌都尝试过，失败不短路
		assert.Len(t, transport.calls, 2)
	})
}

func TestWebhookHandler(t *testing.T) {
	ctx := context.Background()

	endpoint := &domain.WebhookEndpoint{
		URL:       "https://partner.example.com/hooks/noba",
		APIKey:    "key-1",
		SecretKey: "secret-1",
	}

	t.Run("posts raw event payload to the partner endpoint", func(t *testing.T) {
		configs := &fakeConfigRepo{endpoints: map[string]*domain.WebhookEndpoint{"partner-1": endpoint}}
		transport := &fakeWebhookTransport{}
		h := NewWebhookHandler(configs, transport)

		event := validDepositEvent(domain.EventKindDepositCompleted)
		event.TargetID = "partner-1"
		require.NoError(t, h.Handle(ctx, event))

		require.Len(t, transport.calls, 1)
		assert.Same(t, endpoint, transport.calls[0].endpoint)

		payload, ok := transport.calls[0].payload.(WebhookPayload)
		require.True(t, ok)
		assert.Equal(t, domain.EventKindDepositCompleted, payload.Event)
		assert.Equal(t, "consumer-1", payload.Consumer.ID)
		assert.Equal(t, "$ada", payload.Consumer.Handle)
		// 参数保持原始数值形态，渲染由对端负责
		require.NotNil(t, payload.Params.Transaction)
		assert.Equal(t, 1.0, payload.Params.Transaction.CreditAmount)
	})

	t.Run("missing target id fails validation", func(t *testing.T) {
		transport := &fakeWebhookTransport{}
		h := NewWebhookHandler(&fakeConfigRepo{}, transport)

		event := validDepositEvent(domain.EventKindDepositCompleted)
		var validationErr *domain.ValidationError
		require.ErrorAs(t, h.Handle(ctx, event), &validationErr)
		assert.Equal(t, "target_id", validationErr.Field)
		assert.Empty(t, transport.calls)
	})

	t.Run("unknown endpoint surfaces config not found", func(t *testing.T) {
		transport := &fakeWebhookTransport{}
		h := NewWebhookHandler(&fakeConfigRepo{}, transport)

		event := validDepositEvent(domain.EventKindDepositCompleted)
		event.TargetID = "nobody"
		assert.ErrorIs(t, h.Handle(ctx, event), domain.ErrChannelConfigNotFound)
		assert.Empty(t, transport.calls)
	})
}
