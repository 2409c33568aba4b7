package application

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/nobaplatform/notification-dispatcher/internal/dispatcher/domain"
)

func newTestService(templates *fakeTemplateRepo) *NotificationService {
	d := NewDispatcher(&fakeConfigRepo{}, newFakeDeliveryRepo(), &fakePublisher{}, testLogger())
	return NewNotificationService(d, templates, newFakeDeliveryRepo())
}

func TestUpsertTemplate(t *testing.T) {
	ctx := context.Background()

	t.Run("external template stored without inline content", func(t *testing.T) {
		repo := &fakeTemplateRepo{}
		svc := newTestService(repo)

		err := svc.UpsertTemplate(ctx, UpsertTemplateCommand{
			EventKind:          "otp.requested",
			Channel:            "EMAIL",
			Locale:             "ES_CO",
			ExternalTemplateID: "sg-otp-es",
		})
		require.NoError(t, err)

		require.Len(t, repo.entries, 1)
		entry := repo.entries[0]
		assert.Equal(t, domain.Locale("es_co"), entry.Locale)
		ext, ok := entry.External()
		require.True(t, ok)
		assert.Equal(t, "sg-otp-es", ext.TemplateID)
		_, inline := entry.Inline()
		assert.False(t, inline)
	})

	t.Run("inline template stored with title and body", func(t *testing.T) {
		repo := &fakeTemplateRepo{}
		svc := newTestService(repo)

		err := svc.UpsertTemplate(ctx, UpsertTemplateCommand{
			EventKind: "otp.requested",
			Channel:   "SMS",
			Locale:    "en",
			Body:      "{{otp}} is your code",
		})
		require.NoError(t, err)

		require.Len(t, repo.entries, 1)
		inline, ok := repo.entries[0].Inline()
		require.True(t, ok)
		assert.Equal(t, "{{otp}} is your code", inline.Body)
	})

	t.Run("external id and body together are rejected", func(t *testing.T) {
		svc := newTestService(&fakeTemplateRepo{})

		err := svc.UpsertTemplate(ctx, UpsertTemplateCommand{
			EventKind:          "otp.requested",
			Channel:            "SMS",
			Locale:             "en",
			ExternalTemplateID: "sg-otp",
			Body:               "{{otp}}",
		})
		require.Error(t, err)
		assert.True(t, IsBadTemplateRequest(err))
	})

	t.Run("empty content is rejected", func(t *testing.T) {
		svc := newTestService(&fakeTemplateRepo{})

		err := svc.UpsertTemplate(ctx, UpsertTemplateCommand{
			EventKind: "otp.requested",
			Channel:   "SMS",
			Locale:    "en",
		})
		require.Error(t, err)
		assert.True(t, IsBadTemplateRequest(err))
	})

	t.Run("unknown event kind is rejected", func(t *testing.T) {
		svc := newTestService(&fakeTemplateRepo{})

		err := svc.UpsertTemplate(ctx, UpsertTemplateCommand{
			EventKind: "nope",
			Channel:   "SMS",
			Locale:    "en",
			Body:      "x",
		})
		var validationErr *domain.ValidationError
		require.ErrorAs(t, err, &validationErr)
		assert.Equal(t, "event_kind", validationErr.Field)
	})

	t.Run("unknown channel is rejected", func(t *testing.T) {
		svc := newTestService(&fakeTemplateRepo{})

		err := svc.UpsertTemplate(ctx, UpsertTemplateCommand{
			EventKind: "otp.requested",
			Channel:   "FAX",
			Locale:    "en",
			Body:      "x",
		})
		var validationErr *domain.ValidationError
		require.ErrorAs(t, err, &validationErr)
		assert.Equal(t, "channel", validationErr.Field)
	})
}
