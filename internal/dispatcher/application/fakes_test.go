package application

import (
	"context"
	"sync"

	"github.com/nobaplatform/notification-dispatcher/internal/dispatcher/domain"
)

// 应用层测试共用的内存实现。

type fakeTemplateRepo struct {
	entries []*domain.TemplateEntry
	err     error
}

func (r *fakeTemplateRepo) ListByEventAndChannel(_ context.Context, kind domain.EventKind, channel domain.Channel) ([]*domain.TemplateEntry, error) {
	if r.err != nil {
		return nil, r.err
	}
	var out []*domain.TemplateEntry
	for _, entry := range r.entries {
		if entry.EventKind == kind && entry.Channel == channel {
			out = append(out, entry)
		}
	}
	return out, nil
}

func (r *fakeTemplateRepo) Save(_ context.Context, entry *domain.TemplateEntry) error {
	for i, existing := range r.entries {
		if existing.EventKind == entry.EventKind && existing.Channel == entry.Channel && existing.Locale == entry.Locale {
			r.entries[i] = entry
			return nil
		}
	}
	r.entries = append(r.entries, entry)
	return nil
}

func (r *fakeTemplateRepo) Delete(_ context.Context, kind domain.EventKind, channel domain.Channel, locale domain.Locale) error {
	out := r.entries[:0]
	for _, entry := range r.entries {
		if entry.EventKind != kind || entry.Channel != channel || entry.Locale != locale {
			out = append(out, entry)
		}
	}
	r.entries = out
	return nil
}

func (r *fakeTemplateRepo) List(_ context.Context) ([]*domain.TemplateEntry, error) {
	return r.entries, r.err
}

type fakeConfigRepo struct {
	channels  map[string][]domain.Channel
	endpoints map[string]*domain.WebhookEndpoint
	err       error
}

func configKey(targetID string, kind domain.EventKind) string {
	return targetID + "|" + string(kind)
}

func (r *fakeConfigRepo) GetChannels(_ context.Context, targetID string, kind domain.EventKind) ([]domain.Channel, error) {
	if r.err != nil {
		return nil, r.err
	}
	channels, ok := r.channels[configKey(targetID, kind)]
	if !ok {
		return nil, domain.ErrChannelConfigNotFound
	}
	return channels, nil
}

func (r *fakeConfigRepo) GetWebhookEndpoint(_ context.Context, targetID string) (*domain.WebhookEndpoint, error) {
	endpoint, ok := r.endpoints[targetID]
	if !ok {
		return nil, domain.ErrChannelConfigNotFound
	}
	return endpoint, nil
}

type fakeDeliveryRepo struct {
	mu      sync.Mutex
	records map[string]*domain.DeliveryRecord
}

func newFakeDeliveryRepo() *fakeDeliveryRepo {
	return &fakeDeliveryRepo{records: make(map[string]*domain.DeliveryRecord)}
}

func (r *fakeDeliveryRepo) Save(_ context.Context, record *domain.DeliveryRecord) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	saved := *record
	r.records[record.DeliveryID] = &saved
	return nil
}

func (r *fakeDeliveryRepo) ListByConsumerID(_ context.Context, consumerID string, _, _ int) ([]*domain.DeliveryRecord, int64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []*domain.DeliveryRecord
	for _, record := range r.records {
		if record.ConsumerID == consumerID {
			out = append(out, record)
		}
	}
	return out, int64(len(out)), nil
}

func (r *fakeDeliveryRepo) byChannel(channel domain.Channel) *domain.DeliveryRecord {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, record := range r.records {
		if record.Channel == channel {
			return record
		}
	}
	return nil
}

type fakePublisher struct {
	mu        sync.Mutex
	succeeded []domain.DeliverySucceededEvent
	failed    []domain.DeliveryFailedEvent
}

func (p *fakePublisher) PublishDeliverySucceeded(_ context.Context, event domain.DeliverySucceededEvent) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.succeeded = append(p.succeeded, event)
	return nil
}

func (p *fakePublisher) PublishDeliveryFailed(_ context.Context, event domain.DeliveryFailedEvent) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.failed = append(p.failed, event)
	return nil
}

type recordingHandler struct {
	mu      sync.Mutex
	channel domain.Channel
	calls   int
	err     error
}

func (h *recordingHandler) Channel() domain.Channel { return h.channel }

func (h *recordingHandler) Handle(_ context.Context, _ *domain.NotificationEvent) error {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.calls++
	return h.err
}

func (h *recordingHandler) callCount() int {
	h.mu.Lock()
	defer h.mu.Unlock()
	return h.calls
}

type emailCall struct {
	to, from, templateID string
	data                 map[string]string
}

type fakeEmailTransport struct {
	mu    sync.Mutex
	calls []emailCall
	err   error
}

func (t *fakeEmailTransport) Send(_ context.Context, to, from, templateID string, data map[string]string) error {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.calls = append(t.calls, emailCall{to: to, from: from, templateID: templateID, data: data})
	return t.err
}

type smsCall struct {
	phoneNumber, body string
}

type fakeSMSTransport struct {
	mu    sync.Mutex
	calls []smsCall
	err   error
}

func (t *fakeSMSTransport) Send(_ context.Context, phoneNumber, body string) error {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.calls = append(t.calls, smsCall{phoneNumber: phoneNumber, body: body})
	return t.err
}

type pushCall struct {
	token, title, body string
	metadata           map[string]string
}

type fakePushTransport struct {
	mu    sync.Mutex
	calls []pushCall
	err   error
}

func (t *fakePushTransport) Send(_ context.Context, token, title, body string, metadata map[string]string) error {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.calls = append(t.calls, pushCall{token: token, title: title, body: body, metadata: metadata})
	return t.err
}

type webhookCall struct {
	endpoint *domain.WebhookEndpoint
	payload  any
}

type fakeWebhookTransport struct {
	mu    sync.Mutex
	calls []webhookCall
	err   error
}

func (t *fakeWebhookTransport) Post(_ context.Context, endpoint *domain.WebhookEndpoint, payload any) error {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.calls = append(t.calls, webhookCall{endpoint: endpoint, payload: payload})
	return t.err
}
