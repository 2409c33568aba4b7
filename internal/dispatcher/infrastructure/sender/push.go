package sender

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"github.com/nobaplatform/notification-dispatcher/internal/dispatcher/domain"
)

// PushAPISender Expo 风格的推送服务适配器，按设备令牌逐条投递
type PushAPISender struct {
	client *http.Client
	apiURL string
}

// NewPushAPISender 创建推送发送器
func NewPushAPISender(apiURL string) domain.PushTransport {
	return &PushAPISender{
		client: &http.Client{Timeout: 10 * time.Second},
		apiURL: apiURL,
	}
}

type pushSendRequest struct {
	To    string            `json:"to"`
	Title string            `json:"title"`
	Body  string            `json:"body"`
	Data  map[string]string `json:"data,omitempty"`
}

// Send 实现 domain.PushTransport
func (s *PushAPISender) Send(ctx context.Context, token, title, body string, metadata map[string]string) error {
	slog.InfoContext(ctx, "sending push notification", "token", token, "title", title)

	payload, err := json.Marshal(pushSendRequest{
		To:    token,
		Title: title,
		Body:  body,
		Data:  metadata,
	})
	if err != nil {
		return fmt.Errorf("marshal push request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, s.apiURL, bytes.NewReader(payload))
	if err != nil {
		return err
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := s.client.Do(req)
	if err != nil {
		return fmt.Errorf("push provider request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode >= http.StatusMultipleChoices {
		return fmt.Errorf("push provider returned status %d", resp.StatusCode)
	}
	return nil
}
