package sender

import (
	"bytes"
	"context"
	"crypto/hmac"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"fmt"
	"log/slog"
	"net/http"
	"strconv"
	"time"

	"github.com/nobaplatform/notification-dispatcher/internal/dispatcher/domain"
)

// WebhookSender 合作伙伴 Webhook 适配器。
// 带 API Key 与 HMAC-SHA256 签名头，便于对端校验来源。
type WebhookSender struct {
	client *http.Client
}

// NewWebhookSender 创建 Webhook 发送器
func NewWebhookSender() domain.WebhookTransport {
	return &WebhookSender{
		client: &http.Client{Timeout: 10 * time.Second},
	}
}

// Post 实现 domain.WebhookTransport
func (s *WebhookSender) Post(ctx context.Context, endpoint *domain.WebhookEndpoint, payload any) error {
	slog.InfoContext(ctx, "posting webhook", "url", endpoint.URL)

	body, err := json.Marshal(payload)
	if err != nil {
		return fmt.Errorf("marshal webhook payload: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, endpoint.URL, bytes.NewReader(body))
	if err != nil {
		return err
	}
	req.Header.Set("Content-Type", "application/json")
	if endpoint.APIKey != "" {
		req.Header.Set("X-Api-Key", endpoint.APIKey)
	}
	if endpoint.SecretKey != "" {
		timestamp := strconv.FormatInt(time.Now().Unix(), 10)
		req.Header.Set("X-Timestamp", timestamp)
		req.Header.Set("X-Signature", sign(endpoint.SecretKey, timestamp, body))
	}

	resp, err := s.client.Do(req)
	if err != nil {
		return fmt.Errorf("webhook request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode >= http.StatusMultipleChoices {
		return fmt.Errorf("webhook returned status %d", resp.StatusCode)
	}
	return nil
}

func sign(secret, timestamp string, body []byte) string {
	mac := hmac.New(sha256.New, []byte(secret))
	mac.Write([]byte(timestamp))
	mac.Write(body)
	return hex.EncodeToString(mac.Sum(nil))
}
