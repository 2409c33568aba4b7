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

// SMSAPISender 短信服务商适配器，正文已由核心渲染完毕
type SMSAPISender struct {
	client *http.Client
	apiURL string
	apiKey string
}

// NewSMSAPISender 创建短信发送器
func NewSMSAPISender(apiURL, apiKey string) domain.SMSTransport {
	return &SMSAPISender{
		client: &http.Client{Timeout: 10 * time.Second},
		apiURL: apiURL,
		apiKey: apiKey,
	}
}

// Send 实现 domain.SMSTransport
func (s *SMSAPISender) Send(ctx context.Context, phoneNumber, body string) error {
	slog.InfoContext(ctx, "sending sms", "to", phoneNumber)

	payload, err := json.Marshal(map[string]string{
		"to":   phoneNumber,
		"body": body,
	})
	if err != nil {
		return fmt.Errorf("marshal sms request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, s.apiURL, bytes.NewReader(payload))
	if err != nil {
		return err
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer "+s.apiKey)

	resp, err := s.client.Do(req)
	if err != nil {
		return fmt.Errorf("sms provider request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode >= http.StatusMultipleChoices {
		return fmt.Errorf("sms provider returned status %d", resp.StatusCode)
	}
	return nil
}
