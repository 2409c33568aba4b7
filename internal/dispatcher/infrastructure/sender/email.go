// Package sender 各渠道传输端口的具体适配器。
// 调度核心只依赖 domain 中的端口接口，这里是唯一接触服务商协议的地方。
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

// EmailAPISender 基于服务商托管模板的邮件发送器。
// 只传模板 ID 与动态数据，布局渲染由服务商完成。
type EmailAPISender struct {
	client *http.Client
	apiURL string
	apiKey string
}

// NewEmailAPISender 创建邮件发送器
func NewEmailAPISender(apiURL, apiKey string) domain.EmailTransport {
	return &EmailAPISender{
		client: &http.Client{Timeout: 10 * time.Second},
		apiURL: apiURL,
		apiKey: apiKey,
	}
}

type emailSendRequest struct {
	To           string            `json:"to"`
	From         string            `json:"from"`
	TemplateID   string            `json:"template_id"`
	TemplateData map[string]string `json:"dynamic_template_data"`
}

// Send 实现 domain.EmailTransport
func (s *EmailAPISender) Send(ctx context.Context, to, from, templateID string, templateData map[string]string) error {
	slog.InfoContext(ctx, "sending email", "to", to, "template_id", templateID)

	body, err := json.Marshal(emailSendRequest{
		To:           to,
		From:         from,
		TemplateID:   templateID,
		TemplateData: templateData,
	})
	if err != nil {
		return fmt.Errorf("marshal email request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, s.apiURL, bytes.NewReader(body))
	if err != nil {
		return err
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer "+s.apiKey)

	resp, err := s.client.Do(req)
	if err != nil {
		return fmt.Errorf("email provider request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode >= http.StatusMultipleChoices {
		return fmt.Errorf("email provider returned status %d", resp.StatusCode)
	}
	return nil
}
