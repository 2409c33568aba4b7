// Package http 通知调度服务的 HTTP 接入层。
package http

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/wyfcoding/pkg/logging"
	"github.com/wyfcoding/pkg/response"

	"github.com/nobaplatform/notification-dispatcher/internal/dispatcher/application"
	"github.com/nobaplatform/notification-dispatcher/internal/dispatcher/domain"
)

// DispatcherHandler 负责处理通知分发与模板管理的 HTTP 请求
type DispatcherHandler struct {
	app *application.NotificationService
}

// NewDispatcherHandler 创建 HTTP 处理器实例
func NewDispatcherHandler(app *application.NotificationService) *DispatcherHandler {
	return &DispatcherHandler{app: app}
}

// RegisterRoutes 将处理器方法绑定到 Gin 路由引擎，中间件仅作用于业务路由
func (h *DispatcherHandler) RegisterRoutes(router *gin.Engine, middlewares ...gin.HandlerFunc) {
	api := router.Group("/api/v1", middlewares...)
	{
		notifications := api.Group("/notifications")
		{
			notifications.POST("/dispatch", h.Dispatch)
			notifications.GET("/history", h.GetDeliveryHistory)
		}
		templates := api.Group("/templates")
		{
			templates.GET("", h.ListTemplates)
			templates.POST("", h.UpsertTemplate)
			templates.DELETE("", h.DeleteTemplate)
		}
	}
}

// Dispatch 分发一个领域事件。
// 只有结构性非法的事件返回 4xx；渠道级失败不影响本接口的成功响应。
func (h *DispatcherHandler) Dispatch(c *gin.Context) {
	var cmd application.DispatchCommand
	if err := c.ShouldBindJSON(&cmd); err != nil {
		response.ErrorWithStatus(c, http.StatusBadRequest, err.Error(), "")
		return
	}

	if err := h.app.Dispatch(c.Request.Context(), cmd); err != nil {
		var validationErr *domain.ValidationError
		if errors.As(err, &validationErr) {
			response.ErrorWithStatus(c, http.StatusBadRequest, err.Error(), "")
			return
		}
		logging.Error(c.Request.Context(), "Failed to dispatch notification", "kind", cmd.Kind, "error", err)
		response.ErrorWithStatus(c, http.StatusInternalServerError, err.Error(), "")
		return
	}

	response.Success(c, gin.H{"status": "accepted"})
}

// GetDeliveryHistory 分页查询用户的投递日志
func (h *DispatcherHandler) GetDeliveryHistory(c *gin.Context) {
	consumerID := c.Query("consumer_id")
	if consumerID == "" {
		response.ErrorWithStatus(c, http.StatusBadRequest, "consumer_id is required", "")
		return
	}

	limit, err := strconv.Atoi(c.DefaultQuery("limit", "20"))
	if err != nil {
		response.ErrorWithStatus(c, http.StatusBadRequest, "invalid limit", "")
		return
	}
	offset, err := strconv.Atoi(c.DefaultQuery("offset", "0"))
	if err != nil {
		response.ErrorWithStatus(c, http.StatusBadRequest, "invalid offset", "")
		return
	}

	deliveries, total, err := h.app.GetDeliveryHistory(c.Request.Context(), consumerID, limit, offset)
	if err != nil {
		logging.Error(c.Request.Context(), "Failed to get delivery history", "consumer_id", consumerID, "error", err)
		response.ErrorWithStatus(c, http.StatusInternalServerError, err.Error(), "")
		return
	}

	response.Success(c, gin.H{"total": total, "deliveries": deliveries})
}

// ListTemplates 列出全部模板条目
func (h *DispatcherHandler) ListTemplates(c *gin.Context) {
	templates, err := h.app.ListTemplates(c.Request.Context())
	if err != nil {
		logging.Error(c.Request.Context(), "Failed to list templates", "error", err)
		response.ErrorWithStatus(c, http.StatusInternalServerError, err.Error(), "")
		return
	}
	response.Success(c, templates)
}

// UpsertTemplate 写入模板条目
func (h *DispatcherHandler) UpsertTemplate(c *gin.Context) {
	var cmd application.UpsertTemplateCommand
	if err := c.ShouldBindJSON(&cmd); err != nil {
		response.ErrorWithStatus(c, http.StatusBadRequest, err.Error(), "")
		return
	}

	if err := h.app.UpsertTemplate(c.Request.Context(), cmd); err != nil {
		var validationErr *domain.ValidationError
		if errors.As(err, &validationErr) || application.IsBadTemplateRequest(err) {
			response.ErrorWithStatus(c, http.StatusBadRequest, err.Error(), "")
			return
		}
		logging.Error(c.Request.Context(), "Failed to upsert template", "event_kind", cmd.EventKind, "error", err)
		response.ErrorWithStatus(c, http.StatusInternalServerError, err.Error(), "")
		return
	}

	response.Success(c, gin.H{"status": "saved"})
}

// DeleteTemplate 删除模板条目
func (h *DispatcherHandler) DeleteTemplate(c *gin.Context) {
	kind := c.Query("event_kind")
	channel := c.Query("channel")
	locale := c.Query("locale")
	if kind == "" || channel == "" || locale == "" {
		response.ErrorWithStatus(c, http.StatusBadRequest, "event_kind, channel and locale are required", "")
		return
	}

	if err := h.app.DeleteTemplate(c.Request.Context(), kind, channel, locale); err != nil {
		logging.Error(c.Request.Context(), "Failed to delete template", "event_kind", kind, "error", err)
		response.ErrorWithStatus(c, http.StatusInternalServerError, err.Error(), "")
		return
	}

	response.Success(c, gin.H{"status": "deleted"})
}
