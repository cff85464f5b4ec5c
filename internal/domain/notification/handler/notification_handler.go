package handler

import (
	"net/http"

	"forum_hub/internal/domain/notification/service"
	"forum_hub/pkg/response"
	"forum_hub/pkg/utils"

	"github.com/gin-gonic/gin"
)

type NotificationHandler struct {
	service service.NotificationService
}

func NewNotificationHandler(s service.NotificationService) *NotificationHandler {
	return &NotificationHandler{service: s}
}

// GetNotifications 获取通知列表
// @Summary 获取当前用户的通知列表
// @Tags Notification
// @Param page query int false "Page"
// @Param limit query int false "Limit"
// @Param unread query bool false "只看未读"
// @Success 200 {object} utils.PageResult
// @Router /notifications [get]
func (h *NotificationHandler) GetNotifications(c *gin.Context) {
	userID := c.GetString("userID")

	var p utils.Pagination
	c.ShouldBindQuery(&p)
	onlyUnread := c.Query("unread") == "true"

	list, total, err := h.service.GetList(userID, onlyUnread, p.Page, p.Limit)
	if err != nil {
		response.Error(c, http.StatusInternalServerError, response.ErrServerInternal, err.Error())
		return
	}

	response.Success(c, utils.PageResult{
		List:  list,
		Total: total,
		Page:  p.Page,
		Limit: p.Limit,
	})
}

// GetUnreadCount 获取未读数
// @Summary 获取未读通知数
// @Tags Notification
// @Success 200 {object} map[string]int64
// @Router /notifications/unread_count [get]
func (h *NotificationHandler) GetUnreadCount(c *gin.Context) {
	userID := c.GetString("userID")

	count, err := h.service.UnreadCount(userID)
	if err != nil {
		response.Error(c, http.StatusInternalServerError, response.ErrServerInternal, err.Error())
		return
	}
	response.Success(c, gin.H{"count": count})
}

// MarkRead 标记已读
// @Summary 标记单条通知已读
// @Tags Notification
// @Param id path string true "通知ID"
// @Success 200 {string} string "success"
// @Router /notifications/{id}/read [put]
func (h *NotificationHandler) MarkRead(c *gin.Context) {
	userID := c.GetString("userID")
	id := c.Param("id")

	if err := h.service.MarkRead(userID, id); err != nil {
		response.Error(c, http.StatusInternalServerError, response.ErrServerInternal, err.Error())
		return
	}
	response.Success(c, "success")
}

// MarkAllRead 全部标记已读
// @Summary 标记所有通知已读
// @Tags Notification
// @Success 200 {string} string "success"
// @Router /notifications/read_all [put]
func (h *NotificationHandler) MarkAllRead(c *gin.Context) {
	userID := c.GetString("userID")

	if err := h.service.MarkAllRead(userID); err != nil {
		response.Error(c, http.StatusInternalServerError, response.ErrServerInternal, err.Error())
		return
	}
	response.Success(c, "success")
}
