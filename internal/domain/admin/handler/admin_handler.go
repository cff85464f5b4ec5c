package handler

import (
	"errors"
	"net/http"

	"forum_hub/internal/domain/admin/service"
	"forum_hub/pkg/response"

	"github.com/gin-gonic/gin"
)

type AdminHandler struct {
	service service.AdminService
}

func NewAdminHandler(s service.AdminService) *AdminHandler {
	return &AdminHandler{service: s}
}

// BanUserInput 封禁输入
type BanUserInput struct {
	Days   int    `json:"days"` // <= 0 表示永久
	Reason string `json:"reason"`
}

// GetStats 后台总览
// @Summary 管理后台统计总览
// @Tags Admin
// @Success 200 {object} repository.StatsOverview
// @Router /admin/stats [get]
func (h *AdminHandler) GetStats(c *gin.Context) {
	overview, err := h.service.GetOverview()
	if err != nil {
		response.Error(c, http.StatusInternalServerError, response.ErrServerInternal, err.Error())
		return
	}
	response.Success(c, overview)
}

// BanUser 封禁用户
// @Summary 封禁用户
// @Tags Admin
// @Accept json
// @Param id path string true "用户ID"
// @Param input body BanUserInput true "封禁参数"
// @Success 200 {string} string "success"
// @Router /admin/users/{id}/ban [put]
func (h *AdminHandler) BanUser(c *gin.Context) {
	var input BanUserInput
	if err := c.ShouldBindJSON(&input); err != nil {
		response.Error(c, http.StatusBadRequest, response.ErrInvalidParam, err.Error())
		return
	}

	if err := h.service.BanUser(c.Param("id"), input.Days, input.Reason); err != nil {
		if errors.Is(err, service.ErrUserNotFound) {
			response.Error(c, http.StatusNotFound, response.ErrUserNotFound, err.Error())
			return
		}
		response.Error(c, http.StatusInternalServerError, response.ErrServerInternal, err.Error())
		return
	}
	response.Success(c, "success")
}

// UnbanUser 解封用户
// @Summary 解封用户
// @Tags Admin
// @Param id path string true "用户ID"
// @Success 200 {string} string "success"
// @Router /admin/users/{id}/unban [put]
func (h *AdminHandler) UnbanUser(c *gin.Context) {
	if err := h.service.UnbanUser(c.Param("id")); err != nil {
		if errors.Is(err, service.ErrUserNotFound) {
			response.Error(c, http.StatusNotFound, response.ErrUserNotFound, err.Error())
			return
		}
		response.Error(c, http.StatusInternalServerError, response.ErrServerInternal, err.Error())
		return
	}
	response.Success(c, "success")
}
