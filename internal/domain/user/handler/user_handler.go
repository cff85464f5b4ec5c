package handler

import (
	"errors"
	"net/http"

	"forum_hub/internal/domain/user/service"
	"forum_hub/pkg/response"
	"forum_hub/pkg/utils"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"
)

type UserHandler struct {
	service service.UserService
}

func NewUserHandler(s service.UserService) *UserHandler {
	return &UserHandler{service: s}
}

// RegisterInput 注册输入
type RegisterInput struct {
	Username string `json:"username" binding:"required"`
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required,min=8"`
}

// LoginInput 登录输入
type LoginInput struct {
	Username string `json:"username" binding:"required"`
	Password string `json:"password" binding:"required"`
}

// UpdateProfileInput 资料更新输入
type UpdateProfileInput struct {
	DisplayName string `json:"displayName"`
	Bio         string `json:"bio"`
	AvatarURL   string `json:"avatarUrl"`
}

// Register 注册
// @Summary 注册新用户
// @Tags User
// @Accept json
// @Produce json
// @Param input body RegisterInput true "注册信息"
// @Success 200 {object} model.User
// @Router /auth/register [post]
func (h *UserHandler) Register(c *gin.Context) {
	var input RegisterInput
	if err := c.ShouldBindJSON(&input); err != nil {
		response.Error(c, http.StatusBadRequest, response.ErrInvalidParam, err.Error())
		return
	}

	user, err := h.service.Register(input.Username, input.Email, input.Password)
	if err != nil {
		if errors.Is(err, service.ErrUserExists) {
			response.Error(c, http.StatusConflict, response.ErrUserExists, err.Error())
			return
		}
		response.Error(c, http.StatusBadRequest, response.ErrInvalidParam, err.Error())
		return
	}
	response.Success(c, user)
}

// Login 登录
// @Summary 用户登录，返回 JWT Token
// @Tags User
// @Accept json
// @Produce json
// @Param input body LoginInput true "登录信息"
// @Success 200 {object} map[string]interface{}
// @Router /auth/login [post]
func (h *UserHandler) Login(c *gin.Context) {
	var input LoginInput
	if err := c.ShouldBindJSON(&input); err != nil {
		response.Error(c, http.StatusBadRequest, response.ErrInvalidParam, err.Error())
		return
	}

	token, user, err := h.service.Login(input.Username, input.Password)
	if err != nil {
		switch {
		case errors.Is(err, service.ErrInvalidCredentials):
			response.Error(c, http.StatusUnauthorized, response.ErrAuthFailed, err.Error())
		case errors.Is(err, service.ErrAccountBanned):
			response.Error(c, http.StatusForbidden, response.ErrUserBanned, err.Error())
		case errors.Is(err, service.ErrAccountDeleted):
			response.Error(c, http.StatusForbidden, response.ErrUserNotFound, err.Error())
		default:
			response.Error(c, http.StatusInternalServerError, response.ErrServerInternal, err.Error())
		}
		return
	}

	response.Success(c, gin.H{
		"token": token,
		"user":  user,
	})
}

// GetUsers 获取用户列表
// @Summary 获取用户列表 (分页)
// @Tags User
// @Param page query int false "Page"
// @Param limit query int false "Limit"
// @Success 200 {object} utils.PageResult
// @Router /users [get]
func (h *UserHandler) GetUsers(c *gin.Context) {
	var p utils.Pagination
	c.ShouldBindQuery(&p)

	users, total, err := h.service.GetUsers(p.Page, p.Limit)
	if err != nil {
		response.Error(c, http.StatusInternalServerError, response.ErrServerInternal, err.Error())
		return
	}

	response.Success(c, utils.PageResult{
		List:  users,
		Total: total,
		Page:  p.Page,
		Limit: p.Limit,
	})
}

// GetUser 获取单个用户
// @Summary 获取用户信息
// @Tags User
// @Param id path string true "用户ID"
// @Success 200 {object} model.User
// @Router /users/{id} [get]
func (h *UserHandler) GetUser(c *gin.Context) {
	id := c.Param("id")

	user, err := h.service.GetUser(id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			response.Error(c, http.StatusNotFound, response.ErrUserNotFound, "User not found")
			return
		}
		response.Error(c, http.StatusInternalServerError, response.ErrServerInternal, err.Error())
		return
	}
	response.Success(c, user)
}

// UpdateProfile 更新个人资料
// @Summary 更新当前用户资料
// @Tags User
// @Accept json
// @Produce json
// @Param input body UpdateProfileInput true "资料"
// @Success 200 {object} model.User
// @Router /users/me [put]
func (h *UserHandler) UpdateProfile(c *gin.Context) {
	userID := c.GetString("userID")

	var input UpdateProfileInput
	if err := c.ShouldBindJSON(&input); err != nil {
		response.Error(c, http.StatusBadRequest, response.ErrInvalidParam, err.Error())
		return
	}

	user, err := h.service.UpdateProfile(userID, input.DisplayName, input.Bio, input.AvatarURL)
	if err != nil {
		response.Error(c, http.StatusInternalServerError, response.ErrServerInternal, err.Error())
		return
	}
	response.Success(c, user)
}

// DeleteUser 注销当前账号
// @Summary 注销当前账号 (软删除)
// @Tags User
// @Success 200 {string} string "success"
// @Router /users/me [delete]
func (h *UserHandler) DeleteUser(c *gin.Context) {
	userID := c.GetString("userID")

	if err := h.service.DeleteUser(userID); err != nil {
		response.Error(c, http.StatusInternalServerError, response.ErrServerInternal, err.Error())
		return
	}
	response.Success(c, "success")
}
