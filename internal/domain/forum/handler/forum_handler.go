package handler

import (
	"errors"
	"net/http"

	"forum_hub/internal/domain/forum/service"
	"forum_hub/pkg/response"
	"forum_hub/pkg/utils"

	"github.com/gin-gonic/gin"
)

type ForumHandler struct {
	service service.ForumService
}

func NewForumHandler(s service.ForumService) *ForumHandler {
	return &ForumHandler{service: s}
}

// CreateTopicInput 发帖输入
type CreateTopicInput struct {
	Title    string `json:"title" binding:"required"`
	Body     string `json:"body" binding:"required"`
	Category string `json:"category"`
}

// CreateCommentInput 评论输入
type CreateCommentInput struct {
	Body     string  `json:"body" binding:"required"`
	ParentID *string `json:"parentId"`
}

// getRoleFromContext 从上下文取角色，兼容 JWT 解析出的 float64
func getRoleFromContext(c *gin.Context) int {
	value, exists := c.Get("role")
	if !exists {
		return 0
	}
	switch v := value.(type) {
	case int:
		return v
	case float64:
		return int(v)
	default:
		return 0
	}
}

// CreateTopic 发布主题
// @Summary 发布新主题
// @Tags Forum
// @Accept json
// @Produce json
// @Param input body CreateTopicInput true "主题内容"
// @Success 200 {object} model.Topic
// @Router /topics [post]
func (h *ForumHandler) CreateTopic(c *gin.Context) {
	userID := c.GetString("userID")

	var input CreateTopicInput
	if err := c.ShouldBindJSON(&input); err != nil {
		response.Error(c, http.StatusBadRequest, response.ErrInvalidParam, err.Error())
		return
	}

	topic, err := h.service.CreateTopic(userID, input.Title, input.Body, input.Category)
	if err != nil {
		response.Error(c, http.StatusBadRequest, response.ErrContentInvalid, err.Error())
		return
	}
	response.Success(c, topic)
}

// GetTopics 主题列表
// @Summary 获取主题列表（分页，可按分类过滤）
// @Tags Forum
// @Param category query string false "分类"
// @Param page query int false "Page"
// @Param limit query int false "Limit"
// @Success 200 {object} utils.PageResult
// @Router /topics [get]
func (h *ForumHandler) GetTopics(c *gin.Context) {
	var p utils.Pagination
	c.ShouldBindQuery(&p)
	category := c.Query("category")

	topics, total, err := h.service.GetTopics(category, p.Page, p.Limit)
	if err != nil {
		response.Error(c, http.StatusInternalServerError, response.ErrServerInternal, err.Error())
		return
	}

	response.Success(c, utils.PageResult{
		List:  topics,
		Total: total,
		Page:  p.Page,
		Limit: p.Limit,
	})
}

// GetTopic 主题详情
// @Summary 获取主题详情
// @Tags Forum
// @Param id path string true "主题ID"
// @Success 200 {object} model.Topic
// @Router /topics/{id} [get]
func (h *ForumHandler) GetTopic(c *gin.Context) {
	id := c.Param("id")

	topic, err := h.service.GetTopic(id)
	if err != nil {
		if errors.Is(err, service.ErrTopicNotFound) {
			response.Error(c, http.StatusNotFound, response.ErrTopicNotFound, err.Error())
			return
		}
		response.Error(c, http.StatusInternalServerError, response.ErrServerInternal, err.Error())
		return
	}
	response.Success(c, topic)
}

// DeleteTopic 删除主题
// @Summary 删除主题（作者或管理员）
// @Tags Forum
// @Param id path string true "主题ID"
// @Success 200 {string} string "success"
// @Router /topics/{id} [delete]
func (h *ForumHandler) DeleteTopic(c *gin.Context) {
	userID := c.GetString("userID")
	role := getRoleFromContext(c)

	err := h.service.DeleteTopic(userID, role, c.Param("id"))
	if err != nil {
		switch {
		case errors.Is(err, service.ErrTopicNotFound):
			response.Error(c, http.StatusNotFound, response.ErrTopicNotFound, err.Error())
		case errors.Is(err, service.ErrNoPermission):
			response.Error(c, http.StatusForbidden, response.ErrNoPermission, err.Error())
		default:
			response.Error(c, http.StatusInternalServerError, response.ErrServerInternal, err.Error())
		}
		return
	}
	response.Success(c, "success")
}

// CreateComment 发表评论
// @Summary 发表评论或回复
// @Tags Forum
// @Accept json
// @Produce json
// @Param id path string true "主题ID"
// @Param input body CreateCommentInput true "评论内容"
// @Success 200 {object} model.Comment
// @Router /topics/{id}/comments [post]
func (h *ForumHandler) CreateComment(c *gin.Context) {
	userID := c.GetString("userID")
	topicID := c.Param("id")

	var input CreateCommentInput
	if err := c.ShouldBindJSON(&input); err != nil {
		response.Error(c, http.StatusBadRequest, response.ErrInvalidParam, err.Error())
		return
	}

	comment, err := h.service.CreateComment(userID, topicID, input.Body, input.ParentID)
	if err != nil {
		switch {
		case errors.Is(err, service.ErrTopicNotFound):
			response.Error(c, http.StatusNotFound, response.ErrTopicNotFound, err.Error())
		case errors.Is(err, service.ErrCommentNotFound):
			response.Error(c, http.StatusNotFound, response.ErrCommentNotFound, err.Error())
		default:
			response.Error(c, http.StatusBadRequest, response.ErrContentInvalid, err.Error())
		}
		return
	}
	response.Success(c, comment)
}

// GetComments 评论列表
// @Summary 获取主题的评论列表
// @Tags Forum
// @Param id path string true "主题ID"
// @Param page query int false "Page"
// @Param limit query int false "Limit"
// @Success 200 {object} utils.PageResult
// @Router /topics/{id}/comments [get]
func (h *ForumHandler) GetComments(c *gin.Context) {
	var p utils.Pagination
	c.ShouldBindQuery(&p)

	comments, total, err := h.service.GetComments(c.Param("id"), p.Page, p.Limit)
	if err != nil {
		response.Error(c, http.StatusInternalServerError, response.ErrServerInternal, err.Error())
		return
	}

	response.Success(c, utils.PageResult{
		List:  comments,
		Total: total,
		Page:  p.Page,
		Limit: p.Limit,
	})
}

// DeleteComment 删除评论
// @Summary 删除评论（作者或管理员）
// @Tags Forum
// @Param id path string true "评论ID"
// @Success 200 {string} string "success"
// @Router /comments/{id} [delete]
func (h *ForumHandler) DeleteComment(c *gin.Context) {
	userID := c.GetString("userID")
	role := getRoleFromContext(c)

	err := h.service.DeleteComment(userID, role, c.Param("id"))
	if err != nil {
		switch {
		case errors.Is(err, service.ErrCommentNotFound):
			response.Error(c, http.StatusNotFound, response.ErrCommentNotFound, err.Error())
		case errors.Is(err, service.ErrNoPermission):
			response.Error(c, http.StatusForbidden, response.ErrNoPermission, err.Error())
		default:
			response.Error(c, http.StatusInternalServerError, response.ErrServerInternal, err.Error())
		}
		return
	}
	response.Success(c, "success")
}
