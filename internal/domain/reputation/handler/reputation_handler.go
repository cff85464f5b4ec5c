package handler

import (
	"errors"
	"net/http"
	"strconv"

	"forum_hub/internal/domain/reputation/service"
	"forum_hub/pkg/response"

	"github.com/gin-gonic/gin"
)

type ReputationHandler struct {
	service service.ReputationService
}

func NewReputationHandler(s service.ReputationService) *ReputationHandler {
	return &ReputationHandler{service: s}
}

// CastVoteInput 投票输入
type CastVoteInput struct {
	TargetType string `json:"targetType" binding:"required"`
	TargetID   string `json:"targetId" binding:"required"`
	VoteType   int    `json:"voteType" binding:"required"`
}

// CastVote 投票
// @Summary 投票（再投同方向即取消，反方向即换向）
// @Tags Reputation
// @Accept json
// @Produce json
// @Param input body CastVoteInput true "投票参数"
// @Success 200 {object} service.VoteResult
// @Router /vote [post]
func (h *ReputationHandler) CastVote(c *gin.Context) {
	userID := c.GetString("userID")

	var input CastVoteInput
	if err := c.ShouldBindJSON(&input); err != nil {
		response.Error(c, http.StatusBadRequest, response.ErrInvalidParam, err.Error())
		return
	}

	result, err := h.service.CastVote(userID, input.TargetType, input.TargetID, input.VoteType)
	if err != nil {
		switch {
		case errors.Is(err, service.ErrInvalidTargetType):
			response.Error(c, http.StatusBadRequest, response.ErrVoteTargetInvalid, err.Error())
		case errors.Is(err, service.ErrInvalidVoteType):
			response.Error(c, http.StatusBadRequest, response.ErrVoteTypeInvalid, err.Error())
		case errors.Is(err, service.ErrTargetNotFound):
			response.Error(c, http.StatusNotFound, response.ErrVoteTargetMissing, err.Error())
		default:
			response.Error(c, http.StatusInternalServerError, response.ErrServerInternal, err.Error())
		}
		return
	}
	response.Success(c, result)
}

// GetUserVote 查询我对某目标的投票
// @Summary 查询当前用户对某目标的投票方向（未登录或未投返回 0）
// @Tags Reputation
// @Param targetType query string true "topic 或 comment"
// @Param targetId query string true "目标ID"
// @Success 200 {object} map[string]int
// @Router /vote [get]
func (h *ReputationHandler) GetUserVote(c *gin.Context) {
	userID := c.GetString("userID")
	targetType := c.Query("targetType")
	targetID := c.Query("targetId")

	// 匿名访问：一律视作未投票
	if userID == "" {
		response.Success(c, gin.H{"vote": 0})
		return
	}

	vote, err := h.service.GetUserVote(userID, targetType, targetID)
	if err != nil {
		if errors.Is(err, service.ErrInvalidTargetType) {
			response.Error(c, http.StatusBadRequest, response.ErrVoteTargetInvalid, err.Error())
			return
		}
		response.Error(c, http.StatusInternalServerError, response.ErrServerInternal, err.Error())
		return
	}
	response.Success(c, gin.H{"vote": vote})
}

// GetLeaderboard 声望排行榜
// @Summary 声望排行榜（声望降序，获赞数决胜）
// @Tags Reputation
// @Param limit query int false "Limit"
// @Param offset query int false "Offset"
// @Success 200 {array} model.User
// @Router /leaderboard [get]
func (h *ReputationHandler) GetLeaderboard(c *gin.Context) {
	limit, _ := strconv.Atoi(c.DefaultQuery("limit", "20"))
	offset, _ := strconv.Atoi(c.DefaultQuery("offset", "0"))

	users, err := h.service.GetLeaderboard(limit, offset)
	if err != nil {
		response.Error(c, http.StatusInternalServerError, response.ErrServerInternal, err.Error())
		return
	}
	response.Success(c, users)
}

// ListBadges 勋章目录
// @Summary 勋章目录
// @Tags Reputation
// @Success 200 {array} model.Badge
// @Router /badges [get]
func (h *ReputationHandler) ListBadges(c *gin.Context) {
	badges, err := h.service.ListBadges()
	if err != nil {
		response.Error(c, http.StatusInternalServerError, response.ErrServerInternal, err.Error())
		return
	}
	response.Success(c, badges)
}

// GetUserBadges 用户勋章
// @Summary 获取某用户持有的勋章
// @Tags Reputation
// @Param id path string true "用户ID"
// @Success 200 {array} model.Badge
// @Router /users/{id}/badges [get]
func (h *ReputationHandler) GetUserBadges(c *gin.Context) {
	badges, err := h.service.GetUserBadges(c.Param("id"))
	if err != nil {
		response.Error(c, http.StatusInternalServerError, response.ErrServerInternal, err.Error())
		return
	}
	response.Success(c, badges)
}
