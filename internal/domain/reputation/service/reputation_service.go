package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	forumrepo "forum_hub/internal/domain/forum/repository"
	notifmodel "forum_hub/internal/domain/notification/model"
	notifsvc "forum_hub/internal/domain/notification/service"
	"forum_hub/internal/domain/reputation/model"
	"forum_hub/internal/domain/reputation/repository"
	usermodel "forum_hub/internal/domain/user/model"
	userrepo "forum_hub/internal/domain/user/repository"
	"forum_hub/internal/pkg/worker"
	"forum_hub/pkg/cache"
	"forum_hub/pkg/logger"
	"forum_hub/pkg/metrics"

	"go.uber.org/zap"
	"gorm.io/gorm"
)

// 服务层错误
var (
	ErrInvalidTargetType = errors.New("target type must be topic or comment")
	ErrInvalidVoteType   = errors.New("vote type must be +1 or -1")
	ErrTargetNotFound    = errors.New("vote target not found")
)

// 投票结果动作
const (
	ActionCreated = "created"
	ActionChanged = "changed"
	ActionRemoved = "removed"
)

// VoteResult 一次投票调用的结果
type VoteResult struct {
	Action        string `json:"action"`
	ResultingVote int    `json:"vote"` // +1 / -1 / 0（已取消）
}

// Tally 目标实体的票数聚合
type Tally struct {
	Upvotes   int `json:"upvotes"`
	Downvotes int `json:"downvotes"`
	VoteScore int `json:"voteScore"`
}

// ReputationStats 用户声望聚合
type ReputationStats struct {
	Reputation    int `json:"reputation"`
	VotesReceived int `json:"votesReceived"`
}

// 排行榜缓存
const (
	LeaderboardCacheKeyPrefix = "leaderboard:"
	LeaderboardCacheTTL       = time.Second * 30
)

// ReputationService 投票与声望服务接口
type ReputationService interface {
	CastVote(userID, targetType, targetID string, voteType int) (*VoteResult, error)
	GetUserVote(userID, targetType, targetID string) (int, error)
	RecomputeTally(targetType, targetID string) (*Tally, error)
	RecomputeReputation(userID string) (*ReputationStats, error)
	EvaluateBadges(userID string) ([]model.Badge, error)
	GetLeaderboard(limit, offset int) ([]usermodel.User, error)
	GetUserBadges(userID string) ([]model.Badge, error)
	ListBadges() ([]model.Badge, error)
	SetWorkerPool(pool *worker.WorkerPool)
}

type reputationService struct {
	voteRepo    repository.VoteRepository
	badgeRepo   repository.BadgeRepository
	userRepo    userrepo.UserRepository
	topicRepo   forumrepo.TopicRepository
	commentRepo forumrepo.CommentRepository
	cache       cache.CacheService
	pool        *worker.WorkerPool
	metrics     *metrics.MetricsCollector
}

// NewReputationService 创建投票与声望服务
func NewReputationService(
	voteRepo repository.VoteRepository,
	badgeRepo repository.BadgeRepository,
	userRepo userrepo.UserRepository,
	topicRepo forumrepo.TopicRepository,
	commentRepo forumrepo.CommentRepository,
	c cache.CacheService,
) ReputationService {
	return &reputationService{
		voteRepo:    voteRepo,
		badgeRepo:   badgeRepo,
		userRepo:    userRepo,
		topicRepo:   topicRepo,
		commentRepo: commentRepo,
		cache:       c,
		metrics:     metrics.GetGlobalCollector(),
	}
}

// SetWorkerPool 注入异步修复队列
// 服务与队列互相引用（队列的执行器就是本服务），所以在构造后再注入
func (s *reputationService) SetWorkerPool(pool *worker.WorkerPool) {
	s.pool = pool
}

// CastVote 投票状态机
// 无现存投票 → 创建；同方向 → 取消（toggle-off）；反方向 → 原地换向。
// 投票行写入是主效果；票数/声望/勋章的聚合更新尽力而为，
// 失败只记日志并入队异步修复，不回滚也不影响返回结果。
func (s *reputationService) CastVote(userID, targetType, targetID string, voteType int) (*VoteResult, error) {
	// 参数校验先于任何存储访问
	if !model.IsValidTargetType(targetType) {
		return nil, ErrInvalidTargetType
	}
	if !model.IsValidVoteType(voteType) {
		return nil, ErrInvalidVoteType
	}

	// 目标必须存在，顺便拿到作者用于声望归属
	authorID, err := s.lookupAuthor(targetType, targetID)
	if err != nil {
		return nil, err
	}

	existing, err := s.voteRepo.GetByKey(userID, targetType, targetID)

	var result *VoteResult
	switch {
	case errors.Is(err, gorm.ErrRecordNotFound):
		vote := &model.Vote{
			UserID:     userID,
			TargetType: targetType,
			TargetID:   targetID,
			VoteType:   voteType,
		}
		if err := s.voteRepo.Create(vote); err != nil {
			return nil, err
		}
		result = &VoteResult{Action: ActionCreated, ResultingVote: voteType}

	case err != nil:
		return nil, err

	case existing.VoteType == voteType:
		// 同方向再投即取消
		if err := s.voteRepo.Delete(existing); err != nil {
			return nil, err
		}
		result = &VoteResult{Action: ActionRemoved, ResultingVote: 0}

	default:
		if err := s.voteRepo.UpdateDirection(existing.ID, voteType); err != nil {
			return nil, err
		}
		result = &VoteResult{Action: ActionChanged, ResultingVote: voteType}
	}

	s.metrics.RecordVoteCast(result.Action, targetType)

	// 下游聚合更新：失败入队修复（重算幂等，重复执行安全）
	if _, err := s.RecomputeTally(targetType, targetID); err != nil {
		logger.Log.Warn("tally recompute failed after vote, queued for repair",
			zap.String("targetType", targetType),
			zap.String("targetID", targetID),
			zap.Error(err))
		s.enqueueRepair(worker.RecomputeTask{
			Kind:       worker.TaskRecomputeTally,
			TargetType: targetType,
			TargetID:   targetID,
		})
	}

	// 自己投自己的内容：票数照常计入，但不影响声望
	if authorID != userID {
		if _, err := s.RecomputeReputation(authorID); err != nil {
			logger.Log.Warn("reputation recompute failed after vote, queued for repair",
				zap.String("authorID", authorID),
				zap.Error(err))
			s.enqueueRepair(worker.RecomputeTask{
				Kind:   worker.TaskRecomputeReputation,
				UserID: authorID,
			})
		}

		if result.Action == ActionCreated && voteType == model.VoteUp {
			notifsvc.Notify(authorID, notifmodel.TypeUpvote,
				"你的内容收到了一个赞", "", targetID)
		}
	}

	return result, nil
}

// GetUserVote 查询用户对某目标的现存投票方向，未投返回 0
func (s *reputationService) GetUserVote(userID, targetType, targetID string) (int, error) {
	if !model.IsValidTargetType(targetType) {
		return 0, ErrInvalidTargetType
	}

	vote, err := s.voteRepo.GetByKey(userID, targetType, targetID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return 0, nil
		}
		return 0, err
	}
	return vote.VoteType, nil
}

// RecomputeTally 从投票表整体重算目标的票数并写回
// 纯重算而非增减，天然修复历史漂移
func (s *reputationService) RecomputeTally(targetType, targetID string) (*Tally, error) {
	up, down, err := s.voteRepo.CountByTarget(targetType, targetID)
	if err != nil {
		return nil, err
	}

	tally := &Tally{
		Upvotes:   up,
		Downvotes: down,
		VoteScore: up - down,
	}

	if err := s.voteRepo.WriteTally(targetType, targetID, tally.Upvotes, tally.Downvotes, tally.VoteScore); err != nil {
		return nil, err
	}

	s.metrics.RecordTallyRecompute()
	return tally, nil
}

// RecomputeReputation 重算用户声望并写回，随后评估勋章
// 声望 = 加权票数之和（主题 +10/-2，评论 +5/-1），下限截断为 0；
// 获赞数只统计收到的赞。两者都已在查询层排除自投票。
func (s *reputationService) RecomputeReputation(userID string) (*ReputationStats, error) {
	counts, err := s.voteRepo.CountVotesReceived(userID)
	if err != nil {
		return nil, err
	}

	total := counts.TopicUpvotes*model.WeightTopicUpvote +
		counts.TopicDownvotes*model.WeightTopicDownvote +
		counts.CommentUpvotes*model.WeightCommentUpvote +
		counts.CommentDownvotes*model.WeightCommentDownvote

	stats := &ReputationStats{
		Reputation:    total,
		VotesReceived: counts.TopicUpvotes + counts.CommentUpvotes,
	}
	if stats.Reputation < 0 {
		stats.Reputation = 0
	}

	if err := s.voteRepo.UpdateUserReputation(userID, stats.Reputation, stats.VotesReceived); err != nil {
		return nil, err
	}

	s.metrics.RecordReputationRecompute()

	// 声望变了，排行榜缓存失效
	_ = s.cache.InvalidatePattern(context.Background(), LeaderboardCacheKeyPrefix+"*")

	// 勋章评估失败不影响声望结果
	if _, err := s.EvaluateBadges(userID); err != nil {
		logger.Log.Warn("badge evaluation failed",
			zap.String("userID", userID),
			zap.Error(err))
	}

	return stats, nil
}

// EvaluateBadges 勋章评估
// 对每个尚未持有的勋章检查对应指标是否达标（statValue >= criteriaValue），
// 达标即授予。插入带存在即忽略语义，重复评估不会产生重复勋章。
func (s *reputationService) EvaluateBadges(userID string) ([]model.Badge, error) {
	user, err := s.userRepo.GetByID(userID)
	if err != nil {
		return nil, err
	}

	topicCount, err := s.topicRepo.CountByAuthor(userID)
	if err != nil {
		return nil, err
	}
	commentCount, err := s.commentRepo.CountByAuthor(userID)
	if err != nil {
		return nil, err
	}
	accountAgeDays := int(time.Since(user.CreatedAt).Hours() / 24)

	badges, err := s.badgeRepo.ListBadges()
	if err != nil {
		return nil, err
	}
	held, err := s.badgeRepo.GetHeldBadgeIDs(userID)
	if err != nil {
		return nil, err
	}

	var newlyAwarded []model.Badge
	now := time.Now()

	for _, badge := range badges {
		if held[badge.ID] {
			continue
		}

		var statValue int
		switch badge.CriteriaType {
		case model.CriteriaReputation:
			statValue = user.Reputation
		case model.CriteriaTopics:
			statValue = int(topicCount)
		case model.CriteriaComments:
			statValue = int(commentCount)
		case model.CriteriaVotesReceived:
			statValue = user.VotesReceived
		case model.CriteriaAccountAge:
			statValue = accountAgeDays
		default:
			continue
		}

		if statValue < badge.CriteriaValue {
			continue
		}

		created, err := s.badgeRepo.Award(userID, badge.ID, now)
		if err != nil {
			return newlyAwarded, err
		}
		if !created {
			// 并发评估已插入过，不重复通知
			continue
		}

		newlyAwarded = append(newlyAwarded, badge)
		notifsvc.Notify(userID, notifmodel.TypeBadgeEarned,
			"获得新勋章", badge.Name, badge.ID)
	}

	s.metrics.RecordBadgeAwarded(len(newlyAwarded))
	return newlyAwarded, nil
}

// GetLeaderboard 声望排行榜（短时缓存）
func (s *reputationService) GetLeaderboard(limit, offset int) ([]usermodel.User, error) {
	if limit <= 0 {
		limit = 20
	}
	if limit > 100 {
		limit = 100
	}
	if offset < 0 {
		offset = 0
	}

	ctx := context.Background()
	key := fmt.Sprintf("%s%d:%d", LeaderboardCacheKeyPrefix, limit, offset)

	var cached []usermodel.User
	if err := s.cache.Get(ctx, key, &cached); err == nil {
		return cached, nil
	}

	users, err := s.voteRepo.GetLeaderboard(offset, limit)
	if err != nil {
		return nil, err
	}

	_ = s.cache.Set(ctx, key, users, LeaderboardCacheTTL)
	return users, nil
}

// GetUserBadges 获取用户持有的勋章
func (s *reputationService) GetUserBadges(userID string) ([]model.Badge, error) {
	return s.badgeRepo.GetUserBadges(userID)
}

// ListBadges 勋章目录
func (s *reputationService) ListBadges() ([]model.Badge, error) {
	return s.badgeRepo.ListBadges()
}

// lookupAuthor 校验目标存在并返回作者
func (s *reputationService) lookupAuthor(targetType, targetID string) (string, error) {
	switch targetType {
	case model.TargetTopic:
		topic, err := s.topicRepo.GetByID(targetID)
		if err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return "", ErrTargetNotFound
			}
			return "", err
		}
		return topic.AuthorID, nil
	case model.TargetComment:
		comment, err := s.commentRepo.GetByID(targetID)
		if err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return "", ErrTargetNotFound
			}
			return "", err
		}
		return comment.AuthorID, nil
	default:
		return "", ErrInvalidTargetType
	}
}

func (s *reputationService) enqueueRepair(task worker.RecomputeTask) {
	if s.pool == nil {
		return
	}
	s.pool.AddTask(task)
}
