package service

import (
	"fmt"
	"sort"
	"testing"
	"time"

	forummodel "forum_hub/internal/domain/forum/model"
	"forum_hub/internal/domain/reputation/model"
	"forum_hub/internal/domain/reputation/repository"
	usermodel "forum_hub/internal/domain/user/model"
	"forum_hub/pkg/cache"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

// 内存版存储，让投票状态机的测试走真实的完整链路：
// 投票写入 → 票数重算 → 声望重算 → 勋章评估
type memStore struct {
	votes      map[string]*model.Vote // key: user|type|target
	topics     map[string]*forummodel.Topic
	comments   map[string]*forummodel.Comment
	users      map[string]*usermodel.User
	badges     []model.Badge
	userBadges map[string]map[string]bool // userID -> badgeID set
	nextID     int
}

func newMemStore() *memStore {
	return &memStore{
		votes:      make(map[string]*model.Vote),
		topics:     make(map[string]*forummodel.Topic),
		comments:   make(map[string]*forummodel.Comment),
		users:      make(map[string]*usermodel.User),
		userBadges: make(map[string]map[string]bool),
	}
}

func voteKey(userID, targetType, targetID string) string {
	return userID + "|" + targetType + "|" + targetID
}

func (s *memStore) addUser(id string) *usermodel.User {
	u := &usermodel.User{Username: id}
	u.ID = id
	u.CreatedAt = time.Now()
	s.users[id] = u
	return u
}

func (s *memStore) addTopic(id, authorID string) *forummodel.Topic {
	t := &forummodel.Topic{AuthorID: authorID, Title: "t"}
	t.ID = id
	s.topics[id] = t
	return t
}

func (s *memStore) addComment(id, topicID, authorID string) *forummodel.Comment {
	c := &forummodel.Comment{TopicID: topicID, AuthorID: authorID, Body: "c"}
	c.ID = id
	s.comments[id] = c
	return c
}

// --- VoteRepository fake ---

type fakeVoteRepo struct{ store *memStore }

func (r *fakeVoteRepo) GetByKey(userID, targetType, targetID string) (*model.Vote, error) {
	v, ok := r.store.votes[voteKey(userID, targetType, targetID)]
	if !ok {
		return nil, gorm.ErrRecordNotFound
	}
	copied := *v
	return &copied, nil
}

func (r *fakeVoteRepo) Create(vote *model.Vote) error {
	r.store.nextID++
	vote.ID = fmt.Sprintf("v-%d", r.store.nextID)
	vote.CreatedAt = time.Now()
	copied := *vote
	r.store.votes[voteKey(vote.UserID, vote.TargetType, vote.TargetID)] = &copied
	return nil
}

func (r *fakeVoteRepo) UpdateDirection(voteID string, voteType int) error {
	for _, v := range r.store.votes {
		if v.ID == voteID {
			v.VoteType = voteType
			v.UpdatedAt = time.Now()
			return nil
		}
	}
	return gorm.ErrRecordNotFound
}

func (r *fakeVoteRepo) Delete(vote *model.Vote) error {
	delete(r.store.votes, voteKey(vote.UserID, vote.TargetType, vote.TargetID))
	return nil
}

func (r *fakeVoteRepo) CountByTarget(targetType, targetID string) (int, int, error) {
	var up, down int
	for _, v := range r.store.votes {
		if v.TargetType == targetType && v.TargetID == targetID {
			if v.VoteType == model.VoteUp {
				up++
			} else {
				down++
			}
		}
	}
	return up, down, nil
}

func (r *fakeVoteRepo) WriteTally(targetType, targetID string, upvotes, downvotes, score int) error {
	switch targetType {
	case model.TargetTopic:
		t := r.store.topics[targetID]
		t.Upvotes, t.Downvotes, t.VoteScore = upvotes, downvotes, score
	case model.TargetComment:
		c := r.store.comments[targetID]
		c.Upvotes, c.Downvotes, c.VoteScore = upvotes, downvotes, score
	}
	return nil
}

func (r *fakeVoteRepo) CountVotesReceived(authorID string) (*repository.VoteCounts, error) {
	counts := &repository.VoteCounts{}
	for _, v := range r.store.votes {
		if v.UserID == authorID {
			continue // 自投票不计入声望
		}
		var owned bool
		switch v.TargetType {
		case model.TargetTopic:
			t, ok := r.store.topics[v.TargetID]
			owned = ok && t.AuthorID == authorID
		case model.TargetComment:
			c, ok := r.store.comments[v.TargetID]
			owned = ok && c.AuthorID == authorID
		}
		if !owned {
			continue
		}
		switch {
		case v.TargetType == model.TargetTopic && v.VoteType == model.VoteUp:
			counts.TopicUpvotes++
		case v.TargetType == model.TargetTopic && v.VoteType == model.VoteDown:
			counts.TopicDownvotes++
		case v.TargetType == model.TargetComment && v.VoteType == model.VoteUp:
			counts.CommentUpvotes++
		case v.TargetType == model.TargetComment && v.VoteType == model.VoteDown:
			counts.CommentDownvotes++
		}
	}
	return counts, nil
}

func (r *fakeVoteRepo) UpdateUserReputation(userID string, reputation, votesReceived int) error {
	u := r.store.users[userID]
	u.Reputation = reputation
	u.VotesReceived = votesReceived
	return nil
}

func (r *fakeVoteRepo) GetLeaderboard(offset, limit int) ([]usermodel.User, error) {
	var users []usermodel.User
	for _, u := range r.store.users {
		if u.Reputation > 0 {
			users = append(users, *u)
		}
	}
	sort.Slice(users, func(i, j int) bool {
		if users[i].Reputation != users[j].Reputation {
			return users[i].Reputation > users[j].Reputation
		}
		return users[i].VotesReceived > users[j].VotesReceived
	})
	if offset >= len(users) {
		return nil, nil
	}
	end := offset + limit
	if end > len(users) {
		end = len(users)
	}
	return users[offset:end], nil
}

// --- BadgeRepository fake ---

type fakeBadgeRepo struct{ store *memStore }

func (r *fakeBadgeRepo) ListBadges() ([]model.Badge, error) {
	return r.store.badges, nil
}

func (r *fakeBadgeRepo) GetByID(id string) (*model.Badge, error) {
	for _, b := range r.store.badges {
		if b.ID == id {
			badge := b
			return &badge, nil
		}
	}
	return nil, gorm.ErrRecordNotFound
}

func (r *fakeBadgeRepo) GetUserBadges(userID string) ([]model.Badge, error) {
	var result []model.Badge
	for _, b := range r.store.badges {
		if r.store.userBadges[userID][b.ID] {
			result = append(result, b)
		}
	}
	return result, nil
}

func (r *fakeBadgeRepo) GetHeldBadgeIDs(userID string) (map[string]bool, error) {
	held := make(map[string]bool)
	for id := range r.store.userBadges[userID] {
		held[id] = true
	}
	return held, nil
}

func (r *fakeBadgeRepo) Award(userID, badgeID string, at time.Time) (bool, error) {
	if r.store.userBadges[userID] == nil {
		r.store.userBadges[userID] = make(map[string]bool)
	}
	if r.store.userBadges[userID][badgeID] {
		return false, nil
	}
	r.store.userBadges[userID][badgeID] = true
	return true, nil
}

// --- UserRepository fake ---

type fakeUserRepo struct{ store *memStore }

func (r *fakeUserRepo) Create(user *usermodel.User) error {
	r.store.users[user.ID] = user
	return nil
}

func (r *fakeUserRepo) GetByID(id string) (*usermodel.User, error) {
	u, ok := r.store.users[id]
	if !ok {
		return nil, gorm.ErrRecordNotFound
	}
	copied := *u
	return &copied, nil
}

func (r *fakeUserRepo) GetByUsername(username string) (*usermodel.User, error) {
	for _, u := range r.store.users {
		if u.Username == username {
			return u, nil
		}
	}
	return nil, gorm.ErrRecordNotFound
}

func (r *fakeUserRepo) GetByEmail(email string) (*usermodel.User, error) {
	return nil, gorm.ErrRecordNotFound
}

func (r *fakeUserRepo) GetList(offset, limit int) ([]usermodel.User, int64, error) {
	return nil, 0, nil
}

func (r *fakeUserRepo) Update(user *usermodel.User) error {
	r.store.users[user.ID] = user
	return nil
}

func (r *fakeUserRepo) UpdateLastLogin(userID string, at time.Time) error { return nil }

func (r *fakeUserRepo) UpdateStatus(userID string, status int, bannedUntil *time.Time) error {
	return nil
}

func (r *fakeUserRepo) Delete(user *usermodel.User) error { return nil }

// --- forum repository fakes ---

type fakeTopicRepo struct{ store *memStore }

func (r *fakeTopicRepo) Create(topic *forummodel.Topic) error {
	r.store.topics[topic.ID] = topic
	return nil
}

func (r *fakeTopicRepo) GetByID(id string) (*forummodel.Topic, error) {
	t, ok := r.store.topics[id]
	if !ok {
		return nil, gorm.ErrRecordNotFound
	}
	copied := *t
	return &copied, nil
}

func (r *fakeTopicRepo) GetList(category string, offset, limit int) ([]forummodel.Topic, int64, error) {
	return nil, 0, nil
}

func (r *fakeTopicRepo) Delete(topic *forummodel.Topic) error { return nil }

func (r *fakeTopicRepo) IncrementViewCount(id string) error { return nil }

func (r *fakeTopicRepo) UpdateCommentCount(id string, count int64) error { return nil }

func (r *fakeTopicRepo) CountByAuthor(authorID string) (int64, error) {
	var n int64
	for _, t := range r.store.topics {
		if t.AuthorID == authorID {
			n++
		}
	}
	return n, nil
}

type fakeCommentRepo struct{ store *memStore }

func (r *fakeCommentRepo) Create(comment *forummodel.Comment) error {
	r.store.comments[comment.ID] = comment
	return nil
}

func (r *fakeCommentRepo) GetByID(id string) (*forummodel.Comment, error) {
	c, ok := r.store.comments[id]
	if !ok {
		return nil, gorm.ErrRecordNotFound
	}
	copied := *c
	return &copied, nil
}

func (r *fakeCommentRepo) GetListByTopic(topicID string, offset, limit int) ([]forummodel.Comment, int64, error) {
	return nil, 0, nil
}

func (r *fakeCommentRepo) Delete(comment *forummodel.Comment) error { return nil }

func (r *fakeCommentRepo) CountByTopic(topicID string) (int64, error) { return 0, nil }

func (r *fakeCommentRepo) CountByAuthor(authorID string) (int64, error) {
	var n int64
	for _, c := range r.store.comments {
		if c.AuthorID == authorID {
			n++
		}
	}
	return n, nil
}

func newTestService(store *memStore) ReputationService {
	return NewReputationService(
		&fakeVoteRepo{store},
		&fakeBadgeRepo{store},
		&fakeUserRepo{store},
		&fakeTopicRepo{store},
		&fakeCommentRepo{store},
		cache.NewMemoryCache(),
	)
}

func TestCastVoteValidation(t *testing.T) {
	store := newMemStore()
	store.addUser("a")
	store.addTopic("t-1", "a")
	svc := newTestService(store)

	t.Run("非法目标类型", func(t *testing.T) {
		_, err := svc.CastVote("a", "post", "t-1", model.VoteUp)
		assert.ErrorIs(t, err, ErrInvalidTargetType)
	})

	t.Run("非法投票方向", func(t *testing.T) {
		_, err := svc.CastVote("a", model.TargetTopic, "t-1", 2)
		assert.ErrorIs(t, err, ErrInvalidVoteType)

		_, err = svc.CastVote("a", model.TargetTopic, "t-1", 0)
		assert.ErrorIs(t, err, ErrInvalidVoteType)
	})

	t.Run("目标不存在时不产生任何写入", func(t *testing.T) {
		_, err := svc.CastVote("a", model.TargetTopic, "missing", model.VoteUp)
		assert.ErrorIs(t, err, ErrTargetNotFound)
		assert.Empty(t, store.votes)
	})
}

// 场景：B 给 A 的主题点赞
func TestUpvoteCreatesVoteAndReputation(t *testing.T) {
	store := newMemStore()
	store.addUser("a")
	store.addUser("b")
	store.addTopic("t-1", "a")
	svc := newTestService(store)

	result, err := svc.CastVote("b", model.TargetTopic, "t-1", model.VoteUp)
	require.NoError(t, err)
	assert.Equal(t, ActionCreated, result.Action)
	assert.Equal(t, model.VoteUp, result.ResultingVote)

	topic := store.topics["t-1"]
	assert.Equal(t, 1, topic.Upvotes)
	assert.Equal(t, 0, topic.Downvotes)
	assert.Equal(t, 1, topic.VoteScore)

	author := store.users["a"]
	assert.Equal(t, 10, author.Reputation)
	assert.Equal(t, 1, author.VotesReceived)
}

// 场景：B 换方向（赞 → 踩），声望被截断到 0
func TestDirectionSwitch(t *testing.T) {
	store := newMemStore()
	store.addUser("a")
	store.addUser("b")
	store.addTopic("t-1", "a")
	svc := newTestService(store)

	_, err := svc.CastVote("b", model.TargetTopic, "t-1", model.VoteUp)
	require.NoError(t, err)

	result, err := svc.CastVote("b", model.TargetTopic, "t-1", model.VoteDown)
	require.NoError(t, err)
	assert.Equal(t, ActionChanged, result.Action)
	assert.Equal(t, model.VoteDown, result.ResultingVote)

	// 换方向后仍然只有一行投票
	assert.Len(t, store.votes, 1)
	vote := store.votes[voteKey("b", model.TargetTopic, "t-1")]
	assert.Equal(t, model.VoteDown, vote.VoteType)

	topic := store.topics["t-1"]
	assert.Equal(t, 0, topic.Upvotes)
	assert.Equal(t, 1, topic.Downvotes)
	assert.Equal(t, -1, topic.VoteScore)

	// 加权 -2，截断为 0
	author := store.users["a"]
	assert.Equal(t, 0, author.Reputation)
	assert.Equal(t, 0, author.VotesReceived)
}

// 场景：同方向再投即取消
func TestToggleOff(t *testing.T) {
	store := newMemStore()
	store.addUser("a")
	store.addUser("b")
	store.addTopic("t-1", "a")
	svc := newTestService(store)

	_, err := svc.CastVote("b", model.TargetTopic, "t-1", model.VoteDown)
	require.NoError(t, err)

	result, err := svc.CastVote("b", model.TargetTopic, "t-1", model.VoteDown)
	require.NoError(t, err)
	assert.Equal(t, ActionRemoved, result.Action)
	assert.Equal(t, 0, result.ResultingVote)

	assert.Empty(t, store.votes)

	topic := store.topics["t-1"]
	assert.Equal(t, 0, topic.Upvotes)
	assert.Equal(t, 0, topic.Downvotes)
	assert.Equal(t, 0, topic.VoteScore)
}

// 场景：自己给自己的主题点赞，票数计入但声望不变
func TestSelfVoteExcludedFromReputation(t *testing.T) {
	store := newMemStore()
	store.addUser("a")
	store.addTopic("t-1", "a")
	svc := newTestService(store)

	_, err := svc.CastVote("a", model.TargetTopic, "t-1", model.VoteUp)
	require.NoError(t, err)

	topic := store.topics["t-1"]
	assert.Equal(t, 1, topic.Upvotes)

	author := store.users["a"]
	assert.Equal(t, 0, author.Reputation)
	assert.Equal(t, 0, author.VotesReceived)
}

// 评论票的权重低于主题票
func TestCommentVoteWeights(t *testing.T) {
	store := newMemStore()
	store.addUser("a")
	store.addUser("b")
	store.addUser("c")
	store.addTopic("t-1", "a")
	store.addComment("c-1", "t-1", "a")
	svc := newTestService(store)

	_, err := svc.CastVote("b", model.TargetComment, "c-1", model.VoteUp)
	require.NoError(t, err)
	assert.Equal(t, 5, store.users["a"].Reputation)

	_, err = svc.CastVote("c", model.TargetComment, "c-1", model.VoteDown)
	require.NoError(t, err)
	// +5 - 1 = 4
	assert.Equal(t, 4, store.users["a"].Reputation)
	assert.Equal(t, 1, store.users["a"].VotesReceived)

	comment := store.comments["c-1"]
	assert.Equal(t, 1, comment.Upvotes)
	assert.Equal(t, 1, comment.Downvotes)
	assert.Equal(t, 0, comment.VoteScore)
}

// 任意投票序列后，票数缓存等于对投票表的直接计数
func TestTallyMatchesVoteTable(t *testing.T) {
	store := newMemStore()
	store.addUser("a")
	store.addTopic("t-1", "a")
	svc := newTestService(store)

	voters := []string{"u1", "u2", "u3", "u4", "u5"}
	for _, v := range voters {
		store.addUser(v)
	}

	// 混合操作：创建、换向、取消
	steps := []struct {
		user string
		vote int
	}{
		{"u1", model.VoteUp},
		{"u2", model.VoteUp},
		{"u3", model.VoteDown},
		{"u1", model.VoteDown}, // 换向
		{"u2", model.VoteUp},   // 取消
		{"u4", model.VoteUp},
		{"u5", model.VoteDown},
		{"u5", model.VoteDown}, // 取消
	}
	for _, step := range steps {
		_, err := svc.CastVote(step.user, model.TargetTopic, "t-1", step.vote)
		require.NoError(t, err)
	}

	var up, down int
	for _, v := range store.votes {
		if v.TargetID != "t-1" {
			continue
		}
		if v.VoteType == model.VoteUp {
			up++
		} else {
			down++
		}
	}

	topic := store.topics["t-1"]
	assert.Equal(t, up, topic.Upvotes)
	assert.Equal(t, down, topic.Downvotes)
	assert.Equal(t, up-down, topic.VoteScore)
}

func TestGetUserVote(t *testing.T) {
	store := newMemStore()
	store.addUser("a")
	store.addUser("b")
	store.addTopic("t-1", "a")
	svc := newTestService(store)

	vote, err := svc.GetUserVote("b", model.TargetTopic, "t-1")
	require.NoError(t, err)
	assert.Equal(t, 0, vote)

	_, err = svc.CastVote("b", model.TargetTopic, "t-1", model.VoteDown)
	require.NoError(t, err)

	vote, err = svc.GetUserVote("b", model.TargetTopic, "t-1")
	require.NoError(t, err)
	assert.Equal(t, model.VoteDown, vote)
}

// 场景：声望跨过 50 的勋章阈值，只授予一次
func TestBadgeAwardedOnceAtThreshold(t *testing.T) {
	store := newMemStore()
	store.addUser("c")
	badge := model.Badge{
		Name:          "Rising Star",
		Tier:          model.TierBronze,
		CriteriaType:  model.CriteriaReputation,
		CriteriaValue: 50,
	}
	badge.ID = "badge-1"
	store.badges = []model.Badge{badge}

	for i := 1; i <= 5; i++ {
		store.addUser(fmt.Sprintf("voter-%d", i))
		store.addTopic(fmt.Sprintf("t-%d", i), "c")
	}
	svc := newTestService(store)

	// 前 4 个赞（40 分）不触发勋章
	for i := 1; i <= 4; i++ {
		_, err := svc.CastVote(fmt.Sprintf("voter-%d", i), model.TargetTopic, fmt.Sprintf("t-%d", i), model.VoteUp)
		require.NoError(t, err)
	}
	assert.Empty(t, store.userBadges["c"])

	// 第 5 个赞跨过阈值
	_, err := svc.CastVote("voter-5", model.TargetTopic, "t-5", model.VoteUp)
	require.NoError(t, err)
	assert.Equal(t, 50, store.users["c"].Reputation)
	assert.True(t, store.userBadges["c"]["badge-1"])

	// 重复评估不产生重复授予
	newly, err := svc.EvaluateBadges("c")
	require.NoError(t, err)
	assert.Empty(t, newly)
	assert.Len(t, store.userBadges["c"], 1)
}

func TestBadgeCriteriaTypes(t *testing.T) {
	store := newMemStore()
	user := store.addUser("a")
	user.CreatedAt = time.Now().AddDate(0, 0, -365)

	topicBadge := model.Badge{Name: "Author", CriteriaType: model.CriteriaTopics, CriteriaValue: 2}
	topicBadge.ID = "b-topics"
	ageBadge := model.Badge{Name: "Veteran", CriteriaType: model.CriteriaAccountAge, CriteriaValue: 365}
	ageBadge.ID = "b-age"
	store.badges = []model.Badge{topicBadge, ageBadge}

	store.addTopic("t-1", "a")
	store.addTopic("t-2", "a")
	svc := newTestService(store)

	newly, err := svc.EvaluateBadges("a")
	require.NoError(t, err)
	assert.Len(t, newly, 2)
}

func TestLeaderboard(t *testing.T) {
	store := newMemStore()
	for i, rep := range []int{0, 30, 10, 30} {
		u := store.addUser(fmt.Sprintf("u-%d", i))
		u.Reputation = rep
	}
	// 并列 30 分时获赞数多者靠前
	store.users["u-1"].VotesReceived = 3
	store.users["u-3"].VotesReceived = 7
	svc := newTestService(store)

	users, err := svc.GetLeaderboard(10, 0)
	require.NoError(t, err)
	require.Len(t, users, 3) // 声望为 0 的不上榜

	assert.Equal(t, "u-3", users[0].ID)
	assert.Equal(t, "u-1", users[1].ID)
	assert.Equal(t, "u-2", users[2].ID)
}

// 踩在前、赞在后的混合序列也不会让声望变成负数
func TestReputationNeverNegative(t *testing.T) {
	store := newMemStore()
	store.addUser("a")
	store.addTopic("t-1", "a")
	store.addComment("c-1", "t-1", "a")
	for i := 1; i <= 3; i++ {
		store.addUser(fmt.Sprintf("hater-%d", i))
	}
	svc := newTestService(store)

	_, err := svc.CastVote("hater-1", model.TargetTopic, "t-1", model.VoteDown)
	require.NoError(t, err)
	_, err = svc.CastVote("hater-2", model.TargetTopic, "t-1", model.VoteDown)
	require.NoError(t, err)
	_, err = svc.CastVote("hater-3", model.TargetComment, "c-1", model.VoteDown)
	require.NoError(t, err)

	// -2 -2 -1 = -5，截断为 0
	assert.Equal(t, 0, store.users["a"].Reputation)
}
