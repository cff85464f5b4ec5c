package service

import (
	"testing"

	"forum_hub/internal/domain/forum/model"
	usermodel "forum_hub/internal/domain/user/model"
	"forum_hub/pkg/cache"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"gorm.io/gorm"
)

// MockTopicRepository 主题仓库 Mock
type MockTopicRepository struct {
	mock.Mock
}

func (m *MockTopicRepository) Create(topic *model.Topic) error {
	args := m.Called(topic)
	return args.Error(0)
}

func (m *MockTopicRepository) GetByID(id string) (*model.Topic, error) {
	args := m.Called(id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.Topic), args.Error(1)
}

func (m *MockTopicRepository) GetList(category string, offset, limit int) ([]model.Topic, int64, error) {
	args := m.Called(category, offset, limit)
	return args.Get(0).([]model.Topic), args.Get(1).(int64), args.Error(2)
}

func (m *MockTopicRepository) Delete(topic *model.Topic) error {
	args := m.Called(topic)
	return args.Error(0)
}

func (m *MockTopicRepository) IncrementViewCount(id string) error {
	args := m.Called(id)
	return args.Error(0)
}

func (m *MockTopicRepository) UpdateCommentCount(id string, count int64) error {
	args := m.Called(id, count)
	return args.Error(0)
}

func (m *MockTopicRepository) CountByAuthor(authorID string) (int64, error) {
	args := m.Called(authorID)
	return args.Get(0).(int64), args.Error(1)
}

// MockCommentRepository 评论仓库 Mock
type MockCommentRepository struct {
	mock.Mock
}

func (m *MockCommentRepository) Create(comment *model.Comment) error {
	args := m.Called(comment)
	return args.Error(0)
}

func (m *MockCommentRepository) GetByID(id string) (*model.Comment, error) {
	args := m.Called(id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.Comment), args.Error(1)
}

func (m *MockCommentRepository) GetListByTopic(topicID string, offset, limit int) ([]model.Comment, int64, error) {
	args := m.Called(topicID, offset, limit)
	return args.Get(0).([]model.Comment), args.Get(1).(int64), args.Error(2)
}

func (m *MockCommentRepository) Delete(comment *model.Comment) error {
	args := m.Called(comment)
	return args.Error(0)
}

func (m *MockCommentRepository) CountByTopic(topicID string) (int64, error) {
	args := m.Called(topicID)
	return args.Get(0).(int64), args.Error(1)
}

func (m *MockCommentRepository) CountByAuthor(authorID string) (int64, error) {
	args := m.Called(authorID)
	return args.Get(0).(int64), args.Error(1)
}

func newTestService() (ForumService, *MockTopicRepository, *MockCommentRepository) {
	topicRepo := new(MockTopicRepository)
	commentRepo := new(MockCommentRepository)
	svc := NewForumService(topicRepo, commentRepo, cache.NewMemoryCache())
	return svc, topicRepo, commentRepo
}

func TestCreateTopic(t *testing.T) {
	t.Run("成功发帖", func(t *testing.T) {
		svc, topicRepo, _ := newTestService()
		topicRepo.On("Create", mock.AnythingOfType("*model.Topic")).Return(nil)

		topic, err := svc.CreateTopic("u-1", "Hello forum", "First post body", "general")
		assert.NoError(t, err)
		assert.Equal(t, "u-1", topic.AuthorID)
		assert.Equal(t, "general", topic.Category)
	})

	t.Run("标题过短", func(t *testing.T) {
		svc, _, _ := newTestService()

		_, err := svc.CreateTopic("u-1", "ab", "body text", "")
		assert.Error(t, err)
	})

	t.Run("正文经过 HTML 转义", func(t *testing.T) {
		svc, topicRepo, _ := newTestService()
		topicRepo.On("Create", mock.AnythingOfType("*model.Topic")).Return(nil)

		topic, err := svc.CreateTopic("u-1", "Script test", "<script>alert(1)</script>", "")
		assert.NoError(t, err)
		assert.NotContains(t, topic.Body, "<script>")
	})
}

func TestGetTopic(t *testing.T) {
	t.Run("缓存未命中时查库并回填", func(t *testing.T) {
		svc, topicRepo, _ := newTestService()

		topic := &model.Topic{Title: "cached"}
		topic.ID = "t-1"
		topicRepo.On("GetByID", "t-1").Return(topic, nil).Once()
		topicRepo.On("IncrementViewCount", "t-1").Return(nil)

		got, err := svc.GetTopic("t-1")
		assert.NoError(t, err)
		assert.Equal(t, "cached", got.Title)

		// 第二次命中缓存，不再查库
		got, err = svc.GetTopic("t-1")
		assert.NoError(t, err)
		assert.Equal(t, "cached", got.Title)
		topicRepo.AssertNumberOfCalls(t, "GetByID", 1)
	})

	t.Run("不存在返回 ErrTopicNotFound", func(t *testing.T) {
		svc, topicRepo, _ := newTestService()
		topicRepo.On("GetByID", "missing").Return(nil, gorm.ErrRecordNotFound)
		topicRepo.On("IncrementViewCount", "missing").Return(nil)

		_, err := svc.GetTopic("missing")
		assert.ErrorIs(t, err, ErrTopicNotFound)
	})
}

func TestDeleteTopic(t *testing.T) {
	topic := func() *model.Topic {
		tp := &model.Topic{Title: "t", AuthorID: "author-1"}
		tp.ID = "t-1"
		return tp
	}

	t.Run("作者本人可删除", func(t *testing.T) {
		svc, topicRepo, _ := newTestService()
		topicRepo.On("GetByID", "t-1").Return(topic(), nil)
		topicRepo.On("Delete", mock.AnythingOfType("*model.Topic")).Return(nil)

		err := svc.DeleteTopic("author-1", usermodel.RoleUser, "t-1")
		assert.NoError(t, err)
	})

	t.Run("管理员可删除他人主题", func(t *testing.T) {
		svc, topicRepo, _ := newTestService()
		topicRepo.On("GetByID", "t-1").Return(topic(), nil)
		topicRepo.On("Delete", mock.AnythingOfType("*model.Topic")).Return(nil)

		err := svc.DeleteTopic("admin-1", usermodel.RoleAdmin, "t-1")
		assert.NoError(t, err)
	})

	t.Run("非作者非管理员被拒绝", func(t *testing.T) {
		svc, topicRepo, _ := newTestService()
		topicRepo.On("GetByID", "t-1").Return(topic(), nil)

		err := svc.DeleteTopic("stranger", usermodel.RoleUser, "t-1")
		assert.ErrorIs(t, err, ErrNoPermission)
		topicRepo.AssertNotCalled(t, "Delete", mock.Anything)
	})
}

func TestCreateComment(t *testing.T) {
	newTopic := func() *model.Topic {
		tp := &model.Topic{Title: "t", AuthorID: "author-1"}
		tp.ID = "t-1"
		return tp
	}

	t.Run("顶层评论", func(t *testing.T) {
		svc, topicRepo, commentRepo := newTestService()
		topicRepo.On("GetByID", "t-1").Return(newTopic(), nil)
		commentRepo.On("Create", mock.AnythingOfType("*model.Comment")).Return(nil)
		commentRepo.On("CountByTopic", "t-1").Return(int64(1), nil)
		topicRepo.On("UpdateCommentCount", "t-1", int64(1)).Return(nil)

		comment, err := svc.CreateComment("u-2", "t-1", "nice topic", nil)
		assert.NoError(t, err)
		assert.Equal(t, 0, comment.Level)
		assert.Nil(t, comment.ParentID)
		topicRepo.AssertExpectations(t)
	})

	t.Run("嵌套回复继承根评论与层级", func(t *testing.T) {
		svc, topicRepo, commentRepo := newTestService()

		parent := &model.Comment{TopicID: "t-1", AuthorID: "u-2", Level: 0}
		parent.ID = "c-1"
		parentID := "c-1"

		topicRepo.On("GetByID", "t-1").Return(newTopic(), nil)
		commentRepo.On("GetByID", "c-1").Return(parent, nil)
		commentRepo.On("Create", mock.AnythingOfType("*model.Comment")).Return(nil)
		commentRepo.On("CountByTopic", "t-1").Return(int64(2), nil)
		topicRepo.On("UpdateCommentCount", "t-1", int64(2)).Return(nil)

		comment, err := svc.CreateComment("u-3", "t-1", "reply text", &parentID)
		assert.NoError(t, err)
		assert.Equal(t, 1, comment.Level)
		assert.Equal(t, "c-1", *comment.RootID)
	})

	t.Run("主题不存在", func(t *testing.T) {
		svc, topicRepo, commentRepo := newTestService()
		topicRepo.On("GetByID", "missing").Return(nil, gorm.ErrRecordNotFound)

		_, err := svc.CreateComment("u-2", "missing", "body", nil)
		assert.ErrorIs(t, err, ErrTopicNotFound)
		commentRepo.AssertNotCalled(t, "Create", mock.Anything)
	})

	t.Run("父评论属于其他主题被拒绝", func(t *testing.T) {
		svc, topicRepo, commentRepo := newTestService()

		parent := &model.Comment{TopicID: "other-topic", AuthorID: "u-2"}
		parent.ID = "c-1"
		parentID := "c-1"

		topicRepo.On("GetByID", "t-1").Return(newTopic(), nil)
		commentRepo.On("GetByID", "c-1").Return(parent, nil)

		_, err := svc.CreateComment("u-3", "t-1", "reply", &parentID)
		assert.ErrorIs(t, err, ErrCommentNotFound)
	})
}
