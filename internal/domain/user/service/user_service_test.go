package service

import (
	"testing"
	"time"

	"forum_hub/internal/domain/user/model"
	"forum_hub/internal/pkg/config"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

// MockUserRepository 用户仓库 Mock
type MockUserRepository struct {
	mock.Mock
}

func (m *MockUserRepository) Create(user *model.User) error {
	args := m.Called(user)
	return args.Error(0)
}

func (m *MockUserRepository) GetByID(id string) (*model.User, error) {
	args := m.Called(id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.User), args.Error(1)
}

func (m *MockUserRepository) GetByUsername(username string) (*model.User, error) {
	args := m.Called(username)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.User), args.Error(1)
}

func (m *MockUserRepository) GetByEmail(email string) (*model.User, error) {
	args := m.Called(email)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.User), args.Error(1)
}

func (m *MockUserRepository) GetList(offset, limit int) ([]model.User, int64, error) {
	args := m.Called(offset, limit)
	return args.Get(0).([]model.User), args.Get(1).(int64), args.Error(2)
}

func (m *MockUserRepository) Update(user *model.User) error {
	args := m.Called(user)
	return args.Error(0)
}

func (m *MockUserRepository) UpdateLastLogin(userID string, at time.Time) error {
	args := m.Called(userID, at)
	return args.Error(0)
}

func (m *MockUserRepository) UpdateStatus(userID string, status int, bannedUntil *time.Time) error {
	args := m.Called(userID, status, bannedUntil)
	return args.Error(0)
}

func (m *MockUserRepository) Delete(user *model.User) error {
	args := m.Called(user)
	return args.Error(0)
}

func setupTestConfig() {
	config.GlobalConfig = config.Config{}
	config.GlobalConfig.JWT.Secret = "test-secret"
	config.GlobalConfig.JWT.Expire = 24
}

func TestRegister(t *testing.T) {
	setupTestConfig()

	t.Run("成功注册", func(t *testing.T) {
		repo := new(MockUserRepository)
		svc := NewUserService(repo)

		repo.On("GetByUsername", "alice").Return(nil, gorm.ErrRecordNotFound)
		repo.On("GetByEmail", "alice@example.com").Return(nil, gorm.ErrRecordNotFound)
		repo.On("Create", mock.AnythingOfType("*model.User")).Return(nil)

		user, err := svc.Register("alice", "alice@example.com", "password123")
		assert.NoError(t, err)
		assert.Equal(t, "alice", user.Username)
		assert.Equal(t, model.RoleUser, user.Role)
		// 密码必须已哈希
		assert.NotEqual(t, "password123", user.PasswordHash)
		assert.NoError(t, bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte("password123")))
		repo.AssertExpectations(t)
	})

	t.Run("用户名已占用", func(t *testing.T) {
		repo := new(MockUserRepository)
		svc := NewUserService(repo)

		repo.On("GetByUsername", "alice").Return(&model.User{Username: "alice"}, nil)

		_, err := svc.Register("alice", "other@example.com", "password123")
		assert.ErrorIs(t, err, ErrUserExists)
	})

	t.Run("非法用户名", func(t *testing.T) {
		repo := new(MockUserRepository)
		svc := NewUserService(repo)

		_, err := svc.Register("a b!", "x@example.com", "password123")
		assert.Error(t, err)
	})

	t.Run("密码过短", func(t *testing.T) {
		repo := new(MockUserRepository)
		svc := NewUserService(repo)

		_, err := svc.Register("bob", "bob@example.com", "short")
		assert.Error(t, err)
	})
}

func TestLogin(t *testing.T) {
	setupTestConfig()

	hash, _ := bcrypt.GenerateFromPassword([]byte("password123"), bcrypt.DefaultCost)

	t.Run("成功登录", func(t *testing.T) {
		repo := new(MockUserRepository)
		svc := NewUserService(repo)

		user := &model.User{Username: "alice", PasswordHash: string(hash), Status: model.StatusNormal}
		user.ID = "u-1"
		repo.On("GetByUsername", "alice").Return(user, nil)
		repo.On("UpdateLastLogin", "u-1", mock.AnythingOfType("time.Time")).Return(nil)

		token, got, err := svc.Login("alice", "password123")
		assert.NoError(t, err)
		assert.NotEmpty(t, token)
		assert.Equal(t, "u-1", got.ID)
	})

	t.Run("密码错误", func(t *testing.T) {
		repo := new(MockUserRepository)
		svc := NewUserService(repo)

		user := &model.User{Username: "alice", PasswordHash: string(hash), Status: model.StatusNormal}
		repo.On("GetByUsername", "alice").Return(user, nil)

		_, _, err := svc.Login("alice", "wrong-password")
		assert.ErrorIs(t, err, ErrInvalidCredentials)
	})

	t.Run("用户不存在", func(t *testing.T) {
		repo := new(MockUserRepository)
		svc := NewUserService(repo)

		repo.On("GetByUsername", "ghost").Return(nil, gorm.ErrRecordNotFound)

		_, _, err := svc.Login("ghost", "password123")
		assert.ErrorIs(t, err, ErrInvalidCredentials)
	})

	t.Run("账号被封禁", func(t *testing.T) {
		repo := new(MockUserRepository)
		svc := NewUserService(repo)

		until := time.Now().Add(24 * time.Hour)
		user := &model.User{Username: "alice", PasswordHash: string(hash), Status: model.StatusBanned, BannedUntil: &until}
		repo.On("GetByUsername", "alice").Return(user, nil)

		_, _, err := svc.Login("alice", "password123")
		assert.ErrorIs(t, err, ErrAccountBanned)
	})

	t.Run("封禁过期后自动恢复", func(t *testing.T) {
		repo := new(MockUserRepository)
		svc := NewUserService(repo)

		until := time.Now().Add(-time.Hour)
		user := &model.User{Username: "alice", PasswordHash: string(hash), Status: model.StatusBanned, BannedUntil: &until}
		user.ID = "u-1"
		repo.On("GetByUsername", "alice").Return(user, nil)
		repo.On("Update", mock.AnythingOfType("*model.User")).Return(nil)
		repo.On("UpdateLastLogin", "u-1", mock.AnythingOfType("time.Time")).Return(nil)

		_, got, err := svc.Login("alice", "password123")
		assert.NoError(t, err)
		assert.Equal(t, model.StatusNormal, got.Status)
		assert.Nil(t, got.BannedUntil)
	})
}

func TestDeleteUser(t *testing.T) {
	setupTestConfig()

	repo := new(MockUserRepository)
	svc := NewUserService(repo)

	user := &model.User{Status: model.StatusNormal}
	user.ID = "u-1"
	repo.On("GetByID", "u-1").Return(user, nil)
	repo.On("Update", mock.MatchedBy(func(u *model.User) bool {
		return u.Status == model.StatusDeleted
	})).Return(nil)

	err := svc.DeleteUser("u-1")
	assert.NoError(t, err)
	repo.AssertExpectations(t)
}
