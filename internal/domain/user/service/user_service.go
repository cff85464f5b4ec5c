package service

import (
	"errors"
	"time"

	"forum_hub/internal/domain/user/model"
	"forum_hub/internal/domain/user/repository"
	"forum_hub/pkg/security"
	"forum_hub/pkg/utils"

	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

// 服务层错误
var (
	ErrUserExists         = errors.New("username or email already taken")
	ErrInvalidCredentials = errors.New("invalid username or password")
	ErrAccountBanned      = errors.New("account is banned")
	ErrAccountDeleted     = errors.New("account has been deleted")
)

// UserService 用户服务接口
type UserService interface {
	Register(username, email, password string) (*model.User, error)
	Login(username, password string) (string, *model.User, error)
	GetUsers(page, limit int) ([]model.User, int64, error)
	GetUser(id string) (*model.User, error)
	UpdateProfile(id string, displayName, bio, avatarURL string) (*model.User, error)
	DeleteUser(id string) error
}

// userService 实现
type userService struct {
	repo repository.UserRepository
}

// NewUserService 创建用户服务
func NewUserService(repo repository.UserRepository) UserService {
	return &userService{repo: repo}
}

// Register 注册新用户
func (s *userService) Register(username, email, password string) (*model.User, error) {
	// 1. 校验用户名格式
	if err := security.UsernameValidator.Validate(username); err != nil {
		return nil, err
	}
	if len(password) < 8 {
		return nil, errors.New("password must be at least 8 characters")
	}

	// 2. 检查用户名/邮箱是否已占用
	if _, err := s.repo.GetByUsername(username); err == nil {
		return nil, ErrUserExists
	} else if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, err
	}
	if _, err := s.repo.GetByEmail(email); err == nil {
		return nil, ErrUserExists
	} else if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, err
	}

	// 3. 哈希密码
	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return nil, err
	}

	user := &model.User{
		Username:     username,
		Email:        email,
		PasswordHash: string(hash),
		DisplayName:  username,
		Role:         model.RoleUser,
		Status:       model.StatusNormal,
	}

	if err := s.repo.Create(user); err != nil {
		return nil, err
	}
	return user, nil
}

// Login 登录，返回 JWT Token
func (s *userService) Login(username, password string) (string, *model.User, error) {
	user, err := s.repo.GetByUsername(username)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return "", nil, ErrInvalidCredentials
		}
		return "", nil, err
	}

	// 校验密码
	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(password)); err != nil {
		return "", nil, ErrInvalidCredentials
	}

	// 检查用户状态
	if user.Status == model.StatusBanned {
		if user.BannedUntil != nil && time.Now().After(*user.BannedUntil) {
			// 封禁已过期，自动恢复
			user.Status = model.StatusNormal
			user.BannedUntil = nil
			if err := s.repo.Update(user); err != nil {
				return "", nil, err
			}
		} else {
			return "", nil, ErrAccountBanned
		}
	}
	if user.Status == model.StatusDeleted {
		return "", nil, ErrAccountDeleted
	}

	// 生成 Token
	token, _, err := utils.GenerateToken(user.ID, user.Role)
	if err != nil {
		return "", nil, err
	}

	// 更新最后登录时间 (失败不影响登录)
	_ = s.repo.UpdateLastLogin(user.ID, time.Now())

	return token, user, nil
}

// GetUsers 获取用户列表（分页）
func (s *userService) GetUsers(page, limit int) ([]model.User, int64, error) {
	if page <= 0 {
		page = 1
	}
	if limit <= 0 {
		limit = 10
	}
	offset := (page - 1) * limit
	return s.repo.GetList(offset, limit)
}

// GetUser 获取单个用户
func (s *userService) GetUser(id string) (*model.User, error) {
	return s.repo.GetByID(id)
}

// UpdateProfile 更新用户资料
func (s *userService) UpdateProfile(id string, displayName, bio, avatarURL string) (*model.User, error) {
	user, err := s.repo.GetByID(id)
	if err != nil {
		return nil, err
	}

	user.DisplayName = displayName
	user.Bio = bio
	user.AvatarURL = avatarURL

	if err := s.repo.Update(user); err != nil {
		return nil, err
	}
	return user, nil
}

// DeleteUser 删除用户（软删除，标记为已注销）
func (s *userService) DeleteUser(id string) error {
	user, err := s.repo.GetByID(id)
	if err != nil {
		return err
	}

	// 标记为已注销状态，而不是真正删除
	user.Status = model.StatusDeleted
	return s.repo.Update(user)
}
