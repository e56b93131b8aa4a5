package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"eshop/internal/auth"
	"eshop/internal/config"
	"eshop/internal/model"
	"eshop/internal/repository"

	"github.com/go-redis/redis/v8"
	"gorm.io/gorm"
)

var ErrInvalidCredentials = errors.New("invalid email or password")

type UserService struct {
	userRepo *repository.UserRepository
	sessions *auth.SessionStore
}

func NewUserService(db *gorm.DB, redisClient *redis.Client, cfg *config.Config) *UserService {
	ttl := time.Duration(cfg.Business.SessionTTLMinutes) * time.Minute
	return &UserService{
		userRepo: repository.NewUserRepository(db),
		sessions: auth.NewSessionStore(redisClient, ttl),
	}
}

type RegisterRequest struct {
	Name     string `json:"name" binding:"required"`
	Phone    string `json:"phone" binding:"required"`
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required,min=6"`
}

func (s *UserService) Register(ctx context.Context, req *RegisterRequest) (*model.User, error) {
	hash, err := auth.HashPassword(req.Password)
	if err != nil {
		return nil, fmt.Errorf("密码哈希失败: %w", err)
	}

	user := &model.User{
		Name:         req.Name,
		Phone:        req.Phone,
		Email:        req.Email,
		PasswordHash: hash,
	}

	if err := s.userRepo.Create(ctx, user); err != nil {
		return nil, err
	}
	return user, nil
}

// Login 校验凭证并创建会话，返回会话 token
//
// 用户不存在和密码错误返回同一个错误，不给撞库方任何区分信息
func (s *UserService) Login(ctx context.Context, email, password string) (string, *model.User, error) {
	user, err := s.userRepo.GetByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, repository.ErrUserNotFound) {
			return "", nil, ErrInvalidCredentials
		}
		return "", nil, err
	}

	if !auth.CheckPassword(user.PasswordHash, password) {
		return "", nil, ErrInvalidCredentials
	}

	token, err := s.sessions.Create(ctx, user.ID)
	if err != nil {
		return "", nil, fmt.Errorf("创建会话失败: %w", err)
	}

	return token, user, nil
}

// UserFromSession 按会话 token 取当前用户（认证中间件用）
func (s *UserService) UserFromSession(ctx context.Context, token string) (*model.User, error) {
	userID, err := s.sessions.Get(ctx, token)
	if err != nil {
		return nil, err
	}
	return s.userRepo.GetByID(ctx, userID)
}

// Logout 删除会话
func (s *UserService) Logout(ctx context.Context, token string) error {
	return s.sessions.Delete(ctx, token)
}
