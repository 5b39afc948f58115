package service

import (
	"elearn_backend/internal/config"
	"elearn_backend/internal/model"
	"elearn_backend/internal/repository"
	"elearn_backend/internal/util"
	"elearn_backend/pkg/logger"
	"context"
	"errors"
	"time"

	"github.com/go-redis/redis/v8"
	"github.com/golang-jwt/jwt/v5"
	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

const tokenBlacklistPrefix = "token_blacklist:"

// AuthService 注册、登录与登出。登出把 token 写进 Redis 黑名单，
// 有效期与 token 剩余寿命一致。
type AuthService struct {
	UserRepo *repository.UserRepository
	Cfg      *config.Config
	Redis    *redis.Client
}

func NewAuthService(userRepo *repository.UserRepository, cfg *config.Config, rdb *redis.Client) *AuthService {
	return &AuthService{UserRepo: userRepo, Cfg: cfg, Redis: rdb}
}

type RegisterRequest struct {
	Name     string `json:"name" binding:"required"`
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required,min=6"`
	Role     string `json:"role"`
}

type LoginRequest struct {
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required"`
}

type LoginResult struct {
	Token string      `json:"token"`
	User  *model.User `json:"user"`
}

// Register 自助注册只开放学员和讲师，管理员账号走后台创建。
func (s *AuthService) Register(req RegisterRequest) (*model.User, error) {
	role := model.Learner
	switch model.UserRole(req.Role) {
	case "", model.Learner:
	case model.Lecturer:
		role = model.Lecturer
	default:
		return nil, util.ValidationError("role must be learner or lecturer")
	}

	if _, err := s.UserRepo.FindByEmail(req.Email); err == nil {
		return nil, util.ErrEmailRegistered
	} else if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, err
	}

	hashed, err := bcrypt.GenerateFromPassword([]byte(req.Password), bcrypt.DefaultCost)
	if err != nil {
		return nil, err
	}

	user := &model.User{
		Name:     req.Name,
		Email:    req.Email,
		Password: string(hashed),
		Role:     role,
	}
	if err := s.UserRepo.Create(user); err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return nil, util.ErrEmailRegistered
		}
		return nil, err
	}
	return user, nil
}

func (s *AuthService) Login(req LoginRequest) (*LoginResult, error) {
	user, err := s.UserRepo.FindByEmail(req.Email)
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, util.ValidationError("邮箱或密码错误")
	}
	if err != nil {
		return nil, err
	}

	if user.Disabled {
		return nil, util.AuthorizationError("账号已被禁用")
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.Password), []byte(req.Password)); err != nil {
		return nil, util.ValidationError("邮箱或密码错误")
	}

	token, err := util.GenerateJWT(user, s.Cfg.JWT.Secret, s.Cfg.JWT.ExpireTime)
	if err != nil {
		return nil, err
	}

	if err := s.UserRepo.UpdateLastLogin(user.ID); err != nil {
		logger.Log.Error("failed to update last login", zap.Uint("userID", user.ID), zap.Error(err))
	}

	return &LoginResult{Token: token, User: user}, nil
}

// Logout 把当前 token 拉黑到其自然过期为止。已过期的 token 直接忽略。
func (s *AuthService) Logout(ctx context.Context, tokenString string) error {
	claims, err := util.ParseJWT(tokenString, s.Cfg.JWT.Secret)
	if err != nil {
		if errors.Is(err, jwt.ErrTokenExpired) {
			return nil
		}
		return util.ValidationError("invalid token")
	}

	ttl := time.Until(claims.ExpiresAt.Time)
	if ttl <= 0 {
		return nil
	}
	return s.Redis.Set(ctx, tokenBlacklistPrefix+tokenString, "1", ttl).Err()
}

// IsTokenBlacklisted Redis 不可用时放行，认证仍由签名校验兜底。
func (s *AuthService) IsTokenBlacklisted(ctx context.Context, tokenString string) bool {
	if s.Redis == nil {
		return false
	}
	n, err := s.Redis.Exists(ctx, tokenBlacklistPrefix+tokenString).Result()
	if err != nil {
		logger.Log.Error("token blacklist check failed", zap.Error(err))
		return false
	}
	return n > 0
}
