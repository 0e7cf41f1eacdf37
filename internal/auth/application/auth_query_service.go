package application

import (
	"context"
	"strings"
	"time"

	"github.com/ecomm-platform/ecomm/internal/auth/domain"
	"github.com/ecomm-platform/ecomm/pkg/token"
)

const bearerPrefix = "Bearer "

// AuthQueryService 认证查询服务
type AuthQueryService struct {
	users    domain.UserRepository
	sessions domain.SessionRepository
	tokens   *token.Manager
}

// NewAuthQueryService 创建认证查询服务实例
func NewAuthQueryService(
	users domain.UserRepository,
	sessions domain.SessionRepository,
	tokens *token.Manager,
) *AuthQueryService {
	return &AuthQueryService{
		users:    users,
		sessions: sessions,
		tokens:   tokens,
	}
}

// ValidateToken 校验 Authorization 头中的令牌并返回持有者身份
func (s *AuthQueryService) ValidateToken(ctx context.Context, authHeader string) (*AuthResult, error) {
	if !strings.HasPrefix(authHeader, bearerPrefix) {
		return nil, token.ErrInvalidToken
	}
	raw := strings.TrimPrefix(authHeader, bearerPrefix)

	// 会话缓存命中时跳过数据库查询
	if s.sessions != nil {
		if session, err := s.sessions.Get(ctx, raw); err == nil && session != nil && time.Now().Before(session.ExpiresAt) {
			return &AuthResult{
				UserID:   session.UserID,
				Username: session.Username,
				Role:     string(session.Role),
				Message:  "Token is valid",
			}, nil
		}
	}

	claims, err := s.tokens.Parse(raw)
	if err != nil {
		return nil, token.ErrInvalidToken
	}

	user, err := s.users.GetByUsername(ctx, claims.Subject)
	if err != nil || user == nil {
		return nil, token.ErrInvalidToken
	}

	return &AuthResult{
		UserID:   user.ID,
		Username: user.Username,
		Role:     string(user.Role),
		Message:  "Token is valid",
	}, nil
}

// GetUser 根据 ID 获取用户信息
func (s *AuthQueryService) GetUser(ctx context.Context, id uint) (*domain.User, error) {
	return s.users.GetByID(ctx, id)
}

// GetUserByUsername 根据用户名获取用户信息
func (s *AuthQueryService) GetUserByUsername(ctx context.Context, username string) (*domain.User, error) {
	return s.users.GetByUsername(ctx, username)
}
