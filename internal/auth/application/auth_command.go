package application

import (
	"context"
	"errors"
	"time"

	"github.com/ecomm-platform/ecomm/internal/auth/domain"
	"github.com/ecomm-platform/ecomm/pkg/logger"
	"github.com/ecomm-platform/ecomm/pkg/metrics"
	"github.com/ecomm-platform/ecomm/pkg/token"
	"golang.org/x/crypto/bcrypt"
)

var (
	ErrUsernameTaken      = errors.New("Username already exists")
	ErrInvalidCredentials = errors.New("Invalid username or password")
	// ErrLoginUnavailable 登录依赖的基础设施不可用时的降级响应
	ErrLoginUnavailable = errors.New("Login temporarily unavailable. Please try again.")
)

// RegisterCommand 注册命令
type RegisterCommand struct {
	Username string
	Password string
	Role     string
}

// LoginCommand 登录命令
type LoginCommand struct {
	Username string
	Password string
}

// AuthCommandService 认证命令服务
type AuthCommandService struct {
	users     domain.UserRepository
	sessions  domain.SessionRepository
	tokens    *token.Manager
	publisher domain.EventPublisher
	metrics   *metrics.Metrics
}

// NewAuthCommandService 创建认证命令服务实例
func NewAuthCommandService(
	users domain.UserRepository,
	sessions domain.SessionRepository,
	tokens *token.Manager,
	publisher domain.EventPublisher,
	m *metrics.Metrics,
) *AuthCommandService {
	return &AuthCommandService{
		users:     users,
		sessions:  sessions,
		tokens:    tokens,
		publisher: publisher,
		metrics:   m,
	}
}

// Register 处理用户注册
func (s *AuthCommandService) Register(ctx context.Context, cmd RegisterCommand) (*AuthResult, error) {
	role, err := domain.ParseRole(cmd.Role)
	if err != nil {
		return nil, err
	}

	existing, err := s.users.GetByUsername(ctx, cmd.Username)
	if err != nil {
		return nil, err
	}
	if existing != nil {
		return nil, ErrUsernameTaken
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(cmd.Password), bcrypt.DefaultCost)
	if err != nil {
		return nil, err
	}

	user := domain.NewUser(cmd.Username, string(hash), role)
	if err := s.users.Save(ctx, user); err != nil {
		return nil, err
	}

	signed, expiresAt, err := s.tokens.Generate(user.Username, string(user.Role))
	if err != nil {
		return nil, err
	}
	s.saveSession(ctx, signed, user, expiresAt)

	if s.publisher != nil {
		event := domain.UserRegisteredEvent{
			UserID:    user.ID,
			Username:  user.Username,
			Role:      user.Role,
			Timestamp: time.Now(),
		}
		_ = s.publisher.Publish(ctx, domain.UserRegisteredEventType, user.Username, event)
	}
	if s.metrics != nil {
		s.metrics.UsersRegisteredTotal.Inc()
	}

	return &AuthResult{
		UserID:   user.ID,
		Username: user.Username,
		Role:     string(user.Role),
		Token:    signed,
		Message:  "User registered successfully",
	}, nil
}

// Login 处理用户登录
func (s *AuthCommandService) Login(ctx context.Context, cmd LoginCommand) (*AuthResult, error) {
	user, err := s.users.GetByUsername(ctx, cmd.Username)
	if err != nil {
		return nil, ErrLoginUnavailable
	}
	if user == nil {
		return nil, ErrInvalidCredentials
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(cmd.Password)); err != nil {
		return nil, ErrInvalidCredentials
	}

	signed, expiresAt, err := s.tokens.Generate(user.Username, string(user.Role))
	if err != nil {
		return nil, ErrLoginUnavailable
	}
	s.saveSession(ctx, signed, user, expiresAt)

	if s.publisher != nil {
		event := domain.UserLoggedInEvent{
			UserID:    user.ID,
			Username:  user.Username,
			Timestamp: time.Now(),
		}
		_ = s.publisher.Publish(ctx, domain.UserLoggedInEventType, user.Username, event)
	}

	return &AuthResult{
		UserID:   user.ID,
		Username: user.Username,
		Role:     string(user.Role),
		Token:    signed,
		Message:  "Login successful",
	}, nil
}

// saveSession 会话写入失败不阻断签发，校验路径会回退到 JWT 解析
func (s *AuthCommandService) saveSession(ctx context.Context, signed string, user *domain.User, expiresAt time.Time) {
	if s.sessions == nil {
		return
	}
	session := &domain.Session{
		Token:     signed,
		UserID:    user.ID,
		Username:  user.Username,
		Role:      user.Role,
		CreatedAt: time.Now(),
		ExpiresAt: expiresAt,
	}
	if err := s.sessions.Save(ctx, session); err != nil {
		logger.Warn(ctx, "failed to save session", "username", user.Username, "error", err)
	}
}
