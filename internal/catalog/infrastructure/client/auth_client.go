package client

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"github.com/ecomm-platform/ecomm/internal/catalog/domain"
	"github.com/ecomm-platform/ecomm/pkg/config"
	"github.com/ecomm-platform/ecomm/pkg/logger"
	"github.com/sony/gobreaker"
)

type authValidateResponse struct {
	UserID   uint   `json:"userId"`
	Username string `json:"username"`
	Role     string `json:"role"`
	Message  string `json:"message"`
}

// AuthClient 认证服务 HTTP 客户端，带熔断保护
type AuthClient struct {
	baseURL string
	http    *http.Client
	breaker *gobreaker.CircuitBreaker
}

// NewAuthClient 创建认证服务客户端
func NewAuthClient(cfg config.ClientsConfig) *AuthClient {
	settings := gobreaker.Settings{
		Name:     "auth-client",
		Interval: time.Duration(cfg.BreakerInterval) * time.Second,
		ReadyToTrip: func(counts gobreaker.Counts) bool {
			return counts.ConsecutiveFailures >= uint32(cfg.BreakerFailures)
		},
		OnStateChange: func(name string, from, to gobreaker.State) {
			logger.Warn(context.Background(), "circuit breaker state changed",
				"name", name, "from", from.String(), "to", to.String())
		},
	}
	return &AuthClient{
		baseURL: cfg.AuthURL,
		http:    &http.Client{Timeout: time.Duration(cfg.Timeout) * time.Second},
		breaker: gobreaker.NewCircuitBreaker(settings),
	}
}

// Validate 调用认证服务校验凭证，校验失败返回 Valid=false 的身份
func (c *AuthClient) Validate(ctx context.Context, credential string) (*domain.Identity, error) {
	result, err := c.breaker.Execute(func() (interface{}, error) {
		return c.validate(ctx, credential)
	})
	if err != nil {
		return nil, err
	}
	return result.(*domain.Identity), nil
}

func (c *AuthClient) validate(ctx context.Context, credential string) (*domain.Identity, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+"/api/auth/validate-token", nil)
	if err != nil {
		return nil, err
	}
	req.Header.Set("Authorization", credential)

	resp, err := c.http.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	switch resp.StatusCode {
	case http.StatusOK:
		var body authValidateResponse
		if err := json.NewDecoder(resp.Body).Decode(&body); err != nil {
			return nil, err
		}
		return &domain.Identity{
			UserID:   body.UserID,
			Username: body.Username,
			Role:     domain.Role(body.Role),
			Valid:    true,
			Message:  body.Message,
		}, nil
	case http.StatusUnauthorized:
		var body authValidateResponse
		if err := json.NewDecoder(resp.Body).Decode(&body); err != nil {
			return &domain.Identity{Valid: false}, nil
		}
		return &domain.Identity{Valid: false, Message: body.Message}, nil
	default:
		return nil, fmt.Errorf("auth service returned unexpected status %d", resp.StatusCode)
	}
}
