package domain

import "context"

// Role 调用方角色，与认证服务返回值对齐
type Role string

const (
	RoleAdmin Role = "ADMIN"
	RoleBuyer Role = "BUYER"
)

// Identity 认证服务返回的调用方身份
type Identity struct {
	UserID   uint
	Username string
	Role     Role
	Valid    bool
	Message  string
}

// AuthVerifier 校验不透明凭证并解析身份
type AuthVerifier interface {
	Validate(ctx context.Context, credential string) (*Identity, error)
}
