package domain

import (
	"context"

	"github.com/shopspring/decimal"
)

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

// TokenVerifier 校验不透明凭证并解析身份
type TokenVerifier interface {
	Validate(ctx context.Context, credential string) (*Identity, error)
}

// ProductSnapshot 商品服务返回的商品快照
type ProductSnapshot struct {
	ID       uint            `json:"id"`
	SellerID uint            `json:"sellerId"`
	Name     string          `json:"name"`
	Price    decimal.Decimal `json:"price"`
	Quantity int             `json:"quantity"`
}

// CatalogReader 商品服务只读客户端
type CatalogReader interface {
	// GetProduct 查询单个商品，不存在时返回 (nil, nil)
	GetProduct(ctx context.Context, id uint) (*ProductSnapshot, error)
	// ListAvailable 列出有库存的商品
	ListAvailable(ctx context.Context) ([]*ProductSnapshot, error)
}
