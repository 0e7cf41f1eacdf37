package application

import (
	"context"

	"github.com/ecomm-platform/ecomm/internal/buyer/domain"
)

// BuyerQueryService 买家查询服务
type BuyerQueryService struct {
	carts    domain.CartRepository
	orders   domain.OrderRepository
	verifier domain.TokenVerifier
	catalog  domain.CatalogReader
}

// NewBuyerQueryService 创建买家查询服务实例
func NewBuyerQueryService(
	carts domain.CartRepository,
	orders domain.OrderRepository,
	verifier domain.TokenVerifier,
	catalog domain.CatalogReader,
) *BuyerQueryService {
	return &BuyerQueryService{carts: carts, orders: orders, verifier: verifier, catalog: catalog}
}

// GetCart 查看当前买家的购物车
func (s *BuyerQueryService) GetCart(ctx context.Context, credential string) ([]*domain.CartItem, error) {
	identity, err := requireBuyer(ctx, s.verifier, credential)
	if err != nil {
		return nil, err
	}
	items, err := s.carts.ListByBuyer(ctx, identity.UserID)
	if err != nil {
		return nil, err
	}
	if items == nil {
		items = []*domain.CartItem{}
	}
	return items, nil
}

// GetOrderHistory 查看当前买家的历史订单，按下单时间倒序
func (s *BuyerQueryService) GetOrderHistory(ctx context.Context, credential string) ([]*domain.Order, error) {
	identity, err := requireBuyer(ctx, s.verifier, credential)
	if err != nil {
		return nil, err
	}
	orders, err := s.orders.ListByBuyerNewestFirst(ctx, identity.UserID)
	if err != nil {
		return nil, err
	}
	if orders == nil {
		orders = []*domain.Order{}
	}
	return orders, nil
}

// BrowseProducts 浏览有库存的商品，无需登录
func (s *BuyerQueryService) BrowseProducts(ctx context.Context) ([]*domain.ProductSnapshot, error) {
	products, err := s.catalog.ListAvailable(ctx)
	if err != nil {
		return nil, domain.ErrUpstreamUnavailable
	}
	if products == nil {
		products = []*domain.ProductSnapshot{}
	}
	return products, nil
}
