package application

import (
	"context"
	"time"

	"github.com/ecomm-platform/ecomm/internal/buyer/domain"
	"github.com/ecomm-platform/ecomm/pkg/logger"
	"github.com/ecomm-platform/ecomm/pkg/metrics"
	"github.com/shopspring/decimal"
)

// AddToCartCommand 加入购物车命令
type AddToCartCommand struct {
	ProductID uint
	Quantity  int
}

// PlaceOrderResult 下单结果
type PlaceOrderResult struct {
	Orders     []*domain.Order `json:"orders"`
	TotalPrice decimal.Decimal `json:"totalPrice"`
}

// BuyerCommandService 买家命令服务，负责购物车维护与下单协调
type BuyerCommandService struct {
	carts     domain.CartRepository
	orders    domain.OrderRepository
	verifier  domain.TokenVerifier
	catalog   domain.CatalogReader
	publisher domain.EventPublisher
	metrics   *metrics.Metrics
}

// NewBuyerCommandService 创建买家命令服务实例
func NewBuyerCommandService(
	carts domain.CartRepository,
	orders domain.OrderRepository,
	verifier domain.TokenVerifier,
	catalog domain.CatalogReader,
	publisher domain.EventPublisher,
	m *metrics.Metrics,
) *BuyerCommandService {
	return &BuyerCommandService{
		carts:     carts,
		orders:    orders,
		verifier:  verifier,
		catalog:   catalog,
		publisher: publisher,
		metrics:   m,
	}
}

// AddToCart 校验商品存在后将其加入购物车，重复加购时叠加数量
func (s *BuyerCommandService) AddToCart(ctx context.Context, cmd AddToCartCommand, credential string) (*domain.CartItem, error) {
	identity, err := requireBuyer(ctx, s.verifier, credential)
	if err != nil {
		return nil, err
	}
	if cmd.Quantity <= 0 {
		return nil, domain.ErrInvalidQuantity
	}

	product, err := s.catalog.GetProduct(ctx, cmd.ProductID)
	if err != nil {
		return nil, domain.ErrUpstreamUnavailable
	}
	if product == nil {
		return nil, domain.ErrProductNotFound
	}
	if product.Quantity < cmd.Quantity {
		return nil, &domain.InsufficientStockError{ProductName: product.Name}
	}

	item, err := s.carts.GetByBuyerAndProduct(ctx, identity.UserID, cmd.ProductID)
	if err != nil {
		return nil, err
	}
	if item == nil {
		item = &domain.CartItem{
			BuyerID:   identity.UserID,
			ProductID: cmd.ProductID,
			Quantity:  cmd.Quantity,
		}
	} else {
		item.Quantity += cmd.Quantity
	}
	if err := s.carts.Save(ctx, item); err != nil {
		return nil, err
	}

	if s.publisher != nil {
		event := domain.CartItemAddedEvent{
			BuyerID:   identity.UserID,
			ProductID: item.ProductID,
			Quantity:  item.Quantity,
			Timestamp: time.Now(),
		}
		if err := s.publisher.Publish(ctx, domain.CartItemAddedEventType, identity.Username, event); err != nil {
			logger.Warn(ctx, "failed to publish cart item added event", "error", err, "buyer_id", identity.UserID)
		}
	}
	if s.metrics != nil {
		s.metrics.CartItemsAddedTotal.Inc()
	}

	return item, nil
}

// RemoveFromCart 从购物车移除条目，只能操作自己的条目
func (s *BuyerCommandService) RemoveFromCart(ctx context.Context, cartItemID uint, credential string) error {
	identity, err := requireBuyer(ctx, s.verifier, credential)
	if err != nil {
		return err
	}

	item, err := s.carts.GetByID(ctx, cartItemID)
	if err != nil {
		return err
	}
	if item == nil {
		return domain.ErrCartItemNotFound
	}
	if item.BuyerID != identity.UserID {
		return domain.ErrNotCartOwner
	}

	if err := s.carts.Delete(ctx, cartItemID); err != nil {
		return err
	}

	if s.publisher != nil {
		event := domain.CartItemRemovedEvent{
			BuyerID:    identity.UserID,
			CartItemID: item.ID,
			ProductID:  item.ProductID,
			Timestamp:  time.Now(),
		}
		if err := s.publisher.Publish(ctx, domain.CartItemRemovedEventType, identity.Username, event); err != nil {
			logger.Warn(ctx, "failed to publish cart item removed event", "error", err, "buyer_id", identity.UserID)
		}
	}

	return nil
}

// PlaceOrder 结算整个购物车：逐条校验实时库存，
// 在单个事务内写入订单并清空购物车。
// 库存校验基于商品服务在校验时刻的快照，扣减在商品服务侧进行，
// 两笔并发结算可能同时通过最后一件库存的校验。
func (s *BuyerCommandService) PlaceOrder(ctx context.Context, credential string) (*PlaceOrderResult, error) {
	identity, err := requireBuyer(ctx, s.verifier, credential)
	if err != nil {
		return nil, err
	}

	items, err := s.carts.ListByBuyer(ctx, identity.UserID)
	if err != nil {
		return nil, err
	}
	if len(items) == 0 {
		s.rejectOrder("empty_cart")
		return nil, domain.ErrEmptyCart
	}

	orders := make([]*domain.Order, 0, len(items))
	total := decimal.Zero
	for _, item := range items {
		product, err := s.catalog.GetProduct(ctx, item.ProductID)
		if err != nil {
			s.rejectOrder("catalog_unavailable")
			return nil, domain.ErrUpstreamUnavailable
		}
		if product == nil {
			s.rejectOrder("product_missing")
			return nil, domain.ErrProductNotFound
		}
		if product.Quantity < item.Quantity {
			s.rejectOrder("insufficient_stock")
			return nil, &domain.InsufficientStockError{ProductName: product.Name}
		}

		linePrice := product.Price.Mul(decimal.NewFromInt(int64(item.Quantity)))
		orders = append(orders, &domain.Order{
			BuyerID:    identity.UserID,
			ProductID:  item.ProductID,
			Quantity:   item.Quantity,
			TotalPrice: linePrice,
			Status:     domain.OrderStatusPlaced,
		})
		total = total.Add(linePrice)
	}

	err = s.orders.WithTx(ctx, func(txCtx context.Context) error {
		for _, order := range orders {
			if err := s.orders.Save(txCtx, order); err != nil {
				return err
			}
		}
		return s.carts.DeleteByBuyer(txCtx, identity.UserID)
	})
	if err != nil {
		return nil, err
	}

	if s.publisher != nil {
		orderIDs := make([]uint, 0, len(orders))
		for _, order := range orders {
			orderIDs = append(orderIDs, order.ID)
		}
		event := domain.OrderPlacedEvent{
			BuyerID:    identity.UserID,
			OrderIDs:   orderIDs,
			TotalPrice: total,
			Timestamp:  time.Now(),
		}
		if err := s.publisher.Publish(ctx, domain.OrderPlacedEventType, identity.Username, event); err != nil {
			logger.Warn(ctx, "failed to publish order placed event", "error", err, "buyer_id", identity.UserID)
		}

		cleared := domain.CartClearedEvent{BuyerID: identity.UserID, Timestamp: time.Now()}
		if err := s.publisher.Publish(ctx, domain.CartClearedEventType, identity.Username, cleared); err != nil {
			logger.Warn(ctx, "failed to publish cart cleared event", "error", err, "buyer_id", identity.UserID)
		}
	}
	if s.metrics != nil {
		s.metrics.OrdersPlacedTotal.Inc()
	}

	logger.Info(ctx, "order placed", "buyer_id", identity.UserID, "lines", len(orders), "total", total.String())

	return &PlaceOrderResult{Orders: orders, TotalPrice: total}, nil
}

func (s *BuyerCommandService) rejectOrder(reason string) {
	if s.metrics != nil {
		s.metrics.OrdersRejectedTotal.WithLabelValues(reason).Inc()
	}
}

// requireBuyer 解析凭证并要求 BUYER 角色
func requireBuyer(ctx context.Context, verifier domain.TokenVerifier, credential string) (*domain.Identity, error) {
	identity, err := verifier.Validate(ctx, credential)
	if err != nil {
		return nil, domain.ErrUpstreamUnavailable
	}
	if identity == nil || !identity.Valid {
		return nil, domain.ErrUnauthenticated
	}
	if identity.Role != domain.RoleBuyer {
		return nil, domain.ErrBuyerRequired
	}
	return identity, nil
}
