package domain

import "context"

// CartRepository 购物车仓储接口
type CartRepository interface {
	ListByBuyer(ctx context.Context, buyerID uint) ([]*CartItem, error)
	GetByID(ctx context.Context, id uint) (*CartItem, error)
	GetByBuyerAndProduct(ctx context.Context, buyerID, productID uint) (*CartItem, error)
	Save(ctx context.Context, item *CartItem) error
	Delete(ctx context.Context, id uint) error
	DeleteByBuyer(ctx context.Context, buyerID uint) error
}

// OrderRepository 订单仓储接口
type OrderRepository interface {
	Save(ctx context.Context, order *Order) error
	ListByBuyerNewestFirst(ctx context.Context, buyerID uint) ([]*Order, error)
	// WithTx 在单个事务内执行 fn，fn 返回错误时回滚
	WithTx(ctx context.Context, fn func(txCtx context.Context) error) error
}

// EventPublisher 领域事件发布接口
type EventPublisher interface {
	Publish(ctx context.Context, eventType, key string, event interface{}) error
}
