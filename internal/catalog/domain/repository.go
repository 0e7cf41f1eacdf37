package domain

import "context"

type ProductRepository interface {
	Save(ctx context.Context, product *Product) error
	GetByID(ctx context.Context, id uint) (*Product, error)
	ListBySeller(ctx context.Context, sellerID uint) ([]*Product, error)
	// ListAvailable 返回库存大于零的商品
	ListAvailable(ctx context.Context) ([]*Product, error)
}

type EventPublisher interface {
	Publish(ctx context.Context, eventType, key string, event any) error
}
