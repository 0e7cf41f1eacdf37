package mysql

import (
	"context"
	"database/sql"

	"github.com/ecomm-platform/ecomm/internal/buyer/domain"
	pkgdb "github.com/ecomm-platform/ecomm/pkg/db"
	"gorm.io/gorm"
)

type orderRepository struct {
	db *gorm.DB
}

// NewOrderRepository 创建基于 MySQL 的订单仓储
func NewOrderRepository(db *gorm.DB) domain.OrderRepository {
	return &orderRepository{db: db}
}

func (r *orderRepository) Save(ctx context.Context, order *domain.Order) error {
	return pkgdb.FromContext(ctx, r.db).WithContext(ctx).Save(order).Error
}

func (r *orderRepository) ListByBuyerNewestFirst(ctx context.Context, buyerID uint) ([]*domain.Order, error) {
	var orders []*domain.Order
	err := pkgdb.FromContext(ctx, r.db).WithContext(ctx).
		Where("buyer_id = ?", buyerID).
		Order("created_at DESC, id DESC").
		Find(&orders).Error
	if err != nil {
		return nil, err
	}
	return orders, nil
}

func (r *orderRepository) WithTx(ctx context.Context, fn func(txCtx context.Context) error) error {
	return pkgdb.WithTxIsolation(ctx, r.db, sql.LevelSerializable, fn)
}
