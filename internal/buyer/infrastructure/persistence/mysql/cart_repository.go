package mysql

import (
	"context"
	"errors"

	"github.com/ecomm-platform/ecomm/internal/buyer/domain"
	pkgdb "github.com/ecomm-platform/ecomm/pkg/db"
	"gorm.io/gorm"
)

type cartRepository struct {
	db *gorm.DB
}

// NewCartRepository 创建基于 MySQL 的购物车仓储
func NewCartRepository(db *gorm.DB) domain.CartRepository {
	return &cartRepository{db: db}
}

func (r *cartRepository) ListByBuyer(ctx context.Context, buyerID uint) ([]*domain.CartItem, error) {
	var items []*domain.CartItem
	err := pkgdb.FromContext(ctx, r.db).WithContext(ctx).
		Where("buyer_id = ?", buyerID).
		Order("id ASC").
		Find(&items).Error
	if err != nil {
		return nil, err
	}
	return items, nil
}

func (r *cartRepository) GetByID(ctx context.Context, id uint) (*domain.CartItem, error) {
	var item domain.CartItem
	err := pkgdb.FromContext(ctx, r.db).WithContext(ctx).First(&item, id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &item, nil
}

func (r *cartRepository) GetByBuyerAndProduct(ctx context.Context, buyerID, productID uint) (*domain.CartItem, error) {
	var item domain.CartItem
	err := pkgdb.FromContext(ctx, r.db).WithContext(ctx).
		Where("buyer_id = ? AND product_id = ?", buyerID, productID).
		First(&item).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &item, nil
}

func (r *cartRepository) Save(ctx context.Context, item *domain.CartItem) error {
	return pkgdb.FromContext(ctx, r.db).WithContext(ctx).Save(item).Error
}

func (r *cartRepository) Delete(ctx context.Context, id uint) error {
	return pkgdb.FromContext(ctx, r.db).WithContext(ctx).Delete(&domain.CartItem{}, id).Error
}

func (r *cartRepository) DeleteByBuyer(ctx context.Context, buyerID uint) error {
	return pkgdb.FromContext(ctx, r.db).WithContext(ctx).
		Where("buyer_id = ?", buyerID).
		Delete(&domain.CartItem{}).Error
}
