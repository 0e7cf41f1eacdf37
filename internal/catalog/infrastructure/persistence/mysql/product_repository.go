package mysql

import (
	"context"
	"errors"

	"github.com/ecomm-platform/ecomm/internal/catalog/domain"
	pkgdb "github.com/ecomm-platform/ecomm/pkg/db"
	"gorm.io/gorm"
)

type productRepository struct {
	db *gorm.DB
}

// NewProductRepository 创建基于 MySQL 的商品仓储
func NewProductRepository(db *gorm.DB) domain.ProductRepository {
	return &productRepository{db: db}
}

func (r *productRepository) Save(ctx context.Context, product *domain.Product) error {
	return pkgdb.FromContext(ctx, r.db).WithContext(ctx).Save(product).Error
}

func (r *productRepository) GetByID(ctx context.Context, id uint) (*domain.Product, error) {
	var product domain.Product
	err := pkgdb.FromContext(ctx, r.db).WithContext(ctx).First(&product, id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &product, nil
}

func (r *productRepository) ListBySeller(ctx context.Context, sellerID uint) ([]*domain.Product, error) {
	var products []*domain.Product
	err := pkgdb.FromContext(ctx, r.db).WithContext(ctx).
		Where("seller_id = ?", sellerID).
		Order("id ASC").
		Find(&products).Error
	if err != nil {
		return nil, err
	}
	return products, nil
}

func (r *productRepository) ListAvailable(ctx context.Context) ([]*domain.Product, error) {
	var products []*domain.Product
	err := pkgdb.FromContext(ctx, r.db).WithContext(ctx).
		Where("quantity > 0").
		Order("id ASC").
		Find(&products).Error
	if err != nil {
		return nil, err
	}
	return products, nil
}
