package application

import (
	"context"

	"github.com/ecomm-platform/ecomm/internal/catalog/domain"
)

// CatalogQueryService 商品查询服务
type CatalogQueryService struct {
	products domain.ProductRepository
	verifier domain.AuthVerifier
}

// NewCatalogQueryService 创建商品查询服务实例
func NewCatalogQueryService(products domain.ProductRepository, verifier domain.AuthVerifier) *CatalogQueryService {
	return &CatalogQueryService{products: products, verifier: verifier}
}

// GetProduct 按 ID 查询商品
func (s *CatalogQueryService) GetProduct(ctx context.Context, id uint) (*domain.Product, error) {
	product, err := s.products.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if product == nil {
		return nil, domain.ErrProductNotFound
	}
	return product, nil
}

// ListSellerProducts 列出当前 seller 的全部商品
func (s *CatalogQueryService) ListSellerProducts(ctx context.Context, credential string) ([]*domain.Product, error) {
	identity, err := requireAdmin(ctx, s.verifier, credential)
	if err != nil {
		return nil, err
	}
	return s.products.ListBySeller(ctx, identity.UserID)
}

// ListAvailable 列出库存大于零的商品
func (s *CatalogQueryService) ListAvailable(ctx context.Context) ([]*domain.Product, error) {
	return s.products.ListAvailable(ctx)
}
