package application

import (
	"context"
	"time"

	"github.com/ecomm-platform/ecomm/internal/catalog/domain"
	"github.com/ecomm-platform/ecomm/pkg/metrics"
	"github.com/shopspring/decimal"
)

// AddProductCommand 新增商品命令
type AddProductCommand struct {
	Name        string
	Description string
	Price       decimal.Decimal
	Quantity    int
}

// UpdateProductCommand 更新商品命令
type UpdateProductCommand struct {
	Name        string
	Description string
	Price       decimal.Decimal
	Quantity    int
}

// CatalogCommandService 商品管理命令服务
type CatalogCommandService struct {
	products  domain.ProductRepository
	verifier  domain.AuthVerifier
	publisher domain.EventPublisher
	metrics   *metrics.Metrics
}

// NewCatalogCommandService 创建商品管理命令服务实例
func NewCatalogCommandService(
	products domain.ProductRepository,
	verifier domain.AuthVerifier,
	publisher domain.EventPublisher,
	m *metrics.Metrics,
) *CatalogCommandService {
	return &CatalogCommandService{
		products:  products,
		verifier:  verifier,
		publisher: publisher,
		metrics:   m,
	}
}

// AddProduct 处理新增商品，seller 取自凭证身份
func (s *CatalogCommandService) AddProduct(ctx context.Context, cmd AddProductCommand, credential string) (*domain.Product, error) {
	identity, err := requireAdmin(ctx, s.verifier, credential)
	if err != nil {
		return nil, err
	}

	product := &domain.Product{
		SellerID:    identity.UserID,
		Name:        cmd.Name,
		Description: cmd.Description,
		Price:       cmd.Price,
		Quantity:    cmd.Quantity,
	}
	if err := s.products.Save(ctx, product); err != nil {
		return nil, err
	}

	if s.publisher != nil {
		event := domain.ProductCreatedEvent{
			ProductID: product.ID,
			SellerID:  product.SellerID,
			Name:      product.Name,
			Price:     product.Price,
			Quantity:  product.Quantity,
			Timestamp: time.Now(),
		}
		_ = s.publisher.Publish(ctx, domain.ProductCreatedEventType, identity.Username, event)
	}
	if s.metrics != nil {
		s.metrics.ProductsCreatedTotal.Inc()
	}

	return product, nil
}

// UpdateProduct 处理更新商品，仅允许商品归属的 seller 操作
func (s *CatalogCommandService) UpdateProduct(ctx context.Context, id uint, cmd UpdateProductCommand, credential string) (*domain.Product, error) {
	identity, err := requireAdmin(ctx, s.verifier, credential)
	if err != nil {
		return nil, err
	}

	product, err := s.products.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if product == nil {
		return nil, domain.ErrProductNotFound
	}
	if product.SellerID != identity.UserID {
		return nil, domain.ErrNotOwner
	}

	product.Name = cmd.Name
	product.Description = cmd.Description
	product.Price = cmd.Price
	product.Quantity = cmd.Quantity

	if err := s.products.Save(ctx, product); err != nil {
		return nil, err
	}

	if s.publisher != nil {
		event := domain.ProductUpdatedEvent{
			ProductID: product.ID,
			SellerID:  product.SellerID,
			Name:      product.Name,
			Price:     product.Price,
			Quantity:  product.Quantity,
			Timestamp: time.Now(),
		}
		_ = s.publisher.Publish(ctx, domain.ProductUpdatedEventType, identity.Username, event)
	}

	return product, nil
}

// UpdateQuantity 处理库存调整，仅允许商品归属的 seller 操作
func (s *CatalogCommandService) UpdateQuantity(ctx context.Context, id uint, quantity int, credential string) (*domain.Product, error) {
	identity, err := requireAdmin(ctx, s.verifier, credential)
	if err != nil {
		return nil, err
	}

	product, err := s.products.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if product == nil {
		return nil, domain.ErrProductNotFound
	}
	if product.SellerID != identity.UserID {
		return nil, domain.ErrNotOwner
	}

	product.Quantity = quantity
	if err := s.products.Save(ctx, product); err != nil {
		return nil, err
	}

	if s.publisher != nil {
		event := domain.ProductStockChangedEvent{
			ProductID: product.ID,
			SellerID:  product.SellerID,
			Quantity:  product.Quantity,
			Timestamp: time.Now(),
		}
		_ = s.publisher.Publish(ctx, domain.ProductStockChangedEventType, identity.Username, event)
	}

	return product, nil
}

// requireAdmin 解析凭证并要求 ADMIN 角色
func requireAdmin(ctx context.Context, verifier domain.AuthVerifier, credential string) (*domain.Identity, error) {
	identity, err := verifier.Validate(ctx, credential)
	if err != nil {
		return nil, domain.ErrUpstreamUnavailable
	}
	if identity == nil || !identity.Valid {
		return nil, domain.ErrUnauthenticated
	}
	if identity.Role != domain.RoleAdmin {
		return nil, domain.ErrAdminRequired
	}
	return identity, nil
}
