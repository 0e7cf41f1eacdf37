package client

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"github.com/ecomm-platform/ecomm/internal/buyer/domain"
	"github.com/ecomm-platform/ecomm/pkg/config"
	"github.com/sony/gobreaker"
)

// CatalogClient 商品管理服务 HTTP 客户端，带熔断保护
type CatalogClient struct {
	baseURL string
	http    *http.Client
	breaker *gobreaker.CircuitBreaker
}

// NewCatalogClient 创建商品管理服务客户端
func NewCatalogClient(cfg config.ClientsConfig) *CatalogClient {
	return &CatalogClient{
		baseURL: cfg.AdminURL,
		http:    &http.Client{Timeout: time.Duration(cfg.Timeout) * time.Second},
		breaker: newBreaker("catalog-client", cfg),
	}
}

// GetProduct 查询单个商品，商品不存在时返回 (nil, nil)
func (c *CatalogClient) GetProduct(ctx context.Context, id uint) (*domain.ProductSnapshot, error) {
	result, err := c.breaker.Execute(func() (interface{}, error) {
		return c.getProduct(ctx, id)
	})
	if err != nil {
		return nil, err
	}
	if result == nil {
		return nil, nil
	}
	return result.(*domain.ProductSnapshot), nil
}

func (c *CatalogClient) getProduct(ctx context.Context, id uint) (interface{}, error) {
	url := fmt.Sprintf("%s/api/admin/products/%d", c.baseURL, id)
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, err
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	switch resp.StatusCode {
	case http.StatusOK:
		var snapshot domain.ProductSnapshot
		if err := json.NewDecoder(resp.Body).Decode(&snapshot); err != nil {
			return nil, err
		}
		return &snapshot, nil
	case http.StatusNotFound:
		return nil, nil
	default:
		return nil, fmt.Errorf("catalog service returned unexpected status %d", resp.StatusCode)
	}
}

// ListAvailable 列出有库存的商品
func (c *CatalogClient) ListAvailable(ctx context.Context) ([]*domain.ProductSnapshot, error) {
	result, err := c.breaker.Execute(func() (interface{}, error) {
		req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+"/api/admin/products/available", nil)
		if err != nil {
			return nil, err
		}

		resp, err := c.http.Do(req)
		if err != nil {
			return nil, err
		}
		defer resp.Body.Close()

		if resp.StatusCode != http.StatusOK {
			return nil, fmt.Errorf("catalog service returned unexpected status %d", resp.StatusCode)
		}

		var snapshots []*domain.ProductSnapshot
		if err := json.NewDecoder(resp.Body).Decode(&snapshots); err != nil {
			return nil, err
		}
		return snapshots, nil
	})
	if err != nil {
		return nil, err
	}
	return result.([]*domain.ProductSnapshot), nil
}
