package domain

import (
	"errors"
	"fmt"
)

var (
	ErrUnauthenticated     = errors.New("Invalid or expired token")
	ErrBuyerRequired       = errors.New("Access denied. Buyer role required.")
	ErrNotCartOwner        = errors.New("Access denied. You can only remove your own cart items.")
	ErrCartItemNotFound    = errors.New("Cart item not found")
	ErrProductNotFound     = errors.New("Product not found")
	ErrEmptyCart           = errors.New("Cart is empty")
	ErrInvalidQuantity     = errors.New("Quantity must be greater than zero")
	ErrUpstreamUnavailable = errors.New("Upstream service unavailable")
)

// InsufficientStockError 下单时库存不足，按商品名报告
type InsufficientStockError struct {
	ProductName string
}

func (e *InsufficientStockError) Error() string {
	return fmt.Sprintf("Insufficient quantity for product: %s", e.ProductName)
}
