package domain

import (
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// OrderStatus 订单状态
type OrderStatus string

const (
	OrderStatusPlaced OrderStatus = "PLACED"
)

// Order 订单，每条购物车条目下单后对应一行
type Order struct {
	gorm.Model
	BuyerID    uint            `gorm:"not null;index" json:"buyerId"`
	ProductID  uint            `gorm:"not null" json:"productId"`
	Quantity   int             `gorm:"not null" json:"quantity"`
	TotalPrice decimal.Decimal `gorm:"type:decimal(20,2);not null" json:"totalPrice"`
	Status     OrderStatus     `gorm:"type:varchar(32);not null" json:"status"`
}

// TableName 指定表名
func (Order) TableName() string {
	return "orders"
}
