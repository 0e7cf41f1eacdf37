package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

const (
	OrderPlacedEventType     = "order.placed"
	CartItemAddedEventType   = "cart.item_added"
	CartItemRemovedEventType = "cart.item_removed"
	CartClearedEventType     = "cart.cleared"
)

// OrderPlacedEvent 下单成功事件，覆盖本次结算的全部订单行
type OrderPlacedEvent struct {
	BuyerID    uint            `json:"buyer_id"`
	OrderIDs   []uint          `json:"order_ids"`
	TotalPrice decimal.Decimal `json:"total_price"`
	Timestamp  time.Time       `json:"timestamp"`
}

// CartItemAddedEvent 加购事件，Quantity 为累加后的行数量
type CartItemAddedEvent struct {
	BuyerID   uint      `json:"buyer_id"`
	ProductID uint      `json:"product_id"`
	Quantity  int       `json:"quantity"`
	Timestamp time.Time `json:"timestamp"`
}

// CartItemRemovedEvent 购物车条目移除事件
type CartItemRemovedEvent struct {
	BuyerID    uint      `json:"buyer_id"`
	CartItemID uint      `json:"cart_item_id"`
	ProductID  uint      `json:"product_id"`
	Timestamp  time.Time `json:"timestamp"`
}

// CartClearedEvent 购物车清空事件
type CartClearedEvent struct {
	BuyerID   uint      `json:"buyer_id"`
	Timestamp time.Time `json:"timestamp"`
}
