package domain

import "gorm.io/gorm"

// CartItem 购物车条目，同一买家同一商品只保留一行
type CartItem struct {
	gorm.Model
	BuyerID   uint `gorm:"not null;uniqueIndex:idx_buyer_product" json:"buyerId"`
	ProductID uint `gorm:"not null;uniqueIndex:idx_buyer_product" json:"productId"`
	Quantity  int  `gorm:"not null" json:"quantity"`
}

// TableName 指定表名
func (CartItem) TableName() string {
	return "cart_items"
}
