package domain

import (
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

type Product struct {
	gorm.Model
	SellerID    uint            `gorm:"column:seller_id;index;not null" json:"sellerId"`
	Name        string          `gorm:"column:name;type:varchar(255);not null" json:"name"`
	Description string          `gorm:"column:description;type:text" json:"description"`
	Price       decimal.Decimal `gorm:"column:price;type:decimal(20,2);not null" json:"price"`
	Quantity    int             `gorm:"column:quantity;not null;default:0" json:"quantity"`
}

func (Product) TableName() string { return "products" }
