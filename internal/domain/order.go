package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

type Order struct {
	ID              string          `gorm:"primaryKey;type:varchar(36)"`
	OrderNumber     string          `gorm:"type:varchar(64);uniqueIndex;not null"`
	UserID          string          `gorm:"type:varchar(36);not null;index"`
	Status          OrderStatus     `gorm:"type:varchar(20);not null;default:PENDING;index"`
	Total           decimal.Decimal `gorm:"type:decimal(12,2);not null"`
	ShippingName    string          `gorm:"type:varchar(150);not null"`
	ShippingEmail   string          `gorm:"type:varchar(150);not null"`
	ShippingAddress string          `gorm:"type:varchar(255);not null"`
	ShippingCity    string          `gorm:"type:varchar(100);not null"`
	ShippingZip     string          `gorm:"type:varchar(20);not null"`
	CreatedAt       time.Time       `gorm:"index"`
	UpdatedAt       time.Time

	Items []OrderItem `gorm:"foreignKey:OrderID;constraint:OnDelete:CASCADE"`
	User  *User       `gorm:"foreignKey:UserID"`
}

func (Order) TableName() string {
	return "orders"
}

type OrderItem struct {
	ID        uint            `gorm:"primaryKey;autoIncrement"`
	OrderID   string          `gorm:"type:varchar(36);not null;index"`
	ProductID string          `gorm:"type:varchar(36);not null;index"`
	Quantity  int             `gorm:"not null"`
	Price     decimal.Decimal `gorm:"type:decimal(12,2);not null"`

	Product *Product `gorm:"foreignKey:ProductID"`
}

func (OrderItem) TableName() string {
	return "order_items"
}

// Subtotal is the line amount at the captured unit price.
func (i OrderItem) Subtotal() decimal.Decimal {
	return i.Price.Mul(decimal.NewFromInt(int64(i.Quantity)))
}

// OrderTotal sums price * quantity over items. The result is fixed at creation
// and never recomputed from live product prices.
func OrderTotal(items []OrderItem) decimal.Decimal {
	total := decimal.Zero
	for _, item := range items {
		total = total.Add(item.Subtotal())
	}
	return total
}

// ShippingInfo groups the required delivery fields of an order.
type ShippingInfo struct {
	Name    string
	Email   string
	Address string
	City    string
	Zip     string
}
