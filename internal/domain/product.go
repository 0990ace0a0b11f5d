package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

type Product struct {
	ID          string          `gorm:"primaryKey;type:varchar(36)"`
	Name        string          `gorm:"type:varchar(255);not null"`
	Slug        string          `gorm:"type:varchar(255);uniqueIndex;not null"`
	Description string          `gorm:"type:text"`
	Price       decimal.Decimal `gorm:"type:decimal(12,2);not null"`
	Image       string          `gorm:"type:varchar(512)"`
	Stock       int             `gorm:"not null;default:0"`
	Featured    bool            `gorm:"not null;default:false;index"`
	Active      bool            `gorm:"not null;default:true;index"`
	CategoryID  string          `gorm:"type:varchar(36);index"`
	CreatedAt   time.Time
	UpdatedAt   time.Time

	Category *Category `gorm:"foreignKey:CategoryID"`
}

func (Product) TableName() string {
	return "products"
}

func (p Product) HasStock(quantity int) bool {
	return quantity > 0 && p.Stock >= quantity
}

type Category struct {
	ID          string `gorm:"primaryKey;type:varchar(36)"`
	Name        string `gorm:"type:varchar(100);not null"`
	Slug        string `gorm:"type:varchar(100);uniqueIndex;not null"`
	Description string `gorm:"type:text"`
	Image       string `gorm:"type:varchar(512)"`
	CreatedAt   time.Time
	UpdatedAt   time.Time
}

func (Category) TableName() string {
	return "categories"
}
