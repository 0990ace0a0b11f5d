package domain

import "time"

const (
	UserRoleCustomer = "CUSTOMER"
	UserRoleAdmin    = "ADMIN"
)

type User struct {
	ID        string `gorm:"primaryKey;type:varchar(36)"`
	Name      string `gorm:"type:varchar(100)"`
	Email     string `gorm:"type:varchar(150);uniqueIndex;not null"`
	Role      string `gorm:"type:varchar(20);not null;default:CUSTOMER"`
	CreatedAt time.Time
	UpdatedAt time.Time
}

func (User) TableName() string {
	return "users"
}
