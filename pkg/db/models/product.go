package models

import (
	"time"

	"github.com/shopspring/decimal"
)

// Product is a catalog entry served by the sandbox product routes.
type Product struct {
	ID          int64           `gorm:"column:id;primaryKey;autoIncrement"`
	Title       string          `gorm:"column:title;not null"`
	Description string          `gorm:"column:description"`
	Photos      []string        `gorm:"column:photos;type:text;serializer:json"`
	Price       decimal.Decimal `gorm:"column:price;type:numeric(12,2);not null"`
	Quantity    int             `gorm:"column:quantity;not null;default:0"`
	CreatedAt   time.Time       `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt   time.Time       `gorm:"column:updated_at;autoUpdateTime"`
}
