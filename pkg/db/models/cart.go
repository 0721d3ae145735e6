package models

import (
	"time"

	dbtypes "github.com/angelmondragon/storefront-client/pkg/db/types"
	"github.com/angelmondragon/storefront-client/pkg/enums"
)

// Cart holds one user's product ids, one entry per unit.
type Cart struct {
	ID        int64             `gorm:"column:id;primaryKey;autoIncrement"`
	UserID    int64             `gorm:"column:user_id;not null;index"`
	Status    enums.CartStatus  `gorm:"column:status;not null;default:'ACTIVE'"`
	Items     dbtypes.Int64List `gorm:"column:cart_items;not null"`
	CreatedAt time.Time         `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt time.Time         `gorm:"column:updated_at;autoUpdateTime"`
}
