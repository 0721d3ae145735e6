package models

import (
	"time"

	dbtypes "github.com/angelmondragon/storefront-client/pkg/db/types"
	"github.com/angelmondragon/storefront-client/pkg/enums"
	"github.com/shopspring/decimal"
)

// Order is a checkout accepted by the sandbox order routes together with the
// payment fields handed back to the buyer.
type Order struct {
	ID             int64               `gorm:"column:id;primaryKey;autoIncrement"`
	UserID         int64               `gorm:"column:user_id;not null;index"`
	ProductIDs     dbtypes.Int64List   `gorm:"column:product_ids;not null"`
	TotalPrice     decimal.Decimal     `gorm:"column:total_price;type:numeric(12,2);not null"`
	PaymentMethod  enums.PaymentMethod `gorm:"column:payment_method;not null"`
	Status         enums.OrderStatus   `gorm:"column:status;not null"`
	PaymentLink    *string             `gorm:"column:payment_link"`
	InvoiceURL     *string             `gorm:"column:invoice_url"`
	PixQrCodeImage *string             `gorm:"column:pix_qr_code_image;type:text"`
	PixCopyPaste   *string             `gorm:"column:pix_copy_paste;type:text"`
	CreatedAt      time.Time           `gorm:"column:created_at;autoCreateTime"`
}
