package model

import (
	"time"

	"github.com/shopspring/decimal"
	"gorm.io/datatypes"
)

// 注文の明細。単価は注文時点のスナップショットで以後変わらない。
type OrderItem struct {
	ID                int64           `gorm:"primaryKey;autoIncrement" json:"id"`
	OrderID           int64           `gorm:"not null;index" json:"order_id"`
	ProductID         int64           `gorm:"not null;index" json:"product_id"`
	Quantity          int64           `gorm:"not null" json:"quantity"`
	UnitPriceSnapshot decimal.Decimal `gorm:"type:decimal(12,2);not null;column:unit_price_snapshot" json:"unit_price_snapshot"`

	//購入時に選んだバリエーション（色・サイズなど）
	SelectedVariants datatypes.JSONMap `json:"selected_variants"`

	CreatedAt time.Time `gorm:"not null;autoCreateTime" json:"created_at"`
}
