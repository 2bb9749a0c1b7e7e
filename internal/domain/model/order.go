package model

import (
	"time"

	"github.com/shopspring/decimal"
	"gorm.io/datatypes"
)

type OrderStatus string

const (
	OrderStatusPending    OrderStatus = "PENDING"
	OrderStatusPaid       OrderStatus = "PAID"
	OrderStatusProcessing OrderStatus = "PROCESSING"
	OrderStatusShipped    OrderStatus = "SHIPPED"
	OrderStatusDelivered  OrderStatus = "DELIVERED"
	OrderStatusCancelled  OrderStatus = "CANCELLED"
)

// 文字列からOrderStatusへ。未知の値はfalse。
func ParseOrderStatus(s string) (OrderStatus, bool) {
	switch OrderStatus(s) {
	case OrderStatusPending, OrderStatusPaid, OrderStatusProcessing,
		OrderStatusShipped, OrderStatusDelivered, OrderStatusCancelled:
		return OrderStatus(s), true
	default:
		return "", false
	}
}

// DELIVERED / CANCELLED はこれ以上変更できない
func (s OrderStatus) IsTerminal() bool {
	return s == OrderStatusDelivered || s == OrderStatusCancelled
}

// PENDING→PAID→PROCESSING→SHIPPED→DELIVERED の一本道。
// CANCELLEDは終端以外のどこからでも入れる。
func (s OrderStatus) CanTransitionTo(next OrderStatus) bool {
	if next == OrderStatusCancelled {
		return !s.IsTerminal()
	}
	switch s {
	case OrderStatusPending:
		return next == OrderStatusPaid
	case OrderStatusPaid:
		return next == OrderStatusProcessing
	case OrderStatusProcessing:
		return next == OrderStatusShipped
	case OrderStatusShipped:
		return next == OrderStatusDelivered
	default:
		return false
	}
}

type Order struct {
	ID     int64       `gorm:"primaryKey;autoIncrement" json:"id"`
	UserID int64       `gorm:"not null;index" json:"user_id"`
	Status OrderStatus `gorm:"type:varchar(20);not null;index" json:"status"`

	//total = Σ(明細の単価×数量) + shipping_cost + tax。作成時に確定して以後再計算しない。
	Total        decimal.Decimal `gorm:"type:decimal(12,2);not null" json:"total"`
	ShippingCost decimal.Decimal `gorm:"type:decimal(12,2);not null;default:0" json:"shipping_cost"`
	Tax          decimal.Decimal `gorm:"type:decimal(12,2);not null;default:0" json:"tax"`

	//住所はこのコアでは解釈しない（そのまま保存して返す）
	ShippingAddress datatypes.JSON `gorm:"not null" json:"shipping_address"`
	BillingAddress  datatypes.JSON `json:"billing_address,omitempty"`

	PaymentMethod string `gorm:"type:varchar(100)" json:"payment_method"`
	PaymentID     string `gorm:"type:varchar(255)" json:"payment_id"`
	Notes         string `gorm:"type:text" json:"notes"`

	//ステータス遷移でだけ入る
	ShippedAt   *time.Time `json:"shipped_at"`
	DeliveredAt *time.Time `json:"delivered_at"`

	CreatedAt time.Time `gorm:"not null;autoCreateTime;index" json:"created_at"`
	UpdatedAt time.Time `gorm:"not null;autoUpdateTime" json:"updated_at"`
}
