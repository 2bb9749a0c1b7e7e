package repository

import (
	"context"
	"time"

	"shop/internal/domain/model"
)

type AdminOrderListFilter struct {
	Page   int
	Limit  int
	Status string
	UserID *int64
	From   *time.Time
	To     *time.Time
}

// ステータス更新と、遷移に伴うタイムスタンプをまとめて書く
type OrderStatusUpdate struct {
	Status      model.OrderStatus
	ShippedAt   *time.Time
	DeliveredAt *time.Time
}

type OrderRepository interface {
	FindByID(ctx context.Context, orderID int64) (model.Order, error)

	//自分の注文一覧（新しい順）
	ListByUserID(ctx context.Context, userID int64) ([]model.Order, error)

	//全注文（新しい順）。管理者の注文一覧ビューで使う。
	ListAll(ctx context.Context) ([]model.Order, error)

	Create(ctx context.Context, order model.Order) (int64, error)
	UpdateStatus(ctx context.Context, orderID int64, u OrderStatusUpdate) error

	//管理者用の注文一覧（新しい順）
	ListAdmin(ctx context.Context, f AdminOrderListFilter) ([]model.Order, int64, error)
}
