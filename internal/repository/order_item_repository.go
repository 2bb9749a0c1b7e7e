package repository

import (
	"context"

	"shop/internal/domain/model"
)

type OrderItemRepository interface {
	CreateBulk(ctx context.Context, orderID int64, items []model.OrderItem) error
	ListByOrderID(ctx context.Context, orderID int64) ([]model.OrderItem, error)

	//このユーザーがこの商品を買った注文のうち、最も古い対象ステータスの注文IDを返す。
	//（レビューの購入証明に使う。どの注文に紐付くかを決定的にするため古い順で1件。）
	FindEarliestPurchase(ctx context.Context, userID int64, productID int64, statuses []model.OrderStatus) (orderID int64, found bool, err error)
}
