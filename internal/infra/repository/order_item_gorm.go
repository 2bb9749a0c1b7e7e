package repository

import (
	"context"
	"errors"

	"shop/internal/domain/model"

	"gorm.io/gorm"
)

type OrderItemGormRepository struct {
	db *gorm.DB
}

func NewOrderItemGormRepository(db *gorm.DB) *OrderItemGormRepository {
	return &OrderItemGormRepository{db: db}
}

func (r *OrderItemGormRepository) CreateBulk(ctx context.Context, orderID int64, items []model.OrderItem) error {
	if len(items) == 0 {
		return nil
	}
	for i := range items {
		items[i].OrderID = orderID
	}
	if err := r.db.WithContext(ctx).Create(&items).Error; err != nil {
		return err
	}
	return nil
}

func (r *OrderItemGormRepository) ListByOrderID(ctx context.Context, orderID int64) ([]model.OrderItem, error) {
	var items []model.OrderItem
	err := r.db.WithContext(ctx).Where("order_id = ?", orderID).Order("id asc").Find(&items).Error
	if err != nil {
		return []model.OrderItem{}, err
	}
	return items, nil
}

// レビューの購入証明。対象ステータスの注文のうち最も古いものを1件。
func (r *OrderItemGormRepository) FindEarliestPurchase(ctx context.Context, userID int64, productID int64, statuses []model.OrderStatus) (int64, bool, error) {
	var orderID int64
	err := r.db.WithContext(ctx).
		Table("order_items").
		Select("order_items.order_id").
		Joins("JOIN orders ON orders.id = order_items.order_id").
		Where("order_items.product_id = ?", productID).
		Where("orders.user_id = ?", userID).
		Where("orders.status IN ?", statuses).
		Order("orders.created_at asc").Order("orders.id asc").
		Limit(1).
		Scan(&orderID).Error

	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return 0, false, nil
		}
		return 0, false, err
	}
	if orderID == 0 {
		return 0, false, nil
	}
	return orderID, true, nil
}
