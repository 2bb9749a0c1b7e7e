package model

import "time"

// 商品レビュー。order_idは購入を証明した注文。
// (user_id, product_id, order_id) で1件だけ。
type Review struct {
	ID                 int64     `gorm:"primaryKey;autoIncrement" json:"id"`
	UserID             int64     `gorm:"not null;uniqueIndex:uniq_review_per_order" json:"user_id"`
	ProductID          int64     `gorm:"not null;index;uniqueIndex:uniq_review_per_order" json:"product_id"`
	OrderID            int64     `gorm:"not null;uniqueIndex:uniq_review_per_order" json:"order_id"`
	Rating             int       `gorm:"not null" json:"rating"`
	Comment            string    `gorm:"type:text;not null" json:"comment"`
	IsVerifiedPurchase bool      `gorm:"not null;default:false" json:"is_verified_purchase"`
	CreatedAt          time.Time `gorm:"not null;autoCreateTime" json:"created_at"`
}
