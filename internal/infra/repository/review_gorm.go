package repository

import (
	"context"
	"errors"

	"shop/internal/domain/model"
	repo "shop/internal/repository"

	"gorm.io/gorm"
)

type ReviewGormRepository struct {
	db *gorm.DB
}

func NewReviewGormRepository(db *gorm.DB) *ReviewGormRepository {
	return &ReviewGormRepository{db: db}
}

func (r *ReviewGormRepository) Create(ctx context.Context, review model.Review) (model.Review, error) {
	if err := r.db.WithContext(ctx).Create(&review).Error; err != nil {
		return model.Review{}, err
	}
	return review, nil
}

// 同じ(user, product, order)で既にレビュー済みか
func (r *ReviewGormRepository) ExistsForOrder(ctx context.Context, userID int64, productID int64, orderID int64) (bool, error) {
	var rv model.Review
	err := r.db.WithContext(ctx).
		Where("user_id = ? AND product_id = ? AND order_id = ?", userID, productID, orderID).
		First(&rv).Error

	if errors.Is(err, gorm.ErrRecordNotFound) {
		return false, nil
	}
	if err != nil {
		return false, err
	}
	return true, nil
}

// 商品のレビュー一覧（新しい順）。投稿者の名前とアバターをJOINで付ける。
func (r *ReviewGormRepository) ListByProduct(ctx context.Context, productID int64) ([]repo.ReviewWithUser, error) {
	var rows []repo.ReviewWithUser
	err := r.db.WithContext(ctx).
		Table("reviews").
		Select("reviews.*, users.name AS user_name, users.avatar AS user_avatar").
		Joins("JOIN users ON users.id = reviews.user_id").
		Where("reviews.product_id = ?", productID).
		Order("reviews.created_at desc").Order("reviews.id desc").
		Scan(&rows).Error
	if err != nil {
		return []repo.ReviewWithUser{}, err
	}
	if rows == nil {
		rows = []repo.ReviewWithUser{}
	}
	return rows, nil
}
