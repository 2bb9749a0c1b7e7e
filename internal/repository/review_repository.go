package repository

import (
	"context"

	"shop/internal/domain/model"
)

// レビュー一覧で返す投稿者情報つきの1件
type ReviewWithUser struct {
	model.Review
	UserName   string `json:"user_name"`
	UserAvatar string `json:"user_avatar"`
}

type ReviewRepository interface {
	Create(ctx context.Context, review model.Review) (model.Review, error)

	//同じ注文に対して既にレビュー済みか
	ExistsForOrder(ctx context.Context, userID int64, productID int64, orderID int64) (bool, error)

	//商品のレビュー一覧（新しい順、投稿者の名前とアバターつき）
	ListByProduct(ctx context.Context, productID int64) ([]ReviewWithUser, error)
}
