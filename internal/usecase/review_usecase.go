package usecase

import (
	"context"
	"errors"
	"net/http"
	"strings"
	"time"

	"shop/internal/domain/model"
	"shop/internal/metrics"
	repo "shop/internal/repository"
)

// レビュー対象と認める注文ステータス
var ReviewEligibleStatuses = []model.OrderStatus{
	model.OrderStatusPaid,
	model.OrderStatusShipped,
	model.OrderStatusDelivered,
}

type ReviewUsecase struct {
	tx         repo.TransactionManager
	reviewRepo repo.ReviewRepository
	m          *metrics.ShopMetrics
}

func NewReviewUsecase(tx repo.TransactionManager, reviewRepo repo.ReviewRepository, m *metrics.ShopMetrics) *ReviewUsecase {
	return &ReviewUsecase{tx: tx, reviewRepo: reviewRepo, m: m}
}

type CreateReviewInput struct {
	ProductID int64
	Rating    int
	Comment   string
}

// レビュー投稿。対象ステータスの注文で実際に買った商品だけ受け付ける。
// 紐付く注文は対象のうち最も古いもの（同じ注文への二重投稿はここで弾く）。
func (u *ReviewUsecase) Create(ctx context.Context, userID int64, in CreateReviewInput) (model.Review, error) {
	if userID <= 0 {
		return model.Review{}, NewHTTPError(http.StatusUnauthorized, "unauthorized")
	}
	if in.ProductID <= 0 {
		return model.Review{}, NewHTTPError(http.StatusBadRequest, "invalid product_id")
	}
	if in.Rating < 1 || in.Rating > 5 {
		return model.Review{}, NewHTTPError(http.StatusBadRequest, "rating must be 1-5")
	}
	if strings.TrimSpace(in.Comment) == "" {
		return model.Review{}, NewHTTPError(http.StatusBadRequest, "comment required")
	}

	var created model.Review

	err := u.tx.WithinTx(ctx, func(r repo.TxRepos) error {
		//商品が存在して公開中か
		p, err := r.Products().FindByID(ctx, in.ProductID)
		if errors.Is(err, repo.ErrNotFound) {
			return NewHTTPError(http.StatusNotFound, "product not found")
		}
		if err != nil {
			return NewHTTPError(http.StatusInternalServerError, "db error")
		}
		if !p.IsActive {
			return NewHTTPError(http.StatusNotFound, "product not found")
		}

		//購入証明：対象ステータスの注文で買っているか
		orderID, found, err := r.OrderItems().FindEarliestPurchase(ctx, userID, in.ProductID, ReviewEligibleStatuses)
		if err != nil {
			return NewHTTPError(http.StatusInternalServerError, "db error")
		}
		if !found {
			return NewHTTPError(http.StatusBadRequest, "you can only review products you have purchased")
		}

		//同じ注文への二重投稿ガード
		exists, err := r.Reviews().ExistsForOrder(ctx, userID, in.ProductID, orderID)
		if err != nil {
			return NewHTTPError(http.StatusInternalServerError, "db error")
		}
		if exists {
			return NewHTTPError(http.StatusConflict, "already reviewed")
		}

		created, err = r.Reviews().Create(ctx, model.Review{
			UserID:             userID,
			ProductID:          in.ProductID,
			OrderID:            orderID,
			Rating:             in.Rating,
			Comment:            strings.TrimSpace(in.Comment),
			IsVerifiedPurchase: true,
			CreatedAt:          time.Now(),
		})
		if err != nil {
			return NewHTTPError(http.StatusInternalServerError, "db error")
		}
		return nil
	})

	if err != nil {
		return model.Review{}, err
	}

	if u.m != nil {
		u.m.ReviewsCreated.Inc()
	}
	return created, nil
}

// 商品のレビュー一覧（新しい順、投稿者の名前とアバターつき）
func (u *ReviewUsecase) FindAll(ctx context.Context, productID int64) ([]repo.ReviewWithUser, error) {
	if productID <= 0 {
		return []repo.ReviewWithUser{}, NewHTTPError(http.StatusBadRequest, "invalid product_id")
	}

	items, err := u.reviewRepo.ListByProduct(ctx, productID)
	if err != nil {
		return []repo.ReviewWithUser{}, NewHTTPError(http.StatusInternalServerError, "db error")
	}
	return items, nil
}
