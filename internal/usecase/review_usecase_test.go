package usecase_test

import (
	"context"
	"testing"

	"shop/internal/domain/model"
	repo "shop/internal/repository"
	"shop/internal/usecase"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
)

type ReviewRepoMock struct{ mock.Mock }

func (m *ReviewRepoMock) Create(ctx context.Context, review model.Review) (model.Review, error) {
	args := m.Called(ctx, review)
	r, _ := args.Get(0).(model.Review)
	return r, args.Error(1)
}

func (m *ReviewRepoMock) ExistsForOrder(ctx context.Context, userID int64, productID int64, orderID int64) (bool, error) {
	args := m.Called(ctx, userID, productID, orderID)
	return args.Bool(0), args.Error(1)
}

func (m *ReviewRepoMock) ListByProduct(ctx context.Context, productID int64) ([]repo.ReviewWithUser, error) {
	args := m.Called(ctx, productID)
	items, _ := args.Get(0).([]repo.ReviewWithUser)
	return items, args.Error(1)
}

// =====================
// Create tests
// =====================

func TestReviewUsecase_Create_Unauthorized(t *testing.T) {
	tx := new(TxManagerMock)
	reviews := new(ReviewRepoMock)
	uc := usecase.NewReviewUsecase(tx, reviews, nil)

	_, err := uc.Create(context.Background(), 0, usecase.CreateReviewInput{ProductID: 1, Rating: 5, Comment: "good"})
	assertErrContains(t, err, "unauthorized")
}

func TestReviewUsecase_Create_InvalidRating(t *testing.T) {
	tx := new(TxManagerMock)
	reviews := new(ReviewRepoMock)
	uc := usecase.NewReviewUsecase(tx, reviews, nil)

	_, err := uc.Create(context.Background(), 1, usecase.CreateReviewInput{ProductID: 1, Rating: 6, Comment: "good"})
	assertErrContains(t, err, "rating must be 1-5")
}

func TestReviewUsecase_Create_EmptyComment(t *testing.T) {
	tx := new(TxManagerMock)
	reviews := new(ReviewRepoMock)
	uc := usecase.NewReviewUsecase(tx, reviews, nil)

	_, err := uc.Create(context.Background(), 1, usecase.CreateReviewInput{ProductID: 1, Rating: 3, Comment: "   "})
	assertErrContains(t, err, "comment required")
}

func TestReviewUsecase_Create_NotPurchased(t *testing.T) {
	tx := new(TxManagerMock)
	reviews := new(ReviewRepoMock)
	products := new(ProductRepoMock)
	items := new(OrderItemRepoMock)

	tx.Repos = &TxReposMock{products: products, orderItems: items, reviews: reviews}
	tx.On("WithinTx", mock.Anything).Return(nil)

	products.On("FindByID", mock.Anything, int64(5)).Return(model.Product{ID: 5, IsActive: true}, nil)
	items.On("FindEarliestPurchase", mock.Anything, int64(1), int64(5), usecase.ReviewEligibleStatuses).
		Return(int64(0), false, nil)

	uc := usecase.NewReviewUsecase(tx, reviews, nil)

	_, err := uc.Create(context.Background(), 1, usecase.CreateReviewInput{ProductID: 5, Rating: 4, Comment: "nice"})
	assertErrContains(t, err, "you can only review products you have purchased")
}

func TestReviewUsecase_Create_AlreadyReviewed(t *testing.T) {
	tx := new(TxManagerMock)
	reviews := new(ReviewRepoMock)
	products := new(ProductRepoMock)
	items := new(OrderItemRepoMock)

	tx.Repos = &TxReposMock{products: products, orderItems: items, reviews: reviews}
	tx.On("WithinTx", mock.Anything).Return(nil)

	products.On("FindByID", mock.Anything, int64(5)).Return(model.Product{ID: 5, IsActive: true}, nil)
	items.On("FindEarliestPurchase", mock.Anything, int64(1), int64(5), usecase.ReviewEligibleStatuses).
		Return(int64(30), true, nil)
	reviews.On("ExistsForOrder", mock.Anything, int64(1), int64(5), int64(30)).Return(true, nil)

	uc := usecase.NewReviewUsecase(tx, reviews, nil)

	_, err := uc.Create(context.Background(), 1, usecase.CreateReviewInput{ProductID: 5, Rating: 4, Comment: "nice"})
	assertErrContains(t, err, "already reviewed")
}

func TestReviewUsecase_Create_Success_BindsEarliestOrder(t *testing.T) {
	tx := new(TxManagerMock)
	reviews := new(ReviewRepoMock)
	products := new(ProductRepoMock)
	items := new(OrderItemRepoMock)

	tx.Repos = &TxReposMock{products: products, orderItems: items, reviews: reviews}
	tx.On("WithinTx", mock.Anything).Return(nil)

	products.On("FindByID", mock.Anything, int64(5)).Return(model.Product{ID: 5, IsActive: true}, nil)

	//対象ステータスのうち最も古い注文（ID=30）に紐付く
	items.On("FindEarliestPurchase", mock.Anything, int64(1), int64(5), usecase.ReviewEligibleStatuses).
		Return(int64(30), true, nil)
	reviews.On("ExistsForOrder", mock.Anything, int64(1), int64(5), int64(30)).Return(false, nil)

	reviews.On("Create", mock.Anything, mock.MatchedBy(func(r model.Review) bool {
		return r.UserID == 1 && r.ProductID == 5 && r.OrderID == 30 &&
			r.Rating == 4 && r.IsVerifiedPurchase
	})).Return(model.Review{
		ID: 100, UserID: 1, ProductID: 5, OrderID: 30, Rating: 4, Comment: "nice", IsVerifiedPurchase: true,
	}, nil)

	uc := usecase.NewReviewUsecase(tx, reviews, nil)

	out, err := uc.Create(context.Background(), 1, usecase.CreateReviewInput{ProductID: 5, Rating: 4, Comment: "nice"})
	assert.NoError(t, err)
	assert.Equal(t, int64(100), out.ID)
	assert.Equal(t, int64(30), out.OrderID)
	assert.True(t, out.IsVerifiedPurchase)

	reviews.AssertExpectations(t)
	items.AssertExpectations(t)
}

func TestReviewUsecase_Create_InactiveProduct(t *testing.T) {
	tx := new(TxManagerMock)
	reviews := new(ReviewRepoMock)
	products := new(ProductRepoMock)

	tx.Repos = &TxReposMock{products: products, reviews: reviews}
	tx.On("WithinTx", mock.Anything).Return(nil)

	products.On("FindByID", mock.Anything, int64(5)).Return(model.Product{ID: 5, IsActive: false}, nil)

	uc := usecase.NewReviewUsecase(tx, reviews, nil)

	_, err := uc.Create(context.Background(), 1, usecase.CreateReviewInput{ProductID: 5, Rating: 4, Comment: "nice"})
	assertErrContains(t, err, "product not found")
}

// =====================
// FindAll tests
// =====================

func TestReviewUsecase_FindAll_InvalidProductID(t *testing.T) {
	tx := new(TxManagerMock)
	reviews := new(ReviewRepoMock)
	uc := usecase.NewReviewUsecase(tx, reviews, nil)

	_, err := uc.FindAll(context.Background(), 0)
	assertErrContains(t, err, "invalid product_id")
}

func TestReviewUsecase_FindAll_Success(t *testing.T) {
	tx := new(TxManagerMock)
	reviews := new(ReviewRepoMock)

	reviews.On("ListByProduct", mock.Anything, int64(5)).Return([]repo.ReviewWithUser{
		{Review: model.Review{ID: 1, ProductID: 5, Rating: 5}, UserName: "Taro", UserAvatar: "taro.png"},
	}, nil)

	uc := usecase.NewReviewUsecase(tx, reviews, nil)

	outs, err := uc.FindAll(context.Background(), 5)
	assert.NoError(t, err)
	if assert.Equal(t, 1, len(outs)) {
		assert.Equal(t, "Taro", outs[0].UserName)
	}

	reviews.AssertExpectations(t)
}
