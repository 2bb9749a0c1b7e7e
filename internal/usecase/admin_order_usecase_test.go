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

type AuditRepoMock struct{ mock.Mock }

func (m *AuditRepoMock) Create(ctx context.Context, log model.AuditLog) error {
	args := m.Called(ctx, log)
	return args.Error(0)
}

func (m *AuditRepoMock) List(ctx context.Context, filter repo.AuditLogFilter) ([]model.AuditLog, error) {
	args := m.Called(ctx, filter)
	logs, _ := args.Get(0).([]model.AuditLog)
	return logs, args.Error(1)
}

// =====================
// List tests
// =====================

func TestAdminOrderUsecase_List_InvalidPage(t *testing.T) {
	tx := new(TxManagerMock)
	audit := new(AuditRepoMock)

	uc := usecase.NewAdminOrderUsecase(tx, audit)

	outs, _, err := uc.List(context.Background(), repo.AdminOrderListFilter{Page: 0, Limit: 20})
	assert.Equal(t, 0, len(outs))
	assertErrContains(t, err, "invalid page")
}

func TestAdminOrderUsecase_List_InvalidLimit(t *testing.T) {
	tx := new(TxManagerMock)
	audit := new(AuditRepoMock)

	uc := usecase.NewAdminOrderUsecase(tx, audit)

	outs, _, err := uc.List(context.Background(), repo.AdminOrderListFilter{Page: 1, Limit: 0})
	assert.Equal(t, 0, len(outs))
	assertErrContains(t, err, "invalid limit")
}

func TestAdminOrderUsecase_List_InvalidStatusFilter(t *testing.T) {
	tx := new(TxManagerMock)
	audit := new(AuditRepoMock)

	uc := usecase.NewAdminOrderUsecase(tx, audit)

	_, _, err := uc.List(context.Background(), repo.AdminOrderListFilter{Page: 1, Limit: 20, Status: "XXX"})
	assertErrContains(t, err, "invalid status")
}

func TestAdminOrderUsecase_List_Success(t *testing.T) {
	ctx := context.Background()

	tx := new(TxManagerMock)
	audit := new(AuditRepoMock)

	orders := new(OrderRepoMock)
	items := new(OrderItemRepoMock)
	users := new(UserRepoMock)

	tx.Repos = &TxReposMock{orders: orders, orderItems: items, users: users}
	tx.On("WithinTx", mock.Anything).Return(nil)

	f := repo.AdminOrderListFilter{Page: 1, Limit: 20}

	orders.On("ListAdmin", mock.Anything, f).Return([]model.Order{
		{ID: 10, UserID: 1, Status: model.OrderStatusPending},
		{ID: 11, UserID: 2, Status: model.OrderStatusPaid},
	}, int64(2), nil)
	items.On("ListByOrderID", mock.Anything, int64(10)).Return([]model.OrderItem{}, nil)
	items.On("ListByOrderID", mock.Anything, int64(11)).Return([]model.OrderItem{}, nil)
	users.On("FindByID", mock.Anything, int64(1)).Return(&model.User{ID: 1, Name: "A", Email: "a@example.com"}, nil)
	users.On("FindByID", mock.Anything, int64(2)).Return(&model.User{ID: 2, Name: "B", Email: "b@example.com"}, nil)

	uc := usecase.NewAdminOrderUsecase(tx, audit)

	outs, total, err := uc.List(ctx, f)
	assert.NoError(t, err)
	assert.Equal(t, 2, len(outs))
	assert.Equal(t, int64(2), total)

	tx.AssertExpectations(t)
	orders.AssertExpectations(t)
	items.AssertExpectations(t)
}

// =====================
// UpdateStatus tests
// =====================

func TestAdminOrderUsecase_UpdateStatus_UnauthorizedActor(t *testing.T) {
	tx := new(TxManagerMock)
	audit := new(AuditRepoMock)
	uc := usecase.NewAdminOrderUsecase(tx, audit)

	_, err := uc.UpdateStatus(context.Background(), 0, 1, usecase.AdminUpdateOrderStatusInput{Status: "PAID"})
	assertErrContains(t, err, "unauthorized")
}

func TestAdminOrderUsecase_UpdateStatus_InvalidOrderID(t *testing.T) {
	tx := new(TxManagerMock)
	audit := new(AuditRepoMock)
	uc := usecase.NewAdminOrderUsecase(tx, audit)

	_, err := uc.UpdateStatus(context.Background(), 1, 0, usecase.AdminUpdateOrderStatusInput{Status: "PAID"})
	assertErrContains(t, err, "invalid id")
}

func TestAdminOrderUsecase_UpdateStatus_InvalidStatus(t *testing.T) {
	tx := new(TxManagerMock)
	audit := new(AuditRepoMock)
	uc := usecase.NewAdminOrderUsecase(tx, audit)

	_, err := uc.UpdateStatus(context.Background(), 1, 1, usecase.AdminUpdateOrderStatusInput{Status: "XXX"})
	assertErrContains(t, err, "invalid status")
}

func TestAdminOrderUsecase_UpdateStatus_NotFound(t *testing.T) {
	ctx := context.Background()

	tx := new(TxManagerMock)
	audit := new(AuditRepoMock)

	orders := new(OrderRepoMock)

	tx.Repos = &TxReposMock{orders: orders}
	tx.On("WithinTx", mock.Anything).Return(nil)

	orders.On("FindByID", mock.Anything, int64(99)).Return(model.Order{}, repo.ErrNotFound)

	uc := usecase.NewAdminOrderUsecase(tx, audit)

	_, err := uc.UpdateStatus(ctx, 1, 99, usecase.AdminUpdateOrderStatusInput{Status: "PAID"})
	assertErrContains(t, err, "not found")

	orders.AssertExpectations(t)
}

func TestAdminOrderUsecase_UpdateStatus_SameStatus_NoOp(t *testing.T) {
	ctx := context.Background()

	tx := new(TxManagerMock)
	audit := new(AuditRepoMock)

	orders := new(OrderRepoMock)
	items := new(OrderItemRepoMock)

	tx.Repos = &TxReposMock{orders: orders, orderItems: items}
	tx.On("WithinTx", mock.Anything).Return(nil)

	orders.On("FindByID", mock.Anything, int64(1)).Return(model.Order{
		ID:     1,
		Status: model.OrderStatusPaid,
	}, nil)
	items.On("ListByOrderID", mock.Anything, int64(1)).Return([]model.OrderItem{}, nil)

	uc := usecase.NewAdminOrderUsecase(tx, audit)

	out, err := uc.UpdateStatus(ctx, 1, 1, usecase.AdminUpdateOrderStatusInput{Status: "PAID"})
	assert.NoError(t, err)
	assert.Equal(t, "PAID", out.Status)

	orders.AssertNotCalled(t, "UpdateStatus", mock.Anything, mock.Anything, mock.Anything)
	audit.AssertNotCalled(t, "Create", mock.Anything, mock.Anything)
}

func TestAdminOrderUsecase_UpdateStatus_CannotLeaveTerminalState(t *testing.T) {
	ctx := context.Background()

	tx := new(TxManagerMock)
	audit := new(AuditRepoMock)

	orders := new(OrderRepoMock)
	items := new(OrderItemRepoMock)

	tx.Repos = &TxReposMock{orders: orders, orderItems: items}
	tx.On("WithinTx", mock.Anything).Return(nil)

	orders.On("FindByID", mock.Anything, int64(1)).Return(model.Order{
		ID:     1,
		Status: model.OrderStatusCancelled,
	}, nil)
	items.On("ListByOrderID", mock.Anything, int64(1)).Return([]model.OrderItem{}, nil)

	uc := usecase.NewAdminOrderUsecase(tx, audit)

	_, err := uc.UpdateStatus(ctx, 1, 1, usecase.AdminUpdateOrderStatusInput{Status: "PAID"})
	assertErrContains(t, err, "invalid status transition")
}

func TestAdminOrderUsecase_UpdateStatus_CannotSkipSteps(t *testing.T) {
	ctx := context.Background()

	tx := new(TxManagerMock)
	audit := new(AuditRepoMock)

	orders := new(OrderRepoMock)
	items := new(OrderItemRepoMock)

	tx.Repos = &TxReposMock{orders: orders, orderItems: items}
	tx.On("WithinTx", mock.Anything).Return(nil)

	//PENDINGからSHIPPEDへ飛ばすのは不可
	orders.On("FindByID", mock.Anything, int64(1)).Return(model.Order{
		ID:     1,
		Status: model.OrderStatusPending,
	}, nil)
	items.On("ListByOrderID", mock.Anything, int64(1)).Return([]model.OrderItem{}, nil)

	uc := usecase.NewAdminOrderUsecase(tx, audit)

	_, err := uc.UpdateStatus(ctx, 1, 1, usecase.AdminUpdateOrderStatusInput{Status: "SHIPPED"})
	assertErrContains(t, err, "invalid status transition")
}

func TestAdminOrderUsecase_UpdateStatus_ShippedStampsTimestamp(t *testing.T) {
	ctx := context.Background()

	tx := new(TxManagerMock)
	audit := new(AuditRepoMock)

	orders := new(OrderRepoMock)
	items := new(OrderItemRepoMock)

	tx.Repos = &TxReposMock{orders: orders, orderItems: items}
	tx.On("WithinTx", mock.Anything).Return(nil)

	orders.On("FindByID", mock.Anything, int64(1)).Return(model.Order{
		ID:     1,
		Status: model.OrderStatusProcessing,
	}, nil)
	items.On("ListByOrderID", mock.Anything, int64(1)).Return([]model.OrderItem{}, nil)

	orders.On("UpdateStatus", mock.Anything, int64(1), mock.MatchedBy(func(u repo.OrderStatusUpdate) bool {
		return u.Status == model.OrderStatusShipped && u.ShippedAt != nil && u.DeliveredAt == nil
	})).Return(nil)

	audit.On("Create", mock.Anything, mock.MatchedBy(func(l model.AuditLog) bool {
		return l.Action == model.AuditActionUpdateOrderStatus &&
			l.ResourceType == model.AuditResourceOrder &&
			l.ResourceID == int64(1)
	})).Return(nil)

	uc := usecase.NewAdminOrderUsecase(tx, audit)

	out, err := uc.UpdateStatus(ctx, 1, 1, usecase.AdminUpdateOrderStatusInput{Status: "SHIPPED"})
	assert.NoError(t, err)
	assert.Equal(t, "SHIPPED", out.Status)
	assert.NotNil(t, out.ShippedAt)

	orders.AssertExpectations(t)
	audit.AssertExpectations(t)
}

func TestAdminOrderUsecase_UpdateStatus_CancelRestoresStock(t *testing.T) {
	ctx := context.Background()

	tx := new(TxManagerMock)
	audit := new(AuditRepoMock)

	orders := new(OrderRepoMock)
	items := new(OrderItemRepoMock)
	inventory := new(InventoryRepoMock)

	tx.Repos = &TxReposMock{orders: orders, orderItems: items, inventory: inventory}
	tx.On("WithinTx", mock.Anything).Return(nil)

	orders.On("FindByID", mock.Anything, int64(1)).Return(model.Order{
		ID:     1,
		Status: model.OrderStatusPaid,
	}, nil)
	items.On("ListByOrderID", mock.Anything, int64(1)).Return([]model.OrderItem{
		{OrderID: 1, ProductID: 5, Quantity: 2},
		{OrderID: 1, ProductID: 6, Quantity: 1},
	}, nil)

	inventory.On("IncreaseStock", mock.Anything, int64(5), int64(2)).Return(nil)
	inventory.On("IncreaseStock", mock.Anything, int64(6), int64(1)).Return(nil)

	orders.On("UpdateStatus", mock.Anything, int64(1), mock.MatchedBy(func(u repo.OrderStatusUpdate) bool {
		return u.Status == model.OrderStatusCancelled
	})).Return(nil)

	audit.On("Create", mock.Anything, mock.Anything).Return(nil)

	uc := usecase.NewAdminOrderUsecase(tx, audit)

	out, err := uc.UpdateStatus(ctx, 1, 1, usecase.AdminUpdateOrderStatusInput{Status: "CANCELLED"})
	assert.NoError(t, err)
	assert.Equal(t, "CANCELLED", out.Status)

	inventory.AssertExpectations(t)
	orders.AssertExpectations(t)
	audit.AssertExpectations(t)
}
