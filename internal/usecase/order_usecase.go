package usecase

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"time"

	"shop/internal/domain/model"
	"shop/internal/metrics"
	repo "shop/internal/repository"

	"github.com/shopspring/decimal"
	"gorm.io/datatypes"
)

type OrderUsecase struct {
	tx repo.TransactionManager
	m  *metrics.ShopMetrics
}

func NewOrderUsecase(tx repo.TransactionManager, m *metrics.ShopMetrics) *OrderUsecase {
	return &OrderUsecase{tx: tx, m: m}
}

type CreateOrderItemInput struct {
	ProductID        int64
	Quantity         int64
	SelectedVariants map[string]interface{}
}

type CreateOrderInput struct {
	Items           []CreateOrderItemInput
	ShippingAddress json.RawMessage
	BillingAddress  json.RawMessage
	PaymentMethod   string
	PaymentID       string
	Notes           string
	ShippingCost    decimal.Decimal
	Tax             decimal.Decimal
}

type ProductSummary struct {
	ID    int64           `json:"id"`
	Name  string          `json:"name"`
	Slug  string          `json:"slug"`
	Price decimal.Decimal `json:"price"`
}

type OrderItemOutput struct {
	ProductID        int64                  `json:"product_id"`
	Quantity         int64                  `json:"quantity"`
	Price            decimal.Decimal        `json:"price"`
	SelectedVariants map[string]interface{} `json:"selected_variants"`

	//顧客ビューでだけ商品詳細を展開する
	Product *ProductSummary `json:"product,omitempty"`
}

// 管理者ビューに付ける所有ユーザーの最小情報
type OrderUserSummary struct {
	Name  string `json:"name"`
	Email string `json:"email"`
}

type OrderOutput struct {
	ID              int64             `json:"id"`
	UserID          int64             `json:"user_id"`
	Status          string            `json:"status"`
	Total           decimal.Decimal   `json:"total"`
	ShippingCost    decimal.Decimal   `json:"shipping_cost"`
	Tax             decimal.Decimal   `json:"tax"`
	ShippingAddress json.RawMessage   `json:"shipping_address"`
	BillingAddress  json.RawMessage   `json:"billing_address,omitempty"`
	PaymentMethod   string            `json:"payment_method,omitempty"`
	PaymentID       string            `json:"payment_id,omitempty"`
	Notes           string            `json:"notes,omitempty"`
	ShippedAt       *time.Time        `json:"shipped_at"`
	DeliveredAt     *time.Time        `json:"delivered_at"`
	CreatedAt       time.Time         `json:"created_at"`
	Items           []OrderItemOutput `json:"items"`
	User            *OrderUserSummary `json:"user,omitempty"`
}

// 注文作成。在庫チェック→減算→注文+明細の保存までを1トランザクションで行う。
// 途中でどれか1つでも失敗したら、減算済みの在庫も含めて全部巻き戻る。
func (u *OrderUsecase) Create(ctx context.Context, userID int64, in CreateOrderInput) (OrderOutput, error) {
	if userID <= 0 {
		return OrderOutput{}, NewHTTPError(http.StatusUnauthorized, "unauthorized")
	}
	if len(in.Items) == 0 {
		return OrderOutput{}, u.rejected("validation", "items required")
	}
	if len(in.ShippingAddress) == 0 {
		return OrderOutput{}, u.rejected("validation", "shipping_address required")
	}
	if in.ShippingCost.IsNegative() {
		return OrderOutput{}, u.rejected("validation", "shipping_cost must be >= 0")
	}
	if in.Tax.IsNegative() {
		return OrderOutput{}, u.rejected("validation", "tax must be >= 0")
	}
	for _, it := range in.Items {
		if it.ProductID <= 0 {
			return OrderOutput{}, u.rejected("validation", "invalid product_id")
		}
		if it.Quantity <= 0 {
			return OrderOutput{}, u.rejected("validation", "quantity must be >= 1")
		}
	}

	var out OrderOutput

	err := u.tx.WithinTx(ctx, func(r repo.TxRepos) error {
		itemsTotal := decimal.Zero
		orderItems := make([]model.OrderItem, 0, len(in.Items))

		now := time.Now()

		for _, it := range in.Items {
			//商品取得（非公開・削除済みは「存在しない」扱い）
			p, err := r.Products().FindByID(ctx, it.ProductID)
			if errors.Is(err, repo.ErrNotFound) {
				return u.rejected("product_not_found", "product not found")
			}
			if err != nil {
				return NewHTTPError(http.StatusInternalServerError, "db error")
			}
			if !p.IsActive {
				return u.rejected("product_not_found", "product not found")
			}

			//在庫減算（足りないなら false）。
			//先に減らすので、同じ商品が後ろの明細にもう一度出てきたら減算後の在庫で判定される。
			ok, err := r.Inventory().DecreaseStockIfEnough(ctx, it.ProductID, it.Quantity)
			if err != nil {
				return NewHTTPError(http.StatusInternalServerError, "db error")
			}
			if !ok {
				return u.rejected("insufficient_stock", "insufficient stock")
			}

			itemsTotal = itemsTotal.Add(p.Price.Mul(decimal.NewFromInt(it.Quantity)))

			//単価は今の値をスナップショット（以後読み直さない）
			variants := it.SelectedVariants
			if variants == nil {
				variants = map[string]interface{}{}
			}
			orderItems = append(orderItems, model.OrderItem{
				ProductID:         it.ProductID,
				Quantity:          it.Quantity,
				UnitPriceSnapshot: p.Price,
				SelectedVariants:  datatypes.JSONMap(variants),
				CreatedAt:         now,
			})
		}

		total := itemsTotal.Add(in.ShippingCost).Add(in.Tax)

		order := model.Order{
			UserID:          userID,
			Status:          model.OrderStatusPending,
			Total:           total,
			ShippingCost:    in.ShippingCost,
			Tax:             in.Tax,
			ShippingAddress: datatypes.JSON(in.ShippingAddress),
			BillingAddress:  datatypes.JSON(in.BillingAddress),
			PaymentMethod:   in.PaymentMethod,
			PaymentID:       in.PaymentID,
			Notes:           in.Notes,
			CreatedAt:       now,
			UpdatedAt:       now,
		}

		orderID, err := r.Orders().Create(ctx, order)
		if err != nil {
			return NewHTTPError(http.StatusInternalServerError, "db error")
		}

		if err := r.OrderItems().CreateBulk(ctx, orderID, orderItems); err != nil {
			return NewHTTPError(http.StatusInternalServerError, "db error")
		}

		order.ID = orderID
		out = toOrderOutput(order, orderItems)
		return nil
	})

	if err != nil {
		return OrderOutput{}, err
	}

	if u.m != nil {
		u.m.OrdersPlaced.Inc()
	}
	return out, nil
}

// 注文一覧。管理者は全件+所有ユーザーの最小情報、顧客は自分の注文+商品詳細つき。
func (u *OrderUsecase) FindAll(ctx context.Context, viewer model.Viewer) ([]OrderOutput, error) {
	if viewer.UserID <= 0 {
		return []OrderOutput{}, NewHTTPError(http.StatusUnauthorized, "unauthorized")
	}

	var outs []OrderOutput

	err := u.tx.WithinTx(ctx, func(r repo.TxRepos) error {
		var orders []model.Order
		var err error

		if viewer.IsAdmin() {
			orders, err = r.Orders().ListAll(ctx)
		} else {
			orders, err = r.Orders().ListByUserID(ctx, viewer.UserID)
		}
		if err != nil {
			return NewHTTPError(http.StatusInternalServerError, "db error")
		}

		outs = make([]OrderOutput, 0, len(orders))
		for _, o := range orders {
			items, err := r.OrderItems().ListByOrderID(ctx, o.ID)
			if err != nil {
				return NewHTTPError(http.StatusInternalServerError, "db error")
			}

			out := toOrderOutput(o, items)

			if viewer.IsAdmin() {
				if err := attachUserSummary(ctx, r, &out, o.UserID); err != nil {
					return err
				}
			} else {
				if err := attachProductDetails(ctx, r, &out); err != nil {
					return err
				}
			}

			outs = append(outs, out)
		}
		return nil
	})

	if err != nil {
		return []OrderOutput{}, err
	}
	return outs, nil
}

// 注文詳細。見つからなければ (nil, nil)。
// 所有者でも管理者でもない場合は、存在の有無が漏れないようnot foundと同じ文言で拒否する。
func (u *OrderUsecase) FindOne(ctx context.Context, viewer model.Viewer, orderID int64) (*OrderOutput, error) {
	if viewer.UserID <= 0 {
		return nil, NewHTTPError(http.StatusUnauthorized, "unauthorized")
	}
	if orderID <= 0 {
		return nil, NewHTTPError(http.StatusBadRequest, "invalid id")
	}

	var out *OrderOutput

	err := u.tx.WithinTx(ctx, func(r repo.TxRepos) error {
		o, err := r.Orders().FindByID(ctx, orderID)
		if errors.Is(err, repo.ErrNotFound) {
			//存在しない注文は空を返す（エラーにしない）
			return nil
		}
		if err != nil {
			return NewHTTPError(http.StatusInternalServerError, "db error")
		}

		if !viewer.CanViewOrder(o.UserID) {
			return NewHTTPError(http.StatusBadRequest, "order not found or access denied")
		}

		items, err := r.OrderItems().ListByOrderID(ctx, o.ID)
		if err != nil {
			return NewHTTPError(http.StatusInternalServerError, "db error")
		}

		detail := toOrderOutput(o, items)
		if err := attachProductDetails(ctx, r, &detail); err != nil {
			return err
		}
		if err := attachUserSummary(ctx, r, &detail, o.UserID); err != nil {
			return err
		}

		out = &detail
		return nil
	})

	if err != nil {
		return nil, err
	}
	return out, nil
}

func (u *OrderUsecase) rejected(reason string, message string) error {
	if u.m != nil {
		u.m.OrderFailures.WithLabelValues(reason).Inc()
	}
	return NewHTTPError(http.StatusBadRequest, message)
}

func attachUserSummary(ctx context.Context, r repo.TxRepos, out *OrderOutput, userID int64) error {
	owner, err := r.Users().FindByID(ctx, userID)
	if err != nil {
		if errors.Is(err, repo.ErrUserNotFound) {
			return nil
		}
		return NewHTTPError(http.StatusInternalServerError, "db error")
	}
	out.User = &OrderUserSummary{Name: owner.Name, Email: owner.Email}
	return nil
}

func attachProductDetails(ctx context.Context, r repo.TxRepos, out *OrderOutput) error {
	for i := range out.Items {
		p, err := r.Products().FindByID(ctx, out.Items[i].ProductID)
		if errors.Is(err, repo.ErrNotFound) {
			//商品が後から消えていても注文は見られる
			continue
		}
		if err != nil {
			return NewHTTPError(http.StatusInternalServerError, "db error")
		}
		out.Items[i].Product = &ProductSummary{
			ID:    p.ID,
			Name:  p.Name,
			Slug:  p.Slug,
			Price: p.Price,
		}
	}
	return nil
}

func toOrderOutput(o model.Order, items []model.OrderItem) OrderOutput {
	outItems := make([]OrderItemOutput, 0, len(items))
	for _, it := range items {
		outItems = append(outItems, OrderItemOutput{
			ProductID:        it.ProductID,
			Quantity:         it.Quantity,
			Price:            it.UnitPriceSnapshot,
			SelectedVariants: map[string]interface{}(it.SelectedVariants),
		})
	}

	return OrderOutput{
		ID:              o.ID,
		UserID:          o.UserID,
		Status:          string(o.Status),
		Total:           o.Total,
		ShippingCost:    o.ShippingCost,
		Tax:             o.Tax,
		ShippingAddress: json.RawMessage(o.ShippingAddress),
		BillingAddress:  json.RawMessage(o.BillingAddress),
		PaymentMethod:   o.PaymentMethod,
		PaymentID:       o.PaymentID,
		Notes:           o.Notes,
		ShippedAt:       o.ShippedAt,
		DeliveredAt:     o.DeliveredAt,
		CreatedAt:       o.CreatedAt,
		Items:           outItems,
	}
}
