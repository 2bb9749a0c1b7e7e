package metrics

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// 注文・レビューの業務カウンタ。
type ShopMetrics struct {
	OrdersPlaced   prometheus.Counter
	OrderFailures  *prometheus.CounterVec
	ReviewsCreated prometheus.Counter
}

func NewShopMetrics() *ShopMetrics {
	ordersPlaced := prometheus.NewCounter(prometheus.CounterOpts{
		Namespace: "shop",
		Name:      "orders_placed_total",
		Help:      "Total number of successfully placed orders.",
	})
	orderFailures := prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: "shop",
		Name:      "order_failures_total",
		Help:      "Total number of rejected order placements.",
	}, []string{"reason"})
	reviewsCreated := prometheus.NewCounter(prometheus.CounterOpts{
		Namespace: "shop",
		Name:      "reviews_created_total",
		Help:      "Total number of created reviews.",
	})

	prometheus.MustRegister(ordersPlaced, orderFailures, reviewsCreated)
	return &ShopMetrics{
		OrdersPlaced:   ordersPlaced,
		OrderFailures:  orderFailures,
		ReviewsCreated: reviewsCreated,
	}
}

func Handler() http.Handler {
	return promhttp.Handler()
}
