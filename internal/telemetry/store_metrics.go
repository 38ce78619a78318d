package telemetry

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/shopspring/decimal"
)

// StoreMetrics holds Prometheus metrics for storefront activity.
// A nil *StoreMetrics is valid and records nothing.
type StoreMetrics struct {
	// Catalog
	Searches       prometheus.Counter
	FiltersApplied *prometheus.CounterVec

	// Cart
	AddToCart          *prometheus.CounterVec
	CouponApplications *prometheus.CounterVec

	// Orders
	OrdersPlaced   *prometheus.CounterVec
	OrderValue     prometheus.Histogram
	OrderItemCount prometheus.Histogram

	// Collaborators
	PostalLookups *prometheus.CounterVec
}

// NewStoreMetrics creates the metrics and registers them on reg.
// A nil reg uses the default Prometheus registerer.
func NewStoreMetrics(namespace string, reg prometheus.Registerer) *StoreMetrics {
	if namespace == "" {
		namespace = "wagsales"
	}
	if reg == nil {
		reg = prometheus.DefaultRegisterer
	}
	factory := promauto.With(reg)
	subsystem := "store"

	return &StoreMetrics{
		// =======================================================================
		// Catalog
		// =======================================================================
		Searches: factory.NewCounter(
			prometheus.CounterOpts{
				Namespace: namespace,
				Subsystem: subsystem,
				Name:      "searches_total",
				Help:      "Total product searches with a non-empty query",
			},
		),
		FiltersApplied: factory.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Subsystem: subsystem,
				Name:      "filters_applied_total",
				Help:      "Total product listings requested per filter dimension",
			},
			[]string{"dimension"}, // category, brand, tag, price, rating, in_stock, free_shipping, featured, new
		),

		// =======================================================================
		// Cart
		// =======================================================================
		AddToCart: factory.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Subsystem: subsystem,
				Name:      "add_to_cart_total",
				Help:      "Total add to cart actions",
			},
			[]string{"product_id"},
		),
		CouponApplications: factory.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Subsystem: subsystem,
				Name:      "coupon_applications_total",
				Help:      "Total coupon applications by outcome",
			},
			[]string{"result"}, // applied, invalid, expired, below_minimum, empty
		),

		// =======================================================================
		// Orders
		// =======================================================================
		OrdersPlaced: factory.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Subsystem: subsystem,
				Name:      "orders_placed_total",
				Help:      "Total orders placed by payment method",
			},
			[]string{"payment_method"},
		),
		OrderValue: factory.NewHistogram(
			prometheus.HistogramOpts{
				Namespace: namespace,
				Subsystem: subsystem,
				Name:      "order_value_reais",
				Help:      "Distribution of order totals in reais",
				Buckets:   []float64{25, 50, 100, 199, 300, 500, 1000, 2500, 5000, 10000},
			},
		),
		OrderItemCount: factory.NewHistogram(
			prometheus.HistogramOpts{
				Namespace: namespace,
				Subsystem: subsystem,
				Name:      "order_item_count",
				Help:      "Distribution of item counts per order",
				Buckets:   []float64{1, 2, 3, 5, 10, 20, 50},
			},
		),

		// =======================================================================
		// Collaborators
		// =======================================================================
		PostalLookups: factory.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Subsystem: subsystem,
				Name:      "postal_lookups_total",
				Help:      "Total postal code lookups by outcome",
			},
			[]string{"result"}, // found, not_found, failed
		),
	}
}

// RecordSearch counts a search with a non-empty query.
func (m *StoreMetrics) RecordSearch(query string) {
	if m == nil || query == "" {
		return
	}
	m.Searches.Inc()
}

// RecordFilter counts one listing request per active filter dimension.
func (m *StoreMetrics) RecordFilter(dimensions ...string) {
	if m == nil {
		return
	}
	for _, d := range dimensions {
		m.FiltersApplied.WithLabelValues(d).Inc()
	}
}

// RecordAddToCart counts an add to cart action.
func (m *StoreMetrics) RecordAddToCart(productID string) {
	if m == nil {
		return
	}
	m.AddToCart.WithLabelValues(productID).Inc()
}

// RecordCoupon counts a coupon application outcome.
func (m *StoreMetrics) RecordCoupon(result string) {
	if m == nil {
		return
	}
	m.CouponApplications.WithLabelValues(result).Inc()
}

// RecordOrder counts a placed order and observes its value and size.
func (m *StoreMetrics) RecordOrder(paymentMethod string, total decimal.Decimal, items int) {
	if m == nil {
		return
	}
	m.OrdersPlaced.WithLabelValues(paymentMethod).Inc()
	m.OrderValue.Observe(total.InexactFloat64())
	m.OrderItemCount.Observe(float64(items))
}

// RecordPostalLookup counts a postal code lookup outcome.
func (m *StoreMetrics) RecordPostalLookup(result string) {
	if m == nil {
		return
	}
	m.PostalLookups.WithLabelValues(result).Inc()
}
