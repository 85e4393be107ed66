package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
)

// CommerceMetrics records shopper-facing store activity.
type CommerceMetrics struct {
	cartMutations   *prometheus.CounterVec
	ordersPlaced    prometheus.Counter
	orderTotalCents prometheus.Histogram
	persistWrites   *prometheus.CounterVec
	persistFailures *prometheus.CounterVec
}

// NewCommerceMetrics registers the commerce metrics on the provided registerer.
func NewCommerceMetrics(reg prometheus.Registerer) *CommerceMetrics {
	if reg == nil {
		return &CommerceMetrics{}
	}
	cartMutations := prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "cart_mutations_total",
		Help: "Cart store mutations by operation.",
	}, []string{"op"})
	ordersPlaced := prometheus.NewCounter(prometheus.CounterOpts{
		Name: "orders_placed_total",
		Help: "Successfully placed orders.",
	})
	orderTotalCents := prometheus.NewHistogram(prometheus.HistogramOpts{
		Name:    "order_total_cents",
		Help:    "Order grand totals in cents.",
		Buckets: prometheus.ExponentialBuckets(500, 4, 8),
	})
	persistWrites := prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "state_persist_writes_total",
		Help: "Snapshot writes by store namespace.",
	}, []string{"namespace"})
	persistFailures := prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "state_persist_failures_total",
		Help: "Failed snapshot writes by store namespace.",
	}, []string{"namespace"})
	reg.MustRegister(cartMutations, ordersPlaced, orderTotalCents, persistWrites, persistFailures)
	return &CommerceMetrics{
		cartMutations:   cartMutations,
		ordersPlaced:    ordersPlaced,
		orderTotalCents: orderTotalCents,
		persistWrites:   persistWrites,
		persistFailures: persistFailures,
	}
}

// IncCartMutation counts one cart mutation for the named operation.
func (c *CommerceMetrics) IncCartMutation(op string) {
	if c == nil || c.cartMutations == nil {
		return
	}
	c.cartMutations.WithLabelValues(normalizeLabel(op)).Inc()
}

// ObserveOrderPlaced records a placed order and its grand total.
func (c *CommerceMetrics) ObserveOrderPlaced(totalCents int64) {
	if c == nil || c.ordersPlaced == nil {
		return
	}
	c.ordersPlaced.Inc()
	c.orderTotalCents.Observe(float64(totalCents))
}

// IncPersistWrite counts a snapshot write for the given namespace.
func (c *CommerceMetrics) IncPersistWrite(namespace string) {
	if c == nil || c.persistWrites == nil {
		return
	}
	c.persistWrites.WithLabelValues(normalizeLabel(namespace)).Inc()
}

// IncPersistFailure counts a failed snapshot write for the given namespace.
func (c *CommerceMetrics) IncPersistFailure(namespace string) {
	if c == nil || c.persistFailures == nil {
		return
	}
	c.persistFailures.WithLabelValues(normalizeLabel(namespace)).Inc()
}

func normalizeLabel(value string) string {
	if value == "" {
		return "unknown"
	}
	return value
}
