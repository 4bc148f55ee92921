package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

// CheckoutMetrics records order assembly and payment reconciliation outcomes.
type CheckoutMetrics struct {
	orderDuration  *prometheus.HistogramVec
	ordersCreated  *prometheus.CounterVec
	ordersFailed   *prometheus.CounterVec
	paymentsVerify *prometheus.CounterVec
}

// NewCheckoutMetrics registers the checkout metrics on the provided registerer.
func NewCheckoutMetrics(reg prometheus.Registerer) *CheckoutMetrics {
	if reg == nil {
		return &CheckoutMetrics{}
	}
	orderDuration := prometheus.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "order_create_duration_seconds",
		Help:    "Duration of order assembly in seconds.",
		Buckets: prometheus.DefBuckets,
	}, []string{"payment_method"})
	ordersCreated := prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "orders_created_total",
		Help: "Successfully assembled orders.",
	}, []string{"payment_method"})
	ordersFailed := prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "orders_failed_total",
		Help: "Order assembly attempts rejected or failed.",
	}, []string{"payment_method", "reason"})
	paymentsVerify := prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "payment_verifications_total",
		Help: "Payment verification attempts by outcome.",
	}, []string{"outcome"})
	reg.MustRegister(orderDuration, ordersCreated, ordersFailed, paymentsVerify)
	return &CheckoutMetrics{
		orderDuration:  orderDuration,
		ordersCreated:  ordersCreated,
		ordersFailed:   ordersFailed,
		paymentsVerify: paymentsVerify,
	}
}

// ObserveOrderDuration records how long order assembly took.
func (c *CheckoutMetrics) ObserveOrderDuration(paymentMethod string, duration time.Duration) {
	if c == nil || c.orderDuration == nil {
		return
	}
	c.orderDuration.WithLabelValues(normalizeLabel(paymentMethod)).Observe(duration.Seconds())
}

// IncOrderCreated increments the created counter for the payment method.
func (c *CheckoutMetrics) IncOrderCreated(paymentMethod string) {
	if c == nil || c.ordersCreated == nil {
		return
	}
	c.ordersCreated.WithLabelValues(normalizeLabel(paymentMethod)).Inc()
}

// IncOrderFailed increments the failed counter with a reason label.
func (c *CheckoutMetrics) IncOrderFailed(paymentMethod, reason string) {
	if c == nil || c.ordersFailed == nil {
		return
	}
	c.ordersFailed.WithLabelValues(normalizeLabel(paymentMethod), normalizeLabel(reason)).Inc()
}

// IncPaymentVerification counts a verification attempt by outcome.
func (c *CheckoutMetrics) IncPaymentVerification(outcome string) {
	if c == nil || c.paymentsVerify == nil {
		return
	}
	c.paymentsVerify.WithLabelValues(normalizeLabel(outcome)).Inc()
}

func normalizeLabel(value string) string {
	if value == "" {
		return "unknown"
	}
	return value
}
