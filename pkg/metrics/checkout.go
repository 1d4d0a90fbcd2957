package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

// CheckoutMetrics records order submissions and payment gateway outcomes.
type CheckoutMetrics struct {
	ordersPlaced    *prometheus.CounterVec
	paymentOutcomes *prometheus.CounterVec
	gatewayLatency  *prometheus.HistogramVec
}

// NewCheckoutMetrics registers the checkout metrics on the provided registerer.
func NewCheckoutMetrics(reg prometheus.Registerer) *CheckoutMetrics {
	if reg == nil {
		return &CheckoutMetrics{}
	}
	ordersPlaced := prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "orders_placed_total",
		Help: "Orders accepted by the submission pipeline.",
	}, []string{"payment_method"})
	paymentOutcomes := prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "payment_initiations_total",
		Help: "Payment gateway initiation outcomes.",
	}, []string{"outcome"})
	gatewayLatency := prometheus.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "payment_gateway_duration_seconds",
		Help:    "Duration of payment gateway round trips in seconds.",
		Buckets: prometheus.DefBuckets,
	}, []string{"outcome"})
	reg.MustRegister(ordersPlaced, paymentOutcomes, gatewayLatency)
	return &CheckoutMetrics{
		ordersPlaced:    ordersPlaced,
		paymentOutcomes: paymentOutcomes,
		gatewayLatency:  gatewayLatency,
	}
}

// IncOrderPlaced increments the order counter for the payment method.
func (c *CheckoutMetrics) IncOrderPlaced(paymentMethod string) {
	if c == nil || c.ordersPlaced == nil {
		return
	}
	c.ordersPlaced.WithLabelValues(normalizeLabel(paymentMethod)).Inc()
}

// ObserveGateway records one gateway round trip with its outcome.
func (c *CheckoutMetrics) ObserveGateway(outcome string, duration time.Duration) {
	if c == nil {
		return
	}
	label := normalizeLabel(outcome)
	if c.paymentOutcomes != nil {
		c.paymentOutcomes.WithLabelValues(label).Inc()
	}
	if c.gatewayLatency != nil {
		c.gatewayLatency.WithLabelValues(label).Observe(duration.Seconds())
	}
}

func normalizeLabel(value string) string {
	if value == "" {
		return "unknown"
	}
	return value
}
