package metrics

import "github.com/prometheus/client_golang/prometheus"

// Metrics bundles the prometheus instruments used across the service. They are
// registered once at startup and injected; handlers and services never create
// instruments of their own.
type Metrics struct {
	HTTPRequests *prometheus.CounterVec
	HTTPDuration *prometheus.HistogramVec

	ordersCreated      *prometheus.CounterVec
	stockReservedUnits prometheus.Counter
	webhookEvents      *prometheus.CounterVec
}

func New(reg prometheus.Registerer) *Metrics {
	m := &Metrics{
		HTTPRequests: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "http_requests_total",
				Help: "Total number of HTTP requests.",
			},
			[]string{"method", "route", "status"},
		),
		HTTPDuration: prometheus.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "http_request_duration_seconds",
				Help:    "Duration of HTTP request handling in seconds.",
				Buckets: prometheus.DefBuckets,
			},
			[]string{"method", "route"},
		),
		ordersCreated: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "orders_created_total",
				Help: "Order creation attempts by outcome.",
			},
			[]string{"outcome"},
		),
		stockReservedUnits: prometheus.NewCounter(
			prometheus.CounterOpts{
				Name: "stock_reserved_units_total",
				Help: "Units of stock reserved by successful order creations.",
			},
		),
		webhookEvents: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "webhook_events_total",
				Help: "Payment webhook deliveries by processing result.",
			},
			[]string{"result"},
		),
	}

	reg.MustRegister(
		m.HTTPRequests,
		m.HTTPDuration,
		m.ordersCreated,
		m.stockReservedUnits,
		m.webhookEvents,
	)
	return m
}

// The recording helpers below are nil-safe so services can run without metrics
// in tests.

func (m *Metrics) OrderCreated(outcome string) {
	if m == nil {
		return
	}
	m.ordersCreated.WithLabelValues(outcome).Inc()
}

func (m *Metrics) StockReserved(units int) {
	if m == nil {
		return
	}
	m.stockReservedUnits.Add(float64(units))
}

func (m *Metrics) WebhookEvent(result string) {
	if m == nil {
		return
	}
	m.webhookEvents.WithLabelValues(result).Inc()
}
