package metrics

import (
	"net/http"
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/shopspring/decimal"

	"github.com/wichananm65/shop-backend/internal/domain/entity"
)

const namespace = "shop"

type ServerMetrics struct {
	Requests  *prometheus.CounterVec
	LatencyMS *prometheus.HistogramVec
}

func NewServerMetrics(reg prometheus.Registerer, service string) *ServerMetrics {
	requests := prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: namespace,
		Subsystem: service,
		Name:      "http_requests_total",
		Help:      "Total number of HTTP requests.",
	}, []string{"handler", "method", "status"})
	latency := prometheus.NewHistogramVec(prometheus.HistogramOpts{
		Namespace: namespace,
		Subsystem: service,
		Name:      "http_request_duration_ms",
		Help:      "HTTP request latency in milliseconds.",
		Buckets:   []float64{5, 10, 25, 50, 100, 250, 500, 1000, 2500, 5000},
	}, []string{"handler", "method"})

	reg.MustRegister(requests, latency)
	return &ServerMetrics{Requests: requests, LatencyMS: latency}
}

func (m *ServerMetrics) Observe(handler, method string, status int, elapsed time.Duration) {
	m.Requests.WithLabelValues(handler, method, strconv.Itoa(status)).Inc()
	m.LatencyMS.WithLabelValues(handler, method).Observe(float64(elapsed) / float64(time.Millisecond))
}

// OrderMetrics counts checkout outcomes and status changes.
type OrderMetrics struct {
	Placed      prometheus.Counter
	Revenue     prometheus.Counter
	Rejected    *prometheus.CounterVec
	Transitions *prometheus.CounterVec
}

func NewOrderMetrics(reg prometheus.Registerer) *OrderMetrics {
	m := &OrderMetrics{
		Placed: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "orders_placed_total",
			Help:      "Orders committed by checkout.",
		}),
		Revenue: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "orders_placed_amount_total",
			Help:      "Sum of order totals at checkout.",
		}),
		Rejected: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "orders_rejected_total",
			Help:      "Checkouts that did not produce an order, by reason.",
		}, []string{"reason"}),
		Transitions: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "order_status_transitions_total",
			Help:      "Order status changes.",
		}, []string{"from", "to"}),
	}
	reg.MustRegister(m.Placed, m.Revenue, m.Rejected, m.Transitions)
	return m
}

func (m *OrderMetrics) OrderPlaced(total decimal.Decimal) {
	m.Placed.Inc()
	m.Revenue.Add(total.InexactFloat64())
}

func (m *OrderMetrics) OrderRejected(reason string) {
	m.Rejected.WithLabelValues(reason).Inc()
}

func (m *OrderMetrics) StatusChanged(from, to entity.OrderStatus) {
	m.Transitions.WithLabelValues(string(from), string(to)).Inc()
}

// Handler serves the metrics gathered by g.
func Handler(g prometheus.Gatherer) http.Handler {
	return promhttp.HandlerFor(g, promhttp.HandlerOpts{})
}
