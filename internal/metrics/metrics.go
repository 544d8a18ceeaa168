package metrics

import "github.com/prometheus/client_golang/prometheus"

var (
	OrdersSubmitted = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "skoll_orders_submitted_total",
			Help: "Total number of limit orders accepted",
		},
		[]string{"symbol", "side"},
	)
	TradesExecuted = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "skoll_trades_executed_total",
			Help: "Total number of trades executed",
		},
		[]string{"symbol"},
	)
	TradedQuantity = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "skoll_traded_quantity_total",
			Help: "Total quantity filled across all trades",
		},
		[]string{"symbol"},
	)
	CancelRequests = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "skoll_cancel_requests_total",
			Help: "Total number of cancel requests by result",
		},
		[]string{"symbol", "result"},
	)
	StreamClients = prometheus.NewGaugeVec(
		prometheus.GaugeOpts{
			Name: "skoll_stream_clients",
			Help: "Currently connected WebSocket stream clients",
		},
		[]string{"stream"},
	)
	HTTPRequestDuration = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Name: "skoll_http_request_duration_seconds",
			Help: "Duration of HTTP requests in seconds",
		},
		[]string{"method", "route", "status"},
	)
)

// Init registers all collectors on the default registry. Call once at
// startup, before the HTTP server starts serving /metrics.
func Init() {
	prometheus.MustRegister(OrdersSubmitted)
	prometheus.MustRegister(TradesExecuted)
	prometheus.MustRegister(TradedQuantity)
	prometheus.MustRegister(CancelRequests)
	prometheus.MustRegister(StreamClients)
	prometheus.MustRegister(HTTPRequestDuration)
}
