// Package metrics 提供 Prometheus helper，包含常用 counter/histogram 模板与业务指标
package metrics

import (
	"context"
	"fmt"
	"net/http"
	"strconv"

	"github.com/ecomm-platform/ecomm/pkg/logger"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Metrics 指标集合
type Metrics struct {
	// HTTP 请求计数
	HTTPRequestsTotal *prometheus.CounterVec
	// HTTP 请求耗时
	HTTPRequestDuration *prometheus.HistogramVec

	// 数据库查询计数
	DBQueriesTotal prometheus.Counter
	// 数据库查询耗时
	DBQueryDuration prometheus.Histogram

	// 业务指标
	UsersRegisteredTotal prometheus.Counter
	ProductsCreatedTotal prometheus.Counter
	CartItemsAddedTotal  prometheus.Counter
	OrdersPlacedTotal    prometheus.Counter
	OrdersRejectedTotal  *prometheus.CounterVec
}

// New 创建指标实例
func New(serviceName string) *Metrics {
	return &Metrics{
		HTTPRequestsTotal: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "ecomm",
			Subsystem: serviceName,
			Name:      "http_requests_total",
			Help:      "Total HTTP requests",
		}, []string{"method", "path", "status"}),
		HTTPRequestDuration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: "ecomm",
			Subsystem: serviceName,
			Name:      "http_request_duration_seconds",
			Help:      "HTTP request duration in seconds",
			Buckets:   prometheus.DefBuckets,
		}, []string{"method", "path"}),

		DBQueriesTotal: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "ecomm",
			Subsystem: serviceName,
			Name:      "db_queries_total",
			Help:      "Total database queries",
		}),
		DBQueryDuration: prometheus.NewHistogram(prometheus.HistogramOpts{
			Namespace: "ecomm",
			Subsystem: serviceName,
			Name:      "db_query_duration_seconds",
			Help:      "Database query duration in seconds",
			Buckets:   prometheus.DefBuckets,
		}),

		UsersRegisteredTotal: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "ecomm",
			Subsystem: serviceName,
			Name:      "users_registered_total",
			Help:      "Total users registered",
		}),
		ProductsCreatedTotal: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "ecomm",
			Subsystem: serviceName,
			Name:      "products_created_total",
			Help:      "Total products created",
		}),
		CartItemsAddedTotal: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "ecomm",
			Subsystem: serviceName,
			Name:      "cart_items_added_total",
			Help:      "Total cart item additions",
		}),
		OrdersPlacedTotal: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "ecomm",
			Subsystem: serviceName,
			Name:      "orders_placed_total",
			Help:      "Total orders placed",
		}),
		OrdersRejectedTotal: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "ecomm",
			Subsystem: serviceName,
			Name:      "orders_rejected_total",
			Help:      "Total order placements rejected",
		}, []string{"reason"}),
	}
}

// Register 注册所有指标
func (m *Metrics) Register() error {
	collectors := []prometheus.Collector{
		m.HTTPRequestsTotal,
		m.HTTPRequestDuration,
		m.DBQueriesTotal,
		m.DBQueryDuration,
		m.UsersRegisteredTotal,
		m.ProductsCreatedTotal,
		m.CartItemsAddedTotal,
		m.OrdersPlacedTotal,
		m.OrdersRejectedTotal,
	}

	for _, collector := range collectors {
		if err := prometheus.DefaultRegisterer.Register(collector); err != nil {
			logger.Error(context.Background(), "Failed to register metric", "error", err)
			return err
		}
	}

	return nil
}

// RecordHTTPRequest 记录 HTTP 请求
func (m *Metrics) RecordHTTPRequest(method, path string, statusCode int, duration float64) {
	m.HTTPRequestsTotal.WithLabelValues(method, path, strconv.Itoa(statusCode)).Inc()
	m.HTTPRequestDuration.WithLabelValues(method, path).Observe(duration)
}

// RecordDBQuery 记录数据库查询
func (m *Metrics) RecordDBQuery(duration float64) {
	m.DBQueriesTotal.Inc()
	m.DBQueryDuration.Observe(duration)
}

// StartHTTPServer 启动 Prometheus HTTP 服务器
func StartHTTPServer(port int, path string) {
	if path == "" {
		path = "/metrics"
	}

	mux := http.NewServeMux()
	mux.Handle(path, promhttp.Handler())

	addr := fmt.Sprintf(":%d", port)
	logger.Info(context.Background(), "Starting Prometheus HTTP server", "addr", addr, "path", path)

	go func() {
		if err := http.ListenAndServe(addr, mux); err != nil {
			logger.Error(context.Background(), "Failed to start Prometheus HTTP server", "error", err)
		}
	}()
}
