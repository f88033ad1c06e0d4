// Package metrics holds the prometheus collectors exported by the catalog service.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
)

const namespace = "catalog"

// Metrics groups every collector the service updates.
type Metrics struct {
	ProductsCreated prometheus.Counter
	ProductLists    *prometheus.CounterVec
	HTTPRequests    *prometheus.CounterVec
	HTTPDuration    *prometheus.HistogramVec
}

// New creates the collectors and registers them with reg.
func New(reg prometheus.Registerer) *Metrics {
	m := &Metrics{
		ProductsCreated: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "products_created_total",
			Help:      "Number of products stored.",
		}),
		ProductLists: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "product_lists_total",
			Help:      "Number of product list queries by filter type.",
		}, []string{"filter"}),
		HTTPRequests: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "http_requests_total",
			Help:      "Number of HTTP requests by method, route and status code.",
		}, []string{"method", "route", "status"}),
		HTTPDuration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "http_request_duration_seconds",
			Help:      "HTTP request latency by method and route.",
			Buckets:   prometheus.DefBuckets,
		}, []string{"method", "route"}),
	}
	reg.MustRegister(m.ProductsCreated, m.ProductLists, m.HTTPRequests, m.HTTPDuration)
	return m
}
