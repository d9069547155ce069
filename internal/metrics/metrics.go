package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	HTTPRequests = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: "lifora",
		Name:      "http_requests_total",
		Help:      "HTTP requests by method, route and status.",
	}, []string{"method", "route", "status"})

	HTTPDuration = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Namespace: "lifora",
		Name:      "http_request_duration_seconds",
		Help:      "HTTP request latency by method and route.",
		Buckets:   prometheus.DefBuckets,
	}, []string{"method", "route"})

	CommentOperations = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: "lifora",
		Name:      "comment_operations_total",
		Help:      "Comment service operations by op and result kind.",
	}, []string{"op", "result"})
)

// ObserveCommentOp records one service call; result is "ok" or the error kind.
func ObserveCommentOp(op, result string) {
	CommentOperations.WithLabelValues(op, result).Inc()
}
