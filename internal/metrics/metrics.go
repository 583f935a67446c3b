// Package metrics holds the Prometheus collectors exported on /metrics.
package metrics

import (
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

const namespace = "filmorate"

var (
	// httpRequests counts handled requests.
	// Labels: method, route (mux 路由模板), status
	httpRequests = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: namespace,
		Subsystem: "http",
		Name:      "requests_total",
		Help:      "Total HTTP requests handled by the API server",
	}, []string{"method", "route", "status"})

	// httpDuration measures request latency.
	httpDuration = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Namespace: namespace,
		Subsystem: "http",
		Name:      "request_duration_seconds",
		Help:      "HTTP request latency in seconds",
		Buckets:   prometheus.DefBuckets,
	}, []string{"method", "route"})

	// likeChanges counts applied like mutations.
	// Labels: action (added, removed, duplicate)
	likeChanges = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: namespace,
		Subsystem: "likes",
		Name:      "changes_total",
		Help:      "Like mutations by outcome",
	}, []string{"action"})

	// friendshipChanges counts friendship mutations.
	// Labels: action (added, removed)
	friendshipChanges = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: namespace,
		Subsystem: "friendships",
		Name:      "changes_total",
		Help:      "Friendship mutations by outcome",
	}, []string{"action"})

	// eventPublishFailures counts activity events that could not be published.
	eventPublishFailures = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: namespace,
		Subsystem: "events",
		Name:      "publish_failures_total",
		Help:      "Activity events dropped because publishing failed",
	}, []string{"type"})

	// activityDeliveries counts events pushed to WebSocket clients.
	// Labels: result (delivered, dropped)
	activityDeliveries = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: namespace,
		Subsystem: "activity",
		Name:      "deliveries_total",
		Help:      "Activity events pushed to WebSocket clients",
	}, []string{"result"})

	// activityClients tracks connected WebSocket clients.
	activityClients = promauto.NewGauge(prometheus.GaugeOpts{
		Namespace: namespace,
		Subsystem: "activity",
		Name:      "connected_clients",
		Help:      "Currently connected WebSocket clients",
	})
)

// ObserveHTTP records one handled request.
func ObserveHTTP(method, route string, status int, elapsed time.Duration) {
	httpRequests.WithLabelValues(method, route, strconv.Itoa(status)).Inc()
	httpDuration.WithLabelValues(method, route).Observe(elapsed.Seconds())
}

// LikeChanged records a like mutation outcome.
func LikeChanged(action string) {
	likeChanges.WithLabelValues(action).Inc()
}

// FriendshipChanged records a friendship mutation outcome.
func FriendshipChanged(action string) {
	friendshipChanges.WithLabelValues(action).Inc()
}

// EventPublishFailed records a dropped activity event.
func EventPublishFailed(eventType string) {
	eventPublishFailures.WithLabelValues(eventType).Inc()
}

// ActivityDelivered records a push attempt to a WebSocket client.
func ActivityDelivered(delivered bool) {
	result := "delivered"
	if !delivered {
		result = "dropped"
	}
	activityDeliveries.WithLabelValues(result).Inc()
}

// SetActivityClients updates the connected client gauge.
func SetActivityClients(n int) {
	activityClients.Set(float64(n))
}
