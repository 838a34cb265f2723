package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// ReactionToggles counts reaction toggles by target kind and outcome (liked, unliked, conflict).
	ReactionToggles = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "vibemusic_reaction_toggles_total",
		Help: "Total number of reaction toggles by target kind and outcome",
	}, []string{"kind", "outcome"})

	// FollowToggles counts follow toggles by outcome (followed, unfollowed, conflict).
	FollowToggles = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "vibemusic_follow_toggles_total",
		Help: "Total number of follow toggles by outcome",
	}, []string{"outcome"})

	// NotificationsSent counts Telegram deliveries by event type and result.
	NotificationsSent = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "vibemusic_notifications_sent_total",
		Help: "Total number of Telegram notifications by event type and result",
	}, []string{"event_type", "result"})

	// UploadRestrictions counts restrictions imposed by the IP change guard.
	UploadRestrictions = promauto.NewCounter(prometheus.CounterOpts{
		Name: "vibemusic_upload_restrictions_total",
		Help: "Total number of upload restrictions imposed by the IP change guard",
	})

	// HTTPRequests counts responses by route pattern, method and status code.
	HTTPRequests = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "vibemusic_http_requests_total",
		Help: "Total number of HTTP responses by route, method and status",
	}, []string{"route", "method", "status"})

	// HTTPDuration records request latency by route pattern.
	HTTPDuration = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "vibemusic_http_request_duration_seconds",
		Help:    "HTTP request latency in seconds",
		Buckets: prometheus.DefBuckets,
	}, []string{"route", "method"})
)
