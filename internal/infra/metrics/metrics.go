package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	BookingsCreated = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: "stayhub",
		Name:      "bookings_created_total",
		Help:      "Bookings accepted, by brand and origin (api or channel mirror).",
	}, []string{"brand", "origin"})

	BookingReplays = promauto.NewCounter(prometheus.CounterOpts{
		Namespace: "stayhub",
		Name:      "booking_replays_total",
		Help:      "Booking requests answered from the idempotency cache.",
	})

	WebhookEventsProcessed = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: "stayhub",
		Name:      "webhook_events_processed_total",
		Help:      "Webhook processing attempts, by event type and outcome.",
	}, []string{"event_type", "outcome"})

	WebhookRetriesEnqueued = promauto.NewCounter(prometheus.CounterOpts{
		Namespace: "stayhub",
		Name:      "webhook_retries_enqueued_total",
		Help:      "Due retries handed back to the worker pool by the poller.",
	})

	WebhookQueueDepth = promauto.NewGauge(prometheus.GaugeOpts{
		Namespace: "stayhub",
		Name:      "webhook_queue_depth",
		Help:      "Events currently waiting in the in-process work queue.",
	})
)
