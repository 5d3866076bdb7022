// Package metrics registers the service's prometheus collectors. Counters
// live on the default registry; the api package exposes them on /metrics.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// EventsReceived counts verified webhook events by declared type.
	EventsReceived = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "billing_webhook_events_total",
		Help: "Verified webhook events received, by Stripe event type.",
	}, []string{"type"})

	// SignatureFailures counts deliveries rejected at signature verification.
	SignatureFailures = promauto.NewCounter(prometheus.CounterOpts{
		Name: "billing_webhook_signature_failures_total",
		Help: "Webhook deliveries rejected for an invalid signature.",
	})

	// EmailsSent counts successful mail submissions by notice kind.
	EmailsSent = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "billing_emails_sent_total",
		Help: "Emails accepted by the mail channel, by notice kind.",
	}, []string{"kind"})

	// EmailFailures counts swallowed mail-channel failures by notice kind.
	EmailFailures = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "billing_email_failures_total",
		Help: "Mail-channel submission failures (logged and swallowed), by notice kind.",
	}, []string{"kind"})

	// RecipientMissing counts notices skipped because no address resolved.
	RecipientMissing = promauto.NewCounter(prometheus.CounterOpts{
		Name: "billing_recipient_missing_total",
		Help: "Notices skipped because no recipient address could be resolved.",
	})

	// QueueDropped counts notices dropped because the dispatch queue was full.
	QueueDropped = promauto.NewCounter(prometheus.CounterOpts{
		Name: "billing_dispatch_queue_dropped_total",
		Help: "Notices dropped because the dispatch queue was full.",
	})
)
